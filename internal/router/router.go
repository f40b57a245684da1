package router

import (
	"database/sql"
	"net/http"
	"time"

	_ "dairy-herd-manager/docs"
	rediscache "dairy-herd-manager/internal/adapters/cache/redis"
	"dairy-herd-manager/internal/adapters/capabilities/roles"
	mem "dairy-herd-manager/internal/adapters/storage/memory"
	pg "dairy-herd-manager/internal/adapters/storage/postgres"
	"dairy-herd-manager/internal/domain/animals"
	"dairy-herd-manager/internal/domain/healthrecords"
	"dairy-herd-manager/internal/domain/inventory"
	"dairy-herd-manager/internal/domain/settings"
	"dairy-herd-manager/internal/middleware"
	"dairy-herd-manager/internal/platform/config"
	"dairy-herd-manager/internal/platform/logger"
	"dairy-herd-manager/internal/platform/metrics"
	"dairy-herd-manager/internal/ports/auth"
	"dairy-herd-manager/internal/ports/capabilities"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	goredis "github.com/go-redis/redis/v8"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"
)

type Options struct {
	AuthVerifier auth.AuthVerifier // puede ser nil (modo dev)

	// Opcional: si viene, usa Postgres. Si no, in-memory.
	DB *sql.DB

	// Opcional: cache read-through de la configuración por granja.
	Redis       goredis.Cmdable
	SettingsTTL time.Duration

	Logger  logger.Logger
	Metrics *metrics.Metrics

	// nil => resolver por rol con los roles de override por defecto.
	Capabilities capabilities.CapabilitiesResolver
}

func NewRouter(opts Options) http.Handler {
	log := opts.Logger
	if log == nil {
		log = logger.Nop()
	}
	m := opts.Metrics
	if m == nil {
		m = metrics.New()
	}
	caps := opts.Capabilities
	if caps == nil {
		caps = roles.NewResolver(config.Default().OverrideRoles)
	}

	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.RequestLogger(log))
	r.Use(chimw.Recoverer)
	r.Use(middleware.Metrics(m))

	r.Use(middleware.AuthContext(opts.AuthVerifier))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Handle("/metrics", promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{}))
	r.Get("/swagger/*", httpSwagger.WrapHandler)

	var (
		animalRepo    animals.Repository
		recordRepo    healthrecords.Repository
		determiner    healthrecords.StatusDeterminer
		settingsRepo  settings.Repository
		inventoryRepo inventory.Repository
	)

	if opts.DB != nil {
		animalRepo = pg.NewAnimalsRepo(opts.DB)
		records := pg.NewHealthRecordsRepo(opts.DB)
		recordRepo, determiner = records, records
		settingsRepo = pg.NewSettingsRepo(opts.DB)
		inventoryRepo = pg.NewInventoryRepo(opts.DB)
	} else {
		animalRepo = mem.NewAnimalsRepo()
		records := mem.NewHealthRecordsRepo()
		recordRepo, determiner = records, records
		settingsRepo = mem.NewSettingsRepo()
		inventoryRepo = mem.NewInventoryRepo()
	}

	if opts.Redis != nil {
		settingsRepo = rediscache.NewSettingsCache(settingsRepo, opts.Redis, opts.SettingsTTL, log)
	}

	// Services por módulo
	settingsSvc := settings.NewService(settingsRepo)
	recordsSvc := healthrecords.NewService(recordRepo, healthrecords.Deps{
		Animals:    animals.NewHealthDirectory(animalRepo),
		Determiner: determiner,
		Logger:     log,
		Metrics:    m,
	})
	animalsSvc := animals.NewService(animalRepo, animals.Deps{
		Settings:     settingsSvc,
		Capabilities: caps,
		AutoRecords:  recordsSvc,
		Logger:       log,
	})
	inventorySvc := inventory.NewService(inventoryRepo)

	// Rutas por módulo
	animals.RegisterRoutes(r, animalsSvc)
	healthrecords.RegisterRoutes(r, recordsSvc)
	settings.RegisterRoutes(r, settingsSvc, caps)
	inventory.RegisterRoutes(r, inventorySvc)

	return r
}
