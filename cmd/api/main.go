package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"dairy-herd-manager/internal/adapters/auth/jwt"
	"dairy-herd-manager/internal/adapters/auth/remote"
	rediscache "dairy-herd-manager/internal/adapters/cache/redis"
	"dairy-herd-manager/internal/adapters/capabilities/roles"
	"dairy-herd-manager/internal/adapters/storage/postgres"
	"dairy-herd-manager/internal/platform/config"
	"dairy-herd-manager/internal/platform/logger"
	"dairy-herd-manager/internal/platform/metrics"
	"dairy-herd-manager/internal/ports/auth"
	"dairy-herd-manager/internal/router"
)

// @title       Dairy Herd Manager API
// @version     1.0
// @description Gestión de rodeo lechero: animales, sanidad, configuración por granja e inventario.
// @BasePath    /
// @securityDefinitions.apikey BearerAuth
// @in          header
// @name        Authorization
func main() {
	cfg := config.LoadFromEnv()

	log, err := logger.NewFromEnv()
	if err != nil {
		log = logger.Nop()
	}
	defer logger.Sync(log)

	if err := run(cfg, log); err != nil {
		log.Error("server stopped with error", map[string]any{"err": err})
		logger.Sync(log)
		os.Exit(1)
	}
}

func run(cfg config.Config, log logger.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	opts := router.Options{
		Logger:       log,
		Metrics:      metrics.New(),
		Capabilities: roles.NewResolver(cfg.OverrideRoles),
		SettingsTTL:  cfg.Redis.TTL,
	}

	if cfg.DatabaseDSN != "" {
		conn, err := postgres.Open(cfg.DatabaseDSN)
		if err != nil {
			return err
		}
		defer conn.Close()

		if err := postgres.Migrate(ctx, conn); err != nil {
			return err
		}
		opts.DB = conn
		log.Info("using postgres storage", nil)
	} else {
		log.Warn("DB_DSN not set, using in-memory storage", nil)
	}

	if cfg.Redis.Enabled() {
		rdb := rediscache.NewClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		defer rdb.Close()

		if err := rediscache.Ping(ctx, rdb); err != nil {
			// Sin cache se sigue funcionando contra el repo.
			log.Warn("redis unavailable, settings cache disabled", map[string]any{"err": err, "addr": cfg.Redis.Addr})
		} else {
			opts.Redis = rdb
		}
	}

	verifier, err := buildVerifier(cfg, log)
	if err != nil {
		return err
	}
	opts.AuthVerifier = verifier

	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      router.NewRouter(opts),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("starting server", map[string]any{"addr": srv.Addr})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down", nil)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// JWT local si hay secreto; si no, servicio de identidad; si no, modo dev (headers X-Debug-*).
func buildVerifier(cfg config.Config, log logger.Logger) (auth.AuthVerifier, error) {
	if cfg.JWTSecret != "" {
		v, err := jwt.NewVerifier(cfg.JWTSecret, cfg.JWTIssuer)
		if err != nil {
			return nil, err
		}
		log.Info("auth: local jwt verifier", nil)
		return v, nil
	}
	if cfg.Identity.Enabled() {
		v, err := remote.NewVerifier(remote.Config{
			BaseURL: cfg.Identity.BaseURL,
			APIKey:  cfg.Identity.APIKey,
			Timeout: cfg.Identity.Timeout,
		})
		if err != nil {
			return nil, err
		}
		log.Info("auth: remote identity verifier", map[string]any{"base_url": cfg.Identity.BaseURL})
		return v, nil
	}
	log.Warn("auth: no verifier configured, accepting X-Debug-* headers", nil)
	return nil, nil
}
