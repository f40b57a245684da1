package redis

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"dairy-herd-manager/internal/domain/settings"
	"dairy-herd-manager/internal/platform/logger"

	goredis "github.com/go-redis/redis/v8"
)

const keyPrefix = "dairy:settings:"

// NewClient arma el cliente go-redis desde la config del proceso.
func NewClient(addr, password string, db int) *goredis.Client {
	return goredis.NewClient(&goredis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
}

func Ping(ctx context.Context, c goredis.Cmdable) error {
	return c.Ping(ctx).Err()
}

// SettingsCache es un read-through delante del repositorio de configuración.
// Si Redis falla se loguea y se sirve desde el repositorio: el cache nunca rompe un request.
type SettingsCache struct {
	next settings.Repository
	rdb  goredis.Cmdable
	ttl  time.Duration
	log  logger.Logger
}

func NewSettingsCache(next settings.Repository, rdb goredis.Cmdable, ttl time.Duration, log logger.Logger) *SettingsCache {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	if log == nil {
		log = logger.Nop()
	}
	return &SettingsCache{next: next, rdb: rdb, ttl: ttl, log: log}
}

func (c *SettingsCache) Get(ctx context.Context, farmID string) (settings.FarmSettings, error) {
	key := keyPrefix + farmID

	raw, err := c.rdb.Get(ctx, key).Result()
	switch {
	case err == nil:
		var fs settings.FarmSettings
		uerr := json.Unmarshal([]byte(raw), &fs)
		if uerr == nil {
			return fs, nil
		}
		c.log.Warn("settings cache entry unreadable", map[string]any{"farm_id": farmID, "err": uerr})
	case errors.Is(err, goredis.Nil):
		// miss
	default:
		c.log.Warn("settings cache get failed", map[string]any{"farm_id": farmID, "err": err})
	}

	fs, err := c.next.Get(ctx, farmID)
	if err != nil {
		// ErrNotFound no se cachea: el servicio devuelve defaults.
		return settings.FarmSettings{}, err
	}

	if b, merr := json.Marshal(fs); merr == nil {
		if serr := c.rdb.Set(ctx, key, b, c.ttl).Err(); serr != nil {
			c.log.Warn("settings cache set failed", map[string]any{"farm_id": farmID, "err": serr})
		}
	}
	return fs, nil
}

// Save escribe en el repositorio y luego invalida la entrada.
func (c *SettingsCache) Save(ctx context.Context, fs settings.FarmSettings) error {
	if err := c.next.Save(ctx, fs); err != nil {
		return err
	}
	if err := c.rdb.Del(ctx, keyPrefix+fs.FarmID).Err(); err != nil {
		c.log.Warn("settings cache invalidate failed", map[string]any{"farm_id": fs.FarmID, "err": err})
	}
	return nil
}
