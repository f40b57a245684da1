package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config agrupa la configuración del proceso. Se carga una vez en main.
type Config struct {
	Port string

	ReadTimeout  time.Duration
	WriteTimeout time.Duration

	// DB_DSN vacío => repos in-memory (modo dev).
	DatabaseDSN string

	Redis RedisConfig

	// JWT_SECRET vacío => no hay verifier local.
	JWTSecret string
	JWTIssuer string

	Identity IdentityConfig

	// Roles que pueden forzar un estado productivo fuera del rango permitido.
	OverrideRoles []string
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	TTL      time.Duration
}

func (c RedisConfig) Enabled() bool {
	return strings.TrimSpace(c.Addr) != ""
}

// IdentityConfig apunta al servicio externo de identidad (verificación remota de tokens).
type IdentityConfig struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
}

func (c IdentityConfig) Enabled() bool {
	return strings.TrimSpace(c.BaseURL) != "" && strings.TrimSpace(c.APIKey) != ""
}

func Default() Config {
	return Config{
		Port:          "8080",
		ReadTimeout:   5 * time.Second,
		WriteTimeout:  10 * time.Second,
		Redis:         RedisConfig{TTL: 5 * time.Minute},
		Identity:      IdentityConfig{Timeout: 5 * time.Second},
		OverrideRoles: []string{"owner", "manager", "veterinarian"},
	}
}

// LoadFromEnv parte de Default() y pisa con lo que venga por env.
func LoadFromEnv() Config {
	c := Default()
	c.loadFromEnv(os.Getenv)
	return c
}

func (c *Config) loadFromEnv(getenv func(string) string) {
	if v := strings.TrimSpace(getenv("PORT")); v != "" {
		c.Port = v
	}
	if d, ok := parseDuration(getenv("READ_TIMEOUT")); ok {
		c.ReadTimeout = d
	}
	if d, ok := parseDuration(getenv("WRITE_TIMEOUT")); ok {
		c.WriteTimeout = d
	}

	c.DatabaseDSN = strings.TrimSpace(getenv("DB_DSN"))

	c.Redis.Addr = strings.TrimSpace(getenv("REDIS_ADDR"))
	c.Redis.Password = getenv("REDIS_PASSWORD")
	if v := strings.TrimSpace(getenv("REDIS_DB")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			c.Redis.DB = n
		}
	}
	if d, ok := parseDuration(getenv("SETTINGS_CACHE_TTL")); ok {
		c.Redis.TTL = d
	}

	c.JWTSecret = getenv("JWT_SECRET")
	c.JWTIssuer = strings.TrimSpace(getenv("JWT_ISSUER"))

	c.Identity.BaseURL = strings.TrimSpace(getenv("IDENTITY_BASE_URL"))
	c.Identity.APIKey = strings.TrimSpace(getenv("IDENTITY_API_KEY"))
	if d, ok := parseDuration(getenv("IDENTITY_TIMEOUT")); ok {
		c.Identity.Timeout = d
	}

	if v := strings.TrimSpace(getenv("OVERRIDE_ROLES")); v != "" {
		roles := make([]string, 0)
		for _, r := range strings.Split(v, ",") {
			r = strings.ToLower(strings.TrimSpace(r))
			if r != "" {
				roles = append(roles, r)
			}
		}
		c.OverrideRoles = roles
	}
}

func (c Config) Addr() string {
	return ":" + strings.TrimPrefix(c.Port, ":")
}

func parseDuration(raw string) (time.Duration, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, false
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		return 0, false
	}
	return d, true
}
