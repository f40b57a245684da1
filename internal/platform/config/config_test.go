package config

import (
	"reflect"
	"testing"
	"time"
)

func envMap(m map[string]string) func(string) string {
	return func(k string) string { return m[k] }
}

func TestLoadFromEnv_Defaults(t *testing.T) {
	c := Default()
	c.loadFromEnv(envMap(nil))

	if c.Addr() != ":8080" {
		t.Fatalf("expected :8080, got %s", c.Addr())
	}
	if c.DatabaseDSN != "" || c.Redis.Enabled() || c.Identity.Enabled() {
		t.Fatalf("expected dev-mode defaults, got %+v", c)
	}
	if c.Redis.TTL != 5*time.Minute {
		t.Fatalf("unexpected ttl %s", c.Redis.TTL)
	}
}

func TestLoadFromEnv_Overrides(t *testing.T) {
	c := Default()
	c.loadFromEnv(envMap(map[string]string{
		"PORT":               "9000",
		"DB_DSN":             "postgres://localhost/dairy",
		"REDIS_ADDR":         "localhost:6379",
		"REDIS_DB":           "2",
		"SETTINGS_CACHE_TTL": "30s",
		"READ_TIMEOUT":       "not-a-duration",
		"IDENTITY_BASE_URL":  "https://id.example.com",
		"IDENTITY_API_KEY":   "k",
		"OVERRIDE_ROLES":     " Owner, ,vet ",
		"JWT_ISSUER":         " dairy-id ",
	}))

	if c.Addr() != ":9000" {
		t.Fatalf("unexpected addr %s", c.Addr())
	}
	if !c.Redis.Enabled() || c.Redis.DB != 2 || c.Redis.TTL != 30*time.Second {
		t.Fatalf("unexpected redis config %+v", c.Redis)
	}
	if c.ReadTimeout != 5*time.Second {
		t.Fatalf("invalid duration must keep default, got %s", c.ReadTimeout)
	}
	if !c.Identity.Enabled() {
		t.Fatalf("expected identity enabled")
	}
	if c.JWTIssuer != "dairy-id" {
		t.Fatalf("unexpected issuer %q", c.JWTIssuer)
	}
	if !reflect.DeepEqual(c.OverrideRoles, []string{"owner", "vet"}) {
		t.Fatalf("unexpected roles %v", c.OverrideRoles)
	}
}
