package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, 72*time.Hour, cfg.AccessTTL)
	assert.Equal(t, 10*time.Minute, cfg.ResetTTL)
	assert.Equal(t, "db/migrations", cfg.MigrationsDir)
}

func TestValidateRequiresIdentitySettings(t *testing.T) {
	cfg := Load()
	err := cfg.Validate()
	require.Error(t, err)
	assert.ErrorContains(t, err, "APP_NAME")
	assert.ErrorContains(t, err, "JWT_SECRET")
	assert.ErrorContains(t, err, "JWT_ISSUER")
	assert.ErrorContains(t, err, "JWT_AUDIENCE")

	t.Setenv("APP_NAME", "Frontfolio")
	t.Setenv("JWT_SECRET", "s")
	t.Setenv("JWT_ISSUER", "i")
	t.Setenv("JWT_AUDIENCE", "a")
	assert.NoError(t, Load().Validate())

	// Any one missing setting is still fatal.
	t.Setenv("APP_NAME", "")
	err = Load().Validate()
	require.Error(t, err)
	assert.ErrorContains(t, err, "APP_NAME")
	assert.NotContains(t, err.Error(), "JWT_SECRET")
}

func TestOverridesFromEnv(t *testing.T) {
	t.Setenv("JWT_ACCESS_TTL", "30m")
	t.Setenv("DB_MAX_CONNS", "25")
	t.Setenv("COOKIE_SECURE", "true")

	cfg := Load()
	assert.Equal(t, 30*time.Minute, cfg.AccessTTL)
	assert.Equal(t, int32(25), cfg.DBMaxConns)
	assert.True(t, cfg.CookieSecure)
}

func TestInvalidEnvFallsBackToDefault(t *testing.T) {
	t.Setenv("JWT_ACCESS_TTL", "not-a-duration")
	t.Setenv("DB_MAX_CONNS", "not-a-number")
	t.Setenv("COOKIE_SECURE", "not-a-bool")

	cfg := Load()
	assert.Equal(t, 72*time.Hour, cfg.AccessTTL)
	assert.Equal(t, int32(10), cfg.DBMaxConns)
	assert.False(t, cfg.CookieSecure)
}

func TestPostgresDSN(t *testing.T) {
	t.Setenv("DB_USER", "app")
	t.Setenv("DB_PASSWORD", "pw")
	t.Setenv("DB_HOST", "db.internal")
	t.Setenv("DB_PORT", "5433")
	t.Setenv("DB_NAME", "frontfolio")
	t.Setenv("DB_SSLMODE", "require")

	dsn := Load().PostgresDSN()
	assert.Equal(t, "postgres://app:pw@db.internal:5433/frontfolio?sslmode=require", dsn)
}

func TestCSVSettings(t *testing.T) {
	t.Setenv("CORS_ALLOWED_ORIGINS", " https://a.example.com, https://b.example.com ,")
	t.Setenv("ELASTICSEARCH_ADDRS", "http://es1:9200,http://es2:9200")

	cfg := Load()
	assert.Equal(t, []string{"https://a.example.com", "https://b.example.com"}, cfg.CORSOrigins())
	assert.Equal(t, []string{"http://es1:9200", "http://es2:9200"}, cfg.ESAddrs())
}
