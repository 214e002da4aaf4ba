package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultsWithMemoryBackend(t *testing.T) {
	t.Setenv("STORE_BACKEND", "memory")

	cfg, err := fromEnv()
	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.Address())
	assert.Equal(t, 30*time.Minute, cfg.SessionTTL)
	assert.Equal(t, 5*time.Minute, cfg.OTPTTL)
	assert.Equal(t, 0, cfg.LoginRateLimit)
	assert.False(t, cfg.RunMigrations)
	assert.NotEmpty(t, cfg.SessionSecret)
}

func TestPostgresRequiresDatabaseURL(t *testing.T) {
	t.Setenv("STORE_BACKEND", "postgres")
	t.Setenv("DATABASE_URL", "")

	_, err := fromEnv()
	assert.ErrorContains(t, err, "DATABASE_URL")
}

func TestSupabaseRequiresCredentials(t *testing.T) {
	t.Setenv("STORE_BACKEND", "supabase")
	t.Setenv("SUPABASE_URL", "https://example.supabase.co")
	t.Setenv("SUPABASE_SERVICE_KEY", "")

	_, err := fromEnv()
	assert.ErrorContains(t, err, "SUPABASE")
}

func TestProductionRequiresSessionSecret(t *testing.T) {
	t.Setenv("STORE_BACKEND", "memory")
	t.Setenv("APP_ENV", "production")
	t.Setenv("SESSION_SECRET", "")

	_, err := fromEnv()
	assert.ErrorContains(t, err, "SESSION_SECRET")
}

func TestDurationsAndLimits(t *testing.T) {
	t.Setenv("STORE_BACKEND", "memory")
	t.Setenv("SESSION_TTL", "1h")
	t.Setenv("OTP_TTL", "90s")
	t.Setenv("LOGIN_RATE_LIMIT", "5")
	t.Setenv("SHUTDOWN_TIMEOUT_SECONDS", "3")
	t.Setenv("RUN_MIGRATIONS", "true")

	cfg, err := fromEnv()
	require.NoError(t, err)
	assert.Equal(t, time.Hour, cfg.SessionTTL)
	assert.Equal(t, 90*time.Second, cfg.OTPTTL)
	assert.Equal(t, 5, cfg.LoginRateLimit)
	assert.Equal(t, 3*time.Second, cfg.ShutdownPeriod)
	assert.True(t, cfg.RunMigrations)
}

func TestRejectsUnknownBackend(t *testing.T) {
	t.Setenv("STORE_BACKEND", "sqlite")

	_, err := fromEnv()
	assert.Error(t, err)
}

func TestRejectsNegativeRateLimit(t *testing.T) {
	t.Setenv("STORE_BACKEND", "memory")
	t.Setenv("LOGIN_RATE_LIMIT", "-1")

	_, err := fromEnv()
	assert.Error(t, err)
}
