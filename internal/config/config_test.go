package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDevDefaults(t *testing.T) {
	t.Setenv("APP_ENV", "development")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.Address())
	assert.Equal(t, 30*time.Minute, cfg.WizardIdleTTL)
	assert.Equal(t, 24*time.Hour, cfg.IdempotencyTTL)
	assert.Equal(t, 5, cfg.SubmitRatePerMin)
	assert.Equal(t, devJWTSecret, cfg.JWTSecret)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, int32(10), cfg.DBMaxConns)
	assert.Equal(t, 5*time.Second, cfg.DBStatementLimit)
	assert.True(t, cfg.IsDev())
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("APP_ENV", "local")
	t.Setenv("PORT", ":9090")
	t.Setenv("LOG_LEVEL", "DEBUG")
	t.Setenv("WIZARD_IDLE_TTL", "5m")
	t.Setenv("PRICE_COMMUNITY_MONTHLY", "1299")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, ":9090", cfg.Address())
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, 5*time.Minute, cfg.WizardIdleTTL)
	assert.Equal(t, int64(1299), cfg.PricingOverrides().CommunityMonthly)
	assert.Zero(t, cfg.PricingOverrides().AmbassadorAnnual)
}

func TestLoadRequiresBackingServicesOutsideDev(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("DATABASE_URL", "")
	t.Setenv("REDIS_URL", "")

	_, err := Load()
	assert.ErrorContains(t, err, "DATABASE_URL")

	t.Setenv("DATABASE_URL", "postgres://localhost/onboarding")
	_, err = Load()
	assert.ErrorContains(t, err, "REDIS_URL")

	t.Setenv("REDIS_URL", "redis://localhost:6379")
	t.Setenv("JWT_SECRET", "")
	_, err = Load()
	assert.ErrorContains(t, err, "JWT_SECRET")

	t.Setenv("JWT_SECRET", "s3cret")
	_, err = Load()
	assert.NoError(t, err)
}

func TestLoadRejectsBadDuration(t *testing.T) {
	t.Setenv("APP_ENV", "development")
	t.Setenv("SHUTDOWN_TIMEOUT", "soon")
	_, err := Load()
	assert.Error(t, err)
}
