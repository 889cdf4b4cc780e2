package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("ACCESS_TOKEN", "secret")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "5000", cfg.Server.Port)
	assert.Equal(t, "musicCampDB", cfg.Mongo.DatabaseName)
	assert.Equal(t, 10*time.Second, cfg.Mongo.Timeout)
	assert.Equal(t, 2*time.Hour, cfg.Auth.TokenTTL)
	assert.Equal(t, "usd", cfg.Stripe.Currency)
	assert.Equal(t, "@every 5m", cfg.Jobs.ReconcileSchedule)
	assert.False(t, cfg.SMTP.Enabled())
}

func TestLoadConfigFromEnv(t *testing.T) {
	t.Setenv("ACCESS_TOKEN", "secret")
	t.Setenv("PORT", "9000")
	t.Setenv("ACCESS_TOKEN_TTL", "30m")
	t.Setenv("SMTP_HOST", "smtp.example.com")
	t.Setenv("SMTP_PORT", "2525")
	t.Setenv("SMTP_USERNAME", "camp@example.com")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "9000", cfg.Server.Port)
	assert.Equal(t, "secret", cfg.Auth.Secret)
	assert.Equal(t, 30*time.Minute, cfg.Auth.TokenTTL)
	assert.Equal(t, 2525, cfg.SMTP.Port)
	assert.Equal(t, "camp@example.com", cfg.SMTP.From)
	assert.True(t, cfg.SMTP.Enabled())
}

func TestLoadConfigRequiresSecret(t *testing.T) {
	t.Setenv("ACCESS_TOKEN", "")

	_, err := LoadConfig()
	assert.Error(t, err)
}
