package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("ENV", "production")

	cfg := LoadConfig()

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "bolt", cfg.Store.Driver)
	assert.Equal(t, "https://wa.me", cfg.Checkout.BaseURL)
	assert.Equal(t, "5518981784826", cfg.Checkout.Phone)
	assert.Equal(t, 5<<20, cfg.Image.MaxBytes)
	assert.Equal(t, 20*time.Second, cfg.Description.Timeout)
	assert.Equal(t, 40_000_000, cfg.Image.MaxPixels)
	assert.Equal(t, 24*time.Hour, cfg.Server.SessionIdleTimeout)
	assert.Equal(t, 10*time.Minute, cfg.Server.SweepInterval)
}

func TestLoadConfigOverrides(t *testing.T) {
	t.Setenv("ENV", "production")
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("OTEL_ENABLED", "false")
	t.Setenv("IMAGE_MAX_BYTES", "1024")
	t.Setenv("DESCRIPTION_TIMEOUT", "3s")
	t.Setenv("SESSION_IDLE_TIMEOUT", "30m")
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("API_KEY", "legacy-key")

	cfg := LoadConfig()

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.False(t, cfg.OTLP.Enabled)
	assert.Equal(t, 1024, cfg.Image.MaxBytes)
	assert.Equal(t, 3*time.Second, cfg.Description.Timeout)
	assert.Equal(t, "legacy-key", cfg.Description.APIKey)
	assert.Equal(t, 30*time.Minute, cfg.Server.SessionIdleTimeout)
}

func TestLoadConfigIgnoresMalformedNumbers(t *testing.T) {
	t.Setenv("ENV", "production")
	t.Setenv("IMAGE_MAX_DIMENSION", "big")
	t.Setenv("OTEL_ENABLED", "maybe")
	t.Setenv("SESSION_SWEEP_INTERVAL", "0s")

	cfg := LoadConfig()

	assert.Equal(t, 1200, cfg.Image.MaxDimension)
	assert.True(t, cfg.OTLP.Enabled)
	assert.Equal(t, 10*time.Minute, cfg.Server.SweepInterval)
}
