package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	require.Equal(t, "8084", cfg.Port)
	require.Equal(t, "http://store-api:3000", cfg.UpstreamURL)
	require.Equal(t, 10*time.Second, cfg.UpstreamTimeout)
	require.Equal(t, "573001112233", cfg.WhatsAppPhone)
	require.Equal(t, 30*time.Minute, cfg.SessionTTL)
	require.Equal(t, []string{"*"}, cfg.CORSAllowOrigins)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("UPSTREAM_TIMEOUT", "3s")
	t.Setenv("CORS_ALLOW_ORIGINS", "https://shop.example.com, https://admin.example.com")

	cfg := Load()

	require.Equal(t, "9000", cfg.Port)
	require.Equal(t, 3*time.Second, cfg.UpstreamTimeout)
	require.Equal(t, []string{"https://shop.example.com", "https://admin.example.com"}, cfg.CORSAllowOrigins)
}

func TestParseDurationFallback(t *testing.T) {
	t.Setenv("UPSTREAM_TIMEOUT", "garbage")

	cfg := Load()
	require.Equal(t, 10*time.Second, cfg.UpstreamTimeout)
}
