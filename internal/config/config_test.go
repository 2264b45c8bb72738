package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/linkdeck-app/linkdeck/internal/config"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:9092", cfg.AuthBaseURL)
	assert.Equal(t, "http://localhost:9094", cfg.APIBaseURL)
	assert.Equal(t, "127.0.0.1:8087", cfg.ListenAddr)
	assert.Equal(t, "linkdeck.db", cfg.DBPath)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("LINKDECK_AUTH_URL", "https://auth.linkdeck.example.com")
	t.Setenv("LINKDECK_API_URL", "https://api.linkdeck.example.com")
	t.Setenv("LINKDECK_LISTEN_ADDR", "0.0.0.0:9000")
	t.Setenv("LINKDECK_DB_PATH", "/var/lib/linkdeck/state.db")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "https://auth.linkdeck.example.com", cfg.AuthBaseURL)
	assert.Equal(t, "https://api.linkdeck.example.com", cfg.APIBaseURL)
	assert.Equal(t, "0.0.0.0:9000", cfg.ListenAddr)
	assert.Equal(t, "/var/lib/linkdeck/state.db", cfg.DBPath)
}

func TestLoad_RejectsMalformedBaseURL(t *testing.T) {
	t.Setenv("LINKDECK_API_URL", "localhost:9094")

	_, err := config.Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "LINKDECK_API_URL")
}
