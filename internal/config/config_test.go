package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("DASHBOARD_STORE_DIR", "")
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "8090", cfg.Server.Port)
	assert.Equal(t, time.Duration(0), cfg.API.Timeout)
	assert.Empty(t, cfg.NATS.URL)
	assert.Empty(t, cfg.JWTSecret)
	assert.Equal(t, 120, cfg.RateLimitRequests)
	assert.Equal(t, time.Minute, cfg.RateLimitWindow)
	assert.NotEmpty(t, cfg.Store.Dir)
	assert.False(t, cfg.IsDevelopment())
}

func TestLoad_EnvOverrides(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("DASHBOARD_STORE_DIR", dir)
	t.Setenv("DASHBOARD_PORT", "9999")
	t.Setenv("DASHBOARD_API_TIMEOUT", "15s")
	t.Setenv("ENV", "development")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, dir, cfg.Store.Dir)
	assert.Equal(t, "9999", cfg.Server.Port)
	assert.Equal(t, 15*time.Second, cfg.API.Timeout)
	assert.True(t, cfg.IsDevelopment())
}

func TestLoad_YAMLFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dashboard.yml")
	yml := "server:\n  port: \"7000\"\nnats:\n  url: nats://localhost:4222\nlog_level: debug\n"
	require.NoError(t, os.WriteFile(path, []byte(yml), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "7000", cfg.Server.Port)
	assert.Equal(t, "nats://localhost:4222", cfg.NATS.URL)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yml"))
	require.Error(t, err)
}
