package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-formclient/internal/config"
)

func TestLoad(t *testing.T) {
	t.Run("defaults when no config file is present", func(t *testing.T) {
		cfg, err := config.Load(t.TempDir())
		require.NoError(t, err)

		assert.Equal(t, "http://localhost:8080", cfg.API.BaseURL)
		assert.Equal(t, 10*time.Second, cfg.API.Timeout)
		assert.False(t, cfg.API.RateLimit.Enabled)
		assert.Equal(t, ":3000", cfg.UI.Addr)
		assert.Equal(t, "text", cfg.UI.Renderer)
		assert.Equal(t, "info", cfg.Logger.Level)
		assert.Equal(t, "text", cfg.Logger.Format)
		assert.True(t, cfg.Metrics.Enabled)
		assert.Equal(t, "/metrics", cfg.Metrics.Path)
		assert.Equal(t, ":8080", cfg.DevServer.Addr)
	})

	t.Run("file values and env overrides", func(t *testing.T) {
		dir := t.TempDir()
		body := []byte(`api:
  baseURL: http://api.internal:5000
  timeout: 3s
  headers:
    x-tenant: acme
  rateLimit:
    enabled: true
    rps: 2
    burst: 4
ui:
  renderer: html
logger:
  level: debug
  format: json
`)
		require.NoError(t, os.WriteFile(filepath.Join(dir, "formclient.yml"), body, 0o644))
		t.Setenv("FORMCLIENT_UI_ADDR", ":9999")

		cfg, err := config.Load(dir)
		require.NoError(t, err)

		assert.Equal(t, "http://api.internal:5000", cfg.API.BaseURL)
		assert.Equal(t, 3*time.Second, cfg.API.Timeout)
		assert.Equal(t, "acme", cfg.API.Headers["x-tenant"])
		assert.True(t, cfg.API.RateLimit.Enabled)
		assert.Equal(t, 2.0, cfg.API.RateLimit.RPS)
		assert.Equal(t, 4, cfg.API.RateLimit.Burst)
		assert.Equal(t, "html", cfg.UI.Renderer)
		assert.Equal(t, ":9999", cfg.UI.Addr)
		assert.Equal(t, "debug", cfg.Logger.Level)
		assert.Equal(t, "json", cfg.Logger.Format)
	})

	t.Run("explicit file path", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "custom.yaml")
		require.NoError(t, os.WriteFile(path, []byte("api:\n  baseURL: https://pets.example.com\n"), 0o644))

		cfg, err := config.Load(path)
		require.NoError(t, err)
		assert.Equal(t, "https://pets.example.com", cfg.API.BaseURL)
	})

	t.Run("invalid values are rejected", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, "formclient.yml"), []byte("api:\n  baseURL: not a url\n"), 0o644))

		_, err := config.Load(dir)
		require.Error(t, err)
	})

	t.Run("missing explicit file is an error", func(t *testing.T) {
		_, err := config.Load(filepath.Join(t.TempDir(), "missing.yml"))
		require.Error(t, err)
	})
}

func TestValidateRenderer(t *testing.T) {
	cfg, err := config.Load(t.TempDir())
	require.NoError(t, err)

	cfg.UI.Renderer = "pdf"
	assert.Error(t, cfg.Validate())
}
