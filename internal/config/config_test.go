package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amakane-hakari/numavg/internal/qualifier"
)

func mapEnv(m map[string]string) func(string) string {
	return func(k string) string { return m[k] }
}

func TestFromEnv_Defaults(t *testing.T) {
	cfg, err := FromEnv(mapEnv(nil))
	require.NoError(t, err)

	assert.Equal(t, ":9876", cfg.Server.Addr)
	assert.Equal(t, 10, cfg.Window.Capacity)
	assert.Equal(t, 500*time.Millisecond, cfg.Upstream.Timeout)
	assert.Equal(t, DefaultUpstreamBaseURL, cfg.Upstream.BaseURL)
	assert.Equal(t, "primes", cfg.Upstream.Paths[qualifier.Prime])
	assert.Equal(t, []string{"*"}, cfg.Server.AllowedOrigins)
	assert.True(t, cfg.Metrics.Enabled)
	assert.Equal(t, "numavg", cfg.Metrics.Namespace)
}

func TestFromEnv_Overrides(t *testing.T) {
	cfg, err := FromEnv(mapEnv(map[string]string{
		"HTTP_ADDR":            ":8080",
		"WINDOW_SIZE":          "3",
		"UPSTREAM_TIMEOUT":     "250",
		"UPSTREAM_BASE_URL":    "http://localhost:9000/test",
		"UPSTREAM_TOKEN":       "tok",
		"UPSTREAM_PATH_RAND":   "random",
		"CORS_ALLOWED_ORIGINS": "http://localhost:3000, http://example.com ,",
		"METRICS_ENABLED":      "false",
		"SHUTDOWN_TIMEOUT":     "2s",
	}))
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, 3, cfg.Window.Capacity)
	assert.Equal(t, 250*time.Millisecond, cfg.Upstream.Timeout)
	assert.Equal(t, "tok", cfg.Upstream.Token)
	assert.Equal(t, "random", cfg.Upstream.Paths[qualifier.Rand])
	assert.Equal(t, "even", cfg.Upstream.Paths[qualifier.Even])
	assert.Equal(t, []string{"http://localhost:3000", "http://example.com"}, cfg.Server.AllowedOrigins)
	assert.False(t, cfg.Metrics.Enabled)
	assert.Equal(t, 2*time.Second, cfg.Server.ShutdownTimeout)
}

func TestFromEnv_Invalid(t *testing.T) {
	cases := map[string]map[string]string{
		"non numeric size": {"WINDOW_SIZE": "ten"},
		"zero size":        {"WINDOW_SIZE": "0"},
		"bad timeout":      {"UPSTREAM_TIMEOUT": "soon"},
		"negative timeout": {"UPSTREAM_TIMEOUT": "-1s"},
		"bad base url":     {"UPSTREAM_BASE_URL": "localhost"},
		"bad bool":         {"METRICS_ENABLED": "maybe"},
	}
	for name, env := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := FromEnv(mapEnv(env))
			assert.Error(t, err)
		})
	}
}

func TestLoad_DotEnv(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("WINDOW_SIZE=7\n"), 0o600))
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
	t.Setenv("WINDOW_SIZE", "")
	require.NoError(t, os.Unsetenv("WINDOW_SIZE"))

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 7, cfg.Window.Capacity)
}
