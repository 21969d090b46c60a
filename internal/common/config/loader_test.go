package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadFromFile_AppliesDefaults(t *testing.T) {
	path := writeConfig(t, `
api:
  base_url: https://admin.example.com/api/
`)

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)

	assert.Equal(t, "https://admin.example.com/api", cfg.API.BaseURL)
	assert.Equal(t, 30*time.Second, cfg.API.RequestTimeout())
	assert.Equal(t, CacheBackendMemory, cfg.Cache.Backend)
	assert.Equal(t, time.Minute, cfg.Cache.EntryTTL())
	assert.Equal(t, "appadmin:", cfg.Cache.Redis.KeyPrefix)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.Equal(t, "application-admin", cfg.Observability.ServiceName)
	assert.Equal(t, 0, cfg.Bulk.MaxConcurrency)
}

func TestLoadFromFile_ExpandsPlaceholders(t *testing.T) {
	t.Setenv("TEST_ADMIN_TOKEN", "secret-token")
	path := writeConfig(t, `
api:
  base_url: http://localhost:8000
  token: ${TEST_ADMIN_TOKEN}
`)

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, "secret-token", cfg.API.Token)
}

func TestLoadFromFile_EnvOverride(t *testing.T) {
	t.Setenv("API_BASE_URL", "http://backend.internal:9000")
	t.Setenv("API_TOKEN", "from-env")
	path := writeConfig(t, `
api:
  timeout: 5000
`)

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, "http://backend.internal:9000", cfg.API.BaseURL)
	assert.Equal(t, "from-env", cfg.API.Token)
	assert.Equal(t, 5*time.Second, cfg.API.RequestTimeout())
}

func TestLoadFromFile_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr string
	}{
		{
			name:    "missing base url",
			body:    "logging:\n  level: debug\n",
			wantErr: "api.base_url is required",
		},
		{
			name:    "relative base url",
			body:    "api:\n  base_url: /dashboard\n",
			wantErr: "absolute http(s) URL",
		},
		{
			name:    "unknown cache backend",
			body:    "api:\n  base_url: http://x\ncache:\n  backend: memcached\n",
			wantErr: "cache.backend must be",
		},
		{
			name:    "redis without address",
			body:    "api:\n  base_url: http://x\ncache:\n  backend: redis\n",
			wantErr: "cache.redis.address is required",
		},
		{
			name:    "negative concurrency",
			body:    "api:\n  base_url: http://x\nbulk:\n  max_concurrency: -1\n",
			wantErr: "bulk.max_concurrency",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("API_BASE_URL", "")
			t.Setenv("REDIS_ADDRESS", "")
			_, err := LoadFromFile(writeConfig(t, tt.body))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoadFromFile_MissingFile(t *testing.T) {
	_, err := LoadFromFile(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read config file")
}
