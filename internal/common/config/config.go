// internal/common/config/config.go
package config

import "time"

// Config is the main application configuration struct.
type Config struct {
	App           AppConfig           `mapstructure:"app"`
	API           APIConfig           `mapstructure:"api"`
	Cache         CacheConfig         `mapstructure:"cache"`
	Bulk          BulkConfig          `mapstructure:"bulk"`
	Logging       LoggingConfig       `mapstructure:"logging"`
	Observability ObservabilityConfig `mapstructure:"observability"`
}

// --- Core App Config ---
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
}

// APIConfig points at the dashboard REST backend.
type APIConfig struct {
	BaseURL   string `mapstructure:"base_url"`
	Timeout   int    `mapstructure:"timeout"` // milliseconds
	Token     string `mapstructure:"token"`
	UserAgent string `mapstructure:"user_agent"`
}

// Cache backends.
const (
	CacheBackendMemory = "memory"
	CacheBackendRedis  = "redis"
)

// CacheConfig selects the response cache backing the remote client.
type CacheConfig struct {
	Backend string      `mapstructure:"backend"`
	TTL     int         `mapstructure:"ttl"` // milliseconds
	Redis   RedisConfig `mapstructure:"redis"`
}

type RedisConfig struct {
	Address   string `mapstructure:"address"`
	Password  string `mapstructure:"password"`
	DB        int    `mapstructure:"db"`
	KeyPrefix string `mapstructure:"key_prefix"`
}

// BulkConfig bounds bulk actions. MaxConcurrency 0 issues every request at once.
type BulkConfig struct {
	MaxConcurrency int `mapstructure:"max_concurrency"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Output string `mapstructure:"output"`
}

type ObservabilityConfig struct {
	ServiceName     string `mapstructure:"service_name"`
	MetricsAddress  string `mapstructure:"metrics_address"`
	TracingEndpoint string `mapstructure:"tracing_endpoint"`
}

// GetDuration converts milliseconds from config to time.Duration
func GetDuration(milliseconds int) time.Duration {
	return time.Duration(milliseconds) * time.Millisecond
}

// RequestTimeout returns the per-request HTTP timeout.
func (a APIConfig) RequestTimeout() time.Duration {
	return GetDuration(a.Timeout)
}

// EntryTTL returns how long a cached read stays fresh.
func (c CacheConfig) EntryTTL() time.Duration {
	return GetDuration(c.TTL)
}
