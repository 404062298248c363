// Package config loads service configuration from the environment and the
// CLI profile from YAML. Both are validated once at startup so
// misconfiguration fails fast.
package config

import (
	"net"
	"strconv"
	"time"
)

// Config holds all server configuration.
// All settings can be configured via environment variables.
type Config struct {
	Server     ServerConfig
	Staging    StagingConfig
	Database   DatabaseConfig
	Upload     UploadConfig
	RateEngine RateEngineConfig
	Rate       RateLimitConfig
	Logging    LoggingConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	// Host is the interface to bind to (default: 0.0.0.0)
	Host string `env:"SERVER_HOST" default:"0.0.0.0"`

	// Port is the port to listen on (default: 8080)
	Port int `env:"SERVER_PORT" envAlt:"PORT" default:"8080"`

	// ReadTimeout is the maximum duration for reading a request (default: 30s)
	ReadTimeout time.Duration `env:"SERVER_READ_TIMEOUT" default:"30s"`

	// WriteTimeout is the maximum duration for writing a response (default: 2m)
	WriteTimeout time.Duration `env:"SERVER_WRITE_TIMEOUT" default:"2m"`

	// IdleTimeout is the keep-alive timeout (default: 60s)
	IdleTimeout time.Duration `env:"SERVER_IDLE_TIMEOUT" default:"60s"`

	// ShutdownTimeout bounds graceful shutdown, including in-flight analyses (default: 30s)
	ShutdownTimeout time.Duration `env:"SERVER_SHUTDOWN_TIMEOUT" default:"30s"`

	// RequestTimeout is the middleware timeout for requests (default: 90s)
	RequestTimeout time.Duration `env:"SERVER_REQUEST_TIMEOUT" default:"90s"`

	// TrustedProxies lists CIDRs whose X-Real-IP / X-Forwarded-For headers are honored
	TrustedProxies []string `env:"SERVER_TRUSTED_PROXIES"`
}

// Staging backends.
const (
	BackendFile     = "file"
	BackendPostgres = "postgres"
)

// StagingConfig selects where uploads wait between upload and analysis.
type StagingConfig struct {
	// Backend is "file" or "postgres" (default: file)
	Backend string `env:"STAGING_BACKEND" default:"file"`

	// Dir is the directory for the file backend (default: ./data/uploads)
	Dir string `env:"STAGING_DIR" default:"./data/uploads"`

	// Retention is how long staged files are kept (default: 24h)
	Retention time.Duration `env:"STAGING_RETENTION" default:"24h"`

	// JanitorInterval is how often expired files are purged (default: 1h)
	JanitorInterval time.Duration `env:"STAGING_JANITOR_INTERVAL" default:"1h"`
}

// DatabaseConfig holds PostgreSQL settings for the postgres staging backend.
type DatabaseConfig struct {
	// URL is the PostgreSQL connection string, required for the postgres backend.
	// Supports both DATABASE_URL and DB_URL env vars for compatibility.
	URL string `env:"DATABASE_URL" envAlt:"DB_URL"`

	// MaxConns is the maximum number of connections in the pool (default: 10)
	MaxConns int32 `env:"DB_MAX_CONNS" default:"10"`

	// MinConns is the minimum number of connections to keep open (default: 0)
	MinConns int32 `env:"DB_MIN_CONNS" default:"0"`

	// MaxConnLifetime is the maximum lifetime of a connection (default: 30m)
	MaxConnLifetime time.Duration `env:"DB_MAX_CONN_LIFETIME" default:"30m"`

	// MaxConnIdleTime is the maximum idle time before a connection is closed (default: 5m)
	MaxConnIdleTime time.Duration `env:"DB_MAX_CONN_IDLE_TIME" default:"5m"`
}

// UploadConfig holds upload and analysis limits.
type UploadConfig struct {
	// MaxFileSize is the maximum allowed file size in bytes (default: 50MB)
	MaxFileSize int64 `env:"UPLOAD_MAX_FILE_SIZE" default:"52428800"`

	// MaxConcurrent is the maximum number of parallel analyses (default: 5)
	MaxConcurrent int `env:"UPLOAD_MAX_CONCURRENT" default:"5"`

	// MaxWaitTime is how long an analysis waits for a slot (default: 30s)
	MaxWaitTime time.Duration `env:"UPLOAD_MAX_WAIT_TIME" default:"30s"`

	// AnalysisTimeout bounds one analysis including the engine call (default: 2m)
	AnalysisTimeout time.Duration `env:"UPLOAD_ANALYSIS_TIMEOUT" default:"2m"`
}

// RateEngineConfig points at the external rate engine.
type RateEngineConfig struct {
	// Enabled turns the engine off entirely; every batch then uses the fallback (default: true)
	Enabled bool `env:"RATE_ENGINE_ENABLED" default:"true"`

	// URL is the engine base URL (default: http://localhost:8001)
	URL string `env:"RATE_ENGINE_URL" envAlt:"PYTHON_API_URL" default:"http://localhost:8001"`

	// Timeout bounds one batch call (default: 10s)
	Timeout time.Duration `env:"RATE_ENGINE_TIMEOUT" default:"10s"`
}

// RateLimitConfig holds per-IP request limits.
type RateLimitConfig struct {
	// Enabled controls whether rate limiting is active (default: true)
	Enabled bool `env:"RATE_LIMIT_ENABLED" default:"true"`

	// RequestsPerMinute is the default limit per IP (default: 100)
	RequestsPerMinute int `env:"RATE_LIMIT_REQUESTS_PER_MINUTE" default:"100"`

	// UploadLimit is requests per minute for upload and analysis endpoints (default: 10)
	UploadLimit int `env:"RATE_LIMIT_UPLOAD" default:"10"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: debug, info, warn, error (default: info)
	Level string `env:"LOG_LEVEL" default:"info"`

	// Format is the log format: text or json (default: text)
	Format string `env:"LOG_FORMAT" default:"text"`
}

// Addr returns the server listen address in host:port format.
func (c *ServerConfig) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}
