// Package config defines the PatentLens configuration structures. Loading
// lives in loader.go and defaults in defaults.go; this file holds only plain
// data types and validation.
package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/turtacn/patentlens/internal/infrastructure/monitoring/logging"
)

// ServerConfig holds HTTP server tunables.
type ServerConfig struct {
	Port            int           `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	MaxBodySize     int64         `mapstructure:"max_body_size"`
}

// AnalysisConfig locates the analysis service.
type AnalysisConfig struct {
	BaseURL   string        `mapstructure:"base_url"`
	Endpoint  string        `mapstructure:"endpoint"`
	Timeout   time.Duration `mapstructure:"timeout"`
	UserAgent string        `mapstructure:"user_agent"`
}

// URL returns the full analysis endpoint.
func (a AnalysisConfig) URL() string {
	return strings.TrimSuffix(a.BaseURL, "/") + a.Endpoint
}

// SessionConfig controls browser sessions.
type SessionConfig struct {
	IdleTimeout   time.Duration `mapstructure:"idle_timeout"`
	SweepInterval time.Duration `mapstructure:"sweep_interval"`
	CookieSecure  bool          `mapstructure:"cookie_secure"`
}

// CORSConfig applies to the JSON API.
type CORSConfig struct {
	AllowedOrigins   []string `mapstructure:"allowed_origins"`
	AllowCredentials bool     `mapstructure:"allow_credentials"`
	MaxAge           int      `mapstructure:"max_age"`
}

// RateLimitConfig throttles submissions per client address.
type RateLimitConfig struct {
	Enabled           bool          `mapstructure:"enabled"`
	RequestsPerSecond float64       `mapstructure:"requests_per_second"`
	Burst             int           `mapstructure:"burst"`
	CleanupInterval   time.Duration `mapstructure:"cleanup_interval"`
}

// MetricsConfig controls the Prometheus endpoint.
type MetricsConfig struct {
	Enabled   bool   `mapstructure:"enabled"`
	Namespace string `mapstructure:"namespace"`
	Path      string `mapstructure:"path"`
}

// Config is the root configuration.
type Config struct {
	Server    ServerConfig      `mapstructure:"server"`
	Analysis  AnalysisConfig    `mapstructure:"analysis"`
	Session   SessionConfig     `mapstructure:"session"`
	CORS      CORSConfig        `mapstructure:"cors"`
	RateLimit RateLimitConfig   `mapstructure:"ratelimit"`
	Log       logging.LogConfig `mapstructure:"log"`
	Metrics   MetricsConfig     `mapstructure:"metrics"`
}

// Validate performs semantic validation of a fully-populated Config and
// returns the first problem found.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("config: server.port %d is out of range [1, 65535]", c.Server.Port)
	}
	if c.Server.MaxBodySize < 0 {
		return fmt.Errorf("config: server.max_body_size must be ≥ 0, got %d", c.Server.MaxBodySize)
	}
	if c.Server.WriteTimeout > 0 && c.Server.WriteTimeout <= c.Analysis.Timeout {
		return fmt.Errorf("config: server.write_timeout %s must exceed analysis.timeout %s",
			c.Server.WriteTimeout, c.Analysis.Timeout)
	}

	if c.Analysis.BaseURL == "" {
		return fmt.Errorf("config: analysis.base_url is required")
	}
	u, err := url.Parse(c.Analysis.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("config: analysis.base_url %q must be an absolute http(s) URL", c.Analysis.BaseURL)
	}
	if !strings.HasPrefix(c.Analysis.Endpoint, "/") {
		return fmt.Errorf("config: analysis.endpoint %q must start with /", c.Analysis.Endpoint)
	}
	if c.Analysis.Timeout <= 0 {
		return fmt.Errorf("config: analysis.timeout must be positive")
	}

	if c.Session.IdleTimeout <= 0 {
		return fmt.Errorf("config: session.idle_timeout must be positive")
	}
	if c.Session.SweepInterval < 0 {
		return fmt.Errorf("config: session.sweep_interval must be ≥ 0")
	}

	if c.RateLimit.Enabled {
		if c.RateLimit.RequestsPerSecond <= 0 {
			return fmt.Errorf("config: ratelimit.requests_per_second must be positive when enabled")
		}
		if c.RateLimit.Burst < 1 {
			return fmt.Errorf("config: ratelimit.burst must be ≥ 1 when enabled")
		}
	}

	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("config: log.level %q is invalid; expected debug|info|warn|error", c.Log.Level)
	}
	switch c.Log.Format {
	case "json", "console":
	default:
		return fmt.Errorf("config: log.format %q is invalid; expected json|console", c.Log.Format)
	}

	if c.Metrics.Enabled {
		if c.Metrics.Namespace == "" {
			return fmt.Errorf("config: metrics.namespace is required when metrics are enabled")
		}
		if !strings.HasPrefix(c.Metrics.Path, "/") {
			return fmt.Errorf("config: metrics.path %q must start with /", c.Metrics.Path)
		}
	}

	return nil
}
