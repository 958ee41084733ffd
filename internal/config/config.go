// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - New() returns a Config populated with defaults.
// - Load(ctx) layers defaults, an optional YAML file and REQBIND_* env vars.
// - Errors are wrapped with this package's sentinels so callers can use errors.Is.
package config

import (
	"fmt"
	"time"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects the slog handler: text or json.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":8000".
	Addr string `koanf:"addr"`

	// Server timeouts in milliseconds.
	ReadTimeoutMS     int `koanf:"read_timeout_ms"`
	WriteTimeoutMS    int `koanf:"write_timeout_ms"`
	IdleTimeoutMS     int `koanf:"idle_timeout_ms"`
	ShutdownTimeoutMS int `koanf:"shutdown_timeout_ms"`

	// MaxBodyBytes caps JSON request bodies.
	MaxBodyBytes int64 `koanf:"max_body_bytes"`

	// DocsEnabled mounts /docs and /openapi.yaml.
	DocsEnabled bool `koanf:"docs_enabled"`
}

// New creates a Config with defaults.
func New() *Config {
	return &Config{
		LogLevel:          "info",
		LogFormat:         "text",
		Addr:              ":8000",
		ReadTimeoutMS:     10_000,
		WriteTimeoutMS:    10_000,
		IdleTimeoutMS:     60_000,
		ShutdownTimeoutMS: 30_000,
		MaxBodyBytes:      1 << 20,
		DocsEnabled:       true,
	}
}

// Validate checks the invariants Load relies on.
func (c *Config) Validate() error {
	switch {
	case c.Addr == "":
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	case c.ReadTimeoutMS <= 0, c.WriteTimeoutMS <= 0, c.IdleTimeoutMS <= 0, c.ShutdownTimeoutMS <= 0:
		return fmt.Errorf("%w: timeouts must be positive", ErrInvalidConfig)
	case c.MaxBodyBytes <= 0:
		return fmt.Errorf("%w: max_body_bytes must be positive", ErrInvalidConfig)
	}
	return nil
}

// ReadTimeout returns the server read timeout.
func (c *Config) ReadTimeout() time.Duration { return ms(c.ReadTimeoutMS) }

// WriteTimeout returns the server write timeout.
func (c *Config) WriteTimeout() time.Duration { return ms(c.WriteTimeoutMS) }

// IdleTimeout returns the keep-alive idle timeout.
func (c *Config) IdleTimeout() time.Duration { return ms(c.IdleTimeoutMS) }

// ShutdownTimeout bounds graceful shutdown.
func (c *Config) ShutdownTimeout() time.Duration { return ms(c.ShutdownTimeoutMS) }

func ms(v int) time.Duration { return time.Duration(v) * time.Millisecond }
