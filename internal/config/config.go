// Package config handles threadctl configuration loading and validation.
package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// Config is the root configuration structure for threadctl.
type Config struct {
	// Database settings
	Database DatabaseConfig `yaml:"database" mapstructure:"database"`

	// Logging settings
	Logging LoggingConfig `yaml:"logging" mapstructure:"logging"`

	// Query defaults for search and scan commands
	Query QueryConfig `yaml:"query" mapstructure:"query"`
}

// DatabaseConfig contains message store settings.
type DatabaseConfig struct {
	// Path is the SQLite comms database file path.
	Path string `yaml:"path" mapstructure:"path"`

	// BusyTimeoutMs is how long to wait for a locked database (milliseconds).
	BusyTimeoutMs int `yaml:"busy_timeout_ms" mapstructure:"busy_timeout_ms"`
}

// LoggingConfig contains logging settings.
type LoggingConfig struct {
	// Level is the minimum log level (debug, info, warn, error).
	Level string `yaml:"level" mapstructure:"level"`

	// Format is the output format (json, console).
	Format string `yaml:"format" mapstructure:"format"`

	// EnableCaller adds caller information to logs.
	EnableCaller bool `yaml:"enable_caller" mapstructure:"enable_caller"`
}

// QueryConfig contains default thresholds and limits for queries.
type QueryConfig struct {
	// Limit caps how many threads a search or scan returns.
	Limit int `yaml:"limit" mapstructure:"limit"`

	// MinDepth is the significance threshold on reply depth.
	MinDepth int `yaml:"min_depth" mapstructure:"min_depth"`

	// MinMessages is the significance threshold on message count.
	MinMessages int `yaml:"min_messages" mapstructure:"min_messages"`

	// MinParticipants is the significance threshold on participant count.
	MinParticipants int `yaml:"min_participants" mapstructure:"min_participants"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	home, _ := os.UserHomeDir()
	return &Config{
		Database: DatabaseConfig{
			Path:          filepath.Join(home, ".local", "share", "threadctl", "comms.db"),
			BusyTimeoutMs: 5000,
		},
		Logging: LoggingConfig{
			Level:  "warn",
			Format: "console",
		},
		Query: QueryConfig{
			Limit:           20,
			MinDepth:        3,
			MinMessages:     5,
			MinParticipants: 2,
		},
	}
}

// Validate checks the configuration for invalid values.
func (c *Config) Validate() error {
	if c.Database.Path == "" {
		return fmt.Errorf("database.path is required")
	}
	switch c.Logging.Level {
	case "", "trace", "debug", "info", "warn", "warning", "error", "fatal":
	default:
		return fmt.Errorf("logging.level %q is not a valid level", c.Logging.Level)
	}
	switch c.Logging.Format {
	case "", "json", "console":
	default:
		return fmt.Errorf("logging.format %q is not a valid format", c.Logging.Format)
	}
	if c.Query.Limit < 0 {
		return fmt.Errorf("query.limit must not be negative")
	}
	return nil
}
