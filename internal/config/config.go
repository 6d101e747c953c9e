// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New(ctx) to build a Config with defaults.
// - Layer file and environment values on top via Load.
// - External errors must be wrapped via this package's error kinds.
package config

import (
	"context"
)

// Config contains process configuration. Extend as needed.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// StorePath points at the sqlite database file. Empty keeps the
	// event log in memory.
	StorePath string `koanf:"store_path"`

	// TemplatesFile optionally loads extra rule templates from YAML.
	TemplatesFile string `koanf:"templates_file"`

	// DeviceID and Platform identify this process as an event source.
	DeviceID string `koanf:"device_id"`
	Platform string `koanf:"platform"`

	// MaxEventLimit caps GET /matches/{id}/events?limit.
	MaxEventLimit int `koanf:"max_event_limit"`
}

// New creates a Config with defaults. Context is accepted first to
// satisfy the project-wide convention; it is reserved for future use.
func New(_ context.Context) *Config {
	return &Config{
		LogLevel:      "info",
		Addr:          ":9080",
		StorePath:     "",
		TemplatesFile: "",
		DeviceID:      "courtside-server",
		Platform:      "server",
		MaxEventLimit: 500,
	}
}
