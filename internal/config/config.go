// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New(ctx) to build a Config with defaults.
// - All functions accept context.Context as the first parameter.
// - External errors are wrapped with this package's sentinel kinds.
package config

import (
	"context"
	"fmt"
	"time"
)

// Invalid-row policies applied by the data loader.
const (
	InvalidRowsDrop = "drop"
	InvalidRowsZero = "zero"
	InvalidRowsKeep = "keep"
)

// DefaultDataURL is the dataset the dashboard was built around.
const DefaultDataURL = "https://vizhub.com/wishcsdev/datasets/data.csv"

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":9080".
	Addr string `koanf:"addr"`

	// DataURL is the CSV source: http(s) URL, file:// URL or a plain path.
	DataURL string `koanf:"data_url"`

	// LoadTimeoutMS bounds the dataset fetch. Zero means no timeout.
	LoadTimeoutMS int `koanf:"load_timeout_ms"`

	// InvalidRows selects how rows with unparseable numbers are handled.
	InvalidRows string `koanf:"invalid_rows"`

	// QueueSize bounds the in-memory command queue.
	QueueSize int `koanf:"queue_size"`

	// DedupeSize bounds the remembered command idempotency keys.
	DedupeSize int `koanf:"dedupe_size"`

	// TransitionMS is the chart transition duration.
	TransitionMS int `koanf:"transition_ms"`

	// Palette is the ordered color list used by the pie chart.
	Palette []string `koanf:"palette"`
}

// SchemeSet3 is the twelve-color qualitative palette used for the sex pie.
var SchemeSet3 = []string{
	"#8dd3c7", "#ffffb3", "#bebada", "#fb8072", "#80b1d3", "#fdb462",
	"#b3de69", "#fccde5", "#d9d9d9", "#bc80bd", "#ccebc5", "#ffed6f",
}

// New creates a Config populated with defaults.
func New(_ context.Context) *Config {
	return &Config{
		LogLevel:      "info",
		Addr:          ":9080",
		DataURL:       DefaultDataURL,
		LoadTimeoutMS: 0,
		InvalidRows:   InvalidRowsDrop,
		QueueSize:     1024,
		DedupeSize:    10_000,
		TransitionMS:  250,
		Palette:       append([]string(nil), SchemeSet3...),
	}
}

// LoadTimeout returns the fetch timeout; zero means unbounded.
func (c *Config) LoadTimeout() time.Duration {
	return time.Duration(c.LoadTimeoutMS) * time.Millisecond
}

// Transition returns the chart transition duration.
func (c *Config) Transition() time.Duration {
	return time.Duration(c.TransitionMS) * time.Millisecond
}

// Validate checks the invariants the rest of the process relies on.
func (c *Config) Validate(_ context.Context) error {
	switch {
	case c.Addr == "":
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	case c.DataURL == "":
		return fmt.Errorf("%w: data_url must not be empty", ErrInvalidConfig)
	case c.LoadTimeoutMS < 0:
		return fmt.Errorf("%w: load_timeout_ms must not be negative", ErrInvalidConfig)
	case c.TransitionMS < 0:
		return fmt.Errorf("%w: transition_ms must not be negative", ErrInvalidConfig)
	case len(c.Palette) == 0:
		return fmt.Errorf("%w: palette must not be empty", ErrInvalidConfig)
	}
	switch c.InvalidRows {
	case InvalidRowsDrop, InvalidRowsZero, InvalidRowsKeep:
	default:
		return fmt.Errorf("%w: invalid_rows must be one of drop, zero, keep (got %q)", ErrInvalidConfig, c.InvalidRows)
	}
	return nil
}
