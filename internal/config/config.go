// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New() initializer to build a Config with defaults.
// - Load layers defaults, an optional YAML file and PODIUM_* environment variables.
// - External errors are wrapped with this package's sentinel errors.
package config

import (
	"fmt"
	"strings"
	"time"
)

// Supported data source drivers.
const (
	DriverCSV    = "csv"
	DriverDuckDB = "duckdb"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects the log handler: text, json or tint.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":8050".
	Addr string `koanf:"addr"`

	// DataPath points at the athlete events CSV.
	DataPath string `koanf:"data_path"`

	// SourceDriver selects how the CSV is read: csv or duckdb.
	SourceDriver string `koanf:"source_driver"`

	// CacheTTLSeconds bounds how long a filter result stays cached.
	CacheTTLSeconds int `koanf:"cache_ttl_seconds"`

	// CacheCapacity caps the number of cached filter results.
	CacheCapacity int `koanf:"cache_capacity"`

	// BuildConcurrency bounds the pool that builds aggregate tables.
	BuildConcurrency int `koanf:"build_concurrency"`

	// HistogramBins is the number of age bins of the histogram.
	HistogramBins int `koanf:"histogram_bins"`

	// AgeRangeMin and AgeRangeMax fix the histogram x axis.
	AgeRangeMin int `koanf:"age_range_min"`
	AgeRangeMax int `koanf:"age_range_max"`

	// CountRangeMax fixes the histogram y axis.
	CountRangeMax int `koanf:"count_range_max"`

	// ColorScale names the continuous scale of the map charts.
	ColorScale string `koanf:"color_scale"`

	// Projection names the geo projection of the map charts.
	Projection string `koanf:"projection"`

	// MetricsIntervalSeconds sets how often runtime metrics are sampled.
	MetricsIntervalSeconds int `koanf:"metrics_interval_seconds"`
}

// New creates a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:               "info",
		LogFormat:              "text",
		Addr:                   ":8050",
		DataPath:               "athlete_events.csv",
		SourceDriver:           DriverCSV,
		CacheTTLSeconds:        300,
		CacheCapacity:          1024,
		BuildConcurrency:       3,
		HistogramBins:          50,
		AgeRangeMin:            10,
		AgeRangeMax:            40,
		CountRangeMax:          1500,
		ColorScale:             "teal",
		Projection:             "natural earth",
		MetricsIntervalSeconds: 10,
	}
}

// CacheTTL returns the cache TTL as a duration.
func (c *Config) CacheTTL() time.Duration {
	return time.Duration(c.CacheTTLSeconds) * time.Second
}

// MetricsInterval returns the runtime metrics interval as a duration.
func (c *Config) MetricsInterval() time.Duration {
	return time.Duration(c.MetricsIntervalSeconds) * time.Second
}

// Validate checks the values the process cannot start without.
func (c *Config) Validate() error {
	switch {
	case strings.TrimSpace(c.Addr) == "":
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	case strings.TrimSpace(c.DataPath) == "":
		return fmt.Errorf("%w: data_path must not be empty", ErrInvalidConfig)
	case c.HistogramBins < 1:
		return fmt.Errorf("%w: histogram_bins must be at least 1", ErrInvalidConfig)
	case c.AgeRangeMin >= c.AgeRangeMax:
		return fmt.Errorf("%w: age_range_min must be below age_range_max", ErrInvalidConfig)
	}

	switch c.SourceDriver {
	case DriverCSV, DriverDuckDB:
	default:
		return fmt.Errorf("%w: unknown source_driver %q", ErrInvalidConfig, c.SourceDriver)
	}

	switch strings.ToLower(c.LogFormat) {
	case "text", "json", "tint":
	default:
		return fmt.Errorf("%w: unknown log_format %q", ErrInvalidConfig, c.LogFormat)
	}
	return nil
}
