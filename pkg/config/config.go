// Package config provides the unified configuration system for the recycle
// pool tooling. It defines a single Config structure organized into logical
// sections:
//   - Observability: Logging, metrics, and the teardown report
//   - Bench: Workload parameters for the benchmark command
//
// The pool core itself is configuration-free. Shard count and recycling
// behavior are fixed at compile time; Config only shapes what the process
// reports about the pool and how the benchmark drives it.
//
// Example usage:
//
//	cfg := config.New()
//	cfg.Observability.LogLevel = "debug"
//	cfg.Bench.Goroutines = 16
//
//	if err := cfg.Validate(); err != nil {
//	    log.Fatal(err)
//	}
package config

import (
	"fmt"
	"runtime"
	"time"
)

// Config is the root configuration structure for the pool tooling.
type Config struct {
	// Observability settings for monitoring and debugging
	Observability ObservabilityConfig `yaml:"observability" json:"observability" mapstructure:"observability"`

	// Bench settings for the benchmark workload
	Bench BenchConfig `yaml:"bench" json:"bench" mapstructure:"bench"`
}

// ObservabilityConfig contains monitoring and observability settings.
type ObservabilityConfig struct {
	// EnableMetrics serves the Prometheus endpoint
	EnableMetrics bool `yaml:"enable_metrics" json:"enable_metrics" mapstructure:"enable_metrics"`
	// MetricsAddr is the listen address for the Prometheus endpoint
	MetricsAddr string `yaml:"metrics_addr" json:"metrics_addr" mapstructure:"metrics_addr"`
	// EnableReport emits the per-manager counter report at teardown
	EnableReport bool `yaml:"enable_report" json:"enable_report" mapstructure:"enable_report"`
	// LogLevel sets logging verbosity (debug, info, warn, error)
	LogLevel string `yaml:"log_level" json:"log_level" mapstructure:"log_level"`
	// LogEncoding selects the log output format (json, console)
	LogEncoding string `yaml:"log_encoding" json:"log_encoding" mapstructure:"log_encoding"`
	// Development enables console-friendly logging with stack traces
	Development bool `yaml:"development" json:"development" mapstructure:"development"`
}

// BenchConfig contains the benchmark workload parameters.
type BenchConfig struct {
	// Goroutines is the number of concurrent workers
	Goroutines int `yaml:"goroutines" json:"goroutines" mapstructure:"goroutines"`
	// Iterations is the number of acquire/release cycles per worker
	Iterations int `yaml:"iterations" json:"iterations" mapstructure:"iterations"`
	// ElementCounts lists the buffer sizes the workload cycles through
	ElementCounts []int `yaml:"element_counts" json:"element_counts" mapstructure:"element_counts"`
	// Aggressive selects content-lifetime mode for the workload
	Aggressive bool `yaml:"aggressive" json:"aggressive" mapstructure:"aggressive"`
	// UseHints passes each worker's index as the location hint
	UseHints bool `yaml:"use_hints" json:"use_hints" mapstructure:"use_hints"`
	// Pinned allocates through the page-locked backend instead of the heap
	Pinned bool `yaml:"pinned" json:"pinned" mapstructure:"pinned"`
	// Duration bounds the run; zero means iteration-bounded only
	Duration time.Duration `yaml:"duration" json:"duration" mapstructure:"duration"`
}

// New returns a Config populated with sensible defaults.
func New() *Config {
	return &Config{
		Observability: ObservabilityConfig{
			EnableMetrics: false,
			MetricsAddr:   ":9090",
			EnableReport:  true,
			LogLevel:      "info",
			LogEncoding:   "json",
			Development:   false,
		},
		Bench: BenchConfig{
			Goroutines:    runtime.NumCPU(),
			Iterations:    10000,
			ElementCounts: []int{64, 256, 1024, 4096},
			Aggressive:    false,
			UseHints:      true,
			Pinned:        false,
			Duration:      0,
		},
	}
}

// Validate checks the configuration for invalid values and returns a
// descriptive error for the first problem found.
func (c *Config) Validate() error {
	switch c.Observability.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log_level %q: must be debug, info, warn, or error", c.Observability.LogLevel)
	}

	switch c.Observability.LogEncoding {
	case "json", "console":
	default:
		return fmt.Errorf("invalid log_encoding %q: must be json or console", c.Observability.LogEncoding)
	}

	if c.Observability.EnableMetrics && c.Observability.MetricsAddr == "" {
		return fmt.Errorf("metrics_addr must be set when metrics are enabled")
	}

	if c.Bench.Goroutines <= 0 {
		return fmt.Errorf("goroutines must be positive, got %d", c.Bench.Goroutines)
	}

	if c.Bench.Iterations <= 0 {
		return fmt.Errorf("iterations must be positive, got %d", c.Bench.Iterations)
	}

	if len(c.Bench.ElementCounts) == 0 {
		return fmt.Errorf("element_counts must not be empty")
	}
	for _, n := range c.Bench.ElementCounts {
		if n <= 0 {
			return fmt.Errorf("element counts must be positive, got %d", n)
		}
	}

	if c.Bench.Duration < 0 {
		return fmt.Errorf("duration must not be negative, got %s", c.Bench.Duration)
	}

	return nil
}
