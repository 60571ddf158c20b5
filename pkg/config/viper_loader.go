package config

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

// LoadWithViper loads a Config through viper, layering sources in
// ascending priority: built-in defaults, the optional config file, then
// RECYCLE_-prefixed environment variables (RECYCLE_BENCH_GOROUTINES
// overrides bench.goroutines). An empty filePath skips the file layer.
// File contents pass through readConfigFile, so ${VAR} references are
// expanded before viper sees them.
func LoadWithViper(filePath string) (*Config, error) {
	v := viper.New()

	defaults := New()
	v.SetDefault("observability.enable_metrics", defaults.Observability.EnableMetrics)
	v.SetDefault("observability.metrics_addr", defaults.Observability.MetricsAddr)
	v.SetDefault("observability.enable_report", defaults.Observability.EnableReport)
	v.SetDefault("observability.log_level", defaults.Observability.LogLevel)
	v.SetDefault("observability.log_encoding", defaults.Observability.LogEncoding)
	v.SetDefault("observability.development", defaults.Observability.Development)
	v.SetDefault("bench.goroutines", defaults.Bench.Goroutines)
	v.SetDefault("bench.iterations", defaults.Bench.Iterations)
	v.SetDefault("bench.element_counts", defaults.Bench.ElementCounts)
	v.SetDefault("bench.aggressive", defaults.Bench.Aggressive)
	v.SetDefault("bench.use_hints", defaults.Bench.UseHints)
	v.SetDefault("bench.pinned", defaults.Bench.Pinned)
	v.SetDefault("bench.duration", defaults.Bench.Duration)

	v.SetEnvPrefix("RECYCLE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if filePath != "" {
		data, err := readConfigFile(filePath)
		if err != nil {
			return nil, err
		}
		v.SetConfigType("yaml")
		if err := v.ReadConfig(bytes.NewReader(data)); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", filePath, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// readConfigFile reads a YAML config file and expands ${VAR} and $VAR
// references against the process environment. Unset variables expand to
// the empty string.
func readConfigFile(filePath string) ([]byte, error) {
	data, err := os.ReadFile(filePath) //nolint:gosec // G304: path comes from the operator's --config flag
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", filePath, err)
	}
	return []byte(os.Expand(string(data), os.Getenv)), nil
}
