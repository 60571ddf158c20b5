package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ajitpratap0/recycle/pkg/config"
)

func TestNewDefaults(t *testing.T) {
	cfg := config.New()

	assert.Equal(t, "info", cfg.Observability.LogLevel)
	assert.Equal(t, "json", cfg.Observability.LogEncoding)
	assert.Equal(t, ":9090", cfg.Observability.MetricsAddr)
	assert.True(t, cfg.Observability.EnableReport)
	assert.False(t, cfg.Observability.EnableMetrics)

	assert.Positive(t, cfg.Bench.Goroutines)
	assert.Equal(t, 10000, cfg.Bench.Iterations)
	assert.NotEmpty(t, cfg.Bench.ElementCounts)
	assert.True(t, cfg.Bench.UseHints)

	require.NoError(t, cfg.Validate())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*config.Config)
		wantErr string
	}{
		{
			name:   "defaults are valid",
			mutate: func(c *config.Config) {},
		},
		{
			name:    "bad log level",
			mutate:  func(c *config.Config) { c.Observability.LogLevel = "verbose" },
			wantErr: "invalid log_level",
		},
		{
			name:    "bad encoding",
			mutate:  func(c *config.Config) { c.Observability.LogEncoding = "xml" },
			wantErr: "invalid log_encoding",
		},
		{
			name: "metrics without address",
			mutate: func(c *config.Config) {
				c.Observability.EnableMetrics = true
				c.Observability.MetricsAddr = ""
			},
			wantErr: "metrics_addr",
		},
		{
			name:    "zero goroutines",
			mutate:  func(c *config.Config) { c.Bench.Goroutines = 0 },
			wantErr: "goroutines must be positive",
		},
		{
			name:    "negative iterations",
			mutate:  func(c *config.Config) { c.Bench.Iterations = -1 },
			wantErr: "iterations must be positive",
		},
		{
			name:    "empty element counts",
			mutate:  func(c *config.Config) { c.Bench.ElementCounts = nil },
			wantErr: "element_counts must not be empty",
		},
		{
			name:    "non-positive element count",
			mutate:  func(c *config.Config) { c.Bench.ElementCounts = []int{64, 0} },
			wantErr: "element counts must be positive",
		},
		{
			name:    "negative duration",
			mutate:  func(c *config.Config) { c.Bench.Duration = -time.Second },
			wantErr: "duration must not be negative",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.New()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
			}
		})
	}
}

func TestLoadWithViper(t *testing.T) {
	t.Run("defaults only", func(t *testing.T) {
		cfg, err := config.LoadWithViper("")
		require.NoError(t, err)
		assert.Equal(t, "info", cfg.Observability.LogLevel)
		assert.Equal(t, 10000, cfg.Bench.Iterations)
	})

	t.Run("file layer", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "bench.yaml")
		content := `
bench:
  goroutines: 2
  aggressive: true
`
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

		cfg, err := config.LoadWithViper(path)
		require.NoError(t, err)
		assert.Equal(t, 2, cfg.Bench.Goroutines)
		assert.True(t, cfg.Bench.Aggressive)
		// Untouched keys keep their defaults.
		assert.Equal(t, 10000, cfg.Bench.Iterations)
	})

	t.Run("env vars expanded in file", func(t *testing.T) {
		t.Setenv("TEST_RECYCLE_LEVEL", "debug")

		dir := t.TempDir()
		path := filepath.Join(dir, "expand.yaml")
		content := `
observability:
  log_level: ${TEST_RECYCLE_LEVEL}
  log_encoding: console
bench:
  goroutines: 4
`
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

		cfg, err := config.LoadWithViper(path)
		require.NoError(t, err)
		assert.Equal(t, "debug", cfg.Observability.LogLevel)
		assert.Equal(t, "console", cfg.Observability.LogEncoding)
		assert.Equal(t, 4, cfg.Bench.Goroutines)
	})

	t.Run("environment overrides", func(t *testing.T) {
		t.Setenv("RECYCLE_OBSERVABILITY_LOG_LEVEL", "warn")

		cfg, err := config.LoadWithViper("")
		require.NoError(t, err)
		assert.Equal(t, "warn", cfg.Observability.LogLevel)
	})

	t.Run("invalid file rejected", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "bad.yaml")
		require.NoError(t, os.WriteFile(path, []byte("bench:\n  goroutines: -3\n"), 0o644))

		_, err := config.LoadWithViper(path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "goroutines must be positive")
	})

	t.Run("missing file rejected", func(t *testing.T) {
		_, err := config.LoadWithViper("/nonexistent/config.yaml")
		require.Error(t, err)
	})
}
