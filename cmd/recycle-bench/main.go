package main

import (
	"context"
	"fmt"
	"math/rand"
	"net/http"
	"os"
	"runtime"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/shirou/gopsutil/v3/process"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ajitpratap0/recycle/pkg/backend"
	"github.com/ajitpratap0/recycle/pkg/config"
	"github.com/ajitpratap0/recycle/pkg/locality"
	"github.com/ajitpratap0/recycle/pkg/logger"
	"github.com/ajitpratap0/recycle/pkg/metrics"
	"github.com/ajitpratap0/recycle/pkg/recycle"
)

var version = "0.1.0"

func main() {
	root := &cobra.Command{
		Use:   "recycle-bench",
		Short: "Benchmark and inspection tool for the recycle buffer pool",
		Long: `recycle-bench drives a configurable acquire/release workload against the
recycling buffer pool and reports reuse behavior, counters, and process
memory. Workload parameters come from a config file, RECYCLE_-prefixed
environment variables, and flags, in ascending priority.`,
	}

	root.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("recycle-bench v%s\n", version)
			fmt.Printf("Go version: %s\n", runtime.Version())
			fmt.Printf("OS/Arch: %s/%s\n", runtime.GOOS, runtime.GOARCH)
			fmt.Printf("Shards: %d\n", recycle.Shards)
			fmt.Printf("NUMA node: %d\n", locality.CurrentNode())
		},
	})

	var configFile string
	var goroutines, iterations int
	var duration time.Duration
	var aggressive, useHints, pinned, enableMetrics, jsonReport bool

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "Run the acquire/release workload",
		Long: `Run the acquire/release workload across goroutines. Each worker cycles
through the configured element counts, optionally passing its worker index
as the location hint so workers map onto disjoint shards.

Example:
  recycle-bench run --config bench.yaml --goroutines 16 --aggressive`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadWithViper(configFile)
			if err != nil {
				return err
			}

			// Flags override the file and environment layers only when set.
			if cmd.Flags().Changed("goroutines") {
				cfg.Bench.Goroutines = goroutines
			}
			if cmd.Flags().Changed("iterations") {
				cfg.Bench.Iterations = iterations
			}
			if cmd.Flags().Changed("duration") {
				cfg.Bench.Duration = duration
			}
			if cmd.Flags().Changed("aggressive") {
				cfg.Bench.Aggressive = aggressive
			}
			if cmd.Flags().Changed("hints") {
				cfg.Bench.UseHints = useHints
			}
			if cmd.Flags().Changed("pinned") {
				cfg.Bench.Pinned = pinned
			}
			if cmd.Flags().Changed("metrics") {
				cfg.Observability.EnableMetrics = enableMetrics
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			return runBench(cfg, jsonReport)
		},
	}

	runCmd.Flags().StringVarP(&configFile, "config", "c", "", "Path to YAML configuration file (optional)")
	runCmd.Flags().IntVar(&goroutines, "goroutines", runtime.NumCPU(), "Number of concurrent workers")
	runCmd.Flags().IntVar(&iterations, "iterations", 10000, "Acquire/release cycles per worker")
	runCmd.Flags().DurationVar(&duration, "duration", 0, "Also bound the run by wall time (e.g. 30s); it stops at whichever limit comes first")
	runCmd.Flags().BoolVar(&aggressive, "aggressive", false, "Use the aggressive content-lifetime mode")
	runCmd.Flags().BoolVar(&useHints, "hints", true, "Pass worker indices as location hints")
	runCmd.Flags().BoolVar(&pinned, "pinned", false, "Allocate through the page-locked backend")
	runCmd.Flags().BoolVar(&enableMetrics, "metrics", false, "Serve the Prometheus endpoint during the run")
	runCmd.Flags().BoolVar(&jsonReport, "json", false, "Print the final stats report as JSON")

	root.AddCommand(runCmd)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func runBench(cfg *config.Config, jsonReport bool) error {
	if err := logger.Init(logger.Config{
		Level:       cfg.Observability.LogLevel,
		Development: cfg.Observability.Development,
		Encoding:    cfg.Observability.LogEncoding,
	}); err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	recycle.EnableTeardownReport(cfg.Observability.EnableReport)

	log := logger.Component("recycle-bench")

	if cfg.Observability.EnableMetrics {
		go func() {
			mux := http.NewServeMux()
			mux.Handle("/metrics", promhttp.Handler())
			log.Info("serving metrics", zap.String("addr", cfg.Observability.MetricsAddr))
			if err := http.ListenAndServe(cfg.Observability.MetricsAddr, mux); err != nil {
				log.Warn("metrics endpoint stopped", zap.Error(err))
			}
		}()
	}

	log.Info("starting workload",
		zap.Int("goroutines", cfg.Bench.Goroutines),
		zap.Int("iterations", cfg.Bench.Iterations),
		zap.Ints("element_counts", cfg.Bench.ElementCounts),
		zap.Bool("aggressive", cfg.Bench.Aggressive),
		zap.Bool("hints", cfg.Bench.UseHints),
		zap.Bool("pinned", cfg.Bench.Pinned),
		zap.Duration("duration", cfg.Bench.Duration))

	timer := metrics.NewTimer("bench_run")
	var err error
	if cfg.Bench.Pinned {
		err = runWorkload[backend.Pinned[float64]](cfg)
	} else {
		err = runWorkload[backend.Heap[float64]](cfg)
	}
	elapsed := timer.Stop()
	if err != nil {
		return err
	}

	total := int64(cfg.Bench.Goroutines) * int64(cfg.Bench.Iterations)
	log.Info("workload finished",
		zap.Duration("elapsed", elapsed),
		zap.Int64("cycles", total),
		zap.Float64("cycles_per_second", float64(total)/elapsed.Seconds()))

	logProcessMemory(log)

	if jsonReport {
		out, err := recycle.ReportJSON()
		if err != nil {
			return fmt.Errorf("failed to render stats report: %w", err)
		}
		fmt.Println(string(out))
	}

	recycle.ForceCleanup()
	return nil
}

// runWorkload drives the acquire/release cycles for one backend type.
func runWorkload[A recycle.Backend[float64]](cfg *config.Config) error {
	ctx := context.Background()
	if cfg.Bench.Duration > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.Bench.Duration)
		defer cancel()
	}

	errs := make(chan error, cfg.Bench.Goroutines)
	var wg sync.WaitGroup

	for w := 0; w < cfg.Bench.Goroutines; w++ {
		wg.Add(1)
		go func(worker int) {
			defer wg.Done()

			hint := recycle.NoHint
			if cfg.Bench.UseHints {
				hint = worker
			}
			rng := rand.New(rand.NewSource(int64(worker) + 1))

			for i := 0; i < cfg.Bench.Iterations; i++ {
				if ctx.Err() != nil {
					return
				}

				n := cfg.Bench.ElementCounts[rng.Intn(len(cfg.Bench.ElementCounts))]
				buf, err := recycle.Acquire[float64, A](n, cfg.Bench.Aggressive, hint)
				if err != nil {
					errs <- fmt.Errorf("worker %d: %w", worker, err)
					return
				}

				// Touch the buffer so reuse has observable contents.
				buf[0] = float64(worker)
				buf[n-1] = float64(i)

				if err := recycle.Release[float64, A](buf, hint); err != nil {
					errs <- fmt.Errorf("worker %d: %w", worker, err)
					return
				}
			}
		}(w)
	}

	wg.Wait()
	close(errs)
	for err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}

// logProcessMemory reports the process's resident set so pool caching can
// be weighed against real memory use.
func logProcessMemory(log *zap.Logger) {
	proc, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		log.Warn("failed to inspect process", zap.Error(err))
		return
	}
	mem, err := proc.MemoryInfo()
	if err != nil {
		log.Warn("failed to read process memory", zap.Error(err))
		return
	}
	cpu, err := proc.Percent(0)
	if err != nil {
		cpu = 0
	}
	log.Info("process usage",
		zap.Uint64("rss_bytes", mem.RSS),
		zap.Uint64("vms_bytes", mem.VMS),
		zap.Float64("cpu_percent", cpu))
}
