// Package metrics provides Prometheus observability for the recycle pool.
// All collectors are registered automatically through promauto and are
// labeled by element type and backend so that one process can expose the
// behavior of every manager it instantiated.
//
// # Overview
//
// The metrics package provides:
//   - Prometheus-compatible metrics collection
//   - Pre-defined counters for every pool event
//   - An in-use gauge tracking handed-out buffers
//   - Thread-safe metric recording
//   - Automatic metric registration
//
// # Basic Usage
//
//	// Count a served allocation request
//	metrics.Requests.WithLabelValues("float64", "backend.Heap").Inc()
//
//	// Track handed-out buffers
//	metrics.BuffersInUse.WithLabelValues("float64", "backend.Heap").Inc()
//	defer metrics.BuffersInUse.WithLabelValues("float64", "backend.Heap").Dec()
//
//	// Time a workload section
//	timer := metrics.NewTimer("drain")
//	recycle.Cleanup()
//	duration := timer.Stop()
//
// # Metric Types
//
// Counter: Monotonically increasing values (e.g., total requests served)
// Gauge: Values that can go up or down (e.g., buffers currently in use)
//
// # Performance Considerations
//
// The hot acquire/release path updates at most two counters and two gauges
// per call. Prometheus counters and gauges are lock-free, and the pool
// records them after releasing its shard lock.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// poolLabels are the labels shared by every pool metric: the element type
// the manager serves and the backend that provides its storage.
var poolLabels = []string{"element_type", "backend"}

var (
	// Requests tracks the total number of allocation requests served,
	// whether satisfied by recycling or by a fresh backend allocation.
	//
	// Example:
	//	metrics.Requests.WithLabelValues("float64", "backend.Heap").Inc()
	Requests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recycle_requests_total",
			Help: "Total number of allocation requests served",
		},
		poolLabels,
	)

	// Recyclings tracks requests satisfied from a free list without
	// touching the backend.
	Recyclings = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recycle_recyclings_total",
			Help: "Total number of requests satisfied by reusing a cached buffer",
		},
		poolLabels,
	)

	// Creations tracks fresh allocations performed through the backend.
	Creations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recycle_creations_total",
			Help: "Total number of fresh backend allocations",
		},
		poolLabels,
	)

	// BadAllocRetries tracks backend allocation failures that triggered a
	// global drain of the free lists before retrying.
	BadAllocRetries = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recycle_bad_alloc_retries_total",
			Help: "Total number of allocation failures that forced a global drain and retry",
		},
		poolLabels,
	)

	// WrongHints tracks releases whose location hint named a shard that
	// did not own the buffer.
	WrongHints = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recycle_wrong_hints_total",
			Help: "Total number of releases whose location hint missed the owning shard",
		},
		poolLabels,
	)

	// CleanedBuffers tracks cached buffers destroyed and returned to the
	// backend by explicit cleanup.
	CleanedBuffers = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recycle_cleaned_buffers_total",
			Help: "Total number of cached buffers released back to the backend",
		},
		poolLabels,
	)

	// BuffersInUse tracks buffers currently handed out to callers.
	BuffersInUse = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "recycle_buffers_in_use",
			Help: "Number of buffers currently handed out",
		},
		poolLabels,
	)

	// FreeBuffers tracks buffers currently cached on free lists.
	FreeBuffers = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "recycle_free_buffers",
			Help: "Number of buffers currently cached for reuse",
		},
		poolLabels,
	)
)

// Timer provides a simple timing mechanism for measuring operation durations.
// It captures the start time on creation and calculates elapsed time on stop.
type Timer struct {
	start time.Time
	name  string
}

// NewTimer creates a new timer and starts timing immediately.
// The name parameter is for identification in logs or metrics.
//
// Example:
//
//	timer := metrics.NewTimer("bench_run")
//	runWorkload()
//	duration := timer.Stop()
//	log.Info("workload finished", zap.Duration("duration", duration))
func NewTimer(name string) *Timer {
	return &Timer{
		start: time.Now(),
		name:  name,
	}
}

// Stop returns the elapsed time since the timer was created.
func (t *Timer) Stop() time.Duration {
	return time.Since(t.start)
}

// Name returns the timer's identifier.
func (t *Timer) Name() string {
	return t.name
}
