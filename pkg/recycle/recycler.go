package recycle

import (
	"sync"

	"go.uber.org/zap"

	"github.com/ajitpratap0/recycle/pkg/logger"
)

// recycler coordinates cleanup across every buffer manager in the process.
// Managers register one drain callback and one destroy callback on first
// use; registration order is preserved and callbacks run in that order.
//
// Lock ordering: the recycler mutex is taken first, then each shard lock
// inside the callbacks. No shard lock is ever held while the recycler
// mutex is acquired.
type recycler struct {
	mu               sync.Mutex
	drainCallbacks   []func() int
	destroyCallbacks []func() int
}

var globalRecycler recycler

// register appends one callback of each kind. Managers guard their call
// with a sync.Once so each manager appears exactly once per list.
func (r *recycler) register(drain, destroy func() int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.drainCallbacks = append(r.drainCallbacks, drain)
	r.destroyCallbacks = append(r.destroyCallbacks, destroy)
}

// cleanupAll drains the free list of every registered manager and reports
// how many cached buffers were released.
func (r *recycler) cleanupAll() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	released := 0
	for _, drain := range r.drainCallbacks {
		released += drain()
	}
	return released
}

// destroyEverything tears down all cached and handed-out buffers of every
// registered manager. Only the force-cleanup path reaches it.
func (r *recycler) destroyEverything() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	destroyed := 0
	for _, destroy := range r.destroyCallbacks {
		destroyed += destroy()
	}
	return destroyed
}

// Cleanup releases every cached free buffer in the process back to its
// backend. Buffers currently handed out are untouched. Safe to call any
// number of times, including concurrently with pool use.
func Cleanup() {
	released := globalRecycler.cleanupAll()
	if released > 0 {
		logger.Component("recycle").Debug("drained free buffers",
			zap.Int("released", released))
	}
}

// ForceCleanup destroys every buffer the pool knows about, including
// buffers still handed out to callers. It is meant as end-of-run teardown
// from main; no caller may touch a pool buffer afterwards. The per-manager
// counter report is emitted first so the numbers describe the full run.
func ForceCleanup() {
	reportAll()
	destroyed := globalRecycler.destroyEverything()
	logger.Component("recycle").Info("destroyed all pool buffers",
		zap.Int("destroyed", destroyed))
}
