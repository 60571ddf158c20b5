package recycle

import (
	"reflect"
	"sync"
	"unsafe"

	"go.uber.org/zap"

	"github.com/ajitpratap0/recycle/pkg/logger"
	"github.com/ajitpratap0/recycle/pkg/metrics"
	"github.com/ajitpratap0/recycle/pkg/rerrors"
)

// Shards is the fixed number of independently locked sub-pools per manager.
const Shards = 128

// NoHint marks the absence of a location hint. Acquisitions without a hint
// use shard 0; releases without a hint scan every shard.
const NoHint = -1

// shardIndex maps a non-negative location hint onto a shard.
func shardIndex(hint int) int {
	return hint % Shards
}

// bufferEntry records one buffer the pool knows about, whether cached on a
// free list or handed out.
type bufferEntry[T any] struct {
	buf   []T
	count int
	// contentLive is true when the buffer's last user ran in aggressive
	// mode and left constructed contents behind.
	contentLive bool
	// locality is the shard index recorded at allocation time. Releases
	// locate buffers by scanning, not by reading this field.
	locality int
}

// shardCounters accumulate under the shard lock.
type shardCounters struct {
	requests        uint64
	deallocations   uint64
	recyclings      uint64
	creations       uint64
	badAllocRetries uint64
	wrongHints      uint64
	cleaned         uint64
}

type shard[T any] struct {
	mu      sync.Mutex
	inUse   map[uintptr]bufferEntry[T]
	free    []bufferEntry[T] // the tail is the most recently released buffer
	counter shardCounters
}

// manager owns every buffer of one element type on one backend. There is
// exactly one manager per (T, A) pair for the life of the process.
type manager[T any, A Backend[T]] struct {
	shards       [Shards]shard[T]
	backend      A
	registerOnce sync.Once
	elemLabel    string
	backendLabel string
	log          *zap.Logger
}

type managerKey struct {
	elem    reflect.Type
	backend reflect.Type
}

// statsSource is the type-erased view of a manager the registry keeps for
// reporting.
type statsSource interface {
	snapshot() Stats
	report()
}

var (
	registryMu    sync.RWMutex
	registry      = make(map[managerKey]any)
	registryOrder []statsSource
)

// managerFor returns the process-wide manager for the (T, A) pair, creating
// it on first use.
func managerFor[T any, A Backend[T]]() *manager[T, A] {
	key := managerKey{elem: reflect.TypeFor[T](), backend: reflect.TypeFor[A]()}

	registryMu.RLock()
	existing, ok := registry[key]
	registryMu.RUnlock()
	if ok {
		return existing.(*manager[T, A])
	}

	registryMu.Lock()
	defer registryMu.Unlock()
	if existing, ok := registry[key]; ok {
		return existing.(*manager[T, A])
	}

	m := &manager[T, A]{
		elemLabel:    key.elem.String(),
		backendLabel: key.backend.String(),
	}
	m.log = logger.Component("recycle").With(
		zap.String("element_type", m.elemLabel),
		zap.String("backend", m.backendLabel),
	)
	for i := range m.shards {
		m.shards[i].inUse = make(map[uintptr]bufferEntry[T])
	}
	registry[key] = m
	registryOrder = append(registryOrder, m)
	return m
}

// sliceKey identifies a buffer by its base pointer.
func sliceKey[T any](buf []T) uintptr {
	return uintptr(unsafe.Pointer(unsafe.SliceData(buf)))
}

// takeFree removes and returns the most recently released buffer of exactly
// n elements from s, reconciling its content state with the requested mode.
// The caller must hold s.mu.
func (m *manager[T, A]) takeFree(s *shard[T], n int, aggressive bool, idx int) ([]T, bool) {
	for i := len(s.free) - 1; i >= 0; i-- {
		e := s.free[i]
		if e.count != n {
			continue
		}
		s.free = append(s.free[:i], s.free[i+1:]...)

		// Content reconciliation: aggressive callers expect constructed
		// contents, plain callers expect to construct per element over
		// arbitrary storage. Storage is cleared only when the cached
		// state and the requested mode disagree.
		if e.contentLive != aggressive {
			clear(e.buf)
		}

		e.contentLive = aggressive
		e.locality = idx
		s.inUse[sliceKey(e.buf)] = e
		s.counter.requests++
		s.counter.recyclings++
		return e.buf, true
	}
	return nil, false
}

// acquire hands out a buffer of exactly n elements. The hint selects the
// shard to serve from; NoHint falls back to shard 0. On a free-list miss
// the backend allocates fresh storage; if that fails, every free list in
// the process is drained and the allocation retried exactly once.
func (m *manager[T, A]) acquire(n int, aggressive bool, hint int) ([]T, error) {
	if n <= 0 {
		return nil, rerrors.New(rerrors.ErrorTypeValidation, "element count must be positive").
			WithDetail("count", n)
	}

	m.registerOnce.Do(func() {
		globalRecycler.register(m.drainFree, m.destroyAll)
	})

	idx := 0
	if hint != NoHint {
		idx = shardIndex(hint)
	}
	s := &m.shards[idx]

	s.mu.Lock()
	if buf, ok := m.takeFree(s, n, aggressive, idx); ok {
		s.mu.Unlock()
		metrics.Requests.WithLabelValues(m.elemLabel, m.backendLabel).Inc()
		metrics.Recyclings.WithLabelValues(m.elemLabel, m.backendLabel).Inc()
		metrics.FreeBuffers.WithLabelValues(m.elemLabel, m.backendLabel).Dec()
		metrics.BuffersInUse.WithLabelValues(m.elemLabel, m.backendLabel).Inc()
		return buf, nil
	}

	buf, err := m.backend.Allocate(n)
	if err != nil {
		s.counter.badAllocRetries++
		// The global drain re-locks this shard through the registered
		// callback, so the lock is dropped for the duration.
		s.mu.Unlock()

		m.log.Warn("allocation failed, draining all free buffers and retrying",
			zap.Int("count", n),
			zap.Error(err))
		metrics.BadAllocRetries.WithLabelValues(m.elemLabel, m.backendLabel).Inc()
		globalRecycler.cleanupAll()

		s.mu.Lock()
		// A matching buffer may have been released while the lock was
		// dropped; prefer it over a fresh allocation.
		if buf, ok := m.takeFree(s, n, aggressive, idx); ok {
			s.mu.Unlock()
			metrics.Requests.WithLabelValues(m.elemLabel, m.backendLabel).Inc()
			metrics.Recyclings.WithLabelValues(m.elemLabel, m.backendLabel).Inc()
			metrics.FreeBuffers.WithLabelValues(m.elemLabel, m.backendLabel).Dec()
			metrics.BuffersInUse.WithLabelValues(m.elemLabel, m.backendLabel).Inc()
			return buf, nil
		}

		buf, err = m.backend.Allocate(n)
		if err != nil {
			s.mu.Unlock()
			return nil, rerrors.Wrap(err, rerrors.ErrorTypeOutOfMemory, "backend allocation failed after draining all free buffers").
				WithDetail("count", n).
				WithDetail("element_type", m.elemLabel)
		}
	}

	s.inUse[sliceKey(buf)] = bufferEntry[T]{
		buf:         buf,
		count:       n,
		contentLive: aggressive,
		locality:    idx,
	}
	s.counter.requests++
	s.counter.creations++
	s.mu.Unlock()

	metrics.Requests.WithLabelValues(m.elemLabel, m.backendLabel).Inc()
	metrics.Creations.WithLabelValues(m.elemLabel, m.backendLabel).Inc()
	metrics.BuffersInUse.WithLabelValues(m.elemLabel, m.backendLabel).Inc()
	return buf, nil
}

// retire moves an in-use entry onto the shard's free list. The caller must
// hold s.mu and have verified ownership. A release whose element count
// differs from the count recorded at allocation indicates memory corruption
// in the caller; the mismatch error is returned so the caller can panic
// after dropping the shard lock.
func (m *manager[T, A]) retire(s *shard[T], e bufferEntry[T], n int) error {
	if e.count != n {
		return rerrors.New(rerrors.ErrorTypeCountMismatch, "release count differs from allocation count").
			WithDetail("allocated", e.count).
			WithDetail("released", n).
			WithDetail("element_type", m.elemLabel)
	}
	delete(s.inUse, sliceKey(e.buf))
	s.free = append(s.free, e)
	s.counter.deallocations++
	return nil
}

// release returns a buffer to the pool. The hinted shard is probed first;
// a wrong hint falls through to an ascending scan of every other shard.
// The backend is never called from this path. A count mismatch on the
// owning shard panics.
func (m *manager[T, A]) release(buf []T, hint int) error {
	key := sliceKey(buf)
	n := len(buf)
	skip := -1

	if hint != NoHint {
		idx := shardIndex(hint)
		s := &m.shards[idx]
		s.mu.Lock()
		if e, ok := s.inUse[key]; ok {
			err := m.retire(s, e, n)
			s.mu.Unlock()
			if err != nil {
				panic(err)
			}
			metrics.BuffersInUse.WithLabelValues(m.elemLabel, m.backendLabel).Dec()
			metrics.FreeBuffers.WithLabelValues(m.elemLabel, m.backendLabel).Inc()
			return nil
		}
		s.counter.wrongHints++
		s.mu.Unlock()
		metrics.WrongHints.WithLabelValues(m.elemLabel, m.backendLabel).Inc()
		skip = idx
	}

	for i := range m.shards {
		if i == skip {
			continue
		}
		s := &m.shards[i]
		s.mu.Lock()
		if e, ok := s.inUse[key]; ok {
			err := m.retire(s, e, n)
			s.mu.Unlock()
			if err != nil {
				panic(err)
			}
			metrics.BuffersInUse.WithLabelValues(m.elemLabel, m.backendLabel).Dec()
			metrics.FreeBuffers.WithLabelValues(m.elemLabel, m.backendLabel).Inc()
			return nil
		}
		s.mu.Unlock()
	}

	return rerrors.New(rerrors.ErrorTypeUnknownBuffer, "no shard owns this buffer").
		WithDetail("count", n).
		WithDetail("hint", hint).
		WithDetail("element_type", m.elemLabel)
}

// drainFree destroys the contents of every cached buffer and returns the
// storage to the backend. Handed-out buffers are untouched. Returns the
// number of buffers released.
func (m *manager[T, A]) drainFree() int {
	released := 0
	for i := range m.shards {
		s := &m.shards[i]
		s.mu.Lock()
		for _, e := range s.free {
			if e.contentLive {
				clear(e.buf)
			}
			m.backend.Deallocate(e.buf)
		}
		n := len(s.free)
		s.free = nil
		s.counter.cleaned += uint64(n)
		released += n
		s.mu.Unlock()
	}
	if released > 0 {
		metrics.CleanedBuffers.WithLabelValues(m.elemLabel, m.backendLabel).Add(float64(released))
		metrics.FreeBuffers.WithLabelValues(m.elemLabel, m.backendLabel).Sub(float64(released))
	}
	return released
}

// destroyAll is drainFree plus destruction and deallocation of every
// handed-out buffer. Only the force-cleanup teardown reaches it; any
// outstanding buffer is invalid afterwards.
func (m *manager[T, A]) destroyAll() int {
	destroyed := m.drainFree()
	dropped := 0
	for i := range m.shards {
		s := &m.shards[i]
		s.mu.Lock()
		for key, e := range s.inUse {
			clear(e.buf)
			m.backend.Deallocate(e.buf)
			delete(s.inUse, key)
			dropped++
		}
		s.mu.Unlock()
	}
	if dropped > 0 {
		m.log.Warn("destroyed buffers still in use", zap.Int("buffers", dropped))
		metrics.BuffersInUse.WithLabelValues(m.elemLabel, m.backendLabel).Sub(float64(dropped))
	}
	return destroyed + dropped
}
