package recycle

import (
	"sync/atomic"

	json "github.com/goccy/go-json"
	"go.uber.org/zap"
)

// Stats is a point-in-time snapshot of one manager's counters, aggregated
// across its shards.
type Stats struct {
	ElementType     string  `json:"element_type"`
	Backend         string  `json:"backend"`
	Requests        uint64  `json:"requests"`
	Recyclings      uint64  `json:"recyclings"`
	Creations       uint64  `json:"creations"`
	Deallocations   uint64  `json:"deallocations"`
	BadAllocRetries uint64  `json:"bad_alloc_retries"`
	WrongHints      uint64  `json:"wrong_hints"`
	CleanedBuffers  uint64  `json:"cleaned_buffers"`
	InUse           uint64  `json:"buffers_in_use"`
	Free            uint64  `json:"free_buffers"`
	RecycleRate     float64 `json:"recycle_rate_percent"`
}

var teardownReport atomic.Bool

func init() {
	teardownReport.Store(true)
}

// EnableTeardownReport controls whether ForceCleanup logs the per-manager
// counter report. Enabled by default.
func EnableTeardownReport(enabled bool) {
	teardownReport.Store(enabled)
}

func (m *manager[T, A]) snapshot() Stats {
	st := Stats{
		ElementType: m.elemLabel,
		Backend:     m.backendLabel,
	}
	for i := range m.shards {
		s := &m.shards[i]
		s.mu.Lock()
		st.Requests += s.counter.requests
		st.Recyclings += s.counter.recyclings
		st.Creations += s.counter.creations
		st.Deallocations += s.counter.deallocations
		st.BadAllocRetries += s.counter.badAllocRetries
		st.WrongHints += s.counter.wrongHints
		st.CleanedBuffers += s.counter.cleaned
		st.InUse += uint64(len(s.inUse))
		st.Free += uint64(len(s.free))
		s.mu.Unlock()
	}
	if st.Requests > 0 {
		st.RecycleRate = float64(st.Recyclings) / float64(st.Requests) * 100
	}
	return st
}

// report logs the manager's lifetime counters in the teardown format.
func (m *manager[T, A]) report() {
	st := m.snapshot()
	m.log.Info("buffer manager report",
		zap.Uint64("bad_alloc_retries", st.BadAllocRetries),
		zap.Uint64("requests_served", st.Requests),
		zap.Uint64("recyclings", st.Recyclings),
		zap.Uint64("creations", st.Creations),
		zap.Uint64("cleaned_buffers", st.CleanedBuffers),
		zap.Uint64("wrong_hints", st.WrongHints),
		zap.Uint64("buffers_in_use", st.InUse),
		zap.Float64("recycle_rate_percent", st.RecycleRate))
}

// reportAll emits the counter report of every manager in creation order.
func reportAll() {
	if !teardownReport.Load() {
		return
	}
	registryMu.RLock()
	sources := make([]statsSource, len(registryOrder))
	copy(sources, registryOrder)
	registryMu.RUnlock()

	for _, src := range sources {
		src.report()
	}
}

// StatsFor returns the counter snapshot of the manager serving the (T, A)
// pair. A manager is created on first use, so querying a pair that was
// never allocated from returns zeroed counters.
func StatsFor[T any, A Backend[T]]() Stats {
	return managerFor[T, A]().snapshot()
}

// AllStats returns a snapshot of every manager in creation order.
func AllStats() []Stats {
	registryMu.RLock()
	sources := make([]statsSource, len(registryOrder))
	copy(sources, registryOrder)
	registryMu.RUnlock()

	stats := make([]Stats, 0, len(sources))
	for _, src := range sources {
		stats = append(stats, src.snapshot())
	}
	return stats
}

// ReportJSON renders the stats of every manager as JSON.
func ReportJSON() ([]byte, error) {
	return json.Marshal(AllStats())
}
