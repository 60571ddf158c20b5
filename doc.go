// Package recycle is the module root for a sharded recycling buffer pool
// aimed at workloads that allocate the same handful of buffer sizes over
// and over, such as staging areas for accelerator transfers or per-batch
// scratch space in data pipelines.
//
// Instead of returning storage to the underlying provider on release, the
// pool caches it on a per-shard free list and hands it back to the next
// request for the exact same element count. On allocation pressure the
// pool drains every free list in the process and retries once before
// reporting an out-of-memory condition.
//
// # Packages
//
//   - pkg/recycle: the pool core with its allocator facades
//   - pkg/backend: heap and page-locked storage providers
//   - pkg/locality: NUMA-aware facade variants
//   - pkg/metrics: Prometheus collectors for pool events
//   - pkg/rerrors: structured errors with categories and stack capture
//   - pkg/logger: zap-based structured logging
//   - pkg/config: configuration for the benchmark and observability
//
// # Quick Start
//
//	var alloc recycle.Allocator[float64, backend.Heap[float64]]
//	buf, err := alloc.Allocate(1 << 20)
//	if err != nil {
//	    return err
//	}
//	defer alloc.Deallocate(buf)
//
// Call recycle.Cleanup to drop cached buffers under memory pressure and
// recycle.ForceCleanup from main as end-of-run teardown.
package recycle
