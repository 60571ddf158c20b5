// Package recycle implements a sharded recycling buffer pool. Buffers are
// obtained through allocator facades, cached on release instead of being
// returned to the underlying storage provider, and handed back out to later
// requests for the exact same element count.
//
// # Overview
//
// One logical manager exists per element type and backend pair. Each manager
// is split into a fixed array of shards, each with its own lock, its own
// in-use table, and its own free list. Released buffers join the owning
// shard's free list and lookups take the most recently released match
// first, so storage is reused while it is still warm in cache.
//
// Reuse requires an exact element-count match. The pool never carves, splits,
// or rounds buffer sizes, which makes it effective for workloads that request
// the same handful of sizes over and over.
//
// # Allocator Facades
//
//	// Plain facade: elements are constructed and destroyed per use
//	var alloc recycle.Allocator[float64, backend.Heap[float64]]
//	buf, err := alloc.Allocate(1024)
//	if err != nil {
//	    return err
//	}
//	defer alloc.Deallocate(buf)
//
//	// Aggressive facade: contents survive recycling untouched
//	var fast recycle.AggressiveAllocator[float64, backend.Heap[float64]]
//	buf, err := fast.Allocate(1024)
//
// The aggressive facade skips per-element construction and destruction
// entirely and must only be used with element types that contain no
// pointers, maps, channels, slices, or strings.
//
// # Cleanup
//
// Cached buffers live until explicitly drained:
//
//	recycle.Cleanup()      // release all cached free buffers
//	recycle.ForceCleanup() // tear down everything, including handed-out buffers
//
// ForceCleanup is an end-of-run operation. Any buffer still handed out when
// it runs becomes invalid.
//
// # Memory Pressure
//
// When the backend reports an allocation failure, the pool drains every free
// list process-wide and retries the allocation exactly once before
// surfacing an out-of-memory error. rerrors.IsOutOfMemory identifies that
// condition; the caller may release buffers and try again.
//
// # Thread Safety
//
// All operations are safe for concurrent use. Shards are locked
// independently, so goroutines working with different location hints do not
// contend.
package recycle
