// Package locality provides NUMA-aware allocator facades. The plain
// facades in pkg/recycle always serve from shard 0; the facades here pass
// the calling goroutine's NUMA node as the location hint, so goroutines
// pinned to different nodes keep their buffers on disjoint shards and do
// not contend on one lock.
package locality

import (
	"github.com/ajitpratap0/recycle/pkg/recycle"
)

// LocalAllocator is the plain recycling facade with NUMA-node location
// hints. It behaves exactly like recycle.Allocator except that every
// Allocate and Deallocate passes the current NUMA node as the hint.
type LocalAllocator[T any, A recycle.Backend[T]] struct{}

// Allocate returns a buffer of exactly n elements served from the shard
// of the calling goroutine's NUMA node.
func (LocalAllocator[T, A]) Allocate(n int) ([]T, error) {
	return recycle.Acquire[T, A](n, false, CurrentNode())
}

// Deallocate returns the buffer to the pool, probing the current node's
// shard first.
func (LocalAllocator[T, A]) Deallocate(buf []T) error {
	return recycle.Release[T, A](buf, CurrentNode())
}

// Construct initializes one element to its zero value.
func (LocalAllocator[T, A]) Construct(p *T) {
	var zero T
	*p = zero
}

// Destroy clears one element.
func (LocalAllocator[T, A]) Destroy(p *T) {
	var zero T
	*p = zero
}

// LocalAggressiveAllocator is the aggressive recycling facade with
// NUMA-node location hints. The trivially-representable restriction of
// recycle.AggressiveAllocator applies.
type LocalAggressiveAllocator[T any, A recycle.Backend[T]] struct{}

// Allocate returns a buffer of exactly n elements served from the shard
// of the calling goroutine's NUMA node, with contents of the previous
// aggressive user intact when recycled.
func (LocalAggressiveAllocator[T, A]) Allocate(n int) ([]T, error) {
	return recycle.Acquire[T, A](n, true, CurrentNode())
}

// Deallocate returns the buffer to the pool with its contents intact,
// probing the current node's shard first.
func (LocalAggressiveAllocator[T, A]) Deallocate(buf []T) error {
	return recycle.Release[T, A](buf, CurrentNode())
}

// Construct is a no-op.
func (LocalAggressiveAllocator[T, A]) Construct(p *T) {}

// Destroy is a no-op.
func (LocalAggressiveAllocator[T, A]) Destroy(p *T) {}
