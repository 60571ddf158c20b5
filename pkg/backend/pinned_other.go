//go:build !linux
// +build !linux

package backend

// Pinned falls back to heap allocation on platforms without mlock-backed
// anonymous mappings. Buffers keep the same exact-count semantics; they
// are simply not page-locked.
type Pinned[T any] struct{}

// Allocate returns a zeroed buffer of n elements.
func (Pinned[T]) Allocate(n int) ([]T, error) {
	return make([]T, n), nil
}

// Deallocate releases the buffer to the garbage collector.
func (Pinned[T]) Deallocate(buf []T) {}
