//go:build linux
// +build linux

package backend

import (
	"fmt"
	"unsafe"

	"golang.org/x/sys/unix"
)

// Pinned allocates page-aligned, page-locked buffers through anonymous
// memory mappings. Locked pages cannot be swapped out, which makes this
// backend a host-side staging area for DMA-style transfers.
//
// Allocation fails when the mapping or the lock is refused, typically
// because RLIMIT_MEMLOCK is exhausted. The pool treats that like any other
// out-of-memory condition.
type Pinned[T any] struct{}

// Allocate maps and locks storage for n elements.
func (Pinned[T]) Allocate(n int) ([]T, error) {
	size := int(unsafe.Sizeof(*new(T)))
	if size == 0 {
		// Zero-sized elements need no storage.
		return make([]T, n), nil
	}

	length := n * size
	b, err := unix.Mmap(-1, 0, length,
		unix.PROT_READ|unix.PROT_WRITE,
		unix.MAP_PRIVATE|unix.MAP_ANONYMOUS)
	if err != nil {
		return nil, fmt.Errorf("mmap of %d bytes failed: %w", length, err)
	}

	if err := unix.Mlock(b); err != nil {
		_ = unix.Munmap(b)
		return nil, fmt.Errorf("mlock of %d bytes failed: %w", length, err)
	}

	return unsafe.Slice((*T)(unsafe.Pointer(unsafe.SliceData(b))), n), nil
}

// Deallocate unlocks and unmaps the buffer.
func (Pinned[T]) Deallocate(buf []T) {
	size := int(unsafe.Sizeof(*new(T)))
	if size == 0 || len(buf) == 0 {
		return
	}

	b := unsafe.Slice((*byte)(unsafe.Pointer(unsafe.SliceData(buf))), len(buf)*size)
	_ = unix.Munlock(b)
	_ = unix.Munmap(b)
}
