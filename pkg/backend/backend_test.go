package backend_test

import (
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ajitpratap0/recycle/pkg/backend"
)

func TestHeapAllocate(t *testing.T) {
	var h backend.Heap[float64]

	buf, err := h.Allocate(128)
	require.NoError(t, err)
	assert.Len(t, buf, 128)
	for i, v := range buf {
		require.Zero(t, v, "element %d must be zeroed", i)
	}

	buf[0] = 3.14
	h.Deallocate(buf)
}

func TestPinnedAllocate(t *testing.T) {
	var p backend.Pinned[uint64]

	buf, err := p.Allocate(1024)
	if err != nil && runtime.GOOS == "linux" {
		// RLIMIT_MEMLOCK is often tiny in containers.
		t.Skipf("pinned allocation unavailable: %v", err)
	}
	require.NoError(t, err)
	require.Len(t, buf, 1024)

	for i := range buf {
		buf[i] = uint64(i)
	}
	for i := range buf {
		require.Equal(t, uint64(i), buf[i])
	}

	p.Deallocate(buf)
}

func TestPinnedDeallocateEmpty(t *testing.T) {
	var p backend.Pinned[byte]
	p.Deallocate(nil)
}
