package locality_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ajitpratap0/recycle/pkg/backend"
	"github.com/ajitpratap0/recycle/pkg/locality"
	"github.com/ajitpratap0/recycle/pkg/recycle"
)

func TestCurrentNode(t *testing.T) {
	node := locality.CurrentNode()
	assert.GreaterOrEqual(t, node, 0)
}

func TestLocalAllocatorRoundTrip(t *testing.T) {
	type elem float64
	var alloc locality.LocalAllocator[elem, backend.Heap[elem]]

	buf, err := alloc.Allocate(96)
	require.NoError(t, err)
	require.Len(t, buf, 96)

	for i := range buf {
		alloc.Construct(&buf[i])
	}
	buf[0] = 1.5

	for i := range buf {
		alloc.Destroy(&buf[i])
	}
	require.NoError(t, alloc.Deallocate(buf))

	st := recycle.StatsFor[elem, backend.Heap[elem]]()
	assert.Equal(t, uint64(1), st.Requests)
	assert.Equal(t, uint64(1), st.Deallocations)
}

func TestLocalAggressiveAllocatorReuse(t *testing.T) {
	type elem uint32
	var alloc locality.LocalAggressiveAllocator[elem, backend.Heap[elem]]

	buf, err := alloc.Allocate(48)
	require.NoError(t, err)
	first := &buf[0]
	for i := range buf {
		buf[i] = 0xCAFEBABE
	}
	require.NoError(t, alloc.Deallocate(buf))

	// The goroutine may migrate to another node between the calls, so the
	// reacquire is only guaranteed to hit the cache when the hints agreed.
	again, err := alloc.Allocate(48)
	require.NoError(t, err)
	if &again[0] == first {
		for i := range again {
			require.Equal(t, elem(0xCAFEBABE), again[i])
		}
	}
	require.NoError(t, alloc.Deallocate(again))

	st := recycle.StatsFor[elem, backend.Heap[elem]]()
	assert.Equal(t, uint64(2), st.Requests)
	assert.Equal(t, uint64(2), st.Deallocations)
}
