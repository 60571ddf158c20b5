package recycle_test

import (
	"fmt"

	"github.com/ajitpratap0/recycle/pkg/backend"
	"github.com/ajitpratap0/recycle/pkg/recycle"
)

type exampleElem float64

// ExampleAllocator demonstrates the plain acquire/construct/destroy/release
// cycle.
func ExampleAllocator() {
	var alloc recycle.Allocator[exampleElem, backend.Heap[exampleElem]]

	buf, err := alloc.Allocate(4)
	if err != nil {
		fmt.Println("allocation failed:", err)
		return
	}
	for i := range buf {
		alloc.Construct(&buf[i])
		buf[i] = exampleElem(i) * 2
	}
	fmt.Println("sum:", buf[0]+buf[1]+buf[2]+buf[3])

	for i := range buf {
		alloc.Destroy(&buf[i])
	}
	if err := alloc.Deallocate(buf); err != nil {
		fmt.Println("release failed:", err)
	}

	// Output:
	// sum: 12
}

type exampleFastElem struct{ x, y float64 }

// ExampleAggressiveAllocator shows contents surviving a recycle.
func ExampleAggressiveAllocator() {
	var alloc recycle.AggressiveAllocator[exampleFastElem, backend.Heap[exampleFastElem]]

	buf, _ := alloc.Allocate(2)
	buf[0] = exampleFastElem{x: 1, y: 2}
	_ = alloc.Deallocate(buf)

	// The same storage comes back with the previous contents intact.
	again, _ := alloc.Allocate(2)
	fmt.Println(again[0].x, again[0].y)
	_ = alloc.Deallocate(again)

	// Output:
	// 1 2
}
