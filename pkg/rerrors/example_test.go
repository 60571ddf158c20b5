package rerrors_test

import (
	"fmt"

	"github.com/ajitpratap0/recycle/pkg/rerrors"
)

// Example demonstrates basic error creation with context details.
func Example() {
	err := rerrors.New(rerrors.ErrorTypeValidation, "element count must be positive")

	err = err.WithDetail("count", -3).
		WithDetail("hint", 7)

	fmt.Println(err.Error())

	// Output:
	// validation: element count must be positive
}

// ExampleWrap shows how to wrap a backend failure with pool context.
func ExampleWrap() {
	backendErr := fmt.Errorf("mmap: cannot allocate memory")

	err := rerrors.Wrap(backendErr, rerrors.ErrorTypeOutOfMemory, "allocation failed after drain and retry").
		WithDetail("count", 1<<20)

	if rerrors.IsOutOfMemory(err) {
		fmt.Println("This is an out-of-memory error")
	}
	fmt.Println(err)

	// Output:
	// This is an out-of-memory error
	// out_of_memory: allocation failed after drain and retry: mmap: cannot allocate memory
}

// ExampleIsRetryable shows which pool errors are worth retrying.
func ExampleIsRetryable() {
	oomErr := rerrors.New(rerrors.ErrorTypeOutOfMemory, "allocation failed after drain and retry")
	unknownErr := rerrors.New(rerrors.ErrorTypeUnknownBuffer, "no shard owns this buffer")

	if rerrors.IsRetryable(oomErr) {
		fmt.Println("Out-of-memory is retryable after freeing buffers")
	}

	if !rerrors.IsRetryable(unknownErr) {
		fmt.Println("An unknown-buffer release is a caller bug, not retryable")
	}

	// Output:
	// Out-of-memory is retryable after freeing buffers
	// An unknown-buffer release is a caller bug, not retryable
}

// ExampleIsType demonstrates checking error categories through wrapping.
func ExampleIsType() {
	valErr := rerrors.New(rerrors.ErrorTypeValidation, "invalid metrics address")
	wrapped := rerrors.Wrap(valErr, rerrors.ErrorTypeConfig, "configuration rejected")

	fmt.Printf("Is validation error: %v\n", rerrors.IsType(valErr, rerrors.ErrorTypeValidation))
	fmt.Printf("Wrapped error is config type: %v\n", rerrors.IsType(wrapped, rerrors.ErrorTypeConfig))

	// Output:
	// Is validation error: true
	// Wrapped error is config type: true
}
