package recycle

// Acquire hands out a buffer of exactly n elements from the pool for the
// (T, A) pair, serving from the shard the hint selects. Pass NoHint when
// the caller has no placement preference. Most callers should use the
// allocator facades instead; this entry point exists for hint-passing
// wrappers.
func Acquire[T any, A Backend[T]](n int, aggressive bool, hint int) ([]T, error) {
	return managerFor[T, A]().acquire(n, aggressive, hint)
}

// Release returns a buffer previously obtained from Acquire with the same
// type arguments. The hint names the shard to probe first; a wrong hint is
// counted and every other shard is scanned. Releasing storage the pool
// never handed out returns an unknown-buffer error.
func Release[T any, A Backend[T]](buf []T, hint int) error {
	return managerFor[T, A]().release(buf, hint)
}

// Allocator is the plain recycling facade. Allocate may hand out storage
// with arbitrary contents; callers construct each element with Construct
// before use and destroy each element with Destroy before Deallocate.
//
// Allocator is stateless and zero-sized. Any two values with the same type
// arguments are interchangeable and serve from the same pool.
type Allocator[T any, A Backend[T]] struct{}

// Allocate returns a buffer of exactly n elements, reusing a cached buffer
// of the same count when one is available.
func (Allocator[T, A]) Allocate(n int) ([]T, error) {
	return Acquire[T, A](n, false, NoHint)
}

// Deallocate returns the buffer to the pool for reuse. Elements must have
// been destroyed with Destroy first.
func (Allocator[T, A]) Deallocate(buf []T) error {
	return Release[T, A](buf, NoHint)
}

// Construct initializes one element to its zero value.
func (Allocator[T, A]) Construct(p *T) {
	var zero T
	*p = zero
}

// Destroy clears one element.
func (Allocator[T, A]) Destroy(p *T) {
	var zero T
	*p = zero
}

// AggressiveAllocator is the recycling facade for trivially representable
// element types: T must contain no pointers, maps, channels, slices, or
// strings. Contents survive recycling untouched, so a buffer that cycles
// between Allocate and Deallocate keeps whatever the previous user wrote.
//
// The restriction is a documented precondition. It is not checked at
// runtime.
type AggressiveAllocator[T any, A Backend[T]] struct{}

// Allocate returns a buffer of exactly n elements without touching its
// contents when a cached buffer from another aggressive user is reused.
func (AggressiveAllocator[T, A]) Allocate(n int) ([]T, error) {
	return Acquire[T, A](n, true, NoHint)
}

// Deallocate returns the buffer to the pool with its contents intact.
func (AggressiveAllocator[T, A]) Deallocate(buf []T) error {
	return Release[T, A](buf, NoHint)
}

// Construct is a no-op. Aggressive callers take storage as it comes.
func (AggressiveAllocator[T, A]) Construct(p *T) {}

// Destroy is a no-op. Contents stay live for the next aggressive user.
func (AggressiveAllocator[T, A]) Destroy(p *T) {}
