package sat

// Pool is an unordered free list of reusable objects. The solver uses it to
// recycle clause bitsets across clause lifetimes and to back analysis
// scratch buffers. A reused object keeps whatever state it had when it was
// released; callers must reset it before first use.
type Pool[T any] struct {
	free []T
}

// Acquire returns an object from the pool, calling factory only if the pool
// is empty.
func (p *Pool[T]) Acquire(factory func() T) T {
	if n := len(p.free); n > 0 {
		item := p.free[n-1]
		p.free = p.free[:n-1]
		return item
	}
	return factory()
}

// Release returns an object to the pool.
func (p *Pool[T]) Release(item T) {
	p.free = append(p.free, item)
}

// Len returns the number of objects currently available in the pool.
func (p *Pool[T]) Len() int {
	return len(p.free)
}
