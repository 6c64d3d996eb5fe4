// Package pool provides a small generic object pool: a sync.Pool
// wrapper typed so callers get back concrete slice/struct types without
// a cast. The matcher uses it to reuse trade buffers across epochs
// instead of allocating fresh ones every round.
package pool

import "sync"

// Pool is a generic wrapper around sync.Pool.
type Pool[T any] struct {
	pool sync.Pool
}

// New creates a Pool whose New function is newFunc.
func New[T any](newFunc func() T) *Pool[T] {
	return &Pool[T]{
		pool: sync.Pool{
			New: func() any { return newFunc() },
		},
	}
}

// Get retrieves an item from the pool, creating one if the pool is
// empty.
func (p *Pool[T]) Get() T {
	return p.pool.Get().(T)
}

// Put returns an item to the pool for reuse.
func (p *Pool[T]) Put(v T) {
	p.pool.Put(v)
}
