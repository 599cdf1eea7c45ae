package pool

import (
	"fmt"
	"sync"
)

// Resettable values are cleared before going back into the pool
type Resettable interface {
	Reset()
}

// Pool is a typed sync.Pool. The constructor is checked once up front so Get
// never has to guard its type assertion.
type Pool[T any] struct {
	pool sync.Pool
}

func New[T any](newFn func() T) (*Pool[T], error) {
	if newFn == nil {
		return nil, fmt.Errorf("pool: constructor must not be nil")
	}
	if any(newFn()) == nil {
		return nil, fmt.Errorf("pool: constructor returned nil")
	}
	return &Pool[T]{
		pool: sync.Pool{
			New: func() any { return newFn() },
		},
	}, nil
}

// MustNew is New for package-level pools whose constructor is known good
func MustNew[T any](newFn func() T) *Pool[T] {
	p, err := New(newFn)
	if err != nil {
		panic(err)
	}
	return p
}

func (p *Pool[T]) Get() T {
	//nolint:forcetypeassert // constructor validated in New
	return p.pool.Get().(T)
}

func (p *Pool[T]) Put(v T) {
	if r, ok := any(v).(Resettable); ok {
		r.Reset()
	}
	p.pool.Put(v)
}
