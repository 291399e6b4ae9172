package llm

import (
	"context"
	"sync"
)

// Deferred is a value that resolves exactly once, some time after it is
// created. Any number of goroutines may Await it.
type Deferred[T any] struct {
	once  sync.Once
	done  chan struct{}
	value T
	err   error
}

// NewDeferred returns an unresolved Deferred.
func NewDeferred[T any]() *Deferred[T] {
	return &Deferred[T]{done: make(chan struct{})}
}

// Resolved returns a Deferred that is already resolved with value.
func Resolved[T any](value T) *Deferred[T] {
	d := NewDeferred[T]()
	d.Resolve(value)
	return d
}

// Resolve sets the value. Only the first call to Resolve or Reject wins.
func (d *Deferred[T]) Resolve(value T) {
	d.once.Do(func() {
		d.value = value
		close(d.done)
	})
}

// Reject fails the value with err. Only the first call to Resolve or Reject wins.
func (d *Deferred[T]) Reject(err error) {
	d.once.Do(func() {
		d.err = err
		close(d.done)
	})
}

// Await blocks until the value resolves or ctx is done.
func (d *Deferred[T]) Await(ctx context.Context) (T, error) {
	select {
	case <-d.done:
		return d.value, d.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}
