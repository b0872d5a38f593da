package core

import (
	"context"
	"sync"
)

// completion is a single-resolution result slot. Provider SDK callbacks
// may fire more than once for one attempt; only the first resolve or
// fail sticks and later calls are dropped.
type completion[T any] struct {
	once  sync.Once
	done  chan struct{}
	value T
	err   error
}

func newCompletion[T any]() *completion[T] {
	return &completion[T]{done: make(chan struct{})}
}

func (c *completion[T]) resolve(value T) {
	c.once.Do(func() {
		c.value = value
		close(c.done)
	})
}

func (c *completion[T]) fail(err error) {
	c.once.Do(func() {
		c.err = err
		close(c.done)
	})
}

func (c *completion[T]) wait(ctx context.Context) (T, error) {
	select {
	case <-c.done:
		return c.value, c.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

func (c *completion[T]) resolved() bool {
	select {
	case <-c.done:
		return true
	default:
		return false
	}
}
