// Package latch provides lazily computed, invalidatable values shared by
// concurrent callers.
package latch

import (
	"context"
	"sync"
)

// call is one computation of a latch value. done is closed once val and err are set.
type call[T any] struct {
	done chan struct{}
	val  T
	err  error
}

// Latch holds a value computed on first access.
//
// A Latch is unresolved, pending or ready. The first Get on an unresolved latch
// starts the computation; every Get that arrives while it is pending waits for the
// same result. A failed computation leaves the latch unresolved so the next Get
// retries. Invalidate returns the latch to unresolved; a computation still in flight
// completes for its own waiters but is not kept.
type Latch[T any] struct {
	compute func(ctx context.Context) (T, error)

	mu      sync.Mutex
	current *call[T]
}

// New creates an unresolved latch around compute.
func New[T any](compute func(ctx context.Context) (T, error)) *Latch[T] {
	return &Latch[T]{compute: compute}
}

// Get returns the latch value, computing it if needed.
//
// The computation runs in the goroutine of the caller that started it, detached from
// that caller's cancellation. Any caller may stop waiting when its own ctx is done.
func (l *Latch[T]) Get(ctx context.Context) (T, error) {
	l.mu.Lock()
	c := l.current
	if c != nil {
		l.mu.Unlock()
		return wait(ctx, c)
	}

	c = &call[T]{done: make(chan struct{})}
	l.current = c
	l.mu.Unlock()

	l.run(context.WithoutCancel(ctx), c)
	return c.val, c.err
}

func (l *Latch[T]) run(ctx context.Context, c *call[T]) {
	defer close(c.done)

	c.val, c.err = l.compute(ctx)
	if c.err != nil {
		l.mu.Lock()
		if l.current == c {
			l.current = nil
		}
		l.mu.Unlock()
	}
}

func wait[T any](ctx context.Context, c *call[T]) (T, error) {
	select {
	case <-c.done:
		return c.val, c.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

// Invalidate discards the current value or pending computation.
func (l *Latch[T]) Invalidate() {
	l.mu.Lock()
	l.current = nil
	l.mu.Unlock()
}

// Peek returns the value if the latch is ready, without computing it.
func (l *Latch[T]) Peek() (T, bool) {
	l.mu.Lock()
	c := l.current
	l.mu.Unlock()

	var zero T
	if c == nil {
		return zero, false
	}
	select {
	case <-c.done:
		if c.err != nil {
			return zero, false
		}
		return c.val, true
	default:
		return zero, false
	}
}
