package concurrency

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
)

// ErrSaturated is returned when no slot frees up before the wait ends.
var ErrSaturated = errors.New("concurrency limit reached")

// Limiter bounds the number of operations in flight.
type Limiter struct {
	max       int32
	current   atomic.Int32
	semaphore chan struct{}

	admitted atomic.Int64
	rejected atomic.Int64
}

// NewLimiter creates a limiter admitting at most max concurrent operations.
//
// Usage:
//
//	l, err := NewLimiter(64)
//	if err != nil {
//	    return err
//	}
//	if err := l.Acquire(ctx); err != nil {
//	    return err
//	}
//	defer l.Release()
func NewLimiter(max int32) (*Limiter, error) {
	if max <= 0 {
		return nil, fmt.Errorf("max concurrent must be positive, got: %d", max)
	}
	return &Limiter{
		max:       max,
		semaphore: make(chan struct{}, max),
	}, nil
}

// Acquire waits for a slot until ctx is done.
func (l *Limiter) Acquire(ctx context.Context) error {
	if l.TryAcquire() {
		return nil
	}
	select {
	case l.semaphore <- struct{}{}:
		l.admit()
		return nil
	case <-ctx.Done():
		l.rejected.Add(1)
		return fmt.Errorf("%w: %w", ErrSaturated, ctx.Err())
	}
}

// TryAcquire takes a slot without blocking.
func (l *Limiter) TryAcquire() bool {
	select {
	case l.semaphore <- struct{}{}:
		l.admit()
		return true
	default:
		return false
	}
}

func (l *Limiter) admit() {
	l.current.Add(1)
	l.admitted.Add(1)
}

// Release frees a slot taken by Acquire or TryAcquire.
func (l *Limiter) Release() {
	select {
	case <-l.semaphore:
		l.current.Add(-1)
	default:
		panic("concurrency: release without acquire")
	}
}

// Available returns the number of free slots.
func (l *Limiter) Available() int32 {
	return l.max - l.current.Load()
}

// GetStats returns limiter counters.
func (l *Limiter) GetStats() map[string]any {
	return map[string]any{
		"max":      l.max,
		"current":  l.current.Load(),
		"admitted": l.admitted.Load(),
		"rejected": l.rejected.Load(),
	}
}
