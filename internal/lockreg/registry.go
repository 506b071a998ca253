// Package lockreg hands out one exclusive section per key.
//
// Sections are created on first use and live as long as the Registry.
// Holders of different keys never wait on each other; holders of the same
// key are served one at a time, each waiting at most the timeout passed to
// Acquire.
package lockreg

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/semaphore"
)

// ErrTimeout is returned when the section stays busy for the whole wait.
var ErrTimeout = errors.New("lock wait timed out")

// Registry owns the per-key sections. The zero value is not usable; call New.
type Registry[K comparable] struct {
	mu       sync.Mutex
	sections map[K]*semaphore.Weighted
}

func New[K comparable]() *Registry[K] {
	return &Registry[K]{sections: make(map[K]*semaphore.Weighted)}
}

// Guard is the proof of holding a section. Release it exactly once; extra
// calls are ignored.
type Guard struct {
	sem  *semaphore.Weighted
	once sync.Once
}

func (g *Guard) Release() {
	g.once.Do(func() {
		g.sem.Release(1)
	})
}

// section returns the section for key, creating it under r.mu so that
// concurrent first callers end up with the same one.
func (r *Registry[K]) section(key K) *semaphore.Weighted {
	r.mu.Lock()
	defer r.mu.Unlock()

	sem, ok := r.sections[key]
	if !ok {
		sem = semaphore.NewWeighted(1)
		r.sections[key] = sem
	}

	return sem
}

// Acquire blocks until the section for key is free, timeout elapses or ctx
// is done. A timeout <= 0 makes a single attempt without waiting.
//
// On ErrTimeout or a context error nothing is held.
func (r *Registry[K]) Acquire(ctx context.Context, key K, timeout time.Duration) (*Guard, error) {
	sem := r.section(key)

	if timeout <= 0 {
		if !sem.TryAcquire(1) {
			return nil, ErrTimeout
		}

		return &Guard{sem: sem}, nil
	}

	waitCtx, cancel := context.WithTimeoutCause(ctx, timeout, ErrTimeout)
	defer cancel()

	err := sem.Acquire(waitCtx, 1)
	if err != nil {
		if errors.Is(context.Cause(waitCtx), ErrTimeout) {
			return nil, ErrTimeout
		}

		return nil, fmt.Errorf("wait for lock: %w", err)
	}

	return &Guard{sem: sem}, nil
}

// WithLock runs fn while holding the section for key. The section is
// released on every return path of fn, panics included.
func (r *Registry[K]) WithLock(ctx context.Context, key K, timeout time.Duration, fn func() error) error {
	guard, err := r.Acquire(ctx, key, timeout)
	if err != nil {
		return err
	}
	defer guard.Release()

	return fn()
}

// Len is the number of sections created so far.
func (r *Registry[K]) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return len(r.sections)
}
