package syncutil

import (
	"context"

	"golang.org/x/sync/semaphore"
)

// Semaphore is an exclusive lock built on a weighted semaphore of size one.
// Unlike Mutex it can wait on a context, and waiters are served in FIFO order.
type Semaphore struct {
	sem *semaphore.Weighted
}

// NewSemaphore returns an unlocked Semaphore.
func NewSemaphore() *Semaphore {
	return &Semaphore{sem: semaphore.NewWeighted(1)}
}

// Lock blocks until the semaphore is held.
func (s *Semaphore) Lock() {
	// Acquire only fails when the context is done; Background never is.
	_ = s.sem.Acquire(context.Background(), 1)
}

// LockContext blocks until the semaphore is held or ctx is done.
// On failure the semaphore is not held.
func (s *Semaphore) LockContext(ctx context.Context) error {
	return s.sem.Acquire(ctx, 1) //nolint:wrapcheck // caller wraps with strap context
}

// TryLock takes the semaphore if it is free and reports whether it did.
func (s *Semaphore) TryLock() bool {
	return s.sem.TryAcquire(1)
}

// Unlock releases the semaphore. Unlocking a free semaphore panics.
func (s *Semaphore) Unlock() {
	s.sem.Release(1)
}
