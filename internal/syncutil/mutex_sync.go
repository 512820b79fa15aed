//go:build !deadlock

// Package syncutil provides the lock types a strap can be built on.
// By default Mutex is a plain sync.Mutex with zero overhead.
// Build with -tags=deadlock to back it with github.com/sasha-s/go-deadlock,
// which reports recursive locking and long lock waits during development.
package syncutil

import "sync"

// DeadlockEnabled reports whether Mutex is backed by the deadlock detector.
const DeadlockEnabled = false

// Mutex wraps sync.Mutex. Build with -tags=deadlock for deadlock detection.
//
//nolint:gocritic // Intentionally embedding sync.Mutex to expose its interface
type Mutex struct {
	sync.Mutex
}

// NewMutex returns an unlocked Mutex.
func NewMutex() *Mutex {
	return &Mutex{}
}
