//go:build deadlock

// Package syncutil provides the lock types a strap can be built on.
// This file is compiled when building with -tags=deadlock.
package syncutil

import deadlock "github.com/sasha-s/go-deadlock"

// DeadlockEnabled reports whether Mutex is backed by the deadlock detector.
const DeadlockEnabled = true

// Mutex wraps deadlock.Mutex for deadlock detection.
type Mutex struct {
	deadlock.Mutex
}

// NewMutex returns an unlocked Mutex.
func NewMutex() *Mutex {
	return &Mutex{}
}
