// Copyright 2026 The Zaparoo Project Contributors.
// SPDX-License-Identifier: Apache-2.0
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package lockstrap binds a value to an exclusive lock so that the value is
// reachable only through a Guard holding that lock.
//
// A strap owns one lock and one protected value, normally a struct whose
// fields are the guarded state:
//
//	type stats struct {
//		count int
//		label string
//	}
//
//	s := lockstrap.New(stats{})
//	err := s.With(func(g *lockstrap.Guard[stats]) error {
//		g.Data().count = 2
//		g.Data().label = "2.X"
//		return nil
//	})
//
// Scoped acquisition without a callback pairs Access with a deferred Release:
//
//	g, err := s.Access()
//	if err != nil {
//		return err
//	}
//	defer g.Release()
//
// The lock is not reentrant. Acquiring a second guard from the goroutine that
// already holds one deadlocks with the default lock; build with -tags=deadlock
// to have it reported. Waiters are served in whatever order the underlying
// lock chooses.
package lockstrap

import (
	"sync"
	"sync/atomic"
)

// noCopy may be embedded into structs which must not be copied after first use.
// See https://golang.org/issues/8005#issuecomment-190753527 for details.
type noCopy struct{}

// Lock is a no-op used by the vet copylocks checker.
func (*noCopy) Lock() {}

// Unlock is a no-op used by the vet copylocks checker.
func (*noCopy) Unlock() {}

// Strap holds a value of type T behind an exclusive lock.
//
// The value is only reachable through a Guard obtained from one of the Access
// methods, With or Do. A Strap must not be copied after first use.
type Strap[T any] struct {
	noCopy   noCopy
	lock     sync.Locker
	data     T
	cfg      config
	poisoned atomic.Bool
}

// New creates a Strap protecting value. Without WithLocker the strap uses
// the package Mutex.
func New[T any](value T, opts ...Option) *Strap[T] {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.locker == nil {
		cfg.locker = NewMutexLocker()
	}
	return &Strap[T]{
		lock: cfg.locker,
		data: value,
		cfg:  cfg,
	}
}

// Name returns the diagnostic name given by WithName.
func (s *Strap[T]) Name() string {
	return s.cfg.name
}

// Access blocks until the lock is held and returns a Guard for it.
// The caller must Release the guard exactly once, normally with defer.
//
// Access fails only when the strap is poisoned; the lock is not held then.
func (s *Strap[T]) Access() (*Guard[T], error) {
	s.lock.Lock()
	return s.admit(opAccess)
}

// With runs fn with a Guard and releases it when fn returns, fails or panics.
// The error from fn is returned unchanged.
func (s *Strap[T]) With(fn func(*Guard[T]) error) error {
	_, err := Do(s, func(g *Guard[T]) (struct{}, error) {
		return struct{}{}, fn(g)
	})
	return err
}

// Do is With for callbacks that produce a result.
func Do[T, R any](s *Strap[T], fn func(*Guard[T]) (R, error)) (R, error) {
	g, err := s.Access()
	if err != nil {
		var zero R
		return zero, err
	}
	return scoped(g, fn)
}

// scoped runs fn and releases g on every exit path. A scope that does not
// return normally poisons the strap when poisoning is enabled.
func scoped[T, R any](g *Guard[T], fn func(*Guard[T]) (R, error)) (result R, err error) {
	completed := false
	defer func() {
		if !g.Active() {
			// fn released the guard itself
			return
		}
		if !completed && g.strap.cfg.poison {
			g.Poison()
		}
		g.Release()
	}()

	result, err = fn(g)
	completed = true
	return result, err
}

// Poisoned reports whether an interrupted guard scope left the strap poisoned.
func (s *Strap[T]) Poisoned() bool {
	return s.poisoned.Load()
}

// ClearPoison makes a poisoned strap acquirable again. The caller is
// responsible for the protected value being consistent.
func (s *Strap[T]) ClearPoison() {
	if s.poisoned.Swap(false) {
		Debugf("strap %q poison cleared", s.cfg.name)
	}
}

// admit runs with the lock held. It mints a Guard, or releases the lock and
// fails when the strap is poisoned.
func (s *Strap[T]) admit(op string) (*Guard[T], error) {
	if s.poisoned.Load() {
		s.unlock()
		return nil, NewAcquireError(op, s.cfg.name, ErrPoisoned)
	}
	return &Guard[T]{strap: s}, nil
}

// unlock releases the lock. A failing release leaves the protected value
// unsynchronised, so the panic is logged and propagated.
func (s *Strap[T]) unlock() {
	defer func() {
		if r := recover(); r != nil {
			Debugf("strap %q release failed: %v", s.cfg.name, r)
			panic(r)
		}
	}()
	s.lock.Unlock()
}
