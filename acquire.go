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

package lockstrap

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"
)

// TryAccess returns a Guard if the lock is free and never blocks.
// When another guard holds the lock it returns nil and ErrLockBusy.
// A locker without TryLock yields ErrTryUnsupported.
//
// Under -tags=deadlock, trying a lock the calling goroutine already holds
// is reported as recursive locking.
func (s *Strap[T]) TryAccess() (*Guard[T], error) {
	tl, ok := s.lock.(TryLocker)
	if !ok {
		return nil, NewAcquireError(opTryAccess, s.cfg.name, ErrTryUnsupported)
	}
	if !tl.TryLock() {
		return nil, ErrLockBusy
	}
	return s.admit(opTryAccess)
}

// AccessContext blocks until the lock is held or ctx is done.
// A cancelled acquisition returns an AcquireError wrapping ctx.Err().
func (s *Strap[T]) AccessContext(ctx context.Context) (*Guard[T], error) {
	if err := s.lockContext(ctx); err != nil {
		return nil, NewAcquireError(opAccessContext, s.cfg.name, err)
	}
	return s.admit(opAccessContext)
}

// AccessTimeout blocks until the lock is held or d has elapsed on the strap's
// clock, in which case it returns an AcquireError wrapping ErrAcquireTimeout.
// A non-positive d makes a single attempt. As with TryAccess, waiting on a
// lock held by the calling goroutine is reported under -tags=deadlock.
func (s *Strap[T]) AccessTimeout(d time.Duration) (*Guard[T], error) {
	if d <= 0 {
		return s.accessNow()
	}

	ctx, expired, stop := s.deadline(d)
	defer stop()

	if err := s.lockContext(ctx); err != nil {
		if expired() {
			Debugf("strap %q acquisition timed out after %v", s.cfg.name, d)
			err = ErrAcquireTimeout
		}
		return nil, NewAcquireError(opAccessTimeout, s.cfg.name, err)
	}
	return s.admit(opAccessTimeout)
}

// accessNow is AccessTimeout with no time to wait.
func (s *Strap[T]) accessNow() (*Guard[T], error) {
	g, err := s.TryAccess()
	switch {
	case errors.Is(err, ErrLockBusy):
		return nil, NewAcquireError(opAccessTimeout, s.cfg.name, ErrAcquireTimeout)
	case errors.Is(err, ErrTryUnsupported):
		return nil, NewAcquireError(opAccessTimeout, s.cfg.name, err)
	case err != nil:
		var acqErr *AcquireError
		if errors.As(err, &acqErr) {
			acqErr.Op = opAccessTimeout
		}
		return nil, err
	}
	return g, nil
}

// deadline returns a context cancelled once d elapses on the strap's clock,
// a func reporting whether that happened, and a func releasing the timer.
func (s *Strap[T]) deadline(d time.Duration) (context.Context, func() bool, func()) {
	ctx, cancel := context.WithCancel(context.Background())
	timer := s.cfg.clock.NewTimer(d)

	var expired atomic.Bool
	go func() {
		select {
		case <-timer.Chan():
			expired.Store(true)
			cancel()
		case <-ctx.Done():
		}
	}()

	stop := func() {
		timer.Stop()
		cancel()
	}
	return ctx, expired.Load, stop
}

// lockContext acquires the lock using the best mechanism the locker offers.
// On error the lock is not held.
func (s *Strap[T]) lockContext(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err //nolint:wrapcheck // wrapped by the Access method
	}
	switch l := s.lock.(type) {
	case ContextLocker:
		return l.LockContext(ctx) //nolint:wrapcheck // wrapped by the Access method
	case TryLocker:
		return pollLock(ctx, s.cfg.clock, s.cfg.poll, l)
	default:
		return handoffLock(ctx, s.lock, s.cfg.name)
	}
}

// handoffLock acquires a lock that offers nothing but Lock. A helper
// goroutine blocks in Lock and hands the lock over; if the caller has
// given up by then, the helper unlocks it straight away.
func handoffLock(ctx context.Context, l sync.Locker, name string) error {
	acquired := make(chan struct{})
	go func() {
		l.Lock()
		select {
		case acquired <- struct{}{}:
		case <-ctx.Done():
			Debugf("strap %q abandoned hand-off released", name)
			l.Unlock()
		}
	}()

	select {
	case <-acquired:
		return nil
	case <-ctx.Done():
		return ctx.Err() //nolint:wrapcheck // wrapped by the Access method
	}
}
