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
	"fmt"
)

// Acquisition failures. These are returned to the caller of an Access method
// and no Guard exists when one is returned.
var (
	// ErrPoisoned means a previous guard scope ended abnormally and the
	// protected data may be inconsistent.
	ErrPoisoned = errors.New("strap poisoned by an interrupted guard scope")
	// ErrAcquireTimeout means a timed acquisition gave up before the lock was free.
	ErrAcquireTimeout = errors.New("lock acquisition timed out")
	// ErrTryUnsupported means the locker cannot attempt a non-blocking acquisition.
	ErrTryUnsupported = errors.New("locker does not support non-blocking acquisition")
)

// ErrLockBusy is the absence value returned by TryAccess when another guard
// holds the lock. It is not wrapped in an AcquireError.
var ErrLockBusy = errors.New("lock is held by another guard")

// ErrGuardReleased is carried by the panic raised when a guard is used or
// released after it has already been released. It is never returned.
var ErrGuardReleased = errors.New("guard already released")

// Acquisition operation names used in AcquireError.Op.
const (
	opAccess        = "access"
	opTryAccess     = "try-access"
	opAccessContext = "access-context"
	opAccessTimeout = "access-timeout"
)

// AcquireError wraps a failed acquisition with the operation and strap that failed
type AcquireError struct {
	Err  error  // Underlying cause
	Op   string // Acquisition method that failed
	Name string // Strap name, empty when unnamed
}

func (e *AcquireError) Error() string {
	if e.Name != "" {
		return fmt.Sprintf("%s %s: %v", e.Op, e.Name, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *AcquireError) Unwrap() error {
	return e.Err
}

// NewAcquireError creates an AcquireError for the given operation and strap name.
func NewAcquireError(op, name string, err error) *AcquireError {
	return &AcquireError{Op: op, Name: name, Err: err}
}

// IsAcquisitionFailure reports whether err came from a failed lock acquisition.
// ErrLockBusy on its own is an absence value, not a failure.
func IsAcquisitionFailure(err error) bool {
	var acqErr *AcquireError
	return errors.As(err, &acqErr)
}

// IsTimeout reports whether err means the acquisition ran out of time,
// either through AccessTimeout or through a context deadline.
func IsTimeout(err error) bool {
	if err == nil {
		return false
	}
	return errors.Is(err, ErrAcquireTimeout) || errors.Is(err, context.DeadlineExceeded)
}

// misuse builds the panic value for a guard used outside its scope.
func misuse(op, name string) error {
	if name != "" {
		return fmt.Errorf("lockstrap: %s on strap %q: %w", op, name, ErrGuardReleased)
	}
	return fmt.Errorf("lockstrap: %s: %w", op, ErrGuardReleased)
}
