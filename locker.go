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
	"sync"

	"github.com/ZaparooProject/go-lockstrap/internal/syncutil"
)

// TryLocker is a lock that can attempt acquisition without blocking.
// sync.Mutex satisfies it.
type TryLocker interface {
	sync.Locker
	TryLock() bool
}

// ContextLocker is a lock whose acquisition can be abandoned through a context.
// LockContext must leave the lock unheld when it returns an error.
type ContextLocker interface {
	sync.Locker
	LockContext(ctx context.Context) error
}

var (
	_ TryLocker     = (*syncutil.Semaphore)(nil)
	_ ContextLocker = (*syncutil.Semaphore)(nil)
)

// NewMutexLocker returns the default strap lock. It is a sync.Mutex, or a
// deadlock-detecting mutex when built with -tags=deadlock.
func NewMutexLocker() sync.Locker {
	return syncutil.NewMutex()
}

// NewSemaphoreLocker returns a FIFO lock that supports context cancellation
// natively, so AccessContext and AccessTimeout do not need to poll.
func NewSemaphoreLocker() ContextLocker {
	return syncutil.NewSemaphore()
}
