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

import "sync/atomic"

// Guard is the live holder of a Strap's lock.
//
// A Guard is created already holding the lock and releases it exactly once.
// It is handed out as a pointer; passing the pointer on passes the duty to
// call Release. Using a guard after Release panics with ErrGuardReleased, and
// so does using the nil guard a failed acquisition returns.
type Guard[T any] struct {
	noCopy   noCopy
	strap    *Strap[T]
	released atomic.Bool
}

// Data returns a pointer to the protected value. Reads and writes through it
// act directly on the strap's storage. The pointer must not be kept beyond
// Release.
func (g *Guard[T]) Data() *T {
	if !g.Active() {
		panic(misuse("data", g.name()))
	}
	return &g.strap.data
}

// Active reports whether the guard still holds the lock.
func (g *Guard[T]) Active() bool {
	return g != nil && !g.released.Load()
}

func (g *Guard[T]) name() string {
	if g == nil {
		return ""
	}
	return g.strap.cfg.name
}

// Release unlocks the strap. Releasing twice panics without touching the lock.
func (g *Guard[T]) Release() {
	if g == nil || !g.released.CompareAndSwap(false, true) {
		panic(misuse("release", g.name()))
	}
	g.strap.unlock()
}

// Poison marks the strap as holding inconsistent data. Later acquisitions
// fail with ErrPoisoned until ClearPoison is called.
func (g *Guard[T]) Poison() {
	if !g.Active() {
		panic(misuse("poison", g.name()))
	}
	if !g.strap.poisoned.Swap(true) {
		Debugf("strap %q poisoned", g.strap.cfg.name)
	}
}
