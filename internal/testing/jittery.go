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

// Package testing provides lock doubles for exercising straps under
// unpredictable scheduling.
package testing

import (
	"math/rand/v2"
	"sync"
	"sync/atomic"
	"time"
)

// JitterConfig configures the behavior of JitteryLocker.
type JitterConfig struct {
	// MaxLockDelay is the upper bound of the random delay before Lock.
	MaxLockDelay time.Duration
	// MaxHoldDelay is the upper bound of the random delay after the lock is
	// taken, widening the window in which a second holder would be caught.
	MaxHoldDelay time.Duration
	// Seed makes delays reproducible when non-zero.
	Seed uint64
}

// DefaultJitterConfig returns a sensible default configuration for testing.
func DefaultJitterConfig() JitterConfig {
	return JitterConfig{
		MaxLockDelay: 50 * time.Microsecond,
		MaxHoldDelay: 20 * time.Microsecond,
	}
}

// JitteryLocker wraps a sync.Locker to simulate contended scheduling with
// random delays, and counts holders so tests can assert mutual exclusion.
//
// It deliberately offers only Lock and Unlock, so straps built on it take
// the plain-locker acquisition paths.
type JitteryLocker struct {
	backend  sync.Locker
	rng      *rand.Rand
	config   JitterConfig
	rngMu    sync.Mutex
	holders  atomic.Int32
	peak     atomic.Int32
	acquires atomic.Int64
	releases atomic.Int64
}

// NewJitteryLocker wraps backend with jitter simulation.
func NewJitteryLocker(backend sync.Locker, config JitterConfig) *JitteryLocker {
	var rng *rand.Rand
	if config.Seed != 0 {
		rng = rand.New(rand.NewPCG(config.Seed, config.Seed^0xDEADBEEF)) //nolint:gosec // Test code, not crypto
	} else {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())) //nolint:gosec // Test code, not crypto
	}

	return &JitteryLocker{
		backend: backend,
		config:  config,
		rng:     rng,
	}
}

// Lock acquires the backend lock with random delays around it.
func (j *JitteryLocker) Lock() {
	j.sleep(j.config.MaxLockDelay)
	j.backend.Lock()

	h := j.holders.Add(1)
	for {
		p := j.peak.Load()
		if h <= p || j.peak.CompareAndSwap(p, h) {
			break
		}
	}
	j.acquires.Add(1)

	j.sleep(j.config.MaxHoldDelay)
}

// Unlock releases the backend lock.
func (j *JitteryLocker) Unlock() {
	j.holders.Add(-1)
	j.releases.Add(1)
	j.backend.Unlock()
}

// PeakHolders returns the largest number of simultaneous holders observed.
func (j *JitteryLocker) PeakHolders() int {
	return int(j.peak.Load())
}

// Held reports whether the lock is currently held.
func (j *JitteryLocker) Held() bool {
	return j.holders.Load() > 0
}

// Acquires returns how many times Lock has succeeded.
func (j *JitteryLocker) Acquires() int64 {
	return j.acquires.Load()
}

// Releases returns how many times Unlock has been called.
func (j *JitteryLocker) Releases() int64 {
	return j.releases.Load()
}

func (j *JitteryLocker) sleep(upTo time.Duration) {
	if upTo <= 0 {
		return
	}
	j.rngMu.Lock()
	delay := time.Duration(j.rng.Int64N(int64(upTo) + 1))
	j.rngMu.Unlock()
	if delay > 0 {
		time.Sleep(delay)
	}
}
