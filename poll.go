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
	"math/rand/v2"
	"time"

	"github.com/jonboulle/clockwork"
)

// PollConfig configures TryLock polling for timed acquisition
type PollConfig struct {
	// InitialBackoff is the delay after the first failed attempt
	InitialBackoff time.Duration
	// MaxBackoff is the maximum delay between attempts
	MaxBackoff time.Duration
	// BackoffMultiplier is the factor by which the backoff increases
	BackoffMultiplier float64
	// Jitter adds randomness to backoff to avoid waiters retrying in lockstep
	Jitter float64
}

// DefaultPollConfig returns the default polling configuration
func DefaultPollConfig() PollConfig {
	return PollConfig{
		InitialBackoff:    DefaultPollInitialBackoff,
		MaxBackoff:        DefaultPollMaxBackoff,
		BackoffMultiplier: DefaultPollMultiplier,
		Jitter:            DefaultPollJitter,
	}
}

// normalize replaces unusable values with defaults
func (cfg PollConfig) normalize() PollConfig {
	def := DefaultPollConfig()
	if cfg.InitialBackoff <= 0 {
		cfg.InitialBackoff = def.InitialBackoff
	}
	if cfg.MaxBackoff < cfg.InitialBackoff {
		cfg.MaxBackoff = cfg.InitialBackoff
	}
	if cfg.BackoffMultiplier < 1 {
		cfg.BackoffMultiplier = 1
	}
	if cfg.Jitter < 0 {
		cfg.Jitter = 0
	}
	return cfg
}

// pollLock retries l.TryLock until it succeeds or ctx is done.
// On error the lock is not held.
func pollLock(ctx context.Context, clock clockwork.Clock, cfg PollConfig, l TryLocker) error {
	backoff := cfg.InitialBackoff
	for {
		if l.TryLock() {
			return nil
		}
		if err := ctx.Err(); err != nil {
			return err //nolint:wrapcheck // wrapped by the Access method
		}

		select {
		case <-ctx.Done():
			return ctx.Err() //nolint:wrapcheck // wrapped by the Access method
		case <-clock.After(calculateJitteredSleep(backoff, cfg.Jitter)):
		}
		backoff = calculateNextBackoff(backoff, cfg)
	}
}

func calculateNextBackoff(backoff time.Duration, cfg PollConfig) time.Duration {
	newBackoff := time.Duration(float64(backoff) * cfg.BackoffMultiplier)
	if newBackoff > cfg.MaxBackoff {
		return cfg.MaxBackoff
	}
	return newBackoff
}

// calculateJitteredSleep calculates sleep duration with jitter
func calculateJitteredSleep(baseSleep time.Duration, jitterFactor float64) time.Duration {
	if jitterFactor <= 0 {
		return baseSleep
	}
	jitter := float64(baseSleep) * jitterFactor
	return baseSleep + time.Duration(rand.Float64()*jitter) //nolint:gosec // scheduling jitter, not crypto
}
