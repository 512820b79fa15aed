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
	"sync"

	"github.com/jonboulle/clockwork"
)

// config holds the options a strap was created with
type config struct {
	locker sync.Locker
	clock  clockwork.Clock
	name   string
	poll   PollConfig
	poison bool
}

func defaultConfig() config {
	return config{
		clock: clockwork.NewRealClock(),
		poll:  DefaultPollConfig(),
	}
}

// Option configures a Strap.
type Option func(*config)

// WithLocker sets the lock guarding the strap. The strap takes sole use of
// it; locking it from elsewhere breaks the strap's guarantees. A nil locker
// keeps the default.
func WithLocker(l sync.Locker) Option {
	return func(c *config) {
		if l != nil {
			c.locker = l
		}
	}
}

// WithName names the strap in errors and debug output.
func WithName(name string) Option {
	return func(c *config) {
		c.name = name
	}
}

// WithPoisoning makes a With or Do callback that panics or exits its
// goroutine poison the strap.
func WithPoisoning() Option {
	return func(c *config) {
		c.poison = true
	}
}

// WithClock sets the clock timed acquisition measures against.
func WithClock(clock clockwork.Clock) Option {
	return func(c *config) {
		if clock != nil {
			c.clock = clock
		}
	}
}

// WithPollConfig tunes how timed acquisition polls a TryLocker.
func WithPollConfig(poll PollConfig) Option {
	return func(c *config) {
		c.poll = poll.normalize()
	}
}
