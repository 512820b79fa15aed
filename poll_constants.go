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

import "time"

// Polling constants control how timed acquisition retries TryLock on locks
// that cannot wait on a context. A contended sync.Mutex is usually released
// within microseconds, so backoff starts small and stays bounded.
const (
	// DefaultPollInitialBackoff is the first delay after a failed TryLock.
	DefaultPollInitialBackoff = 50 * time.Microsecond
	// DefaultPollMaxBackoff caps the delay between attempts.
	DefaultPollMaxBackoff = 5 * time.Millisecond
	// DefaultPollMultiplier is the exponential backoff multiplier.
	DefaultPollMultiplier = 2.0
	// DefaultPollJitter is the random jitter factor (0.0-1.0) to spread waiters out.
	DefaultPollJitter = 0.1
)
