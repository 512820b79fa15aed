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

// Package sample shows a struct guarded through generated field accessors.
package sample

import "time"

//go:generate go run ../../cmd/lockstrapgen -type=Tally

// Tally is a small record of heterogeneous fields kept behind a strap.
type Tally struct {
	updated time.Time
	label   string
	history []int64
	ratio   float64
	count   int
}

// NewTally returns a strap over an empty Tally.
func NewTally() *TallyStrap {
	return NewTallyStrap(Tally{})
}

// Record stores a new count and label and appends the count to the history.
func Record(s *TallyStrap, count int, label string, at time.Time) error {
	return s.With(func(g TallyGuard) error {
		*g.Count() = count
		*g.Label() = label
		*g.Ratio() = float64(count) + 0.1
		*g.History() = append(*g.History(), int64(count))
		*g.Updated() = at
		return nil
	})
}
