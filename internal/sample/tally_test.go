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

package sample

import (
	"errors"
	"os"
	"sync"
	"testing"
	"time"

	lockstrap "github.com/ZaparooProject/go-lockstrap"
	"github.com/ZaparooProject/go-lockstrap/internal/gen"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecord_VisibleToNextGuard(t *testing.T) {
	t.Parallel()

	s := NewTally()
	at := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	done := make(chan error, 1)
	go func() { done <- Record(s, 2, "2.X", at) }()
	require.NoError(t, <-done)

	g, err := s.Access()
	require.NoError(t, err)
	defer g.Release()

	assert.Equal(t, 2, *g.Count())
	assert.Equal(t, "2.X", *g.Label())
	assert.InDelta(t, 2.1, *g.Ratio(), 1e-9)
	assert.Equal(t, []int64{2}, *g.History())
	assert.Equal(t, at, *g.Updated())
}

func TestAccessors_AliasDataFields(t *testing.T) {
	t.Parallel()

	s := NewTally()
	g, err := s.Access()
	require.NoError(t, err)
	defer g.Release()

	*g.Count() = 3
	assert.Equal(t, 3, g.Raw().Data().count, "accessor and Data share storage")
	assert.Same(t, g.Count(), &g.Raw().Data().count)
}

func TestAccessors_MatchDataPath(t *testing.T) {
	t.Parallel()

	at := time.Unix(1700000000, 0).UTC()

	viaAccessors := NewTally()
	require.NoError(t, Record(viaAccessors, 4, "4.X", at))

	viaData := lockstrap.New(Tally{})
	require.NoError(t, viaData.With(func(g *lockstrap.Guard[Tally]) error {
		d := g.Data()
		d.count = 4
		d.label = "4.X"
		d.ratio = float64(4) + 0.1
		d.history = append(d.history, 4)
		d.updated = at
		return nil
	}))

	a, err := lockstrap.Do(viaAccessors.Raw(), func(g *lockstrap.Guard[Tally]) (Tally, error) { return *g.Data(), nil })
	require.NoError(t, err)
	b, err := lockstrap.Do(viaData, func(g *lockstrap.Guard[Tally]) (Tally, error) { return *g.Data(), nil })
	require.NoError(t, err)
	assert.Equal(t, b, a)
}

func TestWith_ConcurrentRecords(t *testing.T) {
	t.Parallel()

	s := NewTally()
	const workers, each = 16, 200

	var wg sync.WaitGroup
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range each {
				_ = s.With(func(g TallyGuard) error {
					*g.Count()++
					*g.History() = append(*g.History(), int64(*g.Count()))
					return nil
				})
			}
		}()
	}
	wg.Wait()

	g, err := s.Access()
	require.NoError(t, err)
	defer g.Release()
	assert.Equal(t, workers*each, *g.Count())
	require.Len(t, *g.History(), workers*each)
	for i, v := range *g.History() {
		require.Equal(t, int64(i+1), v, "history must be strictly sequential")
	}
}

func TestGuard_ReleaseAndTryAccess(t *testing.T) {
	t.Parallel()

	s := NewTally()
	g, err := s.Access()
	require.NoError(t, err)
	assert.True(t, g.Active())

	// probe from another goroutine; -tags=deadlock reports same-goroutine
	// TryLock as recursive locking
	result := make(chan error, 1)
	go func() {
		busy, tryErr := s.TryAccess()
		if busy.Active() {
			busy.Release()
		}
		result <- tryErr
	}()
	require.ErrorIs(t, <-result, lockstrap.ErrLockBusy)

	g.Release()
	assert.False(t, g.Active())
	assert.Panics(t, func() { _ = g.Count() })

	again, err := s.TryAccess()
	require.NoError(t, err)
	again.Release()
}

func TestGuard_ZeroGuardReleaseIsMisuse(t *testing.T) {
	t.Parallel()

	var g TallyGuard
	assert.False(t, g.Active())

	defer func() {
		r := recover()
		require.NotNil(t, r, "expected misuse panic")
		err, ok := r.(error)
		require.True(t, ok, "panic value should be an error, got %T", r)
		assert.ErrorIs(t, err, lockstrap.ErrGuardReleased)
	}()
	g.Release()
}

func TestWith_PropagatesCallbackError(t *testing.T) {
	t.Parallel()

	errStop := errors.New("stop")
	s := NewTally()
	require.ErrorIs(t, s.With(func(TallyGuard) error { return errStop }), errStop)

	g, err := s.TryAccess()
	require.NoError(t, err)
	g.Release()
}

func TestGeneratedFile_UpToDate(t *testing.T) {
	t.Parallel()

	pkg, err := gen.LoadDir(".")
	require.NoError(t, err)
	st, err := pkg.Lookup("Tally")
	require.NoError(t, err)

	names := make([]string, len(st.Fields))
	for i, f := range st.Fields {
		names[i] = f.Accessor
	}
	assert.Equal(t, []string{"Updated", "Label", "History", "Ratio", "Count"}, names)

	want, err := gen.Generate(pkg, []string{"Tally"})
	require.NoError(t, err)
	got, err := os.ReadFile(gen.FileName([]string{"Tally"}))
	require.NoError(t, err)
	assert.Equal(t, string(want), string(got), "run go generate ./internal/sample")
}
