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

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sync"
	"time"

	lockstrap "github.com/ZaparooProject/go-lockstrap"
	"github.com/ZaparooProject/go-lockstrap/internal/syncutil"
	testutil "github.com/ZaparooProject/go-lockstrap/internal/testing"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// ledger is the state every worker mutates.
type ledger struct {
	perWorker map[int]int
	lastLabel string
	total     int
}

// StressResult holds the outcome of a stress run.
type StressResult struct {
	Locker      string        `json:"locker"`
	Deadlock    bool          `json:"deadlock_detection"`
	Workers     int           `json:"workers"`
	Iterations  int           `json:"iterations"`
	Expected    int           `json:"expected"`
	Total       int           `json:"total"`
	Timeouts    int           `json:"timeouts"`
	Lost        int           `json:"lost"`
	PeakHolders int           `json:"peak_holders,omitempty"`
	Duration    time.Duration `json:"duration_ns"`
	Success     bool          `json:"success"`
}

func newLocker(cfg *config) (sync.Locker, *testutil.JitteryLocker) {
	var base sync.Locker
	switch cfg.locker {
	case lockerSemaphore:
		base = lockstrap.NewSemaphoreLocker()
	default:
		base = lockstrap.NewMutexLocker()
	}
	if !cfg.jitter {
		return base, nil
	}
	j := testutil.NewJitteryLocker(base, testutil.DefaultJitterConfig())
	return j, j
}

// runStress runs cfg.workers goroutines, each incrementing the ledger
// cfg.iterations times. Even workers use With, odd workers use a manual
// Access/Release scope, so both acquisition paths contend for the lock.
func runStress(ctx context.Context, cfg *config, logger *zap.Logger) (*StressResult, error) {
	lock, jittery := newLocker(cfg)
	s := lockstrap.New(ledger{perWorker: make(map[int]int)},
		lockstrap.WithLocker(lock),
		lockstrap.WithName("stress"),
		lockstrap.WithPoisoning())

	logger.Info("starting stress run",
		zap.String("locker", cfg.locker),
		zap.Int("workers", cfg.workers),
		zap.Int("iterations", cfg.iterations),
		zap.Duration("timeout", cfg.timeout),
		zap.Bool("jitter", cfg.jitter))

	var timeouts sync.Map
	start := time.Now()
	eg, egCtx := errgroup.WithContext(ctx)
	for id := range cfg.workers {
		eg.Go(func() error {
			n, err := runWorker(egCtx, s, cfg, id)
			timeouts.Store(id, n)
			if err != nil {
				return fmt.Errorf("worker %d: %w", id, err)
			}
			logger.Debug("worker finished", zap.Int("worker", id), zap.Int("timeouts", n))
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err //nolint:wrapcheck // already wrapped per worker
	}
	elapsed := time.Since(start)

	result := &StressResult{
		Locker:     cfg.locker,
		Deadlock:   syncutil.DeadlockEnabled,
		Workers:    cfg.workers,
		Iterations: cfg.iterations,
		Duration:   elapsed,
	}
	timeouts.Range(func(_, v any) bool {
		result.Timeouts += v.(int) //nolint:forcetypeassert // only ints are stored
		return true
	})

	final, err := lockstrap.Do(s, func(g *lockstrap.Guard[ledger]) (ledger, error) {
		return *g.Data(), nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to read final state: %w", err)
	}

	result.Expected = cfg.workers*cfg.iterations - result.Timeouts
	result.Total = final.total
	result.Lost = result.Expected - final.total
	perWorkerSum := 0
	for _, n := range final.perWorker {
		perWorkerSum += n
	}
	if jittery != nil {
		result.PeakHolders = jittery.PeakHolders()
	}
	result.Success = result.Lost == 0 && perWorkerSum == final.total &&
		(jittery == nil || result.PeakHolders == 1)

	logger.Info("stress run complete",
		zap.Int("total", result.Total),
		zap.Int("lost", result.Lost),
		zap.Int("timeouts", result.Timeouts),
		zap.Duration("elapsed", elapsed))
	return result, nil
}

// runWorker performs the worker's increments and returns how many
// acquisitions timed out.
func runWorker(ctx context.Context, s *lockstrap.Strap[ledger], cfg *config, id int) (int, error) {
	timeouts := 0
	for i := range cfg.iterations {
		if err := ctx.Err(); err != nil {
			return timeouts, err //nolint:wrapcheck // cancellation is reported as-is
		}

		var err error
		switch {
		case cfg.timeout > 0:
			err = incrementTimed(s, cfg.timeout, id, i)
			if lockstrap.IsTimeout(err) {
				timeouts++
				continue
			}
		case id%2 == 0:
			err = s.With(func(g *lockstrap.Guard[ledger]) error {
				increment(g.Data(), id, i)
				return nil
			})
		default:
			err = incrementManual(s, id, i)
		}
		if err != nil {
			return timeouts, err
		}
	}
	return timeouts, nil
}

func incrementManual(s *lockstrap.Strap[ledger], id, i int) error {
	g, err := s.Access()
	if err != nil {
		return err //nolint:wrapcheck // AcquireError carries the context
	}
	defer g.Release()
	increment(g.Data(), id, i)
	return nil
}

func incrementTimed(s *lockstrap.Strap[ledger], timeout time.Duration, id, i int) error {
	g, err := s.AccessTimeout(timeout)
	if err != nil {
		return err //nolint:wrapcheck // AcquireError carries the context
	}
	defer g.Release()
	increment(g.Data(), id, i)
	return nil
}

func increment(l *ledger, id, i int) {
	l.total++
	l.perWorker[id]++
	l.lastLabel = fmt.Sprintf("%d.%d", id, i)
}

func printResult(w io.Writer, result *StressResult, asJSON bool) error {
	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(result); err != nil {
			return fmt.Errorf("failed to encode result: %w", err)
		}
		return nil
	}

	status := "PASS"
	if !result.Success {
		status = "FAIL"
	}
	_, _ = fmt.Fprintln(w, "================================================================================")
	_, _ = fmt.Fprintf(w, "  lockstrap stress test: %s\n", status)
	_, _ = fmt.Fprintln(w, "================================================================================")
	_, _ = fmt.Fprintf(w, "  locker:      %s\n", result.Locker)
	if result.Deadlock {
		_, _ = fmt.Fprintln(w, "  deadlock detection: on")
	}
	_, _ = fmt.Fprintf(w, "  workers:     %d x %d\n", result.Workers, result.Iterations)
	_, _ = fmt.Fprintf(w, "  expected:    %d\n", result.Expected)
	_, _ = fmt.Fprintf(w, "  total:       %d\n", result.Total)
	_, _ = fmt.Fprintf(w, "  lost:        %d\n", result.Lost)
	_, _ = fmt.Fprintf(w, "  timeouts:    %d\n", result.Timeouts)
	if result.PeakHolders > 0 {
		_, _ = fmt.Fprintf(w, "  peak holders: %d\n", result.PeakHolders)
	}
	_, _ = fmt.Fprintf(w, "  duration:    %v\n", result.Duration.Round(time.Microsecond))
	return nil
}
