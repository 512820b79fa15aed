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

// Command lockstress hammers a strap from many goroutines and checks that no
// update is lost.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	lockstrap "github.com/ZaparooProject/go-lockstrap"
	"github.com/ZaparooProject/go-lockstrap/internal/logging"
	"go.uber.org/zap"
)

// Locker kinds accepted by -locker
const (
	lockerMutex     = "mutex"
	lockerSemaphore = "semaphore"
)

type config struct {
	locker     string
	timeout    time.Duration
	workers    int
	iterations int
	jitter     bool
	jsonOutput bool
	debug      bool
}

// Package-level flag variables
var (
	flagLocker     string
	flagTimeout    time.Duration
	flagWorkers    int
	flagIterations int
	flagJitter     bool
	flagJSON       bool
	flagDebug      bool
)

func init() {
	flag.StringVar(&flagLocker, "locker", lockerMutex, "Lock backing the strap: mutex or semaphore")
	flag.DurationVar(&flagTimeout, "timeout", 0, "Per-acquisition timeout (0 blocks until acquired)")
	flag.IntVar(&flagWorkers, "workers", 8, "Number of concurrent goroutines")
	flag.IntVar(&flagIterations, "iterations", 10000, "Increments per goroutine")
	flag.BoolVar(&flagJitter, "jitter", false, "Inject random lock delays")
	flag.BoolVar(&flagJSON, "json", false, "Print the result as JSON")
	flag.BoolVar(&flagDebug, "debug", false, "Enable debug output")
}

func parseConfig() (*config, error) {
	cfg := &config{
		locker:     flagLocker,
		timeout:    flagTimeout,
		workers:    flagWorkers,
		iterations: flagIterations,
		jitter:     flagJitter,
		jsonOutput: flagJSON,
		debug:      flagDebug,
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (cfg *config) validate() error {
	switch cfg.locker {
	case lockerMutex, lockerSemaphore:
	default:
		return fmt.Errorf("unsupported locker: %s", cfg.locker)
	}
	if cfg.workers < 1 {
		return errors.New("workers must be at least 1")
	}
	if cfg.iterations < 1 {
		return errors.New("iterations must be at least 1")
	}
	if cfg.timeout < 0 {
		return errors.New("timeout must not be negative")
	}
	return nil
}

func main() {
	flag.Parse()
	os.Exit(mainWithExitCode(os.Stdout))
}

func mainWithExitCode(out io.Writer) int {
	cfg, err := parseConfig()
	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 2
	}

	logger := logging.New(os.Stderr, cfg.debug)
	defer func() { _ = logger.Sync() }()

	if cfg.debug {
		lockstrap.SetDebugWriter(logging.Writer(logger))
		defer lockstrap.SetDebugWriter(nil)
	}

	// Setup signal handling for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigChan)
	go func() {
		select {
		case <-sigChan:
			logger.Info("shutting down")
			cancel()
		case <-ctx.Done():
		}
	}()

	result, err := runStress(ctx, cfg, logger)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return 0
		}
		logger.Error("stress run failed", zap.Error(err))
		return 1
	}

	if err := printResult(out, result, cfg.jsonOutput); err != nil {
		logger.Error("failed to print result", zap.Error(err))
		return 1
	}
	if !result.Success {
		return 1
	}
	return 0
}
