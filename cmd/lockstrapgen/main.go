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

// Command lockstrapgen generates per-field guard accessors for struct types.
//
// Usage, from a go:generate directive in the package declaring the type:
//
//	//go:generate go run github.com/ZaparooProject/go-lockstrap/cmd/lockstrapgen -type=Tally
//
// For each type T it writes a TStrap wrapping lockstrap.Strap[T] and a TGuard
// with one method per field of T returning a pointer to that field.
package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ZaparooProject/go-lockstrap/internal/gen"
	"github.com/ZaparooProject/go-lockstrap/internal/logging"
	"go.uber.org/zap"
)

type config struct {
	dir    string
	output string
	types  []string
	debug  bool
}

// Package-level flag variables
var (
	flagTypes  string
	flagOutput string
	flagDebug  bool
)

func init() {
	flag.StringVar(&flagTypes, "type", "", "Comma-separated list of struct type names (required)")
	flag.StringVar(&flagOutput, "output", "", "Output file (default <type>_lockstrap.go in the package directory)")
	flag.BoolVar(&flagDebug, "debug", false, "Enable debug output")
}

func parseConfig(args []string) (*config, error) {
	cfg := &config{
		dir:    ".",
		output: flagOutput,
		debug:  flagDebug,
	}

	for _, name := range strings.Split(flagTypes, ",") {
		if name = strings.TrimSpace(name); name != "" {
			cfg.types = append(cfg.types, name)
		}
	}
	if len(cfg.types) == 0 {
		return nil, errors.New("-type is required")
	}

	switch len(args) {
	case 0:
	case 1:
		cfg.dir = args[0]
	default:
		return nil, fmt.Errorf("expected at most one package directory, got %d", len(args))
	}
	return cfg, nil
}

func run(cfg *config, logger *zap.Logger) error {
	logger.Debug("loading package", zap.String("dir", cfg.dir))
	pkg, err := gen.LoadDir(cfg.dir)
	if err != nil {
		return fmt.Errorf("failed to load package: %w", err)
	}

	code, err := gen.Generate(pkg, cfg.types)
	path := cfg.output
	if path == "" {
		path = filepath.Join(cfg.dir, gen.FileName(cfg.types))
	}
	if err != nil {
		if code != nil {
			// Write the unformatted source anyway; it is easier to debug in a file.
			_ = os.WriteFile(path, code, 0o644) //nolint:gosec // generated source is meant to be world-readable
		}
		return fmt.Errorf("failed to generate %s: %w", path, err)
	}

	if err := os.WriteFile(path, code, 0o644); err != nil { //nolint:gosec // generated source is meant to be world-readable
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	logger.Info("generated guard accessors",
		zap.String("package", pkg.Name),
		zap.Strings("types", cfg.types),
		zap.String("file", path))
	return nil
}

func main() {
	flag.Usage = func() {
		_, _ = fmt.Fprintf(os.Stderr, "Usage: %s -type=T[,T...] [options] [package-dir]\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()
	os.Exit(mainWithExitCode(flag.Args()))
}

func mainWithExitCode(args []string) int {
	cfg, err := parseConfig(args)
	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		flag.Usage()
		return 2
	}

	logger := logging.New(os.Stderr, cfg.debug)
	defer func() { _ = logger.Sync() }()

	if err := run(cfg, logger); err != nil {
		logger.Error("lockstrapgen failed", zap.Error(err))
		return 1
	}
	return 0
}
