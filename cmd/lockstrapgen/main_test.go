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
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const tallySource = `package tally

import "time"

type Tally struct {
	count int
	at    time.Time
}
`

func TestRun_WritesGeneratedFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "tally.go"), []byte(tallySource), 0o600))

	cfg := &config{dir: dir, types: []string{"Tally"}}
	require.NoError(t, run(cfg, zap.NewNop()))

	out, err := os.ReadFile(filepath.Join(dir, "tally_lockstrap.go"))
	require.NoError(t, err)
	assert.Contains(t, string(out), "func (g TallyGuard) Count() *int")
	assert.Contains(t, string(out), "func (g TallyGuard) At() *time.Time")
}

func TestRun_CustomOutput(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "tally.go"), []byte(tallySource), 0o600))
	output := filepath.Join(dir, "guards_gen.go")

	require.NoError(t, run(&config{dir: dir, output: output, types: []string{"Tally"}}, zap.NewNop()))
	assert.FileExists(t, output)
	assert.NoFileExists(t, filepath.Join(dir, "tally_lockstrap.go"))
}

func TestRun_UnknownType(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "tally.go"), []byte(tallySource), 0o600))

	err := run(&config{dir: dir, types: []string{"Missing"}}, zap.NewNop())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Missing")
}

// parseConfig reads package-level flags, so these cases run sequentially.
func TestParseConfig(t *testing.T) {
	orig := flagTypes
	t.Cleanup(func() { flagTypes = orig })

	flagTypes = ""
	_, err := parseConfig(nil)
	require.Error(t, err)

	flagTypes = " Tally, Ledger ,"
	cfg, err := parseConfig([]string{"./internal/sample"})
	require.NoError(t, err)
	assert.Equal(t, []string{"Tally", "Ledger"}, cfg.types)
	assert.Equal(t, "./internal/sample", cfg.dir)

	_, err = parseConfig([]string{"a", "b"})
	require.Error(t, err)
}
