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
	"bytes"
	"io"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// These tests swap package-level debug state and must not run in parallel.

// saveDebugState saves current debug state for restoration.
func saveDebugState() (enabled bool, writer io.Writer) {
	return debugEnabled, debugWriter
}

// restoreDebugState restores saved debug state.
func restoreDebugState(enabled bool, writer io.Writer) {
	SetDebugEnabled(enabled)
	SetDebugWriter(writer)
}

func captureDebug(t *testing.T) *bytes.Buffer {
	t.Helper()
	origEnabled, origWriter := saveDebugState()
	t.Cleanup(func() {
		restoreDebugState(origEnabled, origWriter)
	})

	var buf bytes.Buffer
	SetDebugWriter(&buf)
	SetDebugEnabled(false) // Disable console output
	return &buf
}

func TestDebugf_WritesToDebugWriter(t *testing.T) {
	buf := captureDebug(t)

	Debugf("test message %d", 42)

	content := buf.String()
	assert.Contains(t, content, "DEBUG: test message 42")
	assert.True(t, strings.HasSuffix(content, "\n"))
}

func TestDebugf_IncludesTimestamp(t *testing.T) {
	buf := captureDebug(t)

	Debugf("test message")

	// Verify timestamp format: HH:MM:SS.mmm
	matched, err := regexp.MatchString(`\d{2}:\d{2}:\d{2}\.\d{3} DEBUG:`, buf.String())
	require.NoError(t, err)
	assert.True(t, matched, "Should include timestamp in format HH:MM:SS.mmm, got: %s", buf.String())
}

func TestDebugf_NilWriter(t *testing.T) {
	origEnabled, origWriter := saveDebugState()
	t.Cleanup(func() {
		restoreDebugState(origEnabled, origWriter)
	})

	SetDebugWriter(nil)
	SetDebugEnabled(false)

	assert.NotPanics(t, func() {
		Debugf("test message %d", 42)
		Debugln("test", "message")
	})
}

func TestDebugln_SeparatesArgs(t *testing.T) {
	buf := captureDebug(t)

	Debugln("value1", 42, "value2", true)

	assert.Contains(t, buf.String(), "DEBUG: value1 42 value2 true\n")
}

func TestDebugf_MultipleMessages(t *testing.T) {
	buf := captureDebug(t)

	Debugf("message 1")
	Debugf("message 2")
	Debugf("message 3")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3, "Should have 3 log lines")
	assert.Contains(t, lines[0], "message 1")
	assert.Contains(t, lines[1], "message 2")
	assert.Contains(t, lines[2], "message 3")
}

func TestSetDebugEnabled(t *testing.T) {
	origEnabled, origWriter := saveDebugState()
	t.Cleanup(func() {
		restoreDebugState(origEnabled, origWriter)
	})

	SetDebugEnabled(true)
	assert.True(t, debugEnabled)

	SetDebugEnabled(false)
	assert.False(t, debugEnabled)
}

func TestDebug_PoisonIsLogged(t *testing.T) {
	buf := captureDebug(t)

	s := New(counter{}, WithName("logged"), WithPoisoning())
	assert.Panics(t, func() {
		_ = s.With(func(*Guard[counter]) error {
			panic("boom")
		})
	})

	assert.Contains(t, buf.String(), `strap "logged" poisoned`)
}
