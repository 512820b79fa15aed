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
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/ZaparooProject/go-lockstrap/internal/syncutil"
)

// debugEnabled controls whether debug logging is printed to the console
var debugEnabled = false

// debugWriter receives every debug line, enabled or not, when set
var debugWriter io.Writer

// debugMu serialises writes to debugWriter
var debugMu syncutil.Mutex

func init() {
	if os.Getenv("LOCKSTRAP_DEBUG") != "" || os.Getenv("DEBUG") != "" {
		debugEnabled = true
	}
}

// Debugf prints debug information.
// Always writes to the debug writer (if set) with a timestamp.
// Only prints to the console when debug mode is enabled.
func Debugf(format string, args ...any) {
	emit(fmt.Sprintf(format, args...))
}

// Debugln prints debug information.
// Always writes to the debug writer (if set) with a timestamp.
// Only prints to the console when debug mode is enabled.
func Debugln(args ...any) {
	emit(strings.TrimSuffix(fmt.Sprintln(args...), "\n"))
}

func emit(message string) {
	debugMu.Lock()
	defer debugMu.Unlock()

	if debugWriter != nil {
		timestamp := time.Now().Format("15:04:05.000")
		_, _ = fmt.Fprintf(debugWriter, "%s DEBUG: %s\n", timestamp, message)
	}

	if debugEnabled {
		_, _ = fmt.Fprintf(os.Stderr, "DEBUG: %s\n", message)
	}
}

// SetDebugEnabled allows programmatic control of debug logging
func SetDebugEnabled(enabled bool) {
	debugMu.Lock()
	defer debugMu.Unlock()
	debugEnabled = enabled
}

// SetDebugWriter mirrors debug lines to w. Pass nil to stop mirroring.
func SetDebugWriter(w io.Writer) {
	debugMu.Lock()
	defer debugMu.Unlock()
	debugWriter = w
}
