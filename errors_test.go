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
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAcquireError_Error(t *testing.T) {
	t.Parallel()

	tests := []struct {
		err  *AcquireError
		name string
		want string
	}{
		{
			name: "named strap",
			err:  NewAcquireError(opAccess, "ledger", ErrPoisoned),
			want: "access ledger: strap poisoned by an interrupted guard scope",
		},
		{
			name: "unnamed strap",
			err:  NewAcquireError(opAccessTimeout, "", ErrAcquireTimeout),
			want: "access-timeout: lock acquisition timed out",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, tt.err.Error())
		})
	}
}

func TestAcquireError_Unwrap(t *testing.T) {
	t.Parallel()

	err := fmt.Errorf("loading: %w", NewAcquireError(opAccessContext, "", context.Canceled))
	assert.ErrorIs(t, err, context.Canceled)
	assert.True(t, IsAcquisitionFailure(err))
}

func TestIsAcquisitionFailure(t *testing.T) {
	t.Parallel()

	tests := []struct {
		err  error
		name string
		want bool
	}{
		{name: "nil error", err: nil, want: false},
		{name: "busy is absence", err: ErrLockBusy, want: false},
		{name: "poisoned", err: NewAcquireError(opAccess, "", ErrPoisoned), want: true},
		{name: "bare sentinel", err: ErrPoisoned, want: false},
		{name: "unrelated", err: errors.New("other"), want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := IsAcquisitionFailure(tt.err); got != tt.want {
				t.Errorf("IsAcquisitionFailure() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestIsTimeout(t *testing.T) {
	t.Parallel()

	tests := []struct {
		err  error
		name string
		want bool
	}{
		{name: "nil error", err: nil, want: false},
		{name: "timeout", err: NewAcquireError(opAccessTimeout, "", ErrAcquireTimeout), want: true},
		{name: "deadline", err: NewAcquireError(opAccessContext, "", context.DeadlineExceeded), want: true},
		{name: "cancelled", err: NewAcquireError(opAccessContext, "", context.Canceled), want: false},
		{name: "busy", err: ErrLockBusy, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := IsTimeout(tt.err); got != tt.want {
				t.Errorf("IsTimeout() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestMisuse_WrapsSentinel(t *testing.T) {
	t.Parallel()

	assert.ErrorIs(t, misuse("release", ""), ErrGuardReleased)
	assert.Equal(t, "lockstrap: release: guard already released", misuse("release", "").Error())
	assert.Equal(t, `lockstrap: data on strap "x": guard already released`, misuse("data", "x").Error())
}
