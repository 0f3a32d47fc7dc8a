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

package amiibo

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestArgumentError(t *testing.T) {
	t.Parallel()

	err := newArgumentError("DeriveKey", ErrNotFullDump)
	assert.Equal(t, "DeriveKey: invalid argument: tag is not a full NTAG215 dump", err.Error())
	assert.ErrorIs(t, err, ErrInvalidArgument)
	assert.ErrorIs(t, err, ErrNotFullDump)
	assert.NotErrorIs(t, err, ErrSignatureMismatch)

	wrapped := fmt.Errorf("unpack: %w", err)
	var argErr *ArgumentError
	require.ErrorAs(t, wrapped, &argErr)
	assert.Equal(t, "DeriveKey", argErr.Op)
	assert.True(t, IsArgumentError(wrapped))
	assert.False(t, IsSignatureError(wrapped))
}

func TestSignatureError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		err      *SignatureError
		name     string
		contains string
	}{
		{name: "Tag_Hash", err: &SignatureError{Op: "ValidateSignature", TagHash: true}, contains: "(tag hash)"},
		{name: "Data_Hash", err: &SignatureError{Op: "ValidateSignature", DataHash: true}, contains: "(data hash)"},
		{name: "Both", err: &SignatureError{Op: "ValidateSignature", TagHash: true, DataHash: true}, contains: "(tag and data hash)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Contains(t, tt.err.Error(), tt.contains)
			assert.Contains(t, tt.err.Error(), "signature mismatch")
			assert.True(t, IsSignatureError(tt.err))
			assert.False(t, IsArgumentError(tt.err))
		})
	}
}

func TestErrorHelpers_Nil(t *testing.T) {
	t.Parallel()

	assert.False(t, IsArgumentError(nil))
	assert.False(t, IsSignatureError(nil))
	assert.False(t, IsArgumentError(errors.New("other")))
}
