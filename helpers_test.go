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
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/require"

	testutil "github.com/ZaparooProject/go-amiibo/internal/testing"
)

// testRetailKey parses the fixture key file.
func testRetailKey(t *testing.T) *RetailKey {
	t.Helper()
	rk, err := ParseRetailKey(testutil.RetailKeyFixture())
	require.NoError(t, err)
	return rk
}

// generatedTag returns the plaintext image Generate builds for the fixture
// identifier with a sequence RNG starting at zero: salt 00..1F, UID
// 04 20 21 22 23 24 25.
func generatedTag(t *testing.T) *TagImage {
	t.Helper()
	tag := NewTagImage()
	_, err := Generate(testutil.TestAmiiboID, tag, testutil.NewSequenceReader(0))
	require.NoError(t, err)
	return tag
}

// testKeys derives the fixture key pair for tag.
func testKeys(t *testing.T, tag *TagImage) (tagKey, dataKey DerivedKey) {
	t.Helper()
	tagKey, dataKey, err := DeriveKeys(testRetailKey(t), tag)
	require.NoError(t, err)
	return tagKey, dataKey
}

// shortTag returns an NTAG213-sized dump that no crypto operation accepts.
func shortTag(t *testing.T) *TagImage {
	t.Helper()
	tag, err := ParseTagImage(testutil.NewVirtualNTAG213(nil).Dump())
	require.NoError(t, err)
	return tag
}

func mustHex(t *testing.T, s string) []byte {
	t.Helper()
	b, err := hex.DecodeString(s)
	require.NoError(t, err)
	return b
}
