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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Golden values computed with an independent reference model over the
// fixture key file and generatedTag.
const (
	goldenDataAESKey  = "e9409c6a534555ffdc1b276d42a0c8d8"
	goldenDataAESIV   = "583efa70be7b1caa1aa39080d53b05d2"
	goldenDataHMACKey = "9a81a78cfe08ca98dcbdcdb2f27ec550"
	goldenTagAESKey   = "9a1fc3e468e83f70446635b025326356"
	goldenTagAESIV    = "3b0b2841945a0085479ff7853b72d407"
	goldenTagHMACKey  = "6e5f0d79bcf633cb96eb54e9e0ecdb3a"
)

func TestDeriveKey_GoldenVector(t *testing.T) {
	t.Parallel()

	tag := generatedTag(t)
	tagKey, dataKey := testKeys(t, tag)

	assert.Equal(t, mustHex(t, goldenDataAESKey), dataKey.AESKey[:])
	assert.Equal(t, mustHex(t, goldenDataAESIV), dataKey.AESIV[:])
	assert.Equal(t, mustHex(t, goldenDataHMACKey), dataKey.HMACKey[:])
	assert.Equal(t, mustHex(t, goldenTagAESKey), tagKey.AESKey[:])
	assert.Equal(t, mustHex(t, goldenTagAESIV), tagKey.AESIV[:])
	assert.Equal(t, mustHex(t, goldenTagHMACKey), tagKey.HMACKey[:])
}

func TestDeriveKey_Deterministic(t *testing.T) {
	t.Parallel()

	rk := testRetailKey(t)
	tag := generatedTag(t)
	before := tag.Bytes()

	first, err := DeriveKey(&rk.Data, tag)
	require.NoError(t, err)
	second, err := DeriveKey(&rk.Data, tag)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, before, tag.Bytes(), "derivation must not touch the tag")
}

func TestDeriveKey_InputSensitivity(t *testing.T) {
	t.Parallel()

	rk := testRetailKey(t)
	base := generatedTag(t)
	baseData, err := DeriveKey(&rk.Data, base)
	require.NoError(t, err)
	baseTag, err := DeriveKey(&rk.Tag, base)
	require.NoError(t, err)

	tests := []struct {
		name        string
		offset      int
		dataChanges bool
		tagChanges  bool
	}{
		// The data template has 14 magic bytes, so it pulls 2 write counter
		// bytes into its seed; the tag template has 16 and pulls none.
		{name: "Write_Counter", offset: OffsetWriteCounter, dataChanges: true, tagChanges: false},
		{name: "UID", offset: OffsetUID + 1, dataChanges: true, tagChanges: true},
		{name: "UID_Block_Last_Byte", offset: OffsetUID + SizeUID - 1, dataChanges: true, tagChanges: true},
		{name: "BCC1", offset: OffsetBCC1, dataChanges: false, tagChanges: false},
		{name: "Keygen_Salt", offset: OffsetKeygenSalt + 31, dataChanges: true, tagChanges: true},
		{name: "App_Data", offset: OffsetAppData, dataChanges: false, tagChanges: false},
		{name: "Model_Info", offset: OffsetModelInfo, dataChanges: false, tagChanges: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			tag := base.Clone()
			b, err := tag.Field(tt.offset, 1)
			require.NoError(t, err)
			require.NoError(t, tag.SetField(tt.offset, []byte{b[0] ^ 0x01}))

			dataKey, err := DeriveKey(&rk.Data, tag)
			require.NoError(t, err)
			tagKey, err := DeriveKey(&rk.Tag, tag)
			require.NoError(t, err)

			assert.Equal(t, tt.dataChanges, dataKey != baseData)
			assert.Equal(t, tt.tagChanges, tagKey != baseTag)
		})
	}
}

func TestDeriveKey_Rejection(t *testing.T) {
	t.Parallel()

	rk := testRetailKey(t)
	badMagic := rk.Data
	badMagic.MagicBytesSize = 15

	wrongType := NewTagImage()
	wrongType.Type = TagTypeNTAG216

	tests := []struct {
		template *SeedTemplate
		tag      *TagImage
		reason   error
		name     string
	}{
		{name: "Nil_Template", template: nil, tag: NewTagImage(), reason: ErrNilKey},
		{name: "Nil_Tag", template: &rk.Data, tag: nil, reason: ErrNilTag},
		{name: "Bad_Magic_Size", template: &badMagic, tag: NewTagImage(), reason: ErrMagicBytesSize},
		{name: "Short_Dump", template: &rk.Data, tag: shortTag(t), reason: ErrNotFullDump},
		{name: "Wrong_Type", template: &rk.Data, tag: wrongType, reason: ErrNotFullDump},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			key, err := DeriveKey(tt.template, tt.tag)
			require.Error(t, err)
			assert.True(t, IsArgumentError(err))
			assert.ErrorIs(t, err, tt.reason)
			assert.Equal(t, DerivedKey{}, key)
		})
	}
}

func TestDeriveKeys_NilRetailKey(t *testing.T) {
	t.Parallel()

	_, _, err := DeriveKeys(nil, NewTagImage())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNilKey)
}

func TestBuildSeed_Layout(t *testing.T) {
	t.Parallel()

	rk := testRetailKey(t)
	tag := generatedTag(t)
	require.NoError(t, tag.SetField(OffsetWriteCounter, []byte{0xAB, 0xCD}))

	var seed [maxSeedSize]byte
	n := buildSeed(&rk.Data, tag, seed[:])

	// "unfixed infos" NUL, 2 counter bytes, 14 magic, 16 UID, 32 salt
	require.Equal(t, 14+2+14+16+32, n)
	assert.Equal(t, "unfixed infos\x00", string(seed[:14]))
	assert.Equal(t, []byte{0xAB, 0xCD}, seed[14:16])
	assert.Equal(t, rk.Data.MagicBytes[:14], seed[16:30])
	assert.Equal(t, tag.UIDBlock(), seed[30:38])
	assert.Equal(t, tag.UIDBlock(), seed[38:46])
	for i := 0; i < SizeKeygenSalt; i++ {
		assert.Equal(t, byte(i)^rk.Data.XORTable[i], seed[46+i], "salt byte %d", i)
	}
	assert.Zero(t, seed[n], "bytes past the seed stay zero")

	n = buildSeed(&rk.Tag, tag, seed[:])
	assert.Equal(t, 14+0+16+16+32, n)
}

func TestDerivedKey_Wipe(t *testing.T) {
	t.Parallel()

	_, dataKey := testKeys(t, generatedTag(t))
	dataKey.Wipe()
	assert.Equal(t, DerivedKey{}, dataKey)

	var nilKey *DerivedKey
	assert.NotPanics(t, nilKey.Wipe)
}
