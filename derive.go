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
	"crypto/hmac"
	"crypto/sha256"
	"encoding/binary"
)

// counterSize is the big-endian iteration prefix in front of the seed.
const counterSize = 2

// DeriveKey expands a seed template and the tag's plaintext identity fields
// into a DerivedKey. It is a pure function of the template and tag bytes.
func DeriveKey(template *SeedTemplate, tag *TagImage) (DerivedKey, error) {
	var key DerivedKey
	if err := template.validate("DeriveKey"); err != nil {
		return key, err
	}
	if err := checkTag("DeriveKey", tag); err != nil {
		return key, err
	}

	var buf [counterSize + maxSeedSize]byte
	defer wipe(buf[:])
	n := buildSeed(template, tag, buf[counterSize:])

	var out [DerivedKeySize]byte
	defer wipe(out[:])
	expand(template.HMACKey[:], buf[:counterSize+n], out[:])

	copy(key.AESKey[:], out[0:16])
	copy(key.AESIV[:], out[16:32])
	copy(key.HMACKey[:], out[32:48])
	return key, nil
}

// DeriveKeys derives the tag key and the data key for one tag.
func DeriveKeys(rk *RetailKey, tag *TagImage) (tagKey, dataKey DerivedKey, err error) {
	if rk == nil {
		return tagKey, dataKey, newArgumentError("DeriveKeys", ErrNilKey)
	}
	tagKey, err = DeriveKey(&rk.Tag, tag)
	if err != nil {
		return tagKey, dataKey, err
	}
	dataKey, err = DeriveKey(&rk.Data, tag)
	if err != nil {
		tagKey.Wipe()
		return tagKey, dataKey, err
	}
	return tagKey, dataKey, nil
}

// buildSeed writes the derivation seed into dst, which must be zeroed, and
// returns its length. Layout:
//
//	type string, NUL
//	write counter[0 : 16-magicSize]
//	magic bytes[0 : magicSize]
//	UID block, UID block
//	keygen salt XOR xor table
func buildSeed(template *SeedTemplate, tag *TagImage, dst []byte) int {
	n := copy(dst, template.typeString())
	dst[n] = 0
	n++

	leading := magicBytesMax - int(template.MagicBytesSize)
	n += copy(dst[n:], tag.field(OffsetWriteCounter, leading))
	n += copy(dst[n:], template.MagicBytes[:template.MagicBytesSize])

	uid := tag.field(OffsetUID, SizeUID)
	n += copy(dst[n:], uid)
	n += copy(dst[n:], uid)

	salt := tag.field(OffsetKeygenSalt, SizeKeygenSalt)
	for i := range salt {
		dst[n+i] = salt[i] ^ template.XORTable[i]
	}
	return n + len(salt)
}

// expand runs HMAC-SHA256 in feedback mode over counter||seed, bumping the
// counter for every block, until out is full. input[0:2] holds the counter.
func expand(key, input, out []byte) {
	mac := hmac.New(sha256.New, key)
	var digest [sha256.Size]byte
	defer wipe(digest[:])

	for i, produced := uint16(0), 0; produced < len(out); i++ {
		binary.BigEndian.PutUint16(input[:counterSize], i)
		mac.Reset()
		mac.Write(input)
		mac.Sum(digest[:0])
		produced += copy(out[produced:], digest[:])
	}
}
