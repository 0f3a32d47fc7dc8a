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
	"crypto/subtle"
)

// HashSize is the size of each stored signature.
const HashSize = sha256.Size

// ComputeSignature returns the tag hash and data hash for the plaintext tag.
//
// The signing buffer is assembled as:
//
//	[  0: 36] marker, write counter, tag config (0x10)
//	[ 36:396] application data (0xA0)
//	[396:428] tag hash
//	[428:436] UID block (0x00)
//	[436:448] model info (0x54)
//	[448:480] keygen salt (0x60)
//
// The tag hash covers [428:480] under the tag key; it is then placed at 396
// and the data hash covers [1:480] under the data key.
func ComputeSignature(tagKey, dataKey *DerivedKey, tag *TagImage) (tagHash, dataHash [HashSize]byte, err error) {
	if tagKey == nil || dataKey == nil {
		return tagHash, dataHash, newArgumentError("ComputeSignature", ErrNilKey)
	}
	if err := checkTag("ComputeSignature", tag); err != nil {
		return tagHash, dataHash, err
	}
	tagHash, dataHash = computeSignature(tagKey, dataKey, tag)
	return tagHash, dataHash, nil
}

func computeSignature(tagKey, dataKey *DerivedKey, tag *TagImage) (tagHash, dataHash [HashSize]byte) {
	var buf [signingBufferSize]byte
	defer wipe(buf[:])

	copy(buf[0:], tag.field(OffsetMarker, sizeFixedA5Block))
	copy(buf[signAppDataOffset:], tag.field(OffsetAppData, SizeAppData))
	copy(buf[signUIDOffset:], tag.field(OffsetUID, SizeUID))
	copy(buf[signModelOffset:], tag.field(OffsetModelInfo, SizeModelInfo))
	copy(buf[signSaltOffset:], tag.field(OffsetKeygenSalt, SizeKeygenSalt))

	mac := hmac.New(sha256.New, tagKey.HMACKey[:])
	mac.Write(buf[signUIDOffset:])
	mac.Sum(tagHash[:0])

	copy(buf[signTagHashOffset:], tagHash[:])

	mac = hmac.New(sha256.New, dataKey.HMACKey[:])
	mac.Write(buf[1:])
	mac.Sum(dataHash[:0])
	return tagHash, dataHash
}

// ValidateSignature recomputes both hashes and compares them with the ones
// stored on the tag. A mismatch returns a *SignatureError.
func ValidateSignature(tagKey, dataKey *DerivedKey, tag *TagImage) error {
	tagHash, dataHash, err := ComputeSignature(tagKey, dataKey, tag)
	if err != nil {
		return err
	}

	tagOK := subtle.ConstantTimeCompare(tagHash[:], tag.field(OffsetTagHash, SizeTagHash)) == 1
	dataOK := subtle.ConstantTimeCompare(dataHash[:], tag.field(OffsetDataHash, SizeDataHash)) == 1
	if tagOK && dataOK {
		return nil
	}
	return &SignatureError{Op: "ValidateSignature", TagHash: !tagOK, DataHash: !dataOK}
}

// SignPayload computes both hashes and stores them on the tag.
func SignPayload(tagKey, dataKey *DerivedKey, tag *TagImage) error {
	tagHash, dataHash, err := ComputeSignature(tagKey, dataKey, tag)
	if err != nil {
		return err
	}
	copy(tag.field(OffsetTagHash, SizeTagHash), tagHash[:])
	copy(tag.field(OffsetDataHash, SizeDataHash), dataHash[:])
	return nil
}
