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
	"crypto/rand"
	"fmt"
	"io"
)

// RandomizeUID writes a fresh NXP UID (0x04 followed by six random bytes)
// into the first two pages and updates both check bytes. A nil rng uses
// crypto/rand.
func RandomizeUID(tag *TagImage, rng io.Reader) error {
	if err := checkTag("RandomizeUID", tag); err != nil {
		return err
	}
	if rng == nil {
		rng = rand.Reader
	}

	var uid [UIDLength]byte
	uid[0] = ManufacturerNXP
	if _, err := io.ReadFull(rng, uid[1:]); err != nil {
		return fmt.Errorf("failed to generate UID: %w", err)
	}
	writeUID(tag, uid[:])
	return nil
}

// SetUID writes the first seven bytes of uid into the UID block and updates
// both check bytes.
func SetUID(tag *TagImage, uid []byte) error {
	if err := checkTag("SetUID", tag); err != nil {
		return err
	}
	if len(uid) < UIDLength {
		return newArgumentError("SetUID", ErrUIDLength)
	}
	writeUID(tag, uid[:UIDLength])
	return nil
}

// writeUID lays out UID0-2, BCC0, UID3-6, BCC1.
func writeUID(tag *TagImage, uid []byte) {
	b := tag.field(OffsetUID, SizeUID+1)
	copy(b[0:3], uid[0:3])
	b[3] = BCC0(uid)
	copy(b[4:8], uid[3:7])
	b[8] = BCC1(uid)
}

// BCC0 is the check byte over the cascade tag and UID0-2.
func BCC0(uid []byte) byte {
	return uid[0] ^ uid[1] ^ uid[2] ^ cascadeTag
}

// BCC1 is the check byte over UID3-6.
func BCC1(uid []byte) byte {
	return uid[3] ^ uid[4] ^ uid[5] ^ uid[6]
}

// DerivePassword computes the PWD_AUTH password for a tag from its 8-byte
// UID/BCC block. Indices refer to that block, not the 7-byte UID.
func DerivePassword(uidBlock []byte) ([SizePassword]byte, error) {
	var pwd [SizePassword]byte
	if len(uidBlock) < SizeUID {
		return pwd, newArgumentError("DerivePassword", ErrUIDBlockLength)
	}
	pwd[0] = uidBlock[1] ^ uidBlock[4] ^ 0xAA
	pwd[1] = uidBlock[2] ^ uidBlock[5] ^ 0x55
	pwd[2] = uidBlock[4] ^ uidBlock[6] ^ 0xAA
	pwd[3] = uidBlock[5] ^ uidBlock[7] ^ 0x55
	return pwd, nil
}

// Password returns the password derived from the tag's current UID block.
func (t *TagImage) Password() [SizePassword]byte {
	pwd, _ := DerivePassword(t.field(OffsetUID, SizeUID))
	return pwd
}
