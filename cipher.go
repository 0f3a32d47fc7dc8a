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
	"crypto/aes"
	"crypto/cipher"
	"fmt"
)

// cipherRegions are the two encrypted ranges, in keystream order.
var cipherRegions = [...]struct{ offset, size int }{
	{OffsetTagConfig, SizeTagConfig},
	{OffsetAppData, SizeAppData},
}

// ApplyKeystream XORs the AES-128-CTR keystream for key over the tag config
// and application data regions. The stream continues from the end of the
// first region into the second. Calling it twice with the same key restores
// the original bytes, so it both encrypts and decrypts.
func ApplyKeystream(key *DerivedKey, tag *TagImage) error {
	if key == nil {
		return newArgumentError("ApplyKeystream", ErrNilKey)
	}
	if err := checkTag("ApplyKeystream", tag); err != nil {
		return err
	}

	block, err := aes.NewCipher(key.AESKey[:])
	if err != nil {
		// Unreachable with a 16-byte key.
		return fmt.Errorf("failed to create AES cipher: %w", err)
	}
	stream := cipher.NewCTR(block, key.AESIV[:])
	for _, r := range cipherRegions {
		region := tag.field(r.offset, r.size)
		stream.XORKeyStream(region, region)
	}
	return nil
}
