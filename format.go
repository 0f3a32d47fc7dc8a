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

// Static bytes of a formatted amiibo
var (
	amiiboLockBytes  = [...]byte{0x48, 0x0F, 0xE0}
	amiiboCapability = [SizeCapability]byte{0xF1, 0x10, 0xFF, 0xEE}
	amiiboDynLock    = [SizeDynamicLock]byte{0x01, 0x00, 0x0F}
	amiiboConfig     = [8]byte{0x00, 0x00, 0x00, 0x04, 0x5F, 0x00, 0x00, 0x00}
	amiiboPack       = [SizePack]byte{0x80, 0x80, 0x00, 0x00}
)

// Static bytes of an open NTAG215 template
var (
	blankLockBytes  = [...]byte{0x48, 0x00, 0x00}
	blankCapability = Page{0xE1, 0x10, 0x3E, 0x00}
	blankNDEF       = Page{0x03, 0x00, 0xFE, 0x00} // Empty NDEF TLV + terminator
	blankDynLock    = Page{0x00, 0x00, 0x00, 0xBD}
	blankCfg0       = Page{0x00, 0x00, 0x00, 0xFF} // AUTH0 past the last page
	blankCfg1       = Page{0x00, 0x00, 0x00, 0x00}
	blankPassword   = Page{0xFF, 0xFF, 0xFF, 0xFF}
	blankPack       = Page{0x00, 0x00, 0x00, 0x00}
)

const (
	amiiboMarker   = 0xA5
	reservedMarker = 0xBD
)

// FormatDump writes the static structure of a closed amiibo: lock bytes,
// capability container, marker, dynamic lock, config pages, the UID-derived
// password and the 0x8080 PACK. The tag still has to be signed and encrypted.
func FormatDump(tag *TagImage) (*MetadataHeader, error) {
	if err := checkTag("FormatDump", tag); err != nil {
		return nil, err
	}

	copy(tag.field(OffsetInternal, len(amiiboLockBytes)), amiiboLockBytes[:])
	copy(tag.field(OffsetCapability, SizeCapability), amiiboCapability[:])
	tag.data[OffsetMarker] = amiiboMarker
	copy(tag.field(OffsetDynamicLock, SizeDynamicLock), amiiboDynLock[:])
	tag.data[OffsetReserved] = reservedMarker
	copy(tag.field(OffsetConfig, len(amiiboConfig)), amiiboConfig[:])

	pwd := tag.Password()
	copy(tag.field(OffsetPassword, SizePassword), pwd[:])
	copy(tag.field(OffsetPack, SizePack), amiiboPack[:])

	return NewMetadataHeader(), nil
}

// PrepareBlankTag formats an open, writable NTAG215 template: empty NDEF,
// no dynamic locks, no password protection. It never produces a valid amiibo.
func PrepareBlankTag(tag *TagImage) error {
	if err := checkTag("PrepareBlankTag", tag); err != nil {
		return err
	}

	copy(tag.field(OffsetInternal, len(blankLockBytes)), blankLockBytes[:])
	pages := []struct {
		page int
		data Page
	}{
		{pageCapability, blankCapability},
		{pageUserStart, blankNDEF},
		{pageDynamicLock, blankDynLock},
		{pageCfg0, blankCfg0},
		{pageCfg1, blankCfg1},
		{pagePassword, blankPassword},
		{pagePack, blankPack},
	}
	for _, p := range pages {
		if err := tag.SetPage(p.page, p.data); err != nil {
			return err
		}
	}
	return nil
}

// Generate builds a fresh amiibo image for the 8-byte amiibo identifier:
// random keygen salt, the identifier at the model info offset, a random NXP
// UID, then FormatDump. A nil rng uses crypto/rand. The tag is left
// untouched if randomness cannot be read.
func Generate(uuid [SizeAmiiboID]byte, tag *TagImage, rng io.Reader) (*MetadataHeader, error) {
	if tag == nil {
		return nil, newArgumentError("Generate", ErrNilTag)
	}
	if rng == nil {
		rng = rand.Reader
	}

	var salt [SizeKeygenSalt]byte
	var uid [UIDLength]byte
	defer wipe(salt[:])
	uid[0] = ManufacturerNXP
	if _, err := io.ReadFull(rng, salt[:]); err != nil {
		return nil, fmt.Errorf("failed to generate keygen salt: %w", err)
	}
	if _, err := io.ReadFull(rng, uid[1:]); err != nil {
		return nil, fmt.Errorf("failed to generate UID: %w", err)
	}

	tag.Reset()
	copy(tag.field(OffsetKeygenSalt, SizeKeygenSalt), salt[:])
	copy(tag.field(OffsetModelInfo, SizeAmiiboID), uuid[:])
	writeUID(tag, uid[:])
	return FormatDump(tag)
}
