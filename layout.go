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

// NTAG215 memory structure
const (
	PageSize       = 4   // 4 bytes per page
	NTAG215Pages   = 135 // 540 bytes total
	NTAG213Pages   = 45
	NTAG216Pages   = 231
	NTAG215Size    = NTAG215Pages * PageSize
	ntag215MaxPage = NTAG215Pages - 1 // Highest addressable page, reported as memory max
)

// Flat byte offsets into a 540-byte NTAG215 image.
const (
	OffsetUID          = 0x000 // UID0-2, BCC0, UID3-6, BCC1
	OffsetBCC0         = 0x003
	OffsetBCC1         = 0x008
	OffsetInternal     = 0x009 // Internal byte followed by the static lock bytes
	OffsetStaticLock   = 0x00A
	OffsetCapability   = 0x00C
	OffsetUserMemory   = 0x010 // First user page
	OffsetMarker       = 0x010 // Fixed 0xA5 marker
	OffsetWriteCounter = 0x011
	OffsetTagConfig    = 0x014 // Ciphertext region 1
	OffsetTagHash      = 0x034
	OffsetModelInfo    = 0x054
	OffsetKeygenSalt   = 0x060
	OffsetDataHash     = 0x080
	OffsetAppData      = 0x0A0 // Ciphertext region 2
	OffsetDynamicLock  = 0x208
	OffsetReserved     = 0x20B
	OffsetConfig       = 0x20C // CFG0 (mirror, auth0) and CFG1 (access)
	OffsetAuth0        = 0x20F
	OffsetAccess       = 0x210
	OffsetPassword     = 0x214
	OffsetPack         = 0x218
	OffsetAuthMagic    = 0x218
	OffsetPackRFU      = 0x21A
)

// Field sizes matching the offsets above.
const (
	SizeUID          = 8
	SizeCapability   = 4
	SizeWriteCounter = 2
	SizeTagConfig    = 32
	SizeTagHash      = 32
	SizeModelInfo    = 12
	SizeAmiiboID     = 8
	SizeKeygenSalt   = 32
	SizeDataHash     = 32
	SizeAppData      = 360
	SizeDynamicLock  = 3
	SizeConfig       = 16
	SizePassword     = 4
	SizePack         = 4
	SizeAuthMagic    = 2

	// Bytes 0x10..0x34: marker, write counter and tag config, signed as one block.
	sizeFixedA5Block = 36
)

// Page numbers of the NTAG215 system pages.
const (
	pageCapability  = 3
	pageUserStart   = 4
	pageDynamicLock = 0x82
	pageCfg0        = 0x83
	pageCfg1        = 0x84
	pagePassword    = 0x85
	pagePack        = 0x86
)

// Scratch buffer sizes.
const (
	maxSeedSize       = 480
	signingBufferSize = 480

	// Destination offsets inside the signing buffer.
	signAppDataOffset = 36
	signTagHashOffset = 396
	signUIDOffset     = 428
	signModelOffset   = 436
	signSaltOffset    = 448
)

// UID constants
const (
	UIDLength       = 7
	ManufacturerNXP = 0x04 // NXP Semiconductors, first UID byte of genuine NTAG chips
	cascadeTag      = 0x88 // CT byte folded into BCC0
)
