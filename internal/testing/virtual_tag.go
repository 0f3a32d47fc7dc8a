// go-amiibo
// Copyright (c) 2025 The Zaparoo Project Contributors.
// SPDX-License-Identifier: LGPL-3.0-or-later
//
// This file is part of go-amiibo.
//
// go-amiibo is free software; you can redistribute it and/or
// modify it under the terms of the GNU Lesser General Public
// License as published by the Free Software Foundation; either
// version 3 of the License, or (at your option) any later version.
//
// go-amiibo is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the GNU
// Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with go-amiibo; if not, write to the Free Software Foundation,
// Inc., 51 Franklin Street, Fifth Floor, Boston, MA  02110-1301, USA.

package testing

import (
	"encoding/hex"
	"errors"
	"fmt"
)

const ntagPageSize = 4

// VirtualTag represents a simulated NTAG21x tag as a page array
type VirtualTag struct {
	Type    string
	UID     []byte
	Memory  [][]byte
	Present bool
}

// NewVirtualNTAG215 creates a virtual NTAG215 tag in factory state
func NewVirtualNTAG215(uid []byte) *VirtualTag {
	if uid == nil {
		uid = TestNTAG215UID
	}

	tag := &VirtualTag{
		Type:    "NTAG215",
		UID:     uid,
		Memory:  make([][]byte, 135), // NTAG215 has 135 pages (540 bytes)
		Present: true,
	}
	tag.initMemory(0x3E, 0x82)
	return tag
}

// NewVirtualNTAG213 creates a virtual NTAG213 tag. Its dump is too short to
// hold an amiibo, which makes it useful for rejection tests.
func NewVirtualNTAG213(uid []byte) *VirtualTag {
	if uid == nil {
		uid = TestNTAG213UID
	}

	tag := &VirtualTag{
		Type:    "NTAG213",
		UID:     uid,
		Memory:  make([][]byte, 45), // NTAG213 has 45 pages (180 bytes)
		Present: true,
	}
	tag.initMemory(0x12, 0x28)
	return tag
}

// GetUIDString returns the UID as a hex string
func (v *VirtualTag) GetUIDString() string {
	return hex.EncodeToString(v.UID)
}

// ReadPage reads a specific memory page
func (v *VirtualTag) ReadPage(page int) ([]byte, error) {
	if !v.Present {
		return nil, errors.New("tag not present")
	}
	if page < 0 || page >= len(v.Memory) {
		return nil, fmt.Errorf("page %d out of range", page)
	}

	data := make([]byte, ntagPageSize)
	copy(data, v.Memory[page])
	return data, nil
}

// WritePage writes data to a specific memory page
func (v *VirtualTag) WritePage(page int, data []byte) error {
	if !v.Present {
		return errors.New("tag not present")
	}
	if page < 0 || page >= len(v.Memory) {
		return fmt.Errorf("page %d out of range", page)
	}
	// UID pages are factory programmed
	if page < 2 {
		return fmt.Errorf("page %d is write protected", page)
	}
	if len(data) != ntagPageSize {
		return fmt.Errorf("data must be exactly %d bytes, got %d", ntagPageSize, len(data))
	}

	v.Memory[page] = make([]byte, ntagPageSize)
	copy(v.Memory[page], data)
	return nil
}

// Dump concatenates every page into a flat dump, as a reader would save it.
func (v *VirtualTag) Dump() []byte {
	out := make([]byte, 0, len(v.Memory)*ntagPageSize)
	for _, page := range v.Memory {
		out = append(out, page...)
	}
	return out
}

// Load overwrites the whole memory from a flat dump, bypassing write
// protection the way a magic tag or an emulator would.
func (v *VirtualTag) Load(dump []byte) error {
	if len(dump) != len(v.Memory)*ntagPageSize {
		return fmt.Errorf("dump must be %d bytes, got %d", len(v.Memory)*ntagPageSize, len(dump))
	}
	for i := range v.Memory {
		v.Memory[i] = append([]byte(nil), dump[i*ntagPageSize:(i+1)*ntagPageSize]...)
	}
	return nil
}

// Remove sets the tag as not present
func (v *VirtualTag) Remove() {
	v.Present = false
}

// Insert sets the tag as present
func (v *VirtualTag) Insert() {
	v.Present = true
}

// initMemory lays out UID, BCC bytes, capability container and the config
// pages the way an unprogrammed NTAG21x leaves the factory.
func (v *VirtualTag) initMemory(ccSize byte, dynLockPage int) {
	for i := range v.Memory {
		v.Memory[i] = make([]byte, ntagPageSize)
	}

	uid := make([]byte, 7)
	copy(uid, v.UID)
	v.Memory[0] = []byte{uid[0], uid[1], uid[2], uid[0] ^ uid[1] ^ uid[2] ^ 0x88}
	v.Memory[1] = []byte{uid[3], uid[4], uid[5], uid[6]}
	v.Memory[2] = []byte{uid[3] ^ uid[4] ^ uid[5] ^ uid[6], 0x48, 0x00, 0x00}
	v.Memory[3] = []byte{0xE1, 0x10, ccSize, 0x00}
	v.Memory[4] = []byte{0x03, 0x00, 0xFE, 0x00}

	v.Memory[dynLockPage] = []byte{0x00, 0x00, 0x00, 0xBD}
	v.Memory[dynLockPage+1] = []byte{0x04, 0x00, 0x00, 0xFF}
	v.Memory[dynLockPage+2] = []byte{0x00, 0x05, 0x00, 0x00}
	v.Memory[dynLockPage+3] = []byte{0xFF, 0xFF, 0xFF, 0xFF}
}
