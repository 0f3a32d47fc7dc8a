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
	"bytes"
	"encoding/binary"
	"fmt"
)

// MetadataHeaderSize is the encoded size of a MetadataHeader.
const MetadataHeaderSize = 62

// Static NTAG215 hardware defaults
var (
	ntag215Version = [8]byte{0x00, 0x04, 0x04, 0x02, 0x01, 0x00, 0x11, 0x03}
	tearingDefault = [3]byte{0xBD, 0xBD, 0xBD}
)

// MetadataHeader describes the NTAG21x hardware state that accompanies a dump
// but is not part of page memory: GET_VERSION, READ_SIG, counters and tearing
// flags. It encodes little-endian to MetadataHeaderSize bytes.
type MetadataHeader struct {
	Type       TagType
	Version    [8]byte
	Signature  [32]byte
	Counters   [3]uint32
	Tearing    [3]byte
	PagesTotal uint16
	PagesRead  uint16
	MemoryMax  uint16
}

// NewMetadataHeader returns the static defaults of a genuine NTAG215.
func NewMetadataHeader() *MetadataHeader {
	return &MetadataHeader{
		Type:       TagTypeNTAG215,
		Version:    ntag215Version,
		Tearing:    tearingDefault,
		PagesTotal: NTAG215Pages,
		PagesRead:  NTAG215Pages,
		MemoryMax:  ntag215MaxPage,
	}
}

// MarshalBinary implements encoding.BinaryMarshaler.
func (h *MetadataHeader) MarshalBinary() ([]byte, error) {
	var buf bytes.Buffer
	buf.Grow(MetadataHeaderSize)
	if err := binary.Write(&buf, binary.LittleEndian, h); err != nil {
		return nil, fmt.Errorf("failed to encode metadata header: %w", err)
	}
	return buf.Bytes(), nil
}

// UnmarshalBinary implements encoding.BinaryUnmarshaler.
func (h *MetadataHeader) UnmarshalBinary(data []byte) error {
	if len(data) != MetadataHeaderSize {
		return fmt.Errorf("metadata header must be %d bytes, got %d", MetadataHeaderSize, len(data))
	}
	if err := binary.Read(bytes.NewReader(data), binary.LittleEndian, h); err != nil {
		return fmt.Errorf("failed to decode metadata header: %w", err)
	}
	return nil
}
