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
	"encoding/binary"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
)

// TagType represents different NTAG21x variants
type TagType uint8

const (
	// TagTypeUnknown represents an unknown tag type.
	TagTypeUnknown TagType = iota
	// TagTypeNTAG213 represents an NTAG213 chip.
	TagTypeNTAG213
	// TagTypeNTAG215 represents an NTAG215 chip, the only type amiibo use.
	TagTypeNTAG215
	// TagTypeNTAG216 represents an NTAG216 chip.
	TagTypeNTAG216
)

func (t TagType) String() string {
	switch t {
	case TagTypeNTAG213:
		return "NTAG213"
	case TagTypeNTAG215:
		return "NTAG215"
	case TagTypeNTAG216:
		return "NTAG216"
	default:
		return "Unknown"
	}
}

// Page is one 4-byte NTAG page.
type Page [PageSize]byte

// TagImage is an in-memory NTAG215 image. The caller owns it exclusively; the
// engine mutates it in place and keeps no reference after returning.
type TagImage struct {
	data       [NTAG215Size]byte
	Type       TagType
	PagesTotal int
	PagesRead  int
}

// NewTagImage returns an all-zero full NTAG215 image.
func NewTagImage() *TagImage {
	tag := &TagImage{}
	tag.Reset()
	return tag
}

// ParseTagImage builds a tag image from a raw dump. The tag type is inferred
// from the dump length and only the first 540 bytes are kept. Dumps that are
// not NTAG215-sized are accepted but every crypto operation rejects them.
func ParseTagImage(raw []byte) (*TagImage, error) {
	if len(raw) == 0 {
		return nil, errors.New("empty tag dump")
	}

	pages := (len(raw) + PageSize - 1) / PageSize
	tag := &TagImage{Type: tagTypeForPages(pages)}
	copy(tag.data[:], raw)
	tag.PagesTotal = min(pages, NTAG215Pages)
	tag.PagesRead = tag.PagesTotal
	return tag, nil
}

// tagTypeForPages maps a dump length in pages to the NTAG21x variant. Dumps
// with trailing bytes past page 134 are still NTAG215, unless they match the
// NTAG216 size exactly.
func tagTypeForPages(pages int) TagType {
	switch {
	case pages == NTAG213Pages:
		return TagTypeNTAG213
	case pages == NTAG216Pages:
		return TagTypeNTAG216
	case pages >= NTAG215Pages:
		return TagTypeNTAG215
	default:
		return TagTypeUnknown
	}
}

// Reset zeroes the image and marks it as a complete NTAG215.
func (t *TagImage) Reset() {
	clear(t.data[:])
	t.Type = TagTypeNTAG215
	t.PagesTotal = NTAG215Pages
	t.PagesRead = NTAG215Pages
}

// IsFullDump reports whether the image is a complete NTAG215 image.
func (t *TagImage) IsFullDump() bool {
	return t.Type == TagTypeNTAG215 && t.PagesTotal >= NTAG215Pages
}

// Clone returns an independent copy of the image.
func (t *TagImage) Clone() *TagImage {
	c := *t
	return &c
}

// Bytes returns a copy of the flat 540-byte view.
func (t *TagImage) Bytes() []byte {
	out := make([]byte, NTAG215Size)
	copy(out, t.data[:])
	return out
}

// Page returns page n. Out-of-range pages read as zero.
func (t *TagImage) Page(n int) Page {
	var p Page
	if n < 0 || n >= NTAG215Pages {
		return p
	}
	copy(p[:], t.data[n*PageSize:])
	return p
}

// SetPage overwrites page n.
func (t *TagImage) SetPage(n int, p Page) error {
	if n < 0 || n >= NTAG215Pages {
		return fmt.Errorf("page %d out of range", n)
	}
	copy(t.data[n*PageSize:], p[:])
	return nil
}

// Field returns a copy of size bytes starting at the flat offset.
func (t *TagImage) Field(offset, size int) ([]byte, error) {
	if err := checkRange(offset, size); err != nil {
		return nil, err
	}
	out := make([]byte, size)
	copy(out, t.data[offset:offset+size])
	return out, nil
}

// SetField overwrites len(data) bytes starting at the flat offset.
func (t *TagImage) SetField(offset int, data []byte) error {
	if err := checkRange(offset, len(data)); err != nil {
		return err
	}
	copy(t.data[offset:], data)
	return nil
}

// field returns the live slice for a known-good offset. Internal callers only.
func (t *TagImage) field(offset, size int) []byte {
	return t.data[offset : offset+size : offset+size]
}

func checkRange(offset, size int) error {
	if offset < 0 || size < 0 || offset+size > NTAG215Size {
		return fmt.Errorf("range 0x%03X+%d out of bounds", offset, size)
	}
	return nil
}

// UIDBlock returns the 8-byte UID/BCC block.
func (t *TagImage) UIDBlock() []byte {
	out := make([]byte, SizeUID)
	copy(out, t.field(OffsetUID, SizeUID))
	return out
}

// UID returns the logical 7-byte UID with BCC0 removed.
func (t *TagImage) UID() []byte {
	b := t.field(OffsetUID, SizeUID)
	uid := make([]byte, 0, UIDLength)
	uid = append(uid, b[0:3]...)
	return append(uid, b[4:8]...)
}

// UIDString returns the 7-byte UID as hex.
func (t *TagImage) UIDString() string {
	return hex.EncodeToString(t.UID())
}

// WriteCounter returns the big-endian write counter stored at 0x11.
func (t *TagImage) WriteCounter() uint16 {
	return binary.BigEndian.Uint16(t.field(OffsetWriteCounter, SizeWriteCounter))
}

// ModelInfo describes the amiibo identifier stored at the model info offset.
type ModelInfo struct {
	CharacterID uint16 // Game series and character
	Variant     uint8
	FigureType  uint8 // 0 figure, 1 card, 2 yarn, 3 band
	ModelNumber uint16
	Series      uint8
	Format      uint8 // Always 0x02 on retail figures
}

// ModelInfo decodes the 8-byte amiibo identifier.
func (t *TagImage) ModelInfo() ModelInfo {
	b := t.field(OffsetModelInfo, SizeAmiiboID)
	return ModelInfo{
		CharacterID: binary.BigEndian.Uint16(b[0:2]),
		Variant:     b[2],
		FigureType:  b[3],
		ModelNumber: binary.BigEndian.Uint16(b[4:6]),
		Series:      b[6],
		Format:      b[7],
	}
}

// AmiiboID returns the 8-byte identifier as upper-case hex.
func (t *TagImage) AmiiboID() string {
	return strings.ToUpper(hex.EncodeToString(t.field(OffsetModelInfo, SizeAmiiboID)))
}

// GameSeries returns the top 12 bits of the character ID.
func (m ModelInfo) GameSeries() uint16 {
	return m.CharacterID >> 4
}

// String renders the tag in the style of a dump summary
func (t *TagImage) String() string {
	return fmt.Sprintf("%s UID=%s Pages=%d/%d ID=%s",
		t.Type, strings.ToUpper(t.UIDString()), t.PagesRead, t.PagesTotal, t.AmiiboID())
}
