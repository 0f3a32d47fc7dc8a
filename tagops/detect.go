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

package tagops

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/ZaparooProject/go-amiibo"
)

// Layout names a tag's formatting as seen from its capability container.
type Layout int

const (
	// LayoutUnknown is neither an amiibo nor an open template
	LayoutUnknown Layout = iota
	// LayoutAmiibo is the closed amiibo layout written by FormatDump
	LayoutAmiibo
	// LayoutBlank is the open template layout written by PrepareBlankTag
	LayoutBlank
)

func (l Layout) String() string {
	switch l {
	case LayoutAmiibo:
		return "amiibo"
	case LayoutBlank:
		return "blank"
	default:
		return "unknown"
	}
}

// SignatureState is the outcome of checking an image's signatures.
type SignatureState int

const (
	// SignatureUnchecked means no key was loaded or the tag is not an amiibo
	SignatureUnchecked SignatureState = iota
	// SignatureValid means both HMACs matched
	SignatureValid
	// SignatureInvalid means at least one HMAC mismatched
	SignatureInvalid
)

func (s SignatureState) String() string {
	switch s {
	case SignatureValid:
		return "valid"
	case SignatureInvalid:
		return "invalid"
	default:
		return "unchecked"
	}
}

var (
	amiiboCC = []byte{0xF1, 0x10, 0xFF, 0xEE}
	blankCC  = []byte{0xE1, 0x10, 0x3E, 0x00}
)

// TagInfo contains detailed information about a tag image
type TagInfo struct {
	Model         amiibo.ModelInfo
	TypeName      string
	AmiiboID      string
	UID           []byte
	Password      [amiibo.SizePassword]byte
	TotalPages    int
	WriteCounter  uint16
	Layout        Layout
	Signature     SignatureState
	PasswordMatch bool
	FullDump      bool
}

// GetTagInfo inspects an encrypted tag image without modifying it. The
// signature is checked only when the key ring holds a key.
func (t *TagOperations) GetTagInfo(tag *amiibo.TagImage) (*TagInfo, error) {
	if tag == nil {
		return nil, ErrNoTag
	}

	info := &TagInfo{
		TypeName:   tag.Type.String(),
		TotalPages: tag.PagesTotal,
		FullDump:   tag.IsFullDump(),
	}
	if !info.FullDump {
		return info, nil
	}

	info.UID = tag.UID()
	info.AmiiboID = tag.AmiiboID()
	info.Model = tag.ModelInfo()
	info.WriteCounter = tag.WriteCounter()
	info.Layout = detectLayout(tag)

	pwd, err := tag.Field(amiibo.OffsetPassword, amiibo.SizePassword)
	if err != nil {
		return nil, err
	}
	copy(info.Password[:], pwd)
	derived := tag.Password()
	info.PasswordMatch = bytes.Equal(pwd, derived[:])

	if info.Layout == LayoutAmiibo && t.keys != nil && t.keys.Loaded() {
		err := t.Verify(tag)
		switch {
		case err == nil:
			info.Signature = SignatureValid
		case amiibo.IsSignatureError(err):
			info.Signature = SignatureInvalid
		case errors.Is(err, ErrNoKey):
		default:
			return nil, fmt.Errorf("failed to verify signature: %w", err)
		}
	}
	return info, nil
}

func detectLayout(tag *amiibo.TagImage) Layout {
	cc, err := tag.Field(amiibo.OffsetCapability, amiibo.SizeCapability)
	if err != nil {
		return LayoutUnknown
	}
	switch {
	case bytes.Equal(cc, amiiboCC):
		return LayoutAmiibo
	case bytes.Equal(cc, blankCC):
		return LayoutBlank
	default:
		return LayoutUnknown
	}
}

// Summary renders a one-line description of the tag
func (i *TagInfo) Summary() string {
	if !i.FullDump {
		return fmt.Sprintf("%s (%d pages, not a full NTAG215 dump)", i.TypeName, i.TotalPages)
	}
	return fmt.Sprintf("%s UID=%X ID=%s layout=%s signature=%s writes=%d",
		i.TypeName, i.UID, i.AmiiboID, i.Layout, i.Signature, i.WriteCounter)
}
