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
	"fmt"
	"os"
	"runtime"
)

// Retail key file layout
const (
	SeedTemplateSize = 80
	RetailKeySize    = 2 * SeedTemplateSize
	DerivedKeySize   = 48

	typeStringSize = 14
	magicBytesMax  = 16
	xorTableSize   = 32
)

// SeedTemplate is one half of the retail key file. It is immutable once loaded.
type SeedTemplate struct {
	HMACKey        [16]byte
	TypeString     [typeStringSize]byte // NUL-terminated ASCII
	RFU            byte
	MagicBytesSize byte // 14 or 16
	MagicBytes     [magicBytesMax]byte
	XORTable       [xorTableSize]byte
}

// ParseSeedTemplate decodes an 80-byte template record.
func ParseSeedTemplate(raw []byte) (*SeedTemplate, error) {
	if len(raw) != SeedTemplateSize {
		return nil, fmt.Errorf("seed template must be %d bytes, got %d", SeedTemplateSize, len(raw))
	}

	st := &SeedTemplate{}
	off := copy(st.HMACKey[:], raw)
	off += copy(st.TypeString[:], raw[off:])
	st.RFU = raw[off]
	st.MagicBytesSize = raw[off+1]
	off += 2
	off += copy(st.MagicBytes[:], raw[off:])
	copy(st.XORTable[:], raw[off:])

	if err := st.validate("ParseSeedTemplate"); err != nil {
		return nil, err
	}
	return st, nil
}

// MarshalBinary encodes the template back into its 80-byte record.
func (s *SeedTemplate) MarshalBinary() ([]byte, error) {
	out := make([]byte, 0, SeedTemplateSize)
	out = append(out, s.HMACKey[:]...)
	out = append(out, s.TypeString[:]...)
	out = append(out, s.RFU, s.MagicBytesSize)
	out = append(out, s.MagicBytes[:]...)
	out = append(out, s.XORTable[:]...)
	return out, nil
}

// Type returns the type string up to its NUL terminator.
func (s *SeedTemplate) Type() string {
	return string(s.typeString())
}

func (s *SeedTemplate) typeString() []byte {
	if i := bytes.IndexByte(s.TypeString[:], 0); i >= 0 {
		return s.TypeString[:i]
	}
	return s.TypeString[:]
}

func (s *SeedTemplate) validate(op string) error {
	if s == nil {
		return newArgumentError(op, ErrNilKey)
	}
	if s.MagicBytesSize != 14 && s.MagicBytesSize != magicBytesMax {
		return newArgumentError(op, ErrMagicBytesSize)
	}
	return nil
}

// RetailKey holds the two templates of a retail key file.
type RetailKey struct {
	Data SeedTemplate // "unfixed infos"
	Tag  SeedTemplate // "locked secret"
}

// ParseRetailKey splits a 160-byte retail key blob into its data and tag templates.
func ParseRetailKey(raw []byte) (*RetailKey, error) {
	if len(raw) != RetailKeySize {
		return nil, newArgumentError("ParseRetailKey", ErrKeyFileSize)
	}

	data, err := ParseSeedTemplate(raw[:SeedTemplateSize])
	if err != nil {
		return nil, fmt.Errorf("data template: %w", err)
	}
	tag, err := ParseSeedTemplate(raw[SeedTemplateSize:])
	if err != nil {
		return nil, fmt.Errorf("tag template: %w", err)
	}
	return &RetailKey{Data: *data, Tag: *tag}, nil
}

// LoadRetailKey reads and parses a retail key file.
func LoadRetailKey(path string) (*RetailKey, error) {
	raw, err := os.ReadFile(path) //nolint:gosec // key path is supplied by the operator
	if err != nil {
		return nil, fmt.Errorf("failed to read retail key: %w", err)
	}
	defer wipe(raw)

	rk, err := ParseRetailKey(raw)
	if err != nil {
		return nil, fmt.Errorf("failed to parse retail key %s: %w", path, err)
	}
	return rk, nil
}

// DerivedKey is the per-tag key triple produced by DeriveKey.
type DerivedKey struct {
	AESKey  [16]byte
	AESIV   [16]byte
	HMACKey [16]byte
}

// Wipe zeroes the key material.
func (k *DerivedKey) Wipe() {
	if k == nil {
		return
	}
	wipe(k.AESKey[:])
	wipe(k.AESIV[:])
	wipe(k.HMACKey[:])
}

// wipe zeroes b and keeps it live until the writes are done.
//
//go:noinline
func wipe(b []byte) {
	for i := range b {
		b[i] = 0
	}
	runtime.KeepAlive(&b)
}
