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
	"errors"
	"io"
)

// Test UIDs
var (
	TestNTAG215UID = []byte{0x04, 0x6B, 0x2A, 0x9C, 0x31, 0x5E, 0x80}
	TestNTAG213UID = []byte{0x04, 0xAB, 0xCD, 0xEF, 0x12, 0x34, 0x56}
)

// TestAmiiboID is an arbitrary 8-byte model identifier.
var TestAmiiboID = [8]byte{0x01, 0x00, 0x00, 0x00, 0x00, 0x34, 0x04, 0x02}

// RetailKeyFixture returns a 160-byte key file in retail layout. The key
// bytes are a fixed pattern, not real keys, so golden values computed from it
// only pin the algorithm down.
func RetailKeyFixture() []byte {
	out := make([]byte, 0, 160)
	out = append(out, seedTemplateFixture(0x10, "unfixed infos", 14)...)
	return append(out, seedTemplateFixture(0x80, "locked secret", 16)...)
}

func seedTemplateFixture(base byte, typeString string, magicSize byte) []byte {
	rec := make([]byte, 80)
	for i := 0; i < 16; i++ {
		rec[i] = base + byte(i)
	}
	copy(rec[16:30], typeString)
	rec[30] = 0x00
	rec[31] = magicSize
	for i := 0; i < 16; i++ {
		rec[32+i] = 0xDB - base + byte(i*3)
	}
	for i := 0; i < 32; i++ {
		rec[48+i] = base ^ byte(i*7+1)
	}
	return rec
}

// SequenceReader yields start, start+1, ... forever. Use it wherever an
// io.Reader of randomness must be reproducible.
type SequenceReader struct {
	next byte
}

// NewSequenceReader creates a reader whose first byte is start
func NewSequenceReader(start byte) *SequenceReader {
	return &SequenceReader{next: start}
}

func (r *SequenceReader) Read(p []byte) (int, error) {
	for i := range p {
		p[i] = r.next
		r.next++
	}
	return len(p), nil
}

// ErrEntropy is returned by FailingReader once its budget is spent.
var ErrEntropy = errors.New("entropy source exhausted")

// FailingReader serves n bytes of zeros and then fails.
type FailingReader struct {
	Remaining int
}

func (r *FailingReader) Read(p []byte) (int, error) {
	if r.Remaining <= 0 {
		return 0, ErrEntropy
	}
	n := min(len(p), r.Remaining)
	clear(p[:n])
	r.Remaining -= n
	return n, nil
}

var _ io.Reader = (*FailingReader)(nil)
