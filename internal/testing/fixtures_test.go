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
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRetailKeyFixture_Layout(t *testing.T) {
	t.Parallel()

	key := RetailKeyFixture()
	require.Len(t, key, 160)

	data, tag := key[:80], key[80:]
	assert.Equal(t, byte(0x10), data[0])
	assert.Equal(t, "unfixed infos\x00", string(data[16:30]))
	assert.Equal(t, byte(14), data[31])
	assert.Equal(t, byte(0x80), tag[0])
	assert.Equal(t, "locked secret\x00", string(tag[16:30]))
	assert.Equal(t, byte(16), tag[31])

	assert.Equal(t, key, RetailKeyFixture(), "fixture must be deterministic")
}

func TestSequenceReader(t *testing.T) {
	t.Parallel()

	r := NewSequenceReader(0xFE)
	buf := make([]byte, 4)
	n, err := r.Read(buf)
	require.NoError(t, err)
	assert.Equal(t, 4, n)
	assert.Equal(t, []byte{0xFE, 0xFF, 0x00, 0x01}, buf)

	n, err = r.Read(buf[:1])
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, byte(0x02), buf[0])
}

func TestFailingReader(t *testing.T) {
	t.Parallel()

	r := &FailingReader{Remaining: 5}
	buf := []byte{1, 2, 3, 4, 5, 6, 7, 8}
	_, err := io.ReadFull(r, buf)
	require.ErrorIs(t, err, ErrEntropy)
	assert.Equal(t, []byte{0, 0, 0, 0, 0, 6, 7, 8}, buf)
	assert.Equal(t, 0, r.Remaining)

	_, err = r.Read(buf)
	require.ErrorIs(t, err, ErrEntropy)
}
