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

package main

import (
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ZaparooProject/go-amiibo"
)

// readDump loads a raw NTAG215 dump.
func readDump(path string) (*amiibo.TagImage, error) {
	raw, err := os.ReadFile(path) //nolint:gosec // path is supplied by the operator
	if err != nil {
		return nil, fmt.Errorf("failed to read dump: %w", err)
	}
	tag, err := amiibo.ParseTagImage(raw)
	if err != nil {
		return nil, fmt.Errorf("failed to parse dump %s: %w", path, err)
	}
	amiibo.Debugf("read %d bytes from %s: %s", len(raw), path, tag)
	return tag, nil
}

// writeDump saves the 540-byte image.
func writeDump(path string, tag *amiibo.TagImage) error {
	if err := os.WriteFile(path, tag.Bytes(), 0o600); err != nil {
		return fmt.Errorf("failed to write dump: %w", err)
	}
	amiibo.Debugf("wrote %s", path)
	return nil
}

// writeHeader saves the encoded metadata header.
func writeHeader(path string, header *amiibo.MetadataHeader) error {
	raw, err := header.MarshalBinary()
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, raw, 0o600); err != nil {
		return fmt.Errorf("failed to write metadata header: %w", err)
	}
	return nil
}

// parseHex decodes a hex string of exactly n bytes. Spaces and colons are ignored.
func parseHex(s string, n int) ([]byte, error) {
	clean := strings.NewReplacer(" ", "", ":", "", "-", "").Replace(s)
	b, err := hex.DecodeString(clean)
	if err != nil {
		return nil, fmt.Errorf("invalid hex %q: %w", s, err)
	}
	if len(b) != n {
		return nil, fmt.Errorf("expected %d bytes, got %d", n, len(b))
	}
	return b, nil
}

// outputPath places relative outputs under dir when one is configured.
func outputPath(dir, path string) string {
	if dir == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(dir, path)
}
