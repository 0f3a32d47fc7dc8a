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
	"fmt"

	"github.com/ZaparooProject/go-amiibo"
)

// Unpack decrypts an encrypted amiibo in place and checks both signatures.
// If either signature fails the tag is re-encrypted under the same key
// before the error is returned.
func (t *TagOperations) Unpack(tag *amiibo.TagImage) error {
	keys, err := t.derive(tag)
	if err != nil {
		return err
	}
	defer keys.wipe()

	if err := amiibo.ApplyKeystream(&keys.data, tag); err != nil {
		return fmt.Errorf("failed to decrypt: %w", err)
	}
	if err := amiibo.ValidateSignature(&keys.tag, &keys.data, tag); err != nil {
		if reErr := amiibo.ApplyKeystream(&keys.data, tag); reErr != nil {
			return fmt.Errorf("failed to re-encrypt after %w: %w", err, reErr)
		}
		amiibo.Debugf("unpack %s: %v", tag.UIDString(), err)
		return err
	}

	amiibo.Debugf("unpacked %s", tag)
	return nil
}

// Verify reports whether an encrypted amiibo carries valid signatures
// without modifying it.
func (t *TagOperations) Verify(tag *amiibo.TagImage) error {
	if tag == nil {
		return ErrNoTag
	}
	return t.Unpack(tag.Clone())
}
