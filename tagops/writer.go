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

// Pack signs a plaintext amiibo and encrypts it in place.
func (t *TagOperations) Pack(tag *amiibo.TagImage) error {
	keys, err := t.derive(tag)
	if err != nil {
		return err
	}
	defer keys.wipe()

	snapshot := tag.Clone()
	if err := seal(keys, tag); err != nil {
		return rollback(tag, snapshot, "pack", err)
	}

	amiibo.Debugf("packed %s", tag)
	return nil
}

// seal signs and then encrypts the tag under keys.
func seal(keys *sessionKeys, tag *amiibo.TagImage) error {
	if err := amiibo.SignPayload(&keys.tag, &keys.data, tag); err != nil {
		return fmt.Errorf("failed to sign: %w", err)
	}
	if err := amiibo.ApplyKeystream(&keys.data, tag); err != nil {
		return fmt.Errorf("failed to encrypt: %w", err)
	}
	return nil
}

// ChangeUID moves an encrypted amiibo onto a new UID: decrypt under the old
// keys, write the UID and its password, re-derive, re-sign and re-encrypt.
// A nil uid picks a random NXP UID. On any failure the original encrypted
// bytes are restored.
func (t *TagOperations) ChangeUID(tag *amiibo.TagImage, uid []byte) (amiibo.RFInterface, error) {
	var rf amiibo.RFInterface

	oldKeys, err := t.derive(tag)
	if err != nil {
		return rf, err
	}
	defer oldKeys.wipe()

	snapshot := tag.Clone()
	oldUID := tag.UIDString()

	if err := amiibo.ApplyKeystream(&oldKeys.data, tag); err != nil {
		return rf, rollback(tag, snapshot, "change uid", fmt.Errorf("failed to decrypt: %w", err))
	}
	if err := amiibo.ValidateSignature(&oldKeys.tag, &oldKeys.data, tag); err != nil {
		return rf, rollback(tag, snapshot, "change uid", err)
	}

	if uid == nil {
		err = amiibo.RandomizeUID(tag, t.rng)
	} else {
		err = amiibo.SetUID(tag, uid)
	}
	if err != nil {
		return rf, rollback(tag, snapshot, "change uid", fmt.Errorf("failed to write UID: %w", err))
	}
	pwd := tag.Password()
	if err := tag.SetField(amiibo.OffsetPassword, pwd[:]); err != nil {
		return rf, rollback(tag, snapshot, "change uid", err)
	}

	newKeys, err := t.derive(tag)
	if err != nil {
		return rf, rollback(tag, snapshot, "change uid", err)
	}
	defer newKeys.wipe()

	if err := seal(newKeys, tag); err != nil {
		return rf, rollback(tag, snapshot, "change uid", err)
	}

	rf, err = amiibo.ConfigureRFInterface(tag)
	if err != nil {
		return rf, rollback(tag, snapshot, "change uid", err)
	}

	amiibo.Debugf("moved amiibo %s from UID %s to %s", tag.AmiiboID(), oldUID, tag.UIDString())
	return rf, nil
}

// Mint generates, signs and encrypts a brand-new amiibo for the identifier.
func (t *TagOperations) Mint(uuid [amiibo.SizeAmiiboID]byte, tag *amiibo.TagImage) (*amiibo.MetadataHeader, amiibo.RFInterface, error) {
	var rf amiibo.RFInterface
	if tag == nil {
		return nil, rf, ErrNoTag
	}

	snapshot := tag.Clone()
	header, err := amiibo.Generate(uuid, tag, t.rng)
	if err != nil {
		return nil, rf, rollback(tag, snapshot, "mint", err)
	}

	keys, err := t.derive(tag)
	if err != nil {
		return nil, rf, rollback(tag, snapshot, "mint", err)
	}
	defer keys.wipe()

	if err := seal(keys, tag); err != nil {
		return nil, rf, rollback(tag, snapshot, "mint", err)
	}
	rf, err = amiibo.ConfigureRFInterface(tag)
	if err != nil {
		return nil, rf, rollback(tag, snapshot, "mint", err)
	}

	amiibo.Debugf("minted %s", tag)
	return header, rf, nil
}

// Blank turns the image into an open, writable NTAG215 template. No keys
// are needed.
func (*TagOperations) Blank(tag *amiibo.TagImage) (amiibo.RFInterface, error) {
	var rf amiibo.RFInterface
	if tag == nil {
		return rf, ErrNoTag
	}
	if err := amiibo.PrepareBlankTag(tag); err != nil {
		return rf, fmt.Errorf("%w: %w", ErrUnsupportedTag, err)
	}
	rf, err := amiibo.ConfigureRFInterface(tag)
	if err != nil {
		return rf, err
	}
	amiibo.Debugf("blanked %s", tag.UIDString())
	return rf, nil
}
