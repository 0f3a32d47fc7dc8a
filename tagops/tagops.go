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

// Package tagops composes the amiibo engine primitives into whole-tag
// transactions. Every operation either completes or leaves the tag exactly as
// it found it, so a failed attempt never leaves plaintext behind.
package tagops

import (
	"errors"
	"fmt"
	"io"

	"github.com/ZaparooProject/go-amiibo"
	"github.com/ZaparooProject/go-amiibo/internal/syncutil"
)

var (
	// ErrNoTag indicates a nil tag image was supplied
	ErrNoTag = errors.New("no tag image")
	// ErrNoKey indicates the key ring has not been loaded
	ErrNoKey = errors.New("no retail key loaded")
	// ErrUnsupportedTag indicates the image is not a full NTAG215 dump
	ErrUnsupportedTag = errors.New("unsupported tag type")
)

// KeyRing holds the retail key shared by every operation. It is safe for
// concurrent use; readers get a copy so the engine never aliases it.
type KeyRing struct {
	key *amiibo.RetailKey
	mu  syncutil.RWMutex
}

// NewKeyRing creates a key ring, optionally preloaded.
func NewKeyRing(key *amiibo.RetailKey) *KeyRing {
	kr := &KeyRing{}
	if key != nil {
		kr.Set(key)
	}
	return kr
}

// LoadFile reads a retail key file into the ring.
func (k *KeyRing) LoadFile(path string) error {
	key, err := amiibo.LoadRetailKey(path)
	if err != nil {
		return err
	}
	k.Set(key)
	amiibo.Debugf("loaded retail key from %s (data=%q tag=%q)", path, key.Data.Type(), key.Tag.Type())
	return nil
}

// Set replaces the key held by the ring. A nil key clears the ring, after
// which Get returns ErrNoKey.
func (k *KeyRing) Set(key *amiibo.RetailKey) {
	var c *amiibo.RetailKey
	if key != nil {
		cp := *key
		c = &cp
	}
	k.mu.Lock()
	defer k.mu.Unlock()
	k.key = c
}

// Get returns a copy of the current key.
func (k *KeyRing) Get() (*amiibo.RetailKey, error) {
	k.mu.RLock()
	defer k.mu.RUnlock()
	if k.key == nil {
		return nil, ErrNoKey
	}
	c := *k.key
	return &c, nil
}

// Loaded reports whether a key is present.
func (k *KeyRing) Loaded() bool {
	k.mu.RLock()
	defer k.mu.RUnlock()
	return k.key != nil
}

// TagOperations provides transactional amiibo operations over a key ring
type TagOperations struct {
	keys *KeyRing
	rng  io.Reader
}

// Option configures TagOperations
type Option func(*TagOperations)

// WithRandom sets the randomness source used for UIDs and keygen salts.
// The default is crypto/rand.
func WithRandom(rng io.Reader) Option {
	return func(t *TagOperations) {
		t.rng = rng
	}
}

// New creates a new TagOperations instance
func New(keys *KeyRing, opts ...Option) *TagOperations {
	t := &TagOperations{keys: keys}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// sessionKeys is the derived key pair for one tag state.
type sessionKeys struct {
	tag  amiibo.DerivedKey
	data amiibo.DerivedKey
}

func (s *sessionKeys) wipe() {
	s.tag.Wipe()
	s.data.Wipe()
}

// derive derives both keys for the tag's current identity fields. The engine
// rejects images that are not full NTAG215 dumps; that rejection is returned
// as ErrUnsupportedTag still wrapping the engine's *amiibo.ArgumentError.
func (t *TagOperations) derive(tag *amiibo.TagImage) (*sessionKeys, error) {
	if tag == nil {
		return nil, ErrNoTag
	}
	if t.keys == nil {
		return nil, ErrNoKey
	}
	rk, err := t.keys.Get()
	if err != nil {
		return nil, err
	}

	tagKey, dataKey, err := amiibo.DeriveKeys(rk, tag)
	if errors.Is(err, amiibo.ErrNotFullDump) {
		return nil, fmt.Errorf("%w: %w", ErrUnsupportedTag, err)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to derive keys: %w", err)
	}
	return &sessionKeys{tag: tagKey, data: dataKey}, nil
}

// rollback restores the snapshot taken before a transaction started.
func rollback(tag, snapshot *amiibo.TagImage, op string, cause error) error {
	*tag = *snapshot
	amiibo.Debugf("%s failed, tag restored: %v", op, cause)
	return cause
}
