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
	"errors"
	"fmt"
)

// Error categories returned by the engine. Neither is retryable: argument
// errors are fatal to the current operation and signature errors are a verdict
// on the tag contents.
var (
	// ErrInvalidArgument is wrapped by every *ArgumentError.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrSignatureMismatch is wrapped by every *SignatureError.
	ErrSignatureMismatch = errors.New("signature mismatch")

	// ErrNilTag is the reason used when a nil *TagImage is passed.
	ErrNilTag = errors.New("tag image is nil")
	// ErrNilKey is the reason used when a nil key or template is passed.
	ErrNilKey = errors.New("key material is nil")
	// ErrNotFullDump is the reason used for tags that are not a complete NTAG215 image.
	ErrNotFullDump = errors.New("tag is not a full NTAG215 dump")
	// ErrMagicBytesSize is the reason used for seed templates with an unusable magic size.
	ErrMagicBytesSize = errors.New("magic bytes size must be 14 or 16")
	// ErrUIDLength is the reason used when a UID shorter than 7 bytes is supplied.
	ErrUIDLength = errors.New("uid must be at least 7 bytes")
	// ErrUIDBlockLength is the reason used when a UID/BCC block shorter than 8 bytes is supplied.
	ErrUIDBlockLength = errors.New("uid block must be 8 bytes")
	// ErrKeyFileSize is the reason used when a retail key blob is not 160 bytes.
	ErrKeyFileSize = errors.New("retail key must be 160 bytes")
)

// ArgumentError reports a rejected input. It is always returned before the
// tag image is touched.
type ArgumentError struct {
	Err error  // Reason, one of the Err* reasons above
	Op  string // Operation that rejected the input
}

func (e *ArgumentError) Error() string {
	return fmt.Sprintf("%s: %v: %v", e.Op, ErrInvalidArgument, e.Err)
}

// Unwrap exposes both the generic category and the specific reason to errors.Is.
func (e *ArgumentError) Unwrap() []error {
	return []error{ErrInvalidArgument, e.Err}
}

// SignatureError reports which of the two stored HMACs did not match.
type SignatureError struct {
	Op       string
	TagHash  bool // true if the tag hash at 0x34 mismatched
	DataHash bool // true if the data hash at 0x80 mismatched
}

func (e *SignatureError) Error() string {
	var which string
	switch {
	case e.TagHash && e.DataHash:
		which = "tag and data hash"
	case e.TagHash:
		which = "tag hash"
	default:
		which = "data hash"
	}
	return fmt.Sprintf("%s: %v (%s)", e.Op, ErrSignatureMismatch, which)
}

func (e *SignatureError) Unwrap() error {
	return ErrSignatureMismatch
}

// IsArgumentError returns true if err is or wraps an argument rejection
func IsArgumentError(err error) bool {
	return errors.Is(err, ErrInvalidArgument)
}

// IsSignatureError returns true if err is or wraps a signature mismatch
func IsSignatureError(err error) bool {
	return errors.Is(err, ErrSignatureMismatch)
}

func newArgumentError(op string, reason error) *ArgumentError {
	return &ArgumentError{Op: op, Err: reason}
}

// checkTag validates the full-dump precondition shared by every crypto operation.
func checkTag(op string, tag *TagImage) error {
	if tag == nil {
		return newArgumentError(op, ErrNilTag)
	}
	if !tag.IsFullDump() {
		return newArgumentError(op, ErrNotFullDump)
	}
	return nil
}
