// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package collections

import "errors"

// Errors returned by the collections. Callers should test for them with
// [errors.Is]; the collections wrap them with the offending key.
var (
	// ErrDuplicateKey is returned when inserting a key that is already
	// present and duplicates are not allowed.
	ErrDuplicateKey = errors.New("duplicate key")

	// ErrKeyNotFound is returned by Get when the key is absent.
	ErrKeyNotFound = errors.New("key not found")

	// ErrInvalidIteratorOrigin is returned when an operation mixes cursors
	// that belong to different collections.
	ErrInvalidIteratorOrigin = errors.New("cursor belongs to a different collection")

	// ErrPinnedCursorMove is returned when moving the end cursor.
	ErrPinnedCursorMove = errors.New("cannot move pinned end cursor")

	// ErrOutOfRange is returned when a cursor is positioned on no element,
	// or a move would leave the sequence.
	ErrOutOfRange = errors.New("cursor out of range")
)
