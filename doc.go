// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package collections holds the errors shared by the in-memory collections
// in its subpackages:
//
//   - [github.com/botflow/collections/rbmap]: an ordered map backed by a
//     red-black tree, with bidirectional cursors.
//   - [github.com/botflow/collections/mru]: a bounded cache that evicts the
//     least recently used entry.
//
// Both structures store their nodes in a slot arena and link them by
// integer handle rather than by pointer.
package collections
