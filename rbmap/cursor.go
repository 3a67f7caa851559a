// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package rbmap

import (
	"fmt"

	"github.com/botflow/collections"
)

// A Cursor is a position in a [Map]: either at an entry, or one past the
// last entry.
//
// The cursor returned by [Map.End] is pinned: it always denotes the end
// position and cannot be moved. [Cursor.Clone] returns a movable copy.
//
// Cursors are views into the map's structure. Adding or erasing entries
// invalidates every cursor except the one returned by [Map.Erase] or
// [Map.EraseRange]. In particular, erasing an entry that has two
// children in the tree moves its predecessor's entry into the erased
// position, so a cursor still held at the erased entry now sees the
// predecessor.
type Cursor[K, V any] struct {
	m      *Map[K, V]
	x      int32
	pinned bool
}

// Begin returns a cursor at the entry with the smallest key,
// or the end cursor if m is empty.
func (m *Map[K, V]) Begin() Cursor[K, V] {
	if m.min == nilNode {
		return m.End()
	}
	return Cursor[K, V]{m: m, x: m.min}
}

// End returns the pinned cursor one past the last entry.
func (m *Map[K, V]) End() Cursor[K, V] {
	return Cursor[K, V]{m: m, x: nilNode, pinned: true}
}

// LowerBound returns a cursor at the first entry whose key is ≥ key,
// or the end cursor if there is none.
func (m *Map[K, V]) LowerBound(key K) Cursor[K, V] {
	return m.cursor(m.lowerBound(key))
}

// UpperBound returns a cursor at the first entry whose key is > key,
// or the end cursor if there is none.
func (m *Map[K, V]) UpperBound(key K) Cursor[K, V] {
	return m.cursor(m.upperBound(key))
}

func (m *Map[K, V]) cursor(x int32) Cursor[K, V] {
	if x == nilNode {
		return m.End()
	}
	return Cursor[K, V]{m: m, x: x}
}

// FindFunc returns a cursor at the first entry with the given key whose
// value satisfies match, or the end cursor if there is none.
func (m *Map[K, V]) FindFunc(key K, match func(V) bool) Cursor[K, V] {
	end := m.upperBound(key)
	for x := m.lowerBound(key); x != end; x = m.next(x) {
		if match(m.at(x).val) {
			return Cursor[K, V]{m: m, x: x}
		}
	}
	return m.End()
}

// Find returns a cursor at the first entry of m equal to (key, val),
// or the end cursor if there is none.
func Find[K any, V comparable](m *Map[K, V], key K, val V) Cursor[K, V] {
	return m.FindFunc(key, func(v V) bool { return v == val })
}

// Erase removes the entry at c and returns a cursor at the entry that
// followed it.
func (m *Map[K, V]) Erase(c Cursor[K, V]) (Cursor[K, V], error) {
	if c.m != m {
		return c, fmt.Errorf("rbmap: Erase: %w", collections.ErrInvalidIteratorOrigin)
	}
	if !c.valid() {
		return c, fmt.Errorf("rbmap: Erase: %w", collections.ErrOutOfRange)
	}
	// The successor is never the node that delete removes.
	next := m.next(c.x)
	m.delete(c.x)
	return m.cursor(next), nil
}

// EraseRange removes the entries in [first, last) and returns a cursor
// at last's entry. If last is not reachable from first, EraseRange
// leaves m unchanged and returns an error.
func (m *Map[K, V]) EraseRange(first, last Cursor[K, V]) (Cursor[K, V], error) {
	if first.m != m || last.m != m {
		return first, fmt.Errorf("rbmap: EraseRange: %w", collections.ErrInvalidIteratorOrigin)
	}
	if first.x == m.min && last.x == nilNode {
		m.Clear()
		return m.End(), nil
	}
	n, err := first.Distance(last)
	if err != nil {
		return first, fmt.Errorf("rbmap: EraseRange: %w", err)
	}
	if n < 0 {
		return first, fmt.Errorf("rbmap: EraseRange: last precedes first: %w", collections.ErrOutOfRange)
	}
	c := first
	for range n {
		// Erasing ahead of last never removes last's node.
		if c, err = m.Erase(c); err != nil {
			panic(err)
		}
	}
	assert(c.x == last.x)
	return c, nil
}

// valid reports whether c is at a live entry.
func (c Cursor[K, V]) valid() bool {
	return c.m != nil && c.m.nodes.Live(c.x)
}

// validOrEnd reports whether c is at a live entry or the end position.
func (c Cursor[K, V]) validOrEnd() bool {
	return c.m != nil && (c.x == nilNode || c.m.nodes.Live(c.x))
}

// IsEnd reports whether c is one past the last entry.
func (c Cursor[K, V]) IsEnd() bool {
	return c.x == nilNode
}

// IsPinned reports whether c is the map's pinned end cursor.
func (c Cursor[K, V]) IsPinned() bool {
	return c.pinned
}

// Current returns the entry at c.
// At the end position, it returns an error wrapping
// [collections.ErrOutOfRange].
func (c Cursor[K, V]) Current() (K, V, error) {
	if !c.valid() {
		var (
			k K
			v V
		)
		return k, v, fmt.Errorf("rbmap: Current: %w", collections.ErrOutOfRange)
	}
	n := c.m.at(c.x)
	return n.key, n.val, nil
}

// Key returns the key at c, or the zero K at the end position.
func (c Cursor[K, V]) Key() K {
	k, _, _ := c.Current()
	return k
}

// Value returns the value at c, or the zero V at the end position.
func (c Cursor[K, V]) Value() V {
	_, v, _ := c.Current()
	return v
}

// SetValue replaces the value at c.
func (c Cursor[K, V]) SetValue(val V) error {
	if !c.valid() {
		return fmt.Errorf("rbmap: SetValue: %w", collections.ErrOutOfRange)
	}
	c.m.at(c.x).val = val
	return nil
}

// Clone returns a movable cursor at the same position as c,
// even if c is pinned.
func (c Cursor[K, V]) Clone() Cursor[K, V] {
	c.pinned = false
	return c
}

// Move advances c by n entries, or retreats it if n is negative.
// Moving before the first entry or past the end position is an error,
// as is moving a pinned cursor; in either case c is unchanged.
func (c *Cursor[K, V]) Move(n int) error {
	if c.pinned {
		return fmt.Errorf("rbmap: Move: %w", collections.ErrPinnedCursorMove)
	}
	if !c.validOrEnd() {
		return fmt.Errorf("rbmap: Move: %w", collections.ErrOutOfRange)
	}
	m := c.m
	x := c.x
	for ; n > 0; n-- {
		if x == nilNode {
			return fmt.Errorf("rbmap: Move: past end: %w", collections.ErrOutOfRange)
		}
		x = m.next(x)
	}
	for ; n < 0; n++ {
		var p int32
		if x == nilNode {
			p = m.max
		} else {
			p = m.prev(x)
		}
		if p == nilNode {
			return fmt.Errorf("rbmap: Move: before first: %w", collections.ErrOutOfRange)
		}
		x = p
	}
	c.x = x
	return nil
}

// Next advances c by one entry.
func (c *Cursor[K, V]) Next() error { return c.Move(1) }

// Prev moves c back by one entry.
func (c *Cursor[K, V]) Prev() error { return c.Move(-1) }

// Equal reports whether c and d are at the same position.
// Cursors from different maps cannot be compared.
func (c Cursor[K, V]) Equal(d Cursor[K, V]) (bool, error) {
	if c.m != d.m {
		return false, fmt.Errorf("rbmap: Equal: %w", collections.ErrInvalidIteratorOrigin)
	}
	return c.x == d.x, nil
}

// Distance returns the number of steps from c to d: positive if d
// follows c, negative if it precedes it.
// Cursors from different maps have no distance.
func (c Cursor[K, V]) Distance(d Cursor[K, V]) (int, error) {
	if c.m != d.m {
		return 0, fmt.Errorf("rbmap: Distance: %w", collections.ErrInvalidIteratorOrigin)
	}
	if c.x == d.x {
		return 0, nil
	}
	m := c.m
	if !c.validOrEnd() || !d.validOrEnd() {
		return 0, fmt.Errorf("rbmap: Distance: %w", collections.ErrOutOfRange)
	}
	switch {
	case d.x == nilNode:
		return m.walk(c.x, d.x, m.next)
	case c.x == nilNode:
		n, err := m.walk(d.x, c.x, m.next)
		return -n, err
	}
	switch r := m.cmp(m.at(c.x).key, m.at(d.x).key); {
	case r < 0:
		return m.walk(c.x, d.x, m.next)
	case r > 0:
		n, err := m.walk(c.x, d.x, m.prev)
		return -n, err
	}
	// Equal keys: d is somewhere in the run of duplicates around c.
	fwd, back := c.x, c.x
	for n := 1; fwd != nilNode || back != nilNode; n++ {
		if fwd != nilNode {
			if fwd = m.next(fwd); fwd == d.x {
				return n, nil
			}
		}
		if back != nilNode {
			if back = m.prev(back); back == d.x {
				return -n, nil
			}
		}
	}
	return 0, fmt.Errorf("rbmap: Distance: %w", collections.ErrOutOfRange)
}

// walk counts the steps of step from x to y.
func (m *Map[K, V]) walk(x, y int32, step func(int32) int32) (int, error) {
	n := 0
	for x != y {
		if x == nilNode {
			return 0, fmt.Errorf("rbmap: Distance: unreachable cursor: %w", collections.ErrOutOfRange)
		}
		x = step(x)
		n++
	}
	return n, nil
}
