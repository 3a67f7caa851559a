// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package rbmap

import (
	"iter"

	"github.com/botflow/collections/rng"
)

// All returns an iterator over the map m from smallest to largest key.
// Entries with equal keys are visited in insertion order.
// m must not be modified during the iteration.
func (m *Map[K, V]) All() iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		for x := m.min; x != nilNode; x = m.next(x) {
			n := m.at(x)
			if !yield(n.key, n.val) {
				return
			}
		}
	}
}

// Backward returns an iterator over the map m from largest to smallest key.
// m must not be modified during the iteration.
func (m *Map[K, V]) Backward() iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		for x := m.max; x != nilNode; x = m.prev(x) {
			n := m.at(x)
			if !yield(n.key, n.val) {
				return
			}
		}
	}
}

// Keys returns an iterator over the keys of m in ascending order.
func (m *Map[K, V]) Keys() iter.Seq[K] {
	return func(yield func(K) bool) {
		for k := range m.All() {
			if !yield(k) {
				return
			}
		}
	}
}

// Values returns an iterator over the values of m in ascending key order.
func (m *Map[K, V]) Values() iter.Seq[V] {
	return func(yield func(V) bool) {
		for _, v := range m.All() {
			if !yield(v) {
				return
			}
		}
	}
}

// Bounds returns the half-open cursor range [first, last) holding the
// entries of m whose keys lie in r. If there are none, first equals last.
// The direction of r is ignored.
func (m *Map[K, V]) Bounds(r rng.Range[K]) (first, last Cursor[K, V]) {
	if r.IsZero() {
		return m.End(), m.End()
	}
	lo := m.min
	if k, inf, incl := r.Low(); !inf {
		if incl {
			lo = m.lowerBound(k)
		} else {
			lo = m.upperBound(k)
		}
	}
	hi := nilNode
	if k, inf, incl := r.High(); !inf {
		if incl {
			hi = m.upperBound(k)
		} else {
			hi = m.lowerBound(k)
		}
	}
	// An inverted range leaves lo at or past hi.
	if lo == nilNode || !r.BelowHigh(m.cmp, m.at(lo).key) {
		lo = hi
	}
	return m.cursor(lo), m.cursor(hi)
}

// Scan returns an iterator over the entries of m whose keys lie in r,
// in ascending key order, or descending if r is backwards.
// m must not be modified during the iteration.
func (m *Map[K, V]) Scan(r rng.Range[K]) iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		first, last := m.Bounds(r)
		if first.x == last.x {
			return
		}
		if !r.IsBackwards() {
			for x := first.x; x != last.x; x = m.next(x) {
				n := m.at(x)
				if !yield(n.key, n.val) {
					return
				}
			}
			return
		}
		x := m.max
		if last.x != nilNode {
			x = m.prev(last.x)
		}
		for {
			n := m.at(x)
			if !yield(n.key, n.val) || x == first.x {
				return
			}
			x = m.prev(x)
		}
	}
}

// DeleteRange deletes the entries of m whose keys lie in r
// and returns how many were deleted.
func (m *Map[K, V]) DeleteRange(r rng.Range[K]) int {
	first, last := m.Bounds(r)
	n, err := first.Distance(last)
	if err != nil {
		panic(err)
	}
	if _, err := m.EraseRange(first, last); err != nil {
		panic(err)
	}
	return n
}
