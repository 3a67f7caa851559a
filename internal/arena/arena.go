// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package arena implements a pool of slots addressed by integer handles.
//
// Handles are int32 indexes into a single slice. Slots that are not in use
// are kept on an intrusive free list, so a handle stays valid until it is
// freed and a freed slot is reused before the arena grows. Structures built
// on an arena link their elements by handle, which makes copying the whole
// structure a matter of copying two slices.
package arena

import "math"

// Nil is the handle that refers to no slot.
const Nil int32 = -1

// live marks an allocated slot in the free-list links.
const live int32 = -2

// An Arena is a pool of slots of type T.
//
// A growable arena (see [New]) appends slots when its free list is empty.
// A fixed arena (see [NewFixed]) has a constant number of slots and fails
// to allocate when all of them are in use.
type Arena[T any] struct {
	slots []T
	next  []int32 // free-list link, or live
	free  int32   // head of the free list
	used  int
	fixed bool
}

// New returns an empty growable arena with room for hint slots.
func New[T any](hint int) *Arena[T] {
	return &Arena[T]{
		slots: make([]T, 0, hint),
		next:  make([]int32, 0, hint),
		free:  Nil,
	}
}

// NewFixed returns an arena with exactly n slots, all of them free.
// Slot 0 is at the head of the free list.
func NewFixed[T any](n int) *Arena[T] {
	if n < 0 || n > math.MaxInt32 {
		panic("arena: bad capacity")
	}
	a := &Arena[T]{
		slots: make([]T, n),
		next:  make([]int32, n),
		fixed: true,
	}
	a.Reset()
	return a
}

// Alloc takes a slot off the free list and returns its handle.
// The slot holds the zero value of T.
// Alloc reports false only for a fixed arena with no free slots.
func (a *Arena[T]) Alloc() (int32, bool) {
	if h := a.free; h != Nil {
		a.free = a.next[h]
		a.next[h] = live
		a.used++
		return h, true
	}
	if a.fixed {
		return Nil, false
	}
	if len(a.slots) == math.MaxInt32 {
		panic("arena: too many slots")
	}
	var zero T
	a.slots = append(a.slots, zero)
	a.next = append(a.next, live)
	a.used++
	return int32(len(a.slots) - 1), true
}

// Free returns the slot h to the free list.
// The slot is zeroed so that it holds no references.
func (a *Arena[T]) Free(h int32) {
	if !a.Live(h) {
		panic("arena: free of unallocated handle")
	}
	var zero T
	a.slots[h] = zero
	a.next[h] = a.free
	a.free = h
	a.used--
}

// Live reports whether h is an allocated handle.
func (a *Arena[T]) Live(h int32) bool {
	return h >= 0 && int(h) < len(a.next) && a.next[h] == live
}

// At returns a pointer to the slot h.
// The pointer is invalidated by the next Alloc on a growable arena.
func (a *Arena[T]) At(h int32) *T {
	return &a.slots[h]
}

// Len returns the number of allocated slots.
func (a *Arena[T]) Len() int { return a.used }

// Cap returns the number of slots, allocated or free.
func (a *Arena[T]) Cap() int { return len(a.slots) }

// Full reports whether Alloc would fail.
func (a *Arena[T]) Full() bool { return a.fixed && a.free == Nil }

// Reset frees every slot.
// A fixed arena relinks its slots in index order; a growable arena
// releases them.
func (a *Arena[T]) Reset() {
	clear(a.slots)
	a.used = 0
	if !a.fixed {
		a.slots = a.slots[:0]
		a.next = a.next[:0]
		a.free = Nil
		return
	}
	for i := range a.next {
		a.next[i] = int32(i + 1)
	}
	if n := len(a.next); n > 0 {
		a.next[n-1] = Nil
		a.free = 0
	} else {
		a.free = Nil
	}
}

// Clone returns a copy of a. Handles that are valid in a refer to copies
// of the same slots in the clone.
func (a *Arena[T]) Clone() *Arena[T] {
	return &Arena[T]{
		slots: append([]T(nil), a.slots...),
		next:  append([]int32(nil), a.next...),
		free:  a.free,
		used:  a.used,
		fixed: a.fixed,
	}
}
