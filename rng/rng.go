// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package rng provides ranges: representations of sequences of ordered values.
package rng

import (
	"fmt"
	"strings"
)

type edge uint8

const (
	exclusive edge = iota
	inclusive
	unbounded
)

// Range is a range of values of type T.
// T need not be ordered; that is, it is not constrained by [cmp.Ordered].
// It is up to the user to assign an ordering; Range simply represents
// the bounds of the range. [Range.Contains] takes the ordering as a
// comparison function.
//
// The zero Range is an empty range.
type Range[T any] struct {
	lo, hi   T
	loE, hiE edge
	rev      bool
	made     bool // false for the zero Range
}

func (r Range[T]) String() string {
	if !r.made {
		return "∅"
	}
	var b strings.Builder
	switch r.loE {
	case unbounded:
		b.WriteString("(-∞")
	case inclusive:
		fmt.Fprintf(&b, "[%v", r.lo)
	default:
		fmt.Fprintf(&b, "(%v", r.lo)
	}
	b.WriteString(", ")
	switch r.hiE {
	case unbounded:
		b.WriteString("∞)")
	case inclusive:
		fmt.Fprintf(&b, "%v]", r.hi)
	default:
		fmt.Fprintf(&b, "%v)", r.hi)
	}
	if r.rev {
		b.WriteString(" backwards")
	}
	return b.String()
}

// IsBackwards reports whether r is traversed from high to low.
func (r Range[T]) IsBackwards() bool { return r.rev }

// Low returns the low bound of r.
// If infinite is true, r has no low bound and v is meaningless.
func (r Range[T]) Low() (v T, infinite, includes bool) {
	return r.lo, r.loE == unbounded, r.loE == inclusive
}

// High returns the high bound of r.
// If infinite is true, r has no high bound and v is meaningless.
func (r Range[T]) High() (v T, infinite, includes bool) {
	return r.hi, r.hiE == unbounded, r.hiE == inclusive
}

// All returns the range (-∞, ∞).
func All[T any]() Range[T] {
	return Range[T]{loE: unbounded, hiE: unbounded, made: true}
}

// From returns the range [t, ∞).
func From[T any](t T) Range[T] {
	return Range[T]{lo: t, loE: inclusive, hiE: unbounded, made: true}
}

// Above returns the range (t, ∞).
func Above[T any](t T) Range[T] {
	return Range[T]{lo: t, loE: exclusive, hiE: unbounded, made: true}
}

// Below replaces the high bound of r, which must be infinite, with "< t".
// Below may be called on the zero Range to get (-∞, t).
func (r Range[T]) Below(t T) Range[T] {
	return r.withHigh(t, exclusive)
}

// To replaces the high bound of r, which must be infinite, with "≤ t".
// To may be called on the zero Range to get (-∞, t].
func (r Range[T]) To(t T) Range[T] {
	return r.withHigh(t, inclusive)
}

func (r Range[T]) withHigh(t T, e edge) Range[T] {
	if !r.made {
		r.loE = unbounded
		r.made = true
	} else if r.hiE != unbounded {
		panic("rng: range already has a high bound")
	}
	r.hi = t
	r.hiE = e
	return r
}

// Backwards returns r traversed from high to low.
func (r Range[T]) Backwards() Range[T] {
	r.rev = true
	return r
}

// IsZero reports whether r is the zero Range, which contains nothing.
func (r Range[T]) IsZero() bool { return !r.made }

// AboveLow reports whether v satisfies the low bound of r.
func (r Range[T]) AboveLow(cmp func(T, T) int, v T) bool {
	if !r.made {
		return false
	}
	switch r.loE {
	case unbounded:
		return true
	case inclusive:
		return cmp(v, r.lo) >= 0
	default:
		return cmp(v, r.lo) > 0
	}
}

// BelowHigh reports whether v satisfies the high bound of r.
func (r Range[T]) BelowHigh(cmp func(T, T) int, v T) bool {
	if !r.made {
		return false
	}
	switch r.hiE {
	case unbounded:
		return true
	case inclusive:
		return cmp(v, r.hi) <= 0
	default:
		return cmp(v, r.hi) < 0
	}
}

// Contains reports whether v lies in r, using cmp to order values.
func (r Range[T]) Contains(cmp func(T, T) int, v T) bool {
	return r.AboveLow(cmp, v) && r.BelowHigh(cmp, v)
}
