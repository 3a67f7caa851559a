// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package rbmap implements an in-memory ordered map.
//
// A [Map][K, V] keeps its entries sorted by key according to a comparison
// function, and can optionally hold several entries with equal keys.
// Positions in the map are represented by [Cursor] values, which can be
// moved forward and backward, compared, and subtracted.
//
// A Map is not safe for concurrent use. A caller that shares one between
// goroutines must guard it with its own lock.
package rbmap

// The implementation is a red-black tree. Insertion is Sedgewick's
// top-down recursive algorithm, which splits 4-nodes on the way down;
// deletion is the usual bottom-up fixup. See:
// https://en.wikipedia.org/wiki/Red%E2%80%93black_tree
// R. Sedgewick, Algorithms in C, 3rd ed., Program 13.6.
//
// Nodes live in an arena and refer to each other by handle, so the
// whole tree can be cloned by copying the arena.

import (
	"cmp"
	"fmt"

	"github.com/botflow/collections"
	"github.com/botflow/collections/internal/arena"
)

const nilNode = arena.Nil

// A node is a node in the tree.
type node[K, V any] struct {
	parent int32
	left   int32
	right  int32
	red    bool
	key    K
	val    V
}

// A Map is an ordered map from K to V.
// The zero value of a Map is not meaningful since it has no comparison
// function. Use [New] or [NewFunc] to create a Map.
type Map[K, V any] struct {
	nodes *arena.Arena[node[K, V]]
	root  int32
	min   int32 // leftmost node
	max   int32 // rightmost node
	cmp   func(K, K) int
	dups  bool
}

// An Option configures a Map.
type Option func(*options)

type options struct {
	allowDuplicateKeys bool
}

// AllowDuplicateKeys permits the map to hold several entries with equal
// keys. Equal keys are kept in insertion order.
func AllowDuplicateKeys() Option {
	return func(o *options) { o.allowDuplicateKeys = true }
}

// New returns an empty Map ordered according to K's standard Go ordering.
func New[K cmp.Ordered, V any](opts ...Option) *Map[K, V] {
	return NewFunc[K, V](cmp.Compare[K], opts...)
}

// NewFunc returns an empty Map ordered according to cmp.
func NewFunc[K, V any](cmp func(K, K) int, opts ...Option) *Map[K, V] {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	return &Map[K, V]{
		nodes: arena.New[node[K, V]](0),
		root:  nilNode,
		min:   nilNode,
		max:   nilNode,
		cmp:   cmp,
		dups:  o.allowDuplicateKeys,
	}
}

// Len returns the number of entries in m.
func (m *Map[K, V]) Len() int {
	return m.nodes.Len()
}

// AllowsDuplicateKeys reports whether m may hold equal keys.
func (m *Map[K, V]) AllowsDuplicateKeys() bool {
	return m.dups
}

func (m *Map[K, V]) at(x int32) *node[K, V] { return m.nodes.At(x) }

func (m *Map[K, V]) isRed(x int32) bool {
	return x != nilNode && m.at(x).red
}

func (m *Map[K, V]) setLeft(x, y int32) {
	m.at(x).left = y
	if y != nilNode {
		m.at(y).parent = x
	}
}

func (m *Map[K, V]) setRight(x, y int32) {
	m.at(x).right = y
	if y != nilNode {
		m.at(y).parent = x
	}
}

// replaceChild makes x take old's place under p.
func (m *Map[K, V]) replaceChild(p, old, x int32) {
	switch {
	case p == nilNode:
		if m.root != old {
			panic("corrupt rbmap")
		}
		m.root = x
		if x != nilNode {
			m.at(x).parent = nilNode
		}
	case m.at(p).left == old:
		m.setLeft(p, x)
	case m.at(p).right == old:
		m.setRight(p, x)
	default:
		panic("corrupt rbmap")
	}
}

// rotateLeft rotates the subtree rooted at node x,
// turning (x a (y b c)) into (y (x a b) c).
// It returns y, the new subtree root.
func (m *Map[K, V]) rotateLeft(x int32) int32 {
	// p -> (x a (y b c))
	p := m.at(x).parent
	y := m.at(x).right
	b := m.at(y).left

	m.setRight(x, b)
	m.replaceChild(p, x, y)
	m.setLeft(y, x)
	return y
}

// rotateRight rotates the subtree rooted at node y,
// turning (y (x a b) c) into (x a (y b c)).
// It returns x, the new subtree root.
func (m *Map[K, V]) rotateRight(y int32) int32 {
	// p -> (y (x a b) c)
	p := m.at(y).parent
	x := m.at(y).left
	b := m.at(x).right

	m.setLeft(y, b)
	m.replaceChild(p, y, x)
	m.setRight(x, y)
	return x
}

// minNode returns the node in x's subtree with the smallest key.
// x must not be nilNode.
func (m *Map[K, V]) minNode(x int32) int32 {
	for l := m.at(x).left; l != nilNode; l = m.at(x).left {
		x = l
	}
	return x
}

// maxNode returns the node in x's subtree with the largest key.
// x must not be nilNode.
func (m *Map[K, V]) maxNode(x int32) int32 {
	for r := m.at(x).right; r != nilNode; r = m.at(x).right {
		x = r
	}
	return x
}

// next returns the in-order successor of x, or nilNode.
func (m *Map[K, V]) next(x int32) int32 {
	if r := m.at(x).right; r != nilNode {
		return m.minNode(r)
	}
	p := m.at(x).parent
	for p != nilNode && m.at(p).right == x {
		x, p = p, m.at(p).parent
	}
	return p
}

// prev returns the in-order predecessor of x, or nilNode.
func (m *Map[K, V]) prev(x int32) int32 {
	if l := m.at(x).left; l != nilNode {
		return m.maxNode(l)
	}
	p := m.at(x).parent
	for p != nilNode && m.at(p).left == x {
		x, p = p, m.at(p).parent
	}
	return p
}

// lowerBound returns the first node with key ≥ k, or nilNode.
func (m *Map[K, V]) lowerBound(k K) int32 {
	res := nilNode
	for x := m.root; x != nilNode; {
		n := m.at(x)
		if m.cmp(n.key, k) >= 0 {
			res, x = x, n.left
		} else {
			x = n.right
		}
	}
	return res
}

// upperBound returns the first node with key > k, or nilNode.
func (m *Map[K, V]) upperBound(k K) int32 {
	res := nilNode
	for x := m.root; x != nilNode; {
		n := m.at(x)
		if m.cmp(n.key, k) > 0 {
			res, x = x, n.left
		} else {
			x = n.right
		}
	}
	return res
}

// lookup returns the first node with key k, or nilNode.
func (m *Map[K, V]) lookup(k K) int32 {
	x := m.lowerBound(k)
	if x == nilNode || m.cmp(m.at(x).key, k) != 0 {
		return nilNode
	}
	return x
}

// ContainsKey reports whether m has an entry with the given key.
func (m *Map[K, V]) ContainsKey(key K) bool {
	return m.lookup(key) != nilNode
}

// TryGet returns the value for key and reports whether it exists.
// If m allows duplicate keys, TryGet returns the first value for key.
func (m *Map[K, V]) TryGet(key K) (V, bool) {
	if x := m.lookup(key); x != nilNode {
		return m.at(x).val, true
	}
	var zero V
	return zero, false
}

// Get returns the value for key.
// If there is none, the error wraps [collections.ErrKeyNotFound].
func (m *Map[K, V]) Get(key K) (V, error) {
	v, ok := m.TryGet(key)
	if !ok {
		return v, fmt.Errorf("rbmap: %v: %w", key, collections.ErrKeyNotFound)
	}
	return v, nil
}

// Set sets the value for key, adding an entry if there is none.
// If m allows duplicate keys, Set overwrites the first entry for key.
func (m *Map[K, V]) Set(key K, val V) {
	if x := m.lookup(key); x != nilNode {
		m.at(x).val = val
		return
	}
	m.insert(key, val)
}

// Add adds an entry for key.
// If key is present and m does not allow duplicate keys, Add leaves m
// unchanged and returns an error wrapping [collections.ErrDuplicateKey].
func (m *Map[K, V]) Add(key K, val V) error {
	if !m.dups && m.lookup(key) != nilNode {
		return fmt.Errorf("rbmap: %v: %w", key, collections.ErrDuplicateKey)
	}
	m.insert(key, val)
	return nil
}

// insert adds a new node unconditionally and returns its handle.
func (m *Map[K, V]) insert(key K, val V) int32 {
	// Allocate first: the descent holds no node pointers across calls,
	// but nothing may grow the arena while it runs.
	x, _ := m.nodes.Alloc()
	*m.at(x) = node[K, V]{parent: nilNode, left: nilNode, right: nilNode, red: true, key: key, val: val}

	m.root = m.insertAt(m.root, x, false)
	m.at(m.root).parent = nilNode
	m.at(m.root).red = false

	if m.min == nilNode || m.cmp(key, m.at(m.min).key) < 0 {
		m.min = x
	}
	// Equal keys go to the right, so a new key equal to the max is the new max.
	if m.max == nilNode || m.cmp(key, m.at(m.max).key) >= 0 {
		m.max = x
	}
	return x
}

// insertAt inserts the detached red node x into the subtree rooted at h
// and returns the root of the resulting subtree.
// rightMove reports whether h is its parent's right child.
func (m *Map[K, V]) insertAt(h, x int32, rightMove bool) int32 {
	if h == nilNode {
		return x
	}
	// Split a 4-node on the way down.
	if l, r := m.at(h).left, m.at(h).right; m.isRed(l) && m.isRed(r) {
		m.at(h).red = true
		m.at(l).red = false
		m.at(r).red = false
	}
	if m.cmp(m.at(x).key, m.at(h).key) < 0 {
		m.setLeft(h, m.insertAt(m.at(h).left, x, false))
		if m.isRed(h) && m.isRed(m.at(h).left) && rightMove {
			h = m.rotateRight(h)
		}
		if l := m.at(h).left; m.isRed(l) && m.isRed(m.at(l).left) {
			h = m.rotateRight(h)
			m.at(h).red = false
			m.at(m.at(h).right).red = true
		}
	} else {
		m.setRight(h, m.insertAt(m.at(h).right, x, true))
		if m.isRed(h) && m.isRed(m.at(h).right) && !rightMove {
			h = m.rotateLeft(h)
		}
		if r := m.at(h).right; m.isRed(r) && m.isRed(m.at(r).right) {
			h = m.rotateLeft(h)
			m.at(h).red = false
			m.at(m.at(h).left).red = true
		}
	}
	return h
}

// Remove removes the entry for key and reports whether there was one.
// If m allows duplicate keys, Remove removes the first entry for key.
func (m *Map[K, V]) Remove(key K) bool {
	x := m.lookup(key)
	if x == nilNode {
		return false
	}
	m.delete(x)
	return true
}

// delete unlinks the entry held by node z and rebalances.
//
// If z has two children, the payload of its in-order predecessor is moved
// into z and the predecessor's node is removed instead. Cursors at z then
// see the predecessor's entry; only the successor of z is unaffected.
func (m *Map[K, V]) delete(z int32) {
	erased := z
	if m.at(z).left != nilNode && m.at(z).right != nilNode {
		p := m.maxNode(m.at(z).left)
		zn, pn := m.at(z), m.at(p)
		zn.key, zn.val = pn.key, pn.val
		z = p
	}

	// z has at most one child.
	zn := m.at(z)
	repl := zn.left
	if repl == nilNode {
		repl = zn.right
	}
	switch {
	case repl != nilNode:
		m.replaceChild(zn.parent, z, repl)
		if !zn.red {
			m.fixDelete(repl)
		}
	case zn.parent == nilNode:
		m.root = nilNode
	default:
		// No children: fix up with z standing in for the empty subtree,
		// then detach it.
		if !zn.red {
			m.fixDelete(z)
		}
		m.replaceChild(m.at(z).parent, z, nilNode)
	}

	minGone := erased == m.min || z == m.min
	maxGone := erased == m.max || z == m.max
	m.nodes.Free(z)
	if m.root == nilNode {
		m.min, m.max = nilNode, nilNode
		return
	}
	if minGone {
		m.min = m.minNode(m.root)
	}
	if maxGone {
		m.max = m.maxNode(m.root)
	}
}

func (m *Map[K, V]) parentOf(x int32) int32 { return m.at(x).parent }

func (m *Map[K, V]) leftOf(x int32) int32 {
	if x == nilNode {
		return nilNode
	}
	return m.at(x).left
}

func (m *Map[K, V]) rightOf(x int32) int32 {
	if x == nilNode {
		return nilNode
	}
	return m.at(x).right
}

func (m *Map[K, V]) setRed(x int32, red bool) {
	if x != nilNode {
		m.at(x).red = red
	}
}

// fixDelete restores the red-black properties after a black node was
// removed above x, so that x's subtree is one black node short.
func (m *Map[K, V]) fixDelete(x int32) {
	for x != m.root && !m.isRed(x) {
		p := m.parentOf(x)
		if x == m.leftOf(p) {
			sib := m.rightOf(p)
			if m.isRed(sib) {
				m.setRed(sib, false)
				m.setRed(p, true)
				m.rotateLeft(p)
				sib = m.rightOf(p)
			}
			if !m.isRed(m.leftOf(sib)) && !m.isRed(m.rightOf(sib)) {
				m.setRed(sib, true)
				x = p
				continue
			}
			if !m.isRed(m.rightOf(sib)) {
				m.setRed(m.leftOf(sib), false)
				m.setRed(sib, true)
				m.rotateRight(sib)
				sib = m.rightOf(p)
			}
			m.setRed(sib, m.isRed(p))
			m.setRed(p, false)
			m.setRed(m.rightOf(sib), false)
			m.rotateLeft(p)
			x = m.root
		} else {
			sib := m.leftOf(p)
			if m.isRed(sib) {
				m.setRed(sib, false)
				m.setRed(p, true)
				m.rotateRight(p)
				sib = m.leftOf(p)
			}
			if !m.isRed(m.leftOf(sib)) && !m.isRed(m.rightOf(sib)) {
				m.setRed(sib, true)
				x = p
				continue
			}
			if !m.isRed(m.leftOf(sib)) {
				m.setRed(m.rightOf(sib), false)
				m.setRed(sib, true)
				m.rotateLeft(sib)
				sib = m.leftOf(p)
			}
			m.setRed(sib, m.isRed(p))
			m.setRed(p, false)
			m.setRed(m.leftOf(sib), false)
			m.rotateRight(p)
			x = m.root
		}
	}
	m.setRed(x, false)
}

// Min returns the smallest key in m and true.
// If m is empty, the second return value is false.
func (m *Map[K, V]) Min() (K, bool) {
	if m.min == nilNode {
		var z K
		return z, false
	}
	return m.at(m.min).key, true
}

// Max returns the largest key in m and true.
// If m is empty, the second return value is false.
func (m *Map[K, V]) Max() (K, bool) {
	if m.max == nilNode {
		var z K
		return z, false
	}
	return m.at(m.max).key, true
}

// Clear deletes all entries in m.
func (m *Map[K, V]) Clear() {
	m.nodes.Reset()
	m.root, m.min, m.max = nilNode, nilNode, nilNode
}

// Clone returns a copy of m with the same entries, ordering and options.
// Keys and values are copied as by assignment.
func (m *Map[K, V]) Clone() *Map[K, V] {
	m2 := *m
	m2.nodes = m.nodes.Clone()
	return &m2
}

func assert(b bool) {
	if !b {
		panic("assertion failed")
	}
}
