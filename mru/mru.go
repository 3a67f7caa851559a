// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package mru implements a bounded cache that keeps the most recently used
// entries.
//
// A [Cache] has a fixed number of slots. Adding an entry to a full cache
// evicts the least recently used one. Reading an entry through [Cache.Get]
// or [Cache.TryGet] makes it the most recently used.
//
// All methods are safe for concurrent use. They are serialized by a single
// lock per cache.
package mru

import (
	"fmt"
	"sync"

	"github.com/botflow/collections"
	"github.com/botflow/collections/internal/arena"
)

const none = arena.Nil

// A slot holds one entry and its links in the recency list.
// Free slots are linked by the arena instead.
type slot[K, V any] struct {
	key  K
	val  V
	prev int32 // toward the head (younger)
	next int32 // toward the tail (older)
}

// A Cache maps keys to values, holding at most a fixed number of entries.
// The zero value is not usable; create caches with [New].
type Cache[K comparable, V any] struct {
	mu    sync.Mutex
	slots *arena.Arena[slot[K, V]]
	head  int32 // most recently used, or none
	tail  int32 // least recently used, or none
	index map[K]int32

	keyFn   func(K) K
	onEvict func(K, V)

	hits      uint64
	misses    uint64
	evictions uint64
}

// An Option configures a Cache.
type Option[K comparable, V any] func(*Cache[K, V])

// WithKeyFunc sets the key comparer: two keys are the same entry when fn
// maps them to equal values. The cache reports keys as they were added.
func WithKeyFunc[K comparable, V any](fn func(K) K) Option[K, V] {
	return func(c *Cache[K, V]) { c.keyFn = fn }
}

// WithEvictFunc registers fn to be called with each entry that is evicted
// to make room for a new one. fn runs with the cache locked and must not
// call back into the cache.
func WithEvictFunc[K comparable, V any](fn func(K, V)) Option[K, V] {
	return func(c *Cache[K, V]) { c.onEvict = fn }
}

// New returns an empty cache with room for capacity entries.
// A cache with capacity zero holds nothing. New panics if capacity is
// negative.
func New[K comparable, V any](capacity int, opts ...Option[K, V]) *Cache[K, V] {
	if capacity < 0 {
		panic(fmt.Sprintf("mru: negative capacity %d", capacity))
	}
	c := &Cache[K, V]{
		slots: arena.NewFixed[slot[K, V]](capacity),
		head:  none,
		tail:  none,
		index: make(map[K]int32, capacity),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Cache[K, V]) canon(key K) K {
	if c.keyFn != nil {
		return c.keyFn(key)
	}
	return key
}

func (c *Cache[K, V]) at(h int32) *slot[K, V] { return c.slots.At(h) }

// unlink removes h from the recency list.
func (c *Cache[K, V]) unlink(h int32) {
	s := c.at(h)
	if s.prev != none {
		c.at(s.prev).next = s.next
	} else {
		c.head = s.next
	}
	if s.next != none {
		c.at(s.next).prev = s.prev
	} else {
		c.tail = s.prev
	}
	s.prev, s.next = none, none
}

// pushFront links the detached slot h at the head of the recency list.
func (c *Cache[K, V]) pushFront(h int32) {
	s := c.at(h)
	s.prev = none
	s.next = c.head
	if c.head != none {
		c.at(c.head).prev = h
	} else {
		c.tail = h
	}
	c.head = h
}

// moveFront makes h the most recently used entry.
func (c *Cache[K, V]) moveFront(h int32) {
	if c.head == h {
		return
	}
	c.unlink(h)
	c.pushFront(h)
}

// drop removes the entry in slot h and frees the slot.
func (c *Cache[K, V]) drop(h int32) {
	c.unlink(h)
	delete(c.index, c.canon(c.at(h).key))
	c.slots.Free(h)
}

// evict drops the least recently used entry, if any.
func (c *Cache[K, V]) evict() {
	h := c.tail
	if h == none {
		return
	}
	s := c.at(h)
	k, v := s.key, s.val
	c.drop(h)
	c.evictions++
	if c.onEvict != nil {
		c.onEvict(k, v)
	}
}

// Get returns the value for key and makes it the most recently used.
// If key is absent, the error wraps [collections.ErrKeyNotFound].
func (c *Cache[K, V]) Get(key K) (V, error) {
	v, ok := c.TryGet(key)
	if !ok {
		return v, fmt.Errorf("mru: %v: %w", key, collections.ErrKeyNotFound)
	}
	return v, nil
}

// TryGet returns the value for key and reports whether it was present.
// A present key becomes the most recently used.
func (c *Cache[K, V]) TryGet(key K) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	h, ok := c.index[c.canon(key)]
	if !ok {
		c.misses++
		var zero V
		return zero, false
	}
	c.hits++
	c.moveFront(h)
	return c.at(h).val, true
}

// Peek returns the value for key without changing its recency.
func (c *Cache[K, V]) Peek(key K) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if h, ok := c.index[c.canon(key)]; ok {
		return c.at(h).val, true
	}
	var zero V
	return zero, false
}

// Contains reports whether key is present, without changing its recency.
func (c *Cache[K, V]) Contains(key K) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	_, ok := c.index[c.canon(key)]
	return ok
}

// Set sets the value for key and makes it the most recently used,
// adding an entry as [Cache.Add] does if key is absent.
func (c *Cache[K, V]) Set(key K, val V) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if h, ok := c.index[c.canon(key)]; ok {
		c.at(h).val = val
		c.moveFront(h)
		return
	}
	c.add(key, val)
}

// Add adds an entry for key as the most recently used, first evicting the
// least recently used entry if the cache is full.
// If key is already present, Add leaves the cache unchanged and returns an
// error wrapping [collections.ErrDuplicateKey].
func (c *Cache[K, V]) Add(key K, val V) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.index[c.canon(key)]; ok {
		return fmt.Errorf("mru: %v: %w", key, collections.ErrDuplicateKey)
	}
	c.add(key, val)
	return nil
}

func (c *Cache[K, V]) add(key K, val V) {
	if c.slots.Full() {
		c.evict()
	}
	h, ok := c.slots.Alloc()
	if !ok {
		// Zero capacity.
		return
	}
	*c.at(h) = slot[K, V]{key: key, val: val, prev: none, next: none}
	c.pushFront(h)
	c.index[c.canon(key)] = h
}

// Remove removes the entry for key and reports whether there was one.
func (c *Cache[K, V]) Remove(key K) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	h, ok := c.index[c.canon(key)]
	if !ok {
		return false
	}
	c.drop(h)
	return true
}

// RemoveOldest removes up to n of the least recently used entries and
// returns how many it removed.
func (c *Cache[K, V]) RemoveOldest(n int) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	removed := 0
	for ; removed < n && c.tail != none; removed++ {
		c.drop(c.tail)
	}
	return removed
}

// RemoveYoungest removes up to n of the most recently used entries and
// returns how many it removed.
func (c *Cache[K, V]) RemoveYoungest(n int) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	removed := 0
	for ; removed < n && c.head != none; removed++ {
		c.drop(c.head)
	}
	return removed
}

// Clear removes all entries.
func (c *Cache[K, V]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.slots.Reset()
	clear(c.index)
	c.head, c.tail = none, none
}

// Len returns the number of entries in the cache.
func (c *Cache[K, V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.slots.Len()
}

// Cap returns the maximum number of entries.
func (c *Cache[K, V]) Cap() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.slots.Cap()
}

// YoungestKeys returns up to n keys, most recently used first.
func (c *Cache[K, V]) YoungestKeys(n int) []K {
	c.mu.Lock()
	defer c.mu.Unlock()

	var keys []K
	for h := c.head; h != none && len(keys) < n; h = c.at(h).next {
		keys = append(keys, c.at(h).key)
	}
	return keys
}

// OldestKeys returns up to n keys, least recently used first.
func (c *Cache[K, V]) OldestKeys(n int) []K {
	c.mu.Lock()
	defer c.mu.Unlock()

	var keys []K
	for h := c.tail; h != none && len(keys) < n; h = c.at(h).prev {
		keys = append(keys, c.at(h).key)
	}
	return keys
}

// Keys returns the keys in the cache, in no particular order.
func (c *Cache[K, V]) Keys() []K {
	c.mu.Lock()
	defer c.mu.Unlock()

	keys := make([]K, 0, len(c.index))
	for _, h := range c.index {
		keys = append(keys, c.at(h).key)
	}
	return keys
}

// Values returns the values in the cache, in no particular order.
func (c *Cache[K, V]) Values() []V {
	c.mu.Lock()
	defer c.mu.Unlock()

	vals := make([]V, 0, len(c.index))
	for _, h := range c.index {
		vals = append(vals, c.at(h).val)
	}
	return vals
}

// Stats is a snapshot of a cache's counters.
// Hits and Misses count lookups through Get and TryGet.
type Stats struct {
	Hits      uint64
	Misses    uint64
	Evictions uint64
	Len       int
	Cap       int
}

// Stats returns the cache's counters.
func (c *Cache[K, V]) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()

	return Stats{
		Hits:      c.hits,
		Misses:    c.misses,
		Evictions: c.evictions,
		Len:       c.slots.Len(),
		Cap:       c.slots.Cap(),
	}
}
