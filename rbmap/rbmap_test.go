// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package rbmap

import (
	"bytes"
	"cmp"
	"errors"
	"fmt"
	"iter"
	"math/rand/v2"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/botflow/collections"
	"github.com/botflow/collections/rng"
)

func permute(m *Map[int, int], n int) (perm, slice []int) {
	perm = rand.Perm(n)
	slice = make([]int, 2*n+1)
	for i, x := range perm {
		m.Set(2*x+1, i+1)
		slice[2*x+1] = i + 1
	}
	// Overwrite-Set half the entries.
	for i, x := range perm[:len(perm)/2] {
		m.Set(2*x+1, i+100)
		slice[2*x+1] = i + 100
	}
	return perm, slice
}

func dump(m *Map[int, int]) string {
	var buf bytes.Buffer
	var walk func(int32)
	walk = func(x int32) {
		if x == nilNode {
			fmt.Fprintf(&buf, "nil")
			return
		}
		n := m.at(x)
		color := "b"
		if n.red {
			color = "r"
		}
		fmt.Fprintf(&buf, "(%d%s ", n.key, color)
		walk(n.left)
		fmt.Fprintf(&buf, " ")
		walk(n.right)
		fmt.Fprintf(&buf, ")")
	}
	walk(m.root)
	return buf.String()
}

// check verifies the red-black properties of m by brute force,
// along with its links, count and cached extremes.
func check(t *testing.T, m *Map[int, int]) {
	t.Helper()
	if m.root != nilNode {
		if m.isRed(m.root) {
			t.Fatalf("red root\nM: %v", dump(m))
		}
		if m.at(m.root).parent != nilNode {
			t.Fatalf("root has a parent\nM: %v", dump(m))
		}
	}
	count := 0
	var walk func(x int32) int
	walk = func(x int32) int {
		if x == nilNode {
			return 0
		}
		count++
		n := m.at(x)
		for _, c := range []int32{n.left, n.right} {
			if c != nilNode && m.at(c).parent != x {
				t.Fatalf("bad parent link below %d\nM: %v", n.key, dump(m))
			}
			if n.red && m.isRed(c) {
				t.Fatalf("red node %d has a red child\nM: %v", n.key, dump(m))
			}
		}
		hl, hr := walk(n.left), walk(n.right)
		if hl != hr {
			t.Fatalf("black height differs below %d: %d vs %d\nM: %v", n.key, hl, hr, dump(m))
		}
		if !n.red {
			hl++
		}
		return hl
	}
	walk(m.root)
	if count != m.Len() {
		t.Fatalf("Len() = %d, tree has %d nodes", m.Len(), count)
	}
	if m.root == nilNode {
		if m.min != nilNode || m.max != nilNode {
			t.Fatalf("empty map has cached extremes")
		}
		return
	}
	if m.min != m.minNode(m.root) || m.max != m.maxNode(m.root) {
		t.Fatalf("stale cached extremes\nM: %v", dump(m))
	}
	var prev *int
	for k := range m.All() {
		if prev != nil {
			if c := cmp.Compare(*prev, k); c > 0 || c == 0 && !m.dups {
				t.Fatalf("keys out of order: %d then %d\nM: %v", *prev, k, dump(m))
			}
		}
		prev = &k
	}
}

func test(t *testing.T, f func(*testing.T, func() *Map[int, int])) {
	t.Run("New", func(t *testing.T) {
		f(t, func() *Map[int, int] { return New[int, int]() })
	})
	t.Run("NewFunc", func(t *testing.T) {
		f(t, func() *Map[int, int] { return NewFunc[int, int](func(a, b int) int { return cmp.Compare(a, b) }) })
	})
	t.Run("Duplicates", func(t *testing.T) {
		f(t, func() *Map[int, int] { return New[int, int](AllowDuplicateKeys()) })
	})
}

func TestGet(t *testing.T) {
	test(t, func(t *testing.T, newMap func() *Map[int, int]) {
		for N := range 11 {
			m := newMap()
			_, slice := permute(m, N)
			check(t, m)
			for k, want := range slice {
				v, ok := m.TryGet(k)
				if v != want || ok != (want > 0) {
					t.Fatalf("TryGet(%d) = %d, %v, want %d, %v\nM: %v", k, v, ok, want, want > 0, dump(m))
				}
				if m.ContainsKey(k) != ok {
					t.Fatalf("ContainsKey(%d) = %v, want %v", k, !ok, ok)
				}
				v, err := m.Get(k)
				if ok {
					if err != nil || v != want {
						t.Fatalf("Get(%d) = %d, %v, want %d, nil", k, v, err, want)
					}
				} else if !errors.Is(err, collections.ErrKeyNotFound) {
					t.Fatalf("Get(%d) error = %v, want ErrKeyNotFound", k, err)
				}
			}
		}
	})
}

func TestSet(t *testing.T) {
	test(t, func(t *testing.T, newMap func() *Map[int, int]) {
		m := newMap()
		m.Set(1, 10)
		m.Set(2, 20)
		m.Set(1, 5)
		m.Set(1, 8)
		assert.Equal(t, 2, m.Len())
		v, _ := m.TryGet(1)
		assert.Equal(t, 8, v)
		check(t, m)
	})
}

func TestMin(t *testing.T) {
	test(t, func(t *testing.T, newMap func() *Map[int, int]) {
		for N := range 11 {
			m := newMap()
			permute(m, N)
			have, ok := m.Min()
			want := 1
			wok := true
			if N == 0 {
				want = 0
				wok = false
			}
			if have != want || ok != wok {
				t.Errorf("N=%d Min() returned %d, %t want %d, %t", N, have, ok, want, wok)
			}
		}
	})
}

func TestMax(t *testing.T) {
	test(t, func(t *testing.T, newMap func() *Map[int, int]) {
		for N := range 11 {
			m := newMap()
			permute(m, N)
			have, ok := m.Max()
			want := 2*N - 1
			wok := true
			if N == 0 {
				want = 0
				wok = false
			}
			if have != want || ok != wok {
				t.Errorf("N=%d Max() returned %d, %t want %d, %t", N, have, ok, want, wok)
			}
		}
	})
}

func TestAll(t *testing.T) {
	test(t, func(t *testing.T, newMap func() *Map[int, int]) {
		for N := range 11 {
			m := newMap()
			_, slice := permute(m, N)
			var have []int
			for k, v := range m.All() {
				if v != slice[k] {
					t.Errorf("All() returned %d, %d want %d, %d", k, v, k, slice[k])
				}
				have = append(have, k)
				if len(have) > N+5 { // too many; looping?
					break
				}
			}
			var want []int
			for k, v := range slice {
				if v != 0 {
					want = append(want, k)
				}
			}
			if !slices.Equal(have, want) {
				t.Errorf("All() = %v, want %v", have, want)
			}
			if keys := slices.Collect(m.Keys()); !slices.Equal(keys, want) {
				t.Errorf("Keys() = %v, want %v", keys, want)
			}
		}
	})
}

func TestBackward(t *testing.T) {
	test(t, func(t *testing.T, newMap func() *Map[int, int]) {
		for N := range 11 {
			m := newMap()
			_, slice := permute(m, N)
			var have []int
			for k, v := range m.Backward() {
				if v != slice[k] {
					t.Errorf("Backward() returned %d, %d want %d, %d", k, v, k, slice[k])
				}
				have = append(have, k)
				if len(have) > N+5 { // too many; looping?
					break
				}
			}
			var want []int
			for k, v := range slice {
				if v != 0 {
					want = append(want, k)
				}
			}
			slices.Reverse(want)
			if !slices.Equal(have, want) {
				t.Errorf("Backward() = %v, want %v", have, want)
			}
		}
	})
}

func TestRemove(t *testing.T) {
	test(t, func(t *testing.T, newMap func() *Map[int, int]) {
		for N := range 11 {
			m := newMap()
			_, slice := permute(m, N)
			for _, x := range rand.Perm(len(slice)) {
				removed := m.Remove(x)
				if removed != (slice[x] != 0) {
					t.Errorf("Remove(%d) = %v, want %v", x, removed, !removed)
				}
				slice[x] = 0
				check(t, m)
				var have []int
				for k := range m.All() {
					have = append(have, k)
				}
				var want []int
				for x, v := range slice {
					if v != 0 {
						want = append(want, x)
					}
				}
				if !slices.Equal(have, want) {
					t.Errorf("after Remove(%v), All() = %v, want %v", x, have, want)
				}
			}
			if m.Len() != 0 {
				t.Errorf("N=%d: Len() = %d after removing everything", N, m.Len())
			}
		}
	})
}

// TestRandomOps interleaves adds and removes on a larger map,
// checking the tree after every operation.
func TestRandomOps(t *testing.T) {
	test(t, func(t *testing.T, newMap func() *Map[int, int]) {
		r := rand.New(rand.NewPCG(1, 2))
		m := newMap()
		ref := map[int]int{}
		for i := range 2000 {
			k := r.IntN(300)
			if r.IntN(3) == 0 {
				delete(ref, k)
				for m.Remove(k) {
				}
			} else if _, ok := ref[k]; !ok {
				ref[k] = i
				require.NoError(t, m.Add(k, i))
			}
			check(t, m)
		}
		require.Equal(t, len(ref), m.Len())
		for k, v := range ref {
			got, err := m.Get(k)
			require.NoError(t, err)
			require.Equal(t, v, got)
		}
	})
}

func TestRoundTrip(t *testing.T) {
	m := New[int, string]()
	keys := rand.Perm(500)
	for _, k := range keys {
		require.NoError(t, m.Add(k, fmt.Sprint(k)))
	}
	for _, k := range rand.Perm(500) {
		require.True(t, m.Remove(k))
	}
	assert.Equal(t, 0, m.Len())
	assert.Empty(t, slices.Collect(m.Keys()))
	assert.True(t, m.Begin().IsEnd())
	_, ok := m.Min()
	assert.False(t, ok)
}

func TestAddDuplicate(t *testing.T) {
	m := New[int, string]()
	require.NoError(t, m.Add(5, "x"))
	before := dumpAny(m)
	err := m.Add(5, "y")
	require.ErrorIs(t, err, collections.ErrDuplicateKey)
	assert.Equal(t, 1, m.Len())
	assert.Equal(t, before, dumpAny(m))
	v, _ := m.TryGet(5)
	assert.Equal(t, "x", v)
}

func dumpAny[K, V any](m *Map[K, V]) string {
	var s []string
	for x := range m.nodes.Cap() {
		if m.nodes.Live(int32(x)) {
			n := m.at(int32(x))
			s = append(s, fmt.Sprint(x, n.key, n.val, n.red, n.left, n.right, n.parent))
		}
	}
	return fmt.Sprint(m.root, s)
}

func TestScenario(t *testing.T) {
	type kv struct {
		k int
		v string
	}
	collect := func(m *Map[int, string]) []kv {
		var out []kv
		for k, v := range m.All() {
			out = append(out, kv{k, v})
		}
		return out
	}

	m := New[int, string]()
	for _, e := range []kv{{5, "a"}, {3, "b"}, {8, "c"}, {1, "d"}, {4, "e"}} {
		require.NoError(t, m.Add(e.k, e.v))
	}
	assert.Equal(t, []kv{{1, "d"}, {3, "b"}, {4, "e"}, {5, "a"}, {8, "c"}}, collect(m))

	assert.True(t, m.Remove(3))
	assert.Equal(t, []kv{{1, "d"}, {4, "e"}, {5, "a"}, {8, "c"}}, collect(m))
	assert.Equal(t, 4, m.Len())
	assert.False(t, m.Remove(3))
}

func TestDuplicateKeys(t *testing.T) {
	m := New[int, string](AllowDuplicateKeys())
	require.True(t, m.AllowsDuplicateKeys())
	for _, v := range []string{"a", "b", "c"} {
		require.NoError(t, m.Add(2, v))
	}
	require.NoError(t, m.Add(1, "x"))
	require.NoError(t, m.Add(3, "y"))
	require.NoError(t, m.Add(2, "d"))

	var vals []string
	for _, v := range m.Scan(rng.From(2).To(2)) {
		vals = append(vals, v)
	}
	assert.Equal(t, []string{"a", "b", "c", "d"}, vals)

	n, err := m.LowerBound(2).Distance(m.UpperBound(2))
	require.NoError(t, err)
	assert.Equal(t, 4, n)

	c := Find(m, 2, "c")
	require.False(t, c.IsEnd())
	k, v, err := c.Current()
	require.NoError(t, err)
	assert.Equal(t, 2, k)
	assert.Equal(t, "c", v)
	assert.True(t, Find(m, 2, "zz").IsEnd())
	assert.True(t, Find(m, 7, "a").IsEnd())

	// Remove takes the first of the equal keys.
	assert.True(t, m.Remove(2))
	v, _ = m.TryGet(2)
	assert.Equal(t, "b", v)
	assert.Equal(t, 5, m.Len())
}

func TestBounds(t *testing.T) {
	test(t, func(t *testing.T, newMap func() *Map[int, int]) {
		for N := range 11 {
			m := newMap()
			_, slice := permute(m, N)
			for k := range len(slice) + 1 {
				lb, ub := m.LowerBound(k), m.UpperBound(k)
				n, err := lb.Distance(ub)
				require.NoError(t, err)
				want := 0
				if k < len(slice) && slice[k] != 0 {
					want = 1
					assert.Equal(t, k, lb.Key())
				}
				if n != want {
					t.Errorf("N=%d: distance(LowerBound(%d), UpperBound(%d)) = %d, want %d", N, k, k, n, want)
				}
				// LowerBound is at the first present key ≥ k.
				wantLB := -1
				for j := k; j < len(slice); j++ {
					if slice[j] != 0 {
						wantLB = j
						break
					}
				}
				if wantLB < 0 {
					assert.True(t, lb.IsEnd(), "LowerBound(%d) should be end", k)
				} else {
					assert.Equal(t, wantLB, lb.Key())
				}
			}
		}
	})
}

func TestClone(t *testing.T) {
	equal := func(m1, m2 *Map[int, int]) bool {
		if m1.Len() != m2.Len() {
			return false
		}
		next, stop := iter.Pull2(m2.All())
		defer stop()
		for k1, v1 := range m1.All() {
			k2, v2, ok := next()
			if !ok || k1 != k2 || v1 != v2 {
				return false
			}
		}
		return true
	}

	test(t, func(t *testing.T, newMap func() *Map[int, int]) {
		for N := range 11 {
			m := newMap()
			permute(m, N)
			c := m.Clone()
			if !equal(m, c) {
				t.Errorf("N=%d: not equal", N)
			}
			if dump(m) != dump(c) {
				t.Errorf("N=%d: clone has a different shape", N)
			}
			check(t, c)

			before := dump(m)
			c.Set(1000, 1)
			c.Remove(1)
			c.Set(3, -3)
			check(t, c)
			if dump(m) != before {
				t.Errorf("N=%d: mutating the clone changed the original", N)
			}
			if N > 1 {
				if v, _ := m.TryGet(3); v == -3 {
					t.Errorf("N=%d: clone shares values with the original", N)
				}
			}
		}
	})
}

func TestClear(t *testing.T) {
	m := New[int, int]()
	permute(m, 10)
	c := m.Begin()
	m.Clear()
	check(t, m)
	assert.Equal(t, 0, m.Len())
	assert.True(t, m.Begin().IsEnd())
	_, _, err := c.Current()
	assert.ErrorIs(t, err, collections.ErrOutOfRange)

	require.NoError(t, m.Add(1, 1))
	check(t, m)
	assert.Equal(t, 1, m.Len())
}

func TestErase(t *testing.T) {
	test(t, func(t *testing.T, newMap func() *Map[int, int]) {
		for N := range 11 {
			for _, target := range rand.Perm(N) {
				m := newMap()
				permute(m, N)
				c := m.LowerBound(2*target + 1)
				next, err := m.Erase(c)
				require.NoError(t, err)
				check(t, m)
				assert.Equal(t, N-1, m.Len())
				assert.False(t, m.ContainsKey(2*target+1))
				if target == N-1 {
					assert.True(t, next.IsEnd())
				} else {
					assert.Equal(t, 2*target+3, next.Key())
				}
			}
		}
	})
}

func TestEraseErrors(t *testing.T) {
	m := New[int, int]()
	other := New[int, int]()
	permute(m, 5)
	permute(other, 5)

	_, err := m.Erase(m.End())
	assert.ErrorIs(t, err, collections.ErrOutOfRange)
	_, err = m.Erase(other.Begin())
	assert.ErrorIs(t, err, collections.ErrInvalidIteratorOrigin)
	_, err = m.EraseRange(m.Begin(), other.End())
	assert.ErrorIs(t, err, collections.ErrInvalidIteratorOrigin)

	before := dump(m)
	_, err = m.EraseRange(m.LowerBound(7), m.LowerBound(3))
	assert.ErrorIs(t, err, collections.ErrOutOfRange)
	assert.Equal(t, before, dump(m))
}

func TestEraseRange(t *testing.T) {
	test(t, func(t *testing.T, newMap func() *Map[int, int]) {
		for N := range 9 {
			for lo := range 2*N + 2 {
				for hi := lo; hi <= 2*N+2; hi++ {
					m := newMap()
					_, slice := permute(m, N)
					first, last := m.LowerBound(lo), m.LowerBound(hi)
					c, err := m.EraseRange(first, last)
					require.NoError(t, err)
					check(t, m)
					assert.Equal(t, m.LowerBound(hi).x, c.x)
					var want []int
					for k, v := range slice {
						if v != 0 && (k < lo || k >= hi) {
							want = append(want, k)
						}
					}
					if have := slices.Collect(m.Keys()); !slices.Equal(have, want) {
						t.Errorf("N=%d: EraseRange([%d, %d)) left %v, want %v", N, lo, hi, have, want)
					}
				}
			}
		}
	})
}

func TestEraseRangeAll(t *testing.T) {
	m := New[int, int]()
	permute(m, 20)
	c, err := m.EraseRange(m.Begin(), m.End())
	require.NoError(t, err)
	assert.True(t, c.IsPinned())
	assert.Equal(t, 0, m.Len())
	check(t, m)
}
