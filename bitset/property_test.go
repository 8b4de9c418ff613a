package bitset

import (
	"math/rand"
	"sort"
	"testing"

	"github.com/stretchr/testify/require"
)

// reference is a trivially-correct model of a bitset used to validate the
// real implementations on random operation sequences.
type reference struct {
	elems map[int]bool
}

func newReference() *reference {
	return &reference{elems: map[int]bool{}}
}

func (r *reference) set(i int)      { r.elems[i] = true }
func (r *reference) clear(i int)    { delete(r.elems, i) }
func (r *reference) contains(i int) bool { return r.elems[i] }

func (r *reference) sorted() []int {
	out := make([]int, 0, len(r.elems))
	for e := range r.elems {
		out = append(out, e)
	}
	sort.Ints(out)
	return out
}

func (r *reference) firstSetGE(i int) (int, bool) {
	for _, e := range r.sorted() {
		if e >= i {
			return e, true
		}
	}
	return 0, false
}

func (r *reference) firstUnsetGE(i int) int {
	for ; r.elems[i]; i++ {
	}
	return i
}

const propUniverse = 512

func checkAgainstReference[S Set[S]](t *testing.T, s S, ref *reference, rng *rand.Rand) {
	t.Helper()

	require.Equal(t, len(ref.elems), s.Count())

	for k := 0; k < 16; k++ {
		i := rng.Intn(propUniverse)
		require.Equal(t, ref.contains(i), s.Contains(i), "contains(%d)", i)

		want, wantOK := ref.firstSetGE(i)
		got, gotOK := s.FirstSetGE(i)
		require.Equal(t, wantOK, gotOK, "firstSetGE(%d)", i)
		if wantOK {
			require.Equal(t, want, got, "firstSetGE(%d)", i)
		}

		require.Equal(t, ref.firstUnsetGE(i), s.FirstUnsetGE(i), "firstUnsetGE(%d)", i)
	}

	sorted := ref.sorted()
	for k := 0; k < 4; k++ {
		n := rng.Intn(len(sorted) + 1)
		got, ok := s.Nth(n)
		if n < len(sorted) {
			require.True(t, ok, "nth(%d)", n)
			require.Equal(t, sorted[n], got, "nth(%d)", n)
		} else {
			require.False(t, ok, "nth(%d)", n)
		}
	}
}

func runRandomOps[S Set[S]](t *testing.T, mk func() S, seed int64) {
	rng := rand.New(rand.NewSource(seed))
	s := mk()
	ref := newReference()

	for step := 0; step < 2000; step++ {
		switch op := rng.Intn(10); {
		case op < 5:
			i := rng.Intn(propUniverse)
			s.Set(i)
			ref.set(i)
		case op < 8:
			i := rng.Intn(propUniverse)
			s.Clear(i)
			ref.clear(i)
		case op < 9:
			lo := rng.Intn(propUniverse)
			hi := lo + rng.Intn(80)
			s.SetBetween(lo, hi)
			for i := lo; i < hi; i++ {
				ref.set(i)
			}
		default:
			if i, ok := s.PopFirstSet(); ok {
				want, _ := ref.firstSetGE(0)
				require.Equal(t, want, i)
				ref.clear(i)
			}
		}
		if step%97 == 0 {
			checkAgainstReference(t, s, ref, rng)
		}
	}
	checkAgainstReference(t, s, ref, rng)
}

func TestWordsRandomOps(t *testing.T) {
	for seed := int64(1); seed <= 5; seed++ {
		runRandomOps(t, NewWords, seed)
	}
}

func TestTreeRandomOps(t *testing.T) {
	for seed := int64(1); seed <= 5; seed++ {
		runRandomOps(t, NewTree, seed)
	}
}

// randomPair fills two sets of each implementation with the same random
// content.
func randomPair(rng *rand.Rand) (*Words, *Tree) {
	w, tr := NewWords(), NewTree()
	for k := 0; k < 60; k++ {
		i := rng.Intn(propUniverse)
		w.Set(i)
		tr.Set(i)
	}
	return w, tr
}

// TestImplementationsAgree runs the same set-algebra operations on Words and
// Tree and requires identical contents.
func TestImplementationsAgree(t *testing.T) {
	rng := rand.New(rand.NewSource(7))

	elemsW := func(s *Words) []int {
		var out []int
		next := Iter(s)
		for i, ok := next(); ok; i, ok = next() {
			out = append(out, i)
		}
		return out
	}
	elemsT := func(s *Tree) []int {
		var out []int
		next := Iter(s)
		for i, ok := next(); ok; i, ok = next() {
			out = append(out, i)
		}
		return out
	}

	for round := 0; round < 50; round++ {
		aw, at := randomPair(rng)
		bw, bt := randomPair(rng)

		switch round % 3 {
		case 0:
			aw.UnionWith(bw)
			at.UnionWith(bt)
		case 1:
			aw.IntersectWith(bw)
			at.IntersectWith(bt)
		default:
			aw.DifferenceWith(bw)
			at.DifferenceWith(bt)
		}
		require.Equal(t, elemsW(aw), elemsT(at), "round %d", round)
	}
}

// TestIntersectFirstSetGEMatchesNaive compares the non-materializing probe
// against a scan of the materialized intersection, on both implementations.
func TestIntersectFirstSetGEMatchesNaive(t *testing.T) {
	rng := rand.New(rand.NewSource(11))

	for round := 0; round < 100; round++ {
		aw, at := randomPair(rng)
		bw, bt := randomPair(rng)

		inter := NewWords()
		inter.Intersect(aw, bw)

		for k := 0; k < 20; k++ {
			ge := rng.Intn(propUniverse + 10)
			want, wantOK := inter.FirstSetGE(ge)

			got, ok := aw.IntersectFirstSetGE(bw, ge)
			require.Equal(t, wantOK, ok, "words ge=%d", ge)
			if wantOK {
				require.Equal(t, want, got, "words ge=%d", ge)
			}

			got, ok = at.IntersectFirstSetGE(bt, ge)
			require.Equal(t, wantOK, ok, "tree ge=%d", ge)
			if wantOK {
				require.Equal(t, want, got, "tree ge=%d", ge)
			}
		}
	}
}
