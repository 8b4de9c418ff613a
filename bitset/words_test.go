package bitset

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWordsSetContainsClear(t *testing.T) {
	s := NewWords()

	assert.False(t, s.Contains(0))
	assert.False(t, s.Contains(1000)) // beyond capacity

	s.Set(3)
	assert.True(t, s.Contains(3))
	assert.False(t, s.Contains(2))
	assert.False(t, s.Contains(4))

	s.Clear(3)
	assert.False(t, s.Contains(3))

	s.Clear(100000) // beyond capacity, no-op
	assert.Equal(t, 0, s.Count())
}

func TestWordsAutoGrow(t *testing.T) {
	s := NewWords()
	assert.Equal(t, 0, s.Capacity())

	s.Set(200)
	assert.True(t, s.Contains(200))
	assert.GreaterOrEqual(t, s.Capacity(), 201)

	capa := s.Capacity()
	s.Grow(10) // never shrinks
	assert.Equal(t, capa, s.Capacity())

	s.Grow(1000)
	assert.GreaterOrEqual(t, s.Capacity(), 1000)
	assert.True(t, s.Contains(200)) // growing preserves membership
	assert.Equal(t, 1, s.Count())
}

func TestWordsSetBetween(t *testing.T) {
	s := NewWords()
	s.SetBetween(10, 140)
	assert.Equal(t, 130, s.Count())
	assert.False(t, s.Contains(9))
	assert.True(t, s.Contains(10))
	assert.True(t, s.Contains(139))
	assert.False(t, s.Contains(140))

	empty := NewWords()
	empty.SetBetween(5, 5) // empty range
	assert.Equal(t, 0, empty.Count())

	one := NewWords()
	one.SetBetween(63, 65) // straddles a word boundary
	assert.True(t, one.Contains(63))
	assert.True(t, one.Contains(64))
	assert.Equal(t, 2, one.Count())
}

func TestWordsFirstSet(t *testing.T) {
	s := NewWords()
	_, ok := s.FirstSet()
	assert.False(t, ok)

	s.Set(70)
	s.Set(5)
	s.Set(200)

	i, ok := s.FirstSet()
	require.True(t, ok)
	assert.Equal(t, 5, i)

	i, ok = s.FirstSetGE(6)
	require.True(t, ok)
	assert.Equal(t, 70, i)

	i, ok = s.FirstSetGE(70)
	require.True(t, ok)
	assert.Equal(t, 70, i)

	_, ok = s.FirstSetGE(201)
	assert.False(t, ok)
}

func TestWordsFirstUnset(t *testing.T) {
	s := NewWords()
	assert.Equal(t, 0, s.FirstUnset())

	s.SetBetween(0, 66)
	assert.Equal(t, 66, s.FirstUnset())
	assert.Equal(t, 66, s.FirstUnsetGE(30))
	assert.Equal(t, 100, s.FirstUnsetGE(100))

	// Fully set words: the first unset is past the capacity.
	full := NewWords()
	full.SetBetween(0, 128)
	assert.Equal(t, 128, full.FirstUnset())
	assert.Equal(t, 500, full.FirstUnsetGE(500))
}

func TestWordsNth(t *testing.T) {
	s := NewWords()
	for _, i := range []int{4, 9, 64, 100, 330} {
		s.Set(i)
	}

	want := []int{4, 9, 64, 100, 330}
	for n, w := range want {
		got, ok := s.Nth(n)
		require.True(t, ok, "nth(%d)", n)
		assert.Equal(t, w, got, "nth(%d)", n)
	}
	_, ok := s.Nth(5)
	assert.False(t, ok)
	_, ok = s.Nth(-1)
	assert.False(t, ok)
}

func TestWordsPopFirstSet(t *testing.T) {
	s := NewWords()
	s.Set(8)
	s.Set(3)
	s.Set(64)

	var got []int
	for {
		i, ok := s.PopFirstSet()
		if !ok {
			break
		}
		got = append(got, i)
	}
	assert.Equal(t, []int{3, 8, 64}, got)
	assert.Equal(t, 0, s.Count())
}

func TestWordsSetAlgebra(t *testing.T) {
	mk := func(elems ...int) *Words {
		s := NewWords()
		for _, e := range elems {
			s.Set(e)
		}
		return s
	}
	elems := func(s *Words) []int {
		var out []int
		next := Iter(s)
		for i, ok := next(); ok; i, ok = next() {
			out = append(out, i)
		}
		return out
	}

	u := mk(1, 2, 65)
	u.UnionWith(mk(2, 3, 400))
	assert.Equal(t, []int{1, 2, 3, 65, 400}, elems(u))

	i := mk(1, 2, 65, 400)
	i.IntersectWith(mk(2, 65, 500))
	assert.Equal(t, []int{2, 65}, elems(i))

	d := mk(1, 2, 65, 400)
	d.DifferenceWith(mk(2, 400, 999))
	assert.Equal(t, []int{1, 65}, elems(d))

	dst := mk(7) // overwritten by Intersect
	dst.Intersect(mk(1, 2, 65, 400), mk(2, 65, 500))
	assert.Equal(t, []int{2, 65}, elems(dst))
	assert.GreaterOrEqual(t, dst.Capacity(), 500)
}

func TestWordsIntersectFirstSetGE(t *testing.T) {
	a := NewWords()
	b := NewWords()
	for _, i := range []int{3, 64, 128, 300} {
		a.Set(i)
	}
	for _, i := range []int{5, 64, 300} {
		b.Set(i)
	}

	i, ok := IntersectFirstSet(a, b)
	require.True(t, ok)
	assert.Equal(t, 64, i)

	i, ok = a.IntersectFirstSetGE(b, 65)
	require.True(t, ok)
	assert.Equal(t, 300, i)

	_, ok = a.IntersectFirstSetGE(b, 301)
	assert.False(t, ok)
}

func TestWordsIterators(t *testing.T) {
	collect := func(next func() (int, bool)) []int {
		var out []int
		for i, ok := next(); ok; i, ok = next() {
			out = append(out, i)
		}
		return out
	}
	a := NewWords()
	b := NewWords()
	for _, i := range []int{1, 5, 70} {
		a.Set(i)
	}
	for _, i := range []int{5, 6, 300} {
		b.Set(i)
	}

	assert.Equal(t, []int{1, 5, 70}, collect(Iter(a)))
	assert.Equal(t, []int{1, 5, 6, 70, 300}, collect(IterUnion(a, b)))
	assert.Equal(t, []int{5}, collect(IterIntersection(a, b)))
	assert.Equal(t, []int{1, 70}, collect(IterDifference(a, b)))
	assert.Equal(t, []int{6, 300}, collect(IterIntersectionGE(b, b, 6)))
}

func TestWordsClearAll(t *testing.T) {
	s := NewWords()
	s.SetBetween(0, 100)
	capa := s.Capacity()
	s.ClearAll()
	assert.Equal(t, 0, s.Count())
	assert.Equal(t, capa, s.Capacity())
}

func TestWordsString(t *testing.T) {
	s := NewWords()
	assert.Equal(t, "{}", s.String())
	s.Set(2)
	s.Set(9)
	assert.Equal(t, "{2 9}", s.String())
}
