package sat

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTablePushValue(t *testing.T) {
	tb := newTable[string]()

	i0, g0 := tb.push("a")
	i1, g1 := tb.push("b")
	assert.Equal(t, 0, i0)
	assert.Equal(t, 1, i1)
	assert.Equal(t, generation(0), g0)
	assert.Equal(t, generation(0), g1)
	assert.Equal(t, 2, tb.live())

	v, ok := tb.value(i0)
	require.True(t, ok)
	assert.Equal(t, "a", v)
}

func TestTableTombstoneAndReuse(t *testing.T) {
	tb := newTable[string]()
	i0, g0 := tb.push("a")
	tb.push("b")

	got := tb.remove(i0)
	assert.Equal(t, "a", got)
	assert.Equal(t, 1, tb.live())

	// The index stays dereferenceable but yields nothing.
	_, ok := tb.value(i0)
	assert.False(t, ok)

	// A stale reference recorded before the deletion no longer matches.
	assert.NotEqual(t, g0, tb.generation(i0))

	// The slot is reused with yet another generation.
	i2, g2 := tb.push("c")
	assert.Equal(t, i0, i2)
	assert.NotEqual(t, g0, g2)
	v, ok := tb.value(i2)
	require.True(t, ok)
	assert.Equal(t, "c", v)
}

func TestTableFreeListIsLIFO(t *testing.T) {
	tb := newTable[int]()
	for i := 0; i < 4; i++ {
		tb.push(i)
	}
	tb.remove(1)
	tb.remove(3)

	i, _ := tb.push(10)
	assert.Equal(t, 3, i)
	i, _ = tb.push(11)
	assert.Equal(t, 1, i)
	i, _ = tb.push(12)
	assert.Equal(t, 4, i) // free list drained, fresh slot
	assert.Equal(t, 5, tb.size())
}

func TestTableRemoveTombstonePanics(t *testing.T) {
	tb := newTable[int]()
	i, _ := tb.push(1)
	tb.remove(i)
	assert.Panics(t, func() { tb.remove(i) })
}

func TestPoolRecycles(t *testing.T) {
	p := Pool[[]int]{}
	calls := 0
	factory := func() []int {
		calls++
		return make([]int, 0, 8)
	}

	a := p.Acquire(factory)
	assert.Equal(t, 1, calls)
	p.Release(a)
	assert.Equal(t, 1, p.Len())

	b := p.Acquire(factory)
	assert.Equal(t, 1, calls) // reused, factory not called again
	_ = b
	assert.Equal(t, 0, p.Len())

	c := p.Acquire(factory)
	assert.Equal(t, 2, calls)
	_ = c
}

func TestResetSet(t *testing.T) {
	rs := ResetSet{}
	rs.GrowBy(4)
	assert.Equal(t, 4, rs.Capacity())

	rs.Clear()
	assert.False(t, rs.Contains(2))
	rs.Add(2)
	assert.True(t, rs.Contains(2))

	rs.Clear()
	assert.False(t, rs.Contains(2))

	// Survives many clears, including the timestamp wrap.
	for i := 0; i < 70000; i++ {
		rs.Clear()
	}
	assert.False(t, rs.Contains(2))
	rs.Add(3)
	assert.True(t, rs.Contains(3))
}
