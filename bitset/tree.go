package bitset

import (
	"strconv"
	"strings"

	"github.com/google/btree"
)

// btreeDegree is the order of the underlying B-tree. The value follows the
// btree package's guidance for small integer items.
const btreeDegree = 16

// Tree is a bitset backed by a balanced tree of integers. Memory is
// proportional to the number of elements rather than to the universe, which
// makes Tree preferable for very sparse sets with large elements.
type Tree struct {
	items *btree.BTreeG[int]
}

// NewTree returns a new empty set.
func NewTree() *Tree {
	return &Tree{items: btree.NewOrderedG[int](btreeDegree)}
}

// New implements Set.
func (s *Tree) New() *Tree {
	return NewTree()
}

// Grow implements Set. It has no effect: the tree grows on insertion, and
// its capacity does not reach nbits after Grow unless an element >= nbits-1
// is present.
func (s *Tree) Grow(nbits int) {}

// Capacity implements Set. The capacity is the maximum element plus one, or
// 0 for an empty set. Unlike that of Words, it shrinks when the maximum
// element is removed and drops to 0 on ClearAll.
func (s *Tree) Capacity() int {
	max, ok := s.items.Max()
	if !ok {
		return 0
	}
	return max + 1
}

// Set implements Set.
func (s *Tree) Set(i int) {
	s.items.ReplaceOrInsert(i)
}

// Clear implements Set.
func (s *Tree) Clear(i int) {
	s.items.Delete(i)
}

// Contains implements Set.
func (s *Tree) Contains(i int) bool {
	return s.items.Has(i)
}

// ClearAll implements Set.
func (s *Tree) ClearAll() {
	s.items.Clear(true)
}

// SetBetween implements Set.
func (s *Tree) SetBetween(lo, hi int) {
	for i := lo; i < hi; i++ {
		s.items.ReplaceOrInsert(i)
	}
}

// FirstSet implements Set.
func (s *Tree) FirstSet() (int, bool) {
	return s.items.Min()
}

// FirstSetGE implements Set.
func (s *Tree) FirstSetGE(i int) (int, bool) {
	found, ok := 0, false
	s.items.AscendGreaterOrEqual(i, func(item int) bool {
		found, ok = item, true
		return false
	})
	return found, ok
}

// FirstUnset implements Set.
func (s *Tree) FirstUnset() int {
	return s.FirstUnsetGE(0)
}

// FirstUnsetGE implements Set.
func (s *Tree) FirstUnsetGE(i int) int {
	expected := i
	s.items.AscendGreaterOrEqual(i, func(item int) bool {
		if item != expected {
			return false
		}
		expected++
		return true
	})
	return expected
}

// Nth implements Set.
func (s *Tree) Nth(n int) (int, bool) {
	if n < 0 {
		return 0, false
	}
	found, ok := 0, false
	s.items.Ascend(func(item int) bool {
		if n == 0 {
			found, ok = item, true
			return false
		}
		n--
		return true
	})
	return found, ok
}

// Count implements Set.
func (s *Tree) Count() int {
	return s.items.Len()
}

// PopFirstSet implements Set.
func (s *Tree) PopFirstSet() (int, bool) {
	return s.items.DeleteMin()
}

// UnionWith implements Set.
func (s *Tree) UnionWith(other *Tree) {
	other.items.Ascend(func(item int) bool {
		s.items.ReplaceOrInsert(item)
		return true
	})
}

// IntersectWith implements Set.
func (s *Tree) IntersectWith(other *Tree) {
	var gone []int
	s.items.Ascend(func(item int) bool {
		if !other.items.Has(item) {
			gone = append(gone, item)
		}
		return true
	})
	for _, item := range gone {
		s.items.Delete(item)
	}
}

// DifferenceWith implements Set.
func (s *Tree) DifferenceWith(other *Tree) {
	other.items.Ascend(func(item int) bool {
		s.items.Delete(item)
		return true
	})
}

// Intersect implements Set.
func (s *Tree) Intersect(a, b *Tree) {
	s.items.Clear(true)
	a.items.Ascend(func(item int) bool {
		if b.items.Has(item) {
			s.items.ReplaceOrInsert(item)
		}
		return true
	})
}

// IntersectFirstSetGE implements Set.
func (s *Tree) IntersectFirstSetGE(other *Tree, i int) (int, bool) {
	return leapfrog[*Tree](s, other, i)
}

func (s *Tree) String() string {
	sb := strings.Builder{}
	sb.WriteByte('{')
	s.items.Ascend(func(item int) bool {
		if sb.Len() > 1 {
			sb.WriteByte(' ')
		}
		sb.WriteString(strconv.Itoa(item))
		return true
	})
	sb.WriteByte('}')
	return sb.String()
}
