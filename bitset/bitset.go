// Package bitset provides sets of small non-negative integers with set
// algebra and positional queries. Two implementations are available: Words,
// a flat word-array suited to dense medium-sized sets, and Tree, a balanced
// tree of integers suited to very sparse sets. Both implement the Set
// interface and are interchangeable.
package bitset

// Set is the interface shared by the bitset implementations. The type
// parameter is the implementation itself so that binary operations such as
// UnionWith operate on two sets of the same representation.
type Set[S any] interface {
	// New returns a fresh empty set of the same implementation.
	New() S

	// Grow ensures capacity for at least the given number of bits. Growing
	// never shrinks the set and has no effect on membership.
	Grow(bits int)

	// Capacity returns the number of bits the set can currently hold
	// without growing.
	Capacity() int

	// Set adds i to the set, growing the set if necessary.
	Set(i int)

	// Clear removes i from the set. Clearing a bit beyond the set's
	// capacity is a no-op.
	Clear(i int)

	// Contains returns true if i is in the set. Bits beyond the set's
	// capacity are not in the set.
	Contains(i int) bool

	// ClearAll removes all elements. The capacity is left untouched.
	ClearAll()

	// SetBetween adds all elements in [lo, hi) to the set.
	SetBetween(lo, hi int)

	// FirstSet returns the minimum element, or false if the set is empty.
	FirstSet() (int, bool)

	// FirstSetGE returns the minimum element >= i, or false if there is
	// none.
	FirstSetGE(i int) (int, bool)

	// FirstUnset returns the minimum integer not in the set. The complement
	// is unbounded so a minimum always exists.
	FirstUnset() int

	// FirstUnsetGE returns the minimum integer >= i not in the set.
	FirstUnsetGE(i int) int

	// Nth returns the n-th element in increasing order (0-based), or false
	// if the set has n or fewer elements.
	Nth(n int) (int, bool)

	// Count returns the number of elements in the set.
	Count() int

	// PopFirstSet removes and returns the minimum element, or false if the
	// set is empty.
	PopFirstSet() (int, bool)

	// UnionWith adds all elements of other to the set.
	UnionWith(other S)

	// IntersectWith removes all elements not in other.
	IntersectWith(other S)

	// DifferenceWith removes all elements of other.
	DifferenceWith(other S)

	// Intersect replaces the set's content with the intersection of a and
	// b, growing the set to the larger of the two capacities. The receiver
	// must be distinct from both operands.
	Intersect(a, b S)

	// IntersectFirstSetGE returns the minimum element >= i present in both
	// the set and other, without materializing the intersection.
	IntersectFirstSetGE(other S, i int) (int, bool)
}

// IntersectFirstSet returns the minimum element present in both a and b.
func IntersectFirstSet[S Set[S]](a, b S) (int, bool) {
	return a.IntersectFirstSetGE(b, 0)
}

// Iter returns a pull iterator over the elements of s in increasing order.
// The iterator returns false once exhausted.
func Iter[S Set[S]](s S) func() (int, bool) {
	next := 0
	return func() (int, bool) {
		i, ok := s.FirstSetGE(next)
		if !ok {
			return 0, false
		}
		next = i + 1
		return i, true
	}
}

// IterUnion returns a pull iterator over the elements of a ∪ b in increasing
// order.
func IterUnion[S Set[S]](a, b S) func() (int, bool) {
	next := 0
	return func() (int, bool) {
		i, okA := a.FirstSetGE(next)
		j, okB := b.FirstSetGE(next)
		switch {
		case okA && okB:
			if j < i {
				i = j
			}
		case okB:
			i = j
		case !okA:
			return 0, false
		}
		next = i + 1
		return i, true
	}
}

// IterIntersection returns a pull iterator over the elements of a ∩ b in
// increasing order.
func IterIntersection[S Set[S]](a, b S) func() (int, bool) {
	return IterIntersectionGE(a, b, 0)
}

// IterIntersectionGE returns a pull iterator over the elements of a ∩ b that
// are >= i, in increasing order.
func IterIntersectionGE[S Set[S]](a, b S, i int) func() (int, bool) {
	next := i
	return func() (int, bool) {
		e, ok := a.IntersectFirstSetGE(b, next)
		if !ok {
			return 0, false
		}
		next = e + 1
		return e, true
	}
}

// IterDifference returns a pull iterator over the elements of a \ b in
// increasing order.
func IterDifference[S Set[S]](a, b S) func() (int, bool) {
	next := 0
	return func() (int, bool) {
		for {
			i, ok := a.FirstSetGE(next)
			if !ok {
				return 0, false
			}
			next = i + 1
			if !b.Contains(i) {
				return i, true
			}
		}
	}
}

// leapfrog is the generic fallback for IntersectFirstSetGE. Implementations
// that cannot probe whole words (e.g. Tree) alternate between the two sets,
// each probe jumping to the other set's candidate.
func leapfrog[S Set[S]](a, b S, i int) (int, bool) {
	for {
		x, ok := a.FirstSetGE(i)
		if !ok {
			return 0, false
		}
		y, ok := b.FirstSetGE(x)
		if !ok {
			return 0, false
		}
		if x == y {
			return x, true
		}
		i = y
	}
}
