package sat

import (
	"sort"

	"github.com/rhartert/bitsat/bitset"
)

// reduceDB deletes the lower-activity half of the learned clauses. A clause
// is kept when it currently justifies a trail entry (numUnits > 0) or when
// deleting it is not considered safe: short, tight clauses prune far more
// of the search space than they cost to keep.
func (s *Solver[S]) reduceDB() {
	if s.numLearnts == 0 {
		return
	}

	learned := make([]int, 0, s.numLearnts)
	for idx := 0; idx < s.clauses.size(); idx++ {
		if c, ok := s.clauses.value(idx); ok && c.fromConflict {
			learned = append(learned, idx)
		}
	}
	sort.Slice(learned, func(i, j int) bool {
		ci, _ := s.clauses.value(learned[i])
		cj, _ := s.clauses.value(learned[j])
		return ci.score < cj.score
	})

	removed := 0
	for _, idx := range learned[:len(learned)/2] {
		c, _ := s.clauses.value(idx)
		if c.numUnits > 0 {
			continue
		}
		if !s.safeToDelete(c) {
			continue
		}
		s.deleteClause(idx)
		removed++
	}
	s.tracef("reduce: deleted %d of %d learned clauses", removed, len(learned))
}

// safeToDelete reports whether the clause can be removed without destroying
// a short or tight clause: it must span at least three literals or three
// distinct decision levels.
func (s *Solver[S]) safeToDelete(c *Clause[S]) bool {
	if c.size() >= 3 {
		return true
	}
	s.seenLevels.Clear()
	distinct := 0
	next := bitset.Iter(c.Variables)
	for v, ok := next(); ok; v, ok = next() {
		lvl := s.varLevel(v)
		if lvl < 0 || s.seenLevels.Contains(lvl) {
			continue
		}
		s.seenLevels.Add(lvl)
		distinct++
	}
	return distinct >= 3
}

// deleteClause tombstones the clause's slot and returns its bitsets to the
// pool. Watchers referring to the slot become stale and are dropped lazily
// by their generation tag.
func (s *Solver[S]) deleteClause(idx int) {
	c := s.clauses.remove(idx)
	if c.fromConflict {
		s.numLearnts--
	}
	s.ready.Clear(idx)
	s.pool.Release(c.Variables)
	s.pool.Release(c.Negatives)
	s.tracef("delete: clause %d", idx)
}
