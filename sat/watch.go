package sat

import "github.com/rhartert/bitsat/bitset"

// watchRef is one entry of a literal's watch list: the index of a clause
// watching the literal, and the clause slot's generation at install time.
// Deleting a clause does not eagerly clean its watchers; a stale ref is
// recognized by its generation and dropped on the next traversal.
type watchRef struct {
	clause int
	gen    generation
}

// install picks the watched literals of the clause at idx and registers
// them. The clause must have just been pushed at the current trail state:
// if it is unit under the current partial model it is marked ready for
// propagation, and if all its literals are false at decision level 0 the
// formula is flagged unsatisfiable.
func (s *Solver[S]) install(idx int) {
	c, ok := s.clauses.value(idx)
	if !ok {
		panic("sat: install on tombstoned clause")
	}

	var nonFalse [2]Literal // true or unassigned literals, preferred watches
	var falseLit [2]Literal
	nNonFalse, nFalse, nUnassigned := 0, 0, 0

	next := bitset.Iter(c.Variables)
	for v, hasNext := next(); hasNext; v, hasNext = next() {
		l := c.literalOf(v)
		switch s.litValue(l) {
		case False:
			if nFalse < 2 {
				falseLit[nFalse] = l
			}
			nFalse++
		case Unknown:
			nUnassigned++
			fallthrough
		default:
			if nNonFalse < 2 {
				nonFalse[nNonFalse] = l
			}
			nNonFalse++
		}
	}

	switch {
	case nNonFalse == 0 && nFalse == 0:
		// Empty clause.
		s.unsat = true
		return
	case nNonFalse == 0:
		// All literals false. Only reachable at the root level (clauses
		// are installed either after a backjump to level 0 or right after
		// learning, when the asserting literal is unassigned).
		if s.level != 0 {
			panic("sat: installed a falsified clause above level 0")
		}
		s.unsat = true
		c.watch[0], c.watch[1] = falseLit[0], falseLit[0]
	case nNonFalse == 1:
		c.watch[0] = nonFalse[0]
		c.watch[1] = nonFalse[0]
		if nFalse > 0 {
			c.watch[1] = falseLit[0]
		}
		if nUnassigned == 1 && s.litValue(nonFalse[0]) == Unknown {
			// Unit: every other literal is false.
			s.ready.Set(idx)
			s.tracef("install: clause %d %s is unit", idx, c)
		}
	default:
		c.watch[0], c.watch[1] = nonFalse[0], nonFalse[1]
	}

	gen := s.clauses.generation(idx)
	s.watchLiteral(c.watch[0], idx, gen)
	if c.watch[1] != c.watch[0] {
		s.watchLiteral(c.watch[1], idx, gen)
	}
}

func (s *Solver[S]) watchLiteral(l Literal, idx int, gen generation) {
	i := l.index()
	s.watchers[i] = append(s.watchers[i], watchRef{clause: idx, gen: gen})
}

// onLiteralFalsified processes the watch list of l after l was falsified
// (its negation was just assigned true). Watches are moved to other
// non-false literals where possible; clauses left with a single non-false
// literal are marked ready for propagation. Returns the index of a
// conflicting clause, or -1.
func (s *Solver[S]) onLiteralFalsified(l Literal) int {
	li := l.index()
	refs := s.watchers[li]
	j := 0
	for i := 0; i < len(refs); i++ {
		w := refs[i]
		if s.clauses.generation(w.clause) != w.gen {
			continue // stale watcher of a deleted clause
		}
		c, ok := s.clauses.value(w.clause)
		if !ok {
			continue
		}
		if s.clauseSatisfied(c) {
			refs[j] = w
			j++
			continue
		}
		if m, ok := s.replacementWatch(c); ok {
			if c.watch[0] == l {
				c.watch[0] = m
			} else {
				c.watch[1] = m
			}
			s.watchLiteral(m, w.clause, w.gen)
			s.tracef("watch: clause %d moves watch %s -> %s", w.clause, l, m)
			continue
		}
		other := c.watch[0]
		if other == l {
			other = c.watch[1]
		}
		if s.litValue(other) != False {
			// The other watched literal is the only non-false literal
			// left: the clause is (or is about to become) unit.
			s.ready.Set(w.clause)
			refs[j] = w
			j++
			continue
		}
		// No non-false literal remains: conflict. Keep the remaining
		// watchers before reporting.
		for ; i < len(refs); i++ {
			refs[j] = refs[i]
			j++
		}
		s.watchers[li] = refs[:j]
		return w.clause
	}
	s.watchers[li] = refs[:j]
	return -1
}

// replacementWatch returns a literal of c that is neither watched nor false,
// if one exists.
func (s *Solver[S]) replacementWatch(c *Clause[S]) (Literal, bool) {
	next := bitset.Iter(c.Variables)
	for v, ok := next(); ok; v, ok = next() {
		m := c.literalOf(v)
		if m == c.watch[0] || m == c.watch[1] {
			continue
		}
		if s.litValue(m) != False {
			return m, true
		}
	}
	return 0, false
}

// clauseSatisfied returns true if some literal of c is true under the
// current partial model.
func (s *Solver[S]) clauseSatisfied(c *Clause[S]) bool {
	next := bitset.Iter(c.Variables)
	for v, ok := next(); ok; v, ok = next() {
		val := s.varVal[v]
		if val == Unknown {
			continue
		}
		if (val == True) != c.Negatives.Contains(v) {
			return true
		}
	}
	return false
}
