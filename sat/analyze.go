package sat

import "github.com/rhartert/bitsat/bitset"

// resolveConflict applies first-UIP conflict analysis to the conflicting
// clause, learns the resulting asserting clause, and backjumps to the
// second-highest decision level among its literals. After the learned
// clause is installed it is ready for propagation, so the next propagation
// pass asserts its unit literal. Must be called above decision level 0.
func (s *Solver[S]) resolveConflict(conflictIdx int) {
	confl, ok := s.clauses.value(conflictIdx)
	if !ok {
		panic("sat: conflict on a tombstoned clause")
	}

	learnedVars := s.acquireSet()
	learnedNegs := s.acquireSet()
	learnedVars.UnionWith(confl.Variables)
	learnedNegs.UnionWith(confl.Negatives)

	// Number of learned-clause literals assigned at the current decision
	// level. The walk below resolves until a single one remains: the first
	// unique implication point.
	numAtLevel := 0
	next := bitset.Iter(learnedVars)
	for v, ok := next(); ok; v, ok = next() {
		if s.varLevel(v) == s.level {
			numAtLevel++
		}
	}

	for i := len(s.trail) - 1; i >= 0; i-- {
		if numAtLevel == 1 {
			break
		}
		e := s.trail[i]
		v := e.literal.Var()
		if !learnedVars.Contains(v) {
			continue
		}
		if e.reason.decision {
			panic("sat: first-UIP walk reached a decision")
		}
		rc, ok := s.clauses.value(e.reason.clause)
		if !ok {
			panic("sat: reason clause was deleted")
		}

		s.order.bump(e.literal)
		s.bumpClauseActivity(rc)

		// Update the current-level count with the literals the resolvent
		// introduces, then drop the resolved variable.
		rnext := bitset.Iter(rc.Variables)
		for rv, rok := rnext(); rok; rv, rok = rnext() {
			if learnedVars.Contains(rv) {
				continue
			}
			if s.varLevel(rv) == s.level {
				numAtLevel++
			}
		}
		numAtLevel--

		learnedVars.UnionWith(rc.Variables)
		learnedNegs.UnionWith(rc.Negatives)
		learnedVars.Clear(v)
		learnedNegs.Clear(v)
	}

	lnext := bitset.Iter(learnedVars)
	for v, ok := lnext(); ok; v, ok = lnext() {
		s.order.bump(MkLiteral(v, !learnedNegs.Contains(v)))
	}

	beta := s.secondHighestLevel(learnedVars)
	learned := &Clause[S]{
		Variables:    learnedVars,
		Negatives:    learnedNegs,
		fromConflict: true,
		score:        s.clauseInc,
	}
	s.backjumpTo(beta)
	idx, _ := s.clauses.push(learned)
	s.numLearnts++
	s.install(idx)
	s.tracef("learn: clause %d %s, backjump to level %d", idx, learned, beta)
}

// secondHighestLevel returns the second-highest decision level among the
// given variables, or 0 when all of them share the highest level.
func (s *Solver[S]) secondHighestLevel(vars S) int {
	max1, max2 := 0, 0
	next := bitset.Iter(vars)
	for v, ok := next(); ok; v, ok = next() {
		lvl := s.varLevel(v)
		if lvl > max1 {
			max2 = max1
			max1 = lvl
		} else if lvl > max2 && lvl < max1 {
			max2 = lvl
		}
	}
	return max2
}

// bumpClauseActivity increases the activity of a learned clause. Original
// clauses are never deleted and carry no activity.
func (s *Solver[S]) bumpClauseActivity(c *Clause[S]) {
	if !c.fromConflict {
		return
	}
	c.score += s.clauseInc
	if c.score > s.opts.RescaleThreshold {
		s.rescaleClauseActivities()
	}
}

func (s *Solver[S]) decayClauseActivities() {
	s.clauseInc /= s.opts.ClauseDecay
	if s.clauseInc > s.opts.RescaleThreshold {
		s.rescaleClauseActivities()
	}
}

// rescaleClauseActivities divides every clause activity and the increment
// by the rescale threshold, preserving proportions.
func (s *Solver[S]) rescaleClauseActivities() {
	f := 1 / s.opts.RescaleThreshold
	s.clauseInc *= f
	for idx := 0; idx < s.clauses.size(); idx++ {
		if c, ok := s.clauses.value(idx); ok && c.fromConflict {
			c.score *= f
		}
	}
}
