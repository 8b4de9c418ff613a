package sat

import (
	"fmt"
	"math/rand"

	"github.com/rhartert/bitsat/bitset"
)

// Solver is a CDCL SAT solver parameterized on the bitset implementation
// used for clauses and index sets. All state is owned by the instance; the
// solver is single-threaded and deterministic for a fixed seed.
type Solver[S bitset.Set[S]] struct {
	opts Options

	// Clause database. Slots are tombstoned on deletion so that indices
	// stored in watch lists and trail reasons stay dereferenceable.
	clauses    table[*Clause[S]]
	numLearnts int

	// Pool of recycled bitsets, fed by clause deletion and drawn on by
	// ingest and conflict analysis.
	pool Pool[S]

	// Watch index: per-literal lists of watching clauses. The ready set
	// holds the indices of clauses that may currently be unit.
	watchers [][]watchRef
	ready    S

	// Assignment state. varVal and trailPos are indexed by variable;
	// allVars holds the variables that occur in the formula and unassigned
	// the subset without a value.
	varVal     []LBool
	trailPos   []int
	allVars    S
	unassigned S
	maxVar     int

	// Trail.
	trail []trailEntry
	level int

	// Heuristics.
	order                 *varOrder
	clauseInc             float64
	luby                  luby
	conflictsSinceRestart int64
	rng                   *rand.Rand

	// Scratch for reduction's distinct-level counting.
	seenLevels ResetSet

	// Whether the problem has reached a root-level conflict.
	unsat bool

	// Search statistics.
	TotalConflicts  int64
	TotalRestarts   int64
	TotalIterations int64
}

// trailEntry is one assignment on the trail.
type trailEntry struct {
	literal Literal
	level   int
	reason  reason
}

// New returns a solver loaded with the given formula. Clauses are lists of
// nonzero literals; a zero literal is rejected with an error. Zero-valued
// heuristic options are replaced by their DefaultOptions values.
func New[S bitset.Set[S]](opts Options, formula [][]int) (*Solver[S], error) {
	if opts.VarDecay == 0 {
		opts.VarDecay = DefaultOptions.VarDecay
	}
	if opts.ClauseDecay == 0 {
		opts.ClauseDecay = DefaultOptions.ClauseDecay
	}
	if opts.RescaleThreshold == 0 {
		opts.RescaleThreshold = DefaultOptions.RescaleThreshold
	}
	if opts.LubyUnit == 0 {
		opts.LubyUnit = DefaultOptions.LubyUnit
	}

	s := &Solver[S]{
		opts:      opts,
		clauses:   newTable[*Clause[S]](),
		order:     newVarOrder(opts.VarDecay, opts.RescaleThreshold),
		clauseInc: 1,
		luby:      newLuby(opts.LubyUnit),
		rng:       rand.New(rand.NewSource(opts.Seed)),
	}
	s.ready = s.newSet()
	s.allVars = s.newSet()
	s.unassigned = s.newSet()
	s.varVal = append(s.varVal, Unknown) // variable 0 is unused
	s.trailPos = append(s.trailPos, -1)
	s.watchers = append(s.watchers, nil, nil)
	s.seenLevels.GrowBy(1) // level 0

	for _, clause := range formula {
		if err := s.AddClause(clause); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// Default is a Solver over the word-array bitset implementation.
type Default = Solver[*bitset.Words]

// Sparse is a Solver over the balanced-tree bitset implementation.
type Sparse = Solver[*bitset.Tree]

// NewDefault returns a Default solver loaded with the given formula.
func NewDefault(opts Options, formula [][]int) (*Default, error) {
	return New[*bitset.Words](opts, formula)
}

// Solve decides the satisfiability of the formula with the default solver
// and options.
func Solve(formula [][]int) (SatResult, error) {
	s, err := NewDefault(DefaultOptions, formula)
	if err != nil {
		return SatResult{}, err
	}
	return s.Run(), nil
}

// SolveWithAssumptions decides the satisfiability of the formula under the
// given assumption literals.
func SolveWithAssumptions(formula [][]int, assumptions []int) (SatResult, error) {
	s, err := NewDefault(DefaultOptions, formula)
	if err != nil {
		return SatResult{}, err
	}
	return s.RunWithAssumptions(assumptions), nil
}

// NumVariables returns the number of variables occurring in the formula.
func (s *Solver[S]) NumVariables() int {
	return s.allVars.Count()
}

// NumClauses returns the number of live clauses, learned ones included.
func (s *Solver[S]) NumClauses() int {
	return s.clauses.live()
}

// NumLearnts returns the number of live learned clauses.
func (s *Solver[S]) NumLearnts() int {
	return s.numLearnts
}

// newSet mints an empty bitset of the solver's implementation.
func (s *Solver[S]) newSet() S {
	var zero S
	return zero.New()
}

// acquireSet takes a cleared bitset from the pool.
func (s *Solver[S]) acquireSet() S {
	set := s.pool.Acquire(s.newSet)
	set.ClearAll()
	return set
}

func (s *Solver[S]) tracef(format string, args ...any) {
	if s.opts.Trace == nil {
		return
	}
	fmt.Fprintf(s.opts.Trace, format+"\n", args...)
}

// growToVar extends the per-variable state up to variable v.
func (s *Solver[S]) growToVar(v int) {
	for s.maxVar < v {
		s.maxVar++
		s.varVal = append(s.varVal, Unknown)
		s.trailPos = append(s.trailPos, -1)
		s.watchers = append(s.watchers, nil, nil)
		s.order.addVar()
		s.seenLevels.GrowBy(1)
	}
}

// AddClause adds a clause to the formula. The solver may be used
// incrementally: clauses can be added between Run calls and the next Run
// picks them up. Duplicate literals are merged, tautologies (a variable
// occurring with both polarities) are ignored, and a literal 0 is rejected.
func (s *Solver[S]) AddClause(lits []int) error {
	polarity := make(map[int]bool, len(lits))
	tautology := false
	for _, l := range lits {
		if l == 0 {
			return fmt.Errorf("clause %v contains literal 0", lits)
		}
		v := l
		if v < 0 {
			v = -v
		}
		if pos, seen := polarity[v]; seen {
			if pos != (l > 0) {
				tautology = true
			}
			continue
		}
		polarity[v] = l > 0
	}
	if tautology {
		s.tracef("ingest: tautological clause %v ignored", lits)
		return nil
	}

	// New clauses are reconciled against the root level only.
	s.backjumpTo(0)

	if len(polarity) == 0 {
		s.tracef("ingest: empty clause")
		s.unsat = true
		return nil
	}

	variables := s.acquireSet()
	negatives := s.acquireSet()
	for v, pos := range polarity {
		s.growToVar(v)
		variables.Set(v)
		if !pos {
			negatives.Set(v)
		}
		if !s.allVars.Contains(v) {
			s.allVars.Set(v)
			if s.varVal[v] == Unknown {
				s.unassigned.Set(v)
			}
		}
	}

	c := &Clause[S]{Variables: variables, Negatives: negatives}
	idx, _ := s.clauses.push(c)
	s.install(idx)
	s.tracef("ingest: clause %d %s", idx, c)
	return nil
}

// litValue returns the value of l under the current partial model.
func (s *Solver[S]) litValue(l Literal) LBool {
	val := s.varVal[l.Var()]
	if l.IsPositive() {
		return val
	}
	return val.Neg()
}

// varLevel returns the decision level at which v was assigned, or -1.
func (s *Solver[S]) varLevel(v int) int {
	if p := s.trailPos[v]; p >= 0 {
		return s.trail[p].level
	}
	return -1
}

// addToTrail records the assignment of l with the given reason and triggers
// the watch index on the falsified opposite literal. Returns the index of a
// conflicting clause, or -1.
func (s *Solver[S]) addToTrail(l Literal, r reason) int {
	v := l.Var()
	if s.trailPos[v] != -1 {
		panic("sat: variable is already on the trail")
	}
	s.varVal[v] = Lift(l.IsPositive())
	s.trailPos[v] = len(s.trail)
	s.unassigned.Clear(v)
	s.trail = append(s.trail, trailEntry{literal: l, level: s.level, reason: r})
	if !r.decision {
		if c, ok := s.clauses.value(r.clause); ok {
			c.numUnits++
		}
	}
	s.tracef("trail: push %s at level %d", l, s.level)
	return s.onLiteralFalsified(l.Negate())
}

// undoOne pops the newest trail entry and restores the variable to the
// unassigned state.
func (s *Solver[S]) undoOne() {
	e := s.trail[len(s.trail)-1]
	s.trail = s.trail[:len(s.trail)-1]
	v := e.literal.Var()
	s.varVal[v] = Unknown
	s.trailPos[v] = -1
	if s.allVars.Contains(v) {
		s.unassigned.Set(v)
	}
	s.order.reinsert(v)
	if !e.reason.decision {
		if c, ok := s.clauses.value(e.reason.clause); ok {
			c.numUnits--
		}
	}
	s.tracef("trail: undo %s from level %d", e.literal, e.level)
}

// backjumpTo pops the trail down to the given level. Entries at the level
// itself are kept.
func (s *Solver[S]) backjumpTo(level int) {
	for len(s.trail) > 0 && s.trail[len(s.trail)-1].level > level {
		s.undoOne()
	}
	if level < 0 {
		level = 0
	}
	s.level = level
}

// propagate drains the ready set, asserting the unit literal of every
// clause that is still unit when popped.
func (s *Solver[S]) propagate() (propagation, int) {
	if _, ok := s.ready.FirstSet(); !ok {
		return nothingToPropagate, -1
	}
	for {
		idx, ok := s.ready.PopFirstSet()
		if !ok {
			return finishedUnitPropagation, -1
		}
		c, live := s.clauses.value(idx)
		if !live {
			continue
		}
		v, ok := s.unassigned.IntersectFirstSetGE(c.Variables, 0)
		if !ok {
			continue // fully assigned since it was marked ready
		}
		if _, more := s.unassigned.IntersectFirstSetGE(c.Variables, v+1); more {
			continue // not unit anymore; the watch index re-marks if needed
		}
		if s.clauseSatisfied(c) {
			continue
		}
		l := c.literalOf(v)
		s.tracef("propagate: clause %d forces %s", idx, l)
		if conflict := s.addToTrail(l, clauseReason(idx)); conflict >= 0 {
			s.tracef("conflict: clause %d", conflict)
			return contradiction, conflict
		}
	}
}

// Step advances the solver by one interesting step: a full unit-propagation
// pass, a conflict resolution, or a decision. A non-nil override replaces
// the decision literal the heuristic would have picked; its variable must
// be unassigned.
func (s *Solver[S]) Step(override *Literal) StepResult {
	s.TotalIterations++
	if s.unsat {
		return doneUnsat()
	}
	if s.opts.ReduceEvery > 0 && s.TotalIterations%s.opts.ReduceEvery == 0 {
		s.reduceDB()
	}
	res, conflict := s.propagate()
	switch res {
	case contradiction:
		return s.onConflict(conflict)
	case finishedUnitPropagation:
		return continueSearch()
	default:
		return s.decide(override)
	}
}

// onConflict resolves a conflict: at the root level the formula is
// unsatisfiable; above it, a clause is learned and the solver backjumps.
// Restarts are scheduled here against the Luby sequence.
func (s *Solver[S]) onConflict(conflictIdx int) StepResult {
	s.TotalConflicts++
	s.conflictsSinceRestart++
	if s.level == 0 {
		s.unsat = true
		return doneUnsat()
	}
	s.resolveConflict(conflictIdx)
	s.order.decayScores()
	s.decayClauseActivities()
	if uint64(s.conflictsSinceRestart) >= s.luby.value() {
		s.luby.advance()
		s.restart()
	}
	return continueSearch()
}

// decide assigns the next decision literal, or reports Sat when every
// variable is assigned.
func (s *Solver[S]) decide(override *Literal) StepResult {
	if s.unassigned.Count() == 0 {
		model := s.model()
		if s.opts.CheckModel {
			s.verifyModel(model)
		}
		return doneSat(model)
	}
	var l Literal
	if override != nil {
		l = *override
	} else {
		l = s.pickBranchLiteral()
	}
	s.level++
	s.tracef("decide: %s at level %d", l, s.level)
	if conflict := s.addToTrail(l, decisionReason()); conflict >= 0 {
		s.tracef("conflict: clause %d", conflict)
		return s.onConflict(conflict)
	}
	return continueSearch()
}

func (s *Solver[S]) pickBranchLiteral() Literal {
	if s.opts.Branching == BranchingRandom {
		n := s.rng.Intn(s.unassigned.Count())
		v, ok := s.unassigned.Nth(n)
		if !ok {
			panic("sat: unassigned set smaller than its count")
		}
		return MkLiteral(v, s.rng.Intn(2) == 0)
	}
	l, ok := s.order.next(func(v int) bool { return s.unassigned.Contains(v) })
	if !ok {
		panic("sat: empty variable order with unassigned variables")
	}
	return l
}

// restart clears the trail and the ready set and reseeds the latter by
// rescanning for unit clauses.
func (s *Solver[S]) restart() {
	s.TotalRestarts++
	s.conflictsSinceRestart = 0
	s.backjumpTo(-1)
	s.ready.ClearAll()
	s.seedReady()
	s.tracef("restart %d", s.TotalRestarts)
}

// seedReady scans the live clauses and marks the current unit clauses
// ready. A clause with no unassigned and no true literal flags the formula
// unsatisfiable (only possible at the root level).
func (s *Solver[S]) seedReady() {
	for idx := 0; idx < s.clauses.size(); idx++ {
		c, live := s.clauses.value(idx)
		if !live {
			continue
		}
		v, ok := s.unassigned.IntersectFirstSetGE(c.Variables, 0)
		if !ok {
			if !s.clauseSatisfied(c) {
				s.unsat = true
				return
			}
			continue
		}
		if _, more := s.unassigned.IntersectFirstSetGE(c.Variables, v+1); more {
			continue
		}
		if s.clauseSatisfied(c) {
			continue
		}
		s.ready.Set(idx)
	}
}

// Run iterates Step until the search completes. The solver restarts first
// so that the ready set reflects the current clause database.
func (s *Solver[S]) Run() SatResult {
	s.restart()
	for {
		if st := s.Step(nil); st.Done {
			s.backjumpTo(0)
			return st.Result
		}
	}
}

// RunWithAssumptions runs the search with the given literals installed as
// the first decisions, re-established after every step. If an assumption
// contradicts an implied assignment the call returns Unsat and the solver
// stays usable for further calls.
func (s *Solver[S]) RunWithAssumptions(assumptions []int) SatResult {
	s.restart()
	for {
		if s.unsat {
			return SatResult{Sat: false}
		}
		res, conflict := s.propagate()
		if res == contradiction {
			if st := s.onConflict(conflict); st.Done {
				s.backjumpTo(0)
				return st.Result
			}
			continue
		}

		// Propagation has saturated: make sure every assumption holds,
		// deciding the first one that is still unassigned.
		var pending Literal
		failed := false
		for _, a := range assumptions {
			l := Literal(a)
			if l == 0 {
				panic("sat: assumption literal 0")
			}
			s.growToVar(l.Var())
			switch s.litValue(l) {
			case True:
				continue
			case False:
				failed = true
			default:
				pending = l
			}
			break
		}
		if failed {
			s.tracef("assumptions: contradicted by current assignment")
			s.backjumpTo(0)
			return SatResult{Sat: false}
		}
		if pending != 0 {
			s.level++
			s.tracef("assume: %s at level %d", pending, s.level)
			if conflict := s.addToTrail(pending, decisionReason()); conflict >= 0 {
				if st := s.onConflict(conflict); st.Done {
					s.backjumpTo(0)
					return st.Result
				}
			}
			continue
		}

		if st := s.Step(nil); st.Done {
			s.backjumpTo(0)
			return st.Result
		}
	}
}

// model snapshots the current total assignment.
func (s *Solver[S]) model() map[int]bool {
	m := make(map[int]bool, s.allVars.Count())
	next := bitset.Iter(s.allVars)
	for v, ok := next(); ok; v, ok = next() {
		switch s.varVal[v] {
		case True:
			m[v] = true
		case False:
			m[v] = false
		default:
			panic("sat: unassigned variable in model")
		}
	}
	return m
}

// verifyModel checks that every live clause is satisfied by the model.
func (s *Solver[S]) verifyModel(model map[int]bool) {
	for idx := 0; idx < s.clauses.size(); idx++ {
		c, live := s.clauses.value(idx)
		if !live {
			continue
		}
		satisfied := false
		next := bitset.Iter(c.Variables)
		for v, ok := next(); ok; v, ok = next() {
			if model[v] != c.Negatives.Contains(v) {
				satisfied = true
				break
			}
		}
		if !satisfied {
			panic(fmt.Sprintf("sat: model does not satisfy clause %d %s", idx, c))
		}
	}
}
