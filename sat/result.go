package sat

import (
	"fmt"
	"sort"
	"strings"
)

// SatResult is the outcome of a search. Sat carries a model mapping each
// variable of the formula to its assigned value; Model is nil when Sat is
// false.
type SatResult struct {
	Sat   bool
	Model map[int]bool
}

func (r SatResult) String() string {
	if !r.Sat {
		return "Unsat"
	}
	vars := make([]int, 0, len(r.Model))
	for v := range r.Model {
		vars = append(vars, v)
	}
	sort.Ints(vars)
	sb := strings.Builder{}
	sb.WriteString("Sat{")
	for i, v := range vars {
		if i > 0 {
			sb.WriteByte(' ')
		}
		fmt.Fprintf(&sb, "%d:%t", v, r.Model[v])
	}
	sb.WriteByte('}')
	return sb.String()
}

// StepResult is the outcome of a single solver step: either the search is
// done with a result, or it must continue.
type StepResult struct {
	Done   bool
	Result SatResult
}

func continueSearch() StepResult {
	return StepResult{}
}

func doneUnsat() StepResult {
	return StepResult{Done: true, Result: SatResult{Sat: false}}
}

func doneSat(model map[int]bool) StepResult {
	return StepResult{Done: true, Result: SatResult{Sat: true, Model: model}}
}

// propagation is the outcome of draining the ready set.
type propagation int8

const (
	// nothingToPropagate reports that the ready set was empty on entry.
	nothingToPropagate propagation = iota
	// finishedUnitPropagation reports that the ready set was non-empty and
	// has been drained without conflict.
	finishedUnitPropagation
	// contradiction reports that a unit contradicted a prior assignment.
	// The conflicting clause index accompanies the result.
	contradiction
)

// reason records why a literal entered the trail: it was either a decision
// or the single unassigned literal of the clause at the recorded index.
type reason struct {
	decision bool
	clause   int
}

func decisionReason() reason {
	return reason{decision: true}
}

func clauseReason(idx int) reason {
	return reason{clause: idx}
}
