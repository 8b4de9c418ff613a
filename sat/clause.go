package sat

import (
	"strings"

	"github.com/rhartert/bitsat/bitset"
)

// Clause is a disjunction of literals with no duplicate variables, stored as
// two sets over the variable domain: Variables holds the variables that
// appear, Negatives the subset that appears negatively.
type Clause[S bitset.Set[S]] struct {
	Variables S
	Negatives S

	// fromConflict is true for learned clauses. Only learned clauses are
	// ever deleted.
	fromConflict bool

	// score is the clause activity maintained by conflict analysis. Used by
	// clause-database reduction.
	score float64

	// numUnits counts the trail entries currently justified by this clause.
	// A clause with numUnits > 0 must not be deleted.
	numUnits int

	// watch holds the two watched literals. Unit clauses watch their single
	// literal twice.
	watch [2]Literal
}

// literalOf returns the clause's literal on variable v. The variable must
// appear in the clause.
func (c *Clause[S]) literalOf(v int) Literal {
	return MkLiteral(v, !c.Negatives.Contains(v))
}

// size returns the number of literals in the clause.
func (c *Clause[S]) size() int {
	return c.Variables.Count()
}

func (c *Clause[S]) String() string {
	sb := strings.Builder{}
	sb.WriteString("Clause[")
	next := bitset.Iter(c.Variables)
	for v, ok := next(); ok; v, ok = next() {
		if sb.Len() > len("Clause[") {
			sb.WriteByte(' ')
		}
		sb.WriteString(c.literalOf(v).String())
	}
	sb.WriteByte(']')
	return sb.String()
}
