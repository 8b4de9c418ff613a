package sat

import (
	"github.com/rhartert/yagh"
)

// varOrder maintains the VSIDS activity scores and the by-score ordered set
// of candidate decision literals. Scores are kept per literal (that is, per
// variable and polarity) so that the order also chooses the decision
// polarity.
type varOrder struct {
	// Binary heap to access the literal with the highest score. Scores are
	// negated because the heap pops its minimum cost first. The heap may
	// lag behind assignments: entries of assigned variables are skipped
	// lazily on pop and re-inserted when the variable is unassigned.
	heap *yagh.IntMap[float64]

	scores    []float64 // by literal index, in [0, rescaleAt)
	inc       float64
	decay     float64
	rescaleAt float64
}

func newVarOrder(decay, rescaleAt float64) *varOrder {
	vo := &varOrder{
		heap:      yagh.New[float64](0),
		inc:       1,
		decay:     decay,
		rescaleAt: rescaleAt,
	}
	// Reserve the two slots of the unused variable 0 so that literal
	// indexes can key the heap directly.
	vo.heap.GrowBy(2)
	vo.scores = append(vo.scores, 0, 0)
	return vo
}

// addVar registers the next variable. Variables must be added in increasing
// order, one call per variable.
func (vo *varOrder) addVar() {
	pos := len(vo.scores)
	vo.scores = append(vo.scores, 0, 0)
	vo.heap.GrowBy(2)
	vo.heap.Put(pos, 0)
	vo.heap.Put(pos+1, 0)
}

// bump increases the score of literal l by the current increment.
func (vo *varOrder) bump(l Literal) {
	i := l.index()
	vo.scores[i] += vo.inc
	if vo.heap.Contains(i) {
		vo.heap.Put(i, -vo.scores[i])
	}
	if vo.scores[i] > vo.rescaleAt {
		vo.rescale()
	}
}

// decayScores decays all activities by bumping the increment, so that
// future bumps weigh more than past ones.
func (vo *varOrder) decayScores() {
	vo.inc /= vo.decay
	if vo.inc > vo.rescaleAt {
		vo.rescale()
	}
}

// reinsert adds both literals of variable v back to the candidate set. Must
// be called when v becomes unassigned.
func (vo *varOrder) reinsert(v int) {
	vo.heap.Put(2*v, -vo.scores[2*v])
	vo.heap.Put(2*v+1, -vo.scores[2*v+1])
}

// next pops the highest-score literal whose variable is still unassigned.
// Returns false when no candidate remains.
func (vo *varOrder) next(unassigned func(v int) bool) (Literal, bool) {
	for {
		entry, ok := vo.heap.Pop()
		if !ok {
			return 0, false
		}
		l := literalFromIndex(entry.Elem)
		if v := l.Var(); v == 0 || !unassigned(v) {
			continue
		}
		return l, true
	}
}

// rescale divides every score and the increment by the rescale threshold,
// preserving the relative order of all entries.
func (vo *varOrder) rescale() {
	f := 1 / vo.rescaleAt
	vo.inc *= f
	for i, s := range vo.scores {
		vo.scores[i] = s * f
		if vo.heap.Contains(i) {
			vo.heap.Put(i, -vo.scores[i])
		}
	}
}
