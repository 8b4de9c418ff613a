package sat

import "io"

// Branching selects the decision heuristic.
type Branching int8

const (
	// BranchingVSIDS picks the unassigned literal with the highest activity
	// score.
	BranchingVSIDS Branching = iota
	// BranchingRandom picks a uniformly random unassigned variable with a
	// random polarity.
	BranchingRandom
)

// Options configures a solver. New replaces a zero VarDecay, ClauseDecay,
// RescaleThreshold or LubyUnit with its DefaultOptions value; a zero
// ReduceEvery disables reduction. DefaultOptions holds the recommended
// configuration.
type Options struct {
	// Branching is the decision heuristic.
	Branching Branching

	// Seed initializes the solver's random number generator. Runs with the
	// same seed and inputs are deterministic.
	Seed int64

	// VarDecay is the VSIDS decay factor: the activity increment is divided
	// by it after each conflict.
	VarDecay float64

	// ClauseDecay is the clause-activity decay factor.
	ClauseDecay float64

	// RescaleThreshold is the activity value above which all scores and the
	// increment are rescaled to avoid overflow.
	RescaleThreshold float64

	// LubyUnit scales the Luby restart sequence, in conflicts per run.
	LubyUnit int

	// ReduceEvery is the number of solver iterations between two
	// learned-clause database reductions. Zero disables reduction.
	ReduceEvery int64

	// CheckModel makes the solver verify that a Sat result satisfies every
	// clause before returning it.
	CheckModel bool

	// Trace, when non-nil, receives one line per internal solver event.
	Trace io.Writer
}

// DefaultOptions holds the recommended solver configuration.
var DefaultOptions = Options{
	Branching:        BranchingVSIDS,
	Seed:             1,
	VarDecay:         0.95,
	ClauseDecay:      0.75,
	RescaleThreshold: 1e20,
	LubyUnit:         32,
	ReduceEvery:      2500,
	CheckModel:       false,
}
