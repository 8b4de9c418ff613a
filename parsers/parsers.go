// Package parsers loads DIMACS CNF instances into a SAT solver.
package parsers

import (
	"compress/gzip"
	"io"
	"os"

	"github.com/pkg/errors"
	"github.com/rhartert/dimacs"
)

// SATSolver is the part of the solver the loader needs.
type SATSolver interface {
	AddClause(literals []int) error
}

func reader(filename string, gzipped bool) (io.ReadCloser, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	rc := io.ReadCloser(file)
	if gzipped {
		rc, err = gzip.NewReader(rc)
		if err != nil {
			file.Close()
			return nil, err
		}
	}
	return rc, nil
}

// LoadDIMACS parses the DIMACS CNF file and loads its formula in the given
// SAT solver.
func LoadDIMACS(filename string, gzipped bool, solver SATSolver) error {
	rc, err := reader(filename, gzipped)
	if err != nil {
		return errors.Wrapf(err, "error reading file %q", filename)
	}
	defer rc.Close()
	return Load(rc, solver)
}

// Load parses a DIMACS CNF formula from the given reader and loads it in
// the given SAT solver.
func Load(r io.Reader, solver SATSolver) error {
	b := &builder{solver: solver}
	if err := dimacs.ReadBuilder(r, b); err != nil {
		return errors.Wrap(err, "error parsing DIMACS instance")
	}
	return nil
}

// builder wraps the solver to implement dimacs.Builder.
type builder struct {
	solver SATSolver
}

func (b *builder) Problem(problem string, nVars int, nClauses int) error {
	if problem != "cnf" {
		return errors.Errorf("not a CNF problem: %q", problem)
	}
	return nil
}

func (b *builder) Clause(tmpClause []int) error {
	clause := make([]int, len(tmpClause))
	copy(clause, tmpClause)
	return b.solver.AddClause(clause)
}

func (b *builder) Comment(_ string) error {
	return nil // ignore comments
}
