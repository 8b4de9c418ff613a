package main

import (
	"fmt"
	"os"
	"runtime/pprof"
	"sort"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/rhartert/bitsat/parsers"
	"github.com/rhartert/bitsat/sat"
)

// DIMACS convention exit codes.
const (
	exitSat   = 10
	exitUnsat = 20
)

var flags struct {
	branching   string
	seed        int64
	lubyUnit    int
	reduceEvery int64
	checkModel  bool
	trace       bool
	verbose     bool
	cpuProfile  string
	memProfile  string
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bitsat [instance.cnf]",
		Short: "bitsat is a CDCL SAT solver over bitset clauses",
		Long: `bitsat reads a problem in the DIMACS CNF format (from the given file, or
from standard input when no file is given) and decides its satisfiability.

The solver prints its search statistics as DIMACS "c" comment lines,
followed by the result line "s SATISFIABLE" or "s UNSATISFIABLE" and, for
satisfiable instances, a "v" line with the model. The process exits with
code 10 for satisfiable instances and 20 for unsatisfiable ones.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runSolver,
	}

	cmd.Flags().StringVar(&flags.branching, "branching", "vsids", "decision heuristic (vsids or random)")
	cmd.Flags().Int64Var(&flags.seed, "seed", 1, "random number generator seed")
	cmd.Flags().IntVar(&flags.lubyUnit, "luby-unit", sat.DefaultOptions.LubyUnit, "conflicts per Luby restart unit")
	cmd.Flags().Int64Var(&flags.reduceEvery, "reduce-every", sat.DefaultOptions.ReduceEvery, "iterations between clause database reductions (0 disables)")
	cmd.Flags().BoolVar(&flags.checkModel, "check-model", false, "verify the model before reporting SAT")
	cmd.Flags().BoolVar(&flags.trace, "trace", false, "write the solver's event trace to stderr")
	cmd.Flags().BoolVarP(&flags.verbose, "verbose", "v", false, "enable debug logging")
	cmd.Flags().StringVar(&flags.cpuProfile, "cpuprofile", "", "save a pprof CPU profile to the given file")
	cmd.Flags().StringVar(&flags.memProfile, "memprofile", "", "save a pprof memory profile to the given file")

	return cmd
}

func solverOptions() (sat.Options, error) {
	opts := sat.DefaultOptions
	switch flags.branching {
	case "vsids":
		opts.Branching = sat.BranchingVSIDS
	case "random":
		opts.Branching = sat.BranchingRandom
	default:
		return opts, fmt.Errorf("unknown branching heuristic %q", flags.branching)
	}
	opts.Seed = flags.seed
	opts.LubyUnit = flags.lubyUnit
	opts.ReduceEvery = flags.reduceEvery
	opts.CheckModel = flags.checkModel
	if flags.trace {
		opts.Trace = os.Stderr
	}
	return opts, nil
}

func runSolver(cmd *cobra.Command, args []string) error {
	if flags.verbose {
		logrus.SetLevel(logrus.DebugLevel)
	}

	if flags.cpuProfile != "" {
		f, err := os.Create(flags.cpuProfile)
		if err != nil {
			return err
		}
		defer f.Close()
		if err := pprof.StartCPUProfile(f); err != nil {
			return err
		}
		defer pprof.StopCPUProfile()
	}

	opts, err := solverOptions()
	if err != nil {
		return err
	}
	s, err := sat.NewDefault(opts, nil)
	if err != nil {
		return err
	}

	if len(args) == 0 {
		logrus.Debug("reading instance from stdin")
		err = parsers.Load(os.Stdin, s)
	} else {
		logrus.WithField("file", args[0]).Debug("reading instance")
		err = parsers.LoadDIMACS(args[0], strings.HasSuffix(args[0], ".gz"), s)
	}
	if err != nil {
		return err
	}

	fmt.Printf("c variables:  %d\n", s.NumVariables())
	fmt.Printf("c clauses:    %d\n", s.NumClauses())

	t := time.Now()
	result := s.Run()
	elapsed := time.Since(t)

	// os.Exit below skips deferred calls: stop the CPU profile here so that
	// it is written out.
	if flags.cpuProfile != "" {
		pprof.StopCPUProfile()
	}

	fmt.Printf("c time (sec): %f\n", elapsed.Seconds())
	fmt.Printf("c conflicts:  %d (%.2f /sec)\n", s.TotalConflicts, float64(s.TotalConflicts)/elapsed.Seconds())
	fmt.Printf("c restarts:   %d\n", s.TotalRestarts)
	fmt.Printf("c learnts:    %d\n", s.NumLearnts())

	if flags.memProfile != "" {
		f, err := os.Create(flags.memProfile)
		if err != nil {
			return err
		}
		defer f.Close()
		if err := pprof.WriteHeapProfile(f); err != nil {
			return err
		}
	}

	if !result.Sat {
		fmt.Println("s UNSATISFIABLE")
		os.Exit(exitUnsat)
	}
	fmt.Println("s SATISFIABLE")
	fmt.Println(modelLine(result.Model))
	os.Exit(exitSat)
	return nil
}

// modelLine formats the model as a DIMACS "v" line terminated by 0.
func modelLine(model map[int]bool) string {
	vars := make([]int, 0, len(model))
	for v := range model {
		vars = append(vars, v)
	}
	sort.Ints(vars)
	sb := strings.Builder{}
	sb.WriteString("v")
	for _, v := range vars {
		if model[v] {
			fmt.Fprintf(&sb, " %d", v)
		} else {
			fmt.Fprintf(&sb, " %d", -v)
		}
	}
	sb.WriteString(" 0")
	return sb.String()
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		logrus.Fatal(err)
	}
}
