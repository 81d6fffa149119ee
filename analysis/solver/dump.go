package solver

import (
	"fmt"
	"io"
	"sort"

	"github.com/rekap-ncsu/phasar-fork/analysis/flowfn"
)

// DumpResults writes the computed value table in a deterministic,
// human-readable layout: functions and nodes in declared order, facts
// ordered by their printed form.
func (s *Solver) DumpResults(w io.Writer) error {
	for _, f := range s.graph.Functions() {
		headed := false

		for _, n := range f.Nodes() {
			facts := append([]flowfn.Fact{}, s.results.FactsAt(n)...)
			if len(facts) == 0 {
				continue
			}
			sort.Slice(facts, func(i, j int) bool {
				return s.prob.PrintFact(facts[i]) < s.prob.PrintFact(facts[j])
			})

			if !headed {
				if _, err := fmt.Fprintf(w, "=== %s ===\n", s.graph.FunctionName(f)); err != nil {
					return err
				}
				headed = true
			}

			if _, err := fmt.Fprintf(w, "%s [%s]\n", s.graph.StatementId(n), s.prob.PrintNode(n)); err != nil {
				return err
			}
			for _, d := range facts {
				if _, err := fmt.Fprintf(w, "    %s -> %s\n",
					s.prob.PrintFact(d), s.prob.PrintValue(s.results.At(n, d))); err != nil {
					return err
				}
			}
		}
	}
	return nil
}
