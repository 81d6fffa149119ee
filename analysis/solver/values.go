package solver

import (
	"github.com/rekap-ncsu/phasar-fork/analysis/edgefn"
	"github.com/rekap-ncsu/phasar-fork/analysis/flowfn"
	L "github.com/rekap-ncsu/phasar-fork/analysis/lattice"
	"github.com/rekap-ncsu/phasar-fork/utils/hmap"
	"github.com/rekap-ncsu/phasar-fork/utils/worklist"
)

// computeValues runs the IDE value phase after reachability has
// stabilised. Values are first pushed along call chains, from seeded
// origins into the origins of every explored callee; the accumulated
// jump functions are then evaluated at the origin values and joined
// into the result table.
func (s *Solver) computeValues() {
	vals := hmap.NewMap[L.Element](nfHasher)

	setVal := func(at nodeFact, v L.Element) bool {
		if old, ok := vals.GetOk(at); ok {
			joined := old.Join(v)
			if joined.Eq(old) {
				return false
			}
			vals.Set(at, joined)
			return true
		}
		vals.Set(at, v)
		return true
	}

	w := worklist.Empty[nodeFact]()
	for _, sv := range s.seeds {
		if setVal(sv.at, sv.val) {
			w.Add(sv.at)
		}
	}

	// Push origin values through every explored call site reachable
	// under a jump function from the origin.
	w.Process(func(origin nodeFact, add func(nodeFact)) {
		v := vals.Get(origin)
		fun := s.graph.FunctionOf(origin.n)

		for _, node := range fun.Nodes() {
			if !s.graph.IsCallSite(node) {
				continue
			}
			for _, d2 := range s.jump.targetsAt[node] {
				target := nodeFact{node, d2}
				jf := s.jump.get(pathEdge{origin, target})
				if jf == nil {
					continue
				}
				atCall := jf.Compute(v)

				for _, callee := range s.graph.CalleesOfCallAt(node) {
					cf := s.prob.CallFlow(node, callee)
					startPoints := s.graph.StartPointsOf(callee)

					cf.ComputeTargets(d2).ForEach(func(d3 flowfn.Fact) {
						ce := s.prob.CallEdge(node, d2, callee, d3)
						entryVal := ce.Compute(atCall)
						for _, sp := range startPoints {
							at := nodeFact{sp, d3}
							if setVal(at, entryVal) {
								add(at)
							}
						}
					})
				}
			}
		}
	})

	// Evaluate every jump function at its origin's value.
	s.jump.rows.ForEach(func(target nodeFact, row *hmap.Map[nodeFact, edgefn.EdgeFunction]) {
		row.ForEach(func(source nodeFact, jf edgefn.EdgeFunction) {
			if v, ok := vals.GetOk(source); ok {
				s.results.insert(target.n, target.d, jf.Compute(v))
			}
		})
	})
}
