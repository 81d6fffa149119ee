// Package solver implements the IFDS/IDE tabulation algorithm over a
// lazily explored exploded supergraph. Reachability of facts is
// established by building path edges, end summaries and incoming
// relations to a fixed point; lattice values are then computed by
// evaluating the accumulated jump functions at the seeded values.
package solver

import (
	"github.com/rekap-ncsu/phasar-fork/analysis/edgefn"
	"github.com/rekap-ncsu/phasar-fork/analysis/flowfn"
	"github.com/rekap-ncsu/phasar-fork/analysis/icfg"
	L "github.com/rekap-ncsu/phasar-fork/analysis/lattice"
	"github.com/rekap-ncsu/phasar-fork/analysis/problem"
	"github.com/rekap-ncsu/phasar-fork/utils/pq"
	"github.com/rekap-ncsu/phasar-fork/utils/worklist"
)

// Options tune a single solve. The zero value is ready to use.
type Options struct {
	// Stop is polled between worklist steps; a true result aborts the
	// solve with ErrStopped. Nil means never stop.
	Stop func() bool

	// NoPriorities disables the function-priority worklist ordering
	// even when the ICFG provides one, falling back on FIFO order.
	NoPriorities bool
}

// Solver runs one analysis problem over one ICFG. A solver is
// single-use: construct, Solve, then query.
type Solver struct {
	prob  problem.Problem
	graph icfg.ICFG
	opts  Options

	zero  flowfn.Fact
	cache *edgefn.Cache

	jump     *jumpTable
	endSum   *summaryTable
	incoming *incomingTable
	results  *Results
	seeds    []seedValue

	// pending abstracts over the prioritized and the FIFO worklist.
	push func(pathEdge)
	pop  func() (pathEdge, bool)

	metrics Metrics
	solved  bool
}

// New creates a solver for the given problem over the given ICFG.
func New(prob problem.Problem, graph icfg.ICFG, opts ...Options) *Solver {
	s := &Solver{
		prob:     prob,
		graph:    graph,
		zero:     prob.ZeroFact(),
		cache:    edgefn.NewCache(),
		jump:     newJumpTable(),
		endSum:   newSummaryTable(),
		incoming: newIncomingTable(),
		results:  newResults(prob.TopElement()),
	}
	if len(opts) > 0 {
		s.opts = opts[0]
	}
	s.initWorklist()
	return s
}

func (s *Solver) initWorklist() {
	prios := s.graph.FunctionPriorities()
	if s.opts.NoPriorities || prios == nil {
		w := worklist.Empty[pathEdge]()
		s.push = w.Add
		s.pop = func() (pathEdge, bool) {
			if w.IsEmpty() {
				return pathEdge{}, false
			}
			return w.GetNext(), true
		}
		return
	}

	order := s.nodeOrder()
	q := pq.Empty[pathEdge](pathEdgeHasher{}, func(a, b pathEdge) bool {
		pa, pb := prios[a.target.n.Function()], prios[b.target.n.Function()]
		if pa != pb {
			return pa < pb
		}
		if oa, ob := order[a.target.n], order[b.target.n]; oa != ob {
			return oa < ob
		}
		return a.Hash() < b.Hash()
	})
	s.push = q.Add
	s.pop = func() (pathEdge, bool) {
		if q.IsEmpty() {
			return pathEdge{}, false
		}
		return q.GetNext(), true
	}
}

func (s *Solver) nodeOrder() map[icfg.Node]int {
	order := make(map[icfg.Node]int)
	i := 0
	for _, f := range s.graph.Functions() {
		for _, n := range f.Nodes() {
			order[n] = i
			i++
		}
	}
	return order
}

// Solve runs the tabulation to its fixed point and then computes the
// per-node lattice values. Factory-originated panics carrying an error
// surface as a ProblemError; any error leaves the result container in
// an incomplete state that must not be consumed.
func (s *Solver) Solve() (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = problemError(r)
		}
	}()

	if err := s.seed(); err != nil {
		return err
	}
	if err := s.tabulate(); err != nil {
		return err
	}
	s.computeValues()
	s.metrics.InternedFunctions = s.cache.Len()
	s.solved = true
	return nil
}

// Results exposes the computed value table. It must only be consumed
// after a successful Solve.
func (s *Solver) Results() *Results {
	return s.results
}

// ResultAt returns the value computed for the fact at the node.
func (s *Solver) ResultAt(n icfg.Node, d flowfn.Fact) L.Element {
	return s.results.At(n, d)
}

// ResultsAt visits the facts holding at the node with their values.
func (s *Solver) ResultsAt(n icfg.Node, do func(d flowfn.Fact, v L.Element)) {
	for _, d := range s.results.FactsAt(n) {
		do(d, s.results.At(n, d))
	}
}

// Metrics returns the diagnostic counters of the solve.
func (s *Solver) Metrics() Metrics {
	return s.metrics
}

// seedValue snapshots one seed for the value phase.
type seedValue struct {
	at  nodeFact
	val L.Element
}

func (s *Solver) seed() error {
	seeds := s.prob.InitialSeeds()
	if seeds == nil || seeds.Len() == 0 {
		return invariantViolation("problem supplied no seeds")
	}

	bottom := s.prob.BottomElement()
	seeded := []seedValue{}
	seeds.ForEach(func(n icfg.Node, d flowfn.Fact, v L.Element) {
		seeded = append(seeded, seedValue{nodeFact{n, d}, v})
		if !d.Equal(s.zero) {
			// The tautological fact rides along at every seeded node.
			seeded = append(seeded, seedValue{nodeFact{n, s.zero}, bottom})
		}
	})

	s.seeds = dedupeSeeds(seeded)
	for _, sv := range s.seeds {
		s.propagate(pathEdge{sv.at, sv.at}, edgefn.Identity())
	}
	return nil
}

func dedupeSeeds(in []seedValue) []seedValue {
	out := []seedValue{}
	for _, sv := range in {
		dup := false
		for i, prev := range out {
			if prev.at.Equal(sv.at) {
				out[i].val = prev.val.Join(sv.val)
				dup = true
				break
			}
		}
		if !dup {
			out = append(out, sv)
		}
	}
	return out
}

// propagate merges a freshly composed jump function into the path
// edge's table entry, enqueueing the edge when the entry changed.
func (s *Solver) propagate(e pathEdge, f edgefn.EdgeFunction) {
	row := s.jump.row(e.target)
	old, ok := row.GetOk(e.source)
	switch {
	case !ok:
		s.metrics.PathEdges++
		row.Set(e.source, f)
	case f.EqualTo(old):
		return
	default:
		joined := s.cache.Join(old, f)
		if joined.EqualTo(old) {
			return
		}
		s.metrics.JumpFunctionMerges++
		row.Set(e.source, joined)
	}
	s.push(e)
}

func (s *Solver) tabulate() error {
	for {
		if s.opts.Stop != nil && s.opts.Stop() {
			return ErrStopped
		}

		e, ok := s.pop()
		if !ok {
			return nil
		}
		s.metrics.WorklistSteps++

		jf := s.jump.get(e)

		var err error
		switch {
		case s.graph.IsCallSite(e.target.n):
			err = s.processCall(e, jf)
		case s.graph.IsExitInst(e.target.n):
			err = s.processExit(e, jf)
		default:
			err = s.processNormal(e, jf)
		}
		if err != nil {
			return err
		}
	}
}

// apply runs a flow function and checks the zero-fact invariant: the
// tautological fact must propagate to a set containing itself.
func (s *Solver) apply(ff flowfn.FlowFunction, d flowfn.Fact, kind string, at icfg.Node) (flowfn.FactSet, error) {
	targets := ff.ComputeTargets(d)
	if d.Equal(s.zero) && !targets.Has(s.zero) {
		return targets, invariantViolation(
			"%s flow function at %s dropped the zero fact", kind, s.graph.StatementId(at))
	}
	return targets, nil
}

// processNormal explores the intra-procedural successors of the
// target node.
func (s *Solver) processNormal(e pathEdge, jf edgefn.EdgeFunction) error {
	n, d2 := e.target.n, e.target.d
	for _, succ := range s.graph.SuccsOf(n) {
		ff := s.prob.NormalFlow(n, succ)
		targets, err := s.apply(ff, d2, "normal", n)
		if err != nil {
			return err
		}

		targets.ForEach(func(d3 flowfn.Fact) {
			ef := s.prob.NormalEdge(n, d2, succ, d3)
			s.propagate(pathEdge{e.source, nodeFact{succ, d3}},
				s.cache.Compose(jf, ef))
		})
	}
	return nil
}

// processCall explores a call site: the bypassing call-to-return lane
// first (which decides whether a problem summary short-circuits the
// callees), then the interprocedural descent into every callee.
func (s *Solver) processCall(e pathEdge, jf edgefn.EdgeFunction) error {
	callSite, d2 := e.target.n, e.target.d
	returnSites := s.graph.ReturnSitesOfCallAt(callSite)
	if len(returnSites) == 0 {
		return invariantViolation("call site %s has no return site", s.graph.StatementId(callSite))
	}

	callees := s.graph.CalleesOfCallAt(callSite)
	if len(callees) == 0 {
		s.metrics.CallsWithoutCallees++
	}

	// Call-to-return lane. A non-nil problem summary replaces the
	// call-to-return edge function and takes precedence over callee
	// exploration for this source fact.
	summarised := false
	for _, retSite := range returnSites {
		ctr := s.prob.CallToReturnFlow(callSite, retSite, callees)
		targets, err := s.apply(ctr, d2, "call-to-return", callSite)
		if err != nil {
			return err
		}

		targets.ForEach(func(d3 flowfn.Fact) {
			ef := s.prob.SummaryEdge(callSite, d2, retSite, d3)
			if ef != nil {
				summarised = true
				s.metrics.SummariesApplied++
			} else {
				ef = s.prob.CallToReturnEdge(callSite, d2, retSite, d3, callees)
			}
			s.propagate(pathEdge{e.source, nodeFact{retSite, d3}},
				s.cache.Compose(jf, ef))
		})
	}
	if summarised {
		return nil
	}

	// Descend into the callees.
	for _, callee := range callees {
		cf := s.prob.CallFlow(callSite, callee)
		targets, err := s.apply(cf, d2, "call", callSite)
		if err != nil {
			return err
		}

		startPoints := s.graph.StartPointsOf(callee)
		targets.ForEach(func(d3 flowfn.Fact) {
			for _, sp := range startPoints {
				entry := nodeFact{sp, d3}
				s.incoming.add(entry, e.target)
				s.propagate(pathEdge{entry, entry}, edgefn.Identity())

				// Replay summaries this callee source already formed.
				s.endSum.forEach(entry, func(exit nodeFact, sumFn edgefn.EdgeFunction) {
					s.applySummary(e, callee, d3, exit, sumFn)
				})
			}
		})
	}
	return nil
}

// applySummary propagates one callee end summary across the call at
// e.target, extending the caller's path edge to every return site.
func (s *Solver) applySummary(e pathEdge, callee *icfg.Function, d3 flowfn.Fact, exit nodeFact, sumFn edgefn.EdgeFunction) {
	callSite, d2 := e.target.n, e.target.d
	jf := s.jump.get(e)

	for _, retSite := range s.graph.ReturnSitesOfCallAt(callSite) {
		rf := s.prob.ReturnFlow(callSite, callee, exit.n, retSite)
		targets, err := s.apply(rf, exit.d, "return", exit.n)
		if err != nil {
			// Return flows are replayed outside the step that
			// discovered them; surface through a panic that Solve
			// converts, keeping the zero-fact check fatal here too.
			panic(err)
		}

		callEF := s.prob.CallEdge(callSite, d2, callee, d3)
		targets.ForEach(func(d4 flowfn.Fact) {
			retEF := s.prob.ReturnEdge(callSite, callee, exit.n, exit.d, retSite, d4)
			total := s.cache.Compose(jf,
				s.cache.Compose(callEF, s.cache.Compose(sumFn, retEF)))
			s.propagate(pathEdge{e.source, nodeFact{retSite, d4}}, total)
		})
	}
}

// processExit records an end summary for the callee source and pushes
// the exit facts back across every call site recorded as incoming.
func (s *Solver) processExit(e pathEdge, jf edgefn.EdgeFunction) error {
	exit := e.target
	callee := s.graph.FunctionOf(exit.n)

	s.endSum.add(e.source, exit, jf, s.cache)
	s.metrics.SummariesRecorded++

	var ferr error
	s.incoming.forEach(e.source, func(caller nodeFact) {
		if ferr != nil {
			return
		}
		callSite, dCaller := caller.n, caller.d

		for _, retSite := range s.graph.ReturnSitesOfCallAt(callSite) {
			rf := s.prob.ReturnFlow(callSite, callee, exit.n, retSite)
			targets, err := s.apply(rf, exit.d, "return", exit.n)
			if err != nil {
				ferr = err
				return
			}

			callEF := s.prob.CallEdge(callSite, dCaller, callee, e.source.d)
			targets.ForEach(func(d4 flowfn.Fact) {
				retEF := s.prob.ReturnEdge(callSite, callee, exit.n, exit.d, retSite, d4)
				through := s.cache.Compose(callEF, s.cache.Compose(jf, retEF))

				// Extend every caller path edge that reached the call.
				s.jump.sourcesOf(caller, func(callerSource nodeFact, callerJF edgefn.EdgeFunction) {
					s.propagate(pathEdge{callerSource, nodeFact{retSite, d4}},
						s.cache.Compose(callerJF, through))
				})
			})
		}
	})
	if ferr != nil {
		return ferr
	}

	if s.incoming.len(e.source) == 0 && s.prob.FollowReturnsPastSeeds() && e.source.d.Equal(s.zero) {
		s.followReturnPastSeeds(e, jf)
	}
	return nil
}

// followReturnPastSeeds handles exits of functions the exploration was
// seeded in, for which no caller context exists. The exit facts become
// fresh, self-anchored path edges at every syntactic caller's return
// sites.
func (s *Solver) followReturnPastSeeds(e pathEdge, jf edgefn.EdgeFunction) {
	exit := e.target
	callee := s.graph.FunctionOf(exit.n)

	for _, callSite := range s.graph.CallersOf(callee) {
		for _, retSite := range s.graph.ReturnSitesOfCallAt(callSite) {
			rf := s.prob.ReturnFlow(callSite, callee, exit.n, retSite)
			targets, err := s.apply(rf, exit.d, "return", exit.n)
			if err != nil {
				panic(err)
			}

			targets.ForEach(func(d5 flowfn.Fact) {
				retEF := s.prob.ReturnEdge(callSite, callee, exit.n, exit.d, retSite, d5)
				target := nodeFact{retSite, d5}
				s.seeds = append(s.seeds, seedValue{target, s.prob.BottomElement()})
				s.propagate(pathEdge{target, target}, s.cache.Compose(jf, retEF))
			})
		}
	}
}
