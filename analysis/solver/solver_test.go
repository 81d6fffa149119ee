package solver

import (
	"errors"
	"fmt"
	"testing"

	"github.com/rekap-ncsu/phasar-fork/analysis/flowfn"
	"github.com/rekap-ncsu/phasar-fork/analysis/icfg"
	L "github.com/rekap-ncsu/phasar-fork/analysis/lattice"
	"github.com/rekap-ncsu/phasar-fork/analysis/problem"
)

// edgeKey identifies one interprocedural linkage of a scripted problem.
type edgeKey struct {
	call   icfg.Node
	callee *icfg.Function
}

// zeroOnly passes only the tautological fact across an edge.
func zeroOnly() flowfn.FlowFunction {
	return flowfn.Lambda(func(d flowfn.Fact) flowfn.FactSet {
		if d.Equal(flowfn.Zero) {
			return flowfn.NewFactSet(d)
		}
		return flowfn.NewFactSet()
	})
}

// taintProblem is a scripted reachability problem: flow functions are
// looked up per node, with identity (normal, call-to-return) or
// zero-only (call, return) defaults.
type taintProblem struct {
	problem.Reachability
	seeds  *problem.Seeds
	normal map[icfg.Node]flowfn.FlowFunction
	call   map[edgeKey]flowfn.FlowFunction
	ret    map[edgeKey]flowfn.FlowFunction
	c2r    map[icfg.Node]flowfn.FlowFunction
}

func newTaintProblem() *taintProblem {
	return &taintProblem{
		seeds:  problem.NewSeeds(),
		normal: map[icfg.Node]flowfn.FlowFunction{},
		call:   map[edgeKey]flowfn.FlowFunction{},
		ret:    map[edgeKey]flowfn.FlowFunction{},
		c2r:    map[icfg.Node]flowfn.FlowFunction{},
	}
}

func (p *taintProblem) NormalFlow(curr, succ icfg.Node) flowfn.FlowFunction {
	if f, ok := p.normal[curr]; ok {
		return f
	}
	return flowfn.Identity()
}

func (p *taintProblem) CallFlow(callSite icfg.Node, callee *icfg.Function) flowfn.FlowFunction {
	if f, ok := p.call[edgeKey{callSite, callee}]; ok {
		return f
	}
	return zeroOnly()
}

func (p *taintProblem) ReturnFlow(callSite icfg.Node, callee *icfg.Function, exitNode, retSite icfg.Node) flowfn.FlowFunction {
	if f, ok := p.ret[edgeKey{callSite, callee}]; ok {
		return f
	}
	return zeroOnly()
}

func (p *taintProblem) CallToReturnFlow(callSite, retSite icfg.Node, callees []*icfg.Function) flowfn.FlowFunction {
	if f, ok := p.c2r[callSite]; ok {
		return f
	}
	return flowfn.Identity()
}

func (p *taintProblem) InitialSeeds() *problem.Seeds {
	return p.seeds
}

// mapFacts renames facts across an interprocedural edge: listed facts
// map to their counterpart, the zero fact passes, everything else is
// killed.
func mapFacts(pairs ...string) flowfn.FlowFunction {
	if len(pairs)%2 != 0 {
		panic("mapFacts wants from/to pairs")
	}
	return flowfn.Lambda(func(d flowfn.Fact) flowfn.FactSet {
		if d.Equal(flowfn.Zero) {
			return flowfn.NewFactSet(d)
		}
		for i := 0; i < len(pairs); i += 2 {
			if d.Equal(flowfn.Named(pairs[i])) {
				return flowfn.NewFactSet(flowfn.Named(pairs[i+1]))
			}
		}
		return flowfn.NewFactSet()
	})
}

func reachable(t *testing.T, s *Solver, n icfg.Node, facts ...string) {
	t.Helper()
	for _, name := range facts {
		if !s.Results().Has(n, flowfn.Named(name)) {
			t.Errorf("%s should be reachable at %s", name, n.StatementId())
		}
	}
}

func unreachable(t *testing.T, s *Solver, n icfg.Node, facts ...string) {
	t.Helper()
	for _, name := range facts {
		if s.Results().Has(n, flowfn.Named(name)) {
			t.Errorf("%s should not be reachable at %s", name, n.StatementId())
		}
	}
}

// Scenario: intra-procedural reachability of a tainted variable.
//
//	entry: x = source(); t1: y = x; t2: sink(y); exit
func buildTaintIntra(t *testing.T) (*icfg.Graph, *taintProblem, [3]icfg.Node) {
	t.Helper()
	b := icfg.NewBuilder()
	main := b.Function("main")
	src := main.Stmt("x = source()")
	t1 := main.Stmt("y = x")
	t2 := main.Stmt("sink(y)")
	main.Chain(main.Entry(), src, t1, t2, main.Exit())

	g, err := b.Build()
	if err != nil {
		t.Fatal(err)
	}

	p := newTaintProblem()
	p.normal[src] = flowfn.Gen(flowfn.Named("x"), flowfn.Zero)
	p.normal[t1] = flowfn.Union(flowfn.Identity(), mapFacts("x", "y"))
	p.seeds.Add(main.Entry(), flowfn.Zero, p.BottomElement())

	exit := g.ExitPointsOf(g.FunctionByName("main"))[0]
	return g, p, [3]icfg.Node{t1, t2, exit}
}

func TestIntraTaint(t *testing.T) {
	g, p, nodes := buildTaintIntra(t)
	t1, t2, exit := nodes[0], nodes[1], nodes[2]

	s := New(p, g)
	if err := s.Solve(); err != nil {
		t.Fatal(err)
	}

	reachable(t, s, t1, "x")
	reachable(t, s, t2, "x", "y")
	reachable(t, s, exit, "x", "y")
	unreachable(t, s, t1, "y")

	// Reached facts carry ⊥; unknown facts read as ⊤.
	if !s.ResultAt(t2, flowfn.Named("y")).Eq(p.BottomElement()) {
		t.Error("reached fact should be valued ⊥")
	}
	if !s.ResultAt(t1, flowfn.Named("y")).Eq(p.TopElement()) {
		t.Error("unknown fact should read as ⊤")
	}
}

// Scenario: interprocedural pass-through.
//
//	main: a = src(); b = id(a); sink(b); return
//	id(p){ return p }
func buildTaintInter(t *testing.T) (*icfg.Graph, *taintProblem, icfg.Node) {
	t.Helper()
	b := icfg.NewBuilder()

	id := b.Function("id")
	ret := id.Stmt("return p")
	id.Chain(id.Entry(), ret, id.Exit())

	main := b.Function("main")
	src := main.Stmt("a = src()")
	call := main.Call("b = id(a)")
	sink := main.Stmt("sink(b)")
	main.Chain(main.Entry(), src, call, sink, main.Exit())

	b.Callees(call, b.Fun("id"))

	g, err := b.Build()
	if err != nil {
		t.Fatal(err)
	}

	idFun := g.FunctionByName("id")
	p := newTaintProblem()
	p.normal[src] = flowfn.Gen(flowfn.Named("a"), flowfn.Zero)
	p.call[edgeKey{call, idFun}] = mapFacts("a", "p")
	p.ret[edgeKey{call, idFun}] = mapFacts("p", "b")
	p.c2r[call] = flowfn.Kill(flowfn.Named("b"))
	p.seeds.Add(main.Entry(), flowfn.Zero, p.BottomElement())

	return g, p, sink
}

func TestInterTaint(t *testing.T) {
	g, p, sink := buildTaintInter(t)

	s := New(p, g)
	if err := s.Solve(); err != nil {
		t.Fatal(err)
	}

	reachable(t, s, sink, "a", "b")

	// The callee saw the mapped formal.
	id := g.FunctionByName("id")
	reachable(t, s, g.StartPointsOf(id)[0], "p")

	if s.Metrics().SummariesRecorded == 0 {
		t.Error("callee exits should have recorded end summaries")
	}
}

// Scenario: a no-return callee drops its facts at the call, while the
// call-to-return lane still carries the bypassing ones.
func TestUnreachableReturn(t *testing.T) {
	b := icfg.NewBuilder()

	spin := b.Function("spin")
	loop := spin.Stmt("for {}")
	spin.Edge(spin.Entry(), loop)
	spin.Edge(loop, loop)
	spin.NoReturn()

	main := b.Function("main")
	src := main.Stmt("g = source()")
	call := main.Call("spin()")
	sink := main.Stmt("sink(g)")
	main.Chain(main.Entry(), src, call, sink, main.Exit())

	b.Callees(call, b.Fun("spin"))

	g, err := b.Build()
	if err != nil {
		t.Fatal(err)
	}

	spinFun := g.FunctionByName("spin")
	p := newTaintProblem()
	p.normal[src] = flowfn.Gen(flowfn.Named("g"), flowfn.Zero)
	p.call[edgeKey{call, spinFun}] = mapFacts("g", "q")
	p.seeds.Add(main.Entry(), flowfn.Zero, p.BottomElement())

	s := New(p, g)
	if err := s.Solve(); err != nil {
		t.Fatal(err)
	}

	// Bypass lane survives; nothing returns from the callee.
	reachable(t, s, sink, "g")
	unreachable(t, s, sink, "q")

	// The callee was still entered.
	reachable(t, s, g.StartPointsOf(spinFun)[0], "q")
}

// Scenario: a call with an empty callee set degenerates to its
// call-to-return lane and is counted in diagnostics.
func TestEmptyCalleeSet(t *testing.T) {
	b := icfg.NewBuilder()
	main := b.Function("main")
	src := main.Stmt("g = source()")
	call := main.Call("mystery()")
	sink := main.Stmt("sink(g)")
	main.Chain(main.Entry(), src, call, sink, main.Exit())

	g, err := b.Build()
	if err != nil {
		t.Fatal(err)
	}

	p := newTaintProblem()
	p.normal[src] = flowfn.Gen(flowfn.Named("g"), flowfn.Zero)
	p.seeds.Add(main.Entry(), flowfn.Zero, p.BottomElement())

	s := New(p, g)
	if err := s.Solve(); err != nil {
		t.Fatal(err)
	}

	reachable(t, s, sink, "g")
	if s.Metrics().CallsWithoutCallees == 0 {
		t.Error("empty callee set should be noted in diagnostics")
	}
}

// Property: re-running the same problem reproduces the table
// key-for-key.
func TestFixedPointStability(t *testing.T) {
	g, p, _ := buildTaintInter(t)

	s1 := New(p, g)
	if err := s1.Solve(); err != nil {
		t.Fatal(err)
	}
	s2 := New(p, g)
	if err := s2.Solve(); err != nil {
		t.Fatal(err)
	}

	if !s1.Results().Equal(s2.Results()) {
		t.Error("re-running solve changed the result table")
	}
}

// Property: worklist pop order does not affect the fixed point.
func TestOrderIndependence(t *testing.T) {
	g, p, _ := buildTaintInter(t)

	prioritized := New(p, g)
	if err := prioritized.Solve(); err != nil {
		t.Fatal(err)
	}

	fifo := New(p, g, Options{NoPriorities: true})
	if err := fifo.Solve(); err != nil {
		t.Fatal(err)
	}

	if !prioritized.Results().Equal(fifo.Results()) {
		t.Error("worklist order changed the result table")
	}
}

// roundTripProblem re-seeds a scripted problem with a prior run's
// results.
type roundTripProblem struct {
	*taintProblem
	seeds *problem.Seeds
}

func (p *roundTripProblem) InitialSeeds() *problem.Seeds { return p.seeds }

// Property: seeding with the results of a prior run reproduces the
// table.
func TestRoundTrip(t *testing.T) {
	g, p, _ := buildTaintInter(t)

	first := New(p, g)
	if err := first.Solve(); err != nil {
		t.Fatal(err)
	}

	seeds := problem.NewSeeds()
	p.seeds.ForEach(func(n icfg.Node, d flowfn.Fact, v L.Element) {
		seeds.Add(n, d, v)
	})
	for _, f := range g.Functions() {
		for _, n := range f.Nodes() {
			for _, d := range first.Results().FactsAt(n) {
				seeds.Add(n, d, first.Results().At(n, d))
			}
		}
	}

	second := New(&roundTripProblem{p, seeds}, g)
	if err := second.Solve(); err != nil {
		t.Fatal(err)
	}

	if !first.Results().Equal(second.Results()) {
		t.Error("seeding with a fixed point changed the table")
	}
}

// unbalancedProblem seeds the exploration inside a callee and follows
// returns past the seeds.
type unbalancedProblem struct {
	*taintProblem
}

func (p *unbalancedProblem) FollowReturnsPastSeeds() bool { return true }

func TestFollowReturnsPastSeeds(t *testing.T) {
	g, p, sink := buildTaintInter(t)
	id := g.FunctionByName("id")

	// Seed in the middle of the program, inside id.
	p.seeds = problem.NewSeeds()
	p.seeds.Add(g.StartPointsOf(id)[0], flowfn.Zero, p.BottomElement())

	s := New(&unbalancedProblem{p}, g)
	if err := s.Solve(); err != nil {
		t.Fatal(err)
	}

	// The zero fact escaped into the syntactic caller.
	if !s.Results().Has(sink, flowfn.Zero) {
		t.Error("zero fact should follow the return into main")
	}

	// Without the flag the exploration stays inside id.
	balanced := New(p, g)
	if err := balanced.Solve(); err != nil {
		t.Fatal(err)
	}
	if balanced.Results().Has(sink, flowfn.Zero) {
		t.Error("facts escaped the seeded function without the flag")
	}
}

// zeroDroppingProblem violates the identity-of-zero contract on its
// normal flows.
type zeroDroppingProblem struct {
	*taintProblem
}

func (p *zeroDroppingProblem) NormalFlow(curr, succ icfg.Node) flowfn.FlowFunction {
	return flowfn.KillAll()
}

func TestZeroFactViolation(t *testing.T) {
	g, p, _ := buildTaintIntra(t)

	s := New(&zeroDroppingProblem{p}, g)
	err := s.Solve()
	if !errors.Is(err, ErrInvariantViolation) {
		t.Errorf("expected invariant violation, got %v", err)
	}
}

// panickingProblem simulates a factory surfacing an error.
type panickingProblem struct {
	*taintProblem
}

func (p *panickingProblem) NormalFlow(curr, succ icfg.Node) flowfn.FlowFunction {
	panic(fmt.Errorf("no flow for %s", curr.StatementId()))
}

func TestProblemError(t *testing.T) {
	g, p, _ := buildTaintIntra(t)

	s := New(&panickingProblem{p}, g)
	err := s.Solve()
	if !errors.Is(err, ErrProblem) {
		t.Errorf("expected problem error, got %v", err)
	}
}

func TestStopHook(t *testing.T) {
	g, p, _ := buildTaintInter(t)

	s := New(p, g, Options{Stop: func() bool { return true }})
	if err := s.Solve(); !errors.Is(err, ErrStopped) {
		t.Errorf("expected stopped, got %v", err)
	}
}

func TestNoSeeds(t *testing.T) {
	g, _, _ := buildTaintIntra(t)

	s := New(newTaintProblem(), g)
	if err := s.Solve(); !errors.Is(err, ErrInvariantViolation) {
		t.Errorf("expected invariant violation for empty seeds, got %v", err)
	}
}
