package icfg

import (
	"errors"
	"strings"
	"testing"
)

// buildCallGraph lowers the two-function program
//
//	main: a = src(); b = id(a); sink(b); return
//	id(p){ return p }
//
// with id resolved at the call for b.
func buildCallGraph(t *testing.T) (*Graph, *CallNode) {
	t.Helper()
	b := NewBuilder()

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
	return g, call
}

func TestQuerySurface(t *testing.T) {
	g, call := buildCallGraph(t)
	main := g.FunctionByName("main")
	id := g.FunctionByName("id")

	if !g.IsCallSite(call) {
		t.Error("call site not recognized")
	}

	callees := g.CalleesOfCallAt(call)
	if len(callees) != 1 || callees[0] != id {
		t.Errorf("callees of call are %v", callees)
	}

	if rs := g.ReturnSitesOfCallAt(call); len(rs) != 1 || rs[0].String() != "sink(b)" {
		t.Errorf("return sites are %v", rs)
	}

	if cs := g.CallersOf(id); len(cs) != 1 || cs[0] != Node(call) {
		t.Errorf("callers of id are %v", cs)
	}

	if sp := g.StartPointsOf(main); len(sp) != 1 || !g.IsStartPoint(sp[0]) {
		t.Errorf("start points of main are %v", sp)
	}

	if ep := g.ExitPointsOf(id); len(ep) != 1 || !g.IsExitInst(ep[0]) {
		t.Errorf("exit points of id are %v", ep)
	}

	if f := g.FunctionOf(call); f != main {
		t.Errorf("call belongs to %v", f)
	}
}

func TestStatementIdsStable(t *testing.T) {
	g, call := buildCallGraph(t)

	if got := g.StatementId(call); got != "main.3" {
		t.Errorf("statement id is %q", got)
	}
	for _, f := range g.Functions() {
		for _, n := range f.Nodes() {
			if !strings.HasPrefix(n.StatementId(), f.Name()+".") {
				t.Errorf("statement id %q escapes function %s", n.StatementId(), f.Name())
			}
		}
	}
}

func TestPrioritiesCalleesFirst(t *testing.T) {
	g, _ := buildCallGraph(t)
	prio := g.FunctionPriorities()

	if prio[g.FunctionByName("id")] >= prio[g.FunctionByName("main")] {
		t.Errorf("id should be prioritized before main: %v", prio)
	}
}

func TestPrioritiesRecursion(t *testing.T) {
	b := NewBuilder()

	f := b.Function("f")
	rec := f.Call("r = f(n-1)")
	f.Chain(f.Entry(), rec, f.Exit())

	main := b.Function("main")
	call := main.Call("r = f(2)")
	main.Chain(main.Entry(), call, main.Exit())

	b.Callees(rec, b.Fun("f"))
	b.Callees(call, b.Fun("f"))

	g, err := b.Build()
	if err != nil {
		t.Fatal(err)
	}

	prio := g.FunctionPriorities()
	if prio[g.FunctionByName("f")] >= prio[g.FunctionByName("main")] {
		t.Errorf("recursive callee should come first: %v", prio)
	}
}

func TestBranchTargets(t *testing.T) {
	b := NewBuilder()
	f := b.Function("f")
	cond := f.Stmt("if c")
	then := f.Stmt("x = 1")
	els := f.Stmt("x = 2")
	f.Edge(f.Entry(), cond)
	f.Edge(cond, then)
	f.Edge(cond, els)
	f.Edge(then, f.Exit())
	f.Edge(els, f.Exit())

	g, err := b.Build()
	if err != nil {
		t.Fatal(err)
	}

	if !g.IsBranchTarget(then) || !g.IsBranchTarget(els) {
		t.Error("branch successors not recognized as branch targets")
	}
	if !g.IsFallThroughSuccessor(then) {
		t.Error("first successor should be the fall-through")
	}
	if g.IsFallThroughSuccessor(els) {
		t.Error("second successor is not a fall-through")
	}
	if g.IsBranchTarget(cond) {
		t.Error("linear node misreported as branch target")
	}
}

func TestValidateCallWithoutReturnSite(t *testing.T) {
	b := NewBuilder()
	f := b.Function("f")
	call := f.Call("g()")
	f.Edge(f.Entry(), call)
	// No edge out of the call: no return site.

	_, err := b.Build()
	if !errors.Is(err, ErrInconsistent) {
		t.Errorf("expected inconsistency, got %v", err)
	}
}

func TestNoReturnFunctionHasNoExitPoints(t *testing.T) {
	b := NewBuilder()
	f := b.Function("spin")
	loop := f.Stmt("for {}")
	f.Edge(f.Entry(), loop)
	f.Edge(loop, loop)
	f.NoReturn()

	g, err := b.Build()
	if err != nil {
		t.Fatal(err)
	}

	if len(g.ExitPointsOf(g.FunctionByName("spin"))) != 0 {
		t.Error("no-return function should have no exit points")
	}
}

func TestVisualizeEmitsClusters(t *testing.T) {
	g, _ := buildCallGraph(t)

	var sb strings.Builder
	if err := g.WriteDot(&sb); err != nil {
		t.Fatal(err)
	}
	out := sb.String()

	for _, want := range []string{"cluster_main", "cluster_id", "b = id(a)"} {
		if !strings.Contains(out, want) {
			t.Errorf("dot output misses %q", want)
		}
	}
}
