package problem

import (
	"github.com/rekap-ncsu/phasar-fork/analysis/edgefn"
	"github.com/rekap-ncsu/phasar-fork/analysis/flowfn"
	"github.com/rekap-ncsu/phasar-fork/analysis/icfg"
	L "github.com/rekap-ncsu/phasar-fork/analysis/lattice"
)

// Base carries the defaults shared by most problems: no summaries, no
// unbalanced returns, zero fact Λ, and plain printers. Embed it and
// override what the analysis needs.
type Base struct{}

func (Base) SummaryEdge(callSite icfg.Node, callFact flowfn.Fact, retSite icfg.Node, retFact flowfn.Fact) edgefn.EdgeFunction {
	return nil
}

func (Base) FollowReturnsPastSeeds() bool { return false }

func (Base) ZeroFact() flowfn.Fact { return flowfn.Zero }

func (Base) PrintNode(n icfg.Node) string { return n.String() }

func (Base) PrintFact(d flowfn.Fact) string { return d.String() }

func (Base) PrintValue(v L.Element) string { return v.String() }

// Reachability extends Base with the binary value domain and identity
// edge functions, turning a set of flow functions into a plain
// reachability (IFDS) problem. A fact is reachable at a node exactly
// when its computed value is ⊥.
type Reachability struct {
	Base
}

func (Reachability) BottomElement() L.Element {
	return L.Create().Lattice().TwoElement().Bot()
}

func (Reachability) TopElement() L.Element {
	return L.Create().Lattice().TwoElement().Top()
}

func (Reachability) Join(a, b L.Element) L.Element {
	return a.Join(b)
}

func (Reachability) NormalEdge(curr icfg.Node, currFact flowfn.Fact, succ icfg.Node, succFact flowfn.Fact) edgefn.EdgeFunction {
	return edgefn.Identity()
}

func (Reachability) CallEdge(callSite icfg.Node, srcFact flowfn.Fact, callee *icfg.Function, destFact flowfn.Fact) edgefn.EdgeFunction {
	return edgefn.Identity()
}

func (Reachability) ReturnEdge(callSite icfg.Node, callee *icfg.Function, exitNode icfg.Node, exitFact flowfn.Fact, retSite icfg.Node, retFact flowfn.Fact) edgefn.EdgeFunction {
	return edgefn.Identity()
}

func (Reachability) CallToReturnEdge(callSite icfg.Node, callFact flowfn.Fact, retSite icfg.Node, retFact flowfn.Fact, callees []*icfg.Function) edgefn.EdgeFunction {
	return edgefn.Identity()
}
