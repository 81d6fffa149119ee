// Package problem declares the interface between the tabulation
// solver and a concrete analysis problem. A problem supplies flow
// functions describing how facts propagate across supergraph edges,
// edge functions describing the value computations along them, the
// value lattice, and the initial seeds.
package problem

import (
	"github.com/rekap-ncsu/phasar-fork/analysis/edgefn"
	"github.com/rekap-ncsu/phasar-fork/analysis/flowfn"
	"github.com/rekap-ncsu/phasar-fork/analysis/icfg"
	L "github.com/rekap-ncsu/phasar-fork/analysis/lattice"
)

// FlowFunctions supplies the four flow-function factories. Factories
// are queried once per explored supergraph edge, may be queried many
// times, and must be deterministic. Every returned flow function must
// let the tautological fact pass.
type FlowFunctions interface {
	// NormalFlow describes an intra-procedural edge from curr to succ.
	NormalFlow(curr, succ icfg.Node) flowfn.FlowFunction
	// CallFlow maps caller facts at the call site into facts holding
	// at the callee's start point.
	CallFlow(callSite icfg.Node, callee *icfg.Function) flowfn.FlowFunction
	// ReturnFlow maps callee facts visible at the exit node back into
	// the caller's return site.
	ReturnFlow(callSite icfg.Node, callee *icfg.Function, exitNode, retSite icfg.Node) flowfn.FlowFunction
	// CallToReturnFlow propagates caller facts that bypass the call.
	// It is queried even when the callee set is empty, in which case
	// the call degenerates to a pure bypass edge.
	CallToReturnFlow(callSite, retSite icfg.Node, callees []*icfg.Function) flowfn.FlowFunction
}

// EdgeFunctions supplies the edge-function factories mirroring the
// four flow kinds. A factory is queried for every (source fact,
// target fact) pair its flow function generated on the edge.
type EdgeFunctions interface {
	NormalEdge(curr icfg.Node, currFact flowfn.Fact, succ icfg.Node, succFact flowfn.Fact) edgefn.EdgeFunction
	CallEdge(callSite icfg.Node, srcFact flowfn.Fact, callee *icfg.Function, destFact flowfn.Fact) edgefn.EdgeFunction
	ReturnEdge(callSite icfg.Node, callee *icfg.Function, exitNode icfg.Node, exitFact flowfn.Fact, retSite icfg.Node, retFact flowfn.Fact) edgefn.EdgeFunction
	CallToReturnEdge(callSite icfg.Node, callFact flowfn.Fact, retSite icfg.Node, retFact flowfn.Fact, callees []*icfg.Function) edgefn.EdgeFunction

	// SummaryEdge may return a precomputed summary for a known callee,
	// short-circuiting its exploration. A nil result means the
	// mechanism is not used for this call and the callee is explored
	// normally. A non-nil summary takes precedence over the standard
	// call/return path for every callee of the call site.
	SummaryEdge(callSite icfg.Node, callFact flowfn.Fact, retSite icfg.Node, retFact flowfn.Fact) edgefn.EdgeFunction
}

// Problem is a complete IDE analysis problem. Plain reachability
// (IFDS) problems embed Reachability to obtain the binary value
// domain and identity edge functions.
type Problem interface {
	FlowFunctions
	EdgeFunctions

	// ZeroFact returns the problem's tautological fact Λ. The solver
	// treats it as unique per problem under Fact.Equal.
	ZeroFact() flowfn.Fact

	// BottomElement and TopElement bound the value lattice.
	BottomElement() L.Element
	TopElement() L.Element
	// Join computes the least upper bound of two lattice values.
	Join(a, b L.Element) L.Element

	// InitialSeeds returns the facts and values the exploration starts
	// from. The solver adds the zero fact at every seeded node.
	InitialSeeds() *Seeds

	// FollowReturnsPastSeeds lets facts at exit nodes flow to callers
	// that were never entered through a call, for analyses seeded in
	// the middle of the program.
	FollowReturnsPastSeeds() bool

	// Printers used by result dumps and diagnostics.
	PrintNode(n icfg.Node) string
	PrintFact(d flowfn.Fact) string
	PrintValue(v L.Element) string
}
