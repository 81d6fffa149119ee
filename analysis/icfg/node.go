package icfg

import (
	"github.com/rekap-ncsu/phasar-fork/utils"
)

// Node is a program point in the interprocedural control-flow graph.
// Nodes are compared by identity and remain stable for the lifetime of
// a solve.
type Node interface {
	// Successors returns the out-neighbors in declared order. The
	// returned slice must not be mutated.
	Successors() []Node
	// Predecessors returns the in-neighbors in declared order.
	Predecessors() []Node

	// Function returns the function containing the node.
	Function() *Function

	// StatementId is a stable string identifier used for diagnostics
	// and serialisation.
	StatementId() string

	IsCallNode() bool
	IsExitNode() bool
	IsStartNode() bool

	String() string

	baseNode() *BaseNode
}

// BaseNode holds the connectivity and book-keeping shared by all
// CF-node kinds, and is embedded by each of them.
type BaseNode struct {
	succs []Node
	preds []Node
	fun   *Function
	id    string
}

func (n *BaseNode) Successors() []Node   { return n.succs }
func (n *BaseNode) Predecessors() []Node { return n.preds }
func (n *BaseNode) Function() *Function  { return n.fun }
func (n *BaseNode) StatementId() string  { return n.id }
func (n *BaseNode) IsCallNode() bool     { return false }
func (n *BaseNode) IsExitNode() bool     { return false }
func (n *BaseNode) IsStartNode() bool    { return false }

func (n *BaseNode) baseNode() *BaseNode { return n }

func (n *BaseNode) addSuccessor(m Node) {
	for _, s := range n.succs {
		if s == m {
			return
		}
	}
	n.succs = append(n.succs, m)
}

func (n *BaseNode) addPredecessor(m Node) {
	for _, p := range n.preds {
		if p == m {
			return
		}
	}
	n.preds = append(n.preds, m)
}

// StatementNode is an ordinary, non-call instruction.
type StatementNode struct {
	BaseNode
	label string
}

func (n *StatementNode) String() string {
	return n.label
}

// CallNode is a call site. It knows its possible callees and the
// return sites control proceeds to after the call.
type CallNode struct {
	BaseNode
	label       string
	callees     []*Function
	returnSites []Node
}

func (n *CallNode) IsCallNode() bool { return true }

// Callees returns the set of functions the call may dispatch to, in
// declared order. Indirect call resolution happens at graph
// construction; the solver accepts any finite set, including the empty
// one.
func (n *CallNode) Callees() []*Function { return n.callees }

// ReturnSites returns the sites control may proceed to after the call.
func (n *CallNode) ReturnSites() []Node { return n.returnSites }

func (n *CallNode) String() string {
	return n.label
}

// FunctionEntry is the synthetic start point of a function.
type FunctionEntry struct {
	BaseNode
}

func (n *FunctionEntry) IsStartNode() bool { return true }

func (n *FunctionEntry) String() string {
	return "entry:" + n.fun.Name()
}

// FunctionExit is the synthetic exit point of a function. Functions
// that never return have no exit node.
type FunctionExit struct {
	BaseNode
}

func (n *FunctionExit) IsExitNode() bool { return true }

func (n *FunctionExit) String() string {
	return "exit:" + n.fun.Name()
}

// NodeHasher hashes nodes by identity.
type NodeHasher = utils.PointerHasher[Node]

// Function is a callable unit of the subject program.
type Function struct {
	name        string
	startPoints []Node
	exitPoints  []Node
	nodes       []Node

	heapAllocating bool
	specialMember  bool
}

// Name returns the function's stable, unique name.
func (f *Function) Name() string { return f.name }

// Nodes returns every CF-node of the function in creation order.
func (f *Function) Nodes() []Node { return f.nodes }

// IsHeapAllocating reports whether the function is known to allocate
// on the heap.
func (f *Function) IsHeapAllocating() bool { return f.heapAllocating }

// IsSpecialMember reports whether the function is a special member
// function (constructor/destructor-like) of its source language.
func (f *Function) IsSpecialMember() bool { return f.specialMember }

func (f *Function) String() string { return f.name }
