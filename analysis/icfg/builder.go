package icfg

import (
	"fmt"
	"strconv"
)

// Builder constructs in-memory interprocedural control-flow graphs
// programmatically. Front ends that lower their own representation use
// it directly; the test suites build their subject programs with it.
type Builder struct {
	funs       []*Function
	funsByName map[string]*Function
	calls      []*CallNode
}

// NewBuilder creates an empty graph builder.
func NewBuilder() *Builder {
	return &Builder{funsByName: make(map[string]*Function)}
}

// FunctionBuilder accumulates the body of one function.
type FunctionBuilder struct {
	b     *Builder
	fun   *Function
	entry *FunctionEntry
	exit  *FunctionExit
	next  int
}

// Function starts a new function with the given unique name. A
// synthetic entry node is created as its sole start point and a
// synthetic exit node as its sole exit point.
func (b *Builder) Function(name string) *FunctionBuilder {
	if _, clash := b.funsByName[name]; clash {
		panic(fmt.Sprintf("duplicate function %q", name))
	}

	fun := &Function{name: name}
	entry := &FunctionEntry{}
	exit := &FunctionExit{}

	fb := &FunctionBuilder{b: b, fun: fun, entry: entry, exit: exit}
	fb.register(entry)
	fb.register(exit)
	fun.startPoints = []Node{entry}
	fun.exitPoints = []Node{exit}

	b.funs = append(b.funs, fun)
	b.funsByName[name] = fun
	return fb
}

func (fb *FunctionBuilder) register(n Node) {
	base := n.baseNode()
	base.fun = fb.fun
	base.id = fb.fun.name + "." + strconv.Itoa(fb.next)
	fb.next++
	fb.fun.nodes = append(fb.fun.nodes, n)
}

// Entry returns the function's synthetic entry node.
func (fb *FunctionBuilder) Entry() Node { return fb.entry }

// Exit returns the function's synthetic exit node.
func (fb *FunctionBuilder) Exit() Node { return fb.exit }

// Stmt appends an ordinary instruction node with the given label.
func (fb *FunctionBuilder) Stmt(label string) Node {
	n := &StatementNode{label: label}
	fb.register(n)
	return n
}

// Call appends a call-site node with the given label. Callees are
// attached with Callees, return sites arise from the edges added with
// Edge.
func (fb *FunctionBuilder) Call(label string) *CallNode {
	n := &CallNode{label: label}
	fb.register(n)
	fb.b.calls = append(fb.b.calls, n)
	return n
}

// Edge adds a control-flow edge from one node of the function to
// another. Edge order determines successor order. An edge leaving a
// call node makes its target a return site of the call.
func (fb *FunctionBuilder) Edge(from, to Node) {
	from.baseNode().addSuccessor(to)
	to.baseNode().addPredecessor(from)

	if call, ok := from.(*CallNode); ok {
		call.returnSites = append(call.returnSites, to)
	}
}

// Chain adds fall-through edges between consecutive nodes.
func (fb *FunctionBuilder) Chain(nodes ...Node) {
	for i := 0; i+1 < len(nodes); i++ {
		fb.Edge(nodes[i], nodes[i+1])
	}
}

// NoReturn removes the function's exit points, marking it as never
// completing. Its facts are dropped at every call to it.
func (fb *FunctionBuilder) NoReturn() {
	fb.fun.exitPoints = nil
}

// HeapAllocating marks the function as known to allocate on the heap.
func (fb *FunctionBuilder) HeapAllocating() {
	fb.fun.heapAllocating = true
}

// SpecialMember marks the function as a special member function.
func (fb *FunctionBuilder) SpecialMember() {
	fb.fun.specialMember = true
}

// Callees records the possible targets of the given call node, in
// dispatch order.
func (b *Builder) Callees(call *CallNode, callees ...*Function) {
	call.callees = append(call.callees, callees...)
}

// Fun retrieves a previously declared function by name.
func (b *Builder) Fun(name string) *Function {
	f, ok := b.funsByName[name]
	if !ok {
		panic(fmt.Sprintf("unknown function %q", name))
	}
	return f
}

// Build finalizes the graph, computes caller maps and worklist
// priorities, and validates the structural guarantees an ICFG must
// deliver. It returns an error on an inconsistent graph.
func (b *Builder) Build() (*Graph, error) {
	g := &Graph{
		funs:       b.funs,
		funsByName: b.funsByName,
		callers:    make(map[*Function][]Node),
	}

	for _, call := range b.calls {
		for _, callee := range call.callees {
			g.callers[callee] = append(g.callers[callee], Node(call))
		}
	}

	if err := g.validate(); err != nil {
		return nil, err
	}

	g.priorities = computePriorities(g)
	return g, nil
}

// MustBuild is Build for graphs known to be well-formed; it panics on
// validation errors.
func (b *Builder) MustBuild() *Graph {
	g, err := b.Build()
	if err != nil {
		panic(err)
	}
	return g
}
