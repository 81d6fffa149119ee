package icfg

import (
	"fmt"
	"sort"
	"strconv"

	"golang.org/x/tools/go/callgraph"
	"golang.org/x/tools/go/callgraph/cha"
	"golang.org/x/tools/go/ssa"
	"golang.org/x/tools/go/ssa/ssautil"
)

// FromSSA lowers a whole SSA program into an interprocedural CFG.
// Dynamic dispatch is resolved through class-hierarchy analysis, so
// the callee sets are finite over-approximations. Functions without
// blocks (external or intrinsic) are excluded; calls whose every
// target is external get an empty callee set and act as
// call-to-return edges only.
func FromSSA(prog *ssa.Program) (*Graph, error) {
	cg := cha.CallGraph(prog)

	all := []*ssa.Function{}
	for fn := range ssautil.AllFunctions(prog) {
		if len(fn.Blocks) > 0 {
			all = append(all, fn)
		}
	}
	// AllFunctions iterates a map; impose a stable declaration order.
	sort.Slice(all, func(i, j int) bool {
		return all[i].String() < all[j].String()
	})

	b := NewBuilder()
	lowered := make(map[*ssa.Function]*loweredFun, len(all))
	for _, fn := range all {
		lowered[fn] = lowerFunction(b, fn)
	}

	for _, fn := range all {
		wireCallees(b, cg, fn, lowered)
	}

	return b.Build()
}

// loweredFun tracks the node mapping of one lowered SSA function.
type loweredFun struct {
	fb    *FunctionBuilder
	sites map[ssa.CallInstruction]*CallNode
}

// lowerFunction lowers the body of one SSA function, connecting block
// instructions in declared order and wiring block terminators to block
// heads.
func lowerFunction(b *Builder, fn *ssa.Function) *loweredFun {
	fb := b.Function(fn.String())
	lf := &loweredFun{fb: fb, sites: make(map[ssa.CallInstruction]*CallNode)}

	if isHeapAllocating(fn) {
		fb.HeapAllocating()
	}
	if fn.Synthetic != "" {
		fb.SpecialMember()
	}

	heads := make([]Node, len(fn.Blocks))
	tails := make([]Node, len(fn.Blocks))
	returns := false

	for _, blk := range fn.Blocks {
		var prev Node
		for _, insn := range blk.Instrs {
			n := lowerInstruction(fb, lf, insn)
			if heads[blk.Index] == nil {
				heads[blk.Index] = n
			}
			if prev != nil {
				fb.Edge(prev, n)
			}
			prev = n

			if _, ok := insn.(*ssa.Return); ok {
				fb.Edge(n, fb.Exit())
				returns = true
			}
		}
		tails[blk.Index] = prev
	}

	for _, blk := range fn.Blocks {
		if tails[blk.Index] == nil {
			continue
		}
		for _, succ := range blk.Succs {
			if heads[succ.Index] != nil {
				fb.Edge(tails[blk.Index], heads[succ.Index])
			}
		}
	}

	if head := heads[0]; head != nil {
		fb.Edge(fb.Entry(), head)
	} else {
		fb.Edge(fb.Entry(), fb.Exit())
		returns = true
	}

	if !returns {
		fb.NoReturn()
	}
	return lf
}

func lowerInstruction(fb *FunctionBuilder, lf *loweredFun, insn ssa.Instruction) Node {
	label := insnLabel(insn)

	// Only ordinary calls become interprocedural edges; go and defer
	// spin off control flow this graph does not model.
	if call, ok := insn.(*ssa.Call); ok {
		n := fb.Call(label)
		lf.sites[call] = n
		return n
	}
	return fb.Stmt(label)
}

func insnLabel(insn ssa.Instruction) string {
	if v, ok := insn.(ssa.Value); ok {
		return v.Name() + " = " + insn.String()
	}
	return insn.String()
}

// wireCallees attaches CHA-resolved callees to every lowered call site
// of fn. Targets that were not lowered (external bodies) are skipped.
func wireCallees(b *Builder, cg *callgraph.Graph, fn *ssa.Function, lowered map[*ssa.Function]*loweredFun) {
	node := cg.Nodes[fn]
	if node == nil {
		return
	}

	targets := make(map[ssa.CallInstruction][]*Function)
	for _, edge := range node.Out {
		if edge.Site == nil {
			continue
		}
		if _, ok := lowered[edge.Callee.Func]; !ok {
			continue
		}
		targets[edge.Site] = append(targets[edge.Site], b.Fun(edge.Callee.Func.String()))
	}

	lf := lowered[fn]
	for site, callNode := range lf.sites {
		callees := targets[site]
		sort.Slice(callees, func(i, j int) bool {
			return callees[i].Name() < callees[j].Name()
		})
		b.Callees(callNode, callees...)
	}
}

func isHeapAllocating(fn *ssa.Function) bool {
	for _, blk := range fn.Blocks {
		for _, insn := range blk.Instrs {
			switch insn := insn.(type) {
			case *ssa.Alloc:
				if insn.Heap {
					return true
				}
			case *ssa.MakeSlice, *ssa.MakeMap, *ssa.MakeChan, *ssa.MakeClosure:
				return true
			}
		}
	}
	return false
}

// EntryFunction locates the main function of the lowered program, or
// an error when the program has none.
func (g *Graph) EntryFunction() (*Function, error) {
	for _, name := range []string{"main.main", "main"} {
		if f := g.funsByName[name]; f != nil {
			return f, nil
		}
	}
	return nil, fmt.Errorf("%w: program has no main function among %s functions",
		ErrInconsistent, strconv.Itoa(len(g.funs)))
}
