package icfg

import (
	"github.com/yourbasic/graph"
)

// The worklist does not need an ordering hint for correctness, but
// processing callees ahead of their callers lets end summaries form
// before most call sites are explored. Functions are ordered by the
// reverse topological order of the call graph's strongly connected
// components; mutually recursive functions share a priority.
func computePriorities(g *Graph) map[*Function]int {
	index := make(map[*Function]int, len(g.funs))
	for i, f := range g.funs {
		index[f] = i
	}

	cg := graph.New(len(g.funs))
	for i, f := range g.funs {
		for _, n := range f.nodes {
			call, ok := n.(*CallNode)
			if !ok {
				continue
			}
			for _, callee := range call.callees {
				if j := index[callee]; j != i {
					cg.Add(i, j)
				}
			}
		}
	}

	components := graph.StrongComponents(cg)

	// Condense the call graph and order the components topologically,
	// callers before callees.
	compOf := make([]int, len(g.funs))
	for ci, comp := range components {
		for _, v := range comp {
			compOf[v] = ci
		}
	}

	cond := graph.New(len(components))
	for i := range g.funs {
		cg.Visit(i, func(w int, _ int64) bool {
			if compOf[i] != compOf[w] {
				cond.Add(compOf[i], compOf[w])
			}
			return false
		})
	}

	order, ok := graph.TopSort(cond)
	if !ok {
		// Cannot happen for a condensation.
		order = make([]int, len(components))
		for i := range order {
			order[i] = i
		}
	}

	// Callees first: invert the caller-before-callee topological order.
	prio := make(map[*Function]int, len(g.funs))
	for pos, ci := range order {
		for _, v := range components[ci] {
			prio[g.funs[v]] = len(order) - pos - 1
		}
	}
	return prio
}

// NodeOrder returns the declaration index of every node, used as the
// intra-function worklist tie-break.
func (g *Graph) NodeOrder() map[Node]int {
	order := make(map[Node]int)
	i := 0
	for _, f := range g.funs {
		for _, n := range f.nodes {
			order[n] = i
			i++
		}
	}
	return order
}
