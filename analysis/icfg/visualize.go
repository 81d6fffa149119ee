package icfg

import (
	"io"

	"github.com/rekap-ncsu/phasar-fork/utils/dot"
)

// Visualize creates a Dot graph of the interprocedural CFG, one
// cluster per function, with interprocedural call and return edges
// drawn bold.
func (g *Graph) Visualize() *dot.DotGraph {
	G := &dot.DotGraph{
		Name:  "ICFG",
		Title: "Interprocedural control-flow graph",
		Options: map[string]string{
			"rankdir": "TB",
		},
	}

	nodeToDotNode := make(map[Node]*dot.DotNode)

	addEdge := func(from, to Node, attrs dot.DotAttrs) {
		G.Edges = append(G.Edges, &dot.DotEdge{
			From:  nodeToDotNode[from],
			To:    nodeToDotNode[to],
			Attrs: attrs,
		})
	}

	for _, f := range g.funs {
		cluster := dot.NewDotCluster(f.name)
		cluster.Attrs["label"] = f.name

		for _, n := range f.nodes {
			attrs := dot.DotAttrs{"label": n.String()}
			switch {
			case n.IsStartNode(), n.IsExitNode():
				attrs["fillcolor"] = "lightgray"
			case n.IsCallNode():
				attrs["fillcolor"] = "lightblue"
			}
			dn := &dot.DotNode{ID: n.StatementId(), Attrs: attrs}
			nodeToDotNode[n] = dn
			cluster.Nodes = append(cluster.Nodes, dn)
		}

		G.Clusters = append(G.Clusters, cluster)
	}

	for _, f := range g.funs {
		for _, n := range f.nodes {
			for _, succ := range n.Successors() {
				addEdge(n, succ, dot.DotAttrs{})
			}

			call, ok := n.(*CallNode)
			if !ok {
				continue
			}
			for _, callee := range call.callees {
				for _, sp := range g.StartPointsOf(callee) {
					addEdge(n, sp, dot.DotAttrs{"style": "bold"})
				}
				for _, e := range g.ExitPointsOf(callee) {
					for _, r := range call.returnSites {
						addEdge(e, r, dot.DotAttrs{"style": "bold", "constraint": "false"})
					}
				}
			}
		}
	}

	return G
}

// WriteDot writes the Dot source of the graph's visualization.
func (g *Graph) WriteDot(w io.Writer) error {
	return g.Visualize().WriteDot(w)
}
