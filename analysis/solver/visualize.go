package solver

import (
	"fmt"
	"sort"

	"github.com/rekap-ncsu/phasar-fork/analysis/edgefn"
	"github.com/rekap-ncsu/phasar-fork/utils/dot"
	"github.com/rekap-ncsu/phasar-fork/utils/hmap"
)

// Visualize renders the explored slice of the exploded supergraph: one
// cluster per function, one node per discovered (program point, fact)
// pair, and an edge per path edge labeled with its jump function.
func (s *Solver) Visualize() *dot.DotGraph {
	G := &dot.DotGraph{
		Name:  "ExplodedSupergraph",
		Title: "Explored exploded supergraph",
		Options: map[string]string{
			"rankdir": "TB",
		},
	}

	clusters := map[string]*dot.DotCluster{}
	nodes := map[string]*dot.DotNode{}

	nodeFor := func(k nodeFact) *dot.DotNode {
		id := fmt.Sprintf("%s | %s", s.graph.StatementId(k.n), s.prob.PrintFact(k.d))
		if n, ok := nodes[id]; ok {
			return n
		}

		fname := s.graph.FunctionName(s.graph.FunctionOf(k.n))
		cluster, ok := clusters[fname]
		if !ok {
			cluster = dot.NewDotCluster(fname)
			cluster.Attrs["label"] = fname
			clusters[fname] = cluster
			G.Clusters = append(G.Clusters, cluster)
		}

		n := &dot.DotNode{ID: id, Attrs: dot.DotAttrs{
			"label": fmt.Sprintf("%s\n%s", s.prob.PrintNode(k.n), s.prob.PrintFact(k.d)),
		}}
		nodes[id] = n
		cluster.Nodes = append(cluster.Nodes, n)
		return n
	}

	type edge struct {
		from, to *dot.DotNode
		label    string
	}
	edges := []edge{}
	s.jump.rows.ForEach(func(target nodeFact, row *hmap.Map[nodeFact, edgefn.EdgeFunction]) {
		row.ForEach(func(source nodeFact, jf edgefn.EdgeFunction) {
			edges = append(edges, edge{nodeFor(source), nodeFor(target), jf.String()})
		})
	})
	sort.Slice(edges, func(i, j int) bool {
		if edges[i].from.ID != edges[j].from.ID {
			return edges[i].from.ID < edges[j].from.ID
		}
		return edges[i].to.ID < edges[j].to.ID
	})
	for _, e := range edges {
		G.Edges = append(G.Edges, &dot.DotEdge{
			From: e.from, To: e.to,
			Attrs: dot.DotAttrs{"label": e.label},
		})
	}

	return G
}
