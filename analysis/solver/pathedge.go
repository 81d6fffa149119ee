package solver

import (
	"fmt"

	"github.com/rekap-ncsu/phasar-fork/analysis/flowfn"
	"github.com/rekap-ncsu/phasar-fork/analysis/icfg"
	"github.com/rekap-ncsu/phasar-fork/utils"
)

// nodeFact is a node of the exploded supergraph: a program point
// paired with a data-flow fact.
type nodeFact struct {
	n icfg.Node
	d flowfn.Fact
}

func (k nodeFact) Hash() uint32 {
	return utils.HashCombine(utils.PointerHasher[icfg.Node]{}.Hash(k.n), k.d.Hash())
}

func (k nodeFact) Equal(o nodeFact) bool {
	return k.n == o.n && k.d.Equal(o.d)
}

func (k nodeFact) String() string {
	return fmt.Sprintf("(%s, %s)", k.n.StatementId(), k.d)
}

// pathEdge summarises intraprocedural reachability from a source
// supergraph node at a start point to a target supergraph node within
// the same function. The associated jump function lives in the
// jump-function table, keyed by the edge's source and target.
type pathEdge struct {
	source nodeFact
	target nodeFact
}

func (e pathEdge) Hash() uint32 {
	return utils.HashCombine(e.source.Hash(), e.target.Hash())
}

func (e pathEdge) Equal(o pathEdge) bool {
	return e.source.Equal(o.source) && e.target.Equal(o.target)
}

func (e pathEdge) String() string {
	return fmt.Sprintf("%s → %s", e.source, e.target)
}

// pathEdgeHasher hashes path edges for the worklist and tables.
type pathEdgeHasher struct{}

func (pathEdgeHasher) Hash(e pathEdge) uint32   { return e.Hash() }
func (pathEdgeHasher) Equal(a, b pathEdge) bool { return a.Equal(b) }

// nodeFactHasher hashes supergraph nodes for the solver tables.
type nodeFactHasher struct{}

func (nodeFactHasher) Hash(k nodeFact) uint32   { return k.Hash() }
func (nodeFactHasher) Equal(a, b nodeFact) bool { return a.Equal(b) }

// nfHasher is the shared hasher for supergraph-node keyed tables.
var nfHasher utils.Hasher[nodeFact] = nodeFactHasher{}
