package solver

import (
	"github.com/rekap-ncsu/phasar-fork/analysis/edgefn"
	"github.com/rekap-ncsu/phasar-fork/analysis/flowfn"
	"github.com/rekap-ncsu/phasar-fork/analysis/icfg"
	"github.com/rekap-ncsu/phasar-fork/utils/hmap"
)

// jumpTable caches the composed edge function accumulated along every
// discovered path edge: target (n, d2) → source (sp, d1) → function.
// Entries only move up in the join order.
type jumpTable struct {
	rows *hmap.Map[nodeFact, *hmap.Map[nodeFact, edgefn.EdgeFunction]]
	// targetsAt records, per node, the target facts in discovery
	// order; the value phase iterates it.
	targetsAt map[icfg.Node][]flowfn.Fact
}

func newJumpTable() *jumpTable {
	return &jumpTable{
		rows:      hmap.NewMap[*hmap.Map[nodeFact, edgefn.EdgeFunction]](nfHasher),
		targetsAt: make(map[icfg.Node][]flowfn.Fact),
	}
}

func (t *jumpTable) row(target nodeFact) *hmap.Map[nodeFact, edgefn.EdgeFunction] {
	return t.rows.GetOrElse(target, func() *hmap.Map[nodeFact, edgefn.EdgeFunction] {
		t.targetsAt[target.n] = append(t.targetsAt[target.n], target.d)
		return hmap.NewMap[edgefn.EdgeFunction](nfHasher)
	})
}

// get returns the jump function of the given path edge, or nil.
func (t *jumpTable) get(e pathEdge) edgefn.EdgeFunction {
	row, ok := t.rows.GetOk(e.target)
	if !ok {
		return nil
	}
	return row.Get(e.source)
}

// sourcesOf visits every (source, function) pair reaching the target.
func (t *jumpTable) sourcesOf(target nodeFact, do func(source nodeFact, f edgefn.EdgeFunction)) {
	if row, ok := t.rows.GetOk(target); ok {
		row.ForEach(do)
	}
}

// summary is one observed exit of a callee under a fixed source
// supergraph node at its start point.
type summary struct {
	exit nodeFact
	fn   edgefn.EdgeFunction
}

// summaryTable materialises end summaries: (sp, d1) → exits observed,
// in discovery order.
type summaryTable struct {
	rows *hmap.Map[nodeFact, []summary]
}

func newSummaryTable() *summaryTable {
	return &summaryTable{hmap.NewMap[[]summary](nfHasher)}
}

// add records a summary, joining the edge function on re-discovery of
// the same exit supergraph node.
func (t *summaryTable) add(source nodeFact, exit nodeFact, fn edgefn.EdgeFunction, cache *edgefn.Cache) {
	row, _ := t.rows.GetOk(source)
	for i, s := range row {
		if s.exit.Equal(exit) {
			row[i].fn = cache.Join(s.fn, fn)
			return
		}
	}
	t.rows.Set(source, append(row, summary{exit, fn}))
}

func (t *summaryTable) forEach(source nodeFact, do func(exit nodeFact, fn edgefn.EdgeFunction)) {
	row, _ := t.rows.GetOk(source)
	for _, s := range row {
		do(s.exit, s.fn)
	}
}

// incomingTable records, per (startPoint, fact) pair of a callee, the
// caller supergraph nodes that have propagated into it, in discovery
// order.
type incomingTable struct {
	rows *hmap.Map[nodeFact, []nodeFact]
}

func newIncomingTable() *incomingTable {
	return &incomingTable{hmap.NewMap[[]nodeFact](nfHasher)}
}

// add records a caller; it reports whether the entry is new.
func (t *incomingTable) add(source nodeFact, caller nodeFact) bool {
	row, _ := t.rows.GetOk(source)
	for _, c := range row {
		if c.Equal(caller) {
			return false
		}
	}
	t.rows.Set(source, append(row, caller))
	return true
}

func (t *incomingTable) forEach(source nodeFact, do func(caller nodeFact)) {
	row, _ := t.rows.GetOk(source)
	for _, c := range row {
		do(c)
	}
}

func (t *incomingTable) len(source nodeFact) int {
	row, _ := t.rows.GetOk(source)
	return len(row)
}
