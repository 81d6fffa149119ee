package solver

import (
	"github.com/rekap-ncsu/phasar-fork/analysis/flowfn"
	"github.com/rekap-ncsu/phasar-fork/analysis/icfg"
	L "github.com/rekap-ncsu/phasar-fork/analysis/lattice"
	"github.com/rekap-ncsu/phasar-fork/utils/hmap"
)

// Results maps (node, fact) to the computed lattice value. Values only
// move up in the join order while the solve runs; absent entries read
// as ⊤, meaning "no information".
type Results struct {
	top     L.Element
	vals    *hmap.Map[nodeFact, L.Element]
	factsAt map[icfg.Node][]flowfn.Fact
}

func newResults(top L.Element) *Results {
	return &Results{
		top:     top,
		vals:    hmap.NewMap[L.Element](nfHasher),
		factsAt: make(map[icfg.Node][]flowfn.Fact),
	}
}

// insert stores v for (n, d), merging with an existing value through
// the lattice join.
func (r *Results) insert(n icfg.Node, d flowfn.Fact, v L.Element) {
	key := nodeFact{n, d}
	if old, ok := r.vals.GetOk(key); ok {
		r.vals.Set(key, old.Join(v))
		return
	}
	r.factsAt[n] = append(r.factsAt[n], d)
	r.vals.Set(key, v)
}

// At returns the value computed for the fact at the node, or ⊤ when
// none was.
func (r *Results) At(n icfg.Node, d flowfn.Fact) L.Element {
	if v, ok := r.vals.GetOk(nodeFact{n, d}); ok {
		return v
	}
	return r.top
}

// Has reports whether a value was computed for the fact at the node.
func (r *Results) Has(n icfg.Node, d flowfn.Fact) bool {
	_, ok := r.vals.GetOk(nodeFact{n, d})
	return ok
}

// FactsAt returns the facts holding at the node in discovery order.
func (r *Results) FactsAt(n icfg.Node) []flowfn.Fact {
	return r.factsAt[n]
}

// Size returns the number of (node, fact) entries.
func (r *Results) Size() int {
	return r.vals.Len()
}

// Equal compares two result tables key-for-key under value equality.
func (r *Results) Equal(other *Results) bool {
	if r.vals.Len() != other.vals.Len() {
		return false
	}
	equal := true
	r.vals.ForEach(func(key nodeFact, v L.Element) {
		if !equal {
			return
		}
		ov, ok := other.vals.GetOk(key)
		if !ok || !v.Lattice().Eq(ov.Lattice()) || !v.Eq(ov) {
			equal = false
		}
	})
	return equal
}
