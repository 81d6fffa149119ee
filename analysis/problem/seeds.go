package problem

import (
	L "github.com/rekap-ncsu/phasar-fork/analysis/lattice"

	"github.com/rekap-ncsu/phasar-fork/analysis/flowfn"
	"github.com/rekap-ncsu/phasar-fork/analysis/icfg"
)

// Seeds is the ordered node → fact → value structure the exploration
// starts from. Iteration follows insertion order, so re-solving the
// same problem visits seeds identically.
type Seeds struct {
	entries []seedEntry
}

type seedEntry struct {
	node  icfg.Node
	fact  flowfn.Fact
	value L.Element
}

// NewSeeds creates an empty seed collection.
func NewSeeds() *Seeds {
	return &Seeds{}
}

// Add seeds the given fact with the given value at the node. Seeding
// the same (node, fact) pair again joins the values.
func (s *Seeds) Add(n icfg.Node, d flowfn.Fact, v L.Element) *Seeds {
	for i, e := range s.entries {
		if e.node == n && e.fact.Equal(d) {
			s.entries[i].value = e.value.Join(v)
			return s
		}
	}
	s.entries = append(s.entries, seedEntry{n, d, v})
	return s
}

// Len returns the number of distinct seeds.
func (s *Seeds) Len() int {
	return len(s.entries)
}

// ForEach visits every seed in insertion order.
func (s *Seeds) ForEach(do func(n icfg.Node, d flowfn.Fact, v L.Element)) {
	for _, e := range s.entries {
		do(e.node, e.fact, e.value)
	}
}
