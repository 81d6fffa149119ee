package flowfn

import (
	"strings"

	"github.com/benbjohnson/immutable"

	"github.com/rekap-ncsu/phasar-fork/utils"
)

// Fact is an opaque data-flow fact. Facts are hashable and comparable
// for equality, so they may key the solver tables.
type Fact interface {
	Hash() uint32
	Equal(Fact) bool
	String() string
}

// factHasher adapts Fact's Hash/Equal to the hasher interfaces used by
// both the mutable and the persistent maps.
type factHasher struct{}

func (factHasher) Hash(d Fact) uint32   { return d.Hash() }
func (factHasher) Equal(a, b Fact) bool { return a.Equal(b) }

var _ immutable.Hasher[Fact] = factHasher{}

// FactHasher returns the hasher for facts.
func FactHasher() immutable.Hasher[Fact] { return factHasher{} }

// FactSet is a persistent set of data-flow facts. The zero FactSet is
// not usable; construct through NewFactSet.
type FactSet struct {
	set immutable.Set[Fact]
}

// NewFactSet creates a fact set holding the given members.
func NewFactSet(members ...Fact) FactSet {
	return FactSet{immutable.NewSet[Fact](factHasher{}, members...)}
}

// Add produces a fact set extended with d.
func (fs FactSet) Add(d Fact) FactSet {
	return FactSet{fs.set.Add(d)}
}

// Union produces the union of two fact sets.
func (fs FactSet) Union(other FactSet) FactSet {
	res := fs.set
	iter := other.set.Iterator()
	for !iter.Done() {
		d, _ := iter.Next()
		res = res.Add(d)
	}
	return FactSet{res}
}

// Has checks membership of d.
func (fs FactSet) Has(d Fact) bool {
	return fs.set.Has(d)
}

// Len returns the cardinality of the set.
func (fs FactSet) Len() int {
	return fs.set.Len()
}

// ForEach visits every member of the set.
func (fs FactSet) ForEach(do func(d Fact)) {
	iter := fs.set.Iterator()
	for !iter.Done() {
		d, _ := iter.Next()
		do(d)
	}
}

func (fs FactSet) String() string {
	strs := []string{}
	fs.ForEach(func(d Fact) {
		strs = append(strs, d.String())
	})
	return "{" + strings.Join(strs, ", ") + "}"
}

// taut is the canonical tautological fact Λ. Problems that do not carry
// their own zero fact representation may use it directly.
type taut struct{}

func (taut) Hash() uint32 { return utils.HashString("Λ") }

func (taut) Equal(other Fact) bool {
	_, ok := other.(taut)
	return ok
}

func (taut) String() string { return "Λ" }

// Zero is the ready-made tautological fact.
var Zero Fact = taut{}

// Named is a fact identified by its name. It covers the common case of
// facts that stand for program variables.
type Named string

func (d Named) Hash() uint32 { return utils.HashString(string(d)) }

func (d Named) Equal(other Fact) bool {
	o, ok := other.(Named)
	return ok && d == o
}

func (d Named) String() string { return string(d) }
