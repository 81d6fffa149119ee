package lattice

import (
	"log"
)

// Lattice is implemented by every bounded join-semilattice the engine
// computes values in. Implementations also carry a meet for the
// algebra tests, even though the solver itself only joins.
type Lattice interface {
	Top() Element
	Bot() Element

	String() string
	Eq(Lattice) bool

	// These methods allow for quick type conversions.
	// Suitable, if you know what lattice type to expect.
	Flat() *FlatLattice
	FlatFinite() *FlatFiniteLattice
	FlatInt() *FlatIntLattice
	TwoElement() *TwoElementLattice
}

type lattice struct{}

func (*lattice) Flat() *FlatLattice {
	panic(errUnsupportedTypeConversion)
}

func (*lattice) FlatFinite() *FlatFiniteLattice {
	panic(errUnsupportedTypeConversion)
}

func (*lattice) FlatInt() *FlatIntLattice {
	panic(errUnsupportedTypeConversion)
}

func (*lattice) TwoElement() *TwoElementLattice {
	panic(errUnsupportedTypeConversion)
}

// Allows us to delay expensive stringification calls
func checkLatticeMatchThunked(l1, l2 Lattice, thunk func() string) {
	if !l1.Eq(l2) {
		log.Fatal(
			"Lattice error - Invalid", thunk(),
			"\nOperand 1 ∈\n",
			l1.String(),
			"\nOperand 2 ∈\n",
			l2.String(),
		)
	}
}

func checkLatticeMatch(l1, l2 Lattice, binop string) {
	if !l1.Eq(l2) {
		log.Fatal(
			"Lattice error - Invalid ", binop,
			"\nOperand 1 ∈\n",
			l1.String(),
			"\nOperand 2 ∈\n",
			l2.String(),
		)
	}
}
