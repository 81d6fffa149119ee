// Package edgefn implements the edge-function algebra of the IDE
// framework. An edge function denotes a monotone map on lattice values;
// the algebra provides the canonical identity/all-top/all-bottom
// constants, composition, pointwise join, and a conservative
// equivalence used for fixed-point detection.
package edgefn

import (
	L "github.com/rekap-ncsu/phasar-fork/analysis/lattice"
)

// EdgeFunction is a monotone map on lattice values.
//
// Implementations must be pure. Types implementing EdgeFunction must be
// comparable with ==, so that composed and joined functions can be
// interned on the structural identity of their operands.
type EdgeFunction interface {
	// Compute evaluates the function on the given source value.
	Compute(source L.Element) L.Element
	// ComposeWith returns λx. g(this(x)).
	ComposeWith(g EdgeFunction) EdgeFunction
	// JoinWith returns the pointwise join λx. this(x) ⊔ g(x).
	JoinWith(g EdgeFunction) EdgeFunction
	// EqualTo is a conservative equivalence: a true result means the
	// functions denote the same map; a false result carries no
	// information.
	EqualTo(g EdgeFunction) bool

	String() string
}

type (
	identityFn struct{}

	// constantFn ignores its argument and yields a fixed value. The
	// all-top and all-bottom constants are constant functions over the
	// respective lattice bounds.
	constantFn struct {
		value  L.Element
		symbol string
	}

	composedFn struct {
		first, second EdgeFunction
	}

	joinedFn struct {
		left, right EdgeFunction
	}
)

var edgeIdentity EdgeFunction = identityFn{}

// Identity returns the canonical identity edge function.
func Identity() EdgeFunction { return edgeIdentity }

// AllTop returns the constant function onto the given ⊤ element.
func AllTop(top L.Element) EdgeFunction {
	return constantFn{top, "AllTop"}
}

// AllBottom returns the constant function onto the given ⊥ element.
func AllBottom(bot L.Element) EdgeFunction {
	return constantFn{bot, "AllBot"}
}

// Constant returns the constant function onto the given element.
func Constant(el L.Element) EdgeFunction {
	return constantFn{el, ""}
}

// ConstantValue reports whether f ignores its argument, and if so which
// value it yields.
func ConstantValue(f EdgeFunction) (L.Element, bool) {
	if c, ok := f.(constantFn); ok {
		return c.value, true
	}
	return nil, false
}

// sameLattice guards element comparisons across edge functions that may
// stem from different lattices.
func sameLattice(a, b L.Element) bool {
	return a.Lattice().Eq(b.Lattice())
}

func (identityFn) Compute(source L.Element) L.Element {
	return source
}

func (identityFn) ComposeWith(g EdgeFunction) EdgeFunction {
	return g
}

func (f identityFn) JoinWith(g EdgeFunction) EdgeFunction {
	if f.EqualTo(g) {
		return f
	}
	return joinedFn{f, g}
}

func (identityFn) EqualTo(g EdgeFunction) bool {
	_, ok := g.(identityFn)
	return ok
}

func (identityFn) String() string {
	return "id"
}

func (f constantFn) Compute(L.Element) L.Element {
	return f.value
}

func (f constantFn) ComposeWith(g EdgeFunction) EdgeFunction {
	if _, ok := g.(identityFn); ok {
		return f
	}
	// Feeding a constant through g is again a constant.
	return Constant(g.Compute(f.value))
}

func (f constantFn) JoinWith(g EdgeFunction) EdgeFunction {
	if c, ok := ConstantValue(g); ok && sameLattice(f.value, c) {
		return Constant(f.value.Join(c))
	}
	if f.EqualTo(g) {
		return f
	}
	return joinedFn{f, g}
}

func (f constantFn) EqualTo(g EdgeFunction) bool {
	if c, ok := ConstantValue(g); ok {
		return sameLattice(f.value, c) && f.value.Eq(c)
	}
	return false
}

func (f constantFn) String() string {
	if f.symbol != "" {
		return f.symbol
	}
	return "λ.‹" + f.value.String() + "›"
}

func (f composedFn) Compute(source L.Element) L.Element {
	return f.second.Compute(f.first.Compute(source))
}

func (f composedFn) ComposeWith(g EdgeFunction) EdgeFunction {
	return composeGeneric(f, g)
}

func (f composedFn) JoinWith(g EdgeFunction) EdgeFunction {
	if f.EqualTo(g) {
		return f
	}
	return joinedFn{f, g}
}

func (f composedFn) EqualTo(g EdgeFunction) bool {
	o, ok := g.(composedFn)
	return ok && f.first.EqualTo(o.first) && f.second.EqualTo(o.second)
}

func (f composedFn) String() string {
	return f.second.String() + " ∘ " + f.first.String()
}

func (f joinedFn) Compute(source L.Element) L.Element {
	return f.left.Compute(source).Join(f.right.Compute(source))
}

func (f joinedFn) ComposeWith(g EdgeFunction) EdgeFunction {
	return composeGeneric(f, g)
}

func (f joinedFn) JoinWith(g EdgeFunction) EdgeFunction {
	if f.EqualTo(g) || f.left.EqualTo(g) || f.right.EqualTo(g) {
		return f
	}
	return joinedFn{f, g}
}

func (f joinedFn) EqualTo(g EdgeFunction) bool {
	o, ok := g.(joinedFn)
	return ok && f.left.EqualTo(o.left) && f.right.EqualTo(o.right)
}

func (f joinedFn) String() string {
	return f.left.String() + " ⊔ " + f.right.String()
}

// composeGeneric applies the canonical composition rules shared by all
// edge functions before falling back on an explicit composition pair.
func composeGeneric(f, g EdgeFunction) EdgeFunction {
	if _, ok := g.(identityFn); ok {
		return f
	}
	if _, ok := f.(identityFn); ok {
		return g
	}
	// A constant second operand absorbs the first.
	if _, ok := ConstantValue(g); ok {
		return g
	}
	if c, ok := ConstantValue(f); ok {
		return Constant(g.Compute(c))
	}
	return composedFn{f, g}
}

// Composed returns the explicit composition pair for f and g after the
// canonical rules. Problem-supplied ComposeWith implementations fall
// back on it when no algebraic normalization applies.
func Composed(f, g EdgeFunction) EdgeFunction {
	return composeGeneric(f, g)
}

// Joined returns the explicit pointwise-join pair for f and g.
// Problem-supplied JoinWith implementations fall back on it when no
// algebraic normalization applies.
func Joined(f, g EdgeFunction) EdgeFunction {
	if f.EqualTo(g) {
		return f
	}
	return joinedFn{f, g}
}

// Compose returns f composed with g, λx. g(f(x)), after applying the
// canonical rules. Problem-supplied functions participate through their
// own ComposeWith, which may normalize algebraically.
func Compose(f, g EdgeFunction) EdgeFunction {
	if _, ok := g.(identityFn); ok {
		return f
	}
	if _, ok := f.(identityFn); ok {
		return g
	}
	if _, ok := ConstantValue(g); ok {
		return g
	}
	return f.ComposeWith(g)
}

// Join returns the pointwise join of f and g after applying the
// canonical rules.
func Join(f, g EdgeFunction) EdgeFunction {
	if f.EqualTo(g) {
		return f
	}
	return f.JoinWith(g)
}
