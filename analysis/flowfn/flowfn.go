package flowfn

// FlowFunction maps a single incoming data-flow fact to the set of facts
// holding after the edge it was generated for. Implementations must be
// pure and deterministic, and must let the tautological fact pass:
// ComputeTargets(zero) ⊇ {zero}.
type FlowFunction interface {
	ComputeTargets(d Fact) FactSet
}

type (
	identityFlow struct{}

	killAllFlow struct{}

	killFlow struct {
		kill Fact
	}

	killMultipleFlow struct {
		kill FactSet
	}

	genFlow struct {
		gen  Fact
		from Fact
	}

	genAllFlow struct {
		gen  FactSet
		from Fact
	}

	lambdaFlow struct {
		fn func(Fact) FactSet
	}

	unionFlow struct {
		fns []FlowFunction
	}

	composeFlow struct {
		first, second FlowFunction
	}
)

var (
	identitySingleton = identityFlow{}
	killAllSingleton  = killAllFlow{}
)

// Identity passes every fact through unchanged.
func Identity() FlowFunction { return identitySingleton }

func (identityFlow) ComputeTargets(d Fact) FactSet {
	return NewFactSet(d)
}

// KillAll drops every fact. The zero fact is not exempt; problems use
// KillAll only on lanes the solver does not query for the zero fact, or
// compose it under a Gen of the zero fact.
func KillAll() FlowFunction { return killAllSingleton }

func (killAllFlow) ComputeTargets(Fact) FactSet {
	return NewFactSet()
}

// Kill drops the given fact and passes all others through.
func Kill(d Fact) FlowFunction { return killFlow{d} }

func (f killFlow) ComputeTargets(d Fact) FactSet {
	if f.kill.Equal(d) {
		return NewFactSet()
	}
	return NewFactSet(d)
}

// KillMultiple drops every fact in the given set and passes all others through.
func KillMultiple(kill FactSet) FlowFunction { return killMultipleFlow{kill} }

func (f killMultipleFlow) ComputeTargets(d Fact) FactSet {
	if f.kill.Has(d) {
		return NewFactSet()
	}
	return NewFactSet(d)
}

// Gen generates the given fact when the source fact is encountered,
// keeping the source. The source is usually the zero fact.
func Gen(gen Fact, from Fact) FlowFunction { return genFlow{gen, from} }

func (f genFlow) ComputeTargets(d Fact) FactSet {
	if f.from.Equal(d) {
		return NewFactSet(d, f.gen)
	}
	return NewFactSet(d)
}

// GenAll generates every fact in the given set when the source fact is
// encountered, keeping the source.
func GenAll(gen FactSet, from Fact) FlowFunction { return genAllFlow{gen, from} }

func (f genAllFlow) ComputeTargets(d Fact) FactSet {
	if f.from.Equal(d) {
		return f.gen.Add(d)
	}
	return NewFactSet(d)
}

// GenIf generates the given fact when the source fact satisfies the
// predicate, keeping the source.
func GenIf(gen Fact, pred func(Fact) bool) FlowFunction {
	return genIfFlow{gen, pred}
}

type genIfFlow struct {
	gen  Fact
	pred func(Fact) bool
}

func (f genIfFlow) ComputeTargets(d Fact) FactSet {
	if f.pred(d) {
		return NewFactSet(d, f.gen)
	}
	return NewFactSet(d)
}

// Lambda wraps a plain function as a flow function.
func Lambda(fn func(Fact) FactSet) FlowFunction { return lambdaFlow{fn} }

func (f lambdaFlow) ComputeTargets(d Fact) FactSet {
	return f.fn(d)
}

// Union combines flow functions by uniting their target sets.
func Union(fns ...FlowFunction) FlowFunction {
	switch len(fns) {
	case 0:
		return identitySingleton
	case 1:
		return fns[0]
	}
	return unionFlow{fns}
}

func (f unionFlow) ComputeTargets(d Fact) FactSet {
	res := NewFactSet()
	for _, fn := range f.fns {
		res = res.Union(fn.ComputeTargets(d))
	}
	return res
}

// Compose chains two flow functions, feeding every target of the first
// through the second.
func Compose(first, second FlowFunction) FlowFunction {
	if first == identitySingleton {
		return second
	}
	if second == identitySingleton {
		return first
	}
	return composeFlow{first, second}
}

func (f composeFlow) ComputeTargets(d Fact) FactSet {
	res := NewFactSet()
	f.first.ComputeTargets(d).ForEach(func(mid Fact) {
		res = res.Union(f.second.ComputeTargets(mid))
	})
	return res
}
