package icfg

import (
	"errors"
	"fmt"
)

// ErrInconsistent is the kind of every structural-inconsistency error
// reported for an interprocedural control-flow graph.
var ErrInconsistent = errors.New("ICFG inconsistency")

func inconsistency(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInconsistent, fmt.Sprintf(format, args...))
}

// validate checks the guarantees the solver relies on: every function
// has at least one start point, no exit point doubles as a start
// point, every call site has at least one return site, and every call
// edge stays inside its function.
func (g *Graph) validate() error {
	for _, f := range g.funs {
		if len(f.startPoints) == 0 {
			return inconsistency("function %s has no start point", f.name)
		}

		for _, e := range f.exitPoints {
			if e.IsStartNode() {
				return inconsistency("node %s of %s is both start and exit point", e.StatementId(), f.name)
			}
		}

		for _, n := range f.nodes {
			if n.Function() != f {
				return inconsistency("node %s is registered under foreign function %s", n.StatementId(), f.name)
			}

			call, ok := n.(*CallNode)
			if !ok {
				continue
			}
			if len(call.returnSites) == 0 {
				return inconsistency("call site %s has no return site", call.StatementId())
			}
			for _, r := range call.returnSites {
				if r.Function() != f {
					return inconsistency("return site %s of call %s escapes the function", r.StatementId(), call.StatementId())
				}
			}
		}
	}

	return nil
}
