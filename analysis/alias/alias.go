// Package alias supplies the alias-information collaborator consumed
// by analysis problems. Like the type hierarchy, it is shared-read
// during a solve and never queried by the solver core itself.
package alias

import (
	"github.com/spakin/disjoint"
)

// Result classifies the relation between two values.
type Result int

const (
	// No means the values never refer to the same storage.
	No Result = iota
	// May means the values possibly refer to the same storage.
	May
	// Must means the values always refer to the same storage.
	Must
)

func (r Result) String() string {
	switch r {
	case Must:
		return "must"
	case May:
		return "may"
	default:
		return "no"
	}
}

// Info answers alias queries. The context argument is opaque and
// forwarded from the problem; implementations may ignore it.
type Info interface {
	Alias(v1, v2 any, ctx any) Result
	AliasSet(v any, ctx any) []any
	ReachableAllocationSites(v any, intraProcOnly bool, at any) []any
}

// Sets is an Info built from externally declared facts: must-alias
// pairs collapse into union-find classes, may-alias pairs link
// classes, and allocation sites attach to values.
type Sets struct {
	elems map[any]*disjoint.Element
	order []any
	may   [][2]any
	sites map[any][]any
}

// NewSets creates an empty alias database.
func NewSets() *Sets {
	return &Sets{
		elems: make(map[any]*disjoint.Element),
		sites: make(map[any][]any),
	}
}

var _ Info = (*Sets)(nil)

func (s *Sets) elem(v any) *disjoint.Element {
	e, ok := s.elems[v]
	if !ok {
		e = disjoint.NewElement()
		s.elems[v] = e
		s.order = append(s.order, v)
	}
	return e
}

// MustAlias declares that v1 and v2 always refer to the same storage.
func (s *Sets) MustAlias(v1, v2 any) {
	disjoint.Union(s.elem(v1), s.elem(v2))
}

// MayAlias declares that v1 and v2 possibly refer to the same storage.
func (s *Sets) MayAlias(v1, v2 any) {
	s.elem(v1)
	s.elem(v2)
	s.may = append(s.may, [2]any{v1, v2})
}

// AllocationSite declares that v may point to storage allocated at the
// given site.
func (s *Sets) AllocationSite(v any, site any) {
	s.elem(v)
	s.sites[v] = append(s.sites[v], site)
}

func (s *Sets) sameClass(v1, v2 any) bool {
	e1, ok1 := s.elems[v1]
	e2, ok2 := s.elems[v2]
	return ok1 && ok2 && e1.Find() == e2.Find()
}

// Alias classifies the relation between v1 and v2. A value must-aliases
// itself; otherwise unregistered values alias nothing.
func (s *Sets) Alias(v1, v2 any, ctx any) Result {
	if v1 == v2 {
		return Must
	}
	if s.sameClass(v1, v2) {
		return Must
	}
	for _, pair := range s.may {
		if (s.sameClass(pair[0], v1) && s.sameClass(pair[1], v2)) ||
			(s.sameClass(pair[0], v2) && s.sameClass(pair[1], v1)) {
			return May
		}
	}
	return No
}

// AliasSet returns every value that must- or may-alias v, including v
// itself, in registration order.
func (s *Sets) AliasSet(v any, ctx any) []any {
	if _, ok := s.elems[v]; !ok {
		return nil
	}

	res := []any{}
	for _, w := range s.order {
		if s.Alias(v, w, ctx) != No {
			res = append(res, w)
		}
	}
	return res
}

// ReachableAllocationSites returns the allocation sites v may point
// to. With intraProcOnly set, only sites attached to v's must-alias
// class count; otherwise may-aliases contribute theirs as well. The
// at argument names the program point of the query and is ignored by
// this implementation.
func (s *Sets) ReachableAllocationSites(v any, intraProcOnly bool, at any) []any {
	if _, ok := s.elems[v]; !ok {
		return nil
	}

	res := []any{}
	seen := map[any]bool{}
	for _, w := range s.order {
		rel := s.Alias(v, w, nil)
		if rel == No || (intraProcOnly && rel != Must) {
			continue
		}
		for _, site := range s.sites[w] {
			if !seen[site] {
				seen[site] = true
				res = append(res, site)
			}
		}
	}
	return res
}

// None is an Info that knows nothing: a value must-aliases only itself,
// distinct values never alias, and alias and allocation-site queries
// return nil.
type None struct{}

var _ Info = None{}

func (None) Alias(v1, v2 any, ctx any) Result {
	if v1 == v2 {
		return Must
	}
	return No
}

func (None) AliasSet(v any, ctx any) []any { return nil }

func (None) ReachableAllocationSites(v any, intraProcOnly bool, at any) []any {
	return nil
}
