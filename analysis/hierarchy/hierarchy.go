// Package hierarchy supplies the type-hierarchy collaborator consumed
// by analysis problems that resolve virtual dispatch or reason about
// subtyping. The solver itself never queries it; it is threaded
// through to the problem untouched.
package hierarchy

import (
	"go/types"
	"sort"

	"golang.org/x/tools/go/types/typeutil"
)

// Hierarchy answers subtype and virtual-dispatch-table queries.
type Hierarchy interface {
	// HasVFTable reports whether values of the type dispatch through a
	// virtual function table.
	HasVFTable(t types.Type) bool
	// VFTableOf returns the dispatch table of the type in a stable
	// order, or nil when the type has none.
	VFTableOf(t types.Type) []*types.Func
	// IsSubtype reports whether a may stand in for b.
	IsSubtype(a, b types.Type) bool
}

// TypesHierarchy implements Hierarchy over the go/types object model.
// A type has a dispatch table when its method set is non-empty;
// subtyping is assignability, with interface satisfaction included.
type TypesHierarchy struct {
	msets *typeutil.MethodSetCache
}

// NewTypesHierarchy creates a hierarchy with a fresh method-set cache.
func NewTypesHierarchy() *TypesHierarchy {
	return &TypesHierarchy{msets: &typeutil.MethodSetCache{}}
}

var _ Hierarchy = (*TypesHierarchy)(nil)

func (h *TypesHierarchy) HasVFTable(t types.Type) bool {
	return h.msets.MethodSet(t).Len() > 0
}

func (h *TypesHierarchy) VFTableOf(t types.Type) []*types.Func {
	mset := h.msets.MethodSet(t)
	if mset.Len() == 0 {
		return nil
	}

	fns := make([]*types.Func, 0, mset.Len())
	for i := 0; i < mset.Len(); i++ {
		if fn, ok := mset.At(i).Obj().(*types.Func); ok {
			fns = append(fns, fn)
		}
	}
	sort.Slice(fns, func(i, j int) bool {
		return fns[i].Id() < fns[j].Id()
	})
	return fns
}

func (h *TypesHierarchy) IsSubtype(a, b types.Type) bool {
	if types.Identical(a, b) {
		return true
	}
	if iface, ok := b.Underlying().(*types.Interface); ok {
		return types.Implements(a, iface)
	}
	return types.AssignableTo(a, b)
}
