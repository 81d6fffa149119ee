package hierarchy

import (
	"go/ast"
	"go/importer"
	"go/parser"
	"go/token"
	"go/types"
	"testing"
)

const subject = `package subject

type Animal interface {
	Sound() string
}

type Dog struct{}

func (Dog) Sound() string { return "woof" }
func (Dog) Fetch()        {}

type Stone struct{}
`

func check(t *testing.T, src string) *types.Package {
	t.Helper()
	fset := token.NewFileSet()
	f, err := parser.ParseFile(fset, "subject.go", src, 0)
	if err != nil {
		t.Fatal(err)
	}
	conf := types.Config{Importer: importer.Default()}
	pkg, err := conf.Check("subject", fset, []*ast.File{f}, nil)
	if err != nil {
		t.Fatal(err)
	}
	return pkg
}

func TestTypesHierarchy(t *testing.T) {
	pkg := check(t, subject)
	h := NewTypesHierarchy()

	dog := pkg.Scope().Lookup("Dog").Type()
	stone := pkg.Scope().Lookup("Stone").Type()
	animal := pkg.Scope().Lookup("Animal").Type()

	if !h.HasVFTable(dog) {
		t.Error("Dog should have a dispatch table")
	}
	if h.HasVFTable(stone) {
		t.Error("Stone has no methods")
	}

	table := h.VFTableOf(dog)
	if len(table) != 2 {
		t.Fatalf("dispatch table of Dog has %d entries", len(table))
	}
	// Stable order: Fetch before Sound.
	if table[0].Name() != "Fetch" || table[1].Name() != "Sound" {
		t.Errorf("dispatch table order: %v", table)
	}

	if !h.IsSubtype(dog, animal) {
		t.Error("Dog should be a subtype of Animal")
	}
	if h.IsSubtype(stone, animal) {
		t.Error("Stone is not a subtype of Animal")
	}
	if !h.IsSubtype(dog, dog) {
		t.Error("subtyping should be reflexive")
	}
}
