package solver

import (
	"strings"
	"testing"
)

func TestVisualizeExplodedSupergraph(t *testing.T) {
	g, p, _ := buildTaintInter(t)

	s := New(p, g)
	if err := s.Solve(); err != nil {
		t.Fatal(err)
	}

	var sb strings.Builder
	if err := s.Visualize().WriteDot(&sb); err != nil {
		t.Fatal(err)
	}
	out := sb.String()

	for _, want := range []string{"cluster_main", "cluster_id", "Λ", "->"} {
		if !strings.Contains(out, want) {
			t.Errorf("exploded supergraph dot misses %q", want)
		}
	}
}
