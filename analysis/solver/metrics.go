package solver

import (
	"fmt"
	"strings"
)

// Metrics counts what the tabulation did. It is purely diagnostic.
type Metrics struct {
	WorklistSteps       int
	PathEdges           int
	JumpFunctionMerges  int
	SummariesRecorded   int
	SummariesApplied    int
	CallsWithoutCallees int
	InternedFunctions   int
}

func (m Metrics) String() string {
	var sb strings.Builder
	sb.WriteString("solver metrics:\n")
	for _, line := range [][2]any{
		{"worklist steps", m.WorklistSteps},
		{"path edges", m.PathEdges},
		{"jump function merges", m.JumpFunctionMerges},
		{"summaries recorded", m.SummariesRecorded},
		{"summaries applied", m.SummariesApplied},
		{"calls without callees", m.CallsWithoutCallees},
		{"interned edge functions", m.InternedFunctions},
	} {
		sb.WriteString(fmt.Sprintf("  %-24s %d\n", line[0], line[1]))
	}
	return sb.String()
}
