package config

import (
	"testing"
)

func TestLoadBytes(t *testing.T) {
	cfg, err := LoadBytes([]byte(`
entry-points:
  - main.main
max-steps: 1000
dump-results: out.txt
`))
	if err != nil {
		t.Fatal(err)
	}

	if len(cfg.EntryPoints) != 1 || cfg.EntryPoints[0] != "main.main" {
		t.Errorf("entry points: %v", cfg.EntryPoints)
	}
	if cfg.MaxSteps != 1000 {
		t.Errorf("max steps: %d", cfg.MaxSteps)
	}
	if cfg.DumpResults != "out.txt" {
		t.Errorf("dump target: %q", cfg.DumpResults)
	}
	if cfg.Colorize {
		t.Error("colorize should default to off")
	}
}

func TestLoadBytesRejectsNegativeSteps(t *testing.T) {
	if _, err := LoadBytes([]byte("max-steps: -1")); err == nil {
		t.Error("negative step bound should be rejected")
	}
}

func TestSolverOptionsStopHook(t *testing.T) {
	cfg := &Config{MaxSteps: 2}
	opts := cfg.SolverOptions()
	if opts.Stop == nil {
		t.Fatal("expected a stop hook")
	}

	stops := 0
	for i := 0; i < 5; i++ {
		if opts.Stop() {
			stops++
		}
	}
	if stops != 3 {
		t.Errorf("hook fired %d times, want 3", stops)
	}
}

func TestSolverOptionsUnbounded(t *testing.T) {
	cfg := &Config{}
	if cfg.SolverOptions().Stop != nil {
		t.Error("unbounded config should not install a stop hook")
	}
}
