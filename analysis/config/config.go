// Package config holds the yaml-backed driver configuration. The
// solver core itself takes no global state; drivers load a Config and
// translate it into explicit constructor arguments.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/rekap-ncsu/phasar-fork/analysis/solver"
	"github.com/rekap-ncsu/phasar-fork/utils"
)

// Config drives one analysis run.
type Config struct {
	// EntryPoints names the functions the subject program is entered
	// through. Empty means the provider's default entry.
	EntryPoints []string `yaml:"entry-points"`

	// MaxSteps bounds the number of worklist steps; 0 means unbounded.
	// The bound is a driver-level stop flag, not a soundness device: a
	// solve cut short fails with ErrStopped.
	MaxSteps int `yaml:"max-steps"`

	// Colorize toggles colorized pretty-printing of dumps.
	Colorize bool `yaml:"colorize"`

	// DumpResults names a file the result table is dumped to after a
	// successful solve. Empty disables dumping.
	DumpResults string `yaml:"dump-results"`

	// DumpICFG names a file the interprocedural CFG is rendered to.
	// The format follows the file extension. Empty disables rendering.
	DumpICFG string `yaml:"dump-icfg"`
}

// Load reads a Config from a yaml file.
func Load(filename string) (*Config, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("could not read config: %w", err)
	}
	return LoadBytes(data)
}

// LoadBytes parses a Config from yaml source.
func LoadBytes(data []byte) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("could not parse config: %w", err)
	}
	if cfg.MaxSteps < 0 {
		return nil, fmt.Errorf("max-steps must be non-negative, got %d", cfg.MaxSteps)
	}
	return cfg, nil
}

// SolverOptions translates the configuration into solver options and
// applies process-wide presentation settings.
func (cfg *Config) SolverOptions() solver.Options {
	utils.SetColorize(cfg.Colorize)

	opts := solver.Options{}
	if cfg.MaxSteps > 0 {
		steps := 0
		opts.Stop = func() bool {
			steps++
			return steps > cfg.MaxSteps
		}
	}
	return opts
}
