// Package query drives interactive solving sessions against an external
// SMT solver process: solver configuration, the synchronous ask/respond
// channel, the fixed session handshake, and the outcome taxonomy for
// solving rounds.
package query

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// Config is the solver configuration record. The engine reads only the
// capability flags for legality checks; everything else passes through
// to the back end and the solver process opaquely.
type Config struct {
	Solver       Solver       `toml:"solver"`
	Printing     Printing     `toml:"printing"`
	Capabilities Capabilities `toml:"capabilities"`
}

// Solver identifies the external solver binary and how to invoke it.
type Solver struct {
	Name    string            `toml:"name"`
	Path    string            `toml:"path"`
	Args    []string          `toml:"args"`
	Options map[string]string `toml:"options"`

	// TimeoutSeconds is the solver-side stop-after budget. Zero means
	// no budget. There is no in-process cancellation.
	TimeoutSeconds int `toml:"timeout-seconds"`
}

// Printing holds numeric/printing preferences passed through to the
// back end.
type Printing struct {
	Base          int `toml:"base"`
	RealPrecision int `toml:"real-precision"`
}

// Capabilities flags what the configured solver supports.
type Capabilities struct {
	Quantifiers        bool `toml:"quantifiers"`
	Optimization       bool `toml:"optimization"`
	UnsatCores         bool `toml:"unsat-cores"`
	Proofs             bool `toml:"proofs"`
	UninterpretedSorts bool `toml:"uninterpreted-sorts"`
	Incremental        bool `toml:"incremental"`
}

// LoadConfig parses a solver configuration TOML file.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("query: reading config: %w", err)
	}
	return ParseConfig(string(data))
}

// ParseConfig parses solver configuration TOML text.
func ParseConfig(text string) (*Config, error) {
	var cfg Config
	if _, err := toml.Decode(text, &cfg); err != nil {
		return nil, fmt.Errorf("query: parsing config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.Solver.Name == "" {
		return fmt.Errorf("query: config: solver.name is required")
	}
	if c.Solver.Path == "" {
		return fmt.Errorf("query: config: solver.path is required for %q", c.Solver.Name)
	}
	if c.Solver.TimeoutSeconds < 0 {
		return fmt.Errorf("query: config: negative timeout %d", c.Solver.TimeoutSeconds)
	}
	return nil
}
