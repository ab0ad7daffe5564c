package query

import (
	"os"
	"path/filepath"
	"testing"
)

const sampleConfig = `
[solver]
name = "z3"
path = "/usr/bin/z3"
args = ["-in", "-smt2"]
timeout-seconds = 60

[solver.options]
"model.completion" = "true"

[printing]
base = 10
real-precision = 16

[capabilities]
quantifiers = true
optimization = true
unsat-cores = true
incremental = true
`

func TestParseConfig(t *testing.T) {
	cfg, err := ParseConfig(sampleConfig)
	if err != nil {
		t.Fatalf("ParseConfig: %v", err)
	}
	if cfg.Solver.Name != "z3" {
		t.Errorf("solver name = %q, want z3", cfg.Solver.Name)
	}
	if len(cfg.Solver.Args) != 2 || cfg.Solver.Args[0] != "-in" {
		t.Errorf("args = %v", cfg.Solver.Args)
	}
	if cfg.Solver.TimeoutSeconds != 60 {
		t.Errorf("timeout = %d, want 60", cfg.Solver.TimeoutSeconds)
	}
	if got := cfg.Solver.Options["model.completion"]; got != "true" {
		t.Errorf("options[model.completion] = %q", got)
	}
	if !cfg.Capabilities.Optimization || cfg.Capabilities.Proofs {
		t.Errorf("capabilities = %+v", cfg.Capabilities)
	}
	if cfg.Printing.RealPrecision != 16 {
		t.Errorf("real-precision = %d, want 16", cfg.Printing.RealPrecision)
	}
}

func TestParseConfigRequiresIdentity(t *testing.T) {
	if _, err := ParseConfig(`[solver]` + "\n" + `path = "/usr/bin/z3"`); err == nil {
		t.Error("config without solver.name accepted")
	}
	if _, err := ParseConfig(`[solver]` + "\n" + `name = "z3"`); err == nil {
		t.Error("config without solver.path accepted")
	}
}

func TestParseConfigRejectsNegativeTimeout(t *testing.T) {
	text := "[solver]\nname = \"z3\"\npath = \"/usr/bin/z3\"\ntimeout-seconds = -1\n"
	if _, err := ParseConfig(text); err == nil {
		t.Error("negative timeout accepted")
	}
}

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "solver.toml")
	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		t.Fatalf("writing config: %v", err)
	}
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Solver.Name != "z3" {
		t.Errorf("solver name = %q, want z3", cfg.Solver.Name)
	}

	if _, err := LoadConfig(filepath.Join(dir, "missing.toml")); err == nil {
		t.Error("missing config file accepted")
	}
}
