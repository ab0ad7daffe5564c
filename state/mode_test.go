package state

import (
	"errors"
	"testing"

	"github.com/chazu/merle/expr"
)

func defaultQuant(t *testing.T, s *State) Quantifier {
	t.Helper()
	if _, err := s.Var("q", expr.IntKind{}, QuantDefault); err != nil {
		t.Fatalf("Var: %v", err)
	}
	inputs := s.Extract().Inputs
	return inputs[len(inputs)-1].Quant
}

func TestDefaultQuantifiers(t *testing.T) {
	if got := defaultQuant(t, New(ModeProof)); got != QuantForAll {
		t.Errorf("proof default = %s, want forall", got)
	}
	if got := defaultQuant(t, New(ModeProof, WithSatSearch())); got != QuantExists {
		t.Errorf("sat-search default = %s, want exists", got)
	}
	if got := defaultQuant(t, New(ModeInteractive)); got != QuantForAll {
		t.Errorf("interactive proving default = %s, want forall", got)
	}
	if got := defaultQuant(t, New(ModeInteractive, WithSatSearch())); got != QuantExists {
		t.Errorf("interactive sat default = %s, want exists", got)
	}
	if got := defaultQuant(t, New(ModeCodeGen)); got != QuantForAll {
		t.Errorf("codegen default = %s, want forall", got)
	}
	if got := defaultQuant(t, New(ModeConcrete)); got != QuantForAll {
		t.Errorf("concrete default = %s, want forall", got)
	}
}

func TestConcreteRejectsExistential(t *testing.T) {
	s := New(ModeConcrete)

	_, err := s.Var("x", expr.IntKind{}, QuantExists)
	var mv *ModeViolationError
	if !errors.As(err, &mv) {
		t.Errorf("existential under concrete: got %v, want ModeViolationError", err)
	}
}

func TestUserSortForbiddenModes(t *testing.T) {
	for _, mode := range []Mode{ModeCodeGen, ModeConcrete} {
		s := New(mode)
		_, err := s.Var("c", expr.UserKind{Sort: "Color"}, QuantForAll)
		var mv *ModeViolationError
		if !errors.As(err, &mv) {
			t.Errorf("user sort under %s: got %v, want ModeViolationError", mode, err)
		}
	}

	s := New(ModeProof)
	if _, err := s.Var("c", expr.UserKind{Sort: "Color"}, QuantForAll); err != nil {
		t.Errorf("user sort under proof: %v", err)
	}
}

func TestCodeGenForbidsConstraints(t *testing.T) {
	s := New(ModeCodeGen)

	err := s.Assert("c", s.True())
	var mv *ModeViolationError
	if !errors.As(err, &mv) {
		t.Errorf("constraint under codegen: got %v, want ModeViolationError", err)
	}

	err = s.AssertAt("lbl", nil, s.True())
	if !errors.As(err, &mv) {
		t.Errorf("assertion under codegen: got %v, want ModeViolationError", err)
	}
}

func TestInteractiveSwitch(t *testing.T) {
	s := New(ModeProof)
	if err := s.BeginInteractive(); err != nil {
		t.Fatalf("BeginInteractive from proof: %v", err)
	}
	if s.Mode() != ModeInteractive {
		t.Errorf("mode after switch = %s, want interactive", s.Mode())
	}
	// Idempotent once interactive.
	if err := s.BeginInteractive(); err != nil {
		t.Errorf("BeginInteractive twice: %v", err)
	}

	for _, mode := range []Mode{ModeConcrete, ModeCodeGen} {
		s := New(mode)
		if err := s.BeginInteractive(); err == nil {
			t.Errorf("BeginInteractive from %s succeeded", mode)
		}
	}
}

func TestSessionBans(t *testing.T) {
	s := New(ModeInteractive)
	if err := s.BeginSession(); err != nil {
		t.Fatalf("BeginSession: %v", err)
	}

	// Banned after first solver contact.
	if err := s.AddTactic(&UseSolver{Name: "z3"}); err == nil {
		t.Error("tactic after session start succeeded")
	} else {
		var ui *UnsupportedInInteractiveError
		if !errors.As(err, &ui) {
			t.Errorf("got %v, want UnsupportedInInteractiveError", err)
		}
	}
	if _, err := s.Table(expr.IntKind{}, expr.IntKind{}, nil); err == nil {
		t.Error("table after session start succeeded")
	}

	// Still allowed: new inputs, constraints, assertions.
	x, err := s.Var("x", expr.IntKind{}, QuantDefault)
	if err != nil {
		t.Errorf("input after session start: %v", err)
	}
	cond, _ := s.Lt(x, x)
	if err := s.Assert("", cond); err != nil {
		t.Errorf("constraint after session start: %v", err)
	}
}

func TestSessionBansConfigurable(t *testing.T) {
	s := New(ModeInteractive, WithSessionBans("input"))
	if err := s.BeginSession(); err != nil {
		t.Fatalf("BeginSession: %v", err)
	}

	if _, err := s.Var("x", expr.IntKind{}, QuantDefault); err == nil {
		t.Error("banned input succeeded")
	}
	// Tactics are off the override list, so they pass now.
	if err := s.AddTactic(&UseSolver{Name: "z3"}); err != nil {
		t.Errorf("tactic with overridden bans: %v", err)
	}
}

func TestBeginSessionRequiresInteractive(t *testing.T) {
	s := New(ModeProof)
	if err := s.BeginSession(); err == nil {
		t.Error("BeginSession in proof mode succeeded")
	}
}
