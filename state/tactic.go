package state

import (
	"fmt"

	"github.com/chazu/merle/expr"
)

// ---------------------------------------------------------------------------
// Constraints and assertions
// ---------------------------------------------------------------------------

// Assert registers a boolean constraint. name may be empty. CodeGen
// contexts forbid constraints entirely.
func (s *State) Assert(name string, node expr.Ref) error {
	if err := s.guard("constraint"); err != nil {
		return err
	}
	if s.mode == ModeCodeGen {
		return &ModeViolationError{Mode: s.mode, Op: "constraint"}
	}
	if err := requireBool(node, "constraint"); err != nil {
		return err
	}
	c := Constraint{Name: name, Node: node}
	s.constraints = append(s.constraints, c)
	if s.incr != nil {
		s.incr.Constraints = append(s.incr.Constraints, c)
	}
	return nil
}

// AssertProb registers primary with the given probability and alternate
// otherwise, deciding with one draw from the context's seeded
// generator. Only legal in Concrete mode; p must lie in [0,1].
func (s *State) AssertProb(p float64, primary, alternate expr.Ref) error {
	if s.mode != ModeConcrete {
		return &ModeViolationError{Mode: s.mode, Op: "probabilistic constraint"}
	}
	if p < 0 || p > 1 {
		return validationf("probability outside [0,1]", "%g", p)
	}
	chosen := alternate
	// rng.Float64 draws from [0,1): p=1 always picks primary, p=0 never.
	if s.rng.Float64() < p {
		chosen = primary
	}
	return s.Assert("", chosen)
}

// AssertAt registers a labeled assertion with optional source-location
// metadata. Assertion labels may repeat; they are not name-unique.
func (s *State) AssertAt(label string, loc *SourceLoc, node expr.Ref) error {
	if err := s.guard("assertion"); err != nil {
		return err
	}
	if s.mode == ModeCodeGen {
		return &ModeViolationError{Mode: s.mode, Op: "assertion"}
	}
	if err := validIdentifier(label); err != nil {
		return err
	}
	if err := requireBool(node, "assertion"); err != nil {
		return err
	}
	a := Assertion{Label: label, Loc: loc, Node: node}
	s.assertions = append(s.assertions, a)
	if s.incr != nil {
		s.incr.Assertions = append(s.incr.Assertions, a)
	}
	return nil
}

func requireBool(node expr.Ref, what string) error {
	if _, ok := node.Kind.(expr.BoolKind); !ok {
		return validationf(what+" must be boolean-kinded",
			"%s", node.Kind.KindName())
	}
	return nil
}

// ---------------------------------------------------------------------------
// Tactics
// ---------------------------------------------------------------------------

// Tactic is a user-supplied directive shaping how the solver is
// invoked.
type Tactic interface {
	tactic() // marker method
}

// CaseSplit splits the goal into labeled branches. Parallel marks the
// branches as eligible for independently dispatched solver sessions;
// each branch then operates against its own snapshot (see Clone).
type CaseSplit struct {
	Name     string
	Parallel bool
	Branches []CaseBranch
}

// CaseBranch is one case of a split. Cond may be supplied lazily; when
// the tactic is registered it is forced and the resulting reference is
// recorded in CondRef.
type CaseBranch struct {
	Label   string
	Cond    *Node
	CondRef *expr.Ref // set by registration
	Tactics []Tactic
}

// UseSolver selects a specific solver for this goal.
type UseSolver struct {
	Name string
}

// StopAfter bounds solving with a solver-side time budget in seconds.
// There is no in-process interruption.
type StopAfter struct {
	Seconds int
}

// QueryUsing injects a custom query command for the back end.
type QueryUsing struct {
	Text string
}

// OptimizePriority selects the optimization style (e.g. "lex", "box",
// "pareto") for registered objectives.
type OptimizePriority struct {
	Style string
}

func (*CaseSplit) tactic()        {}
func (*UseSolver) tactic()        {}
func (*StopAfter) tactic()        {}
func (*QueryUsing) tactic()       {}
func (*OptimizePriority) tactic() {}

// AddTactic registers a tactic after resolving every embedded symbolic
// value into a node reference, recursively through nested case splits.
func (s *State) AddTactic(t Tactic) error {
	if err := s.guard("tactic"); err != nil {
		return err
	}
	resolved, err := s.resolveTactic(t)
	if err != nil {
		return err
	}
	s.tactics = append(s.tactics, resolved)
	return nil
}

func (s *State) resolveTactic(t Tactic) (Tactic, error) {
	cs, ok := t.(*CaseSplit)
	if !ok {
		return t, nil
	}
	out := &CaseSplit{Name: cs.Name, Parallel: cs.Parallel}
	for _, br := range cs.Branches {
		rb := CaseBranch{Label: br.Label}
		switch {
		case br.CondRef != nil:
			rb.CondRef = br.CondRef
		case br.Cond != nil:
			ref, err := br.Cond.Force(s)
			if err != nil {
				return nil, err
			}
			if err := requireBool(ref, "case-split condition"); err != nil {
				return nil, err
			}
			rb.CondRef = &ref
		}
		for _, nested := range br.Tactics {
			rn, err := s.resolveTactic(nested)
			if err != nil {
				return nil, err
			}
			rb.Tactics = append(rb.Tactics, rn)
		}
		out.Branches = append(out.Branches, rb)
	}
	return out, nil
}

// ---------------------------------------------------------------------------
// Objectives
// ---------------------------------------------------------------------------

// ObjectiveKind tags an optimization goal.
type ObjectiveKind uint8

const (
	Minimize ObjectiveKind = iota
	Maximize
	SoftAssert
)

// String returns a human-readable name for the objective kind.
func (k ObjectiveKind) String() string {
	switch k {
	case Minimize:
		return "minimize"
	case Maximize:
		return "maximize"
	case SoftAssert:
		return "soft-assert"
	default:
		return fmt.Sprintf("ObjectiveKind(%d)", uint8(k))
	}
}

// Objective pairs the original goal node with the freshly introduced
// tracking variable the back end optimizes against.
type Objective struct {
	Kind  ObjectiveKind
	Node  expr.Ref
	Track expr.Ref
}

// AddObjective registers a minimize/maximize/soft-assert goal. The goal
// value is resolved to a node reference and paired with one fresh
// existentially-quantified tracking variable.
func (s *State) AddObjective(kind ObjectiveKind, goal expr.Ref) error {
	if err := s.guard("objective"); err != nil {
		return err
	}
	if s.mode == ModeCodeGen {
		return &ModeViolationError{Mode: s.mode, Op: "objective"}
	}
	if kind == SoftAssert {
		if err := requireBool(goal, "soft assertion"); err != nil {
			return err
		}
	}
	// A user input may already hold an objective_N name; skip past it.
	name := fmt.Sprintf("objective_%d", s.objCount)
	s.objCount++
	for s.inputNames[name] {
		name = fmt.Sprintf("objective_%d", s.objCount)
		s.objCount++
	}
	track, err := s.Var(name, goal.Kind, QuantExists)
	if err != nil {
		return err
	}
	s.objectives = append(s.objectives, Objective{Kind: kind, Node: goal, Track: track})
	return nil
}
