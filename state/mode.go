package state

import (
	"fmt"

	"github.com/chazu/merle/expr"
)

// Mode selects the behavioral policy of a construction context.
type Mode uint8

const (
	// ModeConcrete runs quick-check style concrete evaluation with the
	// seeded generator active. Existential inputs are a usage error.
	ModeConcrete Mode = iota

	// ModeProof batch-builds a goal for one solver invocation. The
	// SatSearch flag distinguishes satisfiability search from theorem
	// proving.
	ModeProof

	// ModeInteractive has Proof semantics but persists across query
	// rounds and maintains the incremental sub-state.
	ModeInteractive

	// ModeCodeGen builds deterministic code-emission artifacts; no
	// constraints, assertions, or random sampling are allowed.
	ModeCodeGen
)

// String returns a human-readable name for the mode.
func (m Mode) String() string {
	switch m {
	case ModeConcrete:
		return "concrete"
	case ModeProof:
		return "proof"
	case ModeInteractive:
		return "interactive"
	case ModeCodeGen:
		return "codegen"
	default:
		return fmt.Sprintf("Mode(%d)", uint8(m))
	}
}

// Quantifier tags an input variable.
type Quantifier uint8

const (
	// QuantDefault defers to the mode's default quantifier.
	QuantDefault Quantifier = iota
	QuantExists
	QuantForAll
)

// String returns a human-readable name for the quantifier.
func (q Quantifier) String() string {
	switch q {
	case QuantExists:
		return "exists"
	case QuantForAll:
		return "forall"
	default:
		return "default"
	}
}

// resolveQuantifier applies the mode policy to an input's requested
// quantifier. Satisfiability search defaults to existential, theorem
// proving to universal; CodeGen and Concrete default to universal, and
// Concrete rejects existentials outright since quick-check sampling
// cannot satisfy them.
func (s *State) resolveQuantifier(q Quantifier) (Quantifier, error) {
	switch s.mode {
	case ModeConcrete:
		if q == QuantExists {
			return 0, &ModeViolationError{Mode: s.mode, Op: "existential input"}
		}
		return QuantForAll, nil
	case ModeCodeGen:
		if q == QuantDefault {
			return QuantForAll, nil
		}
		return q, nil
	default: // Proof, Interactive
		if q != QuantDefault {
			return q, nil
		}
		if s.satSearch {
			return QuantExists, nil
		}
		return QuantForAll, nil
	}
}

// checkInputKind rejects user-defined sorts where the mode forbids them.
func (s *State) checkInputKind(k expr.Kind) error {
	if _, ok := k.(expr.UserKind); !ok {
		return nil
	}
	if s.mode == ModeCodeGen || s.mode == ModeConcrete {
		return &ModeViolationError{Mode: s.mode, Op: "user-sort input"}
	}
	return nil
}

// BeginInteractive switches a Proof context to Interactive. The switch
// is one-way; Concrete and CodeGen contexts never switch.
func (s *State) BeginInteractive() error {
	switch s.mode {
	case ModeInteractive:
		return nil
	case ModeProof:
		s.mode = ModeInteractive
		s.incr = newSubState()
		return nil
	default:
		return &ModeViolationError{Mode: s.mode, Op: "interactive session"}
	}
}

// BeginSession marks the point of first solver contact. From here on,
// mutations outside the allowed list fail fast instead of silently
// diverging from already-communicated state.
func (s *State) BeginSession() error {
	if s.mode != ModeInteractive {
		return &ModeViolationError{Mode: s.mode, Op: "solver session"}
	}
	s.sessionStarted = true
	return nil
}

// guard is the common path for every store mutation. It rejects
// mutations that are never legal once a session has started, and it
// lets the incremental layer observe the rest.
func (s *State) guard(op string) error {
	if s.sessionStarted && s.bannedInSession[op] {
		return &UnsupportedInInteractiveError{Op: op}
	}
	return nil
}

// defaultSessionBans lists the mutations that cannot be replayed to a
// solver that has already seen the session prefix.
func defaultSessionBans() map[string]bool {
	return map[string]bool{
		"tactic":    true,
		"objective": true,
		"table":     true,
		"array":     true,
		"axiom":     true,
		"code":      true,
	}
}
