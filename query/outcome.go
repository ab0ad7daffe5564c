package query

import "fmt"

// OutcomeKind classifies what one solving round returned.
type OutcomeKind uint8

const (
	// Unsatisfiable: no model exists; Core may carry an unsat core.
	Unsatisfiable OutcomeKind = iota

	// Satisfiable: a model exists.
	Satisfiable

	// SatisfiableExtended: a model exists and its text was retrieved.
	SatisfiableExtended

	// Unknown: the solver gave up; Model may hold a best-effort model.
	Unknown

	// ProofError: the solver reported an error for the round.
	ProofError

	// TimeOut: the solver-side stop-after budget expired.
	TimeOut
)

// String returns a human-readable name for the outcome kind.
func (k OutcomeKind) String() string {
	switch k {
	case Unsatisfiable:
		return "unsat"
	case Satisfiable:
		return "sat"
	case SatisfiableExtended:
		return "sat+model"
	case Unknown:
		return "unknown"
	case ProofError:
		return "error"
	case TimeOut:
		return "timeout"
	default:
		return fmt.Sprintf("OutcomeKind(%d)", uint8(k))
	}
}

// Outcome is one entry of a round's result list.
type Outcome struct {
	Kind    OutcomeKind
	Model   string   // raw model text, when the solver produced one
	Core    []string // unsat core labels, when requested and available
	Message string   // solver diagnostic for ProofError
}
