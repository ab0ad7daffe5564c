package state

import "fmt"

// The construction has no recoverable-error channel: every builder
// operation validates its own preconditions and the first violation
// aborts the whole run. Each error names the violated invariant and the
// offending name or value.

// ValidationError reports a malformed identifier, a duplicate name, a
// signature mismatch, an out-of-range probability, or a kind forbidden
// in the current mode.
type ValidationError struct {
	What string // the violated invariant
	Name string // the offending name or value
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("state: validation: %s: %q", e.What, e.Name)
}

// ModeViolationError reports an operation that is illegal in the
// context's current run mode.
type ModeViolationError struct {
	Mode Mode
	Op   string
}

func (e *ModeViolationError) Error() string {
	return fmt.Sprintf("state: %s not allowed in %s mode", e.Op, e.Mode)
}

// UnsupportedInInteractiveError reports a mutation attempted after an
// interactive session has begun that is not on the allowed-mutation
// list.
type UnsupportedInInteractiveError struct {
	Op string
}

func (e *UnsupportedInInteractiveError) Error() string {
	return fmt.Sprintf("state: %s is not supported once an interactive session has started", e.Op)
}

func validationf(what, nameFormat string, args ...interface{}) error {
	return &ValidationError{What: what, Name: fmt.Sprintf(nameFormat, args...)}
}
