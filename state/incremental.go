package state

import "github.com/chazu/merle/expr"

// SubState captures only the additions made since the last delta
// snapshot. It exists to support incremental script emission in
// interactive sessions and is replaced with a fresh instance whenever a
// new round begins.
type SubState struct {
	Consts      []ConstEntry
	Assigns     []expr.Assign
	Inputs      []Input
	Decls       []Declaration
	Constraints []Constraint
	Assertions  []Assertion
}

func newSubState() *SubState {
	return &SubState{}
}

// Empty reports whether no additions were recorded this round.
func (ss *SubState) Empty() bool {
	return len(ss.Consts) == 0 && len(ss.Assigns) == 0 &&
		len(ss.Inputs) == 0 && len(ss.Decls) == 0 &&
		len(ss.Constraints) == 0 && len(ss.Assertions) == 0
}

// TakeDelta returns the additions since the previous call and begins a
// fresh incremental round. Only meaningful in Interactive mode; other
// modes return an empty delta.
func (s *State) TakeDelta() *SubState {
	if s.incr == nil {
		return newSubState()
	}
	delta := s.incr
	s.incr = newSubState()
	return delta
}
