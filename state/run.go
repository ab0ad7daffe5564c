package state

import "github.com/chazu/merle/expr"

// Run allocates a fresh context in the requested mode, runs the
// user-supplied construction against it, and extracts the immutable
// Result. Construction is all-or-nothing: the first builder error
// aborts the run. The final context is returned alongside the Result
// for callers that need further interaction.
func Run(mode Mode, build func(*State) error, opts ...Option) (*Result, *State, error) {
	s := New(mode, opts...)
	if err := build(s); err != nil {
		return nil, nil, err
	}
	return s.Extract(), s, nil
}

// RunInteractive allocates a context already in Interactive mode and
// runs the initial construction, returning the live context so the
// caller can keep constructing and re-extract incremental deltas across
// query rounds.
func RunInteractive(build func(*State) error, opts ...Option) (*State, error) {
	s := New(ModeInteractive, opts...)
	if err := build(s); err != nil {
		return nil, err
	}
	return s, nil
}

// Clone produces an independent logical snapshot of the context for a
// parallel case-split branch. Branches must not share a mutable context
// after the split point; each clone owns deep copies of every store.
// The memo table is part of the snapshot: a suspension forced before
// the split keeps its result in every branch, while forcings after the
// split memoize per clone.
func (s *State) Clone() *State {
	c := &State{
		mode:            s.mode,
		satSearch:       s.satSearch,
		sessionStarted:  s.sessionStarted,
		bannedInSession: copyBoolMap(s.bannedInSession),
		nextId:          s.nextId,
		program:         append(expr.Program(nil), s.program...),
		appIndex:        copyRefMap(s.appIndex),
		consts:          append([]ConstEntry(nil), s.consts...),
		constBuckets:    copyIntSliceMap(s.constBuckets),
		tables:          append([]TableEntry(nil), s.tables...),
		tableIndex:      copyIntMap(s.tableIndex),
		arrays:          append([]ArrayEntry(nil), s.arrays...),
		decls:           append([]Declaration(nil), s.decls...),
		declIndex:       copyIntMap(s.declIndex),
		inputs:          append([]Input(nil), s.inputs...),
		inputNames:      copyBoolMap(s.inputNames),
		constraints:     append([]Constraint(nil), s.constraints...),
		assertions:      append([]Assertion(nil), s.assertions...),
		tactics:         append([]Tactic(nil), s.tactics...),
		objectives:      append([]Objective(nil), s.objectives...),
		outputs:         append([]expr.Ref(nil), s.outputs...),
		usedKinds:       append([]expr.Kind(nil), s.usedKinds...),
		usedKindSet:     copyKindSet(s.usedKindSet),
		axioms:          append([]Axiom(nil), s.axioms...),
		traces:          append([]string(nil), s.traces...),
		codeSegs:        append([]string(nil), s.codeSegs...),
		rng:             s.ForkRNG(),
		path:            s.path,
		memo:            copyMemo(s.memo),
		incr:            nil,
		objCount:        s.objCount,
	}
	if s.incr != nil {
		c.incr = newSubState()
	}
	return c
}

func copyMemo(m map[uint64]memoEntry) map[uint64]memoEntry {
	out := make(map[uint64]memoEntry, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func copyBoolMap(m map[string]bool) map[string]bool {
	out := make(map[string]bool, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func copyIntMap(m map[string]int) map[string]int {
	out := make(map[string]int, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func copyRefMap(m map[string]expr.Ref) map[string]expr.Ref {
	out := make(map[string]expr.Ref, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func copyIntSliceMap(m map[string][]int) map[string][]int {
	out := make(map[string][]int, len(m))
	for k, v := range m {
		out[k] = append([]int(nil), v...)
	}
	return out
}

func copyKindSet(m map[expr.Kind]bool) map[expr.Kind]bool {
	out := make(map[expr.Kind]bool, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
