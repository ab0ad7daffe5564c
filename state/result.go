package state

import "github.com/chazu/merle/expr"

// Result is the immutable snapshot of a finished construction: the
// compiled artifact handed downstream. Field order is part of the
// contract with code generation, which consumes the structure
// field-by-field in this order.
type Result struct {
	UsedKinds    []expr.Kind
	Traces       []string
	CodeSegments []string
	Inputs       []Input
	Constants    []ConstEntry
	Tables       []TableEntry
	Arrays       []ArrayEntry
	Declarations []Declaration
	Axioms       []Axiom
	Program      expr.Program
	Constraints  []Constraint
	Tactics      []Tactic
	Objectives   []Objective
	Assertions   []Assertion
	Outputs      []expr.Ref
}

// Extract snapshots the context into an immutable Result. Every store
// is read exactly once, in creation order; no store is mutated here,
// and the context stays usable (interactive callers keep constructing
// and re-extract later rounds).
func (s *State) Extract() *Result {
	return &Result{
		UsedKinds:    append([]expr.Kind(nil), s.usedKinds...),
		Traces:       append([]string(nil), s.traces...),
		CodeSegments: append([]string(nil), s.codeSegs...),
		Inputs:       append([]Input(nil), s.inputs...),
		Constants:    append([]ConstEntry(nil), s.consts...),
		Tables:       append([]TableEntry(nil), s.tables...),
		Arrays:       append([]ArrayEntry(nil), s.arrays...),
		Declarations: append([]Declaration(nil), s.decls...),
		Axioms:       append([]Axiom(nil), s.axioms...),
		Program:      append(expr.Program(nil), s.program...),
		Constraints:  append([]Constraint(nil), s.constraints...),
		Tactics:      append([]Tactic(nil), s.tactics...),
		Objectives:   append([]Objective(nil), s.objectives...),
		Assertions:   append([]Assertion(nil), s.assertions...),
		Outputs:      append([]expr.Ref(nil), s.outputs...),
	}
}
