package expr

import "fmt"

// Op tags an operation application in the expression graph.
type Op uint8

const (
	OpInvalid Op = iota

	// Boolean
	OpNot
	OpAnd
	OpOr
	OpXor
	OpImplies
	OpIte

	// Comparison
	OpEq
	OpNeq
	OpLt
	OpLe
	OpGt
	OpGe

	// Arithmetic
	OpAdd
	OpSub
	OpMul
	OpDiv
	OpMod
	OpNeg
	OpAbs

	// Shifts
	OpShl
	OpShr

	// Structures
	OpTableLookup // Imm = table index, Args = [index]
	OpArraySelect // Imm = array handle, Args = [index]
	OpArrayEq     // Imm and Imm2 = the two array handles
	OpUFApply     // Sym = declaration name
)

var opNames = map[Op]string{
	OpNot:         "not",
	OpAnd:         "and",
	OpOr:          "or",
	OpXor:         "xor",
	OpImplies:     "implies",
	OpIte:         "ite",
	OpEq:          "eq",
	OpNeq:         "neq",
	OpLt:          "lt",
	OpLe:          "le",
	OpGt:          "gt",
	OpGe:          "ge",
	OpAdd:         "add",
	OpSub:         "sub",
	OpMul:         "mul",
	OpDiv:         "div",
	OpMod:         "mod",
	OpNeg:         "neg",
	OpAbs:         "abs",
	OpShl:         "shl",
	OpShr:         "shr",
	OpTableLookup: "lookup",
	OpArraySelect: "select",
	OpArrayEq:     "array-eq",
	OpUFApply:     "apply",
}

// String returns a human-readable name for the operation.
func (op Op) String() string {
	if n, ok := opNames[op]; ok {
		return n
	}
	return fmt.Sprintf("Op(%d)", uint8(op))
}

// Commutative reports whether the binary operation's operands may be
// reordered without changing meaning. Commutative applications are
// canonicalized before hash-consing so construction order does not
// affect sharing.
func (op Op) Commutative() bool {
	switch op {
	case OpAnd, OpOr, OpXor, OpEq, OpNeq, OpAdd, OpMul:
		return true
	}
	return false
}

// ResultsInBool reports whether the operation always produces a
// boolean-kinded node regardless of operand kinds.
func (op Op) ResultsInBool() bool {
	switch op {
	case OpNot, OpAnd, OpOr, OpXor, OpImplies,
		OpEq, OpNeq, OpLt, OpLe, OpGt, OpGe, OpArrayEq:
		return true
	}
	return false
}
