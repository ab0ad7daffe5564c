package state

import (
	"fmt"

	"github.com/chazu/merle/expr"
)

// ---------------------------------------------------------------------------
// Node allocation and hash-consing
// ---------------------------------------------------------------------------

// allocNode assigns the next id, registers the node's kind, and hands
// back the reference. Ids are strictly increasing; 0 and 1 are taken by
// the reserved constants.
func (s *State) allocNode(kind expr.Kind) (expr.Ref, error) {
	if err := s.registerKind(kind); err != nil {
		return expr.Ref{}, err
	}
	ref := expr.Ref{Kind: kind, Id: s.nextId}
	s.nextId++
	return ref, nil
}

// internReserved seeds one of the two reserved boolean constants.
func (s *State) internReserved(v expr.BoolValue) {
	ref, _ := s.allocNode(v.Kind())
	s.addConst(ConstEntry{Ref: ref, Value: v})
}

func (s *State) addConst(e ConstEntry) {
	idx := len(s.consts)
	s.consts = append(s.consts, e)
	key := constBucketKey(e.Value)
	s.constBuckets[key] = append(s.constBuckets[key], idx)
	if s.incr != nil {
		s.incr.Consts = append(s.incr.Consts, e)
	}
}

// constBucketKey buckets by kind and printed value; entries within a
// bucket are resolved by value equality plus the sign-of-zero flag, so
// +0.0 and -0.0 stay distinct despite comparing equal.
func constBucketKey(v expr.Value) string {
	return v.Kind().KindName() + "|" + v.String()
}

// Const interns a concrete value, allocating a constant node the first
// time a given (sign-of-zero, value) pair is seen.
func (s *State) Const(v expr.Value) (expr.Ref, error) {
	neg := expr.IsNegativeZero(v)
	key := constBucketKey(v)
	for _, idx := range s.constBuckets[key] {
		e := s.consts[idx]
		if e.Value.Equal(v) && expr.IsNegativeZero(e.Value) == neg {
			return e.Ref, nil
		}
	}
	ref, err := s.allocNode(v.Kind())
	if err != nil {
		return expr.Ref{}, err
	}
	s.addConst(ConstEntry{Ref: ref, Value: v})
	return ref, nil
}

// Bool interns a boolean, resolving to one of the reserved nodes.
func (s *State) Bool(b bool) expr.Ref {
	if b {
		return s.True()
	}
	return s.False()
}

// apply hash-conses one operation application: canonicalize, look up,
// and only on a miss allocate a node and append the assignment to the
// program.
func (s *State) apply(kind expr.Kind, app expr.App) (expr.Ref, error) {
	app = app.Canonical()
	key := app.Key()
	if ref, ok := s.appIndex[key]; ok {
		return ref, nil
	}
	ref, err := s.allocNode(kind)
	if err != nil {
		return expr.Ref{}, err
	}
	asg := expr.Assign{Dst: ref, App: app}
	s.program = append(s.program, asg)
	s.appIndex[key] = ref
	if s.incr != nil {
		s.incr.Assigns = append(s.incr.Assigns, asg)
	}
	return ref, nil
}

// Apply builds an operation application over already-allocated
// operands. The result kind follows the operation: comparisons and
// boolean connectives produce Bool, everything else the first operand's
// kind.
func (s *State) Apply(op expr.Op, args ...expr.Ref) (expr.Ref, error) {
	if len(args) == 0 {
		return expr.Ref{}, validationf("operation needs at least one operand", "%s", op)
	}
	kind := args[0].Kind
	if op.ResultsInBool() {
		kind = expr.BoolKind{}
	}
	return s.apply(kind, expr.App{Op: op, Args: args})
}

// Binary convenience constructors. Callers reuse the returned reference
// to get sharing; the hash-consing store collapses reconstructed
// structurally-identical terms anyway.

func (s *State) Add(a, b expr.Ref) (expr.Ref, error) { return s.Apply(expr.OpAdd, a, b) }
func (s *State) Sub(a, b expr.Ref) (expr.Ref, error) { return s.Apply(expr.OpSub, a, b) }
func (s *State) Mul(a, b expr.Ref) (expr.Ref, error) { return s.Apply(expr.OpMul, a, b) }
func (s *State) Div(a, b expr.Ref) (expr.Ref, error) { return s.Apply(expr.OpDiv, a, b) }
func (s *State) Mod(a, b expr.Ref) (expr.Ref, error) { return s.Apply(expr.OpMod, a, b) }
func (s *State) And(a, b expr.Ref) (expr.Ref, error) { return s.Apply(expr.OpAnd, a, b) }
func (s *State) Or(a, b expr.Ref) (expr.Ref, error)  { return s.Apply(expr.OpOr, a, b) }
func (s *State) Xor(a, b expr.Ref) (expr.Ref, error) { return s.Apply(expr.OpXor, a, b) }
func (s *State) Eq(a, b expr.Ref) (expr.Ref, error)  { return s.Apply(expr.OpEq, a, b) }
func (s *State) Neq(a, b expr.Ref) (expr.Ref, error) { return s.Apply(expr.OpNeq, a, b) }
func (s *State) Lt(a, b expr.Ref) (expr.Ref, error)  { return s.Apply(expr.OpLt, a, b) }
func (s *State) Le(a, b expr.Ref) (expr.Ref, error)  { return s.Apply(expr.OpLe, a, b) }
func (s *State) Not(a expr.Ref) (expr.Ref, error)    { return s.Apply(expr.OpNot, a) }

// Ite builds a conditional over a boolean condition and two same-kinded
// branches.
func (s *State) Ite(cond, then, els expr.Ref) (expr.Ref, error) {
	return s.apply(then.Kind, expr.App{Op: expr.OpIte, Args: []expr.Ref{cond, then, els}})
}

// ApplyUF applies a previously declared uninterpreted function.
func (s *State) ApplyUF(name string, args ...expr.Ref) (expr.Ref, error) {
	i, ok := s.declIndex[name]
	if !ok {
		return expr.Ref{}, validationf("undeclared uninterpreted function", "%s", name)
	}
	sig := s.decls[i].Sig
	if len(args) != len(sig.Args) {
		return expr.Ref{}, validationf("arity mismatch in uninterpreted application",
			"%s/%d", name, len(args))
	}
	return s.apply(sig.Result, expr.App{Op: expr.OpUFApply, Sym: name, Args: args})
}

// ---------------------------------------------------------------------------
// Lookup tables
// ---------------------------------------------------------------------------

// Table interns a lookup table, returning its dense index. A repeated
// (index kind, result kind, elements) triple returns the original
// index; a new triple gets the store size at insertion time.
func (s *State) Table(indexKind, resultKind expr.Kind, elems []expr.Ref) (int, error) {
	if err := s.guard("table"); err != nil {
		return 0, err
	}
	key := tableKey(indexKind, resultKind, elems)
	if idx, ok := s.tableIndex[key]; ok {
		return idx, nil
	}
	if err := s.registerKind(indexKind); err != nil {
		return 0, err
	}
	if err := s.registerKind(resultKind); err != nil {
		return 0, err
	}
	idx := len(s.tables)
	s.tables = append(s.tables, TableEntry{
		IndexKind:  indexKind,
		ResultKind: resultKind,
		Elems:      append([]expr.Ref(nil), elems...),
	})
	s.tableIndex[key] = idx
	return idx, nil
}

// Lookup reads a table at a symbolic index, producing a result-kinded
// node.
func (s *State) Lookup(table int, index expr.Ref) (expr.Ref, error) {
	if table < 0 || table >= len(s.tables) {
		return expr.Ref{}, validationf("unknown table index", "%d", table)
	}
	rk := s.tables[table].ResultKind
	return s.apply(rk, expr.App{Op: expr.OpTableLookup, Imm: table, Args: []expr.Ref{index}})
}

func tableKey(ik, rk expr.Kind, elems []expr.Ref) string {
	k := ik.KindName() + "|" + rk.KindName()
	for _, e := range elems {
		k += fmt.Sprintf("|%d", e.Id)
	}
	return k
}
