package state

import (
	"errors"
	"math"
	"testing"

	"github.com/chazu/merle/expr"
)

func TestReservedConstants(t *testing.T) {
	s := New(ModeProof)

	f, err := s.Const(expr.BoolValue(false))
	if err != nil {
		t.Fatalf("Const(false): %v", err)
	}
	if f.Id != expr.FalseId {
		t.Errorf("false id = %d, want %d", f.Id, expr.FalseId)
	}
	tr, err := s.Const(expr.BoolValue(true))
	if err != nil {
		t.Fatalf("Const(true): %v", err)
	}
	if tr.Id != expr.TrueId {
		t.Errorf("true id = %d, want %d", tr.Id, expr.TrueId)
	}

	// The next allocation gets a strictly larger id.
	c, err := s.Const(expr.IntValue(0))
	if err != nil {
		t.Fatalf("Const(0): %v", err)
	}
	if c.Id != 2 {
		t.Errorf("first non-reserved id = %d, want 2", c.Id)
	}
}

func TestConstInterning(t *testing.T) {
	s := New(ModeProof)

	a, err := s.Const(expr.IntValue(42))
	if err != nil {
		t.Fatalf("Const: %v", err)
	}
	b, err := s.Const(expr.IntValue(42))
	if err != nil {
		t.Fatalf("Const: %v", err)
	}
	if !a.Eq(b) {
		t.Errorf("interning 42 twice gave n%d and n%d", a.Id, b.Id)
	}

	c, err := s.Const(expr.IntValue(43))
	if err != nil {
		t.Fatalf("Const: %v", err)
	}
	if c.Eq(a) {
		t.Error("distinct values share a node")
	}
}

func TestNaNInternsOnce(t *testing.T) {
	s := New(ModeProof)

	a, err := s.Const(expr.DoubleValue(math.NaN()))
	if err != nil {
		t.Fatalf("Const(NaN): %v", err)
	}
	b, err := s.Const(expr.DoubleValue(math.NaN()))
	if err != nil {
		t.Fatalf("Const(NaN): %v", err)
	}
	if !a.Eq(b) {
		t.Errorf("interning NaN twice gave n%d and n%d", a.Id, b.Id)
	}

	f1, _ := s.Const(expr.FloatValue(float32(math.NaN())))
	f2, _ := s.Const(expr.FloatValue(float32(math.NaN())))
	if !f1.Eq(f2) {
		t.Errorf("interning float NaN twice gave n%d and n%d", f1.Id, f2.Id)
	}
}

func TestSignedZerosStayDistinct(t *testing.T) {
	s := New(ModeProof)

	z := 0.0
	pos, err := s.Const(expr.DoubleValue(z))
	if err != nil {
		t.Fatalf("Const(+0.0): %v", err)
	}
	neg, err := s.Const(expr.DoubleValue(-z))
	if err != nil {
		t.Fatalf("Const(-0.0): %v", err)
	}
	if pos.Eq(neg) {
		t.Error("+0.0 and -0.0 interned to the same node")
	}

	// Re-interning each resolves to its own entry.
	pos2, _ := s.Const(expr.DoubleValue(z))
	neg2, _ := s.Const(expr.DoubleValue(-z))
	if !pos.Eq(pos2) || !neg.Eq(neg2) {
		t.Error("re-interning signed zeros did not preserve identity")
	}
}

func TestCommutativeSharing(t *testing.T) {
	s := New(ModeProof)

	x, err := s.Var("x", expr.IntKind{}, QuantForAll)
	if err != nil {
		t.Fatalf("Var(x): %v", err)
	}
	y, err := s.Var("y", expr.IntKind{}, QuantForAll)
	if err != nil {
		t.Fatalf("Var(y): %v", err)
	}

	xy, err := s.Add(x, y)
	if err != nil {
		t.Fatalf("Add(x,y): %v", err)
	}
	yx, err := s.Add(y, x)
	if err != nil {
		t.Fatalf("Add(y,x): %v", err)
	}
	if !xy.Eq(yx) {
		t.Errorf("x+y is n%d but y+x is n%d, want one shared node", xy.Id, yx.Id)
	}
}

func TestAdditionSharingEndToEnd(t *testing.T) {
	s := New(ModeProof)

	// id 2 taken by a constant so the inputs land on 3 and 4.
	if _, err := s.Const(expr.IntValue(1)); err != nil {
		t.Fatalf("Const: %v", err)
	}
	x, _ := s.Var("x", expr.IntKind{}, QuantForAll)
	y, _ := s.Var("y", expr.IntKind{}, QuantForAll)
	if x.Id != 3 || y.Id != 4 {
		t.Fatalf("input ids = %d, %d, want 3, 4", x.Id, y.Id)
	}

	xy, _ := s.Add(x, y)
	yx, _ := s.Add(y, x)
	if xy.Id != 5 || !xy.Eq(yx) {
		t.Errorf("shared addition node = n%d/n%d, want both n5", xy.Id, yx.Id)
	}

	prog := s.Extract().Program
	adds := 0
	for _, asg := range prog {
		if asg.App.Op == expr.OpAdd {
			adds++
		}
	}
	if adds != 1 {
		t.Errorf("program has %d addition assignments, want 1", adds)
	}
}

func TestOperandOrderPreservedForNonCommutative(t *testing.T) {
	s := New(ModeProof)

	x, _ := s.Var("x", expr.IntKind{}, QuantForAll)
	y, _ := s.Var("y", expr.IntKind{}, QuantForAll)

	ab, _ := s.Sub(x, y)
	ba, _ := s.Sub(y, x)
	if ab.Eq(ba) {
		t.Error("x-y and y-x collapsed to one node")
	}
}

func TestTableInterning(t *testing.T) {
	s := New(ModeProof)

	e1, _ := s.Const(expr.IntValue(10))
	e2, _ := s.Const(expr.IntValue(20))
	elems := []expr.Ref{e1, e2}

	idx, err := s.Table(expr.IntKind{}, expr.IntKind{}, elems)
	if err != nil {
		t.Fatalf("Table: %v", err)
	}
	if idx != 0 {
		t.Errorf("first table index = %d, want 0", idx)
	}

	again, err := s.Table(expr.IntKind{}, expr.IntKind{}, elems)
	if err != nil {
		t.Fatalf("Table: %v", err)
	}
	if again != idx {
		t.Errorf("identical table re-interned at %d, want %d", again, idx)
	}

	other, err := s.Table(expr.IntKind{}, expr.IntKind{}, []expr.Ref{e2, e1})
	if err != nil {
		t.Fatalf("Table: %v", err)
	}
	if other != 1 {
		t.Errorf("new table index = %d, want 1 (store size before insertion)", other)
	}
}

func TestLookupProducesNode(t *testing.T) {
	s := New(ModeProof)

	e1, _ := s.Const(expr.IntValue(10))
	idx, _ := s.Table(expr.IntKind{}, expr.IntKind{}, []expr.Ref{e1})
	i, _ := s.Var("i", expr.IntKind{}, QuantForAll)

	r1, err := s.Lookup(idx, i)
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}
	r2, _ := s.Lookup(idx, i)
	if !r1.Eq(r2) {
		t.Error("repeated lookup at same (table, index) did not collapse")
	}

	if _, err := s.Lookup(99, i); err == nil {
		t.Error("lookup on unknown table succeeded")
	}
}

func TestDeclareSignatures(t *testing.T) {
	s := New(ModeProof)

	sig := Signature{Args: []expr.Kind{expr.IntKind{}}, Result: expr.BoolKind{}}
	if err := s.Declare("p", sig); err != nil {
		t.Fatalf("Declare: %v", err)
	}
	before := len(s.Extract().Declarations)

	// Same signature: no-op.
	if err := s.Declare("p", sig); err != nil {
		t.Errorf("redeclare with same signature: %v", err)
	}
	if got := len(s.Extract().Declarations); got != before {
		t.Errorf("declaration store grew to %d on redeclare, want %d", got, before)
	}

	// Different signature: validation error.
	other := Signature{Args: []expr.Kind{expr.RealKind{}}, Result: expr.BoolKind{}}
	err := s.Declare("p", other)
	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Errorf("redeclare with different signature: got %v, want ValidationError", err)
	}
}

func TestApplyUF(t *testing.T) {
	s := New(ModeProof)

	sig := Signature{Args: []expr.Kind{expr.IntKind{}}, Result: expr.IntKind{}}
	if err := s.Declare("f", sig); err != nil {
		t.Fatalf("Declare: %v", err)
	}
	x, _ := s.Var("x", expr.IntKind{}, QuantForAll)

	fx, err := s.ApplyUF("f", x)
	if err != nil {
		t.Fatalf("ApplyUF: %v", err)
	}
	fx2, _ := s.ApplyUF("f", x)
	if !fx.Eq(fx2) {
		t.Error("f(x) applied twice gave two nodes")
	}

	if _, err := s.ApplyUF("g", x); err == nil {
		t.Error("applying undeclared function succeeded")
	}
	if _, err := s.ApplyUF("f", x, x); err == nil {
		t.Error("arity mismatch succeeded")
	}
}

func TestDuplicateInputNames(t *testing.T) {
	s := New(ModeProof)

	if _, err := s.Var("n", expr.IntKind{}, QuantForAll); err != nil {
		t.Fatalf("Var(n): %v", err)
	}
	_, err := s.Var("n", expr.IntKind{}, QuantForAll)
	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Errorf("duplicate input name: got %v, want ValidationError", err)
	}

	if _, err := s.Var("m", expr.IntKind{}, QuantForAll); err != nil {
		t.Errorf("distinct input name rejected: %v", err)
	}
}

func TestIdentifierValidation(t *testing.T) {
	s := New(ModeProof)

	bad := []string{"", "assert", "check-sat", "1x", "a b", "-lead"}
	for _, name := range bad {
		if _, err := s.Var(name, expr.IntKind{}, QuantForAll); err == nil {
			t.Errorf("Var(%q) succeeded, want validation error", name)
		}
	}
	good := []string{"x", "_tmp", "state0", "a-b", "ns.x", "x'"}
	for _, name := range good {
		if _, err := s.Var(name, expr.IntKind{}, QuantForAll); err != nil {
			t.Errorf("Var(%q): %v", name, err)
		}
	}
}

func TestUsedKindsRegisteredOnce(t *testing.T) {
	s := New(ModeProof)

	s.Var("x", expr.IntKind{}, QuantForAll)
	s.Var("y", expr.IntKind{}, QuantForAll)
	s.Var("b", expr.BitVecKind{Signed: true, Width: 16}, QuantForAll)

	kinds := s.Extract().UsedKinds
	seen := map[string]int{}
	for _, k := range kinds {
		seen[k.KindName()]++
	}
	if seen["Int"] != 1 {
		t.Errorf("Int registered %d times, want 1", seen["Int"])
	}
	if seen["SBV16"] != 1 {
		t.Errorf("SBV16 registered %d times, want 1", seen["SBV16"])
	}
}

func TestReservedKindName(t *testing.T) {
	s := New(ModeProof)

	_, err := s.Var("x", expr.UserKind{Sort: "Array"}, QuantForAll)
	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Errorf("reserved kind name: got %v, want ValidationError", err)
	}
}
