package expr

import "testing"

func TestRefOrdering(t *testing.T) {
	a := Ref{Kind: IntKind{}, Id: 3}
	b := Ref{Kind: IntKind{}, Id: 4}

	if !a.Less(b) {
		t.Error("a.Less(b) = false, want true")
	}
	if b.Less(a) {
		t.Error("b.Less(a) = true, want false")
	}

	// Equality is by id only.
	c := Ref{Kind: BoolKind{}, Id: 3}
	if !a.Eq(c) {
		t.Error("refs with equal ids should be equal")
	}
}

func TestCanonicalReordersCommutative(t *testing.T) {
	x := Ref{Kind: IntKind{}, Id: 5}
	y := Ref{Kind: IntKind{}, Id: 2}

	app := App{Op: OpAdd, Args: []Ref{x, y}}.Canonical()
	if app.Args[0].Id != 2 || app.Args[1].Id != 5 {
		t.Errorf("canonical order = [%d %d], want [2 5]", app.Args[0].Id, app.Args[1].Id)
	}

	// Non-commutative operands stay put.
	app = App{Op: OpSub, Args: []Ref{x, y}}.Canonical()
	if app.Args[0].Id != 5 {
		t.Errorf("sub operands reordered: first = %d, want 5", app.Args[0].Id)
	}
}

func TestCanonicalKeyAgrees(t *testing.T) {
	x := Ref{Kind: IntKind{}, Id: 7}
	y := Ref{Kind: IntKind{}, Id: 9}

	k1 := App{Op: OpMul, Args: []Ref{x, y}}.Canonical().Key()
	k2 := App{Op: OpMul, Args: []Ref{y, x}}.Canonical().Key()
	if k1 != k2 {
		t.Errorf("keys differ for commuted operands: %q vs %q", k1, k2)
	}
}

func TestCommutativeOps(t *testing.T) {
	comm := []Op{OpAdd, OpMul, OpEq, OpNeq, OpAnd, OpOr, OpXor}
	for _, op := range comm {
		if !op.Commutative() {
			t.Errorf("%s.Commutative() = false, want true", op)
		}
	}
	nonComm := []Op{OpSub, OpDiv, OpLt, OpImplies, OpShl}
	for _, op := range nonComm {
		if op.Commutative() {
			t.Errorf("%s.Commutative() = true, want false", op)
		}
	}
}

func TestKindNames(t *testing.T) {
	tests := []struct {
		kind Kind
		want string
	}{
		{BoolKind{}, "Bool"},
		{IntKind{}, "Int"},
		{BitVecKind{Signed: true, Width: 32}, "SBV32"},
		{BitVecKind{Signed: false, Width: 8}, "UBV8"},
		{UserKind{Sort: "Color"}, "Color"},
	}
	for _, tt := range tests {
		if got := tt.kind.KindName(); got != tt.want {
			t.Errorf("KindName() = %q, want %q", got, tt.want)
		}
	}
}

func TestNegativeZero(t *testing.T) {
	negZero := DoubleValue(negZeroFloat())
	posZero := DoubleValue(0.0)

	if !IsNegativeZero(negZero) {
		t.Error("IsNegativeZero(-0.0) = false, want true")
	}
	if IsNegativeZero(posZero) {
		t.Error("IsNegativeZero(+0.0) = true, want false")
	}
	// They still compare equal as values.
	if !negZero.Equal(posZero) {
		t.Error("-0.0 and +0.0 should compare equal")
	}
}

func negZeroFloat() float64 {
	z := 0.0
	return -z
}
