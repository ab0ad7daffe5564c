package expr

import (
	"fmt"
	"math"
	"strconv"
)

// Value is the concrete-value capability consumed from the host. The
// engine never interprets values arithmetically; it only needs equality,
// ordering, a kind projection, and a printable form.
type Value interface {
	Kind() Kind
	Equal(Value) bool
	Less(Value) bool
	String() string
}

// NegativeZeroer is implemented by float-like values that can distinguish
// -0.0 from +0.0. The constant table keeps the two as separate entries
// even though they compare equal.
type NegativeZeroer interface {
	NegativeZero() bool
}

// IsNegativeZero reports whether v is a negative zero.
func IsNegativeZero(v Value) bool {
	nz, ok := v.(NegativeZeroer)
	return ok && nz.NegativeZero()
}

// BoolValue is the boolean value type. The engine owns booleans because
// the two reserved constants and the path condition require them; all
// other value types may come from the host.
type BoolValue bool

func (b BoolValue) Kind() Kind { return BoolKind{} }

func (b BoolValue) Equal(o Value) bool {
	ob, ok := o.(BoolValue)
	return ok && b == ob
}

func (b BoolValue) Less(o Value) bool {
	ob, ok := o.(BoolValue)
	return ok && !bool(b) && bool(ob)
}

func (b BoolValue) String() string {
	if b {
		return "true"
	}
	return "false"
}

// IntValue is an unbounded-integer constant (host-supplied).
type IntValue int64

func (i IntValue) Kind() Kind { return IntKind{} }

func (i IntValue) Equal(o Value) bool {
	oi, ok := o.(IntValue)
	return ok && i == oi
}

func (i IntValue) Less(o Value) bool {
	oi, ok := o.(IntValue)
	return ok && i < oi
}

func (i IntValue) String() string { return strconv.FormatInt(int64(i), 10) }

// BitVecValue is a fixed-width bit-vector constant.
type BitVecValue struct {
	K    BitVecKind
	Bits uint64
}

func (b BitVecValue) Kind() Kind { return b.K }

func (b BitVecValue) Equal(o Value) bool {
	ob, ok := o.(BitVecValue)
	return ok && b.K == ob.K && b.Bits == ob.Bits
}

func (b BitVecValue) Less(o Value) bool {
	ob, ok := o.(BitVecValue)
	return ok && b.Bits < ob.Bits
}

func (b BitVecValue) String() string {
	return fmt.Sprintf("%d@%s", b.Bits, b.K.KindName())
}

// DoubleValue is a 64-bit floating-point constant.
type DoubleValue float64

func (d DoubleValue) Kind() Kind { return DoubleKind{} }

// Equal treats NaN as equal to NaN so that interning dedups it.
func (d DoubleValue) Equal(o Value) bool {
	od, ok := o.(DoubleValue)
	if !ok {
		return false
	}
	if math.IsNaN(float64(d)) {
		return math.IsNaN(float64(od))
	}
	return d == od
}

func (d DoubleValue) Less(o Value) bool {
	od, ok := o.(DoubleValue)
	return ok && d < od
}

func (d DoubleValue) NegativeZero() bool {
	return d == 0 && math.Signbit(float64(d))
}

func (d DoubleValue) String() string {
	return strconv.FormatFloat(float64(d), 'g', -1, 64)
}

// FloatValue is a 32-bit floating-point constant.
type FloatValue float32

func (f FloatValue) Kind() Kind { return FloatKind{} }

// Equal treats NaN as equal to NaN so that interning dedups it.
func (f FloatValue) Equal(o Value) bool {
	of, ok := o.(FloatValue)
	if !ok {
		return false
	}
	if math.IsNaN(float64(f)) {
		return math.IsNaN(float64(of))
	}
	return f == of
}

func (f FloatValue) Less(o Value) bool {
	of, ok := o.(FloatValue)
	return ok && f < of
}

func (f FloatValue) NegativeZero() bool {
	return f == 0 && math.Signbit(float64(f))
}

func (f FloatValue) String() string {
	return strconv.FormatFloat(float64(f), 'g', -1, 32)
}
