// Package expr defines the node and expression model for the Merle
// symbolic-execution engine: sort descriptors, typed references into the
// hash-consed expression graph, operation tags, and the concrete-value
// capability consumed from the host program.
package expr

import "fmt"

// Kind is an opaque sort descriptor. Concrete kinds are comparable
// values, so a Kind can be used directly as a map key.
type Kind interface {
	// KindName returns the sort name used for deduplication and in
	// downstream script emission.
	KindName() string
}

// BoolKind is the sort of the two reserved constants and of every
// constraint, assertion, and path condition.
type BoolKind struct{}

// BitVecKind is a fixed-width bit-vector sort.
type BitVecKind struct {
	Signed bool
	Width  int
}

// IntKind is the unbounded-integer sort.
type IntKind struct{}

// FloatKind is the 32-bit floating-point sort.
type FloatKind struct{}

// DoubleKind is the 64-bit floating-point sort.
type DoubleKind struct{}

// RealKind is the mathematical-real sort.
type RealKind struct{}

// UserKind is a user-defined (uninterpreted) sort.
type UserKind struct {
	Sort string
}

func (BoolKind) KindName() string   { return "Bool" }
func (IntKind) KindName() string    { return "Int" }
func (FloatKind) KindName() string  { return "Float" }
func (DoubleKind) KindName() string { return "Double" }
func (RealKind) KindName() string   { return "Real" }
func (k UserKind) KindName() string { return k.Sort }

func (k BitVecKind) KindName() string {
	if k.Signed {
		return fmt.Sprintf("SBV%d", k.Width)
	}
	return fmt.Sprintf("UBV%d", k.Width)
}
