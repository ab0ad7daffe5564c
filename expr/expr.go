package expr

import "fmt"

// NodeId identifies one slot in the expression graph. Within a single
// construction context ids are unique and strictly increasing, so
// reference equality by id alone is sound.
type NodeId int

// The two reserved ids every context allocates before anything else.
const (
	FalseId NodeId = 0
	TrueId  NodeId = 1
)

// Ref is a typed handle into the expression graph: a (kind, id) pair.
type Ref struct {
	Kind Kind
	Id   NodeId
}

// Eq reports whether two references denote the same node.
func (r Ref) Eq(o Ref) bool { return r.Id == o.Id }

// Less orders references first by id, then by kind name. This is the
// total order used to canonicalize commutative operand pairs.
func (r Ref) Less(o Ref) bool {
	if r.Id != o.Id {
		return r.Id < o.Id
	}
	return r.Kind.KindName() < o.Kind.KindName()
}

func (r Ref) String() string {
	return fmt.Sprintf("n%d:%s", r.Id, r.Kind.KindName())
}

// App is one operation application: an operation tag, an optional symbol
// (uninterpreted-function name), up to two immediates (table or array
// handles), and the ordered operand references. Commutative applications
// are stored with their operands already in canonical order.
type App struct {
	Op   Op
	Sym  string
	Imm  int
	Imm2 int
	Args []Ref
}

// Canonical returns the application with commutative binary operands
// reordered into the canonical total order. Array equality canonicalizes
// its two handle immediates the same way.
func (a App) Canonical() App {
	if a.Op.Commutative() && len(a.Args) == 2 && a.Args[1].Less(a.Args[0]) {
		b := a
		b.Args = []Ref{a.Args[1], a.Args[0]}
		return b
	}
	if a.Op == OpArrayEq && a.Imm2 < a.Imm {
		b := a
		b.Imm, b.Imm2 = a.Imm2, a.Imm
		return b
	}
	return a
}

// Key returns a deterministic dedup key for the (already canonical)
// application.
func (a App) Key() string {
	k := fmt.Sprintf("%d|%s|%d|%d", a.Op, a.Sym, a.Imm, a.Imm2)
	for _, arg := range a.Args {
		k += fmt.Sprintf("|%d", arg.Id)
	}
	return k
}

// Assign is one single-static-assignment entry in the program: the
// defining reference and its application. Every operand id is strictly
// smaller than the defining id, except the two reserved constants.
type Assign struct {
	Dst Ref
	App App
}

// Program is the ordered assignment list, in creation order.
type Program []Assign
