// Package artifact serializes extracted Results into a canonical CBOR
// wire format with a content hash, and persists encoded artifacts in a
// SQLite store keyed by that hash.
package artifact

import (
	"fmt"

	"github.com/chazu/merle/expr"
	"github.com/chazu/merle/state"
)

// ArtifactVersion is the current wire format version. Increment on
// incompatible changes.
const ArtifactVersion uint16 = 1

// Ref is a wire node reference.
type Ref struct {
	Kind string `cbor:"1,keyasint"`
	Id   int64  `cbor:"2,keyasint"`
}

// Const is one interned constant: printed value plus sign-of-zero flag,
// which the value's printed form alone cannot always carry.
type Const struct {
	Ref     Ref    `cbor:"1,keyasint"`
	Value   string `cbor:"2,keyasint"`
	NegZero bool   `cbor:"3,keyasint,omitempty"`
}

// Input is one declared symbolic variable.
type Input struct {
	Quant uint8  `cbor:"1,keyasint"`
	Ref   Ref    `cbor:"2,keyasint"`
	Name  string `cbor:"3,keyasint"`
}

// Table is one interned lookup table.
type Table struct {
	IndexKind  string `cbor:"1,keyasint"`
	ResultKind string `cbor:"2,keyasint"`
	Elems      []Ref  `cbor:"3,keyasint"`
}

// Provenance tags for Array.
const (
	ProvFresh uint8 = iota
	ProvReset
	ProvMutate
	ProvMerge
)

// Array is one array-store row with its flattened provenance.
type Array struct {
	Name       string `cbor:"1,keyasint"`
	IndexKind  string `cbor:"2,keyasint"`
	ResultKind string `cbor:"3,keyasint"`
	Prov       uint8  `cbor:"4,keyasint"`
	Init       *Ref   `cbor:"5,keyasint,omitempty"`
	Source     int    `cbor:"6,keyasint,omitempty"`
	Index      *Ref   `cbor:"7,keyasint,omitempty"`
	Value      *Ref   `cbor:"8,keyasint,omitempty"`
	Cond       *Ref   `cbor:"9,keyasint,omitempty"`
	Then       int    `cbor:"10,keyasint,omitempty"`
	Else       int    `cbor:"11,keyasint,omitempty"`
}

// Decl is one uninterpreted declaration.
type Decl struct {
	Name   string   `cbor:"1,keyasint"`
	Args   []string `cbor:"2,keyasint"`
	Result string   `cbor:"3,keyasint"`
	Code   []string `cbor:"4,keyasint,omitempty"`
}

// Axiom is one named raw-text block.
type Axiom struct {
	Name  string   `cbor:"1,keyasint"`
	Lines []string `cbor:"2,keyasint"`
}

// Assign is one program assignment.
type Assign struct {
	Dst  Ref    `cbor:"1,keyasint"`
	Op   uint8  `cbor:"2,keyasint"`
	Sym  string `cbor:"3,keyasint,omitempty"`
	Imm  int    `cbor:"4,keyasint,omitempty"`
	Imm2 int    `cbor:"5,keyasint,omitempty"`
	Args []Ref  `cbor:"6,keyasint,omitempty"`
}

// Constraint is one registered constraint.
type Constraint struct {
	Name string `cbor:"1,keyasint,omitempty"`
	Node Ref    `cbor:"2,keyasint"`
}

// Assertion is one labeled assertion.
type Assertion struct {
	Label string `cbor:"1,keyasint"`
	File  string `cbor:"2,keyasint,omitempty"`
	Line  int    `cbor:"3,keyasint,omitempty"`
	Node  Ref    `cbor:"4,keyasint"`
}

// Tactic tags.
const (
	TacticCaseSplit uint8 = iota
	TacticUseSolver
	TacticStopAfter
	TacticQueryUsing
	TacticOptimizePriority
)

// Tactic is one flattened solver directive.
type Tactic struct {
	Tag      uint8    `cbor:"1,keyasint"`
	Name     string   `cbor:"2,keyasint,omitempty"`
	Parallel bool     `cbor:"3,keyasint,omitempty"`
	Seconds  int      `cbor:"4,keyasint,omitempty"`
	Text     string   `cbor:"5,keyasint,omitempty"`
	Branches []Branch `cbor:"6,keyasint,omitempty"`
}

// Branch is one case of a split.
type Branch struct {
	Label   string   `cbor:"1,keyasint"`
	Cond    *Ref     `cbor:"2,keyasint,omitempty"`
	Tactics []Tactic `cbor:"3,keyasint,omitempty"`
}

// Objective is one resolved optimization goal.
type Objective struct {
	Kind  uint8 `cbor:"1,keyasint"`
	Node  Ref   `cbor:"2,keyasint"`
	Track Ref   `cbor:"3,keyasint"`
}

// Artifact is the wire form of a state.Result. Field order mirrors the
// extraction-order contract: downstream emission walks these fields in
// declaration order.
type Artifact struct {
	Version      uint16       `cbor:"1,keyasint"`
	Kinds        []string     `cbor:"2,keyasint"`
	Traces       []string     `cbor:"3,keyasint,omitempty"`
	CodeSegments []string     `cbor:"4,keyasint,omitempty"`
	Inputs       []Input      `cbor:"5,keyasint,omitempty"`
	Constants    []Const      `cbor:"6,keyasint,omitempty"`
	Tables       []Table      `cbor:"7,keyasint,omitempty"`
	Arrays       []Array      `cbor:"8,keyasint,omitempty"`
	Declarations []Decl       `cbor:"9,keyasint,omitempty"`
	Axioms       []Axiom      `cbor:"10,keyasint,omitempty"`
	Program      []Assign     `cbor:"11,keyasint,omitempty"`
	Constraints  []Constraint `cbor:"12,keyasint,omitempty"`
	Tactics      []Tactic     `cbor:"13,keyasint,omitempty"`
	Objectives   []Objective  `cbor:"14,keyasint,omitempty"`
	Assertions   []Assertion  `cbor:"15,keyasint,omitempty"`
	Outputs      []Ref        `cbor:"16,keyasint,omitempty"`
}

// Encode flattens a Result into its wire form.
func Encode(res *state.Result) (*Artifact, error) {
	a := &Artifact{Version: ArtifactVersion}
	for _, k := range res.UsedKinds {
		a.Kinds = append(a.Kinds, k.KindName())
	}
	a.Traces = append(a.Traces, res.Traces...)
	a.CodeSegments = append(a.CodeSegments, res.CodeSegments...)
	for _, in := range res.Inputs {
		a.Inputs = append(a.Inputs, Input{
			Quant: uint8(in.Quant),
			Ref:   wireRef(in.Ref),
			Name:  in.Name,
		})
	}
	for _, c := range res.Constants {
		a.Constants = append(a.Constants, Const{
			Ref:     wireRef(c.Ref),
			Value:   c.Value.String(),
			NegZero: expr.IsNegativeZero(c.Value),
		})
	}
	for _, t := range res.Tables {
		a.Tables = append(a.Tables, Table{
			IndexKind:  t.IndexKind.KindName(),
			ResultKind: t.ResultKind.KindName(),
			Elems:      wireRefs(t.Elems),
		})
	}
	for _, ae := range res.Arrays {
		w, err := wireArray(ae)
		if err != nil {
			return nil, err
		}
		a.Arrays = append(a.Arrays, w)
	}
	for _, d := range res.Declarations {
		wd := Decl{Name: d.Name, Result: d.Sig.Result.KindName(), Code: d.Code}
		for _, ak := range d.Sig.Args {
			wd.Args = append(wd.Args, ak.KindName())
		}
		a.Declarations = append(a.Declarations, wd)
	}
	for _, ax := range res.Axioms {
		a.Axioms = append(a.Axioms, Axiom{Name: ax.Name, Lines: ax.Lines})
	}
	for _, asg := range res.Program {
		a.Program = append(a.Program, Assign{
			Dst:  wireRef(asg.Dst),
			Op:   uint8(asg.App.Op),
			Sym:  asg.App.Sym,
			Imm:  asg.App.Imm,
			Imm2: asg.App.Imm2,
			Args: wireRefs(asg.App.Args),
		})
	}
	for _, c := range res.Constraints {
		a.Constraints = append(a.Constraints, Constraint{Name: c.Name, Node: wireRef(c.Node)})
	}
	for _, t := range res.Tactics {
		wt, err := wireTactic(t)
		if err != nil {
			return nil, err
		}
		a.Tactics = append(a.Tactics, wt)
	}
	for _, o := range res.Objectives {
		a.Objectives = append(a.Objectives, Objective{
			Kind:  uint8(o.Kind),
			Node:  wireRef(o.Node),
			Track: wireRef(o.Track),
		})
	}
	for _, as := range res.Assertions {
		wa := Assertion{Label: as.Label, Node: wireRef(as.Node)}
		if as.Loc != nil {
			wa.File = as.Loc.File
			wa.Line = as.Loc.Line
		}
		a.Assertions = append(a.Assertions, wa)
	}
	a.Outputs = wireRefs(res.Outputs)
	return a, nil
}

func wireRef(r expr.Ref) Ref {
	return Ref{Kind: r.Kind.KindName(), Id: int64(r.Id)}
}

func wireRefPtr(r expr.Ref) *Ref {
	w := wireRef(r)
	return &w
}

func wireRefs(refs []expr.Ref) []Ref {
	out := make([]Ref, 0, len(refs))
	for _, r := range refs {
		out = append(out, wireRef(r))
	}
	return out
}

func wireArray(e state.ArrayEntry) (Array, error) {
	w := Array{
		Name:       e.Name,
		IndexKind:  e.IndexKind.KindName(),
		ResultKind: e.ResultKind.KindName(),
	}
	switch p := e.Prov.(type) {
	case *state.FreshArray:
		w.Prov = ProvFresh
		if p.Init != nil {
			w.Init = wireRefPtr(*p.Init)
		}
	case *state.ResetArray:
		w.Prov = ProvReset
		w.Source = p.Source
		w.Value = wireRefPtr(p.Value)
	case *state.MutateArray:
		w.Prov = ProvMutate
		w.Source = p.Source
		w.Index = wireRefPtr(p.Index)
		w.Value = wireRefPtr(p.Value)
	case *state.MergeArray:
		w.Prov = ProvMerge
		w.Cond = wireRefPtr(p.Cond)
		w.Then = p.Then
		w.Else = p.Else
	default:
		return Array{}, fmt.Errorf("artifact: unknown provenance %T", e.Prov)
	}
	return w, nil
}

func wireTactic(t state.Tactic) (Tactic, error) {
	switch tt := t.(type) {
	case *state.CaseSplit:
		w := Tactic{Tag: TacticCaseSplit, Name: tt.Name, Parallel: tt.Parallel}
		for _, br := range tt.Branches {
			wb := Branch{Label: br.Label}
			if br.CondRef != nil {
				wb.Cond = wireRefPtr(*br.CondRef)
			} else if br.Cond != nil {
				return Tactic{}, fmt.Errorf("artifact: unresolved case-split condition in %q", tt.Name)
			}
			for _, nested := range br.Tactics {
				wn, err := wireTactic(nested)
				if err != nil {
					return Tactic{}, err
				}
				wb.Tactics = append(wb.Tactics, wn)
			}
			w.Branches = append(w.Branches, wb)
		}
		return w, nil
	case *state.UseSolver:
		return Tactic{Tag: TacticUseSolver, Name: tt.Name}, nil
	case *state.StopAfter:
		return Tactic{Tag: TacticStopAfter, Seconds: tt.Seconds}, nil
	case *state.QueryUsing:
		return Tactic{Tag: TacticQueryUsing, Text: tt.Text}, nil
	case *state.OptimizePriority:
		return Tactic{Tag: TacticOptimizePriority, Name: tt.Style}, nil
	default:
		return Tactic{}, fmt.Errorf("artifact: unknown tactic %T", t)
	}
}
