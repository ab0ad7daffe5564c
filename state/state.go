// Package state implements the construction context of the Merle
// symbolic-execution engine: the mutable aggregate that owns every
// hash-consing store, the run-mode policy, the identity-preserving
// cache, the symbolic-array subsystem, and the final extraction of the
// immutable Result artifact.
//
// A context is built and mutated by exactly one logical thread of
// control; it provides no internal locking and must not be shared for
// concurrent writes.
package state

import (
	"math/rand"

	"github.com/chazu/merle/expr"
)

// ---------------------------------------------------------------------------
// Store entry types
// ---------------------------------------------------------------------------

// ConstEntry is one interned constant: its node reference and value.
type ConstEntry struct {
	Ref   expr.Ref
	Value expr.Value
}

// TableEntry is one interned lookup table.
type TableEntry struct {
	IndexKind  expr.Kind
	ResultKind expr.Kind
	Elems      []expr.Ref
}

// Input is one declared symbolic variable.
type Input struct {
	Quant Quantifier
	Ref   expr.Ref
	Name  string
}

// Constraint is one registered path constraint.
type Constraint struct {
	Name string // optional
	Node expr.Ref
}

// SourceLoc is opaque caller-supplied location metadata.
type SourceLoc struct {
	File string
	Line int
}

// Assertion pairs a label, optional location, and a boolean node.
// Unlike input names, assertion labels may repeat.
type Assertion struct {
	Label string
	Loc   *SourceLoc
	Node  expr.Ref
}

// Signature is an uninterpreted declaration's type: argument kinds plus
// result kind.
type Signature struct {
	Args   []expr.Kind
	Result expr.Kind
}

func (sig Signature) equal(o Signature) bool {
	if len(sig.Args) != len(o.Args) || sig.Result != o.Result {
		return false
	}
	for i := range sig.Args {
		if sig.Args[i] != o.Args[i] {
			return false
		}
	}
	return true
}

// Declaration is one uninterpreted function or constant, optionally
// paired with a user-supplied code body.
type Declaration struct {
	Name string
	Sig  Signature
	Code []string
}

// Axiom is a named block of raw solver text, opaque to the engine.
type Axiom struct {
	Name  string
	Lines []string
}

// ---------------------------------------------------------------------------
// Construction context
// ---------------------------------------------------------------------------

// State is the construction context: the single mutable aggregate every
// builder operation runs against.
type State struct {
	mode            Mode
	satSearch       bool
	sessionStarted  bool
	bannedInSession map[string]bool

	nextId   expr.NodeId
	program  expr.Program
	appIndex map[string]expr.Ref

	consts       []ConstEntry
	constBuckets map[string][]int

	tables     []TableEntry
	tableIndex map[string]int

	arrays []ArrayEntry

	decls     []Declaration
	declIndex map[string]int

	inputs     []Input
	inputNames map[string]bool

	constraints []Constraint
	assertions  []Assertion
	tactics     []Tactic
	objectives  []Objective
	outputs     []expr.Ref

	usedKinds   []expr.Kind
	usedKindSet map[expr.Kind]bool

	axioms   []Axiom
	traces   []string
	codeSegs []string

	rng  *rand.Rand
	path expr.Ref

	memo map[uint64]memoEntry
	incr *SubState

	objCount int
}

// Option configures a fresh context.
type Option func(*State)

// WithSeed seeds the context's generator. The generator is consulted
// only in Concrete mode.
func WithSeed(seed int64) Option {
	return func(s *State) { s.rng = rand.New(rand.NewSource(seed)) }
}

// WithSatSearch selects satisfiability search (existential default)
// instead of theorem proving (universal default) for Proof and
// Interactive contexts.
func WithSatSearch() Option {
	return func(s *State) { s.satSearch = true }
}

// WithSessionBans overrides the set of mutations rejected once an
// interactive session has started.
func WithSessionBans(ops ...string) Option {
	return func(s *State) {
		s.bannedInSession = make(map[string]bool, len(ops))
		for _, op := range ops {
			s.bannedInSession[op] = true
		}
	}
}

// New allocates a fresh context in the given mode. The constant table
// is pre-seeded with the reserved false and true constants so they
// occupy the two lowest node ids in every context.
func New(mode Mode, opts ...Option) *State {
	s := &State{
		mode:            mode,
		bannedInSession: defaultSessionBans(),
		appIndex:        make(map[string]expr.Ref),
		constBuckets:    make(map[string][]int),
		tableIndex:      make(map[string]int),
		declIndex:       make(map[string]int),
		inputNames:      make(map[string]bool),
		usedKindSet:     make(map[expr.Kind]bool),
		memo:            make(map[uint64]memoEntry),
		rng:             rand.New(rand.NewSource(1)),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.internReserved(expr.BoolValue(false)) // id 0
	s.internReserved(expr.BoolValue(true))  // id 1
	s.path = s.True()
	if mode == ModeInteractive {
		s.incr = newSubState()
	}
	return s
}

// Mode returns the context's current run mode.
func (s *State) Mode() Mode { return s.mode }

// SatSearch reports whether the context defaults to existential
// quantification.
func (s *State) SatSearch() bool { return s.satSearch }

// False returns the reserved false constant.
func (s *State) False() expr.Ref {
	return expr.Ref{Kind: expr.BoolKind{}, Id: expr.FalseId}
}

// True returns the reserved true constant.
func (s *State) True() expr.Ref {
	return expr.Ref{Kind: expr.BoolKind{}, Id: expr.TrueId}
}

// Reseed replaces the generator for reproducible Concrete runs.
func (s *State) Reseed(seed int64) {
	s.rng = rand.New(rand.NewSource(seed))
}

// ForkRNG derives an independent generator from the context's stream,
// leaving the context's own stream positioned after the draw.
func (s *State) ForkRNG() *rand.Rand {
	return rand.New(rand.NewSource(s.rng.Int63()))
}

// ---------------------------------------------------------------------------
// Path condition
// ---------------------------------------------------------------------------

// PathCond returns the boolean condition under which the current
// construction step occurs.
func (s *State) PathCond() expr.Ref { return s.path }

// WithPath conjoins cond onto the path condition for the duration of fn.
func (s *State) WithPath(cond expr.Ref, fn func() error) error {
	conj, err := s.And(s.path, cond)
	if err != nil {
		return err
	}
	saved := s.path
	s.path = conj
	defer func() { s.path = saved }()
	return fn()
}

// ---------------------------------------------------------------------------
// Inputs, declarations, axioms, outputs
// ---------------------------------------------------------------------------

// Var declares a symbolic input of the given kind. A QuantDefault
// quantifier resolves per the mode policy. Input names are unique
// across the whole context.
func (s *State) Var(name string, kind expr.Kind, q Quantifier) (expr.Ref, error) {
	if err := s.guard("input"); err != nil {
		return expr.Ref{}, err
	}
	if err := validIdentifier(name); err != nil {
		return expr.Ref{}, err
	}
	if s.inputNames[name] {
		return expr.Ref{}, validationf("duplicate input name", "%s", name)
	}
	if err := s.checkInputKind(kind); err != nil {
		return expr.Ref{}, err
	}
	resolved, err := s.resolveQuantifier(q)
	if err != nil {
		return expr.Ref{}, err
	}
	ref, err := s.allocNode(kind)
	if err != nil {
		return expr.Ref{}, err
	}
	in := Input{Quant: resolved, Ref: ref, Name: name}
	s.inputs = append(s.inputs, in)
	s.inputNames[name] = true
	if s.incr != nil {
		s.incr.Inputs = append(s.incr.Inputs, in)
	}
	return ref, nil
}

// Declare registers an uninterpreted function or constant. Redeclaring
// a name with the same signature is a no-op; a different signature is a
// validation error.
func (s *State) Declare(name string, sig Signature, code ...string) error {
	if err := s.guard("declaration"); err != nil {
		return err
	}
	if err := validIdentifier(name); err != nil {
		return err
	}
	if i, ok := s.declIndex[name]; ok {
		if !s.decls[i].Sig.equal(sig) {
			return validationf("uninterpreted declaration signature mismatch", "%s", name)
		}
		return nil
	}
	for _, k := range append(append([]expr.Kind{}, sig.Args...), sig.Result) {
		if err := s.registerKind(k); err != nil {
			return err
		}
	}
	d := Declaration{Name: name, Sig: sig, Code: code}
	s.declIndex[name] = len(s.decls)
	s.decls = append(s.decls, d)
	if s.incr != nil {
		s.incr.Decls = append(s.incr.Decls, d)
	}
	return nil
}

// AddAxiom records a named block of raw solver text.
func (s *State) AddAxiom(name string, lines ...string) error {
	if err := s.guard("axiom"); err != nil {
		return err
	}
	if err := validIdentifier(name); err != nil {
		return err
	}
	s.axioms = append(s.axioms, Axiom{Name: name, Lines: lines})
	return nil
}

// AddTrace records debug/trace text carried through to the Result.
func (s *State) AddTrace(line string) {
	s.traces = append(s.traces, line)
}

// AddCode records a user code segment carried through to the Result.
func (s *State) AddCode(segment string) error {
	if err := s.guard("code"); err != nil {
		return err
	}
	s.codeSegs = append(s.codeSegs, segment)
	return nil
}

// Output marks a node as a declared output of the computation.
func (s *State) Output(ref expr.Ref) {
	s.outputs = append(s.outputs, ref)
}

// ---------------------------------------------------------------------------
// Identifier and kind validation
// ---------------------------------------------------------------------------

var reservedWords = map[string]bool{
	"true": true, "false": true, "and": true, "or": true, "not": true,
	"xor": true, "ite": true, "let": true, "forall": true, "exists": true,
	"assert": true, "select": true, "store": true, "check-sat": true,
}

var reservedKindNames = map[string]bool{
	"Bool": true, "Int": true, "Real": true, "Float": true,
	"Double": true, "Array": true,
}

func validIdentifier(name string) error {
	if name == "" {
		return validationf("empty identifier", "%s", name)
	}
	if reservedWords[name] {
		return validationf("reserved word used as identifier", "%s", name)
	}
	for i, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r == '_':
		case i > 0 && (r >= '0' && r <= '9' || r == '-' || r == '.' || r == '\''):
		default:
			return validationf("illegal character in identifier", "%s", name)
		}
	}
	return nil
}

// registerKind adds a kind to the used-kind set the first time it is
// seen. User sorts must carry a legal, non-reserved name.
func (s *State) registerKind(k expr.Kind) error {
	if s.usedKindSet[k] {
		return nil
	}
	if uk, ok := k.(expr.UserKind); ok {
		if reservedKindNames[uk.Sort] {
			return validationf("reserved kind name", "%s", uk.Sort)
		}
		if err := validIdentifier(uk.Sort); err != nil {
			return err
		}
	}
	s.usedKindSet[k] = true
	s.usedKinds = append(s.usedKinds, k)
	return nil
}
