package state

import "github.com/chazu/merle/expr"

// ---------------------------------------------------------------------------
// Symbolic arrays
//
// An array is not mutable storage: each handle names a provenance node
// in a DAG, and every "mutation" allocates a new handle pointing at its
// sources. Provenance may reference only handles allocated earlier.
// ---------------------------------------------------------------------------

// ArrayRef is a dense handle into the array store.
type ArrayRef struct {
	Handle int
}

// Provenance records how an array handle was derived.
type Provenance interface {
	prov() // marker method
}

// FreshArray is a newly created array, optionally with an initializer
// applied to every element.
type FreshArray struct {
	Init *expr.Ref
}

// ResetArray derives an array whose every element is Value.
type ResetArray struct {
	Source int
	Value  expr.Ref
}

// MutateArray derives an array with one cell overwritten.
type MutateArray struct {
	Source int
	Index  expr.Ref
	Value  expr.Ref
}

// MergeArray derives an array choosing per-element between Then and
// Else under Cond.
type MergeArray struct {
	Cond expr.Ref
	Then int
	Else int
}

func (*FreshArray) prov()  {}
func (*ResetArray) prov()  {}
func (*MutateArray) prov() {}
func (*MergeArray) prov()  {}

// ArrayEntry is one row of the array store.
type ArrayEntry struct {
	Name       string
	IndexKind  expr.Kind
	ResultKind expr.Kind
	Prov       Provenance
}

func (s *State) allocArray(e ArrayEntry) (ArrayRef, error) {
	if err := s.guard("array"); err != nil {
		return ArrayRef{}, err
	}
	if err := s.registerKind(e.IndexKind); err != nil {
		return ArrayRef{}, err
	}
	if err := s.registerKind(e.ResultKind); err != nil {
		return ArrayRef{}, err
	}
	h := len(s.arrays)
	s.arrays = append(s.arrays, e)
	return ArrayRef{Handle: h}, nil
}

// NewArray creates a fresh array. init, when non-nil, initializes every
// element.
func (s *State) NewArray(name string, indexKind, resultKind expr.Kind, init *expr.Ref) (ArrayRef, error) {
	if err := validIdentifier(name); err != nil {
		return ArrayRef{}, err
	}
	return s.allocArray(ArrayEntry{
		Name:       name,
		IndexKind:  indexKind,
		ResultKind: resultKind,
		Prov:       &FreshArray{Init: init},
	})
}

// ResetAll derives an array from a with every element set to value.
func (s *State) ResetAll(a ArrayRef, value expr.Ref) (ArrayRef, error) {
	src, err := s.arrayEntry(a)
	if err != nil {
		return ArrayRef{}, err
	}
	return s.allocArray(ArrayEntry{
		Name:       src.Name,
		IndexKind:  src.IndexKind,
		ResultKind: src.ResultKind,
		Prov:       &ResetArray{Source: a.Handle, Value: value},
	})
}

// Store derives an array from a with one cell overwritten.
func (s *State) Store(a ArrayRef, index, value expr.Ref) (ArrayRef, error) {
	src, err := s.arrayEntry(a)
	if err != nil {
		return ArrayRef{}, err
	}
	return s.allocArray(ArrayEntry{
		Name:       src.Name,
		IndexKind:  src.IndexKind,
		ResultKind: src.ResultKind,
		Prov:       &MutateArray{Source: a.Handle, Index: index, Value: value},
	})
}

// Merge derives the per-element conditional of two arrays.
func (s *State) Merge(cond expr.Ref, then, els ArrayRef) (ArrayRef, error) {
	te, err := s.arrayEntry(then)
	if err != nil {
		return ArrayRef{}, err
	}
	if _, err := s.arrayEntry(els); err != nil {
		return ArrayRef{}, err
	}
	return s.allocArray(ArrayEntry{
		Name:       te.Name,
		IndexKind:  te.IndexKind,
		ResultKind: te.ResultKind,
		Prov:       &MergeArray{Cond: cond, Then: then.Handle, Else: els.Handle},
	})
}

// Select reads one element, producing a result-kinded node, not a new
// array. Repeated reads at the same (array, index) collapse through the
// hash-consing store.
func (s *State) Select(a ArrayRef, index expr.Ref) (expr.Ref, error) {
	e, err := s.arrayEntry(a)
	if err != nil {
		return expr.Ref{}, err
	}
	return s.apply(e.ResultKind, expr.App{
		Op:   expr.OpArraySelect,
		Imm:  a.Handle,
		Args: []expr.Ref{index},
	})
}

// ArraysEqual builds the boolean node comparing two whole arrays.
func (s *State) ArraysEqual(a, b ArrayRef) (expr.Ref, error) {
	if _, err := s.arrayEntry(a); err != nil {
		return expr.Ref{}, err
	}
	if _, err := s.arrayEntry(b); err != nil {
		return expr.Ref{}, err
	}
	return s.apply(expr.BoolKind{}, expr.App{
		Op:   expr.OpArrayEq,
		Imm:  a.Handle,
		Imm2: b.Handle,
	})
}

func (s *State) arrayEntry(a ArrayRef) (ArrayEntry, error) {
	if a.Handle < 0 || a.Handle >= len(s.arrays) {
		return ArrayEntry{}, validationf("unknown array handle", "%d", a.Handle)
	}
	return s.arrays[a.Handle], nil
}

// Lazy array constructors. Array-producing operations are usually built
// as suspensions so that repeated observation of the same array-valued
// expression does not reallocate handles.

// LazyArray is a suspended array-producing computation.
type LazyArray = Thunk[ArrayRef]

// CacheNewArray suspends NewArray.
func CacheNewArray(name string, indexKind, resultKind expr.Kind, init *expr.Ref) *LazyArray {
	return Cache(func(s *State) (ArrayRef, error) {
		return s.NewArray(name, indexKind, resultKind, init)
	})
}

// CacheStore suspends Store over a suspended source array.
func CacheStore(a *LazyArray, index, value expr.Ref) *LazyArray {
	return Cache(func(s *State) (ArrayRef, error) {
		src, err := a.Force(s)
		if err != nil {
			return ArrayRef{}, err
		}
		return s.Store(src, index, value)
	})
}

// CacheResetAll suspends ResetAll over a suspended source array.
func CacheResetAll(a *LazyArray, value expr.Ref) *LazyArray {
	return Cache(func(s *State) (ArrayRef, error) {
		src, err := a.Force(s)
		if err != nil {
			return ArrayRef{}, err
		}
		return s.ResetAll(src, value)
	})
}

// CacheMerge suspends Merge over two suspended source arrays.
func CacheMerge(cond expr.Ref, then, els *LazyArray) *LazyArray {
	return Cache(func(s *State) (ArrayRef, error) {
		t, err := then.Force(s)
		if err != nil {
			return ArrayRef{}, err
		}
		e, err := els.Force(s)
		if err != nil {
			return ArrayRef{}, err
		}
		return s.Merge(cond, t, e)
	})
}
