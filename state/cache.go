package state

import (
	"sync/atomic"

	"github.com/chazu/merle/expr"
)

// ---------------------------------------------------------------------------
// Identity-preserving cache
//
// Symbolic values are often built as suspended computations over the
// context; re-running one on every observation would both break sharing
// and re-allocate nodes. Each suspension gets a monotonic token at
// creation time, and its one-time evaluation result is memoized in the
// context keyed by that token. Keying on the token directly (instead of
// hashing the closure) makes bucket collisions impossible by
// construction; two distinct suspensions never share a key.
// ---------------------------------------------------------------------------

var thunkTokens atomic.Uint64

type memoEntry struct {
	value any
	err   error
}

// Thunk is a suspended context-dependent computation with a stable
// identity. Forcing it evaluates the function at most once per context.
type Thunk[T any] struct {
	token uint64
	fn    func(*State) (T, error)
}

// Cache wraps a computation without running it.
func Cache[T any](fn func(*State) (T, error)) *Thunk[T] {
	return &Thunk[T]{token: thunkTokens.Add(1), fn: fn}
}

// Ready returns an already-evaluated thunk holding v.
func Ready[T any](v T) *Thunk[T] {
	return Cache(func(*State) (T, error) { return v, nil })
}

// Force evaluates the thunk against the context the first time it is
// observed and returns the memoized result on every later observation.
// An evaluation error is memoized too: the construction is
// all-or-nothing, so a failed suspension stays failed.
func (t *Thunk[T]) Force(s *State) (T, error) {
	if e, ok := s.memo[t.token]; ok {
		if e.err != nil {
			var zero T
			return zero, e.err
		}
		return e.value.(T), nil
	}
	v, err := t.fn(s)
	s.memo[t.token] = memoEntry{value: v, err: err}
	return v, err
}

// Node is a lazily-built expression node.
type Node = Thunk[expr.Ref]
