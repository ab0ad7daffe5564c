package artifact

import (
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/chazu/merle/expr"
	"github.com/chazu/merle/state"
)

func sampleResult(t *testing.T) *state.Result {
	t.Helper()
	res, _, err := state.Run(state.ModeProof, func(s *state.State) error {
		x, err := s.Var("x", expr.IntKind{}, state.QuantDefault)
		if err != nil {
			return err
		}
		y, err := s.Var("y", expr.IntKind{}, state.QuantDefault)
		if err != nil {
			return err
		}
		sum, err := s.Add(x, y)
		if err != nil {
			return err
		}
		bound, err := s.Const(expr.IntValue(100))
		if err != nil {
			return err
		}
		cond, err := s.Lt(sum, bound)
		if err != nil {
			return err
		}
		if err := s.AssertAt("bound", &state.SourceLoc{File: "m.mrl", Line: 3}, cond); err != nil {
			return err
		}
		arr, err := s.NewArray("mem", expr.IntKind{}, expr.IntKind{}, nil)
		if err != nil {
			return err
		}
		if _, err := s.Store(arr, x, y); err != nil {
			return err
		}
		if err := s.AddTactic(&state.StopAfter{Seconds: 10}); err != nil {
			return err
		}
		s.Output(sum)
		return nil
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	return res
}

func TestEncodeRoundTrip(t *testing.T) {
	a, err := Encode(sampleResult(t))
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	data, err := Marshal(a)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	back, err := Unmarshal(data)
	if err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if diff := cmp.Diff(a, back); diff != "" {
		t.Errorf("artifact changed across the wire (-sent +got):\n%s", diff)
	}
}

func TestHashDeterministic(t *testing.T) {
	a1, err := Encode(sampleResult(t))
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	a2, err := Encode(sampleResult(t))
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}

	h1, err := Hash(a1)
	if err != nil {
		t.Fatalf("Hash: %v", err)
	}
	h2, err := Hash(a2)
	if err != nil {
		t.Fatalf("Hash: %v", err)
	}
	if h1 != h2 {
		t.Error("identical constructions hashed differently")
	}

	// A different construction hashes differently.
	res, _, err := state.Run(state.ModeProof, func(s *state.State) error {
		_, err := s.Var("other", expr.IntKind{}, state.QuantDefault)
		return err
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	a3, _ := Encode(res)
	h3, _ := Hash(a3)
	if h3 == h1 {
		t.Error("distinct constructions collided")
	}
}

func TestEncodeArrayProvenance(t *testing.T) {
	a, err := Encode(sampleResult(t))
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if len(a.Arrays) != 2 {
		t.Fatalf("arrays = %d, want 2", len(a.Arrays))
	}
	if a.Arrays[0].Prov != ProvFresh {
		t.Errorf("array 0 provenance = %d, want fresh", a.Arrays[0].Prov)
	}
	if a.Arrays[1].Prov != ProvMutate || a.Arrays[1].Source != 0 {
		t.Errorf("array 1 provenance = %+v, want mutate of handle 0", a.Arrays[1])
	}
}

func TestVersionGate(t *testing.T) {
	a, _ := Encode(sampleResult(t))
	a.Version = 99
	data, err := Marshal(a)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if _, err := Unmarshal(data); err == nil {
		t.Error("future version accepted")
	}
}

func TestStorePutGet(t *testing.T) {
	st, err := OpenStore(filepath.Join(t.TempDir(), "artifacts.db"))
	if err != nil {
		t.Fatalf("OpenStore: %v", err)
	}
	defer st.Close()

	a, _ := Encode(sampleResult(t))
	hash, err := st.Put(a)
	if err != nil {
		t.Fatalf("Put: %v", err)
	}

	// Re-putting the same artifact is a no-op with the same key.
	again, err := st.Put(a)
	if err != nil {
		t.Fatalf("Put again: %v", err)
	}
	if again != hash {
		t.Errorf("re-put key = %s, want %s", again, hash)
	}

	got, err := st.Get(hash)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if diff := cmp.Diff(a, got); diff != "" {
		t.Errorf("stored artifact changed (-put +got):\n%s", diff)
	}

	hashes, err := st.List()
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(hashes) != 1 || hashes[0] != hash {
		t.Errorf("List = %v, want [%s]", hashes, hash)
	}

	if _, err := st.Get("deadbeef"); err == nil {
		t.Error("Get of unknown hash succeeded")
	}
}
