package cli

import (
	"fmt"
	"testing"

	"github.com/alex-ozdemir/gg/internal/store"
	"github.com/alex-ozdemir/gg/internal/thunk"

	ggh "github.com/alex-ozdemir/gg/internal/hash"
)

func newTestStore(t *testing.T) *store.FileStore {
	t.Helper()
	st, err := store.NewFileStore(t.TempDir(), 32, nil)
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}
	return st
}

func exeHash(seed string) ggh.Hash { return ggh.Compute(ggh.Executable, []byte(seed), "") }

func TestValidateClosureReportsMissingBlob(t *testing.T) {
	st := newTestStore(t)
	leaf := &thunk.Thunk{
		Function: thunk.Function{Executable: exeHash("leaf")},
		Outputs:  []string{"out"},
	}
	leafHash, err := st.WriteThunk(leaf)
	if err != nil {
		t.Fatalf("WriteThunk: %v", err)
	}

	report, err := validateClosure(st, leafHash)
	if err != nil {
		t.Fatalf("validateClosure: %v", err)
	}
	if report.thunkCount != 1 {
		t.Fatalf("expected 1 thunk, got %d", report.thunkCount)
	}
	if len(report.missingBlobs) != 1 || report.missingBlobs[0] != exeHash("leaf") {
		t.Fatalf("expected the leaf's executable to be reported missing, got %v", report.missingBlobs)
	}
	if report.cyclic {
		t.Fatal("a single leaf thunk is not cyclic")
	}
}

// fakeCyclicStore is a minimal store.Store double that can hold a
// self-referential thunk graph. A real FileStore can never produce one
// (LoadThunk rejects any thunk whose recomputed content hash disagrees
// with the hash it was loaded under, and a thunk's hash is derived from
// its children's hashes, so nothing can depend on its own hash without
// a preimage attack) — this test exercises validateClosure's own cycle
// guard directly, as defense in depth against a Store implementation
// that doesn't enforce that invariant.
type fakeCyclicStore struct{ byHash map[ggh.Hash]*thunk.Thunk }

func (f *fakeCyclicStore) LoadThunk(h ggh.Hash) (*thunk.Thunk, error) {
	t, ok := f.byHash[h.Base()]
	if !ok {
		return nil, fmt.Errorf("not found: %s", h)
	}
	return t, nil
}
func (f *fakeCyclicStore) WriteThunk(*thunk.Thunk) (ggh.Hash, error)   { return "", nil }
func (f *fakeCyclicStore) ReadBlob(ggh.Hash) ([]byte, error)           { return nil, nil }
func (f *fakeCyclicStore) WriteBlob(ggh.Tag, []byte) (ggh.Hash, error) { return "", nil }
func (f *fakeCyclicStore) HasBlob(h ggh.Hash) bool                     { return true }

func TestValidateClosureDetectsCycle(t *testing.T) {
	a := ggh.Compute(ggh.Thunk, []byte("a"), "")
	b := ggh.Compute(ggh.Thunk, []byte("b"), "")

	fake := &fakeCyclicStore{byHash: map[ggh.Hash]*thunk.Thunk{
		a: {Function: thunk.Function{Executable: exeHash("a")}, Thunks: []thunk.DataItem{{Hash: b, Name: "dep"}}, Outputs: []string{"out"}},
		b: {Function: thunk.Function{Executable: exeHash("b")}, Thunks: []thunk.DataItem{{Hash: a, Name: "back"}}, Outputs: []string{"out"}},
	}}

	report, err := validateClosure(fake, a)
	if err != nil {
		t.Fatalf("validateClosure: %v", err)
	}
	if !report.cyclic {
		t.Fatal("expected the a->b->a back-edge to be reported as a cycle")
	}
}

func TestValidateClosureDeduplicatesDiamondDependency(t *testing.T) {
	st := newTestStore(t)
	leaf := &thunk.Thunk{Function: thunk.Function{Executable: exeHash("leaf")}, Outputs: []string{"out"}}
	leafHash, err := st.WriteThunk(leaf)
	if err != nil {
		t.Fatalf("WriteThunk: %v", err)
	}

	left := &thunk.Thunk{
		Function: thunk.Function{Executable: exeHash("left")},
		Thunks:   []thunk.DataItem{{Hash: leafHash, Name: "dep"}},
		Outputs:  []string{"out"},
	}
	leftHash, err := st.WriteThunk(left)
	if err != nil {
		t.Fatalf("WriteThunk left: %v", err)
	}
	right := &thunk.Thunk{
		Function: thunk.Function{Executable: exeHash("right")},
		Thunks:   []thunk.DataItem{{Hash: leafHash, Name: "dep"}},
		Outputs:  []string{"out"},
	}
	rightHash, err := st.WriteThunk(right)
	if err != nil {
		t.Fatalf("WriteThunk right: %v", err)
	}
	root := &thunk.Thunk{
		Function: thunk.Function{Executable: exeHash("root")},
		Thunks:   []thunk.DataItem{{Hash: leftHash, Name: "l"}, {Hash: rightHash, Name: "r"}},
		Outputs:  []string{"out"},
	}
	rootHash, err := st.WriteThunk(root)
	if err != nil {
		t.Fatalf("WriteThunk root: %v", err)
	}

	report, err := validateClosure(st, rootHash)
	if err != nil {
		t.Fatalf("validateClosure: %v", err)
	}
	if report.cyclic {
		t.Fatal("a diamond is not a cycle")
	}
	if report.thunkCount != 4 {
		t.Fatalf("expected 4 distinct thunks (root, left, right, leaf), got %d", report.thunkCount)
	}
}
