package store

import (
	"testing"

	"github.com/alex-ozdemir/gg/internal/thunk"

	ggh "github.com/alex-ozdemir/gg/internal/hash"
)

func newTestStore(t *testing.T) *FileStore {
	t.Helper()
	s, err := NewFileStore(t.TempDir(), 16, nil)
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}
	return s
}

func TestWriteThenLoadThunkRoundTrips(t *testing.T) {
	s := newTestStore(t)
	th := &thunk.Thunk{
		Function: thunk.Function{Executable: ggh.Compute(ggh.Executable, []byte("exe"), "")},
		Outputs:  []string{"out"},
	}

	h, err := s.WriteThunk(th)
	if err != nil {
		t.Fatalf("WriteThunk: %v", err)
	}

	loaded, err := s.LoadThunk(h)
	if err != nil {
		t.Fatalf("LoadThunk: %v", err)
	}
	if loaded.Hash() != th.Hash() {
		t.Fatal("loaded thunk hashes differently than the original")
	}
}

func TestLoadThunkNotFound(t *testing.T) {
	s := newTestStore(t)
	_, err := s.LoadThunk(ggh.Compute(ggh.Thunk, []byte("nope"), ""))
	if err == nil {
		t.Fatal("expected an error for a missing thunk")
	}
	var nf *NotFoundError
	if !asNotFound(err, &nf) {
		t.Fatalf("expected *NotFoundError, got %v (%T)", err, err)
	}
}

func asNotFound(err error, target **NotFoundError) bool {
	nf, ok := err.(*NotFoundError)
	if !ok {
		return false
	}
	*target = nf
	return true
}

func TestWriteThenReadBlobRoundTrips(t *testing.T) {
	s := newTestStore(t)
	data := []byte("hello, gg")

	h, err := s.WriteBlob(ggh.Value, data)
	if err != nil {
		t.Fatalf("WriteBlob: %v", err)
	}
	if !s.HasBlob(h) {
		t.Fatal("HasBlob should report true right after writing")
	}

	got, err := s.ReadBlob(h)
	if err != nil {
		t.Fatalf("ReadBlob: %v", err)
	}
	if string(got) != string(data) {
		t.Fatalf("got %q, want %q", got, data)
	}
}

func TestHasBlobFalseForUnknownHash(t *testing.T) {
	s := newTestStore(t)
	if s.HasBlob(ggh.Compute(ggh.Value, []byte("unknown"), "")) {
		t.Fatal("HasBlob should report false for a blob never written")
	}
}

func TestLoadThunkCacheServesWithoutRereading(t *testing.T) {
	s := newTestStore(t)
	th := &thunk.Thunk{Outputs: []string{"out"}}
	h, err := s.WriteThunk(th)
	if err != nil {
		t.Fatalf("WriteThunk: %v", err)
	}

	first, err := s.LoadThunk(h)
	if err != nil {
		t.Fatalf("LoadThunk: %v", err)
	}
	second, err := s.LoadThunk(h)
	if err != nil {
		t.Fatalf("LoadThunk: %v", err)
	}
	if first != second {
		t.Fatal("expected the cached pointer to be returned on the second load")
	}
}
