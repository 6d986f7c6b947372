package thunk

import (
	"testing"

	ggh "github.com/alex-ozdemir/gg/internal/hash"
)

func mkThunkHash(seed string) Hash {
	return ggh.Compute(ggh.Thunk, []byte(seed), "")
}

func mkValueHash(seed string) Hash {
	return ggh.Compute(ggh.Value, []byte(seed), "")
}

func TestCanBeExecuted(t *testing.T) {
	th := &Thunk{Outputs: []string{"out"}}
	if !th.CanBeExecuted() {
		t.Fatal("thunk with no children should be executable")
	}
	th.Thunks = append(th.Thunks, DataItem{Hash: mkThunkHash("child"), Name: "dep"})
	if th.CanBeExecuted() {
		t.Fatal("thunk with a pending thunk child should not be executable")
	}
}

func TestUpdateDataThunkToThunk(t *testing.T) {
	old := mkThunkHash("child-v1")
	next := mkThunkHash("child-v2")

	th := &Thunk{
		Function: Function{
			Executable: ggh.Compute(ggh.Executable, []byte("exe"), ""),
			Argv: []ArgItem{
				{Literal: "run"},
				{Placeholder: &Placeholder{Hash: old}},
			},
		},
		Thunks:  []DataItem{{Hash: old, Name: "dep"}},
		Outputs: []string{"out"},
	}

	th.UpdateData(old, []Output{{Hash: next, Name: ""}})

	if len(th.Thunks) != 1 || th.Thunks[0].Hash != next || th.Thunks[0].Name != "dep" {
		t.Fatalf("thunks slot not rewritten: %+v", th.Thunks)
	}
	if th.Function.Argv[1].Placeholder.Hash != next {
		t.Fatalf("argv placeholder not rewritten: %+v", th.Function.Argv[1])
	}
	if th.CanBeExecuted() {
		t.Fatal("thunk still has a pending thunk child, should not be executable")
	}
}

func TestUpdateDataThunkToValues(t *testing.T) {
	old := mkThunkHash("child")
	v1 := mkValueHash("v1")
	v2 := mkValueHash("v2")

	th := &Thunk{
		Function: Function{
			Argv: []ArgItem{
				{Placeholder: &Placeholder{Hash: old}}, // bare -> first output
				{Placeholder: &Placeholder{Hash: ggh.New(ggh.Thunk, old.Digest(), "second")}},
			},
		},
		Thunks:  []DataItem{{Hash: old, Name: "dep"}},
		Outputs: []string{"out"},
	}

	th.UpdateData(old, []Output{{Hash: v1, Name: "first"}, {Hash: v2, Name: "second"}})

	if len(th.Thunks) != 0 {
		t.Fatalf("thunks slot should have been removed: %+v", th.Thunks)
	}
	if len(th.Values) != 2 {
		t.Fatalf("expected 2 new values, got %+v", th.Values)
	}
	if th.Values[0].Name != "dep#first" || th.Values[1].Name != "dep#second" {
		t.Fatalf("unexpected value names: %+v", th.Values)
	}
	if th.Function.Argv[0].Placeholder.Hash != v1 {
		t.Fatalf("bare placeholder should default to first output, got %+v", th.Function.Argv[0])
	}
	if th.Function.Argv[1].Placeholder.Hash != v2 {
		t.Fatalf("suffixed placeholder should resolve by output name, got %+v", th.Function.Argv[1])
	}
	if !th.CanBeExecuted() {
		t.Fatal("thunk should now be executable")
	}
}

func TestUpdateDataPanicsWhenNotReferenced(t *testing.T) {
	th := &Thunk{Outputs: []string{"out"}}
	defer func() {
		if r := recover(); r == nil {
			t.Fatal("expected panic for unreferenced old hash")
		}
	}()
	th.UpdateData(mkThunkHash("nope"), []Output{{Hash: mkValueHash("v"), Name: "out"}})
}

func TestUpdateDataPanicsOnEmptyOutputs(t *testing.T) {
	th := &Thunk{Thunks: []DataItem{{Hash: mkThunkHash("c"), Name: "dep"}}, Outputs: []string{"out"}}
	defer func() {
		if r := recover(); r == nil {
			t.Fatal("expected panic for empty new_hashes")
		}
	}()
	th.UpdateData(mkThunkHash("c"), nil)
}

func TestComputeHashStableAndOrderIndependent(t *testing.T) {
	a := &Thunk{
		Values:  []DataItem{{Hash: mkValueHash("1"), Name: "a"}, {Hash: mkValueHash("2"), Name: "b"}},
		Outputs: []string{"out"},
	}
	b := &Thunk{
		Values:  []DataItem{{Hash: mkValueHash("2"), Name: "b"}, {Hash: mkValueHash("1"), Name: "a"}},
		Outputs: []string{"out"},
	}
	if a.ComputeHash() != b.ComputeHash() {
		t.Fatalf("hash should be independent of input-set declaration order")
	}
	if a.ComputeHash() != a.ComputeHash() {
		t.Fatal("hash should be stable across repeated calls")
	}
}

func TestComputeHashChangesWithContent(t *testing.T) {
	a := &Thunk{Outputs: []string{"out"}}
	b := &Thunk{Outputs: []string{"out2"}}
	if a.ComputeHash() == b.ComputeHash() {
		t.Fatal("different outputs should produce different hashes")
	}
}

func TestDocumentRoundTrip(t *testing.T) {
	exe := ggh.Compute(ggh.Executable, []byte("exe"), "")
	th := &Thunk{
		Function: Function{
			Executable: exe,
			Argv: []ArgItem{
				{Literal: "-x"},
				{Placeholder: &Placeholder{Hash: mkValueHash("v")}},
			},
		},
		Values:  []DataItem{{Hash: mkValueHash("v"), Name: "in"}},
		Outputs: []string{"out"},
	}

	doc := th.ToDocument()
	back, err := FromDocument(doc)
	if err != nil {
		t.Fatalf("FromDocument: %v", err)
	}
	if back.ComputeHash() != th.ComputeHash() {
		t.Fatal("round-tripped thunk hashes differently")
	}
}

func TestFromDocumentRejectsEmptyOutputs(t *testing.T) {
	_, err := FromDocument(Document{})
	if err == nil {
		t.Fatal("expected error for a document with no outputs")
	}
}
