package computation

import (
	"testing"

	"github.com/alex-ozdemir/gg/internal/thunk"

	ggh "github.com/alex-ozdemir/gg/internal/hash"
)

func h(seed string) Hash { return ggh.Compute(ggh.Value, []byte(seed), "") }

func TestKindClassification(t *testing.T) {
	val := NewValue(1, h("root"), []thunk.Output{{Hash: h("v"), Name: "out"}})
	if val.Kind() != KindValue {
		t.Fatalf("expected KindValue, got %v", val.Kind())
	}

	th := NewFromThunk(2, &thunk.Thunk{Outputs: []string{"out"}})
	if th.Kind() != KindThunk {
		t.Fatalf("expected KindThunk, got %v", th.Kind())
	}

	link := &Computation{ID: 3, LinkTarget: 2}
	if link.Kind() != KindLink {
		t.Fatalf("expected KindLink, got %v", link.Kind())
	}
}

func TestCanBeExecuted(t *testing.T) {
	leafThunk := NewFromThunk(1, &thunk.Thunk{Outputs: []string{"out"}})
	if !leafThunk.CanBeExecuted() {
		t.Fatal("thunk with no pending children should be order-one")
	}

	blockedThunk := NewFromThunk(2, &thunk.Thunk{
		Thunks:  []thunk.DataItem{{Hash: h("child"), Name: "dep"}},
		Outputs: []string{"out"},
	})
	if blockedThunk.CanBeExecuted() {
		t.Fatal("thunk with a pending thunk child should not be order-one")
	}

	val := NewValue(3, h("root"), []thunk.Output{{Hash: h("v"), Name: "out"}})
	if val.CanBeExecuted() {
		t.Fatal("a value is already reduced, not order-one")
	}

	stale := NewFromThunk(4, &thunk.Thunk{Outputs: []string{"out"}})
	stale.UpToDate = false
	if stale.CanBeExecuted() {
		t.Fatal("a stale thunk must not be order-one")
	}
}

func TestDepAndRevDepBookkeeping(t *testing.T) {
	parent := NewFromThunk(1, &thunk.Thunk{Outputs: []string{"out"}})
	const childID ID = 2
	depHash := h("child-hash")

	parent.AddDep(childID, depHash)
	if _, ok := parent.Deps[childID]; !ok {
		t.Fatal("dep not recorded")
	}
	if parent.DepHashes[childID] != depHash {
		t.Fatal("dep hash not recorded")
	}

	parent.RemoveDep(childID)
	if _, ok := parent.Deps[childID]; ok {
		t.Fatal("dep not removed")
	}
	if _, ok := parent.DepHashes[childID]; ok {
		t.Fatal("dep hash not removed")
	}

	childComp := NewFromThunk(2, &thunk.Thunk{Outputs: []string{"out"}})
	const parentID ID = 1
	childComp.AddRevDep(parentID)
	if childComp.Orphaned() {
		t.Fatal("should not be orphaned with a rev dep present")
	}
	childComp.RemoveRevDep(parentID)
	if !childComp.Orphaned() {
		t.Fatal("should be orphaned once its only rev dep is removed")
	}
}

func TestNewValueHasNoDeps(t *testing.T) {
	val := NewValue(1, h("root"), []thunk.Output{{Hash: h("v"), Name: "out"}})
	if len(val.Deps) != 0 {
		t.Fatal("a value computation should start with no dependencies")
	}
	if !val.Orphaned() {
		t.Fatal("a fresh value with no rev deps should report orphaned")
	}
}
