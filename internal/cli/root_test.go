package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"
)

func TestRunCommandRequiresRootFlag(t *testing.T) {
	var stdout, stderr bytes.Buffer
	root := NewRootCommand(&stdout, &stderr)
	root.SetArgs([]string{"run"})

	err := root.ExecuteContext(context.Background())
	if err == nil {
		t.Fatal("expected an error when --root is omitted")
	}
}

func TestBackendsListOnEmptyDirReportsNone(t *testing.T) {
	dir := t.TempDir()
	var stdout, stderr bytes.Buffer
	root := NewRootCommand(&stdout, &stderr)
	root.SetArgs([]string{"backends", "list", "--backends-dir", dir})

	if err := root.ExecuteContext(context.Background()); err != nil {
		t.Fatalf("ExecuteContext: %v", err)
	}
	if !strings.Contains(stdout.String(), "no backend plugins discovered") {
		t.Fatalf("expected an explicit empty-discovery message, got %q", stdout.String())
	}
}

func TestValidateCommandRejectsMalformedHash(t *testing.T) {
	var stdout, stderr bytes.Buffer
	root := NewRootCommand(&stdout, &stderr)
	root.SetArgs([]string{"validate", "--root", "not-a-hash", "--store", t.TempDir()})

	err := root.ExecuteContext(context.Background())
	if err == nil {
		t.Fatal("expected a malformed --root to be rejected")
	}
	if ExitCode(err) != ExitArgOrSystemError {
		t.Fatalf("expected ExitArgOrSystemError, got %d", ExitCode(err))
	}
}
