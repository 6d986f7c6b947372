package backend

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/alex-ozdemir/gg/internal/execgraph"
	"github.com/alex-ozdemir/gg/internal/store"
	"github.com/alex-ozdemir/gg/internal/thunk"

	ggh "github.com/alex-ozdemir/gg/internal/hash"
)

// ExecutionBackend runs one order-one thunk to completion (or to a
// further partial reduction) and reports the result as an
// execgraph.Reduction the caller can feed straight into
// ExecutionGraph.SubmitReduction.
type ExecutionBackend interface {
	Execute(ctx context.Context, hash ggh.Hash, t *thunk.Thunk) (execgraph.Reduction, error)
}

// Local runs a thunk's executable as a local subprocess. It requires
// every blob the thunk references to already be present in store (the
// TODO in the original implementation's graph.cc — "check that value &
// executable deps are present" — before attempting to run anything).
type Local struct {
	Store store.Store
}

// Execute materializes t's blob inputs into a fresh scratch directory,
// resolves argv placeholders to paths inside it, execs the thunk's
// executable there, and hashes each declared output file back into the
// store as a value.
func (l *Local) Execute(ctx context.Context, hash ggh.Hash, t *thunk.Thunk) (execgraph.Reduction, error) {
	if !t.CanBeExecuted() {
		return execgraph.Reduction{}, fmt.Errorf("backend: thunk %s still has unreduced thunk inputs", hash)
	}
	if missing := l.missingBlobs(t); len(missing) > 0 {
		return execgraph.Reduction{}, fmt.Errorf("backend: thunk %s is missing blob dependencies: %v", hash, missing)
	}

	workDir, err := os.MkdirTemp("", "gg-exec-*")
	if err != nil {
		return execgraph.Reduction{}, fmt.Errorf("backend: creating scratch dir: %w", err)
	}
	defer os.RemoveAll(workDir)

	paths := make(map[ggh.Hash]string)
	for _, v := range t.Values {
		if err := l.materialize(workDir, v.Hash, paths); err != nil {
			return execgraph.Reduction{}, err
		}
	}
	for _, e := range t.Executables {
		if err := l.materialize(workDir, e.Hash, paths); err != nil {
			return execgraph.Reduction{}, err
		}
	}

	exePath, ok := paths[t.Function.Executable.Base()]
	if !ok {
		if err := l.materialize(workDir, t.Function.Executable, paths); err != nil {
			return execgraph.Reduction{}, err
		}
		exePath = paths[t.Function.Executable.Base()]
	}
	if err := os.Chmod(exePath, 0o755); err != nil {
		return execgraph.Reduction{}, fmt.Errorf("backend: marking executable: %w", err)
	}

	argv := make([]string, 0, len(t.Function.Argv))
	for _, a := range t.Function.Argv {
		if a.IsPlaceholder() {
			p, ok := paths[a.Placeholder.Hash.Base()]
			if !ok {
				return execgraph.Reduction{}, fmt.Errorf("backend: argv placeholder %s has no materialized blob", a.Placeholder.Hash)
			}
			argv = append(argv, p)
		} else {
			argv = append(argv, a.Literal)
		}
	}

	cmd := exec.CommandContext(ctx, exePath, argv...)
	cmd.Dir = workDir
	if output, err := cmd.CombinedOutput(); err != nil {
		return execgraph.Reduction{}, fmt.Errorf("backend: executing thunk %s: %w (output: %s)", hash, err, output)
	}

	outputs := make([]thunk.Output, 0, len(t.Outputs))
	for _, name := range t.Outputs {
		data, err := os.ReadFile(filepath.Join(workDir, name))
		if err != nil {
			return execgraph.Reduction{}, fmt.Errorf("backend: reading declared output %q: %w", name, err)
		}
		outHash, err := l.Store.WriteBlob(ggh.Value, data)
		if err != nil {
			return execgraph.Reduction{}, fmt.Errorf("backend: storing output %q: %w", name, err)
		}
		outputs = append(outputs, thunk.Output{Hash: outHash, Name: name})
	}

	return execgraph.Reduction{ToValues: outputs}, nil
}

func (l *Local) materialize(workDir string, blob ggh.Hash, paths map[ggh.Hash]string) error {
	base := blob.Base()
	if _, ok := paths[base]; ok {
		return nil
	}
	data, err := l.Store.ReadBlob(base)
	if err != nil {
		return fmt.Errorf("backend: reading blob %s: %w", base, err)
	}
	path := filepath.Join(workDir, string(base))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("backend: materializing blob %s: %w", base, err)
	}
	paths[base] = path
	return nil
}

func (l *Local) missingBlobs(t *thunk.Thunk) []ggh.Hash {
	var missing []ggh.Hash
	seen := make(map[ggh.Hash]struct{})
	check := func(h ggh.Hash) {
		base := h.Base()
		if _, ok := seen[base]; ok {
			return
		}
		seen[base] = struct{}{}
		if !l.Store.HasBlob(base) {
			missing = append(missing, base)
		}
	}
	for _, v := range t.Values {
		check(v.Hash)
	}
	for _, e := range t.Executables {
		check(e.Hash)
	}
	if t.Function.Executable != "" {
		check(t.Function.Executable)
	}
	return missing
}
