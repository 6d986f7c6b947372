package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/alex-ozdemir/gg/internal/hash"
	"github.com/alex-ozdemir/gg/internal/store"
)

func newValidateCommand(flags *globalFlags) *cobra.Command {
	var rootStr string

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Load a thunk's transitive closure and report cycles or missing blobs, without executing anything",
		RunE: func(cmd *cobra.Command, args []string) error {
			root, err := hash.TryParse(rootStr)
			if err != nil {
				return &exitError{code: ExitArgOrSystemError, err: fmt.Errorf("--root: %w", err)}
			}

			env, err := resolveEnvironment(cmd, flags, 0)
			if err != nil {
				return &exitError{code: ExitArgOrSystemError, err: err}
			}
			defer env.Logger.Sync() //nolint:errcheck

			st, err := store.NewFileStore(env.StoreDir, flags.cacheSize, env.Logger)
			if err != nil {
				return &exitError{code: ExitArgOrSystemError, err: err}
			}

			report, err := validateClosure(st, root)
			if err != nil {
				return &exitError{code: ExitValidationError, err: err}
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "thunks: %d\n", report.thunkCount)
			if len(report.missingBlobs) == 0 {
				fmt.Fprintln(out, "missing blobs: none")
			} else {
				fmt.Fprintf(out, "missing blobs: %d\n", len(report.missingBlobs))
				for _, b := range report.missingBlobs {
					fmt.Fprintf(out, "  %s\n", b)
				}
			}
			if report.cyclic {
				return &exitError{code: ExitValidationError, err: fmt.Errorf("cycle detected reachable from %s", root)}
			}
			if len(report.missingBlobs) > 0 {
				return &exitError{code: ExitValidationError, err: fmt.Errorf("%d blob dependencies are missing from the store", len(report.missingBlobs))}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&rootStr, "root", "", "hash of the root thunk to validate")
	_ = cmd.MarkFlagRequired("root")
	return cmd
}

type closureReport struct {
	thunkCount   int
	missingBlobs []hash.Hash
	cyclic       bool
}

// validateClosure walks root's transitive thunk dependencies with
// white/gray/black coloring (gray = on the current recursion stack) so a
// cycle is detected as a re-entry into a gray node, distinct from a
// diamond re-entry into an already-finished (black) node.
func validateClosure(loader store.Store, root hash.Hash) (closureReport, error) {
	const (
		white = iota
		gray
		black
	)
	color := make(map[hash.Hash]int)
	var missing []hash.Hash
	seenMissing := make(map[hash.Hash]struct{})
	count := 0
	var cyclic bool

	var visit func(h hash.Hash) error
	visit = func(h hash.Hash) error {
		base := h.Base()
		switch color[base] {
		case gray:
			cyclic = true
			return nil
		case black:
			return nil
		}
		color[base] = gray

		t, err := loader.LoadThunk(base)
		if err != nil {
			return fmt.Errorf("loading %s: %w", base, err)
		}
		count++

		checkBlob := func(b hash.Hash) {
			bb := b.Base()
			if _, ok := seenMissing[bb]; ok {
				return
			}
			if !loader.HasBlob(bb) {
				seenMissing[bb] = struct{}{}
				missing = append(missing, bb)
			}
		}
		for _, v := range t.Values {
			checkBlob(v.Hash)
		}
		for _, x := range t.Executables {
			checkBlob(x.Hash)
		}
		if t.Function.Executable != "" {
			checkBlob(t.Function.Executable)
		}
		for _, child := range t.Thunks {
			if err := visit(child.Hash); err != nil {
				return err
			}
		}

		color[base] = black
		return nil
	}

	if err := visit(root); err != nil {
		return closureReport{}, err
	}
	return closureReport{thunkCount: count, missingBlobs: missing, cyclic: cyclic}, nil
}
