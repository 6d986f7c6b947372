package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/alex-ozdemir/gg/internal/hash"
	"github.com/alex-ozdemir/gg/internal/store"
)

func newQueryCommand(flags *globalFlags) *cobra.Command {
	var hashStr string

	cmd := &cobra.Command{
		Use:   "query",
		Short: "Look up a hash's current thunk or blob status in the store",
		RunE: func(cmd *cobra.Command, args []string) error {
			h, err := hash.TryParse(hashStr)
			if err != nil {
				return &exitError{code: ExitArgOrSystemError, err: fmt.Errorf("--hash: %w", err)}
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

			out := cmd.OutOrStdout()
			switch h.Type() {
			case hash.Value, hash.Executable:
				if st.HasBlob(h.Base()) {
					fmt.Fprintf(out, "%s present\n", h.Base())
					return nil
				}
				fmt.Fprintf(out, "%s absent\n", h.Base())
				return &exitError{code: ExitExecutionFailure, err: fmt.Errorf("blob %s not found", h.Base())}
			case hash.Thunk:
				if _, err := st.LoadThunk(h.Base()); err != nil {
					fmt.Fprintf(out, "%s absent\n", h.Base())
					return &exitError{code: ExitExecutionFailure, err: err}
				}
				fmt.Fprintf(out, "%s present\n", h.Base())
				return nil
			default:
				return &exitError{code: ExitArgOrSystemError, err: fmt.Errorf("unrecognized hash tag in %s", h)}
			}
		},
	}

	cmd.Flags().StringVar(&hashStr, "hash", "", "hash to query")
	_ = cmd.MarkFlagRequired("hash")
	return cmd
}
