package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/alex-ozdemir/gg/internal/backendplugin"
)

func newBackendsCommand(flags *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "backends",
		Short: "Inspect discovered backend plugins",
	}
	cmd.AddCommand(newBackendsListCommand(flags))
	return cmd
}

func newBackendsListCommand(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List backend plugins discovered under the backends directory",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := resolveBackendsDir(cmd, flags)
			if err != nil {
				return &exitError{code: ExitArgOrSystemError, err: err}
			}

			logger := newLogger(flags.verbose)
			defer logger.Sync() //nolint:errcheck

			reg, errs := backendplugin.DiscoverAndRegister(dir, logger)
			out := cmd.OutOrStdout()
			if len(reg.Manifests) == 0 {
				fmt.Fprintln(out, "no backend plugins discovered")
			}
			for _, m := range reg.Manifests {
				fmt.Fprintf(out, "%s\t%s\t%v\n", m.PluginID, m.Version, m.Hooks)
			}
			if len(errs) > 0 {
				return &exitError{code: ExitPluginError, err: fmt.Errorf("%d plugin manifests were rejected during discovery", len(errs))}
			}
			return nil
		},
	}
}
