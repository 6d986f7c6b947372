package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/alex-ozdemir/gg/internal/backend"
	"github.com/alex-ozdemir/gg/internal/backendplugin"
	"github.com/alex-ozdemir/gg/internal/engine"
	"github.com/alex-ozdemir/gg/internal/execgraph"
	"github.com/alex-ozdemir/gg/internal/hash"
	"github.com/alex-ozdemir/gg/internal/store"
)

func newRunCommand(flags *globalFlags) *cobra.Command {
	var rootStr string
	var concurrency int

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Drive a root thunk to a value",
		RunE: func(cmd *cobra.Command, args []string) error {
			root, err := hash.TryParse(rootStr)
			if err != nil {
				return &exitError{code: ExitArgOrSystemError, err: fmt.Errorf("--root: %w", err)}
			}

			env, err := resolveEnvironment(cmd, flags, engine.DefaultConcurrency)
			if err != nil {
				return &exitError{code: ExitArgOrSystemError, err: err}
			}
			if cmd.Flags().Changed("concurrency") {
				env.Concurrency = concurrency
			}
			defer env.Logger.Sync() //nolint:errcheck

			st, err := store.NewFileStore(env.StoreDir, flags.cacheSize, env.Logger)
			if err != nil {
				return &exitError{code: ExitArgOrSystemError, err: err}
			}

			plugins, pluginErrs := discoverPlugins(env, env.Logger)
			for _, perr := range pluginErrs {
				env.Logger.Warn("backend plugin discovery error", zap.Error(perr))
			}

			e := &engine.Engine{
				Graph:       execgraph.New(true),
				Loader:      st,
				Backend:     &backend.Local{Store: st},
				Plugins:     plugins,
				Concurrency: env.Concurrency,
				Logger:      env.Logger,
			}

			outputs, err := e.Run(cmd.Context(), root)
			if err != nil {
				return &exitError{code: ExitExecutionFailure, err: err}
			}

			out := cmd.OutOrStdout()
			for _, o := range outputs {
				fmt.Fprintf(out, "%s %s\n", o.Name, o.Hash)
			}
			fmt.Fprintf(out, "garbage-collectable: %d\n", len(e.Removed))
			for _, h := range e.Removed {
				fmt.Fprintf(out, "  %s\n", h)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&rootStr, "root", "", "hash of the root thunk to evaluate")
	cmd.Flags().IntVar(&concurrency, "concurrency", engine.DefaultConcurrency, "number of thunks to execute concurrently")
	_ = cmd.MarkFlagRequired("root")
	return cmd
}

func discoverPlugins(env *environment, logger *zap.Logger) (*backendplugin.HookEngine, []error) {
	reg, discErrs := backendplugin.DiscoverAndRegister(env.BackendsDir, logger)
	if len(reg.Manifests) == 0 {
		return nil, discErrs
	}
	// Manifests discovered on disk describe plugins; this CLI does not
	// load plugin binaries (no plugin execution runtime is specified),
	// so it only reports what it found rather than wiring live hooks.
	return nil, discErrs
}
