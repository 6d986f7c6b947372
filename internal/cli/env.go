package cli

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/alex-ozdemir/gg/internal/config"
	"github.com/alex-ozdemir/gg/internal/workspace"
)

// environment resolves a command invocation's effective settings: the
// reserved .gg workspace is created/validated first, its optional
// config.json supplies defaults, and any explicitly-passed flag on cmd
// overrides both — the same precedence the teacher's discovery package
// applies to "explicit CLI path, then project conventions".
type environment struct {
	Workspace   workspace.Workspace
	StoreDir    string
	BackendsDir string
	Concurrency int
	Logger      *zap.Logger
}

func resolveEnvironment(cmd *cobra.Command, flags *globalFlags, defaultConcurrency int) (*environment, error) {
	ws, err := workspace.EnsureWorkspace(flags.workspaceRoot)
	if err != nil {
		return nil, err
	}

	cfg, _, err := config.LoadOptional(ws.Dir)
	if err != nil {
		return nil, err
	}

	storeDir := ws.StoreDir
	if cmd.Flags().Changed("store") {
		storeDir = flags.storeDir
	} else if cfg.StoreRoot != "" {
		storeDir = cfg.StoreRoot
	}

	backendsDir := ws.BackendsDir
	if cmd.Flags().Changed("backends-dir") {
		backendsDir = flags.pluginsRoot
	}

	concurrency := defaultConcurrency
	if cfg.Concurrency > 0 {
		concurrency = cfg.Concurrency
	}

	return &environment{
		Workspace:   ws,
		StoreDir:    storeDir,
		BackendsDir: backendsDir,
		Concurrency: concurrency,
		Logger:      newLogger(flags.verbose),
	}, nil
}

// resolveBackendsDir resolves just the backend plugin discovery root,
// for the commands that need nothing else from the workspace: an
// explicit --backends-dir is used as-is, otherwise the .gg workspace is
// ensured and its backends/ directory is used. Keeping this separate
// from resolveEnvironment means `ggrun backends list --backends-dir X`
// never has to create or touch a thunk/blob store.
func resolveBackendsDir(cmd *cobra.Command, flags *globalFlags) (string, error) {
	if cmd.Flags().Changed("backends-dir") {
		return flags.pluginsRoot, nil
	}
	ws, err := workspace.EnsureWorkspace(flags.workspaceRoot)
	if err != nil {
		return "", err
	}
	return ws.BackendsDir, nil
}
