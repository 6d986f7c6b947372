package cli

import (
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// globalFlags holds the persistent flags shared by every subcommand.
type globalFlags struct {
	workspaceRoot string
	storeDir      string
	cacheSize     int
	verbose       bool
	pluginsRoot   string
}

// NewRootCommand builds the ggrun command tree. stdout/stderr let tests
// capture output without touching the process's real streams.
func NewRootCommand(stdout, stderr io.Writer) *cobra.Command {
	flags := &globalFlags{}

	root := &cobra.Command{
		Use:           "ggrun",
		Short:         "Drive content-addressed thunks to values",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(stdout)
	root.SetErr(stderr)

	pf := root.PersistentFlags()
	pf.StringVar(&flags.workspaceRoot, "project-root", "", "project root containing the reserved .gg workspace (defaults to the current directory)")
	pf.StringVar(&flags.storeDir, "store", "", "override the thunk/blob store root (defaults to <project-root>/.gg)")
	pf.IntVar(&flags.cacheSize, "thunk-cache", 256, "number of decoded thunks to keep cached in memory")
	pf.BoolVar(&flags.verbose, "verbose", false, "enable debug-level logging")
	pf.StringVar(&flags.pluginsRoot, "backends-dir", "", "override the backend plugin discovery root (defaults to <project-root>/.gg/backends)")

	root.AddCommand(
		newRunCommand(flags),
		newValidateCommand(flags),
		newQueryCommand(flags),
		newBackendsCommand(flags),
	)
	return root
}

func newLogger(verbose bool) *zap.Logger {
	cfg := zap.NewProductionConfig()
	if verbose {
		cfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	}
	logger, err := cfg.Build()
	if err != nil {
		return zap.NewNop()
	}
	return logger
}
