// Package cli builds the ggrun command tree: run, validate, query, and
// backends list. It is grounded on the teacher's internal/cli and
// internal/cli/sw packages (command layout, exit code conventions,
// deterministic listing order) but rebuilt on spf13/cobra + pflag
// instead of the teacher's hand-rolled flag.FlagSet parsing, matching
// how erigon's own CLI front end is put together.
package cli

// Exit codes mirror the teacher's sw package: distinct codes for
// argument/system errors, validation failures, and execution failures
// let a calling script distinguish "you asked for something invalid"
// from "the build itself failed" without scraping stderr.
const (
	ExitSuccess          = 0
	ExitValidationError  = 1
	ExitArgOrSystemError = 2
	ExitExecutionFailure = 3
	ExitPluginError      = 4
)
