// Command ggrun drives content-addressed thunks through the execution
// graph to their final values.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/alex-ozdemir/gg/internal/cli"
)

func main() {
	root := cli.NewRootCommand(os.Stdout, os.Stderr)
	err := root.ExecuteContext(context.Background())
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
	}
	os.Exit(cli.ExitCode(err))
}
