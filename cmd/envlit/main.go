// Command envlit resolves environment variables to typed numeric constants
// at build time, writing them as generated Go source.
package main

import (
	"os"

	"github.com/roach88/envlit/internal/cli"
)

func main() {
	cmd := cli.NewRootCommand()
	if err := cmd.Execute(); err != nil {
		os.Exit(cli.GetExitCode(err))
	}
}
