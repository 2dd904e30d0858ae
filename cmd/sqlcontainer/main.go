// Command sqlcontainer generates dialect-specific SQL from query descriptors
// and runs them against MySQL, PostgreSQL or SQLite databases.
package main

import (
	"os"

	"github.com/roach88/sqlcontainer/internal/cli"
)

func main() {
	cmd := cli.NewRootCommand()
	if err := cmd.Execute(); err != nil {
		os.Exit(cli.GetExitCode(err))
	}
}
