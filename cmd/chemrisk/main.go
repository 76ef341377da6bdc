// Command chemrisk is the CLI client of ChemRisk-Intelligence.  It scores
// substance handling risks either locally against the CSV catalog or through
// a running API server.
package main

import (
	"os"

	"github.com/turtacn/ChemRisk-Intelligence/internal/interfaces/cli"
)

// Build-time variables injected via ldflags.
var (
	version   = "dev"
	commit    = "unknown"
	buildDate = "unknown"
)

func init() {
	cli.Version = version
	cli.GitCommit = commit
	cli.BuildDate = buildDate
}

func main() {
	// Execute already prints the error; only the exit code is left to do.
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
