// Command fractrace is a command-line interface for fracture trace network
// analysis.
package main

import (
	"os"

	"github.com/fracnet/fractrace/internal/cli"
)

func main() {
	if err := cli.Root.Execute(); err != nil {
		cli.Log.Error(err)
		os.Exit(1)
	}
}
