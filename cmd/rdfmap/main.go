// Command rdfmap maps RDF subjects in a SQLite triple store to resources
// declared in a CUE schema.
package main

import (
	"fmt"
	"os"

	"github.com/roach88/rdfmap/internal/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(cli.GetExitCode(err))
	}
}
