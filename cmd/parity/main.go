// Command parity runs a fixture corpus through a reference parser and a
// candidate parser and reports where their outputs diverge.
package main

import (
	"fmt"
	"os"

	"github.com/roach88/parity/internal/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(cli.GetExitCode(err))
	}
}
