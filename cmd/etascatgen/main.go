package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/mjziebarth/etascatgen/internal/cli"
)

func main() {
	cmd := cli.NewRootCommand()
	if err := cmd.Execute(); err != nil {
		// Commands handle their own error output; this catches flag and
		// usage errors that never reach a RunE.
		var exitErr *cli.ExitError
		if !errors.As(err, &exitErr) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(cli.GetExitCode(err))
	}
}
