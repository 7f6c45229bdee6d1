package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/tempoql/tempoql/internal/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		// Failure-level errors already printed their diagnostics through
		// the output formatter; command errors have not.
		var exitErr *cli.ExitError
		if !errors.As(err, &exitErr) || exitErr.Code != cli.ExitFailure {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
		os.Exit(cli.GetExitCode(err))
	}
}
