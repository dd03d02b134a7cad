// Command ocbot acts on a chat platform as a bot from the command line.
package main

import (
	"errors"
	"os"

	"github.com/petal-labs/ocbot/cli/commands"
)

// ExitCoder is an interface for errors that have an exit code.
type ExitCoder interface {
	ExitCode() int
}

func main() {
	if err := commands.Execute(); err != nil {
		var ec ExitCoder
		if errors.As(err, &ec) {
			os.Exit(ec.ExitCode())
		}
		os.Exit(commands.ExitValidation)
	}
}
