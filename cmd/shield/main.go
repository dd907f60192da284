// Command shield hashes and verifies password credentials from the command
// line. It is meant for operators: seeding accounts, checking stored
// credentials and picking a work factor for the current hardware.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	dotenv "github.com/joho/godotenv"
	"github.com/urfave/cli/v2"
)

func main() {
	_ = dotenv.Load()

	ctx, cancel := signal.NotifyContext(
		context.Background(),
		os.Interrupt,
		syscall.SIGTERM,
	)

	err := newApp(os.Stdin, os.Stdout, os.Stderr, nil).RunContext(ctx, os.Args)

	cancel()

	if err != nil {
		fmt.Fprintln(os.Stderr, err)

		var exitErr cli.ExitCoder
		if errors.As(err, &exitErr) {
			os.Exit(exitErr.ExitCode())
		}

		os.Exit(exitCodeFailure)
	}
}
