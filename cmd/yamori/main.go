// Package main provides the yamori command: a configuration-driven test
// runner for command-line programs.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/nwiizo/yamori/internal/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	app := cli.NewApp()
	rootCmd := app.CreateRootCommand()

	err := rootCmd.ExecuteContext(ctx)
	stop()

	// the summary already reported failing tests
	var failure *cli.TestFailureError
	if err != nil && !errors.As(err, &failure) {
		fmt.Fprintln(os.Stderr, err)
	}
	os.Exit(cli.ExitCode(err))
}
