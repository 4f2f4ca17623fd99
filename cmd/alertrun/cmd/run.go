package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/psantana5/alertrun/internal/exitcodes"
	"github.com/psantana5/alertrun/internal/launcher"
)

// runLaunch executes the launch sequence. Precondition failures exit
// with code 1; a non-zero entry point exit code is relayed unchanged.
func runLaunch(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	result, err := launcher.Run(ctx, buildConfig())
	if err != nil {
		fmt.Fprintf(os.Stderr, "alertrun: %v\n", err)
		os.Exit(exitcodes.Precondition)
	}

	if !result.Succeeded() {
		os.Exit(result.ExitCode)
	}
	return nil
}
