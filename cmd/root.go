// Package cmd contains all the CLI commands for the application,
// built using the Cobra library.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

// version is set at build time with -ldflags "-X github.com/naka-gawa/top-langs/cmd.version=...".
var version = "dev"

func newRootCmd() *cobra.Command {
	var verbose bool

	root := &cobra.Command{
		Use:   "top-langs",
		Short: "A CLI tool to summarize the languages used across GitHub repositories.",
		Long: `top-langs lists the repositories visible to a GitHub token, sums the bytes
GitHub reports per language across all of them, and writes a summary of the
top languages into a marked section of a README.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := log.InfoLevel
			if verbose {
				level = log.DebugLevel
			}
			cmd.SetContext(withLogger(cmd.Context(), newLogger(cmd.ErrOrStderr(), level)))
		},
	}

	// Add a persistent flag for verbose output, available to all commands.
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose/debug logging")
	root.PersistentFlags().StringP("config", "c", "", "Path to a .toml or .yaml configuration file")

	root.AddCommand(newUpdateCmd())
	root.AddCommand(newStatsCmd())
	return root
}

// Execute builds the command tree and runs it. It is called by main.main().
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		stop()
		if errors.Is(err, context.Canceled) {
			os.Exit(130)
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
