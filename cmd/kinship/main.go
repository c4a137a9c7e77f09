// Package main provides the entry point for the kinship CLI application.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

var (
	version               = "0.1.0-dev"
	globalDir             string
	globalLogLevel        string
	globalMetricsTextfile string
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	rootCmd := &cobra.Command{
		Use:           "kinship",
		Short:         "Family relationships and relative suggestions",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVarP(&globalDir, "dir", "C", "", "Workspace directory (default: current directory)")
	rootCmd.PersistentFlags().StringVar(&globalLogLevel, "log-level", "", "Log level override (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&globalMetricsTextfile, "metrics-textfile", "", "Write metrics to this file after the command")

	rootCmd.AddCommand(
		newInitCmd(),
		newPeopleCmd(),
		newRelateCmd(),
		newRequestsCmd(),
		newAddMemberCmd(),
		newRelationCmd(),
		newSuggestCmd(),
		newSuggestionsCmd(),
		newPurgeCmd(),
		newComposeCmd(),
		newTypesCmd(),
		newImportCmd(),
	)

	return rootCmd.ExecuteContext(ctx)
}
