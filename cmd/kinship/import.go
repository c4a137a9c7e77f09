package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ersonp/kinship/internal/application/handlers"
	"github.com/ersonp/kinship/internal/domain/services"
)

type importFlags struct {
	format      string
	dryRun      bool
	onConflict  string
	refresh     bool
	concurrency int
}

func newImportCmd() *cobra.Command {
	var flags importFlags

	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Import people and relationships from JSON or CSV",
		Long: `Imports people and accepted relationships from a family file.
Use --refresh to regenerate suggestions for every imported person.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runImport(cmd, args[0], flags)
		},
	}

	cmd.Flags().StringVarP(&flags.format, "format", "f", "auto", "File format (json, csv, auto)")
	cmd.Flags().BoolVar(&flags.dryRun, "dry-run", false, "Validate without saving")
	cmd.Flags().StringVar(&flags.onConflict, "on-conflict", "skip", "Conflict handling (skip, overwrite)")
	cmd.Flags().BoolVar(&flags.refresh, "refresh", false, "Refresh suggestions for imported people")
	cmd.Flags().IntVar(&flags.concurrency, "concurrency", DefaultImportConcurrency, "Parallel refreshes with --refresh")

	return cmd
}

func runImport(cmd *cobra.Command, filePath string, flags importFlags) error {
	strategy := services.ConflictStrategy(flags.onConflict)
	if strategy != services.ConflictSkip && strategy != services.ConflictOverwrite {
		return fmt.Errorf("invalid --on-conflict value %q (valid: skip, overwrite)", flags.onConflict)
	}

	ctx := cmd.Context()

	return withDeps(ctx, func(d *Deps) error {
		opts := handlers.ImportOptions{
			Format:      flags.format,
			DryRun:      flags.dryRun,
			OnConflict:  strategy,
			Refresh:     flags.refresh,
			Concurrency: flags.concurrency,
		}

		fmt.Printf("Importing %s...\n", filePath)

		result, err := d.Import.Handle(ctx, filePath, opts)
		if err != nil {
			return fmt.Errorf("importing file: %w", err)
		}

		if len(result.Errors) > 0 {
			fmt.Printf("\nValidation errors (%d):\n", len(result.Errors))
			for _, e := range result.Errors {
				fmt.Printf("  %s\n", e.Error())
			}
		}

		fmt.Println()
		if flags.dryRun {
			fmt.Printf("Dry run: %d people and %d relationships would be imported",
				result.PeopleImported, result.RelationshipsImported)
		} else {
			fmt.Printf("Imported: %d people, %d relationships",
				result.PeopleImported, result.RelationshipsImported)
		}
		if result.Skipped > 0 {
			fmt.Printf(", %d skipped (already exist)", result.Skipped)
		}
		if len(result.Errors) > 0 {
			fmt.Printf(", %d errors", len(result.Errors))
		}
		fmt.Println()

		if result.Refreshed > 0 {
			fmt.Printf("Refreshed %d people, %d new suggestion(s).\n", result.Refreshed, result.SuggestionsSaved)
		}
		return nil
	})
}
