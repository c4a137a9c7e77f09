package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

type suggestFlags struct {
	dryRun bool
	format string
}

func newSuggestCmd() *cobra.Command {
	var flags suggestFlags

	cmd := &cobra.Command{
		Use:   "suggest <person>",
		Short: "Refresh and show relative suggestions for a person",
		Long: `Walks two hops out from the person, composes each path into a relation
and stores up to five new pending suggestions. Expired pending
suggestions are purged first.

Examples:
  kinship suggest ahmed
  kinship suggest ahmed --dry-run`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSuggest(cmd, args[0], flags)
		},
	}

	cmd.Flags().BoolVar(&flags.dryRun, "dry-run", false, "Show candidates without saving")
	cmd.Flags().StringVar(&flags.format, "format", "text", "Output format: text, json")

	return cmd
}

func runSuggest(cmd *cobra.Command, ref string, flags suggestFlags) error {
	if err := validateFormat(flags.format); err != nil {
		return err
	}
	ctx := cmd.Context()

	return withDeps(ctx, func(d *Deps) error {
		result, err := d.Suggestions.HandleSuggest(ctx, ref, flags.dryRun)
		if err != nil {
			return fmt.Errorf("suggesting relatives: %w", err)
		}

		if flags.format == "json" {
			return formatJSON(os.Stdout, result)
		}

		if result.DryRun {
			fmt.Printf("Dry run for %s:\n", result.Subject.DisplayName())
			return formatCandidates(os.Stdout, result.Candidates)
		}
		fmt.Printf("Saved %d new suggestion(s) for %s.\n", result.Saved, result.Subject.DisplayName())
		return formatSuggestions(os.Stdout, result.Suggestions)
	})
}

func newSuggestionsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "suggestions",
		Short: "List and review stored suggestions",
	}

	cmd.AddCommand(newSuggestionsListCmd())
	cmd.AddCommand(newSuggestionsAcceptCmd())
	cmd.AddCommand(newSuggestionsRejectCmd())

	return cmd
}

func newSuggestionsListCmd() *cobra.Command {
	var status, format string

	cmd := &cobra.Command{
		Use:   "list <person>",
		Short: "List a person's suggestions",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validateFormat(format); err != nil {
				return err
			}
			ctx := cmd.Context()

			return withDeps(ctx, func(d *Deps) error {
				views, err := d.Suggestions.HandleList(ctx, args[0], status)
				if err != nil {
					return fmt.Errorf("listing suggestions: %w", err)
				}
				if format == "json" {
					return formatJSON(os.Stdout, views)
				}
				return formatSuggestions(os.Stdout, views)
			})
		},
	}

	cmd.Flags().StringVar(&status, "status", "pending", "Status filter: pending, accepted, rejected, all")
	cmd.Flags().StringVar(&format, "format", "text", "Output format: text, json")

	return cmd
}

func newSuggestionsAcceptCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "accept <suggestion-id>",
		Short: "Accept a suggestion and record the relationship",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			return withInternalDeps(ctx, func(d *internalDeps) error {
				result, err := d.Suggestions.HandleAccept(ctx, args[0])
				if err != nil {
					return fmt.Errorf("accepting suggestion: %w", err)
				}

				fmt.Printf("Accepted suggestion %s\n", result.Suggestion.ID)
				if result.Edge == nil {
					fmt.Println("  (already related, no relationship recorded)")
					return nil
				}
				printEdge(result.Edge)
				printScheduled(d)
				return nil
			})
		},
	}
}

func newSuggestionsRejectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reject <suggestion-id>",
		Short: "Reject a suggestion",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			return withDeps(ctx, func(d *Deps) error {
				s, err := d.Suggestions.HandleReject(ctx, args[0])
				if err != nil {
					return fmt.Errorf("rejecting suggestion: %w", err)
				}
				fmt.Printf("Rejected suggestion %s\n", s.ID)
				return nil
			})
		},
	}
}

func newPurgeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "purge <person>",
		Short: "Delete a person's expired pending suggestions",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			return withDeps(ctx, func(d *Deps) error {
				n, err := d.Suggestions.HandlePurge(ctx, args[0])
				if err != nil {
					return fmt.Errorf("purging suggestions: %w", err)
				}
				fmt.Printf("Purged %d expired suggestion(s).\n", n)
				return nil
			})
		},
	}
}
