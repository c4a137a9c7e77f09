package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func newComposeCmd() *cobra.Command {
	var gender string

	cmd := &cobra.Command{
		Use:   "compose <first> <second>",
		Short: "Infer a relation from two adjacent relations",
		Long: `Infers what C is to A when B is A's first and C is B's second.
Works without a workspace.

Examples:
  kinship compose son wife
  kinship compose father brother --gender female`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCompose(args[0], args[1], gender)
		},
	}

	cmd.Flags().StringVar(&gender, "gender", "", "Gender of C, overriding the one second implies")

	return cmd
}

func runCompose(first, second, gender string) error {
	handler, err := newComposeHandler()
	if err != nil {
		return err
	}

	result, err := handler.HandleCompose(first, second, gender)
	if err != nil {
		return err
	}

	c := result.Composition
	fmt.Printf("%s (%s)\n", result.Label, c.Code)
	fmt.Printf("  confidence: %d (%s)\n", c.Confidence, c.Class)
	return nil
}

func newTypesCmd() *cobra.Command {
	var category, format string

	cmd := &cobra.Command{
		Use:   "types",
		Short: "List relation codes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validateFormat(format); err != nil {
				return err
			}
			handler, err := newComposeHandler()
			if err != nil {
				return err
			}

			defs := handler.HandleTypes(category)
			if format == "json" {
				return formatJSON(os.Stdout, defs)
			}
			return formatTypes(os.Stdout, defs)
		},
	}

	cmd.Flags().StringVar(&category, "category", "", "Only this category: direct, marriage, extended, adoption")
	cmd.Flags().StringVar(&format, "format", "text", "Output format: text, json")

	return cmd
}
