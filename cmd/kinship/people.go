package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ersonp/kinship/internal/application/handlers"
)

func newPeopleCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "people",
		Short: "Manage people",
		Long:  "Add, list, or show people in the family network.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPeopleList(cmd, "text")
		},
	}

	cmd.AddCommand(newPeopleAddCmd())
	cmd.AddCommand(newPeopleListCmd())
	cmd.AddCommand(newPeopleShowCmd())

	return cmd
}

func newPeopleAddCmd() *cobra.Command {
	var in handlers.AddPersonInput

	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Add a person",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in.Name = args[0]
			return runPeopleAdd(cmd, in)
		},
	}

	cmd.Flags().StringVar(&in.Gender, "gender", "", "Gender (male, female)")
	cmd.Flags().StringVar(&in.ID, "id", "", "Person ID (generated when empty)")

	return cmd
}

func runPeopleAdd(cmd *cobra.Command, in handlers.AddPersonInput) error {
	ctx := cmd.Context()

	return withDeps(ctx, func(d *Deps) error {
		p, err := d.People.HandleAdd(ctx, in)
		if err != nil {
			return fmt.Errorf("adding person: %w", err)
		}

		fmt.Printf("Added %s (%s)\n", p.DisplayName(), p.ID)
		return nil
	})
}

func newPeopleListCmd() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List all people",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPeopleList(cmd, format)
		},
	}

	cmd.Flags().StringVar(&format, "format", "text", "Output format: text, json")

	return cmd
}

func runPeopleList(cmd *cobra.Command, format string) error {
	if err := validateFormat(format); err != nil {
		return err
	}
	ctx := cmd.Context()

	return withDeps(ctx, func(d *Deps) error {
		people, err := d.People.HandleList(ctx)
		if err != nil {
			return fmt.Errorf("listing people: %w", err)
		}
		if format == "json" {
			return formatJSON(os.Stdout, people)
		}
		return formatPeople(os.Stdout, people)
	})
}

func newPeopleShowCmd() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "show <person>",
		Short: "Show a person and their relationships",
		Long: `Shows a person with every pending or accepted relationship, each read
from that person's side. The person may be given by ID or by name.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPeopleShow(cmd, args[0], format)
		},
	}

	cmd.Flags().StringVar(&format, "format", "text", "Output format: text, json")

	return cmd
}

func runPeopleShow(cmd *cobra.Command, ref, format string) error {
	if err := validateFormat(format); err != nil {
		return err
	}
	ctx := cmd.Context()

	return withDeps(ctx, func(d *Deps) error {
		view, err := d.People.HandleShow(ctx, ref)
		if err != nil {
			return fmt.Errorf("showing person: %w", err)
		}
		if format == "json" {
			return formatJSON(os.Stdout, view)
		}
		return formatPerson(os.Stdout, view)
	})
}
