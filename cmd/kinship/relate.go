package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ersonp/kinship/internal/application/handlers"
	"github.com/ersonp/kinship/internal/domain/entities"
)

func newRelateCmd() *cobra.Command {
	var opts handlers.RelateOptions

	cmd := &cobra.Command{
		Use:   "relate <person> <relation> <other>",
		Short: "Record that other is person's relation",
		Long: `Records a relationship edge. The relation describes the second person
relative to the first: "relate mohamed father ahmed" means Ahmed is
Mohamed's father. People may be given by ID or by name.

Accepting the edge schedules a suggestion refresh for both people.
Use --pending to leave it as a request for 'kinship requests accept'.

Examples:
  kinship relate mohamed father ahmed
  kinship relate mohamed wife leila --pending`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRelate(cmd, args, opts)
		},
	}

	cmd.Flags().BoolVar(&opts.Pending, "pending", false, "Create a pending request instead of an accepted edge")

	return cmd
}

func runRelate(cmd *cobra.Command, args []string, opts handlers.RelateOptions) error {
	ctx := cmd.Context()

	return withInternalDeps(ctx, func(d *internalDeps) error {
		edge, err := d.Relationships.HandleRelate(ctx, args[0], args[1], args[2], opts)
		if err != nil {
			return fmt.Errorf("creating relationship: %w", err)
		}

		printEdge(edge)
		printScheduled(d)
		return nil
	})
}

func newRequestsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "requests",
		Short: "Accept or reject pending relationship requests",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "accept <edge-id>",
		Short: "Accept a pending relationship",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRequestReview(cmd, args[0], true)
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "reject <edge-id>",
		Short: "Reject a pending relationship",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRequestReview(cmd, args[0], false)
		},
	})

	return cmd
}

func runRequestReview(cmd *cobra.Command, edgeID string, accept bool) error {
	ctx := cmd.Context()

	return withInternalDeps(ctx, func(d *internalDeps) error {
		var (
			edge *entities.RelationshipEdge
			err  error
		)
		if accept {
			edge, err = d.Relationships.HandleAccept(ctx, edgeID)
		} else {
			edge, err = d.Relationships.HandleReject(ctx, edgeID)
		}
		if err != nil {
			return fmt.Errorf("reviewing request: %w", err)
		}

		printEdge(edge)
		printScheduled(d)
		return nil
	})
}

func newAddMemberCmd() *cobra.Command {
	var in handlers.AddPersonInput

	cmd := &cobra.Command{
		Use:   "add-member <added-by> <relation> <name>",
		Short: "Add a new person related to an existing one",
		Long: `Creates a person and an accepted edge stating that the new person is
added-by's relation. Suggestions for the new member and for added-by are
refreshed after a short delay.

Example:
  kinship add-member ahmed son Mohamed --gender male`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			in.Name = args[2]
			return runAddMember(cmd, args[0], args[1], in)
		},
	}

	cmd.Flags().StringVar(&in.Gender, "gender", "", "Gender of the new member (male, female)")
	cmd.Flags().StringVar(&in.ID, "id", "", "ID of the new member (generated when empty)")

	return cmd
}

func runAddMember(cmd *cobra.Command, addedBy, code string, in handlers.AddPersonInput) error {
	ctx := cmd.Context()

	return withInternalDeps(ctx, func(d *internalDeps) error {
		result, err := d.Relationships.HandleAddMember(ctx, addedBy, code, in)
		if err != nil {
			return fmt.Errorf("adding member: %w", err)
		}

		fmt.Printf("Added %s (%s)\n", result.Member.DisplayName(), result.Member.ID)
		printEdge(result.Edge)
		printScheduled(d)
		return nil
	})
}

func newRelationCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "relation <person> <other>",
		Short: "Show how other is related to person",
		Args:  cobra.ExactArgs(2),
		RunE:  runRelation,
	}
}

func runRelation(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	return withDeps(ctx, func(d *Deps) error {
		result, err := d.Relationships.HandleRelation(ctx, args[0], args[1])
		if err != nil {
			return fmt.Errorf("finding relation: %w", err)
		}

		if !result.Found {
			fmt.Printf("%s and %s are not directly related.\n", result.From.DisplayName(), result.To.DisplayName())
			return nil
		}
		fmt.Printf("%s is %s's %s (%s)\n", result.To.DisplayName(), result.From.DisplayName(), result.Label, result.Code)
		return nil
	})
}

func printEdge(edge *entities.RelationshipEdge) {
	fmt.Printf("Relationship %s: %s -[%s]-> %s (%s)\n", edge.ID, edge.SubjectID, edge.TypeCode, edge.ObjectID, edge.Status)
}

func printScheduled(d *internalDeps) {
	if n := d.dispatcher.Pending(); n > 0 {
		fmt.Printf("Scheduled %d suggestion refresh task(s).\n", n)
	}
}
