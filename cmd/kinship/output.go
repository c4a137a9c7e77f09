package main

import (
	"encoding/json"
	"fmt"
	"io"
	"slices"
	"strings"
	"text/tabwriter"

	"github.com/ersonp/kinship/internal/application/handlers"
	"github.com/ersonp/kinship/internal/domain/entities"
)

func validateFormat(format string) error {
	if !slices.Contains(validOutputs, format) {
		return fmt.Errorf("invalid format: %s (valid: %s)", format, strings.Join(validOutputs, ", "))
	}
	return nil
}

func formatJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func formatPerson(w io.Writer, view *handlers.PersonView) error {
	p := view.Person
	fmt.Fprintf(w, "%s (%s, %s)\n", p.DisplayName(), p.ID, p.Gender)

	if len(view.Relations) == 0 {
		fmt.Fprintln(w, "  No relationships.")
		return nil
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "  RELATION\tPERSON\tSTATUS\tEDGE")
	for _, r := range view.Relations {
		fmt.Fprintf(tw, "  %s\t%s\t%s\t%s\n", r.Label, r.Person.DisplayName(), r.Status, r.EdgeID)
	}
	return tw.Flush()
}

func formatPeople(w io.Writer, people []*entities.Person) error {
	if len(people) == 0 {
		fmt.Fprintln(w, "No people found.")
		return nil
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tGENDER")
	for _, p := range people {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", p.ID, p.DisplayName(), p.Gender)
	}
	return tw.Flush()
}

func formatSuggestions(w io.Writer, views []handlers.SuggestionView) error {
	if len(views) == 0 {
		fmt.Fprintln(w, "No suggestions.")
		return nil
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tCANDIDATE\tRELATION\tCONFIDENCE\tSTATUS\tRATIONALE")
	for _, v := range views {
		s := v.Suggestion
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%s\t%s\n",
			s.ID, v.Candidate.DisplayName(), v.Label, s.Confidence, s.Status,
			truncate(s.Rationale, MaxRationaleWidth))
	}
	return tw.Flush()
}

func formatCandidates(w io.Writer, views []handlers.CandidateView) error {
	if len(views) == 0 {
		fmt.Fprintln(w, "No candidates.")
		return nil
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "CANDIDATE\tRELATION\tCONFIDENCE\tCLASS\tRATIONALE")
	for _, v := range views {
		c := v.Candidate
		fmt.Fprintf(tw, "%s\t%s\t%d\t%s\t%s\n",
			v.Person.DisplayName(), v.Label, c.Confidence, c.Class,
			truncate(c.Rationale, MaxRationaleWidth))
	}
	return tw.Flush()
}

func formatTypes(w io.Writer, defs []entities.RelationshipTypeDef) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "CODE\tLABEL\tCATEGORY\tGENDER\tGENERATION\tINVERSE")
	for _, d := range defs {
		gender := string(d.Gender)
		if d.IsNeutral() {
			gender = "-"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%+d\t%s\n", d.Code, d.Label, d.Category, gender, d.GenerationDelta, d.InverseCode)
	}
	return tw.Flush()
}

// truncate shortens s to max runes, ending with "...".
func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-3]) + "..."
}
