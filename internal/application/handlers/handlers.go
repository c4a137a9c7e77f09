// Package handlers contains application use case handlers.
package handlers

import (
	"context"
	"fmt"
	"strings"

	"github.com/ersonp/kinship/internal/domain/entities"
	"github.com/ersonp/kinship/internal/domain/ports"
)

// EventSink receives membership events. The suggestion scheduler is the
// production implementation.
type EventSink interface {
	OnRelationshipAccepted(ctx context.Context, evt entities.RelationshipAccepted) error
	OnMemberAdded(ctx context.Context, evt entities.MemberAdded) error
}

// Refresher regenerates or purges a subject's suggestions synchronously.
type Refresher interface {
	Refresh(ctx context.Context, subjectID string, seed *entities.RelationshipEdge) (int, error)
	PurgeStale(ctx context.Context, subjectID string) (int, error)
}

// resolvePerson finds a person by ID, then by case-insensitive name.
func resolvePerson(ctx context.Context, directory ports.PersonDirectory, ref string) (*entities.Person, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return nil, fmt.Errorf("%w: empty reference", entities.ErrPersonNotFound)
	}

	p, err := directory.FindPerson(ctx, ref)
	if err != nil {
		return nil, fmt.Errorf("finding person: %w", err)
	}
	if p != nil {
		return p, nil
	}

	people, err := directory.ListPeople(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing people: %w", err)
	}

	var matches []*entities.Person
	for _, candidate := range people {
		if strings.EqualFold(strings.TrimSpace(candidate.Name), ref) {
			matches = append(matches, candidate)
		}
	}
	switch len(matches) {
	case 0:
		return nil, fmt.Errorf("%w: %s", entities.ErrPersonNotFound, ref)
	case 1:
		return matches[0], nil
	default:
		ids := make([]string, len(matches))
		for i, m := range matches {
			ids[i] = m.ID
		}
		return nil, fmt.Errorf("%q matches several people (%s), use an id", ref, strings.Join(ids, ", "))
	}
}
