package handlers

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ersonp/kinship/internal/domain/entities"
	"github.com/ersonp/kinship/internal/domain/ports"
)

// timeNow returns the current time (can be mocked in tests).
var timeNow = time.Now

// PeopleHandler handles person operations.
type PeopleHandler struct {
	directory ports.PersonDirectory
	edges     ports.RelationshipRepository
	catalog   *entities.RelationCatalog
}

// NewPeopleHandler creates a new PeopleHandler.
func NewPeopleHandler(directory ports.PersonDirectory, edges ports.RelationshipRepository, catalog *entities.RelationCatalog) *PeopleHandler {
	return &PeopleHandler{
		directory: directory,
		edges:     edges,
		catalog:   catalog,
	}
}

// AddPersonInput describes a person to create.
type AddPersonInput struct {
	ID     string // Optional; generated when empty
	Name   string
	Gender string
}

// RelationView is one edge seen from a person.
type RelationView struct {
	EdgeID string              `json:"edge_id"`
	Person *entities.Person    `json:"person"`
	Code   string              `json:"code"`
	Label  string              `json:"label"`
	Status entities.EdgeStatus `json:"status"`
}

// PersonView is a person with their relationships.
type PersonView struct {
	Person    *entities.Person `json:"person"`
	Relations []RelationView   `json:"relations"`
}

// HandleAdd creates a person.
func (h *PeopleHandler) HandleAdd(ctx context.Context, in AddPersonInput) (*entities.Person, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, errors.New("name is required")
	}

	id := strings.TrimSpace(in.ID)
	if id == "" {
		id = uuid.New().String()
	} else {
		existing, err := h.directory.FindPerson(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("checking person: %w", err)
		}
		if existing != nil {
			return nil, fmt.Errorf("person %s already exists", id)
		}
	}

	p := &entities.Person{
		ID:        id,
		Name:      name,
		Gender:    entities.ParseGender(in.Gender),
		CreatedAt: timeNow(),
	}
	if err := h.directory.SavePerson(ctx, p); err != nil {
		return nil, fmt.Errorf("saving person: %w", err)
	}
	return p, nil
}

// HandleList returns every person ordered by name.
func (h *PeopleHandler) HandleList(ctx context.Context) ([]*entities.Person, error) {
	return h.directory.ListPeople(ctx)
}

// HandleShow returns a person with every relationship touching them, each
// described relative to that person.
func (h *PeopleHandler) HandleShow(ctx context.Context, ref string) (*PersonView, error) {
	p, err := resolvePerson(ctx, h.directory, ref)
	if err != nil {
		return nil, err
	}

	edges, err := h.edges.ListRelationships(ctx, p.ID)
	if err != nil {
		return nil, fmt.Errorf("listing relationships: %w", err)
	}

	view := &PersonView{Person: p, Relations: make([]RelationView, 0, len(edges))}
	for _, e := range edges {
		otherID := e.Other(p.ID)
		other, err := h.directory.FindPerson(ctx, otherID)
		if err != nil {
			return nil, fmt.Errorf("finding person %s: %w", otherID, err)
		}
		if other == nil {
			other = &entities.Person{ID: otherID, Gender: entities.GenderUnknown}
		}

		n, ok := h.catalog.OrientTo(e, p.ID, other.Gender)
		if !ok {
			continue
		}
		view.Relations = append(view.Relations, RelationView{
			EdgeID: e.ID,
			Person: other,
			Code:   n.TypeCode,
			Label:  h.catalog.Label(n.TypeCode),
			Status: e.Status,
		})
	}
	return view, nil
}
