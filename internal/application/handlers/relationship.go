package handlers

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/ersonp/kinship/internal/domain/entities"
	"github.com/ersonp/kinship/internal/domain/ports"
)

// RelationshipHandler handles relationship requests and membership changes.
// Accepted relationships and new members are reported to the event sink,
// which schedules the suggestion refreshes.
type RelationshipHandler struct {
	directory ports.PersonDirectory
	edges     ports.RelationshipRepository
	graph     ports.RelationshipGraph
	catalog   *entities.RelationCatalog
	events    EventSink
}

// NewRelationshipHandler creates a new RelationshipHandler.
func NewRelationshipHandler(
	directory ports.PersonDirectory,
	edges ports.RelationshipRepository,
	graph ports.RelationshipGraph,
	catalog *entities.RelationCatalog,
	events EventSink,
) *RelationshipHandler {
	return &RelationshipHandler{
		directory: directory,
		edges:     edges,
		graph:     graph,
		catalog:   catalog,
		events:    events,
	}
}

// RelateOptions configures relationship creation.
type RelateOptions struct {
	// Pending leaves the request waiting for HandleAccept instead of
	// accepting it at once.
	Pending bool
}

// AddMemberResult contains the created member and the edge linking them.
type AddMemberResult struct {
	Member *entities.Person           `json:"member"`
	Edge   *entities.RelationshipEdge `json:"edge"`
}

// RelationResult describes how one person relates to another.
type RelationResult struct {
	From  *entities.Person `json:"from"`
	To    *entities.Person `json:"to"`
	Found bool             `json:"found"`
	Code  string           `json:"code,omitempty"`
	Label string           `json:"label,omitempty"`
}

// HandleRelate records that b is a's code.
func (h *RelationshipHandler) HandleRelate(ctx context.Context, aRef, code, bRef string, opts RelateOptions) (*entities.RelationshipEdge, error) {
	code, err := h.validateCode(code)
	if err != nil {
		return nil, err
	}

	a, err := resolvePerson(ctx, h.directory, aRef)
	if err != nil {
		return nil, err
	}
	b, err := resolvePerson(ctx, h.directory, bRef)
	if err != nil {
		return nil, err
	}
	if a.ID == b.ID {
		return nil, errors.New("a person cannot be related to themselves")
	}

	existing, err := h.edges.FindRelationshipBetween(ctx, a.ID, b.ID)
	if err != nil {
		return nil, fmt.Errorf("checking existing relationship: %w", err)
	}
	if existing != nil && existing.Status != entities.EdgeRejected {
		return nil, fmt.Errorf("%s and %s are already related (%s %s)",
			a.DisplayName(), b.DisplayName(), existing.Status, existing.TypeCode)
	}

	edge := &entities.RelationshipEdge{
		ID:        uuid.New().String(),
		SubjectID: a.ID,
		ObjectID:  b.ID,
		TypeCode:  code,
		Status:    entities.EdgePending,
		CreatedAt: timeNow(),
	}
	if existing != nil {
		// A rejected request can be made again.
		edge.ID = existing.ID
	}
	if err := h.edges.SaveRelationship(ctx, edge); err != nil {
		return nil, fmt.Errorf("saving relationship: %w", err)
	}

	if opts.Pending {
		return edge, nil
	}
	return h.accept(ctx, edge)
}

// HandleAccept accepts a pending relationship request.
func (h *RelationshipHandler) HandleAccept(ctx context.Context, edgeID string) (*entities.RelationshipEdge, error) {
	edge, err := h.findPending(ctx, edgeID)
	if err != nil {
		return nil, err
	}
	return h.accept(ctx, edge)
}

// HandleReject rejects a pending relationship request.
func (h *RelationshipHandler) HandleReject(ctx context.Context, edgeID string) (*entities.RelationshipEdge, error) {
	edge, err := h.findPending(ctx, edgeID)
	if err != nil {
		return nil, err
	}
	if err := h.edges.UpdateRelationshipStatus(ctx, edge.ID, entities.EdgeRejected); err != nil {
		return nil, fmt.Errorf("rejecting relationship: %w", err)
	}
	edge.Status = entities.EdgeRejected
	return edge, nil
}

// HandleAddMember creates a new person who is the adder's code.
func (h *RelationshipHandler) HandleAddMember(ctx context.Context, addedByRef, code string, in AddPersonInput) (*AddMemberResult, error) {
	code, err := h.validateCode(code)
	if err != nil {
		return nil, err
	}

	addedBy, err := resolvePerson(ctx, h.directory, addedByRef)
	if err != nil {
		return nil, err
	}

	member, err := NewPeopleHandler(h.directory, h.edges, h.catalog).HandleAdd(ctx, in)
	if err != nil {
		return nil, err
	}

	edge := &entities.RelationshipEdge{
		ID:        uuid.New().String(),
		SubjectID: addedBy.ID,
		ObjectID:  member.ID,
		TypeCode:  code,
		Status:    entities.EdgeAccepted,
		CreatedAt: timeNow(),
	}
	if err := h.edges.SaveRelationship(ctx, edge); err != nil {
		return nil, fmt.Errorf("saving relationship: %w", err)
	}

	evt := entities.MemberAdded{
		NewMemberID:      member.ID,
		AddedByID:        addedBy.ID,
		RelationTypeCode: code,
	}
	if err := h.events.OnMemberAdded(ctx, evt); err != nil {
		return nil, fmt.Errorf("scheduling suggestions: %w", err)
	}

	return &AddMemberResult{Member: member, Edge: edge}, nil
}

// HandleRelation returns what b is to a, from the accepted edge between them.
func (h *RelationshipHandler) HandleRelation(ctx context.Context, aRef, bRef string) (*RelationResult, error) {
	a, err := resolvePerson(ctx, h.directory, aRef)
	if err != nil {
		return nil, err
	}
	b, err := resolvePerson(ctx, h.directory, bRef)
	if err != nil {
		return nil, err
	}

	result := &RelationResult{From: a, To: b}
	code, found, err := h.graph.EdgeBetween(ctx, a.ID, b.ID)
	if err != nil {
		return nil, fmt.Errorf("finding relationship: %w", err)
	}
	if found {
		result.Found = true
		result.Code = code
		result.Label = h.catalog.Label(code)
	}
	return result, nil
}

func (h *RelationshipHandler) accept(ctx context.Context, edge *entities.RelationshipEdge) (*entities.RelationshipEdge, error) {
	if err := h.edges.UpdateRelationshipStatus(ctx, edge.ID, entities.EdgeAccepted); err != nil {
		return nil, fmt.Errorf("accepting relationship: %w", err)
	}
	edge.Status = entities.EdgeAccepted

	evt := entities.RelationshipAccepted{
		RequesterID:      edge.SubjectID,
		TargetID:         edge.ObjectID,
		RelationTypeCode: edge.TypeCode,
	}
	if err := h.events.OnRelationshipAccepted(ctx, evt); err != nil {
		return nil, fmt.Errorf("scheduling suggestions: %w", err)
	}
	return edge, nil
}

func (h *RelationshipHandler) findPending(ctx context.Context, edgeID string) (*entities.RelationshipEdge, error) {
	edge, err := h.edges.FindRelationship(ctx, edgeID)
	if err != nil {
		return nil, fmt.Errorf("finding relationship: %w", err)
	}
	if edge == nil {
		return nil, fmt.Errorf("relationship not found: %s", edgeID)
	}
	if edge.Status != entities.EdgePending {
		return nil, fmt.Errorf("relationship %s is %s, not pending", edgeID, edge.Status)
	}
	return edge, nil
}

func (h *RelationshipHandler) validateCode(code string) (string, error) {
	code = strings.ToLower(strings.TrimSpace(code))
	if !h.catalog.Has(code) {
		return "", fmt.Errorf("%w: %q (see 'kinship types')", entities.ErrUnknownRelation, code)
	}
	return code, nil
}
