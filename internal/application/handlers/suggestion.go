package handlers

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/ersonp/kinship/internal/domain/entities"
	"github.com/ersonp/kinship/internal/domain/ports"
	"github.com/ersonp/kinship/internal/domain/services"
)

// SuggestionHandler handles suggestion listing and review.
type SuggestionHandler struct {
	directory ports.PersonDirectory
	store     ports.SuggestionStore
	edges     ports.RelationshipRepository
	generator services.Generator
	refresher Refresher
	catalog   *entities.RelationCatalog
	events    EventSink
}

// SuggestionDeps groups the SuggestionHandler collaborators.
type SuggestionDeps struct {
	Directory ports.PersonDirectory
	Store     ports.SuggestionStore
	Edges     ports.RelationshipRepository
	Generator services.Generator
	Refresher Refresher
	Catalog   *entities.RelationCatalog
	Events    EventSink
}

// NewSuggestionHandler creates a new SuggestionHandler.
func NewSuggestionHandler(deps SuggestionDeps) *SuggestionHandler {
	return &SuggestionHandler{
		directory: deps.Directory,
		store:     deps.Store,
		edges:     deps.Edges,
		generator: deps.Generator,
		refresher: deps.Refresher,
		catalog:   deps.Catalog,
		events:    deps.Events,
	}
}

// SuggestionView is a stored suggestion with the candidate's profile.
type SuggestionView struct {
	Suggestion entities.Suggestion `json:"suggestion"`
	Candidate  *entities.Person    `json:"candidate"`
	Label      string              `json:"label"`
}

// CandidateView is an unsaved candidate with the candidate's profile.
type CandidateView struct {
	Candidate entities.SuggestionCandidate `json:"candidate"`
	Person    *entities.Person             `json:"person"`
	Label     string                       `json:"label"`
}

// SuggestResult contains the outcome of a suggestion run.
type SuggestResult struct {
	Subject *entities.Person `json:"subject"`
	DryRun  bool             `json:"dry_run"`
	Saved   int              `json:"saved"`
	// Candidates is set on dry runs, Suggestions otherwise.
	Candidates  []CandidateView  `json:"candidates,omitempty"`
	Suggestions []SuggestionView `json:"suggestions,omitempty"`
}

// AcceptResult contains an accepted suggestion and the edge it created, if any.
type AcceptResult struct {
	Suggestion *entities.Suggestion       `json:"suggestion"`
	Edge       *entities.RelationshipEdge `json:"edge,omitempty"`
}

// HandleSuggest refreshes the person's suggestions and returns the pending
// ones. A dry run only shows what the generator would produce.
func (h *SuggestionHandler) HandleSuggest(ctx context.Context, ref string, dryRun bool) (*SuggestResult, error) {
	subject, err := resolvePerson(ctx, h.directory, ref)
	if err != nil {
		return nil, err
	}
	result := &SuggestResult{Subject: subject, DryRun: dryRun}

	if dryRun {
		candidates, err := h.generator.Generate(ctx, subject.ID, nil)
		if err != nil {
			return nil, fmt.Errorf("generating suggestions: %w", err)
		}
		result.Candidates = make([]CandidateView, 0, len(candidates))
		for _, c := range candidates {
			p, err := h.person(ctx, c.CandidateID)
			if err != nil {
				return nil, err
			}
			result.Candidates = append(result.Candidates, CandidateView{Candidate: c, Person: p, Label: h.catalog.Label(c.Code)})
		}
		return result, nil
	}

	saved, err := h.refresher.Refresh(ctx, subject.ID, nil)
	if err != nil {
		return nil, err
	}
	result.Saved = saved

	result.Suggestions, err = h.list(ctx, subject.ID, entities.SuggestionPending)
	if err != nil {
		return nil, err
	}
	return result, nil
}

// HandleList returns the person's suggestions with the given status. An
// empty status or "all" lists every status.
func (h *SuggestionHandler) HandleList(ctx context.Context, ref, status string) ([]SuggestionView, error) {
	var st entities.SuggestionStatus
	if status != "" && !strings.EqualFold(status, "all") {
		parsed, err := entities.ParseSuggestionStatus(strings.ToLower(status))
		if err != nil {
			return nil, err
		}
		st = parsed
	}

	subject, err := resolvePerson(ctx, h.directory, ref)
	if err != nil {
		return nil, err
	}
	return h.list(ctx, subject.ID, st)
}

// HandleAccept accepts a pending suggestion and records the suggested
// relationship, unless the two people are already linked.
func (h *SuggestionHandler) HandleAccept(ctx context.Context, id string) (*AcceptResult, error) {
	s, err := h.transition(ctx, id, entities.SuggestionAccepted)
	if err != nil {
		return nil, err
	}
	result := &AcceptResult{Suggestion: s}

	existing, err := h.edges.FindRelationshipBetween(ctx, s.SubjectID, s.CandidateID)
	if err != nil {
		return nil, fmt.Errorf("checking existing relationship: %w", err)
	}
	if existing != nil && existing.Status != entities.EdgeRejected {
		return result, nil
	}

	edge := &entities.RelationshipEdge{
		ID:        uuid.New().String(),
		SubjectID: s.SubjectID,
		ObjectID:  s.CandidateID,
		TypeCode:  s.SuggestedCode,
		Status:    entities.EdgeAccepted,
		CreatedAt: timeNow(),
	}
	if existing != nil {
		edge.ID = existing.ID
	}
	if err := h.edges.SaveRelationship(ctx, edge); err != nil {
		return nil, fmt.Errorf("saving relationship: %w", err)
	}
	result.Edge = edge

	evt := entities.RelationshipAccepted{
		RequesterID:      s.SubjectID,
		TargetID:         s.CandidateID,
		RelationTypeCode: s.SuggestedCode,
	}
	if err := h.events.OnRelationshipAccepted(ctx, evt); err != nil {
		return nil, fmt.Errorf("scheduling suggestions: %w", err)
	}
	return result, nil
}

// HandleReject rejects a pending suggestion.
func (h *SuggestionHandler) HandleReject(ctx context.Context, id string) (*entities.Suggestion, error) {
	return h.transition(ctx, id, entities.SuggestionRejected)
}

// HandlePurge deletes the person's expired pending suggestions.
func (h *SuggestionHandler) HandlePurge(ctx context.Context, ref string) (int, error) {
	subject, err := resolvePerson(ctx, h.directory, ref)
	if err != nil {
		return 0, err
	}
	return h.refresher.PurgeStale(ctx, subject.ID)
}

func (h *SuggestionHandler) transition(ctx context.Context, id string, to entities.SuggestionStatus) (*entities.Suggestion, error) {
	s, err := h.store.FindSuggestion(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("finding suggestion: %w", err)
	}
	if s == nil {
		return nil, fmt.Errorf("suggestion not found: %s", id)
	}
	if err := s.Transition(to); err != nil {
		return nil, err
	}
	if err := h.store.UpdateSuggestionStatus(ctx, s.ID, s.Status); err != nil {
		return nil, fmt.Errorf("updating suggestion: %w", err)
	}
	return s, nil
}

func (h *SuggestionHandler) list(ctx context.Context, subjectID string, status entities.SuggestionStatus) ([]SuggestionView, error) {
	suggestions, err := h.store.ListSuggestions(ctx, subjectID, status)
	if err != nil {
		return nil, fmt.Errorf("listing suggestions: %w", err)
	}

	views := make([]SuggestionView, 0, len(suggestions))
	for _, s := range suggestions {
		p, err := h.person(ctx, s.CandidateID)
		if err != nil {
			return nil, err
		}
		views = append(views, SuggestionView{Suggestion: s, Candidate: p, Label: h.catalog.Label(s.SuggestedCode)})
	}
	return views, nil
}

// person returns the profile, or a placeholder holding only the ID.
func (h *SuggestionHandler) person(ctx context.Context, id string) (*entities.Person, error) {
	p, err := h.directory.FindPerson(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("finding person %s: %w", id, err)
	}
	if p == nil {
		return &entities.Person{ID: id, Gender: entities.GenderUnknown}, nil
	}
	return p, nil
}
