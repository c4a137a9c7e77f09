package ports

import (
	"context"
	"time"

	"github.com/ersonp/kinship/internal/domain/entities"
)

// SuggestionStore persists suggestions and their lifecycle.
type SuggestionStore interface {
	// PurgeStalePending deletes the subject's pending suggestions created
	// before olderThan and returns how many were removed.
	PurgeStalePending(ctx context.Context, subjectID string, olderThan time.Time) (int, error)

	// Exists reports whether a suggestion with the given status exists for
	// the pair.
	Exists(ctx context.Context, subjectID, candidateID string, status entities.SuggestionStatus) (bool, error)

	// SaveAll inserts the candidates as pending suggestions. A pair that
	// already has a pending suggestion is skipped. Returns how many rows were
	// inserted.
	SaveAll(ctx context.Context, subjectID string, candidates []entities.SuggestionCandidate) (int, error)

	// ListSuggestions returns the subject's suggestions with the given status,
	// highest confidence first. An empty status lists all of them.
	ListSuggestions(ctx context.Context, subjectID string, status entities.SuggestionStatus) ([]entities.Suggestion, error)

	// FindSuggestion returns a suggestion by ID, or nil if not found.
	FindSuggestion(ctx context.Context, id string) (*entities.Suggestion, error)

	// UpdateSuggestionStatus sets the status of a suggestion.
	UpdateSuggestionStatus(ctx context.Context, id string, status entities.SuggestionStatus) error
}
