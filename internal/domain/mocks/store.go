package mocks

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/ersonp/kinship/internal/domain/entities"
)

// SuggestionStore is a mock implementation of ports.SuggestionStore.
type SuggestionStore struct {
	mu          sync.Mutex
	Suggestions []entities.Suggestion
	Now         func() time.Time

	Err      error
	PurgeErr error
	SaveErr  error
	// SubjectErrs fails every call for specific subjects.
	SubjectErrs map[string]error

	PurgeCalls []time.Time
	SaveCalls  int
}

// NewSuggestionStore creates a new mock SuggestionStore.
func NewSuggestionStore() *SuggestionStore {
	return &SuggestionStore{
		Now:         time.Now,
		SubjectErrs: make(map[string]error),
	}
}

func (m *SuggestionStore) errFor(subjectID string, specific error) error {
	if m.Err != nil {
		return m.Err
	}
	if err := m.SubjectErrs[subjectID]; err != nil {
		return err
	}
	return specific
}

// PurgeStalePending removes the subject's pending suggestions created before olderThan.
func (m *SuggestionStore) PurgeStalePending(_ context.Context, subjectID string, olderThan time.Time) (int, error) {
	if err := m.errFor(subjectID, m.PurgeErr); err != nil {
		return 0, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	m.PurgeCalls = append(m.PurgeCalls, olderThan)
	kept := m.Suggestions[:0]
	purged := 0
	for _, s := range m.Suggestions {
		if s.SubjectID == subjectID && s.Status == entities.SuggestionPending && s.CreatedAt.Before(olderThan) {
			purged++
			continue
		}
		kept = append(kept, s)
	}
	m.Suggestions = kept
	return purged, nil
}

// Exists reports whether a suggestion with the status exists for the pair.
func (m *SuggestionStore) Exists(_ context.Context, subjectID, candidateID string, status entities.SuggestionStatus) (bool, error) {
	if err := m.errFor(subjectID, nil); err != nil {
		return false, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, s := range m.Suggestions {
		if s.SubjectID == subjectID && s.CandidateID == candidateID && s.Status == status {
			return true, nil
		}
	}
	return false, nil
}

// SaveAll appends candidates as pending, skipping pairs already pending.
func (m *SuggestionStore) SaveAll(_ context.Context, subjectID string, candidates []entities.SuggestionCandidate) (int, error) {
	if err := m.errFor(subjectID, m.SaveErr); err != nil {
		return 0, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	m.SaveCalls++
	saved := 0
	for _, c := range candidates {
		if m.hasPending(subjectID, c.CandidateID) {
			continue
		}
		m.Suggestions = append(m.Suggestions, entities.Suggestion{
			ID:            fmt.Sprintf("s%d", len(m.Suggestions)+1),
			SubjectID:     subjectID,
			CandidateID:   c.CandidateID,
			SuggestedCode: c.Code,
			Rationale:     c.Rationale,
			Confidence:    c.Confidence,
			Status:        entities.SuggestionPending,
			CreatedAt:     m.Now(),
		})
		saved++
	}
	return saved, nil
}

func (m *SuggestionStore) hasPending(subjectID, candidateID string) bool {
	for _, s := range m.Suggestions {
		if s.SubjectID == subjectID && s.CandidateID == candidateID && s.Status == entities.SuggestionPending {
			return true
		}
	}
	return false
}

// ListSuggestions lists the subject's suggestions by confidence.
func (m *SuggestionStore) ListSuggestions(_ context.Context, subjectID string, status entities.SuggestionStatus) ([]entities.Suggestion, error) {
	if err := m.errFor(subjectID, nil); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []entities.Suggestion
	for _, s := range m.Suggestions {
		if s.SubjectID == subjectID && (status == "" || s.Status == status) {
			out = append(out, s)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Confidence > out[j].Confidence
	})
	return out, nil
}

// FindSuggestion finds a suggestion by ID.
func (m *SuggestionStore) FindSuggestion(_ context.Context, id string) (*entities.Suggestion, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	for i := range m.Suggestions {
		if m.Suggestions[i].ID == id {
			s := m.Suggestions[i]
			return &s, nil
		}
	}
	return nil, nil
}

// UpdateSuggestionStatus sets the status of a suggestion.
func (m *SuggestionStore) UpdateSuggestionStatus(_ context.Context, id string, status entities.SuggestionStatus) error {
	if m.Err != nil {
		return m.Err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	for i := range m.Suggestions {
		if m.Suggestions[i].ID == id {
			m.Suggestions[i].Status = status
			return nil
		}
	}
	return nil
}
