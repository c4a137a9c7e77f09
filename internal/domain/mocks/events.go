package mocks

import (
	"context"
	"sync"

	"github.com/ersonp/kinship/internal/domain/entities"
)

// Events records membership events instead of scheduling refreshes.
type Events struct {
	mu       sync.Mutex
	Accepted []entities.RelationshipAccepted
	Added    []entities.MemberAdded
	Err      error
}

// OnRelationshipAccepted records the event.
func (m *Events) OnRelationshipAccepted(_ context.Context, evt entities.RelationshipAccepted) error {
	if m.Err != nil {
		return m.Err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Accepted = append(m.Accepted, evt)
	return nil
}

// OnMemberAdded records the event.
func (m *Events) OnMemberAdded(_ context.Context, evt entities.MemberAdded) error {
	if m.Err != nil {
		return m.Err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Added = append(m.Added, evt)
	return nil
}

// Refresher records refresh and purge calls.
type Refresher struct {
	mu        sync.Mutex
	Refreshed []string
	Purged    []string
	// Saved is returned by every Refresh call.
	Saved int
	Err   error
	// SubjectErrs fails Refresh for specific subjects.
	SubjectErrs map[string]error
}

// Refresh records the subject.
func (m *Refresher) Refresh(_ context.Context, subjectID string, _ *entities.RelationshipEdge) (int, error) {
	if m.Err != nil {
		return 0, m.Err
	}
	if err := m.SubjectErrs[subjectID]; err != nil {
		return 0, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Refreshed = append(m.Refreshed, subjectID)
	return m.Saved, nil
}

// PurgeStale records the subject.
func (m *Refresher) PurgeStale(_ context.Context, subjectID string) (int, error) {
	if m.Err != nil {
		return 0, m.Err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Purged = append(m.Purged, subjectID)
	return 0, nil
}
