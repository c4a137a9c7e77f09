package mocks

import (
	"context"
	"sync"

	"github.com/ersonp/kinship/internal/domain/entities"
)

// Relationships is an in-memory implementation of ports.RelationshipGraph
// and ports.RelationshipRepository.
type Relationships struct {
	mu      sync.Mutex
	Edges   []entities.RelationshipEdge
	Catalog *entities.RelationCatalog
	// Genders gives the gender used to adapt inverted codes.
	Genders map[string]entities.Gender
	Err     error
	// NeighborErrs fails Neighbors for specific people.
	NeighborErrs map[string]error
}

// NewRelationships creates a mock over the default catalog.
func NewRelationships() *Relationships {
	return &Relationships{
		Catalog:      entities.DefaultCatalog(),
		Genders:      make(map[string]entities.Gender),
		NeighborErrs: make(map[string]error),
	}
}

// Add stores an accepted edge: object is subject's code.
func (m *Relationships) Add(subjectID, code, objectID string) *Relationships {
	return m.AddWithStatus(subjectID, code, objectID, entities.EdgeAccepted)
}

// AddWithStatus stores an edge with the given status.
func (m *Relationships) AddWithStatus(subjectID, code, objectID string, status entities.EdgeStatus) *Relationships {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Edges = append(m.Edges, entities.RelationshipEdge{
		ID:        subjectID + ":" + objectID,
		SubjectID: subjectID,
		ObjectID:  objectID,
		TypeCode:  code,
		Status:    status,
	})
	return m
}

// Neighbors returns accepted edges touching personID, oriented to it.
func (m *Relationships) Neighbors(_ context.Context, personID string) ([]entities.Neighbor, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	if err := m.NeighborErrs[personID]; err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []entities.Neighbor
	for _, e := range m.Edges {
		if e.Status != entities.EdgeAccepted || !e.Touches(personID) {
			continue
		}
		if n, ok := m.Catalog.OrientTo(e, personID, m.gender(e.Other(personID))); ok {
			out = append(out, n)
		}
	}
	return out, nil
}

// EdgeBetween returns the accepted code describing b relative to a.
func (m *Relationships) EdgeBetween(_ context.Context, a, b string) (string, bool, error) {
	if m.Err != nil {
		return "", false, m.Err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, e := range m.Edges {
		if e.Status != entities.EdgeAccepted || !e.Touches(a) || e.Other(a) != b {
			continue
		}
		if n, ok := m.Catalog.OrientTo(e, a, m.gender(b)); ok {
			return n.TypeCode, true, nil
		}
	}
	return "", false, nil
}

// Connections returns people linked to personID by a pending or accepted edge.
func (m *Relationships) Connections(_ context.Context, personID string) ([]string, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []string
	for _, e := range m.Edges {
		if e.Status == entities.EdgeRejected || !e.Touches(personID) {
			continue
		}
		out = append(out, e.Other(personID))
	}
	return out, nil
}

// SaveRelationship inserts or replaces an edge by ID.
func (m *Relationships) SaveRelationship(_ context.Context, edge *entities.RelationshipEdge) error {
	if m.Err != nil {
		return m.Err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	for i := range m.Edges {
		if m.Edges[i].ID == edge.ID {
			m.Edges[i] = *edge
			return nil
		}
	}
	m.Edges = append(m.Edges, *edge)
	return nil
}

// FindRelationship finds an edge by ID.
func (m *Relationships) FindRelationship(_ context.Context, id string) (*entities.RelationshipEdge, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	for i := range m.Edges {
		if m.Edges[i].ID == id {
			e := m.Edges[i]
			return &e, nil
		}
	}
	return nil, nil
}

// FindRelationshipBetween finds the edge linking a and b in either direction.
func (m *Relationships) FindRelationshipBetween(_ context.Context, a, b string) (*entities.RelationshipEdge, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	for i := range m.Edges {
		if m.Edges[i].Touches(a) && m.Edges[i].Other(a) == b {
			e := m.Edges[i]
			return &e, nil
		}
	}
	return nil, nil
}

// ListRelationships returns every edge touching personID.
func (m *Relationships) ListRelationships(_ context.Context, personID string) ([]entities.RelationshipEdge, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []entities.RelationshipEdge
	for _, e := range m.Edges {
		if e.Touches(personID) {
			out = append(out, e)
		}
	}
	return out, nil
}

// UpdateRelationshipStatus changes the status of an edge.
func (m *Relationships) UpdateRelationshipStatus(_ context.Context, id string, status entities.EdgeStatus) error {
	if m.Err != nil {
		return m.Err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	for i := range m.Edges {
		if m.Edges[i].ID == id {
			m.Edges[i].Status = status
			return nil
		}
	}
	return nil
}

func (m *Relationships) gender(id string) entities.Gender {
	if g, ok := m.Genders[id]; ok {
		return g
	}
	return entities.GenderUnknown
}
