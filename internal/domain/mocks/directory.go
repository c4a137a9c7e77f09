package mocks

import (
	"context"
	"sort"
	"sync"

	"github.com/ersonp/kinship/internal/domain/entities"
)

// Directory is a mock implementation of ports.PersonDirectory.
type Directory struct {
	mu     sync.Mutex
	People map[string]*entities.Person
	Err    error
}

// NewDirectory creates a new mock Directory.
func NewDirectory() *Directory {
	return &Directory{People: make(map[string]*entities.Person)}
}

// Add registers a person and returns the directory for chaining.
func (m *Directory) Add(id, name string, gender entities.Gender) *Directory {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.People[id] = &entities.Person{ID: id, Name: name, Gender: gender}
	return m
}

// FindPerson returns the person or nil.
func (m *Directory) FindPerson(_ context.Context, id string) (*entities.Person, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.People[id], nil
}

// SavePerson inserts or replaces a person.
func (m *Directory) SavePerson(_ context.Context, p *entities.Person) error {
	if m.Err != nil {
		return m.Err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.People[p.ID] = p
	return nil
}

// ListPeople lists people sorted by name.
func (m *Directory) ListPeople(_ context.Context) ([]*entities.Person, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	result := make([]*entities.Person, 0, len(m.People))
	for _, p := range m.People {
		result = append(result, p)
	}
	// Sort by name for deterministic test results
	sort.Slice(result, func(i, j int) bool {
		return result[i].Name < result[j].Name
	})
	return result, nil
}
