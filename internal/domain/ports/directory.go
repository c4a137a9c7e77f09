package ports

import (
	"context"

	"github.com/ersonp/kinship/internal/domain/entities"
)

// PersonDirectory resolves person profiles.
type PersonDirectory interface {
	// FindPerson returns the person with the given ID, or nil if not found.
	FindPerson(ctx context.Context, id string) (*entities.Person, error)

	// SavePerson inserts or updates a person.
	SavePerson(ctx context.Context, p *entities.Person) error

	// ListPeople returns every known person ordered by name.
	ListPeople(ctx context.Context) ([]*entities.Person, error)
}
