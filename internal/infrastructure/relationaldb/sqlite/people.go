package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/ersonp/kinship/internal/domain/entities"
)

// SavePerson saves or updates a person.
func (r *Repository) SavePerson(ctx context.Context, p *entities.Person) error {
	if p.CreatedAt.IsZero() {
		p.CreatedAt = timeNow()
	}
	gender := p.Gender
	if gender == "" {
		gender = entities.GenderUnknown
	}

	query := `
		INSERT INTO people (id, name, gender, created_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			gender = excluded.gender
	`
	_, err := r.db.ExecContext(ctx, query, p.ID, p.Name, string(gender), p.CreatedAt.UTC())
	if err != nil {
		return fmt.Errorf("saving person: %w", err)
	}
	return nil
}

// FindPerson finds a person by ID. Returns nil if not found.
func (r *Repository) FindPerson(ctx context.Context, id string) (*entities.Person, error) {
	query := `SELECT id, name, gender, created_at FROM people WHERE id = ?`
	row := r.db.QueryRowContext(ctx, query, id)

	var p entities.Person
	var gender string
	err := row.Scan(&p.ID, &p.Name, &gender, &p.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scanning person: %w", err)
	}
	p.Gender = entities.Gender(gender)
	return &p, nil
}

// ListPeople lists every person ordered by name.
func (r *Repository) ListPeople(ctx context.Context) ([]*entities.Person, error) {
	query := `SELECT id, name, gender, created_at FROM people ORDER BY name ASC, id ASC`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("querying people: %w", err)
	}
	defer rows.Close()

	people := make([]*entities.Person, 0, 16)
	for rows.Next() {
		var p entities.Person
		var gender string
		if err := rows.Scan(&p.ID, &p.Name, &gender, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning person: %w", err)
		}
		p.Gender = entities.Gender(gender)
		people = append(people, &p)
	}
	return people, rows.Err()
}
