package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/ersonp/kinship/internal/domain/entities"
)

// SaveRelationship saves or updates a relationship edge.
func (r *Repository) SaveRelationship(ctx context.Context, edge *entities.RelationshipEdge) error {
	if edge.ID == "" {
		edge.ID = generateUUID()
	}
	now := timeNow().UTC()
	if edge.CreatedAt.IsZero() {
		edge.CreatedAt = now
	}

	query := `
		INSERT INTO relationships (id, subject_id, object_id, type, status, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			subject_id = excluded.subject_id,
			object_id = excluded.object_id,
			type = excluded.type,
			status = excluded.status,
			updated_at = excluded.updated_at
	`
	_, err := r.db.ExecContext(ctx, query,
		edge.ID,
		edge.SubjectID,
		edge.ObjectID,
		edge.TypeCode,
		string(edge.Status),
		edge.CreatedAt.UTC(),
		now,
	)
	if err != nil {
		return fmt.Errorf("saving relationship: %w", err)
	}
	return nil
}

// FindRelationship finds an edge by ID. Returns nil if not found.
func (r *Repository) FindRelationship(ctx context.Context, id string) (*entities.RelationshipEdge, error) {
	query := `
		SELECT id, subject_id, object_id, type, status, created_at
		FROM relationships
		WHERE id = ?
	`
	return r.scanRelationship(r.db.QueryRowContext(ctx, query, id))
}

// FindRelationshipBetween finds the edge linking a and b in either direction,
// whatever its status. Returns nil if there is none.
func (r *Repository) FindRelationshipBetween(ctx context.Context, a, b string) (*entities.RelationshipEdge, error) {
	query := `
		SELECT id, subject_id, object_id, type, status, created_at
		FROM relationships
		WHERE (subject_id = ? AND object_id = ?) OR (subject_id = ? AND object_id = ?)
		ORDER BY CASE status WHEN 'accepted' THEN 0 WHEN 'pending' THEN 1 ELSE 2 END, created_at DESC
		LIMIT 1
	`
	return r.scanRelationship(r.db.QueryRowContext(ctx, query, a, b, b, a))
}

// ListRelationships lists every edge touching personID as stored.
func (r *Repository) ListRelationships(ctx context.Context, personID string) ([]entities.RelationshipEdge, error) {
	query := `
		SELECT id, subject_id, object_id, type, status, created_at
		FROM relationships
		WHERE subject_id = ? OR object_id = ?
		ORDER BY created_at ASC, id ASC
	`
	rows, err := r.db.QueryContext(ctx, query, personID, personID)
	if err != nil {
		return nil, fmt.Errorf("querying relationships: %w", err)
	}
	defer rows.Close()

	edges := make([]entities.RelationshipEdge, 0, 16)
	for rows.Next() {
		var e entities.RelationshipEdge
		var status string
		if err := rows.Scan(&e.ID, &e.SubjectID, &e.ObjectID, &e.TypeCode, &status, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning relationship: %w", err)
		}
		e.Status = entities.EdgeStatus(status)
		edges = append(edges, e)
	}
	return edges, rows.Err()
}

// UpdateRelationshipStatus changes the status of an edge.
func (r *Repository) UpdateRelationshipStatus(ctx context.Context, id string, status entities.EdgeStatus) error {
	query := `UPDATE relationships SET status = ?, updated_at = ? WHERE id = ?`
	result, err := r.db.ExecContext(ctx, query, string(status), timeNow().UTC(), id)
	if err != nil {
		return fmt.Errorf("updating relationship status: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("relationship not found: %s", id)
	}
	return nil
}

// CountRelationships returns the number of accepted edges.
func (r *Repository) CountRelationships(ctx context.Context) (int, error) {
	query := `SELECT COUNT(*) FROM relationships WHERE status = 'accepted'`
	var count int
	if err := r.db.QueryRowContext(ctx, query).Scan(&count); err != nil {
		return 0, fmt.Errorf("counting relationships: %w", err)
	}
	return count, nil
}

func (r *Repository) scanRelationship(row *sql.Row) (*entities.RelationshipEdge, error) {
	var e entities.RelationshipEdge
	var status string
	err := row.Scan(&e.ID, &e.SubjectID, &e.ObjectID, &e.TypeCode, &status, &e.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scanning relationship: %w", err)
	}
	e.Status = entities.EdgeStatus(status)
	return &e, nil
}
