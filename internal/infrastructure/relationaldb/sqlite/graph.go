package sqlite

import (
	"context"
	"fmt"

	"github.com/ersonp/kinship/internal/domain/entities"
)

// Edges are stored once, from whichever end created them. The graph queries
// below return them oriented to the person asked about, inverting the code
// through the catalog and adapting it to the other person's gender.

// Neighbors returns every accepted edge touching personID, oriented to it.
// Edges with a code the catalog does not know are skipped.
func (r *Repository) Neighbors(ctx context.Context, personID string) ([]entities.Neighbor, error) {
	query := `
		SELECT r.subject_id, r.object_id, r.type, COALESCE(p.gender, 'unknown')
		FROM relationships r
		LEFT JOIN people p
			ON p.id = CASE WHEN r.subject_id = ? THEN r.object_id ELSE r.subject_id END
		WHERE r.status = 'accepted' AND (r.subject_id = ? OR r.object_id = ?)
		ORDER BY r.created_at ASC, r.id ASC
	`
	rows, err := r.db.QueryContext(ctx, query, personID, personID, personID)
	if err != nil {
		return nil, fmt.Errorf("querying neighbors: %w", err)
	}
	defer rows.Close()

	neighbors := make([]entities.Neighbor, 0, 8)
	for rows.Next() {
		var e entities.RelationshipEdge
		var gender string
		if err := rows.Scan(&e.SubjectID, &e.ObjectID, &e.TypeCode, &gender); err != nil {
			return nil, fmt.Errorf("scanning neighbor: %w", err)
		}
		if n, ok := r.catalog.OrientTo(e, personID, entities.Gender(gender)); ok {
			neighbors = append(neighbors, n)
		}
	}
	return neighbors, rows.Err()
}

// EdgeBetween returns the code describing b relative to a, from the accepted
// edge linking them.
func (r *Repository) EdgeBetween(ctx context.Context, a, b string) (string, bool, error) {
	query := `
		SELECT r.subject_id, r.object_id, r.type, COALESCE(p.gender, 'unknown')
		FROM relationships r
		LEFT JOIN people p ON p.id = ?
		WHERE r.status = 'accepted'
			AND ((r.subject_id = ? AND r.object_id = ?) OR (r.subject_id = ? AND r.object_id = ?))
		ORDER BY r.created_at ASC, r.id ASC
	`
	rows, err := r.db.QueryContext(ctx, query, b, a, b, b, a)
	if err != nil {
		return "", false, fmt.Errorf("querying edge: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var e entities.RelationshipEdge
		var gender string
		if err := rows.Scan(&e.SubjectID, &e.ObjectID, &e.TypeCode, &gender); err != nil {
			return "", false, fmt.Errorf("scanning edge: %w", err)
		}
		if n, ok := r.catalog.OrientTo(e, a, entities.Gender(gender)); ok {
			return n.TypeCode, true, nil
		}
	}
	return "", false, rows.Err()
}

// Connections returns everyone linked to personID by a pending or accepted edge.
func (r *Repository) Connections(ctx context.Context, personID string) ([]string, error) {
	query := `
		SELECT DISTINCT CASE WHEN subject_id = ? THEN object_id ELSE subject_id END
		FROM relationships
		WHERE status IN ('pending', 'accepted') AND (subject_id = ? OR object_id = ?)
	`
	rows, err := r.db.QueryContext(ctx, query, personID, personID, personID)
	if err != nil {
		return nil, fmt.Errorf("querying connections: %w", err)
	}
	defer rows.Close()

	ids := make([]string, 0, 8)
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scanning connection: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
