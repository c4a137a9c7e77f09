package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/ersonp/kinship/internal/domain/entities"
)

// PurgeStalePending deletes the subject's pending suggestions created before
// olderThan.
func (r *Repository) PurgeStalePending(ctx context.Context, subjectID string, olderThan time.Time) (int, error) {
	query := `
		DELETE FROM suggestions
		WHERE subject_id = ? AND status = 'pending' AND created_at < ?
	`
	result, err := r.db.ExecContext(ctx, query, subjectID, olderThan.UTC())
	if err != nil {
		return 0, fmt.Errorf("purging stale suggestions: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("counting purged suggestions: %w", err)
	}
	return int(n), nil
}

// Exists reports whether a suggestion with the given status exists for the pair.
func (r *Repository) Exists(ctx context.Context, subjectID, candidateID string, status entities.SuggestionStatus) (bool, error) {
	query := `
		SELECT EXISTS(
			SELECT 1 FROM suggestions
			WHERE subject_id = ? AND candidate_id = ? AND status = ?
		)
	`
	var exists bool
	if err := r.db.QueryRowContext(ctx, query, subjectID, candidateID, string(status)).Scan(&exists); err != nil {
		return false, fmt.Errorf("checking suggestion: %w", err)
	}
	return exists, nil
}

// SaveAll inserts the candidates as pending suggestions in one transaction.
// A pair that already has a pending suggestion is ignored by the partial
// unique index.
func (r *Repository) SaveAll(ctx context.Context, subjectID string, candidates []entities.SuggestionCandidate) (int, error) {
	if len(candidates) == 0 {
		return 0, nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	stmt, err := tx.PrepareContext(ctx, `
		INSERT OR IGNORE INTO suggestions
			(id, subject_id, candidate_id, suggested_code, rationale, confidence, status, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, 'pending', ?, ?)
	`)
	if err != nil {
		return 0, fmt.Errorf("preparing suggestion insert: %w", err)
	}
	defer stmt.Close()

	now := timeNow().UTC()
	saved := 0
	for _, c := range candidates {
		result, err := stmt.ExecContext(ctx,
			generateUUID(),
			subjectID,
			c.CandidateID,
			c.Code,
			c.Rationale,
			c.Confidence,
			now,
			now,
		)
		if err != nil {
			return 0, fmt.Errorf("inserting suggestion for %s: %w", c.CandidateID, err)
		}
		n, err := result.RowsAffected()
		if err != nil {
			return 0, fmt.Errorf("counting inserted suggestions: %w", err)
		}
		saved += int(n)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing suggestions: %w", err)
	}
	return saved, nil
}

// ListSuggestions lists the subject's suggestions with the given status,
// highest confidence first. An empty status lists every status.
func (r *Repository) ListSuggestions(ctx context.Context, subjectID string, status entities.SuggestionStatus) ([]entities.Suggestion, error) {
	query := `
		SELECT id, subject_id, candidate_id, suggested_code, rationale, confidence, status, created_at
		FROM suggestions
		WHERE subject_id = ? AND (? = '' OR status = ?)
		ORDER BY confidence DESC, created_at ASC, id ASC
	`
	rows, err := r.db.QueryContext(ctx, query, subjectID, string(status), string(status))
	if err != nil {
		return nil, fmt.Errorf("querying suggestions: %w", err)
	}
	defer rows.Close()

	suggestions := make([]entities.Suggestion, 0, 8)
	for rows.Next() {
		s, err := scanSuggestion(rows)
		if err != nil {
			return nil, err
		}
		suggestions = append(suggestions, *s)
	}
	return suggestions, rows.Err()
}

// FindSuggestion finds a suggestion by ID. Returns nil if not found.
func (r *Repository) FindSuggestion(ctx context.Context, id string) (*entities.Suggestion, error) {
	query := `
		SELECT id, subject_id, candidate_id, suggested_code, rationale, confidence, status, created_at
		FROM suggestions
		WHERE id = ?
	`
	s, err := scanSuggestion(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return s, err
}

// UpdateSuggestionStatus sets the status of a suggestion.
func (r *Repository) UpdateSuggestionStatus(ctx context.Context, id string, status entities.SuggestionStatus) error {
	query := `UPDATE suggestions SET status = ?, updated_at = ? WHERE id = ?`
	result, err := r.db.ExecContext(ctx, query, string(status), timeNow().UTC(), id)
	if err != nil {
		return fmt.Errorf("updating suggestion status: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("suggestion not found: %s", id)
	}
	return nil
}

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

// scanSuggestion returns sql.ErrNoRows unwrapped so callers can detect it.
func scanSuggestion(row rowScanner) (*entities.Suggestion, error) {
	var s entities.Suggestion
	var status string
	err := row.Scan(
		&s.ID,
		&s.SubjectID,
		&s.CandidateID,
		&s.SuggestedCode,
		&s.Rationale,
		&s.Confidence,
		&status,
		&s.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("scanning suggestion: %w", err)
	}
	s.Status = entities.SuggestionStatus(status)
	return &s, nil
}
