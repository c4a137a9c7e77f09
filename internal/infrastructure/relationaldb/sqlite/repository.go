// Package sqlite provides the SQLite implementation of the relationship
// graph, the person directory and the suggestion store.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/ersonp/kinship/internal/domain/entities"
	"github.com/ersonp/kinship/internal/infrastructure/config"
)

// generateUUID returns a new UUID string.
func generateUUID() string {
	return uuid.New().String()
}

// timeNow returns the current time (can be mocked in tests).
var timeNow = time.Now

// Repository implements ports.RelationshipGraph, ports.RelationshipRepository,
// ports.PersonDirectory and ports.SuggestionStore using SQLite.
type Repository struct {
	db      *sql.DB
	path    string
	catalog *entities.RelationCatalog
}

// NewRepository opens the SQLite database at cfg.Path.
func NewRepository(cfg config.SQLiteConfig, catalog *entities.RelationCatalog) (*Repository, error) {
	if cfg.Path == "" {
		return nil, errors.New("sqlite path is required")
	}

	db, err := sql.Open("sqlite", dataSourceName(cfg.Path))
	if err != nil {
		return nil, fmt.Errorf("opening sqlite database: %w", err)
	}

	// Every connection to :memory: is a separate database.
	if cfg.Path == ":memory:" {
		db.SetMaxOpenConns(1)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("connecting to sqlite database: %w", err)
	}

	repo := NewRepositoryWithDB(db, catalog)
	repo.path = cfg.Path
	return repo, nil
}

// dataSourceName carries the pragmas in the DSN so that every pooled
// connection gets them.
func dataSourceName(path string) string {
	pragmas := "_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
	if path != ":memory:" {
		pragmas += "&_pragma=journal_mode(WAL)"
	}
	return path + "?" + pragmas
}

// NewRepositoryWithDB wraps an already opened database.
func NewRepositoryWithDB(db *sql.DB, catalog *entities.RelationCatalog) *Repository {
	if catalog == nil {
		catalog = entities.DefaultCatalog()
	}
	return &Repository{db: db, catalog: catalog}
}

// Close closes the database connection.
func (r *Repository) Close() error {
	return r.db.Close()
}

// Path returns the database file path.
func (r *Repository) Path() string {
	return r.path
}

// EnsureSchema creates the database schema if it doesn't exist.
func (r *Repository) EnsureSchema(ctx context.Context) error {
	schema := `
	-- People known to the network
	CREATE TABLE IF NOT EXISTS people (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL DEFAULT '',
		gender TEXT NOT NULL DEFAULT 'unknown',
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);
	CREATE INDEX IF NOT EXISTS idx_people_name ON people(name);

	-- Relationship edges: the object is the subject's type
	CREATE TABLE IF NOT EXISTS relationships (
		id TEXT PRIMARY KEY,
		subject_id TEXT NOT NULL,
		object_id TEXT NOT NULL,
		type TEXT NOT NULL,
		status TEXT NOT NULL DEFAULT 'pending',
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);
	CREATE INDEX IF NOT EXISTS idx_relationships_subject ON relationships(subject_id, status);
	CREATE INDEX IF NOT EXISTS idx_relationships_object ON relationships(object_id, status);

	-- Suggested connections
	CREATE TABLE IF NOT EXISTS suggestions (
		id TEXT PRIMARY KEY,
		subject_id TEXT NOT NULL,
		candidate_id TEXT NOT NULL,
		suggested_code TEXT NOT NULL,
		rationale TEXT NOT NULL DEFAULT '',
		confidence INTEGER NOT NULL,
		status TEXT NOT NULL DEFAULT 'pending',
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);
	CREATE INDEX IF NOT EXISTS idx_suggestions_subject ON suggestions(subject_id, status);
	-- At most one pending suggestion per pair
	CREATE UNIQUE INDEX IF NOT EXISTS idx_suggestions_pending_pair
		ON suggestions(subject_id, candidate_id) WHERE status = 'pending';
	`

	_, err := r.db.ExecContext(ctx, schema)
	if err != nil {
		return fmt.Errorf("creating schema: %w", err)
	}
	return nil
}
