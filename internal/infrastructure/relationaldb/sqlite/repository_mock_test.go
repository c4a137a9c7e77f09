package sqlite

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ersonp/kinship/internal/domain/entities"
)

func setupMockRepo(t *testing.T) (*Repository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewRepositoryWithDB(db, entities.DefaultCatalog()), mock
}

func TestRepository_Neighbors_Mock(t *testing.T) {
	ctx := context.Background()

	t.Run("orients rows", func(t *testing.T) {
		repo, mock := setupMockRepo(t)
		rows := sqlmock.NewRows([]string{"subject_id", "object_id", "type", "gender"}).
			AddRow("mohamed", "ahmed", "father", "male").
			AddRow("sara", "ahmed", "grandfather", "female")
		mock.ExpectQuery("SELECT r.subject_id").
			WithArgs("ahmed", "ahmed", "ahmed").
			WillReturnRows(rows)

		got, err := repo.Neighbors(ctx, "ahmed")
		require.NoError(t, err)
		assert.Equal(t, []entities.Neighbor{
			{NeighborID: "mohamed", TypeCode: "son"},
			{NeighborID: "sara", TypeCode: "granddaughter"},
		}, got)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("query error", func(t *testing.T) {
		repo, mock := setupMockRepo(t)
		mock.ExpectQuery("SELECT r.subject_id").WillReturnError(errors.New("disk I/O error"))

		_, err := repo.Neighbors(ctx, "ahmed")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "querying neighbors")
	})
}

func TestRepository_SaveAll_Mock(t *testing.T) {
	ctx := context.Background()
	candidates := []entities.SuggestionCandidate{
		{CandidateID: "leila", Code: "daughter_in_law", Confidence: 90},
		{CandidateID: "omar", Code: "grandson", Confidence: 100},
	}

	t.Run("begin error", func(t *testing.T) {
		repo, mock := setupMockRepo(t)
		mock.ExpectBegin().WillReturnError(errors.New("database is locked"))

		_, err := repo.SaveAll(ctx, "ahmed", candidates)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "beginning transaction")
	})

	t.Run("insert error rolls back", func(t *testing.T) {
		repo, mock := setupMockRepo(t)
		mock.ExpectBegin()
		prep := mock.ExpectPrepare("INSERT OR IGNORE INTO suggestions")
		prep.ExpectExec().WillReturnResult(sqlmock.NewResult(1, 1))
		prep.ExpectExec().WillReturnError(errors.New("constraint failed"))
		mock.ExpectRollback()

		saved, err := repo.SaveAll(ctx, "ahmed", candidates)
		require.Error(t, err)
		assert.Zero(t, saved)
		assert.Contains(t, err.Error(), "omar")
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("counts ignored rows", func(t *testing.T) {
		repo, mock := setupMockRepo(t)
		mock.ExpectBegin()
		prep := mock.ExpectPrepare("INSERT OR IGNORE INTO suggestions")
		prep.ExpectExec().WillReturnResult(sqlmock.NewResult(0, 0))
		prep.ExpectExec().WillReturnResult(sqlmock.NewResult(2, 1))
		mock.ExpectCommit()

		saved, err := repo.SaveAll(ctx, "ahmed", candidates)
		require.NoError(t, err)
		assert.Equal(t, 1, saved)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestRepository_PurgeStalePending_Mock(t *testing.T) {
	ctx := context.Background()
	cutoff := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

	t.Run("reports deleted rows", func(t *testing.T) {
		repo, mock := setupMockRepo(t)
		mock.ExpectExec("DELETE FROM suggestions").
			WithArgs("ahmed", cutoff).
			WillReturnResult(sqlmock.NewResult(0, 3))

		n, err := repo.PurgeStalePending(ctx, "ahmed", cutoff)
		require.NoError(t, err)
		assert.Equal(t, 3, n)
	})

	t.Run("exec error", func(t *testing.T) {
		repo, mock := setupMockRepo(t)
		mock.ExpectExec("DELETE FROM suggestions").WillReturnError(errors.New("disk full"))

		_, err := repo.PurgeStalePending(ctx, "ahmed", cutoff)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "purging stale suggestions")
	})
}

func TestRepository_Exists_Mock(t *testing.T) {
	repo, mock := setupMockRepo(t)
	mock.ExpectQuery("SELECT EXISTS").WillReturnError(errors.New("no such table: suggestions"))

	_, err := repo.Exists(context.Background(), "ahmed", "leila", entities.SuggestionPending)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "checking suggestion")
}
