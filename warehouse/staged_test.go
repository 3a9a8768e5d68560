package warehouse

import (
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var stagedColumns = []string{
	"repo_id", "repo_name", "repo_full_name", "description",
	"stars", "forks", "language",
	"created_at", "updated_at", "pushed_at",
}

// setupTestWarehouse wires a Warehouse around a mock database
func setupTestWarehouse(t *testing.T) (*Warehouse, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return &Warehouse{db: sqlx.NewDb(db, "sqlmock")}, mock
}

func TestSelectStaged(t *testing.T) {
	w, mock := setupTestWarehouse(t)

	created := time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC)
	updated := time.Date(2026, 8, 25, 14, 0, 0, 0, time.UTC)
	pushed := time.Date(2026, 8, 24, 8, 30, 0, 0, time.UTC)

	rows := sqlmock.NewRows(stagedColumns).
		AddRow(int64(101), "repo-a", "test-org/repo-a", "first repo",
			int32(50), int32(5), "Go", created, updated, pushed).
		AddRow(int64(102), "repo-b", "test-org/repo-b", "",
			int32(10), int32(1), "Unknown", created, updated.Add(-time.Hour), nil)

	mock.ExpectQuery("SELECT repo_id, repo_name, repo_full_name").
		WillReturnRows(rows)

	staged, err := w.SelectStaged(t.Context(), "data/staging/repos.parquet")

	require.NoError(t, err)
	require.Len(t, staged, 2)

	assert.Equal(t, int64(101), staged[0].RepoID)
	assert.Equal(t, "repo-a", staged[0].RepoName)
	assert.Equal(t, "Go", staged[0].Language)
	assert.Equal(t, int32(50), staged[0].Stars)
	assert.True(t, staged[0].PushedAt.Valid)
	assert.True(t, staged[0].PushedAt.Time.Equal(pushed))

	assert.Equal(t, "Unknown", staged[1].Language)
	assert.Empty(t, staged[1].Description)
	assert.False(t, staged[1].PushedAt.Valid)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSelectStagedQueryError(t *testing.T) {
	w, mock := setupTestWarehouse(t)

	mock.ExpectQuery("SELECT repo_id, repo_name, repo_full_name").
		WillReturnError(assert.AnError)

	staged, err := w.SelectStaged(t.Context(), "data/staging/repos.parquet")

	assert.ErrorIs(t, err, ErrQueryFailed)
	assert.Nil(t, staged)
	assert.NoError(t, mock.ExpectationsWereMet())
}
