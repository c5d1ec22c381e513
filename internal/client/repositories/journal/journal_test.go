package journal

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/dmitrijs2005/hmpi/internal/client/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "modernc.org/sqlite"
)

func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec(`
CREATE TABLE journal (
  id         INTEGER PRIMARY KEY AUTOINCREMENT,
  user_id    TEXT    NOT NULL,
  kind       TEXT    NOT NULL,
  amount     INTEGER NOT NULL,
  balance    INTEGER NOT NULL,
  version    INTEGER NOT NULL,
  created_at INTEGER NOT NULL
);`)
	require.NoError(t, err)
	return db
}

func TestAppendAndList(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()
	at := time.UnixMilli(1_700_000_000_000)

	entries := []*models.LedgerEntry{
		{UserID: "u-1", Kind: models.EntryCreate, Amount: 0, Balance: 0, Version: 0, CreatedAt: at},
		{UserID: "u-1", Kind: models.EntryAdd, Amount: 150, Balance: 150, Version: 1, CreatedAt: at},
		{UserID: "u-2", Kind: models.EntryAdd, Amount: 5, Balance: 5, Version: 1, CreatedAt: at},
		{UserID: "u-1", Kind: models.EntryDeduct, Amount: 3, Balance: 147, Version: 2, CreatedAt: at},
	}
	for _, e := range entries {
		require.NoError(t, r.Append(ctx, e))
		assert.NotZero(t, e.ID)
	}

	got, err := r.List(ctx, "u-1", 0)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, models.EntryDeduct, got[0].Kind)
	assert.Equal(t, 147, got[0].Balance)
	assert.Equal(t, int64(2), got[0].Version)
	assert.True(t, at.Equal(got[0].CreatedAt))
	assert.Equal(t, models.EntryCreate, got[2].Kind)

	got, err = r.List(ctx, "u-1", 1)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, *entries[3], got[0])
}

func TestAppend_DefaultsCreatedAt(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))
	e := &models.LedgerEntry{UserID: "u", Kind: models.EntryReset}
	require.NoError(t, r.Append(context.Background(), e))
	assert.False(t, e.CreatedAt.IsZero())
}

func TestClear(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()

	require.NoError(t, r.Append(ctx, &models.LedgerEntry{UserID: "u", Kind: models.EntryAdd, Amount: 1, Balance: 1}))
	require.NoError(t, r.Clear(ctx))

	got, err := r.List(ctx, "u", 0)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestErrorsAreWrapped(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()
	require.NoError(t, db.Close())

	assert.ErrorContains(t, r.Append(ctx, &models.LedgerEntry{UserID: "u"}), "failed to append journal entry")
	_, err := r.List(ctx, "u", 0)
	assert.ErrorContains(t, err, "failed to list journal")
	assert.ErrorContains(t, r.Clear(ctx), "failed to clear journal")
}
