package sessions

import (
	"context"
	"database/sql"
	"encoding/json"
	"path/filepath"
	"testing"
	"time"

	"github.com/dmitrijs2005/hmpi/internal/client/client"
	"github.com/dmitrijs2005/hmpi/internal/client/models"
	"github.com/dmitrijs2005/hmpi/internal/client/repositories/datasets"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := client.InitDatabase(context.Background(), filepath.Join(t.TempDir(), "hmpi.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestLoad_Empty(t *testing.T) {
	s := NewStore(setupDB(t))
	sess, err := s.Load(context.Background())
	require.NoError(t, err)
	assert.Nil(t, sess)
}

func TestSave_RoundTripWithJournal(t *testing.T) {
	s := NewStore(setupDB(t))
	ctx := context.Background()
	at := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	want := models.Session{UserID: "u-1", Tokens: 150, Version: 3, UpdatedAt: at}
	require.NoError(t, s.Save(ctx, want, &models.LedgerEntry{
		UserID: "u-1", Kind: models.EntryAdd, Amount: 150, Balance: 150, Version: 3,
	}))
	require.NoError(t, s.Save(ctx, want, nil))

	got, err := s.Load(ctx)
	require.NoError(t, err)
	if diff := cmp.Diff(&want, got); diff != "" {
		t.Errorf("session mismatch (-want +got):\n%s", diff)
	}

	hist, err := s.History(ctx, "u-1", 10)
	require.NoError(t, err)
	require.Len(t, hist, 1)
	assert.Equal(t, models.EntryAdd, hist[0].Kind)
}

func TestReset_WipesEverything(t *testing.T) {
	db := setupDB(t)
	s := NewStore(db)
	ctx := context.Background()

	require.NoError(t, s.Save(ctx, models.Session{UserID: "old", Tokens: 9},
		&models.LedgerEntry{UserID: "old", Kind: models.EntryAdd, Amount: 9, Balance: 9}))
	require.NoError(t, datasets.NewSQLiteRepository(db).Save(ctx,
		&models.Dataset{FileID: "f-1", Raw: json.RawMessage(`[]`)}))

	fresh := models.Session{UserID: "new"}
	require.NoError(t, s.Reset(ctx, fresh, &models.LedgerEntry{UserID: "new", Kind: models.EntryReset}))

	got, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "new", got.UserID)
	assert.Zero(t, got.Tokens)

	hist, err := s.History(ctx, "old", 0)
	require.NoError(t, err)
	assert.Empty(t, hist)

	ds, err := datasets.NewSQLiteRepository(db).Latest(ctx)
	require.NoError(t, err)
	assert.Nil(t, ds)
}
