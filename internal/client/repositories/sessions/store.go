// Package sessions persists the session record together with its journal.
//
// The record lives in the metadata table under a single fixed key. Writes go
// through one transaction so the record and its journal row never disagree.
package sessions

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/hmpi/internal/client/models"
	"github.com/dmitrijs2005/hmpi/internal/client/repositories/datasets"
	"github.com/dmitrijs2005/hmpi/internal/client/repositories/journal"
	"github.com/dmitrijs2005/hmpi/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/hmpi/internal/dbx"
)

const sessionKey = "session"

type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// Load returns (nil, nil) when no session was saved yet.
func (s *Store) Load(ctx context.Context) (*models.Session, error) {
	var sess models.Session
	ok, err := metadata.GetJSON(ctx, metadata.NewSQLiteRepository(s.db), sessionKey, &sess)
	if err != nil || !ok {
		return nil, err
	}
	return &sess, nil
}

// Save writes sess and, when entry is not nil, appends it to the journal.
func (s *Store) Save(ctx context.Context, sess models.Session, entry *models.LedgerEntry) error {
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		return write(ctx, tx, sess, entry)
	})
}

// Reset wipes every client-local record, then writes the fresh session.
func (s *Store) Reset(ctx context.Context, sess models.Session, entry *models.LedgerEntry) error {
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := metadata.NewSQLiteRepository(tx).Clear(ctx); err != nil {
			return err
		}
		if err := datasets.NewSQLiteRepository(tx).Clear(ctx); err != nil {
			return err
		}
		if err := journal.NewSQLiteRepository(tx).Clear(ctx); err != nil {
			return err
		}
		return write(ctx, tx, sess, entry)
	})
}

// History lists the journal of userID, newest first.
func (s *Store) History(ctx context.Context, userID string, limit int) ([]models.LedgerEntry, error) {
	return journal.NewSQLiteRepository(s.db).List(ctx, userID, limit)
}

func write(ctx context.Context, tx dbx.DBTX, sess models.Session, entry *models.LedgerEntry) error {
	if err := metadata.SetJSON(ctx, metadata.NewSQLiteRepository(tx), sessionKey, sess); err != nil {
		return err
	}
	if entry == nil {
		return nil
	}
	return journal.NewSQLiteRepository(tx).Append(ctx, entry)
}
