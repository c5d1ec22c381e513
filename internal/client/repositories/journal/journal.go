// Package journal persists the local history of token balance changes.
//
// Every ledger mutation appends one row; rows are never updated. The journal
// is informational: the balance itself lives in the session record.
package journal

import (
	"context"
	"fmt"
	"time"

	"github.com/dmitrijs2005/hmpi/internal/client/models"
	"github.com/dmitrijs2005/hmpi/internal/dbx"
)

type Repository interface {
	// Append stores e and sets its ID.
	Append(ctx context.Context, e *models.LedgerEntry) error

	// List returns up to limit entries of userID, newest first. A limit <= 0
	// returns all of them.
	List(ctx context.Context, userID string, limit int) ([]models.LedgerEntry, error)

	Clear(ctx context.Context) error
}

type SQLiteRepository struct {
	db dbx.DBTX
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) Append(ctx context.Context, e *models.LedgerEntry) error {
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now()
	}
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO journal (user_id, kind, amount, balance, version, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, e.UserID, string(e.Kind), e.Amount, e.Balance, e.Version, e.CreatedAt.UnixMilli())
	if err != nil {
		return fmt.Errorf("failed to append journal entry: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read journal entry id: %w", err)
	}
	e.ID = id
	return nil
}

func (r *SQLiteRepository) List(ctx context.Context, userID string, limit int) ([]models.LedgerEntry, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, user_id, kind, amount, balance, version, created_at
		FROM journal WHERE user_id = ?
		ORDER BY id DESC LIMIT ?
	`, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list journal: %w", err)
	}
	defer rows.Close()

	var result []models.LedgerEntry
	for rows.Next() {
		var (
			e       models.LedgerEntry
			kind    string
			created int64
		)
		if err := rows.Scan(&e.ID, &e.UserID, &kind, &e.Amount, &e.Balance, &e.Version, &created); err != nil {
			return nil, fmt.Errorf("failed to scan journal row: %w", err)
		}
		e.Kind = models.EntryKind(kind)
		e.CreatedAt = time.UnixMilli(created)
		result = append(result, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate journal rows: %w", err)
	}
	return result, nil
}

func (r *SQLiteRepository) Clear(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM journal`); err != nil {
		return fmt.Errorf("failed to clear journal: %w", err)
	}
	return nil
}
