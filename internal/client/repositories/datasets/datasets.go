// Package datasets keeps the last processed dataset on disk so the CLI can
// show it again after a restart without spending tokens.
package datasets

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/hmpi/internal/client/models"
	"github.com/dmitrijs2005/hmpi/internal/dbx"
)

type Repository interface {
	// Save replaces the stored dataset with ds.
	Save(ctx context.Context, ds *models.Dataset) error

	// Latest returns (nil, nil) when nothing is stored.
	Latest(ctx context.Context) (*models.Dataset, error)

	Clear(ctx context.Context) error
}

type SQLiteRepository struct {
	db dbx.DBTX
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) Save(ctx context.Context, ds *models.Dataset) error {
	raw := []byte(ds.Raw)
	if len(raw) == 0 {
		raw = []byte("[]")
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO datasets (file_id, row_count, geojson, created_at) VALUES (?, ?, ?, ?)
		ON CONFLICT(file_id) DO UPDATE SET
			row_count = excluded.row_count,
			geojson = excluded.geojson,
			created_at = excluded.created_at
	`, ds.FileID, ds.RowCount, raw, time.Now().UnixMilli())
	if err != nil {
		return fmt.Errorf("failed to save dataset %s: %w", ds.FileID, err)
	}
	if _, err := r.db.ExecContext(ctx, `DELETE FROM datasets WHERE file_id <> ?`, ds.FileID); err != nil {
		return fmt.Errorf("failed to prune datasets: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) Latest(ctx context.Context) (*models.Dataset, error) {
	var (
		ds  models.Dataset
		raw []byte
	)
	err := r.db.QueryRowContext(ctx, `
		SELECT file_id, row_count, geojson FROM datasets
		ORDER BY created_at DESC LIMIT 1
	`).Scan(&ds.FileID, &ds.RowCount, &raw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load dataset: %w", err)
	}

	samples, err := models.ParseSamples(raw)
	if err != nil {
		return nil, fmt.Errorf("stored dataset %s: %w", ds.FileID, err)
	}
	ds.Samples = samples
	ds.Raw = raw
	return &ds, nil
}

func (r *SQLiteRepository) Clear(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM datasets`); err != nil {
		return fmt.Errorf("failed to clear datasets: %w", err)
	}
	return nil
}
