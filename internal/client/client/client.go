package client

import (
	"context"
	"io"

	"github.com/dmitrijs2005/hmpi/internal/client/models"
)

// Processor uploads a dataset for processing.
type Processor interface {
	Process(ctx context.Context, filename string, r io.Reader, userID string) (*models.ProcessResult, error)
}

// Ledger is the remote side of the token balance.
type Ledger interface {
	GetBalance(ctx context.Context, userID string) (int, error)
	SyncBalance(ctx context.Context, userID string, tokens int) error
}

// Predictor serves the time-series prediction views.
type Predictor interface {
	Predictions(ctx context.Context) (*models.PredictionData, error)
	Comparison(ctx context.Context) (*models.Comparison, error)
	Spatial(ctx context.Context) (*models.Spatial, error)
	Clusters(ctx context.Context) (*models.Clusters, error)
	SampleTrend(ctx context.Context, sampleID string) (*models.SampleTrend, error)
}

// Reporter serves binary downloads and chart specs.
type Reporter interface {
	PredictionsCSV(ctx context.Context) ([]byte, error)
	DownloadCSV(ctx context.Context, fileID string) ([]byte, error)
	Charts(ctx context.Context, fileID string) (*models.ChartSet, error)
	Report(ctx context.Context, kind models.ReportKind) ([]byte, error)
}

// Client is the full backend contract used by the CLI.
type Client interface {
	Processor
	Ledger
	Predictor
	Reporter
	Ping(ctx context.Context) error
	Close() error
}
