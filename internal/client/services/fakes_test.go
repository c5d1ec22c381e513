package services

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/dmitrijs2005/hmpi/internal/client/client"
	"github.com/dmitrijs2005/hmpi/internal/client/models"
	"github.com/stretchr/testify/require"
)

type fakeProcessor struct {
	mu sync.Mutex

	Result *models.ProcessResult
	Err    error
	// Hook runs while the call is in flight.
	Hook func()
	// When Remote is set the upload costs Cost tokens of the remote
	// balance and is rejected like the backend does when it is short.
	Remote *fakeRemoteLedger
	Cost   int

	Calls    int
	LastName string
	LastUser string
	LastBody string
}

func (f *fakeProcessor) Process(_ context.Context, name string, r io.Reader, userID string) (*models.ProcessResult, error) {
	body, _ := io.ReadAll(r)
	f.mu.Lock()
	f.Calls++
	f.LastName, f.LastUser, f.LastBody = name, userID, string(body)
	hook := f.Hook
	f.mu.Unlock()

	if hook != nil {
		hook()
	}
	if f.Err != nil {
		return nil, f.Err
	}
	if f.Remote != nil {
		have, _ := f.Remote.GetBalance(context.Background(), userID)
		if have < f.Cost {
			return nil, &client.InsufficientTokensError{CurrentTokens: have, TokensRequired: f.Cost, RowCount: f.Result.RowCount}
		}
		_ = f.Remote.SyncBalance(context.Background(), userID, have-f.Cost)
	}
	return f.Result, nil
}

func processed(fileID string, rows, used int) *models.ProcessResult {
	return &models.ProcessResult{
		FileID:     fileID,
		RowCount:   rows,
		TokensUsed: used,
		Dataset: &models.Dataset{
			FileID:   fileID,
			RowCount: rows,
			Samples:  []models.Sample{{ID: "W-1"}},
			Raw:      []byte(`[{"Sample_ID": "W-1"}]`),
		},
	}
}

type fakeRemoteLedger struct {
	mu       sync.Mutex
	balances map[string]int
}

func (f *fakeRemoteLedger) GetBalance(_ context.Context, userID string) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.balances[userID], nil
}

func (f *fakeRemoteLedger) SyncBalance(_ context.Context, userID string, tokens int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.balances == nil {
		f.balances = map[string]int{}
	}
	f.balances[userID] = tokens
	return nil
}

type fakePredictor struct {
	DataErr, ComparisonErr, SpatialErr, ClustersErr, TrendErr error
	LastTrendID                                               string
}

func (f *fakePredictor) Predictions(context.Context) (*models.PredictionData, error) {
	if f.DataErr != nil {
		return nil, f.DataErr
	}
	return &models.PredictionData{Metadata: models.PredictionMetadata{SamplesCount: 2}}, nil
}

func (f *fakePredictor) Comparison(context.Context) (*models.Comparison, error) {
	if f.ComparisonErr != nil {
		return nil, f.ComparisonErr
	}
	return &models.Comparison{MonthlyData: []models.ComparisonPoint{{Date: "2026-01-01"}}}, nil
}

func (f *fakePredictor) Spatial(context.Context) (*models.Spatial, error) {
	if f.SpatialErr != nil {
		return nil, f.SpatialErr
	}
	return &models.Spatial{LatestDate: "2026-12-01"}, nil
}

func (f *fakePredictor) Clusters(context.Context) (*models.Clusters, error) {
	if f.ClustersErr != nil {
		return nil, f.ClustersErr
	}
	return &models.Clusters{Clusters: []models.ClusterZone{{ClusterID: 1}}}, nil
}

func (f *fakePredictor) SampleTrend(_ context.Context, id string) (*models.SampleTrend, error) {
	f.LastTrendID = id
	if f.TrendErr != nil {
		return nil, f.TrendErr
	}
	return &models.SampleTrend{SampleID: id}, nil
}

type fakeReporter struct {
	Payload  []byte
	Err      error
	ChartSet *models.ChartSet

	ChartCalls int
	LastFileID string
	LastKind   models.ReportKind
}

func (f *fakeReporter) PredictionsCSV(context.Context) ([]byte, error) {
	return f.Payload, f.Err
}

func (f *fakeReporter) DownloadCSV(_ context.Context, fileID string) ([]byte, error) {
	f.LastFileID = fileID
	return f.Payload, f.Err
}

func (f *fakeReporter) Charts(_ context.Context, fileID string) (*models.ChartSet, error) {
	f.ChartCalls++
	f.LastFileID = fileID
	if f.Err != nil {
		return nil, f.Err
	}
	return f.ChartSet, nil
}

func (f *fakeReporter) Report(_ context.Context, kind models.ReportKind) ([]byte, error) {
	f.LastKind = kind
	return f.Payload, f.Err
}

type fakeSink struct {
	Err      error
	LastName string
	LastBody string
}

func (f *fakeSink) Put(_ context.Context, name string, r io.Reader) (string, error) {
	if f.Err != nil {
		return "", f.Err
	}
	b, _ := io.ReadAll(r)
	f.LastName, f.LastBody = name, string(b)
	return "mem://" + name, nil
}

func writeCSV(t *testing.T, rows int) string {
	t.Helper()
	var b strings.Builder
	b.WriteString("Sample_ID,Latitude,Longitude,Lead\n")
	for i := 0; i < rows; i++ {
		fmt.Fprintf(&b, "W-%d,28.6,77.2,0.01\n", i)
	}
	path := filepath.Join(t.TempDir(), fmt.Sprintf("wells_%d.csv", rows))
	require.NoError(t, os.WriteFile(path, []byte(b.String()), 0o600))
	return path
}
