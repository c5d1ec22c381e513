package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/hmpi/internal/client/client"
	"github.com/dmitrijs2005/hmpi/internal/client/export"
	"github.com/dmitrijs2005/hmpi/internal/client/models"
	"github.com/dmitrijs2005/hmpi/internal/client/state"
	"github.com/dmitrijs2005/hmpi/internal/logging"
)

// ReportService fetches chart specs and stores downloads in a sink. Download
// methods return the location the payload was stored at.
type ReportService interface {
	DownloadCSV(ctx context.Context) (string, error)
	Charts(ctx context.Context, sampleID string) (models.SampleCharts, error)
	Export(ctx context.Context, kind models.ReportKind) (string, error)
	PredictionsCSV(ctx context.Context) (string, error)
}

type reportService struct {
	client client.Reporter
	state  *state.State
	sink   export.Sink
	log    logging.Logger

	mu          sync.Mutex
	chartsFor   string
	chartsCache *models.ChartSet
}

func NewReportService(c client.Reporter, st *state.State, sink export.Sink, log logging.Logger) ReportService {
	return &reportService{client: c, state: st, sink: sink, log: log}
}

func (s *reportService) DownloadCSV(ctx context.Context) (string, error) {
	fileID := s.state.FileID()
	if fileID == "" {
		return "", ErrNoDataset
	}
	return s.store(ctx, models.ProcessedCSVName(fileID), func() ([]byte, error) {
		return s.client.DownloadCSV(ctx, fileID)
	})
}

func (s *reportService) Export(ctx context.Context, kind models.ReportKind) (string, error) {
	return s.store(ctx, kind.FileName(), func() ([]byte, error) {
		return s.client.Report(ctx, kind)
	})
}

func (s *reportService) PredictionsCSV(ctx context.Context) (string, error) {
	return s.store(ctx, models.PredictionsCSVName, func() ([]byte, error) {
		return s.client.PredictionsCSV(ctx)
	})
}

func (s *reportService) store(ctx context.Context, name string, fetch func() ([]byte, error)) (string, error) {
	payload, err := fetch()
	if err != nil {
		return "", fmt.Errorf("%w: %s: %w", ErrDownloadFailed, name, err)
	}
	loc, err := s.sink.Put(ctx, name, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("%w: %s: %w", ErrDownloadFailed, name, err)
	}
	s.log.Info(ctx, "download stored", "name", name, "bytes", len(payload), "location", loc)
	return loc, nil
}

// Charts returns the chart specs of one sample of the current dataset. The
// chart set is fetched once per dataset.
func (s *reportService) Charts(ctx context.Context, sampleID string) (models.SampleCharts, error) {
	fileID := s.state.FileID()
	if fileID == "" {
		return models.SampleCharts{}, ErrNoDataset
	}

	set, err := s.chartSet(ctx, fileID)
	if err != nil {
		return models.SampleCharts{}, err
	}

	c, ok := set.SampleCharts[sampleID]
	if !ok || c.Empty() {
		return models.SampleCharts{}, fmt.Errorf("%w: %s", ErrChartsUnavailable, sampleID)
	}
	return c, nil
}

func (s *reportService) chartSet(ctx context.Context, fileID string) (*models.ChartSet, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.chartsCache != nil && s.chartsFor == fileID {
		return s.chartsCache, nil
	}

	set, err := s.client.Charts(ctx, fileID)
	if errors.Is(err, client.ErrNotFound) {
		return nil, fmt.Errorf("%w: %w", ErrChartsUnavailable, err)
	}
	if err != nil {
		return nil, fmt.Errorf("charts of %s: %w", fileID, err)
	}
	s.chartsFor, s.chartsCache = fileID, set
	return set, nil
}
