package cli

import (
	"context"
	"testing"

	"github.com/dmitrijs2005/hmpi/internal/client/models"
	"github.com/dmitrijs2005/hmpi/internal/client/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDownload(t *testing.T) {
	ta := newTestApp(t)
	require.NoError(t, ta.Download(context.Background()))
	assert.Equal(t, "Saved to downloads/processed.csv\n", ta.out.String())

	ta.out.Reset()
	ta.reports.Err = services.ErrDownloadFailed
	assert.Error(t, ta.Download(context.Background()))
	assert.Equal(t, "Error: download failed\n", ta.out.String())
}

func TestExport(t *testing.T) {
	ta := newTestApp(t)
	ctx := context.Background()

	require.NoError(t, ta.Export(ctx, "pdf_long"))
	require.NoError(t, ta.Export(ctx, "predictions"))
	assert.Error(t, ta.Export(ctx, "docx"))

	assert.Equal(t, []string{"export pdf_long", "predictions"}, ta.reports.Calls)
	assert.Equal(t, "Saved to downloads/HMPI_Long_Report.pdf\n"+
		"Saved to downloads/"+models.PredictionsCSVName+"\n"+
		"Error: unknown report kind \"docx\"\n", ta.out.String())
}

func TestPredictions(t *testing.T) {
	ta := newTestApp(t)
	b := &models.PredictionBundle{
		Data: models.PredictionData{Metadata: models.PredictionMetadata{
			SamplesCount: 2,
			DateRange:    models.DateRange{Start: "2026-01", End: "2026-12"},
		}},
		Comparison: models.Comparison{OverallStats: map[string]models.ModelStats{
			"svm":   {Min: 1, Max: 3, Mean: 2},
			"arima": {Min: 10, Max: 30, Mean: 20},
		}},
		Clusters: models.Clusters{Clusters: []models.ClusterZone{
			{ClusterID: 0, AvgHMPI: 75.5, RiskCategory: "Moderate", Points: [][2]float64{{1, 2}, {3, 4}}},
		}},
	}
	b.Spatial.LatestDate = "2026-12"
	b.Spatial.Features = make([]models.SpatialFeature, 3)
	b.Spatial.Features[0].Properties.RiskCategory = "Safe"
	b.Spatial.Features[1].Properties.RiskCategory = "Safe"
	b.Spatial.Features[2].Properties.RiskCategory = "High Risk"
	ta.predictions.BundleOut = b

	require.NoError(t, ta.Predictions(context.Background()))
	out := ta.out.String()
	assert.Contains(t, out, "Forecasts for 2 samples, 2026-01 to 2026-12")
	assert.Regexp(t, `(?s)arima\s+10.00\s+20.00\s+30.00.*svm\s+1.00\s+2.00\s+3.00`, out)
	assert.Contains(t, out, "Latest forecast 2026-12: 3 locations, High Risk 1, Safe 2")
	assert.Contains(t, out, "zone 0: 2 points, avg HMPI 75.50 (Moderate)")
}

func TestTrend(t *testing.T) {
	ta := newTestApp(t)
	ta.predictions.TrendOut = &models.SampleTrend{SampleID: "W-1"}

	require.NoError(t, ta.Trend(context.Background(), "W-1"))
	assert.Equal(t, "No forecast for sample W-1.\n", ta.out.String())

	ta.out.Reset()
	ta.predictions.TrendOut.Trend = []models.TrendPoint{{Date: "2026-01", ARIMA: 1, SVM: 2, Ensemble: 1.5}}
	require.NoError(t, ta.Trend(context.Background(), "W-1"))
	assert.Regexp(t, `2026-01\s+1.00\s+2.00\s+1.50`, ta.out.String())

	ta.out.Reset()
	ta.predictions.Err = errBoom
	assert.ErrorIs(t, ta.Trend(context.Background(), "W-1"), errBoom)
	assert.Equal(t, "Error: boom\n", ta.out.String())
}
