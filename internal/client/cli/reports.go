package cli

import (
	"context"
	"fmt"
	"sort"
	"text/tabwriter"

	"github.com/dmitrijs2005/hmpi/internal/client/models"
)

const exportPredictions = "predictions"

// Download saves the processed CSV of the current dataset.
func (a *App) Download(ctx context.Context) error {
	loc, err := a.reports.DownloadCSV(ctx)
	if err != nil {
		return a.fail(err)
	}
	a.println("Saved to", loc)
	return nil
}

// Export saves one of the backend reports, or the predictions CSV.
func (a *App) Export(ctx context.Context, kind string) error {
	var (
		loc string
		err error
	)
	if kind == exportPredictions {
		loc, err = a.reports.PredictionsCSV(ctx)
	} else {
		var k models.ReportKind
		if k, err = models.ParseReportKind(kind); err == nil {
			loc, err = a.reports.Export(ctx, k)
		}
	}
	if err != nil {
		return a.fail(err)
	}
	a.println("Saved to", loc)
	return nil
}

// Predictions prints a summary of every forecast view.
func (a *App) Predictions(ctx context.Context) error {
	b, err := a.predictions.Bundle(ctx)
	if err != nil {
		return a.fail(err)
	}

	md := b.Data.Metadata
	a.printf("Forecasts for %d samples, %s to %s\n", md.SamplesCount, md.DateRange.Start, md.DateRange.End)

	names := make([]string, 0, len(b.Comparison.OverallStats))
	for name := range b.Comparison.OverallStats {
		names = append(names, name)
	}
	sort.Strings(names)

	tw := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "MODEL\tMIN\tMEAN\tMAX")
	for _, name := range names {
		st := b.Comparison.OverallStats[name]
		fmt.Fprintf(tw, "%s\t%.2f\t%.2f\t%.2f\n", name, st.Min, st.Mean, st.Max)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	risks := make(map[string]int)
	for _, f := range b.Spatial.Features {
		risks[f.Properties.RiskCategory]++
	}
	a.printf("Latest forecast %s: %d locations", b.Spatial.LatestDate, len(b.Spatial.Features))
	for _, r := range sortedKeys(risks) {
		a.printf(", %s %d", r, risks[r])
	}
	a.println()

	a.printf("%d cluster zones\n", len(b.Clusters.Clusters))
	for _, z := range b.Clusters.Clusters {
		a.printf("  zone %d: %d points, avg HMPI %.2f (%s)\n", z.ClusterID, len(z.Points), z.AvgHMPI, z.RiskCategory)
	}
	return nil
}

// Trend prints the forecast trend of one sample.
func (a *App) Trend(ctx context.Context, id string) error {
	t, err := a.predictions.Trend(ctx, id)
	if err != nil {
		return a.fail(err)
	}
	if len(t.Trend) == 0 {
		a.printf("No forecast for sample %s.\n", id)
		return nil
	}

	tw := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "DATE\tARIMA\tSVM\tENSEMBLE")
	for _, p := range t.Trend {
		fmt.Fprintf(tw, "%s\t%.2f\t%.2f\t%.2f\n", p.Date, p.ARIMA, p.SVM, p.Ensemble)
	}
	return tw.Flush()
}

func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
