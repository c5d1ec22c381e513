package cli

import (
	"context"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/dmitrijs2005/hmpi/internal/client/dataset"
	"github.com/dmitrijs2005/hmpi/internal/client/models"
	"github.com/dmitrijs2005/hmpi/internal/client/services"
)

func (a *App) currentDataset() (*models.Dataset, error) {
	ds := a.state.Dataset()
	if ds == nil {
		return nil, services.ErrNoDataset
	}
	return ds, nil
}

// Samples lists the samples of the current dataset.
func (a *App) Samples(ctx context.Context) error {
	ds, err := a.currentDataset()
	if err != nil {
		return a.fail(err)
	}

	a.printf("Dataset %s: %d rows, %d samples\n", ds.FileID, ds.RowCount, len(ds.Samples))
	tw := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tHMPI\tMETALS\tLOCATION")
	for _, m := range dataset.Markers(ds) {
		loc := "-"
		if m.Located {
			loc = fmt.Sprintf("%.5f, %.5f", m.Latitude, m.Longitude)
		}
		fmt.Fprintf(tw, "%s\t%.2f\t%d\t%s\n", m.SampleID, m.HMPI, m.MetalCount, loc)
	}
	return tw.Flush()
}

// Markers prints the map markers with their risk category and the risk
// distribution of the dataset.
func (a *App) Markers(ctx context.Context) error {
	ds, err := a.currentDataset()
	if err != nil {
		return a.fail(err)
	}

	markers := dataset.Markers(ds)
	tw := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tLAT\tLON\tHMPI\tRISK\tCOLOR")
	for _, m := range markers {
		fmt.Fprintf(tw, "%s\t%.5f\t%.5f\t%.2f\t%s\t%s\n",
			m.SampleID, m.Latitude, m.Longitude, m.HMPI, m.Risk, m.Risk.Color())
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	dist := dataset.Distribution(markers)
	a.printf("%s: %d, %s: %d, %s: %d\n",
		dataset.RiskSafe, dist[dataset.RiskSafe],
		dataset.RiskModerate, dist[dataset.RiskModerate],
		dataset.RiskHigh, dist[dataset.RiskHigh])
	return nil
}

// Sample prints one sample with its metal concentrations checked against
// the WHO guideline values.
func (a *App) Sample(ctx context.Context, id string) error {
	ds, err := a.currentDataset()
	if err != nil {
		return a.fail(err)
	}
	s, ok := dataset.Find(ds, id)
	if !ok {
		return a.fail(fmt.Errorf("sample %q not found", id))
	}

	a.printf("Sample %s\n", s.ID)
	if s.HMPI != nil {
		a.printf("  HMPI: %.2f (%s)\n", *s.HMPI, dataset.Risk(*s.HMPI))
	}
	if s.Geometry != nil && s.HasLocation {
		lon, _ := s.Geometry.Lon()
		lat, _ := s.Geometry.Lat()
		a.printf("  Location: %.5f, %.5f\n", lat, lon)
	}

	ex := dataset.Exceedances(s)
	if len(ex) == 0 {
		a.println("  No metals with a WHO guideline value.")
		return nil
	}
	tw := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "  METAL\tMG/L\tWHO LIMIT\tRATIO\t")
	for _, e := range ex {
		flag := ""
		if e.Exceeded {
			flag = "EXCEEDED"
		}
		fmt.Fprintf(tw, "  %s\t%g\t%g\t%.2fx\t%s\n", e.Metal, e.Measured, e.Limit, e.Ratio, flag)
	}
	return tw.Flush()
}

// Charts prints the chart specs the backend rendered for a sample.
func (a *App) Charts(ctx context.Context, id string) error {
	c, err := a.reports.Charts(ctx, id)
	if err != nil {
		return a.fail(err)
	}
	for _, ch := range []struct{ name, spec string }{
		{"bar", c.Bar},
		{"pie", c.Pie},
		{"radar", c.Radar},
	} {
		if ch.spec == "" {
			a.printf("%-6s not available\n", ch.name)
			continue
		}
		a.printf("%-6s %s\n", ch.name, abbreviate(ch.spec, 120))
	}
	return nil
}

func abbreviate(s string, n int) string {
	s = strings.Join(strings.Fields(s), " ")
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}
