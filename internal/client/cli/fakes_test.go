package cli

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/dmitrijs2005/hmpi/internal/client/gate"
	"github.com/dmitrijs2005/hmpi/internal/client/models"
	"github.com/dmitrijs2005/hmpi/internal/client/services"
	"github.com/dmitrijs2005/hmpi/internal/client/state"
	"github.com/dmitrijs2005/hmpi/internal/logging"
)

type fakeUploads struct {
	SubmitOut *services.Outcome
	SubmitErr error
	// ProcessOut is consumed in order, one per call.
	ProcessOut []*services.Outcome
	ProcessErr error

	Submitted []string
	Processed []*gate.Candidate
}

func (f *fakeUploads) Submit(_ context.Context, path string) (*services.Outcome, error) {
	f.Submitted = append(f.Submitted, path)
	return f.SubmitOut, f.SubmitErr
}

func (f *fakeUploads) Process(_ context.Context, c *gate.Candidate) (*services.Outcome, error) {
	f.Processed = append(f.Processed, c)
	if f.ProcessErr != nil {
		return nil, f.ProcessErr
	}
	out := f.ProcessOut[0]
	f.ProcessOut = f.ProcessOut[1:]
	return out, nil
}

func (f *fakeUploads) Restore(context.Context) (*models.Dataset, error) { return nil, nil }

type fakePredictions struct {
	BundleOut *models.PredictionBundle
	TrendOut  *models.SampleTrend
	Err       error
}

func (f *fakePredictions) Bundle(context.Context) (*models.PredictionBundle, error) {
	return f.BundleOut, f.Err
}

func (f *fakePredictions) Trend(_ context.Context, id string) (*models.SampleTrend, error) {
	return f.TrendOut, f.Err
}

type fakeReports struct {
	ChartsOut models.SampleCharts
	Err       error
	Calls     []string
}

func (f *fakeReports) DownloadCSV(context.Context) (string, error) {
	f.Calls = append(f.Calls, "csv")
	return "downloads/processed.csv", f.Err
}

func (f *fakeReports) Charts(_ context.Context, id string) (models.SampleCharts, error) {
	f.Calls = append(f.Calls, "charts "+id)
	return f.ChartsOut, f.Err
}

func (f *fakeReports) Export(_ context.Context, kind models.ReportKind) (string, error) {
	f.Calls = append(f.Calls, "export "+string(kind))
	return "downloads/" + kind.FileName(), f.Err
}

func (f *fakeReports) PredictionsCSV(context.Context) (string, error) {
	f.Calls = append(f.Calls, "predictions")
	return "downloads/" + models.PredictionsCSVName, f.Err
}

type fakeLedger struct {
	sess    models.Session
	AddErr  error
	Added   []int
	Resets  int
	Entries []models.LedgerEntry
	Running chan struct{}
}

func (f *fakeLedger) Run(ctx context.Context) {
	if f.Running != nil {
		close(f.Running)
	}
	<-ctx.Done()
}

func (f *fakeLedger) Balance() int            { return f.sess.Tokens }
func (f *fakeLedger) Session() models.Session { return f.sess }

func (f *fakeLedger) Add(_ context.Context, n int) (models.Session, error) {
	if f.AddErr != nil {
		return models.Session{}, f.AddErr
	}
	f.Added = append(f.Added, n)
	f.sess.Tokens += n
	f.sess.Version++
	return f.sess, nil
}

func (f *fakeLedger) Reset(context.Context) (models.Session, error) {
	f.Resets++
	f.sess = models.Session{UserID: "fresh-user-id", Version: 1}
	return f.sess, nil
}

func (f *fakeLedger) History(_ context.Context, limit int) ([]models.LedgerEntry, error) {
	return f.Entries, nil
}

type fakePinger struct {
	Err   error
	Calls int
}

func (f *fakePinger) Ping(context.Context) error {
	f.Calls++
	return f.Err
}

type testApp struct {
	*App
	out         *bytes.Buffer
	uploads     *fakeUploads
	predictions *fakePredictions
	reports     *fakeReports
	ledger      *fakeLedger
	pinger      *fakePinger
}

// newTestApp builds an App reading the given input lines.
func newTestApp(t *testing.T, input ...string) *testApp {
	t.Helper()
	ta := &testApp{
		out:         &bytes.Buffer{},
		uploads:     &fakeUploads{},
		predictions: &fakePredictions{},
		reports:     &fakeReports{},
		ledger:      &fakeLedger{sess: models.Session{UserID: "0123456789abcdef", Synced: true}},
		pinger:      &fakePinger{},
	}
	in := strings.NewReader(strings.Join(input, "\n") + "\n")
	ta.App = NewApp(Deps{
		Uploads:     ta.uploads,
		Predictions: ta.predictions,
		Reports:     ta.reports,
		Ledger:      ta.ledger,
		State:       state.New(),
		Backend:     ta.pinger,
		Log:         logging.Discard(),
	}, in, ta.out)
	return ta
}

func candidate(name string, rows int) *gate.Candidate {
	return &gate.Candidate{Path: "/tmp/" + name, Name: name, Format: gate.FormatCSV, Rows: rows, RowsKnown: true}
}

func processedOutcome(c *gate.Candidate, used, balance int) *services.Outcome {
	return &services.Outcome{
		Candidate: c,
		Result: &models.ProcessResult{
			FileID:     "f-1",
			RowCount:   c.Rows,
			TokensUsed: used,
			Dataset:    &models.Dataset{FileID: "f-1", RowCount: c.Rows, Samples: []models.Sample{{ID: "W-1"}}},
		},
		Balance: balance,
	}
}

func blockedOutcome(c *gate.Candidate, required, balance int) *services.Outcome {
	return &services.Outcome{
		Candidate: c,
		Blocked:   true,
		Balance:   balance,
		Decision: gate.Decision{
			Verdict:  gate.VerdictBlocked,
			Required: required,
			Balance:  balance,
			Deficit:  required - balance,
		},
	}
}

var errBoom = errors.New("boom")

func ptr(v float64) *float64 { return &v }
