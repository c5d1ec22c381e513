// Package services contains the application services of the HMPI client.
// Each service is an interface with one unexported implementation and
// depends only on the narrow collaborators it calls.
package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/hmpi/internal/client/client"
	"github.com/dmitrijs2005/hmpi/internal/client/gate"
	"github.com/dmitrijs2005/hmpi/internal/client/models"
	"github.com/dmitrijs2005/hmpi/internal/client/repositories/datasets"
	"github.com/dmitrijs2005/hmpi/internal/client/state"
	"github.com/dmitrijs2005/hmpi/internal/logging"
)

// Ledger is the part of the token ledger the services use.
type Ledger interface {
	Balance() int
	Session() models.Session
	Deduct(ctx context.Context, n int) (models.Session, error)
	Push(ctx context.Context) error
}

// Outcome is the result of an upload attempt. Exactly one of Result and
// Blocked is set.
type Outcome struct {
	Candidate *gate.Candidate
	Decision  gate.Decision

	Result *models.ProcessResult

	// Blocked means tokens have to be bought first; Decision carries the
	// required amount and the deficit.
	Blocked bool

	// Balance is the local balance after the attempt.
	Balance int
}

// UploadService gates and processes datasets.
//
// Contract:
//   - Submit: validate the file, check its cost, process it when covered.
//   - Process: send an already validated candidate to the backend.
//   - Restore: load the last processed dataset from the local store.
type UploadService interface {
	Submit(ctx context.Context, path string) (*Outcome, error)
	Process(ctx context.Context, c *gate.Candidate) (*Outcome, error)
	Restore(ctx context.Context) (*models.Dataset, error)
}

type uploadService struct {
	gate     *gate.Gate
	client   client.Processor
	ledger   Ledger
	state    *state.State
	datasets datasets.Repository
	log      logging.Logger
}

func NewUploadService(g *gate.Gate, c client.Processor, l Ledger, st *state.State,
	ds datasets.Repository, log logging.Logger) UploadService {
	return &uploadService{gate: g, client: c, ledger: l, state: st, datasets: ds, log: log}
}

func (s *uploadService) Submit(ctx context.Context, path string) (*Outcome, error) {
	c, err := s.gate.Inspect(ctx, path)
	if err != nil {
		return nil, err
	}

	balance := s.ledger.Balance()
	d := gate.Decide(c, balance)
	s.log.Debug(ctx, "upload gate", "file", c.Name, "rows", c.Rows, "required", c.Required, "verdict", d.Verdict.String())

	if d.Verdict == gate.VerdictBlocked {
		return &Outcome{Candidate: c, Decision: d, Blocked: true, Balance: balance}, nil
	}
	return s.Process(ctx, c)
}

// Process holds the upload slot for the whole backend call. The backend's
// 403 turns into a blocked outcome rather than an error.
func (s *uploadService) Process(ctx context.Context, c *gate.Candidate) (*Outcome, error) {
	if err := s.state.BeginUpload(); err != nil {
		return nil, err
	}
	defer s.state.EndUpload()

	f, err := c.Open()
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", c.Name, err)
	}
	defer f.Close()

	// The backend charges against its own copy of the balance, so a local
	// credit that has not been pushed yet must land before the upload.
	sess := s.ledger.Session()
	if !sess.Synced {
		if err := s.ledger.Push(ctx); err != nil {
			s.log.Warn(ctx, "balance sync before upload failed", "error", err)
		}
		sess = s.ledger.Session()
	}
	res, err := s.client.Process(ctx, c.Name, f, sess.UserID)

	var ite *client.InsufficientTokensError
	if errors.As(err, &ite) {
		c.Rows, c.RowsKnown = ite.RowCount, true
		c.Required = ite.TokensRequired
		s.log.Info(ctx, "backend rejected upload for lack of tokens",
			"file", c.Name, "required", ite.TokensRequired, "available", ite.CurrentTokens)
		return &Outcome{
			Candidate: c,
			Blocked:   true,
			Balance:   s.ledger.Balance(),
			Decision: gate.Decision{
				Verdict:  gate.VerdictBlocked,
				Required: ite.TokensRequired,
				Balance:  ite.CurrentTokens,
				Deficit:  ite.Deficit(),
			},
		}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("process %s: %w", c.Name, err)
	}

	if res.TokensUsed > 0 {
		if _, err := s.ledger.Deduct(ctx, res.TokensUsed); err != nil {
			s.log.Error(ctx, "failed to record token charge", "tokens_used", res.TokensUsed, "error", err)
		}
	}
	if res.NewTokenBalance != nil && *res.NewTokenBalance != s.ledger.Balance() {
		s.log.Debug(ctx, "backend balance differs from local", "backend", *res.NewTokenBalance, "local", s.ledger.Balance())
	}

	s.state.SetDataset(res.Dataset)
	if err := s.datasets.Save(ctx, res.Dataset); err != nil {
		s.log.Warn(ctx, "failed to keep dataset locally", "file_id", res.FileID, "error", err)
	}

	s.log.Info(ctx, "dataset processed", "file_id", res.FileID, "rows", res.RowCount, "tokens_used", res.TokensUsed)
	return &Outcome{
		Candidate: c,
		Decision:  gate.Decide(c, sess.Tokens),
		Result:    res,
		Balance:   s.ledger.Balance(),
	}, nil
}

func (s *uploadService) Restore(ctx context.Context) (*models.Dataset, error) {
	ds, err := s.datasets.Latest(ctx)
	if err != nil {
		return nil, err
	}
	if ds != nil {
		s.state.SetDataset(ds)
	}
	return ds, nil
}
