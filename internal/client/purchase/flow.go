package purchase

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/hmpi/internal/client/gate"
	"github.com/dmitrijs2005/hmpi/internal/client/models"
)

type Step int

const (
	StepClosed Step = iota
	StepSelect
	StepReview
)

func (s Step) String() string {
	switch s {
	case StepClosed:
		return "closed"
	case StepSelect:
		return "select"
	case StepReview:
		return "review"
	}
	return "unknown"
}

// Crediter adds purchased tokens to the balance.
type Crediter interface {
	Add(ctx context.Context, n int) (models.Session, error)
}

// Resumer processes a candidate that was blocked before the purchase.
type Resumer func(ctx context.Context, c *gate.Candidate) error

// Receipt describes a completed purchase.
type Receipt struct {
	Plan    Plan
	Balance int

	// Resumed is the candidate that was resubmitted, nil if none was pending.
	Resumed *gate.Candidate
	// ResumeErr is the outcome of the resubmission. The purchase stands
	// either way.
	ResumeErr error
}

// Flow walks the user from package selection through review to
// confirmation. It is not safe for concurrent use.
type Flow struct {
	ledger Crediter
	resume Resumer

	step     Step
	required int
	balance  int
	pending  *gate.Candidate
	selected Plan
}

func NewFlow(ledger Crediter, resume Resumer) *Flow {
	return &Flow{ledger: ledger, resume: resume}
}

// Open starts the flow at the select step. pending is the candidate the
// upload gate blocked, if any.
func (f *Flow) Open(required, balance int, pending *gate.Candidate) {
	f.step = StepSelect
	f.required = required
	f.balance = balance
	f.pending = pending
	f.selected = Plan{}
}

func (f *Flow) Step() Step { return f.step }

func (f *Flow) Required() int { return f.required }

// Deficit is how many tokens the current balance lacks.
func (f *Flow) Deficit() int {
	return max(0, f.required-f.balance)
}

func (f *Flow) Pending() *gate.Candidate { return f.pending }

func (f *Flow) Recommended() (Plan, bool) {
	return Recommend(f.required)
}

// Selected returns the plan under review.
func (f *Flow) Selected() (Plan, bool) {
	return f.selected, f.step == StepReview
}

// BalanceAfter is the balance the purchase under review would produce.
func (f *Flow) BalanceAfter() int {
	return f.balance + f.selected.Tokens
}

// Select moves to review with the package of the given size.
func (f *Flow) Select(tokens int) (Plan, error) {
	if f.step != StepSelect {
		return Plan{}, fmt.Errorf("select: %w", ErrWrongStep)
	}
	p, ok := Find(tokens)
	if !ok {
		return Plan{}, fmt.Errorf("%w: %d tokens", ErrUnknownPlan, tokens)
	}
	f.selected = p
	f.step = StepReview
	return p, nil
}

// Back returns from review to select and drops the selection.
func (f *Flow) Back() error {
	if f.step != StepReview {
		return fmt.Errorf("back: %w", ErrWrongStep)
	}
	f.selected = Plan{}
	f.step = StepSelect
	return nil
}

// Confirm credits the selected package, closes the flow and resubmits the
// pending candidate. A failed credit keeps the flow at review.
func (f *Flow) Confirm(ctx context.Context) (*Receipt, error) {
	if f.step != StepReview {
		return nil, fmt.Errorf("confirm: %w", ErrWrongStep)
	}

	sess, err := f.ledger.Add(ctx, f.selected.Tokens)
	if err != nil {
		return nil, fmt.Errorf("credit %d tokens: %w", f.selected.Tokens, err)
	}

	r := &Receipt{Plan: f.selected, Balance: sess.Tokens}
	pending := f.pending
	f.Cancel()

	if pending != nil && f.resume != nil {
		r.Resumed = pending
		r.ResumeErr = f.resume(ctx, pending)
	}
	return r, nil
}

// Cancel closes the flow from any step without touching the ledger.
func (f *Flow) Cancel() {
	f.step = StepClosed
	f.required = 0
	f.balance = 0
	f.pending = nil
	f.selected = Plan{}
}
