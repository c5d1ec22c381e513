package cli

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/hmpi/internal/client/client"
	"github.com/dmitrijs2005/hmpi/internal/client/gate"
	"github.com/dmitrijs2005/hmpi/internal/client/purchase"
	"github.com/dmitrijs2005/hmpi/internal/client/services"
)

// Upload sends the dataset at path through the token gate. A blocked upload
// opens the purchase flow and is resubmitted after a successful purchase.
func (a *App) Upload(ctx context.Context, path string) error {
	out, err := a.uploads.Submit(ctx, path)
	if err != nil {
		return a.fail(err)
	}
	if out.Blocked {
		d := out.Decision
		a.printf("Insufficient tokens: %s needs %d tokens, you have %d (short by %d).\n",
			out.Candidate.Name, d.Required, out.Balance, d.Deficit)
		a.flow.Open(d.Required, out.Balance, out.Candidate)
		return a.purchase(ctx)
	}
	a.printProcessed(out)
	return nil
}

// Buy opens the purchase flow without a pending upload.
func (a *App) Buy(ctx context.Context) error {
	a.flow.Open(0, a.ledger.Balance(), nil)
	return a.purchase(ctx)
}

func (a *App) printProcessed(out *services.Outcome) {
	res := out.Result
	samples := 0
	if res.Dataset != nil {
		samples = len(res.Dataset.Samples)
	}
	a.printf("Processed %s: %d rows, %d samples, %d tokens used. Balance: %d tokens.\n",
		out.Candidate.Name, res.RowCount, samples, res.TokensUsed, out.Balance)
}

// resume resubmits the upload that was blocked before a purchase.
func (a *App) resume(ctx context.Context, c *gate.Candidate) error {
	out, err := a.uploads.Process(ctx, c)
	if err != nil {
		return err
	}
	if out.Blocked {
		return fmt.Errorf("%w: %s is still short by %d tokens",
			client.ErrInsufficientTokens, c.Name, out.Decision.Deficit)
	}
	a.printProcessed(out)
	return nil
}

// purchase drives the open flow from package selection to confirmation.
// An empty answer at either step cancels it.
func (a *App) purchase(ctx context.Context) error {
	for {
		switch a.flow.Step() {
		case purchase.StepSelect:
			if !a.selectPlan() {
				a.flow.Cancel()
				a.println("Purchase cancelled.")
				return nil
			}

		case purchase.StepReview:
			done, err := a.reviewPlan(ctx)
			if err != nil {
				return a.fail(err)
			}
			if done {
				return nil
			}

		default:
			return nil
		}
	}
}

func (a *App) selectPlan() bool {
	rec, hasRec := a.flow.Recommended()
	if d := a.flow.Deficit(); d > 0 {
		a.printf("You need %d more tokens.\n", d)
	}
	for _, p := range purchase.Catalog() {
		line := fmt.Sprintf("  %4d tokens  %-13s %7s  (%s/token)  %s",
			p.Tokens, p.Name, purchase.FormatPrice(p.Price), formatPerToken(p.PerToken()), p.Description)
		if hasRec && p.Tokens == rec.Tokens {
			line += "  [recommended]"
		}
		a.println(line)
	}

	for {
		answer, err := GetSimpleText(a.reader, "Choose a package by token amount (empty to cancel)", a.out)
		if err != nil || answer == "" {
			return false
		}
		n, err := strconv.Atoi(answer)
		if err == nil {
			if _, err = a.flow.Select(n); err == nil {
				return true
			}
		}
		a.println("Error:", describe(purchase.ErrUnknownPlan))
	}
}

// reviewPlan returns true once the flow is finished.
func (a *App) reviewPlan(ctx context.Context) (bool, error) {
	p, _ := a.flow.Selected()
	a.printf("%s package: %d tokens for %s. Balance after purchase: %d tokens.\n",
		p.Name, p.Tokens, purchase.FormatPrice(p.Price), a.flow.BalanceAfter())

	answer, err := GetSimpleText(a.reader, "Confirm purchase? [y]es, [b]ack, anything else cancels", a.out)
	if err != nil {
		answer = ""
	}
	switch strings.ToLower(answer) {
	case "y", "yes":
	case "b", "back":
		return false, a.flow.Back()
	default:
		a.flow.Cancel()
		a.println("Purchase cancelled.")
		return true, nil
	}

	r, err := a.flow.Confirm(ctx)
	if err != nil {
		return false, err
	}
	a.printf("Purchased %d tokens. Balance: %d tokens.\n", r.Plan.Tokens, r.Balance)
	if r.Resumed != nil && r.ResumeErr != nil {
		if errors.Is(r.ResumeErr, client.ErrInsufficientTokens) {
			a.println("Error:", describe(r.ResumeErr))
			return true, nil
		}
		return true, a.fail(fmt.Errorf("resubmit %s: %w", r.Resumed.Name, r.ResumeErr))
	}
	return true, nil
}

func formatPerToken(v float64) string {
	return "₹" + strconv.FormatFloat(v, 'f', 2, 64)
}
