package cli

import (
	"context"
	"fmt"
	"text/tabwriter"
	"time"
)

const historyLimit = 20

// Balance prints the local token balance.
func (a *App) Balance(ctx context.Context) error {
	sess := a.ledger.Session()
	a.printf("Balance: %d tokens", sess.Tokens)
	if !sess.Synced {
		a.printf(" (not yet synced)")
	}
	a.println()
	return nil
}

// History prints the most recent balance changes, newest first.
func (a *App) History(ctx context.Context) error {
	entries, err := a.ledger.History(ctx, historyLimit)
	if err != nil {
		return a.fail(err)
	}
	if len(entries) == 0 {
		a.println("No balance changes yet.")
		return nil
	}

	tw := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "TIME\tKIND\tAMOUNT\tBALANCE")
	for _, e := range entries {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%d\n", e.CreatedAt.Local().Format(time.DateTime), e.Kind, e.Amount, e.Balance)
	}
	return tw.Flush()
}

// Reset asks for confirmation and starts a fresh session with zero tokens.
// The current dataset is forgotten.
func (a *App) Reset(ctx context.Context) error {
	if !Confirm(a.reader, "Reset tokens to 0 and start a fresh session?", a.out) {
		a.println("Reset cancelled.")
		return nil
	}
	if _, err := a.ledger.Reset(ctx); err != nil {
		return a.fail(err)
	}
	a.state.Clear()
	a.flow.Cancel()
	a.println("Tokens reset to 0. You now have a fresh session.")
	return nil
}
