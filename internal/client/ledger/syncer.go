package ledger

import (
	"context"
	"fmt"
	"time"

	"github.com/dmitrijs2005/hmpi/internal/client/models"
)

// Run is the only goroutine that talks to the remote ledger. It reconciles
// once on start, then pushes queued snapshots and reconciles on request or
// every reconcile interval until ctx is done.
func (l *Ledger) Run(ctx context.Context) {
	var tick <-chan time.Time
	if l.reconcileInterval > 0 {
		t := time.NewTicker(l.reconcileInterval)
		defer t.Stop()
		tick = t.C
	}

	l.reconcileLogged(ctx)

	for {
		select {
		case <-ctx.Done():
			return
		case <-l.pushCh:
			if err := l.Push(ctx); err != nil {
				l.log.Warn(ctx, "balance sync failed", "error", err)
			}
		case <-l.reconcileCh:
			l.reconcileLogged(ctx)
		case <-tick:
			l.reconcileLogged(ctx)
		}
	}
}

func (l *Ledger) reconcileLogged(ctx context.Context) {
	if err := l.Reconcile(ctx); err != nil {
		l.log.Debug(ctx, "balance reconciliation skipped", "error", err)
	}
}

// Push sends the current snapshot to the backend unless it is already
// synced. The record is marked synced only if it did not change meanwhile.
func (l *Ledger) Push(ctx context.Context) error {
	snap, ok := l.snapshot()
	if !ok || snap.Synced {
		return nil
	}

	cctx, cancel := context.WithTimeout(ctx, l.syncTimeout)
	defer cancel()
	if err := l.remote.SyncBalance(cctx, snap.UserID, snap.Tokens); err != nil {
		return fmt.Errorf("push balance of %s: %w", snap.UserID, err)
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if !sameVersion(l.sess, snap) {
		return nil
	}
	l.sess.Synced = true
	if err := l.store.Save(ctx, l.sess, nil); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	l.log.Debug(ctx, "balance synced", "user", snap.UserID, "tokens", snap.Tokens, "version", snap.Version)
	return nil
}

// Reconcile pulls the remote balance. Local unsynced changes win and are
// pushed instead; a remote answer that arrives after a local mutation is
// discarded.
func (l *Ledger) Reconcile(ctx context.Context) error {
	snap, ok := l.snapshot()
	if !ok {
		return ErrNotInitialized
	}
	if !snap.Synced {
		return l.Push(ctx)
	}

	cctx, cancel := context.WithTimeout(ctx, l.syncTimeout)
	defer cancel()
	remote, err := l.remote.GetBalance(cctx, snap.UserID)
	if err != nil {
		return fmt.Errorf("fetch balance of %s: %w", snap.UserID, err)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if !sameVersion(l.sess, snap) || !l.sess.Synced {
		signal(l.pushCh)
		return nil
	}
	if remote < 0 || remote == l.sess.Tokens {
		return nil
	}

	next := l.sess
	next.Tokens = remote
	next.Version++
	next.UpdatedAt = l.now()
	entry := &models.LedgerEntry{
		UserID:    next.UserID,
		Kind:      models.EntryRemote,
		Amount:    remote - l.sess.Tokens,
		Balance:   remote,
		Version:   next.Version,
		CreatedAt: next.UpdatedAt,
	}
	if err := l.store.Save(ctx, next, entry); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	l.log.Info(ctx, "balance taken from backend", "user", next.UserID, "local", l.sess.Tokens, "remote", remote)
	l.sess = next
	return nil
}

func (l *Ledger) snapshot() (models.Session, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.sess, l.ready
}

func sameVersion(a, b models.Session) bool {
	return a.UserID == b.UserID && a.Version == b.Version
}
