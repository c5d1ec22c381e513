// Package ledger holds the local token balance and reconciles it with the
// backend.
//
// Every mutation is applied and persisted locally first. A single syncer
// goroutine (Run) pushes the latest snapshot to the backend and periodically
// pulls the remote balance. Remote answers never revert a local mutation:
// the remote value is taken only while the local record is synced and no
// mutation happened during the fetch.
package ledger

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/dmitrijs2005/hmpi/internal/client/client"
	"github.com/dmitrijs2005/hmpi/internal/client/models"
	"github.com/dmitrijs2005/hmpi/internal/logging"
	"github.com/google/uuid"
)

// Store persists the session record and its journal.
type Store interface {
	Load(ctx context.Context) (*models.Session, error)
	Save(ctx context.Context, sess models.Session, entry *models.LedgerEntry) error
	Reset(ctx context.Context, sess models.Session, entry *models.LedgerEntry) error
	History(ctx context.Context, userID string, limit int) ([]models.LedgerEntry, error)
}

type Ledger struct {
	store  Store
	remote client.Ledger
	log    logging.Logger

	reconcileInterval time.Duration
	syncTimeout       time.Duration
	now               func() time.Time
	newID             func() string

	mu    sync.Mutex
	sess  models.Session
	ready bool

	pushCh      chan struct{}
	reconcileCh chan struct{}
}

type Option func(*Ledger)

// WithReconcileInterval sets how often Run pulls the remote balance. Zero
// disables the periodic pull.
func WithReconcileInterval(d time.Duration) Option {
	return func(l *Ledger) { l.reconcileInterval = d }
}

// WithSyncTimeout bounds every remote call made by the syncer.
func WithSyncTimeout(d time.Duration) Option {
	return func(l *Ledger) { l.syncTimeout = d }
}

func withClock(now func() time.Time) Option {
	return func(l *Ledger) { l.now = now }
}

func New(store Store, remote client.Ledger, log logging.Logger, opts ...Option) *Ledger {
	l := &Ledger{
		store:             store,
		remote:            remote,
		log:               log,
		reconcileInterval: 30 * time.Second,
		syncTimeout:       5 * time.Second,
		now:               time.Now,
		newID:             uuid.NewString,
		pushCh:            make(chan struct{}, 1),
		reconcileCh:       make(chan struct{}, 1),
	}
	for _, o := range opts {
		o(l)
	}
	return l
}

// Initialize restores the persisted session or creates a fresh one with a
// zero balance. A restored session is queued for reconciliation.
func (l *Ledger) Initialize(ctx context.Context) (models.Session, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	stored, err := l.store.Load(ctx)
	if err != nil {
		return models.Session{}, fmt.Errorf("load session: %w", err)
	}

	if stored != nil {
		l.sess = *stored
		l.ready = true
		signal(l.reconcileCh)
		if !l.sess.Synced {
			signal(l.pushCh)
		}
		return l.sess, nil
	}

	sess := models.Session{
		UserID:    l.newID(),
		Synced:    true,
		UpdatedAt: l.now(),
	}
	entry := &models.LedgerEntry{UserID: sess.UserID, Kind: models.EntryCreate, CreatedAt: sess.UpdatedAt}
	if err := l.store.Save(ctx, sess, entry); err != nil {
		return models.Session{}, fmt.Errorf("save session: %w", err)
	}
	l.sess = sess
	l.ready = true
	return sess, nil
}

// Add credits n tokens.
func (l *Ledger) Add(ctx context.Context, n int) (models.Session, error) {
	if n < 0 {
		return models.Session{}, ErrNegativeAmount
	}
	return l.mutate(ctx, models.EntryAdd, func(s *models.Session) int {
		s.Tokens += n
		return n
	})
}

// Deduct debits n tokens. The balance never drops below zero.
func (l *Ledger) Deduct(ctx context.Context, n int) (models.Session, error) {
	if n < 0 {
		return models.Session{}, ErrNegativeAmount
	}
	return l.mutate(ctx, models.EntryDeduct, func(s *models.Session) int {
		applied := min(n, s.Tokens)
		s.Tokens -= applied
		return applied
	})
}

// Reset starts a new session with a new id and a zero balance and wipes
// every other local record.
func (l *Ledger) Reset(ctx context.Context) (models.Session, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if !l.ready {
		return models.Session{}, ErrNotInitialized
	}

	sess := models.Session{
		UserID:    l.newID(),
		Version:   1,
		UpdatedAt: l.now(),
	}
	entry := &models.LedgerEntry{
		UserID:    sess.UserID,
		Kind:      models.EntryReset,
		Version:   sess.Version,
		CreatedAt: sess.UpdatedAt,
	}
	if err := l.store.Reset(ctx, sess, entry); err != nil {
		return models.Session{}, fmt.Errorf("reset session: %w", err)
	}
	l.sess = sess
	signal(l.pushCh)
	return sess, nil
}

func (l *Ledger) mutate(ctx context.Context, kind models.EntryKind, apply func(*models.Session) int) (models.Session, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if !l.ready {
		return models.Session{}, ErrNotInitialized
	}

	next := l.sess
	amount := apply(&next)
	if amount == 0 {
		return l.sess, nil
	}
	next.Version++
	next.Synced = false
	next.UpdatedAt = l.now()

	entry := &models.LedgerEntry{
		UserID:    next.UserID,
		Kind:      kind,
		Amount:    amount,
		Balance:   next.Tokens,
		Version:   next.Version,
		CreatedAt: next.UpdatedAt,
	}
	if err := l.store.Save(ctx, next, entry); err != nil {
		return models.Session{}, fmt.Errorf("save session: %w", err)
	}
	l.sess = next
	signal(l.pushCh)
	return next, nil
}

func (l *Ledger) Balance() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.sess.Tokens
}

func (l *Ledger) Session() models.Session {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.sess
}

// History returns the journal of the current session, newest first.
func (l *Ledger) History(ctx context.Context, limit int) ([]models.LedgerEntry, error) {
	return l.store.History(ctx, l.Session().UserID, limit)
}

// signal performs a non-blocking send on a 1-buffered channel so that
// repeated requests collapse into one.
func signal(ch chan struct{}) {
	select {
	case ch <- struct{}{}:
	default:
	}
}
