package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/dmitrijs2005/hmpi/internal/client/models"
	"github.com/dmitrijs2005/hmpi/internal/client/purchase"
	"github.com/dmitrijs2005/hmpi/internal/client/services"
	"github.com/dmitrijs2005/hmpi/internal/client/state"
	"github.com/dmitrijs2005/hmpi/internal/logging"
	"golang.org/x/term"
)

// isTerminal is a test seam for term.IsTerminal.
var isTerminal = term.IsTerminal

type Mode string

const (
	ModeOffline Mode = "offline"
	ModeOnline  Mode = "online"
)

// Ledger is the token ledger as seen by the CLI.
type Ledger interface {
	Run(ctx context.Context)
	Balance() int
	Session() models.Session
	Add(ctx context.Context, n int) (models.Session, error)
	Reset(ctx context.Context) (models.Session, error)
	History(ctx context.Context, limit int) ([]models.LedgerEntry, error)
}

// Pinger reports whether the backend is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Deps are the collaborators of App.
type Deps struct {
	Uploads     services.UploadService
	Predictions services.PredictionService
	Reports     services.ReportService
	Ledger      Ledger
	State       *state.State
	Backend     Pinger
	Log         logging.Logger
}

type App struct {
	uploads     services.UploadService
	predictions services.PredictionService
	reports     services.ReportService
	ledger      Ledger
	state       *state.State
	backend     Pinger
	log         logging.Logger

	flow        *purchase.Flow
	reader      *bufio.Reader
	out         io.Writer
	interactive bool

	modeMu sync.Mutex
	mode   Mode
}

// NewApp builds the CLI reading commands from in and writing to out. The
// prompt is only printed when in is a terminal.
func NewApp(d Deps, in io.Reader, out io.Writer) *App {
	a := &App{
		uploads:     d.Uploads,
		predictions: d.Predictions,
		reports:     d.Reports,
		ledger:      d.Ledger,
		state:       d.State,
		backend:     d.Backend,
		log:         d.Log,
		reader:      bufio.NewReader(in),
		out:         out,
		interactive: interactiveInput(in),
	}
	a.flow = purchase.NewFlow(d.Ledger, a.resume)
	return a
}

func interactiveInput(r io.Reader) bool {
	f, ok := r.(*os.File)
	return ok && isTerminal(int(f.Fd()))
}

// Run starts the ledger syncer and the connectivity watcher, then blocks in
// the REPL until the user exits or input ends.
func (a *App) Run(ctx context.Context, pingInterval time.Duration) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	go a.ledger.Run(ctx)
	if pingInterval > 0 {
		go a.StartOnlineStatusWatcher(ctx, pingInterval)
	}

	a.println("HMPI client (type 'help' for commands)")
	runREPL(ctx, a, a.prompt, a.reader)
}

func (a *App) Mode() Mode {
	a.modeMu.Lock()
	defer a.modeMu.Unlock()
	return a.mode
}

func (a *App) setMode(ctx context.Context, mode Mode) {
	a.modeMu.Lock()
	changed := a.mode != mode
	a.mode = mode
	a.modeMu.Unlock()

	if changed {
		a.log.Info(ctx, "switched mode", "mode", string(mode))
	}
}

// StartOnlineStatusWatcher pings the backend on every tick and records
// whether it answered. It returns when ctx is done.
func (a *App) StartOnlineStatusWatcher(ctx context.Context, interval time.Duration) {
	a.checkOnline(ctx)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			a.checkOnline(ctx)
		case <-ctx.Done():
			return
		}
	}
}

func (a *App) checkOnline(ctx context.Context) {
	pctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	err := a.backend.Ping(pctx)
	cancel()

	if err != nil {
		a.setMode(ctx, ModeOffline)
		return
	}
	a.setMode(ctx, ModeOnline)
}

// getStatus renders "(<user prefix> <balance>)", with the mode appended
// while the backend is unreachable.
func (a *App) getStatus() string {
	sess := a.ledger.Session()
	user := sess.UserID
	if len(user) > 8 {
		user = user[:8]
	}
	s := fmt.Sprintf("%s %d", user, a.ledger.Balance())
	if a.Mode() == ModeOffline {
		s += " " + string(ModeOffline)
	}
	return fmt.Sprintf("(%s)", s)
}

func (a *App) prompt() string {
	if !a.interactive {
		return ""
	}
	return fmt.Sprintf("hmpi %s> ", a.getStatus())
}

func (a *App) println(args ...any) {
	fmt.Fprintln(a.out, args...)
}

func (a *App) printf(format string, args ...any) {
	fmt.Fprintf(a.out, format, args...)
}

// fail prints one line describing err and returns it.
func (a *App) fail(err error) error {
	a.println("Error:", describe(err))
	return err
}
