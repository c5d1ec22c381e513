package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/dmitrijs2005/hmpi/internal/buildinfo"
	"github.com/dmitrijs2005/hmpi/internal/client/cli"
	"github.com/dmitrijs2005/hmpi/internal/client/client"
	"github.com/dmitrijs2005/hmpi/internal/client/config"
	"github.com/dmitrijs2005/hmpi/internal/client/export"
	"github.com/dmitrijs2005/hmpi/internal/client/gate"
	"github.com/dmitrijs2005/hmpi/internal/client/ledger"
	"github.com/dmitrijs2005/hmpi/internal/client/repositories/datasets"
	"github.com/dmitrijs2005/hmpi/internal/client/repositories/sessions"
	"github.com/dmitrijs2005/hmpi/internal/client/services"
	"github.com/dmitrijs2005/hmpi/internal/client/state"
	"github.com/dmitrijs2005/hmpi/internal/logging"
)

func main() {
	buildinfo.PrintBuildData(os.Stdout)

	cfg, err := config.LoadConfig(os.Args[1:])
	if err != nil {
		log.Fatalf("%v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		log.Fatalf("%v", err)
	}
}

func run(ctx context.Context, cfg *config.Config) error {
	logger := logging.New(cfg.LogLevel, cfg.LogFormat, os.Stderr)

	db, err := client.InitDatabase(ctx, cfg.DatabasePath)
	if err != nil {
		return err
	}
	defer db.Close()

	backend, err := client.NewHTTPClient(cfg.BackendURL, cfg.ReportURL(), cfg.RequestTimeout)
	if err != nil {
		return err
	}
	defer backend.Close()

	l := ledger.New(sessions.NewStore(db), backend, logger.With("component", "ledger"),
		ledger.WithReconcileInterval(cfg.ReconcileInterval),
		ledger.WithSyncTimeout(cfg.SyncTimeout),
	)
	sess, err := l.Initialize(ctx)
	if err != nil {
		return err
	}
	logger.Info(ctx, "session ready", "user_id", sess.UserID, "tokens", sess.Tokens)

	sink, err := newSink(ctx, cfg)
	if err != nil {
		return err
	}

	st := state.New()
	uploads := services.NewUploadService(gate.New(logger.With("component", "gate")), backend, l, st,
		datasets.NewSQLiteRepository(db), logger.With("component", "uploads"))
	if ds, err := uploads.Restore(ctx); err != nil {
		logger.Warn(ctx, "failed to restore last dataset", "error", err)
	} else if ds != nil {
		logger.Info(ctx, "restored last dataset", "file_id", ds.FileID, "samples", len(ds.Samples))
	}

	app := cli.NewApp(cli.Deps{
		Uploads:     uploads,
		Predictions: services.NewPredictionService(backend),
		Reports:     services.NewReportService(backend, st, sink, logger.With("component", "reports")),
		Ledger:      l,
		State:       st,
		Backend:     backend,
		Log:         logger,
	}, os.Stdin, os.Stdout)

	app.Run(ctx, cfg.ReconcileInterval)
	return nil
}

// newSink stores downloads in S3 when a bucket is configured and in the
// download directory otherwise.
func newSink(ctx context.Context, cfg *config.Config) (export.Sink, error) {
	if cfg.S3Bucket == "" {
		return export.NewFileSink(cfg.DownloadDir), nil
	}
	return export.NewS3Sink(ctx, export.S3Options{
		Bucket:       cfg.S3Bucket,
		Region:       cfg.S3Region,
		BaseEndpoint: cfg.S3BaseEndpoint,
		AccessKey:    cfg.S3AccessKey,
		SecretKey:    cfg.S3SecretKey,
	})
}
