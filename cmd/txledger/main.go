package main

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	"github.com/punchamoorthee/txledger/internal/api"
	"github.com/punchamoorthee/txledger/internal/config"
	"github.com/punchamoorthee/txledger/internal/csvio"
	"github.com/punchamoorthee/txledger/internal/domain"
	"github.com/punchamoorthee/txledger/internal/report"
	"github.com/punchamoorthee/txledger/internal/service"
	"github.com/punchamoorthee/txledger/internal/store"
	"go.uber.org/zap"
)

func main() {
	format := flag.String("format", "csv", "Output format: csv | table")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: %s [-format csv|table] <transactions.csv>\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() != 1 || (*format != "csv" && *format != "table") {
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	logger, err := newLogger(cfg)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger, flag.Arg(0), *format, os.Stdout); err != nil {
		logger.Error("run failed", zap.Error(err))
		logger.Sync()
		os.Exit(1)
	}
}

func newLogger(cfg *config.Config) (*zap.Logger, error) {
	zcfg := zap.NewProductionConfig()
	if cfg.Development() {
		zcfg = zap.NewDevelopmentConfig()
	}
	zcfg.Level = zap.NewAtomicLevelAt(cfg.LogLevel)
	zcfg.OutputPaths = []string{"stderr"}
	return zcfg.Build()
}

// run processes path and writes the snapshot to out. Nothing is written to
// out unless the whole file was consumed and the export, if any, succeeded.
func run(ctx context.Context, cfg *config.Config, logger *zap.Logger, path, format string, out io.Writer) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open transactions: %w", err)
	}
	defer f.Close()

	ledger := service.NewLedger(service.Options{
		Rules:       cfg.Rules,
		ErrorPolicy: cfg.ErrorPolicy,
		Logger:      logger,
	})

	logger.Info("processing transactions",
		zap.String("path", path),
		zap.Stringer("error_policy", cfg.ErrorPolicy),
	)
	if _, err := ledger.Process(ctx, csvio.NewReader(bufio.NewReader(f), path)); err != nil {
		return err
	}

	snapshot := ledger.Snapshot()
	var buf bytes.Buffer
	switch format {
	case "table":
		report.Render(&buf, snapshot)
	default:
		if err := csvio.WriteAccounts(&buf, snapshot); err != nil {
			return fmt.Errorf("write accounts: %w", err)
		}
	}

	// Every other sink must succeed before anything reaches out.
	if cfg.DBSource != "" {
		if err := export(ctx, cfg.DBSource, snapshot, logger); err != nil {
			return err
		}
	}

	if _, err := buf.WriteTo(out); err != nil {
		return fmt.Errorf("write accounts: %w", err)
	}

	if cfg.Port != "" {
		return serve(ctx, cfg.Port, ledger, logger)
	}
	return nil
}

func export(ctx context.Context, dsn string, snapshot []domain.Balances, logger *zap.Logger) error {
	s, err := store.NewSnapshotStore(ctx, dsn)
	if err != nil {
		return err
	}
	defer s.Close()

	if err := s.EnsureSchema(ctx); err != nil {
		return err
	}

	runID := uuid.New()
	if err := s.SaveSnapshot(ctx, runID, snapshot); err != nil {
		return err
	}
	logger.Info("snapshot exported", zap.String("run_id", runID.String()), zap.Int("accounts", len(snapshot)))
	return nil
}

func serve(ctx context.Context, port string, ledger *service.Ledger, logger *zap.Logger) error {
	srv := &http.Server{Addr: ":" + port, Handler: api.NewRouter(api.NewHandler(ledger))}

	go func() {
		<-ctx.Done()
		srv.Shutdown(context.Background())
	}()

	logger.Info("server starting", zap.String("addr", srv.Addr))
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
