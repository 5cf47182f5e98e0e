package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/tinoosan/bookkeeper/internal/classify"
	"github.com/tinoosan/bookkeeper/internal/config"
	"github.com/tinoosan/bookkeeper/internal/dictionary"
	"github.com/tinoosan/bookkeeper/internal/events"
	"github.com/tinoosan/bookkeeper/internal/events/kafka"
	"github.com/tinoosan/bookkeeper/internal/export"
	"github.com/tinoosan/bookkeeper/internal/extract"
	httpapi "github.com/tinoosan/bookkeeper/internal/httpapi/v1"
	"github.com/tinoosan/bookkeeper/internal/service/audit"
	"github.com/tinoosan/bookkeeper/internal/service/intake"
	"github.com/tinoosan/bookkeeper/internal/storage"
	"github.com/tinoosan/bookkeeper/internal/storage/memory"
	pgstore "github.com/tinoosan/bookkeeper/internal/storage/postgres"
	"github.com/tinoosan/bookkeeper/internal/storage/sqlite"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("config", "err", err)
		os.Exit(1)
	}

	// Logger (slog to stdout). Level via LOG_LEVEL; format via LOG_FORMAT (json|text, default json)
	logger := buildLogger(cfg.Log)
	slog.SetDefault(logger)

	dict := dictionary.Default()
	if cfg.Intake.KeywordsFile != "" {
		if dict, err = dictionary.Load(cfg.Intake.KeywordsFile); err != nil {
			logger.Error("failed to load keywords file", "path", cfg.Intake.KeywordsFile, "err", err)
			os.Exit(1)
		}
		logger.Info("keywords loaded", "path", cfg.Intake.KeywordsFile)
	}

	store := memory.New()

	// Session persistence: Postgres when DATABASE_URL is set, else SQLite when
	// SQLITE_PATH is set, else memory only.
	var snap storage.Snapshotter
	var closeFn func()
	switch {
	case cfg.Storage.DatabaseURL != "":
		pg, err := pgstore.Open(ctx, cfg.Storage.DatabaseURL)
		if err != nil {
			logger.Error("failed to connect to postgres", "err", err)
			os.Exit(1)
		}
		snap, closeFn = pg, pg.Close
		logger.Info("storage backend: postgres")
	case cfg.Storage.SQLitePath != "":
		lite, err := sqlite.Open(cfg.Storage.SQLitePath)
		if err != nil {
			logger.Error("failed to open sqlite", "path", cfg.Storage.SQLitePath, "err", err)
			os.Exit(1)
		}
		snap, closeFn = lite, func() { _ = lite.Close() }
		logger.Info("storage backend: sqlite", "path", lite.Path())
	default:
		logger.Info("storage backend: memory")
	}
	if snap != nil {
		loadSession(ctx, logger, snap, store)
	}

	classifier := classify.Classifier(classify.NewKeyword(dict))
	if cfg.Intake.Classifier == config.ClassifierKeywordBayes {
		bayes := classify.NewBayes()
		tables, _ := store.Tables(ctx)
		n := bayes.Train(tables)
		logger.Info("bayes classifier trained", "examples", n, "ready", bayes.Ready())
		classifier = classify.Chain(classifier, bayes)
	}

	var pub events.Publisher = events.Noop{}
	if len(cfg.Kafka.Brokers) > 0 {
		kp := kafka.NewPublisher(cfg.Kafka.Brokers, cfg.Kafka.Topic, logger)
		defer func() {
			if err := kp.Close(); err != nil {
				logger.Warn("kafka publisher close", "err", err)
			}
		}()
		pub = kp
		logger.Info("publishing entry events", "brokers", strings.Join(cfg.Kafka.Brokers, ","), "topic", cfg.Kafka.Topic)
	}

	svc := intake.New(store, store, intake.Config{
		Classifier: classifier,
		Extractor:  extract.New(dict, cfg.Intake.DefaultCurrency, time.Now),
		Publisher:  pub,
		Logger:     logger,
		VATRate:    &cfg.Intake.VATRate,
	})

	deps := httpapi.Deps{
		Intake:          svc,
		Audit:           audit.Default(),
		Dictionary:      dict,
		DefaultCurrency: cfg.Intake.DefaultCurrency,
		Auth:            httpapi.AuthConfig{Secret: cfg.Auth.Secret, Issuer: cfg.Auth.Issuer, Audience: cfg.Auth.Audience},
	}
	if snap != nil {
		deps.Snapshot = snap
	}

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           httpapi.New(deps, logger).Handler(),
		ReadTimeout:       5 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("bookkeeper service listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		ctxShutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctxShutdown); err != nil {
			logger.Error("server shutdown error", "err", err)
		}
	case err := <-errCh:
		logger.Error("server error", "err", err)
	}

	saveSession(logger, snap, store, cfg.Storage.ExportDir)
	if closeFn != nil {
		closeFn()
	}
}

// loadSession restores the last snapshot. Failures leave an empty, usable store.
func loadSession(ctx context.Context, l *slog.Logger, snap storage.Snapshotter, store *memory.Store) {
	tables, err := snap.Load(ctx)
	if err != nil {
		l.Warn("session load failed, starting empty", "err", err)
		return
	}
	if err := store.Restore(tables); err != nil {
		l.Warn("session restore failed, starting empty", "err", err)
		return
	}
	l.Info("session loaded", "records", tables.Len())
}

// saveSession persists and optionally exports the session at shutdown.
func saveSession(l *slog.Logger, snap storage.Snapshotter, store *memory.Store, exportDir string) {
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	tables, _ := store.Tables(ctx)
	if snap != nil {
		if err := snap.Save(ctx, tables); err != nil {
			l.Warn("session save failed", "err", err)
		} else {
			l.Info("session saved", "records", tables.Len())
		}
	}
	if exportDir != "" {
		book, err := export.WriteWorkbookFile(exportDir, tables)
		if err != nil {
			l.Warn("xlsx export failed", "dir", exportDir, "err", err)
		} else {
			l.Info("xlsx export written", "path", book)
		}
		paths, err := export.WriteAll(exportDir, tables)
		if err != nil {
			l.Warn("csv export failed", "dir", exportDir, "err", err)
			return
		}
		l.Info("csv export written", "dir", exportDir, "files", len(paths))
	}
}

// parseLogLevel maps env values to slog.Leveler
func parseLogLevel(s string) slog.Leveler {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error", "err":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func buildLogger(c config.LogConfig) *slog.Logger {
	level := parseLogLevel(c.Level)
	if c.Format == "text" {
		return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
	}
	// default to JSON
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
}
