// Package internal provides the main application initialization and runtime logic.
package internal

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/starford/paperfront/internal/catalog"
	"github.com/starford/paperfront/internal/rewriter"
	"github.com/starford/paperfront/internal/storage"
	"github.com/starford/paperfront/internal/watch"
)

func newApplication(opts []Option) (*application, error) {
	app := &application{out: os.Stdout}
	for _, opt := range opts {
		opt(app)
	}
	if app.config == nil {
		return nil, fmt.Errorf("config is required")
	}
	return app, nil
}

// newLogger initializes the structured JSON logger on stderr; stdout carries
// command output.
func newLogger(cfg *Config) *slog.Logger {
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: cfg.App.LogLevel,
	}))
	slog.SetDefault(logger)
	return logger
}

// newRewriter wires storage and the optional catalog into a rewriter. The
// returned cleanup closes the catalog.
func (a *application) newRewriter(logger *slog.Logger) (*rewriter.Rewriter, *storage.FS, func(), error) {
	cfg := a.config
	store, err := storage.NewFS(cfg.Content.Dir)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("init storage: %w", err)
	}

	opts := []rewriter.Option{
		rewriter.WithIndex(cfg.Content.Index, cfg.Content.IndexTitle),
		rewriter.WithDryRun(a.dryRun),
	}
	cleanup := func() {}
	if cfg.Catalog.Enabled() && !a.dryRun {
		db, err := catalog.Open(cfg.Catalog.Path)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("init catalog: %w", err)
		}
		opts = append(opts, rewriter.WithPublisher(db))
		cleanup = func() { db.Close() }
	}
	return rewriter.New(store, logger, opts...), store, cleanup, nil
}

// Run performs a single rewrite pass over the content directory.
func Run(ctx context.Context, opts ...Option) error {
	app, err := newApplication(opts)
	if err != nil {
		return err
	}
	logger := newLogger(app.config)

	logger.Info("Configuration loaded",
		slog.String("content_dir", app.config.Content.Dir),
		slog.String("index", app.config.Content.Index),
		slog.String("catalog_path", app.config.Catalog.Path),
		slog.Bool("dry_run", app.dryRun),
		slog.String("log_level", app.config.App.LogLevel.String()))

	rw, _, cleanup, err := app.newRewriter(logger)
	if err != nil {
		return err
	}
	defer cleanup()

	report, err := rw.Run(ctx)
	if err != nil {
		return err
	}
	if app.dryRun {
		printPlan(app.out, report)
	}
	return nil
}

// Watch runs a rewrite pass and then reruns it on every change to the content
// directory until a shutdown signal arrives or ctx is cancelled.
func Watch(ctx context.Context, opts ...Option) error {
	app, err := newApplication(opts)
	if err != nil {
		return err
	}
	cfg := app.config
	logger := newLogger(cfg)

	rw, store, cleanup, err := app.newRewriter(logger)
	if err != nil {
		return err
	}
	defer cleanup()

	w := &watch.Watcher{
		Store:    store,
		Root:     store.Root(),
		Index:    cfg.Content.Index,
		Debounce: cfg.Watch.Debounce,
		Logger:   logger,
	}

	g, gCtx := errgroup.WithContext(ctx)
	gCtx, stop := context.WithCancel(gCtx)
	defer stop()

	g.Go(func() error {
		return w.Watch(gCtx, func(ctx context.Context) error {
			report, err := rw.Run(ctx)
			if err != nil {
				return err
			}
			if app.dryRun {
				printPlan(app.out, report)
			}
			return nil
		})
	})

	// Handle shutdown signals.
	g.Go(func() error {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		defer signal.Stop(quit)

		select {
		case sig := <-quit:
			logger.Info("Received shutdown signal", slog.String("signal", sig.String()))
		case <-gCtx.Done():
		}
		stop()
		return nil
	})

	if err := g.Wait(); err != nil {
		logger.Error("Watch error", slog.String("error", err.Error()))
		return err
	}
	logger.Info("Watch stopped")
	return nil
}

// ListCatalog prints published entries, optionally filtered by query.
func ListCatalog(_ context.Context, query string, limit int, opts ...Option) error {
	app, err := newApplication(opts)
	if err != nil {
		return err
	}
	newLogger(app.config)
	if !app.config.Catalog.Enabled() {
		return fmt.Errorf("catalog is disabled: set catalog.path in the config")
	}

	db, err := catalog.Open(app.config.Catalog.Path)
	if err != nil {
		return fmt.Errorf("init catalog: %w", err)
	}
	defer db.Close()

	var rows []catalog.Row
	if query != "" {
		rows, err = db.Search(query, limit)
	} else {
		rows, err = db.List(limit)
	}
	if err != nil {
		return err
	}
	for _, r := range rows {
		fmt.Fprintf(app.out, "%s  %s  (%s)\n", r.Date, r.TitleLine, r.Filename)
	}
	return nil
}

func printPlan(w io.Writer, report *rewriter.Report) {
	for _, e := range report.Entries {
		status := "unchanged"
		if e.Changed() {
			status = "update"
		}
		fmt.Fprintf(w, "%-9s %s  %s  %s\n", status, e.Filename, e.Date, e.TitleLine)
	}
	for _, name := range report.Skipped {
		fmt.Fprintf(w, "%-9s %s  (no \"# [title]\" heading)\n", "skip", name)
	}
}
