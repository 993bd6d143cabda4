package main

import (
	"context"
	"fmt"
	"io"

	"github.com/daviddao/pushups/pkg/clock"
	"github.com/daviddao/pushups/pkg/config"
	"github.com/daviddao/pushups/pkg/logger"
	"github.com/daviddao/pushups/pkg/store"
	"github.com/daviddao/pushups/pkg/tally"
)

// app holds shared state for all CLI subcommands.
type app struct {
	store  *store.Store
	tally  *tally.Service
	log    logger.Logger
	dbPath string
}

// newApp resolves configuration, applies flag overrides and opens the
// database.
func newApp(ctx context.Context, opts *rootOptions, clk clock.Clock, stderr io.Writer) (*app, error) {
	cfg, err := config.Load(ctx)
	if err != nil {
		return nil, err
	}
	if opts.dbPath != "" {
		cfg.DBPath = opts.dbPath
	}
	if opts.logLevel != "" {
		cfg.LogLevel = opts.logLevel
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	log, err := logger.New(stderr, cfg.LogLevel)
	if err != nil {
		return nil, err
	}

	s, err := store.New(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("cannot open database %q: %w", cfg.DBPath, err)
	}
	log.Debug(ctx, "opened database", logger.String("path", cfg.DBPath))

	return &app{
		store:  s,
		tally:  tally.New(s, clk, tally.WithLogger(log)),
		log:    log,
		dbPath: cfg.DBPath,
	}, nil
}

// Close releases the database connection.
func (a *app) Close() { a.store.Close() }

// cli carries per-invocation state: injected dependencies, parsed global
// flags and the lazily opened app.
type cli struct {
	opts   rootOptions
	clock  clock.Clock
	stdout io.Writer
	stderr io.Writer
	app    *app
}

// open returns the app, opening it on first use. Commands that never touch
// the database (version, help) do not create one.
func (c *cli) open(ctx context.Context) (*app, error) {
	if c.app != nil {
		return c.app, nil
	}
	a, err := newApp(ctx, &c.opts, c.clock, c.stderr)
	if err != nil {
		return nil, err
	}
	c.app = a
	return a, nil
}

func (c *cli) close() {
	if c.app != nil {
		c.app.Close()
		c.app = nil
	}
}
