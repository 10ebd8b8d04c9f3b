// Package main implements the entry point for the LMS API server, which
// serves the course catalog, enrollment, progress tracking and homework
// review over HTTP.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
)

// cliOptions are the command-line switches. Without any of them the server
// runs.
type cliOptions struct {
	migrate     string
	seedTags    bool
	recountTags bool
}

func parseFlags(args []string) (cliOptions, error) {
	var opts cliOptions
	fs := flag.NewFlagSet("lms-api", flag.ContinueOnError)
	fs.StringVar(&opts.migrate, "migrate", "", "run a migration command (up, down, reset, status, version) and exit")
	fs.BoolVar(&opts.seedTags, "seed-tags", false, "insert the default tags and exit")
	fs.BoolVar(&opts.recountTags, "recount-tags", false, "recompute tag course counts and exit")
	if err := fs.Parse(args); err != nil {
		return cliOptions{}, err
	}
	return opts, nil
}

func main() {
	opts, err := parseFlags(os.Args[1:])
	if err != nil {
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	err = run(ctx, opts)
	stop()
	if err != nil {
		log.Fatalf("lms-api: %v", err)
	}
}

// run loads configuration, connects to the database and performs the
// requested command.
func run(ctx context.Context, opts cliOptions) error {
	cfg, err := loadAppConfig()
	if err != nil {
		return err
	}

	logger, err := setupAppLogger(cfg)
	if err != nil {
		return err
	}

	db, err := setupAppDatabase(ctx, cfg.Database, logger)
	if err != nil {
		return err
	}

	if opts.migrate != "" {
		defer func() { _ = db.Close() }()
		return runMigrations(ctx, db, opts.migrate, logger)
	}

	app, err := newApplication(cfg, logger, db)
	if err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to initialize application: %w", err)
	}

	switch {
	case opts.seedTags:
		defer app.cleanup()
		return app.seedTags(ctx)
	case opts.recountTags:
		defer app.cleanup()
		return app.recountTags(ctx)
	default:
		return app.Run(ctx)
	}
}
