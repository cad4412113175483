// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Kanban-devserver runs the in-memory tracker backend used by the
// kanban tests as a standalone HTTP server, so the CLI and the board
// can be tried without a real deployment.
//
// By default it seeds the demo data set: users ada, linus and grace
// (password "kanban") with two projects and a spread of tasks whose
// due dates are relative to today.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/pflag"

	"github.com/bureau-foundation/kanban/lib/kanbantest"
	"github.com/bureau-foundation/kanban/lib/process"
	"github.com/bureau-foundation/kanban/lib/version"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		process.Fatal(err)
	}
}

type options struct {
	listen                 string
	today                  string
	empty                  bool
	responsibleAsID        bool
	ignoreCompletionFields bool
	verbose                bool
	showVersion            bool
}

func parseOptions(args []string) (options, error) {
	var opts options
	flags := pflag.NewFlagSet("kanban-devserver", pflag.ContinueOnError)
	flags.StringVar(&opts.listen, "listen", "127.0.0.1:8000", "address to listen on")
	flags.StringVar(&opts.today, "today", "", "date the demo data is relative to, YYYY-MM-DD (default: today)")
	flags.BoolVar(&opts.empty, "empty", false, "start without the demo data")
	flags.BoolVar(&opts.responsibleAsID, "responsible-as-id", false, "serialize task.responsible as a bare user id")
	flags.BoolVar(&opts.ignoreCompletionFields, "ignore-completion-fields", false, "behave like a server without completed_at and done_color")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "log every request")
	flags.BoolVar(&opts.showVersion, "version", false, "print version information and exit")
	if err := flags.Parse(args); err != nil {
		return options{}, err
	}
	if flags.NArg() > 0 {
		return options{}, fmt.Errorf("unexpected arguments: %v", flags.Args())
	}
	return opts, nil
}

// seedDate returns the date the demo data is built around.
func (o options) seedDate(now time.Time) (time.Time, error) {
	if o.today == "" {
		return now, nil
	}
	day, err := time.ParseInLocation(time.DateOnly, o.today, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("--today: %w", err)
	}
	return day, nil
}

func run(args []string) error {
	opts, err := parseOptions(args)
	if err != nil {
		return err
	}
	if opts.showVersion {
		fmt.Printf("kanban-devserver %s\n", version.Full())
		return nil
	}
	today, err := opts.seedDate(time.Now())
	if err != nil {
		return err
	}

	level := slog.LevelInfo
	if opts.verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	backend := kanbantest.NewBackend(kanbantest.BackendConfig{
		Logger:                 logger,
		ResponsibleAsID:        opts.responsibleAsID,
		IgnoreCompletionFields: opts.ignoreCompletionFields,
	})
	if !opts.empty {
		backend.SeedDemo(today)
		logger.Info("demo data seeded", "today", today.Format(time.DateOnly), "users", "ada, linus, grace", "password", kanbantest.DemoPassword)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	listener, err := net.Listen("tcp", opts.listen)
	if err != nil {
		return err
	}
	server := &http.Server{
		Handler:           backend,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- server.Serve(listener)
	}()
	logger.Info("listening", "url", "http://"+listener.Addr().String())

	select {
	case err := <-serveErr:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-serveErr; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
