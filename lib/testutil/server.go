// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package testutil

import (
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/bureau-foundation/kanban/lib/kanbantest"
)

// QuietLogger discards everything.
func QuietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// DemoServer starts a fake backend seeded with
// [kanbantest.Backend.SeedDemo] relative to today. The server is closed
// when the test completes. Every demo account's password is
// [kanbantest.DemoPassword].
func DemoServer(t *testing.T, today time.Time) *kanbantest.Server {
	t.Helper()
	server := kanbantest.NewServer(kanbantest.BackendConfig{Logger: QuietLogger()})
	t.Cleanup(server.Close)
	server.SeedDemo(today)
	return server
}
