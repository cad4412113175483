// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/bureau-foundation/kanban/lib/config"
)

// Isolate clears every KANBAN_* override, points XDG_CONFIG_HOME at a
// temporary directory and returns the session file path commands will
// use.
func Isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	t.Setenv(config.EnvConfig, "")
	t.Setenv(config.EnvProfile, "")
	t.Setenv(config.EnvBaseURL, "")
	t.Setenv(config.EnvTimeout, "")
	sessionPath := filepath.Join(dir, "kanban", "session.json")
	t.Setenv(config.EnvSessionFile, sessionPath)
	return sessionPath
}

// WriteFile writes data to name inside a fresh temporary directory and
// returns the full path.
func WriteFile(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, data, 0600); err != nil {
		t.Fatalf("writing %s: %v", name, err)
	}
	return path
}
