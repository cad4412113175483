// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package testutil provides shared test helpers for the kanban
// command packages.
//
// [Isolate] points the configuration, profile and session file at a
// per-test temporary directory so tests never read or write the
// developer's real ~/.config/kanban. [DemoServer] starts a
// [kanbantest.Server] seeded with the demo team and projects.
// [WriteFile] and [PNG] produce input files for commands that read
// paths: password files, payload files and image uploads.
//
// All helpers call t.Fatalf on failure rather than returning errors,
// since test setup failures are not recoverable.
package testutil
