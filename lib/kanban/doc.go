// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package kanban defines the domain model shared by the API client,
// the board state layer, the CLI and the terminal board: projects,
// tasks, task images, users and the session identity.
//
// A task's [Column] is its only status discriminant. The completion
// fields ([Task].CompletedAt, [Task].DoneColor) are meaningful only in
// the [ColumnDone] column and are derived client-side by
// [DeriveDoneColor] when a task enters it.
//
// The API is inconsistent about the shape of a task's responsible
// user: it may be an embedded object, a bare numeric id, or null.
// [Responsible] is a tagged union that accepts all three on decode;
// [NormalizeResponsible] resolves it against a roster so that state
// held by the board only ever contains the none or user kinds.
//
// [Date] is a calendar date (no time of day) that encodes as
// "YYYY-MM-DD" and treats its zero value as JSON null.
//
// This package depends only on lib/clock.
package kanban
