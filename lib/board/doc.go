// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package board holds the client-side state of the project list and of
// one project's board, and orchestrates the API calls that change it.
//
// Local lists live in a [Store]. [Store.Mutate] is the one optimistic
// update path: it snapshots the list, applies the local change, runs
// the remote call, and restores the snapshot exactly if the call
// fails. Moves, deletes and task edits all go through it.
//
// [ProjectList] loads projects, users and all tasks concurrently and
// derives the "my work" tiles. [ComputeCardMetrics] derives a project
// card's counts and progress. [Board] is one project's columns: it
// filters and groups tasks, moves them between columns (stamping or
// clearing completion), deletes them, and runs the save routine for
// the task form, including best-effort image reconciliation reported
// as [Steps].
//
// There is no request-generation guard: a slow response can land after
// a newer local change and overwrite it.
package board
