// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package task implements the "kanban task" subcommand group.
//
// Every command loads the task's project board through [board.Board]
// and mutates through it, so the CLI follows the same rules as the
// interactive board: moves record or clear completion, saves
// reconcile images in the same order, and image steps are best effort.
// Images are staged through [imagepanel.Panel], which enforces the
// four-image limit and rejects non-image files before anything is
// sent.
package task
