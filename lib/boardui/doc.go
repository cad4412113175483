// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package boardui is the interactive terminal board: a bubbletea
// program with a project list screen, a five-column board screen and
// a task form with an image panel.
//
// The screens are thin views over [board.ProjectList] and
// [board.Board]; every server call runs as a tea.Cmd and reports back
// through a message, so the Update loop never blocks on the network.
// Optimistic changes are visible immediately and rolled back by the
// board package when the server rejects them. Warnings logged by the
// board package during a run reach the status bar through
// [StatusLogHandler].
//
// Moving a card between columns (shift+h / shift+l, or the column
// dropdown on m) is the keyboard equivalent of dragging it.
package boardui
