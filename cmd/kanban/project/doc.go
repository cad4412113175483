// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package project implements the "kanban projects" overview and the
// "kanban project" subcommand group: show, create, edit, delete and
// participant management.
//
// Listing and mutations go through [board.ProjectList], the same model
// the interactive board's project screen uses, so the summary tiles
// and card figures printed here match what the TUI shows.
package project
