// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package tui provides shared terminal components for the kanban
// board: the color theme, dropdown and modal overlays, change
// highlighting, a scrollbar and fuzzy matching.
//
// The components are plain values driven by bubbletea messages. The
// screens in lib/boardui own their layout and route input to whichever
// component has focus.
package tui
