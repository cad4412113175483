// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/bureau-foundation/kanban/lib/kanban"
)

// Theme defines the color palette of the terminal board. All colors
// are ANSI 256-color codes for broad terminal compatibility.
type Theme struct {
	NormalText lipgloss.Color
	FaintText  lipgloss.Color

	SelectedBackground lipgloss.Color
	SelectedForeground lipgloss.Color

	// Column header accents, in kanban.Columns order.
	ColumnColors [5]lipgloss.Color

	// Priority colors, in kanban.Priorities order (low to critical).
	PriorityColors [4]lipgloss.Color

	// Deadline tones.
	ToneCalm  lipgloss.Color
	ToneWarn  lipgloss.Color
	ToneAlert lipgloss.Color

	HeaderForeground lipgloss.Color
	BorderColor      lipgloss.Color
	FocusBorder      lipgloss.Color
	HelpText         lipgloss.Color
	ErrorText        lipgloss.Color

	// HotAccentPut tints a card that was just moved or saved.
	// HotAccentRemove tints one whose change was rolled back.
	HotAccentPut    lipgloss.Color
	HotAccentRemove lipgloss.Color

	// MatchForeground highlights fuzzy-matched characters.
	MatchForeground lipgloss.Color

	// Overlay boxes (dropdowns, modals).
	OverlayForeground lipgloss.Color
	OverlayBackground lipgloss.Color
}

// ColumnColor returns the accent for a column, FaintText when unknown.
func (theme Theme) ColumnColor(column kanban.Column) lipgloss.Color {
	index := column.Index()
	if index < 0 {
		return theme.FaintText
	}
	return theme.ColumnColors[index]
}

// PriorityColor returns the color for a priority, NormalText when
// unknown.
func (theme Theme) PriorityColor(priority kanban.Priority) lipgloss.Color {
	rank := priority.Rank()
	if rank < 0 || rank >= len(theme.PriorityColors) {
		return theme.NormalText
	}
	return theme.PriorityColors[rank]
}

// ToneColor returns the color of a deadline tone.
func (theme Theme) ToneColor(tone kanban.DeadlineTone) lipgloss.Color {
	switch tone {
	case kanban.ToneCalm:
		return theme.ToneCalm
	case kanban.ToneWarn:
		return theme.ToneWarn
	case kanban.ToneAlert:
		return theme.ToneAlert
	}
	return theme.FaintText
}

// DoneColor returns the color of a completion badge.
func (theme Theme) DoneColor(color kanban.DoneColor) lipgloss.Color {
	switch color {
	case kanban.DoneColorOnTime:
		return theme.ToneCalm
	case kanban.DoneColorOverdue:
		return theme.ToneAlert
	}
	return theme.FaintText
}

// DefaultTheme is the built-in scheme for dark 256-color terminals.
var DefaultTheme = Theme{
	NormalText: lipgloss.Color("252"),
	FaintText:  lipgloss.Color("245"),

	SelectedBackground: lipgloss.Color("236"),
	SelectedForeground: lipgloss.Color("255"),

	ColumnColors: [5]lipgloss.Color{
		lipgloss.Color("75"),  // new: blue
		lipgloss.Color("220"), // in progress: amber
		lipgloss.Color("141"), // testing: purple
		lipgloss.Color("208"), // review: orange
		lipgloss.Color("114"), // done: green
	},

	PriorityColors: [4]lipgloss.Color{
		lipgloss.Color("245"), // low: gray
		lipgloss.Color("75"),  // medium: blue
		lipgloss.Color("208"), // high: orange
		lipgloss.Color("196"), // critical: red
	},

	ToneCalm:  lipgloss.Color("114"),
	ToneWarn:  lipgloss.Color("220"),
	ToneAlert: lipgloss.Color("196"),

	HeaderForeground: lipgloss.Color("255"),
	BorderColor:      lipgloss.Color("240"),
	FocusBorder:      lipgloss.Color("75"),
	HelpText:         lipgloss.Color("241"),
	ErrorText:        lipgloss.Color("203"),

	HotAccentPut:    lipgloss.Color("58"),
	HotAccentRemove: lipgloss.Color("52"),

	MatchForeground: lipgloss.Color("220"),

	OverlayForeground: lipgloss.Color("252"),
	OverlayBackground: lipgloss.Color("237"),
}
