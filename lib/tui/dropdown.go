// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// DropdownOption is one selectable item.
type DropdownOption struct {
	Label string
	Value string
}

// Dropdown is a floating menu anchored at a screen position. While
// active it receives all keyboard input: up/down to move, enter to
// select, escape to dismiss. The owning screen keeps the value and
// routes input to it.
type Dropdown struct {
	Options []DropdownOption
	Cursor  int
	AnchorX int
	AnchorY int
	// Field names what a selection changes ("column", "priority",
	// "responsible").
	Field string
	// ItemID is the task or project the selection applies to.
	ItemID int64
}

// NewDropdown creates a dropdown with the cursor on the option whose
// value equals current, or on the first option.
func NewDropdown(field string, itemID int64, options []DropdownOption, current string) Dropdown {
	dropdown := Dropdown{Options: options, Field: field, ItemID: itemID}
	for index, option := range options {
		if option.Value == current {
			dropdown.Cursor = index
			break
		}
	}
	return dropdown
}

// MoveUp moves the cursor up, wrapping to the bottom.
func (dropdown *Dropdown) MoveUp() {
	if len(dropdown.Options) == 0 {
		return
	}
	dropdown.Cursor = (dropdown.Cursor - 1 + len(dropdown.Options)) % len(dropdown.Options)
}

// MoveDown moves the cursor down, wrapping to the top.
func (dropdown *Dropdown) MoveDown() {
	if len(dropdown.Options) == 0 {
		return
	}
	dropdown.Cursor = (dropdown.Cursor + 1) % len(dropdown.Options)
}

// Selected returns the highlighted option. ok is false for an empty
// dropdown.
func (dropdown *Dropdown) Selected() (DropdownOption, bool) {
	if dropdown.Cursor < 0 || dropdown.Cursor >= len(dropdown.Options) {
		return DropdownOption{}, false
	}
	return dropdown.Options[dropdown.Cursor], true
}

// Width returns the rendered width in columns: one padding column on
// each side, a two-column marker, and the widest label.
func (dropdown *Dropdown) Width() int {
	widest := 0
	for _, option := range dropdown.Options {
		widest = max(widest, ansi.StringWidth(option.Label))
	}
	return 2 + 2 + widest
}

// Contains reports whether screen coordinate (x, y) is inside the
// dropdown.
func (dropdown *Dropdown) Contains(x, y int) bool {
	return dropdown.OptionAt(y) >= 0 && x >= dropdown.AnchorX && x < dropdown.AnchorX+dropdown.Width()
}

// OptionAt returns the option index at screen row y, or -1.
func (dropdown *Dropdown) OptionAt(y int) int {
	index := y - dropdown.AnchorY
	if index < 0 || index >= len(dropdown.Options) {
		return -1
	}
	return index
}

// Render returns one line per option, all the same width, for
// splicing with SpliceOverlay at (AnchorX, AnchorY).
func (dropdown *Dropdown) Render(theme Theme) []string {
	innerWidth := dropdown.Width() - 2
	normal := lipgloss.NewStyle().
		Foreground(theme.OverlayForeground).
		Background(theme.OverlayBackground)
	selected := lipgloss.NewStyle().
		Background(theme.SelectedBackground).
		Foreground(theme.SelectedForeground)

	lines := make([]string, 0, len(dropdown.Options))
	for index, option := range dropdown.Options {
		style, marker := normal, "  "
		if index == dropdown.Cursor {
			style, marker = selected, "> "
		}
		content := marker + option.Label
		if pad := innerWidth - ansi.StringWidth(content); pad > 0 {
			content += strings.Repeat(" ", pad)
		}
		lines = append(lines, style.Render(" "+content+" "))
	}
	return lines
}
