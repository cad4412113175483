// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// RenderScrollbar returns a one-column scrollbar of the given height.
// The thumb covers the visible share of the content; it fills the
// whole track when everything fits. A focused scrollbar uses the focus
// color for its thumb.
func RenderScrollbar(theme Theme, height, totalItems, visibleItems, scrollOffset int, focused bool) string {
	if height <= 0 {
		return ""
	}
	thumbColor := theme.BorderColor
	if focused {
		thumbColor = theme.FocusBorder
	}
	track := lipgloss.NewStyle().Foreground(theme.BorderColor).Render("│")
	thumb := lipgloss.NewStyle().Foreground(thumbColor).Render("┃")

	thumbSize, thumbOffset := height, 0
	if totalItems > visibleItems && totalItems > 0 {
		thumbSize = max(1, height*visibleItems/totalItems)
		if scrollable, room := totalItems-visibleItems, height-thumbSize; scrollable > 0 && room > 0 {
			thumbOffset = min(scrollOffset*room/scrollable, room)
		}
	}

	lines := make([]string, height)
	for index := range lines {
		if index >= thumbOffset && index < thumbOffset+thumbSize {
			lines[index] = thumb
		} else {
			lines[index] = track
		}
	}
	return strings.Join(lines, "\n")
}
