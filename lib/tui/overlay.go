// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// SpliceOverlay replaces a rectangle of a rendered view with overlay
// lines, placed with their top-left corner at (anchorX, anchorY).
// Truncation is ANSI-aware, so styling on either side of the overlay
// survives. Lines falling outside the view are dropped.
func SpliceOverlay(view string, overlayLines []string, anchorX, anchorY int) string {
	if len(overlayLines) == 0 {
		return view
	}
	anchorX = max(anchorX, 0)

	viewLines := strings.Split(view, "\n")
	overlayWidth := ansi.StringWidth(overlayLines[0])

	for index, overlayLine := range overlayLines {
		row := anchorY + index
		if row < 0 || row >= len(viewLines) {
			continue
		}
		line := viewLines[row]
		lineWidth := ansi.StringWidth(line)

		var spliced strings.Builder
		prefix := ansi.Truncate(line, anchorX, "")
		spliced.WriteString(prefix)
		if pad := anchorX - ansi.StringWidth(prefix); pad > 0 {
			spliced.WriteString(strings.Repeat(" ", pad))
		}
		spliced.WriteString("\x1b[0m")
		spliced.WriteString(overlayLine)
		spliced.WriteString("\x1b[0m")
		if end := anchorX + overlayWidth; end < lineWidth {
			spliced.WriteString(ansi.TruncateLeft(line, end, ""))
		}
		viewLines[row] = spliced.String()
	}
	return strings.Join(viewLines, "\n")
}

// CenterOverlay splices overlay lines into the middle of a view of
// the given screen size.
func CenterOverlay(view string, overlayLines []string, screenWidth, screenHeight int) string {
	if len(overlayLines) == 0 {
		return view
	}
	width := ansi.StringWidth(overlayLines[0])
	return SpliceOverlay(view, overlayLines, (screenWidth-width)/2, max(0, (screenHeight-len(overlayLines))/2))
}

// Box renders content inside a rounded border on the overlay
// background and returns it split into lines, ready for splicing.
// Every content line is padded to innerWidth.
func Box(theme Theme, title string, content []string, innerWidth int) []string {
	background := lipgloss.NewStyle().Background(theme.OverlayBackground)
	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(theme.HeaderForeground).
		Background(theme.OverlayBackground)

	lines := make([]string, 0, len(content)+1)
	if title != "" {
		lines = append(lines, PadLine(titleStyle.Render(ansi.Truncate(title, innerWidth, "…")), innerWidth, background))
	}
	for _, line := range content {
		lines = append(lines, PadLine(ansi.Truncate(line, innerWidth, "…"), innerWidth, background))
	}

	border := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.BorderColor).
		BorderBackground(theme.OverlayBackground).
		Background(theme.OverlayBackground)
	return strings.Split(border.Render(strings.Join(lines, "\n")), "\n")
}

// PadLine pads styled content with background-colored spaces up to
// width columns.
func PadLine(styled string, width int, background lipgloss.Style) string {
	if pad := width - ansi.StringWidth(styled); pad > 0 {
		return styled + background.Render(strings.Repeat(" ", pad))
	}
	return styled
}
