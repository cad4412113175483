// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package tui

import (
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/x/ansi"

	"github.com/bureau-foundation/kanban/lib/kanban"
)

func TestDropdown(t *testing.T) {
	options := []DropdownOption{{Label: "New", Value: "new"}, {Label: "Review", Value: "review"}, {Label: "Done", Value: "done"}}
	dropdown := NewDropdown("column", 7, options, "review")
	if dropdown.Cursor != 1 {
		t.Fatalf("Cursor = %d, want the current value", dropdown.Cursor)
	}
	dropdown.MoveDown()
	dropdown.MoveDown()
	if selected, _ := dropdown.Selected(); selected.Value != "new" {
		t.Errorf("wrapped selection = %q, want new", selected.Value)
	}
	dropdown.MoveUp()
	if selected, _ := dropdown.Selected(); selected.Value != "done" {
		t.Errorf("wrapped up selection = %q, want done", selected.Value)
	}

	dropdown.AnchorX, dropdown.AnchorY = 10, 5
	if !dropdown.Contains(11, 6) || dropdown.Contains(9, 6) || dropdown.Contains(11, 8) {
		t.Error("Contains hit-test wrong")
	}
	lines := dropdown.Render(DefaultTheme)
	for _, line := range lines {
		if width := ansi.StringWidth(line); width != dropdown.Width() {
			t.Errorf("line width %d, want %d", width, dropdown.Width())
		}
	}

	empty := NewDropdown("x", 0, nil, "")
	empty.MoveDown()
	if _, ok := empty.Selected(); ok {
		t.Error("empty dropdown has a selection")
	}
}

func TestSpliceOverlay(t *testing.T) {
	view := "aaaaaaaaaa\nbbbbbbbbbb\ncccccccccc"
	got := ansi.Strip(SpliceOverlay(view, []string{"XX", "YY"}, 3, 1))
	want := "aaaaaaaaaa\nbbbXXbbbbb\ncccYYccccc"
	if got != want {
		t.Errorf("SpliceOverlay =\n%s\nwant\n%s", got, want)
	}

	short := ansi.Strip(SpliceOverlay("ab", []string{"Z"}, 4, 0))
	if short != "ab  Z" {
		t.Errorf("splice past line end = %q", short)
	}

	centered := ansi.Strip(CenterOverlay("..........\n..........\n..........", []string{"##"}, 10, 3))
	if strings.Split(centered, "\n")[1] != "....##...." {
		t.Errorf("CenterOverlay = %q", centered)
	}
}

func TestBox(t *testing.T) {
	lines := Box(DefaultTheme, "Delete task?", []string{"y confirm", "n cancel"}, 20)
	if len(lines) != 5 {
		t.Fatalf("Box returned %d lines, want 5", len(lines))
	}
	for _, line := range lines {
		if ansi.StringWidth(line) != 22 {
			t.Errorf("box line width %d, want 22: %q", ansi.StringWidth(line), ansi.Strip(line))
		}
	}
}

func TestScrollbar(t *testing.T) {
	full := strings.Split(ansi.Strip(RenderScrollbar(DefaultTheme, 4, 2, 4, 0, false)), "\n")
	for _, cell := range full {
		if cell != "┃" {
			t.Fatalf("content that fits should fill the track: %q", full)
		}
	}
	bar := strings.Split(ansi.Strip(RenderScrollbar(DefaultTheme, 4, 8, 4, 4, true)), "\n")
	if strings.Join(bar, "") != "││┃┃" {
		t.Errorf("scrolled to the end: %q", bar)
	}
	if RenderScrollbar(DefaultTheme, 0, 1, 1, 0, false) != "" {
		t.Error("zero height scrollbar rendered")
	}
}

func TestHeatTracker(t *testing.T) {
	tracker := NewHeatTracker()
	start := time.Date(2024, 1, 10, 12, 0, 0, 0, time.UTC)
	tracker.Ignite(4, HeatPut, start)
	tracker.Ignite(5, HeatRemove, start)

	if heat := tracker.Heat(4, start.Add(HeatDecayDuration/2)); heat < 0.49 || heat > 0.51 {
		t.Errorf("half-way heat = %v", heat)
	}
	if accent, ok := tracker.Accent(DefaultTheme, 5, start); !ok || accent != DefaultTheme.HotAccentRemove {
		t.Errorf("remove accent = %v, %v", accent, ok)
	}
	if accent, ok := tracker.Accent(DefaultTheme, 4, start); !ok || accent != DefaultTheme.HotAccentPut {
		t.Errorf("put accent = %v, %v", accent, ok)
	}
	if !tracker.HasHot(start) {
		t.Error("HasHot = false right after ignition")
	}
	if tracker.HasHot(start.Add(HeatDecayDuration)) {
		t.Error("HasHot = true after full decay")
	}
	if tracker.Heat(4, start) != 0 {
		t.Error("decayed entry was not dropped")
	}
}

func TestFuzzy(t *testing.T) {
	candidates := []string{"Compiler rewrite", "Website", "Company offsite", "Docs"}
	ranked := RankFuzzy(candidates, "comp")
	if len(ranked) != 2 {
		t.Fatalf("RankFuzzy matched %d, want 2: %+v", len(ranked), ranked)
	}
	for _, match := range ranked {
		if match.Index != 0 && match.Index != 2 {
			t.Errorf("unexpected match %q", candidates[match.Index])
		}
		if len(match.Positions) != 4 {
			t.Errorf("positions for %q = %v, want 4", candidates[match.Index], match.Positions)
		}
	}

	if all := RankFuzzy(candidates, "  "); len(all) != len(candidates) {
		t.Errorf("empty query matched %d, want all", len(all))
	}
	if none := RankFuzzy(candidates, "zzz"); len(none) != 0 {
		t.Errorf("zzz matched %v", none)
	}
	if cased := RankFuzzy(candidates, "Docs"); len(cased) != 1 || cased[0].Index != 3 {
		t.Errorf("case-sensitive query = %+v", cased)
	}
}

func TestThemeLookups(t *testing.T) {
	theme := DefaultTheme
	if theme.ColumnColor(kanban.ColumnDone) != theme.ColumnColors[4] {
		t.Error("done column color")
	}
	if theme.ColumnColor("bogus") != theme.FaintText {
		t.Error("unknown column color")
	}
	if theme.PriorityColor(kanban.PriorityCritical) != theme.PriorityColors[3] {
		t.Error("critical priority color")
	}
	if theme.DoneColor(kanban.DoneColorOverdue) != theme.ToneAlert {
		t.Error("overdue done color")
	}
	if theme.ToneColor(kanban.ToneNone) != theme.FaintText {
		t.Error("no deadline tone color")
	}
}
