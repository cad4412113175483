// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package tui

import (
	"time"

	"github.com/charmbracelet/lipgloss"
)

// HeatDecayDuration is how long a card glows after a change.
const HeatDecayDuration = 3 * time.Second

// HeatTickInterval is the redraw interval while any card is hot.
const HeatTickInterval = 100 * time.Millisecond

// HeatKind selects the glow color.
type HeatKind int

const (
	// HeatPut marks a card that was moved, created or saved.
	HeatPut HeatKind = iota
	// HeatRemove marks a card whose change was rolled back.
	HeatRemove
)

type heatEntry struct {
	ignition time.Time
	kind     HeatKind
}

// HeatTracker remembers when cards last changed so the board can tint
// them for a few seconds. Heat decays linearly from 1 to 0 over
// HeatDecayDuration.
type HeatTracker struct {
	entries map[int64]heatEntry
}

// NewHeatTracker creates an empty tracker.
func NewHeatTracker() *HeatTracker {
	return &HeatTracker{entries: make(map[int64]heatEntry)}
}

// Ignite records a change to item at now, restarting its decay.
func (tracker *HeatTracker) Ignite(itemID int64, kind HeatKind, now time.Time) {
	tracker.entries[itemID] = heatEntry{ignition: now, kind: kind}
}

// Heat returns the item's intensity in [0, 1].
func (tracker *HeatTracker) Heat(itemID int64, now time.Time) float64 {
	entry, ok := tracker.entries[itemID]
	if !ok {
		return 0
	}
	elapsed := now.Sub(entry.ignition)
	if elapsed < 0 || elapsed >= HeatDecayDuration {
		return 0
	}
	return 1 - float64(elapsed)/float64(HeatDecayDuration)
}

// Accent returns the tint for a hot item and true, or false when the
// item is cold. Items above half heat get the full accent.
func (tracker *HeatTracker) Accent(theme Theme, itemID int64, now time.Time) (lipgloss.Color, bool) {
	heat := tracker.Heat(itemID, now)
	if heat <= 0 {
		return "", false
	}
	if tracker.entries[itemID].kind == HeatRemove {
		return theme.HotAccentRemove, true
	}
	if heat < 0.5 {
		return theme.SelectedBackground, true
	}
	return theme.HotAccentPut, true
}

// HasHot reports whether any item still glows, dropping cold entries.
func (tracker *HeatTracker) HasHot(now time.Time) bool {
	hot := false
	for itemID, entry := range tracker.entries {
		if now.Sub(entry.ignition) < HeatDecayDuration {
			hot = true
			continue
		}
		delete(tracker.entries, itemID)
	}
	return hot
}
