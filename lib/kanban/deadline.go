// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package kanban

import (
	"time"

	"github.com/bureau-foundation/kanban/lib/clock"
)

// DeadlineTone grades how close a due date is.
type DeadlineTone int

const (
	// ToneNone: the task has no due date.
	ToneNone DeadlineTone = iota
	// ToneCalm: plenty of time left.
	ToneCalm
	// ToneWarn: the deadline is approaching.
	ToneWarn
	// ToneAlert: due very soon or already past.
	ToneAlert
)

// DeadlineThresholds configure the tone boundaries in whole days.
type DeadlineThresholds struct {
	// Warn is the minimum days left for ToneCalm.
	Warn int
	// Alert is the minimum days left for ToneWarn. Anything below is
	// ToneAlert.
	Alert int
}

// DefaultDeadlineThresholds matches the board's stock behavior: five
// or more days is calm, three or four is a warning.
var DefaultDeadlineThresholds = DeadlineThresholds{Warn: 5, Alert: 3}

// Deadline is the days-left reading for a task card.
type Deadline struct {
	Tone DeadlineTone
	// DaysLeft is negative once the due date has passed. Meaningless
	// when Tone is ToneNone.
	DaysLeft int
}

// DeadlineFor computes the tone for due relative to today.
func DeadlineFor(due Date, today time.Time, thresholds DeadlineThresholds) Deadline {
	if due.IsZero() {
		return Deadline{Tone: ToneNone}
	}
	daysLeft := clock.DaysBetween(today, due.In(today.Location()))
	switch {
	case daysLeft >= thresholds.Warn:
		return Deadline{Tone: ToneCalm, DaysLeft: daysLeft}
	case daysLeft >= thresholds.Alert:
		return Deadline{Tone: ToneWarn, DaysLeft: daysLeft}
	}
	return Deadline{Tone: ToneAlert, DaysLeft: daysLeft}
}
