// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"fmt"
	"time"

	"github.com/bureau-foundation/kanban/lib/kanban"
)

// DueLabel renders a due date with its distance from today, e.g.
// "2024-03-01 (in 3 days)" or "2024-02-27 (2 days ago)". A zero date
// renders as "-".
func DueLabel(due kanban.Date, today time.Time) string {
	if due.IsZero() {
		return "-"
	}
	days := kanban.DeadlineFor(due, today, kanban.DefaultDeadlineThresholds).DaysLeft
	switch {
	case days == 0:
		return due.String() + " (today)"
	case days == 1:
		return due.String() + " (tomorrow)"
	case days > 1:
		return fmt.Sprintf("%s (in %d days)", due, days)
	case days == -1:
		return due.String() + " (yesterday)"
	}
	return fmt.Sprintf("%s (%d days ago)", due, -days)
}

// OrDash returns value, or "-" when it is empty.
func OrDash(value string) string {
	if value == "" {
		return "-"
	}
	return value
}
