// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package clock

import "time"

// Clock abstracts the current time. Production code injects Real();
// tests inject Fake() with a pinned instant.
type Clock interface {
	// Now returns the current time in the clock's location.
	Now() time.Time
}

// Today returns local midnight of the clock's current day. All date
// comparisons in the board are made against this value.
func Today(c Clock) time.Time {
	return Midnight(c.Now())
}

// Midnight truncates t to 00:00 of its own calendar day in t's
// location. time.Truncate cannot be used here because it operates on
// absolute time and ignores the zone offset.
func Midnight(t time.Time) time.Time {
	year, month, day := t.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, t.Location())
}

// DaysBetween returns the number of whole calendar days from a to b
// (negative when b is before a). Both values are reduced to midnight
// in a's location first, so DST shifts do not produce off-by-one
// results.
func DaysBetween(a, b time.Time) int {
	location := a.Location()
	from := Midnight(a)
	to := Midnight(b.In(location))
	// Use UTC dates to count days; local midnights can be 23 or 25
	// hours apart around DST transitions.
	fromUTC := time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, time.UTC)
	toUTC := time.Date(to.Year(), to.Month(), to.Day(), 0, 0, 0, 0, time.UTC)
	return int(toUTC.Sub(fromUTC).Hours() / 24)
}
