// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package clock provides an injectable wall clock and calendar-day
// helpers.
//
// Board metrics, deadline tones and completion dates all depend on
// "today at local midnight". Code that needs the current date accepts a
// Clock instead of calling time.Now directly, so tests can pin the day:
//
//	c := clock.Fake(time.Date(2024, 1, 10, 15, 0, 0, 0, time.Local))
//	today := clock.Today(c) // 2024-01-10 00:00 local
package clock
