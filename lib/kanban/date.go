// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package kanban

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// dateLayout is the wire format for dates.
const dateLayout = "2006-01-02"

// Date is a calendar date without time of day or zone. The zero Date
// means "no date" and encodes as JSON null.
type Date struct {
	year  int
	month time.Month
	day   int
}

// NewDate builds a Date, normalizing out-of-range values the way
// time.Date does (February 30 becomes March 1 or 2).
func NewDate(year int, month time.Month, day int) Date {
	return DateOf(time.Date(year, month, day, 0, 0, 0, 0, time.UTC))
}

// DateOf returns the calendar date of t in t's own location.
func DateOf(t time.Time) Date {
	year, month, day := t.Date()
	return Date{year: year, month: month, day: day}
}

// ParseDate parses "YYYY-MM-DD". An RFC 3339 timestamp is also
// accepted and reduced to its date part, since some endpoints return
// completion times with a time of day. The empty string yields the
// zero Date.
func ParseDate(s string) (Date, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Date{}, nil
	}
	if parsed, err := time.Parse(dateLayout, s); err == nil {
		return DateOf(parsed), nil
	}
	if parsed, err := time.Parse(time.RFC3339, s); err == nil {
		return DateOf(parsed), nil
	}
	return Date{}, fmt.Errorf("kanban: invalid date %q (want YYYY-MM-DD)", s)
}

// MustParseDate is ParseDate for literals in tests and fixtures.
func MustParseDate(s string) Date {
	date, err := ParseDate(s)
	if err != nil {
		panic(err)
	}
	return date
}

// IsZero reports whether the date is unset.
func (date Date) IsZero() bool { return date.year == 0 && date.month == 0 && date.day == 0 }

// String returns "YYYY-MM-DD", or "" for the zero Date.
func (date Date) String() string {
	if date.IsZero() {
		return ""
	}
	return fmt.Sprintf("%04d-%02d-%02d", date.year, int(date.month), date.day)
}

// In returns midnight of the date in location.
func (date Date) In(location *time.Location) time.Time {
	return time.Date(date.year, date.month, date.day, 0, 0, 0, 0, location)
}

// Compare returns -1, 0 or +1 as date is before, equal to or after
// other. The zero Date sorts first.
func (date Date) Compare(other Date) int {
	switch {
	case date.year != other.year:
		return compareInt(date.year, other.year)
	case date.month != other.month:
		return compareInt(int(date.month), int(other.month))
	default:
		return compareInt(date.day, other.day)
	}
}

// Before reports whether date is strictly before other.
func (date Date) Before(other Date) bool { return date.Compare(other) < 0 }

// After reports whether date is strictly after other.
func (date Date) After(other Date) bool { return date.Compare(other) > 0 }

// Ptr returns a pointer to a copy of date, for optional payload fields.
func (date Date) Ptr() *Date { return &date }

func compareInt(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

// MarshalJSON encodes the zero Date as null.
func (date Date) MarshalJSON() ([]byte, error) {
	if date.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(date.String())
}

// UnmarshalJSON accepts null, "" and anything ParseDate accepts.
func (date *Date) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*date = Date{}
		return nil
	}
	var text string
	if err := json.Unmarshal(data, &text); err != nil {
		return fmt.Errorf("kanban: date must be a string: %w", err)
	}
	parsed, err := ParseDate(text)
	if err != nil {
		return err
	}
	*date = parsed
	return nil
}

// MarshalText supports YAML and flag encodings.
func (date Date) MarshalText() ([]byte, error) { return []byte(date.String()), nil }

// UnmarshalText is the inverse of MarshalText.
func (date *Date) UnmarshalText(text []byte) error {
	parsed, err := ParseDate(string(text))
	if err != nil {
		return err
	}
	*date = parsed
	return nil
}
