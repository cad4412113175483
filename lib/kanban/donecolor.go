// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package kanban

import (
	"bytes"
	"encoding/json"
	"strings"
)

// DoneColor records whether a done task finished on time. It is
// computed by the client when a task enters the done column and
// persisted alongside completed_at.
type DoneColor string

const (
	// DoneColorNone is the absent value (task not done).
	DoneColorNone DoneColor = ""
	// DoneColorNeutral: completion or due date unknown.
	DoneColorNeutral DoneColor = "gray"
	// DoneColorOnTime: completed on or before the due date.
	DoneColorOnTime DoneColor = "green"
	// DoneColorOverdue: completed after the due date.
	DoneColorOverdue DoneColor = "red"
)

// DeriveDoneColor compares a completion date with a due date at day
// granularity. A missing date on either side gives the neutral color.
// Completing on the due date itself counts as on time.
func DeriveDoneColor(completed, due Date) DoneColor {
	if completed.IsZero() || due.IsZero() {
		return DoneColorNeutral
	}
	if completed.After(due) {
		return DoneColorOverdue
	}
	return DoneColorOnTime
}

// Label returns a short description for display.
func (color DoneColor) Label() string {
	switch color {
	case DoneColorNeutral:
		return "no deadline"
	case DoneColorOnTime:
		return "on time"
	case DoneColorOverdue:
		return "late"
	}
	return ""
}

// webClasses are the stored forms of the colors. They are the CSS
// class strings the web client renders directly, so a shared server
// stays readable by both clients.
var webClasses = map[DoneColor]string{
	DoneColorNeutral: "bg-gray border border-gray text-gray-700",
	DoneColorOnTime:  "bg-[#A6FFC3] border border-green text-green-700",
	DoneColorOverdue: "bg-[#FFBCBC] border border-red text-red",
}

// Ptr returns a pointer to a copy of color.
func (color DoneColor) Ptr() *DoneColor { return &color }

// ParseDoneColor maps a stored value to a DoneColor. Besides the
// canonical names it recognizes the CSS class strings written by the
// older web client ("bg-[#A6FFC3] border border-green ..."), keyed on
// the border color class they contain.
func ParseDoneColor(s string) DoneColor {
	s = strings.TrimSpace(s)
	switch DoneColor(s) {
	case DoneColorNone, DoneColorNeutral, DoneColorOnTime, DoneColorOverdue:
		return DoneColor(s)
	}
	switch {
	case strings.Contains(s, "border-green"):
		return DoneColorOnTime
	case strings.Contains(s, "border-red"):
		return DoneColorOverdue
	case strings.Contains(s, "gray"):
		return DoneColorNeutral
	}
	return DoneColorNone
}

// MarshalJSON encodes the empty color as null and the others as their
// web class strings.
func (color DoneColor) MarshalJSON() ([]byte, error) {
	if color == DoneColorNone {
		return []byte("null"), nil
	}
	if class, ok := webClasses[color]; ok {
		return json.Marshal(class)
	}
	return json.Marshal(string(color))
}

// UnmarshalJSON accepts null and any string understood by
// ParseDoneColor.
func (color *DoneColor) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*color = DoneColorNone
		return nil
	}
	var text string
	if err := json.Unmarshal(data, &text); err != nil {
		*color = DoneColorNone
		return nil
	}
	*color = ParseDoneColor(text)
	return nil
}
