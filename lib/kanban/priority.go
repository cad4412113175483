// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package kanban

import "fmt"

// Priority is a task's urgency level.
type Priority string

const (
	PriorityLow      Priority = "low"
	PriorityMedium   Priority = "medium"
	PriorityHigh     Priority = "high"
	PriorityCritical Priority = "critical"
)

// DefaultPriority is used for new tasks when none is given.
const DefaultPriority = PriorityMedium

// Priorities lists the priorities from least to most urgent.
var Priorities = []Priority{PriorityLow, PriorityMedium, PriorityHigh, PriorityCritical}

// Valid reports whether priority is a known level.
func (priority Priority) Valid() bool {
	switch priority {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityCritical:
		return true
	}
	return false
}

// Label returns the human-readable priority name.
func (priority Priority) Label() string {
	switch priority {
	case PriorityLow:
		return "Low"
	case PriorityMedium:
		return "Medium"
	case PriorityHigh:
		return "High"
	case PriorityCritical:
		return "Critical"
	}
	return string(priority)
}

// Rank orders priorities, 0 for low through 3 for critical. Unknown
// values rank -1.
func (priority Priority) Rank() int {
	for index, candidate := range Priorities {
		if candidate == priority {
			return index
		}
	}
	return -1
}

// ParsePriority validates s as a priority name.
func ParsePriority(s string) (Priority, error) {
	priority := Priority(s)
	if !priority.Valid() {
		return "", fmt.Errorf("kanban: unknown priority %q (want one of low, medium, high, critical)", s)
	}
	return priority, nil
}
