// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package kanban

import "fmt"

// Column is a task's board column and its sole status.
type Column string

const (
	ColumnNew        Column = "new"
	ColumnInProgress Column = "in_progress"
	ColumnTesting    Column = "testing"
	ColumnReview     Column = "review"
	ColumnDone       Column = "done"
)

// Columns lists the five board columns in display order.
var Columns = []Column{ColumnNew, ColumnInProgress, ColumnTesting, ColumnReview, ColumnDone}

var columnLabels = map[Column]string{
	ColumnNew:        "New",
	ColumnInProgress: "In progress",
	ColumnTesting:    "Testing",
	ColumnReview:     "Review",
	ColumnDone:       "Done",
}

// Valid reports whether column is one of the five known columns.
func (column Column) Valid() bool {
	_, ok := columnLabels[column]
	return ok
}

// Label returns the human-readable column name.
func (column Column) Label() string {
	if label, ok := columnLabels[column]; ok {
		return label
	}
	return string(column)
}

// Active reports whether the column counts as work underway:
// in_progress, testing or review.
func (column Column) Active() bool {
	switch column {
	case ColumnInProgress, ColumnTesting, ColumnReview:
		return true
	}
	return false
}

// Index returns the column's position in [Columns], or -1.
func (column Column) Index() int {
	for index, candidate := range Columns {
		if candidate == column {
			return index
		}
	}
	return -1
}

// ParseColumn validates s as a column name.
func ParseColumn(s string) (Column, error) {
	column := Column(s)
	if !column.Valid() {
		return "", fmt.Errorf("kanban: unknown column %q (want one of new, in_progress, testing, review, done)", s)
	}
	return column, nil
}
