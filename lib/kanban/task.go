// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package kanban

import (
	"sort"
	"strconv"
)

// MaxTaskImages is the most images a task may carry.
const MaxTaskImages = 4

// Task is a unit of work on a project board.
type Task struct {
	ID          int64       `json:"id"`
	Title       string      `json:"title"`
	Description string      `json:"description"`
	Column      Column      `json:"column"`
	Priority    Priority    `json:"priority"`
	Responsible Responsible `json:"responsible"`
	DueDate     Date        `json:"due_date"`
	CompletedAt Date        `json:"completed_at"`
	DoneColor   DoneColor   `json:"done_color"`
	Images      []TaskImage `json:"images"`
	Project     *ProjectRef `json:"project,omitempty"`
	// ProjectID is set by APIs that return a bare foreign key instead
	// of the embedded project reference.
	ProjectID int64 `json:"project_id,omitempty"`
}

// TaskImage is one image attached to a task. Positions are a dense
// 0-based rank within the task.
type TaskImage struct {
	ID       int64  `json:"id"`
	URL      string `json:"url"`
	Position int    `json:"position"`
}

// ProjectKey returns the id of the task's project from whichever
// field the server populated.
func (task Task) ProjectKey() int64 {
	if task.Project != nil && task.Project.ID != 0 {
		return task.Project.ID
	}
	return task.ProjectID
}

// SortedImages returns the task's images ordered by position, then id.
func (task Task) SortedImages() []TaskImage {
	images := append([]TaskImage(nil), task.Images...)
	sort.SliceStable(images, func(i, j int) bool {
		if images[i].Position != images[j].Position {
			return images[i].Position < images[j].Position
		}
		return images[i].ID < images[j].ID
	})
	return images
}

// Clone returns a deep copy, so snapshots taken before an optimistic
// update are not aliased by later edits.
func (task Task) Clone() Task {
	clone := task
	if task.Images != nil {
		clone.Images = append([]TaskImage(nil), task.Images...)
	}
	if task.Project != nil {
		project := *task.Project
		clone.Project = &project
	}
	return clone
}

// CloneTasks deep-copies a task list.
func CloneTasks(tasks []Task) []Task {
	if tasks == nil {
		return nil
	}
	clones := make([]Task, len(tasks))
	for index, task := range tasks {
		clones[index] = task.Clone()
	}
	return clones
}

// Overdue reports whether the task is not done and its due date is
// strictly before today.
func (task Task) Overdue(today Date) bool {
	return task.Column != ColumnDone && !task.DueDate.IsZero() && task.DueDate.Before(today)
}

// TaskInput is the create/update payload for a task. Nil fields are
// omitted. Clearing a date is expressed as a non-nil pointer to the
// zero Date, which encodes as null. ResponsibleID follows the same
// rule: a pointer to 0 clears the responsible user.
type TaskInput struct {
	Title         *string    `json:"title,omitempty"`
	Description   *string    `json:"description,omitempty"`
	Column        *Column    `json:"column,omitempty"`
	Priority      *Priority  `json:"priority,omitempty"`
	DueDate       *Date      `json:"due_date,omitempty"`
	ResponsibleID *NullID    `json:"responsible_id,omitempty"`
	CompletedAt   *Date      `json:"completed_at,omitempty"`
	DoneColor     *DoneColor `json:"done_color,omitempty"`
	ProjectID     int64      `json:"project_id,omitempty"`
}

// Empty reports whether no field is set.
func (input TaskInput) Empty() bool {
	return input.Title == nil && input.Description == nil && input.Column == nil &&
		input.Priority == nil && input.DueDate == nil && input.ResponsibleID == nil &&
		input.CompletedAt == nil && input.DoneColor == nil && input.ProjectID == 0
}

// Apply writes the set fields of input onto task and returns the
// result. ResponsibleID is resolved against roster the same way
// [NormalizeResponsible] resolves a bare id.
func (input TaskInput) Apply(task Task, roster []User) Task {
	next := task.Clone()
	if input.Title != nil {
		next.Title = *input.Title
	}
	if input.Description != nil {
		next.Description = *input.Description
	}
	if input.Column != nil {
		next.Column = *input.Column
	}
	if input.Priority != nil {
		next.Priority = *input.Priority
	}
	if input.DueDate != nil {
		next.DueDate = *input.DueDate
	}
	if input.ResponsibleID != nil {
		next.Responsible = NormalizeResponsible(ResponsibleByID(int64(*input.ResponsibleID)), roster)
	}
	if input.CompletedAt != nil {
		next.CompletedAt = *input.CompletedAt
	}
	if input.DoneColor != nil {
		next.DoneColor = *input.DoneColor
	}
	return next
}

// NullID is a user id where 0 encodes as JSON null.
type NullID int64

// MarshalJSON encodes 0 as null.
func (id NullID) MarshalJSON() ([]byte, error) {
	if id == 0 {
		return []byte("null"), nil
	}
	return []byte(strconv.FormatInt(int64(id), 10)), nil
}

// Ptr returns a pointer to a copy of id.
func (id NullID) Ptr() *NullID { return &id }
