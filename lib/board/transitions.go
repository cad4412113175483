// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package board

import (
	"github.com/bureau-foundation/kanban/lib/kanban"
)

// setCompletion fills the completion fields of input for a task that is
// being written with column dest and due date due.
//
// Entering done stamps today; a task that is already done keeps its
// completion date. The color is derived from the completion date and
// the due date being written. Leaving done sends explicit nulls when
// clearOnReopen is set, and leaves the fields alone otherwise. Any
// other write does not touch them.
func setCompletion(input *kanban.TaskInput, current kanban.Task, dest kanban.Column, due, today kanban.Date, clearOnReopen bool) {
	switch {
	case dest == kanban.ColumnDone:
		completed := today
		if current.Column == kanban.ColumnDone && !current.CompletedAt.IsZero() {
			completed = current.CompletedAt
		}
		input.CompletedAt = completed.Ptr()
		input.DoneColor = kanban.DeriveDoneColor(completed, due).Ptr()
	case current.Column == kanban.ColumnDone && clearOnReopen:
		input.CompletedAt = kanban.Date{}.Ptr()
		input.DoneColor = kanban.DoneColorNone.Ptr()
	}
}

// mergeTask combines a task re-fetched from the server with the local
// copy. The server's view wins except for completion fields it left
// empty, which keep the locally computed values.
func mergeTask(local, fresh kanban.Task) kanban.Task {
	merged := fresh.Clone()
	if merged.CompletedAt.IsZero() {
		merged.CompletedAt = local.CompletedAt
	}
	if merged.DoneColor == kanban.DoneColorNone {
		merged.DoneColor = local.DoneColor
	}
	return merged
}

// overlayWrite applies the response to a task write over the locally
// edited copy. Write responses may omit images, the project and the
// completion fields, so only what the server sent replaces local
// values. A response for another id (or an empty body) is ignored.
func overlayWrite(local, written kanban.Task) kanban.Task {
	if written.ID != local.ID {
		return local
	}
	merged := local.Clone()
	merged.Title = written.Title
	merged.Description = written.Description
	merged.DueDate = written.DueDate
	merged.Responsible = written.Responsible
	if written.Column.Valid() {
		merged.Column = written.Column
	}
	if written.Priority.Valid() {
		merged.Priority = written.Priority
	}
	if !written.CompletedAt.IsZero() {
		merged.CompletedAt = written.CompletedAt
	}
	if written.DoneColor != kanban.DoneColorNone {
		merged.DoneColor = written.DoneColor
	}
	if written.Images != nil {
		merged.Images = append([]kanban.TaskImage(nil), written.Images...)
	}
	if written.Project != nil {
		merged.Project = written.Project
	}
	if written.ProjectID != 0 {
		merged.ProjectID = written.ProjectID
	}
	return merged
}
