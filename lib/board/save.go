// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package board

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync/atomic"

	"github.com/bureau-foundation/kanban/lib/clock"
	"github.com/bureau-foundation/kanban/lib/imagepanel"
	"github.com/bureau-foundation/kanban/lib/kanban"
	"github.com/bureau-foundation/kanban/lib/kanbanapi"
)

// ErrSaveInProgress is returned when SaveTask is called while another
// save on the same board is still running.
var ErrSaveInProgress = errors.New("board: a save is already in progress")

type saveGuard struct{ busy atomic.Bool }

func (g *saveGuard) acquire() bool { return g.busy.CompareAndSwap(false, true) }
func (g *saveGuard) release()      { g.busy.Store(false) }

// Saving reports whether a save is running.
func (b *Board) Saving() bool { return b.save.busy.Load() }

// TaskDraft is the content of the task form. ID 0 creates a new task.
type TaskDraft struct {
	ID          int64
	Title       string
	Description string
	Column      kanban.Column
	Priority    kanban.Priority
	// ResponsibleID 0 means nobody.
	ResponsibleID int64
	// DueDate zero means no due date.
	DueDate kanban.Date
}

// DraftOf returns a draft holding task's current values.
func DraftOf(task kanban.Task) TaskDraft {
	return TaskDraft{
		ID:            task.ID,
		Title:         task.Title,
		Description:   task.Description,
		Column:        task.Column,
		Priority:      task.Priority,
		ResponsibleID: task.Responsible.ID(),
		DueDate:       task.DueDate,
	}
}

func (d TaskDraft) validate() error {
	var errs []error
	if d.Title == "" {
		errs = append(errs, errors.New("title is required"))
	}
	if d.Column != "" && !d.Column.Valid() {
		errs = append(errs, fmt.Errorf("unknown column %q", d.Column))
	}
	if d.Priority != "" && !d.Priority.Valid() {
		errs = append(errs, fmt.Errorf("unknown priority %q", d.Priority))
	}
	return errors.Join(errs...)
}

func (d TaskDraft) input() kanban.TaskInput {
	column := d.Column
	if column == "" {
		column = kanban.ColumnNew
	}
	priority := d.Priority
	if priority == "" {
		priority = kanban.DefaultPriority
	}
	return kanban.TaskInput{
		Title:         &d.Title,
		Description:   &d.Description,
		Column:        &column,
		Priority:      &priority,
		DueDate:       d.DueDate.Ptr(),
		ResponsibleID: kanban.NullID(d.ResponsibleID).Ptr(),
	}
}

// SaveResult is the outcome of a successful SaveTask.
type SaveResult struct {
	Task    kanban.Task
	Created bool
	// Steps lists the best-effort image and refresh steps in the order
	// they ran. A failed step did not roll anything back.
	Steps Steps
}

// SaveTask creates (draft.ID == 0) or edits a task and reconciles its
// images against diff.
//
// An edit is applied locally first; if the PATCH fails the list is
// restored and the error returned. The image steps that follow are
// best effort: each outcome is recorded in the result and failures
// are logged, never rolled back. A create posts the task, uploads the
// staged files at positions 0..n-1, re-fetches it, puts it first in
// the list and clears the search query.
func (b *Board) SaveTask(ctx context.Context, draft TaskDraft, diff imagepanel.Diff) (SaveResult, error) {
	if !b.save.acquire() {
		return SaveResult{}, ErrSaveInProgress
	}
	defer b.save.release()

	if err := draft.validate(); err != nil {
		return SaveResult{}, fmt.Errorf("board: invalid task: %w", err)
	}
	if draft.ID == 0 {
		return b.createTask(ctx, draft, diff)
	}
	return b.editTask(ctx, draft, diff)
}

func (b *Board) editTask(ctx context.Context, draft TaskDraft, diff imagepanel.Diff) (SaveResult, error) {
	current, ok := b.tasks.Get(draft.ID)
	if !ok {
		return SaveResult{}, fmt.Errorf("board: saving task %d: %w", draft.ID, ErrTaskNotFound)
	}

	input := draft.input()
	setCompletion(&input, current, *input.Column, draft.DueDate, kanban.DateOf(clock.Today(b.clock)), b.clearOnReopen)
	roster := b.Roster()
	edited := input.Apply(current, roster)

	var updated kanban.Task
	err := b.tasks.Mutate(ctx,
		func(tasks []kanban.Task) []kanban.Task { return b.tasks.put(tasks, edited) },
		func(ctx context.Context) error {
			var err error
			updated, err = b.api.UpdateTask(ctx, draft.ID, input)
			return err
		},
	)
	if err != nil {
		return SaveResult{}, fmt.Errorf("board: saving task %d: %w", draft.ID, err)
	}

	result := SaveResult{Task: edited}
	if !diff.Changed() {
		updated.Responsible = kanban.NormalizeResponsible(updated.Responsible, roster)
		result.Task = overlayWrite(edited, updated)
		b.tasks.Put(result.Task)
		b.logger.Info("task saved", "task_id", draft.ID)
		return result, nil
	}

	b.reconcileImages(ctx, draft.ID, diff, &result.Steps)
	result.Task = b.refreshStep(ctx, edited, &result.Steps)
	b.logger.Info("task saved", "task_id", draft.ID, "steps", len(result.Steps), "failed_steps", len(result.Steps.Failed()))
	return result, nil
}

func (b *Board) createTask(ctx context.Context, draft TaskDraft, diff imagepanel.Diff) (SaveResult, error) {
	input := draft.input()
	input.ProjectID = b.projectID
	setCompletion(&input, kanban.Task{}, *input.Column, draft.DueDate, kanban.DateOf(clock.Today(b.clock)), b.clearOnReopen)

	created, err := b.api.CreateTask(ctx, input)
	if err != nil {
		return SaveResult{}, fmt.Errorf("board: creating task: %w", err)
	}
	if created.ID == 0 {
		return SaveResult{}, errors.New("board: creating task: server response has no task id")
	}
	local := input.Apply(created, b.Roster())

	result := SaveResult{Created: true}
	for index, file := range diff.Files {
		b.upload(ctx, created.ID, index, file, &result.Steps)
	}
	// The task is not in the list yet, so the refresh prepends it.
	result.Task = b.refreshStep(ctx, local, &result.Steps)

	b.mu.Lock()
	b.filter.Query = ""
	b.mu.Unlock()

	b.logger.Info("task created", "task_id", created.ID, "images", len(diff.Files))
	return result, nil
}

// SaveImages applies an image diff to an existing task without
// sending its fields, then refreshes the task. Like the image steps of
// SaveTask, every step is best effort and recorded in the result.
func (b *Board) SaveImages(ctx context.Context, taskID int64, diff imagepanel.Diff) (SaveResult, error) {
	if !b.save.acquire() {
		return SaveResult{}, ErrSaveInProgress
	}
	defer b.save.release()

	current, ok := b.tasks.Get(taskID)
	if !ok {
		return SaveResult{}, fmt.Errorf("board: saving images of task %d: %w", taskID, ErrTaskNotFound)
	}
	result := SaveResult{Task: current}
	if !diff.Changed() {
		return result, nil
	}
	b.reconcileImages(ctx, taskID, diff, &result.Steps)
	result.Task = b.refreshStep(ctx, current, &result.Steps)
	b.logger.Info("task images saved", "task_id", taskID, "steps", len(result.Steps), "failed_steps", len(result.Steps.Failed()))
	return result, nil
}

// reconcileImages runs the image steps of an edit in order: deletions,
// a refresh to learn the image count, uploads after the existing
// images, then repositioning.
func (b *Board) reconcileImages(ctx context.Context, taskID int64, diff imagepanel.Diff, steps *Steps) {
	for _, id := range diff.DeleteIDs {
		err := b.api.DeleteTaskImage(ctx, id)
		b.record(steps, StepDeleteImage, strconv.FormatInt(id, 10), err)
	}

	if len(diff.Files) > 0 {
		count := len(diff.Reorder)
		task, err := b.api.GetTask(ctx, taskID)
		b.record(steps, StepRefresh, strconv.FormatInt(taskID, 10), err)
		if err == nil {
			count = len(task.Images)
		}
		for index, file := range diff.Files {
			b.upload(ctx, taskID, count+index, file, steps)
		}
	}

	if diff.Reordered || len(diff.DeleteIDs) > 0 {
		for _, move := range diff.Reorder {
			err := b.api.RepositionTaskImage(ctx, move.ID, move.Position)
			b.record(steps, StepReorderImage, strconv.FormatInt(move.ID, 10), err)
		}
	}
}

func (b *Board) upload(ctx context.Context, taskID int64, position int, file imagepanel.File, steps *Steps) {
	_, err := b.api.UploadTaskImage(ctx, kanbanapi.ImageUpload{
		TaskID:      taskID,
		Position:    &position,
		Filename:    file.Name,
		ContentType: file.ContentType,
		Content:     bytes.NewReader(file.Data),
	})
	b.record(steps, StepUploadImage, file.Name, err)
}

// refreshStep re-fetches a task as a recorded step and merges it over
// local. On failure local is stored instead.
func (b *Board) refreshStep(ctx context.Context, local kanban.Task, steps *Steps) kanban.Task {
	refreshed, err := b.refresh(ctx, local)
	b.record(steps, StepRefresh, strconv.FormatInt(local.ID, 10), err)
	if err != nil {
		b.tasks.Put(local)
		return local
	}
	return refreshed
}

func (b *Board) record(steps *Steps, kind StepKind, target string, err error) {
	*steps = append(*steps, StepResult{Kind: kind, Target: target, Err: err})
	if err != nil {
		b.logger.Warn("task save step failed", "step", kind, "target", target, "error", err)
	}
}
