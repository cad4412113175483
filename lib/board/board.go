// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package board

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/bureau-foundation/kanban/lib/clock"
	"github.com/bureau-foundation/kanban/lib/kanban"
)

// ErrTaskNotFound is returned for operations on a task the board has
// not loaded.
var ErrTaskNotFound = errors.New("board: task not found")

// BoardConfig holds configuration for creating a Board.
type BoardConfig struct {
	API       API
	Clock     clock.Clock
	ProjectID int64
	// Me is the current identity's user id, used by the "mine only"
	// filter.
	Me int64
	// ClearCompletionOnReopen clears completed_at and done_color when a
	// task leaves the done column.
	ClearCompletionOnReopen bool
	// Deadlines are the due-date tone thresholds. Zero means
	// kanban.DefaultDeadlineThresholds.
	Deadlines kanban.DeadlineThresholds
	// Logger is used for structured logging. If nil, slog.Default() is used.
	Logger *slog.Logger
}

// Board is the state of one project's board: the project, its tasks,
// and its participant roster.
type Board struct {
	api           API
	clock         clock.Clock
	logger        *slog.Logger
	projectID     int64
	me            int64
	clearOnReopen bool
	deadlines     kanban.DeadlineThresholds

	tasks *Store[kanban.Task]
	save  saveGuard

	mu      sync.Mutex
	project kanban.Project
	roster  []kanban.User
	filter  Filter
}

// NewBoard creates a board for one project. Call Load before use.
func NewBoard(config BoardConfig) (*Board, error) {
	if config.API == nil {
		return nil, fmt.Errorf("board: API is required")
	}
	if config.ProjectID == 0 {
		return nil, fmt.Errorf("board: project id is required")
	}
	clk := config.Clock
	if clk == nil {
		clk = clock.Real()
	}
	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}
	deadlines := config.Deadlines
	if deadlines == (kanban.DeadlineThresholds{}) {
		deadlines = kanban.DefaultDeadlineThresholds
	}
	return &Board{
		api:           config.API,
		clock:         clk,
		logger:        logger.With("project_id", config.ProjectID),
		projectID:     config.ProjectID,
		me:            config.Me,
		clearOnReopen: config.ClearCompletionOnReopen,
		deadlines:     deadlines,
		tasks:         newTaskStore(),
	}, nil
}

// Load fetches the project, its tasks and its participants
// concurrently. The project and the tasks are required; a failed user
// fetch leaves the roster empty and is only logged.
func (b *Board) Load(ctx context.Context) error {
	var (
		project                        kanban.Project
		tasks                          []kanban.Task
		users                          []kanban.User
		projectErr, tasksErr, usersErr error
		wg                             sync.WaitGroup
	)
	wg.Add(3)
	go func() {
		defer wg.Done()
		project, projectErr = b.api.GetProject(ctx, b.projectID)
	}()
	go func() {
		defer wg.Done()
		tasks, tasksErr = b.api.ListTasks(ctx, b.projectID)
	}()
	go func() {
		defer wg.Done()
		users, usersErr = b.api.ListUsers(ctx, b.projectID)
	}()
	wg.Wait()

	if projectErr != nil {
		projectErr = fmt.Errorf("board: loading project %d: %w", b.projectID, projectErr)
	}
	if tasksErr != nil {
		tasksErr = fmt.Errorf("board: loading tasks of project %d: %w", b.projectID, tasksErr)
	}
	if err := errors.Join(projectErr, tasksErr); err != nil {
		return err
	}
	if usersErr != nil {
		b.logger.Warn("participant roster unavailable", "error", usersErr)
		users = nil
	}

	b.mu.Lock()
	b.project = project
	b.roster = append([]kanban.User(nil), users...)
	b.mu.Unlock()
	b.tasks.Replace(normalizeTasks(tasks, users))

	b.logger.Debug("board loaded", "tasks", len(tasks), "participants", len(users))
	return nil
}

// Project returns the loaded project.
func (b *Board) Project() kanban.Project {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.project.Clone()
}

// Roster returns the participant users.
func (b *Board) Roster() []kanban.User {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]kanban.User(nil), b.roster...)
}

// Me returns the user id the "mine only" filter matches.
func (b *Board) Me() int64 { return b.me }

// Tasks returns every loaded task, ignoring the filter.
func (b *Board) Tasks() []kanban.Task { return b.tasks.Items() }

// Task returns one loaded task.
func (b *Board) Task(id int64) (kanban.Task, bool) { return b.tasks.Get(id) }

// Deadline returns the due-date tone of a task relative to today.
func (b *Board) Deadline(task kanban.Task) kanban.Deadline {
	return kanban.DeadlineFor(task.DueDate, clock.Today(b.clock), b.deadlines)
}

// Filter narrows the visible tasks.
type Filter struct {
	// Query matches title or description, case-insensitively.
	Query string
	// MineOnly keeps tasks whose responsible user is the current
	// identity.
	MineOnly bool
}

// Matches reports whether task passes the filter for user me.
func (f Filter) Matches(task kanban.Task, me int64) bool {
	if f.MineOnly && !task.Responsible.Is(me) {
		return false
	}
	query := strings.ToLower(strings.TrimSpace(f.Query))
	if query == "" {
		return true
	}
	return strings.Contains(strings.ToLower(task.Title), query) ||
		strings.Contains(strings.ToLower(task.Description), query)
}

// Filter returns the current filter.
func (b *Board) Filter() Filter {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.filter
}

// SetFilter replaces the current filter.
func (b *Board) SetFilter(filter Filter) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.filter = filter
}

// Visible returns the tasks passing the filter, in list order.
func (b *Board) Visible() []kanban.Task {
	filter := b.Filter()
	var visible []kanban.Task
	for _, task := range b.tasks.Items() {
		if filter.Matches(task, b.me) {
			visible = append(visible, task)
		}
	}
	return visible
}

// ColumnGroup is one board column with its visible tasks.
type ColumnGroup struct {
	Column kanban.Column
	Tasks  []kanban.Task
}

// Columns groups the visible tasks into the five columns in fixed
// order. Tasks keep their list order within a column.
func (b *Board) Columns() []ColumnGroup {
	return GroupByColumn(b.Visible())
}

// GroupByColumn groups tasks into the five columns in fixed order.
// Tasks with an unknown column are dropped.
func GroupByColumn(tasks []kanban.Task) []ColumnGroup {
	groups := make([]ColumnGroup, len(kanban.Columns))
	for index, column := range kanban.Columns {
		groups[index].Column = column
	}
	for _, task := range tasks {
		if index := task.Column.Index(); index >= 0 {
			groups[index].Tasks = append(groups[index].Tasks, task)
		}
	}
	return groups
}

// Counts are the board header figures over all loaded tasks.
type Counts struct {
	Total        int
	Active       int
	Done         int
	Participants int
}

// Counts computes the header figures.
func (b *Board) Counts() Counts {
	counts := Counts{Participants: len(b.Roster())}
	for _, task := range b.tasks.Items() {
		counts.Total++
		switch {
		case task.Column.Active():
			counts.Active++
		case task.Column == kanban.ColumnDone:
			counts.Done++
		}
	}
	return counts
}

// Move transitions a task between columns. An empty destination or a
// destination equal to the source is a no-op and issues no request.
//
// The change is applied locally before the PATCH is sent. If the PATCH
// fails the task list is restored exactly and the error returned. On
// success the task is re-fetched and merged; a failed re-fetch keeps
// the local copy.
func (b *Board) Move(ctx context.Context, taskID int64, source, dest kanban.Column) (kanban.Task, error) {
	if dest == "" || dest == source {
		task, _ := b.tasks.Get(taskID)
		return task, nil
	}
	if !dest.Valid() {
		return kanban.Task{}, fmt.Errorf("board: moving task %d: unknown column %q", taskID, dest)
	}
	current, ok := b.tasks.Get(taskID)
	if !ok {
		return kanban.Task{}, fmt.Errorf("board: moving task %d: %w", taskID, ErrTaskNotFound)
	}

	input := kanban.TaskInput{Column: &dest}
	setCompletion(&input, current, dest, current.DueDate, kanban.DateOf(clock.Today(b.clock)), b.clearOnReopen)
	moved := input.Apply(current, b.Roster())

	err := b.tasks.Mutate(ctx,
		func(tasks []kanban.Task) []kanban.Task { return b.tasks.put(tasks, moved) },
		func(ctx context.Context) error {
			_, err := b.api.UpdateTask(ctx, taskID, input)
			return err
		},
	)
	if err != nil {
		return kanban.Task{}, fmt.Errorf("board: moving task %d to %s: %w", taskID, dest, err)
	}
	b.logger.Info("task moved", "task_id", taskID, "from", source, "to", dest)

	refreshed, err := b.refresh(ctx, moved)
	if err != nil {
		b.logger.Warn("refreshing moved task failed", "task_id", taskID, "error", err)
		return moved, nil
	}
	return refreshed, nil
}

// refresh re-fetches a task, normalizes it and merges it into the
// list over local.
func (b *Board) refresh(ctx context.Context, local kanban.Task) (kanban.Task, error) {
	fresh, err := b.api.GetTask(ctx, local.ID)
	if err != nil {
		return kanban.Task{}, err
	}
	fresh.Responsible = kanban.NormalizeResponsible(fresh.Responsible, b.Roster())
	merged := mergeTask(local, fresh)
	b.tasks.Put(merged)
	return merged, nil
}

// DeleteTask removes a task optimistically, restoring the list if the
// server rejects the delete.
func (b *Board) DeleteTask(ctx context.Context, taskID int64) error {
	if _, ok := b.tasks.Get(taskID); !ok {
		return fmt.Errorf("board: deleting task %d: %w", taskID, ErrTaskNotFound)
	}
	err := b.tasks.Mutate(ctx,
		func(tasks []kanban.Task) []kanban.Task {
			tasks, _ = b.tasks.remove(tasks, taskID)
			return tasks
		},
		func(ctx context.Context) error { return b.api.DeleteTask(ctx, taskID) },
	)
	if err != nil {
		return fmt.Errorf("board: deleting task %d: %w", taskID, err)
	}
	b.logger.Info("task deleted", "task_id", taskID)
	return nil
}

// ColumnOf returns the column a task currently sits in.
func (b *Board) ColumnOf(taskID int64) (kanban.Column, bool) {
	task, ok := b.tasks.Get(taskID)
	return task.Column, ok
}

// Neighbor returns the column left (delta -1) or right (delta +1) of
// column, or "" at the edge.
func Neighbor(column kanban.Column, delta int) kanban.Column {
	index := column.Index() + delta
	if column.Index() < 0 || index < 0 || index >= len(kanban.Columns) {
		return ""
	}
	return kanban.Columns[index]
}
