// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package board

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/bureau-foundation/kanban/lib/clock"
	"github.com/bureau-foundation/kanban/lib/kanban"
)

// ProjectListConfig holds configuration for creating a ProjectList.
type ProjectListConfig struct {
	API   API
	Clock clock.Clock
	// Logger is used for structured logging. If nil, slog.Default() is used.
	Logger *slog.Logger
}

// ProjectList is the project overview: every project, every user, and
// every task for the "my work" tiles.
type ProjectList struct {
	api    API
	clock  clock.Clock
	logger *slog.Logger

	projects *Store[kanban.Project]
	tasks    *Store[kanban.Task]

	mu    sync.Mutex
	users []kanban.User
}

// NewProjectList creates an empty project list.
func NewProjectList(config ProjectListConfig) (*ProjectList, error) {
	if config.API == nil {
		return nil, fmt.Errorf("board: API is required")
	}
	clk := config.Clock
	if clk == nil {
		clk = clock.Real()
	}
	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &ProjectList{
		api:      config.API,
		clock:    clk,
		logger:   logger,
		projects: newProjectStore(),
		tasks:    newTaskStore(),
	}, nil
}

// LoadResult reports the outcome of each source of a concurrent load.
// A failed source was replaced by an empty list.
type LoadResult struct {
	Projects error
	Users    error
	Tasks    error
}

// Err joins the per-source failures, or returns nil.
func (r LoadResult) Err() error {
	return errors.Join(r.Projects, r.Users, r.Tasks)
}

// Load fetches projects, users and all tasks concurrently. Each source
// fails independently: a failed source becomes an empty list and its
// error is reported in the result.
func (l *ProjectList) Load(ctx context.Context) LoadResult {
	var (
		result   LoadResult
		projects []kanban.Project
		users    []kanban.User
		tasks    []kanban.Task
		wg       sync.WaitGroup
	)

	wg.Add(3)
	go func() {
		defer wg.Done()
		projects, result.Projects = l.api.ListProjects(ctx)
	}()
	go func() {
		defer wg.Done()
		users, result.Users = l.api.ListUsers(ctx, 0)
	}()
	go func() {
		defer wg.Done()
		tasks, result.Tasks = l.api.ListTasks(ctx, 0)
	}()
	wg.Wait()

	for name, err := range map[string]error{"projects": result.Projects, "users": result.Users, "tasks": result.Tasks} {
		if err != nil {
			l.logger.Warn("project list source failed to load", "source", name, "error", err)
		}
	}
	if result.Projects != nil {
		projects = nil
	}
	if result.Users != nil {
		users = nil
	}
	if result.Tasks != nil {
		tasks = nil
	}

	l.mu.Lock()
	l.users = append([]kanban.User(nil), users...)
	l.mu.Unlock()
	l.projects.Replace(projects)
	l.tasks.Replace(normalizeTasks(tasks, users))
	return result
}

// Reset drops all loaded state, e.g. after logout.
func (l *ProjectList) Reset() {
	l.mu.Lock()
	l.users = nil
	l.mu.Unlock()
	l.projects.Replace(nil)
	l.tasks.Replace(nil)
}

// Projects returns the loaded projects, newest first after Create.
func (l *ProjectList) Projects() []kanban.Project { return l.projects.Items() }

// Project returns one loaded project.
func (l *ProjectList) Project(id int64) (kanban.Project, bool) { return l.projects.Get(id) }

// Tasks returns every loaded task.
func (l *ProjectList) Tasks() []kanban.Task { return l.tasks.Items() }

// Users returns every loaded user.
func (l *ProjectList) Users() []kanban.User {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]kanban.User(nil), l.users...)
}

// Aggregates are the summary tiles above the project grid.
type Aggregates struct {
	// Projects counts every project, regardless of owner.
	Projects int `json:"projects"`
	// Active counts my tasks that are not done.
	Active int `json:"active"`
	// InProgress counts my tasks past new and not done.
	InProgress int `json:"in_progress"`
	// Overdue counts my tasks that are not done and past due.
	Overdue int `json:"overdue"`
}

// Aggregates computes the tiles for user me over the loaded tasks.
func (l *ProjectList) Aggregates(me int64) Aggregates {
	return ComputeAggregates(l.projects.Len(), l.tasks.Items(), me, clock.Today(l.clock))
}

// ComputeAggregates is the pure form of ProjectList.Aggregates.
func ComputeAggregates(projectCount int, tasks []kanban.Task, me int64, today time.Time) Aggregates {
	aggregates := Aggregates{Projects: projectCount}
	todayDate := kanban.DateOf(today)
	for _, task := range tasks {
		if !task.Responsible.Is(me) || task.Column == kanban.ColumnDone {
			continue
		}
		aggregates.Active++
		if task.Column != kanban.ColumnNew {
			aggregates.InProgress++
		}
		if task.Overdue(todayDate) {
			aggregates.Overdue++
		}
	}
	return aggregates
}

// Create creates a project and puts it first in the list.
func (l *ProjectList) Create(ctx context.Context, input kanban.ProjectInput) (kanban.Project, error) {
	project, err := l.api.CreateProject(ctx, input)
	if err != nil {
		return kanban.Project{}, fmt.Errorf("board: creating project: %w", err)
	}
	l.projects.Prepend(project)
	return project, nil
}

// Edit updates a project and replaces it in the list.
func (l *ProjectList) Edit(ctx context.Context, id int64, input kanban.ProjectInput) (kanban.Project, error) {
	project, err := l.api.UpdateProject(ctx, id, input)
	if err != nil {
		return kanban.Project{}, fmt.Errorf("board: updating project %d: %w", id, err)
	}
	l.projects.Put(project)
	return project, nil
}

// SetParticipants replaces a project's participant list.
func (l *ProjectList) SetParticipants(ctx context.Context, id int64, userIDs []int64) (kanban.Project, error) {
	ids := append([]int64{}, userIDs...)
	return l.Edit(ctx, id, kanban.ProjectInput{Participants: &ids})
}

// Delete removes a project optimistically. If the server rejects the
// delete, the list is restored and the error returned.
func (l *ProjectList) Delete(ctx context.Context, id int64) error {
	err := l.projects.Mutate(ctx,
		func(projects []kanban.Project) []kanban.Project {
			projects, _ = l.projects.remove(projects, id)
			return projects
		},
		func(ctx context.Context) error { return l.api.DeleteProject(ctx, id) },
	)
	if err != nil {
		return fmt.Errorf("board: deleting project %d: %w", id, err)
	}
	l.tasks.Update(func(tasks []kanban.Task) []kanban.Task {
		kept := tasks[:0]
		for _, task := range tasks {
			if task.ProjectKey() != id {
				kept = append(kept, task)
			}
		}
		return kept
	})
	return nil
}
