// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package board

import (
	"context"

	"github.com/bureau-foundation/kanban/lib/kanban"
	"github.com/bureau-foundation/kanban/lib/kanbanapi"
)

// API is the part of the kanban REST API the board drives.
// *kanbanapi.Client implements it.
type API interface {
	ListProjects(ctx context.Context) ([]kanban.Project, error)
	GetProject(ctx context.Context, id int64) (kanban.Project, error)
	CreateProject(ctx context.Context, input kanban.ProjectInput) (kanban.Project, error)
	UpdateProject(ctx context.Context, id int64, input kanban.ProjectInput) (kanban.Project, error)
	DeleteProject(ctx context.Context, id int64) error

	ListTasks(ctx context.Context, projectID int64) ([]kanban.Task, error)
	GetTask(ctx context.Context, id int64) (kanban.Task, error)
	CreateTask(ctx context.Context, input kanban.TaskInput) (kanban.Task, error)
	UpdateTask(ctx context.Context, id int64, input kanban.TaskInput) (kanban.Task, error)
	DeleteTask(ctx context.Context, id int64) error

	ListUsers(ctx context.Context, projectID int64) ([]kanban.User, error)

	UploadTaskImage(ctx context.Context, upload kanbanapi.ImageUpload) (kanban.TaskImage, error)
	RepositionTaskImage(ctx context.Context, id int64, position int) error
	DeleteTaskImage(ctx context.Context, id int64) error
}

var _ API = (*kanbanapi.Client)(nil)

func newTaskStore() *Store[kanban.Task] {
	return NewStore(func(task kanban.Task) int64 { return task.ID }, kanban.Task.Clone)
}

func newProjectStore() *Store[kanban.Project] {
	return NewStore(func(project kanban.Project) int64 { return project.ID }, kanban.Project.Clone)
}

// normalizeTasks resolves every task's responsible field against the
// roster.
func normalizeTasks(tasks []kanban.Task, roster []kanban.User) []kanban.Task {
	for index := range tasks {
		tasks[index].Responsible = kanban.NormalizeResponsible(tasks[index].Responsible, roster)
	}
	return tasks
}
