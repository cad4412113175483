// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package kanbantest

import (
	"github.com/bureau-foundation/kanban/lib/kanban"
)

// UserSpec describes a seeded account.
type UserSpec struct {
	Username    string
	Password    string
	DisplayName string
	Email       string
	Role        string
}

// AddUser creates an account and returns its public view.
func (b *Backend) AddUser(spec UserSpec) kanban.User {
	b.mu.Lock()
	defer b.mu.Unlock()
	record := &userRecord{
		user: kanban.User{
			ID:          b.allocateID(),
			Username:    spec.Username,
			DisplayName: spec.DisplayName,
			Email:       spec.Email,
		},
		password: spec.Password,
		role:     spec.Role,
	}
	b.users = append(b.users, record)
	return record.user
}

// ProjectSpec describes a seeded project.
type ProjectSpec struct {
	Title        string
	Description  string
	DueDate      kanban.Date
	Participants []int64
}

// AddProject creates a project.
func (b *Backend) AddProject(spec ProjectSpec) kanban.Project {
	b.mu.Lock()
	defer b.mu.Unlock()
	record := &projectRecord{
		id:           b.allocateID(),
		title:        spec.Title,
		description:  spec.Description,
		dueDate:      spec.DueDate,
		participants: append([]int64(nil), spec.Participants...),
	}
	b.projects = append(b.projects, record)
	return b.projectView(record)
}

// TaskSpec describes a seeded task. Zero Column and Priority default
// to new and medium.
type TaskSpec struct {
	ProjectID     int64
	Title         string
	Description   string
	Column        kanban.Column
	Priority      kanban.Priority
	ResponsibleID int64
	DueDate       kanban.Date
	CompletedAt   kanban.Date
	DoneColor     kanban.DoneColor
}

// AddTask creates a task.
func (b *Backend) AddTask(spec TaskSpec) kanban.Task {
	b.mu.Lock()
	defer b.mu.Unlock()
	record := &taskRecord{
		id:          b.allocateID(),
		projectID:   spec.ProjectID,
		title:       spec.Title,
		description: spec.Description,
		column:      spec.Column,
		priority:    spec.Priority,
		responsible: spec.ResponsibleID,
		dueDate:     spec.DueDate,
		completedAt: spec.CompletedAt,
		doneColor:   spec.DoneColor,
	}
	if record.column == "" {
		record.column = kanban.ColumnNew
	}
	if record.priority == "" {
		record.priority = kanban.DefaultPriority
	}
	b.tasks = append(b.tasks, record)
	return b.taskView(record)
}

// AddImage attaches an image to a task at position.
func (b *Backend) AddImage(taskID int64, position int, filename string, data []byte) kanban.TaskImage {
	b.mu.Lock()
	defer b.mu.Unlock()
	record := &imageRecord{
		id:          b.allocateID(),
		taskID:      taskID,
		position:    position,
		filename:    filename,
		contentType: "image/png",
		data:        append([]byte(nil), data...),
	}
	b.images = append(b.images, record)
	return imageView(record)
}

// Task returns the stored task.
func (b *Backend) Task(id int64) (kanban.Task, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	record := b.findTask(id)
	if record == nil {
		return kanban.Task{}, false
	}
	return b.taskView(record), true
}

// Tasks returns every stored task in creation order.
func (b *Backend) Tasks() []kanban.Task {
	b.mu.Lock()
	defer b.mu.Unlock()
	tasks := make([]kanban.Task, 0, len(b.tasks))
	for _, record := range b.tasks {
		tasks = append(tasks, b.taskView(record))
	}
	return tasks
}

// Project returns the stored project.
func (b *Backend) Project(id int64) (kanban.Project, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	record := b.findProject(id)
	if record == nil {
		return kanban.Project{}, false
	}
	return b.projectView(record), true
}

// ImageData returns the uploaded bytes of an image.
func (b *Backend) ImageData(id int64) ([]byte, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	record := b.findImage(id)
	if record == nil {
		return nil, false
	}
	return append([]byte(nil), record.data...), true
}

// FailNext makes the next request whose method matches and whose path
// starts with pathPrefix fail with status and body. Queued failures
// are consumed in order.
func (b *Backend) FailNext(method, pathPrefix string, status int, body string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.failures = append(b.failures, failure{method: method, path: pathPrefix, status: status, body: body})
}

// RejectCSRF rejects the next n mutating requests with a 403 CSRF
// failure regardless of the token they carry.
func (b *Backend) RejectCSRF(n int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.csrfRejections = n
}

// ExpireSessions ends every session, as a server restart or session
// timeout would.
func (b *Backend) ExpireSessions() {
	b.mu.Lock()
	defer b.mu.Unlock()
	clear(b.sessions)
}

// RotateCSRF invalidates every issued CSRF token.
func (b *Backend) RotateCSRF() {
	b.mu.Lock()
	defer b.mu.Unlock()
	clear(b.csrfTokens)
}

// Requests returns every request received so far.
func (b *Backend) Requests() []Request {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]Request(nil), b.requests...)
}

// Count returns how many requests matched method and exact path.
func (b *Backend) Count(method, path string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	count := 0
	for _, request := range b.requests {
		if request.Method == method && request.Path == path {
			count++
		}
	}
	return count
}

// CountMutations returns how many POST, PUT, PATCH or DELETE requests
// were received.
func (b *Backend) CountMutations() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	count := 0
	for _, request := range b.requests {
		if isMutating(request.Method) {
			count++
		}
	}
	return count
}

// ResetRequests clears the request log.
func (b *Backend) ResetRequests() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.requests = nil
}
