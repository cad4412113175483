// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package kanbanapi

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/bureau-foundation/kanban/lib/kanban"
)

func taskPath(id int64) string {
	return fmt.Sprintf("/api/tasks/%d/", id)
}

func projectQuery(projectID int64) url.Values {
	if projectID == 0 {
		return nil
	}
	return url.Values{"project": {strconv.FormatInt(projectID, 10)}}
}

// ListTasks returns tasks, scoped to one project when projectID is
// non-zero and across all projects otherwise.
func (c *Client) ListTasks(ctx context.Context, projectID int64) ([]kanban.Task, error) {
	tasks, err := getList[kanban.Task](ctx, c, "/api/tasks/", projectQuery(projectID))
	if err != nil {
		if projectID != 0 {
			return nil, fmt.Errorf("kanbanapi: listing tasks for project %d: %w", projectID, err)
		}
		return nil, fmt.Errorf("kanbanapi: listing tasks: %w", err)
	}
	return tasks, nil
}

// GetTask returns one task including its images.
func (c *Client) GetTask(ctx context.Context, id int64) (kanban.Task, error) {
	var task kanban.Task
	if err := c.doJSON(ctx, http.MethodGet, taskPath(id), nil, nil, &task); err != nil {
		return kanban.Task{}, fmt.Errorf("kanbanapi: fetching task %d: %w", id, err)
	}
	return task, nil
}

// CreateTask creates a task. input.ProjectID is required.
func (c *Client) CreateTask(ctx context.Context, input kanban.TaskInput) (kanban.Task, error) {
	if input.ProjectID == 0 {
		return kanban.Task{}, fmt.Errorf("kanbanapi: creating task: project id is required")
	}
	var task kanban.Task
	if err := c.doJSON(ctx, http.MethodPost, "/api/tasks/", nil, input, &task); err != nil {
		return kanban.Task{}, fmt.Errorf("kanbanapi: creating task: %w", err)
	}
	return task, nil
}

// UpdateTask applies a partial update (PATCH) to a task and returns the
// server's response. Some deployments answer with a reduced body; callers
// that need the full task re-fetch it with GetTask.
func (c *Client) UpdateTask(ctx context.Context, id int64, input kanban.TaskInput) (kanban.Task, error) {
	var task kanban.Task
	if err := c.doJSON(ctx, http.MethodPatch, taskPath(id), nil, input, &task); err != nil {
		return kanban.Task{}, fmt.Errorf("kanbanapi: updating task %d: %w", id, err)
	}
	return task, nil
}

// DeleteTask deletes a task. Any 2xx response is success.
func (c *Client) DeleteTask(ctx context.Context, id int64) error {
	if err := c.doJSON(ctx, http.MethodDelete, taskPath(id), nil, nil, nil); err != nil {
		return fmt.Errorf("kanbanapi: deleting task %d: %w", id, err)
	}
	return nil
}
