// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package kanbanapi

import (
	"context"
	"fmt"
	"net/http"

	"github.com/bureau-foundation/kanban/lib/kanban"
)

func projectPath(id int64) string {
	return fmt.Sprintf("/api/projects/%d/", id)
}

// ListProjects returns every project visible to the session.
func (c *Client) ListProjects(ctx context.Context) ([]kanban.Project, error) {
	projects, err := getList[kanban.Project](ctx, c, "/api/projects/", nil)
	if err != nil {
		return nil, fmt.Errorf("kanbanapi: listing projects: %w", err)
	}
	return projects, nil
}

// GetProject returns one project.
func (c *Client) GetProject(ctx context.Context, id int64) (kanban.Project, error) {
	var project kanban.Project
	if err := c.doJSON(ctx, http.MethodGet, projectPath(id), nil, nil, &project); err != nil {
		return kanban.Project{}, fmt.Errorf("kanbanapi: fetching project %d: %w", id, err)
	}
	return project, nil
}

// CreateProject creates a project and returns the server's copy.
func (c *Client) CreateProject(ctx context.Context, input kanban.ProjectInput) (kanban.Project, error) {
	var project kanban.Project
	if err := c.doJSON(ctx, http.MethodPost, "/api/projects/", nil, input, &project); err != nil {
		return kanban.Project{}, fmt.Errorf("kanbanapi: creating project: %w", err)
	}
	return project, nil
}

// UpdateProject applies a partial update (PATCH) to a project.
func (c *Client) UpdateProject(ctx context.Context, id int64, input kanban.ProjectInput) (kanban.Project, error) {
	var project kanban.Project
	if err := c.doJSON(ctx, http.MethodPatch, projectPath(id), nil, input, &project); err != nil {
		return kanban.Project{}, fmt.Errorf("kanbanapi: updating project %d: %w", id, err)
	}
	return project, nil
}

// DeleteProject deletes a project. Any 2xx response is success.
func (c *Client) DeleteProject(ctx context.Context, id int64) error {
	if err := c.doJSON(ctx, http.MethodDelete, projectPath(id), nil, nil, nil); err != nil {
		return fmt.Errorf("kanbanapi: deleting project %d: %w", id, err)
	}
	return nil
}
