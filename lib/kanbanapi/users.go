// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package kanbanapi

import (
	"context"
	"fmt"

	"github.com/bureau-foundation/kanban/lib/kanban"
)

// ListUsers returns all users, or only the participants of a project
// when projectID is non-zero.
func (c *Client) ListUsers(ctx context.Context, projectID int64) ([]kanban.User, error) {
	users, err := getList[kanban.User](ctx, c, "/api/users/", projectQuery(projectID))
	if err != nil {
		return nil, fmt.Errorf("kanbanapi: listing users: %w", err)
	}
	return users, nil
}
