// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package kanbantest

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/bureau-foundation/kanban/lib/kanban"
)

func (b *Backend) handleListUsers(c *gin.Context) {
	var projectID int64
	if raw := c.Query("project"); raw != "" {
		parsed, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			fieldError(c, "project", "Select a valid choice.")
			return
		}
		projectID = parsed
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	users := make([]kanban.User, 0, len(b.users))
	if projectID != 0 {
		project := b.findProject(projectID)
		if project == nil {
			c.JSON(http.StatusOK, users)
			return
		}
		for _, id := range project.participants {
			if record := b.findUser(id); record != nil {
				users = append(users, record.user)
			}
		}
	} else {
		for _, record := range b.users {
			users = append(users, record.user)
		}
	}
	c.JSON(http.StatusOK, users)
}
