// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package kanbantest

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/bureau-foundation/kanban/lib/kanban"
)

func (b *Backend) handleListProjects(c *gin.Context) {
	b.mu.Lock()
	projects := make([]kanban.Project, 0, len(b.projects))
	for _, record := range b.projects {
		projects = append(projects, b.projectView(record))
	}
	b.mu.Unlock()
	c.JSON(http.StatusOK, projects)
}

func (b *Backend) handleGetProject(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	record := b.findProject(id)
	if record == nil {
		notFound(c)
		return
	}
	c.JSON(http.StatusOK, b.projectView(record))
}

// projectFields is a decoded project write payload. Absent keys stay
// nil; JSON null decodes to a non-nil empty message.
type projectFields map[string]json.RawMessage

// applyProject validates and applies a write payload. Caller holds
// b.mu. Returns the offending field and message on error.
func (b *Backend) applyProject(record *projectRecord, fields projectFields, create bool) (string, string) {
	if raw, ok := fields["title"]; ok {
		var title string
		if err := json.Unmarshal(raw, &title); err != nil || strings.TrimSpace(title) == "" {
			return "title", "This field may not be blank."
		}
		record.title = title
	} else if create {
		return "title", "This field is required."
	}
	if raw, ok := fields["description"]; ok {
		var description *string
		if err := json.Unmarshal(raw, &description); err != nil {
			return "description", "Not a valid string."
		}
		record.description = ""
		if description != nil {
			record.description = *description
		}
	}
	if raw, ok := fields["due_date"]; ok {
		var due kanban.Date
		if err := json.Unmarshal(raw, &due); err != nil {
			return "due_date", "Date has wrong format. Use one of these formats instead: YYYY-MM-DD."
		}
		record.dueDate = due
	}
	if raw, ok := fields["participants"]; ok {
		var ids []int64
		if err := json.Unmarshal(raw, &ids); err != nil {
			return "participants", "Expected a list of items."
		}
		for _, id := range ids {
			if b.findUser(id) == nil {
				return "participants", fmt.Sprintf("Invalid pk \"%d\" - object does not exist.", id)
			}
		}
		record.participants = ids
	}
	return "", ""
}

func (b *Backend) handleCreateProject(c *gin.Context) {
	var fields projectFields
	if err := c.ShouldBindJSON(&fields); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "JSON parse error."})
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	record := &projectRecord{}
	if field, message := b.applyProject(record, fields, true); field != "" {
		fieldError(c, field, message)
		return
	}
	record.id = b.allocateID()
	b.projects = append(b.projects, record)
	c.JSON(http.StatusCreated, b.projectView(record))
}

func (b *Backend) handleUpdateProject(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var fields projectFields
	if err := c.ShouldBindJSON(&fields); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "JSON parse error."})
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	record := b.findProject(id)
	if record == nil {
		notFound(c)
		return
	}
	updated := *record
	updated.participants = append([]int64(nil), record.participants...)
	if field, message := b.applyProject(&updated, fields, false); field != "" {
		fieldError(c, field, message)
		return
	}
	*record = updated
	c.JSON(http.StatusOK, b.projectView(record))
}

func (b *Backend) handleDeleteProject(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if b.findProject(id) == nil {
		notFound(c)
		return
	}
	b.projects = removeWhere(b.projects, func(record *projectRecord) bool { return record.id == id })
	var taskIDs = make(map[int64]bool)
	for _, task := range b.tasks {
		if task.projectID == id {
			taskIDs[task.id] = true
		}
	}
	b.tasks = removeWhere(b.tasks, func(record *taskRecord) bool { return taskIDs[record.id] })
	b.images = removeWhere(b.images, func(record *imageRecord) bool { return taskIDs[record.taskID] })
	c.Status(http.StatusNoContent)
}

func removeWhere[T any](items []T, match func(T) bool) []T {
	kept := items[:0]
	for _, item := range items {
		if !match(item) {
			kept = append(kept, item)
		}
	}
	return kept
}
