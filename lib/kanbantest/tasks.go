// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package kanbantest

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/bureau-foundation/kanban/lib/kanban"
)

func (b *Backend) handleListTasks(c *gin.Context) {
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
	tasks := make([]kanban.Task, 0, len(b.tasks))
	for _, record := range b.tasks {
		if projectID != 0 && record.projectID != projectID {
			continue
		}
		tasks = append(tasks, b.taskView(record))
	}
	b.mu.Unlock()
	c.JSON(http.StatusOK, tasks)
}

func (b *Backend) handleGetTask(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	record := b.findTask(id)
	if record == nil {
		notFound(c)
		return
	}
	c.JSON(http.StatusOK, b.taskView(record))
}

type taskFields map[string]json.RawMessage

func isNull(raw json.RawMessage) bool {
	return strings.TrimSpace(string(raw)) == "null"
}

// applyTask validates and applies a write payload. Caller holds b.mu.
func (b *Backend) applyTask(record *taskRecord, fields taskFields, create bool) (string, string) {
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

	if raw, ok := fields["column"]; ok {
		var column string
		_ = json.Unmarshal(raw, &column)
		if !kanban.Column(column).Valid() {
			return "column", fmt.Sprintf("%q is not a valid choice.", column)
		}
		record.column = kanban.Column(column)
	}

	if raw, ok := fields["priority"]; ok {
		var priority string
		_ = json.Unmarshal(raw, &priority)
		if !kanban.Priority(priority).Valid() {
			return "priority", fmt.Sprintf("%q is not a valid choice.", priority)
		}
		record.priority = kanban.Priority(priority)
	}

	if raw, ok := fields["due_date"]; ok {
		var due kanban.Date
		if err := json.Unmarshal(raw, &due); err != nil {
			return "due_date", "Date has wrong format. Use one of these formats instead: YYYY-MM-DD."
		}
		record.dueDate = due
	}

	if raw, ok := fields["responsible_id"]; ok {
		if isNull(raw) {
			record.responsible = 0
		} else {
			var id int64
			if err := json.Unmarshal(raw, &id); err != nil || b.findUser(id) == nil {
				return "responsible_id", fmt.Sprintf("Invalid pk \"%s\" - object does not exist.", strings.Trim(string(raw), `"`))
			}
			record.responsible = id
		}
	}

	if !b.config.IgnoreCompletionFields {
		if raw, ok := fields["completed_at"]; ok {
			var completed kanban.Date
			if err := json.Unmarshal(raw, &completed); err != nil {
				return "completed_at", "Date has wrong format. Use one of these formats instead: YYYY-MM-DD."
			}
			record.completedAt = completed
		}
		if raw, ok := fields["done_color"]; ok {
			var color kanban.DoneColor
			_ = json.Unmarshal(raw, &color)
			record.doneColor = color
		}
	}
	return "", ""
}

func (b *Backend) handleCreateTask(c *gin.Context) {
	var fields taskFields
	if err := c.ShouldBindJSON(&fields); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "JSON parse error."})
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	var projectID int64
	if raw, ok := fields["project_id"]; !ok || json.Unmarshal(raw, &projectID) != nil {
		fieldError(c, "project_id", "This field is required.")
		return
	}
	if b.findProject(projectID) == nil {
		fieldError(c, "project_id", fmt.Sprintf("Invalid pk \"%d\" - object does not exist.", projectID))
		return
	}

	record := &taskRecord{
		projectID: projectID,
		column:    kanban.ColumnNew,
		priority:  kanban.DefaultPriority,
	}
	if field, message := b.applyTask(record, fields, true); field != "" {
		fieldError(c, field, message)
		return
	}
	record.id = b.allocateID()
	b.tasks = append(b.tasks, record)
	b.writeTask(c, http.StatusCreated, record)
}

func (b *Backend) handleUpdateTask(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var fields taskFields
	if err := c.ShouldBindJSON(&fields); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "JSON parse error."})
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	record := b.findTask(id)
	if record == nil {
		notFound(c)
		return
	}
	updated := *record
	if field, message := b.applyTask(&updated, fields, false); field != "" {
		fieldError(c, field, message)
		return
	}
	*record = updated
	if b.config.EmptyTaskUpdates {
		c.Status(http.StatusOK)
		return
	}
	b.writeTask(c, http.StatusOK, record)
}

func (b *Backend) handleDeleteTask(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.findTask(id) == nil {
		notFound(c)
		return
	}
	b.tasks = removeWhere(b.tasks, func(record *taskRecord) bool { return record.id == id })
	b.images = removeWhere(b.images, func(record *imageRecord) bool { return record.taskID == id })
	c.Status(http.StatusNoContent)
}
