// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package board

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/bureau-foundation/kanban/lib/clock"
	"github.com/bureau-foundation/kanban/lib/kanban"
)

// ColumnCounts tallies tasks by board stage.
type ColumnCounts struct {
	Total int `json:"total"`
	New   int `json:"new"`
	// Active counts in_progress, testing and review.
	Active int `json:"active"`
	Done   int `json:"done"`
}

func (c *ColumnCounts) add(task kanban.Task) {
	c.Total++
	switch {
	case task.Column == kanban.ColumnNew:
		c.New++
	case task.Column.Active():
		c.Active++
	case task.Column == kanban.ColumnDone:
		c.Done++
	}
}

// CardMetrics are the figures on a project card.
type CardMetrics struct {
	All  ColumnCounts `json:"all"`
	Mine ColumnCounts `json:"mine"`
	// OverdueMine counts my tasks that are not done and whose due date
	// is before today.
	OverdueMine int `json:"overdue_mine"`
	// Progress is round(done / total * 100), 0 for an empty project.
	Progress int `json:"progress"`
	// Participants is the size of the project's participant list.
	Participants int `json:"participants"`
}

// ComputeCardMetrics derives a project card from the project's tasks.
// me is the current identity's user id; today is any instant of the
// current local day.
func ComputeCardMetrics(tasks []kanban.Task, project kanban.Project, me int64, today time.Time) CardMetrics {
	metrics := CardMetrics{Participants: len(project.Participants)}
	todayDate := kanban.DateOf(today)

	for _, task := range tasks {
		metrics.All.add(task)
		if !task.Responsible.Is(me) {
			continue
		}
		metrics.Mine.add(task)
		if task.Overdue(todayDate) {
			metrics.OverdueMine++
		}
	}
	metrics.Progress = Progress(metrics.All.Done, metrics.All.Total)
	return metrics
}

// Progress returns round(done / total * 100), or 0 when total is 0.
func Progress(done, total int) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(float64(done) * 100 / float64(total)))
}

// LoadCard fetches a project's tasks and computes its card metrics.
func LoadCard(ctx context.Context, api API, project kanban.Project, me int64, clk clock.Clock) (CardMetrics, error) {
	tasks, err := api.ListTasks(ctx, project.ID)
	if err != nil {
		return CardMetrics{Participants: len(project.Participants)}, fmt.Errorf("board: loading card for project %d: %w", project.ID, err)
	}
	return ComputeCardMetrics(tasks, project, me, clock.Today(clk)), nil
}
