// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package kanbantest

import (
	"time"

	"github.com/bureau-foundation/kanban/lib/kanban"
)

// DemoPassword is the password of every SeedDemo account.
const DemoPassword = "kanban"

// SeedDemo fills the backend with a small team, two projects and tasks
// spread across every column, with due dates relative to today.
func (b *Backend) SeedDemo(today time.Time) {
	day := func(offset int) kanban.Date {
		return kanban.DateOf(today.AddDate(0, 0, offset))
	}

	ada := b.AddUser(UserSpec{Username: "ada", Password: DemoPassword, DisplayName: "Ada Lovelace", Email: "ada@example.com", Role: "Manager"})
	linus := b.AddUser(UserSpec{Username: "linus", Password: DemoPassword, Email: "linus@example.com", Role: "Developer"})
	grace := b.AddUser(UserSpec{Username: "grace", Password: DemoPassword, DisplayName: "Grace Hopper", Role: "Developer"})

	launch := b.AddProject(ProjectSpec{
		Title:        "Website relaunch",
		Description:  "New marketing site and **docs** portal.",
		DueDate:      day(21),
		Participants: []int64{ada.ID, linus.ID, grace.ID},
	})
	billing := b.AddProject(ProjectSpec{
		Title:        "Billing migration",
		Description:  "Move invoices to the new provider.",
		DueDate:      day(45),
		Participants: []int64{ada.ID, grace.ID},
	})

	tasks := []TaskSpec{
		{ProjectID: launch.ID, Title: "Draft sitemap", Column: kanban.ColumnDone, Priority: kanban.PriorityMedium,
			ResponsibleID: ada.ID, DueDate: day(-6), CompletedAt: day(-7), DoneColor: kanban.DoneColorOnTime},
		{ProjectID: launch.ID, Title: "Pick typography", Column: kanban.ColumnDone, Priority: kanban.PriorityLow,
			ResponsibleID: grace.ID, DueDate: day(-4), CompletedAt: day(-2), DoneColor: kanban.DoneColorOverdue},
		{ProjectID: launch.ID, Title: "Build landing page", Column: kanban.ColumnInProgress, Priority: kanban.PriorityHigh,
			ResponsibleID: linus.ID, DueDate: day(2),
			Description: "Hero, pricing table and footer.\n\n```css\n.hero { display: grid; }\n```"},
		{ProjectID: launch.ID, Title: "Accessibility audit", Column: kanban.ColumnTesting, Priority: kanban.PriorityCritical,
			ResponsibleID: ada.ID, DueDate: day(-1)},
		{ProjectID: launch.ID, Title: "Copy review", Column: kanban.ColumnReview, Priority: kanban.PriorityMedium,
			ResponsibleID: grace.ID, DueDate: day(4)},
		{ProjectID: launch.ID, Title: "Set up analytics", Column: kanban.ColumnNew, Priority: kanban.PriorityLow, DueDate: day(10)},
		{ProjectID: billing.ID, Title: "Export invoices", Column: kanban.ColumnNew, Priority: kanban.PriorityHigh,
			ResponsibleID: ada.ID, DueDate: day(7)},
		{ProjectID: billing.ID, Title: "Map tax codes", Column: kanban.ColumnInProgress, Priority: kanban.PriorityMedium,
			ResponsibleID: grace.ID},
	}
	for _, spec := range tasks {
		b.AddTask(spec)
	}
}
