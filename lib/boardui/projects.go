// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package boardui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/bureau-foundation/kanban/lib/board"
	"github.com/bureau-foundation/kanban/lib/kanban"
)

// projectCardHeight is the rows one project card takes, including
// the spacer.
const projectCardHeight = 3

func (model Model) selectedProject() (kanban.Project, bool) {
	projects := model.projects.Projects()
	if model.projectCursor < 0 || model.projectCursor >= len(projects) {
		return kanban.Project{}, false
	}
	return projects[model.projectCursor], true
}

func (model Model) handleProjectKeys(message tea.KeyMsg) (tea.Model, tea.Cmd) {
	if model.projectPrompt != nil {
		switch {
		case message.Type == tea.KeyEnter:
			title := model.projectPrompt.value()
			model.projectPrompt = nil
			if title == "" {
				return model, nil
			}
			return model, model.createProjectCmd(title)
		case key.Matches(message, model.keys.Back):
			model.projectPrompt = nil
			return model, nil
		}
		return model, model.projectPrompt.update(message)
	}

	count := len(model.projects.Projects())
	switch {
	case key.Matches(message, model.keys.Quit):
		return model, tea.Quit

	case key.Matches(message, model.keys.Up):
		model.projectCursor = clamp(model.projectCursor-1, 0, count-1)

	case key.Matches(message, model.keys.Down):
		model.projectCursor = clamp(model.projectCursor+1, 0, count-1)

	case key.Matches(message, model.keys.Open):
		if project, ok := model.selectedProject(); ok {
			return model, model.openBoardCmd(project.ID)
		}

	case key.Matches(message, model.keys.New):
		created := newPrompt("Title: ", "new project title")
		model.projectPrompt = &created
		return model, model.projectPrompt.open()

	case key.Matches(message, model.keys.Delete):
		if project, ok := model.selectedProject(); ok {
			model.confirm = &confirmation{
				prompt: fmt.Sprintf("Delete project %q and all its tasks?", project.Title),
				accept: func() tea.Cmd { return model.deleteProjectCmd(project) },
			}
		}

	case key.Matches(message, model.keys.Refresh):
		return model, model.loadProjectsCmd()

	case key.Matches(message, model.keys.Jump):
		return model.openPicker()
	}
	return model, nil
}

func (model Model) renderProjects() string {
	header := lipgloss.NewStyle().Bold(true).Foreground(model.theme.HeaderForeground)
	faint := lipgloss.NewStyle().Foreground(model.theme.FaintText)

	lines := []string{
		header.Render(" Projects") + faint.Render(fmt.Sprintf("  signed in as %s (%s)", model.identity.Name(), model.identity.RoleLabel())),
		model.renderTiles(),
		"",
	}
	if model.projectPrompt != nil {
		lines = append(lines, " "+model.projectPrompt.view(), "")
	}

	projects := model.projects.Projects()
	if len(projects) == 0 {
		message := " Loading projects…"
		if model.projectsLoaded {
			message = " No projects yet. Press n to create one."
		}
		return strings.Join(append(lines, faint.Render(message)), "\n")
	}

	byProject := make(map[int64][]kanban.Task)
	for _, task := range model.projects.Tasks() {
		byProject[task.ProjectKey()] = append(byProject[task.ProjectKey()], task)
	}

	visible := max(1, (model.height-1-len(lines))/projectCardHeight)
	offset := max(0, model.projectCursor-visible+1)
	now := model.clock.Now()
	for index := offset; index < len(projects) && index < offset+visible; index++ {
		project := projects[index]
		metrics := board.ComputeCardMetrics(byProject[project.ID], project, model.identity.ID, now)
		lines = append(lines, model.renderProjectCard(project, metrics, index == model.projectCursor)...)
	}
	return strings.Join(lines, "\n")
}

// renderTiles draws the four "my work" aggregates.
func (model Model) renderTiles() string {
	aggregates := model.projects.Aggregates(model.identity.ID)
	label := lipgloss.NewStyle().Foreground(model.theme.FaintText)
	value := lipgloss.NewStyle().Bold(true).Foreground(model.theme.NormalText)
	alert := value.Foreground(model.theme.ToneAlert)

	overdue := value
	if aggregates.Overdue > 0 {
		overdue = alert
	}
	tiles := []string{
		label.Render("Projects ") + value.Render(fmt.Sprint(aggregates.Projects)),
		label.Render("Active ") + value.Render(fmt.Sprint(aggregates.Active)),
		label.Render("In progress ") + value.Render(fmt.Sprint(aggregates.InProgress)),
		label.Render("Overdue ") + overdue.Render(fmt.Sprint(aggregates.Overdue)),
	}
	return " " + strings.Join(tiles, label.Render("   │   "))
}

func (model Model) renderProjectCard(project kanban.Project, metrics board.CardMetrics, selected bool) []string {
	width := max(20, model.width)
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(model.theme.NormalText)
	faint := lipgloss.NewStyle().Foreground(model.theme.FaintText)
	marker := "  "
	if selected {
		titleStyle = titleStyle.Foreground(model.theme.SelectedForeground).Background(model.theme.SelectedBackground)
		marker = lipgloss.NewStyle().Foreground(model.theme.FocusBorder).Render("▌ ")
	}

	title := titleStyle.Render(project.Title)
	if !project.DueDate.IsZero() {
		title += faint.Render("  due " + project.DueDate.String())
	}

	bar := progressBar(metrics.Progress, 10, model.theme.ToneCalm, model.theme.BorderColor)
	summary := fmt.Sprintf(" %3d%%  %d tasks · %d done · %d mine", metrics.Progress, metrics.All.Total, metrics.All.Done, metrics.Mine.Total)
	if metrics.OverdueMine > 0 {
		summary += lipgloss.NewStyle().Foreground(model.theme.ToneAlert).Render(fmt.Sprintf(" · %d overdue", metrics.OverdueMine))
	}
	summary += faint.Render(fmt.Sprintf(" · %d people", metrics.Participants))

	return []string{
		ansi.Truncate(marker+title, width, "…"),
		ansi.Truncate("  "+bar+summary, width, "…"),
		"",
	}
}

// progressBar renders percent as a bar of width cells.
func progressBar(percent, width int, fill, empty lipgloss.Color) string {
	filled := clamp(percent*width/100, 0, width)
	return lipgloss.NewStyle().Foreground(fill).Render(strings.Repeat("█", filled)) +
		lipgloss.NewStyle().Foreground(empty).Render(strings.Repeat("░", width-filled))
}
