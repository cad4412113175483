// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package boardui

import (
	"fmt"
	"slices"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/bureau-foundation/kanban/lib/kanban"
	"github.com/bureau-foundation/kanban/lib/tui"
)

// pickerRows is the most matches the project picker shows.
const pickerRows = 10

// projectPicker is the fuzzy "jump to project" overlay.
type projectPicker struct {
	query   prompt
	matches []tui.Ranked
	cursor  int
}

func (p *projectPicker) rank(projects []kanban.Project) {
	titles := make([]string, len(projects))
	for index, project := range projects {
		titles[index] = project.Title
	}
	p.matches = tui.RankFuzzy(titles, p.query.value())
	p.cursor = clamp(p.cursor, 0, len(p.matches)-1)
}

func (model Model) openPicker() (tea.Model, tea.Cmd) {
	picker := &projectPicker{query: newPrompt("› ", "project name")}
	picker.rank(model.projects.Projects())
	model.picker = picker
	command := picker.query.open()
	if !model.projectsLoaded {
		command = tea.Batch(command, model.loadProjectsCmd())
	}
	return model, command
}

func (model Model) handlePickerKeys(message tea.KeyMsg) (tea.Model, tea.Cmd) {
	projects := model.projects.Projects()
	switch {
	case key.Matches(message, model.keys.Back):
		model.picker = nil
	case message.Type == tea.KeyUp || message.Type == tea.KeyCtrlK:
		model.picker.cursor = clamp(model.picker.cursor-1, 0, len(model.picker.matches)-1)
	case message.Type == tea.KeyDown || message.Type == tea.KeyCtrlJ:
		model.picker.cursor = clamp(model.picker.cursor+1, 0, len(model.picker.matches)-1)
	case message.Type == tea.KeyEnter:
		picker := model.picker
		model.picker = nil
		if picker.cursor < len(picker.matches) && picker.matches[picker.cursor].Index < len(projects) {
			return model, model.openBoardCmd(projects[picker.matches[picker.cursor].Index].ID)
		}
	default:
		command := model.picker.query.update(message)
		model.picker.rank(projects)
		return model, command
	}
	return model, nil
}

// render draws the picker box with matched characters highlighted.
func (p *projectPicker) render(theme tui.Theme, projects []kanban.Project) []string {
	const width = 48
	normal := lipgloss.NewStyle().Foreground(theme.OverlayForeground).Background(theme.OverlayBackground)
	match := normal.Foreground(theme.MatchForeground).Bold(true)
	selected := lipgloss.NewStyle().Foreground(theme.SelectedForeground).Background(theme.SelectedBackground)

	content := []string{p.query.view(), ""}
	if len(p.matches) == 0 {
		content = append(content, normal.Render("no matching project"))
	}
	for row, ranked := range p.matches {
		if row >= pickerRows {
			content = append(content, normal.Render(fmt.Sprintf("… %d more", len(p.matches)-pickerRows)))
			break
		}
		if ranked.Index >= len(projects) {
			continue
		}
		base := normal
		if row == p.cursor {
			base = selected
		}
		var line strings.Builder
		for index, character := range []rune(projects[ranked.Index].Title) {
			style := base
			if slices.Contains(ranked.Positions, index) {
				style = match.Background(base.GetBackground())
			}
			line.WriteString(style.Render(string(character)))
		}
		content = append(content, line.String())
	}
	return tui.Box(theme, "Jump to project", content, width)
}
