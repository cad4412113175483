// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package boardui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/bureau-foundation/kanban/lib/board"
	"github.com/bureau-foundation/kanban/lib/imagepanel"
	"github.com/bureau-foundation/kanban/lib/kanban"
	"github.com/bureau-foundation/kanban/lib/tui"
)

// projectsLoadedMsg carries the outcome of a project list load. A
// failed source left its list empty.
type projectsLoadedMsg struct {
	result board.LoadResult
}

// boardLoadedMsg carries a loaded (or reloaded) board.
type boardLoadedMsg struct {
	board *board.Board
	err   error
}

type moveResultMsg struct {
	taskID int64
	task   kanban.Task
	err    error
}

type deleteResultMsg struct {
	taskID int64
	title  string
	err    error
}

type saveResultMsg struct {
	result board.SaveResult
	err    error
}

type projectCreatedMsg struct {
	project kanban.Project
	err     error
}

type projectDeletedMsg struct {
	projectID int64
	title     string
	err       error
}

// heatTickMsg drives the card glow animation while any card is hot.
type heatTickMsg struct{}

func scheduleHeatTick() tea.Cmd {
	return tea.Tick(tui.HeatTickInterval, func(time.Time) tea.Msg {
		return heatTickMsg{}
	})
}

func (model Model) loadProjectsCmd() tea.Cmd {
	projects, ctx := model.projects, model.ctx
	return func() tea.Msg {
		return projectsLoadedMsg{result: projects.Load(ctx)}
	}
}

func (model Model) openBoardCmd(projectID int64) tea.Cmd {
	config := board.BoardConfig{
		API:                     model.api,
		Clock:                   model.clock,
		ProjectID:               projectID,
		Me:                      model.identity.ID,
		ClearCompletionOnReopen: model.clearOnReopen,
		Deadlines:               model.deadlines,
		Logger:                  model.logger,
	}
	ctx := model.ctx
	return func() tea.Msg {
		opened, err := board.NewBoard(config)
		if err == nil {
			err = opened.Load(ctx)
		}
		return boardLoadedMsg{board: opened, err: err}
	}
}

func (model Model) reloadBoardCmd() tea.Cmd {
	current, ctx := model.board, model.ctx
	return func() tea.Msg {
		return boardLoadedMsg{board: current, err: current.Load(ctx)}
	}
}

func (model Model) moveCmd(taskID int64, source, dest kanban.Column) tea.Cmd {
	current, ctx := model.board, model.ctx
	return func() tea.Msg {
		moved, err := current.Move(ctx, taskID, source, dest)
		return moveResultMsg{taskID: taskID, task: moved, err: err}
	}
}

func (model Model) deleteTaskCmd(task kanban.Task) tea.Cmd {
	current, ctx := model.board, model.ctx
	return func() tea.Msg {
		return deleteResultMsg{taskID: task.ID, title: task.Title, err: current.DeleteTask(ctx, task.ID)}
	}
}

func (model Model) saveCmd(draft board.TaskDraft, diff imagepanel.Diff) tea.Cmd {
	current, ctx := model.board, model.ctx
	return func() tea.Msg {
		result, err := current.SaveTask(ctx, draft, diff)
		return saveResultMsg{result: result, err: err}
	}
}

func (model Model) createProjectCmd(title string) tea.Cmd {
	projects, ctx := model.projects, model.ctx
	return func() tea.Msg {
		created, err := projects.Create(ctx, kanban.ProjectInput{Title: &title})
		return projectCreatedMsg{project: created, err: err}
	}
}

func (model Model) deleteProjectCmd(project kanban.Project) tea.Cmd {
	projects, ctx := model.projects, model.ctx
	return func() tea.Msg {
		return projectDeletedMsg{projectID: project.ID, title: project.Title, err: projects.Delete(ctx, project.ID)}
	}
}
