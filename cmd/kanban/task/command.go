// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package task

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/bureau-foundation/kanban/cmd/kanban/cli"
	"github.com/bureau-foundation/kanban/lib/board"
	"github.com/bureau-foundation/kanban/lib/kanban"
)

// Command returns the "task" subcommand group.
func Command() *cli.Command {
	return &cli.Command{
		Name:    "task",
		Summary: "List and manage tasks",
		Description: `List, inspect, create, edit, move and delete tasks on a project board.

Tasks are referenced by numeric id ("12" or "#12"). Projects are
referenced by title, id, or a fuzzy fragment of the title. Responsible
users must be participants of the task's project.`,
		Subcommands: []*cli.Command{
			listCommand(),
			showCommand(),
			createCommand(),
			editCommand(),
			deleteCommand(),
			moveCommand(),
		},
	}
}

// loaded is a connected session plus a loaded project board.
type loaded struct {
	connection *cli.Connection
	identity   kanban.Identity
	board      *board.Board
}

// openProjectBoard connects, resolves a project reference and loads
// its board.
func openProjectBoard(ctx context.Context, flags *cli.ClientFlags, ref string, logger *slog.Logger) (loaded, error) {
	connection, identity, err := flags.Open(ctx, logger)
	if err != nil {
		return loaded{}, err
	}
	project, err := connection.ResolveProject(ctx, ref)
	if err != nil {
		return loaded{}, err
	}
	projectBoard, err := connection.OpenBoard(ctx, project.ID, identity.ID)
	if err != nil {
		return loaded{}, err
	}
	return loaded{connection: connection, identity: identity, board: projectBoard}, nil
}

// openTask connects and loads the board of the task's project.
func openTask(ctx context.Context, flags *cli.ClientFlags, ref string, logger *slog.Logger) (loaded, kanban.Task, error) {
	taskID, err := cli.ParseTaskID(ref)
	if err != nil {
		return loaded{}, kanban.Task{}, err
	}
	connection, identity, err := flags.Open(ctx, logger)
	if err != nil {
		return loaded{}, kanban.Task{}, err
	}
	projectBoard, task, err := connection.OpenTaskBoard(ctx, taskID, identity.ID)
	if err != nil {
		return loaded{}, kanban.Task{}, err
	}
	return loaded{connection: connection, identity: identity, board: projectBoard}, task, nil
}

// parseColumn accepts the wire names plus labels such as "In progress"
// or "in-progress".
func parseColumn(value string) (kanban.Column, error) {
	normalized := strings.ToLower(strings.TrimSpace(value))
	normalized = strings.NewReplacer(" ", "_", "-", "_").Replace(normalized)
	column, err := kanban.ParseColumn(normalized)
	if err != nil {
		return "", cli.Validation("%w", err)
	}
	return column, nil
}

func parsePriority(value string) (kanban.Priority, error) {
	priority, err := kanban.ParsePriority(strings.ToLower(strings.TrimSpace(value)))
	if err != nil {
		return "", cli.Validation("%w", err)
	}
	return priority, nil
}

// saveError maps a SaveTask failure to a tool error.
func saveError(err error, action string) error {
	if errors.Is(err, board.ErrTaskNotFound) {
		return cli.NotFound("%s: %w", action, err)
	}
	return cli.FromAPIError(err, action)
}
