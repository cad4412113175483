// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package project

import (
	"context"
	"log/slog"

	"github.com/bureau-foundation/kanban/cmd/kanban/cli"
	"github.com/bureau-foundation/kanban/lib/board"
	"github.com/bureau-foundation/kanban/lib/kanban"
)

// Command returns the "project" subcommand group.
func Command() *cli.Command {
	return &cli.Command{
		Name:    "project",
		Summary: "Show and manage projects",
		Description: `Inspect and modify projects on the kanban server.

Projects are referenced by title, by numeric id ("12" or "#12"), or by
a fuzzy fragment of the title when it matches exactly one project. Use
"kanban projects" for the overview of every project.`,
		Subcommands: []*cli.Command{
			showCommand(),
			createCommand(),
			editCommand(),
			deleteCommand(),
			peopleCommand(),
		},
	}
}

// newProjectList builds an unloaded project list over the connection.
func newProjectList(connection *cli.Connection, logger *slog.Logger) (*board.ProjectList, error) {
	list, err := board.NewProjectList(board.ProjectListConfig{
		API:    connection.Client,
		Clock:  connection.Clock,
		Logger: logger,
	})
	if err != nil {
		return nil, cli.Internal("%w", err)
	}
	return list, nil
}

// target is a connected session plus the project named by the single
// positional argument.
type target struct {
	connection *cli.Connection
	identity   kanban.Identity
	project    kanban.Project
}

// openProject connects, authenticates and resolves args[0] to a
// project.
func openProject(ctx context.Context, flags *cli.ClientFlags, args []string, usage string, logger *slog.Logger) (target, error) {
	if len(args) != 1 {
		return target{}, cli.Validation("usage: %s", usage)
	}
	connection, identity, err := flags.Open(ctx, logger)
	if err != nil {
		return target{}, err
	}
	project, err := connection.ResolveProject(ctx, args[0])
	if err != nil {
		return target{}, err
	}
	return target{connection: connection, identity: identity, project: project}, nil
}
