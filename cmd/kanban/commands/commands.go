// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package commands builds the complete kanban CLI command tree.
package commands

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/bureau-foundation/kanban/cmd/kanban/cli"
	imagecmd "github.com/bureau-foundation/kanban/cmd/kanban/image"
	projectcmd "github.com/bureau-foundation/kanban/cmd/kanban/project"
	taskcmd "github.com/bureau-foundation/kanban/cmd/kanban/task"
	"github.com/bureau-foundation/kanban/lib/version"
)

// Root builds and returns the complete kanban CLI command tree.
func Root() *cli.Command {
	return &cli.Command{
		Name: "kanban",
		Description: `kanban: a terminal client for a kanban project tracker.

Browse projects and their five-column task boards, create and edit
tasks with image attachments, and move work between columns. "kanban
board" opens the interactive board; every other command prints a
table, or JSON with --json.`,
		Subcommands: []*cli.Command{
			cli.LoginCommand(),
			cli.LogoutCommand(),
			cli.WhoAmICommand(),
			projectcmd.ListCommand(),
			projectcmd.Command(),
			taskcmd.Command(),
			imagecmd.Command(),
			BoardCommand(),
			{
				Name:    "version",
				Summary: "Print version information",
				Run: func(_ context.Context, args []string, _ *slog.Logger) error {
					fmt.Fprintf(cli.Stdout(), "kanban %s\n", version.Full())
					return nil
				},
			},
		},
		Examples: []cli.Example{
			{
				Description: "Log in (saves the session locally)",
				Command:     "kanban login ada",
			},
			{
				Description: "Overview of every project",
				Command:     "kanban projects",
			},
			{
				Description: "Open the interactive board of a project",
				Command:     `kanban board "Website relaunch"`,
			},
			{
				Description: "List my tasks on a board",
				Command:     "kanban task list website --mine",
			},
			{
				Description: "Move a task to review",
				Command:     "kanban task move 12 review",
			},
			{
				Description: "Attach a screenshot to a task",
				Command:     "kanban image add 12 screenshot.png",
			},
		},
	}
}
