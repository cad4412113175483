// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"context"
	"log/slog"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/bureau-foundation/kanban/cmd/kanban/cli"
	"github.com/bureau-foundation/kanban/lib/boardui"
	"github.com/bureau-foundation/kanban/lib/imagepanel"
)

type boardParams struct {
	cli.ClientFlags
	NoMouse bool `json:"no_mouse" flag:"no-mouse" desc:"disable mouse support even if the config enables it"`
}

// BoardCommand returns the "board" command, which runs the interactive
// terminal board.
func BoardCommand() *cli.Command {
	var params boardParams

	return &cli.Command{
		Name:    "board",
		Summary: "Open the interactive board",
		Description: `Open the full-screen board. Without an argument it starts on the
project list; with a project reference it opens that project's board
directly.

On the board, h/j/k/l or the arrow keys select a card and H/L move it
one column. "m" moves it to a chosen column. "n" creates a task and
enter opens one. "/" searches and "M" shows only my tasks. The help
line at the bottom lists the keys of the current screen.

Log records are shown in the status line instead of stderr.`,
		Usage: "kanban board [project] [flags]",
		Examples: []cli.Example{
			{
				Description: "Start on the project list",
				Command:     "kanban board",
			},
			{
				Description: "Open one project's board",
				Command:     `kanban board "Website relaunch"`,
			},
		},
		Params: func() any { return &params },
		Run: func(ctx context.Context, args []string, _ *slog.Logger) error {
			if len(args) > 1 {
				return cli.Validation("usage: kanban board [project] [flags]")
			}

			// stderr belongs to the alternate screen once the program
			// starts, so every record goes to the status line.
			handler := boardui.NewStatusLogHandler(params.LogLevel())
			logger := slog.New(handler)

			connection, identity, err := params.Open(ctx, logger)
			if err != nil {
				return err
			}
			var projectID int64
			if len(args) == 1 {
				project, err := connection.ResolveProject(ctx, args[0])
				if err != nil {
					return err
				}
				projectID = project.ID
			}

			previewer := &imagepanel.TempFilePreviewer{}

			model, err := boardui.NewModel(boardui.Config{
				API:                     connection.Client,
				Identity:                identity,
				Project:                 projectID,
				ClearCompletionOnReopen: connection.Config.Board.ClearCompletionOnReopen,
				Deadlines:               connection.Config.DeadlineThresholds(),
				Previewer:               previewer,
				Clock:                   connection.Clock,
				Context:                 ctx,
				Logger:                  logger,
			})
			if err != nil {
				return cli.Internal("%w", err)
			}

			options := []tea.ProgramOption{tea.WithAltScreen(), tea.WithContext(ctx)}
			if connection.Config.UI.Mouse && !params.NoMouse {
				options = append(options, tea.WithMouseAllMotion())
			}
			program := tea.NewProgram(model, options...)
			handler.SetProgram(program)
			_, err = program.Run()
			return err
		},
	}
}
