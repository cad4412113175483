// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package project

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/bureau-foundation/kanban/cmd/kanban/cli"
	"github.com/bureau-foundation/kanban/lib/board"
	"github.com/bureau-foundation/kanban/lib/clock"
	"github.com/bureau-foundation/kanban/lib/kanban"
)

type showParams struct {
	cli.ClientFlags
	cli.JSONOutput
}

type showResult struct {
	Project kanban.Project    `json:"project"`
	Metrics board.CardMetrics `json:"metrics"`
}

func showCommand() *cli.Command {
	var params showParams

	return &cli.Command{
		Name:    "show",
		Summary: "Show project detail",
		Description: `Display a project's title, due date, participants, task figures and
description.`,
		Usage: "kanban project show <project> [flags]",
		Examples: []cli.Example{
			{
				Description: "Show a project by title",
				Command:     `kanban project show "Website relaunch"`,
			},
			{
				Description: "Show a project by id",
				Command:     "kanban project show 4 --json",
			},
		},
		Params: func() any { return &params },
		Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
			target, err := openProject(ctx, &params.ClientFlags, args, "kanban project show <project>", logger)
			if err != nil {
				return err
			}
			metrics, err := board.LoadCard(ctx, target.connection.Client, target.project, target.identity.ID, target.connection.Clock)
			if err != nil {
				return cli.FromAPIError(err, "loading tasks")
			}

			result := showResult{Project: target.project, Metrics: metrics}
			if done, err := params.EmitJSON(result); done {
				return err
			}
			return writeShowDetail(cli.Stdout(), result, clock.Today(target.connection.Clock))
		},
	}
}

func writeShowDetail(out io.Writer, result showResult, today time.Time) error {
	project := result.Project
	metrics := result.Metrics
	writer := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)

	fmt.Fprintf(writer, "ID:\t%d\n", project.ID)
	fmt.Fprintf(writer, "Title:\t%s\n", project.Title)
	fmt.Fprintf(writer, "Due:\t%s\n", cli.DueLabel(project.DueDate, today))
	fmt.Fprintf(writer, "Participants:\t%s\n", cli.OrDash(participantNames(project.Participants)))
	fmt.Fprintf(writer, "Tasks:\t%d (new %d, active %d, done %d)\n",
		metrics.All.Total, metrics.All.New, metrics.All.Active, metrics.All.Done)
	fmt.Fprintf(writer, "Progress:\t%d%%\n", metrics.Progress)
	fmt.Fprintf(writer, "Mine:\t%d (%d overdue)\n", metrics.Mine.Total, metrics.OverdueMine)
	if err := writer.Flush(); err != nil {
		return err
	}

	if description := strings.TrimSpace(project.Description); description != "" {
		fmt.Fprintln(out)
		for _, line := range strings.Split(description, "\n") {
			fmt.Fprintf(out, "  %s\n", line)
		}
	}
	return nil
}

func participantNames(users []kanban.User) string {
	names := make([]string, len(users))
	for index, user := range users {
		names[index] = user.Name()
	}
	return strings.Join(names, ", ")
}
