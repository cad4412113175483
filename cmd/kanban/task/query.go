// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package task

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

// --- list ---

type listParams struct {
	cli.ClientFlags
	cli.JSONOutput
	Column string `json:"column" flag:"column,c" desc:"only tasks in this column (new, in_progress, testing, review, done)"`
	Mine   bool   `json:"mine"   flag:"mine,m"   desc:"only tasks I am responsible for"`
	Search string `json:"search" flag:"search,s" desc:"only tasks whose title or description contains this text"`
}

func listCommand() *cli.Command {
	var params listParams

	return &cli.Command{
		Name:    "list",
		Summary: "List a project's tasks by column",
		Description: `List the tasks of a project board in column order (new, in progress,
testing, review, done). --mine and --search apply the same filters as
the interactive board.

The due column shows the distance to the due date; done tasks show
whether they were completed on time.`,
		Usage: "kanban task list <project> [flags]",
		Examples: []cli.Example{
			{
				Description: "Every task on a board",
				Command:     `kanban task list "Website relaunch"`,
			},
			{
				Description: "My open review work",
				Command:     "kanban task list website --mine --column review",
			},
		},
		Params: func() any { return &params },
		Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
			if len(args) != 1 {
				return cli.Validation("usage: kanban task list <project> [flags]")
			}
			var only kanban.Column
			if params.Column != "" {
				column, err := parseColumn(params.Column)
				if err != nil {
					return err
				}
				only = column
			}

			opened, err := openProjectBoard(ctx, &params.ClientFlags, args[0], logger)
			if err != nil {
				return err
			}
			opened.board.SetFilter(board.Filter{Query: params.Search, MineOnly: params.Mine})

			tasks := []kanban.Task{}
			for _, group := range opened.board.Columns() {
				if only != "" && group.Column != only {
					continue
				}
				tasks = append(tasks, group.Tasks...)
			}

			if done, err := params.EmitJSON(tasks); done {
				return err
			}
			return writeTaskTable(cli.Stdout(), opened.board, tasks, clock.Today(opened.connection.Clock))
		},
	}
}

func writeTaskTable(out io.Writer, projectBoard *board.Board, tasks []kanban.Task, today time.Time) error {
	counts := projectBoard.Counts()
	fmt.Fprintf(out, "%s: %d tasks, %d active, %d done, %d participants\n\n",
		projectBoard.Project().Title, counts.Total, counts.Active, counts.Done, counts.Participants)

	if len(tasks) == 0 {
		fmt.Fprintln(out, "No tasks found.")
		return nil
	}

	writer := tabwriter.NewWriter(out, 2, 0, 3, ' ', 0)
	fmt.Fprintln(writer, "ID\tCOLUMN\tPRIORITY\tRESPONSIBLE\tDUE\tIMAGES\tTITLE")
	for _, task := range tasks {
		fmt.Fprintf(writer, "%d\t%s\t%s\t%s\t%s\t%d\t%s\n",
			task.ID,
			task.Column.Label(),
			task.Priority.Label(),
			cli.OrDash(task.Responsible.Name()),
			dueCell(task, today),
			len(task.Images),
			task.Title,
		)
	}
	return writer.Flush()
}

// dueCell is the due date with its distance from today, or for done
// tasks the due date with the completion verdict.
func dueCell(task kanban.Task, today time.Time) string {
	if task.Column != kanban.ColumnDone || task.DoneColor == kanban.DoneColorNone {
		return cli.DueLabel(task.DueDate, today)
	}
	if task.DueDate.IsZero() {
		return task.DoneColor.Label()
	}
	return fmt.Sprintf("%s (%s)", task.DueDate, task.DoneColor.Label())
}

// --- show ---

type showParams struct {
	cli.ClientFlags
	cli.JSONOutput
}

func showCommand() *cli.Command {
	var params showParams

	return &cli.Command{
		Name:        "show",
		Summary:     "Show task detail",
		Description: `Display a task's fields, completion, images and description.`,
		Usage:       "kanban task show <task> [flags]",
		Examples: []cli.Example{
			{
				Description: "Show a task",
				Command:     "kanban task show 12",
			},
		},
		Params: func() any { return &params },
		Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
			if len(args) != 1 {
				return cli.Validation("usage: kanban task show <task> [flags]")
			}
			opened, task, err := openTask(ctx, &params.ClientFlags, args[0], logger)
			if err != nil {
				return err
			}
			if done, err := params.EmitJSON(task); done {
				return err
			}
			return writeShowDetail(cli.Stdout(), opened.board.Project(), task, opened.connection.Client.BaseURL(), clock.Today(opened.connection.Clock))
		},
	}
}

func writeShowDetail(out io.Writer, project kanban.Project, task kanban.Task, baseURL string, today time.Time) error {
	writer := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)

	fmt.Fprintf(writer, "ID:\t%d\n", task.ID)
	fmt.Fprintf(writer, "Project:\t%s (%d)\n", project.Title, project.ID)
	fmt.Fprintf(writer, "Title:\t%s\n", task.Title)
	fmt.Fprintf(writer, "Column:\t%s\n", task.Column.Label())
	fmt.Fprintf(writer, "Priority:\t%s\n", task.Priority.Label())
	fmt.Fprintf(writer, "Responsible:\t%s\n", cli.OrDash(task.Responsible.Name()))
	fmt.Fprintf(writer, "Due:\t%s\n", cli.DueLabel(task.DueDate, today))
	if task.Column == kanban.ColumnDone {
		completed := cli.OrDash(task.CompletedAt.String())
		if label := task.DoneColor.Label(); label != "" {
			completed += " (" + label + ")"
		}
		fmt.Fprintf(writer, "Completed:\t%s\n", completed)
	}
	for index, image := range task.SortedImages() {
		label := ""
		if index == 0 {
			label = "Images:"
		}
		fmt.Fprintf(writer, "%s\t#%d  %s\n", label, image.ID, absoluteURL(baseURL, image.URL))
	}
	if err := writer.Flush(); err != nil {
		return err
	}

	if description := strings.TrimSpace(task.Description); description != "" {
		fmt.Fprintln(out)
		for _, line := range strings.Split(description, "\n") {
			fmt.Fprintf(out, "  %s\n", line)
		}
	}
	return nil
}

// absoluteURL resolves a server-relative media path.
func absoluteURL(baseURL, path string) string {
	if strings.HasPrefix(path, "/") {
		return strings.TrimSuffix(baseURL, "/") + path
	}
	return path
}
