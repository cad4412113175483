// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package project

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"text/tabwriter"
	"time"

	"github.com/bureau-foundation/kanban/cmd/kanban/cli"
	"github.com/bureau-foundation/kanban/lib/board"
	"github.com/bureau-foundation/kanban/lib/clock"
	"github.com/bureau-foundation/kanban/lib/kanban"
)

type listParams struct {
	cli.ClientFlags
	cli.JSONOutput
	Mine bool `json:"mine" flag:"mine,m" desc:"only projects I participate in"`
}

// listEntry is one project with its card figures.
type listEntry struct {
	kanban.Project
	Metrics board.CardMetrics `json:"metrics"`
}

// listResult is the JSON shape of "kanban projects".
type listResult struct {
	Identity   kanban.Identity  `json:"identity"`
	Aggregates board.Aggregates `json:"aggregates"`
	Projects   []listEntry      `json:"projects"`
	// TasksUnavailable is set when the task list failed to load and
	// every figure derived from tasks is zero.
	TasksUnavailable bool `json:"tasks_unavailable,omitempty"`
}

// ListCommand returns the top-level "projects" command.
func ListCommand() *cli.Command {
	var params listParams

	return &cli.Command{
		Name:    "projects",
		Summary: "List projects with progress figures",
		Description: `Show every project with the figures from the project overview: the
summary tiles for your own work (projects, active, in progress,
overdue) followed by one row per project.

Per project: total tasks split into new, active (in progress, testing
and review) and done; completion percentage; how many tasks are
yours; how many of yours are overdue; and the participant count.`,
		Usage: "kanban projects [flags]",
		Examples: []cli.Example{
			{
				Description: "Project overview",
				Command:     "kanban projects",
			},
			{
				Description: "Projects you participate in, as JSON",
				Command:     "kanban projects --mine --json",
			},
		},
		Params: func() any { return &params },
		Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
			if len(args) > 0 {
				return cli.Validation("unexpected argument %q", args[0])
			}
			connection, identity, err := params.Open(ctx, logger)
			if err != nil {
				return err
			}
			list, err := newProjectList(connection, logger)
			if err != nil {
				return err
			}

			loaded := list.Load(ctx)
			if loaded.Projects != nil {
				return cli.FromAPIError(loaded.Projects, "listing projects")
			}

			result := buildListResult(list, identity, clock.Today(connection.Clock), params.Mine)
			result.TasksUnavailable = loaded.Tasks != nil

			if done, err := params.EmitJSON(result); done {
				return err
			}
			return writeProjectList(cli.Stdout(), result, clock.Today(connection.Clock))
		},
	}
}

// buildListResult computes the tiles and the per-project card figures
// from a loaded project list.
func buildListResult(list *board.ProjectList, identity kanban.Identity, today time.Time, mineOnly bool) listResult {
	tasksByProject := make(map[int64][]kanban.Task)
	for _, task := range list.Tasks() {
		key := task.ProjectKey()
		tasksByProject[key] = append(tasksByProject[key], task)
	}

	result := listResult{
		Identity:   identity,
		Aggregates: list.Aggregates(identity.ID),
		Projects:   []listEntry{},
	}
	for _, project := range list.Projects() {
		if mineOnly && !isParticipant(project, identity.ID) {
			continue
		}
		result.Projects = append(result.Projects, listEntry{
			Project: project,
			Metrics: board.ComputeCardMetrics(tasksByProject[project.ID], project, identity.ID, today),
		})
	}
	return result
}

func isParticipant(project kanban.Project, userID int64) bool {
	for _, id := range project.ParticipantIDs() {
		if id == userID {
			return true
		}
	}
	return false
}

func writeProjectList(out io.Writer, result listResult, today time.Time) error {
	tiles := result.Aggregates
	fmt.Fprintf(out, "Signed in as %s (%s)\n", result.Identity.Name(), result.Identity.RoleLabel())
	fmt.Fprintf(out, "Projects %d   Active %d   In progress %d   Overdue %d\n",
		tiles.Projects, tiles.Active, tiles.InProgress, tiles.Overdue)
	if result.TasksUnavailable {
		fmt.Fprintln(out, "(tasks could not be loaded; task figures are incomplete)")
	}
	fmt.Fprintln(out)

	if len(result.Projects) == 0 {
		fmt.Fprintln(out, "No projects.")
		return nil
	}

	writer := tabwriter.NewWriter(out, 2, 0, 3, ' ', 0)
	fmt.Fprintln(writer, "ID\tTITLE\tDUE\tTASKS\tNEW\tACTIVE\tDONE\tPROGRESS\tMINE\tOVERDUE\tPEOPLE")
	for _, entry := range result.Projects {
		metrics := entry.Metrics
		fmt.Fprintf(writer, "%d\t%s\t%s\t%d\t%d\t%d\t%d\t%d%%\t%d\t%d\t%d\n",
			entry.ID,
			entry.Title,
			cli.DueLabel(entry.DueDate, today),
			metrics.All.Total,
			metrics.All.New,
			metrics.All.Active,
			metrics.All.Done,
			metrics.Progress,
			metrics.Mine.Total,
			metrics.OverdueMine,
			metrics.Participants,
		)
	}
	return writer.Flush()
}
