// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package project

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/bureau-foundation/kanban/cmd/kanban/cli"
	"github.com/bureau-foundation/kanban/lib/kanban"
)

// FieldFlags are the project fields shared by create and edit. Flags
// override values loaded with --from-file.
type FieldFlags struct {
	Title        string   `json:"title"        flag:"title,t"       desc:"project title"`
	Description  string   `json:"description"  flag:"description,d" desc:"description (markdown)"`
	Due          string   `json:"due"          flag:"due"           desc:"due date YYYY-MM-DD, or \"none\" to clear"`
	Participants []string `json:"participants" flag:"participant,p" desc:"participant username, name or id (repeatable)"`
	FromFile     string   `json:"from_file"    flag:"from-file,f"   desc:"read fields from a JSON/JSONC file (\"-\" for stdin)"`
}

// input merges --from-file with the individual flags.
func (f *FieldFlags) input(ctx context.Context, connection *cli.Connection) (kanban.ProjectInput, error) {
	var input kanban.ProjectInput
	if f.FromFile != "" {
		if err := cli.LoadPayload(f.FromFile, &input); err != nil {
			return kanban.ProjectInput{}, err
		}
	}
	if f.Title != "" {
		title := strings.TrimSpace(f.Title)
		input.Title = &title
	}
	if f.Description != "" {
		description := f.Description
		input.Description = &description
	}
	due, err := cli.ParseDue(f.Due)
	if err != nil {
		return kanban.ProjectInput{}, err
	}
	if due != nil {
		input.DueDate = due
	}
	if len(f.Participants) > 0 {
		ids, err := resolveUsers(ctx, connection, f.Participants)
		if err != nil {
			return kanban.ProjectInput{}, err
		}
		input.Participants = &ids
	}
	return input, nil
}

// resolveUsers resolves user references against every user on the
// server, dropping duplicates.
func resolveUsers(ctx context.Context, connection *cli.Connection, refs []string) ([]int64, error) {
	users, err := connection.Client.ListUsers(ctx, 0)
	if err != nil {
		return nil, cli.FromAPIError(err, "listing users")
	}
	ids := []int64{}
	seen := make(map[int64]bool)
	for _, ref := range refs {
		user, err := cli.ResolveUser(ref, users)
		if err != nil {
			return nil, err
		}
		if !seen[user.ID] {
			seen[user.ID] = true
			ids = append(ids, user.ID)
		}
	}
	return ids, nil
}

// --- create ---

type createParams struct {
	cli.ClientFlags
	cli.JSONOutput
	FieldFlags
}

func createCommand() *cli.Command {
	var params createParams

	return &cli.Command{
		Name:    "create",
		Summary: "Create a project",
		Description: `Create a new project. --title is required, either as a flag or in the
--from-file payload. The payload uses the API's field names (title,
description, due_date, participants as user ids); flags given on the
command line override it.

Prints the new project's id.`,
		Usage: "kanban project create --title TITLE [flags]",
		Examples: []cli.Example{
			{
				Description: "Create a project with a deadline and two participants",
				Command:     `kanban project create --title "Docs portal" --due 2024-06-30 -p ada -p grace`,
			},
			{
				Description: "Create from a JSONC file",
				Command:     "kanban project create --from-file project.jsonc",
			},
		},
		Params: func() any { return &params },
		Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
			if len(args) > 0 {
				return cli.Validation("unexpected argument %q (use --title)", args[0])
			}
			connection, _, err := params.Open(ctx, logger)
			if err != nil {
				return err
			}
			input, err := params.input(ctx, connection)
			if err != nil {
				return err
			}
			if input.Title == nil || *input.Title == "" {
				return cli.Validation("--title is required")
			}

			list, err := newProjectList(connection, logger)
			if err != nil {
				return err
			}
			project, err := list.Create(ctx, input)
			if err != nil {
				return cli.FromAPIError(err, "creating project")
			}
			logger.Info("project created", "project_id", project.ID)

			if done, err := params.EmitJSON(project); done {
				return err
			}
			fmt.Fprintln(cli.Stdout(), project.ID)
			return nil
		},
	}
}

// --- edit ---

type editParams struct {
	cli.ClientFlags
	cli.JSONOutput
	FieldFlags
	ClearDescription bool `json:"clear_description" flag:"clear-description" desc:"remove the description"`
}

func editCommand() *cli.Command {
	var params editParams

	return &cli.Command{
		Name:    "edit",
		Summary: "Edit a project",
		Description: `Change a project's fields. Only the given fields are sent; everything
else is left as-is. --participant replaces the whole participant list;
use "kanban project people" to add or remove individual people.`,
		Usage: "kanban project edit <project> [flags]",
		Examples: []cli.Example{
			{
				Description: "Move a deadline",
				Command:     `kanban project edit "Website relaunch" --due 2024-07-15`,
			},
			{
				Description: "Clear the due date and the description",
				Command:     "kanban project edit 4 --due none --clear-description",
			},
		},
		Params: func() any { return &params },
		Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
			target, err := openProject(ctx, &params.ClientFlags, args, "kanban project edit <project> [flags]", logger)
			if err != nil {
				return err
			}
			input, err := params.input(ctx, target.connection)
			if err != nil {
				return err
			}
			if params.ClearDescription {
				if params.Description != "" {
					return cli.Validation("--description and --clear-description are mutually exclusive")
				}
				empty := ""
				input.Description = &empty
			}
			if input == (kanban.ProjectInput{}) {
				return cli.Validation("nothing to change (see kanban project edit --help)")
			}

			list, err := newProjectList(target.connection, logger)
			if err != nil {
				return err
			}
			project, err := list.Edit(ctx, target.project.ID, input)
			if err != nil {
				return cli.FromAPIError(err, "updating project")
			}
			logger.Info("project updated", "project_id", project.ID)

			if done, err := params.EmitJSON(project); done {
				return err
			}
			fmt.Fprintf(os.Stderr, "Updated project %d %q\n", project.ID, project.Title)
			return nil
		},
	}
}

// --- delete ---

type deleteParams struct {
	cli.ClientFlags
	Yes bool `json:"yes" flag:"yes,y" desc:"confirm the deletion"`
}

func deleteCommand() *cli.Command {
	var params deleteParams

	return &cli.Command{
		Name:    "delete",
		Summary: "Delete a project and its tasks",
		Description: `Delete a project. The server deletes the project's tasks and images
with it. This cannot be undone, so --yes is required.`,
		Usage: "kanban project delete <project> --yes",
		Examples: []cli.Example{
			{
				Description: "Delete a project",
				Command:     `kanban project delete "Billing migration" --yes`,
			},
		},
		Params: func() any { return &params },
		Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
			target, err := openProject(ctx, &params.ClientFlags, args, "kanban project delete <project> --yes", logger)
			if err != nil {
				return err
			}
			if !params.Yes {
				return cli.Validation("refusing to delete project %d %q without --yes", target.project.ID, target.project.Title)
			}

			list, err := newProjectList(target.connection, logger)
			if err != nil {
				return err
			}
			if err := list.Delete(ctx, target.project.ID); err != nil {
				return cli.FromAPIError(err, "deleting project")
			}
			logger.Info("project deleted", "project_id", target.project.ID)
			fmt.Fprintf(os.Stderr, "Deleted project %d %q\n", target.project.ID, target.project.Title)
			return nil
		},
	}
}
