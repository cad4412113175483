// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package project

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"text/tabwriter"

	"github.com/bureau-foundation/kanban/cmd/kanban/cli"
	"github.com/bureau-foundation/kanban/lib/kanban"
)

type peopleParams struct {
	cli.ClientFlags
	cli.JSONOutput
	Add    []string `json:"add"    flag:"add,a"    desc:"add a participant (repeatable)"`
	Remove []string `json:"remove" flag:"remove,r" desc:"remove a participant (repeatable)"`
	Set    []string `json:"set"    flag:"set"      desc:"replace the participant list (repeatable)"`
}

func peopleCommand() *cli.Command {
	var params peopleParams

	return &cli.Command{
		Name:    "people",
		Summary: "List or change a project's participants",
		Description: `Without flags, list the project's participants. --add and --remove
adjust the list; --set replaces it entirely and cannot be combined
with the other two. Users are referenced by username, display name,
email or id.`,
		Usage: "kanban project people <project> [--add USER]... [--remove USER]... [--set USER]...",
		Examples: []cli.Example{
			{
				Description: "List participants",
				Command:     `kanban project people "Website relaunch"`,
			},
			{
				Description: "Swap one participant for another",
				Command:     "kanban project people 4 --add linus --remove grace",
			},
		},
		Params: func() any { return &params },
		Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
			if len(params.Set) > 0 && (len(params.Add) > 0 || len(params.Remove) > 0) {
				return cli.Validation("--set cannot be combined with --add or --remove")
			}
			target, err := openProject(ctx, &params.ClientFlags, args, "kanban project people <project> [flags]", logger)
			if err != nil {
				return err
			}
			participants := target.project.Participants

			if len(params.Add) > 0 || len(params.Remove) > 0 || len(params.Set) > 0 {
				ids, err := nextParticipants(ctx, target, params.Add, params.Remove, params.Set)
				if err != nil {
					return err
				}
				list, err := newProjectList(target.connection, logger)
				if err != nil {
					return err
				}
				updated, err := list.SetParticipants(ctx, target.project.ID, ids)
				if err != nil {
					return cli.FromAPIError(err, "updating participants")
				}
				logger.Info("participants updated", "project_id", updated.ID, "participants", len(updated.Participants))
				participants = updated.Participants
			}

			if participants == nil {
				participants = []kanban.User{}
			}
			if done, err := params.EmitJSON(participants); done {
				return err
			}
			return writeParticipants(cli.Stdout(), participants)
		},
	}
}

// nextParticipants computes the new participant id list. --set
// resolves against every user; --add appends in order, skipping
// existing participants; --remove resolves against the current
// participants only.
func nextParticipants(ctx context.Context, opened target, add, remove, set []string) ([]int64, error) {
	if len(set) > 0 {
		return resolveUsers(ctx, opened.connection, set)
	}

	ids := opened.project.ParticipantIDs()
	if len(add) > 0 {
		added, err := resolveUsers(ctx, opened.connection, add)
		if err != nil {
			return nil, err
		}
		present := make(map[int64]bool, len(ids))
		for _, id := range ids {
			present[id] = true
		}
		for _, id := range added {
			if !present[id] {
				ids = append(ids, id)
				present[id] = true
			}
		}
	}

	removed := make(map[int64]bool)
	for _, ref := range remove {
		user, err := cli.ResolveUser(ref, opened.project.Participants)
		if err != nil {
			return nil, err
		}
		removed[user.ID] = true
	}
	kept := []int64{}
	for _, id := range ids {
		if !removed[id] {
			kept = append(kept, id)
		}
	}
	return kept, nil
}

func writeParticipants(out io.Writer, users []kanban.User) error {
	if len(users) == 0 {
		fmt.Fprintln(out, "No participants.")
		return nil
	}
	writer := tabwriter.NewWriter(out, 2, 0, 3, ' ', 0)
	fmt.Fprintln(writer, "ID\tUSERNAME\tNAME\tEMAIL")
	for _, user := range users {
		fmt.Fprintf(writer, "%d\t%s\t%s\t%s\n", user.ID, cli.OrDash(user.Username), user.Name(), cli.OrDash(user.Email))
	}
	return writer.Flush()
}
