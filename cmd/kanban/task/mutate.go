// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package task

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/bureau-foundation/kanban/cmd/kanban/cli"
	"github.com/bureau-foundation/kanban/lib/board"
	"github.com/bureau-foundation/kanban/lib/imagepanel"
	"github.com/bureau-foundation/kanban/lib/kanban"
)

// FieldFlags are the task fields shared by create and edit. Flags
// override values loaded with --from-file.
type FieldFlags struct {
	Title       string   `json:"title"       flag:"title,t"       desc:"task title"`
	Description string   `json:"description" flag:"description,d" desc:"description (markdown)"`
	Column      string   `json:"column"      flag:"column,c"      desc:"column (new, in_progress, testing, review, done)"`
	Priority    string   `json:"priority"    flag:"priority,p"    desc:"priority (low, medium, high, critical)"`
	Responsible string   `json:"responsible" flag:"responsible,r" desc:"responsible participant, or \"none\""`
	Due         string   `json:"due"         flag:"due"           desc:"due date YYYY-MM-DD, or \"none\" to clear"`
	Images      []string `json:"images"      flag:"image,i"       desc:"attach an image file (repeatable, at most 4 images per task)"`
	FromFile    string   `json:"from_file"   flag:"from-file,f"   desc:"read fields from a JSON/JSONC file (\"-\" for stdin)"`
}

// apply writes the --from-file payload and then the flags onto draft.
// Responsible users resolve against the board's participants.
func (f *FieldFlags) apply(draft *board.TaskDraft, roster []kanban.User) error {
	if f.FromFile != "" {
		var payload kanban.TaskInput
		if err := cli.LoadPayload(f.FromFile, &payload); err != nil {
			return err
		}
		applyPayload(draft, payload)
	}

	if f.Title != "" {
		draft.Title = strings.TrimSpace(f.Title)
	}
	if f.Description != "" {
		draft.Description = f.Description
	}
	if f.Column != "" {
		column, err := parseColumn(f.Column)
		if err != nil {
			return err
		}
		draft.Column = column
	}
	if f.Priority != "" {
		priority, err := parsePriority(f.Priority)
		if err != nil {
			return err
		}
		draft.Priority = priority
	}
	switch strings.ToLower(strings.TrimSpace(f.Responsible)) {
	case "":
	case "none":
		draft.ResponsibleID = 0
	default:
		user, err := cli.ResolveUser(f.Responsible, roster)
		if err != nil {
			return err
		}
		draft.ResponsibleID = user.ID
	}
	due, err := cli.ParseDue(f.Due)
	if err != nil {
		return err
	}
	if due != nil {
		draft.DueDate = *due
	}
	return nil
}

func applyPayload(draft *board.TaskDraft, payload kanban.TaskInput) {
	if payload.Title != nil {
		draft.Title = *payload.Title
	}
	if payload.Description != nil {
		draft.Description = *payload.Description
	}
	if payload.Column != nil {
		draft.Column = *payload.Column
	}
	if payload.Priority != nil {
		draft.Priority = *payload.Priority
	}
	if payload.DueDate != nil {
		draft.DueDate = *payload.DueDate
	}
	if payload.ResponsibleID != nil {
		draft.ResponsibleID = int64(*payload.ResponsibleID)
	}
}

// stageImages adds files to panel. Any rejected or truncated file
// fails the whole command before anything is sent.
func stageImages(panel *imagepanel.Panel, paths []string) error {
	if len(paths) == 0 {
		return nil
	}
	result := panel.AddFiles(paths)
	var problems []string
	for _, rejected := range result.Rejected {
		problems = append(problems, rejected.Err.Error())
	}
	if result.Truncated > 0 {
		problems = append(problems, fmt.Sprintf("%d image(s) over the limit of %d per task", result.Truncated, imagepanel.Capacity))
	}
	if len(problems) > 0 {
		return cli.Validation("cannot attach images: %s", strings.Join(problems, "; "))
	}
	return nil
}

// saveOutput is the JSON shape of create and edit.
type saveOutput struct {
	Task    kanban.Task `json:"task"`
	Created bool        `json:"created"`
	Steps   []stepEntry `json:"steps"`
}

type stepEntry struct {
	Kind   board.StepKind `json:"kind"`
	Target string         `json:"target"`
	Error  string         `json:"error,omitempty"`
}

func newSaveOutput(result board.SaveResult) saveOutput {
	output := saveOutput{Task: result.Task, Created: result.Created, Steps: []stepEntry{}}
	for _, step := range result.Steps {
		entry := stepEntry{Kind: step.Kind, Target: step.Target}
		if step.Err != nil {
			entry.Error = step.Err.Error()
		}
		output.Steps = append(output.Steps, entry)
	}
	return output
}

// reportSteps prints failed best-effort steps. The task itself was
// saved, so failures are warnings.
func reportSteps(steps board.Steps) {
	for _, step := range steps.Failed() {
		fmt.Fprintf(os.Stderr, "warning: %s\n", step)
	}
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
		Summary: "Create a task",
		Description: `Create a task on a project board. --title is required. The column
defaults to "new" and the priority to "medium". Creating a task
directly in "done" records today as its completion date.

--image uploads files after the task is created, in the order given.
Files are checked before anything is sent: each must be an image and
a task holds at most four. Upload failures do not undo the task; they
are reported as warnings.

Prints the new task's id.`,
		Usage: "kanban task create <project> --title TITLE [flags]",
		Examples: []cli.Example{
			{
				Description: "Create a high-priority task for grace",
				Command:     `kanban task create website --title "Fix footer" --priority high --responsible grace --due 2024-04-01`,
			},
			{
				Description: "Create a task with two screenshots",
				Command:     `kanban task create website --title "Broken layout" -i before.png -i after.png`,
			},
		},
		Params: func() any { return &params },
		Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
			if len(args) != 1 {
				return cli.Validation("usage: kanban task create <project> --title TITLE [flags]")
			}
			opened, err := openProjectBoard(ctx, &params.ClientFlags, args[0], logger)
			if err != nil {
				return err
			}

			var draft board.TaskDraft
			if err := params.apply(&draft, opened.board.Roster()); err != nil {
				return err
			}
			if draft.Title == "" {
				return cli.Validation("--title is required")
			}

			panel := imagepanel.New(imagepanel.Config{Logger: logger})
			defer panel.Close()
			if err := stageImages(panel, params.Images); err != nil {
				return err
			}

			result, err := opened.board.SaveTask(ctx, draft, panel.Diff())
			if err != nil {
				return saveError(err, "creating task")
			}
			reportSteps(result.Steps)

			if done, err := params.EmitJSON(newSaveOutput(result)); done {
				return err
			}
			fmt.Fprintln(cli.Stdout(), result.Task.ID)
			return nil
		},
	}
}

// --- edit ---

type editParams struct {
	cli.ClientFlags
	cli.JSONOutput
	FieldFlags
	ClearDescription bool    `json:"clear_description" flag:"clear-description" desc:"remove the description"`
	RemoveImages     []int64 `json:"remove_images"     flag:"remove-image"      desc:"remove an attached image by id (repeatable)"`
	ImageOrder       []int64 `json:"image_order"       flag:"image-order"       desc:"new order of the remaining attached images, by id"`
}

func editCommand() *cli.Command {
	var params editParams

	return &cli.Command{
		Name:    "edit",
		Summary: "Edit a task and its images",
		Description: `Change a task's fields and images. Fields not given keep their
current values. Moving a task into "done" records today as its
completion date and whether it finished on time.

Images: --remove-image drops attached images, --image-order reorders
the attached images that remain (list every remaining id), and
--image attaches new files after them. Image steps run after the
fields are saved; failures are reported as warnings.`,
		Usage: "kanban task edit <task> [flags]",
		Examples: []cli.Example{
			{
				Description: "Reassign and raise priority",
				Command:     "kanban task edit 12 --responsible linus --priority critical",
			},
			{
				Description: "Drop image 31 and put image 33 first",
				Command:     "kanban task edit 12 --remove-image 31 --image-order 33,32",
			},
		},
		Params: func() any { return &params },
		Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
			if len(args) != 1 {
				return cli.Validation("usage: kanban task edit <task> [flags]")
			}
			if params.ClearDescription && params.Description != "" {
				return cli.Validation("--description and --clear-description are mutually exclusive")
			}
			opened, task, err := openTask(ctx, &params.ClientFlags, args[0], logger)
			if err != nil {
				return err
			}

			original := board.DraftOf(task)
			draft := original
			if err := params.apply(&draft, opened.board.Roster()); err != nil {
				return err
			}
			if params.ClearDescription {
				draft.Description = ""
			}
			if draft.Title == "" {
				return cli.Validation("the title cannot be empty")
			}

			panel := imagepanel.New(imagepanel.Config{Existing: task.SortedImages(), Logger: logger})
			defer panel.Close()
			for _, id := range params.RemoveImages {
				if !panel.RemoveExisting(id) {
					return cli.NotFound("task %d has no image %d", task.ID, id)
				}
			}
			if len(params.ImageOrder) > 0 {
				if err := panel.Arrange(params.ImageOrder); err != nil {
					return cli.Validation("--image-order: %w", err)
				}
			}
			if err := stageImages(panel, params.Images); err != nil {
				return err
			}

			diff := panel.Diff()
			if draft == original && !diff.Changed() {
				return cli.Validation("nothing to change (see kanban task edit --help)")
			}

			result, err := opened.board.SaveTask(ctx, draft, diff)
			if err != nil {
				return saveError(err, fmt.Sprintf("saving task %d", task.ID))
			}
			reportSteps(result.Steps)

			if done, err := params.EmitJSON(newSaveOutput(result)); done {
				return err
			}
			fmt.Fprintf(os.Stderr, "Updated task %d %q\n", result.Task.ID, result.Task.Title)
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
		Name:        "delete",
		Summary:     "Delete a task",
		Description: `Delete a task and its images. This cannot be undone, so --yes is required.`,
		Usage:       "kanban task delete <task> --yes",
		Examples: []cli.Example{
			{
				Description: "Delete a task",
				Command:     "kanban task delete 12 --yes",
			},
		},
		Params: func() any { return &params },
		Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
			if len(args) != 1 {
				return cli.Validation("usage: kanban task delete <task> --yes")
			}
			opened, task, err := openTask(ctx, &params.ClientFlags, args[0], logger)
			if err != nil {
				return err
			}
			if !params.Yes {
				return cli.Validation("refusing to delete task %d %q without --yes", task.ID, task.Title)
			}
			if err := opened.board.DeleteTask(ctx, task.ID); err != nil {
				return saveError(err, fmt.Sprintf("deleting task %d", task.ID))
			}
			fmt.Fprintf(os.Stderr, "Deleted task %d %q\n", task.ID, task.Title)
			return nil
		},
	}
}

// --- move ---

type moveParams struct {
	cli.ClientFlags
	cli.JSONOutput
}

func moveCommand() *cli.Command {
	var params moveParams

	return &cli.Command{
		Name:    "move",
		Summary: "Move a task to another column",
		Description: `Move a task to a column: new, in_progress, testing, review or done
(labels such as "in progress" work too). Moving into done records
today as the completion date and whether the task finished on time;
moving out of done clears it unless the configuration keeps it.
Moving a task to the column it is already in changes nothing.`,
		Usage: "kanban task move <task> <column> [flags]",
		Examples: []cli.Example{
			{
				Description: "Start work on a task",
				Command:     "kanban task move 12 in_progress",
			},
			{
				Description: "Finish a task",
				Command:     "kanban task move 12 done",
			},
		},
		Params: func() any { return &params },
		Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
			if len(args) != 2 {
				return cli.Validation("usage: kanban task move <task> <column>")
			}
			dest, err := parseColumn(args[1])
			if err != nil {
				return err
			}
			opened, task, err := openTask(ctx, &params.ClientFlags, args[0], logger)
			if err != nil {
				return err
			}

			source := task.Column
			moved, err := opened.board.Move(ctx, task.ID, source, dest)
			if err != nil {
				if errors.Is(err, board.ErrTaskNotFound) {
					return cli.NotFound("%w", err)
				}
				return cli.FromAPIError(err, fmt.Sprintf("moving task %d", task.ID))
			}

			if done, err := params.EmitJSON(moved); done {
				return err
			}
			if source == dest {
				fmt.Fprintf(os.Stderr, "Task %d is already in %s\n", task.ID, dest.Label())
				return nil
			}
			fmt.Fprintf(os.Stderr, "Moved task %d from %s to %s\n", task.ID, source.Label(), dest.Label())
			if dest == kanban.ColumnDone && moved.DoneColor != kanban.DoneColorNone {
				fmt.Fprintf(os.Stderr, "Completed %s (%s)\n", moved.CompletedAt, moved.DoneColor.Label())
			}
			return nil
		},
	}
}
