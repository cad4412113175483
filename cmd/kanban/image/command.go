// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package image

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/bureau-foundation/kanban/cmd/kanban/cli"
	"github.com/bureau-foundation/kanban/lib/board"
	"github.com/bureau-foundation/kanban/lib/imagepanel"
	"github.com/bureau-foundation/kanban/lib/kanban"
)

// Command returns the "image" subcommand group.
func Command() *cli.Command {
	return &cli.Command{
		Name:    "image",
		Summary: "Attach, remove and reorder task images",
		Description: `Manage the images attached to one task without touching its other
fields. A task holds at most four images, kept in position order.
Every subcommand prints the task's images once the change is saved.

"kanban task edit" accepts the same changes together with field edits.`,
		Subcommands: []*cli.Command{
			addCommand(),
			removeCommand(),
			reorderCommand(),
		},
	}
}

// imageParams is shared by every subcommand of the group.
type imageParams struct {
	cli.ClientFlags
	cli.JSONOutput
}

// output is the JSON shape of every image subcommand.
type output struct {
	TaskID int64              `json:"task_id"`
	Images []kanban.TaskImage `json:"images"`
	Failed []string           `json:"failed"`
}

// stageFunc records changes on a panel holding the task's current
// images.
type stageFunc func(task kanban.Task, panel *imagepanel.Panel) error

// saveImages loads the task named by ref, stages changes on an image
// panel and saves the resulting diff. A failed upload, delete or
// reorder step is reported and makes the command fail as transient:
// the remaining steps still ran.
func saveImages(ctx context.Context, params *imageParams, ref string, logger *slog.Logger, stage stageFunc) error {
	taskID, err := cli.ParseTaskID(ref)
	if err != nil {
		return err
	}
	connection, identity, err := params.Open(ctx, logger)
	if err != nil {
		return err
	}
	projectBoard, task, err := connection.OpenTaskBoard(ctx, taskID, identity.ID)
	if err != nil {
		return err
	}

	panel := imagepanel.New(imagepanel.Config{Existing: task.SortedImages(), Logger: logger})
	defer panel.Close()
	if err := stage(task, panel); err != nil {
		return err
	}

	result, err := projectBoard.SaveImages(ctx, task.ID, panel.Diff())
	if err != nil {
		return cli.FromAPIError(err, fmt.Sprintf("saving images of task %d", task.ID))
	}

	failed := result.Steps.Failed()
	for _, step := range failed {
		fmt.Fprintf(os.Stderr, "warning: %s\n", step)
	}
	images := result.Task.SortedImages()
	if images == nil {
		images = []kanban.TaskImage{}
	}

	jsonOutput := output{TaskID: task.ID, Images: images, Failed: []string{}}
	for _, step := range failed {
		jsonOutput.Failed = append(jsonOutput.Failed, step.String())
	}
	if done, err := params.EmitJSON(jsonOutput); done {
		if err != nil {
			return err
		}
		return stepsError(result.Steps)
	}
	if err := writeImages(cli.Stdout(), images, connection.Client.BaseURL()); err != nil {
		return err
	}
	return stepsError(result.Steps)
}

func stepsError(steps board.Steps) error {
	if steps.OK() {
		return nil
	}
	return cli.Transient("%d of %d image steps failed: %w", len(steps.Failed()), len(steps), steps.Err())
}

func writeImages(out io.Writer, images []kanban.TaskImage, baseURL string) error {
	if len(images) == 0 {
		fmt.Fprintln(out, "No images.")
		return nil
	}
	writer := tabwriter.NewWriter(out, 2, 0, 3, ' ', 0)
	fmt.Fprintln(writer, "POSITION\tID\tURL")
	for index, image := range images {
		url := image.URL
		if strings.HasPrefix(url, "/") {
			url = strings.TrimSuffix(baseURL, "/") + url
		}
		fmt.Fprintf(writer, "%d\t%d\t%s\n", index, image.ID, url)
	}
	return writer.Flush()
}

// parseImageIDs accepts "7" or "#7".
func parseImageIDs(refs []string) ([]int64, error) {
	ids := make([]int64, 0, len(refs))
	for _, ref := range refs {
		id, err := cli.ParseTaskID(ref)
		if err != nil {
			return nil, cli.Validation("invalid image id %q", ref)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// --- add ---

func addCommand() *cli.Command {
	var params imageParams

	return &cli.Command{
		Name:    "add",
		Summary: "Attach image files to a task",
		Description: `Upload image files to a task, appended after its current images in
the order given. Every file is checked before anything is sent: it
must be readable, look like an image, and fit in the task's four
image slots. A file already attached or staged is rejected.`,
		Usage: "kanban image add <task> <file>... [flags]",
		Examples: []cli.Example{
			{
				Description: "Attach two screenshots",
				Command:     "kanban image add 12 before.png after.png",
			},
		},
		Params: func() any { return &params },
		Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
			if len(args) < 2 {
				return cli.Validation("usage: kanban image add <task> <file>... [flags]")
			}
			return saveImages(ctx, &params, args[0], logger, func(task kanban.Task, panel *imagepanel.Panel) error {
				result := panel.AddFiles(args[1:])
				var problems []string
				for _, rejected := range result.Rejected {
					problems = append(problems, rejected.Err.Error())
				}
				if result.Truncated > 0 {
					problems = append(problems, fmt.Sprintf("task %d has room for %d more image(s)", task.ID, imagepanel.Capacity-len(task.Images)))
				}
				if len(problems) > 0 {
					return cli.Validation("cannot attach images: %s", strings.Join(problems, "; "))
				}
				return nil
			})
		},
	}
}

// --- rm ---

func removeCommand() *cli.Command {
	var params imageParams

	return &cli.Command{
		Name:    "rm",
		Summary: "Remove images from a task",
		Description: `Delete images from a task by id. The remaining images close up so
their positions stay contiguous. "kanban task show" lists image ids.`,
		Usage: "kanban image rm <task> <image-id>... [flags]",
		Examples: []cli.Example{
			{
				Description: "Remove one image",
				Command:     "kanban image rm 12 31",
			},
		},
		Params: func() any { return &params },
		Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
			if len(args) < 2 {
				return cli.Validation("usage: kanban image rm <task> <image-id>... [flags]")
			}
			ids, err := parseImageIDs(args[1:])
			if err != nil {
				return err
			}
			return saveImages(ctx, &params, args[0], logger, func(task kanban.Task, panel *imagepanel.Panel) error {
				for _, id := range ids {
					if !panel.RemoveExisting(id) {
						return cli.NotFound("task %d has no image %d", task.ID, id)
					}
				}
				return nil
			})
		},
	}
}

// --- reorder ---

func reorderCommand() *cli.Command {
	var params imageParams

	return &cli.Command{
		Name:    "reorder",
		Summary: "Change the order of a task's images",
		Description: `Set the order of a task's images. Every attached image id must be
listed exactly once; the first becomes position 0. Repeating the
current order changes nothing.`,
		Usage: "kanban image reorder <task> <image-id>... [flags]",
		Examples: []cli.Example{
			{
				Description: "Swap the two images of task 12",
				Command:     "kanban image reorder 12 32 31",
			},
		},
		Params: func() any { return &params },
		Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
			if len(args) < 2 {
				return cli.Validation("usage: kanban image reorder <task> <image-id>... [flags]")
			}
			ids, err := parseImageIDs(args[1:])
			if err != nil {
				return err
			}
			return saveImages(ctx, &params, args[0], logger, func(task kanban.Task, panel *imagepanel.Panel) error {
				if err := panel.Arrange(ids); err != nil {
					return cli.Validation("task %d: %w", task.ID, err)
				}
				return nil
			})
		},
	}
}
