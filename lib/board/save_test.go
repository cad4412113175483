// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package board

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/bureau-foundation/kanban/lib/imagepanel"
	"github.com/bureau-foundation/kanban/lib/kanban"
	"github.com/bureau-foundation/kanban/lib/kanbantest"
)

func pngData(tag string) []byte {
	return append([]byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR"), tag...)
}

func stepKinds(steps Steps) []StepKind {
	kinds := make([]StepKind, len(steps))
	for index, step := range steps {
		kinds[index] = step.Kind
	}
	return kinds
}

func imageIDs(task kanban.Task) []int64 {
	var ids []int64
	for _, image := range task.SortedImages() {
		ids = append(ids, image.ID)
	}
	return ids
}

func TestSaveEditWithImages(t *testing.T) {
	f := newFixture(t, kanbantest.BackendConfig{})
	seeded := f.addTask(kanbantest.TaskSpec{Title: "Mockups"})
	a := f.server.AddImage(seeded.ID, 0, "a.png", pngData("a"))
	b := f.server.AddImage(seeded.ID, 1, "b.png", pngData("b"))
	c := f.server.AddImage(seeded.ID, 2, "c.png", pngData("c"))
	board := f.board(t, true)

	task, _ := board.Task(seeded.ID)
	panel := imagepanel.New(imagepanel.Config{Existing: task.Images, Logger: quietLogger()})
	panel.RemoveExisting(b.ID)
	if err := panel.MoveExisting(0, 1); err != nil {
		t.Fatal(err)
	}
	panel.AddPasted("new.png", pngData("new"))

	draft := DraftOf(task)
	draft.Title = "Mockups v2"
	result, err := board.SaveTask(context.Background(), draft, panel.Diff())
	if err != nil {
		t.Fatalf("SaveTask: %v", err)
	}

	wantKinds := []StepKind{StepDeleteImage, StepRefresh, StepUploadImage, StepReorderImage, StepReorderImage, StepRefresh}
	if got := stepKinds(result.Steps); !reflect.DeepEqual(got, wantKinds) {
		t.Fatalf("steps = %v, want %v", result.Steps, wantKinds)
	}
	if !result.Steps.OK() {
		t.Fatalf("failed steps: %v", result.Steps.Err())
	}
	if result.Created {
		t.Error("edit reported Created")
	}

	stored, _ := f.server.Task(seeded.ID)
	if stored.Title != "Mockups v2" {
		t.Errorf("server title = %q", stored.Title)
	}
	ids := imageIDs(stored)
	if len(ids) != 3 || ids[0] != c.ID || ids[1] != a.ID {
		t.Errorf("server image order = %v, want [%d %d <new>]", ids, c.ID, a.ID)
	}
	if !reflect.DeepEqual(imageIDs(result.Task), ids) {
		t.Errorf("returned image order = %v, want the server's %v", imageIDs(result.Task), ids)
	}
	local, _ := board.Task(seeded.ID)
	if !reflect.DeepEqual(imageIDs(local), ids) {
		t.Errorf("board image order = %v, want %v", imageIDs(local), ids)
	}
}

func TestSaveEditStepFailureDoesNotRollBack(t *testing.T) {
	f := newFixture(t, kanbantest.BackendConfig{})
	seeded := f.addTask(kanbantest.TaskSpec{Title: "Mockups"})
	f.server.AddImage(seeded.ID, 0, "a.png", pngData("a"))
	b := f.server.AddImage(seeded.ID, 1, "b.png", pngData("b"))
	board := f.board(t, true)

	task, _ := board.Task(seeded.ID)
	panel := imagepanel.New(imagepanel.Config{Existing: task.Images, Logger: quietLogger()})
	panel.RemoveExisting(b.ID)

	draft := DraftOf(task)
	draft.Title = "Renamed"
	f.server.FailNext("DELETE", "/api/task-images/", 500, `{"detail":"storage offline"}`)

	result, err := board.SaveTask(context.Background(), draft, panel.Diff())
	if err != nil {
		t.Fatalf("SaveTask: %v", err)
	}
	failed := result.Steps.Failed()
	if len(failed) != 1 || failed[0].Kind != StepDeleteImage || failed[0].Target != itoa(b.ID) {
		t.Fatalf("failed steps = %v, want the one delete", failed)
	}
	if !strings.Contains(result.Steps.Err().Error(), "storage offline") {
		t.Errorf("Steps.Err() = %v", result.Steps.Err())
	}
	if result.Steps[len(result.Steps)-1].Kind != StepRefresh {
		t.Error("steps after the failed delete did not run")
	}

	local, _ := board.Task(seeded.ID)
	if local.Title != "Renamed" {
		t.Errorf("local title = %q, want the saved title", local.Title)
	}
	stored, _ := f.server.Task(seeded.ID)
	if len(stored.Images) != 2 {
		t.Errorf("server has %d images, want 2 (delete failed)", len(stored.Images))
	}
}

func TestSaveImagesSkipsFields(t *testing.T) {
	f := newFixture(t, kanbantest.BackendConfig{})
	seeded := f.addTask(kanbantest.TaskSpec{Title: "Mockups"})
	a := f.server.AddImage(seeded.ID, 0, "a.png", pngData("a"))
	b := f.server.AddImage(seeded.ID, 1, "b.png", pngData("b"))
	board := f.board(t, true)

	task, _ := board.Task(seeded.ID)
	panel := imagepanel.New(imagepanel.Config{Existing: task.Images, Logger: quietLogger()})
	if err := panel.Arrange([]int64{b.ID, a.ID}); err != nil {
		t.Fatal(err)
	}

	result, err := board.SaveImages(context.Background(), seeded.ID, panel.Diff())
	if err != nil {
		t.Fatalf("SaveImages: %v", err)
	}
	wantKinds := []StepKind{StepReorderImage, StepReorderImage, StepRefresh}
	if got := stepKinds(result.Steps); !reflect.DeepEqual(got, wantKinds) {
		t.Fatalf("steps = %v, want %v", result.Steps, wantKinds)
	}
	if got := f.server.Count("PATCH", "/api/tasks/"+itoa(seeded.ID)+"/"); got != 0 {
		t.Errorf("SaveImages sent %d task PATCHes", got)
	}
	if ids := imageIDs(result.Task); !reflect.DeepEqual(ids, []int64{b.ID, a.ID}) {
		t.Errorf("image order = %v, want [%d %d]", ids, b.ID, a.ID)
	}

	unchanged, err := board.SaveImages(context.Background(), seeded.ID, imagepanel.Diff{})
	if err != nil || len(unchanged.Steps) != 0 {
		t.Errorf("empty diff: steps %v, err %v", unchanged.Steps, err)
	}
	if _, err := board.SaveImages(context.Background(), 999999, panel.Diff()); !errors.Is(err, ErrTaskNotFound) {
		t.Errorf("unknown task: err = %v, want ErrTaskNotFound", err)
	}
}

func TestSaveEditPatchFailureRollsBack(t *testing.T) {
	f := newFixture(t, kanbantest.BackendConfig{})
	seeded := f.addTask(kanbantest.TaskSpec{Title: "Mockups"})
	image := f.server.AddImage(seeded.ID, 0, "a.png", pngData("a"))
	board := f.board(t, true)
	before := board.Tasks()

	task, _ := board.Task(seeded.ID)
	panel := imagepanel.New(imagepanel.Config{Existing: task.Images, Logger: quietLogger()})
	panel.RemoveExisting(image.ID)
	draft := DraftOf(task)
	draft.Title = "Broken"

	f.server.FailNext("PATCH", "/api/tasks/", 400, `{"title":["Ensure this field has no more than 200 characters."]}`)
	if _, err := board.SaveTask(context.Background(), draft, panel.Diff()); err == nil {
		t.Fatal("SaveTask succeeded despite the failed PATCH")
	}
	if !reflect.DeepEqual(before, board.Tasks()) {
		t.Error("failed save did not restore the task list")
	}
	for _, request := range f.server.Requests() {
		if strings.HasPrefix(request.Path, "/api/task-images/") {
			t.Errorf("image step ran after the failed PATCH: %s %s", request.Method, request.Path)
		}
	}
}

func TestSaveEditScalarsOnly(t *testing.T) {
	f := newFixture(t, kanbantest.BackendConfig{ResponsibleAsID: true})
	seeded := f.addTask(kanbantest.TaskSpec{
		Title:       "Release",
		Column:      kanban.ColumnDone,
		DueDate:     kanban.NewDate(2024, 1, 5),
		CompletedAt: kanban.NewDate(2024, 1, 2),
		DoneColor:   kanban.DoneColorOnTime,
	})
	board := f.board(t, true)

	task, _ := board.Task(seeded.ID)
	draft := DraftOf(task)
	draft.ResponsibleID = f.peer.ID
	draft.Priority = kanban.PriorityCritical
	draft.DueDate = kanban.NewDate(2024, 1, 1)

	result, err := board.SaveTask(context.Background(), draft, imagepanel.Diff{})
	if err != nil {
		t.Fatalf("SaveTask: %v", err)
	}
	if len(result.Steps) != 0 {
		t.Errorf("scalar-only save ran steps: %v", result.Steps)
	}
	if result.Task.Responsible.Name() != "Grace Hopper" {
		t.Errorf("Responsible = %q, want the normalized roster name", result.Task.Responsible.Name())
	}
	if result.Task.CompletedAt != kanban.NewDate(2024, 1, 2) {
		t.Errorf("CompletedAt = %s, want the original completion kept", result.Task.CompletedAt)
	}
	if result.Task.DoneColor != kanban.DoneColorOverdue {
		t.Errorf("DoneColor = %q, want red against the earlier due date", result.Task.DoneColor)
	}
	stored, _ := f.server.Task(seeded.ID)
	if stored.Priority != kanban.PriorityCritical || stored.DoneColor != kanban.DoneColorOverdue {
		t.Errorf("server has %s/%q", stored.Priority, stored.DoneColor)
	}
}

func TestSaveEditFieldsKeepsUnreturnedState(t *testing.T) {
	for _, test := range []struct {
		name   string
		config kanbantest.BackendConfig
	}{
		{"full body", kanbantest.BackendConfig{}},
		{"reduced body", kanbantest.BackendConfig{ReducedTaskWrites: true}},
		{"empty body", kanbantest.BackendConfig{EmptyTaskUpdates: true}},
	} {
		t.Run(test.name, func(t *testing.T) {
			f := newFixture(t, test.config)
			seeded := f.addTask(kanbantest.TaskSpec{
				Title:       "Poster",
				Column:      kanban.ColumnDone,
				CompletedAt: kanban.NewDate(2024, 1, 2),
				DoneColor:   kanban.DoneColorNeutral,
			})
			image := f.server.AddImage(seeded.ID, 0, "poster.png", pngData("p"))
			board := f.board(t, true)

			before, _ := board.Task(seeded.ID)
			draft := DraftOf(before)
			draft.Title = "Poster v2"

			result, err := board.SaveTask(context.Background(), draft, imagepanel.Diff{})
			if err != nil {
				t.Fatalf("SaveTask: %v", err)
			}
			if result.Task.ID != seeded.ID || result.Task.Title != "Poster v2" {
				t.Errorf("result task = %d %q, want %d %q", result.Task.ID, result.Task.Title, seeded.ID, "Poster v2")
			}

			tasks := board.Tasks()
			if len(tasks) != 1 || tasks[0].ID != seeded.ID {
				t.Fatalf("board tasks = %+v, want only task %d", tasks, seeded.ID)
			}
			after := tasks[0]
			if after.Title != "Poster v2" {
				t.Errorf("Title = %q", after.Title)
			}
			if ids := imageIDs(after); len(ids) != 1 || ids[0] != image.ID {
				t.Errorf("images = %v, want [%d]", ids, image.ID)
			}
			if after.ProjectKey() != before.ProjectKey() {
				t.Errorf("ProjectKey = %d, want %d", after.ProjectKey(), before.ProjectKey())
			}
			if after.CompletedAt != kanban.NewDate(2024, 1, 2) || after.DoneColor != kanban.DoneColorNeutral {
				t.Errorf("completion = %s/%q, want the stored values kept", after.CompletedAt, after.DoneColor)
			}
		})
	}
}

func TestSaveCreate(t *testing.T) {
	f := newFixture(t, kanbantest.BackendConfig{})
	existing := f.addTask(kanbantest.TaskSpec{Title: "Older"})
	board := f.board(t, true)
	board.SetFilter(Filter{Query: "older", MineOnly: true})

	panel := imagepanel.New(imagepanel.Config{Logger: quietLogger()})
	panel.AddPasted("one.png", pngData("1"))
	panel.AddPasted("two.png", pngData("2"))

	result, err := board.SaveTask(context.Background(), TaskDraft{
		Title:         "Fresh",
		Column:        kanban.ColumnDone,
		ResponsibleID: f.me.ID,
	}, panel.Diff())
	if err != nil {
		t.Fatalf("SaveTask: %v", err)
	}
	if !result.Created || result.Task.ID == 0 {
		t.Fatalf("result = %+v, want a created task", result)
	}
	if !result.Steps.OK() {
		t.Errorf("failed steps: %v", result.Steps.Err())
	}
	if result.Task.CompletedAt != kanban.NewDate(2024, 1, 10) || result.Task.DoneColor != kanban.DoneColorNeutral {
		t.Errorf("completion = %s/%q, want today and neutral", result.Task.CompletedAt, result.Task.DoneColor)
	}
	if result.Task.Priority != kanban.DefaultPriority {
		t.Errorf("Priority = %q, want the default", result.Task.Priority)
	}

	images := result.Task.SortedImages()
	if len(images) != 2 || images[0].Position != 0 || images[1].Position != 1 {
		t.Errorf("images = %+v, want positions 0 and 1", images)
	}

	tasks := board.Tasks()
	if len(tasks) != 2 || tasks[0].ID != result.Task.ID || tasks[1].ID != existing.ID {
		t.Errorf("task order = %v, want the new task first", tasks)
	}
	if filter := board.Filter(); filter != (Filter{MineOnly: true}) {
		t.Errorf("filter after create = %+v, want the query cleared", filter)
	}

	stored, _ := f.server.Task(result.Task.ID)
	if stored.ProjectKey() != f.project.ID {
		t.Errorf("created in project %d, want %d", stored.ProjectKey(), f.project.ID)
	}
}

func TestSaveValidation(t *testing.T) {
	f := newFixture(t, kanbantest.BackendConfig{})
	board := f.board(t, true)

	if _, err := board.SaveTask(context.Background(), TaskDraft{Column: "archived"}, imagepanel.Diff{}); err == nil {
		t.Fatal("SaveTask accepted an empty title and unknown column")
	}
	if n := len(f.server.Requests()); n != 0 {
		t.Errorf("invalid draft issued %d requests", n)
	}
	_, err := board.SaveTask(context.Background(), TaskDraft{ID: 12345, Title: "Ghost"}, imagepanel.Diff{})
	if !errors.Is(err, ErrTaskNotFound) {
		t.Errorf("saving an unknown task: %v, want ErrTaskNotFound", err)
	}
}

// blockingAPI holds UpdateTask until release is closed.
type blockingAPI struct {
	API
	entered chan struct{}
	release chan struct{}
}

func (b *blockingAPI) UpdateTask(ctx context.Context, id int64, input kanban.TaskInput) (kanban.Task, error) {
	close(b.entered)
	<-b.release
	return b.API.UpdateTask(ctx, id, input)
}

func TestSaveInProgress(t *testing.T) {
	f := newFixture(t, kanbantest.BackendConfig{})
	seeded := f.addTask(kanbantest.TaskSpec{Title: "Slow"})
	api := &blockingAPI{API: f.client, entered: make(chan struct{}), release: make(chan struct{})}

	board, err := NewBoard(BoardConfig{API: api, Clock: f.clock, ProjectID: f.project.ID, Logger: quietLogger()})
	if err != nil {
		t.Fatal(err)
	}
	if err := board.Load(context.Background()); err != nil {
		t.Fatal(err)
	}
	task, _ := board.Task(seeded.ID)

	done := make(chan error, 1)
	go func() {
		_, err := board.SaveTask(context.Background(), DraftOf(task), imagepanel.Diff{})
		done <- err
	}()
	<-api.entered

	if !board.Saving() {
		t.Error("Saving() = false during a save")
	}
	if _, err := board.SaveTask(context.Background(), DraftOf(task), imagepanel.Diff{}); !errors.Is(err, ErrSaveInProgress) {
		t.Errorf("concurrent SaveTask: %v, want ErrSaveInProgress", err)
	}

	close(api.release)
	if err := <-done; err != nil {
		t.Fatalf("first SaveTask: %v", err)
	}
	if board.Saving() {
		t.Error("Saving() = true after the save finished")
	}
}
