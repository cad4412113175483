// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package boardui

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"

	"github.com/bureau-foundation/kanban/lib/clock"
	"github.com/bureau-foundation/kanban/lib/kanban"
	"github.com/bureau-foundation/kanban/lib/kanbanapi"
	"github.com/bureau-foundation/kanban/lib/kanbantest"
	"github.com/bureau-foundation/kanban/lib/secret"
)

var today = time.Date(2024, time.January, 10, 15, 30, 0, 0, time.Local)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fixture is a logged-in client against a fake backend holding two
// projects. Compiler has one task in new and one in review.
type fixture struct {
	server   *kanbantest.Server
	client   *kanbanapi.Client
	me       kanban.User
	compiler kanban.Project
	website  kanban.Project
	parser   kanban.Task
	review   kanban.Task
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	server := kanbantest.NewServer(kanbantest.BackendConfig{Logger: quietLogger()})
	t.Cleanup(server.Close)

	me := server.AddUser(kanbantest.UserSpec{Username: "ada", Password: "pw", DisplayName: "Ada Lovelace"})
	peer := server.AddUser(kanbantest.UserSpec{Username: "grace", Password: "pw", DisplayName: "Grace Hopper"})
	compiler := server.AddProject(kanbantest.ProjectSpec{Title: "Compiler", Participants: []int64{me.ID, peer.ID}})
	website := server.AddProject(kanbantest.ProjectSpec{Title: "Website", Participants: []int64{me.ID}})
	parser := server.AddTask(kanbantest.TaskSpec{
		ProjectID:     compiler.ID,
		Title:         "Write parser",
		Description:   "Handle **nested** blocks.",
		Column:        kanban.ColumnNew,
		Priority:      kanban.PriorityHigh,
		ResponsibleID: me.ID,
		DueDate:       kanban.NewDate(2024, time.January, 12),
	})
	review := server.AddTask(kanbantest.TaskSpec{
		ProjectID:     compiler.ID,
		Title:         "Review lexer",
		Column:        kanban.ColumnReview,
		Priority:      kanban.PriorityLow,
		ResponsibleID: peer.ID,
	})

	client, err := kanbanapi.NewClient(kanbanapi.ClientConfig{BaseURL: server.URL, Logger: quietLogger()})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	password, err := secret.NewFromBytes([]byte("pw"))
	if err != nil {
		t.Fatalf("secret.NewFromBytes: %v", err)
	}
	defer password.Close()
	ctx := context.Background()
	if err := client.PrimeCSRF(ctx); err != nil {
		t.Fatalf("PrimeCSRF: %v", err)
	}
	if _, err := client.Login(ctx, "ada", password); err != nil {
		t.Fatalf("Login: %v", err)
	}

	return &fixture{server: server, client: client, me: me, compiler: compiler, website: website, parser: parser, review: review}
}

// model returns a sized model with the project list loaded.
func (f *fixture) model(t *testing.T) Model {
	t.Helper()
	model, err := NewModel(Config{
		API:                     f.client,
		Identity:                kanban.Identity{ID: f.me.ID, Username: "ada", DisplayName: "Ada Lovelace"},
		ClearCompletionOnReopen: true,
		Clock:                   clock.Fake(today),
		Logger:                  quietLogger(),
	})
	if err != nil {
		t.Fatalf("NewModel: %v", err)
	}
	model = update(t, model, tea.WindowSizeMsg{Width: 160, Height: 40})
	return run(t, model, model.loadProjectsCmd())
}

// boardModel returns a model showing the Compiler board.
func (f *fixture) boardModel(t *testing.T) Model {
	t.Helper()
	model := f.model(t)
	model = run(t, model, model.openBoardCmd(f.compiler.ID))
	if model.Screen() != ScreenBoard {
		t.Fatalf("screen = %v after opening the board, want ScreenBoard (status %q)", model.Screen(), model.status)
	}
	return model
}

func update(t *testing.T, model Model, message tea.Msg) Model {
	t.Helper()
	updated, _ := model.Update(message)
	return updated.(Model)
}

// run executes a single command and feeds its message back.
func run(t *testing.T, model Model, command tea.Cmd) Model {
	t.Helper()
	if command == nil {
		t.Fatal("expected a command, got nil")
	}
	return update(t, model, command())
}

func keyMsg(name string) tea.KeyMsg {
	switch name {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "ctrl+s":
		return tea.KeyMsg{Type: tea.KeyCtrlS}
	case "ctrl+p":
		return tea.KeyMsg{Type: tea.KeyCtrlP}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(name)}
}

// press sends one key and returns the model and the command it
// produced.
func press(t *testing.T, model Model, name string) (Model, tea.Cmd) {
	t.Helper()
	updated, command := model.Update(keyMsg(name))
	return updated.(Model), command
}

func pressAll(t *testing.T, model Model, names ...string) Model {
	t.Helper()
	for _, name := range names {
		model, _ = press(t, model, name)
	}
	return model
}

func screen(model Model) string { return ansi.Strip(model.View()) }

func TestNewModelRequiresAPI(t *testing.T) {
	if _, err := NewModel(Config{}); err == nil {
		t.Fatal("NewModel without API succeeded")
	}
}

func TestViewBeforeResize(t *testing.T) {
	f := newFixture(t)
	model, err := NewModel(Config{API: f.client, Logger: quietLogger()})
	if err != nil {
		t.Fatalf("NewModel: %v", err)
	}
	if got := model.View(); got != "Loading..." {
		t.Errorf("View = %q", got)
	}
}

func TestProjectListScreen(t *testing.T) {
	f := newFixture(t)
	model := f.model(t)

	view := screen(model)
	for _, want := range []string{"Projects", "Compiler", "Website", "Ada Lovelace", "Projects 2", "Active 1"} {
		if !strings.Contains(view, want) {
			t.Errorf("project list missing %q:\n%s", want, view)
		}
	}
	if lines := strings.Split(model.View(), "\n"); len(lines) != 40 {
		t.Errorf("view has %d lines, want the terminal height 40", len(lines))
	}

	model, command := press(t, model, "j")
	if command != nil || model.projectCursor != 1 {
		t.Errorf("cursor = %d after j", model.projectCursor)
	}
	model, _ = press(t, model, "j")
	if model.projectCursor != 1 {
		t.Errorf("cursor ran past the end: %d", model.projectCursor)
	}
}

func TestOpenBoard(t *testing.T) {
	f := newFixture(t)
	model := f.model(t)

	for model.projects.Projects()[model.projectCursor].ID != f.compiler.ID {
		model, _ = press(t, model, "j")
	}
	model, command := press(t, model, "enter")
	model = run(t, model, command)
	if model.Screen() != ScreenBoard {
		t.Fatalf("screen = %v, want ScreenBoard", model.Screen())
	}

	view := screen(model)
	for _, want := range []string{"Compiler", "2 tasks", "New (1)", "In progress (0)", "Review (1)", "Done (0)", "Write parser", "Review lexer", "2d left"} {
		if !strings.Contains(view, want) {
			t.Errorf("board missing %q:\n%s", want, view)
		}
	}

	model, command = press(t, model, "esc")
	if model.Screen() != ScreenProjects || command == nil {
		t.Errorf("esc: screen %v, command %v", model.Screen(), command)
	}
}

func TestMoveRight(t *testing.T) {
	f := newFixture(t)
	model := f.boardModel(t)

	model, command := press(t, model, "L")
	model = run(t, model, command)

	stored, _ := f.server.Task(f.parser.ID)
	if stored.Column != kanban.ColumnInProgress {
		t.Fatalf("server column = %q, want in_progress", stored.Column)
	}
	if model.view.column != 1 {
		t.Errorf("focus column = %d, want the card's new column 1", model.view.column)
	}
	if selected, ok := model.selectedTask(); !ok || selected.ID != f.parser.ID {
		t.Errorf("selection did not follow the card: %+v", selected)
	}
	if heat := model.heat.Heat(f.parser.ID, today); heat == 0 {
		t.Error("moved card is not glowing")
	}
}

func TestMoveLeftAtFirstColumnIsNoOp(t *testing.T) {
	f := newFixture(t)
	model := f.boardModel(t)
	f.server.ResetRequests()

	_, command := press(t, model, "H")
	if command != nil {
		t.Error("moving left out of new produced a command")
	}
	if count := f.server.CountMutations(); count != 0 {
		t.Errorf("%d mutations sent", count)
	}
}

func TestMoveToDoneWithDropdown(t *testing.T) {
	f := newFixture(t)
	model := f.boardModel(t)

	model, _ = press(t, model, "m")
	if model.dropdown == nil {
		t.Fatal("m did not open the column dropdown")
	}
	if !strings.Contains(screen(model), "In progress") {
		t.Error("dropdown not drawn")
	}
	model = pressAll(t, model, "j", "j", "j", "j")
	model, command := press(t, model, "enter")
	if model.dropdown != nil {
		t.Error("dropdown still open after selection")
	}
	model = run(t, model, command)

	stored, _ := f.server.Task(f.parser.ID)
	if stored.Column != kanban.ColumnDone {
		t.Fatalf("server column = %q, want done", stored.Column)
	}
	if stored.CompletedAt != kanban.DateOf(today) || stored.DoneColor != kanban.DoneColorOnTime {
		t.Errorf("completion = %v/%q, want today/green", stored.CompletedAt, stored.DoneColor)
	}
	if !strings.Contains(screen(model), "✓ on time") {
		t.Errorf("done badge missing:\n%s", screen(model))
	}
}

func TestMoveFailureRollsBackAndReports(t *testing.T) {
	f := newFixture(t)
	model := f.boardModel(t)
	f.server.FailNext(http.MethodPatch, "/api/tasks/", http.StatusInternalServerError, `{"detail":"database unavailable"}`)

	model, command := press(t, model, "L")
	model = run(t, model, command)

	if task, _ := model.board.Task(f.parser.ID); task.Column != kanban.ColumnNew {
		t.Errorf("local column = %q after failure, want new", task.Column)
	}
	if !strings.Contains(model.status, "move failed") {
		t.Errorf("status = %q", model.status)
	}
	if !strings.Contains(screen(model), "move failed") {
		t.Error("status bar does not show the failure")
	}
}

func TestSearchAndMineOnly(t *testing.T) {
	f := newFixture(t)
	model := f.boardModel(t)

	model, _ = press(t, model, "/")
	if !model.search.active {
		t.Fatal("/ did not activate search")
	}
	model, _ = press(t, model, "LEXER")
	if got := model.board.Filter().Query; got != "LEXER" {
		t.Fatalf("filter query = %q", got)
	}
	view := screen(model)
	if strings.Contains(view, "Write parser") || !strings.Contains(view, "Review lexer") {
		t.Errorf("search did not filter:\n%s", view)
	}

	model, _ = press(t, model, "enter")
	if model.search.active || model.board.Filter().Query != "LEXER" {
		t.Error("enter should keep the query and leave the input")
	}
	model, _ = press(t, model, "/")
	model, _ = press(t, model, "esc")
	if model.board.Filter().Query != "" {
		t.Errorf("esc did not clear the query: %q", model.board.Filter().Query)
	}

	model, _ = press(t, model, "M")
	if !model.board.Filter().MineOnly {
		t.Fatal("M did not enable mine only")
	}
	view = screen(model)
	if !strings.Contains(view, "Write parser") || strings.Contains(view, "Review lexer") || !strings.Contains(view, "[mine only]") {
		t.Errorf("mine only view:\n%s", view)
	}
}

func TestDeleteTaskAsksFirst(t *testing.T) {
	f := newFixture(t)
	model := f.boardModel(t)

	model, command := press(t, model, "d")
	if command != nil || model.confirm == nil {
		t.Fatal("d should ask for confirmation")
	}
	if !strings.Contains(screen(model), `Delete task "Write parser"?`) {
		t.Errorf("confirmation not shown:\n%s", screen(model))
	}

	model, _ = press(t, model, "n")
	if model.confirm != nil {
		t.Fatal("n did not cancel")
	}
	if _, ok := f.server.Task(f.parser.ID); !ok {
		t.Fatal("task deleted without confirmation")
	}

	model, _ = press(t, model, "d")
	model, command = press(t, model, "y")
	model = run(t, model, command)
	if _, ok := f.server.Task(f.parser.ID); ok {
		t.Error("task still on the server")
	}
	if _, ok := model.board.Task(f.parser.ID); ok {
		t.Error("task still on the board")
	}
	if !strings.Contains(model.status, "deleted") {
		t.Errorf("status = %q", model.status)
	}
}

func TestTaskDetail(t *testing.T) {
	f := newFixture(t)
	model := f.boardModel(t)

	model, _ = press(t, model, "enter")
	if model.detail == nil {
		t.Fatal("enter did not open the detail overlay")
	}
	view := screen(model)
	for _, want := range []string{"Column", "High", "Ada Lovelace", "2024-01-12", "Handle nested blocks."} {
		if !strings.Contains(view, want) {
			t.Errorf("detail missing %q:\n%s", want, view)
		}
	}

	model, _ = press(t, model, "e")
	if model.detail != nil || model.Screen() != ScreenForm {
		t.Errorf("e from detail: screen %v", model.Screen())
	}
	model.closeForm()
}

func TestCreateTaskFromForm(t *testing.T) {
	f := newFixture(t)
	model := f.boardModel(t)
	model = pressAll(t, model, "l")

	model, _ = press(t, model, "n")
	if model.Screen() != ScreenForm {
		t.Fatalf("screen = %v after n", model.Screen())
	}
	if model.form.column != kanban.ColumnInProgress {
		t.Errorf("new task column = %q, want the focused column", model.form.column)
	}
	model, _ = press(t, model, "Write tests")
	if !strings.Contains(screen(model), "New task") {
		t.Error("form heading missing")
	}

	model, command := press(t, model, "ctrl+s")
	if command == nil || !model.form.saving {
		t.Fatal("ctrl+s did not start a save")
	}
	model = run(t, model, command)

	if model.Screen() != ScreenBoard || model.form != nil {
		t.Fatalf("screen = %v after save (form err %v)", model.Screen(), model.form)
	}
	selected, ok := model.selectedTask()
	if !ok || selected.Title != "Write tests" || selected.Column != kanban.ColumnInProgress {
		t.Errorf("selected after create = %+v", selected)
	}
	if stored, ok := f.server.Task(selected.ID); !ok || stored.Title != "Write tests" {
		t.Errorf("server task = %+v", stored)
	}
}

func TestEditTaskAddsImage(t *testing.T) {
	f := newFixture(t)
	model := f.boardModel(t)

	path := filepath.Join(t.TempDir(), "sketch.png")
	if err := os.WriteFile(path, []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDRsketch"), 0o600); err != nil {
		t.Fatal(err)
	}

	model, _ = press(t, model, "e")
	if model.form == nil || model.form.id != f.parser.ID {
		t.Fatal("e did not open the edit form")
	}
	model = pressAll(t, model, "tab", "tab", "tab", "tab", "tab", "tab")
	if model.form.focus != fieldImages {
		t.Fatalf("focus = %v, want images", model.form.focus)
	}
	model = pressAll(t, model, "a", path, "enter")
	if staged := model.form.panel.Staged(); len(staged) != 1 {
		t.Fatalf("staged %d files (notice %q)", len(staged), model.form.notice)
	}
	if !strings.Contains(screen(model), "sketch.png") {
		t.Error("staged file not listed")
	}

	model, command := press(t, model, "ctrl+s")
	model = run(t, model, command)
	if model.Screen() != ScreenBoard {
		t.Fatalf("screen = %v after save", model.Screen())
	}
	stored, _ := f.server.Task(f.parser.ID)
	if len(stored.Images) != 1 {
		t.Errorf("server images = %+v, want one", stored.Images)
	}
}

func TestFormRejectsBadDueDate(t *testing.T) {
	f := newFixture(t)
	model := f.boardModel(t)

	model, _ = press(t, model, "e")
	model = pressAll(t, model, "tab", "tab", "tab", "tab", "tab")
	if model.form.focus != fieldDue {
		t.Fatalf("focus = %v, want due date", model.form.focus)
	}
	model = pressAll(t, model, "x")
	model, command := press(t, model, "ctrl+s")
	if command != nil {
		t.Fatal("save started with an invalid due date")
	}
	if !strings.Contains(model.form.err, "due date") {
		t.Errorf("form error = %q", model.form.err)
	}

	model, _ = press(t, model, "esc")
	if model.Screen() != ScreenBoard || model.form != nil {
		t.Error("esc did not cancel the form")
	}
}

func TestFormPriorityDropdown(t *testing.T) {
	f := newFixture(t)
	model := f.boardModel(t)

	model, _ = press(t, model, "e")
	model = pressAll(t, model, "tab", "tab", "tab", "enter")
	if model.form.dropdown == nil {
		t.Fatal("enter on priority did not open the dropdown")
	}
	model = pressAll(t, model, "j", "enter")
	if model.form.priority != kanban.PriorityCritical {
		t.Errorf("priority = %q, want critical", model.form.priority)
	}
	model.closeForm()
}

func TestProjectPicker(t *testing.T) {
	f := newFixture(t)
	model := f.model(t)

	model, _ = press(t, model, "ctrl+p")
	if model.picker == nil {
		t.Fatal("ctrl+p did not open the picker")
	}
	model, _ = press(t, model, "webs")
	if len(model.picker.matches) != 1 {
		t.Fatalf("matches = %+v", model.picker.matches)
	}
	if !strings.Contains(screen(model), "Jump to project") {
		t.Error("picker not drawn")
	}
	model, command := press(t, model, "enter")
	model = run(t, model, command)
	if model.Screen() != ScreenBoard || model.board.Project().ID != f.website.ID {
		t.Errorf("picker opened %+v", model.board.Project())
	}
}

func TestCreateProject(t *testing.T) {
	f := newFixture(t)
	model := f.model(t)

	model = pressAll(t, model, "n", "Docs")
	model, command := press(t, model, "enter")
	model = run(t, model, command)

	if projects := model.projects.Projects(); len(projects) != 3 || projects[0].Title != "Docs" {
		t.Errorf("projects after create = %+v", projects)
	}
	if !strings.Contains(model.status, `created project "Docs"`) {
		t.Errorf("status = %q", model.status)
	}
}

func TestStatusFade(t *testing.T) {
	f := newFixture(t)
	model := f.model(t)

	model = update(t, model, statusRecordMsg{Summary: "first", Level: slog.LevelWarn})
	stale := model.statusGeneration
	model = update(t, model, statusRecordMsg{Summary: "second", Level: slog.LevelWarn})

	model = update(t, model, statusFadeMsg{generation: stale})
	if model.status != "second" {
		t.Errorf("stale fade cleared a newer status: %q", model.status)
	}
	model = update(t, model, statusFadeMsg{generation: model.statusGeneration})
	if model.status != "" {
		t.Errorf("status = %q after fade", model.status)
	}
	if !strings.Contains(screen(model), "q quit") {
		t.Error("help line not restored")
	}
}
