// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package boardui

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/bureau-foundation/kanban/lib/board"
	"github.com/bureau-foundation/kanban/lib/clock"
	"github.com/bureau-foundation/kanban/lib/imagepanel"
	"github.com/bureau-foundation/kanban/lib/kanban"
	"github.com/bureau-foundation/kanban/lib/tui"
)

// Screen identifies the full-screen view.
type Screen int

const (
	// ScreenProjects is the project list with aggregate tiles.
	ScreenProjects Screen = iota
	// ScreenBoard is one project's five-column board.
	ScreenBoard
	// ScreenForm is the task create/edit form.
	ScreenForm
)

// Config holds configuration for the board program.
type Config struct {
	API board.API
	// Identity is the logged-in user. Its ID drives "mine" counts and
	// the mine-only filter.
	Identity kanban.Identity
	// Project opens this project's board on start. Zero starts on the
	// project list.
	Project int64
	// ClearCompletionOnReopen is passed to every board.
	ClearCompletionOnReopen bool
	// Deadlines are the card due-date tone thresholds. Zero means
	// kanban.DefaultDeadlineThresholds.
	Deadlines kanban.DeadlineThresholds
	// Previewer creates preview files for staged images. Nil disables
	// previews.
	Previewer imagepanel.Previewer
	Clock     clock.Clock
	// Context bounds every server call the program makes. Nil means
	// context.Background().
	Context context.Context
	// Logger is used for structured logging. If nil, slog.Default() is used.
	Logger *slog.Logger
}

// confirmation is a pending yes/no question.
type confirmation struct {
	prompt string
	accept func() tea.Cmd
}

// Model is the top-level bubbletea model.
type Model struct {
	api           board.API
	clock         clock.Clock
	logger        *slog.Logger
	ctx           context.Context
	identity      kanban.Identity
	clearOnReopen bool
	deadlines     kanban.DeadlineThresholds
	previewer     imagepanel.Previewer
	theme         tui.Theme
	keys          KeyMap

	width  int
	height int
	ready  bool

	screen Screen

	// Project list screen.
	projects       *board.ProjectList
	projectsLoaded bool
	projectCursor  int
	projectPrompt  *prompt

	// Board screen. board is nil until a project is opened.
	board    *board.Board
	view     boardView
	search   prompt
	dropdown *tui.Dropdown
	detail   *detailOverlay

	form    *taskForm
	picker  *projectPicker
	confirm *confirmation

	heat        *tui.HeatTracker
	tickRunning bool

	status           string
	statusLevel      slog.Level
	statusGeneration int
	startProject     int64
}

// NewModel creates the program model. Run it with tea.NewProgram and
// tea.WithAltScreen.
func NewModel(config Config) (Model, error) {
	if config.API == nil {
		return Model{}, fmt.Errorf("boardui: API is required")
	}
	clk := config.Clock
	if clk == nil {
		clk = clock.Real()
	}
	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}
	ctx := config.Context
	if ctx == nil {
		ctx = context.Background()
	}
	projects, err := board.NewProjectList(board.ProjectListConfig{API: config.API, Clock: clk, Logger: logger})
	if err != nil {
		return Model{}, err
	}
	return Model{
		api:           config.API,
		clock:         clk,
		logger:        logger,
		ctx:           ctx,
		identity:      config.Identity,
		clearOnReopen: config.ClearCompletionOnReopen,
		deadlines:     config.Deadlines,
		previewer:     config.Previewer,
		theme:         tui.DefaultTheme,
		keys:          DefaultKeyMap,
		screen:        ScreenProjects,
		projects:      projects,
		search:        newPrompt("/ ", "search title and description"),
		heat:          tui.NewHeatTracker(),
		startProject:  config.Project,
	}, nil
}

// Screen returns the active screen.
func (model Model) Screen() Screen { return model.screen }

// Init loads the project list, and the start project's board when one
// was configured.
func (model Model) Init() tea.Cmd {
	commands := []tea.Cmd{model.loadProjectsCmd()}
	if model.startProject != 0 {
		commands = append(commands, model.openBoardCmd(model.startProject))
	}
	return tea.Batch(commands...)
}

// Update implements tea.Model.
func (model Model) Update(message tea.Msg) (tea.Model, tea.Cmd) {
	switch message := message.(type) {
	case tea.KeyMsg:
		return model.handleKey(message)

	case tea.WindowSizeMsg:
		model.width = message.Width
		model.height = message.Height
		model.ready = true
		model.resizeDetail()
		return model, nil

	case projectsLoadedMsg:
		model.projectsLoaded = true
		model.projectCursor = clamp(model.projectCursor, 0, len(model.projects.Projects())-1)
		if err := message.result.Err(); err != nil {
			return model, model.setStatus(slog.LevelWarn, "some data failed to load: "+err.Error())
		}
		return model, nil

	case boardLoadedMsg:
		return model.handleBoardLoaded(message)

	case moveResultMsg:
		if message.err != nil {
			return model, tea.Batch(
				model.setStatus(slog.LevelError, "move failed: "+message.err.Error()),
				model.ignite(message.taskID, tui.HeatRemove),
			)
		}
		model.focusTask(message.taskID)
		return model, model.ignite(message.taskID, tui.HeatPut)

	case deleteResultMsg:
		if message.err != nil {
			return model, tea.Batch(
				model.setStatus(slog.LevelError, "delete failed: "+message.err.Error()),
				model.ignite(message.taskID, tui.HeatRemove),
			)
		}
		model.view.clamp(model.board)
		return model, model.setStatus(slog.LevelInfo, fmt.Sprintf("deleted %q", message.title))

	case saveResultMsg:
		return model.handleSaveResult(message)

	case projectCreatedMsg:
		if message.err != nil {
			return model, model.setStatus(slog.LevelError, "create project failed: "+message.err.Error())
		}
		model.projectCursor = 0
		return model, model.setStatus(slog.LevelInfo, fmt.Sprintf("created project %q", message.project.Title))

	case projectDeletedMsg:
		model.projectCursor = clamp(model.projectCursor, 0, len(model.projects.Projects())-1)
		if message.err != nil {
			return model, model.setStatus(slog.LevelError, "delete project failed: "+message.err.Error())
		}
		return model, model.setStatus(slog.LevelInfo, fmt.Sprintf("deleted project %q", message.title))

	case statusRecordMsg:
		return model, model.setStatus(message.Level, message.Summary)

	case statusFadeMsg:
		if message.generation == model.statusGeneration {
			model.status = ""
		}
		return model, nil

	case heatTickMsg:
		if model.heat.HasHot(model.clock.Now()) {
			return model, scheduleHeatTick()
		}
		model.tickRunning = false
		return model, nil
	}
	return model, nil
}

func (model Model) handleKey(message tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(message, model.keys.ForceQuit) {
		model.closeForm()
		return model, tea.Quit
	}
	if model.confirm != nil {
		return model.handleConfirmKeys(message)
	}
	if model.picker != nil {
		return model.handlePickerKeys(message)
	}
	switch model.screen {
	case ScreenBoard:
		return model.handleBoardKeys(message)
	case ScreenForm:
		return model.handleFormKeys(message)
	}
	return model.handleProjectKeys(message)
}

func (model Model) handleConfirmKeys(message tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(message, model.keys.ConfirmYes):
		accept := model.confirm.accept
		model.confirm = nil
		return model, accept()
	case key.Matches(message, model.keys.ConfirmNo):
		model.confirm = nil
	}
	return model, nil
}

func (model Model) handleBoardLoaded(message boardLoadedMsg) (tea.Model, tea.Cmd) {
	if message.err != nil {
		return model, model.setStatus(slog.LevelError, "loading board failed: "+message.err.Error())
	}
	if model.board != message.board {
		model.board = message.board
		model.view = boardView{}
		model.search.reset()
		model.dropdown = nil
		model.detail = nil
	}
	if model.screen == ScreenProjects {
		model.screen = ScreenBoard
	}
	model.view.clamp(model.board)
	return model, nil
}

func (model Model) handleSaveResult(message saveResultMsg) (tea.Model, tea.Cmd) {
	if model.form != nil {
		model.form.saving = false
	}
	if message.err != nil {
		if model.form != nil && !errors.Is(message.err, board.ErrSaveInProgress) {
			model.form.err = message.err.Error()
		}
		return model, nil
	}
	model.closeForm()
	model.screen = ScreenBoard
	if message.result.Created {
		model.search.reset()
	}
	model.focusTask(message.result.Task.ID)

	commands := []tea.Cmd{model.ignite(message.result.Task.ID, tui.HeatPut)}
	if failed := message.result.Steps.Failed(); len(failed) > 0 {
		commands = append(commands, model.setStatus(slog.LevelWarn,
			fmt.Sprintf("saved %q; %d image step(s) failed", message.result.Task.Title, len(failed))))
	} else {
		commands = append(commands, model.setStatus(slog.LevelInfo, fmt.Sprintf("saved %q", message.result.Task.Title)))
	}
	return model, tea.Batch(commands...)
}

// setStatus shows summary in the status bar and schedules its fade.
// A newer message cancels the fade of an older one.
func (model *Model) setStatus(level slog.Level, summary string) tea.Cmd {
	model.statusGeneration++
	model.status = summary
	model.statusLevel = level
	generation := model.statusGeneration
	return tea.Tick(statusFadeDelay, func(time.Time) tea.Msg {
		return statusFadeMsg{generation: generation}
	})
}

// ignite starts a card glow and the animation tick if it is not
// already running.
func (model *Model) ignite(taskID int64, kind tui.HeatKind) tea.Cmd {
	model.heat.Ignite(taskID, kind, model.clock.Now())
	if model.tickRunning {
		return nil
	}
	model.tickRunning = true
	return scheduleHeatTick()
}

func (model *Model) closeForm() {
	if model.form != nil {
		model.form.close()
		model.form = nil
	}
}

// View implements tea.Model.
func (model Model) View() string {
	if !model.ready {
		return "Loading..."
	}

	var body string
	switch model.screen {
	case ScreenBoard:
		body = model.renderBoard()
	case ScreenForm:
		body = model.renderForm()
	default:
		body = model.renderProjects()
	}
	view := lipgloss.JoinVertical(lipgloss.Left,
		fitHeight(body, model.height-1),
		model.renderStatus(),
	)

	switch {
	case model.confirm != nil:
		view = tui.CenterOverlay(view, tui.Box(model.theme, "Confirm", []string{
			model.confirm.prompt,
			"",
			"y confirm   n cancel",
		}, max(30, min(60, ansi.StringWidth(model.confirm.prompt)))), model.width, model.height)
	case model.picker != nil:
		view = tui.CenterOverlay(view, model.picker.render(model.theme, model.projects.Projects()), model.width, model.height)
	case model.dropdown != nil:
		view = tui.SpliceOverlay(view, model.dropdown.Render(model.theme), model.dropdown.AnchorX, model.dropdown.AnchorY)
	case model.detail != nil && model.screen == ScreenBoard:
		view = tui.CenterOverlay(view, model.renderDetail(), model.width, model.height)
	}
	return view
}

// renderStatus returns the bottom line: the newest status message, or
// the key help for the active screen.
func (model Model) renderStatus() string {
	if model.status != "" {
		color := model.theme.HelpText
		switch {
		case model.statusLevel >= slog.LevelError:
			color = model.theme.ErrorText
		case model.statusLevel >= slog.LevelWarn:
			color = model.theme.ToneWarn
		}
		return lipgloss.NewStyle().Foreground(color).Render(ansi.Truncate(" "+model.status, model.width, "…"))
	}

	var help string
	switch model.screen {
	case ScreenProjects:
		help = " q quit  ↑↓ select  Enter open  n new  d delete  r refresh  C-p jump"
	case ScreenBoard:
		help = " Esc projects  hjkl navigate  H/L move  m move to  Enter details  e edit  n new  d delete  / search  M mine  r refresh"
	case ScreenForm:
		help = " Tab next field  C-s save  Esc cancel"
	}
	return lipgloss.NewStyle().Foreground(model.theme.HelpText).Render(ansi.Truncate(help, model.width, "…"))
}

// fitHeight pads or cuts rendered content to exactly height lines.
func fitHeight(content string, height int) string {
	if height <= 0 {
		return ""
	}
	lines := strings.Split(content, "\n")
	if len(lines) > height {
		lines = lines[:height]
	}
	for len(lines) < height {
		lines = append(lines, "")
	}
	return strings.Join(lines, "\n")
}

func clamp(value, low, high int) int {
	if high < low {
		return low
	}
	return min(max(value, low), high)
}
