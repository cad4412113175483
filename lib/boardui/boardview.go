// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package boardui

import (
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/bureau-foundation/kanban/lib/board"
	"github.com/bureau-foundation/kanban/lib/kanban"
	"github.com/bureau-foundation/kanban/lib/tui"
)

const (
	columnCount = 5
	// cardHeight is the rows one task card takes, including the
	// spacer below it.
	cardHeight = 3
	// boardChromeRows are the rows above the cards: the project
	// header, the search line and the column headers.
	boardChromeRows = 3
)

// boardView is the cursor state of the board screen: the focused
// column and a card cursor per column.
type boardView struct {
	column int
	cursor [columnCount]int
}

// clamp keeps every cursor inside its column after the task list
// changed.
func (v *boardView) clamp(current *board.Board) {
	if current == nil {
		return
	}
	for index, group := range current.Columns() {
		v.cursor[index] = clamp(v.cursor[index], 0, len(group.Tasks)-1)
	}
}

// detailOverlay is the scrollable task detail box.
type detailOverlay struct {
	taskID   int64
	viewport viewport.Model
}

func (model Model) selectedTask() (kanban.Task, bool) {
	if model.board == nil {
		return kanban.Task{}, false
	}
	groups := model.board.Columns()
	tasks := groups[model.view.column].Tasks
	cursor := model.view.cursor[model.view.column]
	if cursor < 0 || cursor >= len(tasks) {
		return kanban.Task{}, false
	}
	return tasks[cursor], true
}

// focusTask moves the focus to the task's column and card, if the task
// is visible.
func (model *Model) focusTask(taskID int64) {
	if model.board == nil {
		return
	}
	for columnIndex, group := range model.board.Columns() {
		for cardIndex, task := range group.Tasks {
			if task.ID == taskID {
				model.view.column = columnIndex
				model.view.cursor[columnIndex] = cardIndex
				return
			}
		}
	}
	model.view.clamp(model.board)
}

// visibleCards is how many cards fit in a column.
func (model Model) visibleCards() int {
	return max(1, (model.height-1-boardChromeRows)/cardHeight)
}

func (model Model) columnWidth() int {
	return max(12, (model.width-(columnCount-1))/columnCount)
}

func (model Model) handleBoardKeys(message tea.KeyMsg) (tea.Model, tea.Cmd) {
	if model.dropdown != nil {
		return model.handleDropdownKeys(message)
	}
	if model.detail != nil {
		return model.handleDetailKeys(message)
	}
	if model.search.active {
		return model.handleSearchKeys(message)
	}

	switch {
	case key.Matches(message, model.keys.Quit):
		return model, tea.Quit

	case key.Matches(message, model.keys.Back):
		model.screen = ScreenProjects
		return model, model.loadProjectsCmd()

	case key.Matches(message, model.keys.Up):
		model.view.cursor[model.view.column]--
		model.view.clamp(model.board)

	case key.Matches(message, model.keys.Down):
		model.view.cursor[model.view.column]++
		model.view.clamp(model.board)

	case key.Matches(message, model.keys.Left):
		model.view.column = clamp(model.view.column-1, 0, columnCount-1)

	case key.Matches(message, model.keys.Right):
		model.view.column = clamp(model.view.column+1, 0, columnCount-1)

	case key.Matches(message, model.keys.MoveLeft):
		return model.moveSelected(-1)

	case key.Matches(message, model.keys.MoveRight):
		return model.moveSelected(1)

	case key.Matches(message, model.keys.MoveTo):
		model.openColumnDropdown()

	case key.Matches(message, model.keys.Open):
		if task, ok := model.selectedTask(); ok {
			model.detail = &detailOverlay{taskID: task.ID}
			model.resizeDetail()
		}

	case key.Matches(message, model.keys.Edit):
		if task, ok := model.selectedTask(); ok {
			return model.openForm(task)
		}

	case key.Matches(message, model.keys.New):
		return model.openForm(kanban.Task{Column: kanban.Columns[model.view.column], Priority: kanban.DefaultPriority})

	case key.Matches(message, model.keys.Delete):
		if task, ok := model.selectedTask(); ok {
			model.confirm = &confirmation{
				prompt: fmt.Sprintf("Delete task %q?", task.Title),
				accept: func() tea.Cmd { return model.deleteTaskCmd(task) },
			}
		}

	case key.Matches(message, model.keys.Filter):
		return model, model.search.open()

	case key.Matches(message, model.keys.MineOnly):
		filter := model.board.Filter()
		filter.MineOnly = !filter.MineOnly
		model.board.SetFilter(filter)
		model.view.clamp(model.board)

	case key.Matches(message, model.keys.Refresh):
		return model, model.reloadBoardCmd()

	case key.Matches(message, model.keys.Jump):
		return model.openPicker()
	}
	return model, nil
}

// moveSelected carries the selected card one column left (delta -1)
// or right (delta 1).
func (model Model) moveSelected(delta int) (tea.Model, tea.Cmd) {
	task, ok := model.selectedTask()
	if !ok {
		return model, nil
	}
	dest := board.Neighbor(task.Column, delta)
	if dest == "" || dest == task.Column {
		return model, nil
	}
	return model, model.moveCmd(task.ID, task.Column, dest)
}

func (model *Model) openColumnDropdown() {
	task, ok := model.selectedTask()
	if !ok {
		return
	}
	options := make([]tui.DropdownOption, 0, len(kanban.Columns))
	for _, column := range kanban.Columns {
		options = append(options, tui.DropdownOption{Label: column.Label(), Value: string(column)})
	}
	dropdown := tui.NewDropdown("column", task.ID, options, string(task.Column))
	cursor := model.view.cursor[model.view.column]
	offset := max(0, cursor-model.visibleCards()+1)
	dropdown.AnchorX = model.view.column*(model.columnWidth()+1) + 2
	dropdown.AnchorY = boardChromeRows + (cursor-offset)*cardHeight + 1
	model.dropdown = &dropdown
}

func (model Model) handleDropdownKeys(message tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(message, model.keys.Back), key.Matches(message, model.keys.Quit):
		model.dropdown = nil
	case key.Matches(message, model.keys.Up):
		model.dropdown.MoveUp()
	case key.Matches(message, model.keys.Down):
		model.dropdown.MoveDown()
	case message.Type == tea.KeyEnter:
		selected, ok := model.dropdown.Selected()
		taskID := model.dropdown.ItemID
		model.dropdown = nil
		task, found := model.board.Task(taskID)
		if !ok || !found || kanban.Column(selected.Value) == task.Column {
			return model, nil
		}
		return model, model.moveCmd(taskID, task.Column, kanban.Column(selected.Value))
	}
	return model, nil
}

func (model Model) handleSearchKeys(message tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case message.Type == tea.KeyEnter:
		model.search.close()
		return model, nil
	case key.Matches(message, model.keys.Back):
		model.search.reset()
	default:
		command := model.search.update(message)
		model.applySearch()
		return model, command
	}
	model.applySearch()
	return model, nil
}

func (model *Model) applySearch() {
	filter := model.board.Filter()
	filter.Query = model.search.value()
	model.board.SetFilter(filter)
	model.view.clamp(model.board)
}

func (model Model) handleDetailKeys(message tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(message, model.keys.Back), key.Matches(message, model.keys.Open), key.Matches(message, model.keys.Quit):
		model.detail = nil
	case key.Matches(message, model.keys.Up):
		model.detail.viewport.LineUp(1)
	case key.Matches(message, model.keys.Down):
		model.detail.viewport.LineDown(1)
	case key.Matches(message, model.keys.ScrollDetails):
		model.detail.viewport.HalfViewDown()
	case key.Matches(message, model.keys.Edit):
		task, ok := model.board.Task(model.detail.taskID)
		model.detail = nil
		if ok {
			return model.openForm(task)
		}
	}
	return model, nil
}

// resizeDetail sizes the detail overlay to the terminal and renders
// the task into it.
func (model *Model) resizeDetail() {
	if model.detail == nil || model.board == nil {
		return
	}
	task, ok := model.board.Task(model.detail.taskID)
	if !ok {
		model.detail = nil
		return
	}
	width := clamp(model.width*2/3, 20, 100)
	model.detail.viewport.Width = width
	model.detail.viewport.Height = max(3, model.height-8)
	model.detail.viewport.SetContent(model.detailBody(task, width))
}

func (model Model) detailBody(task kanban.Task, width int) string {
	label := lipgloss.NewStyle().Foreground(model.theme.FaintText)
	field := func(name, value string) string {
		return label.Render(fmt.Sprintf("%-12s", name)) + value
	}

	lines := []string{
		field("Column", lipgloss.NewStyle().Foreground(model.theme.ColumnColor(task.Column)).Render(task.Column.Label())),
		field("Priority", lipgloss.NewStyle().Foreground(model.theme.PriorityColor(task.Priority)).Render(task.Priority.Label())),
		field("Responsible", responsibleName(task)),
	}
	if !task.DueDate.IsZero() {
		deadline := model.board.Deadline(task)
		lines = append(lines, field("Due", task.DueDate.String()+"  "+
			lipgloss.NewStyle().Foreground(model.theme.ToneColor(deadline.Tone)).Render(daysLeftLabel(deadline))))
	}
	if task.Column == kanban.ColumnDone && !task.CompletedAt.IsZero() {
		lines = append(lines, field("Completed", task.CompletedAt.String()+"  "+
			lipgloss.NewStyle().Foreground(model.theme.DoneColor(task.DoneColor)).Render(task.DoneColor.Label())))
	}
	if images := task.SortedImages(); len(images) > 0 {
		lines = append(lines, field("Images", fmt.Sprintf("%d of %d", len(images), kanban.MaxTaskImages)))
		for _, image := range images {
			lines = append(lines, label.Render(fmt.Sprintf("  %d. ", image.Position+1))+image.URL)
		}
	}
	if description := renderMarkdown(task.Description, model.theme, width); description != "" {
		lines = append(lines, "", description)
	}
	return strings.Join(lines, "\n")
}

func (model Model) renderDetail() []string {
	task, _ := model.board.Task(model.detail.taskID)
	content := strings.Split(model.detail.viewport.View(), "\n")
	return tui.Box(model.theme, task.Title, content, model.detail.viewport.Width)
}

func responsibleName(task kanban.Task) string {
	if name := task.Responsible.Name(); name != "" {
		return name
	}
	return "unassigned"
}

func daysLeftLabel(deadline kanban.Deadline) string {
	switch {
	case deadline.Tone == kanban.ToneNone:
		return ""
	case deadline.DaysLeft < 0:
		return fmt.Sprintf("%dd overdue", -deadline.DaysLeft)
	case deadline.DaysLeft == 0:
		return "due today"
	}
	return fmt.Sprintf("%dd left", deadline.DaysLeft)
}

func (model Model) renderBoard() string {
	if model.board == nil {
		return " Loading board…"
	}
	project := model.board.Project()
	counts := model.board.Counts()
	headerStyle := lipgloss.NewStyle().Bold(true).Foreground(model.theme.HeaderForeground)
	faint := lipgloss.NewStyle().Foreground(model.theme.FaintText)

	header := headerStyle.Render(" "+project.Title) + faint.Render(fmt.Sprintf(
		"  %d tasks · %d active · %d done · %d people", counts.Total, counts.Active, counts.Done, counts.Participants))
	if !project.DueDate.IsZero() {
		header += faint.Render("  due " + project.DueDate.String())
	}

	searchLine := ""
	filter := model.board.Filter()
	switch {
	case model.search.active:
		searchLine = " " + model.search.view()
	case filter.Query != "":
		searchLine = faint.Render(" / " + filter.Query)
	}
	if filter.MineOnly {
		searchLine += lipgloss.NewStyle().Foreground(model.theme.FocusBorder).Render("  [mine only]")
	}

	width := model.columnWidth()
	cardsHeight := max(cardHeight, model.height-1-boardChromeRows)
	now := model.clock.Now()
	rendered := make([]string, 0, columnCount)
	for index, group := range model.board.Columns() {
		rendered = append(rendered, model.renderColumn(index, group, width, cardsHeight, now))
	}
	separator := lipgloss.NewStyle().Foreground(model.theme.BorderColor).
		Render(strings.TrimSuffix(strings.Repeat("│\n", cardsHeight+1), "\n"))
	parts := make([]string, 0, 2*columnCount)
	for index, column := range rendered {
		if index > 0 {
			parts = append(parts, separator)
		}
		parts = append(parts, column)
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		ansi.Truncate(header, model.width, "…"),
		ansi.Truncate(searchLine, model.width, "…"),
		lipgloss.JoinHorizontal(lipgloss.Top, parts...),
	)
}

func (model Model) renderColumn(index int, group board.ColumnGroup, width, height int, now time.Time) string {
	focused := index == model.view.column
	headerStyle := lipgloss.NewStyle().Foreground(model.theme.ColumnColor(group.Column)).Width(width)
	if focused {
		headerStyle = headerStyle.Bold(true).Underline(true)
	}
	lines := []string{headerStyle.Render(ansi.Truncate(fmt.Sprintf(" %s (%d)", group.Column.Label(), len(group.Tasks)), width, "…"))}

	visible := max(1, height/cardHeight)
	cursor := model.view.cursor[index]
	offset := max(0, cursor-visible+1)
	cardWidth := width - 1
	var cards []string
	for cardIndex := offset; cardIndex < len(group.Tasks) && cardIndex < offset+visible; cardIndex++ {
		cards = append(cards, model.renderCard(group.Tasks[cardIndex], cardWidth, focused && cardIndex == cursor, now)...)
	}
	for len(cards) < height {
		cards = append(cards, "")
	}
	cards = cards[:height]

	scrollbar := strings.Split(tui.RenderScrollbar(model.theme, height, len(group.Tasks)*cardHeight, visible*cardHeight, offset*cardHeight, focused), "\n")
	blank := lipgloss.NewStyle()
	for row, card := range cards {
		thumb := " "
		if len(group.Tasks) > visible && row < len(scrollbar) {
			thumb = scrollbar[row]
		}
		lines = append(lines, tui.PadLine(card, cardWidth, blank)+thumb)
	}
	return strings.Join(lines, "\n")
}

// renderCard draws a task card: accent bar and title, then the
// responsible user and the deadline or completion badge.
func (model Model) renderCard(task kanban.Task, width int, selected bool, now time.Time) []string {
	accent := model.theme.PriorityColor(task.Priority)
	if hot, ok := model.heat.Accent(model.theme, task.ID, now); ok {
		accent = hot
	}
	background := lipgloss.NewStyle()
	title := lipgloss.NewStyle().Foreground(model.theme.NormalText)
	meta := lipgloss.NewStyle().Foreground(model.theme.FaintText)
	if selected {
		background = background.Background(model.theme.SelectedBackground)
		title = title.Foreground(model.theme.SelectedForeground).Background(model.theme.SelectedBackground).Bold(true)
		meta = meta.Background(model.theme.SelectedBackground)
	}
	bar := lipgloss.NewStyle().Foreground(accent).Inherit(background).Render("▌")
	textWidth := max(1, width-2)

	var badge string
	switch {
	case task.Column == kanban.ColumnDone && task.DoneColor != kanban.DoneColorNone:
		badge = lipgloss.NewStyle().Foreground(model.theme.DoneColor(task.DoneColor)).Inherit(background).
			Render("✓ " + task.DoneColor.Label())
	case !task.DueDate.IsZero():
		deadline := model.board.Deadline(task)
		badge = lipgloss.NewStyle().Foreground(model.theme.ToneColor(deadline.Tone)).Inherit(background).
			Render(daysLeftLabel(deadline))
	}
	who := meta.Render(ansi.Truncate(responsibleName(task), max(1, textWidth-ansi.StringWidth(badge)-1), "…"))
	gap := max(1, textWidth-ansi.StringWidth(who)-ansi.StringWidth(badge))

	first := bar + background.Render(" ") + title.Render(ansi.Truncate(task.Title, textWidth, "…"))
	second := bar + background.Render(" ") + who + background.Render(strings.Repeat(" ", gap)) + badge
	return []string{
		tui.PadLine(first, width, background),
		tui.PadLine(ansi.Truncate(second, width, ""), width, background),
		"",
	}
}

// basename shortens an image URL for lists.
func basename(url string) string {
	if base := path.Base(url); base != "." && base != "/" {
		return base
	}
	return url
}
