// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package boardui

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/bureau-foundation/kanban/lib/board"
	"github.com/bureau-foundation/kanban/lib/imagepanel"
	"github.com/bureau-foundation/kanban/lib/kanban"
	"github.com/bureau-foundation/kanban/lib/tui"
)

type formField int

const (
	fieldTitle formField = iota
	fieldDescription
	fieldColumn
	fieldPriority
	fieldResponsible
	fieldDue
	fieldImages
	formFieldCount
)

var formFieldLabels = [formFieldCount]string{
	fieldTitle:       "Title",
	fieldDescription: "Description",
	fieldColumn:      "Column",
	fieldPriority:    "Priority",
	fieldResponsible: "Responsible",
	fieldDue:         "Due date",
	fieldImages:      "Images",
}

const (
	formLabelWidth    = 14
	descriptionHeight = 6
	// formFirstFieldRow is the screen row of the title field.
	formFirstFieldRow = 2
)

// formRow returns the screen row a field starts on.
func formRow(field formField) int {
	if field <= fieldDescription {
		return formFirstFieldRow + int(field)
	}
	return formFirstFieldRow + int(field) - 1 + descriptionHeight
}

type formAction int

const (
	formNone formAction = iota
	formSave
	formCancel
)

// taskForm is the create/edit form for one task. ID 0 creates.
type taskForm struct {
	id            int64
	title         prompt
	description   textarea.Model
	column        kanban.Column
	priority      kanban.Priority
	responsibleID int64
	due           prompt
	path          prompt

	panel       *imagepanel.Panel
	imageCursor int
	roster      []kanban.User

	focus    formField
	dropdown *tui.Dropdown
	notice   string
	err      string
	saving   bool
}

func newTaskForm(task kanban.Task, roster []kanban.User, previewer imagepanel.Previewer, logger *slog.Logger) *taskForm {
	form := &taskForm{
		id:            task.ID,
		title:         newPrompt("", "what needs doing"),
		description:   newDescriptionArea(task.Description),
		column:        task.Column,
		priority:      task.Priority,
		responsibleID: task.Responsible.ID(),
		due:           newPrompt("", "YYYY-MM-DD"),
		path:          newPrompt("Path: ", "image file to attach"),
		roster:        roster,
		panel: imagepanel.New(imagepanel.Config{
			Existing:  task.Images,
			Previewer: previewer,
			Logger:    logger,
		}),
	}
	form.title.input.SetValue(task.Title)
	if !task.DueDate.IsZero() {
		form.due.input.SetValue(task.DueDate.String())
	}
	if form.column == "" {
		form.column = kanban.ColumnNew
	}
	if form.priority == "" {
		form.priority = kanban.DefaultPriority
	}
	return form
}

// draft returns the form content as a save request.
func (f *taskForm) draft() (board.TaskDraft, error) {
	var due kanban.Date
	if text := f.due.value(); text != "" {
		parsed, err := kanban.ParseDate(text)
		if err != nil {
			return board.TaskDraft{}, fmt.Errorf("due date: %w", err)
		}
		due = parsed
	}
	return board.TaskDraft{
		ID:            f.id,
		Title:         f.title.value(),
		Description:   f.description.Value(),
		Column:        f.column,
		Priority:      f.priority,
		ResponsibleID: f.responsibleID,
		DueDate:       due,
	}, nil
}

func (f *taskForm) close() {
	f.panel.Close()
}

// focusField moves keyboard focus, activating the text input of text
// fields.
func (f *taskForm) focusField(field formField) tea.Cmd {
	f.focus = field
	f.title.close()
	f.due.close()
	f.description.Blur()
	switch field {
	case fieldTitle:
		return f.title.open()
	case fieldDue:
		return f.due.open()
	case fieldDescription:
		return f.description.Focus()
	}
	return nil
}

// imageLabels lists existing images then staged files, the order the
// images field shows them in.
func (f *taskForm) imageLabels() []string {
	var labels []string
	for _, image := range f.panel.Existing() {
		labels = append(labels, basename(image.URL))
	}
	for _, file := range f.panel.Staged() {
		labels = append(labels, "+ "+file.String())
	}
	return labels
}

func (f *taskForm) update(message tea.KeyMsg, keys KeyMap) (formAction, tea.Cmd) {
	if f.dropdown != nil {
		f.updateDropdown(message, keys)
		return formNone, nil
	}
	if f.path.active {
		switch {
		case message.Type == tea.KeyEnter:
			f.addPath(f.path.value())
			f.path.reset()
		case key.Matches(message, keys.Back):
			f.path.reset()
		default:
			return formNone, f.path.update(message)
		}
		return formNone, nil
	}

	switch {
	case key.Matches(message, keys.Save):
		return formSave, nil
	case key.Matches(message, keys.Back):
		return formCancel, nil
	case key.Matches(message, keys.NextField):
		return formNone, f.focusField((f.focus + 1) % formFieldCount)
	case key.Matches(message, keys.PreviousField):
		return formNone, f.focusField((f.focus + formFieldCount - 1) % formFieldCount)
	}

	switch f.focus {
	case fieldTitle:
		return formNone, f.title.update(message)
	case fieldDue:
		return formNone, f.due.update(message)
	case fieldDescription:
		var command tea.Cmd
		f.description, command = f.description.Update(message)
		return formNone, command
	case fieldColumn, fieldPriority, fieldResponsible:
		if message.Type == tea.KeyEnter || message.Type == tea.KeySpace {
			f.openDropdown()
		}
	case fieldImages:
		return formNone, f.updateImages(message, keys)
	}
	return formNone, nil
}

func (f *taskForm) openDropdown() {
	var options []tui.DropdownOption
	var current string
	switch f.focus {
	case fieldColumn:
		for _, column := range kanban.Columns {
			options = append(options, tui.DropdownOption{Label: column.Label(), Value: string(column)})
		}
		current = string(f.column)
	case fieldPriority:
		for _, priority := range kanban.Priorities {
			options = append(options, tui.DropdownOption{Label: priority.Label(), Value: string(priority)})
		}
		current = string(f.priority)
	case fieldResponsible:
		options = append(options, tui.DropdownOption{Label: "Nobody", Value: "0"})
		for _, user := range f.roster {
			options = append(options, tui.DropdownOption{Label: user.Name(), Value: strconv.FormatInt(user.ID, 10)})
		}
		current = strconv.FormatInt(f.responsibleID, 10)
	default:
		return
	}
	dropdown := tui.NewDropdown(formFieldLabels[f.focus], f.id, options, current)
	dropdown.AnchorX = formLabelWidth + 1
	dropdown.AnchorY = formRow(f.focus) + 1
	f.dropdown = &dropdown
}

func (f *taskForm) updateDropdown(message tea.KeyMsg, keys KeyMap) {
	switch {
	case key.Matches(message, keys.Back):
		f.dropdown = nil
	case key.Matches(message, keys.Up):
		f.dropdown.MoveUp()
	case key.Matches(message, keys.Down):
		f.dropdown.MoveDown()
	case message.Type == tea.KeyEnter:
		if selected, ok := f.dropdown.Selected(); ok {
			switch f.focus {
			case fieldColumn:
				f.column = kanban.Column(selected.Value)
			case fieldPriority:
				f.priority = kanban.Priority(selected.Value)
			case fieldResponsible:
				f.responsibleID, _ = strconv.ParseInt(selected.Value, 10, 64)
			}
		}
		f.dropdown = nil
	}
}

func (f *taskForm) updateImages(message tea.KeyMsg, keys KeyMap) tea.Cmd {
	existing := len(f.panel.Existing())
	total := f.panel.Len()
	switch {
	case key.Matches(message, keys.Up):
		f.imageCursor = clamp(f.imageCursor-1, 0, total-1)
	case key.Matches(message, keys.Down):
		f.imageCursor = clamp(f.imageCursor+1, 0, total-1)
	case key.Matches(message, keys.AddImage):
		if f.panel.Remaining() == 0 {
			f.notice = fmt.Sprintf("a task holds at most %d images", imagepanel.Capacity)
			return nil
		}
		return f.path.open()
	case key.Matches(message, keys.RemoveImage):
		if f.imageCursor < existing {
			f.panel.RemoveExisting(f.panel.Existing()[f.imageCursor].ID)
		} else if err := f.panel.RemoveStaged(f.imageCursor - existing); err != nil {
			f.notice = err.Error()
		}
		f.imageCursor = clamp(f.imageCursor, 0, f.panel.Len()-1)
	case key.Matches(message, keys.ImageEarlier):
		if f.imageCursor < existing && f.panel.MoveExisting(f.imageCursor, f.imageCursor-1) == nil {
			f.imageCursor--
		}
	case key.Matches(message, keys.ImageLater):
		if f.imageCursor < existing && f.panel.MoveExisting(f.imageCursor, f.imageCursor+1) == nil {
			f.imageCursor++
		}
	}
	return nil
}

// addPath stages the file at path and reports the outcome in the
// notice line.
func (f *taskForm) addPath(path string) {
	if path == "" {
		return
	}
	result := f.panel.AddFiles([]string{path})
	var parts []string
	if len(result.Added) > 0 {
		parts = append(parts, "staged "+result.Added[0].String())
	}
	for _, rejected := range result.Rejected {
		parts = append(parts, fmt.Sprintf("%s: %v", rejected.Name, rejected.Err))
	}
	if result.Truncated > 0 {
		parts = append(parts, "panel is full")
	}
	f.notice = strings.Join(parts, "; ")
}

func (model Model) openForm(task kanban.Task) (tea.Model, tea.Cmd) {
	model.closeForm()
	model.form = newTaskForm(task, model.board.Roster(), model.previewer, model.logger)
	model.detail = nil
	model.screen = ScreenForm
	return model, model.form.focusField(fieldTitle)
}

func (model Model) handleFormKeys(message tea.KeyMsg) (tea.Model, tea.Cmd) {
	action, command := model.form.update(message, model.keys)
	switch action {
	case formCancel:
		model.closeForm()
		model.screen = ScreenBoard
		return model, nil
	case formSave:
		if model.form.saving {
			return model, nil
		}
		draft, err := model.form.draft()
		if err != nil {
			model.form.err = err.Error()
			return model, nil
		}
		model.form.saving = true
		model.form.err = ""
		return model, model.saveCmd(draft, model.form.panel.Diff())
	}
	return model, command
}

func (model Model) renderForm() string {
	form := model.form
	if form == nil {
		return ""
	}
	headerStyle := lipgloss.NewStyle().Bold(true).Foreground(model.theme.HeaderForeground)
	faint := lipgloss.NewStyle().Foreground(model.theme.FaintText)
	heading := " New task"
	if form.id != 0 {
		heading = fmt.Sprintf(" Edit task #%d", form.id)
	}
	if form.saving {
		heading += faint.Render("  saving…")
	}

	label := func(field formField) string {
		style := lipgloss.NewStyle().Foreground(model.theme.FaintText).Width(formLabelWidth)
		marker := "  "
		if form.focus == field {
			style = style.Foreground(model.theme.FocusBorder).Bold(true)
			marker = "▸ "
		}
		return style.Render(marker + formFieldLabels[field])
	}
	valueWidth := max(10, model.width-formLabelWidth-2)
	choice := func(field formField, text string, color lipgloss.Color) string {
		return label(field) + lipgloss.NewStyle().Foreground(color).Render(text) + faint.Render(" ▾")
	}

	lines := []string{headerStyle.Render(heading), ""}
	lines = append(lines, label(fieldTitle)+form.title.view())
	area := form.description
	area.SetWidth(valueWidth)
	for index, line := range strings.Split(area.View(), "\n") {
		prefix := strings.Repeat(" ", formLabelWidth)
		if index == 0 {
			prefix = label(fieldDescription)
		}
		lines = append(lines, prefix+line)
	}

	responsible := "Nobody"
	if user, ok := kanban.FindUser(form.roster, form.responsibleID); ok {
		responsible = user.Name()
	} else if form.responsibleID != 0 {
		responsible = fmt.Sprintf("user#%d", form.responsibleID)
	}
	lines = append(lines,
		choice(fieldColumn, form.column.Label(), model.theme.ColumnColor(form.column)),
		choice(fieldPriority, form.priority.Label(), model.theme.PriorityColor(form.priority)),
		choice(fieldResponsible, responsible, model.theme.NormalText),
		label(fieldDue)+form.due.view(),
		label(fieldImages)+faint.Render(fmt.Sprintf("%d/%d", form.panel.Len(), imagepanel.Capacity)),
	)
	for index, name := range form.imageLabels() {
		style := lipgloss.NewStyle().Foreground(model.theme.NormalText)
		marker := "  "
		if form.focus == fieldImages && index == form.imageCursor {
			style = style.Background(model.theme.SelectedBackground).Foreground(model.theme.SelectedForeground)
			marker = "> "
		}
		lines = append(lines, strings.Repeat(" ", formLabelWidth)+marker+style.Render(ansi.Truncate(fmt.Sprintf("%d. %s", index+1, name), valueWidth, "…")))
	}
	if form.focus == fieldImages {
		lines = append(lines, strings.Repeat(" ", formLabelWidth)+faint.Render("a add  x remove  [ ] reorder"))
	}
	if form.path.active {
		lines = append(lines, strings.Repeat(" ", formLabelWidth)+form.path.view())
	}
	if form.notice != "" {
		lines = append(lines, "", faint.Render(" "+form.notice))
	}
	if form.err != "" {
		lines = append(lines, "", lipgloss.NewStyle().Foreground(model.theme.ErrorText).Render(" "+form.err))
	}

	view := fitHeight(strings.Join(lines, "\n"), model.height-1)
	if form.dropdown != nil {
		view = tui.SpliceOverlay(view, form.dropdown.Render(model.theme), form.dropdown.AnchorX, form.dropdown.AnchorY)
	}
	return view
}
