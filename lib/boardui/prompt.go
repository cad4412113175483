// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package boardui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// prompt is a one-line text input that is either active (receiving
// keys) or idle.
type prompt struct {
	input  textinput.Model
	active bool
}

func newPrompt(label, placeholder string) prompt {
	input := textinput.New()
	input.Prompt = label
	input.Placeholder = placeholder
	input.CharLimit = 200
	return prompt{input: input}
}

func (p *prompt) open() tea.Cmd {
	p.active = true
	return p.input.Focus()
}

func (p *prompt) close() {
	p.active = false
	p.input.Blur()
}

func (p *prompt) reset() {
	p.close()
	p.input.SetValue("")
}

func (p *prompt) value() string { return strings.TrimSpace(p.input.Value()) }

func (p *prompt) update(message tea.Msg) tea.Cmd {
	var command tea.Cmd
	p.input, command = p.input.Update(message)
	return command
}

func (p prompt) view() string { return p.input.View() }

// newDescriptionArea returns the form's multi-line description input.
// Enter inserts a newline; the form reserves tab and ctrl+s.
func newDescriptionArea(value string) textarea.Model {
	area := textarea.New()
	area.Prompt = ""
	area.Placeholder = "markdown description"
	area.ShowLineNumbers = false
	area.CharLimit = 0
	area.MaxHeight = 0
	area.SetHeight(descriptionHeight)
	area.SetValue(value)
	return area
}
