// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package boardui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the key bindings of the board program. Bindings are
// context-sensitive: Left/Right switch columns on the board and do
// nothing on the project list.
type KeyMap struct {
	Up    key.Binding
	Down  key.Binding
	Left  key.Binding
	Right key.Binding

	// MoveLeft and MoveRight carry the selected card to the
	// neighboring column.
	MoveLeft  key.Binding
	MoveRight key.Binding
	// MoveTo opens the column dropdown for the selected card.
	MoveTo key.Binding

	Open   key.Binding
	New    key.Binding
	Edit   key.Binding
	Delete key.Binding

	Filter   key.Binding
	MineOnly key.Binding
	Refresh  key.Binding
	Jump     key.Binding

	// NextField and PreviousField cycle focus in the task form.
	NextField     key.Binding
	PreviousField key.Binding
	Save          key.Binding

	// Image panel bindings, active on the form's images field.
	AddImage      key.Binding
	RemoveImage   key.Binding
	ImageEarlier  key.Binding
	ImageLater    key.Binding
	ConfirmYes    key.Binding
	ConfirmNo     key.Binding
	Back          key.Binding
	Quit          key.Binding
	ForceQuit     key.Binding
	ScrollDetails key.Binding
}

// DefaultKeyMap provides vim-style navigation with arrow key
// alternatives.
var DefaultKeyMap = KeyMap{
	Up: key.NewBinding(
		key.WithKeys("k", "up"),
		key.WithHelp("k/↑", "up"),
	),
	Down: key.NewBinding(
		key.WithKeys("j", "down"),
		key.WithHelp("j/↓", "down"),
	),
	Left: key.NewBinding(
		key.WithKeys("h", "left"),
		key.WithHelp("h/←", "column left"),
	),
	Right: key.NewBinding(
		key.WithKeys("l", "right"),
		key.WithHelp("l/→", "column right"),
	),
	MoveLeft: key.NewBinding(
		key.WithKeys("H", "shift+left"),
		key.WithHelp("H", "move card left"),
	),
	MoveRight: key.NewBinding(
		key.WithKeys("L", "shift+right"),
		key.WithHelp("L", "move card right"),
	),
	MoveTo: key.NewBinding(
		key.WithKeys("m"),
		key.WithHelp("m", "move to…"),
	),
	Open: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("Enter", "open"),
	),
	New: key.NewBinding(
		key.WithKeys("n"),
		key.WithHelp("n", "new"),
	),
	Edit: key.NewBinding(
		key.WithKeys("e"),
		key.WithHelp("e", "edit"),
	),
	Delete: key.NewBinding(
		key.WithKeys("d"),
		key.WithHelp("d", "delete"),
	),
	Filter: key.NewBinding(
		key.WithKeys("/"),
		key.WithHelp("/", "search"),
	),
	MineOnly: key.NewBinding(
		key.WithKeys("M"),
		key.WithHelp("M", "mine only"),
	),
	Refresh: key.NewBinding(
		key.WithKeys("r"),
		key.WithHelp("r", "refresh"),
	),
	Jump: key.NewBinding(
		key.WithKeys("ctrl+p"),
		key.WithHelp("C-p", "jump to project"),
	),
	NextField: key.NewBinding(
		key.WithKeys("tab"),
		key.WithHelp("Tab", "next field"),
	),
	PreviousField: key.NewBinding(
		key.WithKeys("shift+tab"),
		key.WithHelp("S-Tab", "previous field"),
	),
	Save: key.NewBinding(
		key.WithKeys("ctrl+s"),
		key.WithHelp("C-s", "save"),
	),
	AddImage: key.NewBinding(
		key.WithKeys("a"),
		key.WithHelp("a", "add image"),
	),
	RemoveImage: key.NewBinding(
		key.WithKeys("x", "delete"),
		key.WithHelp("x", "remove image"),
	),
	ImageEarlier: key.NewBinding(
		key.WithKeys("["),
		key.WithHelp("[", "earlier"),
	),
	ImageLater: key.NewBinding(
		key.WithKeys("]"),
		key.WithHelp("]", "later"),
	),
	ConfirmYes: key.NewBinding(
		key.WithKeys("y"),
		key.WithHelp("y", "confirm"),
	),
	ConfirmNo: key.NewBinding(
		key.WithKeys("n", "esc"),
		key.WithHelp("n", "cancel"),
	),
	Back: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("Esc", "back"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q"),
		key.WithHelp("q", "quit"),
	),
	ForceQuit: key.NewBinding(
		key.WithKeys("ctrl+c"),
	),
	ScrollDetails: key.NewBinding(
		key.WithKeys("ctrl+d", "pgdown"),
		key.WithHelp("C-d", "scroll"),
	),
}
