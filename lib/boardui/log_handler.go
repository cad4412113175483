// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package boardui

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"sync/atomic"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// statusRecordMsg delivers a log record to the status bar.
type statusRecordMsg struct {
	Summary string
	Level   slog.Level
}

// statusFadeMsg clears the status bar if nothing newer replaced the
// message it was scheduled for.
type statusFadeMsg struct {
	generation int
}

// statusFadeDelay is how long a status message stays visible.
const statusFadeDelay = 5 * time.Second

// sender is the part of *tea.Program the handler uses.
type sender interface {
	Send(message tea.Msg)
}

// StatusLogHandler is a slog.Handler that routes records into the
// running board program, where they appear in the status bar and fade
// after a few seconds. Records below the level are dropped, as are
// records that arrive before SetProgram.
//
// Handlers derived with WithAttrs and WithGroup share the program
// pointer, so one SetProgram call reaches all of them.
type StatusLogHandler struct {
	level   slog.Level
	program *atomic.Pointer[sender]
	attrs   []slog.Attr
	group   string
}

// NewStatusLogHandler creates a handler for records at or above level.
func NewStatusLogHandler(level slog.Level) *StatusLogHandler {
	return &StatusLogHandler{
		level:   level,
		program: &atomic.Pointer[sender]{},
	}
}

// SetProgram connects the handler to a program. Safe to call from any
// goroutine.
func (handler *StatusLogHandler) SetProgram(program *tea.Program) {
	handler.setSender(program)
}

func (handler *StatusLogHandler) setSender(target sender) {
	handler.program.Store(&target)
}

// Enabled reports whether records at level are delivered.
func (handler *StatusLogHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= handler.level
}

// Handle formats the record as "message (key=value, ...)" and sends
// it to the program.
func (handler *StatusLogHandler) Handle(_ context.Context, record slog.Record) error {
	target := handler.program.Load()
	if target == nil {
		return nil
	}

	var parts []string
	for _, attr := range handler.attrs {
		parts = append(parts, handler.format(attr))
	}
	record.Attrs(func(attr slog.Attr) bool {
		parts = append(parts, handler.format(attr))
		return true
	})

	summary := record.Message
	if len(parts) > 0 {
		summary += " (" + strings.Join(parts, ", ") + ")"
	}
	(*target).Send(statusRecordMsg{Summary: summary, Level: record.Level})
	return nil
}

func (handler *StatusLogHandler) format(attr slog.Attr) string {
	name := attr.Key
	if handler.group != "" {
		name = handler.group + "." + name
	}
	return fmt.Sprintf("%s=%s", name, attr.Value)
}

// WithAttrs returns a handler that adds attrs to every record.
func (handler *StatusLogHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &StatusLogHandler{
		level:   handler.level,
		program: handler.program,
		attrs:   append(slices.Clone(handler.attrs), attrs...),
		group:   handler.group,
	}
}

// WithGroup returns a handler that qualifies record attribute keys
// with name.
func (handler *StatusLogHandler) WithGroup(name string) slog.Handler {
	group := name
	if handler.group != "" {
		group = handler.group + "." + name
	}
	return &StatusLogHandler{
		level:   handler.level,
		program: handler.program,
		attrs:   slices.Clone(handler.attrs),
		group:   group,
	}
}
