// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package boardui

import (
	"log/slog"
	"sync"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

type recordingSender struct {
	mu       sync.Mutex
	messages []tea.Msg
}

func (r *recordingSender) Send(message tea.Msg) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.messages = append(r.messages, message)
}

func (r *recordingSender) records() []statusRecordMsg {
	r.mu.Lock()
	defer r.mu.Unlock()
	var records []statusRecordMsg
	for _, message := range r.messages {
		if record, ok := message.(statusRecordMsg); ok {
			records = append(records, record)
		}
	}
	return records
}

func TestStatusLogHandler(t *testing.T) {
	handler := NewStatusLogHandler(slog.LevelWarn)
	logger := slog.New(handler)

	logger.Warn("dropped before the program exists")

	derived := logger.With("project_id", 7)
	sender := &recordingSender{}
	handler.setSender(sender)

	logger.Info("below the level")
	derived.Warn("image step failed", "step", "upload", "error", "boom")
	logger.WithGroup("save").Error("refresh failed", "task_id", 3)

	records := sender.records()
	if len(records) != 2 {
		t.Fatalf("got %d records, want 2: %+v", len(records), records)
	}
	if want := "image step failed (project_id=7, step=upload, error=boom)"; records[0].Summary != want {
		t.Errorf("summary = %q, want %q", records[0].Summary, want)
	}
	if records[0].Level != slog.LevelWarn {
		t.Errorf("level = %v", records[0].Level)
	}
	if want := "refresh failed (save.task_id=3)"; records[1].Summary != want {
		t.Errorf("grouped summary = %q, want %q", records[1].Summary, want)
	}
}
