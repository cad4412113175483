// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"errors"
	"strings"
	"testing"

	"github.com/bureau-foundation/kanban/lib/kanban"
)

func TestResolveProject(t *testing.T) {
	projects := []kanban.Project{
		{ID: 4, Title: "Website relaunch"},
		{ID: 9, Title: "Billing migration"},
		{ID: 12, Title: "Website docs"},
		{ID: 15, Title: "2024"},
	}

	tests := []struct {
		ref          string
		wantID       int64
		wantCategory ErrorCategory
		wantMessage  string
	}{
		{ref: "website DOCS", wantID: 12},
		{ref: "9", wantID: 9},
		{ref: "#4", wantID: 4},
		{ref: "2024", wantID: 15},
		{ref: "relaunch", wantID: 4},
		{ref: "bil", wantID: 9},
		{ref: "web", wantCategory: CategoryValidation, wantMessage: "ambiguous"},
		{ref: "77", wantCategory: CategoryNotFound, wantMessage: "no project with id 77"},
		{ref: "zzz", wantCategory: CategoryNotFound, wantMessage: `no project matches "zzz"`},
		{ref: " ", wantCategory: CategoryValidation, wantMessage: "required"},
	}
	for _, test := range tests {
		t.Run(test.ref, func(t *testing.T) {
			project, err := ResolveProject(test.ref, projects)
			if test.wantCategory == "" {
				if err != nil {
					t.Fatalf("ResolveProject(%q): %v", test.ref, err)
				}
				if project.ID != test.wantID {
					t.Errorf("ResolveProject(%q) = #%d, want #%d", test.ref, project.ID, test.wantID)
				}
				return
			}
			var toolErr *ToolError
			if !errors.As(err, &toolErr) || toolErr.Category != test.wantCategory {
				t.Fatalf("ResolveProject(%q) error = %v, want category %s", test.ref, err, test.wantCategory)
			}
			if !strings.Contains(err.Error(), test.wantMessage) {
				t.Errorf("error = %q, want it to mention %q", err, test.wantMessage)
			}
		})
	}
}

func TestResolveUser(t *testing.T) {
	users := []kanban.User{
		{ID: 1, Username: "ada", DisplayName: "Ada Lovelace", Email: "ada@example.com"},
		{ID: 2, Username: "grace", DisplayName: "Grace Hopper"},
		{ID: 3, Username: "linus", Email: "linus@example.com"},
	}
	for ref, want := range map[string]int64{
		"ada":               1,
		"Grace Hopper":      2,
		"LINUS@example.com": 3,
		"2":                 2,
		"hopper":            2,
	} {
		user, err := ResolveUser(ref, users)
		if err != nil {
			t.Errorf("ResolveUser(%q): %v", ref, err)
			continue
		}
		if user.ID != want {
			t.Errorf("ResolveUser(%q) = #%d, want #%d", ref, user.ID, want)
		}
	}
}

func TestParseTaskID(t *testing.T) {
	for ref, want := range map[string]int64{"12": 12, "#12": 12, " 7 ": 7} {
		if id, err := ParseTaskID(ref); err != nil || id != want {
			t.Errorf("ParseTaskID(%q) = %d, %v", ref, id, err)
		}
	}
	for _, ref := range []string{"", "twelve", "0", "-3", "#"} {
		if _, err := ParseTaskID(ref); err == nil {
			t.Errorf("ParseTaskID(%q) succeeded", ref)
		}
	}
}
