// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"strings"
	"testing"

	"github.com/bureau-foundation/kanban/cmd/kanban/cli"
	"github.com/bureau-foundation/kanban/cmd/kanban/commands"
)

// TestCommandTree walks the production command tree and checks that
// every runnable command documents itself and that its params struct
// builds a flag set. Binding panics on malformed params structs, so
// this catches them before a user runs the command.
func TestCommandTree(t *testing.T) {
	seen := make(map[string]bool)
	walkCommands(commands.Root(), nil, func(command *cli.Command, path []string) {
		name := strings.Join(path, " ")
		if seen[name] {
			t.Errorf("%s: registered twice", name)
		}
		seen[name] = true

		if len(path) > 1 && command.Summary == "" {
			t.Errorf("%s: missing Summary", name)
		}
		if command.Run == nil && len(command.Subcommands) == 0 {
			t.Errorf("%s: neither Run nor Subcommands", name)
		}
		if command.Params != nil {
			if flags := cli.FlagsFromParams(command.Name, command.Params()); flags == nil {
				t.Errorf("%s: no flag set from Params", name)
			}
		}
	})

	for _, want := range []string{
		"kanban login",
		"kanban logout",
		"kanban whoami",
		"kanban projects",
		"kanban project people",
		"kanban task move",
		"kanban image reorder",
		"kanban board",
		"kanban version",
	} {
		if !seen[want] {
			t.Errorf("command %q missing from the tree", want)
		}
	}
}

func walkCommands(command *cli.Command, path []string, visit func(*cli.Command, []string)) {
	current := make([]string, len(path)+1)
	copy(current, path)
	current[len(path)] = command.Name
	visit(command, current)
	for _, sub := range command.Subcommands {
		walkCommands(sub, current, visit)
	}
}
