// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package cli is the command framework behind the kanban binary:
// a tree of [Command] values dispatched by name, struct-tag flag
// binding ([BindFlags]), categorized errors ([ToolError]), --json
// output ([JSONOutput]), and the connection plumbing every command
// that talks to the server shares ([ClientFlags], [Connection]).
//
// Login state lives in a cookie file (mode 0600) under the user config
// directory. Commands load it through [ClientFlags.Connect], and the
// login command writes it after a successful login.
package cli
