// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Kanban is the terminal client for a kanban project tracker. It
// provides subcommands for authentication (login, logout, whoami),
// project overview and management (projects, project), task and image
// editing (task, image), and the interactive board (board).
package main
