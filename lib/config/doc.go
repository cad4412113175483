// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package config loads configuration for the kanban CLI and terminal
// board.
//
// A config file is optional. [Load] resolves it from, in order: the
// explicit path (the --config flag), the KANBAN_CONFIG environment
// variable, and $XDG_CONFIG_HOME/kanban/config.yaml when that file
// exists. Files ending in .json or .jsonc are parsed as JSON with
// comments (github.com/tidwall/jsonc); anything else is YAML.
//
// Before resolution, a .env file in the working directory is loaded
// into the process environment with github.com/joho/godotenv. Values
// already set in the environment win.
//
// After the file, a named profile (the "profile" key or KANBAN_PROFILE)
// overlays its server and session settings, and then three environment
// variables override individual fields: KANBAN_BASE_URL,
// KANBAN_TIMEOUT and KANBAN_SESSION_FILE. ${VAR} and ${VAR:-default}
// patterns in session.file are expanded last.
//
// Key exports:
//
//   - [Config] with Server, Session, Board and UI sections
//   - [Default] returns a Config pointing at a local development server
//   - [Load] and [LoadFile] are the entry points
//   - [Config.Validate] reports every problem at once
package config
