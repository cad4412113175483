// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package process provides entrypoint helpers for the non-CLI kanban
// binaries, for output that happens before a structured logger exists.
package process
