// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package image implements the "kanban image" subcommand group:
// attaching, removing and reordering the images of one task without
// touching its other fields.
package image
