// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package version reports build information for the kanban binaries.
//
// [Version], [GitCommit], [GitDirty] and [BuildTime] are injected with
// -ldflags -X. When GitCommit is not injected, the VCS revision that
// the Go toolchain embeds in the binary is used instead.
//
// [Info] is the "kanban version" line, [Full] adds the Go toolchain
// and platform, and [UserAgent] identifies API requests.
package version
