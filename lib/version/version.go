// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
	"sync"
)

// Set via -ldflags, e.g.
//
//	go build -ldflags "-X github.com/bureau-foundation/kanban/lib/version.GitCommit=$(git rev-parse --short HEAD)"
var (
	// Version is the semantic version, set manually for releases.
	Version = "0.1.0-dev"

	// GitCommit is the short git SHA of the build.
	GitCommit = "unknown"

	// GitDirty is "true" when the tree had uncommitted changes.
	GitDirty = "false"

	// BuildTime is the UTC timestamp of the build.
	BuildTime = "unknown"
)

var resolveOnce sync.Once

// resolve fills GitCommit, GitDirty and BuildTime from the embedded
// build info when ldflags did not set them.
func resolve() {
	resolveOnce.Do(func() {
		if GitCommit != "unknown" {
			return
		}
		info, ok := debug.ReadBuildInfo()
		if !ok {
			return
		}
		for _, setting := range info.Settings {
			switch setting.Key {
			case "vcs.revision":
				GitCommit = setting.Value
				if len(GitCommit) > 12 {
					GitCommit = GitCommit[:12]
				}
			case "vcs.modified":
				GitDirty = setting.Value
			case "vcs.time":
				if BuildTime == "unknown" {
					BuildTime = setting.Value
				}
			}
		}
	})
}

// Commit returns the git commit of the build.
func Commit() string {
	resolve()
	return GitCommit
}

// Info returns "0.1.0-dev (abc1234-dirty, 2026-...)".
func Info() string {
	resolve()
	dirty := ""
	if GitDirty == "true" {
		dirty = "-dirty"
	}
	return fmt.Sprintf("%s (%s%s, %s)", Version, GitCommit, dirty, BuildTime)
}

// Full returns Info plus the Go version and platform.
func Full() string {
	return fmt.Sprintf("%s\n  Go: %s\n  Platform: %s/%s",
		Info(), runtime.Version(), runtime.GOOS, runtime.GOARCH)
}

// UserAgent returns the User-Agent sent on API requests.
func UserAgent() string {
	return fmt.Sprintf("kanban/%s (%s; %s/%s)", Version, Commit(), runtime.GOOS, runtime.GOARCH)
}
