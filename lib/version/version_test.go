// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package version

import (
	"runtime"
	"strings"
	"testing"
)

func TestInfo(t *testing.T) {
	info := Info()
	if !strings.HasPrefix(info, Version+" (") {
		t.Errorf("Info() = %q, want prefix %q", info, Version+" (")
	}
	if !strings.Contains(info, Commit()) {
		t.Errorf("Info() = %q, missing commit %q", info, Commit())
	}
}

func TestFull(t *testing.T) {
	full := Full()
	for _, fragment := range []string{Info(), runtime.Version(), runtime.GOOS + "/" + runtime.GOARCH} {
		if !strings.Contains(full, fragment) {
			t.Errorf("Full() missing %q:\n%s", fragment, full)
		}
	}
}

func TestUserAgent(t *testing.T) {
	agent := UserAgent()
	if !strings.HasPrefix(agent, "kanban/"+Version+" (") {
		t.Errorf("UserAgent() = %q", agent)
	}
}
