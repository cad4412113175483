// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/bureau-foundation/kanban/lib/kanban"
	"github.com/bureau-foundation/kanban/lib/tui"
)

// maxAmbiguousListed bounds the candidates named in an ambiguity error.
const maxAmbiguousListed = 5

// ResolveProject finds the project ref names: a numeric id, a title
// (case-insensitive), or failing both, the single best fuzzy match on
// the title.
func ResolveProject(ref string, projects []kanban.Project) (kanban.Project, error) {
	index, err := resolve("project", ref, len(projects),
		func(i int) int64 { return projects[i].ID },
		func(i int) []string { return []string{projects[i].Title} },
	)
	if err != nil {
		return kanban.Project{}, err
	}
	return projects[index], nil
}

// ResolveUser finds the user ref names: a numeric id, a username,
// display name or email (case-insensitive), or the single best fuzzy
// match over those.
func ResolveUser(ref string, users []kanban.User) (kanban.User, error) {
	index, err := resolve("user", ref, len(users),
		func(i int) int64 { return users[i].ID },
		func(i int) []string {
			names := []string{users[i].Username}
			if users[i].DisplayName != "" {
				names = append(names, users[i].DisplayName)
			}
			if users[i].Email != "" {
				names = append(names, users[i].Email)
			}
			return names
		},
	)
	if err != nil {
		return kanban.User{}, err
	}
	return users[index], nil
}

// ParseTaskID parses a task reference: "12" or "#12".
func ParseTaskID(ref string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimPrefix(strings.TrimSpace(ref), "#"), 10, 64)
	if err != nil || id <= 0 {
		return 0, Validation("invalid task id %q (want a number such as 12 or #12)", ref)
	}
	return id, nil
}

func resolve(kind, ref string, count int, idOf func(int) int64, namesOf func(int) []string) (int, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return 0, Validation("%s name or id is required", kind)
	}

	for i := range count {
		for _, name := range namesOf(i) {
			if strings.EqualFold(name, ref) {
				return i, nil
			}
		}
	}

	if id, err := strconv.ParseInt(strings.TrimPrefix(ref, "#"), 10, 64); err == nil {
		for i := range count {
			if idOf(i) == id {
				return i, nil
			}
		}
		return 0, NotFound("no %s with id %d", kind, id)
	}

	labels := make([]string, count)
	for i := range count {
		labels[i] = strings.Join(namesOf(i), " ")
	}
	ranked := tui.RankFuzzy(labels, ref)
	switch {
	case len(ranked) == 0:
		return 0, NotFound("no %s matches %q", kind, ref)
	case len(ranked) == 1 || ranked[0].Score > ranked[1].Score:
		return ranked[0].Index, nil
	}

	var tied []string
	for _, candidate := range ranked {
		if candidate.Score != ranked[0].Score || len(tied) == maxAmbiguousListed {
			break
		}
		tied = append(tied, fmt.Sprintf("%q (#%d)", namesOf(candidate.Index)[0], idOf(candidate.Index)))
	}
	return 0, Validation("%s %q is ambiguous: %s", kind, ref, strings.Join(tied, ", "))
}
