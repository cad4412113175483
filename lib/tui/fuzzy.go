// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package tui

import (
	"sort"
	"strings"

	"github.com/junegunn/fzf/src/algo"
	"github.com/junegunn/fzf/src/util"
)

// fzf's algo package builds its character-class tables in Init.
func init() {
	algo.Init("default")
}

// FuzzyResult is the outcome of matching one candidate.
type FuzzyResult struct {
	Matched bool
	Score   int
	// Positions are the rune offsets of matched characters, ascending.
	Positions []int
}

// NewSlab allocates scratch space for FuzzyMatch. A slab may be reused
// across calls from one goroutine.
func NewSlab() *util.Slab {
	return util.MakeSlab(100*1024, 2048)
}

// FuzzyMatch scores text against pattern with fzf's v2 algorithm,
// case-insensitively unless pattern has an upper-case letter. An empty
// pattern matches everything with score 0.
func FuzzyMatch(text string, pattern []rune, slab *util.Slab) FuzzyResult {
	if len(pattern) == 0 {
		return FuzzyResult{Matched: true}
	}
	caseSensitive := strings.ToLower(string(pattern)) != string(pattern)
	chars := util.ToChars([]byte(text))
	result, positions := algo.FuzzyMatchV2(caseSensitive, true, true, &chars, pattern, true, slab)
	if result.Start < 0 {
		return FuzzyResult{}
	}
	match := FuzzyResult{Matched: true, Score: result.Score}
	if positions != nil {
		match.Positions = append([]int(nil), (*positions)...)
		sort.Ints(match.Positions)
	}
	return match
}

// Ranked is one candidate of RankFuzzy.
type Ranked struct {
	Index int
	FuzzyResult
}

// RankFuzzy matches every candidate against query and returns the
// matches ordered by descending score, ties in input order.
func RankFuzzy(candidates []string, query string) []Ranked {
	pattern := []rune(strings.TrimSpace(query))
	slab := NewSlab()
	var ranked []Ranked
	for index, candidate := range candidates {
		result := FuzzyMatch(candidate, pattern, slab)
		if result.Matched {
			ranked = append(ranked, Ranked{Index: index, FuzzyResult: result})
		}
	}
	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].Score > ranked[j].Score })
	return ranked
}
