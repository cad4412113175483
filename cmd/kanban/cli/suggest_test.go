// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"testing"

	"github.com/spf13/pflag"
)

func TestLevenshtein(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"", "", 0},
		{"task", "", 4},
		{"", "task", 4},
		{"task", "task", 0},
		{"taks", "task", 2},
		{"projet", "project", 1},
		{"kitten", "sitting", 3},
	}
	for _, test := range tests {
		if got := levenshtein(test.a, test.b); got != test.want {
			t.Errorf("levenshtein(%q, %q) = %d, want %d", test.a, test.b, got, test.want)
		}
	}
}

func TestSuggestFlag(t *testing.T) {
	flagSet := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flagSet.String("password-file", "", "")
	flagSet.BoolP("verbose", "v", false, "")

	tests := []struct {
		args []string
		want string
	}{
		{[]string{"ada", "--pasword-file", "x"}, "--password-file"},
		{[]string{"--verbos"}, "--verbose"},
		{[]string{"-v", "--nothing-like-it"}, ""},
		{[]string{"--", "--verbos"}, ""},
	}
	for _, test := range tests {
		if got := suggestFlag(test.args, flagSet); got != test.want {
			t.Errorf("suggestFlag(%v) = %q, want %q", test.args, got, test.want)
		}
	}
}
