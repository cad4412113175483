// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"testing"
	"time"
)

func TestParseOptions(t *testing.T) {
	opts, err := parseOptions(nil)
	if err != nil {
		t.Fatalf("parseOptions: %v", err)
	}
	if opts.listen != "127.0.0.1:8000" || opts.empty || opts.verbose {
		t.Errorf("defaults = %+v", opts)
	}

	opts, err = parseOptions([]string{"--listen", ":9000", "--empty", "-v", "--responsible-as-id"})
	if err != nil {
		t.Fatalf("parseOptions: %v", err)
	}
	if opts.listen != ":9000" || !opts.empty || !opts.verbose || !opts.responsibleAsID {
		t.Errorf("options = %+v", opts)
	}

	if _, err := parseOptions([]string{"extra"}); err == nil {
		t.Error("positional argument accepted")
	}
	if _, err := parseOptions([]string{"--bogus"}); err == nil {
		t.Error("unknown flag accepted")
	}
}

func TestSeedDate(t *testing.T) {
	now := time.Date(2026, 3, 14, 15, 9, 26, 0, time.Local)

	day, err := options{}.seedDate(now)
	if err != nil || !day.Equal(now) {
		t.Errorf("seedDate() = %v, %v, want now", day, err)
	}

	day, err = options{today: "2025-12-31"}.seedDate(now)
	if err != nil {
		t.Fatalf("seedDate: %v", err)
	}
	if day.Year() != 2025 || day.Month() != time.December || day.Day() != 31 {
		t.Errorf("seedDate = %v", day)
	}

	if _, err := (options{today: "31/12/2025"}).seedDate(now); err == nil {
		t.Error("malformed date accepted")
	}
}
