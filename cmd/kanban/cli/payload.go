// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"strings"

	"github.com/tidwall/jsonc"

	"github.com/bureau-foundation/kanban/lib/kanban"
)

// LoadPayload decodes a JSON or JSONC (comments and trailing commas
// allowed) file into target, for --from-file. "-" reads stdin. Unknown
// fields are rejected so a typo does not silently drop a value.
func LoadPayload(path string, target any) error {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return Validation("reading %s: %w", path, err)
	}

	decoder := json.NewDecoder(bytes.NewReader(jsonc.ToJSON(data)))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(target); err != nil {
		return Validation("parsing %s: %w", path, err)
	}
	return nil
}

// ParseDue parses a --due flag: "" leaves the date unchanged (nil),
// "none" clears it, anything else must be YYYY-MM-DD.
func ParseDue(value string) (*kanban.Date, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "":
		return nil, nil
	case "none":
		return &kanban.Date{}, nil
	}
	date, err := kanban.ParseDate(strings.TrimSpace(value))
	if err != nil {
		return nil, Validation("--due: %w", err)
	}
	return &date, nil
}
