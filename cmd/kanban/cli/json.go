// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"encoding/json"
	"io"
	"os"
	"reflect"
	"sync"
)

var (
	outputMu sync.Mutex
	output   io.Writer = os.Stdout
)

// Stdout returns the writer commands print results to. It is
// os.Stdout except under [SetOutput].
func Stdout() io.Writer {
	outputMu.Lock()
	defer outputMu.Unlock()
	return output
}

// SetOutput redirects command output to w and returns a function that
// restores the previous writer. Tests use it to capture output.
func SetOutput(w io.Writer) (restore func()) {
	outputMu.Lock()
	defer outputMu.Unlock()
	previous := output
	output = w
	return func() {
		outputMu.Lock()
		defer outputMu.Unlock()
		output = previous
	}
}

// JSONOutput is an embeddable struct that adds --json output support to
// a command's parameter struct.
//
//	type listParams struct {
//	    cli.ClientFlags
//	    cli.JSONOutput
//	}
//
//	// In Run:
//	if done, err := params.EmitJSON(tasks); done {
//	    return err
//	}
//	// ... text formatting ...
type JSONOutput struct {
	OutputJSON bool `json:"-" flag:"json" desc:"output as JSON"`
}

// EmitJSON writes result as indented JSON if --json is set. Returns
// (true, nil) on success, (true, err) on write failure, or (false, nil)
// when --json is not set and the caller should print text.
//
// Nil slices are written as [] rather than null.
func (j *JSONOutput) EmitJSON(result any) (bool, error) {
	if !j.OutputJSON {
		return false, nil
	}
	return true, WriteJSON(normalizeNilSlice(result))
}

// WriteJSON marshals value as indented JSON to [Stdout].
func WriteJSON(value any) error {
	encoder := json.NewEncoder(Stdout())
	encoder.SetIndent("", "  ")
	return encoder.Encode(value)
}

func normalizeNilSlice(value any) any {
	v := reflect.ValueOf(value)
	if v.Kind() == reflect.Slice && v.IsNil() {
		return reflect.MakeSlice(v.Type(), 0, 0).Interface()
	}
	return value
}
