// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package board

import (
	"errors"
	"fmt"
)

// StepKind names a best-effort step of the save routine.
type StepKind string

const (
	StepDeleteImage  StepKind = "delete-image"
	StepUploadImage  StepKind = "upload-image"
	StepReorderImage StepKind = "reorder-image"
	StepRefresh      StepKind = "refresh"
)

// StepResult is the outcome of one step. Err is nil on success.
type StepResult struct {
	Kind StepKind
	// Target identifies the item: an image id, a file name, or a task id.
	Target string
	Err    error
}

func (r StepResult) String() string {
	if r.Err != nil {
		return fmt.Sprintf("%s %s: %v", r.Kind, r.Target, r.Err)
	}
	return fmt.Sprintf("%s %s: ok", r.Kind, r.Target)
}

// Steps is an ordered list of step outcomes. A failed step never
// aborts the steps after it.
type Steps []StepResult

// Failed returns the steps that failed.
func (s Steps) Failed() Steps {
	var failed Steps
	for _, step := range s {
		if step.Err != nil {
			failed = append(failed, step)
		}
	}
	return failed
}

// OK reports whether every step succeeded.
func (s Steps) OK() bool { return len(s.Failed()) == 0 }

// Err joins the failures, or returns nil.
func (s Steps) Err() error {
	var errs []error
	for _, step := range s.Failed() {
		errs = append(errs, fmt.Errorf("%s %s: %w", step.Kind, step.Target, step.Err))
	}
	return errors.Join(errs...)
}
