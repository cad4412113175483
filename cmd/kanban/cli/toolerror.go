// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/bureau-foundation/kanban/lib/kanbanapi"
	"github.com/bureau-foundation/kanban/lib/netutil"
)

// ErrorCategory classifies command errors so that scripts can decide
// between retrying, fixing input and giving up without parsing message
// text. The category is printed by main on stderr and shows in
// --json error output.
type ErrorCategory string

const (
	// CategoryValidation: the caller provided invalid input, either
	// locally (bad flag, unknown column) or as judged by the server (400).
	CategoryValidation ErrorCategory = "validation"

	// CategoryNotFound: a referenced project, task, user or image does
	// not exist.
	CategoryNotFound ErrorCategory = "not_found"

	// CategoryForbidden: not logged in, or the server refused the
	// operation for this user.
	CategoryForbidden ErrorCategory = "forbidden"

	// CategoryConflict: the operation conflicts with server state.
	CategoryConflict ErrorCategory = "conflict"

	// CategoryTransient: network failure, timeout or a 5xx response.
	// Retrying may help.
	CategoryTransient ErrorCategory = "transient"

	// CategoryInternal: anything else, including local I/O failures.
	CategoryInternal ErrorCategory = "internal"
)

// ToolError is a categorized error returned by commands. It wraps an
// inner error, preserving the chain for errors.Is and errors.As. Use
// the category constructors rather than building one directly.
type ToolError struct {
	Category ErrorCategory
	Err      error
}

// Error returns the underlying message without the category.
func (e *ToolError) Error() string { return e.Err.Error() }

// Unwrap returns the underlying error.
func (e *ToolError) Unwrap() error { return e.Err }

// Validation creates a validation error: the caller provided bad input.
func Validation(format string, args ...any) *ToolError {
	return &ToolError{Category: CategoryValidation, Err: fmt.Errorf(format, args...)}
}

// NotFound creates a not-found error: a referenced resource does not exist.
func NotFound(format string, args ...any) *ToolError {
	return &ToolError{Category: CategoryNotFound, Err: fmt.Errorf(format, args...)}
}

// Forbidden creates a forbidden error: the caller lacks permission.
func Forbidden(format string, args ...any) *ToolError {
	return &ToolError{Category: CategoryForbidden, Err: fmt.Errorf(format, args...)}
}

// Conflict creates a conflict error: the operation conflicts with existing state.
func Conflict(format string, args ...any) *ToolError {
	return &ToolError{Category: CategoryConflict, Err: fmt.Errorf(format, args...)}
}

// Transient creates a transient error: a temporary failure that may succeed on retry.
func Transient(format string, args ...any) *ToolError {
	return &ToolError{Category: CategoryTransient, Err: fmt.Errorf(format, args...)}
}

// Internal creates an internal error: an unexpected failure, bug, or I/O error.
func Internal(format string, args ...any) *ToolError {
	return &ToolError{Category: CategoryInternal, Err: fmt.Errorf(format, args...)}
}

// FromAPIError categorizes an error returned by the API client or the
// board layer. The message is "action: server message" when the
// server sent one, else "action: err". An error that already carries
// a category keeps it.
func FromAPIError(err error, action string) error {
	if err == nil {
		return nil
	}
	var toolErr *ToolError
	if errors.As(err, &toolErr) {
		return err
	}

	var apiErr *kanbanapi.APIError
	if !errors.As(err, &apiErr) {
		if netutil.IsTransient(err) {
			return &ToolError{Category: CategoryTransient, Err: fmt.Errorf("%s: %w", action, err)}
		}
		return &ToolError{Category: CategoryInternal, Err: fmt.Errorf("%s: %w", action, err)}
	}

	wrapped := fmt.Errorf("%s: %w", action, err)
	if message := apiErr.Message(); message != "" {
		wrapped = &messageError{message: action + ": " + message, err: err}
	}

	category := CategoryInternal
	switch code := apiErr.StatusCode; {
	case code == http.StatusBadRequest || code == http.StatusUnprocessableEntity:
		category = CategoryValidation
	case code == http.StatusUnauthorized:
		return &ToolError{Category: CategoryForbidden, Err: fmt.Errorf("%s: %w", action, ErrNotLoggedIn)}
	case code == http.StatusForbidden:
		category = CategoryForbidden
	case code == http.StatusNotFound:
		category = CategoryNotFound
	case code == http.StatusConflict:
		category = CategoryConflict
	case code == http.StatusTooManyRequests || code >= 500:
		category = CategoryTransient
	}
	return &ToolError{Category: category, Err: wrapped}
}

// messageError replaces the text of err while keeping it in the chain.
type messageError struct {
	message string
	err     error
}

func (e *messageError) Error() string { return e.message }

func (e *messageError) Unwrap() error { return e.err }
