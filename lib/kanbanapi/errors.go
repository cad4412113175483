// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package kanbanapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"
)

// APIError is a non-2xx response from the API. Callers extract it
// with errors.As:
//
//	var apiErr *kanbanapi.APIError
//	if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusConflict { ... }
type APIError struct {
	// StatusCode is the HTTP status of the response.
	StatusCode int
	// Method and Path identify the failed request.
	Method string
	Path   string
	// Detail is the server's "detail" message, or the raw body text
	// when the body was not a JSON object.
	Detail string
	// Fields holds per-field validation messages from a JSON error
	// body (e.g. {"title": ["This field is required."]}).
	Fields map[string][]string
	// Body is the raw response body.
	Body string
}

func (e *APIError) Error() string {
	message := e.Message()
	if message == "" {
		message = http.StatusText(e.StatusCode)
	}
	return fmt.Sprintf("kanbanapi: %s %s returned %d: %s", e.Method, e.Path, e.StatusCode, message)
}

// Message returns the most useful human-readable text in the error:
// the detail, else the field messages joined as "field: message".
func (e *APIError) Message() string {
	if e.Detail != "" {
		return e.Detail
	}
	if len(e.Fields) == 0 {
		return ""
	}
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)
	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, name+": "+strings.Join(e.Fields[name], " "))
	}
	return strings.Join(parts, "; ")
}

// newAPIError builds an APIError from a response body. A body that is
// not a JSON object falls back to its trimmed raw text as the detail.
func newAPIError(method, path string, statusCode int, body []byte) *APIError {
	apiErr := &APIError{
		StatusCode: statusCode,
		Method:     method,
		Path:       path,
		Body:       string(body),
	}

	var object map[string]json.RawMessage
	if err := json.Unmarshal(body, &object); err != nil {
		apiErr.Detail = strings.TrimSpace(string(body))
		return apiErr
	}

	for key, raw := range object {
		if key == "detail" {
			var detail string
			if json.Unmarshal(raw, &detail) == nil {
				apiErr.Detail = detail
			}
			continue
		}
		if messages := decodeMessages(raw); len(messages) > 0 {
			if apiErr.Fields == nil {
				apiErr.Fields = make(map[string][]string)
			}
			apiErr.Fields[key] = messages
		}
	}
	return apiErr
}

// decodeMessages accepts a string or a list of strings.
func decodeMessages(raw json.RawMessage) []string {
	var single string
	if json.Unmarshal(raw, &single) == nil {
		return []string{single}
	}
	var list []string
	if json.Unmarshal(raw, &list) == nil {
		return list
	}
	return nil
}

// IsCSRFFailure reports whether the error is a 403 whose body mentions
// CSRF. This is the condition that triggers the re-prime and retry.
func (e *APIError) IsCSRFFailure() bool {
	return e.StatusCode == http.StatusForbidden && strings.Contains(strings.ToLower(e.Body), "csrf")
}

func statusIs(err error, statusCode int) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == statusCode
}

// IsNotFound reports whether err is a 404 APIError.
func IsNotFound(err error) bool { return statusIs(err, http.StatusNotFound) }

// IsUnauthorized reports whether err is a 401 APIError.
func IsUnauthorized(err error) bool { return statusIs(err, http.StatusUnauthorized) }

// IsForbidden reports whether err is a 403 APIError.
func IsForbidden(err error) bool { return statusIs(err, http.StatusForbidden) }

// IsCSRFFailure reports whether err is an APIError for a CSRF rejection.
func IsCSRFFailure(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.IsCSRFFailure()
}
