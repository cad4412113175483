// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package kanbanapi is the HTTP client for the kanban REST API.
//
// The API authenticates with a session cookie and protects mutating
// requests with a CSRF token: GET /api/csrf/ sets a "csrftoken" cookie,
// and every POST, PATCH and DELETE must echo it in the X-CSRFToken
// header. [Client] owns the cookie jar and attaches the header itself.
//
// When a mutating request is rejected with 403 and a CSRF-related body
// (typically because the token cookie was never set or has rotated),
// the client re-primes the cookie and replays the request exactly
// once. A second rejection is returned to the caller as an [*APIError].
//
// Error responses are parsed defensively. A JSON body contributes its
// "detail" message and per-field validation messages; anything else
// is kept as raw text. Use [errors.As] with *APIError, or the helpers
// [IsNotFound], [IsUnauthorized], [IsForbidden] and [IsCSRFFailure].
//
// The client performs no caching and no request de-duplication. Each
// method maps to a single endpoint; orchestration across endpoints
// (optimistic updates, image reconciliation) lives in lib/board.
package kanbanapi
