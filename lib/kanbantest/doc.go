// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package kanbantest is an in-memory kanban backend that speaks the
// same HTTP contract as the real server: cookie sessions, a csrftoken
// cookie primed by GET /api/csrf/ and checked against X-CSRFToken on
// every mutating request, trailing-slash REST paths, DRF-shaped error
// bodies ({"detail": ...} and field → messages maps) and 204 responses
// for deletes.
//
// [Backend] is an http.Handler built on gin. [NewServer] wraps it in an
// httptest.Server for tests; cmd/kanban-devserver serves it on a real
// port with [Backend.SeedDemo] data.
//
// Tests steer the backend with:
//
//   - [Backend.FailNext] to make the next matching request fail
//   - [Backend.RejectCSRF] to reject the next n mutating requests as a
//     CSRF failure even with a valid token
//   - [Backend.Count] and [Backend.Requests] to assert which requests
//     were (or were not) issued
//   - [BackendConfig.ResponsibleAsID] to serialize task.responsible as
//     a bare id, the shape some deployments return
//   - [BackendConfig.IgnoreCompletionFields] to drop completed_at and
//     done_color on write, like servers without those columns
//   - [BackendConfig.ReducedTaskWrites] to answer task writes with
//     only the scalar fields, and [BackendConfig.EmptyTaskUpdates] to
//     answer updates with no body at all
package kanbantest
