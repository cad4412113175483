// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package netutil provides HTTP I/O helpers for the kanban API client
// and its test server.
//
// [ReadResponse] bounds body reads at [MaxResponseSize] so a
// misbehaving server cannot exhaust memory. [MultipartForm] builds the
// multipart bodies used for image uploads. [IsTransient] classifies
// transport errors that are worth retrying by the user.
package netutil
