// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package netutil

import "io"

// MaxResponseSize bounds JSON API response reads: 32 MB. Board payloads
// are lists of tasks with image URLs, never image bytes, so real
// responses are orders of magnitude smaller.
const MaxResponseSize int64 = 32 << 20

// ReadResponse reads a response body up to MaxResponseSize bytes.
func ReadResponse(body io.Reader) ([]byte, error) {
	return io.ReadAll(io.LimitReader(body, MaxResponseSize))
}
