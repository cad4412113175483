// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package testutil

// pngSignature is enough for content sniffing to report image/png.
var pngSignature = []byte("\x89PNG\r\n\x1a\n")

// PNG returns bytes that sniff as image/png. Different tags produce
// different content, so the results never collide as duplicates.
func PNG(tag string) []byte {
	data := append([]byte(nil), pngSignature...)
	return append(data, tag...)
}
