// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package netutil

import (
	"bytes"
	"fmt"
	"io"
	"mime/multipart"
	"net/textproto"
	"strings"
)

// MultipartFile is one file part of a multipart form.
type MultipartFile struct {
	// Field is the form field name (e.g. "image").
	Field string
	// Filename is sent in the part's Content-Disposition.
	Filename string
	// ContentType is the part's media type. Empty means
	// application/octet-stream.
	ContentType string
	// Content is read to EOF while building the form.
	Content io.Reader
}

// MultipartForm encodes fields and files as multipart/form-data and
// returns the buffered body together with the Content-Type header
// value carrying the boundary. The body is fully buffered so a request
// can be replayed byte-for-byte.
func MultipartForm(fields map[string]string, files ...MultipartFile) ([]byte, string, error) {
	var buffer bytes.Buffer
	writer := multipart.NewWriter(&buffer)

	for name, value := range fields {
		if err := writer.WriteField(name, value); err != nil {
			return nil, "", fmt.Errorf("writing form field %q: %w", name, err)
		}
	}

	for _, file := range files {
		contentType := file.ContentType
		if contentType == "" {
			contentType = "application/octet-stream"
		}
		header := make(textproto.MIMEHeader)
		header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`,
			escapeQuotes(file.Field), escapeQuotes(file.Filename)))
		header.Set("Content-Type", contentType)
		part, err := writer.CreatePart(header)
		if err != nil {
			return nil, "", fmt.Errorf("creating form file %q: %w", file.Field, err)
		}
		if _, err := io.Copy(part, file.Content); err != nil {
			return nil, "", fmt.Errorf("copying form file %q: %w", file.Filename, err)
		}
	}

	if err := writer.Close(); err != nil {
		return nil, "", fmt.Errorf("closing multipart writer: %w", err)
	}
	return buffer.Bytes(), writer.FormDataContentType(), nil
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

func escapeQuotes(s string) string {
	return quoteEscaper.Replace(s)
}
