// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package netutil

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"strings"
	"syscall"
	"testing"
)

type failReader struct{}

func (failReader) Read([]byte) (int, error) { return 0, fmt.Errorf("simulated read failure") }

func TestReadResponse(t *testing.T) {
	data, err := ReadResponse(strings.NewReader(`[1,2]`))
	if err != nil {
		t.Fatalf("ReadResponse: %v", err)
	}
	if string(data) != `[1,2]` {
		t.Errorf("got %q", data)
	}
	if _, err := ReadResponse(failReader{}); err == nil {
		t.Error("expected error from failing reader")
	}
}

func TestMultipartForm(t *testing.T) {
	body, contentType, err := MultipartForm(
		map[string]string{"task": "12", "position": "3"},
		MultipartFile{Field: "image", Filename: `a"b.png`, ContentType: "image/png", Content: bytes.NewReader([]byte("PNGDATA"))},
	)
	if err != nil {
		t.Fatalf("MultipartForm: %v", err)
	}
	mediaType, params, err := mime.ParseMediaType(contentType)
	if err != nil {
		t.Fatalf("ParseMediaType(%q): %v", contentType, err)
	}
	if mediaType != "multipart/form-data" {
		t.Fatalf("media type = %q", mediaType)
	}

	reader := multipart.NewReader(bytes.NewReader(body), params["boundary"])
	form, err := reader.ReadForm(1 << 20)
	if err != nil {
		t.Fatalf("ReadForm: %v", err)
	}
	if form.Value["task"][0] != "12" || form.Value["position"][0] != "3" {
		t.Errorf("fields = %v", form.Value)
	}
	files := form.File["image"]
	if len(files) != 1 {
		t.Fatalf("expected one image part, got %d", len(files))
	}
	if files[0].Filename != `a"b.png` {
		t.Errorf("filename = %q", files[0].Filename)
	}
	if files[0].Header.Get("Content-Type") != "image/png" {
		t.Errorf("part content type = %q", files[0].Header.Get("Content-Type"))
	}
	file, err := files[0].Open()
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer file.Close()
	content, _ := io.ReadAll(file)
	if string(content) != "PNGDATA" {
		t.Errorf("content = %q", content)
	}
}

func TestIsTransient(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"refused", fmt.Errorf("dial: %w", syscall.ECONNREFUSED), true},
		{"reset", syscall.ECONNRESET, true},
		{"unexpected eof", fmt.Errorf("read: %w", io.ErrUnexpectedEOF), true},
		{"deadline", context.DeadlineExceeded, true},
		{"canceled", context.Canceled, false},
		{"plain", errors.New("bad request"), false},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			if got := IsTransient(test.err); got != test.want {
				t.Errorf("IsTransient(%v) = %v, want %v", test.err, got, test.want)
			}
		})
	}
}
