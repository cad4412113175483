// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package imagepanel

import (
	"encoding/hex"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/zeebo/blake3"
)

// MaxFileSize bounds a single staged file.
const MaxFileSize = 20 << 20

// ErrNotImage is returned for content that does not sniff as an image.
var ErrNotImage = errors.New("imagepanel: not an image")

// ErrTooLarge is returned for files over MaxFileSize.
var ErrTooLarge = errors.New("imagepanel: file too large")

// ErrDuplicate is returned for content already staged.
var ErrDuplicate = errors.New("imagepanel: already staged")

// Digest is the BLAKE3 hash of a staged file's content.
type Digest [32]byte

// String returns the first 12 hex digits, enough to tell files apart
// in a listing.
func (d Digest) String() string {
	return hex.EncodeToString(d[:6])
}

// File is a staged image. Data must be treated as read-only.
type File struct {
	Name        string
	ContentType string
	Data        []byte
	Digest      Digest
	// Preview is the handle returned by the panel's Previewer, empty
	// when none was created.
	Preview string
}

// Size returns the content length.
func (f File) Size() int { return len(f.Data) }

// HumanSize returns the content length for display ("1.2 MB").
func (f File) HumanSize() string { return humanize.Bytes(uint64(len(f.Data))) }

func (f File) String() string {
	return fmt.Sprintf("%s (%s, %s)", f.Name, f.ContentType, f.HumanSize())
}

// newFile sniffs data and builds a File. Non-image content returns
// ErrNotImage.
func newFile(name string, data []byte) (File, error) {
	if len(data) > MaxFileSize {
		return File{}, fmt.Errorf("%s: %w (%s, limit %s)", name, ErrTooLarge,
			humanize.Bytes(uint64(len(data))), humanize.Bytes(MaxFileSize))
	}
	contentType := http.DetectContentType(data)
	if !strings.HasPrefix(contentType, "image/") {
		return File{}, fmt.Errorf("%s: %w (detected %s)", name, ErrNotImage, contentType)
	}
	return File{
		Name:        name,
		ContentType: contentType,
		Data:        data,
		Digest:      blake3.Sum256(data),
	}, nil
}

// readFile reads a file from disk with a size bound.
func readFile(path string) ([]byte, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%s is a directory", path)
	}
	if info.Size() > MaxFileSize {
		return nil, fmt.Errorf("%s: %w (%s, limit %s)", path, ErrTooLarge,
			humanize.Bytes(uint64(info.Size())), humanize.Bytes(MaxFileSize))
	}
	return os.ReadFile(path)
}
