// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package secret

import (
	"bytes"
	"fmt"
	"io"
	"os"
)

// MaxSecretSize bounds secrets read from files or pipes. Passwords are
// far smaller; the limit stops a mistaken path (a log file, a device)
// from being slurped into locked memory.
const MaxSecretSize = 64 << 10

// NewFromReader reads at most MaxSecretSize bytes from reader, trims
// surrounding whitespace (including the trailing newline of a password
// file), and stores the result in a new Buffer. Intermediate heap
// copies are zeroed.
func NewFromReader(reader io.Reader) (*Buffer, error) {
	data, err := io.ReadAll(io.LimitReader(reader, MaxSecretSize+1))
	if err != nil {
		Zero(data)
		return nil, fmt.Errorf("secret: reading: %w", err)
	}
	defer Zero(data)

	if len(data) > MaxSecretSize {
		return nil, fmt.Errorf("secret: input exceeds %d bytes", MaxSecretSize)
	}
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("secret: input is empty")
	}
	return NewFromBytes(trimmed)
}

// ReadFromPath reads a secret from a file, or from stdin when path is
// "-". The caller must Close the returned buffer.
func ReadFromPath(path string) (*Buffer, error) {
	if path == "-" {
		return NewFromReader(os.Stdin)
	}
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("secret: %w", err)
	}
	defer file.Close()
	return NewFromReader(file)
}
