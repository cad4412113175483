// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package imagepanel

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// Previewer creates a viewable resource for a staged file and releases
// it when the file leaves the panel. Handles are opaque to the panel.
type Previewer interface {
	Create(file File) (string, error)
	Release(handle string)
}

// TempFilePreviewer writes each staged file to a temporary directory so
// an external viewer can open it. Release removes the file.
type TempFilePreviewer struct {
	// Dir is the parent directory; empty means os.TempDir().
	Dir string

	mu      sync.Mutex
	handles map[string]struct{}
}

// Create writes file to a new temporary path and returns the path.
func (p *TempFilePreviewer) Create(file File) (string, error) {
	pattern := "kanban-preview-*" + filepath.Ext(file.Name)
	handle, err := os.CreateTemp(p.Dir, pattern)
	if err != nil {
		return "", fmt.Errorf("imagepanel: creating preview: %w", err)
	}
	if _, err := handle.Write(file.Data); err != nil {
		handle.Close()
		os.Remove(handle.Name())
		return "", fmt.Errorf("imagepanel: writing preview: %w", err)
	}
	if err := handle.Close(); err != nil {
		os.Remove(handle.Name())
		return "", fmt.Errorf("imagepanel: writing preview: %w", err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.handles == nil {
		p.handles = make(map[string]struct{})
	}
	p.handles[handle.Name()] = struct{}{}
	return handle.Name(), nil
}

// Release removes a preview file created by Create. Unknown handles
// are ignored.
func (p *TempFilePreviewer) Release(handle string) {
	p.mu.Lock()
	_, known := p.handles[handle]
	delete(p.handles, handle)
	p.mu.Unlock()
	if known {
		os.Remove(handle)
	}
}

// Outstanding returns the number of previews not yet released.
func (p *TempFilePreviewer) Outstanding() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.handles)
}
