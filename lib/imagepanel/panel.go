// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package imagepanel

import (
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"slices"
	"sync"

	"github.com/bureau-foundation/kanban/lib/kanban"
)

// Capacity is the most images a panel holds, existing and staged
// combined.
const Capacity = kanban.MaxTaskImages

// Reposition asks the server to move an existing image.
type Reposition struct {
	ID       int64 `json:"id"`
	Position int   `json:"position"`
}

// Diff describes the pending image changes for a task.
type Diff struct {
	// Files is every staged file, in staging order.
	Files []File
	// DeleteIDs lists original images no longer present.
	DeleteIDs []int64
	// Reorder assigns 0-based positions to the current existing list.
	Reorder []Reposition
	// Reordered reports whether the surviving existing images changed
	// relative order.
	Reordered bool
}

// Changed reports whether applying the diff would touch the server.
func (d Diff) Changed() bool {
	return len(d.Files) > 0 || len(d.DeleteIDs) > 0 || d.Reordered
}

// Source records how files reached the panel.
type Source string

const (
	SourcePicker Source = "picker"
	SourceDrop   Source = "drop"
	SourcePaste  Source = "paste"
)

// Rejected is a candidate file that was not staged.
type Rejected struct {
	Name string
	Err  error
}

// AddResult reports the outcome of one add.
type AddResult struct {
	Added    []File
	Rejected []Rejected
	// Truncated counts image files dropped because the panel was full.
	Truncated int
}

// Config holds configuration for a Panel.
type Config struct {
	// Existing is the task's server-side image list.
	Existing []kanban.TaskImage
	// Previewer creates preview resources for staged files. Nil means
	// no previews.
	Previewer Previewer
	// Listener is called with the new diff after every mutation,
	// outside the panel's lock.
	Listener func(Diff)
	// Logger is used for structured logging. If nil, slog.Default() is used.
	Logger *slog.Logger
}

// Panel is the image editor state for one task.
type Panel struct {
	previewer Previewer
	listener  func(Diff)
	logger    *slog.Logger

	mu       sync.Mutex
	original []kanban.TaskImage
	existing []kanban.TaskImage
	staged   []File
	closed   bool
}

// New creates a panel over a task's existing images.
func New(config Config) *Panel {
	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}
	sorted := kanban.Task{Images: config.Existing}.SortedImages()
	return &Panel{
		previewer: config.Previewer,
		listener:  config.Listener,
		logger:    logger,
		original:  sorted,
		existing:  slices.Clone(sorted),
	}
}

// Existing returns the current existing images in display order.
func (p *Panel) Existing() []kanban.TaskImage {
	p.mu.Lock()
	defer p.mu.Unlock()
	return slices.Clone(p.existing)
}

// Staged returns the staged files in staging order.
func (p *Panel) Staged() []File {
	p.mu.Lock()
	defer p.mu.Unlock()
	return slices.Clone(p.staged)
}

// Len returns the combined count of existing and staged images.
func (p *Panel) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.existing) + len(p.staged)
}

// Remaining returns how many more images fit.
func (p *Panel) Remaining() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.remainingLocked()
}

func (p *Panel) remainingLocked() int {
	return max(0, Capacity-len(p.existing)-len(p.staged))
}

// AddFiles stages files chosen in a picker.
func (p *Panel) AddFiles(paths []string) AddResult {
	return p.addPaths(SourcePicker, paths)
}

// AddDropped stages files dropped onto the panel.
func (p *Panel) AddDropped(paths []string) AddResult {
	return p.addPaths(SourceDrop, paths)
}

// AddPasted stages clipboard content. An empty name is replaced with
// "pasted-image".
func (p *Panel) AddPasted(name string, data []byte) AddResult {
	if name == "" {
		name = "pasted-image"
	}
	return p.add(SourcePaste, []candidate{{name: name, data: data}})
}

type candidate struct {
	name string
	data []byte
	err  error
}

func (p *Panel) addPaths(source Source, paths []string) AddResult {
	candidates := make([]candidate, 0, len(paths))
	for _, path := range paths {
		data, err := readFile(path)
		candidates = append(candidates, candidate{name: filepath.Base(path), data: data, err: err})
	}
	return p.add(source, candidates)
}

// add is the single capacity-checked path every source funnels into.
func (p *Panel) add(source Source, candidates []candidate) AddResult {
	var result AddResult

	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		for _, c := range candidates {
			result.Rejected = append(result.Rejected, Rejected{Name: c.name, Err: errors.New("imagepanel: panel closed")})
		}
		return result
	}

	for _, c := range candidates {
		if c.err != nil {
			result.Rejected = append(result.Rejected, Rejected{Name: c.name, Err: c.err})
			continue
		}
		file, err := newFile(c.name, c.data)
		if err != nil {
			result.Rejected = append(result.Rejected, Rejected{Name: c.name, Err: err})
			continue
		}
		if p.remainingLocked() == 0 {
			result.Truncated++
			continue
		}
		if p.hasDigestLocked(file.Digest) {
			result.Rejected = append(result.Rejected, Rejected{Name: c.name, Err: fmt.Errorf("%s: %w", c.name, ErrDuplicate)})
			continue
		}
		p.staged = append(p.staged, file)
		result.Added = append(result.Added, file)
	}
	diff := p.diffLocked()
	p.mu.Unlock()

	if p.previewer != nil && len(result.Added) > 0 {
		diff = p.attachPreviews(result.Added)
	}

	if len(result.Added) > 0 || result.Truncated > 0 {
		p.logger.Debug("images staged",
			"source", source,
			"added", len(result.Added),
			"rejected", len(result.Rejected),
			"truncated", result.Truncated,
		)
	}
	if len(result.Added) > 0 {
		p.emit(diff)
	}
	return result
}

// attachPreviews creates previews for files that were just staged and
// records the handles on the staged entries. Create runs without the
// lock held; a file removed (or a panel closed) in the meantime has its
// preview released at once.
func (p *Panel) attachPreviews(added []File) Diff {
	handles := make([]string, len(added))
	for index, file := range added {
		handle, err := p.previewer.Create(file)
		if err != nil {
			p.logger.Warn("image preview unavailable", "file", file.Name, "error", err)
		}
		handles[index] = handle
	}

	var orphaned []File
	p.mu.Lock()
	for index, file := range added {
		if handles[index] == "" {
			continue
		}
		staged := slices.IndexFunc(p.staged, func(candidate File) bool {
			return candidate.Digest == file.Digest && candidate.Preview == ""
		})
		if p.closed || staged < 0 {
			orphaned = append(orphaned, File{Name: file.Name, Preview: handles[index]})
			continue
		}
		p.staged[staged].Preview = handles[index]
		added[index].Preview = handles[index]
	}
	diff := p.diffLocked()
	p.mu.Unlock()

	for _, file := range orphaned {
		p.release(file)
	}
	return diff
}

func (p *Panel) hasDigestLocked(digest Digest) bool {
	for _, file := range p.staged {
		if file.Digest == digest {
			return true
		}
	}
	return false
}

// RemoveExisting drops an existing image. It reports whether the id
// was present.
func (p *Panel) RemoveExisting(id int64) bool {
	p.mu.Lock()
	index := slices.IndexFunc(p.existing, func(image kanban.TaskImage) bool { return image.ID == id })
	if index < 0 {
		p.mu.Unlock()
		return false
	}
	p.existing = slices.Delete(p.existing, index, index+1)
	diff := p.diffLocked()
	p.mu.Unlock()

	p.emit(diff)
	return true
}

// RemoveStaged drops the staged file at index and releases its preview.
func (p *Panel) RemoveStaged(index int) error {
	p.mu.Lock()
	if index < 0 || index >= len(p.staged) {
		count := len(p.staged)
		p.mu.Unlock()
		return fmt.Errorf("imagepanel: staged index %d out of range [0, %d)", index, count)
	}
	removed := p.staged[index]
	p.staged = slices.Delete(p.staged, index, index+1)
	diff := p.diffLocked()
	p.mu.Unlock()

	p.release(removed)
	p.emit(diff)
	return nil
}

// MoveExisting moves the existing image at from to index to, shifting
// the images between.
func (p *Panel) MoveExisting(from, to int) error {
	p.mu.Lock()
	count := len(p.existing)
	if from < 0 || from >= count || to < 0 || to >= count {
		p.mu.Unlock()
		return fmt.Errorf("imagepanel: move %d -> %d out of range [0, %d)", from, to, count)
	}
	if from == to {
		p.mu.Unlock()
		return nil
	}
	image := p.existing[from]
	p.existing = slices.Delete(p.existing, from, from+1)
	p.existing = slices.Insert(p.existing, to, image)
	diff := p.diffLocked()
	p.mu.Unlock()

	p.emit(diff)
	return nil
}

// ErrBadOrder is returned by Arrange when the order does not list
// every existing image exactly once.
var ErrBadOrder = errors.New("imagepanel: order must list every existing image once")

// Arrange reorders the existing images to match ids.
func (p *Panel) Arrange(ids []int64) error {
	p.mu.Lock()
	if len(ids) != len(p.existing) {
		count := len(p.existing)
		p.mu.Unlock()
		return fmt.Errorf("%w: got %d ids for %d images", ErrBadOrder, len(ids), count)
	}
	arranged := make([]kanban.TaskImage, 0, len(ids))
	used := make(map[int64]bool, len(ids))
	for _, id := range ids {
		index := slices.IndexFunc(p.existing, func(image kanban.TaskImage) bool { return image.ID == id })
		if index < 0 || used[id] {
			p.mu.Unlock()
			return fmt.Errorf("%w: image %d", ErrBadOrder, id)
		}
		used[id] = true
		arranged = append(arranged, p.existing[index])
	}
	p.existing = arranged
	diff := p.diffLocked()
	p.mu.Unlock()

	p.emit(diff)
	return nil
}

// ReplaceStaged discards every staged file, releasing its preview.
func (p *Panel) ReplaceStaged() {
	p.mu.Lock()
	dropped := p.staged
	p.staged = nil
	diff := p.diffLocked()
	p.mu.Unlock()

	for _, file := range dropped {
		p.release(file)
	}
	if len(dropped) > 0 {
		p.emit(diff)
	}
}

// Diff returns the current pending changes.
func (p *Panel) Diff() Diff {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.diffLocked()
}

func (p *Panel) diffLocked() Diff {
	diff := Diff{Files: slices.Clone(p.staged)}

	current := make(map[int64]bool, len(p.existing))
	for index, image := range p.existing {
		current[image.ID] = true
		diff.Reorder = append(diff.Reorder, Reposition{ID: image.ID, Position: index})
	}

	var surviving []int64
	for _, image := range p.original {
		if current[image.ID] {
			surviving = append(surviving, image.ID)
		} else {
			diff.DeleteIDs = append(diff.DeleteIDs, image.ID)
		}
	}
	for index, image := range p.existing {
		if index >= len(surviving) || surviving[index] != image.ID {
			diff.Reordered = true
			break
		}
	}
	return diff
}

// Close releases every outstanding preview. The panel accepts no more
// files afterwards. Close is idempotent.
func (p *Panel) Close() {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.closed = true
	dropped := slices.Clone(p.staged)
	for index := range p.staged {
		p.staged[index].Preview = ""
	}
	p.mu.Unlock()

	for _, file := range dropped {
		p.release(file)
	}
}

func (p *Panel) release(file File) {
	if p.previewer != nil && file.Preview != "" {
		p.previewer.Release(file.Preview)
	}
}

func (p *Panel) emit(diff Diff) {
	if p.listener != nil {
		p.listener(diff)
	}
}
