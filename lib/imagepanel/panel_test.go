// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package imagepanel

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/bureau-foundation/kanban/lib/kanban"
)

func pngData(tag string) []byte {
	return append([]byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR"), tag...)
}

func existingImages(ids ...int64) []kanban.TaskImage {
	images := make([]kanban.TaskImage, len(ids))
	for index, id := range ids {
		images[index] = kanban.TaskImage{ID: id, URL: "/media/" + string(rune('a'+index)), Position: index}
	}
	return images
}

type recordingPreviewer struct {
	created  []string
	released []string
}

func (r *recordingPreviewer) Create(file File) (string, error) {
	handle := "preview:" + file.Name
	r.created = append(r.created, handle)
	return handle, nil
}

func (r *recordingPreviewer) Release(handle string) {
	r.released = append(r.released, handle)
}

func TestCapacityTruncates(t *testing.T) {
	panel := New(Config{Existing: existingImages(1, 2)})

	result := panel.AddPasted("", pngData("one"))
	if len(result.Added) != 1 {
		t.Fatalf("first paste added %d, want 1", len(result.Added))
	}

	panel = New(Config{Existing: existingImages(1, 2)})
	dir := t.TempDir()
	var paths []string
	for _, name := range []string{"a.png", "b.png", "c.png"} {
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, pngData(name), 0o600); err != nil {
			t.Fatal(err)
		}
		paths = append(paths, path)
	}

	result = panel.AddFiles(paths)
	if len(result.Added) != 2 {
		t.Fatalf("added %d files with 2 slots free, want 2", len(result.Added))
	}
	if result.Truncated != 1 {
		t.Errorf("Truncated = %d, want 1", result.Truncated)
	}
	if panel.Len() != Capacity {
		t.Errorf("Len = %d, want %d", panel.Len(), Capacity)
	}
	staged := panel.Staged()
	if staged[0].Name != "a.png" || staged[1].Name != "b.png" {
		t.Errorf("staged %q, %q; want the first two files", staged[0].Name, staged[1].Name)
	}
	if panel.Remaining() != 0 {
		t.Errorf("Remaining = %d, want 0", panel.Remaining())
	}
}

func TestAddFiltersNonImages(t *testing.T) {
	dir := t.TempDir()
	text := filepath.Join(dir, "notes.txt")
	image := filepath.Join(dir, "shot.gif")
	if err := os.WriteFile(text, []byte("plain text, not a picture"), 0o600); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(image, []byte("GIF89a\x01\x00\x01\x00"), 0o600); err != nil {
		t.Fatal(err)
	}

	panel := New(Config{})
	result := panel.AddDropped([]string{text, image, filepath.Join(dir, "missing.png")})

	if len(result.Added) != 1 || result.Added[0].ContentType != "image/gif" {
		t.Fatalf("Added = %v, want only the gif", result.Added)
	}
	if len(result.Rejected) != 2 {
		t.Fatalf("Rejected = %v, want 2 entries", result.Rejected)
	}
	if !errors.Is(result.Rejected[0].Err, ErrNotImage) {
		t.Errorf("text file rejected with %v, want ErrNotImage", result.Rejected[0].Err)
	}
	if !errors.Is(result.Rejected[1].Err, os.ErrNotExist) {
		t.Errorf("missing file rejected with %v, want not-exist", result.Rejected[1].Err)
	}
}

func TestNonImagesDoNotConsumeCapacity(t *testing.T) {
	panel := New(Config{Existing: existingImages(1, 2, 3)})
	panel.AddPasted("text", []byte("hello"))
	result := panel.AddPasted("img", pngData("x"))
	if len(result.Added) != 1 {
		t.Fatalf("image after rejected text: added %d, want 1", len(result.Added))
	}
}

func TestDuplicateContentRejected(t *testing.T) {
	panel := New(Config{})
	panel.AddPasted("first.png", pngData("same"))
	result := panel.AddPasted("second.png", pngData("same"))

	if len(result.Added) != 0 {
		t.Fatalf("duplicate was staged")
	}
	if len(result.Rejected) != 1 || !errors.Is(result.Rejected[0].Err, ErrDuplicate) {
		t.Fatalf("Rejected = %v, want ErrDuplicate", result.Rejected)
	}
}

func TestDiffDeleteAndReorder(t *testing.T) {
	const a, b, c = 10, 20, 30

	t.Run("untouched", func(t *testing.T) {
		diff := New(Config{Existing: existingImages(a, b, c)}).Diff()
		if diff.Changed() {
			t.Errorf("fresh panel diff reports changes: %+v", diff)
		}
		want := []Reposition{{a, 0}, {b, 1}, {c, 2}}
		if !reflect.DeepEqual(diff.Reorder, want) {
			t.Errorf("Reorder = %v, want %v", diff.Reorder, want)
		}
	})

	t.Run("swap first two", func(t *testing.T) {
		panel := New(Config{Existing: existingImages(a, b, c)})
		if err := panel.MoveExisting(0, 1); err != nil {
			t.Fatal(err)
		}
		diff := panel.Diff()
		want := []Reposition{{b, 0}, {a, 1}, {c, 2}}
		if !reflect.DeepEqual(diff.Reorder, want) {
			t.Errorf("Reorder = %v, want %v", diff.Reorder, want)
		}
		if !diff.Reordered {
			t.Error("Reordered = false after swap")
		}
		if len(diff.DeleteIDs) != 0 {
			t.Errorf("DeleteIDs = %v, want none", diff.DeleteIDs)
		}
	})

	t.Run("remove existing", func(t *testing.T) {
		panel := New(Config{Existing: existingImages(a, b, c)})
		if !panel.RemoveExisting(b) {
			t.Fatal("RemoveExisting reported absent id")
		}
		if panel.RemoveExisting(b) {
			t.Error("second RemoveExisting reported present")
		}
		diff := panel.Diff()
		if !reflect.DeepEqual(diff.DeleteIDs, []int64{b}) {
			t.Errorf("DeleteIDs = %v, want [%d]", diff.DeleteIDs, b)
		}
		want := []Reposition{{a, 0}, {c, 1}}
		if !reflect.DeepEqual(diff.Reorder, want) {
			t.Errorf("Reorder = %v, want %v", diff.Reorder, want)
		}
		if diff.Reordered {
			t.Error("deletion alone reported as a reorder")
		}
	})

	t.Run("existing sorted by position", func(t *testing.T) {
		images := []kanban.TaskImage{{ID: c, Position: 2}, {ID: a, Position: 0}, {ID: b, Position: 1}}
		existing := New(Config{Existing: images}).Existing()
		if existing[0].ID != a || existing[1].ID != b || existing[2].ID != c {
			t.Errorf("Existing = %v, want sorted by position", existing)
		}
	})

	t.Run("move out of range", func(t *testing.T) {
		panel := New(Config{Existing: existingImages(a)})
		if err := panel.MoveExisting(0, 3); err == nil {
			t.Error("MoveExisting(0, 3) succeeded on one image")
		}
	})
}

func TestArrange(t *testing.T) {
	const a, b, c = 10, 20, 30

	panel := New(Config{Existing: existingImages(a, b, c)})
	if err := panel.Arrange([]int64{c, a, b}); err != nil {
		t.Fatalf("Arrange: %v", err)
	}
	diff := panel.Diff()
	want := []Reposition{{c, 0}, {a, 1}, {b, 2}}
	if !reflect.DeepEqual(diff.Reorder, want) || !diff.Reordered {
		t.Errorf("diff = %+v, want reorder %v", diff, want)
	}

	for _, bad := range [][]int64{{a, b}, {a, b, 99}, {a, a, b}, {a, b, c, a}} {
		if err := panel.Arrange(bad); !errors.Is(err, ErrBadOrder) {
			t.Errorf("Arrange(%v) = %v, want ErrBadOrder", bad, err)
		}
	}
	if got := panel.Diff().Reorder; !reflect.DeepEqual(got, want) {
		t.Errorf("rejected Arrange changed the order: %v", got)
	}
}

func TestListenerReceivesEveryMutation(t *testing.T) {
	var diffs []Diff
	panel := New(Config{
		Existing: existingImages(1, 2),
		Listener: func(diff Diff) { diffs = append(diffs, diff) },
	})

	panel.AddPasted("a.png", pngData("a"))
	panel.RemoveExisting(1)
	if err := panel.RemoveStaged(0); err != nil {
		t.Fatal(err)
	}
	panel.AddPasted("b.png", pngData("b"))
	if err := panel.MoveExisting(0, 0); err != nil {
		t.Fatal(err)
	}

	if len(diffs) != 4 {
		t.Fatalf("listener called %d times, want 4", len(diffs))
	}
	last := diffs[3]
	if len(last.Files) != 1 || last.Files[0].Name != "b.png" {
		t.Errorf("last diff Files = %v, want all staged files (b.png)", last.Files)
	}
	if !reflect.DeepEqual(last.DeleteIDs, []int64{1}) {
		t.Errorf("last diff DeleteIDs = %v, want [1]", last.DeleteIDs)
	}
}

func TestPreviewsReleased(t *testing.T) {
	previewer := &recordingPreviewer{}
	panel := New(Config{Previewer: previewer})

	panel.AddPasted("a.png", pngData("a"))
	panel.AddPasted("b.png", pngData("b"))
	panel.AddPasted("c.png", pngData("c"))

	if err := panel.RemoveStaged(1); err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(previewer.released, []string{"preview:b.png"}) {
		t.Fatalf("released after remove = %v", previewer.released)
	}

	panel.ReplaceStaged()
	if len(previewer.released) != 3 {
		t.Fatalf("released after replace = %v, want all three", previewer.released)
	}

	panel.AddPasted("d.png", pngData("d"))
	panel.Close()
	panel.Close()
	if len(previewer.released) != 4 || previewer.released[3] != "preview:d.png" {
		t.Fatalf("released after close = %v", previewer.released)
	}

	result := panel.AddPasted("e.png", pngData("e"))
	if len(result.Added) != 0 {
		t.Error("closed panel accepted a file")
	}
}

func TestTempFilePreviewer(t *testing.T) {
	previewer := &TempFilePreviewer{Dir: t.TempDir()}
	panel := New(Config{Previewer: previewer})

	result := panel.AddPasted("shot.png", pngData("a"))
	handle := result.Added[0].Preview
	data, err := os.ReadFile(handle)
	if err != nil {
		t.Fatalf("preview file not readable: %v", err)
	}
	if string(data) != string(pngData("a")) {
		t.Error("preview content differs from staged data")
	}
	if filepath.Ext(handle) != ".png" {
		t.Errorf("preview %q lost its extension", handle)
	}

	panel.Close()
	if _, err := os.Stat(handle); !os.IsNotExist(err) {
		t.Errorf("preview still present after Close: %v", err)
	}
	if previewer.Outstanding() != 0 {
		t.Errorf("Outstanding = %d, want 0", previewer.Outstanding())
	}
}

func TestFileDisplay(t *testing.T) {
	file, err := newFile("x.png", pngData("abc"))
	if err != nil {
		t.Fatal(err)
	}
	if file.Size() != len(pngData("abc")) {
		t.Errorf("Size = %d", file.Size())
	}
	if len(file.Digest.String()) != 12 {
		t.Errorf("Digest.String() = %q, want 12 hex digits", file.Digest.String())
	}
	if file.HumanSize() != "19 B" {
		t.Errorf("HumanSize = %q, want 19 B", file.HumanSize())
	}
}

// panelReadingPreviewer reads the panel from inside Create, which
// deadlocks if the panel holds its lock across the call.
type panelReadingPreviewer struct {
	panel   *Panel
	lengths []int
}

func (r *panelReadingPreviewer) Create(file File) (string, error) {
	r.lengths = append(r.lengths, r.panel.Len())
	return "preview:" + file.Name, nil
}

func (r *panelReadingPreviewer) Release(string) {}

func TestPreviewCreatedOutsideLock(t *testing.T) {
	previewer := &panelReadingPreviewer{}
	panel := New(Config{Previewer: previewer})
	previewer.panel = panel

	done := make(chan AddResult, 1)
	go func() { done <- panel.AddPasted("a.png", pngData("a")) }()

	select {
	case result := <-done:
		if len(result.Added) != 1 || result.Added[0].Preview != "preview:a.png" {
			t.Fatalf("Added = %+v, want one file with its preview", result.Added)
		}
		if staged := panel.Staged(); len(staged) != 1 || staged[0].Preview != "preview:a.png" {
			t.Errorf("Staged = %+v, want the preview recorded", staged)
		}
		if !reflect.DeepEqual(previewer.lengths, []int{1}) {
			t.Errorf("Len seen by Create = %v, want [1]", previewer.lengths)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("AddPasted blocked: preview created while the panel lock was held")
	}
}
