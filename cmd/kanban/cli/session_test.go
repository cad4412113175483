// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"net/http"
	"os"
	"path/filepath"
	"testing"
)

func TestSessionFileRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "session.json")

	saved := NewSessionFile("http://localhost:8000", "ada", []*http.Cookie{
		{Name: "sessionid", Value: "s3cret"},
		{Name: "csrftoken", Value: "tok"},
	})
	if err := SaveSessionTo(saved, path); err != nil {
		t.Fatalf("SaveSessionTo: %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("Stat: %v", err)
	}
	if mode := info.Mode().Perm(); mode != 0600 {
		t.Errorf("session file mode = %o, want 0600", mode)
	}

	loaded, err := LoadSessionFrom(path)
	if err != nil {
		t.Fatalf("LoadSessionFrom: %v", err)
	}
	if loaded.BaseURL != "http://localhost:8000" || loaded.Username != "ada" {
		t.Errorf("loaded = %+v", loaded)
	}
	cookies := loaded.HTTPCookies()
	if len(cookies) != 2 || cookies[0].Name != "sessionid" || cookies[0].Value != "s3cret" || cookies[0].Path != "/" {
		t.Errorf("cookies = %+v", cookies)
	}

	if err := RemoveSession(path); err != nil {
		t.Fatalf("RemoveSession: %v", err)
	}
	if err := RemoveSession(path); err != nil {
		t.Errorf("RemoveSession on a missing file: %v", err)
	}
	if missing, err := LoadSessionFrom(path); missing != nil || err != nil {
		t.Errorf("LoadSessionFrom(missing) = %v, %v, want nil, nil", missing, err)
	}
}

func TestSaveSessionTightensExistingMode(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	if err := os.WriteFile(path, []byte("{}"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := SaveSessionTo(NewSessionFile("http://localhost:8000", "", nil), path); err != nil {
		t.Fatalf("SaveSessionTo: %v", err)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if mode := info.Mode().Perm(); mode != 0600 {
		t.Errorf("session file mode = %o, want 0600", mode)
	}
}

func TestLoadSessionRejectsInvalid(t *testing.T) {
	dir := t.TempDir()
	for name, content := range map[string]string{
		"garbage.json":  "not json",
		"noserver.json": `{"cookies": []}`,
	} {
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, []byte(content), 0600); err != nil {
			t.Fatal(err)
		}
		if _, err := LoadSessionFrom(path); err == nil {
			t.Errorf("LoadSessionFrom(%s) succeeded", name)
		}
	}
}
