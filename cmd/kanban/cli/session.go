// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"

	"github.com/bureau-foundation/kanban/lib/secret"
)

// SessionFile is the on-disk login state: the server it belongs to and
// the cookies the server set. It is written with mode 0600 since the
// session cookie grants access to the account.
type SessionFile struct {
	// BaseURL is the server the cookies were issued by. A session file
	// for another server is ignored.
	BaseURL string `json:"base_url"`

	// Username is informational, shown by "kanban whoami" when the
	// server cannot be reached.
	Username string `json:"username,omitempty"`

	Cookies []StoredCookie `json:"cookies"`
}

// StoredCookie is one persisted cookie.
type StoredCookie struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// HTTPCookies converts the stored cookies for a cookie jar.
func (s *SessionFile) HTTPCookies() []*http.Cookie {
	cookies := make([]*http.Cookie, 0, len(s.Cookies))
	for _, stored := range s.Cookies {
		cookies = append(cookies, &http.Cookie{Name: stored.Name, Value: stored.Value, Path: "/"})
	}
	return cookies
}

// NewSessionFile captures cookies from a jar.
func NewSessionFile(baseURL, username string, cookies []*http.Cookie) *SessionFile {
	session := &SessionFile{BaseURL: baseURL, Username: username}
	for _, cookie := range cookies {
		session.Cookies = append(session.Cookies, StoredCookie{Name: cookie.Name, Value: cookie.Value})
	}
	return session
}

// LoadSessionFrom reads a session file. A missing file returns
// (nil, nil): not being logged in is not an error at this layer.
func LoadSessionFrom(path string) (*SessionFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading session file %s: %w", path, err)
	}

	var session SessionFile
	err = json.Unmarshal(data, &session)
	secret.Zero(data)
	if err != nil {
		return nil, fmt.Errorf("parsing session file %s: %w", path, err)
	}
	if session.BaseURL == "" {
		return nil, fmt.Errorf("session file %s has no base_url", path)
	}
	return &session, nil
}

// SaveSessionTo writes a session file, creating the parent directory
// with mode 0700 if needed.
func SaveSessionTo(session *SessionFile, path string) error {
	data, err := json.MarshalIndent(session, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling session: %w", err)
	}
	data = append(data, '\n')

	directory := filepath.Dir(path)
	if err := os.MkdirAll(directory, 0700); err != nil {
		secret.Zero(data)
		return fmt.Errorf("creating session directory %s: %w", directory, err)
	}

	writeError := os.WriteFile(path, data, 0600)
	secret.Zero(data)
	if writeError != nil {
		return fmt.Errorf("writing session file %s: %w", path, writeError)
	}
	// WriteFile keeps the mode of an existing file.
	if err := os.Chmod(path, 0600); err != nil {
		return fmt.Errorf("restricting session file %s: %w", path, err)
	}
	return nil
}

// RemoveSession deletes a session file. A missing file is not an error.
func RemoveSession(path string) error {
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("removing session file %s: %w", path, err)
	}
	return nil
}
