// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package kanbanapi

import (
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"sync"
)

// sessionJar is the client's cookie jar. Reset swaps the underlying
// jar for an empty one, which drops cookies on every path, not only
// those visible from the server origin.
type sessionJar struct {
	mu    sync.RWMutex
	inner http.CookieJar
}

func newSessionJar(inner http.CookieJar) (*sessionJar, error) {
	if inner == nil {
		created, err := cookiejar.New(nil)
		if err != nil {
			return nil, fmt.Errorf("kanbanapi: creating cookie jar: %w", err)
		}
		inner = created
	}
	return &sessionJar{inner: inner}, nil
}

func (j *sessionJar) SetCookies(u *url.URL, cookies []*http.Cookie) {
	j.mu.RLock()
	defer j.mu.RUnlock()
	j.inner.SetCookies(u, cookies)
}

func (j *sessionJar) Cookies(u *url.URL) []*http.Cookie {
	j.mu.RLock()
	defer j.mu.RUnlock()
	return j.inner.Cookies(u)
}

func (j *sessionJar) Reset() error {
	empty, err := cookiejar.New(nil)
	if err != nil {
		return fmt.Errorf("kanbanapi: creating cookie jar: %w", err)
	}
	j.mu.Lock()
	j.inner = empty
	j.mu.Unlock()
	return nil
}
