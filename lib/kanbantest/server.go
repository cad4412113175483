// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package kanbantest

import (
	"net/http/httptest"
)

// Server is a Backend listening on a loopback httptest server.
type Server struct {
	*Backend
	// URL is the base URL, e.g. "http://127.0.0.1:41234".
	URL string

	server *httptest.Server
}

// NewServer starts a backend. Call Close when done.
func NewServer(config BackendConfig) *Server {
	backend := NewBackend(config)
	server := httptest.NewServer(backend)
	return &Server{Backend: backend, URL: server.URL, server: server}
}

// Close shuts the server down.
func (s *Server) Close() {
	s.server.Close()
}
