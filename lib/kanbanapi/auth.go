// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package kanbanapi

import (
	"context"
	"fmt"
	"net/http"

	"github.com/bureau-foundation/kanban/lib/kanban"
	"github.com/bureau-foundation/kanban/lib/secret"
)

// Me returns the identity of the current session. An anonymous
// session yields a 401 *APIError (see IsUnauthorized).
func (c *Client) Me(ctx context.Context) (kanban.Identity, error) {
	var identity kanban.Identity
	if err := c.doJSON(ctx, http.MethodGet, "/api/me/", nil, nil, &identity); err != nil {
		return kanban.Identity{}, fmt.Errorf("kanbanapi: fetching identity: %w", err)
	}
	return identity, nil
}

// Login authenticates with username and password. On success the
// server sets a session cookie in the jar and returns the identity.
// The password Buffer is read but not closed; the caller retains
// ownership.
func (c *Client) Login(ctx context.Context, username string, password *secret.Buffer) (kanban.Identity, error) {
	if username == "" {
		return kanban.Identity{}, fmt.Errorf("kanbanapi: username is required for login")
	}
	if password == nil {
		return kanban.Identity{}, fmt.Errorf("kanbanapi: password is required for login")
	}

	// Password is converted to string at the JSON serialization boundary.
	request := struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}{
		Username: username,
		Password: password.String(),
	}

	var identity kanban.Identity
	if err := c.doJSON(ctx, http.MethodPost, "/api/login/", nil, request, &identity); err != nil {
		return kanban.Identity{}, fmt.Errorf("kanbanapi: login failed: %w", err)
	}

	c.logger.Info("logged in to kanban",
		"username", identity.Username,
		"user_id", identity.ID,
	)
	return identity, nil
}

// Logout ends the server session. The jar is left untouched; callers
// that want the local cookies gone call ClearCookies.
func (c *Client) Logout(ctx context.Context) error {
	if err := c.doJSON(ctx, http.MethodPost, "/api/logout/", nil, nil, nil); err != nil {
		return fmt.Errorf("kanbanapi: logout failed: %w", err)
	}
	return nil
}
