// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package kanban

import "fmt"

// User is a read-only account record as listed by /api/users/.
type User struct {
	ID          int64  `json:"id"`
	Username    string `json:"username"`
	DisplayName string `json:"display_name,omitempty"`
	Email       string `json:"email,omitempty"`
}

// Name returns the best available label for the user: display name,
// then username, then email, then "user#<id>".
func (user User) Name() string {
	switch {
	case user.DisplayName != "":
		return user.DisplayName
	case user.Username != "":
		return user.Username
	case user.Email != "":
		return user.Email
	}
	return fmt.Sprintf("user#%d", user.ID)
}

// Identity is the authenticated session's user as returned by /api/me/.
type Identity struct {
	ID          int64  `json:"id"`
	Username    string `json:"username"`
	DisplayName string `json:"display_name,omitempty"`
	Role        string `json:"role,omitempty"`
}

// Name returns the display name, falling back to the username.
func (identity Identity) Name() string {
	if identity.DisplayName != "" {
		return identity.DisplayName
	}
	return identity.Username
}

// RoleLabel returns the role, or "User" when the server sent none.
func (identity Identity) RoleLabel() string {
	if identity.Role != "" {
		return identity.Role
	}
	return "User"
}

// FindUser returns the roster entry with the given id.
func FindUser(roster []User, id int64) (User, bool) {
	for _, user := range roster {
		if user.ID == id {
			return user, true
		}
	}
	return User{}, false
}
