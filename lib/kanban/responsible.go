// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package kanban

import (
	"bytes"
	"encoding/json"
)

// ResponsibleKind discriminates [Responsible].
type ResponsibleKind int

const (
	// ResponsibleNone means no responsible user.
	ResponsibleNone ResponsibleKind = iota
	// ResponsibleID means only a numeric user id is known.
	ResponsibleID
	// ResponsibleUser means an embedded user object is present.
	ResponsibleUser
)

// Responsible is the task's responsible user in one of three shapes.
// Construct with [NoResponsible], [ResponsibleByID] or
// [ResponsibleFor].
type Responsible struct {
	kind ResponsibleKind
	id   int64
	user User
}

// NoResponsible returns the none kind.
func NoResponsible() Responsible { return Responsible{} }

// ResponsibleByID returns the id kind. An id of 0 yields the none kind.
func ResponsibleByID(id int64) Responsible {
	if id == 0 {
		return Responsible{}
	}
	return Responsible{kind: ResponsibleID, id: id}
}

// ResponsibleFor returns the user kind.
func ResponsibleFor(user User) Responsible {
	return Responsible{kind: ResponsibleUser, id: user.ID, user: user}
}

// Kind returns the discriminant.
func (responsible Responsible) Kind() ResponsibleKind { return responsible.kind }

// ID returns the referenced user id, or 0 for the none kind.
func (responsible Responsible) ID() int64 { return responsible.id }

// User returns the embedded user. ok is false unless the kind is
// ResponsibleUser.
func (responsible Responsible) User() (User, bool) {
	return responsible.user, responsible.kind == ResponsibleUser
}

// Is reports whether the responsible user is id. The none kind never
// matches, even for id 0.
func (responsible Responsible) Is(id int64) bool {
	return responsible.kind != ResponsibleNone && responsible.id == id
}

// Name returns the user's label, "#<id>" for a bare id, or "" for none.
func (responsible Responsible) Name() string {
	switch responsible.kind {
	case ResponsibleUser:
		return responsible.user.Name()
	case ResponsibleID:
		return User{ID: responsible.id}.Name()
	}
	return ""
}

// MarshalJSON encodes null, a bare id or the embedded object.
func (responsible Responsible) MarshalJSON() ([]byte, error) {
	switch responsible.kind {
	case ResponsibleID:
		return json.Marshal(responsible.id)
	case ResponsibleUser:
		return json.Marshal(responsible.user)
	}
	return []byte("null"), nil
}

// UnmarshalJSON accepts an object, a number or anything else. Objects
// become the user kind, non-zero integers the id kind, and every other
// value (null, 0, strings, booleans, fractional numbers) the none kind.
// Decoding never fails on shape.
func (responsible *Responsible) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	*responsible = Responsible{}
	if len(trimmed) == 0 {
		return nil
	}
	switch trimmed[0] {
	case '{':
		var user User
		if err := json.Unmarshal(trimmed, &user); err != nil {
			return nil
		}
		*responsible = ResponsibleFor(user)
	case '-', '0', '1', '2', '3', '4', '5', '6', '7', '8', '9':
		var id int64
		if err := json.Unmarshal(trimmed, &id); err != nil {
			return nil
		}
		*responsible = ResponsibleByID(id)
	}
	return nil
}

// NormalizeResponsible resolves a responsible reference into the shape
// the board keeps in memory. An embedded user passes through unchanged.
// A bare id resolves to the roster entry with that id, or to a stub
// user carrying only the id when the roster has no match. Everything
// else resolves to the none kind.
func NormalizeResponsible(responsible Responsible, roster []User) Responsible {
	switch responsible.kind {
	case ResponsibleUser:
		return responsible
	case ResponsibleID:
		if user, ok := FindUser(roster, responsible.id); ok {
			return ResponsibleFor(user)
		}
		return ResponsibleFor(User{ID: responsible.id})
	}
	return NoResponsible()
}
