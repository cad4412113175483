// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package kanban

// Project groups tasks. Participants are embedded users.
type Project struct {
	ID           int64  `json:"id"`
	Title        string `json:"title"`
	Description  string `json:"description"`
	DueDate      Date   `json:"due_date"`
	Participants []User `json:"participants"`
}

// ParticipantIDs returns the ids of the project's participants in
// list order.
func (project Project) ParticipantIDs() []int64 {
	ids := make([]int64, 0, len(project.Participants))
	for _, participant := range project.Participants {
		ids = append(ids, participant.ID)
	}
	return ids
}

// Clone returns a deep copy.
func (project Project) Clone() Project {
	clone := project
	if project.Participants != nil {
		clone.Participants = append([]User(nil), project.Participants...)
	}
	return clone
}

// ProjectInput is the create/update payload. Nil fields are omitted
// from PATCH requests; on create every field is sent.
type ProjectInput struct {
	Title        *string  `json:"title,omitempty"`
	Description  *string  `json:"description,omitempty"`
	DueDate      *Date    `json:"due_date,omitempty"`
	Participants *[]int64 `json:"participants,omitempty"`
}

// ProjectRef is the minimal project reference embedded in a task.
type ProjectRef struct {
	ID    int64  `json:"id"`
	Title string `json:"title,omitempty"`
}
