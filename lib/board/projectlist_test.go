// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package board

import (
	"context"
	"reflect"
	"testing"

	"github.com/bureau-foundation/kanban/lib/kanban"
	"github.com/bureau-foundation/kanban/lib/kanbanapi"
	"github.com/bureau-foundation/kanban/lib/kanbantest"
)

func (f *fixture) projectList(t *testing.T) *ProjectList {
	t.Helper()
	list, err := NewProjectList(ProjectListConfig{API: f.client, Clock: f.clock, Logger: quietLogger()})
	if err != nil {
		t.Fatalf("NewProjectList: %v", err)
	}
	return list
}

func TestProjectListLoadAndAggregates(t *testing.T) {
	f := newFixture(t, kanbantest.BackendConfig{ResponsibleAsID: true})
	other := f.server.AddProject(kanbantest.ProjectSpec{Title: "Docs"})
	yesterday := kanban.NewDate(2024, 1, 9)

	f.addTask(kanbantest.TaskSpec{Title: "mine new", ResponsibleID: f.me.ID})
	f.addTask(kanbantest.TaskSpec{Title: "mine review overdue", Column: kanban.ColumnReview, DueDate: yesterday, ResponsibleID: f.me.ID})
	f.addTask(kanbantest.TaskSpec{Title: "mine done overdue", Column: kanban.ColumnDone, DueDate: yesterday, ResponsibleID: f.me.ID})
	f.addTask(kanbantest.TaskSpec{Title: "mine due today", Column: kanban.ColumnTesting, DueDate: kanban.NewDate(2024, 1, 10), ResponsibleID: f.me.ID})
	f.server.AddTask(kanbantest.TaskSpec{ProjectID: other.ID, Title: "theirs overdue", DueDate: yesterday, ResponsibleID: f.peer.ID})

	list := f.projectList(t)
	result := list.Load(context.Background())
	if err := result.Err(); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(list.Projects()) != 2 || len(list.Users()) != 3 || len(list.Tasks()) != 5 {
		t.Fatalf("loaded %d projects, %d users, %d tasks", len(list.Projects()), len(list.Users()), len(list.Tasks()))
	}

	got := list.Aggregates(f.me.ID)
	want := Aggregates{Projects: 2, Active: 3, InProgress: 2, Overdue: 1}
	if got != want {
		t.Errorf("Aggregates = %+v, want %+v", got, want)
	}
}

func TestProjectListSourcesFailIndependently(t *testing.T) {
	f := newFixture(t, kanbantest.BackendConfig{})
	f.addTask(kanbantest.TaskSpec{Title: "Parser", ResponsibleID: f.me.ID})
	f.server.FailNext("GET", "/api/users/", 502, "<html>Bad Gateway</html>")

	list := f.projectList(t)
	result := list.Load(context.Background())

	if result.Users == nil {
		t.Fatal("users failure not reported")
	}
	if result.Projects != nil || result.Tasks != nil {
		t.Errorf("unrelated sources failed: %+v", result)
	}
	if len(list.Users()) != 0 {
		t.Errorf("Users() = %v, want empty after failure", list.Users())
	}
	if len(list.Projects()) != 1 || len(list.Tasks()) != 1 {
		t.Errorf("projects %d, tasks %d; want both loaded", len(list.Projects()), len(list.Tasks()))
	}
}

func TestProjectListMutations(t *testing.T) {
	f := newFixture(t, kanbantest.BackendConfig{})
	f.addTask(kanbantest.TaskSpec{Title: "Parser"})
	list := f.projectList(t)
	if err := list.Load(context.Background()).Err(); err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()

	title := "Runtime"
	created, err := list.Create(ctx, kanban.ProjectInput{Title: &title})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if projects := list.Projects(); projects[0].ID != created.ID {
		t.Errorf("created project is not first: %+v", projects)
	}

	renamed := "Runtime v2"
	if _, err := list.Edit(ctx, created.ID, kanban.ProjectInput{Title: &renamed}); err != nil {
		t.Fatalf("Edit: %v", err)
	}
	if project, _ := list.Project(created.ID); project.Title != renamed {
		t.Errorf("edited title = %q", project.Title)
	}

	updated, err := list.SetParticipants(ctx, created.ID, []int64{f.peer.ID})
	if err != nil {
		t.Fatalf("SetParticipants: %v", err)
	}
	if !reflect.DeepEqual(updated.ParticipantIDs(), []int64{f.peer.ID}) {
		t.Errorf("participants = %v", updated.ParticipantIDs())
	}

	before := list.Projects()
	f.server.FailNext("DELETE", "/api/projects/", 500, `{"detail":"database locked"}`)
	if err := list.Delete(ctx, f.project.ID); err == nil {
		t.Fatal("Delete succeeded despite the failure")
	}
	if !reflect.DeepEqual(before, list.Projects()) {
		t.Error("failed delete did not restore the project list")
	}

	if err := list.Delete(ctx, f.project.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, ok := list.Project(f.project.ID); ok {
		t.Error("deleted project still listed")
	}
	if len(list.Tasks()) != 0 {
		t.Errorf("tasks of the deleted project remain: %+v", list.Tasks())
	}

	list.Reset()
	if len(list.Projects()) != 0 || len(list.Users()) != 0 {
		t.Error("Reset left state behind")
	}
}

func TestNewProjectListRequiresAPI(t *testing.T) {
	if _, err := NewProjectList(ProjectListConfig{}); err == nil {
		t.Error("NewProjectList without API succeeded")
	}
	var _ API = (*kanbanapi.Client)(nil)
}
