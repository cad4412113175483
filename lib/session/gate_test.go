// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package session

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"testing"

	"github.com/bureau-foundation/kanban/lib/kanban"
	"github.com/bureau-foundation/kanban/lib/kanbanapi"
	"github.com/bureau-foundation/kanban/lib/kanbantest"
	"github.com/bureau-foundation/kanban/lib/secret"
)

type fixture struct {
	server *kanbantest.Server
	client *kanbanapi.Client
	gate   *Gate
	states []State
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	server := kanbantest.NewServer(kanbantest.BackendConfig{})
	t.Cleanup(server.Close)
	server.AddUser(kanbantest.UserSpec{Username: "ada", Password: "pw", DisplayName: "Ada"})

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	client, err := kanbanapi.NewClient(kanbanapi.ClientConfig{BaseURL: server.URL, Logger: logger})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	gate, err := NewGate(GateConfig{Backend: client, Logger: logger})
	if err != nil {
		t.Fatalf("NewGate: %v", err)
	}
	f := &fixture{server: server, client: client, gate: gate}
	gate.Subscribe(func(state State, _ kanban.Identity) {
		f.states = append(f.states, state)
	})
	return f
}

func password(t *testing.T, value string) *secret.Buffer {
	t.Helper()
	buffer, err := secret.NewFromBytes([]byte(value))
	if err != nil {
		t.Fatalf("secret.NewFromBytes: %v", err)
	}
	t.Cleanup(func() { buffer.Close() })
	return buffer
}

func TestNewGateRequiresBackend(t *testing.T) {
	if _, err := NewGate(GateConfig{}); err == nil {
		t.Fatal("expected error without a backend")
	}
}

func TestCheckAnonymous(t *testing.T) {
	f := newFixture(t)
	if f.gate.State() != StatePending {
		t.Fatalf("initial state = %v, want pending", f.gate.State())
	}

	state, err := f.gate.Check(context.Background())
	if err != nil {
		t.Fatalf("Check: 401 should not be an error, got %v", err)
	}
	if state != StateAnonymous {
		t.Errorf("state = %v, want anonymous", state)
	}
	if _, ok := f.gate.CurrentIdentity(); ok {
		t.Error("CurrentIdentity should report no identity")
	}
	if f.server.Count(http.MethodGet, "/api/csrf/") != 1 {
		t.Error("Check should prime the csrf cookie")
	}
	if len(f.states) != 1 || f.states[0] != StateAnonymous {
		t.Errorf("notifications = %v", f.states)
	}
}

func TestCheckFailsClosed(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	if _, err := f.gate.Login(ctx, "ada", password(t, "pw")); err != nil {
		t.Fatalf("Login: %v", err)
	}

	f.server.FailNext(http.MethodGet, "/api/me/", http.StatusInternalServerError, "boom")
	state, err := f.gate.Check(ctx)
	if state != StateAnonymous {
		t.Errorf("state = %v, want anonymous on server error", state)
	}
	if err == nil {
		t.Error("non-401 failures should be reported")
	}

	f.server.Close()
	state, err = f.gate.Check(ctx)
	if state != StateAnonymous || err == nil {
		t.Errorf("unreachable server: state %v err %v, want anonymous with error", state, err)
	}
}

func TestCheckAuthenticated(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	if _, err := f.gate.Login(ctx, "ada", password(t, "pw")); err != nil {
		t.Fatalf("Login: %v", err)
	}

	state, err := f.gate.Check(ctx)
	if err != nil || state != StateAuthenticated {
		t.Fatalf("Check = %v, %v", state, err)
	}
	identity, ok := f.gate.CurrentIdentity()
	if !ok || identity.Username != "ada" {
		t.Errorf("identity = %+v, %v", identity, ok)
	}
}

func TestLoginFailureSurfacesDetail(t *testing.T) {
	f := newFixture(t)
	_, err := f.gate.Login(context.Background(), "ada", password(t, "wrong"))

	var loginErr *LoginError
	if !errors.As(err, &loginErr) {
		t.Fatalf("err = %v, want *LoginError", err)
	}
	if loginErr.Error() != "Invalid username or password." {
		t.Errorf("message = %q, want the server detail", loginErr.Error())
	}
	var apiErr *kanbanapi.APIError
	if !errors.As(err, &apiErr) || apiErr.StatusCode != http.StatusBadRequest {
		t.Errorf("LoginError should wrap the API error, got %v", err)
	}
	if f.gate.State() != StatePending {
		t.Errorf("failed login changed state to %v", f.gate.State())
	}
	if len(f.states) != 0 {
		t.Errorf("failed login notified %v", f.states)
	}
}

func TestLoginWithoutPrimedCookie(t *testing.T) {
	f := newFixture(t)
	identity, err := f.gate.Login(context.Background(), "ada", password(t, "pw"))
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if identity.Name() != "Ada" || f.gate.State() != StateAuthenticated {
		t.Errorf("identity %+v state %v", identity, f.gate.State())
	}
}

func TestLogoutClearsLocallyEvenOnNetworkFailure(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	if _, err := f.gate.Login(ctx, "ada", password(t, "pw")); err != nil {
		t.Fatalf("Login: %v", err)
	}

	f.server.FailNext(http.MethodPost, "/api/logout/", http.StatusBadGateway, "gateway down")
	err := f.gate.Logout(ctx)
	if err == nil {
		t.Fatal("Logout should return the network error")
	}
	if f.gate.State() != StateAnonymous {
		t.Errorf("state = %v, want anonymous", f.gate.State())
	}
	if _, ok := f.gate.CurrentIdentity(); ok {
		t.Error("identity should be cleared")
	}
	if len(f.client.Cookies()) != 0 {
		t.Errorf("cookies not cleared: %v", f.client.Cookies())
	}
	if last := f.states[len(f.states)-1]; last != StateAnonymous {
		t.Errorf("last notification = %v", last)
	}
}

func TestLogout(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	if _, err := f.gate.Login(ctx, "ada", password(t, "pw")); err != nil {
		t.Fatalf("Login: %v", err)
	}
	before := f.server.Count(http.MethodGet, "/api/csrf/")
	if err := f.gate.Logout(ctx); err != nil {
		t.Fatalf("Logout: %v", err)
	}
	if f.server.Count(http.MethodGet, "/api/csrf/") != before+1 {
		t.Error("Logout should re-prime csrf")
	}
	if f.server.Count(http.MethodPost, "/api/logout/") != 1 {
		t.Error("Logout should POST /api/logout/")
	}
	if state, _ := f.gate.Check(ctx); state != StateAnonymous {
		t.Errorf("Check after logout = %v", state)
	}
}

func TestUnsubscribe(t *testing.T) {
	f := newFixture(t)
	calls := 0
	unsubscribe := f.gate.Subscribe(func(State, kanban.Identity) { calls++ })
	f.gate.Check(context.Background())
	unsubscribe()
	f.gate.Check(context.Background())
	if calls != 1 {
		t.Errorf("listener called %d times, want 1", calls)
	}
}

func TestStateString(t *testing.T) {
	for state, want := range map[State]string{
		StatePending:       "pending",
		StateAnonymous:     "anonymous",
		StateAuthenticated: "authenticated",
		State(9):           "State(9)",
	} {
		if got := state.String(); got != want {
			t.Errorf("String() = %q, want %q", got, want)
		}
	}
}
