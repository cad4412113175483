// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"

	"github.com/bureau-foundation/kanban/lib/kanban"
	"github.com/bureau-foundation/kanban/lib/kanbanapi"
	"github.com/bureau-foundation/kanban/lib/secret"
)

// State is the gate's authentication state.
type State int

const (
	// StatePending: the identity check has not finished.
	StatePending State = iota
	// StateAnonymous: no session, or the session could not be confirmed.
	StateAnonymous
	// StateAuthenticated: Identity holds the logged-in user.
	StateAuthenticated
)

func (s State) String() string {
	switch s {
	case StatePending:
		return "pending"
	case StateAnonymous:
		return "anonymous"
	case StateAuthenticated:
		return "authenticated"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// AuthContext is the session capability handed to the rest of the
// client.
type AuthContext interface {
	// CurrentIdentity returns the logged-in identity, if any.
	CurrentIdentity() (kanban.Identity, bool)
	Login(ctx context.Context, username string, password *secret.Buffer) (kanban.Identity, error)
	Logout(ctx context.Context) error
	// SignRequest adds the anti-forgery and AJAX headers to a request
	// built outside the API client.
	SignRequest(request *http.Request)
}

// Backend is the subset of the API client the gate needs.
// *kanbanapi.Client implements it.
type Backend interface {
	PrimeCSRF(ctx context.Context) error
	Me(ctx context.Context) (kanban.Identity, error)
	Login(ctx context.Context, username string, password *secret.Buffer) (kanban.Identity, error)
	Logout(ctx context.Context) error
	SignRequest(request *http.Request)
}

// cookieClearer is implemented by backends that hold local cookies.
type cookieClearer interface {
	ClearCookies()
}

// Listener is notified after every state change.
type Listener func(state State, identity kanban.Identity)

// GateConfig holds configuration for creating a Gate.
type GateConfig struct {
	Backend Backend
	// Logger is used for structured logging. If nil, slog.Default() is used.
	Logger *slog.Logger
}

// Gate tracks the session identity. It is safe for concurrent use.
type Gate struct {
	backend Backend
	logger  *slog.Logger

	mu        sync.Mutex
	state     State
	identity  kanban.Identity
	listeners map[int]Listener
	nextID    int
}

var _ AuthContext = (*Gate)(nil)

// NewGate creates a gate in StatePending.
func NewGate(config GateConfig) (*Gate, error) {
	if config.Backend == nil {
		return nil, fmt.Errorf("session: Backend is required")
	}
	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Gate{
		backend:   config.Backend,
		logger:    logger,
		state:     StatePending,
		listeners: make(map[int]Listener),
	}, nil
}

// LoginError is a rejected login. Its message is the server's detail
// when the server sent one.
type LoginError struct {
	Message string
	Err     error
}

func (e *LoginError) Error() string { return e.Message }

func (e *LoginError) Unwrap() error { return e.Err }

// State returns the current state.
func (g *Gate) State() State {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.state
}

// CurrentIdentity returns the identity when authenticated.
func (g *Gate) CurrentIdentity() (kanban.Identity, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.identity, g.state == StateAuthenticated
}

// SignRequest delegates to the backend.
func (g *Gate) SignRequest(request *http.Request) {
	g.backend.SignRequest(request)
}

// Subscribe registers a listener and returns a function that removes it.
func (g *Gate) Subscribe(listener Listener) (unsubscribe func()) {
	g.mu.Lock()
	defer g.mu.Unlock()
	id := g.nextID
	g.nextID++
	g.listeners[id] = listener
	return func() {
		g.mu.Lock()
		defer g.mu.Unlock()
		delete(g.listeners, id)
	}
}

// transition sets the state and notifies listeners outside the lock.
func (g *Gate) transition(state State, identity kanban.Identity) {
	g.mu.Lock()
	g.state = state
	g.identity = identity
	listeners := make([]Listener, 0, len(g.listeners))
	for _, listener := range g.listeners {
		listeners = append(listeners, listener)
	}
	g.mu.Unlock()

	for _, listener := range listeners {
		listener(state, identity)
	}
}

// Check primes the CSRF cookie and asks the server who we are. A 401
// yields StateAnonymous with a nil error. Any other failure also yields
// StateAnonymous, and the error is returned for diagnostics.
func (g *Gate) Check(ctx context.Context) (State, error) {
	g.mu.Lock()
	g.state = StatePending
	g.mu.Unlock()

	if err := g.backend.PrimeCSRF(ctx); err != nil {
		g.logger.Debug("csrf priming failed during session check", "error", err)
	}

	identity, err := g.backend.Me(ctx)
	if err != nil {
		g.transition(StateAnonymous, kanban.Identity{})
		if kanbanapi.IsUnauthorized(err) {
			return StateAnonymous, nil
		}
		g.logger.Debug("session check failed, treating as anonymous", "error", err)
		return StateAnonymous, fmt.Errorf("session: checking identity: %w", err)
	}

	g.transition(StateAuthenticated, identity)
	return StateAuthenticated, nil
}

// Login primes CSRF and submits the credentials. On failure the state
// is unchanged and a *LoginError carries the server's detail message.
func (g *Gate) Login(ctx context.Context, username string, password *secret.Buffer) (kanban.Identity, error) {
	if err := g.backend.PrimeCSRF(ctx); err != nil {
		g.logger.Debug("csrf priming failed before login", "error", err)
	}

	identity, err := g.backend.Login(ctx, username, password)
	if err != nil {
		message := "login failed"
		var apiErr *kanbanapi.APIError
		if errors.As(err, &apiErr) && apiErr.Message() != "" {
			message = apiErr.Message()
		}
		return kanban.Identity{}, &LoginError{Message: message, Err: err}
	}

	g.transition(StateAuthenticated, identity)
	return identity, nil
}

// Logout re-primes CSRF, ends the server session, and then clears the
// local identity and cookies regardless of the network outcome. The
// network error, if any, is returned after the local state is cleared.
func (g *Gate) Logout(ctx context.Context) error {
	if err := g.backend.PrimeCSRF(ctx); err != nil {
		g.logger.Debug("csrf priming failed before logout", "error", err)
	}
	err := g.backend.Logout(ctx)
	if err != nil {
		g.logger.Warn("server logout failed, clearing local session anyway", "error", err)
	}

	if clearer, ok := g.backend.(cookieClearer); ok {
		clearer.ClearCookies()
	}
	g.transition(StateAnonymous, kanban.Identity{})

	if err != nil {
		return fmt.Errorf("session: logout: %w", err)
	}
	return nil
}
