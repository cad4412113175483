// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/spf13/pflag"

	"github.com/bureau-foundation/kanban/lib/board"
	"github.com/bureau-foundation/kanban/lib/clock"
	"github.com/bureau-foundation/kanban/lib/config"
	"github.com/bureau-foundation/kanban/lib/kanban"
	"github.com/bureau-foundation/kanban/lib/kanbanapi"
	"github.com/bureau-foundation/kanban/lib/session"
)

// ErrNotLoggedIn is returned by commands that need a session when
// there is none, or when the server no longer accepts it.
var ErrNotLoggedIn = errors.New(`not logged in (run "kanban login <username>" first)`)

// ClientFlags are the flags shared by every command that talks to the
// server. Embed it in a params struct:
//
//	type showParams struct {
//	    cli.ClientFlags
//	    cli.JSONOutput
//	}
type ClientFlags struct {
	ConfigPath string
	Server     string
	Verbose    bool
}

// AddFlags registers --config, --server and --verbose.
func (f *ClientFlags) AddFlags(flagSet *pflag.FlagSet) {
	flagSet.StringVar(&f.ConfigPath, "config", "", "config file (default: $"+config.EnvConfig+" or "+config.DefaultPath()+")")
	flagSet.StringVar(&f.Server, "server", "", "server base URL, overriding the config file")
	flagSet.BoolVarP(&f.Verbose, "verbose", "v", false, "log request detail to stderr")
}

// LogLevel returns debug under --verbose, else info.
func (f *ClientFlags) LogLevel() slog.Level {
	if f.Verbose {
		return slog.LevelDebug
	}
	return slog.LevelInfo
}

// Connection is a configured API client with the saved session loaded.
type Connection struct {
	Config *config.Config
	Client *kanbanapi.Client
	Gate   *session.Gate
	Clock  clock.Clock

	logger *slog.Logger
}

// Connect loads the configuration, builds the API client and loads the
// saved session cookies for the configured server.
func (f *ClientFlags) Connect(logger *slog.Logger) (*Connection, error) {
	cfg, err := config.Load(f.ConfigPath)
	if err != nil {
		return nil, Validation("%w", err)
	}
	if f.Server != "" {
		cfg.Server.BaseURL = f.Server
	}
	if err := cfg.Validate(); err != nil {
		return nil, Validation("invalid configuration: %w", err)
	}
	timeout, err := cfg.RequestTimeout()
	if err != nil {
		return nil, Validation("%w", err)
	}

	client, err := kanbanapi.NewClient(kanbanapi.ClientConfig{
		BaseURL: cfg.Server.BaseURL,
		Timeout: timeout,
		Logger:  logger,
	})
	if err != nil {
		return nil, Validation("%w", err)
	}

	saved, err := LoadSessionFrom(cfg.Session.File)
	if err != nil {
		logger.Warn("ignoring unreadable session file", "path", cfg.Session.File, "error", err)
	}
	switch {
	case saved == nil:
	case saved.BaseURL != client.BaseURL():
		logger.Debug("session file belongs to another server",
			"path", cfg.Session.File, "session_server", saved.BaseURL, "server", client.BaseURL())
	default:
		client.SetCookies(saved.HTTPCookies())
	}

	gate, err := session.NewGate(session.GateConfig{Backend: client, Logger: logger})
	if err != nil {
		return nil, Internal("%w", err)
	}

	return &Connection{
		Config: cfg,
		Client: client,
		Gate:   gate,
		Clock:  clock.Real(),
		logger: logger,
	}, nil
}

// SessionPath returns the session file location.
func (c *Connection) SessionPath() string { return c.Config.Session.File }

// Authenticate checks the saved session with the server and returns
// the identity. Without a valid session it returns a forbidden
// [ErrNotLoggedIn].
func (c *Connection) Authenticate(ctx context.Context) (kanban.Identity, error) {
	state, err := c.Gate.Check(ctx)
	if err != nil {
		return kanban.Identity{}, FromAPIError(err, "checking session")
	}
	if state != session.StateAuthenticated {
		return kanban.Identity{}, &ToolError{Category: CategoryForbidden, Err: ErrNotLoggedIn}
	}
	identity, _ := c.Gate.CurrentIdentity()
	c.logger.Debug("authenticated", "user_id", identity.ID, "username", identity.Username)
	return identity, nil
}

// SaveSession persists the client's current cookies.
func (c *Connection) SaveSession(username string) error {
	saved := NewSessionFile(c.Client.BaseURL(), username, c.Client.Cookies())
	if err := SaveSessionTo(saved, c.SessionPath()); err != nil {
		return Internal("%w", err)
	}
	return nil
}

// ForgetSession removes the session file.
func (c *Connection) ForgetSession() error {
	if err := RemoveSession(c.SessionPath()); err != nil {
		return Internal("%w", err)
	}
	return nil
}

// BoardConfig returns the board settings from the configuration.
func (c *Connection) BoardConfig(projectID, me int64) board.BoardConfig {
	return board.BoardConfig{
		API:                     c.Client,
		Clock:                   c.Clock,
		ProjectID:               projectID,
		Me:                      me,
		ClearCompletionOnReopen: c.Config.Board.ClearCompletionOnReopen,
		Deadlines:               c.Config.DeadlineThresholds(),
		Logger:                  c.logger,
	}
}

// OpenBoard creates and loads the board of one project.
func (c *Connection) OpenBoard(ctx context.Context, projectID, me int64) (*board.Board, error) {
	projectBoard, err := board.NewBoard(c.BoardConfig(projectID, me))
	if err != nil {
		return nil, Internal("%w", err)
	}
	if err := projectBoard.Load(ctx); err != nil {
		return nil, FromAPIError(err, fmt.Sprintf("loading project %d", projectID))
	}
	return projectBoard, nil
}

// Open connects and authenticates: the first step of every command
// that needs a session.
func (f *ClientFlags) Open(ctx context.Context, logger *slog.Logger) (*Connection, kanban.Identity, error) {
	connection, err := f.Connect(logger)
	if err != nil {
		return nil, kanban.Identity{}, err
	}
	identity, err := connection.Authenticate(ctx)
	if err != nil {
		return nil, kanban.Identity{}, err
	}
	return connection, identity, nil
}

// ResolveProject lists the projects and resolves ref with
// [ResolveProject].
func (c *Connection) ResolveProject(ctx context.Context, ref string) (kanban.Project, error) {
	projects, err := c.Client.ListProjects(ctx)
	if err != nil {
		return kanban.Project{}, FromAPIError(err, "listing projects")
	}
	return ResolveProject(ref, projects)
}

// ResolveUser lists users (scoped to projectID when non-zero) and
// resolves ref with [ResolveUser].
func (c *Connection) ResolveUser(ctx context.Context, ref string, projectID int64) (kanban.User, error) {
	users, err := c.Client.ListUsers(ctx, projectID)
	if err != nil {
		return kanban.User{}, FromAPIError(err, "listing users")
	}
	return ResolveUser(ref, users)
}

// OpenTaskBoard fetches a task, then creates and loads the board of
// the task's project. The returned task is the board's copy.
func (c *Connection) OpenTaskBoard(ctx context.Context, taskID, me int64) (*board.Board, kanban.Task, error) {
	fetched, err := c.Client.GetTask(ctx, taskID)
	if err != nil {
		return nil, kanban.Task{}, FromAPIError(err, fmt.Sprintf("fetching task %d", taskID))
	}
	projectID := fetched.ProjectKey()
	if projectID == 0 {
		return nil, kanban.Task{}, Internal("task %d has no project", taskID)
	}
	projectBoard, err := c.OpenBoard(ctx, projectID, me)
	if err != nil {
		return nil, kanban.Task{}, err
	}
	task, ok := projectBoard.Task(taskID)
	if !ok {
		return nil, kanban.Task{}, NotFound("task %d is no longer on project %d", taskID, projectID)
	}
	return projectBoard, task, nil
}
