// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/bureau-foundation/kanban/lib/kanban"
	"github.com/bureau-foundation/kanban/lib/netutil"
	"github.com/bureau-foundation/kanban/lib/session"
)

type loginParams struct {
	ClientFlags
	PasswordFile string `json:"-" flag:"password-file" desc:"file containing the password, or - for stdin (default: prompt)"`
}

// LoginCommand returns the "login" command. It logs in with a username
// and password and saves the session cookies so later commands run as
// that user.
func LoginCommand() *Command {
	var params loginParams

	return &Command{
		Name:    "login",
		Summary: "Log in and save the session",
		Description: `Log in to the kanban server and save the session locally.

The session cookies are stored in the session file (session.file in the
config, $KANBAN_SESSION_FILE, or ~/.config/kanban/session.json) with
mode 0600. Later commands load them automatically.

The password is prompted for on the terminal unless --password-file
names a file to read it from ("-" reads stdin).`,
		Usage: "kanban login <username> [flags]",
		Examples: []Example{
			{
				Description: "Log in interactively",
				Command:     "kanban login ada",
			},
			{
				Description: "Log in from a script",
				Command:     "printf '%s' \"$PASSWORD\" | kanban login ada --password-file -",
			},
		},
		Params: func() any { return &params },
		Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
			if len(args) < 1 {
				return Validation("username is required\n\nUsage: kanban login <username> [flags]")
			}
			if len(args) > 1 {
				return Validation("unexpected argument: %s", args[1])
			}
			username := args[0]

			connection, err := params.Connect(logger)
			if err != nil {
				return err
			}

			password, err := readLoginPassword(params.PasswordFile)
			if err != nil {
				return err
			}
			defer password.Close()

			identity, err := connection.Gate.Login(ctx, username, password)
			if err != nil {
				var loginErr *session.LoginError
				if errors.As(err, &loginErr) && netutil.IsTransient(loginErr.Err) {
					return Transient("login: %w", loginErr.Err)
				}
				return &ToolError{Category: CategoryForbidden, Err: err}
			}

			if err := connection.SaveSession(identity.Username); err != nil {
				return err
			}
			logger.Debug("session saved", "path", connection.SessionPath())

			fmt.Fprintf(os.Stderr, "Logged in as %s (%s)\n", identity.Name(), identity.RoleLabel())
			fmt.Fprintf(os.Stderr, "Session saved to %s\n", connection.SessionPath())
			return nil
		},
	}
}

type logoutParams struct {
	ClientFlags
}

// LogoutCommand returns the "logout" command. The local session file is
// removed even when the server cannot be reached.
func LogoutCommand() *Command {
	var params logoutParams

	return &Command{
		Name:    "logout",
		Summary: "End the session and forget it",
		Usage:   "kanban logout [flags]",
		Params:  func() any { return &params },
		Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
			if len(args) > 0 {
				return Validation("unexpected argument: %s", args[0])
			}
			connection, err := params.Connect(logger)
			if err != nil {
				return err
			}

			logoutErr := connection.Gate.Logout(ctx)
			if err := connection.ForgetSession(); err != nil {
				return err
			}
			if logoutErr != nil {
				return FromAPIError(logoutErr, "local session removed, but the server logout failed")
			}
			fmt.Fprintln(os.Stderr, "Logged out")
			return nil
		},
	}
}

type whoAmIParams struct {
	ClientFlags
	JSONOutput
}

// WhoAmIResult is the --json output of "kanban whoami".
type WhoAmIResult struct {
	Server   string           `json:"server"`
	LoggedIn bool             `json:"logged_in"`
	Identity *kanban.Identity `json:"identity,omitempty"`
}

// WhoAmICommand returns the "whoami" command. It exits 1 when not
// logged in.
func WhoAmICommand() *Command {
	var params whoAmIParams

	return &Command{
		Name:    "whoami",
		Summary: "Show the logged-in user",
		Usage:   "kanban whoami [flags]",
		Params:  func() any { return &params },
		Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
			if len(args) > 0 {
				return Validation("unexpected argument: %s", args[0])
			}
			connection, err := params.Connect(logger)
			if err != nil {
				return err
			}

			result := WhoAmIResult{Server: connection.Client.BaseURL()}
			identity, err := connection.Authenticate(ctx)
			switch {
			case errors.Is(err, ErrNotLoggedIn):
			case err != nil:
				return err
			default:
				result.LoggedIn = true
				result.Identity = &identity
			}

			if done, err := params.EmitJSON(result); done {
				if err == nil && !result.LoggedIn {
					return &ExitError{Code: 1}
				}
				return err
			}

			if !result.LoggedIn {
				fmt.Fprintf(os.Stderr, "Not logged in to %s\n", result.Server)
				return &ExitError{Code: 1}
			}
			out := Stdout()
			fmt.Fprintf(out, "%s (%s)\n", identity.Name(), identity.RoleLabel())
			fmt.Fprintf(out, "  username: %s\n", identity.Username)
			fmt.Fprintf(out, "  user id:  %d\n", identity.ID)
			fmt.Fprintf(out, "  server:   %s\n", result.Server)
			return nil
		},
	}
}
