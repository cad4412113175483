// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"

	"github.com/bureau-foundation/kanban/lib/kanban"
)

// Environment variables consulted by Load.
const (
	EnvConfig      = "KANBAN_CONFIG"
	EnvProfile     = "KANBAN_PROFILE"
	EnvBaseURL     = "KANBAN_BASE_URL"
	EnvTimeout     = "KANBAN_TIMEOUT"
	EnvSessionFile = "KANBAN_SESSION_FILE"
)

// Config is the complete client configuration.
type Config struct {
	// Server is the kanban API endpoint.
	Server ServerConfig `yaml:"server" json:"server"`

	// Session configures where the CLI keeps its session cookies.
	Session SessionConfig `yaml:"session" json:"session"`

	// Board tunes board behavior shared by the CLI and terminal UI.
	Board BoardConfig `yaml:"board" json:"board"`

	// UI configures the terminal board.
	UI UIConfig `yaml:"ui" json:"ui"`

	// Profile selects an entry of Profiles to overlay.
	Profile string `yaml:"profile,omitempty" json:"profile,omitempty"`

	// Profiles are named server/session overlays, e.g. "staging".
	Profiles map[string]ProfileOverrides `yaml:"profiles,omitempty" json:"profiles,omitempty"`
}

// ServerConfig configures the API endpoint.
type ServerConfig struct {
	// BaseURL is the server origin.
	// Default: http://localhost:8000
	BaseURL string `yaml:"base_url" json:"base_url"`

	// Timeout bounds each HTTP request, as a Go duration string.
	// Default: 30s. "0" disables the client-side timeout.
	Timeout string `yaml:"timeout" json:"timeout"`
}

// SessionConfig configures session persistence.
type SessionConfig struct {
	// File holds the session cookies between CLI invocations.
	// Default: $XDG_CONFIG_HOME/kanban/session.json
	File string `yaml:"file" json:"file"`
}

// BoardConfig tunes board behavior.
type BoardConfig struct {
	// ClearCompletionOnReopen clears completed_at and done_color when a
	// task moves out of the done column.
	// Default: true
	ClearCompletionOnReopen bool `yaml:"clear_completion_on_reopen" json:"clear_completion_on_reopen"`

	// DeadlineWarnDays is the minimum days left for a calm deadline.
	// Default: 5
	DeadlineWarnDays int `yaml:"deadline_warn_days" json:"deadline_warn_days"`

	// DeadlineAlertDays is the minimum days left for a warning; fewer
	// days is an alert.
	// Default: 3
	DeadlineAlertDays int `yaml:"deadline_alert_days" json:"deadline_alert_days"`
}

// UIConfig configures the terminal board.
type UIConfig struct {
	// Mouse enables mouse support (click to select, wheel to scroll).
	// Default: true
	Mouse bool `yaml:"mouse" json:"mouse"`
}

// ProfileOverrides contains the fields a profile may override. Empty
// values leave the base configuration unchanged.
type ProfileOverrides struct {
	Server  *ServerConfig  `yaml:"server,omitempty" json:"server,omitempty"`
	Session *SessionConfig `yaml:"session,omitempty" json:"session,omitempty"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			BaseURL: "http://localhost:8000",
			Timeout: "30s",
		},
		Session: SessionConfig{
			File: filepath.Join(userConfigDir(), "kanban", "session.json"),
		},
		Board: BoardConfig{
			ClearCompletionOnReopen: true,
			DeadlineWarnDays:        kanban.DefaultDeadlineThresholds.Warn,
			DeadlineAlertDays:       kanban.DefaultDeadlineThresholds.Alert,
		},
		UI: UIConfig{
			Mouse: true,
		},
	}
}

func userConfigDir() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return dir
	}
	homeDir, _ := os.UserHomeDir()
	return filepath.Join(homeDir, ".config")
}

// DefaultPath returns the config file consulted when neither --config
// nor KANBAN_CONFIG is set.
func DefaultPath() string {
	return filepath.Join(userConfigDir(), "kanban", "config.yaml")
}

// Load resolves and loads the configuration. path is the --config flag
// value and may be empty. A missing default file is not an error; a
// missing explicit file is.
func Load(path string) (*Config, error) {
	if err := LoadDotEnv(".env"); err != nil {
		return nil, err
	}

	if path == "" {
		path = os.Getenv(EnvConfig)
	}
	if path == "" {
		if _, err := os.Stat(DefaultPath()); err == nil {
			path = DefaultPath()
		}
	}

	cfg := Default()
	if path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}
	if err := cfg.finish(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFile loads configuration from a specific file, then applies the
// profile, environment overrides and variable expansion.
func LoadFile(path string) (*Config, error) {
	cfg := Default()
	if err := cfg.loadFile(path); err != nil {
		return nil, err
	}
	if err := cfg.finish(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadDotEnv loads KEY=value pairs from path into the process
// environment without overriding variables that are already set. A
// missing file is not an error.
func LoadDotEnv(path string) error {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("config: loading %s: %w", path, err)
	}
	return nil
}

// loadFile merges a config file into c.
func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".jsonc":
		if err := json.Unmarshal(jsonc.ToJSON(data), c); err != nil {
			return fmt.Errorf("config: parsing %s: %w", path, err)
		}
	default:
		if err := yaml.Unmarshal(data, c); err != nil {
			return fmt.Errorf("config: parsing %s: %w", path, err)
		}
	}
	return nil
}

func (c *Config) finish() error {
	if err := c.applyProfile(); err != nil {
		return err
	}
	c.applyEnvironment()
	c.expandVariables()
	return nil
}

// applyProfile overlays the selected profile. KANBAN_PROFILE wins over
// the file's "profile" key.
func (c *Config) applyProfile() error {
	name := c.Profile
	if env := os.Getenv(EnvProfile); env != "" {
		name = env
	}
	if name == "" {
		return nil
	}
	overrides, ok := c.Profiles[name]
	if !ok {
		return fmt.Errorf("config: unknown profile %q", name)
	}
	c.Profile = name

	if overrides.Server != nil {
		if overrides.Server.BaseURL != "" {
			c.Server.BaseURL = overrides.Server.BaseURL
		}
		if overrides.Server.Timeout != "" {
			c.Server.Timeout = overrides.Server.Timeout
		}
	}
	if overrides.Session != nil && overrides.Session.File != "" {
		c.Session.File = overrides.Session.File
	}
	return nil
}

func (c *Config) applyEnvironment() {
	if value := os.Getenv(EnvBaseURL); value != "" {
		c.Server.BaseURL = value
	}
	if value := os.Getenv(EnvTimeout); value != "" {
		c.Server.Timeout = value
	}
	if value := os.Getenv(EnvSessionFile); value != "" {
		c.Session.File = value
	}
}

func (c *Config) expandVariables() {
	vars := map[string]string{
		"HOME":            os.Getenv("HOME"),
		"XDG_CONFIG_HOME": userConfigDir(),
	}
	c.Session.File = expandVars(c.Session.File, vars)
}

// varPattern matches ${VAR} and ${VAR:-default}.
var varPattern = regexp.MustCompile(`\$\{([^}:]+)(?::-([^}]*))?\}`)

func expandVars(s string, vars map[string]string) string {
	return varPattern.ReplaceAllStringFunc(s, func(match string) string {
		parts := varPattern.FindStringSubmatch(match)
		name, defaultValue := parts[1], parts[2]
		if value := os.Getenv(name); value != "" {
			return value
		}
		if value, ok := vars[name]; ok && value != "" {
			return value
		}
		return defaultValue
	})
}

// Validate checks the configuration and reports every problem found.
func (c *Config) Validate() error {
	var errs []error

	if c.Server.BaseURL == "" {
		errs = append(errs, fmt.Errorf("server.base_url is required"))
	} else if parsed, err := url.Parse(c.Server.BaseURL); err != nil {
		errs = append(errs, fmt.Errorf("server.base_url: %w", err))
	} else if (parsed.Scheme != "http" && parsed.Scheme != "https") || parsed.Host == "" {
		errs = append(errs, fmt.Errorf("server.base_url must be an http(s) URL with a host, got %q", c.Server.BaseURL))
	}

	if _, err := c.RequestTimeout(); err != nil {
		errs = append(errs, err)
	}

	if c.Session.File == "" {
		errs = append(errs, fmt.Errorf("session.file is required"))
	}

	if c.Board.DeadlineAlertDays < 0 {
		errs = append(errs, fmt.Errorf("board.deadline_alert_days must not be negative"))
	}
	if c.Board.DeadlineWarnDays < c.Board.DeadlineAlertDays {
		errs = append(errs, fmt.Errorf("board.deadline_warn_days (%d) must be at least board.deadline_alert_days (%d)",
			c.Board.DeadlineWarnDays, c.Board.DeadlineAlertDays))
	}

	return errors.Join(errs...)
}

// RequestTimeout parses Server.Timeout. An empty value means no
// client-side timeout.
func (c *Config) RequestTimeout() (time.Duration, error) {
	if c.Server.Timeout == "" || c.Server.Timeout == "0" {
		return 0, nil
	}
	timeout, err := time.ParseDuration(c.Server.Timeout)
	if err != nil {
		return 0, fmt.Errorf("server.timeout: %w", err)
	}
	if timeout < 0 {
		return 0, fmt.Errorf("server.timeout must not be negative, got %s", c.Server.Timeout)
	}
	return timeout, nil
}

// DeadlineThresholds returns the board's deadline tone thresholds.
func (c *Config) DeadlineThresholds() kanban.DeadlineThresholds {
	return kanban.DeadlineThresholds{
		Warn:  c.Board.DeadlineWarnDays,
		Alert: c.Board.DeadlineAlertDays,
	}
}
