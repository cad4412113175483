// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package kanbantest

import (
	"log/slog"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"

	"github.com/bureau-foundation/kanban/lib/kanban"
)

const (
	csrfCookie    = "csrftoken"
	csrfHeader    = "X-CSRFToken"
	sessionCookie = "sessionid"
)

// BackendConfig configures a Backend.
type BackendConfig struct {
	// Logger receives one debug record per request. If nil,
	// slog.Default() is used.
	Logger *slog.Logger

	// ResponsibleAsID serializes task.responsible as the user id
	// instead of an embedded user object.
	ResponsibleAsID bool

	// IgnoreCompletionFields drops completed_at and done_color from
	// task writes and always returns them as null.
	IgnoreCompletionFields bool

	// ReducedTaskWrites answers task creates and updates with only the
	// scalar fields, leaving out images, the project and the
	// completion fields.
	ReducedTaskWrites bool

	// EmptyTaskUpdates answers task updates with an empty body. It
	// takes precedence over ReducedTaskWrites.
	EmptyTaskUpdates bool
}

// Backend is the in-memory server. All methods are safe for
// concurrent use with request handling.
type Backend struct {
	engine *gin.Engine
	config BackendConfig
	logger *slog.Logger

	mu         sync.Mutex
	nextID     int64
	users      []*userRecord
	sessions   map[string]int64
	csrfTokens map[string]bool
	projects   []*projectRecord
	tasks      []*taskRecord
	images     []*imageRecord

	requests       []Request
	failures       []failure
	csrfRejections int
}

type userRecord struct {
	user     kanban.User
	password string
	role     string
}

type projectRecord struct {
	id           int64
	title        string
	description  string
	dueDate      kanban.Date
	participants []int64
}

type taskRecord struct {
	id          int64
	projectID   int64
	title       string
	description string
	column      kanban.Column
	priority    kanban.Priority
	responsible int64
	dueDate     kanban.Date
	completedAt kanban.Date
	doneColor   kanban.DoneColor
}

type imageRecord struct {
	id          int64
	taskID      int64
	position    int
	filename    string
	contentType string
	data        []byte
}

// Request is one request as the backend received it.
type Request struct {
	Method      string
	Path        string
	Query       string
	ContentType string
	// CSRFToken is the X-CSRFToken header value.
	CSRFToken string
}

type failure struct {
	method string
	path   string
	status int
	body   string
}

// NewBackend creates an empty backend.
func NewBackend(config BackendConfig) *Backend {
	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}

	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.RedirectTrailingSlash = false

	backend := &Backend{
		engine:     engine,
		config:     config,
		logger:     logger,
		sessions:   make(map[string]int64),
		csrfTokens: make(map[string]bool),
	}

	engine.Use(gin.Recovery(), backend.record, backend.injectFailures, backend.checkCSRF)
	backend.registerRoutes()
	return backend
}

// ServeHTTP implements http.Handler.
func (b *Backend) ServeHTTP(writer http.ResponseWriter, request *http.Request) {
	b.engine.ServeHTTP(writer, request)
}

func (b *Backend) registerRoutes() {
	api := b.engine.Group("/api")
	{
		api.GET("/csrf/", b.handleCSRF)
		api.GET("/me/", b.handleMe)
		api.POST("/login/", b.handleLogin)
		api.POST("/logout/", b.handleLogout)

		authed := api.Group("", b.requireSession)
		{
			authed.GET("/projects/", b.handleListProjects)
			authed.POST("/projects/", b.handleCreateProject)
			authed.GET("/projects/:id/", b.handleGetProject)
			authed.PATCH("/projects/:id/", b.handleUpdateProject)
			authed.DELETE("/projects/:id/", b.handleDeleteProject)

			authed.GET("/tasks/", b.handleListTasks)
			authed.POST("/tasks/", b.handleCreateTask)
			authed.GET("/tasks/:id/", b.handleGetTask)
			authed.PATCH("/tasks/:id/", b.handleUpdateTask)
			authed.DELETE("/tasks/:id/", b.handleDeleteTask)

			authed.GET("/users/", b.handleListUsers)

			authed.POST("/task-images/", b.handleUploadImage)
			authed.PATCH("/task-images/:id/", b.handleRepositionImage)
			authed.DELETE("/task-images/:id/", b.handleDeleteImage)
		}
	}
	b.engine.GET("/media/task-images/:id/:name", b.handleMedia)
}

// record logs and remembers every request.
func (b *Backend) record(c *gin.Context) {
	b.mu.Lock()
	b.requests = append(b.requests, Request{
		Method:      c.Request.Method,
		Path:        c.Request.URL.Path,
		Query:       c.Request.URL.RawQuery,
		ContentType: c.GetHeader("Content-Type"),
		CSRFToken:   c.GetHeader(csrfHeader),
	})
	b.mu.Unlock()

	c.Next()

	b.logger.Debug("kanbantest request",
		"method", c.Request.Method,
		"path", c.Request.URL.Path,
		"status", c.Writer.Status(),
	)
}

func (b *Backend) injectFailures(c *gin.Context) {
	b.mu.Lock()
	var injected *failure
	for index, candidate := range b.failures {
		if candidate.method == c.Request.Method && strings.HasPrefix(c.Request.URL.Path, candidate.path) {
			injected = &candidate
			b.failures = append(b.failures[:index], b.failures[index+1:]...)
			break
		}
	}
	b.mu.Unlock()

	if injected == nil {
		c.Next()
		return
	}
	c.Data(injected.status, contentTypeFor(injected.body), []byte(injected.body))
	c.Abort()
}

func contentTypeFor(body string) string {
	trimmed := strings.TrimSpace(body)
	if strings.HasPrefix(trimmed, "{") || strings.HasPrefix(trimmed, "[") {
		return "application/json"
	}
	return "text/html; charset=utf-8"
}

func isMutating(method string) bool {
	switch method {
	case http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
		return true
	}
	return false
}

// checkCSRF enforces the double-submit check on mutating requests.
func (b *Backend) checkCSRF(c *gin.Context) {
	if !isMutating(c.Request.Method) {
		c.Next()
		return
	}

	cookie, _ := c.Cookie(csrfCookie)
	header := c.GetHeader(csrfHeader)

	b.mu.Lock()
	forced := b.csrfRejections > 0
	if forced {
		b.csrfRejections--
	}
	known := b.csrfTokens[cookie]
	b.mu.Unlock()

	var reason string
	switch {
	case forced:
		reason = "CSRF token from the 'X-CSRFToken' HTTP header incorrect."
	case cookie == "" || !known:
		reason = "CSRF cookie not set."
	case header == "":
		reason = "CSRF token missing."
	case header != cookie:
		reason = "CSRF token from the 'X-CSRFToken' HTTP header incorrect."
	}
	if reason != "" {
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"detail": "CSRF Failed: " + reason})
		return
	}
	c.Next()
}

// requireSession rejects requests without a live session cookie.
func (b *Backend) requireSession(c *gin.Context) {
	if _, ok := b.sessionUser(c); !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"detail": "Authentication credentials were not provided."})
		return
	}
	c.Next()
}

func (b *Backend) sessionUser(c *gin.Context) (*userRecord, bool) {
	sessionID, err := c.Cookie(sessionCookie)
	if err != nil || sessionID == "" {
		return nil, false
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	userID, ok := b.sessions[sessionID]
	if !ok {
		return nil, false
	}
	return b.findUser(userID), true
}

// allocateID returns the next identifier. Caller holds b.mu.
func (b *Backend) allocateID() int64 {
	b.nextID++
	return b.nextID
}

// Caller holds b.mu for all find helpers.

func (b *Backend) findUser(id int64) *userRecord {
	for _, record := range b.users {
		if record.user.ID == id {
			return record
		}
	}
	return nil
}

func (b *Backend) findProject(id int64) *projectRecord {
	for _, record := range b.projects {
		if record.id == id {
			return record
		}
	}
	return nil
}

func (b *Backend) findTask(id int64) *taskRecord {
	for _, record := range b.tasks {
		if record.id == id {
			return record
		}
	}
	return nil
}

func (b *Backend) findImage(id int64) *imageRecord {
	for _, record := range b.images {
		if record.id == id {
			return record
		}
	}
	return nil
}

func (b *Backend) imagesOf(taskID int64) []*imageRecord {
	var images []*imageRecord
	for _, record := range b.images {
		if record.taskID == taskID {
			images = append(images, record)
		}
	}
	sort.SliceStable(images, func(i, j int) bool {
		if images[i].position != images[j].position {
			return images[i].position < images[j].position
		}
		return images[i].id < images[j].id
	})
	return images
}

// projectView renders a project. Caller holds b.mu.
func (b *Backend) projectView(record *projectRecord) kanban.Project {
	participants := make([]kanban.User, 0, len(record.participants))
	for _, id := range record.participants {
		if user := b.findUser(id); user != nil {
			participants = append(participants, user.user)
		}
	}
	return kanban.Project{
		ID:           record.id,
		Title:        record.title,
		Description:  record.description,
		DueDate:      record.dueDate,
		Participants: participants,
	}
}

// taskView renders a task. Caller holds b.mu.
func (b *Backend) taskView(record *taskRecord) kanban.Task {
	task := kanban.Task{
		ID:          record.id,
		Title:       record.title,
		Description: record.description,
		Column:      record.column,
		Priority:    record.priority,
		DueDate:     record.dueDate,
		CompletedAt: record.completedAt,
		DoneColor:   record.doneColor,
		Images:      []kanban.TaskImage{},
	}
	if project := b.findProject(record.projectID); project != nil {
		task.Project = &kanban.ProjectRef{ID: project.id, Title: project.title}
	}
	if record.responsible != 0 {
		if b.config.ResponsibleAsID {
			task.Responsible = kanban.ResponsibleByID(record.responsible)
		} else if user := b.findUser(record.responsible); user != nil {
			task.Responsible = kanban.ResponsibleFor(user.user)
		}
	}
	for _, image := range b.imagesOf(record.id) {
		task.Images = append(task.Images, imageView(image))
	}
	return task
}

// writeTask answers a task create or update in the shape the config
// asks for. Caller holds b.mu.
func (b *Backend) writeTask(c *gin.Context, status int, record *taskRecord) {
	switch {
	case b.config.ReducedTaskWrites:
		task := b.taskView(record)
		c.JSON(status, gin.H{
			"id":          task.ID,
			"title":       task.Title,
			"description": task.Description,
			"column":      task.Column,
			"position":    0,
			"priority":    task.Priority,
			"due_date":    task.DueDate,
			"responsible": task.Responsible,
		})
	default:
		c.JSON(status, b.taskView(record))
	}
}

func imageView(record *imageRecord) kanban.TaskImage {
	return kanban.TaskImage{
		ID:       record.id,
		URL:      "/media/task-images/" + strconv.FormatInt(record.id, 10) + "/" + record.filename,
		Position: record.position,
	}
}

func parseID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusNotFound, gin.H{"detail": "Not found."})
		return 0, false
	}
	return id, true
}

func notFound(c *gin.Context) {
	c.JSON(http.StatusNotFound, gin.H{"detail": "Not found."})
}

func fieldError(c *gin.Context, field, message string) {
	c.JSON(http.StatusBadRequest, gin.H{field: []string{message}})
}
