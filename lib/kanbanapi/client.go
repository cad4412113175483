// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package kanbanapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/bureau-foundation/kanban/lib/netutil"
	"github.com/bureau-foundation/kanban/lib/version"
)

const (
	// CSRFCookieName is the cookie the server sets from GET /api/csrf/.
	CSRFCookieName = "csrftoken"
	// CSRFHeader carries the cookie value on mutating requests.
	CSRFHeader = "X-CSRFToken"
	// SessionCookieName is the server's session cookie.
	SessionCookieName = "sessionid"

	// RequestIDHeader carries a fresh UUID per request attempt so
	// client and server logs can be correlated.
	RequestIDHeader = "X-Request-ID"
)

// ClientConfig holds configuration for creating a Client.
type ClientConfig struct {
	// BaseURL is the server origin (e.g., "http://localhost:8000").
	// API paths are appended to it.
	BaseURL string
	// HTTPClient is used for all requests. If nil, a client with
	// Timeout is created. Its Jar is replaced by the client's own jar.
	HTTPClient *http.Client
	// Jar stores the session and CSRF cookies. If nil, an empty
	// in-memory jar is created.
	Jar http.CookieJar
	// Timeout bounds each request when HTTPClient is nil. Zero means
	// no client-side timeout beyond the context.
	Timeout time.Duration
	// Logger is used for structured logging. If nil, slog.Default() is used.
	Logger *slog.Logger
}

// Client talks to the kanban REST API on behalf of one cookie
// session. It is safe for concurrent use.
type Client struct {
	baseURL    string
	origin     *url.URL
	httpClient *http.Client
	jar        *sessionJar
	logger     *slog.Logger
}

// NewClient creates a client for the server at config.BaseURL.
func NewClient(config ClientConfig) (*Client, error) {
	if config.BaseURL == "" {
		return nil, fmt.Errorf("kanbanapi: BaseURL is required")
	}
	origin, err := url.Parse(config.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("kanbanapi: invalid BaseURL %q: %w", config.BaseURL, err)
	}
	if origin.Scheme != "http" && origin.Scheme != "https" {
		return nil, fmt.Errorf("kanbanapi: BaseURL %q must use http or https", config.BaseURL)
	}
	if origin.Host == "" {
		return nil, fmt.Errorf("kanbanapi: BaseURL %q has no host", config.BaseURL)
	}

	jar, err := newSessionJar(config.Jar)
	if err != nil {
		return nil, err
	}

	var httpClient *http.Client
	if config.HTTPClient != nil {
		copied := *config.HTTPClient
		httpClient = &copied
	} else {
		httpClient = &http.Client{Timeout: config.Timeout}
	}
	httpClient.Jar = jar

	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Client{
		baseURL:    strings.TrimRight(config.BaseURL, "/"),
		origin:     origin,
		httpClient: httpClient,
		jar:        jar,
		logger:     logger,
	}, nil
}

// BaseURL returns the server origin without a trailing slash.
func (c *Client) BaseURL() string { return c.baseURL }

// Cookies returns the cookies the jar would send to the server. The
// CLI persists these between invocations.
func (c *Client) Cookies() []*http.Cookie {
	return c.jar.Cookies(c.origin)
}

// SetCookies loads previously persisted cookies into the jar.
func (c *Client) SetCookies(cookies []*http.Cookie) {
	c.jar.SetCookies(c.origin, cookies)
}

// ClearCookies drops every cookie the client holds, whatever path the
// server scoped it to. A jar passed in ClientConfig is replaced by an
// empty one.
func (c *Client) ClearCookies() {
	if err := c.jar.Reset(); err != nil {
		c.logger.Warn("clearing cookies failed", "error", err)
	}
}

// CSRFToken returns the current anti-forgery token from the jar, or
// "" when the cookie has not been primed.
func (c *Client) CSRFToken() string {
	for _, cookie := range c.jar.Cookies(c.origin) {
		if cookie.Name == CSRFCookieName {
			return cookie.Value
		}
	}
	return ""
}

// SignRequest adds the headers the server expects on a request issued
// outside this client: the CSRF token for mutating methods and the
// AJAX marker. Cookies come from the jar of whichever http.Client
// sends the request.
func (c *Client) SignRequest(request *http.Request) {
	request.Header.Set("X-Requested-With", "XMLHttpRequest")
	if !isMutating(request.Method) {
		return
	}
	if token := c.CSRFToken(); token != "" {
		request.Header.Set(CSRFHeader, token)
	}
	// Django checks Referer on HTTPS mutating requests.
	if c.origin.Scheme == "https" && request.Header.Get("Referer") == "" {
		request.Header.Set("Referer", c.baseURL+"/")
	}
}

// PrimeCSRF fetches the anti-forgery cookie (GET /api/csrf/).
func (c *Client) PrimeCSRF(ctx context.Context) error {
	if _, err := c.send(ctx, http.MethodGet, "/api/csrf/", nil); err != nil {
		return fmt.Errorf("kanbanapi: priming csrf token: %w", err)
	}
	return nil
}

func isMutating(method string) bool {
	switch method {
	case http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
		return true
	}
	return false
}

// requestBody is a fully buffered body. Buffering lets a CSRF retry
// resend identical bytes.
type requestBody struct {
	contentType string
	data        []byte
}

func jsonBody(value any) (*requestBody, error) {
	encoded, err := json.Marshal(value)
	if err != nil {
		return nil, fmt.Errorf("kanbanapi: encoding request body: %w", err)
	}
	return &requestBody{contentType: "application/json", data: encoded}, nil
}

// doJSON performs a request with an optional JSON body and decodes a
// JSON response into result (skipped when result is nil).
func (c *Client) doJSON(ctx context.Context, method, path string, query url.Values, payload, result any) error {
	var body *requestBody
	if payload != nil {
		var err error
		body, err = jsonBody(payload)
		if err != nil {
			return err
		}
	}
	responseBody, err := c.doRequest(ctx, method, path, query, body)
	if err != nil {
		return err
	}
	if result == nil {
		return nil
	}
	if err := decodeOptional(responseBody, result); err != nil {
		return fmt.Errorf("kanbanapi: decoding %s %s response: %w", method, path, err)
	}
	return nil
}

// decodeOptional unmarshals data into result unless data is empty,
// leaving result at its zero value for 204-style responses.
func decodeOptional(data []byte, result any) error {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	return json.Unmarshal(data, result)
}

// doRequest sends a request and, when a mutating request is rejected
// for CSRF, re-primes the token and sends it exactly once more.
func (c *Client) doRequest(ctx context.Context, method, path string, query url.Values, body *requestBody) ([]byte, error) {
	requestPath := path
	if len(query) > 0 {
		requestPath += "?" + query.Encode()
	}

	responseBody, err := c.send(ctx, method, requestPath, body)
	if err == nil || !isMutating(method) || !IsCSRFFailure(err) {
		return responseBody, err
	}

	c.logger.Info("csrf token rejected, re-priming and retrying",
		"method", method,
		"path", path,
	)
	if primeErr := c.PrimeCSRF(ctx); primeErr != nil {
		return nil, errors.Join(err, primeErr)
	}
	return c.send(ctx, method, requestPath, body)
}

// send performs a single HTTP exchange. Non-2xx responses become
// *APIError.
func (c *Client) send(ctx context.Context, method, path string, body *requestBody) ([]byte, error) {
	var bodyReader io.Reader
	if body != nil {
		bodyReader = bytes.NewReader(body.data)
	}

	request, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("kanbanapi: creating request: %w", err)
	}
	requestID := uuid.NewString()
	request.Header.Set("Accept", "application/json")
	request.Header.Set(RequestIDHeader, requestID)
	request.Header.Set("User-Agent", version.UserAgent())
	if body != nil && body.contentType != "" {
		request.Header.Set("Content-Type", body.contentType)
	}
	c.SignRequest(request)

	start := time.Now()
	response, err := c.httpClient.Do(request)
	if err != nil {
		return nil, fmt.Errorf("kanbanapi: request to %s %s failed: %w", method, path, err)
	}
	defer response.Body.Close()

	responseBody, err := netutil.ReadResponse(response.Body)
	if err != nil {
		return nil, fmt.Errorf("kanbanapi: reading %s %s response: %w", method, path, err)
	}

	c.logger.Debug("kanban api request",
		"method", method,
		"path", path,
		"status", response.StatusCode,
		"request_id", requestID,
		"duration", time.Since(start),
	)

	if response.StatusCode >= 200 && response.StatusCode < 300 {
		return responseBody, nil
	}
	return nil, newAPIError(method, stripQuery(path), response.StatusCode, responseBody)
}

func stripQuery(path string) string {
	if index := strings.IndexByte(path, '?'); index >= 0 {
		return path[:index]
	}
	return path
}

// decodeList decodes either a bare JSON array or a paginated envelope
// with a "results" array.
func decodeList[T any](data []byte, method, path string) ([]T, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return []T{}, nil
	}
	if trimmed[0] == '{' {
		var envelope struct {
			Results []T `json:"results"`
		}
		if err := json.Unmarshal(trimmed, &envelope); err != nil {
			return nil, fmt.Errorf("kanbanapi: decoding %s %s response: %w", method, path, err)
		}
		if envelope.Results == nil {
			return []T{}, nil
		}
		return envelope.Results, nil
	}
	var items []T
	if err := json.Unmarshal(trimmed, &items); err != nil {
		return nil, fmt.Errorf("kanbanapi: decoding %s %s response: %w", method, path, err)
	}
	if items == nil {
		items = []T{}
	}
	return items, nil
}

// getList performs a GET and decodes a list response.
func getList[T any](ctx context.Context, c *Client, path string, query url.Values) ([]T, error) {
	data, err := c.doRequest(ctx, http.MethodGet, path, query, nil)
	if err != nil {
		return nil, err
	}
	return decodeList[T](data, http.MethodGet, path)
}
