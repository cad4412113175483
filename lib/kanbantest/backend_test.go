// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package kanbantest

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strconv"
	"strings"
	"testing"
	"time"
)

func newJarClient(t *testing.T) *http.Client {
	t.Helper()
	jar, err := cookiejar.New(nil)
	if err != nil {
		t.Fatalf("cookiejar.New: %v", err)
	}
	return &http.Client{Jar: jar}
}

func csrfToken(t *testing.T, client *http.Client, base string) string {
	t.Helper()
	origin, _ := url.Parse(base)
	for _, cookie := range client.Jar.Cookies(origin) {
		if cookie.Name == csrfCookie {
			return cookie.Value
		}
	}
	return ""
}

func do(t *testing.T, client *http.Client, method, target, token, body string) (int, string) {
	t.Helper()
	request, err := http.NewRequest(method, target, strings.NewReader(body))
	if err != nil {
		t.Fatalf("NewRequest: %v", err)
	}
	if body != "" {
		request.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		request.Header.Set(csrfHeader, token)
	}
	response, err := client.Do(request)
	if err != nil {
		t.Fatalf("%s %s: %v", method, target, err)
	}
	defer response.Body.Close()
	data, _ := io.ReadAll(response.Body)
	return response.StatusCode, string(data)
}

func TestCSRFAndSession(t *testing.T) {
	server := NewServer(BackendConfig{})
	defer server.Close()
	server.AddUser(UserSpec{Username: "ada", Password: "pw", DisplayName: "Ada"})
	client := newJarClient(t)

	status, body := do(t, client, http.MethodPost, server.URL+"/api/login/", "", `{"username":"ada","password":"pw"}`)
	if status != http.StatusForbidden || !strings.Contains(body, "CSRF cookie not set") {
		t.Fatalf("login without csrf cookie = %d %s, want 403 CSRF", status, body)
	}

	if status, _ := do(t, client, http.MethodGet, server.URL+"/api/csrf/", "", ""); status != http.StatusOK {
		t.Fatalf("csrf priming status = %d", status)
	}
	token := csrfToken(t, client, server.URL)
	if token == "" {
		t.Fatal("csrf cookie not set after priming")
	}

	if status, body := do(t, client, http.MethodPost, server.URL+"/api/login/", "", `{"username":"ada","password":"pw"}`); status != http.StatusForbidden || !strings.Contains(body, "CSRF token missing") {
		t.Fatalf("login without header = %d %s", status, body)
	}

	if status, body := do(t, client, http.MethodPost, server.URL+"/api/login/", token, `{"username":"ada","password":"nope"}`); status != http.StatusBadRequest || !strings.Contains(body, "Invalid username or password") {
		t.Fatalf("bad password = %d %s", status, body)
	}

	status, body = do(t, client, http.MethodPost, server.URL+"/api/login/", token, `{"username":"ada","password":"pw"}`)
	if status != http.StatusOK {
		t.Fatalf("login = %d %s", status, body)
	}
	if rotated := csrfToken(t, client, server.URL); rotated == token {
		t.Error("login should rotate the csrf token")
	}

	status, body = do(t, client, http.MethodGet, server.URL+"/api/me/", "", "")
	if status != http.StatusOK {
		t.Fatalf("me = %d %s", status, body)
	}
	var identity struct {
		Username string `json:"username"`
	}
	if err := json.Unmarshal([]byte(body), &identity); err != nil || identity.Username != "ada" {
		t.Fatalf("me body = %s (%v)", body, err)
	}

	if status, _ := do(t, client, http.MethodPost, server.URL+"/api/logout/", csrfToken(t, client, server.URL), ""); status != http.StatusNoContent {
		t.Fatalf("logout = %d", status)
	}
	if status, _ := do(t, client, http.MethodGet, server.URL+"/api/me/", "", ""); status != http.StatusUnauthorized {
		t.Fatalf("me after logout = %d, want 401", status)
	}
	if status, _ := do(t, client, http.MethodGet, server.URL+"/api/projects/", "", ""); status != http.StatusUnauthorized {
		t.Fatalf("projects after logout = %d, want 401", status)
	}
}

func TestFailureInjectionAndCounts(t *testing.T) {
	server := NewServer(BackendConfig{})
	defer server.Close()
	client := newJarClient(t)

	server.FailNext(http.MethodGet, "/api/csrf/", http.StatusBadGateway, "upstream down")
	if status, body := do(t, client, http.MethodGet, server.URL+"/api/csrf/", "", ""); status != http.StatusBadGateway || body != "upstream down" {
		t.Fatalf("injected failure = %d %q", status, body)
	}
	if status, _ := do(t, client, http.MethodGet, server.URL+"/api/csrf/", "", ""); status != http.StatusOK {
		t.Fatalf("failure should be one-shot, got %d", status)
	}
	if got := server.Count(http.MethodGet, "/api/csrf/"); got != 2 {
		t.Errorf("Count = %d, want 2", got)
	}

	server.RejectCSRF(1)
	token := csrfToken(t, client, server.URL)
	if status, _ := do(t, client, http.MethodPost, server.URL+"/api/logout/", token, ""); status != http.StatusForbidden {
		t.Fatalf("forced csrf rejection = %d, want 403", status)
	}
	if status, _ := do(t, client, http.MethodPost, server.URL+"/api/logout/", token, ""); status != http.StatusNoContent {
		t.Fatalf("after forced rejection = %d, want 204", status)
	}
	if got := server.CountMutations(); got != 2 {
		t.Errorf("CountMutations = %d, want 2", got)
	}
}

func TestSeedDemo(t *testing.T) {
	backend := NewBackend(BackendConfig{})
	backend.SeedDemo(time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC))

	tasks := backend.Tasks()
	if len(tasks) != 8 {
		t.Fatalf("seeded %d tasks, want 8", len(tasks))
	}
	for _, task := range tasks {
		if task.Project == nil || task.Project.ID == 0 {
			t.Errorf("task %q has no project", task.Title)
		}
	}
}

func TestTaskWriteShapes(t *testing.T) {
	for _, test := range []struct {
		name   string
		config BackendConfig
		keys   []string
		absent []string
	}{
		{"full", BackendConfig{}, []string{"id", "title", "images", "project", "completed_at"}, nil},
		{"reduced", BackendConfig{ReducedTaskWrites: true}, []string{"id", "title", "responsible"}, []string{"images", "project", "completed_at", "done_color"}},
		{"empty", BackendConfig{EmptyTaskUpdates: true}, nil, nil},
	} {
		t.Run(test.name, func(t *testing.T) {
			server := NewServer(test.config)
			defer server.Close()
			user := server.AddUser(UserSpec{Username: "ada", Password: "pw"})
			project := server.AddProject(ProjectSpec{Title: "Compiler", Participants: []int64{user.ID}})
			task := server.AddTask(TaskSpec{ProjectID: project.ID, Title: "Lexer"})
			server.AddImage(task.ID, 0, "a.png", []byte("\x89PNG\r\n\x1a\n"))

			client := newJarClient(t)
			do(t, client, http.MethodGet, server.URL+"/api/csrf/", "", "")
			if status, body := do(t, client, http.MethodPost, server.URL+"/api/login/", csrfToken(t, client, server.URL), `{"username":"ada","password":"pw"}`); status != http.StatusOK {
				t.Fatalf("login = %d %s", status, body)
			}

			target := server.URL + "/api/tasks/" + strconv.FormatInt(task.ID, 10) + "/"
			status, body := do(t, client, http.MethodPatch, target, csrfToken(t, client, server.URL), `{"title":"Scanner"}`)
			if status != http.StatusOK {
				t.Fatalf("PATCH = %d %s", status, body)
			}
			if test.config.EmptyTaskUpdates {
				if body != "" {
					t.Errorf("PATCH body = %q, want empty", body)
				}
			} else {
				var fields map[string]json.RawMessage
				if err := json.Unmarshal([]byte(body), &fields); err != nil {
					t.Fatalf("PATCH body %s: %v", body, err)
				}
				for _, key := range test.keys {
					if _, ok := fields[key]; !ok {
						t.Errorf("PATCH body lacks %q: %s", key, body)
					}
				}
				for _, key := range test.absent {
					if _, ok := fields[key]; ok {
						t.Errorf("PATCH body has %q: %s", key, body)
					}
				}
			}

			stored, _ := server.Task(task.ID)
			if stored.Title != "Scanner" || len(stored.Images) != 1 {
				t.Errorf("stored task = %q with %d images", stored.Title, len(stored.Images))
			}
		})
	}
}
