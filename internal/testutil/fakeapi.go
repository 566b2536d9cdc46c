// Package testutil provides testing utilities.
package testutil

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/ondrejk/taskwell/internal/task"
)

// FakeAPI is an in-memory task-scheduler API served over httptest. Error
// injection fields force the matching endpoint to fail.
type FakeAPI struct {
	mu    sync.Mutex
	tasks []task.Task

	server *httptest.Server

	// Tokens handed out by login and refresh.
	Access          string
	Refresh         string
	RefreshedAccess string

	// Error injection.
	FailList    bool
	FailCreate  bool
	FailUpdate  bool
	FailDelete  bool
	FailToggle  bool
	FailLogin   bool
	FailRefresh bool

	// PasswordViolations is returned by the validate-password endpoint.
	PasswordViolations []string

	// Observed requests.
	LastAuthHeader  string
	RequestOTPCalls int
	RefreshCalls    int
}

// NewFakeAPI starts a fake server with sensible token defaults.
func NewFakeAPI() *FakeAPI {
	f := &FakeAPI{
		Access:          "access-1",
		Refresh:         "refresh-1",
		RefreshedAccess: "access-2",
	}
	f.server = httptest.NewServer(http.HandlerFunc(f.handle))
	return f
}

// URL returns the base URL of the fake server.
func (f *FakeAPI) URL() string { return f.server.URL }

// Close shuts the server down.
func (f *FakeAPI) Close() { f.server.Close() }

// SeedTask adds a task directly to the server-side collection.
func (f *FakeAPI) SeedTask(t task.Task) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if t.ID == "" {
		t.ID = uuid.New().String()
	}
	f.tasks = append(f.tasks, t)
}

// TaskCount returns the server-side task count.
func (f *FakeAPI) TaskCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.tasks)
}

func (f *FakeAPI) handle(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	f.LastAuthHeader = r.Header.Get("Authorization")
	f.mu.Unlock()

	path := r.URL.Path
	switch {
	case path == "/auth/login" && r.Method == http.MethodPost:
		f.handleLogin(w, r)
	case path == "/auth/registration" && r.Method == http.MethodPost:
		writeJSON(w, http.StatusCreated, map[string]string{"detail": "Verification e-mail sent."})
	case path == "/auth/request-otp" && r.Method == http.MethodPost:
		f.mu.Lock()
		f.RequestOTPCalls++
		f.mu.Unlock()
		writeJSON(w, http.StatusOK, map[string]any{"message": "OTP sent successfully", "expires_in": 600})
	case path == "/auth/validate-password" && r.Method == http.MethodPost:
		// An acceptable password is a bare 204, violations come back in data.
		if len(f.PasswordViolations) == 0 {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"success": true, "data": f.PasswordViolations})
	case path == "/user/token/refresh" && r.Method == http.MethodPost:
		f.handleRefresh(w, r)
	case path == "/task" && r.Method == http.MethodGet:
		f.handleList(w)
	case path == "/task" && r.Method == http.MethodPost:
		f.handleCreate(w, r)
	case strings.HasSuffix(path, "/mark_complete") && r.Method == http.MethodPost:
		id := strings.TrimSuffix(strings.TrimPrefix(path, "/task/"), "/mark_complete")
		f.handleToggle(w, id)
	case strings.HasPrefix(path, "/task/") && r.Method == http.MethodPut:
		f.handleUpdate(w, r, strings.TrimPrefix(path, "/task/"))
	case strings.HasPrefix(path, "/task/") && r.Method == http.MethodDelete:
		f.handleDelete(w, strings.TrimPrefix(path, "/task/"))
	default:
		writeError(w, http.StatusNotFound, "not found", nil)
	}
}

func (f *FakeAPI) handleLogin(w http.ResponseWriter, r *http.Request) {
	if f.FailLogin {
		writeError(w, http.StatusNotFound, "Invalid credentials", nil)
		return
	}
	var body struct {
		Email  string `json:"email"`
		Method string `json:"method"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.Email == "" {
		writeError(w, http.StatusBadRequest, "Invalid Format", map[string][]string{"email": {"This field is required."}})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"access": f.Access, "refresh": f.Refresh})
}

func (f *FakeAPI) handleRefresh(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	f.RefreshCalls++
	f.mu.Unlock()
	if f.FailRefresh {
		writeError(w, http.StatusUnauthorized, "Token is invalid or expired", nil)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"access": f.RefreshedAccess})
}

func (f *FakeAPI) handleList(w http.ResponseWriter) {
	if f.FailList {
		writeError(w, http.StatusInternalServerError, "server error", nil)
		return
	}
	f.mu.Lock()
	tasks := make([]task.Task, len(f.tasks))
	copy(tasks, f.tasks)
	f.mu.Unlock()
	writeJSON(w, http.StatusOK, tasks)
}

func (f *FakeAPI) handleCreate(w http.ResponseWriter, r *http.Request) {
	if f.FailCreate {
		writeError(w, http.StatusBadRequest, "Invalid request format", map[string][]string{"title": {"This field is required."}})
		return
	}
	var form task.FormData
	if err := json.NewDecoder(r.Body).Decode(&form); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request format", nil)
		return
	}
	t := task.Task{
		ID:          uuid.New().String(),
		Title:       form.Title,
		Description: form.Description,
		ScheduledOn: form.ScheduledOn,
	}
	f.mu.Lock()
	f.tasks = append(f.tasks, t)
	f.mu.Unlock()
	writeJSON(w, http.StatusCreated, t)
}

func (f *FakeAPI) handleUpdate(w http.ResponseWriter, r *http.Request, id string) {
	if f.FailUpdate {
		writeError(w, http.StatusBadRequest, "Invalid request format", nil)
		return
	}
	var form task.FormData
	if err := json.NewDecoder(r.Body).Decode(&form); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request format", nil)
		return
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.tasks {
		if f.tasks[i].ID == id {
			f.tasks[i].Title = form.Title
			f.tasks[i].Description = form.Description
			f.tasks[i].ScheduledOn = form.ScheduledOn
			writeJSON(w, http.StatusOK, f.tasks[i])
			return
		}
	}
	writeError(w, http.StatusNotFound, "No Task matches the given query.", nil)
}

func (f *FakeAPI) handleDelete(w http.ResponseWriter, id string) {
	if f.FailDelete {
		writeError(w, http.StatusInternalServerError, "server error", nil)
		return
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.tasks {
		if f.tasks[i].ID == id {
			f.tasks = append(f.tasks[:i], f.tasks[i+1:]...)
			w.WriteHeader(http.StatusNoContent)
			return
		}
	}
	writeError(w, http.StatusNotFound, "No Task matches the given query.", nil)
}

func (f *FakeAPI) handleToggle(w http.ResponseWriter, id string) {
	if f.FailToggle {
		writeError(w, http.StatusInternalServerError, "server error", nil)
		return
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.tasks {
		if f.tasks[i].ID == id {
			f.tasks[i].IsCompleted = !f.tasks[i].IsCompleted
			writeJSON(w, http.StatusOK, map[string]any{
				"success": true,
				"message": "Task updated",
				"data":    f.tasks[i],
			})
			return
		}
	}
	writeError(w, http.StatusNotFound, "No Task matches the given query.", nil)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string, fields map[string][]string) {
	writeJSON(w, status, map[string]any{
		"success": false,
		"message": message,
		"errors":  fields,
	})
}
