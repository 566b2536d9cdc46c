package api_test

import (
	"errors"
	"testing"
	"time"

	"github.com/ondrejk/taskwell/internal/api"
	"github.com/ondrejk/taskwell/internal/task"
	"github.com/ondrejk/taskwell/internal/testutil"
)

func newTestClient(f *testutil.FakeAPI, access string) *api.Client {
	return api.NewClient(f.URL(), func() string { return access })
}

func TestLogin(t *testing.T) {
	f := testutil.NewFakeAPI()
	defer f.Close()
	f.Access, f.Refresh = "A1", "R1"

	client := newTestClient(f, "")
	creds, err := client.Login("a@b.com", "x")
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	if creds.Access != "A1" || creds.Refresh != "R1" {
		t.Errorf("credentials = (%q, %q), want (A1, R1)", creds.Access, creds.Refresh)
	}
}

func TestLoginRejected(t *testing.T) {
	f := testutil.NewFakeAPI()
	defer f.Close()
	f.FailLogin = true

	client := newTestClient(f, "")
	_, err := client.Login("a@b.com", "wrong")
	if err == nil {
		t.Fatal("Login should fail")
	}
	var apiErr *api.Error
	if !errors.As(err, &apiErr) {
		t.Fatalf("error type = %T, want *api.Error", err)
	}
	if apiErr.Kind != api.KindAuth {
		t.Errorf("kind = %v, want auth", apiErr.Kind)
	}
	if apiErr.Message != "Invalid credentials" {
		t.Errorf("message = %q", apiErr.Message)
	}
}

func TestLoginOTP(t *testing.T) {
	f := testutil.NewFakeAPI()
	defer f.Close()

	client := newTestClient(f, "")
	creds, err := client.LoginOTP("a@b.com", "123456")
	if err != nil {
		t.Fatalf("LoginOTP failed: %v", err)
	}
	if creds.Access == "" || creds.Refresh == "" {
		t.Error("LoginOTP returned empty tokens")
	}
}

func TestValidationErrorCarriesFields(t *testing.T) {
	f := testutil.NewFakeAPI()
	defer f.Close()

	client := newTestClient(f, "")
	_, err := client.Login("", "")
	if err == nil {
		t.Fatal("Login with empty email should fail")
	}
	var apiErr *api.Error
	if !errors.As(err, &apiErr) {
		t.Fatalf("error type = %T", err)
	}
	if apiErr.Kind != api.KindValidation {
		t.Errorf("kind = %v, want validation", apiErr.Kind)
	}
	if len(apiErr.Fields["email"]) == 0 {
		t.Error("field errors for email missing")
	}
}

func TestValidatePassword(t *testing.T) {
	f := testutil.NewFakeAPI()
	defer f.Close()
	f.PasswordViolations = []string{"This password is too short.", "This password is too common."}

	client := newTestClient(f, "")
	got, err := client.ValidatePassword("abc")
	if err != nil {
		t.Fatalf("ValidatePassword failed: %v", err)
	}
	if len(got) != 2 {
		t.Errorf("violations = %d, want 2", len(got))
	}
}

func TestValidatePasswordAcceptable(t *testing.T) {
	// An acceptable password comes back as 204 with an empty body, not a
	// JSON payload; that must read as "no violations", not a decode error.
	f := testutil.NewFakeAPI()
	defer f.Close()

	client := newTestClient(f, "")
	got, err := client.ValidatePassword("a-strong-one")
	if err != nil {
		t.Fatalf("acceptable password rejected: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("violations = %v, want none", got)
	}
}

func TestRefreshToken(t *testing.T) {
	f := testutil.NewFakeAPI()
	defer f.Close()
	f.RefreshedAccess = "A2"

	client := newTestClient(f, "")
	access, err := client.RefreshToken("R1")
	if err != nil {
		t.Fatalf("RefreshToken failed: %v", err)
	}
	if access != "A2" {
		t.Errorf("access = %q, want A2", access)
	}

	f.FailRefresh = true
	if _, err := client.RefreshToken("R1"); err == nil {
		t.Fatal("RefreshToken should fail")
	}
}

func TestBearerHeaderAttached(t *testing.T) {
	f := testutil.NewFakeAPI()
	defer f.Close()

	client := newTestClient(f, "my-access")
	if _, err := client.ListTasks(); err != nil {
		t.Fatalf("ListTasks failed: %v", err)
	}
	if f.LastAuthHeader != "Bearer my-access" {
		t.Errorf("Authorization = %q, want %q", f.LastAuthHeader, "Bearer my-access")
	}
}

func TestTaskRoundTrip(t *testing.T) {
	f := testutil.NewFakeAPI()
	defer f.Close()
	client := newTestClient(f, "token")

	when := time.Date(2026, 4, 1, 9, 30, 0, 0, time.UTC)
	created, err := client.CreateTask(task.FormData{Title: "Plan sprint", ScheduledOn: when})
	if err != nil {
		t.Fatalf("CreateTask failed: %v", err)
	}
	if created.ID == "" {
		t.Fatal("server did not assign an id")
	}

	updated, err := client.UpdateTask(created.ID, task.FormData{Title: "Plan sprint 2", ScheduledOn: when})
	if err != nil {
		t.Fatalf("UpdateTask failed: %v", err)
	}
	if updated.Title != "Plan sprint 2" {
		t.Errorf("updated title = %q", updated.Title)
	}

	toggled, err := client.MarkComplete(created.ID)
	if err != nil {
		t.Fatalf("MarkComplete failed: %v", err)
	}
	if !toggled.IsCompleted {
		t.Error("MarkComplete did not flip the flag")
	}

	tasks, err := client.ListTasks()
	if err != nil {
		t.Fatalf("ListTasks failed: %v", err)
	}
	if len(tasks) != 1 {
		t.Fatalf("task count = %d, want 1", len(tasks))
	}

	if err := client.DeleteTask(created.ID); err != nil {
		t.Fatalf("DeleteTask failed: %v", err)
	}
	if f.TaskCount() != 0 {
		t.Errorf("server task count = %d, want 0", f.TaskCount())
	}
}

func TestTransportErrorKind(t *testing.T) {
	// A closed server produces a transport error, not a panic or an auth error.
	f := testutil.NewFakeAPI()
	url := f.URL()
	f.Close()

	client := api.NewClient(url, nil)
	_, err := client.ListTasks()
	if err == nil {
		t.Fatal("ListTasks against a dead server should fail")
	}
	var apiErr *api.Error
	if !errors.As(err, &apiErr) {
		t.Fatalf("error type = %T", err)
	}
	if apiErr.Kind != api.KindTransport {
		t.Errorf("kind = %v, want transport", apiErr.Kind)
	}
}
