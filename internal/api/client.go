// Package api wraps HTTP calls to the remote task-scheduler service.
package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/ondrejk/taskwell/internal/task"
)

// DefaultClientTimeout is the default timeout for API requests.
const DefaultClientTimeout = 10 * time.Second

// TokenSource supplies the current access token for authenticated calls.
// An empty string sends the request without an Authorization header.
type TokenSource func() string

// Client talks to the task-scheduler HTTP API.
type Client struct {
	baseURL    string
	token      TokenSource
	httpClient *http.Client
}

// NewClient creates a client for the API at baseURL. token may be nil for a
// client that only performs unauthenticated calls.
func NewClient(baseURL string, token TokenSource) *Client {
	return &Client{
		baseURL: baseURL,
		token:   token,
		httpClient: &http.Client{
			Timeout: DefaultClientTimeout,
		},
	}
}

// --- Authentication endpoints ---

// Register creates an account. The server sends a verification email; login
// is only possible after the address is verified.
func (c *Client) Register(email, password, passwordConfirm string) error {
	body := map[string]string{
		"email":           email,
		"password":        password,
		"passwordConfirm": passwordConfirm,
	}
	_, err := c.do(http.MethodPost, "/auth/registration", body, false, KindValidation)
	return err
}

// Login exchanges email+password for a token pair.
func (c *Client) Login(email, password string) (Credentials, error) {
	body := map[string]string{
		"email":    email,
		"password": password,
		"method":   "password",
	}
	return c.login(body)
}

// LoginOTP exchanges email+one-time passcode for a token pair.
func (c *Client) LoginOTP(email, otp string) (Credentials, error) {
	body := map[string]string{
		"email":  email,
		"otp":    otp,
		"method": "otp",
	}
	return c.login(body)
}

func (c *Client) login(body map[string]string) (Credentials, error) {
	resp, err := c.do(http.MethodPost, "/auth/login", body, false, KindAuth)
	if err != nil {
		return Credentials{}, err
	}
	var creds Credentials
	if err := json.Unmarshal(resp, &creds); err != nil {
		return Credentials{}, &Error{Kind: KindTransport, Message: "malformed login response"}
	}
	if creds.Access == "" || creds.Refresh == "" {
		return Credentials{}, &Error{Kind: KindAuth, Message: "login response missing tokens"}
	}
	return creds, nil
}

// RequestOTP asks the server to mail a one-time passcode to email.
func (c *Client) RequestOTP(email string) error {
	_, err := c.do(http.MethodPost, "/auth/request-otp", map[string]string{"email": email}, false, KindAuth)
	return err
}

// ValidatePassword runs the server-side password policy check and returns
// the list of violation messages, empty if the password is acceptable.
func (c *Client) ValidatePassword(password string) ([]string, error) {
	resp, err := c.do(http.MethodPost, "/auth/validate-password", map[string]string{"password": password}, false, KindValidation)
	if err != nil {
		return nil, err
	}
	// An acceptable password comes back as 204 with no body.
	if len(resp) == 0 {
		return nil, nil
	}
	var result struct {
		Data []string `json:"data"`
	}
	if err := json.Unmarshal(resp, &result); err != nil {
		return nil, &Error{Kind: KindTransport, Message: "malformed validation response"}
	}
	return result.Data, nil
}

// RefreshToken mints a new access token from the refresh token. Any failure
// is an authentication error; the caller decides what to do with the stored
// pair.
func (c *Client) RefreshToken(refresh string) (string, error) {
	resp, err := c.do(http.MethodPost, "/user/token/refresh", map[string]string{"refresh": refresh}, false, KindAuth)
	if err != nil {
		return "", err
	}
	var result struct {
		Access string `json:"access"`
	}
	if err := json.Unmarshal(resp, &result); err != nil {
		return "", &Error{Kind: KindTransport, Message: "malformed refresh response"}
	}
	if result.Access == "" {
		return "", &Error{Kind: KindAuth, Message: "refresh response missing access token"}
	}
	return result.Access, nil
}

// --- Task endpoints (implements task.Service) ---

// ListTasks fetches the full task collection.
func (c *Client) ListTasks() ([]task.Task, error) {
	resp, err := c.do(http.MethodGet, "/task", nil, true, KindTransport)
	if err != nil {
		return nil, err
	}
	var tasks []task.Task
	if err := json.Unmarshal(resp, &tasks); err != nil {
		return nil, &Error{Kind: KindTransport, Message: "malformed task list"}
	}
	return tasks, nil
}

// CreateTask creates a task; the server assigns the id.
func (c *Client) CreateTask(form task.FormData) (task.Task, error) {
	resp, err := c.do(http.MethodPost, "/task", form, true, KindValidation)
	if err != nil {
		return task.Task{}, err
	}
	var t task.Task
	if err := json.Unmarshal(resp, &t); err != nil {
		return task.Task{}, &Error{Kind: KindTransport, Message: "malformed task response"}
	}
	return t, nil
}

// UpdateTask replaces the task's editable fields.
func (c *Client) UpdateTask(id string, form task.FormData) (task.Task, error) {
	resp, err := c.do(http.MethodPut, "/task/"+id, form, true, KindValidation)
	if err != nil {
		return task.Task{}, err
	}
	var t task.Task
	if err := json.Unmarshal(resp, &t); err != nil {
		return task.Task{}, &Error{Kind: KindTransport, Message: "malformed task response"}
	}
	return t, nil
}

// DeleteTask deletes a task.
func (c *Client) DeleteTask(id string) error {
	_, err := c.do(http.MethodDelete, "/task/"+id, nil, true, KindTransport)
	return err
}

// MarkComplete flips the completion flag server-side and returns the updated
// task fragment, which arrives inside the response envelope.
func (c *Client) MarkComplete(id string) (task.Task, error) {
	resp, err := c.do(http.MethodPost, "/task/"+id+"/mark_complete", nil, true, KindTransport)
	if err != nil {
		return task.Task{}, err
	}
	var result struct {
		Data task.Task `json:"data"`
	}
	if err := json.Unmarshal(resp, &result); err != nil {
		return task.Task{}, &Error{Kind: KindTransport, Message: "malformed task response"}
	}
	return result.Data, nil
}

// do performs one request and returns the raw body. Responses with status
// >= 400 are decoded through the error envelope and classified: field errors
// become validation errors, everything else falls back to fallbackKind.
func (c *Client) do(method, path string, body interface{}, authed bool, fallbackKind ErrorKind) ([]byte, error) {
	var reader io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		reader = bytes.NewReader(jsonData)
	}

	req, err := http.NewRequest(method, c.baseURL+path, reader)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if authed && c.token != nil {
		if access := c.token(); access != "" {
			req.Header.Set("Authorization", "Bearer "+access)
		}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &Error{Kind: KindTransport, Message: fmt.Sprintf("API request failed: %v", err)}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &Error{Kind: KindTransport, Message: "failed to read response body"}
	}

	if resp.StatusCode >= 400 {
		return nil, decodeError(resp.StatusCode, respBody, fallbackKind)
	}
	return respBody, nil
}

// decodeError maps a failed response onto the error taxonomy.
func decodeError(status int, body []byte, fallbackKind ErrorKind) *Error {
	var env envelope
	if err := json.Unmarshal(body, &env); err != nil || env.Message == "" && len(env.Errors) == 0 {
		return &Error{
			Kind:    KindTransport,
			Status:  status,
			Message: fmt.Sprintf("API error (%d)", status),
		}
	}
	kind := fallbackKind
	if len(env.Errors) > 0 {
		kind = KindValidation
	}
	return &Error{
		Kind:    kind,
		Status:  status,
		Message: env.Message,
		Fields:  env.Errors,
	}
}
