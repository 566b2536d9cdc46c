package api

import "fmt"

// Credentials is the token pair returned by login.
type Credentials struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

// ErrorKind classifies remote failures so call sites can surface them in the
// right place: field-level, form-level, or a generic fallback.
type ErrorKind int

const (
	// KindTransport covers network failures and malformed responses.
	KindTransport ErrorKind = iota
	// KindValidation covers field-level rejections.
	KindValidation
	// KindAuth covers wrong credentials, expired OTPs and refresh failures.
	KindAuth
)

// Error is a classified remote API failure. Fields carries per-field
// validation messages when the server returned any.
type Error struct {
	Kind    ErrorKind
	Status  int
	Message string
	Fields  map[string][]string
}

func (e *Error) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("API error (status %d)", e.Status)
}

// envelope is the server's error/response wrapper:
// {"success": bool, "message": string, "errors": {...}, "data": ...}.
// Auth success payloads ({access, refresh}) come back bare, outside it.
type envelope struct {
	Success bool                `json:"success"`
	Message string              `json:"message"`
	Errors  map[string][]string `json:"errors"`
}
