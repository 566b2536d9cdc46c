// Package exitcode defines exit codes for the CLI.
package exitcode

const (
	// Success indicates successful completion.
	Success = 0

	// UserError indicates a user error (bad args, invalid input).
	UserError = 1

	// AuthError indicates the user is not signed in or a credential was
	// rejected.
	AuthError = 2

	// BackendError indicates an API or network error.
	BackendError = 3
)
