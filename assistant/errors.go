package assistant

import "fmt"

// Errors never cross the tool boundary as faults. Every tool call ends in
// either a result payload or an {"error": "..."} payload; the typed errors
// below let callers inside the process tell the failure classes apart.

// NotFoundError reports an absent restaurant, table, menu item, booking,
// or order.
type NotFoundError struct {
	msg string
}

func (e *NotFoundError) Error() string { return e.msg }

func notFoundf(format string, args ...any) *NotFoundError {
	return &NotFoundError{msg: fmt.Sprintf(format, args...)}
}

// ValidationError reports malformed arguments: a bad timestamp, invalid
// JSON, or missing required fields.
type ValidationError struct {
	msg string
}

func (e *ValidationError) Error() string { return e.msg }

func validationf(format string, args ...any) *ValidationError {
	return &ValidationError{msg: fmt.Sprintf(format, args...)}
}

// AuthError is deliberately generic. Unknown email and wrong password
// produce the identical message so callers cannot enumerate accounts.
type AuthError struct{}

func (e *AuthError) Error() string { return "Invalid email or password" }
