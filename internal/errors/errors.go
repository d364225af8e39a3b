package errors

import (
	"fmt"
	"net/http"
)

// default error is internal service error at handler level
// if error has different status code use ErrorWithStatusCode
type ErrorWithStatusCode struct {
	Message    string
	StatusCode int
}

func (e *ErrorWithStatusCode) Error() string {
	return e.Message
}

// Check if err is instance of T for custom error types
func Is[T error](err error) bool {
	if _, ok := err.(T); ok {
		return true
	}
	return false
}

// IsNotFound reports whether err carries a 404 status code.
func IsNotFound(err error) bool {
	e, ok := err.(*ErrorWithStatusCode)
	return ok && e.StatusCode == http.StatusNotFound
}

type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("Validation error: %s", e.Message)
}

// InvalidCodeError reports an OTP mismatch together with how many attempts
// the subject has consumed. Handlers map it to 401 so clients can show the
// remaining attempt budget.
type InvalidCodeError struct {
	Attempts    int
	MaxAttempts int
}

func (e *InvalidCodeError) Error() string {
	return fmt.Sprintf("Invalid OTP. Attempt %d of %d", e.Attempts, e.MaxAttempts)
}
