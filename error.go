package attfetch

import (
	"errors"
	"fmt"
)

// Application error codes.
const (
	EINVALID     = "invalid"     // validation failed
	ENOTFOUND    = "not_found"   // entity does not exist
	EINTERNAL    = "internal"    // internal error
	EUNAVAILABLE = "unavailable" // external resource unavailable
)

// Error represents an application-specific error with a machine-readable
// code and a human-readable message.
type Error struct {
	Code    string
	Message string
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("attfetch error: code=%s message=%s", e.Code, e.Message)
}

// Errorf is a helper to construct an Error with a formatted message.
func Errorf(code string, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// ErrorCode unwraps an application error and returns its code.
// Non-application errors return EINTERNAL; nil returns the empty string.
func ErrorCode(err error) string {
	var e *Error
	if err == nil {
		return ""
	} else if errors.As(err, &e) {
		return e.Code
	}
	return EINTERNAL
}

// ErrorMessage unwraps an application error and returns its message.
// Non-application errors return a generic message; nil returns the
// empty string.
func ErrorMessage(err error) string {
	var e *Error
	if err == nil {
		return ""
	} else if errors.As(err, &e) {
		return e.Message
	}
	return "Internal error."
}

// RetrievalError reports a non-success HTTP status for a required fetch.
// The core never retries these internally; retry policy belongs to the
// caller. Cancellation is not a RetrievalError — it surfaces as
// context.Canceled so callers can tell "the user stopped this" from
// "the server rejected this".
type RetrievalError struct {
	Op     string // operation that failed, e.g. "fetch page 3"
	URL    string
	Status int
}

// Error implements the error interface.
func (e *RetrievalError) Error() string {
	return fmt.Sprintf("%s: HTTP %d for %s", e.Op, e.Status, e.URL)
}

// IsRetrieval reports whether err is (or wraps) a RetrievalError.
func IsRetrieval(err error) bool {
	var e *RetrievalError
	return errors.As(err, &e)
}
