package grid

import (
	"errors"
	"fmt"
)

// Code is a machine-readable error code for grid lifecycle failures.
type Code string

const (
	// CodeInvalidBounds means the surface reported zero or negative
	// dimensions. The build is aborted immediately and never retried.
	CodeInvalidBounds Code = "INVALID_BOUNDS"

	// CodeBuildFailed means a build attempt failed in a retryable way
	// (e.g. the surface rejected the bulk insert). Retried with backoff.
	CodeBuildFailed Code = "BUILD_FAILED"

	// CodeConcurrentBuild means a build request arrived while another
	// build held the lock. The duplicate intent is dropped, not queued;
	// this is a signal rather than a failure.
	CodeConcurrentBuild Code = "CONCURRENT_BUILD"

	// CodeDegraded means the manager exhausted its retry budget. The
	// state is terminal until the caller requests explicit remediation.
	CodeDegraded Code = "DEGRADED"

	// CodeClosed means the manager was torn down.
	CodeClosed Code = "CLOSED"
)

// Error is a structured grid error carrying a code and optional cause.
type Error struct {
	Code    Code
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause, if any.
func (e *Error) Unwrap() error {
	return e.Cause
}

// newError creates a grid error with a formatted message.
func newError(code Code, format string, args ...interface{}) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// wrapError wraps a cause with a grid error code.
func wrapError(code Code, cause error, format string, args ...interface{}) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...), Cause: cause}
}

// HasCode reports whether err or any error in its chain carries the code.
func HasCode(err error, code Code) bool {
	var ge *Error
	for errors.As(err, &ge) {
		if ge.Code == code {
			return true
		}
		err = ge.Cause
		if err == nil {
			break
		}
	}
	return false
}
