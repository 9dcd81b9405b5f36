// Package errors provides a structured error type hierarchy for wfdispatch.
//
// This package defines base error types for the failure classes a dispatch can
// end in, wrapped error types that add contextual information, and helper
// functions for error wrapping and type checking.
//
// # Error Types
//
// Base errors (sentinel errors):
//   - ErrNotFound - no workflow matched the reference
//   - ErrInvalid - an input failed validation
//   - ErrMalformedInput - the inputs document is not a JSON object
//   - ErrTimeout - the run did not complete before the wait deadline
//   - ErrAPI - the GitHub API rejected a request
//
// Wrapped error types (add context):
//   - ConfigError{Field, Err} - configuration and input errors
//   - WorkflowError{Op, Ref, Repo, Err} - dispatcher operation errors
//   - APIError{Method, Path, StatusCode, Message} - non-2xx API responses
//
// # Usage
//
//	return &errors.ConfigError{Field: "waitTime", Err: err}
//
//	if errors.IsTimeout(err) {
//	    // handle timeout
//	}
package errors

import (
	"errors"
	"fmt"
)

// Base error types (sentinel errors).
var (
	// ErrNotFound indicates no workflow matched the reference.
	ErrNotFound = baseError("not found")

	// ErrInvalid indicates validation failed.
	ErrInvalid = baseError("invalid")

	// ErrMalformedInput indicates the workflow inputs could not be decoded.
	ErrMalformedInput = baseError("malformed inputs")

	// ErrTimeout indicates the wait deadline passed.
	ErrTimeout = baseError("timed out")

	// ErrAPI indicates the API returned a non-success response.
	ErrAPI = baseError("api error")
)

// baseError is a string that implements error.
type baseError string

func (e baseError) Error() string { return string(e) }

// ConfigError represents an error in a configuration value or input.
type ConfigError struct {
	// Field is the input or config key at fault (optional).
	Field string
	// Err is the underlying error.
	Err error
}

func (e *ConfigError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("config %s: %s", e.Field, e.Err)
	}
	return fmt.Sprintf("config: %s", e.Err)
}

func (e *ConfigError) Unwrap() error { return e.Err }

// WorkflowError represents an error that occurred during a dispatcher operation.
type WorkflowError struct {
	// Op is the operation being performed (e.g., "resolve", "dispatch", "wait").
	Op string
	// Ref is the workflow reference (optional).
	Ref string
	// Repo is the owner/repo slug (optional).
	Repo string
	// Err is the underlying error.
	Err error
}

func (e *WorkflowError) Error() string {
	switch {
	case e.Ref != "" && e.Repo != "":
		return fmt.Sprintf("workflow %s %q in %s: %s", e.Op, e.Ref, e.Repo, e.Err)
	case e.Ref != "":
		return fmt.Sprintf("workflow %s %q: %s", e.Op, e.Ref, e.Err)
	default:
		return fmt.Sprintf("workflow %s: %s", e.Op, e.Err)
	}
}

func (e *WorkflowError) Unwrap() error { return e.Err }

// APIError represents a non-success response from the GitHub API.
// Error() always ends with Message so callers matching on the upstream
// message text keep working after wrapping.
type APIError struct {
	Method     string
	Path       string
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s %s: %d: %s", e.Method, e.Path, e.StatusCode, e.Message)
}

func (e *APIError) Unwrap() error { return ErrAPI }

// Wrap adds context to an error by wrapping it with an operation name.
// The returned error implements Unwrap() allowing errors.Is and errors.As
// to work with the wrapped error.
func Wrap(err error, op string) error {
	if err == nil {
		return nil
	}
	return &wrappedError{op: op, err: err}
}

// wrappedError is an error with an operation context.
type wrappedError struct {
	op  string
	err error
}

func (e *wrappedError) Error() string { return fmt.Sprintf("%s: %s", e.op, e.err) }
func (e *wrappedError) Unwrap() error { return e.err }

// IsNotFound reports whether err is or wraps ErrNotFound.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsInvalid reports whether err is or wraps ErrInvalid.
func IsInvalid(err error) bool {
	return errors.Is(err, ErrInvalid)
}

// IsMalformedInput reports whether err is or wraps ErrMalformedInput.
func IsMalformedInput(err error) bool {
	return errors.Is(err, ErrMalformedInput)
}

// IsTimeout reports whether err is or wraps ErrTimeout.
func IsTimeout(err error) bool {
	return errors.Is(err, ErrTimeout)
}

// IsAPI reports whether err is or wraps ErrAPI.
func IsAPI(err error) bool {
	return errors.Is(err, ErrAPI)
}

// AsConfigError reports whether err can be typed as a *ConfigError.
func AsConfigError(err error) (*ConfigError, bool) {
	var ce *ConfigError
	if errors.As(err, &ce) {
		return ce, true
	}
	return nil, false
}

// AsWorkflowError reports whether err can be typed as a *WorkflowError.
func AsWorkflowError(err error) (*WorkflowError, bool) {
	var we *WorkflowError
	if errors.As(err, &we) {
		return we, true
	}
	return nil, false
}

// AsAPIError reports whether err can be typed as an *APIError.
func AsAPIError(err error) (*APIError, bool) {
	var ae *APIError
	if errors.As(err, &ae) {
		return ae, true
	}
	return nil, false
}
