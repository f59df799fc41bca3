// Package errors provides structured error types for skillweave.
//
// Every error that crosses a package boundary carries a machine-readable
// [Code] so that the CLI, the HTTP API and tests can react to the failure
// class without string matching:
//   - Composition errors (EMPTY_CHILDREN, MISSING_CONDITION, ...) are raised
//     by the pkg/compose constructors and name the violated constraint.
//   - INVALID_*: input validation failures (references, manifests, paths)
//   - *NOT_FOUND: missing skills and files
//   - NETWORK_ERROR, RATE_LIMITED, UNAUTHORIZED: remote collaborators
//   - SYNTH_FAILED: the text synthesizer could not produce a document
//
// # Usage
//
//	err := errors.New(errors.ErrCodeEmptyChildren, "compose.NewSequence: at least one child is required")
//	if errors.Is(err, errors.ErrCodeEmptyChildren) {
//	    // Handle authoring error
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeNetwork, origErr, "fetch %s", url)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Composition errors, raised at construction time.
	ErrCodeEmptyChildren        Code = "EMPTY_CHILDREN"
	ErrCodeMissingCondition     Code = "MISSING_CONDITION"
	ErrCodeMissingThenBranch    Code = "MISSING_THEN_BRANCH"
	ErrCodeEmptyHydrationConfig Code = "EMPTY_HYDRATION_CONFIG"
	ErrCodeInvalidSkill         Code = "INVALID_SKILL"
	ErrCodeNilChild             Code = "NIL_CHILD"

	// Input validation errors
	ErrCodeInvalidInput    Code = "INVALID_INPUT"
	ErrCodeInvalidRef      Code = "INVALID_REF"
	ErrCodeInvalidManifest Code = "INVALID_MANIFEST"
	ErrCodeInvalidPath     Code = "INVALID_PATH"
	ErrCodeInvalidFormat   Code = "INVALID_FORMAT"

	// Resource not found errors
	ErrCodeNotFound      Code = "NOT_FOUND"
	ErrCodeSkillNotFound Code = "SKILL_NOT_FOUND"
	ErrCodeFileNotFound  Code = "FILE_NOT_FOUND"

	// Remote collaborator errors
	ErrCodeNetwork      Code = "NETWORK_ERROR"
	ErrCodeTimeout      Code = "TIMEOUT"
	ErrCodeRateLimited  Code = "RATE_LIMITED"
	ErrCodeUnauthorized Code = "UNAUTHORIZED"
	ErrCodeSynthFailed  Code = "SYNTH_FAILED"

	// Internal errors
	ErrCodeInternal    Code = "INTERNAL_ERROR"
	ErrCodeUnsupported Code = "UNSUPPORTED"
)

// Error is a structured error with a code and optional cause.
type Error struct {
	Code    Code   // Machine-readable error code
	Message string // Human-readable message
	Cause   error  // Underlying error (optional)
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for errors.Is/As compatibility.
func (e *Error) Unwrap() error {
	return e.Cause
}

// New creates a new Error with the given code and formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// Wrap creates a new Error wrapping an existing error.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Cause:   cause,
	}
}

// Is reports whether err has the given error code.
// It unwraps the error chain looking for an *Error with a matching code.
func Is(err error, code Code) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}

// GetCode extracts the error code from an error, if available.
// Returns empty string if the error is not an *Error.
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// UserMessage returns a user-friendly message for the error.
// For *Error types, returns the message without the code prefix.
// For other errors, returns the error string as-is.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}

// IsComposition reports whether err is one of the construction-time
// composition errors. Those are never retryable.
func IsComposition(err error) bool {
	switch GetCode(err) {
	case ErrCodeEmptyChildren, ErrCodeMissingCondition, ErrCodeMissingThenBranch,
		ErrCodeEmptyHydrationConfig, ErrCodeInvalidSkill, ErrCodeNilChild:
		return true
	}
	return false
}

// RateLimitedError provides additional information for rate-limited responses.
type RateLimitedError struct {
	RetryAfter int // Seconds to wait before retrying
	Message    string
}

// Error implements the error interface.
func (e *RateLimitedError) Error() string {
	if e.RetryAfter > 0 {
		return fmt.Sprintf("rate limited: retry after %d seconds", e.RetryAfter)
	}
	return "rate limited"
}

// Code returns the error code for this error type.
func (e *RateLimitedError) Code() Code {
	return ErrCodeRateLimited
}
