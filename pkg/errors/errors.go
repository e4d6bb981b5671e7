// Package errors provides common domain error types for the mins application.
//
// This package defines sentinel errors for common domain conditions like
// "invalid state" or "validation error" that can be used across all packages.
// Using typed errors enables consistent error handling patterns with
// errors.Is() checks.
//
// Usage:
//
//	import mnerrors "github.com/minutedesk/mins-cli/pkg/errors"
//
//	// Return a domain error
//	return nil, mnerrors.ErrNotFound
//
//	// Check for domain errors
//	if mnerrors.IsNotFound(err) {
//	    // handle not found case
//	}
package errors

import "errors"

// Domain errors - common sentinel errors for domain conditions.
var (
	// ErrNotFound indicates the requested meeting or record was not found.
	ErrNotFound = errors.New("not found")

	// ErrConflict indicates a conflict with existing data (e.g., duplicate key).
	ErrConflict = errors.New("conflict")

	// ErrValidation indicates invalid input or validation failure.
	ErrValidation = errors.New("validation error")

	// ErrInvalidState indicates the operation is not valid for the current
	// session state (e.g., pausing a session that is not recording).
	ErrInvalidState = errors.New("invalid state")

	// ErrEngineUnsupported indicates the environment offers no dictation
	// engine. Fatal before a session starts; never retried.
	ErrEngineUnsupported = errors.New("dictation engine unsupported")

	// ErrPermissionDenied indicates the user declined microphone or
	// recognition access. Fatal to the current session; no auto-restart.
	ErrPermissionDenied = errors.New("permission denied")
)

// IsNotFound reports whether any error in err's chain is ErrNotFound.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsConflict reports whether any error in err's chain is ErrConflict.
func IsConflict(err error) bool {
	return errors.Is(err, ErrConflict)
}

// IsValidation reports whether any error in err's chain is ErrValidation.
func IsValidation(err error) bool {
	return errors.Is(err, ErrValidation)
}

// IsInvalidState reports whether any error in err's chain is ErrInvalidState.
func IsInvalidState(err error) bool {
	return errors.Is(err, ErrInvalidState)
}

// IsEngineUnsupported reports whether any error in err's chain is ErrEngineUnsupported.
func IsEngineUnsupported(err error) bool {
	return errors.Is(err, ErrEngineUnsupported)
}

// IsPermissionDenied reports whether any error in err's chain is ErrPermissionDenied.
func IsPermissionDenied(err error) bool {
	return errors.Is(err, ErrPermissionDenied)
}
