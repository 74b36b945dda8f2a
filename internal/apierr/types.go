// Package apierr provides the error taxonomy shared by the SDK and the view
// controllers. Every failure a controller surfaces to a user is one of these
// kinds, so callers can gate behavior (and rendering) on classification
// instead of string matching.
package apierr

import (
	"errors"
	"fmt"
)

// Kind classifies a failure for presentation and gating decisions.
type Kind int

const (
	// KindUnauthenticated means no (or an invalid/expired) session token.
	// Mutations are blocked with this kind before any network dispatch.
	KindUnauthenticated Kind = iota

	// KindUnauthorized means the session is valid but the acting user is not
	// permitted, typically a non-owner invoking an owner-gated operation.
	KindUnauthorized

	// KindValidation means a required field was empty or malformed.
	KindValidation

	// KindNotFound means the entity does not exist (404).
	KindNotFound

	// KindServer covers 5xx responses and network-level failures.
	KindServer
)

// String returns a human-readable representation of the kind.
func (k Kind) String() string {
	switch k {
	case KindUnauthenticated:
		return "Unauthenticated"
	case KindUnauthorized:
		return "Unauthorized"
	case KindValidation:
		return "Validation"
	case KindNotFound:
		return "NotFound"
	case KindServer:
		return "Server"
	default:
		return fmt.Sprintf("Unknown(%d)", int(k))
	}
}

// Error carries the classification plus the server's message verbatim.
type Error struct {
	Kind       Kind
	StatusCode int    // HTTP status code (0 for non-HTTP errors)
	Message    string // server-provided error string, surfaced as-is
	Underlying error  // the original error, if any
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Underlying != nil {
		return e.Underlying.Error()
	}
	if e.StatusCode > 0 {
		return fmt.Sprintf("%s: HTTP %d", e.Kind, e.StatusCode)
	}
	return e.Kind.String()
}

// Unwrap returns the underlying error for error chain compatibility.
func (e *Error) Unwrap() error { return e.Underlying }

// New constructs an Error with the given kind and message.
func New(kind Kind, msg string) *Error {
	return &Error{Kind: kind, Message: msg}
}

// Unauthenticated builds the fail-fast error used before network dispatch.
func Unauthenticated(msg string) *Error {
	if msg == "" {
		msg = "not logged in"
	}
	return &Error{Kind: KindUnauthenticated, Message: msg}
}

// Unauthorized builds the owner-gate rejection error.
func Unauthorized(msg string) *Error {
	if msg == "" {
		msg = "not permitted"
	}
	return &Error{Kind: KindUnauthorized, Message: msg}
}

// Validation builds an empty/malformed-field error.
func Validation(msg string) *Error {
	return &Error{Kind: KindValidation, Message: msg}
}

// KindOf reports the classification of err. Errors that did not originate in
// this package (raw network failures and the like) classify as KindServer.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindServer
}

// Is reports whether err classifies as kind.
func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}
