package gitden

import (
	"errors"

	"github.com/gitden/gitden-go/internal/apierr"
)

var errEmptyBaseURL = errors.New("baseURL cannot be empty")

// ErrorKind re-exports the SDK's error classification so callers never need
// to import internal packages.
type ErrorKind = apierr.Kind

// Error kinds, in the order a failing operation checks them.
const (
	ErrorUnauthenticated = apierr.KindUnauthenticated
	ErrorUnauthorized    = apierr.KindUnauthorized
	ErrorValidation      = apierr.KindValidation
	ErrorNotFound        = apierr.KindNotFound
	ErrorServer          = apierr.KindServer
)

// KindOf reports the classification of err; errors from outside the SDK
// classify as ErrorServer.
func KindOf(err error) ErrorKind { return apierr.KindOf(err) }

// IsUnauthenticated reports whether err means no or invalid credentials.
func IsUnauthenticated(err error) bool { return apierr.Is(err, apierr.KindUnauthenticated) }

// IsUnauthorized reports whether err means the acting user lacks permission.
func IsUnauthorized(err error) bool { return apierr.Is(err, apierr.KindUnauthorized) }

// IsValidation reports whether err means a rejected input field.
func IsValidation(err error) bool { return apierr.Is(err, apierr.KindValidation) }

// IsNotFound reports whether err means the entity does not exist.
func IsNotFound(err error) bool { return apierr.Is(err, apierr.KindNotFound) }
