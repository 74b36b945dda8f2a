package apierr

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// errorBody matches the backend's failure payloads. Most endpoints use
// {"error": ...}; the auth endpoints answer with {"message": ...}.
type errorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// classify maps HTTP status codes to error kinds.
func classify(statusCode int) Kind {
	switch {
	case statusCode == http.StatusUnauthorized:
		return KindUnauthenticated
	case statusCode == http.StatusForbidden:
		return KindUnauthorized
	case statusCode == http.StatusNotFound:
		return KindNotFound
	case statusCode == http.StatusBadRequest || statusCode == http.StatusUnprocessableEntity:
		return KindValidation
	default:
		return KindServer
	}
}

// FromResponse builds an Error from a non-2xx response, preserving the
// server's error string verbatim when the body carries one.
func FromResponse(op string, resp *http.Response) *Error {
	msg := ""
	if body, err := io.ReadAll(io.LimitReader(resp.Body, 8192)); err == nil {
		var eb errorBody
		if json.Unmarshal(body, &eb) == nil {
			if eb.Error != "" {
				msg = eb.Error
			} else if eb.Message != "" {
				msg = eb.Message
			}
		}
	}
	return &Error{
		Kind:       classify(resp.StatusCode),
		StatusCode: resp.StatusCode,
		Message:    msg,
		Underlying: fmt.Errorf("%s: status %d", op, resp.StatusCode),
	}
}

// Network wraps a transport-level failure. These classify as KindServer
// since the caller cannot distinguish them from a backend outage.
func Network(op string, err error) *Error {
	return &Error{
		Kind:       KindServer,
		Underlying: fmt.Errorf("%s: %w", op, err),
	}
}
