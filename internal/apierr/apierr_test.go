package apierr

import (
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"
)

func respWith(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Body:       io.NopCloser(strings.NewReader(body)),
	}
}

func TestFromResponseKinds(t *testing.T) {
	t.Parallel()
	cases := []struct {
		status int
		want   Kind
	}{
		{http.StatusBadRequest, KindValidation},
		{http.StatusUnauthorized, KindUnauthenticated},
		{http.StatusForbidden, KindUnauthorized},
		{http.StatusNotFound, KindNotFound},
		{http.StatusUnprocessableEntity, KindValidation},
		{http.StatusInternalServerError, KindServer},
		{http.StatusBadGateway, KindServer},
	}
	for _, tc := range cases {
		err := FromResponse("op", respWith(tc.status, `{"error":"nope"}`))
		if err.Kind != tc.want {
			t.Errorf("status %d: kind = %v, want %v", tc.status, err.Kind, tc.want)
		}
		if err.StatusCode != tc.status {
			t.Errorf("status %d: StatusCode = %d", tc.status, err.StatusCode)
		}
	}
}

func TestFromResponsePreservesServerMessage(t *testing.T) {
	t.Parallel()
	err := FromResponse("getRepository", respWith(404, `{"error":"repository not found"}`))
	if err.Message != "repository not found" {
		t.Errorf("Message = %q, want server text verbatim", err.Message)
	}
}

func TestFromResponseMessageField(t *testing.T) {
	t.Parallel()
	// Auth endpoints answer with "message" instead of "error".
	err := FromResponse("login", respWith(401, `{"message":"invalid credentials"}`))
	if err.Message != "invalid credentials" {
		t.Errorf("Message = %q", err.Message)
	}
	if err.Kind != KindUnauthenticated {
		t.Errorf("Kind = %v", err.Kind)
	}
}

func TestFromResponseUnparseableBody(t *testing.T) {
	t.Parallel()
	err := FromResponse("op", respWith(500, "<html>gateway error</html>"))
	if err.Kind != KindServer {
		t.Errorf("Kind = %v", err.Kind)
	}
	if err.Message == "" {
		t.Error("expected a fallback message for a non-JSON body")
	}
}

func TestNetworkWrapsCause(t *testing.T) {
	t.Parallel()
	cause := errors.New("connection refused")
	err := Network("push", cause)
	if err.Kind != KindServer {
		t.Errorf("Kind = %v, want KindServer", err.Kind)
	}
	if !errors.Is(err, cause) {
		t.Error("expected the transport error to be reachable via errors.Is")
	}
}

func TestKindOf(t *testing.T) {
	t.Parallel()
	if got := KindOf(Validation("bad")); got != KindValidation {
		t.Errorf("KindOf = %v", got)
	}
	if got := KindOf(errors.New("plain")); got != KindServer {
		t.Errorf("KindOf(plain) = %v, want KindServer", got)
	}
	if got := KindOf(nil); got != KindServer {
		t.Errorf("KindOf(nil) = %v", got)
	}
	if !Is(Unauthorized("no"), KindUnauthorized) {
		t.Error("Is(Unauthorized, KindUnauthorized) = false")
	}
	if Is(Unauthorized("no"), KindValidation) {
		t.Error("Is reported the wrong kind")
	}
}

func TestErrorStringIncludesKind(t *testing.T) {
	t.Parallel()
	msg := Unauthenticated("not logged in").Error()
	if !strings.Contains(msg, "not logged in") {
		t.Errorf("Error() = %q, missing message", msg)
	}
}
