package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gitden/gitden-go/internal/apierr"
	"github.com/gitden/gitden-go/internal/types"
)

func TestGetRepositorySuccess(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet || r.URL.Path != "/api/repo/r1" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		_ = json.NewEncoder(w).Encode(types.Repository{ID: "r1", Name: "demo", Visibility: true})
	}))
	defer srv.Close()

	repo, err := GetRepository(context.Background(), srv.Client(), srv.URL, "r1")
	if err != nil {
		t.Fatalf("GetRepository: %v", err)
	}
	if repo.Name != "demo" || !repo.Visibility {
		t.Errorf("unexpected repository %+v", repo)
	}
}

func TestGetRepositoryNotFound(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":"repository not found"}`))
	}))
	defer srv.Close()

	_, err := GetRepository(context.Background(), srv.Client(), srv.URL, "missing")
	if !apierr.Is(err, apierr.KindNotFound) {
		t.Fatalf("err = %v, want KindNotFound", err)
	}
	if err.Error() != "repository not found" {
		t.Errorf("message = %q, want the server text verbatim", err.Error())
	}
}

func TestGetRepositoryEmptyIDInBody(t *testing.T) {
	t.Parallel()
	// Some backends answer 200 with an empty object for unknown ids.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	_, err := GetRepository(context.Background(), srv.Client(), srv.URL, "missing")
	if !apierr.Is(err, apierr.KindNotFound) {
		t.Fatalf("err = %v, want KindNotFound", err)
	}
}

func TestCreateRepository(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/repo/create" {
			t.Errorf("path = %s", r.URL.Path)
		}
		var req types.CreateRepositoryRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if req.Name != "demo" {
			t.Errorf("name = %q", req.Name)
		}
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"repositoryID":"r9"}`))
	}))
	defer srv.Close()

	id, err := CreateRepository(context.Background(), srv.Client(), srv.URL, types.CreateRepositoryRequest{Name: "demo"})
	if err != nil {
		t.Fatalf("CreateRepository: %v", err)
	}
	if id != "r9" {
		t.Errorf("id = %q", id)
	}
}

func TestCreateRepositoryValidationError(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":"repository name is required"}`))
	}))
	defer srv.Close()

	_, err := CreateRepository(context.Background(), srv.Client(), srv.URL, types.CreateRepositoryRequest{})
	if !apierr.Is(err, apierr.KindValidation) {
		t.Fatalf("err = %v, want KindValidation", err)
	}
}

func TestCreateCommitReturnsUpdatedRepository(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/repo/r1/commit" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		_ = json.NewEncoder(w).Encode(types.Repository{
			ID:      "r1",
			Content: []types.CommitRecord{{Message: "first"}},
		})
	}))
	defer srv.Close()

	repo, err := CreateCommit(context.Background(), srv.Client(), srv.URL, "r1", types.CreateCommitRequest{Message: "first"})
	if err != nil {
		t.Fatalf("CreateCommit: %v", err)
	}
	if len(repo.Content) != 1 || repo.Content[0].Message != "first" {
		t.Errorf("unexpected content %+v", repo.Content)
	}
}

func TestToggleVisibilityEnvelope(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPatch || r.URL.Path != "/api/repo/toggle/r1" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		_, _ = w.Write([]byte(`{"repository":{"_id":"r1","visibility":true}}`))
	}))
	defer srv.Close()

	repo, err := ToggleVisibility(context.Background(), srv.Client(), srv.URL, "r1")
	if err != nil {
		t.Fatalf("ToggleVisibility: %v", err)
	}
	if !repo.Visibility {
		t.Error("visibility not flipped")
	}
}

func TestToggleVisibilityMissingEnvelope(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	_, err := ToggleVisibility(context.Background(), srv.Client(), srv.URL, "r1")
	if !apierr.Is(err, apierr.KindServer) {
		t.Fatalf("err = %v, want KindServer", err)
	}
}

func TestPushReturnsMessage(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/repo/r1/push" {
			t.Errorf("path = %s", r.URL.Path)
		}
		_, _ = w.Write([]byte(`{"message":"pushed 3 objects"}`))
	}))
	defer srv.Close()

	msg, err := Push(context.Background(), srv.Client(), srv.URL, "r1")
	if err != nil {
		t.Fatalf("Push: %v", err)
	}
	if msg != "pushed 3 objects" {
		t.Errorf("msg = %q", msg)
	}
}

func TestDeleteRepositoryAccepts204(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodDelete || r.URL.Path != "/api/repo/delete/r1" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	if err := DeleteRepository(context.Background(), srv.Client(), srv.URL, "r1"); err != nil {
		t.Fatalf("DeleteRepository: %v", err)
	}
}

func TestDeleteRepositoryForbidden(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"error":"only the owner may do that"}`))
	}))
	defer srv.Close()

	err := DeleteRepository(context.Background(), srv.Client(), srv.URL, "r1")
	if !apierr.Is(err, apierr.KindUnauthorized) {
		t.Fatalf("err = %v, want KindUnauthorized", err)
	}
}

func TestCanceledContextSkipsDispatch(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("request dispatched despite canceled context")
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := GetRepository(ctx, srv.Client(), srv.URL, "r1"); err == nil {
		t.Fatal("expected an error from a canceled context")
	}
}
