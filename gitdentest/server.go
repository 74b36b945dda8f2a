// Package gitdentest provides an in-memory fake of the gitden backend for
// tests. It implements the full REST surface the SDK consumes, with bearer
// auth and owner gating, so consumers can exercise whole flows without a
// real server.
package gitdentest

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/gitden/gitden-go/internal/types"
)

type user struct {
	ID        string
	Username  string
	Email     string
	Password  string
	AvatarURL string
	StarRepos map[string]bool
	Followers map[string]bool
	Following map[string]bool
}

// Server is the fake backend. All state lives behind one mutex; handlers are
// deliberately simple rather than fast.
type Server struct {
	mu            sync.Mutex
	users         map[string]*user
	usersByEmail  map[string]string
	repos         map[string]*types.Repository
	issues        map[string][]types.Issue
	events        []types.Event
	contributions map[string]map[string]int // userID → date → count

	secret   []byte
	http     *httptest.Server
	requests atomic.Int64
}

// NewServer starts the fake backend on a local listener.
func NewServer() *Server {
	s := &Server{
		users:         make(map[string]*user),
		usersByEmail:  make(map[string]string),
		repos:         make(map[string]*types.Repository),
		issues:        make(map[string][]types.Issue),
		contributions: make(map[string]map[string]int),
		secret:        []byte(uuid.NewString()),
	}
	s.http = httptest.NewServer(s.router())
	return s
}

// URL returns the backend origin, suitable for gitden.New.
func (s *Server) URL() string { return s.http.URL }

// Close shuts the listener down.
func (s *Server) Close() { s.http.Close() }

// Requests reports how many requests the backend has served. Tests use the
// delta around an operation to prove a locally rejected action never reached
// the network.
func (s *Server) Requests() int64 { return s.requests.Load() }

func (s *Server) router() http.Handler {
	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			s.requests.Add(1)
			next.ServeHTTP(w, req)
		})
	})
	r.Route("/api", func(r chi.Router) {
		r.Post("/user/signup", s.handleSignup)
		r.Post("/user/login", s.handleLogin)
		r.Get("/user/userProfile/{id}", s.handleUserProfile)
		r.Get("/user/{id}/starred", s.handleStarred)
		r.Get("/user/{id}/contributions", s.handleContributions)
		r.Get("/repo/public", s.handlePublicRepos)
		r.Get("/repo/user/{id}", s.handleUserRepos)
		r.Get("/repo/{id}", s.handleGetRepo)
		r.Get("/search", s.handleSearch)
		r.Get("/events/upcoming", s.handleUpcomingEvents)

		r.Group(func(r chi.Router) {
			r.Use(s.requireAuth)
			r.Put("/user/updateProfile/{id}", s.handleUpdateProfile)
			r.Post("/user/star/{id}", s.handleStar)
			r.Post("/user/unstar/{id}", s.handleUnstar)
			r.Post("/user/follow/{id}", s.handleFollow)
			r.Post("/user/unfollow/{id}", s.handleUnfollow)
			r.Post("/repo/create", s.handleCreateRepo)
			r.Post("/repo/{id}/commit", s.handleCommit)
			r.Post("/repo/{id}/push", s.handlePush)
			r.Post("/repo/{id}/pull", s.handlePull)
			r.Patch("/repo/toggle/{id}", s.handleToggleVisibility)
			r.Put("/repo/update/{id}", s.handleUpdateDescription)
			r.Delete("/repo/delete/{id}", s.handleDeleteRepo)
			r.Get("/repo/{id}/issues", s.handleListIssues)
			r.Post("/repo/{id}/issues", s.handleCreateIssue)
			r.Post("/events/create", s.handleCreateEvent)
		})
	})
	return r
}

// ------------------------- auth plumbing -------------------------

type ctxKey int

const actorKey ctxKey = 0

// requireAuth validates the bearer token and stores the acting user id on
// the request context.
func (s *Server) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		actor := s.actorID(r)
		if actor == "" {
			writeErr(w, http.StatusUnauthorized, "not authorized, please log in")
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), actorKey, actor)))
	})
}

// actorID extracts and verifies the bearer token, returning "" when absent
// or invalid. Optional-auth handlers call it directly.
func (s *Server) actorID(r *http.Request) string {
	auth := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if len(auth) <= len(prefix) || auth[:len(prefix)] != prefix {
		return ""
	}
	claims := &jwt.RegisteredClaims{}
	tok, err := jwt.ParseWithClaims(auth[len(prefix):], claims, func(*jwt.Token) (any, error) {
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !tok.Valid {
		return ""
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[claims.Subject]; !ok {
		return ""
	}
	return claims.Subject
}

func actorFrom(r *http.Request) string {
	actor, _ := r.Context().Value(actorKey).(string)
	return actor
}

// TokenFor mints a valid bearer token for userID, letting tests install a
// session without going through login.
func (s *Server) TokenFor(userID string) string {
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   userID,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(24 * time.Hour)),
	})
	signed, err := tok.SignedString(s.secret)
	if err != nil {
		panic(err)
	}
	return signed
}

// ------------------------- seeding -------------------------

// SeedUser registers a user and returns its id.
func (s *Server) SeedUser(username, email, password string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := uuid.NewString()
	s.users[id] = &user{
		ID:        id,
		Username:  username,
		Email:     email,
		Password:  password,
		StarRepos: make(map[string]bool),
		Followers: make(map[string]bool),
		Following: make(map[string]bool),
	}
	s.usersByEmail[email] = id
	return id
}

// SeedAvatar sets a user's avatar URL.
func (s *Server) SeedAvatar(userID, url string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if u, ok := s.users[userID]; ok {
		u.AvatarURL = url
	}
}

// SeedRepository creates a repository owned by ownerID and returns its id.
func (s *Server) SeedRepository(ownerID, name, description string, public bool) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	owner := s.users[ownerID]
	id := uuid.NewString()
	s.repos[id] = &types.Repository{
		ID:          id,
		Name:        name,
		Description: description,
		Visibility:  public,
		Owner:       types.RepoOwner{ID: ownerID, Username: owner.Username},
		CreatedAt:   time.Now().UTC(),
		Content:     []types.CommitRecord{},
	}
	return id
}

// SeedEvent adds an upcoming event.
func (s *Server) SeedEvent(title string, date time.Time) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := uuid.NewString()
	s.events = append(s.events, types.Event{ID: id, Title: title, EventDate: date})
	return id
}

// SeedContributions installs a pre-aggregated series for userID.
func (s *Server) SeedContributions(userID string, points []types.ContributionPoint) {
	s.mu.Lock()
	defer s.mu.Unlock()
	m := make(map[string]int, len(points))
	for _, p := range points {
		m[p.Date] += p.Count
	}
	s.contributions[userID] = m
}

// Repository returns a copy of the stored repository, for assertions.
func (s *Server) Repository(id string) (types.Repository, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.repos[id]
	if !ok {
		return types.Repository{}, false
	}
	return *r, true
}

// ------------------------- response helpers -------------------------

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeErr(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
