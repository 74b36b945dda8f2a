// Package gitden is a Go client for a gitden source-hosting backend:
// repositories, commits, issues, stars, follows and contribution series.
//
// The Client is a thin, stateless translation layer over the REST API; view
// state (snapshots, pending flags, optimistic toggles) lives in the
// controller packages (repoview, profileview, dashboard, explore), each of
// which owns an independent snapshot for the lifetime of one view.
package gitden

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gitden/gitden-go/internal/api"
	"github.com/gitden/gitden-go/session"
)

// Client core.
type Client struct {
	baseURL string
	http    *http.Client
	sess    *session.Session
}

// New constructs a Client against baseURL, reading bearer credentials from
// sess on every request. Additional options can be provided via functional
// arguments. A nil sess gets a volatile in-memory session.
func New(baseURL string, sess *session.Session, opts ...Option) (*Client, error) {
	if baseURL == "" {
		return nil, errEmptyBaseURL
	}
	if sess == nil {
		sess = session.NewInMemory()
	}

	c := &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		sess:    sess,
		http:    &http.Client{Timeout: 30 * time.Second},
	}

	// Auto-enable debug via env variable without changing code.
	if debugLoggingRequested() {
		opts = append(opts, WithDebugLogging(true))
	}

	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}

	// Wrap the transport so the session's bearer token (when present) rides
	// on every request. Installed last so it sits above debug/rate wrappers.
	c.wrapTransportWithSession()

	return c, nil
}

// Session returns the session holder this client reads credentials from.
func (c *Client) Session() *session.Session { return c.sess }

// wrapTransportWithSession wraps the HTTP client's transport to add the
// Authorization header from the live session. Requests made while logged out
// carry no header; endpoints with optional auth rely on that.
func (c *Client) wrapTransportWithSession() {
	baseTransport := c.http.Transport
	if baseTransport == nil {
		baseTransport = http.DefaultTransport
	}
	c.http.Transport = &sessionTransport{
		base: baseTransport,
		sess: c.sess,
	}
}

// sessionTransport wraps an http.RoundTripper to add the Authorization
// header from the current session snapshot, re-read per request so a login
// or logout takes effect immediately.
type sessionTransport struct {
	base http.RoundTripper
	sess *session.Session
}

func (t *sessionTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	token := t.sess.Token()
	if token == "" {
		return t.base.RoundTrip(req)
	}
	cloned := req.Clone(req.Context())
	cloned.Header.Set("Authorization", "Bearer "+token)
	return t.base.RoundTrip(cloned)
}

// --------------------------------------------------------------------
// Auth operations
// --------------------------------------------------------------------

// Login exchanges credentials for a session and installs it into the session
// holder, which persists it and notifies subscribers.
func (c *Client) Login(ctx context.Context, email, password string) (session.Snapshot, error) {
	ar, err := api.Login(ctx, c.http, c.baseURL, LoginRequest{Email: email, Password: password})
	if err != nil {
		observe("login", err)
		return session.Snapshot{}, err
	}
	snap := session.Snapshot{UserID: ar.UserID, Token: ar.Token, AvatarURL: ar.AvatarURL}
	if err := c.sess.SetCredentials(snap); err != nil {
		return session.Snapshot{}, err
	}
	observe("login", nil)
	return snap, nil
}

// Signup registers an account and logs it in, same flow as Login.
func (c *Client) Signup(ctx context.Context, username, email, password string) (session.Snapshot, error) {
	ar, err := api.Signup(ctx, c.http, c.baseURL, SignupRequest{Username: username, Email: email, Password: password})
	if err != nil {
		observe("signup", err)
		return session.Snapshot{}, err
	}
	snap := session.Snapshot{UserID: ar.UserID, Token: ar.Token, AvatarURL: ar.AvatarURL}
	if err := c.sess.SetCredentials(snap); err != nil {
		return session.Snapshot{}, err
	}
	observe("signup", nil)
	return snap, nil
}

// Logout clears the persisted session atomically.
func (c *Client) Logout() error { return c.sess.Clear() }

// --------------------------------------------------------------------
// Repository operations - delegated to internal/api
// --------------------------------------------------------------------

// GetRepository retrieves one repository snapshot.
func (c *Client) GetRepository(ctx context.Context, repoID string) (*Repository, error) {
	r, err := api.GetRepository(ctx, c.http, c.baseURL, repoID)
	observe("get_repository", err)
	return r, err
}

// CreateRepository creates a repository and returns its id.
func (c *Client) CreateRepository(ctx context.Context, req CreateRepositoryRequest) (string, error) {
	id, err := api.CreateRepository(ctx, c.http, c.baseURL, req)
	observe("create_repository", err)
	return id, err
}

// ListPublicRepositories returns every public repository.
func (c *Client) ListPublicRepositories(ctx context.Context) ([]Repository, error) {
	rs, err := api.ListPublicRepositories(ctx, c.http, c.baseURL)
	observe("list_public_repositories", err)
	return rs, err
}

// ListUserRepositories returns the repositories owned by userID.
func (c *Client) ListUserRepositories(ctx context.Context, userID string) ([]Repository, error) {
	rs, err := api.ListUserRepositories(ctx, c.http, c.baseURL, userID)
	observe("list_user_repositories", err)
	return rs, err
}

// CreateCommit appends a commit and returns the updated repository.
func (c *Client) CreateCommit(ctx context.Context, repoID string, req CreateCommitRequest) (*Repository, error) {
	r, err := api.CreateCommit(ctx, c.http, c.baseURL, repoID, req)
	observe("create_commit", err)
	return r, err
}

// Push triggers a server-side push and returns its message.
func (c *Client) Push(ctx context.Context, repoID string) (string, error) {
	msg, err := api.Push(ctx, c.http, c.baseURL, repoID)
	observe("push", err)
	return msg, err
}

// Pull triggers a server-side pull and returns its message.
func (c *Client) Pull(ctx context.Context, repoID string) (string, error) {
	msg, err := api.Pull(ctx, c.http, c.baseURL, repoID)
	observe("pull", err)
	return msg, err
}

// ToggleVisibility flips public/private and returns the updated repository.
func (c *Client) ToggleVisibility(ctx context.Context, repoID string) (*Repository, error) {
	r, err := api.ToggleVisibility(ctx, c.http, c.baseURL, repoID)
	observe("toggle_visibility", err)
	return r, err
}

// UpdateDescription replaces the description and returns the updated
// repository.
func (c *Client) UpdateDescription(ctx context.Context, repoID, description string) (*Repository, error) {
	r, err := api.UpdateDescription(ctx, c.http, c.baseURL, repoID, description)
	observe("update_description", err)
	return r, err
}

// DeleteRepository removes the repository.
func (c *Client) DeleteRepository(ctx context.Context, repoID string) error {
	err := api.DeleteRepository(ctx, c.http, c.baseURL, repoID)
	observe("delete_repository", err)
	return err
}

// --------------------------------------------------------------------
// Social-graph operations - delegated to internal/api
// --------------------------------------------------------------------

// Star adds repoID to the acting user's starred set.
func (c *Client) Star(ctx context.Context, repoID string) error {
	err := api.Star(ctx, c.http, c.baseURL, repoID)
	observe("star", err)
	return err
}

// Unstar removes repoID from the acting user's starred set.
func (c *Client) Unstar(ctx context.Context, repoID string) error {
	err := api.Unstar(ctx, c.http, c.baseURL, repoID)
	observe("unstar", err)
	return err
}

// Follow subscribes the acting user to subjectID.
func (c *Client) Follow(ctx context.Context, subjectID string) (string, error) {
	msg, err := api.Follow(ctx, c.http, c.baseURL, subjectID)
	observe("follow", err)
	return msg, err
}

// Unfollow removes the acting user's subscription to subjectID.
func (c *Client) Unfollow(ctx context.Context, subjectID string) (string, error) {
	msg, err := api.Unfollow(ctx, c.http, c.baseURL, subjectID)
	observe("unfollow", err)
	return msg, err
}

// ListStarred returns the repositories userID has starred.
func (c *Client) ListStarred(ctx context.Context, userID string) ([]Repository, error) {
	rs, err := api.ListStarred(ctx, c.http, c.baseURL, userID)
	observe("list_starred", err)
	return rs, err
}

// --------------------------------------------------------------------
// User operations - delegated to internal/api
// --------------------------------------------------------------------

// GetUserProfile retrieves a user profile, including follower counts and the
// acting user's starred set when authenticated.
func (c *Client) GetUserProfile(ctx context.Context, userID string) (*UserProfile, error) {
	up, err := api.GetUserProfile(ctx, c.http, c.baseURL, userID)
	observe("get_user_profile", err)
	return up, err
}

// UpdateProfile applies settings-page edits and returns the updated profile.
func (c *Client) UpdateProfile(ctx context.Context, userID string, req UpdateProfileRequest) (*UserProfile, error) {
	up, err := api.UpdateProfile(ctx, c.http, c.baseURL, userID, req)
	observe("update_profile", err)
	return up, err
}

// Contributions returns the pre-aggregated per-day activity series.
func (c *Client) Contributions(ctx context.Context, userID string) ([]ContributionPoint, error) {
	ps, err := api.Contributions(ctx, c.http, c.baseURL, userID)
	observe("contributions", err)
	return ps, err
}

// --------------------------------------------------------------------
// Issue, event and search operations - delegated to internal/api
// --------------------------------------------------------------------

// ListIssues returns a repository's issues, server-ordered.
func (c *Client) ListIssues(ctx context.Context, repoID string) ([]Issue, error) {
	is, err := api.ListIssues(ctx, c.http, c.baseURL, repoID)
	observe("list_issues", err)
	return is, err
}

// CreateIssue opens a new issue on the repository.
func (c *Client) CreateIssue(ctx context.Context, repoID string, req CreateIssueRequest) (*Issue, error) {
	i, err := api.CreateIssue(ctx, c.http, c.baseURL, repoID, req)
	observe("create_issue", err)
	return i, err
}

// ListUpcomingEvents returns the dashboard's upcoming events.
func (c *Client) ListUpcomingEvents(ctx context.Context) ([]Event, error) {
	es, err := api.ListUpcomingEvents(ctx, c.http, c.baseURL)
	observe("list_upcoming_events", err)
	return es, err
}

// CreateEvent schedules a new event.
func (c *Client) CreateEvent(ctx context.Context, req CreateEventRequest) (*Event, error) {
	e, err := api.CreateEvent(ctx, c.http, c.baseURL, req)
	observe("create_event", err)
	return e, err
}

// Search runs a server-side search over users and repositories.
func (c *Client) Search(ctx context.Context, query string) (*SearchResults, error) {
	sr, err := api.Search(ctx, c.http, c.baseURL, query)
	observe("search", err)
	return sr, err
}
