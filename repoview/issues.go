package repoview

import (
	"context"
	"strings"
	"sync"

	gitden "github.com/gitden/gitden-go"
	"github.com/gitden/gitden-go/internal/apierr"
	"github.com/gitden/gitden-go/session"
)

// Issues is the controller behind a repository's issues page. The list is
// append-only and always re-fetched after a successful creation so ordering
// and ids stay server-assigned; there is no optimistic insert.
type Issues struct {
	client *gitden.Client
	sess   *session.Session
	repoID string

	ctx    context.Context
	cancel context.CancelFunc

	mu      sync.Mutex
	closed  bool
	loaded  bool
	issues  []gitden.Issue
	errMsg  string
	pending bool
}

// NewIssues constructs the issues controller for repoID.
func NewIssues(client *gitden.Client, repoID string) *Issues {
	ctx, cancel := context.WithCancel(context.Background())
	return &Issues{
		client: client,
		sess:   client.Session(),
		repoID: repoID,
		ctx:    ctx,
		cancel: cancel,
	}
}

// Close cancels in-flight work and discards late responses.
func (i *Issues) Close() {
	i.mu.Lock()
	i.closed = true
	i.mu.Unlock()
	i.cancel()
}

// List returns a copy of the loaded issues. A failed load yields an empty
// list plus a visible message; callers distinguish it from an empty result
// through ErrorMessage.
func (i *Issues) List() []gitden.Issue {
	i.mu.Lock()
	defer i.mu.Unlock()
	out := make([]gitden.Issue, len(i.issues))
	copy(out, i.issues)
	return out
}

// ErrorMessage returns the last failure as a user-visible string.
func (i *Issues) ErrorMessage() string {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.errMsg
}

// Loaded reports whether at least one fetch has completed.
func (i *Issues) Loaded() bool {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.loaded
}

// Load fetches the issue list. Viewing requires a login; the failure
// degrades to an empty list with a message, never a crash.
func (i *Issues) Load() error {
	if err := i.sess.RequireAuth(); err != nil {
		i.mu.Lock()
		i.loaded = true
		i.issues = nil
		i.errMsg = "please log in to view issues"
		i.mu.Unlock()
		return err
	}
	list, err := i.client.ListIssues(i.ctx, i.repoID)
	i.mu.Lock()
	defer i.mu.Unlock()
	if i.closed {
		return nil
	}
	i.loaded = true
	if err != nil {
		i.issues = nil
		i.errMsg = err.Error()
		return err
	}
	i.issues = list
	i.errMsg = ""
	return nil
}

// Create opens a new issue and re-fetches the list on success. Blank content
// is rejected before any network dispatch.
func (i *Issues) Create(content string) error {
	if strings.TrimSpace(content) == "" {
		return apierr.Validation("issue content cannot be empty")
	}
	if err := i.sess.RequireAuth(); err != nil {
		i.mu.Lock()
		i.errMsg = "please log in to create issues"
		i.mu.Unlock()
		return err
	}
	i.mu.Lock()
	if i.pending {
		i.mu.Unlock()
		return ErrInFlight
	}
	i.pending = true
	i.errMsg = ""
	i.mu.Unlock()
	defer func() {
		i.mu.Lock()
		i.pending = false
		i.mu.Unlock()
	}()

	if _, err := i.client.CreateIssue(i.ctx, i.repoID, gitden.CreateIssueRequest{Content: content}); err != nil {
		i.mu.Lock()
		if !i.closed {
			i.errMsg = err.Error()
		}
		i.mu.Unlock()
		return err
	}
	return i.Load()
}
