// Package repoview is the controller behind one repository detail view. It
// mediates every write against a single repository id, enforcing
// authentication and ownership before dispatch and reconciling the local
// snapshot against the server's authoritative response afterwards.
//
// Each View owns its snapshot exclusively; cross-view consistency comes from
// re-fetching on navigation, never from shared mutable state.
package repoview

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	gitden "github.com/gitden/gitden-go"
	"github.com/gitden/gitden-go/internal/apierr"
	"github.com/gitden/gitden-go/session"
)

// State is the lifecycle of a repository view.
type State int

const (
	// StateLoading is the initial fetch.
	StateLoading State = iota
	// StateReady holds a snapshot; mutation failures re-enter Ready with a
	// transient error annotation rather than leaving it.
	StateReady
	// StateFailed is terminal: the initial load failed and there is no
	// snapshot. Retry means remounting a fresh View.
	StateFailed
	// StateClosed means the view unmounted; late responses are discarded.
	StateClosed
)

// Navigator moves the user to another route. The shell supplies it; the
// controller calls it after commits (back to the detail view) and deletes
// (away from the dead id).
type Navigator interface {
	Navigate(path string)
}

// NavigatorFunc adapts a function to the Navigator interface.
type NavigatorFunc func(string)

// Navigate calls f.
func (f NavigatorFunc) Navigate(path string) { f(path) }

// ErrInFlight is returned when an operation is re-triggered while a previous
// dispatch for the same control is still pending. The UI disables the
// control; this is the defense behind it.
var ErrInFlight = errors.New("operation already in flight")

// ErrDeleteCanceled is returned when the confirmation step declined the
// deletion. No request is dispatched.
var ErrDeleteCanceled = errors.New("deletion not confirmed")

// View owns the state of one repository detail page.
type View struct {
	client *gitden.Client
	sess   *session.Session
	nav    Navigator
	repoID string
	viewID string // correlation id for logs

	ctx    context.Context
	cancel context.CancelFunc

	mu        sync.Mutex
	state     State
	snapshot  *gitden.Repository
	isStarred bool
	errMsg    string // transient annotation; cleared on the next action
	loadErr   error  // set only when state is StateFailed

	editing bool
	draft   string

	lastMessage string // terminal push/pull message
	pending     map[string]bool
}

// New constructs the controller for repoID. Call Load before reading the
// snapshot and Close when the view unmounts.
func New(client *gitden.Client, nav Navigator, repoID string) *View {
	ctx, cancel := context.WithCancel(context.Background())
	if nav == nil {
		nav = NavigatorFunc(func(string) {})
	}
	return &View{
		client:  client,
		sess:    client.Session(),
		nav:     nav,
		repoID:  repoID,
		viewID:  uuid.NewString(),
		ctx:     ctx,
		cancel:  cancel,
		state:   StateLoading,
		pending: make(map[string]bool),
	}
}

// Close cancels in-flight work. Responses that arrive afterwards are
// discarded instead of written to a dead view. Safe to call more than once.
func (v *View) Close() {
	v.mu.Lock()
	v.state = StateClosed
	v.mu.Unlock()
	v.cancel()
}

// RepoID returns the repository id this view mediates.
func (v *View) RepoID() string { return v.repoID }

// State returns the current lifecycle state.
func (v *View) State() State {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.state
}

// Snapshot returns a copy of the repository snapshot and whether one is
// loaded.
func (v *View) Snapshot() (gitden.Repository, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.snapshot == nil {
		return gitden.Repository{}, false
	}
	return *v.snapshot, true
}

// IsStarred reports whether the acting user has this repository starred.
func (v *View) IsStarred() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.isStarred
}

// ErrorMessage returns the transient error annotation, "" when none.
func (v *View) ErrorMessage() string {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.errMsg
}

// LastMessage returns the terminal message of the most recent push or pull.
func (v *View) LastMessage() string {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.lastMessage
}

// IsOwner reports whether the acting session owns the loaded repository.
// False while loading, logged out, or for anyone else's repository.
func (v *View) IsOwner() bool {
	userID := v.sess.UserID()
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.snapshot != nil && userID != "" && v.snapshot.Owner.ID == userID
}

// Load performs the initial fetch: the repository and, when logged in, the
// acting user's profile (for the starred set), concurrently. An initial
// failure is terminal; a refresh failure keeps the existing snapshot and
// annotates it.
func (v *View) Load() error {
	userID := v.sess.UserID()

	var (
		wg      sync.WaitGroup
		repo    *gitden.Repository
		profile *gitden.UserProfile
		repoErr error
	)
	wg.Add(1)
	go func() {
		defer wg.Done()
		repo, repoErr = v.client.GetRepository(v.ctx, v.repoID)
	}()
	if userID != "" {
		wg.Add(1)
		go func() {
			defer wg.Done()
			// A profile failure only loses the starred marker, not the page.
			p, err := v.client.GetUserProfile(v.ctx, userID)
			if err != nil {
				log.Debug().Err(err).Str("view_id", v.viewID).Msg("repoview: profile fetch failed")
				return
			}
			profile = p
		}()
	}
	wg.Wait()

	v.mu.Lock()
	defer v.mu.Unlock()
	if v.state == StateClosed {
		return nil
	}
	if repoErr != nil {
		if v.state == StateLoading {
			v.state = StateFailed
			v.loadErr = repoErr
		} else {
			v.errMsg = repoErr.Error()
		}
		return repoErr
	}
	v.state = StateReady
	v.snapshot = repo
	v.errMsg = ""
	if !v.editing {
		v.draft = repo.Description
	}
	v.isStarred = profile != nil && profile.IsStarred(v.repoID)
	return nil
}

// begin marks op pending, failing when it already is or the view is closed.
func (v *View) begin(op string) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.state == StateClosed {
		return v.ctx.Err()
	}
	if v.pending[op] {
		return ErrInFlight
	}
	v.pending[op] = true
	v.errMsg = ""
	return nil
}

// finish clears the pending flag and applies fn unless the view closed while
// the request was in flight.
func (v *View) finish(op string, fn func()) {
	v.mu.Lock()
	defer v.mu.Unlock()
	delete(v.pending, op)
	if v.state == StateClosed {
		return
	}
	if fn != nil {
		fn()
	}
}

// fail records err as the transient annotation and returns it.
func (v *View) fail(op string, err error) error {
	v.finish(op, func() { v.errMsg = err.Error() })
	return err
}

// requireOwner re-checks the ownership predicate at the controller boundary.
// The UI hides owner-only controls, but any code path that bypasses it must
// still be rejected here before a request is built.
func (v *View) requireOwner() error {
	if err := v.sess.RequireAuth(); err != nil {
		return err
	}
	if !v.IsOwner() {
		return apierr.Unauthorized("you are not the owner of this repository")
	}
	return nil
}

// CreateCommit validates and dispatches a commit. On success the view
// navigates back to the repository detail route instead of patching the
// snapshot in place; the remounted detail view re-fetches, giving a
// server-authoritative refresh.
func (v *View) CreateCommit(message, content string) error {
	if err := v.sess.RequireAuth(); err != nil {
		v.mu.Lock()
		v.errMsg = err.Error()
		v.mu.Unlock()
		return err
	}
	message = strings.TrimSpace(message)
	if message == "" {
		err := apierr.Validation("commit message cannot be empty")
		v.mu.Lock()
		v.errMsg = err.Error()
		v.mu.Unlock()
		return err
	}
	if err := v.begin("commit"); err != nil {
		return err
	}
	req := gitden.CreateCommitRequest{Message: message, Content: content, UserID: v.sess.UserID()}
	if _, err := v.client.CreateCommit(v.ctx, v.repoID, req); err != nil {
		return v.fail("commit", err)
	}
	v.finish("commit", nil)
	v.nav.Navigate("/repo/" + v.repoID)
	return nil
}

// Push triggers a server-side push. No snapshot change; only a terminal
// message or error. A second trigger while pending is suppressed.
func (v *View) Push() error { return v.trigger("push", v.client.Push) }

// Pull triggers a server-side pull, same rules as Push.
func (v *View) Pull() error { return v.trigger("pull", v.client.Pull) }

func (v *View) trigger(op string, call func(context.Context, string) (string, error)) error {
	if err := v.sess.RequireAuth(); err != nil {
		v.mu.Lock()
		v.errMsg = err.Error()
		v.mu.Unlock()
		return err
	}
	if err := v.begin(op); err != nil {
		return err
	}
	msg, err := call(v.ctx, v.repoID)
	if err != nil {
		return v.fail(op, err)
	}
	v.finish(op, func() { v.lastMessage = msg })
	return nil
}

// ToggleVisibility flips public/private. Owner-only; on success the entire
// snapshot is replaced with the repository the server returned.
func (v *View) ToggleVisibility() error {
	if err := v.requireOwner(); err != nil {
		v.mu.Lock()
		v.errMsg = err.Error()
		v.mu.Unlock()
		return err
	}
	if err := v.begin("visibility"); err != nil {
		return err
	}
	repo, err := v.client.ToggleVisibility(v.ctx, v.repoID)
	if err != nil {
		return v.fail("visibility", err)
	}
	v.finish("visibility", func() {
		v.snapshot = repo
		if !v.editing {
			v.draft = repo.Description
		}
	})
	return nil
}

// Delete removes the repository after the confirmation step approves it. On
// success the view navigates away from the now-invalid id; on failure the
// snapshot is left untouched.
func (v *View) Delete(confirm func() bool) error {
	if err := v.requireOwner(); err != nil {
		v.mu.Lock()
		v.errMsg = err.Error()
		v.mu.Unlock()
		return err
	}
	if confirm == nil || !confirm() {
		return ErrDeleteCanceled
	}
	if err := v.begin("delete"); err != nil {
		return err
	}
	if err := v.client.DeleteRepository(v.ctx, v.repoID); err != nil {
		return v.fail("delete", err)
	}
	v.finish("delete", nil)
	v.nav.Navigate("/")
	return nil
}

// ToggleStar stars or unstars based on the current boolean. Any
// authenticated user may star; on success the boolean flips optimistically
// with no re-fetch (star count is not rendered on this view, so the boolean
// is the only observable effect). On failure it is left unchanged.
func (v *View) ToggleStar() error {
	if err := v.sess.RequireAuth(); err != nil {
		v.mu.Lock()
		v.errMsg = "please log in to star repositories"
		v.mu.Unlock()
		return err
	}
	if err := v.begin("star"); err != nil {
		return err
	}
	v.mu.Lock()
	starred := v.isStarred
	v.mu.Unlock()

	var err error
	if starred {
		err = v.client.Unstar(v.ctx, v.repoID)
	} else {
		err = v.client.Star(v.ctx, v.repoID)
	}
	if err != nil {
		return v.fail("star", err)
	}
	v.finish("star", func() { v.isStarred = !starred })
	return nil
}
