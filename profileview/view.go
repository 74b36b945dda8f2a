// Package profileview is the controller behind a user profile page: profile
// details, the follow relationship, and the lazily-fetched starred tab.
//
// Follow state is deliberately pessimistic: a successful toggle re-fetches
// the whole profile for server-computed counts instead of incrementing
// locally, so a partial server-side failure can never leave the counters
// drifted. This is the counterpart of the star toggle's optimism in
// repoview, and the asymmetry is intentional.
package profileview

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	gitden "github.com/gitden/gitden-go"
	"github.com/gitden/gitden-go/internal/apierr"
	"github.com/gitden/gitden-go/session"
)

// ErrSelfFollow is returned when the acting user tries to follow themselves.
// No request is dispatched.
var ErrSelfFollow = errors.New("cannot follow yourself")

// ErrInFlight is returned when a toggle is re-triggered while pending.
var ErrInFlight = errors.New("operation already in flight")

// View owns the state of one profile page.
type View struct {
	client    *gitden.Client
	sess      *session.Session
	subjectID string
	viewID    string

	ctx    context.Context
	cancel context.CancelFunc

	mu          sync.Mutex
	closed      bool
	profile     *gitden.UserProfile
	isFollowing bool
	errMsg      string
	pending     bool

	// starred is nil until the tab's first open; an empty fetch result
	// becomes a non-nil empty slice. The sentinel is what makes the lazy
	// fetch exactly-once.
	starred        []gitden.Repository
	starredLoading bool
}

// New constructs the controller for subjectID's profile. An empty subjectID
// means the acting user's own profile.
func New(client *gitden.Client, subjectID string) *View {
	if subjectID == "" {
		subjectID = client.Session().UserID()
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &View{
		client:    client,
		sess:      client.Session(),
		subjectID: subjectID,
		viewID:    uuid.NewString(),
		ctx:       ctx,
		cancel:    cancel,
	}
}

// Close cancels in-flight work and discards late responses.
func (v *View) Close() {
	v.mu.Lock()
	v.closed = true
	v.mu.Unlock()
	v.cancel()
}

// SubjectID returns the profile's user id.
func (v *View) SubjectID() string { return v.subjectID }

// IsOwnProfile reports whether the viewer is looking at their own profile.
func (v *View) IsOwnProfile() bool {
	return v.sess.UserID() != "" && v.sess.UserID() == v.subjectID
}

// Profile returns a copy of the loaded profile and whether one is loaded.
func (v *View) Profile() (gitden.UserProfile, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.profile == nil {
		return gitden.UserProfile{}, false
	}
	return *v.profile, true
}

// IsFollowing reports the server-confirmed follow relationship.
func (v *View) IsFollowing() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.isFollowing
}

// ErrorMessage returns the last failure as a user-visible string.
func (v *View) ErrorMessage() string {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.errMsg
}

// Load fetches the profile. When it is the viewer's own profile, the session
// avatar is refreshed so the navbar (a session subscriber) picks up changes.
func (v *View) Load() error {
	if v.subjectID == "" {
		err := apierr.New(apierr.KindNotFound, "user id could not be determined")
		v.mu.Lock()
		v.errMsg = err.Error()
		v.mu.Unlock()
		return err
	}
	profile, err := v.client.GetUserProfile(v.ctx, v.subjectID)

	v.mu.Lock()
	if v.closed {
		v.mu.Unlock()
		return nil
	}
	if err != nil {
		v.errMsg = err.Error()
		v.mu.Unlock()
		return err
	}
	v.profile = profile
	v.isFollowing = profile.IsFollowing
	v.errMsg = ""
	v.mu.Unlock()

	if v.IsOwnProfile() && profile.AvatarURL != v.sess.Current().AvatarURL {
		if err := v.sess.SetAvatarURL(profile.AvatarURL); err != nil {
			log.Debug().Err(err).Str("view_id", v.viewID).Msg("profileview: avatar persist failed")
		}
	}
	return nil
}

// ToggleFollow follows or unfollows the subject. Self-follow is rejected
// without dispatch. On success the whole profile is re-fetched rather than
// counting locally; a refresh failure after a confirmed toggle is surfaced
// as its own error since the counts on screen are now stale.
func (v *View) ToggleFollow() error {
	if err := v.sess.RequireAuth(); err != nil {
		v.mu.Lock()
		v.errMsg = err.Error()
		v.mu.Unlock()
		return err
	}
	if v.subjectID == v.sess.UserID() {
		return ErrSelfFollow
	}

	v.mu.Lock()
	if v.pending {
		v.mu.Unlock()
		return ErrInFlight
	}
	v.pending = true
	v.errMsg = ""
	following := v.isFollowing
	v.mu.Unlock()
	defer func() {
		v.mu.Lock()
		v.pending = false
		v.mu.Unlock()
	}()

	var err error
	if following {
		_, err = v.client.Unfollow(v.ctx, v.subjectID)
	} else {
		_, err = v.client.Follow(v.ctx, v.subjectID)
	}
	if err != nil {
		v.mu.Lock()
		if !v.closed {
			v.errMsg = err.Error()
		}
		v.mu.Unlock()
		return err
	}
	if err := v.Load(); err != nil {
		v.mu.Lock()
		if !v.closed {
			v.errMsg = "failed to refresh profile after follow action"
		}
		v.mu.Unlock()
		return err
	}
	return nil
}

// Logout clears the persisted session; subscribers (navbar, route guard)
// observe the zero snapshot.
func (v *View) Logout() error { return v.client.Logout() }
