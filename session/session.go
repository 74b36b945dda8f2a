// Package session holds the process-wide authentication state: the current
// user id, bearer token and avatar URL. It is written only by the auth flow
// (login, signup, logout) and read by everything else; dependents observe
// changes through Subscribe rather than polling.
package session

import (
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/gitden/gitden-go/internal/apierr"
)

// Snapshot is an immutable copy of the session state. The zero value means
// logged out.
type Snapshot struct {
	UserID    string
	Token     string
	AvatarURL string
}

// LoggedIn reports whether the snapshot carries usable credentials.
func (s Snapshot) LoggedIn() bool { return s.UserID != "" && s.Token != "" }

// Store persists session state between runs. Clear must remove all fields
// atomically so a crash mid-logout can never leave a partial session behind.
type Store interface {
	Load() (Snapshot, error)
	Save(Snapshot) error
	Clear() error
}

// Session is the single-writer, multi-reader holder. Reads are cheap copies;
// writes persist to the store first and then notify subscribers.
type Session struct {
	mu      sync.RWMutex
	cur     Snapshot
	store   Store
	subs    map[int]func(Snapshot)
	nextSub int
}

// New constructs a Session populated from the store. A store with no saved
// state yields a logged-out session, not an error.
func New(store Store) (*Session, error) {
	snap, err := store.Load()
	if err != nil {
		return nil, err
	}
	return &Session{cur: snap, store: store, subs: make(map[int]func(Snapshot))}, nil
}

// NewInMemory returns a Session backed by a volatile store.
func NewInMemory() *Session {
	s, _ := New(NewMemStore())
	return s
}

// Current returns a copy of the session state.
func (s *Session) Current() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cur
}

// UserID returns the current user id, or "" when logged out.
func (s *Session) UserID() string { return s.Current().UserID }

// Token returns the current bearer token, or "" when logged out.
func (s *Session) Token() string { return s.Current().Token }

// LoggedIn reports whether a user is authenticated.
func (s *Session) LoggedIn() bool { return s.Current().LoggedIn() }

// SetCredentials installs the snapshot returned by login or signup,
// persisting it before any subscriber observes the change.
func (s *Session) SetCredentials(snap Snapshot) error {
	if err := s.store.Save(snap); err != nil {
		return err
	}
	s.mu.Lock()
	s.cur = snap
	s.mu.Unlock()
	s.notify(snap)
	return nil
}

// SetAvatarURL updates only the avatar field, keeping credentials intact.
// The navbar subscribes to pick this up after a settings-page change.
func (s *Session) SetAvatarURL(url string) error {
	s.mu.Lock()
	snap := s.cur
	snap.AvatarURL = url
	if err := s.store.Save(snap); err != nil {
		s.mu.Unlock()
		return err
	}
	s.cur = snap
	s.mu.Unlock()
	s.notify(snap)
	return nil
}

// Clear logs out: the store wipes all fields atomically, then subscribers
// see the zero snapshot.
func (s *Session) Clear() error {
	if err := s.store.Clear(); err != nil {
		return err
	}
	s.mu.Lock()
	s.cur = Snapshot{}
	s.mu.Unlock()
	s.notify(Snapshot{})
	return nil
}

// Subscribe registers fn to run on every session change. The returned cancel
// function removes the subscription; it is safe to call more than once.
func (s *Session) Subscribe(fn func(Snapshot)) (cancel func()) {
	s.mu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	s.mu.Unlock()
	return func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	}
}

func (s *Session) notify(snap Snapshot) {
	s.mu.RLock()
	fns := make([]func(Snapshot), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.mu.RUnlock()
	for _, fn := range fns {
		fn(snap)
	}
}

// RequireAuth returns an Unauthenticated error when the session is absent or
// its token has visibly expired, so mutations fail fast before any network
// dispatch. Tokens that are not parseable JWTs are left for the server to
// judge.
func (s *Session) RequireAuth() error {
	snap := s.Current()
	if !snap.LoggedIn() {
		return apierr.Unauthenticated("not logged in")
	}
	claims := &jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(snap.Token, claims); err != nil {
		return nil // opaque token; the server is the authority
	}
	if claims.ExpiresAt != nil && claims.ExpiresAt.Before(time.Now()) {
		return apierr.Unauthenticated("session expired, please log in again")
	}
	return nil
}
