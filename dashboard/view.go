// Package dashboard is the controller behind the landing page. It issues
// three independent fetches (own repositories, public repositories, upcoming
// events) and keeps each region's loading/error/empty state separate, so a
// failure in one region never blocks or blanks the other two.
package dashboard

import (
	"context"
	"strings"
	"sync"

	gitden "github.com/gitden/gitden-go"
	"github.com/gitden/gitden-go/session"
)

// RepoRegion is one independently rendered repository panel. A non-empty
// ErrMsg with an empty Repos slice means "failed", which is a different
// renderable state from "empty".
type RepoRegion struct {
	Loading bool
	ErrMsg  string
	Repos   []gitden.Repository
}

// EventRegion is the upcoming-events panel.
type EventRegion struct {
	Loading bool
	ErrMsg  string
	Events  []gitden.Event
}

// View owns the dashboard's three regions.
type View struct {
	client *gitden.Client
	sess   *session.Session

	ctx    context.Context
	cancel context.CancelFunc

	mu     sync.Mutex
	closed bool
	own    RepoRegion
	public RepoRegion
	events EventRegion
}

// New constructs the dashboard controller.
func New(client *gitden.Client) *View {
	ctx, cancel := context.WithCancel(context.Background())
	return &View{
		client: client,
		sess:   client.Session(),
		ctx:    ctx,
		cancel: cancel,
		own:    RepoRegion{Loading: true},
		public: RepoRegion{Loading: true},
		events: EventRegion{Loading: true},
	}
}

// Close cancels in-flight fetches and discards late responses.
func (v *View) Close() {
	v.mu.Lock()
	v.closed = true
	v.mu.Unlock()
	v.cancel()
}

// LoggedIn reports whether there is an authenticated session. The shell
// renders a login prompt instead of the own-repos region without one.
func (v *View) LoggedIn() bool { return v.sess.LoggedIn() }

// Load runs the three fetches concurrently with no ordering guarantee
// between their completions. It returns when all three have settled.
func (v *View) Load() {
	userID := v.sess.UserID()

	var wg sync.WaitGroup
	wg.Add(3)

	go func() {
		defer wg.Done()
		if userID == "" {
			v.setOwn(RepoRegion{})
			return
		}
		repos, err := v.client.ListUserRepositories(v.ctx, userID)
		if err != nil {
			v.setOwn(RepoRegion{ErrMsg: err.Error()})
			return
		}
		v.setOwn(RepoRegion{Repos: repos})
	}()

	go func() {
		defer wg.Done()
		repos, err := v.client.ListPublicRepositories(v.ctx)
		if err != nil {
			v.setPublic(RepoRegion{ErrMsg: err.Error()})
			return
		}
		v.setPublic(RepoRegion{Repos: repos})
	}()

	go func() {
		defer wg.Done()
		events, err := v.client.ListUpcomingEvents(v.ctx)
		if err != nil {
			v.setEvents(EventRegion{ErrMsg: "could not load events"})
			return
		}
		v.setEvents(EventRegion{Events: events})
	}()

	wg.Wait()
}

func (v *View) setOwn(r RepoRegion) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.closed {
		return
	}
	v.own = r
}

func (v *View) setPublic(r RepoRegion) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.closed {
		return
	}
	v.public = r
}

func (v *View) setEvents(r EventRegion) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.closed {
		return
	}
	v.events = r
}

// OwnRepos returns the acting user's repository region.
func (v *View) OwnRepos() RepoRegion {
	v.mu.Lock()
	defer v.mu.Unlock()
	return copyRepoRegion(v.own)
}

// PublicRepos returns the suggested public repositories region.
func (v *View) PublicRepos() RepoRegion {
	v.mu.Lock()
	defer v.mu.Unlock()
	return copyRepoRegion(v.public)
}

// Events returns the upcoming-events region.
func (v *View) Events() EventRegion {
	v.mu.Lock()
	defer v.mu.Unlock()
	out := v.events
	out.Events = make([]gitden.Event, len(v.events.Events))
	copy(out.Events, v.events.Events)
	return out
}

// FilterOwn narrows the own-repos region by a case-insensitive name
// substring. An empty query returns everything. Purely client-side; no
// request is issued.
func (v *View) FilterOwn(query string) []gitden.Repository {
	region := v.OwnRepos()
	if query == "" {
		return region.Repos
	}
	q := strings.ToLower(query)
	var out []gitden.Repository
	for _, r := range region.Repos {
		if strings.Contains(strings.ToLower(r.Name), q) {
			out = append(out, r)
		}
	}
	return out
}

func copyRepoRegion(r RepoRegion) RepoRegion {
	out := r
	out.Repos = make([]gitden.Repository, len(r.Repos))
	copy(out.Repos, r.Repos)
	return out
}
