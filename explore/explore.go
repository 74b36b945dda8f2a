// Package explore holds the controllers behind the public-repository listing
// and the search results page. Both degrade to an empty collection with a
// visible message on failure; "failed" and "empty" stay distinct states.
package explore

import (
	"context"
	"strings"
	"sync"

	gitden "github.com/gitden/gitden-go"
)

// PublicView lists every public repository.
type PublicView struct {
	client *gitden.Client

	ctx    context.Context
	cancel context.CancelFunc

	mu      sync.Mutex
	closed  bool
	loading bool
	errMsg  string
	repos   []gitden.Repository
}

// NewPublic constructs the explore controller.
func NewPublic(client *gitden.Client) *PublicView {
	ctx, cancel := context.WithCancel(context.Background())
	return &PublicView{client: client, ctx: ctx, cancel: cancel, loading: true}
}

// Close cancels in-flight work and discards late responses.
func (v *PublicView) Close() {
	v.mu.Lock()
	v.closed = true
	v.mu.Unlock()
	v.cancel()
}

// Load fetches the public repositories.
func (v *PublicView) Load() error {
	repos, err := v.client.ListPublicRepositories(v.ctx)
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.closed {
		return nil
	}
	v.loading = false
	if err != nil {
		v.repos = nil
		v.errMsg = err.Error()
		return err
	}
	v.repos = repos
	v.errMsg = ""
	return nil
}

// Repos returns a copy of the loaded repositories.
func (v *PublicView) Repos() []gitden.Repository {
	v.mu.Lock()
	defer v.mu.Unlock()
	out := make([]gitden.Repository, len(v.repos))
	copy(out, v.repos)
	return out
}

// Loading reports whether the initial fetch has settled.
func (v *PublicView) Loading() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.loading
}

// ErrorMessage returns the last failure as a user-visible string.
func (v *PublicView) ErrorMessage() string {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.errMsg
}

// SearchView holds the results of one query.
type SearchView struct {
	client *gitden.Client
	query  string

	ctx    context.Context
	cancel context.CancelFunc

	mu      sync.Mutex
	closed  bool
	loading bool
	errMsg  string
	results gitden.SearchResults
}

// NewSearch constructs the controller for one query string.
func NewSearch(client *gitden.Client, query string) *SearchView {
	ctx, cancel := context.WithCancel(context.Background())
	return &SearchView{client: client, query: strings.TrimSpace(query), ctx: ctx, cancel: cancel, loading: true}
}

// Close cancels in-flight work and discards late responses.
func (v *SearchView) Close() {
	v.mu.Lock()
	v.closed = true
	v.mu.Unlock()
	v.cancel()
}

// Query returns the trimmed query this view was built for.
func (v *SearchView) Query() string { return v.query }

// Load runs the search. An empty query yields empty results with no request.
func (v *SearchView) Load() error {
	if v.query == "" {
		v.mu.Lock()
		v.loading = false
		v.results = gitden.SearchResults{}
		v.mu.Unlock()
		return nil
	}
	res, err := v.client.Search(v.ctx, v.query)
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.closed {
		return nil
	}
	v.loading = false
	if err != nil {
		v.results = gitden.SearchResults{}
		v.errMsg = err.Error()
		return err
	}
	v.results = *res
	v.errMsg = ""
	return nil
}

// Results returns the loaded result families.
func (v *SearchView) Results() gitden.SearchResults {
	v.mu.Lock()
	defer v.mu.Unlock()
	out := gitden.SearchResults{
		Users:        make([]gitden.UserSummary, len(v.results.Users)),
		Repositories: make([]gitden.Repository, len(v.results.Repositories)),
	}
	copy(out.Users, v.results.Users)
	copy(out.Repositories, v.results.Repositories)
	return out
}

// TotalResults is the combined size of both result families.
func (v *SearchView) TotalResults() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return len(v.results.Users) + len(v.results.Repositories)
}

// Loading reports whether the fetch has settled.
func (v *SearchView) Loading() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.loading
}

// ErrorMessage returns the last failure as a user-visible string.
func (v *SearchView) ErrorMessage() string {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.errMsg
}
