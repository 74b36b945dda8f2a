package profileview

import gitden "github.com/gitden/gitden-go"

// OpenStarredTab fetches the starred repositories the first time the tab is
// opened. Switching tabs back and forth never re-issues the request: the nil
// slice is the "not yet fetched" sentinel, distinct from an empty result.
func (v *View) OpenStarredTab() error {
	v.mu.Lock()
	if v.starred != nil || v.starredLoading {
		v.mu.Unlock()
		return nil
	}
	v.starredLoading = true
	v.mu.Unlock()

	repos, err := v.client.ListStarred(v.ctx, v.subjectID)

	v.mu.Lock()
	defer v.mu.Unlock()
	v.starredLoading = false
	if v.closed {
		return nil
	}
	if err != nil {
		// Degrade to an empty (but fetched) list so the tab renders the
		// message instead of retrying forever.
		v.starred = []gitden.Repository{}
		v.errMsg = err.Error()
		return err
	}
	if repos == nil {
		repos = []gitden.Repository{}
	}
	v.starred = repos
	return nil
}

// StarredRepos returns the starred list and whether it has been fetched yet.
func (v *View) StarredRepos() ([]gitden.Repository, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.starred == nil {
		return nil, false
	}
	out := make([]gitden.Repository, len(v.starred))
	copy(out, v.starred)
	return out, true
}

// StarredLoading reports whether the lazy fetch is in flight.
func (v *View) StarredLoading() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.starredLoading
}
