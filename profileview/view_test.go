package profileview_test

import (
	"context"
	"errors"
	"testing"

	gitden "github.com/gitden/gitden-go"
	"github.com/gitden/gitden-go/gitdentest"
	"github.com/gitden/gitden-go/profileview"
	"github.com/gitden/gitden-go/session"
)

func clientFor(t *testing.T, srv *gitdentest.Server, userID string) *gitden.Client {
	t.Helper()
	sess := session.NewInMemory()
	if userID != "" {
		err := sess.SetCredentials(session.Snapshot{UserID: userID, Token: srv.TokenFor(userID)})
		if err != nil {
			t.Fatalf("set credentials: %v", err)
		}
	}
	c, err := gitden.New(srv.URL(), sess)
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	return c
}

func TestLoadOwnProfile(t *testing.T) {
	t.Parallel()
	srv := gitdentest.NewServer()
	defer srv.Close()
	me := srv.SeedUser("ada", "ada@example.com", "pw")
	srv.SeedRepository(me, "demo", "", true)

	v := profileview.New(clientFor(t, srv, me), "")
	defer v.Close()
	if !v.IsOwnProfile() {
		t.Fatal("empty subject should resolve to the acting user")
	}
	if err := v.Load(); err != nil {
		t.Fatalf("Load: %v", err)
	}
	p, ok := v.Profile()
	if !ok || p.Username != "ada" {
		t.Errorf("profile = %+v, %v", p, ok)
	}
	if len(p.Repositories) != 1 {
		t.Errorf("repositories = %d, want 1", len(p.Repositories))
	}
}

func TestSelfFollowRejectedWithoutDispatch(t *testing.T) {
	t.Parallel()
	srv := gitdentest.NewServer()
	defer srv.Close()
	me := srv.SeedUser("ada", "ada@example.com", "pw")

	v := profileview.New(clientFor(t, srv, me), me)
	defer v.Close()
	if err := v.Load(); err != nil {
		t.Fatalf("Load: %v", err)
	}

	before := srv.Requests()
	if err := v.ToggleFollow(); !errors.Is(err, profileview.ErrSelfFollow) {
		t.Fatalf("err = %v, want ErrSelfFollow", err)
	}
	if got := srv.Requests(); got != before {
		t.Errorf("self-follow dispatched %d request(s)", got-before)
	}
}

func TestFollowUsesServerCounts(t *testing.T) {
	t.Parallel()
	srv := gitdentest.NewServer()
	defer srv.Close()
	me := srv.SeedUser("ada", "ada@example.com", "pw")
	them := srv.SeedUser("bob", "bob@example.com", "pw")

	v := profileview.New(clientFor(t, srv, me), them)
	defer v.Close()
	if err := v.Load(); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if v.IsFollowing() {
		t.Fatal("following before any toggle")
	}

	if err := v.ToggleFollow(); err != nil {
		t.Fatalf("follow: %v", err)
	}
	if !v.IsFollowing() {
		t.Error("follow not reflected")
	}
	// The count comes from the post-toggle re-fetch, not local arithmetic.
	if p, _ := v.Profile(); p.FollowerCount != 1 {
		t.Errorf("follower count = %d, want the server's 1", p.FollowerCount)
	}

	if err := v.ToggleFollow(); err != nil {
		t.Fatalf("unfollow: %v", err)
	}
	if v.IsFollowing() {
		t.Error("unfollow not reflected")
	}
	if p, _ := v.Profile(); p.FollowerCount != 0 {
		t.Errorf("follower count = %d after unfollow", p.FollowerCount)
	}
}

func TestFollowLoggedOut(t *testing.T) {
	t.Parallel()
	srv := gitdentest.NewServer()
	defer srv.Close()
	them := srv.SeedUser("bob", "bob@example.com", "pw")

	v := profileview.New(clientFor(t, srv, ""), them)
	defer v.Close()
	if err := v.Load(); err != nil {
		t.Fatalf("Load: %v", err)
	}

	before := srv.Requests()
	if err := v.ToggleFollow(); !gitden.IsUnauthenticated(err) {
		t.Fatalf("err = %v, want unauthenticated", err)
	}
	if got := srv.Requests(); got != before {
		t.Errorf("logged-out follow dispatched %d request(s)", got-before)
	}
}

func TestStarredTabFetchesExactlyOnce(t *testing.T) {
	t.Parallel()
	srv := gitdentest.NewServer()
	defer srv.Close()
	owner := srv.SeedUser("ada", "ada@example.com", "pw")
	me := srv.SeedUser("bob", "bob@example.com", "pw")
	repoID := srv.SeedRepository(owner, "demo", "", true)

	c := clientFor(t, srv, me)
	if err := c.Star(context.Background(), repoID); err != nil {
		t.Fatalf("star: %v", err)
	}

	v := profileview.New(c, me)
	defer v.Close()
	if err := v.Load(); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if _, fetched := v.StarredRepos(); fetched {
		t.Fatal("starred list reported fetched before the tab opened")
	}

	if err := v.OpenStarredTab(); err != nil {
		t.Fatalf("OpenStarredTab: %v", err)
	}
	repos, fetched := v.StarredRepos()
	if !fetched || len(repos) != 1 || repos[0].ID != repoID {
		t.Fatalf("starred = %+v, %v", repos, fetched)
	}

	// Re-opening the tab must not re-issue the request.
	before := srv.Requests()
	if err := v.OpenStarredTab(); err != nil {
		t.Fatalf("second open: %v", err)
	}
	if got := srv.Requests(); got != before {
		t.Errorf("tab re-open dispatched %d request(s)", got-before)
	}
}

func TestStarredTabEmptyResultStillFetched(t *testing.T) {
	t.Parallel()
	srv := gitdentest.NewServer()
	defer srv.Close()
	me := srv.SeedUser("bob", "bob@example.com", "pw")

	v := profileview.New(clientFor(t, srv, me), me)
	defer v.Close()
	if err := v.Load(); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if err := v.OpenStarredTab(); err != nil {
		t.Fatalf("OpenStarredTab: %v", err)
	}
	repos, fetched := v.StarredRepos()
	if !fetched {
		t.Fatal("empty result should still count as fetched")
	}
	if len(repos) != 0 {
		t.Errorf("repos = %+v", repos)
	}
}

func TestLoadSyncsOwnAvatar(t *testing.T) {
	t.Parallel()
	srv := gitdentest.NewServer()
	defer srv.Close()
	me := srv.SeedUser("ada", "ada@example.com", "pw")
	srv.SeedAvatar(me, "http://img/ada.png")
	c := clientFor(t, srv, me)

	if _, err := c.UpdateProfile(context.Background(), me, gitden.UpdateProfileRequest{Email: "new@example.com"}); err != nil {
		t.Fatalf("update profile: %v", err)
	}

	v := profileview.New(c, "")
	defer v.Close()
	if err := v.Load(); err != nil {
		t.Fatalf("Load: %v", err)
	}
	p, _ := v.Profile()
	if p.Email != "new@example.com" {
		t.Errorf("email = %q", p.Email)
	}
	// The navbar reads the session; loading one's own profile refreshes it.
	if got := c.Session().Current().AvatarURL; got != "http://img/ada.png" {
		t.Errorf("session avatar = %q, want the server's", got)
	}
}

func TestLogoutClearsSession(t *testing.T) {
	t.Parallel()
	srv := gitdentest.NewServer()
	defer srv.Close()
	me := srv.SeedUser("ada", "ada@example.com", "pw")
	c := clientFor(t, srv, me)

	v := profileview.New(c, "")
	defer v.Close()
	if err := v.Logout(); err != nil {
		t.Fatalf("Logout: %v", err)
	}
	if c.Session().LoggedIn() {
		t.Error("session survived logout")
	}
}
