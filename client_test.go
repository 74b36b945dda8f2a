package gitden_test

import (
	"context"
	"testing"
	"time"

	gitden "github.com/gitden/gitden-go"
	"github.com/gitden/gitden-go/gitdentest"
	"github.com/gitden/gitden-go/session"
)

func TestNewRejectsEmptyBaseURL(t *testing.T) {
	t.Parallel()
	if _, err := gitden.New("", nil); err == nil {
		t.Fatal("expected an error for an empty base URL")
	}
}

func TestSignupLoginLogoutFlow(t *testing.T) {
	t.Parallel()
	srv := gitdentest.NewServer()
	defer srv.Close()

	sess := session.NewInMemory()
	c, err := gitden.New(srv.URL()+"/", sess)
	if err != nil {
		t.Fatalf("new client: %v", err)
	}

	snap, err := c.Signup(context.Background(), "ada", "ada@example.com", "pw")
	if err != nil {
		t.Fatalf("signup: %v", err)
	}
	if !snap.LoggedIn() || !sess.LoggedIn() {
		t.Fatal("signup did not install a session")
	}

	// The signup session authorizes writes with no extra wiring.
	repoID, err := c.CreateRepository(context.Background(), gitden.CreateRepositoryRequest{Name: "demo", Visibility: true})
	if err != nil {
		t.Fatalf("create repository: %v", err)
	}

	if err := c.Logout(); err != nil {
		t.Fatalf("logout: %v", err)
	}
	if sess.LoggedIn() {
		t.Fatal("session survived logout")
	}
	// Logged out, the same write is refused by the server.
	if _, err := c.CreateRepository(context.Background(), gitden.CreateRepositoryRequest{Name: "nope"}); !gitden.IsUnauthenticated(err) {
		t.Fatalf("err = %v, want unauthenticated after logout", err)
	}

	if _, err := c.Login(context.Background(), "ada@example.com", "pw"); err != nil {
		t.Fatalf("login: %v", err)
	}
	repo, err := c.GetRepository(context.Background(), repoID)
	if err != nil {
		t.Fatalf("get repository: %v", err)
	}
	if repo.Owner.Username != "ada" {
		t.Errorf("owner = %q", repo.Owner.Username)
	}
}

func TestLoginInvalidCredentialsSurfacedVerbatim(t *testing.T) {
	t.Parallel()
	srv := gitdentest.NewServer()
	defer srv.Close()
	srv.SeedUser("ada", "ada@example.com", "pw")

	c, err := gitden.New(srv.URL(), nil)
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	_, err = c.Login(context.Background(), "ada@example.com", "wrong")
	if !gitden.IsUnauthenticated(err) {
		t.Fatalf("err = %v, want unauthenticated", err)
	}
	if err.Error() != "invalid credentials" {
		t.Errorf("message = %q, want the server text verbatim", err.Error())
	}
	if c.Session().LoggedIn() {
		t.Error("failed login installed a session")
	}
}

func TestSignupDuplicateEmail(t *testing.T) {
	t.Parallel()
	srv := gitdentest.NewServer()
	defer srv.Close()
	srv.SeedUser("ada", "ada@example.com", "pw")

	c, err := gitden.New(srv.URL(), nil)
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	if _, err := c.Signup(context.Background(), "ada2", "ada@example.com", "pw"); !gitden.IsValidation(err) {
		t.Fatalf("err = %v, want validation", err)
	}
}

func TestCommitCountsTowardContributions(t *testing.T) {
	t.Parallel()
	srv := gitdentest.NewServer()
	defer srv.Close()

	sess := session.NewInMemory()
	c, err := gitden.New(srv.URL(), sess)
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	snap, err := c.Signup(context.Background(), "ada", "ada@example.com", "pw")
	if err != nil {
		t.Fatalf("signup: %v", err)
	}
	repoID, err := c.CreateRepository(context.Background(), gitden.CreateRepositoryRequest{Name: "demo", Visibility: true})
	if err != nil {
		t.Fatalf("create repository: %v", err)
	}
	for i := 0; i < 2; i++ {
		if _, err := c.CreateCommit(context.Background(), repoID, gitden.CreateCommitRequest{Message: "work", UserID: snap.UserID}); err != nil {
			t.Fatalf("commit %d: %v", i, err)
		}
	}

	points, err := c.Contributions(context.Background(), snap.UserID)
	if err != nil {
		t.Fatalf("contributions: %v", err)
	}
	today := time.Now().UTC().Format("2006-01-02")
	found := false
	for _, p := range points {
		if p.Date == today {
			found = true
			if p.Count != 2 {
				t.Errorf("count = %d, want 2", p.Count)
			}
		}
	}
	if !found {
		t.Errorf("no contribution point for %s in %+v", today, points)
	}
}

func TestDeleteCascadesStarsAndIssues(t *testing.T) {
	t.Parallel()
	srv := gitdentest.NewServer()
	defer srv.Close()
	owner := srv.SeedUser("ada", "ada@example.com", "pw")
	fan := srv.SeedUser("bob", "bob@example.com", "pw")
	repoID := srv.SeedRepository(owner, "demo", "", true)

	fanSess := session.NewInMemory()
	_ = fanSess.SetCredentials(session.Snapshot{UserID: fan, Token: srv.TokenFor(fan)})
	fanClient, err := gitden.New(srv.URL(), fanSess)
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	if err := fanClient.Star(context.Background(), repoID); err != nil {
		t.Fatalf("star: %v", err)
	}
	if _, err := fanClient.CreateIssue(context.Background(), repoID, gitden.CreateIssueRequest{Content: "hi"}); err != nil {
		t.Fatalf("create issue: %v", err)
	}

	ownerSess := session.NewInMemory()
	_ = ownerSess.SetCredentials(session.Snapshot{UserID: owner, Token: srv.TokenFor(owner)})
	ownerClient, err := gitden.New(srv.URL(), ownerSess)
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	if err := ownerClient.DeleteRepository(context.Background(), repoID); err != nil {
		t.Fatalf("delete: %v", err)
	}

	starred, err := fanClient.ListStarred(context.Background(), fan)
	if err != nil {
		t.Fatalf("list starred: %v", err)
	}
	if len(starred) != 0 {
		t.Errorf("starred = %+v, want the dead repo purged", starred)
	}
}

func TestExpiredTokenFailsBeforeDispatch(t *testing.T) {
	t.Parallel()
	srv := gitdentest.NewServer()
	defer srv.Close()
	owner := srv.SeedUser("ada", "ada@example.com", "pw")
	repoID := srv.SeedRepository(owner, "demo", "", true)

	sess := session.NewInMemory()
	_ = sess.SetCredentials(session.Snapshot{UserID: owner, Token: srv.TokenFor(owner)})
	c, err := gitden.New(srv.URL(), sess)
	if err != nil {
		t.Fatalf("new client: %v", err)
	}

	// RequireAuth is the controllers' fail-fast gate; the raw SDK call still
	// goes to the server, which rejects the bad token itself.
	if err := sess.RequireAuth(); err != nil {
		t.Fatalf("RequireAuth with a fresh token: %v", err)
	}
	_ = sess.SetCredentials(session.Snapshot{UserID: owner, Token: "Bearer garbage"})
	if err := c.Star(context.Background(), repoID); !gitden.IsUnauthenticated(err) {
		t.Fatalf("err = %v, want unauthenticated from the server", err)
	}
}

func TestCreateEventAppearsSorted(t *testing.T) {
	t.Parallel()
	srv := gitdentest.NewServer()
	defer srv.Close()

	sess := session.NewInMemory()
	c, err := gitden.New(srv.URL(), sess)
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	if _, err := c.Signup(context.Background(), "ada", "ada@example.com", "pw"); err != nil {
		t.Fatalf("signup: %v", err)
	}

	later := time.Now().UTC().AddDate(0, 0, 14).Format("2006-01-02")
	sooner := time.Now().UTC().AddDate(0, 0, 7).Format("2006-01-02")
	for _, req := range []gitden.CreateEventRequest{
		{Title: "conference", EventDate: later},
		{Title: "meetup", EventDate: sooner},
	} {
		if _, err := c.CreateEvent(context.Background(), req); err != nil {
			t.Fatalf("create event %q: %v", req.Title, err)
		}
	}
	if _, err := c.CreateEvent(context.Background(), gitden.CreateEventRequest{Title: "no date"}); !gitden.IsValidation(err) {
		t.Fatalf("err = %v, want validation for a missing date", err)
	}

	events, err := c.ListUpcomingEvents(context.Background())
	if err != nil {
		t.Fatalf("list events: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("len(events) = %d, want 2", len(events))
	}
	if events[0].Title != "meetup" || events[1].Title != "conference" {
		t.Errorf("events out of date order: %q then %q", events[0].Title, events[1].Title)
	}
}
