package session

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/gitden/gitden-go/internal/apierr"
)

func signedToken(t *testing.T, expiresAt time.Time) string {
	t.Helper()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   "u1",
		ExpiresAt: jwt.NewNumericDate(expiresAt),
	})
	signed, err := tok.SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return signed
}

func TestFileStoreRoundTrip(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "nested", "credentials.yml")
	store := NewFileStore(path)

	snap, err := store.Load()
	if err != nil {
		t.Fatalf("load missing file: %v", err)
	}
	if snap.LoggedIn() {
		t.Error("missing file should load as logged out")
	}

	want := Snapshot{UserID: "u1", Token: "tok", AvatarURL: "http://img"}
	if err := store.Save(want); err != nil {
		t.Fatalf("save: %v", err)
	}
	got, err := store.Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got != want {
		t.Errorf("round trip = %+v, want %+v", got, want)
	}

	if err := store.Clear(); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if err := store.Clear(); err != nil {
		t.Fatalf("second clear should be a no-op: %v", err)
	}
	got, err = store.Load()
	if err != nil {
		t.Fatalf("load after clear: %v", err)
	}
	if got.LoggedIn() {
		t.Error("session survived Clear")
	}
}

func TestFileStorePermissions(t *testing.T) {
	t.Parallel()
	if runtime.GOOS == "windows" {
		t.Skip("file modes are not meaningful on windows")
	}
	path := filepath.Join(t.TempDir(), "credentials.yml")
	store := NewFileStore(path)
	if err := store.Save(Snapshot{UserID: "u1", Token: "tok"}); err != nil {
		t.Fatalf("save: %v", err)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0o600 {
		t.Errorf("credentials file mode = %o, want 600", perm)
	}
}

func TestSetCredentialsPersistsAndNotifies(t *testing.T) {
	t.Parallel()
	store := NewMemStore()
	sess, err := New(store)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	var seen []Snapshot
	cancel := sess.Subscribe(func(s Snapshot) { seen = append(seen, s) })

	want := Snapshot{UserID: "u1", Token: "tok"}
	if err := sess.SetCredentials(want); err != nil {
		t.Fatalf("SetCredentials: %v", err)
	}
	if !sess.LoggedIn() || sess.UserID() != "u1" {
		t.Errorf("session state = %+v", sess.Current())
	}
	persisted, _ := store.Load()
	if persisted != want {
		t.Errorf("persisted = %+v, want %+v", persisted, want)
	}
	if len(seen) != 1 || seen[0] != want {
		t.Errorf("subscriber saw %+v", seen)
	}

	if err := sess.Clear(); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if len(seen) != 2 || seen[1].LoggedIn() {
		t.Errorf("subscriber did not observe the zero snapshot: %+v", seen)
	}

	cancel()
	_ = sess.SetCredentials(want)
	if len(seen) != 2 {
		t.Error("canceled subscriber still notified")
	}
}

func TestNewLoadsPersistedSession(t *testing.T) {
	t.Parallel()
	store := NewMemStore()
	_ = store.Save(Snapshot{UserID: "u1", Token: "tok"})

	sess, err := New(store)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if !sess.LoggedIn() {
		t.Error("persisted session not restored")
	}
}

func TestRequireAuth(t *testing.T) {
	t.Parallel()

	t.Run("logged out", func(t *testing.T) {
		t.Parallel()
		sess := NewInMemory()
		err := sess.RequireAuth()
		if !apierr.Is(err, apierr.KindUnauthenticated) {
			t.Fatalf("err = %v, want KindUnauthenticated", err)
		}
	})

	t.Run("expired token fails before dispatch", func(t *testing.T) {
		t.Parallel()
		sess := NewInMemory()
		tok := signedToken(t, time.Now().Add(-time.Hour))
		_ = sess.SetCredentials(Snapshot{UserID: "u1", Token: tok})
		err := sess.RequireAuth()
		if !apierr.Is(err, apierr.KindUnauthenticated) {
			t.Fatalf("err = %v, want KindUnauthenticated", err)
		}
	})

	t.Run("valid token passes", func(t *testing.T) {
		t.Parallel()
		sess := NewInMemory()
		tok := signedToken(t, time.Now().Add(time.Hour))
		_ = sess.SetCredentials(Snapshot{UserID: "u1", Token: tok})
		if err := sess.RequireAuth(); err != nil {
			t.Fatalf("RequireAuth: %v", err)
		}
	})

	t.Run("opaque token left to the server", func(t *testing.T) {
		t.Parallel()
		sess := NewInMemory()
		_ = sess.SetCredentials(Snapshot{UserID: "u1", Token: "not-a-jwt"})
		if err := sess.RequireAuth(); err != nil {
			t.Fatalf("RequireAuth: %v", err)
		}
	})
}

func TestSetAvatarURLKeepsCredentials(t *testing.T) {
	t.Parallel()
	sess := NewInMemory()
	_ = sess.SetCredentials(Snapshot{UserID: "u1", Token: "tok"})
	if err := sess.SetAvatarURL("http://img"); err != nil {
		t.Fatalf("SetAvatarURL: %v", err)
	}
	cur := sess.Current()
	if cur.AvatarURL != "http://img" || cur.UserID != "u1" || cur.Token != "tok" {
		t.Errorf("snapshot = %+v", cur)
	}
}
