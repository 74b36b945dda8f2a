package session

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/yaml.v3"
)

// fileCreds is the on-disk shape of the credentials file.
type fileCreds struct {
	UserID    string `yaml:"user_id"`
	Token     string `yaml:"token"`
	AvatarURL string `yaml:"avatar_url,omitempty"`
}

// FileStore persists the session as a YAML credentials file, written
// atomically via a temp file and rename. File mode is 0600 since the token
// grants full account access.
type FileStore struct {
	path string
}

// NewFileStore returns a store rooted at path. Parent directories are
// created on first save.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// DefaultCredentialsPath is the conventional location of the credentials
// file under the user config directory.
func DefaultCredentialsPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "gitden", "credentials.yml"), nil
}

// Load reads the credentials file. A missing file is a logged-out session.
func (f *FileStore) Load() (Snapshot, error) {
	data, err := os.ReadFile(f.path)
	if errors.Is(err, fs.ErrNotExist) {
		return Snapshot{}, nil
	}
	if err != nil {
		return Snapshot{}, err
	}
	var fc fileCreds
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return Snapshot{}, err
	}
	return Snapshot{UserID: fc.UserID, Token: fc.Token, AvatarURL: fc.AvatarURL}, nil
}

// Save writes the snapshot atomically.
func (f *FileStore) Save(snap Snapshot) error {
	data, err := yaml.Marshal(fileCreds{UserID: snap.UserID, Token: snap.Token, AvatarURL: snap.AvatarURL})
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(f.path), 0o700); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(filepath.Dir(f.path), ".credentials-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return err
	}
	if err := tmp.Chmod(0o600); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return err
	}
	return os.Rename(tmpName, f.path)
}

// Clear removes the credentials file; the rename-based writes make removal
// the atomic all-fields wipe.
func (f *FileStore) Clear() error {
	err := os.Remove(f.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}

// MemStore is a volatile Store for tests and embedded use.
type MemStore struct {
	mu   sync.Mutex
	snap Snapshot
}

// NewMemStore returns an empty volatile store.
func NewMemStore() *MemStore { return &MemStore{} }

// Load returns the held snapshot.
func (m *MemStore) Load() (Snapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.snap, nil
}

// Save replaces the held snapshot.
func (m *MemStore) Save(snap Snapshot) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.snap = snap
	return nil
}

// Clear zeroes the held snapshot.
func (m *MemStore) Clear() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.snap = Snapshot{}
	return nil
}
