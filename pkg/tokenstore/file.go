package tokenstore

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sync"
)

// filePair is the on-disk shape of one origin's credentials. The JSON keys
// mirror the names the web client uses in browser storage, which keeps the
// file greppable next to frontend docs.
type filePair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token,omitempty"`
}

// FileStore implements Store on a single JSON file mapping origins to token
// pairs. Writes replace the file atomically and keep 0600 permissions, since
// the content grants account access.
type FileStore struct {
	path string
	mu   sync.Mutex
}

// NewFileStore creates a store backed by the file at path, creating parent
// directories as needed. The file itself is created lazily on first Save.
func NewFileStore(path string) (*FileStore, error) {
	if path == "" {
		return nil, errors.New("tokenstore: file path must not be empty")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, err
	}
	return &FileStore{path: path}, nil
}

// DefaultPath returns the conventional credentials location under the user's
// configuration directory.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "pollaroo", "credentials.json"), nil
}

// Load returns the pair stored for origin, or ErrNotFound.
func (f *FileStore) Load(ctx context.Context, origin string) (Pair, error) {
	if origin == "" {
		return Pair{}, ErrInvalidOrigin
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	all, err := f.read()
	if err != nil {
		return Pair{}, err
	}

	p, ok := all[origin]
	if !ok {
		return Pair{}, ErrNotFound
	}
	return Pair{Access: p.AccessToken, Refresh: p.RefreshToken}, nil
}

// Save stores the pair for origin, creating the file if necessary.
func (f *FileStore) Save(ctx context.Context, origin string, pair Pair) error {
	if origin == "" {
		return ErrInvalidOrigin
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	all, err := f.read()
	if err != nil {
		return err
	}

	all[origin] = filePair{AccessToken: pair.Access, RefreshToken: pair.Refresh}
	return f.write(all)
}

// Clear removes the pair for origin. Clearing when the file does not exist
// is a no-op.
func (f *FileStore) Clear(ctx context.Context, origin string) error {
	if origin == "" {
		return ErrInvalidOrigin
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	all, err := f.read()
	if err != nil {
		return err
	}

	if _, ok := all[origin]; !ok {
		return nil
	}
	delete(all, origin)
	return f.write(all)
}

// read loads the whole credentials file. A missing file yields an empty map.
// Must be called with the lock held.
func (f *FileStore) read() (map[string]filePair, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		if os.IsNotExist(err) {
			return make(map[string]filePair), nil
		}
		return nil, err
	}

	all := make(map[string]filePair)
	if len(data) == 0 {
		return all, nil
	}
	if err := json.Unmarshal(data, &all); err != nil {
		return nil, errors.Join(ErrCorruptFile, err)
	}
	return all, nil
}

// write replaces the credentials file atomically. Must be called with the
// lock held.
func (f *FileStore) write(all map[string]filePair) error {
	data, err := json.MarshalIndent(all, "", "  ")
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(f.path), ".credentials-*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	if err := tmp.Chmod(0o600); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}

	if err := os.Rename(tmpName, f.path); err != nil {
		os.Remove(tmpName)
		return err
	}
	return nil
}
