package auth

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"github.com/pathuGIT/Health-Tracker/internal"
)

// FileStore keeps credentials in a JSON file, written atomically via a temp
// file and rename so a crash mid-write never leaves a torn session.
type FileStore struct {
	path string
	mu   sync.Mutex
}

func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

func (s *FileStore) Load() (internal.Credentials, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return internal.Credentials{}, nil
		}
		return internal.Credentials{}, err
	}
	var creds internal.Credentials
	if err := json.Unmarshal(data, &creds); err != nil {
		return internal.Credentials{}, err
	}
	return creds, nil
}

func (s *FileStore) Save(creds internal.Credentials) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0700); err != nil {
			return err
		}
	}

	tempFile := s.path + ".tmp"
	f, err := os.OpenFile(tempFile, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(creds); err != nil {
		f.Close()
		os.Remove(tempFile)
		return err
	}

	if err := f.Sync(); err != nil {
		f.Close()
		os.Remove(tempFile)
		return err
	}

	if err := f.Close(); err != nil {
		os.Remove(tempFile)
		return err
	}

	return os.Rename(tempFile, s.path)
}

func (s *FileStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// MemStore is an in-memory CredentialStore for tests.
type MemStore struct {
	mu    sync.Mutex
	creds internal.Credentials
}

func NewMemStore() *MemStore {
	return &MemStore{}
}

func (s *MemStore) Load() (internal.Credentials, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.creds, nil
}

func (s *MemStore) Save(creds internal.Credentials) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.creds = creds
	return nil
}

func (s *MemStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.creds = internal.Credentials{}
	return nil
}
