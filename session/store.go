package session

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// TokenFile is the fixed name of the credential slot inside a FileStore directory.
const TokenFile = "token"

// Store persists the bearer token between invocations. It does not validate it.
type Store interface {
	// Get returns the stored token, ok is false when there is none.
	Get() (token string, ok bool)
	// Set stores token, an empty token clears the slot.
	Set(token string) error
}

// DefaultDir returns the directory holding the credential slot.
func DefaultDir() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		dir = os.TempDir()
	}
	return filepath.Join(dir, "sbudesk")
}

// FileStore keeps the token in Dir/token, readable by the current user only.
type FileStore struct {
	Dir string
}

// NewFileStore returns a store in dir, or in DefaultDir when dir is empty.
func NewFileStore(dir string) *FileStore {
	if dir == "" {
		dir = DefaultDir()
	}
	return &FileStore{Dir: dir}
}

func (s *FileStore) path() string { return filepath.Join(s.Dir, TokenFile) }

func (s *FileStore) Get() (string, bool) {
	data, err := os.ReadFile(s.path())
	if err != nil {
		return "", false
	}
	token := strings.TrimSpace(string(data))
	return token, token != ""
}

func (s *FileStore) Set(token string) error {
	if token == "" {
		if err := os.Remove(s.path()); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("cannot clear session: %w", err)
		}
		return nil
	}
	if err := os.MkdirAll(s.Dir, 0700); err != nil {
		return fmt.Errorf("cannot create session directory %q: %w", s.Dir, err)
	}
	if err := os.WriteFile(s.path(), []byte(token), 0600); err != nil {
		return fmt.Errorf("cannot save session: %w", err)
	}
	return nil
}

// MemoryStore keeps the token for the lifetime of the process.
type MemoryStore struct {
	mu    sync.Mutex
	token string
}

// NewMemoryStore returns a store holding token ("" for none).
func NewMemoryStore(token string) *MemoryStore { return &MemoryStore{token: token} }

func (s *MemoryStore) Get() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token, s.token != ""
}

func (s *MemoryStore) Set(token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
	return nil
}
