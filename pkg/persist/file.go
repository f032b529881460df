package persist

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/matzehuels/waypoint/pkg/errors"
	"github.com/matzehuels/waypoint/pkg/nav"
)

// FileStore keeps partial states as JSON files in a directory.
// Files are sharded by the hash of their key and carry an optional expiry.
type FileStore struct {
	mu  sync.RWMutex
	dir string
	ttl time.Duration
}

// DefaultDir returns ~/.config/waypoint/state.
func DefaultDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home dir: %w", err)
	}
	return filepath.Join(home, ".config", "waypoint", "state"), nil
}

// NewFileStore creates a store in dir, or in [DefaultDir] when dir is empty.
// The directory will be created if it doesn't exist.
func NewFileStore(dir string, ttl time.Duration) (*FileStore, error) {
	if dir == "" {
		d, err := DefaultDir()
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeStore, err, "resolve state dir")
		}
		dir = d
	}
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, errors.Wrap(errors.ErrCodeStore, err, "create state dir")
	}
	return &FileStore{dir: dir, ttl: ttl}, nil
}

// Dir returns the store directory.
func (s *FileStore) Dir() string { return s.dir }

// fileEntry wraps a stored state with metadata.
type fileEntry struct {
	Key       string          `json:"key"`
	State     json.RawMessage `json:"state"`
	SavedAt   time.Time       `json:"saved_at"`
	ExpiresAt time.Time       `json:"expires_at,omitempty"`
}

// Load reads the state stored under key.
func (s *FileStore) Load(ctx context.Context, key string) (*nav.State, error) {
	if err := checkKey(key); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	path := s.Path(key)
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStore, err, "read %s", key)
	}

	var entry fileEntry
	if err := json.Unmarshal(data, &entry); err != nil {
		// Invalid entry - treat as miss
		_ = os.Remove(path)
		return nil, nil
	}
	if !entry.ExpiresAt.IsZero() && time.Now().After(entry.ExpiresAt) {
		_ = os.Remove(path)
		return nil, nil
	}

	state, err := nav.DecodePartial(entry.State)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStore, err, "decode %s", key)
	}
	return state, nil
}

// Save writes the partial projection of state under key.
func (s *FileStore) Save(ctx context.Context, key string, state *nav.State) error {
	if err := checkKey(key); err != nil {
		return err
	}
	data, err := encode(state)
	if err != nil {
		return err
	}

	entry := fileEntry{Key: key, State: data, SavedAt: time.Now().UTC()}
	if s.ttl > 0 {
		entry.ExpiresAt = entry.SavedAt.Add(s.ttl)
	}
	out, err := json.MarshalIndent(entry, "", "  ")
	if err != nil {
		return errors.Wrap(errors.ErrCodeStore, err, "marshal %s", key)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	path := s.Path(key)
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return errors.Wrap(errors.ErrCodeStore, err, "create shard dir")
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, out, 0600); err != nil {
		return errors.Wrap(errors.ErrCodeStore, err, "write %s", key)
	}
	if err := os.Rename(tmp, path); err != nil {
		return errors.Wrap(errors.ErrCodeStore, err, "commit %s", key)
	}
	return nil
}

// Delete removes key.
func (s *FileStore) Delete(ctx context.Context, key string) error {
	if err := checkKey(key); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	err := os.Remove(s.Path(key))
	if err != nil && !os.IsNotExist(err) {
		return errors.Wrap(errors.ErrCodeStore, err, "delete %s", key)
	}
	return nil
}

// Close does nothing for file store.
func (s *FileStore) Close() error {
	return nil
}

// Path returns the file holding key.
// Uses a hash-based directory structure to avoid too many files in one dir.
func (s *FileStore) Path(key string) string {
	hash := Hash([]byte(key))
	return filepath.Join(s.dir, hash[:2], hash[2:]+".json")
}

// Locate returns the file that holds key in s, looking through scoping and
// instrumentation wrappers. It reports false when s is not file-backed.
func Locate(s Store, key string) (string, bool) {
	for {
		switch v := s.(type) {
		case *FileStore:
			return v.Path(key), true
		case *ScopedStore:
			key = v.prefix + key
			s = v.inner
		case interface{ Unwrap() Store }:
			s = v.Unwrap()
		default:
			return "", false
		}
	}
}

// Ensure FileStore implements Store.
var _ Store = (*FileStore)(nil)
