package session

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
)

const sessionFile = "session.json"

// FileStore persists the session record as one JSON file under dir, replaced
// wholesale on every write. Writes by another process are observable through
// Watch, so a login or logout in one terminal is picked up by the others
// without restarting.
type FileStore struct {
	dir string
	mu  sync.Mutex
}

// NewFileStore creates the directory if needed and returns a store rooted
// at it.
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("create session dir: %w", err)
	}
	return &FileStore{dir: dir}, nil
}

// DefaultDir returns the per-user session directory.
func DefaultDir() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolve config dir: %w", err)
	}
	return filepath.Join(base, "bookbuster"), nil
}

func (s *FileStore) path() string {
	return filepath.Join(s.dir, sessionFile)
}

// Get returns the persisted record, or absence when the file is missing or
// unreadable.
func (s *FileStore) Get() (Record, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path())
	if err != nil {
		return Record{}, false
	}
	var r Record
	if err := json.Unmarshal(data, &r); err != nil {
		return Record{}, false
	}
	if r.User.ID == "" {
		return Record{}, false
	}
	return r, true
}

// Set overwrites any prior record. The write goes through a temp file and
// rename so a concurrent reader never sees a partial record.
func (s *FileStore) Set(r Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	tmp := s.path() + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("write session: %w", err)
	}
	if err := os.Rename(tmp, s.path()); err != nil {
		return fmt.Errorf("replace session: %w", err)
	}
	return nil
}

// Clear removes the persisted record. A missing file is not an error.
func (s *FileStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.path()); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}

func (s *FileStore) markerPath(name string) string {
	return filepath.Join(s.dir, strings.ReplaceAll(name, string(os.PathSeparator), "_")+".marker")
}

func (s *FileStore) Marker(name string) bool {
	_, err := os.Stat(s.markerPath(name))
	return err == nil
}

func (s *FileStore) SetMarker(name string) error {
	if err := os.WriteFile(s.markerPath(name), []byte("1"), 0o600); err != nil {
		return fmt.Errorf("set marker %q: %w", name, err)
	}
	return nil
}

// Watch invokes onChange whenever the session file is written, replaced or
// removed, until ctx is done. Events for other files in the directory are
// ignored.
func (s *FileStore) Watch(ctx context.Context, onChange func()) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	if err := watcher.Add(s.dir); err != nil {
		watcher.Close()
		return fmt.Errorf("watch session dir: %w", err)
	}

	go func() {
		defer watcher.Close()
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Base(ev.Name) != sessionFile {
					continue
				}
				if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) != 0 {
					onChange()
				}
			case _, ok := <-watcher.Errors:
				if !ok {
					return
				}
			}
		}
	}()
	return nil
}
