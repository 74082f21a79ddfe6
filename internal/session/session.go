// Package session holds the tab-local record of who is logged in. The store
// is a durable key-value port so binaries persist the record across runs and
// tests substitute an in-memory implementation. Role data gates UI
// affordances only; the server re-checks every call.
package session

import "sync"

// Roles issued by the backend.
const (
	RoleAdmin     = "ADMIN"
	RoleLibrarian = "BIBLIOTECARIO"
	RoleMember    = "SOCIO"
)

// User is the cached authenticated-user record.
type User struct {
	ID     string `json:"id"`
	Email  string `json:"email"`
	Nombre string `json:"nombre"`
	Rol    string `json:"rol"`
}

// Elevated reports whether the user may act on behalf of other members.
func (u User) Elevated() bool {
	return u.Rol == RoleAdmin || u.Rol == RoleLibrarian
}

// Cookie is the persisted form of the backend's session cookie, kept so a
// new process can resume the server-side session without logging in again.
type Cookie struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// Record is the whole persisted session: the user plus the cookies needed to
// resume the server-side session.
type Record struct {
	User    User     `json:"user"`
	Cookies []Cookie `json:"cookies,omitempty"`
}

// Store is the durable session port. Get returns absence, never an error:
// an unreadable backing store means "not logged in".
type Store interface {
	Get() (Record, bool)
	Set(Record) error
	Clear() error

	// Marker reports and SetMarker records one-shot flags, such as the
	// guard that keeps the dev fixture loader from running twice.
	Marker(name string) bool
	SetMarker(name string) error
}

// MemoryStore is the in-memory Store used by tests and by commands that must
// not touch the user's config dir.
type MemoryStore struct {
	mu      sync.Mutex
	record  Record
	present bool
	markers map[string]bool
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{markers: make(map[string]bool)}
}

func (s *MemoryStore) Get() (Record, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.record, s.present
}

func (s *MemoryStore) Set(r Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.record = r
	s.present = true
	return nil
}

func (s *MemoryStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.record = Record{}
	s.present = false
	return nil
}

func (s *MemoryStore) Marker(name string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.markers[name]
}

func (s *MemoryStore) SetMarker(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.markers[name] = true
	return nil
}
