package session

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *FileStore {
	t.Helper()
	store, err := NewFileStore(t.TempDir())
	require.NoError(t, err)
	return store
}

func TestFileStoreRoundTrip(t *testing.T) {
	store := newTestStore(t)

	_, ok := store.Get()
	assert.False(t, ok, "empty store must report absence")

	rec := Record{
		User:    User{ID: "u1", Email: "ana@example.com", Nombre: "Ana", Rol: RoleMember},
		Cookies: []Cookie{{Name: "bb_session", Value: "tok"}},
	}
	require.NoError(t, store.Set(rec))

	got, ok := store.Get()
	require.True(t, ok)
	assert.Equal(t, rec, got)
}

func TestFileStoreSetOverwrites(t *testing.T) {
	store := newTestStore(t)

	require.NoError(t, store.Set(Record{User: User{ID: "u1", Rol: RoleMember}}))
	require.NoError(t, store.Set(Record{User: User{ID: "u2", Rol: RoleAdmin}}))

	got, ok := store.Get()
	require.True(t, ok)
	assert.Equal(t, "u2", got.User.ID)
}

func TestFileStoreClear(t *testing.T) {
	store := newTestStore(t)

	require.NoError(t, store.Set(Record{User: User{ID: "u1"}}))
	require.NoError(t, store.Clear())

	_, ok := store.Get()
	assert.False(t, ok)

	// Clearing an already-clear store must not fail.
	require.NoError(t, store.Clear())
}

func TestFileStoreCorruptFileReportsAbsence(t *testing.T) {
	store := newTestStore(t)

	require.NoError(t, os.WriteFile(filepath.Join(store.dir, sessionFile), []byte("{not json"), 0o600))

	_, ok := store.Get()
	assert.False(t, ok)
}

func TestFileStoreMarkers(t *testing.T) {
	store := newTestStore(t)

	assert.False(t, store.Marker("bb_seed_done_v1"))
	require.NoError(t, store.SetMarker("bb_seed_done_v1"))
	assert.True(t, store.Marker("bb_seed_done_v1"))
}

func TestWatchObservesWriteByAnotherStore(t *testing.T) {
	dir := t.TempDir()
	store, err := NewFileStore(dir)
	require.NoError(t, err)
	other, err := NewFileStore(dir)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	changed := make(chan struct{}, 4)
	require.NoError(t, store.Watch(ctx, func() {
		select {
		case changed <- struct{}{}:
		default:
		}
	}))

	require.NoError(t, other.Set(Record{User: User{ID: "u1", Rol: RoleAdmin}}))

	select {
	case <-changed:
	case <-time.After(3 * time.Second):
		t.Fatal("watch did not observe the session write")
	}

	got, ok := store.Get()
	require.True(t, ok)
	assert.Equal(t, RoleAdmin, got.User.Rol)
}

func TestElevated(t *testing.T) {
	assert.True(t, User{Rol: RoleAdmin}.Elevated())
	assert.True(t, User{Rol: RoleLibrarian}.Elevated())
	assert.False(t, User{Rol: RoleMember}.Elevated())
}
