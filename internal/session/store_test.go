package session

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hoopmatch/internal/config"
	"github.com/hoopmatch/internal/domain"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	cfg := &config.SessionConfig{
		Path: filepath.Join(t.TempDir(), "session.json"),
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewStore(cfg, logger)
}

func testUser() domain.User {
	return domain.User{
		ID:          42,
		Name:        "minho",
		HasBall:     true,
		LocationLat: 37.5,
		LocationLng: 127.0,
	}
}

func TestStoreLoadMissingFile(t *testing.T) {
	store := newTestStore(t)

	require.NoError(t, store.Load())
	assert.False(t, store.IsAuthenticated())
	assert.Equal(t, "", store.Token())
}

func TestStoreSetAndReload(t *testing.T) {
	store := newTestStore(t)
	require.NoError(t, store.Set(testUser(), "tok-123"))

	// A fresh store against the same path sees the persisted session
	reloaded := NewStore(&config.SessionConfig{Path: store.path}, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, reloaded.Load())

	cur, ok := reloaded.Current()
	require.True(t, ok)
	assert.Equal(t, int64(42), cur.User.ID)
	assert.Equal(t, "minho", cur.User.Name)
	assert.Equal(t, "tok-123", reloaded.Token())
}

func TestStoreLoadCorruptFile(t *testing.T) {
	store := newTestStore(t)
	require.NoError(t, os.MkdirAll(filepath.Dir(store.path), 0o700))
	require.NoError(t, os.WriteFile(store.path, []byte("{not json"), 0o600))

	// Corrupt state means logged out, not a hard failure
	require.NoError(t, store.Load())
	assert.False(t, store.IsAuthenticated())
}

func TestStoreClear(t *testing.T) {
	store := newTestStore(t)
	require.NoError(t, store.Set(testUser(), "tok-123"))

	require.NoError(t, store.Clear())
	assert.False(t, store.IsAuthenticated())

	_, err := os.Stat(store.path)
	assert.True(t, os.IsNotExist(err))

	// Clearing an already-clear store is fine
	require.NoError(t, store.Clear())
}

func TestStoreCurrentReturnsCopy(t *testing.T) {
	store := newTestStore(t)
	require.NoError(t, store.Set(testUser(), "tok-123"))

	cur, ok := store.Current()
	require.True(t, ok)
	cur.User.Name = "mutated"

	again, _ := store.Current()
	assert.Equal(t, "minho", again.User.Name)
}

func TestStoreTokenExpiresAt(t *testing.T) {
	store := newTestStore(t)

	exp := time.Now().Add(2 * time.Hour).Truncate(time.Second)
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "42",
		"exp": exp.Unix(),
	}).SignedString([]byte("server-side-secret"))
	require.NoError(t, err)

	require.NoError(t, store.Set(testUser(), token))

	got, ok := store.TokenExpiresAt()
	require.True(t, ok)
	assert.True(t, got.Equal(exp), "got %v, want %v", got, exp)
}

func TestStoreTokenExpiresAtOpaqueToken(t *testing.T) {
	store := newTestStore(t)
	require.NoError(t, store.Set(testUser(), "not-a-jwt"))

	_, ok := store.TokenExpiresAt()
	assert.False(t, ok)
}

func TestStoreUpdateLocation(t *testing.T) {
	store := newTestStore(t)

	err := store.UpdateLocation(domain.Location{Latitude: 35.0, Longitude: 129.0})
	assert.ErrorIs(t, err, domain.ErrNotAuthenticated)

	require.NoError(t, store.Set(testUser(), "tok-123"))
	require.NoError(t, store.UpdateLocation(domain.Location{Latitude: 35.0, Longitude: 129.0}))

	cur, _ := store.Current()
	assert.Equal(t, 35.0, cur.User.LocationLat)
	assert.Equal(t, 129.0, cur.User.LocationLng)

	// The new coordinates survived persistence
	reloaded := NewStore(&config.SessionConfig{Path: store.path}, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, reloaded.Load())
	cur, _ = reloaded.Current()
	assert.Equal(t, 35.0, cur.User.LocationLat)
}
