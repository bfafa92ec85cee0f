package auth

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pathuGIT/Health-Tracker/internal"
)

func TestFileStoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "credentials.json")
	store := NewFileStore(path)

	// Missing file means no session, not an error.
	creds, err := store.Load()
	require.NoError(t, err)
	assert.True(t, creds.Empty())

	want := internal.Credentials{Token: "abc", RefreshToken: "xyz", UserID: 1, UserRole: "USER"}
	require.NoError(t, store.Save(want))

	got, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, want, got)

	// No stray temp file after an atomic write.
	_, err = os.Stat(path + ".tmp")
	assert.True(t, os.IsNotExist(err))
}

func TestFileStoreClearRemovesEverything(t *testing.T) {
	path := filepath.Join(t.TempDir(), "credentials.json")
	store := NewFileStore(path)
	require.NoError(t, store.Save(internal.Credentials{Token: "abc", RefreshToken: "xyz", UserID: 1, UserRole: "ADMIN"}))

	require.NoError(t, store.Clear())
	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err))

	creds, err := store.Load()
	require.NoError(t, err)
	assert.True(t, creds.Empty())

	// Clearing an already-empty store is fine.
	require.NoError(t, store.Clear())
}

func TestFileStoreRejectsCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "credentials.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0600))

	_, err := NewFileStore(path).Load()
	assert.Error(t, err)
}
