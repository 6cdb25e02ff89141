package prefs_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/pharmalink/go-pharmacy-client/prefs"
)

func TestFileStoreRoundTrip(t *testing.T) {
	store := prefs.NewFileStore(t.TempDir())

	require.NoError(t, store.Set("session.refresh_token", "refresh-abc"))

	var value string
	found, err := store.Get("session.refresh_token", &value)
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, "refresh-abc", value)
}

func TestFileStoreMissingKey(t *testing.T) {
	store := prefs.NewFileStore(t.TempDir())

	var value string
	found, err := store.Get("absent", &value)
	require.NoError(t, err, "a missing key is not an error")
	require.False(t, found)
	require.Empty(t, value)
}

func TestFileStoreRemove(t *testing.T) {
	store := prefs.NewFileStore(t.TempDir())

	require.NoError(t, store.Set("k", "v"))
	require.NoError(t, store.Remove("k"))

	var value string
	found, err := store.Get("k", &value)
	require.NoError(t, err)
	require.False(t, found)

	// Removing an absent key is a no-op.
	require.NoError(t, store.Remove("k"))
}

func TestFileStoreSurvivesReopen(t *testing.T) {
	dir := t.TempDir()

	store := prefs.NewFileStore(dir)
	require.NoError(t, store.Set("device.id", "dev-1"))

	reopened := prefs.NewFileStore(dir)
	var value string
	found, err := reopened.Get("device.id", &value)
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, "dev-1", value)
}

func TestFileStoreKeepsOtherKeys(t *testing.T) {
	store := prefs.NewFileStore(t.TempDir())

	require.NoError(t, store.Set("a", 1))
	require.NoError(t, store.Set("b", "two"))
	require.NoError(t, store.Remove("a"))

	var b string
	found, err := store.Get("b", &b)
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, "two", b)
}

func TestFileStoreCorruptValue(t *testing.T) {
	dir := t.TempDir()
	store := prefs.NewFileStore(dir)
	require.NoError(t, store.Set("k", "v"))

	// Clobber the stored document wholesale.
	require.NoError(t, os.WriteFile(filepath.Join(dir, "preferences.json"), []byte("{broken"), 0o600))

	var value string
	_, err := store.Get("k", &value)
	require.Error(t, err, "a corrupt document surfaces as an error, not a silent miss")
}

func TestFileStorePermissions(t *testing.T) {
	dir := t.TempDir()
	store := prefs.NewFileStore(dir)
	require.NoError(t, store.Set("session.refresh_token", "secret"))

	info, err := os.Stat(filepath.Join(dir, "preferences.json"))
	require.NoError(t, err)
	require.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}
