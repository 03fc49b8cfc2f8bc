package session

import (
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testPath = "/home/teacher/.config/signup/session.json"

func TestFileStoreRoundTrip(t *testing.T) {
	fs := afero.NewMemMapFs()
	store := NewFileStore(fs, testPath)

	_, ok, err := store.Get(TokenKey)
	require.NoError(t, err)
	assert.False(t, ok, "missing file reads as empty")

	require.NoError(t, store.Set(TokenKey, "abc"))
	require.NoError(t, store.Set(UsernameKey, "mchen"))

	// A second store over the same file sees the values.
	other := NewFileStore(fs, testPath)
	v, ok, err := other.Get(TokenKey)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "abc", v)

	info, err := fs.Stat(testPath)
	require.NoError(t, err)
	assert.Equal(t, "-rw-------", info.Mode().Perm().String())

	exists, err := afero.Exists(fs, testPath+".tmp")
	require.NoError(t, err)
	assert.False(t, exists, "temp file is renamed away")
}

func TestFileStoreDeleteRemovesFileWhenEmpty(t *testing.T) {
	fs := afero.NewMemMapFs()
	store := NewFileStore(fs, testPath)
	require.NoError(t, store.Set(TokenKey, "abc"))
	require.NoError(t, store.Set(UsernameKey, "mchen"))
	require.NoError(t, store.Set("theme", "dark"))

	require.NoError(t, store.Delete(TokenKey, UsernameKey))
	_, ok, _ := store.Get(TokenKey)
	assert.False(t, ok)
	v, ok, _ := store.Get("theme")
	assert.True(t, ok)
	assert.Equal(t, "dark", v)

	require.NoError(t, store.Delete("theme"))
	exists, err := afero.Exists(fs, testPath)
	require.NoError(t, err)
	assert.False(t, exists)

	assert.NoError(t, store.Delete(TokenKey), "deleting from a missing file is a no-op")
}

func TestFileStoreCorruptFile(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, testPath, []byte("{not json"), 0o600))
	store := NewFileStore(fs, testPath)

	_, _, err := store.Get(TokenKey)
	assert.Error(t, err)

	require.NoError(t, store.Delete(TokenKey, UsernameKey))
	exists, _ := afero.Exists(fs, testPath)
	assert.False(t, exists, "corrupt file is dropped on delete")

	require.NoError(t, afero.WriteFile(fs, testPath, []byte("{not json"), 0o600))
	require.NoError(t, store.Set(TokenKey, "fresh"))
	v, ok, err := store.Get(TokenKey)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "fresh", v)
}

func TestFileStoreReadOnlyFs(t *testing.T) {
	base := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(base, testPath, []byte(`{"auth_token":"abc"}`), 0o600))
	store := NewFileStore(afero.NewReadOnlyFs(base), testPath)

	v, ok, err := store.Get(TokenKey)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "abc", v)

	assert.Error(t, store.Set(UsernameKey, "mchen"))
	assert.Error(t, store.Delete(TokenKey))
}

func TestMemoryStore(t *testing.T) {
	store := NewMemoryStore()
	require.NoError(t, store.Set(TokenKey, "abc"))
	assert.Equal(t, map[string]string{TokenKey: "abc"}, store.Snapshot())
	require.NoError(t, store.Delete(TokenKey, UsernameKey))
	assert.Empty(t, store.Snapshot())
}
