package kvstore

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFileStore_RoundTrip(t *testing.T) {
	fs, err := NewFileStore(t.TempDir())
	require.NoError(t, err)

	_, ok := fs.Get("client-1/history")
	require.False(t, ok)

	require.NoError(t, fs.Set("client-1/history", `[{"role":"user"}]`))
	got, ok := fs.Get("client-1/history")
	require.True(t, ok)
	require.Equal(t, `[{"role":"user"}]`, got)
}

func TestFileStore_Delete(t *testing.T) {
	fs, err := NewFileStore(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, fs.Set("k", "v"))
	require.NoError(t, fs.Delete("k"))
	_, ok := fs.Get("k")
	require.False(t, ok)

	// Deleting an absent key is not an error.
	require.NoError(t, fs.Delete("k"))
}

func TestFileStore_KeysShareDirectory(t *testing.T) {
	dir := t.TempDir()
	fs, err := NewFileStore(dir)
	require.NoError(t, err)

	require.NoError(t, fs.Set("abc/history", "h"))
	require.NoError(t, fs.Set("abc/profile", "p"))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	for _, e := range entries {
		require.Equal(t, ".json", filepath.Ext(e.Name()))
	}

	h, ok := fs.Get("abc/history")
	require.True(t, ok)
	require.Equal(t, "h", h)
	p, ok := fs.Get("abc/profile")
	require.True(t, ok)
	require.Equal(t, "p", p)
}

func TestMemoryStore(t *testing.T) {
	ms := NewMemoryStore()
	_, ok := ms.Get("k")
	require.False(t, ok)

	require.NoError(t, ms.Set("k", "v"))
	got, ok := ms.Get("k")
	require.True(t, ok)
	require.Equal(t, "v", got)

	require.NoError(t, ms.Delete("k"))
	_, ok = ms.Get("k")
	require.False(t, ok)
}
