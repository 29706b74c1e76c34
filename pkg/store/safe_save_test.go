package store

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSafeSave(t *testing.T) {
	t.Run("first write creates file and dirs", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "a", "b", "doc.json")
		saved, err := SafeSave(path, []byte("hello"), false)
		require.NoError(t, err)
		assert.True(t, saved)
		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, "hello", string(data))
		assert.NoFileExists(t, path+".tmp")
	})

	t.Run("growing write replaces", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "doc.json")
		require.NoError(t, os.WriteFile(path, []byte("short"), 0o600))
		saved, err := SafeSave(path, []byte("much longer"), false)
		require.NoError(t, err)
		assert.True(t, saved)
		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, "much longer", string(data))
	})

	t.Run("equal size replaces", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "doc.json")
		require.NoError(t, os.WriteFile(path, []byte("aaaa"), 0o600))
		saved, err := SafeSave(path, []byte("bbbb"), false)
		require.NoError(t, err)
		assert.True(t, saved)
	})

	t.Run("shrink refused keeps original byte-identical", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "doc.json")
		original := []byte(`{"name": "feed", "tags": ["a", "b"]}`)
		require.NoError(t, os.WriteFile(path, original, 0o600))

		saved, err := SafeSave(path, []byte(`{}`), false)
		require.NoError(t, err)
		assert.False(t, saved)

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, original, data)
		assert.NoFileExists(t, path+".tmp")
	})

	t.Run("shrink allowed", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "doc.json")
		require.NoError(t, os.WriteFile(path, []byte("long content"), 0o600))
		saved, err := SafeSave(path, []byte("x"), true)
		require.NoError(t, err)
		assert.True(t, saved)
		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, "x", string(data))
	})

	t.Run("unwritable dir", func(t *testing.T) {
		dir := t.TempDir()
		blocker := filepath.Join(dir, "file")
		require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o600))
		_, err := SafeSave(filepath.Join(blocker, "doc.json"), []byte("x"), false)
		require.Error(t, err)
	})
}
