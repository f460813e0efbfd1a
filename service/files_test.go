package service

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFileStore(t *testing.T) *FileStore {
	t.Helper()
	fs, err := NewFileStore(filepath.Join(t.TempDir(), "uploads"))
	require.NoError(t, err)
	return fs
}

func dirEntries(t *testing.T, dir string) []string {
	t.Helper()
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names
}

func TestSaveGeneratesUniqueStoredNames(t *testing.T) {
	fs := newFileStore(t)
	name1, size, err := fs.Save(strings.NewReader("%PDF-1.4 one"))
	require.NoError(t, err)
	assert.Equal(t, int64(12), size)
	name2, _, err := fs.Save(strings.NewReader("%PDF-1.4 two"))
	require.NoError(t, err)

	assert.NotEqual(t, name1, name2)
	assert.True(t, strings.HasSuffix(name1, ".pdf"))
	assert.True(t, fs.Exists(name1))
	assert.True(t, fs.Exists(name2))
	// No temp files left behind.
	assert.ElementsMatch(t, []string{name1, name2}, dirEntries(t, fs.Dir()))
}

func TestOpenStreamsSavedBytes(t *testing.T) {
	fs := newFileStore(t)
	name, _, err := fs.Save(strings.NewReader("%PDF-1.4 hello"))
	require.NoError(t, err)

	f, err := fs.Open(name)
	require.NoError(t, err)
	defer f.Close()
	data, err := os.ReadFile(f.Name())
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.4 hello", string(data))
}

func TestDelete(t *testing.T) {
	fs := newFileStore(t)
	name, _, err := fs.Save(strings.NewReader("%PDF-1.4"))
	require.NoError(t, err)
	require.NoError(t, fs.Delete(name))
	assert.False(t, fs.Exists(name))
	// Deleting an already-missing file is fine.
	assert.NoError(t, fs.Delete(name))
}

func TestStoredNamesCannotEscapeDirectory(t *testing.T) {
	fs := newFileStore(t)
	for _, name := range []string{"", "../etc/passwd", "a/b.pdf", ".hidden"} {
		_, err := fs.Open(name)
		assert.ErrorIs(t, err, ErrBadName, "open %q", name)
		assert.ErrorIs(t, fs.Delete(name), ErrBadName, "delete %q", name)
		assert.False(t, fs.Exists(name))
	}
}
