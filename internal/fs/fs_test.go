package fs

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnsureFolderIsIdempotent(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "a", "b", "c")

	require.NoError(t, EnsureFolder(dir))
	require.NoError(t, EnsureFolder(dir))

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestWriteFileCreatesParentsAndRoundTrips(t *testing.T) {
	path := filepath.Join(t.TempDir(), "deep", "nested", "file.txt")

	require.NoError(t, WriteFile(path, "HELLO\nWORLD"))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "HELLO\nWORLD", string(data))
}

func TestWriteFileReplacesExistingContent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "f.txt")

	require.NoError(t, WriteFile(path, "first version, quite long"))
	require.NoError(t, WriteFile(path, "second"))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "second", string(data))
}

func TestPathResolver(t *testing.T) {
	root := t.TempDir()
	r := NewPathResolver(root)

	assert.Equal(t, filepath.Join(root, "src", "main.go"), r.Resolve("src/main.go"))
	assert.Equal(t, filepath.Join(root, "abs.txt"), r.Resolve(filepath.Join(root, "abs.txt")))
	assert.Equal(t, root, r.Root())
}

func TestCopyFile(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src.txt")
	dst := filepath.Join(dir, "sub", "dst.txt")
	require.NoError(t, os.WriteFile(src, []byte("payload"), 0644))

	require.NoError(t, CopyFile(src, dst))

	data, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.Equal(t, "payload", string(data))
}

func TestGetFileSHA256(t *testing.T) {
	path := filepath.Join(t.TempDir(), "h.txt")
	require.NoError(t, os.WriteFile(path, []byte("abc"), 0644))

	hash, err := GetFileSHA256(path)
	require.NoError(t, err)
	// sha256("abc")
	assert.Equal(t, "ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad", hash)

	_, err = GetFileSHA256(filepath.Join(t.TempDir(), "missing"))
	assert.Error(t, err)
}
