package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollectFiles_Directory(t *testing.T) {
	dir := t.TempDir()
	sub := filepath.Join(dir, "nested")
	require.NoError(t, os.Mkdir(sub, 0o755))

	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.http"), nil, 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(sub, "b.httpspec"), nil, 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), nil, 0o644))

	files, err := collectFiles([]string{dir})
	require.NoError(t, err)
	assert.Len(t, files, 2)
}

func TestCollectFiles_ExplicitFile(t *testing.T) {
	// Paths with a test-file extension are taken as files without a
	// directory check.
	files, err := collectFiles([]string{"api.http", "smoke.httpspec"})
	require.NoError(t, err)
	assert.Equal(t, []string{"api.http", "smoke.httpspec"}, files)
}

func TestCollectFiles_InvalidPath(t *testing.T) {
	_, err := collectFiles([]string{filepath.Join(t.TempDir(), "missing")})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidPath)
}

func TestCollectFiles_RegularFileWithoutExtensionIsInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notes.txt")
	require.NoError(t, os.WriteFile(path, nil, 0o644))

	_, err := collectFiles([]string{path})
	assert.ErrorIs(t, err, ErrInvalidPath)
}

func TestIsSpecFile(t *testing.T) {
	assert.True(t, isSpecFile("a.http"))
	assert.True(t, isSpecFile("dir/b.httpspec"))
	assert.False(t, isSpecFile("c.txt"))
	assert.False(t, isSpecFile("http"))
}
