package pathfix

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/pathfix/internal/foundation/errors"
)

func TestWriteFileAtomic(t *testing.T) {
	dir := newRepo(t)
	path := filepath.Join(dir, "page.md")
	require.NoError(t, os.WriteFile(path, []byte("old"), 0o640))
	require.NoError(t, os.Chmod(path, 0o640))

	require.NoError(t, writeFileAtomic(path, []byte("new")))

	assert.Equal(t, "new", readFile(t, path))
	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o640), info.Mode().Perm())

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temporary file left behind")
}

func TestWriteFileAtomic_MissingFile(t *testing.T) {
	err := writeFileAtomic(filepath.Join(newRepo(t), "missing.md"), []byte("x"))
	require.Error(t, err)
	assert.True(t, errors.HasCategory(err, errors.CategoryFileSystem))
}
