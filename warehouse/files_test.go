package warehouse

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func touch(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))
}

func TestFindParquetFiles(t *testing.T) {
	root := t.TempDir()
	touch(t, filepath.Join(root, "a.parquet"))
	touch(t, filepath.Join(root, "github_repos", "b.parquet"))
	touch(t, filepath.Join(root, "github_repos", "nested", "c.parquet"))
	touch(t, filepath.Join(root, "notes.txt"))
	touch(t, filepath.Join(root, "b.parquet.tmp"))

	files, err := FindParquetFiles(root)

	require.NoError(t, err)
	assert.Len(t, files, 3)
	for _, f := range files {
		assert.True(t, filepath.Ext(f) == ".parquet")
	}
}

func TestFindParquetFilesMissingRoot(t *testing.T) {
	files, err := FindParquetFiles(filepath.Join(t.TempDir(), "does-not-exist"))

	require.NoError(t, err)
	assert.Empty(t, files)
}

func TestQuote(t *testing.T) {
	assert.Equal(t, "plain/path.parquet", Quote("plain/path.parquet"))
	assert.Equal(t, "o''brien", Quote("o'brien"))
}
