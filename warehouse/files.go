package warehouse

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// FindParquetFiles returns all parquet files under root, recursively, in
// walk order. A missing root is not an error: the store simply has no files
// yet.
func FindParquetFiles(root string) ([]string, error) {
	if _, err := os.Stat(root); os.IsNotExist(err) {
		return nil, nil
	}

	var files []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if strings.HasSuffix(d.Name(), ".parquet") {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return files, nil
}
