package marts

import (
	"fmt"
	"os"

	"github.com/xitongsys/parquet-go-source/local"
	"github.com/xitongsys/parquet-go/writer"
)

// writeParquet overwrites path with the given rows, serialized through the
// parquet tags on T. The write goes to a temp file first so a failed run
// never clobbers the previous mart.
func writeParquet[T any](path string, rows []T) error {
	tmp := path + ".tmp"

	fw, err := local.NewLocalFileWriter(tmp)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", tmp, err)
	}

	pw, err := writer.NewParquetWriter(fw, new(T), 2)
	if err != nil {
		fw.Close()
		os.Remove(tmp)
		return fmt.Errorf("failed to open parquet writer for %s: %w", path, err)
	}

	for i := range rows {
		if err := pw.Write(rows[i]); err != nil {
			fw.Close()
			os.Remove(tmp)
			return fmt.Errorf("failed to write row to %s: %w", path, err)
		}
	}
	if err := pw.WriteStop(); err != nil {
		fw.Close()
		os.Remove(tmp)
		return fmt.Errorf("failed to finalize %s: %w", path, err)
	}
	if err := fw.Close(); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("failed to close %s: %w", tmp, err)
	}

	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("failed to replace %s: %w", path, err)
	}
	return nil
}
