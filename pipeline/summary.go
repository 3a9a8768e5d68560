package pipeline

import (
	"os"

	"repomart/warehouse"
)

// DirSummary is the per-directory tally of the end-of-run report.
type DirSummary struct {
	Dir   string
	Files int
	Bytes int64
}

// Summarize counts parquet files and their total size under each directory.
// Directories that do not exist yet report zero files.
func Summarize(dirs []string) []DirSummary {
	summaries := make([]DirSummary, 0, len(dirs))
	for _, dir := range dirs {
		s := DirSummary{Dir: dir}
		files, err := warehouse.FindParquetFiles(dir)
		if err == nil {
			for _, f := range files {
				s.Files++
				if info, err := os.Stat(f); err == nil {
					s.Bytes += info.Size()
				}
			}
		}
		summaries = append(summaries, s)
	}
	return summaries
}
