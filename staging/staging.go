// Package staging implements the cleaning stage: every raw parquet file is
// unioned by column name, cast to the staged schema, filtered, and rewritten
// as a single parquet file for the marts stage.
package staging

import (
	"context"
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"

	"repomart/config"
	"repomart/logger"
	"repomart/models"
	"repomart/warehouse"
)

// Common errors
var (
	ErrStagingFailed = fmt.Errorf("staging transform failed")
)

// BuildStagingQuery returns the cast/rename/filter query over the given raw
// parquet files. Missing language defaults to "Unknown", missing description
// to the empty string; rows without a name are dropped. Files with divergent
// column sets union by name, not position.
func BuildStagingQuery(files []string) string {
	quoted := make([]string, len(files))
	for i, f := range files {
		quoted[i] = fmt.Sprintf("'%s'", warehouse.Quote(f))
	}

	return fmt.Sprintf(`
SELECT
	CAST(id        AS BIGINT)  AS repo_id,
	CAST(name      AS VARCHAR) AS repo_name,
	CAST(full_name AS VARCHAR) AS repo_full_name,
	COALESCE(CAST(description AS VARCHAR), '') AS description,

	CAST(stargazers_count AS INTEGER) AS stars,
	CAST(forks_count      AS INTEGER) AS forks,

	COALESCE(CAST(language AS VARCHAR), 'Unknown') AS language,

	CAST(created_at AS TIMESTAMP) AS created_at,
	CAST(updated_at AS TIMESTAMP) AS updated_at,
	CAST(pushed_at  AS TIMESTAMP) AS pushed_at

FROM read_parquet([%s], union_by_name = true)
WHERE name IS NOT NULL
ORDER BY updated_at DESC`, strings.Join(quoted, ", "))
}

// Run executes the staging stage. An empty raw store is a soft skip, not an
// error; cast failures propagate.
func Run(ctx context.Context, wh *warehouse.Warehouse, cfg *config.Config) (models.Outcome, error) {
	files, err := warehouse.FindParquetFiles(cfg.RawDir())
	if err != nil {
		return models.Outcome{}, fmt.Errorf("%w: %v", ErrStagingFailed, err)
	}
	if len(files) == 0 {
		logger.Warn("No raw parquet files found, skipping staging",
			zap.String("raw_dir", cfg.RawDir()))
		return models.Skipped("no raw parquet files"), nil
	}

	logger.Info("Staging raw files", zap.Int("file_count", len(files)))

	if err := os.MkdirAll(cfg.StagingDir(), 0o755); err != nil {
		return models.Outcome{}, fmt.Errorf("%w: create staging dir: %v", ErrStagingFailed, err)
	}

	staged := cfg.StagedPath()
	tmp := staged + ".tmp"
	if err := wh.CopyToParquet(ctx, BuildStagingQuery(files), tmp); err != nil {
		os.Remove(tmp)
		return models.Outcome{}, fmt.Errorf("%w: %v", ErrStagingFailed, err)
	}
	if err := os.Rename(tmp, staged); err != nil {
		os.Remove(tmp)
		return models.Outcome{}, fmt.Errorf("%w: %v", ErrStagingFailed, err)
	}

	rows, err := wh.CountParquetRows(ctx, staged)
	if err != nil {
		return models.Outcome{}, fmt.Errorf("%w: %v", ErrStagingFailed, err)
	}

	logger.Info("Staged rows written",
		zap.Int64("rows", rows),
		zap.String("path", staged))

	return models.Completed(rows), nil
}
