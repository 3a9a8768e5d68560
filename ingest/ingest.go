// Package ingest implements the extraction stage: page through an
// organization's repositories on the GitHub API and upsert them by id into
// the raw parquet store.
package ingest

import (
	"context"
	"database/sql/driver"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"repomart/config"
	"repomart/logger"
	"repomart/models"
	"repomart/warehouse"
)

// RepoFetcher abstracts the GitHub client operations needed by the extractor
// (for testability)
type RepoFetcher interface {
	FetchRepos(ctx context.Context, org string, since time.Time) ([]models.RawRepo, error)
}

// Run executes the extraction stage. Fetched records are merged into the raw
// store keyed by repository id, so overlapping re-runs update rather than
// duplicate. The high-water-mark cursor is advanced only after the merge has
// fully succeeded.
func Run(ctx context.Context, wh *warehouse.Warehouse, client RepoFetcher, cfg *config.Config) (models.Outcome, error) {
	cursor, err := LoadCursor(cfg.CursorPath())
	if err != nil {
		logger.Warn("Cursor state unreadable, re-fetching all pages", zap.Error(err))
		cursor = time.Time{}
	}

	logger.Info("Fetching repositories",
		zap.String("org", cfg.Org),
		zap.Time("cursor", cursor))

	repos, err := client.FetchRepos(ctx, cfg.Org, cursor)
	if err != nil {
		return models.Outcome{}, fmt.Errorf("%w: %v", ErrFetchAborted, err)
	}

	if len(repos) == 0 {
		logger.Warn("No repositories fetched, raw store left untouched",
			zap.String("org", cfg.Org))
		return models.Skipped("no records fetched"), nil
	}

	if err := os.MkdirAll(cfg.RawTableDir(), 0o755); err != nil {
		return models.Outcome{}, fmt.Errorf("%w: create raw dir: %v", ErrLoadFailed, err)
	}

	rows, err := load(ctx, wh, repos, cfg)
	if err != nil {
		return models.Outcome{}, err
	}

	if err := SaveCursor(cfg.CursorPath(), maxUpdatedAt(repos)); err != nil {
		return models.Outcome{}, fmt.Errorf("%w: %v", ErrLoadFailed, err)
	}

	logger.Info("Raw store loaded",
		zap.String("org", cfg.Org),
		zap.Int("fetched", len(repos)),
		zap.Int64("stored", rows),
		zap.String("path", cfg.RawSnapshotPath()))

	return models.Completed(rows), nil
}

// load appends the batch into the warehouse, merges it with the existing raw
// files, and atomically replaces the raw snapshot.
func load(ctx context.Context, wh *warehouse.Warehouse, repos []models.RawRepo, cfg *config.Config) (int64, error) {
	if err := wh.ExecContext(ctx, createRawBatchSQL); err != nil {
		return 0, fmt.Errorf("%w: %v", ErrLoadFailed, err)
	}

	appender, err := wh.Appender(rawTable)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrLoadFailed, err)
	}

	for _, r := range repos {
		err := appender.AppendRow(
			r.ID,
			strOrNil(r.Name),
			strOrNil(r.FullName),
			strOrNil(r.Description),
			int32(r.StargazersCount),
			int32(r.ForksCount),
			strOrNil(r.Language),
			r.CreatedAt,
			r.UpdatedAt,
			timeOrNil(r.PushedAt),
		)
		if err != nil {
			appender.Close()
			return 0, fmt.Errorf("%w: append id %d: %v", ErrLoadFailed, r.ID, err)
		}
	}
	// Close flushes the appender
	if err := appender.Close(); err != nil {
		return 0, fmt.Errorf("%w: flush batch: %v", ErrLoadFailed, err)
	}

	existing, err := warehouse.FindParquetFiles(cfg.RawTableDir())
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrLoadFailed, err)
	}

	snapshot := cfg.RawSnapshotPath()
	tmp := snapshot + ".tmp"
	if err := wh.CopyToParquet(ctx, buildMergeQuery(existing), tmp); err != nil {
		os.Remove(tmp)
		return 0, fmt.Errorf("%w: %v", ErrLoadFailed, err)
	}
	if err := os.Rename(tmp, snapshot); err != nil {
		os.Remove(tmp)
		return 0, fmt.Errorf("%w: %v", ErrLoadFailed, err)
	}

	// Pre-merge files are folded into the snapshot now; leaving them behind
	// would double-count rows at staging time.
	for _, f := range existing {
		if f == snapshot {
			continue
		}
		if err := os.Remove(f); err != nil {
			logger.Warn("Failed to remove merged raw file",
				zap.String("path", f), zap.Error(err))
		}
	}

	return wh.CountParquetRows(ctx, snapshot)
}

func strOrNil(s *string) driver.Value {
	if s == nil {
		return nil
	}
	return *s
}

func timeOrNil(t *time.Time) driver.Value {
	if t == nil {
		return nil
	}
	return *t
}
