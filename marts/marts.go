// Package marts implements the aggregation stage: staged rows within the
// lookback window roll up into the repos_per_language and daily_activity
// mart tables.
package marts

import (
	"context"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"repomart/config"
	"repomart/logger"
	"repomart/models"
	"repomart/warehouse"
)

// Common errors
var (
	ErrMartsFailed = fmt.Errorf("marts build failed")
)

// Run executes the marts stage. A missing staged file or an empty lookback
// window is a soft skip that leaves any previous mart files in place.
func Run(ctx context.Context, wh *warehouse.Warehouse, cfg *config.Config) (models.Outcome, error) {
	staged := cfg.StagedPath()
	if _, err := os.Stat(staged); os.IsNotExist(err) {
		logger.Warn("No staging file found, skipping marts",
			zap.String("path", staged))
		return models.Skipped("no staging file"), nil
	}

	rows, err := wh.SelectStaged(ctx, staged)
	if err != nil {
		return models.Outcome{}, fmt.Errorf("%w: %v", ErrMartsFailed, err)
	}
	logger.Info("Loaded staged rows", zap.Int("rows", len(rows)))

	cutoff := Cutoff(time.Now(), cfg.LookbackDays)
	recent := FilterSince(rows, cutoff)
	logger.Info("Applied lookback window",
		zap.Int("rows", len(recent)),
		zap.Int("lookback_days", cfg.LookbackDays),
		zap.Time("cutoff", cutoff))

	if len(recent) == 0 {
		logger.Warn("No rows within lookback window, skipping marts")
		return models.Skipped("no rows within lookback window"), nil
	}

	if err := os.MkdirAll(cfg.MartsDir(), 0o755); err != nil {
		return models.Outcome{}, fmt.Errorf("%w: create marts dir: %v", ErrMartsFailed, err)
	}

	languages := BuildLanguageStats(recent)
	if err := writeParquet(cfg.LanguageMartPath(), languages); err != nil {
		return models.Outcome{}, fmt.Errorf("%w: %v", ErrMartsFailed, err)
	}
	logger.Info("Mart written",
		zap.String("mart", "repos_per_language"),
		zap.Int("rows", len(languages)),
		zap.String("path", cfg.LanguageMartPath()))

	daily := BuildDailyActivity(recent)
	if err := writeParquet(cfg.DailyActivityMartPath(), daily); err != nil {
		return models.Outcome{}, fmt.Errorf("%w: %v", ErrMartsFailed, err)
	}
	logger.Info("Mart written",
		zap.String("mart", "daily_activity"),
		zap.Int("rows", len(daily)),
		zap.String("path", cfg.DailyActivityMartPath()))

	return models.Completed(int64(len(languages) + len(daily))), nil
}
