// Package pipeline orchestrates the three stages: ingest → staging → marts.
package pipeline

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"repomart/config"
	"repomart/github"
	"repomart/ingest"
	"repomart/logger"
	"repomart/marts"
	"repomart/models"
	"repomart/staging"
	"repomart/warehouse"
)

// Pipeline represents one ELT invocation
type Pipeline struct {
	cfg    *config.Config
	client *github.Client
}

// New creates a new pipeline instance
func New(cfg *config.Config) *Pipeline {
	return &Pipeline{
		cfg:    cfg,
		client: github.NewClient(cfg.GitHubToken),
	}
}

// Run executes the stages strictly in sequence, aborting on the first error.
// Soft skips (missing inputs, empty windows) do not abort: a skipped stage
// leaves its output untouched and the next stage decides for itself whether
// it has anything to work with.
func (p *Pipeline) Run(ctx context.Context) error {
	start := time.Now()

	wh, err := warehouse.Open(ctx)
	if err != nil {
		return fmt.Errorf("failed to open warehouse: %w", err)
	}
	defer func() {
		if err := wh.Close(); err != nil {
			logger.Error("Failed to close warehouse", zap.Error(err))
		}
	}()

	if p.cfg.SkipIngest {
		logger.Info("Stage skipped by flag", zap.String("stage", "ingest"))
	} else {
		out, err := ingest.Run(ctx, wh, p.client, p.cfg)
		if err != nil {
			return fmt.Errorf("ingest stage failed: %w", err)
		}
		logOutcome("ingest", out)
	}

	out, err := staging.Run(ctx, wh, p.cfg)
	if err != nil {
		return fmt.Errorf("staging stage failed: %w", err)
	}
	logOutcome("staging", out)

	out, err = marts.Run(ctx, wh, p.cfg)
	if err != nil {
		return fmt.Errorf("marts stage failed: %w", err)
	}
	logOutcome("marts", out)

	p.logSummary()
	logger.Info("Pipeline completed", zap.Duration("elapsed", time.Since(start)))
	return nil
}

func logOutcome(stage string, out models.Outcome) {
	if out.Status == models.StageSkipped {
		logger.Info("Stage skipped",
			zap.String("stage", stage),
			zap.String("reason", out.Reason))
		return
	}
	logger.Info("Stage completed",
		zap.String("stage", stage),
		zap.Int64("rows", out.Rows))
}

// logSummary reports parquet file counts and sizes per storage directory
func (p *Pipeline) logSummary() {
	dirs := []string{p.cfg.RawDir(), p.cfg.StagingDir(), p.cfg.MartsDir()}
	for _, s := range Summarize(dirs) {
		logger.Info("Pipeline summary",
			zap.String("dir", s.Dir),
			zap.Int("files", s.Files),
			zap.Int64("bytes", s.Bytes))
	}
}
