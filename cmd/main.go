package main

import (
	"context"
	"flag"
	"log"

	"go.uber.org/zap"

	"repomart/config"
	"repomart/logger"
	"repomart/pipeline"
)

func main() {
	org := flag.String("org", "", "GitHub organisation to fetch (overrides GITHUB_ORG)")
	lookbackDays := flag.Int("lookback-days", 0, "lookback window in days (overrides LOOKBACK_DAYS)")
	skipIngest := flag.Bool("skip-ingest", false, "skip the extraction stage and re-run transforms only")
	flag.Parse()

	cfg := config.NewConfig()
	if err := cfg.Load(); err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if *org != "" {
		cfg.Org = *org
	}
	if *lookbackDays > 0 {
		cfg.LookbackDays = *lookbackDays
	}
	cfg.SkipIngest = *skipIngest

	if err := logger.Initialize(cfg.LogLevel); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	logger.Info("Starting pipeline",
		zap.String("org", cfg.Org),
		zap.Int("lookback_days", cfg.LookbackDays),
		zap.Bool("skip_ingest", cfg.SkipIngest))

	if err := pipeline.New(cfg).Run(context.Background()); err != nil {
		logger.Fatal("Pipeline failed", zap.Error(err))
	}
}
