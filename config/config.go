package config

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/viper"
)

// Config holds all configuration for the pipeline
type Config struct {
	Org          string
	GitHubToken  string
	LookbackDays int
	DataDir      string
	LogLevel     string
	SkipIngest   bool
}

// NewConfig creates a new Config instance
func NewConfig() *Config {
	return &Config{}
}

// Load loads configuration from the environment and an optional .env file.
// The GitHub token is optional: without it the extractor runs unauthenticated
// against the public API.
func (c *Config) Load() error {
	viper.SetConfigFile(".env")
	viper.SetConfigType("env")
	viper.AutomaticEnv()

	// .env is optional
	_ = viper.ReadInConfig()

	c.GitHubToken = viper.GetString("GITHUB_TOKEN")

	c.Org = viper.GetString("GITHUB_ORG")
	if c.Org == "" {
		c.Org = "apache"
	}

	c.LookbackDays = viper.GetInt("LOOKBACK_DAYS")
	if c.LookbackDays == 0 {
		c.LookbackDays = 7
	}
	if c.LookbackDays < 0 {
		return fmt.Errorf("LOOKBACK_DAYS must be positive, got %d", c.LookbackDays)
	}

	c.DataDir = viper.GetString("DATA_DIR")
	if c.DataDir == "" {
		c.DataDir = "data"
	}

	c.LogLevel = viper.GetString("LOG_LEVEL")
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}

	return nil
}

// RawDir is the landing area for extracted records.
func (c *Config) RawDir() string {
	return filepath.Join(c.DataDir, "raw")
}

// RawTableDir holds the raw files for the github_repos table.
func (c *Config) RawTableDir() string {
	return filepath.Join(c.RawDir(), "github_repos")
}

// RawSnapshotPath is the consolidated raw store file the extractor rewrites
// on every load.
func (c *Config) RawSnapshotPath() string {
	return filepath.Join(c.RawTableDir(), "github_repos.parquet")
}

// CursorPath is the high-water-mark cursor state file.
func (c *Config) CursorPath() string {
	return filepath.Join(c.RawDir(), ".cursor.json")
}

// StagingDir is the output directory of the staging stage.
func (c *Config) StagingDir() string {
	return filepath.Join(c.DataDir, "staging")
}

// StagedPath is the single cleaned parquet file consumed by the marts stage.
func (c *Config) StagedPath() string {
	return filepath.Join(c.StagingDir(), "repos.parquet")
}

// MartsDir is the output directory of the marts stage.
func (c *Config) MartsDir() string {
	return filepath.Join(c.DataDir, "marts")
}

// LanguageMartPath is the repos_per_language output file.
func (c *Config) LanguageMartPath() string {
	return filepath.Join(c.MartsDir(), "repos_per_language.parquet")
}

// DailyActivityMartPath is the daily_activity output file.
func (c *Config) DailyActivityMartPath() string {
	return filepath.Join(c.MartsDir(), "daily_activity.parquet")
}
