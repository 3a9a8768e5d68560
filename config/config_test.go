package config

import (
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	viper.Reset()
	t.Setenv("GITHUB_ORG", "")
	t.Setenv("GITHUB_TOKEN", "")
	t.Setenv("LOOKBACK_DAYS", "")
	t.Setenv("DATA_DIR", "")
	t.Setenv("LOG_LEVEL", "")

	cfg := NewConfig()
	require.NoError(t, cfg.Load())

	assert.Equal(t, "apache", cfg.Org)
	assert.Empty(t, cfg.GitHubToken)
	assert.Equal(t, 7, cfg.LookbackDays)
	assert.Equal(t, "data", cfg.DataDir)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestLoadFromEnvironment(t *testing.T) {
	viper.Reset()
	t.Setenv("GITHUB_ORG", "python")
	t.Setenv("GITHUB_TOKEN", "secret-token")
	t.Setenv("LOOKBACK_DAYS", "30")
	t.Setenv("DATA_DIR", "/var/lib/repomart")
	t.Setenv("LOG_LEVEL", "debug")

	cfg := NewConfig()
	require.NoError(t, cfg.Load())

	assert.Equal(t, "python", cfg.Org)
	assert.Equal(t, "secret-token", cfg.GitHubToken)
	assert.Equal(t, 30, cfg.LookbackDays)
	assert.Equal(t, "/var/lib/repomart", cfg.DataDir)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestLoadRejectsNegativeLookback(t *testing.T) {
	viper.Reset()
	t.Setenv("LOOKBACK_DAYS", "-3")

	cfg := NewConfig()
	err := cfg.Load()

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "LOOKBACK_DAYS")
}

func TestStoragePaths(t *testing.T) {
	cfg := &Config{DataDir: "data"}

	assert.Equal(t, filepath.Join("data", "raw"), cfg.RawDir())
	assert.Equal(t, filepath.Join("data", "raw", "github_repos"), cfg.RawTableDir())
	assert.Equal(t, filepath.Join("data", "raw", "github_repos", "github_repos.parquet"), cfg.RawSnapshotPath())
	assert.Equal(t, filepath.Join("data", "raw", ".cursor.json"), cfg.CursorPath())
	assert.Equal(t, filepath.Join("data", "staging", "repos.parquet"), cfg.StagedPath())
	assert.Equal(t, filepath.Join("data", "marts", "repos_per_language.parquet"), cfg.LanguageMartPath())
	assert.Equal(t, filepath.Join("data", "marts", "daily_activity.parquet"), cfg.DailyActivityMartPath())
}
