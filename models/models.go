// Package models defines the row types flowing through the pipeline stages
// and the outcome type each stage reports.
package models

import (
	"database/sql"
	"time"
)

// RawRepo is one repository record as landed in the raw store. Field names
// mirror the GitHub API payload; nullable API fields stay pointers so that
// NULLs survive into the raw parquet files.
type RawRepo struct {
	ID              int64      `json:"id"`
	Name            *string    `json:"name"`
	FullName        *string    `json:"full_name"`
	Description     *string    `json:"description"`
	StargazersCount int        `json:"stargazers_count"`
	ForksCount      int        `json:"forks_count"`
	Language        *string    `json:"language"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
	PushedAt        *time.Time `json:"pushed_at"`
}

// StagedRepo is the cleaned, type-enforced projection produced by the staging
// stage. Language and description are defaulted upstream ("Unknown" / ""), and
// rows with a NULL name never reach this type.
type StagedRepo struct {
	RepoID       int64        `db:"repo_id"`
	RepoName     string       `db:"repo_name"`
	RepoFullName string       `db:"repo_full_name"`
	Description  string       `db:"description"`
	Stars        int32        `db:"stars"`
	Forks        int32        `db:"forks"`
	Language     string       `db:"language"`
	CreatedAt    time.Time    `db:"created_at"`
	UpdatedAt    time.Time    `db:"updated_at"`
	PushedAt     sql.NullTime `db:"pushed_at"`
}

// LanguageStats is one row of the repos_per_language mart.
type LanguageStats struct {
	Language  string  `parquet:"name=language,type=BYTE_ARRAY,convertedtype=UTF8"`
	RepoCount int64   `parquet:"name=repo_count,type=INT64"`
	AvgStars  float64 `parquet:"name=avg_stars,type=DOUBLE"`
	AvgForks  float64 `parquet:"name=avg_forks,type=DOUBLE"`
}

// DailyActivity is one row of the daily_activity mart.
type DailyActivity struct {
	PushDate     string  `parquet:"name=push_date,type=BYTE_ARRAY,convertedtype=UTF8"`
	PushCount    int64   `parquet:"name=push_count,type=INT64"`
	Rolling7dAvg float64 `parquet:"name=rolling_7d_avg,type=DOUBLE"`
}

// StageStatus distinguishes a stage that produced output from one that had
// nothing to do.
type StageStatus string

const (
	StageCompleted StageStatus = "completed"
	StageSkipped   StageStatus = "skipped"
)

// Outcome is the tagged result of a single pipeline stage. Missing inputs and
// empty lookback windows are soft skips, not errors, so callers get a variant
// to branch or assert on instead of parsing log text.
type Outcome struct {
	Status StageStatus
	Rows   int64
	Reason string
}

// Completed reports a stage that wrote rows rows of output.
func Completed(rows int64) Outcome {
	return Outcome{Status: StageCompleted, Rows: rows}
}

// Skipped reports a stage that had nothing to do.
func Skipped(reason string) Outcome {
	return Outcome{Status: StageSkipped, Reason: reason}
}
