package staging

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"repomart/config"
	"repomart/models"
)

func TestBuildStagingQuery(t *testing.T) {
	query := BuildStagingQuery([]string{
		"data/raw/github_repos/github_repos.parquet",
		"data/raw/github_repos/extra.parquet",
	})

	// Casts and renames
	assert.Contains(t, query, "CAST(id        AS BIGINT)  AS repo_id")
	assert.Contains(t, query, "CAST(stargazers_count AS INTEGER) AS stars")
	assert.Contains(t, query, "CAST(updated_at AS TIMESTAMP) AS updated_at")

	// Null defaults
	assert.Contains(t, query, "COALESCE(CAST(description AS VARCHAR), '') AS description")
	assert.Contains(t, query, "COALESCE(CAST(language AS VARCHAR), 'Unknown') AS language")

	// Filtering, ordering, schema-tolerant union
	assert.Contains(t, query, "WHERE name IS NOT NULL")
	assert.Contains(t, query, "ORDER BY updated_at DESC")
	assert.Contains(t, query, "read_parquet(['data/raw/github_repos/github_repos.parquet', 'data/raw/github_repos/extra.parquet'], union_by_name = true)")
}

func TestBuildStagingQueryQuotesPaths(t *testing.T) {
	query := BuildStagingQuery([]string{"data/o'brien/repos.parquet"})

	assert.Contains(t, query, "'data/o''brien/repos.parquet'")
}

func TestRunSkipsWithoutRawFiles(t *testing.T) {
	cfg := &config.Config{DataDir: t.TempDir()}

	out, err := Run(t.Context(), nil, cfg)

	require.NoError(t, err)
	assert.Equal(t, models.StageSkipped, out.Status)
	assert.Equal(t, "no raw parquet files", out.Reason)
}
