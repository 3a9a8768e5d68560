package ingest

import (
	"fmt"
	"strings"
	"time"

	"repomart/models"
	"repomart/warehouse"
)

// rawTable is the session-local table the fetched batch is appended into
// before being merged with the existing raw store.
const rawTable = "raw_batch"

// rawColumns is the raw store schema, named after the GitHub API payload.
const rawColumns = "id, name, full_name, description, stargazers_count, forks_count, language, created_at, updated_at, pushed_at"

const createRawBatchSQL = `
CREATE OR REPLACE TABLE raw_batch (
	id               BIGINT,
	name             VARCHAR,
	full_name        VARCHAR,
	description      VARCHAR,
	stargazers_count INTEGER,
	forks_count      INTEGER,
	language         VARCHAR,
	created_at       TIMESTAMP,
	updated_at       TIMESTAMP,
	pushed_at        TIMESTAMP
)`

// buildMergeQuery returns the upsert-by-id query over the fetched batch and
// any existing raw parquet files. Exactly one row survives per id: a batch row
// beats a stored row, and ties within a source resolve to the latest
// updated_at. Existing files join in by column name, so files written with an
// older column set still merge.
func buildMergeQuery(existing []string) string {
	src := fmt.Sprintf("SELECT %s, 1 AS batch_rank FROM %s", rawColumns, rawTable)

	if len(existing) > 0 {
		quoted := make([]string, len(existing))
		for i, f := range existing {
			quoted[i] = fmt.Sprintf("'%s'", warehouse.Quote(f))
		}
		src += fmt.Sprintf(
			"\nUNION ALL BY NAME\nSELECT %s, 0 AS batch_rank FROM read_parquet([%s], union_by_name = true)",
			rawColumns, strings.Join(quoted, ", "))
	}

	return fmt.Sprintf(`SELECT %s
FROM (
	SELECT *, row_number() OVER (PARTITION BY id ORDER BY batch_rank DESC, updated_at DESC) AS rn
	FROM (%s)
)
WHERE rn = 1`, rawColumns, src)
}

// maxUpdatedAt returns the newest updated_at in the batch
func maxUpdatedAt(repos []models.RawRepo) time.Time {
	var max time.Time
	for _, r := range repos {
		if r.UpdatedAt.After(max) {
			max = r.UpdatedAt
		}
	}
	return max
}
