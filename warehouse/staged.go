package warehouse

import (
	"context"
	"fmt"

	"repomart/models"
)

// SelectStaged loads all rows of the staged parquet file, ordered newest-first
// to match the order the stager wrote them in.
func (w *Warehouse) SelectStaged(ctx context.Context, path string) ([]models.StagedRepo, error) {
	query := fmt.Sprintf(`
		SELECT repo_id, repo_name, repo_full_name, description,
			stars, forks, language,
			created_at, updated_at, pushed_at
		FROM read_parquet('%s')
		ORDER BY updated_at DESC`, Quote(path))

	var rows []models.StagedRepo
	if err := w.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("%w: select staged rows: %v", ErrQueryFailed, err)
	}
	return rows, nil
}
