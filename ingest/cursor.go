package ingest

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"
)

// Cursor is the persisted high-water mark of the raw store: the maximum
// updated_at observed in the last fully successful load. It is written only
// after a load completes, so a crashed run re-fetches from the previous mark.
type Cursor struct {
	UpdatedAt time.Time `json:"updated_at"`
}

// LoadCursor reads the cursor state file. A missing file yields the zero time,
// which makes the extractor page through the organization's full history.
func LoadCursor(path string) (time.Time, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return time.Time{}, nil
	}
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %v", ErrCursorCorrupt, err)
	}

	var c Cursor
	if err := json.Unmarshal(data, &c); err != nil {
		return time.Time{}, fmt.Errorf("%w: %v", ErrCursorCorrupt, err)
	}
	return c.UpdatedAt, nil
}

// SaveCursor atomically replaces the cursor state file
func SaveCursor(path string, updatedAt time.Time) error {
	data, err := json.Marshal(Cursor{UpdatedAt: updatedAt})
	if err != nil {
		return fmt.Errorf("failed to encode cursor: %w", err)
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("failed to write cursor: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("failed to write cursor: %w", err)
	}
	return nil
}
