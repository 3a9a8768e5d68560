package ingest

import "fmt"

// Common errors
var (
	ErrFetchAborted  = fmt.Errorf("repository fetch aborted")
	ErrLoadFailed    = fmt.Errorf("raw store load failed")
	ErrCursorCorrupt = fmt.Errorf("cursor state unreadable")
)
