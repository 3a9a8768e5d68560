package warehouse

import "fmt"

// Common errors
var (
	ErrWarehouseOpen = fmt.Errorf("warehouse open error")
	ErrQueryFailed   = fmt.Errorf("warehouse query failed")
	ErrParquetWrite  = fmt.Errorf("parquet write failed")
)
