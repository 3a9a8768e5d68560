// Package warehouse wraps the embedded DuckDB engine the transform stages run
// on. One Warehouse is one in-memory session: a sqlx handle for SQL, plus a
// native connection for the Appender bulk-load API.
package warehouse

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	duckdb "github.com/marcboeker/go-duckdb/v2"
	"github.com/jmoiron/sqlx"
)

// Warehouse represents an embedded DuckDB session
type Warehouse struct {
	connector *duckdb.Connector
	conn      *duckdb.Conn // native connection for the Appender API
	db        *sqlx.DB
}

// Open creates a new in-memory DuckDB session
func Open(ctx context.Context) (*Warehouse, error) {
	connector, err := duckdb.NewConnector("", nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrWarehouseOpen, err)
	}

	db := sqlx.NewDb(sql.OpenDB(connector), "duckdb")
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: %v", ErrWarehouseOpen, err)
	}

	// Second connection off the same connector, so Appender writes land in
	// the same in-memory database the sqlx handle queries.
	conn, err := connector.Connect(ctx)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: %v", ErrWarehouseOpen, err)
	}
	duckConn, ok := conn.(*duckdb.Conn)
	if !ok {
		conn.Close()
		db.Close()
		return nil, fmt.Errorf("%w: unexpected native connection type", ErrWarehouseOpen)
	}

	return &Warehouse{
		connector: connector,
		conn:      duckConn,
		db:        db,
	}, nil
}

// DB exposes the sqlx handle
func (w *Warehouse) DB() *sqlx.DB {
	return w.db
}

// ExecContext executes a statement on the session
func (w *Warehouse) ExecContext(ctx context.Context, query string, args ...interface{}) error {
	if _, err := w.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: %v", ErrQueryFailed, err)
	}
	return nil
}

// Appender returns a native appender for bulk inserts into table. The table
// must already exist; the caller owns Close.
func (w *Warehouse) Appender(table string) (*duckdb.Appender, error) {
	appender, err := duckdb.NewAppenderFromConn(w.conn, "", table)
	if err != nil {
		return nil, fmt.Errorf("%w: appender for %s: %v", ErrQueryFailed, table, err)
	}
	return appender, nil
}

// CopyToParquet materializes a query result as a parquet file at dest
func (w *Warehouse) CopyToParquet(ctx context.Context, query, dest string) error {
	stmt := fmt.Sprintf("COPY (%s) TO '%s' (FORMAT PARQUET)", query, Quote(dest))
	if _, err := w.db.ExecContext(ctx, stmt); err != nil {
		return fmt.Errorf("%w: copy to %s: %v", ErrParquetWrite, dest, err)
	}
	return nil
}

// CountParquetRows returns the number of rows in a parquet file
func (w *Warehouse) CountParquetRows(ctx context.Context, path string) (int64, error) {
	var count int64
	query := fmt.Sprintf("SELECT count(*) FROM read_parquet('%s')", Quote(path))
	if err := w.db.GetContext(ctx, &count, query); err != nil {
		return 0, fmt.Errorf("%w: count %s: %v", ErrQueryFailed, path, err)
	}
	return count, nil
}

// Close tears the session down
func (w *Warehouse) Close() error {
	var errs []string
	if w.conn != nil {
		if err := w.conn.Close(); err != nil {
			errs = append(errs, err.Error())
		}
	}
	if w.db != nil {
		if err := w.db.Close(); err != nil {
			errs = append(errs, err.Error())
		}
	}
	if w.connector != nil {
		if err := w.connector.Close(); err != nil {
			errs = append(errs, err.Error())
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("failed to close warehouse: %s", strings.Join(errs, "; "))
	}
	return nil
}

// Quote escapes a string for embedding in a single-quoted SQL literal
func Quote(s string) string {
	return strings.ReplaceAll(s, "'", "''")
}
