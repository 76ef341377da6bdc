// Package repositories contains the SQL access layer for the reference
// catalog tables.
package repositories

import (
	"context"
	"database/sql"
)

// queryExecutor is the subset of sql.DB the repositories need; it keeps the
// repositories mockable without a live database.
type queryExecutor interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// scanner abstracts sql.Row and sql.Rows for shared scan helpers.
type scanner interface {
	Scan(dest ...any) error
}
