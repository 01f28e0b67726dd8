package postgres

import (
	"context"
	"database/sql"
)

// Queryer is the subset of *sql.DB and *sql.Tx the repositories use.
type Queryer interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}
