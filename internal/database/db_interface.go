package database

import (
	"context"
	"database/sql"

	"github.com/vinovest/sqlx"
)

// Querier is the subset of sqlx used by the repositories. Both the pool and
// a transaction satisfy it, so repository methods can run inside Transaction.
type Querier interface {
	// GetContext scans a single row into dest.
	GetContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error

	// SelectContext scans all rows into the slice pointed to by dest.
	SelectContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error

	// ExecContext executes a query without returning any rows.
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)

	// QueryRowxContext executes a query that is expected to return at most one row.
	QueryRowxContext(ctx context.Context, query string, args ...interface{}) *sqlx.Row
}

var (
	_ Querier = (*sqlx.DB)(nil)
	_ Querier = (*sqlx.Tx)(nil)
)
