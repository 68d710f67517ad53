package store

import (
	"context"
	"database/sql"
)

// DBTX is the database handle the post store runs its statements against.
// Both *sql.DB and *sql.Tx satisfy it, so a store can be constructed over a
// plain connection pool or scoped to a transaction without changing its code.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	PrepareContext(ctx context.Context, query string) (*sql.Stmt, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}
