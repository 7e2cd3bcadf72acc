package core

import (
	"context"
	"database/sql"
)

// DBExecutor is the subset of *sqlx.DB (or *sqlx.Tx) the repositories need.
type DBExecutor interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	GetContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
	SelectContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
}
