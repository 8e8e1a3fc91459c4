package store

import (
	"context"
	"database/sql"
	"time"

	"go.uber.org/zap"
)

// QueryInterceptor wraps a *sql.DB and logs every statement at debug level.
type QueryInterceptor struct {
	db *sql.DB
}

func NewQueryInterceptor(db *sql.DB) QueryInterceptor {
	return QueryInterceptor{db: db}
}

func (q QueryInterceptor) QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row {
	defer q.log("query_row", query, args, time.Now())
	return q.db.QueryRowContext(ctx, query, args...)
}

func (q QueryInterceptor) QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	defer q.log("query", query, args, time.Now())
	return q.db.QueryContext(ctx, query, args...)
}

func (q QueryInterceptor) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	defer q.log("exec", query, args, time.Now())
	return q.db.ExecContext(ctx, query, args...)
}

func (q QueryInterceptor) log(op, query string, args []any, start time.Time) {
	zap.S().Named("store").Debugw(op, "sql", query, "args", args, "took", time.Since(start))
}
