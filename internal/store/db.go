package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v5"
	_ "github.com/duckdb/duckdb-go/v2"
	"go.uber.org/zap"
)

const (
	driverName   = "duckdb"
	openMaxTries = 5
)

// NewDB opens a DuckDB database at path. ":memory:" opens a private in-memory
// database. A database file held by another process is retried with an
// exponential backoff before giving up.
func NewDB(path string) (*sql.DB, error) {
	ctx := context.Background()

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 100 * time.Millisecond
	b.MaxInterval = 2 * time.Second

	db, err := backoff.Retry(ctx, func() (*sql.DB, error) {
		db, err := sql.Open(driverName, dsn(path))
		if err != nil {
			zap.S().Named("store").Debugw("failed to open database, retrying", "path", path, "error", err)
			return nil, err
		}
		if err := db.PingContext(ctx); err != nil {
			_ = db.Close()
			zap.S().Named("store").Debugw("failed to ping database, retrying", "path", path, "error", err)
			return nil, err
		}
		return db, nil
	}, backoff.WithBackOff(b), backoff.WithMaxTries(openMaxTries))
	if err != nil {
		return nil, fmt.Errorf("failed to open database %q: %w", path, err)
	}

	return db, nil
}

func dsn(path string) string {
	if path == ":memory:" {
		return ""
	}
	return path
}
