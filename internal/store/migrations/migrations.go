package migrations

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"sort"
	"strconv"
	"strings"

	"go.uber.org/zap"
)

//go:embed sql/*.sql
var files embed.FS

const (
	queryCreateSchemaMigrations = `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at TIMESTAMP NOT NULL DEFAULT now()
		)`

	queryCurrentVersion = `SELECT COALESCE(MAX(version), 0) FROM schema_migrations`

	queryInsertVersion = `INSERT INTO schema_migrations (version) VALUES (?)`
)

type migration struct {
	version int
	name    string
}

// Run applies every embedded migration newer than the recorded schema version.
// It is safe to call on an already migrated database.
func Run(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, queryCreateSchemaMigrations); err != nil {
		return fmt.Errorf("failed to create schema_migrations: %w", err)
	}

	var current int
	if err := db.QueryRowContext(ctx, queryCurrentVersion).Scan(&current); err != nil {
		return fmt.Errorf("failed to read schema version: %w", err)
	}

	pending, err := list()
	if err != nil {
		return err
	}

	for _, m := range pending {
		if m.version <= current {
			continue
		}

		body, err := files.ReadFile("sql/" + m.name)
		if err != nil {
			return err
		}

		if err := apply(ctx, db, m.version, string(body)); err != nil {
			return fmt.Errorf("migration %s failed: %w", m.name, err)
		}

		zap.S().Named("migrations").Debugw("migration applied", "version", m.version, "name", m.name)
	}

	return nil
}

func apply(ctx context.Context, db *sql.DB, version int, body string) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, body); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, queryInsertVersion, version); err != nil {
		return err
	}

	return tx.Commit()
}

func list() ([]migration, error) {
	entries, err := fs.ReadDir(files, "sql")
	if err != nil {
		return nil, err
	}

	var out []migration
	for _, e := range entries {
		prefix, _, found := strings.Cut(e.Name(), "_")
		if !found {
			return nil, fmt.Errorf("migration %s has no version prefix", e.Name())
		}
		v, err := strconv.Atoi(prefix)
		if err != nil {
			return nil, fmt.Errorf("migration %s has an invalid version: %w", e.Name(), err)
		}
		out = append(out, migration{version: v, name: e.Name()})
	}

	sort.Slice(out, func(i, j int) bool { return out[i].version < out[j].version })
	return out, nil
}
