package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"github.com/kubev2v/jobrunner/internal/models"
)

// ResultStore persists job results. Results are append-only and keep
// insertion order within a run.
type ResultStore struct {
	db QueryInterceptor
}

func NewResultStore(db QueryInterceptor) *ResultStore {
	return &ResultStore{db: db}
}

func (s *ResultStore) Insert(ctx context.Context, runID string, r models.JobResult) error {
	var value sql.NullString
	if r.Value != nil {
		data, err := json.Marshal(r.Value)
		if err != nil {
			return fmt.Errorf("failed to marshal value of job %s: %w", r.JobID, err)
		}
		value = sql.NullString{String: string(data), Valid: true}
	}

	var errMsg sql.NullString
	if r.Err != nil {
		errMsg = sql.NullString{String: r.Err.Error(), Valid: true}
	}

	_, err := s.db.ExecContext(ctx, queryInsertResult,
		runID,
		r.JobID,
		r.JobType,
		r.Status.Value(),
		value,
		errMsg,
		r.StartedAt.UTC(),
		r.FinishedAt.UTC(),
	)
	return err
}

// List returns the results of a run in completion order. Values come back as
// json.RawMessage and errors as plain error strings.
func (s *ResultStore) List(ctx context.Context, runID string, opts ...ListOption) ([]models.JobResult, error) {
	builder := sq.Select(resultColumns...).From("results").Where(sq.Eq{"run_id": runID}).OrderBy("seq")

	for _, opt := range opts {
		builder = opt(builder)
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	results := []models.JobResult{}
	for rows.Next() {
		var (
			r      models.JobResult
			status string
			value  sql.NullString
			errMsg sql.NullString
		)
		err := rows.Scan(
			&r.JobID,
			&r.JobType,
			&status,
			&value,
			&errMsg,
			&r.StartedAt,
			&r.FinishedAt,
		)
		if err != nil {
			return nil, err
		}

		r.Status = models.JobStatus(status)
		if value.Valid {
			r.Value = json.RawMessage(value.String)
		}
		if errMsg.Valid {
			r.Err = errors.New(errMsg.String)
		}
		results = append(results, r)
	}

	return results, rows.Err()
}

func (s *ResultStore) Count(ctx context.Context, runID string, opts ...ListOption) (int, error) {
	builder := sq.Select("COUNT(*)").From("results").Where(sq.Eq{"run_id": runID})

	for _, opt := range opts {
		builder = opt(builder)
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return 0, err
	}

	var count int
	err = s.db.QueryRowContext(ctx, query, args...).Scan(&count)
	return count, err
}
