package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/kubev2v/jobrunner/internal/models"
	srvErrors "github.com/kubev2v/jobrunner/pkg/errors"
)

// RunStore persists one row per scheduler run.
type RunStore struct {
	db QueryInterceptor
}

func NewRunStore(db QueryInterceptor) *RunStore {
	return &RunStore{db: db}
}

func (s *RunStore) Create(ctx context.Context, run models.Run) error {
	createdAt := run.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	_, err := s.db.ExecContext(ctx, queryInsertRun,
		run.ID,
		string(run.State),
		run.Concurrency,
		run.Total,
		run.Fulfilled,
		run.Rejected,
		createdAt.UTC(),
		nullTime(run.FinishedAt),
	)
	return err
}

// Update writes the mutable fields of a run. Concurrency and creation time
// never change after Create.
func (s *RunStore) Update(ctx context.Context, run models.Run) error {
	res, err := s.db.ExecContext(ctx, queryUpdateRun,
		string(run.State),
		run.Total,
		run.Fulfilled,
		run.Rejected,
		nullTime(run.FinishedAt),
		run.ID,
	)
	if err != nil {
		return err
	}

	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return srvErrors.NewRunNotFoundError(run.ID)
	}
	return nil
}

func (s *RunStore) Get(ctx context.Context, id string) (*models.Run, error) {
	query, args, err := sq.Select(runColumns...).From("runs").Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return nil, err
	}

	run, err := scanRun(s.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, srvErrors.NewRunNotFoundError(id)
	}
	if err != nil {
		return nil, err
	}
	return run, nil
}

// List returns runs newest first.
func (s *RunStore) List(ctx context.Context, opts ...ListOption) ([]models.Run, error) {
	builder := sq.Select(runColumns...).From("runs").OrderBy("created_at DESC", "id")

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

	var runs []models.Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, *run)
	}

	return runs, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(row scanner) (*models.Run, error) {
	var (
		run        models.Run
		state      string
		finishedAt sql.NullTime
	)

	err := row.Scan(
		&run.ID,
		&state,
		&run.Concurrency,
		&run.Total,
		&run.Fulfilled,
		&run.Rejected,
		&run.CreatedAt,
		&finishedAt,
	)
	if err != nil {
		return nil, err
	}

	run.State = models.SchedulerState(state)
	if finishedAt.Valid {
		t := finishedAt.Time
		run.FinishedAt = &t
	}
	return &run, nil
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: t.UTC(), Valid: true}
}
