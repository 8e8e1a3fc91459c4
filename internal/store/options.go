package store

import (
	sq "github.com/Masterminds/squirrel"

	"github.com/kubev2v/jobrunner/internal/models"
)

type ListOption func(sq.SelectBuilder) sq.SelectBuilder

// ByStatus filters results by status. Multiple statuses use OR logic.
func ByStatus(statuses ...models.JobStatus) ListOption {
	return func(b sq.SelectBuilder) sq.SelectBuilder {
		if len(statuses) == 0 {
			return b
		}
		values := make([]string, 0, len(statuses))
		for _, s := range statuses {
			values = append(values, s.Value())
		}
		return b.Where(sq.Eq{"status": values})
	}
}

func ByJobType(types ...string) ListOption {
	return func(b sq.SelectBuilder) sq.SelectBuilder {
		if len(types) == 0 {
			return b
		}
		return b.Where(sq.Eq{"job_type": types})
	}
}

func ByState(states ...models.SchedulerState) ListOption {
	return func(b sq.SelectBuilder) sq.SelectBuilder {
		if len(states) == 0 {
			return b
		}
		values := make([]string, 0, len(states))
		for _, s := range states {
			values = append(values, string(s))
		}
		return b.Where(sq.Eq{"state": values})
	}
}

func WithLimit(limit uint64) ListOption {
	return func(b sq.SelectBuilder) sq.SelectBuilder {
		return b.Limit(limit)
	}
}

func WithOffset(offset uint64) ListOption {
	return func(b sq.SelectBuilder) sq.SelectBuilder {
		return b.Offset(offset)
	}
}
