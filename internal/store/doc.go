// Package store implements the data access layer for the job runner.
//
// The queue itself is never persisted: it lives in memory for the lifetime of
// a scheduler. The store keeps the history of runs and of every JobResult
// they produced so that results can be listed after the scheduler is gone.
//
// # Architecture Overview
//
//	┌─────────────────────────────────────────────────────────────────┐
//	│                         Store (facade)                          │
//	├────────────────────────────────┬────────────────────────────────┤
//	│           RunStore             │          ResultStore           │
//	│              ▼                 │             ▼                  │
//	│            runs                │           results              │
//	├────────────────────────────────┴────────────────────────────────┤
//	│                QueryInterceptor (debug logging)                 │
//	├─────────────────────────────────────────────────────────────────┤
//	│                     DuckDB (file or :memory:)                   │
//	└─────────────────────────────────────────────────────────────────┘
//
// # Tables
//
// Tables created by migrations (internal/store/migrations/sql/):
//
//	┌────────────────────┬─────────────────────────────────────────────┐
//	│  Table             │  Purpose                                    │
//	├────────────────────┼─────────────────────────────────────────────┤
//	│  runs              │  One row per scheduler run and its counters │
//	│  results           │  One row per executed job                   │
//	│  schema_migrations │  Migration version tracking                 │
//	└────────────────────┴─────────────────────────────────────────────┘
//
// # Initialization Flow
//
//	db, err := NewDB(path)        // retried with exponential backoff
//	s := NewStore(db)
//	err = s.Migrate(ctx)          // migrations.Run(ctx, db)
//
// # RunStore
//
// Methods:
//   - Create(ctx, run) → error
//   - Update(ctx, run) → error (ResourceNotFoundError when the run is unknown)
//   - Get(ctx, id) → *models.Run (ResourceNotFoundError when missing)
//   - List(ctx, opts...) → []models.Run, newest first
//
// # ResultStore
//
// Values are stored as JSON text and read back as json.RawMessage. Errors are
// stored as their message; the typed error is not preserved.
//
// Methods:
//   - Insert(ctx, runID, result) → error
//   - List(ctx, runID, opts...) → []models.JobResult in completion order
//   - Count(ctx, runID, opts...) → int
//
// # List Options
//
// ListOption functions modify a squirrel.SelectBuilder and can be combined:
//
//	results, err := s.Results().List(ctx, runID,
//	    store.ByStatus(models.JobStatusRejected),
//	    store.ByJobType("dataProcess"),
//	    store.WithLimit(50),
//	    store.WithOffset(0),
//	)
//
//   - ByStatus(statuses ...models.JobStatus)
//   - ByJobType(types ...string)
//   - ByState(states ...models.SchedulerState), runs only
//   - WithLimit(limit uint64)
//   - WithOffset(offset uint64)
package store
