package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/kubev2v/jobrunner/internal/config"
	"github.com/kubev2v/jobrunner/internal/models"
	"github.com/kubev2v/jobrunner/internal/store"
	srvErrors "github.com/kubev2v/jobrunner/pkg/errors"
	"github.com/kubev2v/jobrunner/pkg/middleware"
	"github.com/kubev2v/jobrunner/pkg/queue"
	"github.com/kubev2v/jobrunner/pkg/registry"
	"github.com/kubev2v/jobrunner/pkg/scheduler"
)

var ErrServiceClosed = errors.New("runner service is closed")

// RunRequest is one batch of jobs to drain with a fresh scheduler.
type RunRequest struct {
	// Concurrency overrides the configured concurrency when positive.
	Concurrency int
	Jobs        []models.Job
}

// ResultFilter narrows the results returned by RunnerService.Results.
type ResultFilter struct {
	Statuses []models.JobStatus
	Types    []string
	Limit    uint64
	Offset   uint64
}

// RunnerService builds one queue and scheduler per run, persists every
// result through a scheduler result hook and keeps live schedulers so they
// can be stopped.
type RunnerService struct {
	registry *registry.Registry
	store    *store.Store
	cfg      config.Scheduler

	mu     sync.Mutex
	live   map[string]*scheduler.Scheduler
	wg     sync.WaitGroup
	closed bool
}

func NewRunnerService(reg *registry.Registry, st *store.Store, cfg config.Scheduler) *RunnerService {
	return &RunnerService{
		registry: reg,
		store:    st,
		cfg:      cfg,
		live:     make(map[string]*scheduler.Scheduler),
	}
}

// Types returns the registered job types.
func (r *RunnerService) Types() []string {
	return r.registry.Names()
}

// Run drains req on the calling goroutine and returns the finished run with
// its results in completion order. Cancelling ctx stops admission; jobs
// already running finish before Run returns.
func (r *RunnerService) Run(ctx context.Context, req RunRequest) (*models.Run, []models.JobResult, error) {
	run, s, err := r.prepare(ctx, req)
	if err != nil {
		return nil, nil, err
	}
	defer r.wg.Done()
	defer r.forget(run.ID)

	if err := r.execute(ctx, run, s); err != nil {
		return run, s.Results(), err
	}
	return run, s.Results(), nil
}

// Submit starts req in the background and returns the created run at once.
// The run outlives ctx; use Stop or Close to halt it.
func (r *RunnerService) Submit(ctx context.Context, req RunRequest) (*models.Run, error) {
	run, s, err := r.prepare(ctx, req)
	if err != nil {
		return nil, err
	}

	snapshot := *run
	bg := context.WithoutCancel(ctx)

	go func() {
		defer r.wg.Done()
		defer r.forget(run.ID)

		if err := r.execute(bg, run, s); err != nil {
			zap.S().Named("runner_service").Errorw("run failed", "run_id", run.ID, "error", err)
		}
	}()

	return &snapshot, nil
}

// Get returns a run. Live runs report the scheduler's current counters.
func (r *RunnerService) Get(ctx context.Context, id string) (*models.Run, error) {
	run, err := r.store.Runs().Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if s, ok := r.lookup(id); ok {
		stats := s.Stats()
		run.State = stats.State
		run.Fulfilled = stats.Fulfilled
		run.Rejected = stats.Rejected
	}

	return run, nil
}

func (r *RunnerService) List(ctx context.Context, opts ...store.ListOption) ([]models.Run, error) {
	return r.store.Runs().List(ctx, opts...)
}

// Results returns the persisted results of a run. It fails with
// ResourceNotFoundError when the run does not exist.
func (r *RunnerService) Results(ctx context.Context, id string, filter ResultFilter) ([]models.JobResult, error) {
	if _, err := r.store.Runs().Get(ctx, id); err != nil {
		return nil, err
	}

	opts := []store.ListOption{
		store.ByStatus(filter.Statuses...),
		store.ByJobType(filter.Types...),
	}
	if filter.Limit > 0 {
		opts = append(opts, store.WithLimit(filter.Limit))
	}
	if filter.Offset > 0 {
		opts = append(opts, store.WithOffset(filter.Offset))
	}

	return r.store.Results().List(ctx, id, opts...)
}

// Stop asks a live run to stop admitting jobs. Jobs already running finish.
func (r *RunnerService) Stop(id string) error {
	s, ok := r.lookup(id)
	if !ok {
		return srvErrors.NewRunNotFoundError(id)
	}
	s.Stop()
	return nil
}

// Close stops every live run, refuses new ones and waits for every run it
// stopped to be recorded as finished.
func (r *RunnerService) Close() {
	r.mu.Lock()
	r.closed = true
	for _, s := range r.live {
		s.Stop()
	}
	r.mu.Unlock()

	r.wg.Wait()
}

// prepare creates the run and registers it as live. The caller owns one
// r.wg count and must call r.wg.Done once the run is finished.
func (r *RunnerService) prepare(ctx context.Context, req RunRequest) (*models.Run, *scheduler.Scheduler, error) {
	jobs, err := normalize(req.Jobs)
	if err != nil {
		return nil, nil, err
	}

	concurrency := req.Concurrency
	if concurrency <= 0 {
		concurrency = r.cfg.Concurrency
	}
	if concurrency <= 0 {
		concurrency = scheduler.DefaultConcurrency
	}

	run := &models.Run{
		ID:          uuid.NewString(),
		State:       models.SchedulerStateIdle,
		Concurrency: concurrency,
		Total:       len(jobs),
		CreatedAt:   time.Now(),
	}

	q := queue.New[models.Job]()
	for _, j := range jobs {
		q.Enqueue(j)
	}

	s := scheduler.New(q, r.registry,
		scheduler.WithConcurrency(concurrency),
		scheduler.WithMiddleware(r.middleware()...),
		scheduler.WithResultHook(r.persist(run.ID)),
	)

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return nil, nil, ErrServiceClosed
	}

	if err := r.store.Runs().Create(ctx, *run); err != nil {
		return nil, nil, fmt.Errorf("failed to create run: %w", err)
	}
	r.live[run.ID] = s
	// Added under the lock: Close waits on every run registered before it.
	r.wg.Add(1)

	zap.S().Named("runner_service").Infow("run created", "run_id", run.ID, "jobs", run.Total, "concurrency", concurrency)
	return run, s, nil
}

func (r *RunnerService) execute(ctx context.Context, run *models.Run, s *scheduler.Scheduler) error {
	dbCtx := context.WithoutCancel(ctx)

	run.State = models.SchedulerStateRunning
	if err := r.store.Runs().Update(dbCtx, *run); err != nil {
		return fmt.Errorf("failed to mark run %s running: %w", run.ID, err)
	}

	if err := s.Start(ctx); err != nil {
		return err
	}

	stats := s.Stats()
	finished := time.Now()
	run.State = stats.State
	run.Fulfilled = stats.Fulfilled
	run.Rejected = stats.Rejected
	run.FinishedAt = &finished

	if err := r.store.Runs().Update(dbCtx, *run); err != nil {
		return fmt.Errorf("failed to finish run %s: %w", run.ID, err)
	}

	zap.S().Named("runner_service").Infow("run finished",
		"run_id", run.ID,
		"fulfilled", run.Fulfilled,
		"rejected", run.Rejected,
		"not_started", run.Total-run.Fulfilled-run.Rejected,
		"took", finished.Sub(run.CreatedAt),
	)
	return nil
}

func (r *RunnerService) middleware() []middleware.Middleware {
	mws := []middleware.Middleware{
		middleware.Logging(),
		middleware.Metrics(),
		middleware.Recover(),
	}
	if r.cfg.JobTimeout > 0 {
		mws = append(mws, middleware.Timeout(r.cfg.JobTimeout))
	}
	return mws
}

// persist writes each result as it completes. A failed write is logged and
// never affects the run.
func (r *RunnerService) persist(runID string) scheduler.ResultHook {
	return func(result models.JobResult) {
		if err := r.store.Results().Insert(context.Background(), runID, result); err != nil {
			zap.S().Named("runner_service").Errorw("failed to persist result", "run_id", runID, "job_id", result.JobID, "error", err)
		}
	}
}

func (r *RunnerService) lookup(id string) (*scheduler.Scheduler, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.live[id]
	return s, ok
}

func (r *RunnerService) forget(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.live, id)
}

// normalize validates jobs and names the ones submitted without an id.
func normalize(jobs []models.Job) ([]models.Job, error) {
	out := make([]models.Job, 0, len(jobs))
	for i, j := range jobs {
		if j.Type == "" {
			return nil, srvErrors.NewInvalidJobError(j.ID, "job type is empty")
		}
		if j.ID == "" {
			j.ID = fmt.Sprintf("job-%d", i+1)
		}
		out = append(out, j)
	}
	return out, nil
}
