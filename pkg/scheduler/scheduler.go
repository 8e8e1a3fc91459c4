package scheduler

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/kubev2v/jobrunner/internal/models"
	srvErrors "github.com/kubev2v/jobrunner/pkg/errors"
	"github.com/kubev2v/jobrunner/pkg/middleware"
	"github.com/kubev2v/jobrunner/pkg/queue"
	"github.com/kubev2v/jobrunner/pkg/registry"
)

const DefaultConcurrency = 3

var ErrAlreadyStarted = errors.New("scheduler already started")

type worker struct {
	done chan any
	wg   *sync.WaitGroup
}

func (w worker) Work(run func()) {
	defer func() {
		if rec := recover(); rec != nil {
			zap.S().Named("scheduler").Errorw("worker panicked", "panic", rec)
		}
		w.done <- struct{}{}
		w.wg.Done()
	}()

	run()
}

func newWorker(done chan any, wg *sync.WaitGroup) worker {
	return worker{done: done, wg: wg}
}

type Scheduler struct {
	queue       JobQueue
	resolver    Resolver
	concurrency int
	middleware  middleware.Middleware
	hooks       []ResultHook

	workers  *queue.Queue[worker]
	done     chan any
	stop     chan any
	stopOnce sync.Once
	wg       sync.WaitGroup

	active  atomic.Int32
	peak    atomic.Int32
	results resultLog

	mu    sync.Mutex
	state models.SchedulerState
}

func New(q JobQueue, resolver Resolver, opts ...Option) *Scheduler {
	s := &Scheduler{
		queue:       q,
		resolver:    resolver,
		concurrency: DefaultConcurrency,
		middleware:  middleware.Chain(middleware.Logging(), middleware.Recover()),
		stop:        make(chan any),
		state:       models.SchedulerStateIdle,
	}
	for _, opt := range opts {
		opt(s)
	}

	s.done = make(chan any, s.concurrency)
	s.workers = queue.New[worker]()
	for range s.concurrency {
		s.workers.Enqueue(newWorker(s.done, &s.wg))
	}

	return s
}

// Start drains the queue and blocks until it is empty and no job is running,
// or until Stop is called or ctx is done. Jobs already running are always
// allowed to finish before Start returns; they are not cancelled.
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.state != models.SchedulerStateIdle {
		s.mu.Unlock()
		return ErrAlreadyStarted
	}
	s.state = models.SchedulerStateRunning
	s.mu.Unlock()

	zap.S().Named("scheduler").Infow("scheduler started", "concurrency", s.concurrency, "queued", s.queue.Size())

	s.run(ctx)
	return nil
}

// Stop requests a graceful halt: no new job is admitted. It is idempotent and
// may be called before Start.
func (s *Scheduler) Stop() {
	s.stopOnce.Do(func() {
		close(s.stop)
	})
}

func (s *Scheduler) run(ctx context.Context) {
	defer s.setState(models.SchedulerStateStopped)

	log := zap.S().Named("scheduler")
	jobCtx := context.WithoutCancel(ctx)

	for {
		select {
		case <-s.stop:
			s.shutdown("stop requested")
			return
		case <-ctx.Done():
			s.shutdown(ctx.Err().Error())
			return
		default:
		}

		s.dispatch(jobCtx)

		if s.queue.Size() == 0 {
			if s.busy() == 0 {
				completed, fulfilled, rejected := s.results.counts()
				log.Infow("all jobs processed", "completed", completed, "fulfilled", fulfilled, "rejected", rejected)
				return
			}
			s.setState(models.SchedulerStateDraining)
		} else {
			s.setState(models.SchedulerStateRunning)
		}

		select {
		case <-s.done:
			s.workers.Enqueue(newWorker(s.done, &s.wg))
		case <-s.queue.Signal():
		case <-s.stop:
		case <-ctx.Done():
		}
	}
}

// dispatch pairs idle workers with queued jobs.
func (s *Scheduler) dispatch(ctx context.Context) {
	for s.workers.Size() > 0 {
		job, ok := s.queue.Dequeue()
		if !ok {
			return
		}
		w, _ := s.workers.Dequeue()

		s.wg.Add(1)
		s.admit()
		go w.Work(func() {
			defer s.active.Add(-1)
			s.record(s.execute(ctx, job))
		})
	}
}

// busy is the number of workers whose completion the loop has not seen yet.
// Only the loop goroutine may call it.
func (s *Scheduler) busy() int {
	return s.concurrency - s.workers.Size()
}

func (s *Scheduler) admit() {
	n := s.active.Add(1)
	for {
		p := s.peak.Load()
		if n <= p || s.peak.CompareAndSwap(p, n) {
			return
		}
	}
}

func (s *Scheduler) shutdown(reason string) {
	log := zap.S().Named("scheduler")
	log.Infow("scheduler stopping", "reason", reason, "in_flight", s.busy(), "queued", s.queue.Size())
	s.wg.Wait()
	log.Info("scheduler stopped")
}

func (s *Scheduler) execute(ctx context.Context, job models.Job) (result models.JobResult) {
	result = models.JobResult{
		JobID:     job.ID,
		JobType:   job.Type,
		StartedAt: time.Now(),
	}
	defer func() {
		result.FinishedAt = time.Now()
	}()

	h, found := s.resolver.Resolve(job.Type)
	if !found {
		zap.S().Named("scheduler").Errorw("no handler for job", "job_id", job.ID, "job_type", job.Type)
		result.Status = models.JobStatusRejected
		result.Err = srvErrors.NewUnknownJobTypeError(job.Type)
		return result
	}

	v, err := s.invoke(ctx, job, h)
	if err != nil {
		result.Status = models.JobStatusRejected
		result.Err = srvErrors.NewHandlerError(job.ID, job.Type, err)
		return result
	}

	result.Status = models.JobStatusFulfilled
	result.Value = v
	return result
}

func (s *Scheduler) invoke(ctx context.Context, job models.Job, h registry.Handler) (v any, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			v = nil
			err = fmt.Errorf("job %s panicked: %v", job.ID, rec)
		}
	}()

	return s.middleware(ctx, job, func(ctx context.Context) (any, error) {
		return h.Handle(ctx, job.Payload)
	})
}

func (s *Scheduler) record(result models.JobResult) {
	s.results.append(result)
	for _, hook := range s.hooks {
		hook(result)
	}
}

func (s *Scheduler) setState(state models.SchedulerState) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = state
}

func (s *Scheduler) State() models.SchedulerState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Results returns a copy of the result log in completion order.
func (s *Scheduler) Results() []models.JobResult {
	return s.results.snapshot()
}

// Active returns the number of jobs currently executing.
func (s *Scheduler) Active() int {
	return int(s.active.Load())
}

func (s *Scheduler) Concurrency() int {
	return s.concurrency
}

func (s *Scheduler) Stats() models.SchedulerStats {
	completed, fulfilled, rejected := s.results.counts()
	return models.SchedulerStats{
		State:       s.State(),
		Concurrency: s.concurrency,
		Active:      s.Active(),
		PeakActive:  int(s.peak.Load()),
		Queued:      s.queue.Size(),
		Completed:   completed,
		Fulfilled:   fulfilled,
		Rejected:    rejected,
	}
}
