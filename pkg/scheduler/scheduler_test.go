package scheduler_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/kubev2v/jobrunner/internal/jobs"
	"github.com/kubev2v/jobrunner/internal/models"
	srvErrors "github.com/kubev2v/jobrunner/pkg/errors"
	"github.com/kubev2v/jobrunner/pkg/queue"
	"github.com/kubev2v/jobrunner/pkg/registry"
	"github.com/kubev2v/jobrunner/pkg/scheduler"
	"github.com/kubev2v/jobrunner/test"
)

func newJob(id, jobType string, payload any) models.Job {
	j, err := models.NewJob(id, jobType, payload)
	Expect(err).NotTo(HaveOccurred())
	return j
}

func jobIDs(results []models.JobResult) []string {
	ids := make([]string, 0, len(results))
	for _, r := range results {
		ids = append(ids, r.JobID)
	}
	return ids
}

func byStatus(results []models.JobResult, status models.JobStatus) []models.JobResult {
	var out []models.JobResult
	for _, r := range results {
		if r.Status == status {
			out = append(out, r)
		}
	}
	return out
}

var _ = Describe("Scheduler", func() {
	var (
		ctx context.Context
		q   *queue.Queue[models.Job]
		reg *registry.Registry
	)

	BeforeEach(func() {
		ctx = context.Background()
		q = queue.New[models.Job]()
		reg = registry.NewRegistry()
		sim := &jobs.Simulator{MinDelay: 5 * time.Millisecond, MaxDelay: 20 * time.Millisecond}
		sim.Register(reg)
	})

	Describe("New", func() {
		It("should default the concurrency", func() {
			s := scheduler.New(q, reg)
			Expect(s.Concurrency()).To(Equal(scheduler.DefaultConcurrency))
			Expect(s.State()).To(Equal(models.SchedulerStateIdle))
		})

		It("should ignore a non-positive concurrency", func() {
			s := scheduler.New(q, reg, scheduler.WithConcurrency(0))
			Expect(s.Concurrency()).To(Equal(scheduler.DefaultConcurrency))
		})
	})

	Describe("Start", func() {
		// Given one email job
		// When the scheduler runs
		// Then one fulfilled result is recorded and the queue is empty
		It("should process a single email job", func() {
			q.Enqueue(newJob("test-1", jobs.TypeEmail, jobs.EmailPayload{Recipient: "test@example.com"}))

			s := scheduler.New(q, reg, scheduler.WithConcurrency(1))
			Expect(s.Start(ctx)).To(Succeed())

			Expect(q.IsEmpty()).To(BeTrue())
			Expect(s.Active()).To(Equal(0))
			Expect(s.State()).To(Equal(models.SchedulerStateStopped))

			results := s.Results()
			Expect(results).To(HaveLen(1))
			Expect(results[0].JobID).To(Equal("test-1"))
			Expect(results[0].Status).To(Equal(models.JobStatusFulfilled))
			Expect(results[0].Value).To(BeAssignableToTypeOf(jobs.EmailResult{}))
			Expect(results[0].Err).To(BeNil())
		})

		It("should return immediately on an empty queue", func() {
			s := scheduler.New(q, reg)
			Expect(s.Start(ctx)).To(Succeed())
			Expect(s.Results()).To(BeEmpty())
		})

		// Given five email jobs and a concurrency of 3
		// When the scheduler runs
		// Then all five are fulfilled and three ran at the same time
		It("should process multiple jobs with concurrency", func() {
			overlap := test.NewOverlapHandler(50 * time.Millisecond)
			reg.Register("overlap", overlap)
			for i := range 5 {
				q.Enqueue(newJob(fmt.Sprintf("test-%d", i), "overlap", nil))
			}

			s := scheduler.New(q, reg, scheduler.WithConcurrency(3))
			Expect(s.Start(ctx)).To(Succeed())

			Expect(q.IsEmpty()).To(BeTrue())
			Expect(s.Results()).To(HaveLen(5))
			Expect(byStatus(s.Results(), models.JobStatusFulfilled)).To(HaveLen(5))
			Expect(jobIDs(s.Results())).To(ConsistOf("test-0", "test-1", "test-2", "test-3", "test-4"))
			Expect(overlap.Peak()).To(Equal(3))
			Expect(s.Stats().PeakActive).To(Equal(3))
		})

		It("should never exceed the concurrency limit", func() {
			overlap := test.NewOverlapHandler(5 * time.Millisecond)
			reg.Register("overlap", overlap)
			for i := range 40 {
				q.Enqueue(newJob(fmt.Sprintf("job-%d", i), "overlap", nil))
			}

			s := scheduler.New(q, reg, scheduler.WithConcurrency(4))
			Expect(s.Start(ctx)).To(Succeed())

			Expect(overlap.Calls()).To(Equal(40))
			Expect(overlap.Peak()).To(BeNumerically("<=", 4))
			Expect(s.Stats().PeakActive).To(BeNumerically("<=", 4))
		})

		It("should process successful data jobs", func() {
			q.Enqueue(newJob("data-1", jobs.TypeDataProcess, jobs.DataProcessPayload{RecordID: 100}))
			q.Enqueue(newJob("data-2", jobs.TypeDataProcess, jobs.DataProcessPayload{RecordID: 102}))

			s := scheduler.New(q, reg, scheduler.WithConcurrency(2))
			Expect(s.Start(ctx)).To(Succeed())

			Expect(q.IsEmpty()).To(BeTrue())
			Expect(byStatus(s.Results(), models.JobStatusFulfilled)).To(HaveLen(2))
		})

		It("should refuse a second start", func() {
			s := scheduler.New(q, reg)
			Expect(s.Start(ctx)).To(Succeed())
			Expect(s.Start(ctx)).To(MatchError(scheduler.ErrAlreadyStarted))
		})
	})

	Describe("Failure isolation", func() {
		// Given a failing data job followed by two good jobs
		// When the scheduler runs
		// Then the failure is recorded and the later jobs still run
		It("should record a failing job and continue processing", func() {
			q.Enqueue(newJob("fail-1", jobs.TypeDataProcess, jobs.DataProcessPayload{RecordID: 14}))
			q.Enqueue(newJob("ok-1", jobs.TypeDataProcess, jobs.DataProcessPayload{RecordID: 15}))
			q.Enqueue(newJob("ok-2", jobs.TypeEmail, jobs.EmailPayload{Recipient: "after-failure@example.com"}))

			s := scheduler.New(q, reg, scheduler.WithConcurrency(2))
			Expect(s.Start(ctx)).To(Succeed())

			Expect(q.IsEmpty()).To(BeTrue())

			failed := byStatus(s.Results(), models.JobStatusRejected)
			Expect(failed).To(HaveLen(1))
			Expect(failed[0].JobID).To(Equal("fail-1"))
			Expect(failed[0].Error()).To(ContainSubstring("14"))
			Expect(srvErrors.IsHandlerError(failed[0].Err)).To(BeTrue())

			var verr *jobs.ValidationError
			Expect(failed[0].Err).To(BeAssignableToTypeOf(&srvErrors.HandlerError{}))
			Expect(errors.As(failed[0].Err, &verr)).To(BeTrue())

			Expect(jobIDs(byStatus(s.Results(), models.JobStatusFulfilled))).To(ConsistOf("ok-1", "ok-2"))
		})

		It("should reject jobs of an unknown type", func() {
			q.Enqueue(newJob("bogus-1", "bogus", nil))
			q.Enqueue(newJob("ok-1", jobs.TypeEmail, jobs.EmailPayload{Recipient: "x@example.com"}))

			s := scheduler.New(q, reg)
			Expect(s.Start(ctx)).To(Succeed())

			Expect(q.IsEmpty()).To(BeTrue())
			Expect(s.Results()).To(HaveLen(2))

			failed := byStatus(s.Results(), models.JobStatusRejected)
			Expect(failed).To(HaveLen(1))
			Expect(failed[0].JobID).To(Equal("bogus-1"))
			Expect(failed[0].Error()).To(ContainSubstring("unknown job type"))
			Expect(srvErrors.IsUnknownJobTypeError(failed[0].Err)).To(BeTrue())
		})

		It("should reject a panicking job without stopping the others", func() {
			reg.RegisterFunc("panic", func(ctx context.Context, payload json.RawMessage) (any, error) {
				panic("boom")
			})
			q.Enqueue(newJob("panic-1", "panic", nil))
			q.Enqueue(newJob("ok-1", jobs.TypeEmail, jobs.EmailPayload{Recipient: "x@example.com"}))

			s := scheduler.New(q, reg, scheduler.WithConcurrency(1))
			Expect(s.Start(ctx)).To(Succeed())

			failed := byStatus(s.Results(), models.JobStatusRejected)
			Expect(failed).To(HaveLen(1))
			Expect(failed[0].Error()).To(ContainSubstring("boom"))
			Expect(byStatus(s.Results(), models.JobStatusFulfilled)).To(HaveLen(1))
		})

		It("should recover panics even without the recover middleware", func() {
			reg.RegisterFunc("panic", func(ctx context.Context, payload json.RawMessage) (any, error) {
				panic("boom")
			})
			q.Enqueue(newJob("panic-1", "panic", nil))

			s := scheduler.New(q, reg, scheduler.WithMiddleware())
			Expect(s.Start(ctx)).To(Succeed())

			Expect(s.Results()).To(HaveLen(1))
			Expect(s.Results()[0].Status).To(Equal(models.JobStatusRejected))
		})

		It("should reject a payload that does not match the handler", func() {
			q.Enqueue(models.Job{ID: "bad-1", Type: jobs.TypeDataProcess, Payload: json.RawMessage(`"nope"`)})

			s := scheduler.New(q, reg)
			Expect(s.Start(ctx)).To(Succeed())

			Expect(s.Results()).To(HaveLen(1))
			Expect(s.Results()[0].Status).To(Equal(models.JobStatusRejected))
		})
	})

	Describe("Results", func() {
		It("should record exactly one result per job", func() {
			for i := range 20 {
				if i%7 == 0 {
					q.Enqueue(newJob(fmt.Sprintf("job-%d", i), jobs.TypeDataProcess, jobs.DataProcessPayload{RecordID: 7}))
					continue
				}
				q.Enqueue(newJob(fmt.Sprintf("job-%d", i), jobs.TypeEmail, jobs.EmailPayload{Recipient: "x"}))
			}

			s := scheduler.New(q, reg, scheduler.WithConcurrency(5))
			Expect(s.Start(ctx)).To(Succeed())

			ids := jobIDs(s.Results())
			Expect(ids).To(HaveLen(20))
			seen := map[string]bool{}
			for _, id := range ids {
				Expect(seen).NotTo(HaveKey(id))
				seen[id] = true
			}

			stats := s.Stats()
			Expect(stats.Completed).To(Equal(20))
			Expect(stats.Rejected).To(Equal(3))
			Expect(stats.Fulfilled).To(Equal(17))
		})

		It("should return a stable set on repeated reads", func() {
			q.Enqueue(newJob("a", jobs.TypeEmail, jobs.EmailPayload{Recipient: "x"}))
			q.Enqueue(newJob("b", jobs.TypeEmail, jobs.EmailPayload{Recipient: "y"}))

			s := scheduler.New(q, reg)
			Expect(s.Start(ctx)).To(Succeed())

			first := s.Results()
			second := s.Results()
			Expect(second).To(Equal(first))

			first[0].JobID = "mutated"
			Expect(s.Results()[0].JobID).NotTo(Equal("mutated"))
		})

		It("should call result hooks once per job", func() {
			var (
				mu  sync.Mutex
				got []string
			)
			hook := func(r models.JobResult) {
				mu.Lock()
				defer mu.Unlock()
				got = append(got, r.JobID)
			}
			for i := range 6 {
				q.Enqueue(newJob(fmt.Sprintf("job-%d", i), jobs.TypeEmail, jobs.EmailPayload{Recipient: "x"}))
			}

			s := scheduler.New(q, reg, scheduler.WithConcurrency(3), scheduler.WithResultHook(hook))
			Expect(s.Start(ctx)).To(Succeed())

			mu.Lock()
			defer mu.Unlock()
			Expect(got).To(ConsistOf(jobIDs(s.Results())))
		})
	})

	Describe("Producers", func() {
		It("should pick up jobs enqueued while running", func() {
			blocking := test.NewBlockingHandler()
			reg.Register("block", blocking)
			q.Enqueue(newJob("first", "block", nil))

			s := scheduler.New(q, reg, scheduler.WithConcurrency(2))
			done := make(chan error, 1)
			go func() { done <- s.Start(ctx) }()

			Eventually(blocking.Started(), time.Second).Should(Receive())
			Eventually(s.State, time.Second).Should(Equal(models.SchedulerStateDraining))

			q.Enqueue(newJob("second", jobs.TypeEmail, jobs.EmailPayload{Recipient: "late@example.com"}))
			Eventually(func() int { return len(s.Results()) }, time.Second).Should(Equal(1))
			Expect(s.Results()[0].JobID).To(Equal("second"))

			blocking.Release()
			Eventually(done, time.Second).Should(Receive(BeNil()))
			Expect(jobIDs(s.Results())).To(ConsistOf("first", "second"))
		})
	})

	Describe("Stop", func() {
		It("should not admit jobs when stopped before start", func() {
			q.Enqueue(newJob("a", jobs.TypeEmail, jobs.EmailPayload{Recipient: "x"}))

			s := scheduler.New(q, reg)
			s.Stop()
			Expect(s.Start(ctx)).To(Succeed())

			Expect(s.Results()).To(BeEmpty())
			Expect(q.Size()).To(Equal(1))
			Expect(s.State()).To(Equal(models.SchedulerStateStopped))
		})

		// Given a run with one job in flight and more queued
		// When Stop is called
		// Then the in-flight job finishes and the rest stay queued
		It("should let in-flight jobs finish and leave the rest queued", func() {
			blocking := test.NewBlockingHandler()
			reg.Register("block", blocking)
			for i := range 3 {
				q.Enqueue(newJob(fmt.Sprintf("job-%d", i), "block", nil))
			}

			s := scheduler.New(q, reg, scheduler.WithConcurrency(1))
			done := make(chan error, 1)
			go func() { done <- s.Start(ctx) }()

			Eventually(blocking.Started(), time.Second).Should(Receive())
			s.Stop()
			s.Stop()

			Consistently(done, 100*time.Millisecond).ShouldNot(Receive())
			blocking.Release()
			Eventually(done, time.Second).Should(Receive(BeNil()))

			Expect(jobIDs(s.Results())).To(Equal([]string{"job-0"}))
			Expect(s.Results()[0].Status).To(Equal(models.JobStatusFulfilled))
			Expect(q.Size()).To(Equal(2))
			Expect(s.Active()).To(Equal(0))
		})

		It("should stop when the context is cancelled without cancelling jobs", func() {
			blocking := test.NewBlockingHandler()
			reg.Register("block", blocking)
			q.Enqueue(newJob("job-0", "block", nil))
			q.Enqueue(newJob("job-1", "block", nil))

			cctx, cancel := context.WithCancel(ctx)
			s := scheduler.New(q, reg, scheduler.WithConcurrency(1))
			done := make(chan error, 1)
			go func() { done <- s.Start(cctx) }()

			Eventually(blocking.Started(), time.Second).Should(Receive())
			cancel()
			blocking.Release()

			Eventually(done, time.Second).Should(Receive(BeNil()))
			Expect(s.Results()).To(HaveLen(1))
			Expect(s.Results()[0].Status).To(Equal(models.JobStatusFulfilled))
			Expect(q.Size()).To(Equal(1))
		})
	})
})
