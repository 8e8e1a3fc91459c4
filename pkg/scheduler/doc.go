// Package scheduler drains a job queue with a bounded pool of workers.
//
// The scheduler owns N worker tokens (N = concurrency). A job runs only while
// it holds a token, so the concurrency cap is structural rather than counted.
// Every dequeued job produces exactly one JobResult, whether the handler
// succeeds, fails, panics or was never registered.
//
// # Architecture Overview
//
//	┌─────────────────────────────────────────────────────────────────────┐
//	│                           Scheduler                                 │
//	│                                                                     │
//	│  ┌──────────────┐      ┌──────────────┐      ┌──────────────┐       │
//	│  │   Worker 1   │      │   Worker 2   │      │   Worker N   │       │
//	│  └──────────────┘      └──────────────┘      └──────────────┘       │
//	│         ▲                     ▲                     ▲               │
//	│         └─────────────────────┼─────────────────────┘               │
//	│                        ┌──────┴──────┐                              │
//	│                        │  dispatch() │                              │
//	│                        └──────┬──────┘                              │
//	│  ┌────────────────────────────┴────────────────────────────┐        │
//	│  │                  JobQueue (FIFO)                        │        │
//	│  │  [job1] [job2] [job3] ...                               │        │
//	│  └─────────────────────────────────────────────────────────┘        │
//	│                               ▲                                     │
//	│                        queue.Enqueue(job)                           │
//	└─────────────────────────────────────────────────────────────────────┘
//
// # State Machine
//
//	┌──────┐ Start ┌─────────┐ queue empty ┌──────────┐ active == 0 ┌─────────┐
//	│ Idle │──────►│ Running │────────────►│ Draining │────────────►│ Stopped │
//	└──────┘       └─────────┘◄────────────└──────────┘             └─────────┘
//	                    │        enqueue                                 ▲
//	                    └───────────── Stop / ctx done ──────────────────┘
//
// Stopped is terminal. Start can be called once.
//
// # Event Loop
//
// Start runs the loop on the calling goroutine:
//
//	for {
//	    if stop requested { wait for in-flight jobs; return }
//	    dispatch()                         // idle worker + queued job → goroutine
//	    if queue empty && no busy worker { return }
//	    select {
//	    case <-s.done:                     // a job finished, token goes back
//	    case <-queue.Signal():             // a producer enqueued
//	    case <-s.stop:
//	    case <-ctx.Done():
//	    }
//	}
//
// There is no polling interval: the loop only wakes on a completion, an
// enqueue or a stop.
//
// # Job Execution
//
// Each job runs on its own goroutine:
//
//  1. Resolve the handler for job.Type. Unknown types are rejected with
//     errors.UnknownJobTypeError.
//  2. Call the handler through the middleware chain (default: Logging then
//     Recover). Panics are converted to errors.
//  3. Record a fulfilled or rejected JobResult and call the result hooks.
//  4. Decrement the active count and hand the token back to the loop.
//
// A failing job never affects the loop or other jobs.
//
// # Stopping
//
// Stop (or cancelling the context passed to Start) stops admission. Jobs
// already running are not cancelled: handlers run with a context detached
// from Start's cancellation, and Start returns after they finish. Jobs still
// queued stay in the queue. There is no per-job timeout unless the
// middleware.Timeout middleware is installed.
//
// # Usage Example
//
//	q := queue.New[models.Job]()
//	q.Enqueue(job)
//
//	s := scheduler.New(q, reg, scheduler.WithConcurrency(3))
//	if err := s.Start(ctx); err != nil {
//	    return err
//	}
//
//	for _, r := range s.Results() {
//	    fmt.Println(r.JobID, r.Status, r.Error())
//	}
package scheduler
