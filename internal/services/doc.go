// Package services holds the application services that sit between the
// transport layers (CLI, HTTP) and the scheduler.
//
// # RunnerService
//
// Each run gets its own in-memory queue and scheduler:
//
//	RunRequest{Concurrency, Jobs}
//	        │
//	        ▼
//	  normalize jobs ──► InvalidJobError (empty type)
//	        │
//	        ▼
//	  store.Runs().Create(run)          state = idle
//	        │
//	        ▼
//	  queue.New + Enqueue(jobs...)
//	  scheduler.New(queue, registry,
//	      WithConcurrency(n),
//	      WithMiddleware(Logging, Metrics, Recover[, Timeout]),
//	      WithResultHook(persist))      every result → store.Results().Insert
//	        │
//	        ▼
//	  scheduler.Start(ctx)              state = running
//	        │
//	        ▼
//	  store.Runs().Update(run)          state = stopped, counters, finished_at
//
// Run executes on the caller's goroutine and is what the CLI uses. Submit
// starts the same flow on a background goroutine and returns immediately;
// the HTTP API uses it. A submitted run is detached from the request context
// and only ends when its queue drains, Stop(id) is called, or Close stops
// every live run.
//
// The Timeout middleware is installed only when scheduler.job-timeout is
// positive.
//
// Get overlays the live scheduler's state and counters on the stored row
// while a run is in progress.
package services
