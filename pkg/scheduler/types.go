package scheduler

import (
	"github.com/kubev2v/jobrunner/internal/models"
	"github.com/kubev2v/jobrunner/pkg/registry"
)

// JobQueue is the part of the queue the scheduler consumes.
type JobQueue interface {
	Dequeue() (models.Job, bool)
	Size() int
	// Signal must deliver a value after an enqueue so an idle loop wakes up.
	Signal() <-chan struct{}
}

// Resolver looks up the handler for a job type.
type Resolver interface {
	Resolve(jobType string) (registry.Handler, bool)
}

// ResultHook is called once per job, on the job's goroutine, after the result
// is appended to the log. Hooks must be safe for concurrent use.
type ResultHook func(result models.JobResult)
