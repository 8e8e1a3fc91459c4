package scheduler

import (
	"sync"

	"github.com/kubev2v/jobrunner/internal/models"
)

// resultLog is an append-only log written from concurrent job goroutines.
type resultLog struct {
	mu        sync.Mutex
	results   []models.JobResult
	fulfilled int
	rejected  int
}

func (l *resultLog) append(r models.JobResult) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.results = append(l.results, r)
	if r.Fulfilled() {
		l.fulfilled++
	} else {
		l.rejected++
	}
}

func (l *resultLog) snapshot() []models.JobResult {
	l.mu.Lock()
	defer l.mu.Unlock()

	out := make([]models.JobResult, len(l.results))
	copy(out, l.results)
	return out
}

func (l *resultLog) counts() (completed, fulfilled, rejected int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.results), l.fulfilled, l.rejected
}
