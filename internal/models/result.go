package models

import "time"

type JobStatus string

const (
	JobStatusFulfilled JobStatus = "fulfilled"
	JobStatusRejected  JobStatus = "rejected"
)

func (s JobStatus) Value() string {
	return string(s)
}

// JobResult is the outcome of one executed job. Value is set when the job was
// fulfilled, Err when it was rejected.
type JobResult struct {
	JobID      string
	JobType    string
	Status     JobStatus
	Value      any
	Err        error
	StartedAt  time.Time
	FinishedAt time.Time
}

// Error returns the failure message or an empty string for fulfilled jobs.
func (r JobResult) Error() string {
	if r.Err == nil {
		return ""
	}
	return r.Err.Error()
}

func (r JobResult) Fulfilled() bool {
	return r.Status == JobStatusFulfilled
}

func (r JobResult) Duration() time.Duration {
	return r.FinishedAt.Sub(r.StartedAt)
}
