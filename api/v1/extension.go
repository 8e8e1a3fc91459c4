package v1

import (
	"github.com/kubev2v/jobrunner/internal/models"
)

// NewRunFromModel converts a models.Run to an API Run.
func NewRunFromModel(r models.Run) Run {
	return Run{
		Id:          r.ID,
		State:       RunState(r.State),
		Concurrency: r.Concurrency,
		Total:       r.Total,
		Fulfilled:   r.Fulfilled,
		Rejected:    r.Rejected,
		CreatedAt:   r.CreatedAt,
		FinishedAt:  r.FinishedAt,
	}
}

// NewJobResultFromModel converts a models.JobResult to an API JobResult.
func NewJobResultFromModel(r models.JobResult) JobResult {
	res := JobResult{
		JobId:      r.JobID,
		JobType:    r.JobType,
		Status:     JobResultStatus(r.Status),
		Value:      r.Value,
		StartedAt:  r.StartedAt,
		FinishedAt: r.FinishedAt,
		DurationMs: r.Duration().Milliseconds(),
	}

	if r.Err != nil {
		msg := r.Err.Error()
		res.Error = &msg
	}

	return res
}

// ToModel converts the request jobs to models.Job. Validation is left to the
// runner service.
func (r RunRequest) ToModel() []models.Job {
	jobs := make([]models.Job, 0, len(r.Jobs))
	for _, j := range r.Jobs {
		jobs = append(jobs, models.Job{ID: j.Id, Type: j.Type, Payload: j.Payload})
	}
	return jobs
}

// ParseJobResultStatus maps a query value to a job status.
func ParseJobResultStatus(s string) (models.JobStatus, bool) {
	switch JobResultStatus(s) {
	case JobResultStatusFulfilled:
		return models.JobStatusFulfilled, true
	case JobResultStatusRejected:
		return models.JobStatusRejected, true
	default:
		return "", false
	}
}
