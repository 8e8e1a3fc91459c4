// Package v1 holds the wire types and route table of the /api/v1 HTTP API.
package v1

import (
	"encoding/json"
	"time"
)

// JobRequest is one job in a RunRequest.
type JobRequest struct {
	Id      string          `json:"id,omitempty"`
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// RunRequest submits a batch of jobs. Concurrency falls back to the server
// configuration when omitted or not positive.
type RunRequest struct {
	Concurrency int          `json:"concurrency,omitempty"`
	Jobs        []JobRequest `json:"jobs"`
}

type RunState string

const (
	RunStateIdle     RunState = "idle"
	RunStateRunning  RunState = "running"
	RunStateDraining RunState = "draining"
	RunStateStopped  RunState = "stopped"
)

type Run struct {
	Id          string     `json:"id"`
	State       RunState   `json:"state"`
	Concurrency int        `json:"concurrency"`
	Total       int        `json:"total"`
	Fulfilled   int        `json:"fulfilled"`
	Rejected    int        `json:"rejected"`
	CreatedAt   time.Time  `json:"createdAt"`
	FinishedAt  *time.Time `json:"finishedAt,omitempty"`
}

type RunList struct {
	Runs []Run `json:"runs"`
}

type JobResultStatus string

const (
	JobResultStatusFulfilled JobResultStatus = "fulfilled"
	JobResultStatusRejected  JobResultStatus = "rejected"
)

type JobResult struct {
	JobId      string          `json:"jobId"`
	JobType    string          `json:"jobType"`
	Status     JobResultStatus `json:"status"`
	Value      any             `json:"value,omitempty"`
	Error      *string         `json:"error,omitempty"`
	StartedAt  time.Time       `json:"startedAt"`
	FinishedAt time.Time       `json:"finishedAt"`
	DurationMs int64           `json:"durationMs"`
}

type JobResultList struct {
	RunId   string      `json:"runId"`
	Results []JobResult `json:"results"`
}

// GetRunResultsParams are the query parameters of GET /runs/{id}/results.
type GetRunResultsParams struct {
	Status *string
	Type   *string
	Limit  *uint64
	Offset *uint64
}

type JobTypes struct {
	Types []string `json:"types"`
}

type Error struct {
	Error string `json:"error"`
}
