package models

import (
	"fmt"
	"time"
)

// SchedulerState represents the lifecycle state of a scheduler.
type SchedulerState string

const (
	// SchedulerStateIdle - constructed, not started
	SchedulerStateIdle SchedulerState = "idle"
	// SchedulerStateRunning - dispatching jobs from the queue
	SchedulerStateRunning SchedulerState = "running"
	// SchedulerStateDraining - queue is empty, waiting for in-flight jobs
	SchedulerStateDraining SchedulerState = "draining"
	// SchedulerStateStopped - terminal
	SchedulerStateStopped SchedulerState = "stopped"
)

func ParseSchedulerState(s string) (SchedulerState, error) {
	switch SchedulerState(s) {
	case SchedulerStateIdle, SchedulerStateRunning, SchedulerStateDraining, SchedulerStateStopped:
		return SchedulerState(s), nil
	default:
		return "", fmt.Errorf("invalid scheduler state: %s", s)
	}
}

type SchedulerStats struct {
	State       SchedulerState
	Concurrency int
	Active      int
	PeakActive  int
	Queued      int
	Completed   int
	Fulfilled   int
	Rejected    int
}

// Run is one scheduler lifetime over one batch of jobs.
type Run struct {
	ID          string
	State       SchedulerState
	Concurrency int
	Total       int
	Fulfilled   int
	Rejected    int
	CreatedAt   time.Time
	FinishedAt  *time.Time
}

func (r Run) Finished() bool {
	return r.State == SchedulerStateStopped
}
