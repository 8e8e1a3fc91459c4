package errors

import (
	"errors"
	"fmt"
)

// UnknownJobTypeError is returned when no handler is registered for a job type.
type UnknownJobTypeError struct {
	JobType string
}

func NewUnknownJobTypeError(jobType string) *UnknownJobTypeError {
	return &UnknownJobTypeError{JobType: jobType}
}

func (e *UnknownJobTypeError) Error() string {
	return fmt.Sprintf("unknown job type: %s", e.JobType)
}

func IsUnknownJobTypeError(err error) bool {
	var e *UnknownJobTypeError
	return errors.As(err, &e)
}

// HandlerError wraps a failure returned (or panicked) by a job handler.
type HandlerError struct {
	JobID   string
	JobType string
	Err     error
}

func NewHandlerError(jobID, jobType string, err error) *HandlerError {
	return &HandlerError{JobID: jobID, JobType: jobType, Err: err}
}

func (e *HandlerError) Error() string {
	return fmt.Sprintf("job %s (%s) failed: %v", e.JobID, e.JobType, e.Err)
}

func (e *HandlerError) Unwrap() error {
	return e.Err
}

func IsHandlerError(err error) bool {
	var e *HandlerError
	return errors.As(err, &e)
}

type ResourceNotFoundError struct {
	Kind string
	ID   string
}

func NewResourceNotFoundError(kind, id string) *ResourceNotFoundError {
	return &ResourceNotFoundError{Kind: kind, ID: id}
}

func NewRunNotFoundError(id string) *ResourceNotFoundError {
	return NewResourceNotFoundError("run", id)
}

func (e *ResourceNotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Kind, e.ID)
}

func IsResourceNotFoundError(err error) bool {
	var e *ResourceNotFoundError
	return errors.As(err, &e)
}

// InvalidJobError reports a job descriptor rejected before enqueue.
type InvalidJobError struct {
	JobID  string
	Reason string
}

func NewInvalidJobError(jobID, reason string) *InvalidJobError {
	return &InvalidJobError{JobID: jobID, Reason: reason}
}

func (e *InvalidJobError) Error() string {
	if e.JobID == "" {
		return fmt.Sprintf("invalid job: %s", e.Reason)
	}
	return fmt.Sprintf("invalid job %s: %s", e.JobID, e.Reason)
}

func IsInvalidJobError(err error) bool {
	var e *InvalidJobError
	return errors.As(err, &e)
}
