// Package middleware provides composable wrappers around a job handler call.
// Middleware runs on the job's goroutine and can recover panics, log,
// record metrics or bound the execution time.
package middleware

import (
	"context"

	"github.com/kubev2v/jobrunner/internal/models"
)

// Handler is the terminal call into the job's handler.
type Handler func(ctx context.Context) (any, error)

// Middleware wraps a Handler. It must call next unless it short-circuits
// with an error.
type Middleware func(ctx context.Context, job models.Job, next Handler) (any, error)

// Chain composes mws into one Middleware. The first element is the outermost:
//
//	Chain(logging, recover)  =>  logging → recover → handler
func Chain(mws ...Middleware) Middleware {
	return func(ctx context.Context, job models.Job, next Handler) (any, error) {
		h := next
		for i := len(mws) - 1; i >= 0; i-- {
			mw := mws[i]
			prev := h
			h = func(ctx context.Context) (any, error) {
				return mw(ctx, job, prev)
			}
		}
		return h(ctx)
	}
}
