package middleware

import (
	"context"
	"time"

	"github.com/kubev2v/jobrunner/internal/models"
)

// Timeout gives each job a deadline of d. A non-positive d disables it.
// Handlers only stop early if they honor ctx.
func Timeout(d time.Duration) Middleware {
	return func(ctx context.Context, job models.Job, next Handler) (any, error) {
		if d <= 0 {
			return next(ctx)
		}
		ctx, cancel := context.WithTimeout(ctx, d)
		defer cancel()
		return next(ctx)
	}
}
