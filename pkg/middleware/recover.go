package middleware

import (
	"context"
	"fmt"
	"runtime/debug"

	"go.uber.org/zap"

	"github.com/kubev2v/jobrunner/internal/models"
)

// Recover turns a panic in the rest of the chain into an error.
func Recover() Middleware {
	return func(ctx context.Context, job models.Job, next Handler) (v any, err error) {
		defer func() {
			if r := recover(); r != nil {
				zap.S().Named("job").Errorw("job handler panicked",
					"job_id", job.ID,
					"job_type", job.Type,
					"panic", r,
					"stack", string(debug.Stack()),
				)
				v = nil
				err = fmt.Errorf("job %s panicked: %v", job.ID, r)
			}
		}()
		return next(ctx)
	}
}
