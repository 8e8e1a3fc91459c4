package middleware

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/kubev2v/jobrunner/internal/models"
)

// Logging logs job start and completion on the "job" logger.
func Logging() Middleware {
	return func(ctx context.Context, job models.Job, next Handler) (any, error) {
		log := zap.S().Named("job").With("job_id", job.ID, "job_type", job.Type)
		log.Infow("processing job")

		start := time.Now()
		v, err := next(ctx)
		elapsed := time.Since(start)

		if err != nil {
			log.Errorw("job failed", "elapsed", elapsed, "error", err)
		} else {
			log.Infow("job completed", "elapsed", elapsed)
		}

		return v, err
	}
}
