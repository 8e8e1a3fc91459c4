package middleware

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/kubev2v/jobrunner/internal/models"
)

const meterName = "github.com/kubev2v/jobrunner"

// Metrics records job duration and execution counts on the global
// MeterProvider. Without a configured provider the instruments are noops.
//
// Instruments:
//   - jobrunner.job.duration (Float64Histogram, seconds)
//   - jobrunner.job.executions (Int64Counter)
//
// Both carry job_type and status ("fulfilled" or "rejected").
func Metrics() Middleware {
	return MetricsWithMeter(otel.Meter(meterName))
}

func MetricsWithMeter(meter metric.Meter) Middleware {
	// On error the API hands back noop instruments.
	duration, _ := meter.Float64Histogram(
		"jobrunner.job.duration",
		metric.WithDescription("Duration of job execution in seconds"),
		metric.WithUnit("s"),
	)
	executions, _ := meter.Int64Counter(
		"jobrunner.job.executions",
		metric.WithDescription("Total number of job executions"),
		metric.WithUnit("{execution}"),
	)

	return func(ctx context.Context, job models.Job, next Handler) (any, error) {
		start := time.Now()
		v, err := next(ctx)
		elapsed := time.Since(start).Seconds()

		status := models.JobStatusFulfilled
		if err != nil {
			status = models.JobStatusRejected
		}

		attrs := metric.WithAttributes(
			attribute.String("job_type", job.Type),
			attribute.String("status", status.Value()),
		)
		duration.Record(ctx, elapsed, attrs)
		executions.Add(ctx, 1, attrs)

		return v, err
	}
}
