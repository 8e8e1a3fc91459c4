package scheduler

import "github.com/kubev2v/jobrunner/pkg/middleware"

type Option func(s *Scheduler)

// WithConcurrency sets the number of jobs allowed to run at once.
// Values <= 0 keep DefaultConcurrency.
func WithConcurrency(n int) Option {
	return func(s *Scheduler) {
		if n > 0 {
			s.concurrency = n
		}
	}
}

// WithMiddleware replaces the default middleware (logging and panic recovery).
func WithMiddleware(mws ...middleware.Middleware) Option {
	return func(s *Scheduler) {
		s.middleware = middleware.Chain(mws...)
	}
}

func WithResultHook(hook ResultHook) Option {
	return func(s *Scheduler) {
		if hook != nil {
			s.hooks = append(s.hooks, hook)
		}
	}
}
