// Package jobs holds the demo handlers shipped with the runner.
package jobs

import (
	"context"
	"math/rand/v2"
	"time"

	"github.com/kubev2v/jobrunner/pkg/registry"
)

const (
	TypeEmail       = "email"
	TypeDataProcess = "dataProcess"
)

// Simulator fakes work by sleeping for a random duration in [MinDelay, MaxDelay).
type Simulator struct {
	MinDelay time.Duration
	MaxDelay time.Duration
}

func NewSimulator() *Simulator {
	return &Simulator{
		MinDelay: 50 * time.Millisecond,
		MaxDelay: 150 * time.Millisecond,
	}
}

// Register binds the demo job types on r.
func (s *Simulator) Register(r *registry.Registry) {
	registry.RegisterDefinition(r, registry.NewDefinition(TypeEmail, s.SendEmail))
	registry.RegisterDefinition(r, registry.NewDefinition(TypeDataProcess, s.ProcessData))
}

func (s *Simulator) wait(ctx context.Context) error {
	d := s.MinDelay
	if spread := s.MaxDelay - s.MinDelay; spread > 0 {
		d += rand.N(spread)
	}

	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
