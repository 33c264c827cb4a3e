// Package worker runs periodic background maintenance alongside the
// HTTP server.
package worker

import (
	"context"
	"log"
	"time"
)

// Completer is the slice of the reservation engine the sweeper uses.
type Completer interface {
	CompleteExpired(ctx context.Context, now time.Time) (int, error)
}

// Sweeper moves reservations whose end time has passed into the
// completed state, releasing their slots. It runs on a fixed tick
// until its context is cancelled.
type Sweeper struct {
	engine   Completer
	interval time.Duration
}

// NewSweeper builds a sweeper ticking at interval; non-positive
// intervals fall back to one minute.
func NewSweeper(engine Completer, interval time.Duration) *Sweeper {
	if interval <= 0 {
		interval = time.Minute
	}
	return &Sweeper{engine: engine, interval: interval}
}

// Run blocks until ctx is cancelled. One sweep runs immediately so a
// restart catches up without waiting a full tick.
func (s *Sweeper) Run(ctx context.Context) {
	s.sweep(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.sweep(ctx)
		}
	}
}

func (s *Sweeper) sweep(ctx context.Context) {
	n, err := s.engine.CompleteExpired(ctx, time.Now())
	if err != nil {
		log.Printf("sweeper: complete expired reservations failed: %v", err)
		return
	}
	if n > 0 {
		log.Printf("sweeper: completed %d expired reservation(s)", n)
	}
}
