package worker

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type countingCompleter struct {
	calls atomic.Int32
}

func (c *countingCompleter) CompleteExpired(ctx context.Context, now time.Time) (int, error) {
	c.calls.Add(1)
	return 0, nil
}

func TestSweeperRunsImmediatelyAndOnTick(t *testing.T) {
	engine := &countingCompleter{}
	s := NewSweeper(engine, 10*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		s.Run(ctx)
		close(done)
	}()

	assert.Eventually(t, func() bool {
		return engine.calls.Load() >= 3
	}, time.Second, 5*time.Millisecond)

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("sweeper did not stop on context cancel")
	}
}

func TestNewSweeperDefaultInterval(t *testing.T) {
	s := NewSweeper(&countingCompleter{}, 0)
	assert.Equal(t, time.Minute, s.interval)
}
