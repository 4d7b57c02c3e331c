package app

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

type countingCompleter struct {
	calls atomic.Int32
	err   error
}

func (c *countingCompleter) CompleteFinished(ctx context.Context, now time.Time) (int, error) {
	c.calls.Add(1)
	return 1, c.err
}

func TestScheduler_RunsImmediatelyAndOnTick(t *testing.T) {
	c := &countingCompleter{}
	s := NewScheduler(c, 5*time.Millisecond, zap.NewNop())

	s.Start(context.Background())
	assert.Eventually(t, func() bool { return c.calls.Load() >= 2 }, time.Second, time.Millisecond)
	s.Stop()

	stopped := c.calls.Load()
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, stopped, c.calls.Load())
}

func TestScheduler_ErrorsDoNotStopLoop(t *testing.T) {
	c := &countingCompleter{err: errors.New("db down")}
	s := NewScheduler(c, 5*time.Millisecond, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	s.Start(ctx)
	assert.Eventually(t, func() bool { return c.calls.Load() >= 3 }, time.Second, time.Millisecond)
	cancel()
	<-s.done
}
