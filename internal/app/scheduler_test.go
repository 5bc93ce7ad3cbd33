package app

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

type countingCompleter struct {
	calls atomic.Int32
}

func (c *countingCompleter) CompleteEnded(_ context.Context, _ time.Time) (int64, error) {
	c.calls.Add(1)
	return 1, nil
}

func TestScheduler_RunsImmediatelyAndOnTick(t *testing.T) {
	completer := &countingCompleter{}
	s := NewScheduler(completer, 10*time.Millisecond, zap.NewNop())

	s.Start(context.Background())

	assert.Eventually(t, func() bool { return completer.calls.Load() >= 3 }, time.Second, 5*time.Millisecond)
	s.Stop()
	s.Stop()

	stopped := completer.calls.Load()
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, stopped, completer.calls.Load())
}

func TestScheduler_StopsOnContextCancel(t *testing.T) {
	completer := &countingCompleter{}
	s := NewScheduler(completer, time.Hour, zap.NewNop())
	ctx, cancel := context.WithCancel(context.Background())

	s.Start(ctx)
	assert.Eventually(t, func() bool { return completer.calls.Load() == 1 }, time.Second, 5*time.Millisecond)
	cancel()

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("scheduler did not stop after cancel")
	}
}
