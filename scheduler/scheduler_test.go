package scheduler

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func counting(counter *int32) Task {
	return func(ctx context.Context) error {
		atomic.AddInt32(counter, 1)
		return nil
	}
}

func TestScheduler_RunsPeriodically(t *testing.T) {
	var counter int32
	s := New("test", 100*time.Millisecond, counting(&counter))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	s.Start(ctx, true)
	assert.True(t, s.IsRunning())

	time.Sleep(350 * time.Millisecond)

	s.Stop()
	assert.False(t, s.IsRunning())
	assert.GreaterOrEqual(t, atomic.LoadInt32(&counter), int32(3))
	assert.Equal(t, int64(atomic.LoadInt32(&counter)), s.Runs())

	// Nothing runs after Stop
	finalCount := atomic.LoadInt32(&counter)
	time.Sleep(250 * time.Millisecond)
	assert.Equal(t, finalCount, atomic.LoadInt32(&counter))
}

func TestScheduler_StopBeforeStart(t *testing.T) {
	s := New("test", 100*time.Millisecond, func(ctx context.Context) error { return nil })
	s.Stop()
	assert.False(t, s.IsRunning())
}

func TestScheduler_DoubleStart(t *testing.T) {
	var counter int32
	s := New("test", time.Hour, counting(&counter))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	s.Start(ctx, true)
	s.Start(ctx, true)

	time.Sleep(50 * time.Millisecond)
	s.Stop()

	assert.Equal(t, int32(1), atomic.LoadInt32(&counter))
}

func TestScheduler_ContextCancellation(t *testing.T) {
	var counter int32
	s := New("test", 100*time.Millisecond, counting(&counter))

	ctx, cancel := context.WithCancel(context.Background())
	s.Start(ctx, true)

	time.Sleep(150 * time.Millisecond)
	assert.Greater(t, atomic.LoadInt32(&counter), int32(0))

	cancel()
	time.Sleep(50 * time.Millisecond)
	finalCount := atomic.LoadInt32(&counter)

	time.Sleep(250 * time.Millisecond)
	assert.Equal(t, finalCount, atomic.LoadInt32(&counter))

	s.Stop()
	assert.False(t, s.IsRunning())
}

func TestScheduler_FailuresKeepSchedule(t *testing.T) {
	s := New("failing", 50*time.Millisecond, func(ctx context.Context) error {
		return errors.New("upstream down")
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	s.Start(ctx, true)
	time.Sleep(180 * time.Millisecond)
	s.Stop()

	assert.GreaterOrEqual(t, s.Failures(), int64(3))
	assert.Equal(t, s.Runs(), s.Failures())
}

func TestScheduler_ImmediateExecution(t *testing.T) {
	t.Run("with immediate execution", func(t *testing.T) {
		var counter int32
		s := New("test", 100*time.Millisecond, counting(&counter))

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		s.Start(ctx, true)
		time.Sleep(10 * time.Millisecond)
		assert.Equal(t, int32(1), atomic.LoadInt32(&counter))

		s.Stop()
	})

	t.Run("without immediate execution", func(t *testing.T) {
		var counter int32
		s := New("test", 100*time.Millisecond, counting(&counter))

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		s.Start(ctx, false)
		time.Sleep(10 * time.Millisecond)
		assert.Equal(t, int32(0), atomic.LoadInt32(&counter))

		time.Sleep(100 * time.Millisecond)
		assert.Equal(t, int32(1), atomic.LoadInt32(&counter))

		s.Stop()
	})
}
