package scheduler

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osse101/SpinWheel_Go/internal/worker"
)

const waitFor = time.Second

func TestAfter_Fires(t *testing.T) {
	clock := clockwork.NewFakeClock()
	s := New(clock, nil)
	defer s.Stop()

	var fired int32
	h := s.After("reveal", 100*time.Millisecond, func() { atomic.AddInt32(&fired, 1) })
	assert.Equal(t, "reveal", h.Name())
	assert.Equal(t, 1, s.Pending())

	clock.Advance(99 * time.Millisecond)
	assert.Equal(t, int32(0), atomic.LoadInt32(&fired))

	clock.Advance(time.Millisecond)
	require.Eventually(t, func() bool { return atomic.LoadInt32(&fired) == 1 }, waitFor, time.Millisecond)
	require.Eventually(t, func() bool { return s.Pending() == 0 }, waitFor, time.Millisecond)

	assert.False(t, h.Cancel(), "fired task is no longer pending")
}

func TestAfter_CancelPreventsRun(t *testing.T) {
	clock := clockwork.NewFakeClock()
	s := New(clock, nil)
	defer s.Stop()

	var fired int32
	h := s.After("settle", time.Second, func() { atomic.AddInt32(&fired, 1) })

	assert.True(t, h.Cancel())
	assert.False(t, h.Cancel(), "second cancel is a no-op")
	assert.Equal(t, 0, s.Pending())

	clock.Advance(2 * time.Second)
	time.Sleep(10 * time.Millisecond)
	assert.Equal(t, int32(0), atomic.LoadInt32(&fired))
}

func TestEvery_RunsUntilCancelled(t *testing.T) {
	clock := clockwork.NewFakeClock()
	s := New(clock, nil)
	defer s.Stop()

	var ticks int32
	h := s.Every("idle", 10*time.Millisecond, func() { atomic.AddInt32(&ticks, 1) })

	for i := 1; i <= 3; i++ {
		clock.Advance(10 * time.Millisecond)
		want := int32(i)
		require.Eventually(t, func() bool { return atomic.LoadInt32(&ticks) == want }, waitFor, time.Millisecond)
	}

	require.True(t, h.Cancel())
	clock.Advance(10 * time.Millisecond)
	time.Sleep(10 * time.Millisecond)
	assert.Equal(t, int32(3), atomic.LoadInt32(&ticks))
}

func TestClose_CancelsEverything(t *testing.T) {
	clock := clockwork.NewFakeClock()
	s := New(clock, nil)

	var fired int32
	inc := func() { atomic.AddInt32(&fired, 1) }
	a := s.After("a", time.Second, inc)
	s.After("b", 2*time.Second, inc)
	s.Every("c", time.Second, inc)
	require.Equal(t, 3, s.Pending())

	s.Stop()
	assert.Equal(t, 0, s.Pending())
	assert.False(t, a.Cancel())

	clock.Advance(5 * time.Second)
	time.Sleep(10 * time.Millisecond)
	assert.Equal(t, int32(0), atomic.LoadInt32(&fired))

	late := s.After("late", time.Millisecond, inc)
	assert.False(t, late.Cancel(), "tasks scheduled after close are inert")
	assert.Equal(t, 0, s.Pending())
}

func TestSchedule_EnqueuesOnPool(t *testing.T) {
	pool := worker.NewPool(1, 10)
	pool.Start()
	defer pool.Stop()

	clock := clockwork.NewFakeClock()
	s := New(clock, pool)
	defer s.Stop()

	var runs int32
	s.Schedule(time.Minute, worker.JobFunc{JobName: "report", Fn: func(ctx context.Context) error {
		atomic.AddInt32(&runs, 1)
		return nil
	}})

	clock.Advance(time.Minute)
	require.Eventually(t, func() bool { return atomic.LoadInt32(&runs) == 1 }, waitFor, time.Millisecond)
}

func TestSchedule_InlineWithoutPool(t *testing.T) {
	clock := clockwork.NewFakeClock()
	s := New(clock, nil)
	defer s.Stop()

	var runs int32
	s.Schedule(time.Minute, worker.JobFunc{JobName: "report", Fn: func(ctx context.Context) error {
		atomic.AddInt32(&runs, 1)
		return nil
	}})

	clock.Advance(time.Minute)
	require.Eventually(t, func() bool { return atomic.LoadInt32(&runs) == 1 }, waitFor, time.Millisecond)
}
