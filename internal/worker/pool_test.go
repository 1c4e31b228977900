package worker

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func countingJob(counter *int32) Job {
	return JobFunc{JobName: "count", Fn: func(ctx context.Context) error {
		atomic.AddInt32(counter, 1)
		return nil
	}}
}

func TestPool(t *testing.T) {
	var executed int32
	pool := NewPool(TestWorkerCount, TestQueueSize)
	pool.Start()
	defer pool.Stop()

	job := countingJob(&executed)
	require.True(t, pool.Enqueue(job))
	require.True(t, pool.Enqueue(job))

	require.Eventually(t, func() bool {
		return atomic.LoadInt32(&executed) == TestExpectedJobCount
	}, time.Second, 5*time.Millisecond)
}

func TestPool_FailingJobDoesNotStopWorker(t *testing.T) {
	var executed int32
	pool := NewPool(1, TestQueueSize)
	pool.Start()
	defer pool.Stop()

	require.True(t, pool.Enqueue(JobFunc{JobName: "fail", Fn: func(ctx context.Context) error {
		return errors.New("boom")
	}}))
	require.True(t, pool.Enqueue(countingJob(&executed)))

	require.Eventually(t, func() bool {
		return atomic.LoadInt32(&executed) == 1
	}, time.Second, 5*time.Millisecond)
}

func TestPool_EnqueueWhenFull(t *testing.T) {
	pool := NewPool(1, 1)

	var executed int32
	assert.True(t, pool.Enqueue(countingJob(&executed)))
	assert.False(t, pool.Enqueue(countingJob(&executed)), "queue of one is full and nothing drains it")

	pool.Stop()
	assert.False(t, pool.Enqueue(countingJob(&executed)), "stopped pool rejects jobs")
}

func TestPool_StopIsIdempotent(t *testing.T) {
	pool := NewPool(TestWorkerCount, TestQueueSize)
	pool.Start()
	pool.Stop()
	assert.NotPanics(t, pool.Stop)
}
