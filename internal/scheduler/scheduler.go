package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"

	"github.com/osse101/SpinWheel_Go/internal/logger"
	"github.com/osse101/SpinWheel_Go/internal/worker"
)

// Handle is an explicit reference to a scheduled task
type Handle interface {
	// Name is the label the task was scheduled with
	Name() string
	// Cancel stops the task. It returns true if the task was still pending,
	// in which case its function is guaranteed not to run again.
	Cancel() bool
}

// Timers schedules one-shot and periodic tasks
type Timers interface {
	After(name string, d time.Duration, fn func()) Handle
	Every(name string, interval time.Duration, fn func()) Handle
}

// Scheduler owns every task it creates so that Close can tear all of them down
type Scheduler struct {
	clock      clockwork.Clock
	workerPool *worker.Pool

	mu     sync.Mutex
	tasks  map[uuid.UUID]*task
	closed bool
	wg     sync.WaitGroup
}

// New creates a scheduler. pool may be nil, in which case Schedule runs jobs inline.
func New(clock clockwork.Clock, pool *worker.Pool) *Scheduler {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Scheduler{
		clock:      clock,
		workerPool: pool,
		tasks:      make(map[uuid.UUID]*task),
	}
}

// Clock returns the clock tasks are measured against
func (s *Scheduler) Clock() clockwork.Clock {
	return s.clock
}

type task struct {
	id    uuid.UUID
	name  string
	s     *Scheduler
	timer clockwork.Timer
	stop  chan struct{}
}

func (t *task) Name() string { return t.name }

func (t *task) Cancel() bool {
	if !t.s.remove(t.id) {
		return false
	}
	t.halt()
	return true
}

func (t *task) halt() {
	if t.timer != nil {
		t.timer.Stop()
	}
	if t.stop != nil {
		close(t.stop)
	}
}

// After runs fn once after d. Scheduling on a closed scheduler returns an already cancelled handle.
func (s *Scheduler) After(name string, d time.Duration, fn func()) Handle {
	t := &task{id: uuid.New(), name: name, s: s}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return t
	}

	s.tasks[t.id] = t
	t.timer = s.clock.AfterFunc(d, func() {
		// Removal decides the race with Cancel: only one of them wins.
		if s.remove(t.id) {
			fn()
		}
	})
	return t
}

// Every runs fn every interval until cancelled
func (s *Scheduler) Every(name string, interval time.Duration, fn func()) Handle {
	t := &task{id: uuid.New(), name: name, s: s, stop: make(chan struct{})}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		close(t.stop)
		return t
	}

	ticker := s.clock.NewTicker(interval)
	s.tasks[t.id] = t
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer ticker.Stop()
		for {
			select {
			case <-ticker.Chan():
				select {
				case <-t.stop:
					return
				default:
				}
				fn()
			case <-t.stop:
				return
			}
		}
	}()
	return t
}

// Schedule registers a job to run at a fixed interval on the worker pool
func (s *Scheduler) Schedule(interval time.Duration, job worker.Job) Handle {
	return s.Every(job.Name(), interval, func() {
		if s.workerPool != nil {
			s.workerPool.Enqueue(job)
			return
		}
		if err := job.Process(context.Background()); err != nil {
			logger.Error(LogMsgJobFailed, "job", job.Name(), "error", err)
		}
	})
}

// Pending returns the number of tasks that have not fired or been cancelled
func (s *Scheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.tasks)
}

// Close cancels every pending task. It does not wait for a task that is already running.
func (s *Scheduler) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	tasks := s.tasks
	s.tasks = make(map[uuid.UUID]*task)
	s.mu.Unlock()

	for _, t := range tasks {
		t.halt()
	}
	logger.Debug(LogMsgSchedulerClosed, "cancelled", len(tasks))
}

// Stop closes the scheduler and waits for periodic task goroutines to exit
func (s *Scheduler) Stop() {
	s.Close()
	s.wg.Wait()
}

func (s *Scheduler) remove(id uuid.UUID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.tasks[id]; !ok {
		return false
	}
	delete(s.tasks, id)
	return true
}
