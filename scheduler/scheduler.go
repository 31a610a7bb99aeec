package scheduler

import (
	"context"
	"log"
	"sync"
	"sync/atomic"
	"time"
)

// Task is one run of a periodic job. A returned error is logged and the
// job keeps its schedule.
type Task func(ctx context.Context) error

// Scheduler runs a named task at a fixed interval until stopped
type Scheduler struct {
	name     string
	interval time.Duration
	task     Task

	runs     atomic.Int64
	failures atomic.Int64

	wg      sync.WaitGroup
	mu      sync.Mutex
	running bool
	cancel  context.CancelFunc
}

// New creates a scheduler. name appears in log lines.
func New(name string, interval time.Duration, task Task) *Scheduler {
	return &Scheduler{
		name:     name,
		interval: interval,
		task:     task,
	}
}

// Start runs the task every interval in the background, and once right
// away when firstRunImmediately is set. A second Start is a no-op.
func (s *Scheduler) Start(ctx context.Context, firstRunImmediately bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return
	}

	ctx, s.cancel = context.WithCancel(ctx)
	s.running = true

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		if firstRunImmediately {
			s.run(ctx)
		}

		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				s.run(ctx)
			case <-ctx.Done():
				return
			}
		}
	}()
}

func (s *Scheduler) run(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}

	s.runs.Add(1)
	if err := s.task(ctx); err != nil {
		s.failures.Add(1)
		log.Printf("Scheduler[%s]: run failed: %v", s.name, err)
	}
}

// Stop cancels the schedule and waits for a run in progress to finish
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return
	}

	if s.cancel != nil {
		s.cancel()
	}
	s.wg.Wait()
	s.running = false
}

// IsRunning returns true between Start and Stop
func (s *Scheduler) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

// Runs is the number of times the task has been invoked
func (s *Scheduler) Runs() int64 {
	return s.runs.Load()
}

// Failures is the number of runs that returned an error
func (s *Scheduler) Failures() int64 {
	return s.failures.Load()
}
