// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"sync"
	"sync/atomic"

	"github.com/specialistvlad/framecore/internal/ctxlog"
)

type lifecycle int

const (
	stateStopped lifecycle = iota
	stateRunning
	stateDraining
)

// Option configures a Scheduler.
type Option func(*Scheduler)

// WithQueueCapacity sets the size of the bounded ring in front of the overflow list.
func WithQueueCapacity(n int) Option {
	return func(s *Scheduler) { s.queueCapacity = n }
}

// Scheduler is the process-wide worker pool. The zero value is not usable; use New.
type Scheduler struct {
	mu    sync.Mutex
	cond  *sync.Cond
	queue *workQueue
	state lifecycle

	outstanding atomic.Int64
	workers     sync.WaitGroup
	workerCount int

	queueCapacity int
	logger        *slog.Logger

	dispatched    atomic.Uint64
	completed     atomic.Uint64
	jobsCompleted atomic.Uint64
	yields        atomic.Uint64
	panics        atomic.Uint64
}

// New creates a stopped scheduler. Call Initialize before dispatching work.
func New(opts ...Option) *Scheduler {
	s := &Scheduler{
		queueCapacity: DefaultQueueCapacity,
		logger:        slog.Default(),
	}
	s.cond = sync.NewCond(&s.mu)
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Initialize starts workerCount workers. A non-positive count means one worker
// per CPU. The logger found in ctx is used for the scheduler's lifetime.
func (s *Scheduler) Initialize(ctx context.Context, workerCount int) error {
	if workerCount <= 0 {
		workerCount = runtime.NumCPU()
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != stateStopped {
		return ErrAlreadyInitialized
	}

	s.logger = ctxlog.FromContext(ctx).With("component", "scheduler")
	s.queue = newWorkQueue(s.queueCapacity)
	s.workerCount = workerCount
	s.state = stateRunning

	s.logger.Debug("Starting worker pool.", "workers", workerCount, "queueCapacity", len(s.queue.ring))
	s.workers.Add(workerCount)
	for i := 0; i < workerCount; i++ {
		go s.worker(i)
	}
	return nil
}

// Running reports whether the scheduler is between Initialize and Shutdown.
func (s *Scheduler) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state != stateStopped
}

// Workers returns the number of workers started by Initialize.
func (s *Scheduler) Workers() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.workerCount
}

// Dispatch enqueues fn to run on some worker. It never blocks on capacity and
// never drops work.
func (s *Scheduler) Dispatch(fn func()) {
	if fn == nil {
		return
	}
	s.enqueue(workItem{fn: fn})
}

// DispatchJob moves j into the scheduler; j is empty afterwards. Dispatching an
// empty Job panics with ErrEmptyJob.
// Dispatching outside Initialize/Shutdown panics with ErrNotInitialized and
// leaves j untouched, so it can still be released.
func (s *Scheduler) DispatchJob(j *Job) {
	if j.Empty() {
		panic(ErrEmptyJob)
	}
	s.mu.Lock()
	if s.state == stateStopped {
		s.mu.Unlock()
		panic(ErrNotInitialized)
	}
	f := j.take()
	f.sched = s
	f.setState(Scheduled)
	s.pushLocked(workItem{job: f})
	s.mu.Unlock()
}

func (s *Scheduler) enqueue(it workItem) {
	s.mu.Lock()
	if s.state == stateStopped {
		s.mu.Unlock()
		panic(ErrNotInitialized)
	}
	s.pushLocked(it)
	s.mu.Unlock()
}

// pushLocked queues it and wakes one worker. s.mu must be held.
func (s *Scheduler) pushLocked(it workItem) {
	s.outstanding.Add(1)
	s.dispatched.Add(1)
	s.queue.push(it)
	s.cond.Signal()
}

// WaitForAll blocks until every dispatched unit of work, including work
// dispatched by running work, has finished. The caller runs queued work
// while it waits.
func (s *Scheduler) WaitForAll() {
	s.mu.Lock()
	if s.state == stateStopped {
		s.mu.Unlock()
		panic(ErrNotInitialized)
	}
	for s.outstanding.Load() != 0 {
		if it, ok := s.queue.pop(); ok {
			s.mu.Unlock()
			s.execute(it)
			s.mu.Lock()
			continue
		}
		s.cond.Wait()
	}
	s.mu.Unlock()
}

// Shutdown drains outstanding work and joins the workers. Calling Shutdown
// on a stopped scheduler does nothing. The scheduler may be initialized again.
func (s *Scheduler) Shutdown() {
	s.mu.Lock()
	if s.state != stateRunning {
		s.mu.Unlock()
		return
	}
	s.state = stateDraining
	s.cond.Broadcast()
	s.mu.Unlock()

	s.logger.Debug("Draining worker pool.", "outstanding", s.outstanding.Load())
	s.workers.Wait()

	s.mu.Lock()
	s.state = stateStopped
	s.workerCount = 0
	s.mu.Unlock()
	s.logger.Debug("Worker pool stopped.")
}

func (s *Scheduler) worker(id int) {
	defer s.workers.Done()
	logger := s.logger.With("workerID", id)
	logger.Debug("Worker started.")

	for {
		s.mu.Lock()
		it, ok := s.queue.pop()
		for !ok {
			if s.state == stateDraining && s.outstanding.Load() == 0 {
				s.mu.Unlock()
				logger.Debug("Worker finished.")
				return
			}
			s.cond.Wait()
			it, ok = s.queue.pop()
		}
		s.mu.Unlock()
		s.execute(it)
	}
}

// execute runs one work item and settles the outstanding counter.
func (s *Scheduler) execute(it workItem) {
	if it.job != nil {
		s.step(it.job)
	} else {
		s.call(it.fn)
	}
	s.finish()
}

func (s *Scheduler) call(fn func()) {
	defer func() {
		if r := recover(); r != nil {
			s.panics.Add(1)
			s.logger.Error("Recovered panic in dispatched work.", "panic", fmt.Sprint(r))
		}
	}()
	fn()
}

// step resumes a Job once. A Job that yields is pushed back before the
// current step is settled so the counter never touches zero in between.
func (s *Scheduler) step(f *frame) {
	switch f.resume() {
	case evSuspended:
		s.yields.Add(1)
		s.enqueue(workItem{job: f})
	case evPanicked:
		s.panics.Add(1)
		s.jobsCompleted.Add(1)
		s.logger.Error("Recovered panic in job.", "job", f.name, "jobID", f.id.String(), "panic", fmt.Sprint(f.panicValue))
	default:
		s.jobsCompleted.Add(1)
	}
}

func (s *Scheduler) finish() {
	s.completed.Add(1)
	if s.outstanding.Add(-1) == 0 {
		s.mu.Lock()
		s.cond.Broadcast()
		s.mu.Unlock()
	}
}
