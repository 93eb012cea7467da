// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package scheduler

import (
	"runtime"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
)

// State is the lifecycle state of a Job.
type State int32

const (
	Created State = iota
	Scheduled
	Running
	Suspended
	Completed
)

func (s State) String() string {
	switch s {
	case Created:
		return "created"
	case Scheduled:
		return "scheduled"
	case Running:
		return "running"
	case Suspended:
		return "suspended"
	case Completed:
		return "completed"
	default:
		return "unknown"
	}
}

// JobFunc is the body of a Job.
type JobFunc func(jc *JobContext)

type jobEvent int

const (
	evSuspended jobEvent = iota
	evDone
	evPanicked
)

// frame is the suspended computation behind a Job handle.
type frame struct {
	id    uuid.UUID
	name  string
	body  JobFunc
	sched *Scheduler
	state atomic.Int32

	started  bool
	resumeCh chan struct{}
	eventCh  chan jobEvent

	panicValue any

	destroyOnce sync.Once
	onDestroy   []func()
}

func (f *frame) setState(s State) { f.state.Store(int32(s)) }

// resume drives the body until it yields or returns. Only one goroutine ever
// calls resume for a given frame at a time because the frame is on the queue
// at most once.
func (f *frame) resume() jobEvent {
	f.setState(Running)
	if !f.started {
		f.started = true
		go f.run()
	} else {
		f.resumeCh <- struct{}{}
	}

	ev := <-f.eventCh
	switch ev {
	case evSuspended:
		f.setState(Suspended)
	default:
		f.setState(Completed)
		f.destroy()
	}
	return ev
}

func (f *frame) run() {
	ev := evDone
	defer func() {
		if r := recover(); r != nil {
			f.panicValue = r
			ev = evPanicked
		}
		f.eventCh <- ev
	}()
	f.body(&JobContext{f: f})
}

// destroy releases the frame. Safe to call any number of times.
func (f *frame) destroy() {
	f.destroyOnce.Do(func() {
		for i := len(f.onDestroy) - 1; i >= 0; i-- {
			f.onDestroy[i]()
		}
		f.onDestroy = nil
		f.body = nil
	})
}

// Job is a move-only handle to a suspendable computation.
type Job struct {
	f       *frame
	cleanup runtime.Cleanup
}

// NewJob wraps body in a Job. The body does not run until the Job is
// dispatched. The name is used for logs only.
func NewJob(name string, body JobFunc) *Job {
	f := &frame{
		id:       uuid.New(),
		name:     name,
		body:     body,
		resumeCh: make(chan struct{}),
		eventCh:  make(chan jobEvent),
	}
	return adopt(f)
}

func adopt(f *frame) *Job {
	j := &Job{f: f}
	// A handle that is dropped without Release still destroys its frame.
	j.cleanup = runtime.AddCleanup(j, func(f *frame) { f.destroy() }, f)
	return j
}

// OnDestroy registers fn to run when the Job's frame is destroyed: after the
// body completes, or when an undispatched Job is released. Hooks run in
// reverse registration order, exactly once.
func (j *Job) OnDestroy(fn func()) *Job {
	if j.f == nil || fn == nil {
		return j
	}
	j.f.onDestroy = append(j.f.onDestroy, fn)
	return j
}

// Move transfers ownership to a new handle and leaves j empty.
func (j *Job) Move() *Job {
	f := j.take()
	if f == nil {
		return &Job{}
	}
	return adopt(f)
}

// Empty reports whether the handle owns nothing (moved-from, dispatched or released).
func (j *Job) Empty() bool { return j == nil || j.f == nil }

// ID returns the Job identifier, or uuid.Nil for an empty handle.
func (j *Job) ID() uuid.UUID {
	if j.Empty() {
		return uuid.Nil
	}
	return j.f.id
}

// Name returns the diagnostic name of the Job.
func (j *Job) Name() string {
	if j.Empty() {
		return ""
	}
	return j.f.name
}

// State returns the state of the owned frame. An empty handle reports Created.
func (j *Job) State() State {
	if j.Empty() {
		return Created
	}
	return State(j.f.state.Load())
}

// Release destroys the frame of an undispatched Job without running its body.
// Releasing an empty handle does nothing.
func (j *Job) Release() {
	if f := j.take(); f != nil {
		f.destroy()
	}
}

// take detaches the frame from the handle.
func (j *Job) take() *frame {
	if j == nil || j.f == nil {
		return nil
	}
	f := j.f
	j.f = nil
	j.cleanup.Stop()
	return f
}

// JobContext is handed to a running Job body.
type JobContext struct {
	f *frame
}

// Yield suspends the Job. The worker driving it is released immediately and
// the continuation is queued. Yield must be called from the body's own
// goroutine.
func (jc *JobContext) Yield() {
	jc.f.eventCh <- evSuspended
	<-jc.f.resumeCh
}

// ID returns the running Job's identifier.
func (jc *JobContext) ID() uuid.UUID { return jc.f.id }

// Name returns the running Job's name.
func (jc *JobContext) Name() string { return jc.f.name }

// Scheduler returns the scheduler driving the Job, for fan-out.
func (jc *JobContext) Scheduler() *Scheduler { return jc.f.sched }
