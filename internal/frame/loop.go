// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package frame

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/specialistvlad/framecore/internal/arena"
	"github.com/specialistvlad/framecore/internal/ctxlog"
	"github.com/specialistvlad/framecore/internal/framegraph"
	"github.com/specialistvlad/framecore/internal/scheduler"
)

// RegisterFunc adds the passes of one frame to g.
type RegisterFunc func(ctx context.Context, g *framegraph.Graph) error

// Option configures a Loop.
type Option func(*Loop)

// WithArenaBudget sets the byte budget of the frame arena.
func WithArenaBudget(n int) Option {
	return func(l *Loop) { l.budget = n }
}

// WithSink sets where frame reports go.
func WithSink(s Sink) Option {
	return func(l *Loop) { l.sink = s }
}

// WithGraphOptions passes options through to the frame graph.
func WithGraphOptions(opts ...framegraph.Option) Option {
	return func(l *Loop) { l.graphOpts = append(l.graphOpts, opts...) }
}

// WithInterval paces Run so consecutive frames start at least d apart.
func WithInterval(d time.Duration) Option {
	return func(l *Loop) { l.interval = d }
}

// Loop owns the frame arena and the frame graph and keeps their lifetimes in
// lockstep. It is not safe for concurrent use.
type Loop struct {
	sched     *scheduler.Scheduler
	arena     *arena.Arena
	graph     *framegraph.Graph
	sink      Sink
	graphOpts []framegraph.Option
	budget    int
	interval  time.Duration

	runID uuid.UUID
	frame uint64
}

// New creates a loop that runs wide layers on sched. A nil scheduler runs
// every pass on the calling goroutine.
func New(sched *scheduler.Scheduler, opts ...Option) *Loop {
	l := &Loop{sched: sched, runID: uuid.New()}
	for _, opt := range opts {
		opt(l)
	}
	l.arena = arena.New(l.budget)
	var d framegraph.Dispatcher
	if sched != nil {
		d = sched
	}
	l.graph = framegraph.New(l.arena, d, l.graphOpts...)
	return l
}

// RunID identifies this loop in reports.
func (l *Loop) RunID() uuid.UUID { return l.runID }

// Frames returns how many frames have been started.
func (l *Loop) Frames() uint64 { return l.frame }

// RunFrame registers, compiles and executes one frame, then resets the graph
// and arena. The returned report is also published to the sink; a sink
// failure is logged but does not fail the frame.
func (l *Loop) RunFrame(ctx context.Context, register RegisterFunc) (*Report, error) {
	return l.cycle(ctx, register, true)
}

// Plan registers and compiles one frame without executing it.
func (l *Loop) Plan(ctx context.Context, register RegisterFunc) (*Report, error) {
	return l.cycle(ctx, register, false)
}

// Run executes frames until n frames have run, ctx is cancelled or a frame
// fails. A non-positive n runs until ctx is cancelled.
func (l *Loop) Run(ctx context.Context, n int, register RegisterFunc) error {
	var tick *time.Ticker
	if l.interval > 0 {
		tick = time.NewTicker(l.interval)
		defer tick.Stop()
	}
	for i := 0; n <= 0 || i < n; i++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		if _, err := l.RunFrame(ctx, register); err != nil {
			return err
		}
		if tick != nil && (n <= 0 || i+1 < n) {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-tick.C:
			}
		}
	}
	return nil
}

// Close runs pending arena destructors and releases the arena's memory.
func (l *Loop) Close() {
	l.graph.Reset()
	l.arena.Release()
}

func (l *Loop) cycle(ctx context.Context, register RegisterFunc, execute bool) (*Report, error) {
	l.frame++
	ctx = ctxlog.With(ctx, "frame", l.frame)
	logger := ctxlog.FromContext(ctx)
	defer l.reset()

	r := &Report{RunID: l.runID, Frame: l.frame}
	if err := register(ctx, l.graph); err != nil {
		return nil, fmt.Errorf("frame %d: register passes: %w", l.frame, err)
	}

	start := time.Now()
	if err := l.graph.Compile(ctx); err != nil {
		return nil, fmt.Errorf("frame %d: %w", l.frame, err)
	}
	r.Compile = time.Since(start)

	if execute {
		start = time.Now()
		if err := l.graph.Execute(ctx); err != nil {
			return nil, fmt.Errorf("frame %d: %w", l.frame, err)
		}
		r.Execute = time.Since(start)
		r.Executed = true
	}

	l.describe(r)
	logger.Debug("Frame finished.", "passes", len(r.Passes), "layers", len(r.Layers), "execute", r.Execute, "panics", r.Panics)

	if l.sink != nil {
		if err := l.sink.Publish(ctx, r); err != nil {
			logger.Warn("Failed to publish frame report.", "error", err)
		}
	}
	return r, nil
}

func (l *Loop) describe(r *Report) {
	g := l.graph
	layers := g.ExecutionLayers()
	timings := g.Timings()

	r.Passes = make([]PassReport, g.PassCount())
	for i := range r.Passes {
		r.Passes[i] = PassReport{Ordinal: i, Name: g.PassName(i), Layer: -1}
		if r.Executed && i < len(timings) {
			r.Passes[i].Duration = timings[i]
		}
	}
	r.Layers = make([][]string, len(layers))
	for li, layer := range layers {
		names := make([]string, len(layer))
		for j, idx := range layer {
			names[j] = g.PassName(idx)
			r.Passes[idx].Layer = li
		}
		r.Layers[li] = names
	}
	r.Edges = g.Edges()
	r.Diagnostics = g.Diagnostics()
	if r.Executed {
		r.Panics = g.Panics()
	}
	r.Arena = l.arena.Stats()
	if l.sched != nil && l.sched.Running() {
		r.Scheduler = l.sched.Stats()
	}
}

// reset ends the frame: the graph forgets its passes and the arena unwinds
// every destructor registered during the frame.
func (l *Loop) reset() {
	l.graph.Reset()
	l.arena.Reset()
}
