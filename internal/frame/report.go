// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package frame

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/specialistvlad/framecore/internal/arena"
	"github.com/specialistvlad/framecore/internal/framegraph"
	"github.com/specialistvlad/framecore/internal/scheduler"
)

// Sink receives one Report per frame.
type Sink interface {
	Publish(ctx context.Context, r *Report) error
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(ctx context.Context, r *Report) error

func (f SinkFunc) Publish(ctx context.Context, r *Report) error { return f(ctx, r) }

// PassReport describes one pass of a frame.
type PassReport struct {
	Ordinal  int
	Name     string
	Layer    int
	Duration time.Duration
}

// Report is the outcome of one frame.
type Report struct {
	RunID    uuid.UUID
	Frame    uint64
	Executed bool // false for Plan

	Passes      []PassReport
	Layers      [][]string
	Edges       []framegraph.Edge
	Diagnostics []framegraph.Diagnostic
	Panics      int

	Compile time.Duration
	Execute time.Duration

	Arena     arena.Stats
	Scheduler scheduler.Stats
}

// Critical returns the longest chain of pass durations through the layers,
// which bounds the frame time no matter how many workers run it.
func (r *Report) Critical() time.Duration {
	var total time.Duration
	slowest := make([]time.Duration, len(r.Layers))
	for _, p := range r.Passes {
		if p.Layer >= 0 && p.Layer < len(slowest) && p.Duration > slowest[p.Layer] {
			slowest[p.Layer] = p.Duration
		}
	}
	for _, d := range slowest {
		total += d
	}
	return total
}

// Summary flattens the report into plain values for structured sinks.
func (r *Report) Summary() map[string]any {
	passes := make([]map[string]any, 0, len(r.Passes))
	for _, p := range r.Passes {
		passes = append(passes, map[string]any{
			"ordinal":  p.Ordinal,
			"name":     p.Name,
			"layer":    p.Layer,
			"duration": p.Duration.Microseconds(),
		})
	}
	diags := make([]string, 0, len(r.Diagnostics))
	for _, d := range r.Diagnostics {
		diags = append(diags, d.String())
	}
	return map[string]any{
		"run_id":      r.RunID.String(),
		"frame":       r.Frame,
		"executed":    r.Executed,
		"passes":      passes,
		"layers":      r.Layers,
		"edges":       len(r.Edges),
		"diagnostics": diags,
		"panics":      r.Panics,
		"compile_us":  r.Compile.Microseconds(),
		"execute_us":  r.Execute.Microseconds(),
		"critical_us": r.Critical().Microseconds(),
		"arena": map[string]any{
			"budget":     r.Arena.Budget,
			"used":       r.Arena.Used,
			"high_water": r.Arena.HighWater,
			"overflows":  r.Arena.Overflows,
		},
		"scheduler": map[string]any{
			"workers":    r.Scheduler.Workers,
			"dispatched": r.Scheduler.Dispatched,
			"completed":  r.Scheduler.Completed,
			"yields":     r.Scheduler.Yields,
			"panics":     r.Scheduler.Panics,
		},
	}
}
