// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

// Package fanout provides a work kind that splits a pass into many small
// tasks on the scheduler. The layer the pass belongs to does not finish until
// every task has run.
package fanout

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/specialistvlad/framecore/internal/ctxlog"
	"github.com/specialistvlad/framecore/internal/framegraph"
	"github.com/specialistvlad/framecore/internal/registry"
	"github.com/specialistvlad/framecore/modules/spin"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

// Input defines the arguments of a fanout pass.
type Input struct {
	Tasks int    `hcl:"tasks"`
	Spin  string `hcl:"spin,optional"`  // per-task CPU time
	Depth int    `hcl:"depth,optional"` // nested fan-out levels below the first
}

// Completed counts tasks that have finished, across all fanout passes.
var Completed atomic.Int64

// Build returns a pass body that dispatches Tasks tasks per level. Without a
// scheduler the tasks run inline.
func Build(_ context.Context, env *registry.Env, input any) (framegraph.ExecuteFunc, error) {
	in := input.(*Input)
	if in.Tasks <= 0 {
		return nil, fmt.Errorf("tasks must be positive, got %d", in.Tasks)
	}
	if in.Depth < 0 {
		return nil, fmt.Errorf("depth must not be negative, got %d", in.Depth)
	}
	var per time.Duration
	if in.Spin != "" {
		d, err := time.ParseDuration(in.Spin)
		if err != nil {
			return nil, fmt.Errorf("failed to parse spin: %w", err)
		}
		per = d
	}

	dispatch := func(fn func()) { fn() }
	if env != nil && env.Scheduler != nil {
		dispatch = env.Scheduler.Dispatch
	}

	var task func(level int)
	task = func(level int) {
		if per > 0 {
			spin.Checksum.Add(spin.SpinFor(per))
		}
		if level < in.Depth {
			for i := 0; i < in.Tasks; i++ {
				dispatch(func() { task(level + 1) })
			}
		}
		Completed.Add(1)
	}

	return func(ctx context.Context) {
		ctxlog.FromContext(ctx).Debug("Fanning out.", "tasks", in.Tasks, "depth", in.Depth)
		for i := 0; i < in.Tasks; i++ {
			dispatch(func() { task(0) })
		}
	}, nil
}

// Register registers the work kind with the registry.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterWork("fanout", &registry.RegisteredWork{
		NewInput: func() any { return new(Input) },
		Build:    Build,
	})
}
