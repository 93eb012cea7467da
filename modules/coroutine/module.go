// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

// Package coroutine provides a work kind that runs as a Job yielding between
// steps, so long work shares workers with the rest of the layer.
package coroutine

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/specialistvlad/framecore/internal/ctxlog"
	"github.com/specialistvlad/framecore/internal/framegraph"
	"github.com/specialistvlad/framecore/internal/registry"
	"github.com/specialistvlad/framecore/internal/scheduler"
	"github.com/specialistvlad/framecore/modules/spin"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

// Input defines the arguments of a coroutine pass.
type Input struct {
	Steps int    `hcl:"steps"`
	Spin  string `hcl:"spin,optional"` // CPU time per step
}

// ErrNoScheduler is returned when the pipeline runs without a worker pool.
var ErrNoScheduler = errors.New("coroutine work requires a scheduler")

// Build returns a pass body that dispatches one Job which yields after every
// step but the last.
func Build(_ context.Context, env *registry.Env, input any) (framegraph.ExecuteFunc, error) {
	in := input.(*Input)
	if env == nil || env.Scheduler == nil {
		return nil, ErrNoScheduler
	}
	if in.Steps <= 0 {
		return nil, fmt.Errorf("steps must be positive, got %d", in.Steps)
	}
	var per time.Duration
	if in.Spin != "" {
		d, err := time.ParseDuration(in.Spin)
		if err != nil {
			return nil, fmt.Errorf("failed to parse spin: %w", err)
		}
		per = d
	}

	sched := env.Scheduler
	steps := in.Steps
	return func(ctx context.Context) {
		logger := ctxlog.FromContext(ctx)
		job := scheduler.NewJob("coroutine", func(jc *scheduler.JobContext) {
			for i := 0; i < steps; i++ {
				if per > 0 {
					spin.Checksum.Add(spin.SpinFor(per))
				}
				if i < steps-1 {
					jc.Yield()
				}
			}
		})
		logger.Debug("Dispatching coroutine.", "jobID", job.ID().String(), "steps", steps)
		sched.DispatchJob(job)
	}, nil
}

// Register registers the work kind with the registry.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterWork("coroutine", &registry.RegisteredWork{
		NewInput: func() any { return new(Input) },
		Build:    Build,
	})
}
