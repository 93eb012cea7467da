// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package sleep

import (
	"context"
	"fmt"
	"time"

	"github.com/specialistvlad/framecore/internal/ctxlog"
	"github.com/specialistvlad/framecore/internal/framegraph"
	"github.com/specialistvlad/framecore/internal/registry"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

// Input defines the arguments of a sleep pass.
type Input struct {
	Duration string `hcl:"duration"`
}

// Build returns a pass body that blocks for the given duration or until the
// frame context is cancelled.
func Build(ctx context.Context, _ *registry.Env, input any) (framegraph.ExecuteFunc, error) {
	in := input.(*Input)
	d, err := time.ParseDuration(in.Duration)
	if err != nil {
		return nil, fmt.Errorf("failed to parse duration: %w", err)
	}
	return func(ctx context.Context) {
		ctxlog.FromContext(ctx).Debug("Sleeping.", "duration", d)
		t := time.NewTimer(d)
		defer t.Stop()
		select {
		case <-t.C:
		case <-ctx.Done():
		}
	}, nil
}

// Register registers the work kind with the registry.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterWork("sleep", &registry.RegisteredWork{
		NewInput: func() any { return new(Input) },
		Build:    Build,
	})
}
