// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

// Package spin provides a CPU-bound work kind for exercising the worker pool.
package spin

import (
	"context"
	"errors"
	"fmt"
	"hash/maphash"
	"sync/atomic"
	"time"

	"github.com/specialistvlad/framecore/internal/framegraph"
	"github.com/specialistvlad/framecore/internal/registry"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

// Input defines the arguments of a spin pass. Exactly one of Duration and
// Iterations is required.
type Input struct {
	Duration   string `hcl:"duration,optional"`
	Iterations int    `hcl:"iterations,optional"`
}

// Checksum accumulates every spin result so the work cannot be optimized away.
var Checksum atomic.Uint64

// Build returns a pass body that burns CPU.
func Build(_ context.Context, _ *registry.Env, input any) (framegraph.ExecuteFunc, error) {
	in := input.(*Input)
	switch {
	case in.Duration != "" && in.Iterations != 0:
		return nil, errors.New("set either duration or iterations, not both")
	case in.Iterations < 0:
		return nil, fmt.Errorf("iterations must not be negative, got %d", in.Iterations)
	case in.Iterations > 0:
		n := in.Iterations
		return func(context.Context) { Checksum.Add(Spin(n)) }, nil
	case in.Duration != "":
		d, err := time.ParseDuration(in.Duration)
		if err != nil {
			return nil, fmt.Errorf("failed to parse duration: %w", err)
		}
		return func(context.Context) { Checksum.Add(SpinFor(d)) }, nil
	default:
		return nil, errors.New("one of duration or iterations is required")
	}
}

// Spin hashes n times and returns the final value.
func Spin(n int) uint64 {
	var h maphash.Hash
	var v uint64
	for i := 0; i < n; i++ {
		h.WriteString("frame")
		v ^= h.Sum64()
	}
	return v
}

// SpinFor hashes in batches until d has elapsed.
func SpinFor(d time.Duration) uint64 {
	var v uint64
	for deadline := time.Now().Add(d); time.Now().Before(deadline); {
		v ^= Spin(256)
	}
	return v
}

// Register registers the work kind with the registry.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterWork("spin", &registry.RegisteredWork{
		NewInput: func() any { return new(Input) },
		Build:    Build,
	})
}
