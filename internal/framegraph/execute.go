// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package framegraph

import (
	"context"
	"fmt"
	"time"

	"github.com/specialistvlad/framecore/internal/ctxlog"
)

// Execute runs the compiled layers in order. Layer i, including any work its
// passes dispatch, finishes before layer i+1 starts. The only error is a
// contract violation (no successful compile, or a concurrent Execute); in
// that case nothing runs and the graph is left untouched.
func (g *Graph) Execute(ctx context.Context) error {
	if !g.compiled {
		return ErrNotCompiled
	}
	if !g.executing.CompareAndSwap(false, true) {
		return ErrExecuting
	}
	defer g.executing.Store(false)

	wasSealed := g.arena.Sealed()
	g.arena.Seal()
	if !wasSealed {
		defer g.arena.Unseal()
	}

	logger := ctxlog.FromContext(ctx)
	g.panics.Store(0)

	for i, layer := range g.layers {
		if len(layer) == 1 || g.sched == nil {
			for _, idx := range layer {
				g.run(ctx, idx)
			}
			// An inline pass may still have dispatched work of its own.
			if g.sched != nil {
				g.sched.WaitForAll()
			}
			continue
		}
		logger.Debug("Dispatching layer.", "layer", i, "passes", len(layer))
		for _, idx := range layer {
			g.sched.Dispatch(func() { g.run(ctx, idx) })
		}
		g.sched.WaitForAll()
	}
	return nil
}

// run executes one pass and records its duration. Each pass writes only its
// own timing slot.
func (g *Graph) run(ctx context.Context, idx int) {
	p := g.passes[idx]
	if p.execute == nil {
		return
	}
	passCtx := ctxlog.With(ctx, "pass", p.name, "ordinal", idx)
	start := time.Now()
	defer func() {
		g.timings[idx] = time.Since(start)
		if r := recover(); r != nil {
			g.panics.Add(1)
			ctxlog.FromContext(passCtx).Error("Pass panicked.", "panic", fmt.Sprint(r))
		}
	}()
	p.execute(passCtx)
}
