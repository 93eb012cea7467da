// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/specialistvlad/framecore/internal/ctxlog"
	"github.com/specialistvlad/framecore/internal/frame"
	"github.com/specialistvlad/framecore/internal/framegraph"
	"github.com/specialistvlad/framecore/internal/pipeline"
	"github.com/specialistvlad/framecore/internal/registry"
	"github.com/specialistvlad/framecore/internal/telemetry"
	"golang.org/x/sync/errgroup"
)

// Run loads the pipeline and either prints its plan or runs the configured
// number of frames. Cancelling ctx stops a run between frames; that is not
// an error.
func (a *App) Run(ctx context.Context) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run method started.")

	if err := a.sched.Initialize(ctx, a.model.Scheduler.Workers); err != nil {
		return err
	}
	defer a.sched.Shutdown()

	p, err := pipeline.Load(ctx, a.appConfig.PipelinePath, a.registry, &registry.Env{Scheduler: a.sched, Out: a.outW})
	if err != nil {
		return fmt.Errorf("failed to load pipeline: %w", err)
	}

	sink, closeSink, err := a.sinks(ctx)
	if err != nil {
		return err
	}
	defer closeSink()

	loop, err := a.newLoop(sink)
	if err != nil {
		return err
	}
	defer loop.Close()

	if a.appConfig.Plan {
		r, err := loop.Plan(ctx, p.Register)
		if err != nil {
			return fmt.Errorf("failed to compile pipeline: %w", err)
		}
		printPlan(a.outW, r)
		return nil
	}

	ln, err := a.listenHealthcheck(a.model.HealthcheckPort)
	if err != nil {
		return err
	}

	g, gctx := errgroup.WithContext(ctx)
	if ln != nil {
		g.Go(func() error { return a.serveHealthcheck(ln) })
	}
	g.Go(func() error {
		defer a.closeHealthCheckServer()
		frames := a.model.FrameGraph.Frames
		a.logger.Info("🚀 Running frames.", "frames", frames, "passes", len(p.Passes), "workers", a.sched.Workers())
		err := loop.Run(gctx, frames, p.Register)
		if errors.Is(err, context.Canceled) && ctx.Err() != nil {
			a.logger.Info("Run interrupted.", "frames", loop.Frames())
			return nil
		}
		return err
	})
	if err := g.Wait(); err != nil {
		return fmt.Errorf("execution failed: %w", err)
	}

	st := a.sched.Stats()
	a.logger.Info("🏁 Execution finished.", "frames", loop.Frames(), "dispatched", st.Dispatched, "yields", st.Yields, "panics", st.Panics)
	return nil
}

func (a *App) newLoop(sink frame.Sink) (*frame.Loop, error) {
	interval, err := a.model.FrameGraph.IntervalDuration()
	if err != nil {
		return nil, err
	}
	opts := []frame.Option{
		frame.WithArenaBudget(a.model.Arena.BudgetBytes),
		frame.WithInterval(interval),
	}
	if sink != nil {
		opts = append(opts, frame.WithSink(sink))
	}
	if a.model.FrameGraph.StrictLabels {
		opts = append(opts, frame.WithGraphOptions(framegraph.WithStrictLabels()))
	}
	return frame.New(a.sched, opts...), nil
}

// sinks builds the telemetry fan-out from the configuration. The returned
// close function is always safe to call.
func (a *App) sinks(ctx context.Context) (frame.Sink, func(), error) {
	t := a.model.Telemetry
	var sinks telemetry.Multi
	closeFn := func() {}

	if t.LogReports {
		sinks = append(sinks, telemetry.LogSink{})
	}
	if t.SocketIOURL != "" {
		sio, err := telemetry.DialSocketIO(ctx, telemetry.SocketIOOptions{
			URL:                t.SocketIOURL,
			Namespace:          t.Namespace,
			InsecureSkipVerify: t.InsecureSkipVerify,
		})
		if err != nil {
			return nil, closeFn, fmt.Errorf("failed to connect telemetry sink: %w", err)
		}
		sinks = append(sinks, sio)
		closeFn = func() { _ = sio.Close() }
	}
	if len(sinks) == 0 {
		return nil, closeFn, nil
	}
	return sinks, closeFn, nil
}
