// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package telemetry

import (
	"context"
	"log/slog"

	"github.com/specialistvlad/framecore/internal/ctxlog"
	"github.com/specialistvlad/framecore/internal/frame"
)

// LogSink writes one log record per frame, plus one per pass at Debug.
type LogSink struct {
	Level slog.Level
}

// Publish implements frame.Sink.
func (s LogSink) Publish(ctx context.Context, r *frame.Report) error {
	logger := ctxlog.FromContext(ctx)
	logger.Log(ctx, s.Level, "Frame report.",
		"runID", r.RunID.String(),
		"passes", len(r.Passes),
		"layers", len(r.Layers),
		"edges", len(r.Edges),
		"compile", r.Compile,
		"execute", r.Execute,
		"critical", r.Critical(),
		"panics", r.Panics,
		"arenaUsed", r.Arena.Used,
		"arenaOverflows", r.Arena.Overflows,
	)
	if logger.Enabled(ctx, slog.LevelDebug) {
		for _, p := range r.Passes {
			logger.Debug("Pass report.", "pass", p.Name, "ordinal", p.Ordinal, "layer", p.Layer, "duration", p.Duration)
		}
	}
	return nil
}
