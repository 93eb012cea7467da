// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package framegraph

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/specialistvlad/framecore/internal/arena"
	"github.com/specialistvlad/framecore/internal/ctxlog"
)

// Edge is one ordering constraint: From must finish before To starts.
type Edge struct {
	From     int
	To       int
	Kind     Hazard
	Resource string // resource or label name that caused the edge
}

// Severity of a compile diagnostic.
type Severity int

const (
	SeverityWarning Severity = iota
	SeverityError
)

func (s Severity) String() string {
	if s == SeverityError {
		return "error"
	}
	return "warning"
}

// Diagnostic is a finding about the pass set that does not stop compilation
// unless its severity is SeverityError.
type Diagnostic struct {
	Severity Severity
	Pass     int
	PassName string
	Label    string
	Message  string
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%s: pass %q (#%d): %s", d.Severity, d.PassName, d.Pass, d.Message)
}

// Compile derives the hazard edges of the registered passes and groups them
// into execution layers. On error the graph keeps its passes but has no
// layers; Reset followed by fresh AddPass calls works as usual.
func (g *Graph) Compile(ctx context.Context) error {
	if g.executing.Load() {
		return ErrExecuting
	}
	logger := ctxlog.FromContext(ctx)
	g.compiled = false
	g.layers, g.edges, g.diags = nil, nil, nil

	n := len(g.passes)
	preds := make([][]int, n)
	// mark[from] == to+1 when the edge from->to was already added.
	mark := arena.MakeSlice[int](g.arena, n)

	tracker := newHazardTracker(g.arena)
	signalled := make(map[Label][]int)
	type wait struct {
		label Label
		diag  Diagnostic
	}
	var dangling []wait

	for _, p := range g.passes {
		to := p.index
		link := func(from int, kind Hazard, what string) {
			if from == to || mark[from] == to+1 {
				return
			}
			mark[from] = to + 1
			preds[to] = append(preds[to], from)
			g.edges = append(g.edges, Edge{From: from, To: to, Kind: kind, Resource: what})
		}

		for _, acc := range p.access {
			what := acc.id.String()
			tracker.visit(to, acc, func(from int, kind Hazard) { link(from, kind, what) })
		}

		for _, l := range p.waits {
			signallers := signalled[l]
			for _, from := range signallers {
				link(from, LabelOrder, g.labelName(l))
			}
			if len(signallers) == 0 {
				dangling = append(dangling, wait{label: l, diag: Diagnostic{Pass: to, PassName: p.name, Label: g.labelName(l)}})
			}
		}
		for _, l := range p.signals {
			signalled[l] = append(signalled[l], to)
		}
	}

	var unsignalled []string
	for _, w := range dangling {
		d := w.diag
		if len(signalled[w.label]) > 0 {
			d.Message = fmt.Sprintf("waits for label %q that is only signalled by later passes; no ordering applied", d.Label)
		} else {
			d.Message = fmt.Sprintf("waits for label %q that is never signalled; no ordering applied", d.Label)
			if g.strictLabels {
				d.Severity = SeverityError
				unsignalled = append(unsignalled, d.Label)
			}
		}
		g.diags = append(g.diags, d)
		logger.Warn("Frame graph diagnostic.", "pass", d.PassName, "label", d.Label, "detail", d.Message)
	}
	if len(unsignalled) > 0 {
		return fmt.Errorf("%w: %s", ErrUnsignalledLabel, strings.Join(unsignalled, ", "))
	}

	layers, err := g.layer(preds)
	if err != nil {
		return err
	}
	g.layers = layers
	g.timings = make([]time.Duration, n)
	g.compiled = true

	logger.Debug("Frame graph compiled.", "passes", n, "edges", len(g.edges), "layers", len(layers))
	return nil
}

// layer assigns every pass to the earliest layer after all its predecessors,
// Kahn style: peel off the passes with no remaining incoming edges, one
// layer at a time.
func (g *Graph) layer(preds [][]int) ([]Layer, error) {
	n := len(preds)
	indegree := arena.MakeSlice[int](g.arena, n)
	succs := make([][]int, n)
	for to, from := range preds {
		indegree[to] = len(from)
		for _, f := range from {
			succs[f] = append(succs[f], to)
		}
	}

	var current Layer
	for i := 0; i < n; i++ {
		if indegree[i] == 0 {
			current = append(current, i)
		}
	}

	var layers []Layer
	placed := 0
	for len(current) > 0 {
		slices.Sort(current)
		out := Layer(arena.MakeSlice[int](g.arena, len(current)))
		copy(out, current)
		layers = append(layers, out)
		placed += len(current)

		var next Layer
		for _, p := range current {
			for _, s := range succs[p] {
				indegree[s]--
				if indegree[s] == 0 {
					next = append(next, s)
				}
			}
		}
		current = next
	}

	if placed != n {
		return nil, fmt.Errorf("%w: %d of %d passes could not be placed", ErrCycle, n-placed, n)
	}
	return layers, nil
}
