// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package framegraph

import (
	"sync/atomic"
	"time"

	"github.com/specialistvlad/framecore/internal/arena"
)

// Dispatcher is the part of the scheduler the graph needs to run wide layers.
type Dispatcher interface {
	Dispatch(fn func())
	WaitForAll()
}

// Layer is a set of mutually independent pass ordinals, in ascending order.
type Layer []int

// Option configures a Graph.
type Option func(*Graph)

// WithStrictLabels makes Compile fail when a pass waits for a label that no
// pass signals. By default such a wait adds no edge and is reported as a
// diagnostic.
func WithStrictLabels() Option {
	return func(g *Graph) { g.strictLabels = true }
}

// Graph is the per-frame pass registry, compiler and executor.
type Graph struct {
	arena        *arena.Arena
	ownsArena    bool
	sched        Dispatcher
	strictLabels bool

	passes     []*pass
	labelNames map[Label]string

	compiled bool
	layers   []Layer
	edges    []Edge
	diags    []Diagnostic
	timings  []time.Duration
	panics   atomic.Int64

	executing atomic.Bool
}

// New creates a graph backed by a, running wide layers on d. A nil arena
// makes the graph own a private one that Reset rewinds. A nil dispatcher
// runs every layer inline.
func New(a *arena.Arena, d Dispatcher, opts ...Option) *Graph {
	g := &Graph{
		arena:      a,
		sched:      d,
		labelNames: make(map[Label]string),
	}
	if g.arena == nil {
		g.arena = arena.New(0)
		g.ownsArena = true
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// AddPass registers a pass, runs setup immediately and returns the pass ordinal.
// Adding a pass invalidates any earlier compile.
func (g *Graph) AddPass(name string, setup SetupFunc, execute ExecuteFunc) int {
	if g.executing.Load() {
		panic(ErrExecuting)
	}
	p := arena.Make(g.arena, pass{
		index:   len(g.passes),
		name:    name,
		execute: execute,
	})
	g.passes = append(g.passes, p)
	g.compiled = false

	if setup != nil {
		setup(&Builder{g: g, p: p})
	}
	return p.index
}

// Reset drops every pass and all compile state. The arena owner must reset
// the arena at the same time; a graph-owned arena is reset here.
func (g *Graph) Reset() {
	if g.executing.Load() {
		panic(ErrExecuting)
	}
	clear(g.passes)
	g.passes = g.passes[:0]
	clear(g.labelNames)
	g.compiled = false
	g.layers = nil
	g.edges = nil
	g.diags = nil
	g.timings = nil
	g.panics.Store(0)
	if g.ownsArena {
		g.arena.Reset()
	}
}

// PassCount returns the number of registered passes.
func (g *Graph) PassCount() int { return len(g.passes) }

// PassName returns the diagnostic name of pass i.
func (g *Graph) PassName(i int) string {
	if i < 0 || i >= len(g.passes) {
		return ""
	}
	return g.passes[i].name
}

// Compiled reports whether the current pass set has been compiled successfully.
func (g *Graph) Compiled() bool { return g.compiled }

// ExecutionLayers returns a copy of the compiled layers, or nil before a
// successful Compile.
func (g *Graph) ExecutionLayers() []Layer {
	if !g.compiled {
		return nil
	}
	out := make([]Layer, len(g.layers))
	for i, l := range g.layers {
		out[i] = append(Layer(nil), l...)
	}
	return out
}

// Edges returns the deduplicated ordering edges found by the last Compile.
func (g *Graph) Edges() []Edge { return append([]Edge(nil), g.edges...) }

// Diagnostics returns the non-fatal findings of the last Compile.
func (g *Graph) Diagnostics() []Diagnostic { return append([]Diagnostic(nil), g.diags...) }

// Timings returns how long each pass ran during the last Execute, indexed by ordinal.
func (g *Graph) Timings() []time.Duration { return append([]time.Duration(nil), g.timings...) }

// Panics returns how many pass bodies panicked during the last Execute.
func (g *Graph) Panics() int { return int(g.panics.Load()) }

func (g *Graph) label(name string) Label {
	l := LabelOf(name)
	if _, ok := g.labelNames[l]; !ok {
		g.labelNames[l] = name
	}
	return l
}

func (g *Graph) labelName(l Label) string {
	if n, ok := g.labelNames[l]; ok {
		return n
	}
	return "?"
}
