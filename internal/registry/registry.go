// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package registry

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"slices"

	"github.com/specialistvlad/framecore/internal/framegraph"
	"github.com/specialistvlad/framecore/internal/scheduler"
)

// Module is the interface that all built-in modules implement to be registered.
type Module interface {
	Register(r *Registry)
}

// Env is what a work body may use at run time.
type Env struct {
	Scheduler *scheduler.Scheduler // nil when passes run inline
	Out       io.Writer
}

// BuildFunc turns a decoded input into a pass body. It runs during pass
// registration, once per frame.
type BuildFunc func(ctx context.Context, env *Env, input any) (framegraph.ExecuteFunc, error)

// RegisteredWork holds the Go parts of one work kind.
type RegisteredWork struct {
	NewInput func() any // pointer to an hcl-tagged struct, or nil for no input
	Build    BuildFunc
}

// Registry holds the work kinds of one application instance.
type Registry struct {
	work map[string]*RegisteredWork
}

// New creates an empty Registry.
func New() *Registry {
	return &Registry{work: make(map[string]*RegisteredWork)}
}

// RegisterWork registers a work kind. Registering the same kind twice panics.
func (r *Registry) RegisterWork(kind string, w *RegisteredWork) {
	if _, exists := r.work[kind]; exists {
		panic(fmt.Sprintf("work kind '%s' already registered", kind))
	}
	slog.Debug("Registering work kind.", "kind", kind)
	r.work[kind] = w
}

// Work looks up a work kind.
func (r *Registry) Work(kind string) (*RegisteredWork, bool) {
	w, ok := r.work[kind]
	return w, ok
}

// Kinds returns the registered kinds in sorted order.
func (r *Registry) Kinds() []string {
	kinds := make([]string, 0, len(r.work))
	for k := range r.work {
		kinds = append(kinds, k)
	}
	slices.Sort(kinds)
	return kinds
}
