// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package print

import (
	"context"
	"fmt"
	"io"
	"os"
	"sort"
	"sync"

	"github.com/specialistvlad/framecore/internal/framegraph"
	"github.com/specialistvlad/framecore/internal/registry"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

// Input defines the arguments of a print pass.
type Input struct {
	Message string            `hcl:"message"`
	Fields  map[string]string `hcl:"fields,optional"`
}

// mu serializes writes from passes that run in the same layer.
var mu sync.Mutex

// Build returns a pass body that prints the message and fields to env.Out.
func Build(_ context.Context, env *registry.Env, input any) (framegraph.ExecuteFunc, error) {
	in := input.(*Input)
	var out io.Writer = os.Stdout
	if env != nil && env.Out != nil {
		out = env.Out
	}

	// Sort keys for consistent output
	keys := make([]string, 0, len(in.Fields))
	for k := range in.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	return func(context.Context) {
		mu.Lock()
		defer mu.Unlock()
		fmt.Fprintln(out, in.Message)
		for _, k := range keys {
			fmt.Fprintf(out, "      %s = %q\n", k, in.Fields[k])
		}
	}, nil
}

// Register registers the work kind with the registry.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterWork("print", &registry.RegisteredWork{
		NewInput: func() any { return new(Input) },
		Build:    Build,
	})
}
