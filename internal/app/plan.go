// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package app

import (
	"fmt"
	"io"
	"strings"

	"github.com/specialistvlad/framecore/internal/frame"
)

// printPlan writes a human-readable view of a compiled frame.
func printPlan(w io.Writer, r *frame.Report) {
	fmt.Fprintf(w, "Frame plan: %d passes, %d edges, %d layers\n", len(r.Passes), len(r.Edges), len(r.Layers))
	for i, layer := range r.Layers {
		fmt.Fprintf(w, "  layer %d: %s\n", i, strings.Join(layer, ", "))
	}
	if len(r.Edges) > 0 {
		fmt.Fprintln(w, "Edges:")
		for _, e := range r.Edges {
			fmt.Fprintf(w, "  %s -> %s (%s %s)\n", r.Passes[e.From].Name, r.Passes[e.To].Name, e.Kind, e.Resource)
		}
	}
	if len(r.Diagnostics) > 0 {
		fmt.Fprintln(w, "Diagnostics:")
		for _, d := range r.Diagnostics {
			fmt.Fprintf(w, "  %s\n", d)
		}
	}
}
