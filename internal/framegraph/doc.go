// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

// Package framegraph compiles a frame's passes into an ordered list of
// parallel execution layers and runs them.
//
// # How It Works
//
// Every frame the owner registers passes with AddPass. Each pass declares, in
// its setup function, which resources it reads and writes and which labels it
// signals or waits for. Compile walks the passes in registration order and
// derives ordering edges:
//
//   - read after write: the last writer of a resource runs before a later reader
//   - write after write: the last writer runs before the next writer
//   - write after read: every reader since the last write runs before the next writer
//   - labels: every Signal(L) runs before every later WaitFor(L)
//
// Edges always point from an earlier pass to a later one, so the graph cannot
// contain a cycle. Passes are then grouped into layers: layer 0 holds passes with
// no predecessors, layer k holds passes whose predecessors all sit in earlier
// layers. Passes in one layer are independent and may run in parallel.
//
// Execute runs the layers in order. A layer with one pass runs inline on the
// calling goroutine; a wider layer is dispatched to the scheduler and closed
// with a single WaitForAll before the next layer starts.
//
// # Resource Identity
//
// A resource is identified by a Go type (Read[T], Write[T]) or, for passes
// declared in data files, by a name (Named). Two passes conflict only if they
// declare the same identity.
//
// # Lifetime
//
// Pass records and compile-time bookkeeping live in the arena supplied to New.
// Reset drops the graph's references; the arena owner resets the arena in the
// same frame boundary. The arena is sealed while Execute runs.
package framegraph
