// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

// Package arena provides the per-frame allocator used by the frame graph.
//
// An Arena hands out values from typed slabs: every Go type gets its own list of
// fixed-size chunks and allocation bumps an index into the current chunk. Memory
// is never returned piecemeal. Reset rewinds every slab in one sweep, after
// unwinding the destructor stack in reverse allocation order.
//
// # Destructors
//
// Values whose type implements Destroyer are recorded on a side stack when they
// are allocated. Plain data never touches that stack. Reset and Release call
// Destroy on the recorded values last-in first-out, then run any callbacks
// registered with Defer in the same LIFO order (the two share one stack).
//
// # Budget
//
// The arena tracks the bytes it has handed out against a budget. Going over the
// budget is not an error: the slab simply grows and the overflow is counted in
// Stats so the owner can size the next run better.
//
// # Threading
//
// An Arena is not safe for concurrent use. The frame graph fills it during the
// sequential AddPass/Compile phase and Seals it for the parallel Execute phase;
// allocating from a sealed arena panics.
package arena
