// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

// Package scheduler runs background work for the engine on a fixed pool of
// worker goroutines.
//
// # How It Works
//
// A Scheduler owns one shared work queue. Dispatch pushes a unit of work and
// bumps the outstanding-work counter; a worker pops it, runs it, and drops the
// counter again. WaitForAll blocks until the counter reaches zero. While it
// waits it pops and runs queued work itself, so a caller waiting on a layer of
// passes helps finish that layer instead of idling.
//
// The queue is a fixed-size ring. When the ring is full, new work spills into an
// unbounded overflow list; capacity pressure costs memory, never work.
//
// # Jobs
//
// A Job is a suspendable computation. Its body receives a *JobContext and may
// call Yield at any point: the body parks, the worker that was driving it
// returns to the queue, and the continuation is pushed back onto the queue to
// be resumed later by whichever worker picks it up. A Job never runs
// concurrently with itself, and its continuation always starts after its
// suspension point.
//
// Jobs are single-owner handles. Dispatching a Job moves it into the
// scheduler and leaves the caller's handle empty; Move transfers ownership
// between handles. Releasing (or simply dropping) a Job that was never
// dispatched runs its destroy hooks exactly once and never runs its body.
//
// # Lifetime
//
// Dispatch and WaitForAll are only valid between Initialize and Shutdown. Using
// them outside that window is a programming error and panics with
// ErrNotInitialized. Shutdown drains all outstanding work, including suspended
// Jobs, before joining the workers. There is no cancellation.
//
// WaitForAll must not be called from inside dispatched work: the caller's own
// work item keeps the counter above zero.
package scheduler
