// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package framegraph

import "errors"

var (
	// ErrNotCompiled is returned by Execute when the graph has no successful compile.
	ErrNotCompiled = errors.New("framegraph: execute before a successful compile")
	// ErrExecuting is returned (or raised, for mutations) while Execute is running.
	ErrExecuting = errors.New("framegraph: graph is executing")
	// ErrUnsignalledLabel is returned by Compile in strict mode when a pass
	// waits for a label no pass signals.
	ErrUnsignalledLabel = errors.New("framegraph: wait for a label that is never signalled")
	// ErrCycle is returned if layering cannot place every pass.
	ErrCycle = errors.New("framegraph: dependency cycle")
)
