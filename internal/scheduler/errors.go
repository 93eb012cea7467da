// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package scheduler

import "errors"

var (
	// ErrNotInitialized is the panic value for Dispatch/WaitForAll outside the
	// Initialize/Shutdown window.
	ErrNotInitialized = errors.New("scheduler: used outside Initialize/Shutdown")
	// ErrAlreadyInitialized is returned by Initialize on a running scheduler.
	ErrAlreadyInitialized = errors.New("scheduler: already initialized")
	// ErrEmptyJob is the panic value for dispatching a moved-from or released Job.
	ErrEmptyJob = errors.New("scheduler: dispatch of an empty job")
)
