// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

// Package registry maps the work kinds named in pipeline files (for example
// "sleep" or "fanout") to the Go code that builds pass bodies for them.
//
// Modules register their kinds at startup. Validate then checks that every
// input struct can be decoded from HCL, so a mismatch between a module and
// the decoder surfaces before the first frame runs.
package registry
