// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

// Package app wires the engine together: it loads the engine configuration,
// builds the scheduler and the work registry, loads the pipeline and drives
// the frame loop. It knows nothing about flags or exit codes, so tests and
// other entrypoints can build an App directly.
package app
