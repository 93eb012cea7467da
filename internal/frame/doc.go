// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

// Package frame drives the per-frame cycle: register passes, compile, execute,
// then reset the frame graph and its arena together. Each frame produces a
// Report that is handed to a Sink.
package frame
