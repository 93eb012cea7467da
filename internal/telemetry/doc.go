// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

// Package telemetry provides frame.Sink implementations: a structured log
// sink, a socket.io sink that streams reports to an external profiler, and a
// fan-out that combines several sinks.
package telemetry
