// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

// Package cli turns command-line arguments into an app.Config. Bad input is
// reported as an ExitError carrying the process exit code.
package cli
