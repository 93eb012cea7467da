// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

// Package config defines the engine configuration model and loads it from
// HCL or YAML files. The Model is format-agnostic; a Loader is picked by file
// extension and every loaded model goes through Validate, which fills in
// defaults and rejects values the engine cannot run with.
package config
