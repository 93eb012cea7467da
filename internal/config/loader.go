// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package config

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/specialistvlad/framecore/internal/ctxlog"
)

// ErrUnsupportedFormat is returned for files that no Loader understands.
var ErrUnsupportedFormat = errors.New("unsupported configuration format")

// Loader reads a configuration file into the format-agnostic model.
type Loader interface {
	Load(ctx context.Context, path string) (*Model, error)
}

// LoaderFor picks a Loader by file extension.
func LoaderFor(path string) (Loader, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".hcl":
		return NewHCLLoader(), nil
	case ".yaml", ".yml":
		return NewYAMLLoader(), nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}
}

// Load reads and validates the configuration at path. An empty path yields
// the defaults.
func Load(ctx context.Context, path string) (*Model, error) {
	logger := ctxlog.FromContext(ctx)
	if path == "" {
		logger.Debug("No configuration file given, using defaults.")
		return Default(), nil
	}

	loader, err := LoaderFor(path)
	if err != nil {
		return nil, err
	}
	m, err := loader.Load(ctx, path)
	if err != nil {
		return nil, err
	}
	if err := m.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	logger.Debug("Configuration loaded.", "path", path, "workers", m.Scheduler.Workers, "budget", m.Arena.BudgetBytes)
	return m, nil
}
