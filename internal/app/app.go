// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/specialistvlad/framecore/internal/config"
	"github.com/specialistvlad/framecore/internal/ctxlog"
	"github.com/specialistvlad/framecore/internal/registry"
	"github.com/specialistvlad/framecore/internal/scheduler"
)

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	outW      io.Writer
	logger    *slog.Logger
	appConfig *Config
	model     *config.Model
	registry  *registry.Registry
	sched     *scheduler.Scheduler

	httpServer *http.Server
}

// NewApp loads the engine configuration, applies the entrypoint overrides and
// registers the work modules. With no modules the built-in set is used.
func NewApp(outW io.Writer, appConfig *Config, modules ...registry.Module) (*App, error) {
	// Bootstrap logger for loading; replaced once the configuration is known.
	logger := newLogger(appConfig.LogLevel, appConfig.LogFormat, outW)
	ctx := ctxlog.WithLogger(context.Background(), logger)

	model, err := config.Load(ctx, appConfig.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	appConfig.apply(model)
	if err := model.Validate(); err != nil {
		return nil, err
	}

	logger = newLogger(model.Log.Level, model.Log.Format, outW)
	ctx = ctxlog.WithLogger(context.Background(), logger)
	logger.Debug("Logger configured successfully.")

	reg := registry.New()
	if len(modules) == 0 {
		modules = coreModules
	}
	for _, mod := range modules {
		mod.Register(reg)
	}
	logger.Debug("All Go modules registered.", "count", len(modules), "kinds", reg.Kinds())

	if err := reg.Validate(ctx); err != nil {
		return nil, err
	}
	logger.Debug("Registry validation passed.")

	return &App{
		outW:      outW,
		logger:    logger,
		appConfig: appConfig,
		model:     model,
		registry:  reg,
		sched:     scheduler.New(scheduler.WithQueueCapacity(model.Scheduler.QueueCapacity)),
	}, nil
}

// Registry returns the application's registry. This is primarily for testing.
func (a *App) Registry() *registry.Registry {
	return a.registry
}

// Model returns the effective engine configuration.
func (a *App) Model() *config.Model {
	return a.model
}
