// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package app

import (
	"errors"

	"github.com/specialistvlad/framecore/internal/config"
)

// Config holds what the entrypoint knows about a run. Zero values mean "not
// set" and leave the engine configuration file in charge.
type Config struct {
	ConfigPath   string // engine configuration, .hcl or .yaml
	PipelinePath string // pass files, .hcl file or directory
	Plan         bool   // compile one frame and print it instead of running

	Frames          int // negative runs until interrupted
	WorkerCount     int
	LogFormat       string
	LogLevel        string
	HealthcheckPort int
}

func NewConfig(cfg Config) (*Config, error) {
	if cfg.PipelinePath == "" {
		return nil, errors.New("PipelinePath is a required configuration field and cannot be empty")
	}
	return &cfg, nil
}

// apply overlays the values set on c onto the engine configuration.
func (c *Config) apply(m *config.Model) {
	if c.WorkerCount != 0 {
		m.Scheduler.Workers = c.WorkerCount
	}
	if c.Frames != 0 {
		m.FrameGraph.Frames = c.Frames
	}
	if c.LogLevel != "" {
		m.Log.Level = c.LogLevel
	}
	if c.LogFormat != "" {
		m.Log.Format = c.LogFormat
	}
	if c.HealthcheckPort != 0 {
		m.HealthcheckPort = c.HealthcheckPort
	}
}
