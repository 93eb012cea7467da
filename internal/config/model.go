// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package config

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrInvalidConfig wraps every validation failure.
var ErrInvalidConfig = errors.New("invalid configuration")

// Model is the unified, format-agnostic engine configuration.
type Model struct {
	Scheduler       *Scheduler  `hcl:"scheduler,block" yaml:"scheduler"`
	Arena           *Arena      `hcl:"arena,block" yaml:"arena"`
	FrameGraph      *FrameGraph `hcl:"frame_graph,block" yaml:"frame_graph"`
	Log             *Log        `hcl:"log,block" yaml:"log"`
	Telemetry       *Telemetry  `hcl:"telemetry,block" yaml:"telemetry"`
	HealthcheckPort int         `hcl:"healthcheck_port,optional" yaml:"healthcheck_port"`
}

// Scheduler configures the worker pool. Zero workers means one per CPU.
type Scheduler struct {
	Workers       int `hcl:"workers,optional" yaml:"workers"`
	QueueCapacity int `hcl:"queue_capacity,optional" yaml:"queue_capacity"`
}

// Arena configures the per-frame allocator.
type Arena struct {
	BudgetBytes int `hcl:"budget_bytes,optional" yaml:"budget_bytes"`
}

// FrameGraph configures compilation and the frame loop. Zero frames means
// one; a negative count runs until the process is interrupted.
type FrameGraph struct {
	StrictLabels bool   `hcl:"strict_labels,optional" yaml:"strict_labels"`
	Frames       int    `hcl:"frames,optional" yaml:"frames"`
	Interval     string `hcl:"interval,optional" yaml:"interval"`
}

// Log configures the process logger.
type Log struct {
	Level  string `hcl:"level,optional" yaml:"level"`
	Format string `hcl:"format,optional" yaml:"format"`
}

// Telemetry configures where frame reports go.
type Telemetry struct {
	LogReports         bool   `hcl:"log_reports,optional" yaml:"log_reports"`
	SocketIOURL        string `hcl:"socketio_url,optional" yaml:"socketio_url"`
	Namespace          string `hcl:"namespace,optional" yaml:"namespace"`
	InsecureSkipVerify bool   `hcl:"insecure_skip_verify,optional" yaml:"insecure_skip_verify"`
}

// Default returns a model with every block present and defaulted.
func Default() *Model {
	m := &Model{}
	if err := m.Validate(); err != nil {
		panic(err)
	}
	return m
}

// Validate fills in missing blocks and defaults, then checks every value.
// All problems are reported together.
func (m *Model) Validate() error {
	if m.Scheduler == nil {
		m.Scheduler = &Scheduler{}
	}
	if m.Arena == nil {
		m.Arena = &Arena{}
	}
	if m.FrameGraph == nil {
		m.FrameGraph = &FrameGraph{}
	}
	if m.Log == nil {
		m.Log = &Log{}
	}
	if m.Telemetry == nil {
		m.Telemetry = &Telemetry{}
	}
	if m.Log.Level == "" {
		m.Log.Level = "info"
	}
	if m.Log.Format == "" {
		m.Log.Format = "text"
	}
	if m.FrameGraph.Frames == 0 {
		m.FrameGraph.Frames = 1
	}

	var errs []error
	bad := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf("%w: "+format, append([]any{ErrInvalidConfig}, args...)...))
	}

	if m.Scheduler.Workers < 0 {
		bad("scheduler.workers must not be negative, got %d", m.Scheduler.Workers)
	}
	if m.Scheduler.QueueCapacity < 0 {
		bad("scheduler.queue_capacity must not be negative, got %d", m.Scheduler.QueueCapacity)
	}
	if m.Arena.BudgetBytes < 0 {
		bad("arena.budget_bytes must not be negative, got %d", m.Arena.BudgetBytes)
	}
	if _, err := m.FrameGraph.IntervalDuration(); err != nil {
		bad("frame_graph.interval: %v", err)
	}
	switch strings.ToLower(m.Log.Level) {
	case "debug", "info", "warn", "error":
	default:
		bad("log.level must be one of debug, info, warn, error; got %q", m.Log.Level)
	}
	switch m.Log.Format {
	case "text", "json":
	default:
		bad("log.format must be text or json; got %q", m.Log.Format)
	}
	if m.HealthcheckPort < 0 || m.HealthcheckPort > 65535 {
		bad("healthcheck_port out of range: %d", m.HealthcheckPort)
	}
	return errors.Join(errs...)
}

// IntervalDuration parses the frame pacing interval. Empty means unpaced.
func (f *FrameGraph) IntervalDuration() (time.Duration, error) {
	if f.Interval == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(f.Interval)
	if err != nil {
		return 0, err
	}
	if d < 0 {
		return 0, fmt.Errorf("negative interval %s", d)
	}
	return d, nil
}
