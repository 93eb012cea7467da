// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

// Package testutil holds the shared harness used by the integration tests:
// it writes pipeline files to a temporary directory, builds an App around
// them and runs it with debug logging captured.
package testutil

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/specialistvlad/framecore/internal/app"
	"github.com/specialistvlad/framecore/internal/registry"
	"github.com/stretchr/testify/require"
)

// SafeBuffer is a thread-safe buffer for capturing log output in tests.
type SafeBuffer struct {
	b  bytes.Buffer
	mu sync.Mutex
}

// Write implements the io.Writer interface for SafeBuffer.
func (b *SafeBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.Write(p)
}

// String implements the fmt.Stringer interface for SafeBuffer.
func (b *SafeBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.String()
}

// HarnessResult holds the outcomes of an integration test run.
type HarnessResult struct {
	LogOutput string
	Err       error
	App       *app.App
}

// Options tweak a harness run. Files maps relative paths to contents; every
// .hcl file under "pipeline/" is part of the pipeline and "engine.hcl", when
// present, is the engine configuration.
type Options struct {
	Files   map[string]string
	Frames  int
	Workers int
	Plan    bool
	Modules []registry.Module
}

// RunIntegrationTest runs the harness with a background context.
func RunIntegrationTest(t *testing.T, opts Options) *HarnessResult {
	t.Helper()
	return RunIntegrationTestWithContext(context.Background(), t, opts)
}

// RunIntegrationTestWithContext runs the harness with the caller's context.
func RunIntegrationTestWithContext(ctx context.Context, t *testing.T, opts Options) *HarnessResult {
	t.Helper()

	tmpDir := t.TempDir()
	pipelineDir := filepath.Join(tmpDir, "pipeline")
	require.NoError(t, os.Mkdir(pipelineDir, 0755))

	for name, content := range opts.Files {
		filePath := filepath.Join(tmpDir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(filePath), 0755))
		require.NoError(t, os.WriteFile(filePath, []byte(content), 0644))
	}

	appConfig := &app.Config{
		PipelinePath: pipelineDir,
		Plan:         opts.Plan,
		Frames:       opts.Frames,
		WorkerCount:  opts.Workers,
		LogLevel:     "debug",
		LogFormat:    "text",
	}
	if _, ok := opts.Files["engine.hcl"]; ok {
		appConfig.ConfigPath = filepath.Join(tmpDir, "engine.hcl")
	}
	if appConfig.WorkerCount == 0 {
		appConfig.WorkerCount = 4
	}

	logBuffer := &SafeBuffer{}
	testApp, err := app.NewApp(logBuffer, appConfig, opts.Modules...)
	if err == nil {
		err = testApp.Run(ctx)
	}

	if os.Getenv("FRAMECORE_TEST_LOGS") == "true" {
		t.Logf("--- Full Log Output for %s ---\n%s", t.Name(), logBuffer.String())
	}

	return &HarnessResult{
		LogOutput: logBuffer.String(),
		Err:       err,
		App:       testApp,
	}
}
