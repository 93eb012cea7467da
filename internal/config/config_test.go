package config

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/specialistvlad/framecore/internal/ctxlog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testContext() context.Context {
	return ctxlog.WithLogger(context.Background(), ctxlog.Discard())
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_HCL(t *testing.T) {
	path := writeFile(t, "engine.hcl", `
healthcheck_port = 8081

scheduler {
  workers        = num_cpu * 2
  queue_capacity = 256
}

arena {
  budget_bytes = 4 * mib
}

frame_graph {
  strict_labels = true
  frames        = 60
  interval      = "16ms"
}

log {
  level  = "debug"
  format = "json"
}

telemetry {
  log_reports  = true
  socketio_url = "http://localhost:3000/socket.io/"
  namespace    = "/profiler"
}
`)

	m, err := Load(testContext(), path)
	require.NoError(t, err)
	assert.Equal(t, 8081, m.HealthcheckPort)
	assert.Equal(t, runtime.NumCPU()*2, m.Scheduler.Workers)
	assert.Equal(t, 256, m.Scheduler.QueueCapacity)
	assert.Equal(t, 4<<20, m.Arena.BudgetBytes)
	assert.True(t, m.FrameGraph.StrictLabels)
	assert.Equal(t, 60, m.FrameGraph.Frames)
	interval, err := m.FrameGraph.IntervalDuration()
	require.NoError(t, err)
	assert.Equal(t, 16*time.Millisecond, interval)
	assert.Equal(t, "debug", m.Log.Level)
	assert.Equal(t, "json", m.Log.Format)
	assert.True(t, m.Telemetry.LogReports)
	assert.Equal(t, "/profiler", m.Telemetry.Namespace)
}

func TestLoad_HCLDefaultsMissingBlocks(t *testing.T) {
	path := writeFile(t, "engine.hcl", `scheduler { workers = 3 }`)

	m, err := Load(testContext(), path)
	require.NoError(t, err)
	assert.Equal(t, 3, m.Scheduler.Workers)
	require.NotNil(t, m.Arena)
	assert.Zero(t, m.Arena.BudgetBytes)
	assert.Equal(t, "info", m.Log.Level)
	assert.Equal(t, "text", m.Log.Format)
	assert.Equal(t, 1, m.FrameGraph.Frames)
}

func TestLoad_HCLErrors(t *testing.T) {
	_, err := Load(testContext(), writeFile(t, "broken.hcl", `scheduler {`))
	assert.ErrorContains(t, err, "failed to parse HCL file")

	_, err = Load(testContext(), writeFile(t, "unknown.hcl", `gpu { enabled = true }`))
	assert.ErrorContains(t, err, "failed to decode HCL file")

	_, err = Load(testContext(), writeFile(t, "negative.hcl", `scheduler { workers = -1 }`))
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestLoad_YAML(t *testing.T) {
	path := writeFile(t, "engine.yaml", `
scheduler:
  workers: 4
arena:
  budget_bytes: 65536
frame_graph:
  frames: 10
log:
  level: warn
telemetry:
  log_reports: true
`)

	m, err := Load(testContext(), path)
	require.NoError(t, err)
	assert.Equal(t, 4, m.Scheduler.Workers)
	assert.Equal(t, 65536, m.Arena.BudgetBytes)
	assert.Equal(t, 10, m.FrameGraph.Frames)
	assert.Equal(t, "warn", m.Log.Level)
	assert.Equal(t, "text", m.Log.Format)
	assert.True(t, m.Telemetry.LogReports)
}

func TestLoad_YAMLRejectsUnknownKeys(t *testing.T) {
	_, err := Load(testContext(), writeFile(t, "engine.yml", "scheduler:\n  threads: 4\n"))
	assert.ErrorContains(t, err, "failed to decode YAML file")
}

func TestLoad_EmptyYAMLUsesDefaults(t *testing.T) {
	m, err := Load(testContext(), writeFile(t, "empty.yaml", ""))
	require.NoError(t, err)
	assert.Equal(t, Default(), m)
}

func TestLoad_PathHandling(t *testing.T) {
	m, err := Load(testContext(), "")
	require.NoError(t, err)
	assert.Equal(t, Default(), m)

	_, err = Load(testContext(), "engine.toml")
	assert.ErrorIs(t, err, ErrUnsupportedFormat)

	_, err = Load(testContext(), filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorContains(t, err, "failed to open")
}

func TestValidate_ReportsEveryProblem(t *testing.T) {
	m := &Model{
		Scheduler:       &Scheduler{Workers: -2, QueueCapacity: -1},
		Arena:           &Arena{BudgetBytes: -5},
		FrameGraph:      &FrameGraph{Interval: "soon"},
		Log:             &Log{Level: "loud", Format: "xml"},
		HealthcheckPort: 70000,
	}
	err := m.Validate()
	require.ErrorIs(t, err, ErrInvalidConfig)
	for _, want := range []string{"scheduler.workers", "queue_capacity", "budget_bytes", "interval", "log.level", "log.format", "healthcheck_port"} {
		assert.ErrorContains(t, err, want)
	}
}
