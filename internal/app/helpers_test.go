package app

import (
	"os"
	"strings"
	"sync"
	"testing"

	"github.com/specialistvlad/framecore/internal/registry"
	"github.com/stretchr/testify/require"
)

// logBuffer collects log output written from several goroutines.
type logBuffer struct {
	mu sync.Mutex
	sb strings.Builder
}

func (b *logBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.sb.Write(p)
}

func (b *logBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.sb.String()
}

// newTestApp builds an App logging at debug level into the returned buffer.
// Set FRAMECORE_TEST_LOGS=true to dump the logs after the test.
func newTestApp(t *testing.T, cfg *Config, modules ...registry.Module) (*App, *logBuffer) {
	t.Helper()
	logs := &logBuffer{}
	cfg.LogLevel = "debug"
	a, err := NewApp(logs, cfg, modules...)
	require.NoError(t, err)
	t.Cleanup(func() {
		if os.Getenv("FRAMECORE_TEST_LOGS") == "true" {
			t.Logf("logs of %s:\n%s", t.Name(), logs.String())
		}
	})
	return a, logs
}
