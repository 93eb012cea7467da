package telemetry

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/specialistvlad/framecore/internal/ctxlog"
	"github.com/specialistvlad/framecore/internal/frame"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zishang520/socket.io-client-go/socket"
)

func sampleReport() *frame.Report {
	return &frame.Report{
		RunID:    uuid.New(),
		Frame:    3,
		Executed: true,
		Layers:   [][]string{{"input"}, {"physics"}},
		Passes: []frame.PassReport{
			{Ordinal: 0, Name: "input", Layer: 0, Duration: time.Millisecond},
			{Ordinal: 1, Name: "physics", Layer: 1, Duration: 2 * time.Millisecond},
		},
	}
}

type fakeEmitter struct {
	connected bool
	events    []string
	payloads  []any
	err       error
	closed    bool
}

func (f *fakeEmitter) Emit(ev string, args ...any) error {
	f.events = append(f.events, ev)
	f.payloads = append(f.payloads, args...)
	return f.err
}

func (f *fakeEmitter) Connected() bool { return f.connected }

func (f *fakeEmitter) Disconnect() *socket.Socket {
	f.closed = true
	f.connected = false
	return nil
}

func TestLogSink_WritesFrameAndPassRecords(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	ctx := ctxlog.WithLogger(context.Background(), logger)

	require.NoError(t, LogSink{Level: slog.LevelInfo}.Publish(ctx, sampleReport()))
	out := buf.String()
	assert.Contains(t, out, "level=INFO")
	assert.Contains(t, out, `msg="Frame report."`)
	assert.Contains(t, out, "passes=2")
	assert.Contains(t, out, "critical=3ms")
	assert.Contains(t, out, "pass=physics")
}

func TestSocketIOSink_EmitsSummary(t *testing.T) {
	fake := &fakeEmitter{connected: true}
	s := &SocketIOSink{client: fake}

	r := sampleReport()
	require.NoError(t, s.Publish(context.Background(), r))
	require.Equal(t, []string{FrameEvent}, fake.events)
	payload, ok := fake.payloads[0].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, r.RunID.String(), payload["run_id"])
	assert.Equal(t, uint64(3), payload["frame"])

	fake.err = errors.New("write failed")
	assert.ErrorContains(t, s.Publish(context.Background(), r), "write failed")

	require.NoError(t, s.Close())
	assert.True(t, fake.closed)
	assert.ErrorIs(t, s.Publish(context.Background(), r), ErrNotConnected)
}

func TestDialSocketIO_RejectsBadURL(t *testing.T) {
	ctx := ctxlog.WithLogger(context.Background(), ctxlog.Discard())

	_, err := DialSocketIO(ctx, SocketIOOptions{URL: "://nope"})
	assert.ErrorContains(t, err, "failed to parse URL")

	_, err = DialSocketIO(ctx, SocketIOOptions{URL: "localhost"})
	assert.ErrorContains(t, err, "no scheme or host")
}

func TestDialSocketIO_GivesUpWhenContextIsDone(t *testing.T) {
	ctx, cancel := context.WithCancel(ctxlog.WithLogger(context.Background(), ctxlog.Discard()))
	cancel()

	_, err := DialSocketIO(ctx, SocketIOOptions{URL: "http://127.0.0.1:1", ConnectTimeout: time.Second})
	assert.Error(t, err)
}

func TestMulti_JoinsErrors(t *testing.T) {
	var calls []string
	ok := frame.SinkFunc(func(context.Context, *frame.Report) error {
		calls = append(calls, "ok")
		return nil
	})
	bad := frame.SinkFunc(func(context.Context, *frame.Report) error {
		calls = append(calls, "bad")
		return errors.New("sink down")
	})

	err := Multi{ok, nil, bad, ok}.Publish(context.Background(), sampleReport())
	assert.ErrorContains(t, err, "sink down")
	assert.Equal(t, []string{"ok", "bad", "ok"}, calls)
	assert.NoError(t, Multi{}.Publish(context.Background(), sampleReport()))
}
