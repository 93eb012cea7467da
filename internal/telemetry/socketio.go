// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package telemetry

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/specialistvlad/framecore/internal/ctxlog"
	"github.com/specialistvlad/framecore/internal/frame"
	"github.com/zishang520/engine.io-client-go/transports"
	"github.com/zishang520/engine.io/v2/types"
	"github.com/zishang520/socket.io-client-go/socket"
)

// FrameEvent is the socket.io event name carrying a frame report.
const FrameEvent = "frame"

// DefaultConnectTimeout bounds how long DialSocketIO waits for the handshake.
const DefaultConnectTimeout = 15 * time.Second

// ErrNotConnected is returned by Publish after the connection was lost.
var ErrNotConnected = errors.New("telemetry: socket.io client is not connected")

// SocketIOOptions configures DialSocketIO.
type SocketIOOptions struct {
	URL                string
	Namespace          string
	InsecureSkipVerify bool
	ConnectTimeout     time.Duration
}

// emitter is the part of *socket.Socket the sink uses.
type emitter interface {
	Emit(ev string, args ...any) error
	Connected() bool
	Disconnect() *socket.Socket
}

// SocketIOSink emits every frame report as a FrameEvent.
type SocketIOSink struct {
	client emitter
}

// DialSocketIO connects to a socket.io server and returns a sink bound to it.
func DialSocketIO(ctx context.Context, o SocketIOOptions) (*SocketIOSink, error) {
	logger := ctxlog.FromContext(ctx).With("sink", "socketio", "url", o.URL)

	parsedURL, err := url.Parse(o.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse URL: %w", err)
	}
	if parsedURL.Scheme == "" || parsedURL.Host == "" {
		return nil, fmt.Errorf("failed to parse URL: %q has no scheme or host", o.URL)
	}
	timeout := o.ConnectTimeout
	if timeout <= 0 {
		timeout = DefaultConnectTimeout
	}

	opts := socket.DefaultOptions()
	opts.SetPath(parsedURL.Path)
	if o.InsecureSkipVerify {
		logger.Warn("Skipping TLS certificate verification.")
		opts.SetTLSClientConfig(&tls.Config{InsecureSkipVerify: true})
	}
	opts.SetTransports(types.NewSet(transports.WebSocket))

	connectChan := make(chan error, 1)

	baseURL := fmt.Sprintf("%s://%s", parsedURL.Scheme, parsedURL.Host)
	manager := socket.NewManager(baseURL, opts)
	io := manager.Socket(o.Namespace, opts)

	io.Once(types.EventName("connect"), func(...any) {
		logger.Info("Connected telemetry sink.", "sid", io.Id())
		connectChan <- nil
	})
	io.Once(types.EventName("connect_error"), func(errs ...any) {
		err, _ := errs[0].(error)
		if err == nil {
			err = fmt.Errorf("%v", errs[0])
		}
		connectChan <- err
	})

	logger.Debug("Initiating connection.")
	io.Connect()

	select {
	case err := <-connectChan:
		if err != nil {
			io.Disconnect()
			return nil, fmt.Errorf("socket.io connection failed: %w", err)
		}
		return &SocketIOSink{client: io}, nil
	case <-ctx.Done():
		io.Disconnect()
		return nil, fmt.Errorf("context cancelled while waiting for socket.io connection: %w", ctx.Err())
	case <-time.After(timeout):
		io.Disconnect()
		return nil, fmt.Errorf("timed out after %s waiting for socket.io connection", timeout)
	}
}

// Publish implements frame.Sink.
func (s *SocketIOSink) Publish(ctx context.Context, r *frame.Report) error {
	if !s.client.Connected() {
		return ErrNotConnected
	}
	if err := s.client.Emit(FrameEvent, r.Summary()); err != nil {
		return fmt.Errorf("emit %s: %w", FrameEvent, err)
	}
	return nil
}

// Close disconnects the client.
func (s *SocketIOSink) Close() error {
	s.client.Disconnect()
	return nil
}
