// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package listener

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"

	"github.com/taibuivan/mangaonline/internal/notify"
	"github.com/taibuivan/mangaonline/internal/platform/constants"
)

const handshakeTimeout = 10 * time.Second

// FrameHandler processes one decoded hub frame. Frames are handled in order,
// one at a time, per connection.
type FrameHandler func(context context.Context, frame notify.Frame) error

// Connection keeps a websocket open to the notification hub, redialling with
// [Delay] whenever it drops. Attempts are unlimited until the context ends.
type Connection struct {
	url     string
	header  http.Header
	dialer  *websocket.Dialer
	handle  FrameHandler
	logger  *slog.Logger
	state   atomic.Int32
	observe func(State)
	wait    func(context.Context, time.Duration) error
}

// Option customises a [Connection].
type Option func(*Connection)

// WithToken sends the bearer token on every handshake.
func WithToken(token string) Option {
	return func(connection *Connection) {
		if token != "" {
			connection.header.Set(constants.HeaderAuthorization, "Bearer "+token)
		}
	}
}

// WithStateObserver is called on every state transition.
func WithStateObserver(observe func(State)) Option {
	return func(connection *Connection) { connection.observe = observe }
}

// NewConnection prepares a connection to url. Nothing is dialled until [Connection.Run].
func NewConnection(url string, handle FrameHandler, logger *slog.Logger, options ...Option) *Connection {
	connection := &Connection{
		url:    url,
		header: http.Header{},
		dialer: &websocket.Dialer{HandshakeTimeout: handshakeTimeout},
		handle: handle,
		logger: logger,
		wait:   sleep,
	}
	for _, option := range options {
		option(connection)
	}
	return connection
}

// State reports the current lifecycle state.
func (connection *Connection) State() State {
	return State(connection.state.Load())
}

/*
Run dials the hub and processes frames until ctx is cancelled.

It returns nil once ctx ends and the socket is closed, so callers normally
run it on its own goroutine.
*/
func (connection *Connection) Run(ctx context.Context) error {
	connection.state.Store(int32(StateConnecting))
	if connection.observe != nil {
		connection.observe(StateConnecting)
	}
	defer connection.setState(StateClosed)

	attempt := 0
	for {
		conn, err := connection.dial(ctx)
		if err == nil {
			attempt = 0
			connection.setState(StateConnected)
			connection.logger.Info("hub_connected", slog.String("url", connection.url))

			err = connection.read(ctx, conn)
			if ctx.Err() != nil {
				return nil
			}
			connection.logger.Warn("hub_connection_lost", slog.String("error", err.Error()))
			connection.setState(StateReconnecting)
		} else {
			if ctx.Err() != nil {
				return nil
			}
			connection.logger.Warn("hub_dial_failed",
				slog.String("error", err.Error()),
				slog.Int("attempt", attempt+1),
			)
		}

		attempt++
		delay := Delay(attempt)
		connection.logger.Debug("hub_reconnect_scheduled",
			slog.Int("attempt", attempt),
			slog.Duration("delay", delay),
		)
		if err := connection.wait(ctx, delay); err != nil {
			return nil
		}
	}
}

func (connection *Connection) dial(ctx context.Context) (*websocket.Conn, error) {
	conn, resp, err := connection.dialer.DialContext(ctx, connection.url, connection.header)
	if resp != nil && resp.Body != nil {
		_ = resp.Body.Close()
	}
	if err != nil {
		if resp != nil {
			return nil, fmt.Errorf("listener: hub handshake rejected with status %d: %w", resp.StatusCode, err)
		}
		return nil, fmt.Errorf("listener: failed to dial hub: %w", err)
	}
	return conn, nil
}

// read blocks until the socket fails or ctx ends.
func (connection *Connection) read(ctx context.Context, conn *websocket.Conn) error {
	done := make(chan struct{})
	defer close(done)

	go func() {
		select {
		case <-ctx.Done():
			_ = conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
				time.Now().Add(constants.HubWriteWait))
			_ = conn.Close()
		case <-done:
			_ = conn.Close()
		}
	}()

	_ = conn.SetReadDeadline(time.Now().Add(constants.HubClientTimeout))
	conn.SetPingHandler(func(payload string) error {
		_ = conn.SetReadDeadline(time.Now().Add(constants.HubClientTimeout))
		err := conn.WriteControl(websocket.PongMessage, []byte(payload), time.Now().Add(constants.HubWriteWait))
		if errors.Is(err, websocket.ErrCloseSent) {
			return nil
		}
		return err
	})

	for {
		_, message, err := conn.ReadMessage()
		if err != nil {
			return err
		}
		_ = conn.SetReadDeadline(time.Now().Add(constants.HubClientTimeout))

		var frame notify.Frame
		if err := json.Unmarshal(message, &frame); err != nil {
			connection.logger.Warn("hub_frame_invalid", slog.String("error", err.Error()))
			continue
		}
		if err := connection.handle(ctx, frame); err != nil {
			connection.logger.Error("hub_frame_failed",
				slog.String("event", frame.Event),
				slog.String("error", err.Error()),
			)
		}
	}
}

func (connection *Connection) setState(state State) {
	previous := State(connection.state.Swap(int32(state)))
	if previous == state {
		return
	}
	if connection.observe != nil {
		connection.observe(state)
	}
}

func sleep(ctx context.Context, delay time.Duration) error {
	if delay <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(delay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
