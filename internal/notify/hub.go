// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package notify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/taibuivan/mangaonline/internal/platform/metrics"
)

// ErrHubClosed is returned by [Hub.Broadcast] once the hub has stopped.
var ErrHubClosed = errors.New("notify: hub closed")

// # Hub

// Hub maintains the set of connected clients and fans frames out to them.
//
// # Concurrency
//
// All membership changes and sends happen on the [Hub.Run] goroutine. The
// mutex only guards reads of the client count from other goroutines.
type Hub struct {
	clients    map[*Client]bool
	register   chan *Client
	unregister chan *Client
	broadcast  chan []byte
	done       chan struct{}

	mu     sync.RWMutex
	count  int
	logger *slog.Logger

	clientBuffer int
}

// NewHub constructs a [Hub]. clientBuffer is the per-client send queue length.
func NewHub(logger *slog.Logger, clientBuffer int) *Hub {
	if clientBuffer <= 0 {
		clientBuffer = 256
	}
	return &Hub{
		clients:      make(map[*Client]bool),
		register:     make(chan *Client),
		unregister:   make(chan *Client),
		broadcast:    make(chan []byte, clientBuffer),
		done:         make(chan struct{}),
		logger:       logger,
		clientBuffer: clientBuffer,
	}
}

/*
Run processes registrations and broadcasts until ctx is cancelled.

On shutdown every client send queue is closed, which makes the write pumps
send a close frame and exit.
*/
func (hub *Hub) Run(ctx context.Context) {
	defer close(hub.done)

	for {
		select {
		case <-ctx.Done():
			for client := range hub.clients {
				hub.remove(client)
			}
			hub.logger.Info("hub_stopped", slog.String("reason", ctx.Err().Error()))
			return

		case client := <-hub.register:
			hub.clients[client] = true
			hub.setCount(len(hub.clients))
			metrics.HubConnectedClients.Inc()
			hub.logger.Debug("hub_client_connected",
				slog.String("client_id", client.id),
				slog.Int("total_clients", len(hub.clients)),
			)

		case client := <-hub.unregister:
			if hub.clients[client] {
				hub.remove(client)
				hub.logger.Debug("hub_client_disconnected",
					slog.String("client_id", client.id),
					slog.Int("total_clients", len(hub.clients)),
				)
			}

		case frame := <-hub.broadcast:
			for client := range hub.clients {
				select {
				case client.send <- frame:
				default:
					hub.remove(client)
					metrics.HubDroppedClientsTotal.Inc()
					hub.logger.Warn("hub_client_dropped", slog.String("client_id", client.id))
				}
			}
		}
	}
}

/*
Broadcast encodes a frame and queues it for every connected client.

Parameters:
  - ctx: context.Context (bounds the wait for queue space)
  - event: string (frame name)
  - payload: any (JSON encodable frame data)

Returns:
  - error: encoding failure, ctx expiry or [ErrHubClosed]
*/
func (hub *Hub) Broadcast(ctx context.Context, event string, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("notify: failed to encode %s payload: %w", event, err)
	}
	return hub.BroadcastFrame(ctx, Frame{Event: event, Data: data})
}

// BroadcastFrame queues an already built frame.
func (hub *Hub) BroadcastFrame(ctx context.Context, frame Frame) error {
	encoded, err := json.Marshal(frame)
	if err != nil {
		return fmt.Errorf("notify: failed to encode frame: %w", err)
	}

	select {
	case <-hub.done:
		return ErrHubClosed
	default:
	}

	select {
	case hub.broadcast <- encoded:
		metrics.HubBroadcastsTotal.WithLabelValues(frame.Event).Inc()
		return nil
	case <-hub.done:
		return ErrHubClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

// ClientCount returns the number of connected clients.
func (hub *Hub) ClientCount() int {
	hub.mu.RLock()
	defer hub.mu.RUnlock()
	return hub.count
}

// Register adds a client. It returns false if the hub has stopped.
func (hub *Hub) Register(client *Client) bool {
	select {
	case hub.register <- client:
		return true
	case <-hub.done:
		return false
	}
}

// Unregister removes a client. It is a no-op once the hub has stopped.
func (hub *Hub) Unregister(client *Client) {
	select {
	case hub.unregister <- client:
	case <-hub.done:
	}
}

// remove must only be called from Run.
func (hub *Hub) remove(client *Client) {
	delete(hub.clients, client)
	close(client.send)
	hub.setCount(len(hub.clients))
	metrics.HubConnectedClients.Dec()
}

func (hub *Hub) setCount(count int) {
	hub.mu.Lock()
	hub.count = count
	hub.mu.Unlock()
}
