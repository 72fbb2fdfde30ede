// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package notify

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/gorilla/websocket"

	"github.com/taibuivan/mangaonline/internal/platform/constants"
	"github.com/taibuivan/mangaonline/internal/platform/ctxutil"
	"github.com/taibuivan/mangaonline/pkg/uuid"
)

// OriginPolicy is the subset of the app config used to vet handshakes.
type OriginPolicy interface {
	IsDevelopment() bool
	OriginSuffix() string
}

// Handler upgrades requests on the hub endpoint into hub clients.
type Handler struct {
	hub      *Hub
	upgrader websocket.Upgrader
	logger   *slog.Logger
}

// NewHandler constructs a [Handler]. A nil policy accepts every origin.
func NewHandler(hub *Hub, policy OriginPolicy, logger *slog.Logger) *Handler {
	return &Handler{
		hub:    hub,
		logger: logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:   1024,
			WriteBufferSize:  1024,
			HandshakeTimeout: constants.HubWriteWait,
			CheckOrigin: func(request *http.Request) bool {
				origin := request.Header.Get(constants.HeaderOrigin)
				if policy == nil || origin == "" || policy.IsDevelopment() {
					return true
				}
				return strings.HasSuffix(origin, policy.OriginSuffix())
			},
		},
	}
}

// ServeHTTP performs the websocket handshake and starts the client pumps.
func (handler *Handler) ServeHTTP(writer http.ResponseWriter, request *http.Request) {
	conn, err := handler.upgrader.Upgrade(writer, request, nil)
	if err != nil {
		// Upgrade has already written the HTTP error.
		handler.logger.Warn("hub_upgrade_failed", slog.String("error", err.Error()))
		return
	}

	client := newClient(uuid.New(), handler.hub, conn, handler.logger)
	if !handler.hub.Register(client) {
		_ = conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseTryAgainLater, "shutting down"))
		_ = conn.Close()
		return
	}

	handler.logger.Info("hub_connection_opened",
		slog.String("client_id", client.id),
		slog.String("user_id", ctxutil.GetUserID(request.Context())),
	)

	go client.writePump()
	go client.readPump()
}
