// Copyright (c) 2025 Maarten Thijssen.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package realtime

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next message from the peer. Refreshed on
	// every pong, so an unresponsive peer is detected and cleaned up.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer.
	maxMessageSize = 64 * 1024
)

// handshakeWait bounds the whole pre-registration exchange, so a peer that
// dials and never speaks cannot hold the socket open. A variable so tests
// can shorten it.
var handshakeWait = 10 * time.Second

// SessionHandler upgrades HTTP requests to websocket connections and runs
// one session loop per connection.
type SessionHandler struct {
	manager    *Manager
	dispatcher *Dispatcher
	upgrader   websocket.Upgrader
	logger     *slog.Logger
}

func NewSessionHandler(manager *Manager, dispatcher *Dispatcher, logger *slog.Logger) *SessionHandler {
	return &SessionHandler{
		manager:    manager,
		dispatcher: dispatcher,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				// The handshake authenticates every connection, so any
				// origin may attempt one.
				return true
			},
		},
		logger: logger.With("component", "session"),
	}
}

func (h *SessionHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", "error", err, "remote", r.RemoteAddr)
		return
	}
	h.run(r.Context(), conn)
}

// run is the per-connection state machine: handshake and authentication via
// Manager.Connect, then one command at a time until the transport closes or
// a protocol error ends the session.
func (h *SessionHandler) run(ctx context.Context, conn *websocket.Conn) {
	defer conn.Close()

	conn.SetReadLimit(maxMessageSize)
	conn.SetReadDeadline(time.Now().Add(handshakeWait))

	client, err := h.manager.Connect(conn)
	if err != nil {
		// No registry entry was created, so there is nothing to
		// disconnect and no broadcast. Verification failures are
		// reported to the client; handshake transport/protocol
		// failures are closed silently.
		var authErr *AuthError
		if errors.As(err, &authErr) {
			h.logger.Warn("authentication failed", "error", authErr)
			conn.WriteJSON(ErrorMessage(authErr.Error()))
		} else {
			h.logger.Debug("handshake aborted", "error", err)
		}
		return
	}
	defer h.manager.Disconnect(client)

	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})
	stopPing := h.keepalive(conn)
	defer stopPing()

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			// Transport-level disconnect is expected, not an error.
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.logger.Warn("session read failed", "client_id", client.ID, "error", err)
			} else {
				h.logger.Debug("session closed", "client_id", client.ID)
			}
			return
		}

		name, err := DecodeCommand(data)
		if err != nil {
			client.Send(ErrorMessage(err.Error()))
			return
		}

		// ping is answered directly, to the caller only.
		if name == "ping" {
			client.Send(Pong())
			continue
		}

		result, broadcast, err := h.dispatcher.Dispatch(ctx, client.User(), name, data)
		if err != nil {
			client.Send(ErrorMessage(err.Error()))
			return
		}
		if broadcast {
			h.manager.Broadcast(result)
		} else {
			client.Send(result)
		}
	}
}

// keepalive pings the peer every pingPeriod until the returned stop function
// is called. WriteControl is safe to call concurrently with Client.Send.
func (h *SessionHandler) keepalive(conn *websocket.Conn) func() {
	done := make(chan struct{})
	go func() {
		ticker := time.NewTicker(pingPeriod)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				deadline := time.Now().Add(writeWait)
				if err := conn.WriteControl(websocket.PingMessage, nil, deadline); err != nil {
					return
				}
			case <-done:
				return
			}
		}
	}()
	return func() { close(done) }
}
