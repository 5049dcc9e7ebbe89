// Copyright (c) 2025 Maarten Thijssen.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package realtime

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/mthijssen/livevote/models"
)

// Client is a connected, authenticated realtime participant. It lives from
// a completed handshake until its transport closes, and is never persisted.
type Client struct {
	// ID is the opaque connection identity, generated at connect time.
	// It is unrelated to the user id; one user may hold many connections.
	ID string

	conn *websocket.Conn
	user models.User

	// mu serializes all data writes to the transport: broadcasts triggered
	// by other connections' commands and this session's own replies would
	// otherwise interleave frames.
	mu sync.Mutex
}

func newClient(conn *websocket.Conn, user models.User) *Client {
	return &Client{
		ID:   uuid.NewString(),
		conn: conn,
		user: user,
	}
}

// User returns the identity the client authenticated with. Immutable for
// the lifetime of the session; role changes require a reconnect.
func (c *Client) User() models.User {
	return c.user
}

// Name returns the display name announced to other participants.
func (c *Client) Name() string {
	return c.user.Name()
}

// Send delivers one event envelope to the client's transport.
func (c *Client) Send(msg Message) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return c.conn.WriteJSON(msg)
}
