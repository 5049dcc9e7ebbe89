// Copyright (c) 2025 Maarten Thijssen.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package realtime

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/mthijssen/livevote/models"
)

// Verifier turns a bearer credential into a validated user identity.
// The auth package provides the production implementation.
type Verifier func(credential string) (models.User, error)

// AuthError marks a handshake that failed credential verification, as
// opposed to a transport or protocol failure.
type AuthError struct {
	Reason error
}

func (e *AuthError) Error() string {
	return e.Reason.Error()
}

func (e *AuthError) Unwrap() error {
	return e.Reason
}

// Manager is the registry of connected clients. One mutex covers insert,
// remove, and iterate-for-broadcast, so every broadcast sees a
// self-consistent membership snapshot.
type Manager struct {
	verify Verifier
	logger *slog.Logger

	mu      sync.Mutex
	clients map[string]*Client
}

func NewManager(verify Verifier, logger *slog.Logger) *Manager {
	return &Manager{
		verify:  verify,
		logger:  logger.With("component", "realtime"),
		clients: make(map[string]*Client),
	}
}

// Connect runs the connection handshake and registers the resulting client:
//
//  1. client sends anything parseable, meaning "ready"
//  2. server sends {"msg": "auth"}
//  3. client sends {"bearer": "<credential>"}
//  4. the credential is verified
//
// The "connected" event is broadcast to the members present before the new
// client is inserted, so a client never receives its own connect notice.
// Verification failures come back as *AuthError; any other error is a
// transport or protocol failure. Either way no registry entry exists and the
// caller only has to close the transport.
func (m *Manager) Connect(conn *websocket.Conn) (*Client, error) {
	// The connection is owned by this goroutine until the client is
	// registered, so handshake writes need no locking.
	if _, ready, err := conn.ReadMessage(); err != nil {
		return nil, fmt.Errorf("reading ready signal: %w", err)
	} else if !json.Valid(ready) {
		return nil, fmt.Errorf("ready signal: %w", ErrMalformedPayload)
	}

	if err := conn.WriteJSON(Message{"msg": "auth"}); err != nil {
		return nil, fmt.Errorf("requesting credential: %w", err)
	}

	var credential struct {
		Bearer *string `json:"bearer"`
	}
	if _, data, err := conn.ReadMessage(); err != nil {
		return nil, fmt.Errorf("reading credential: %w", err)
	} else if err := json.Unmarshal(data, &credential); err != nil {
		return nil, fmt.Errorf("credential payload: %w", ErrMalformedPayload)
	}
	if credential.Bearer == nil {
		return nil, fmt.Errorf("credential payload has no bearer field: %w", ErrMalformedPayload)
	}

	user, err := m.verify(*credential.Bearer)
	if err != nil {
		return nil, &AuthError{Reason: err}
	}

	client := newClient(conn, user)

	m.mu.Lock()
	m.broadcastLocked(Connected(client))
	m.clients[client.ID] = client
	m.mu.Unlock()

	m.logger.Info("client connected", "client_id", client.ID, "user_id", user.ID, "name", client.Name())
	return client, nil
}

// Broadcast delivers an event to every registered client. A failed send to
// one client is logged and does not stop delivery to the rest.
func (m *Manager) Broadcast(msg Message) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.broadcastLocked(msg)
}

func (m *Manager) broadcastLocked(msg Message) {
	for _, client := range m.clients {
		if err := client.Send(msg); err != nil {
			m.logger.Warn("broadcast send failed", "client_id", client.ID, "error", err)
		}
	}
}

// Disconnect removes the client from the registry and announces its
// departure. Idempotent; closing the transport stays with the caller.
func (m *Manager) Disconnect(client *Client) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.clients[client.ID]; !ok {
		return
	}
	delete(m.clients, client.ID)
	m.broadcastLocked(Disconnected(client))

	m.logger.Info("client disconnected", "client_id", client.ID)
}

// Count returns the number of registered clients.
func (m *Manager) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.clients)
}
