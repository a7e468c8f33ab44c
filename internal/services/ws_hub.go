package services

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"back2u-backend/internal/models"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

// WSMessage represents a WebSocket message
type WSMessage struct {
	Type    string      `json:"type"`
	Token   string      `json:"token,omitempty"`
	UID     string      `json:"uid,omitempty"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

// WSConn serializes writes to one WebSocket connection
type WSConn struct {
	mu   sync.Mutex
	conn *websocket.Conn
}

// NewWSConn wraps conn
func NewWSConn(conn *websocket.Conn) *WSConn {
	return &WSConn{conn: conn}
}

// Send writes message as JSON
func (c *WSConn) Send(message WSMessage) error {
	data, err := json.Marshal(message)
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
		return fmt.Errorf("failed to send message: %w", err)
	}
	return nil
}

// WSHub tracks which signed-in user each connection belongs to and
// delivers notifications to report owners. It implements Publisher.
type WSHub struct {
	mu          sync.RWMutex
	connections map[string]*WSConn
}

// NewWSHub creates a new WebSocket hub
func NewWSHub() *WSHub {
	return &WSHub{
		connections: make(map[string]*WSConn),
	}
}

// Register routes userID's notifications to conn. A newer connection of
// the same user replaces the older one.
func (h *WSHub) Register(userID string, conn *WSConn) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.connections[userID] = conn
	log.Info().Str("user_id", userID).Msg("WebSocket connection registered")
}

// Unregister stops routing userID's notifications to conn. It is a no-op
// if userID has since registered another connection.
func (h *WSHub) Unregister(userID string, conn *WSConn) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if current, exists := h.connections[userID]; exists && current == conn {
		delete(h.connections, userID)
		log.Info().Str("user_id", userID).Msg("WebSocket connection unregistered")
	}
}

// IsOnline checks if a user is online
func (h *WSHub) IsOnline(userID string) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	_, exists := h.connections[userID]
	return exists
}

// SendToUser sends a message to a specific user
func (h *WSHub) SendToUser(userID string, message WSMessage) error {
	h.mu.RLock()
	conn, exists := h.connections[userID]
	h.mu.RUnlock()

	if !exists {
		return fmt.Errorf("user %s is not connected", userID)
	}

	if err := conn.Send(message); err != nil {
		h.Unregister(userID, conn)
		return err
	}
	return nil
}

// Publish delivers n to the report owner if connected. Offline owners
// read it later through the notification list.
func (h *WSHub) Publish(_ context.Context, n *models.Notification) error {
	ownerID := n.Report.UserID
	if !h.IsOnline(ownerID) {
		return nil
	}

	message := WSMessage{
		Type: "notification",
		Data: n,
	}
	if err := h.SendToUser(ownerID, message); err != nil {
		return err
	}

	log.Info().
		Str("user_id", ownerID).
		Str("notification_id", n.ID).
		Msg("Notification delivered")
	return nil
}
