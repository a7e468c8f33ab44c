package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"back2u-backend/internal/identity"
	"back2u-backend/internal/services"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// WebSocketHandler serves the realtime notification feed
type WebSocketHandler struct {
	hub      *services.WSHub
	provider identity.Provider
}

// NewWebSocketHandler creates a new WebSocket handler
func NewWebSocketHandler(hub *services.WSHub, provider identity.Provider) *WebSocketHandler {
	return &WebSocketHandler{
		hub:      hub,
		provider: provider,
	}
}

// HandleWebSocket handles WebSocket connections. Each connection starts
// signed out unless a token query parameter is given; sign_in and sign_out
// messages change who the connection receives notifications for.
func (h *WebSocketHandler) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	state := identity.NewState()

	if token := r.URL.Query().Get("token"); token != "" {
		id, err := h.provider.Authenticate(ctx, token)
		if err != nil {
			respondError(w, "invalid token", http.StatusUnauthorized)
			return
		}
		state.SignIn(*id)
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Error().Err(err).Msg("Failed to upgrade WebSocket connection")
		return
	}
	defer conn.Close()

	wsConn := services.NewWSConn(conn)
	updates, cancel := state.Subscribe()
	done := make(chan struct{})
	go func() {
		defer close(done)
		h.followAuthState(wsConn, updates)
	}()
	defer func() {
		cancel()
		<-done
	}()

	log.Info().Str("remote_addr", r.RemoteAddr).Msg("WebSocket connection established")

	for {
		_, messageBytes, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Error().Err(err).Msg("WebSocket error")
			}
			break
		}

		var msg services.WSMessage
		if err := json.Unmarshal(messageBytes, &msg); err != nil {
			h.sendError(wsConn, "Invalid message format")
			continue
		}

		h.handleMessage(ctx, wsConn, state, msg)
	}
}

// followAuthState keeps the hub registration of wsConn in line with the
// connection's auth state until updates is closed.
func (h *WebSocketHandler) followAuthState(wsConn *services.WSConn, updates <-chan *identity.Identity) {
	current := ""
	for id := range updates {
		next := ""
		if id != nil {
			next = id.UID
		}
		if next == current {
			continue
		}

		if current != "" {
			h.hub.Unregister(current, wsConn)
		}
		if next != "" {
			h.hub.Register(next, wsConn)
		}
		current = next

		if err := wsConn.Send(services.WSMessage{Type: "auth_state", UID: current}); err != nil {
			log.Debug().Err(err).Msg("Failed to send auth_state message")
		}
	}

	if current != "" {
		h.hub.Unregister(current, wsConn)
	}
}

// handleMessage processes incoming WebSocket messages
func (h *WebSocketHandler) handleMessage(ctx context.Context, wsConn *services.WSConn, state *identity.State, msg services.WSMessage) {
	switch msg.Type {
	case "sign_in":
		id, err := h.provider.Authenticate(ctx, msg.Token)
		if err != nil {
			h.sendError(wsConn, "invalid token")
			return
		}
		state.SignIn(*id)
	case "sign_out":
		state.SignOut()
	case "ping":
		if err := wsConn.Send(services.WSMessage{Type: "pong"}); err != nil {
			log.Debug().Err(err).Msg("Failed to send pong")
		}
	default:
		h.sendError(wsConn, "Unknown message type")
	}
}

// sendError sends an error message to the WebSocket connection
func (h *WebSocketHandler) sendError(wsConn *services.WSConn, message string) {
	msg := services.WSMessage{
		Type:    "error",
		Message: message,
	}
	if err := wsConn.Send(msg); err != nil {
		log.Debug().Err(err).Msg("Failed to send error message")
	}
}
