package magnetic

import (
	"fmt"

	"github.com/yegors/co-mag/internal/websocket"
	"github.com/yegors/co-mag/pkg/logger"
)

// WebSocketHandler handles incoming WebSocket messages for field queries
type WebSocketHandler struct {
	service *Service
	logger  *logger.Logger
}

// NewWebSocketHandler creates a new WebSocket message handler
func NewWebSocketHandler(service *Service, log *logger.Logger) *WebSocketHandler {
	return &WebSocketHandler{
		service: service,
		logger:  log.Named("magnetic-ws-handler"),
	}
}

// Replier sends a message back to the client that asked
type Replier interface {
	SendMessage(message *websocket.Message) bool
}

// HandleMessage handles incoming WebSocket messages
func (h *WebSocketHandler) HandleMessage(client *websocket.Client, messageType string, data map[string]any) error {
	return h.handle(client, messageType, data)
}

func (h *WebSocketHandler) handle(client Replier, messageType string, data map[string]any) error {
	switch messageType {
	case websocket.MessageTypePosition:
		return h.handlePosition(client, data)
	default:
		h.logger.Debug("Unhandled message type", logger.String("type", messageType))
		return fmt.Errorf("unsupported message type %q", messageType)
	}
}

// handlePosition answers a position report with the field at that position
func (h *WebSocketHandler) handlePosition(client Replier, data map[string]any) error {
	lat, ok := data["lat"].(float64)
	if !ok {
		return fmt.Errorf("position requires numeric lat")
	}
	lon, ok := data["lon"].(float64)
	if !ok {
		return fmt.Errorf("position requires numeric lon")
	}

	field, err := h.service.Field(lat, lon)
	if err != nil {
		return err
	}

	message := &websocket.Message{
		Type: websocket.MessageTypeFieldUpdate,
		Data: map[string]any{"field": field},
	}
	// Echo the client's correlation id if it sent one
	if id, ok := data["id"]; ok {
		message.Data["id"] = id
	}

	// Send to specific client (not broadcast)
	if !client.SendMessage(message) {
		h.logger.Warn("Failed to send field update, client channel full or closed")
	}
	return nil
}
