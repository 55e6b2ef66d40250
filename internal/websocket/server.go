package websocket

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/yegors/co-mag/internal/metrics"
	"github.com/yegors/co-mag/pkg/logger"
)

// Message types exchanged with clients
const (
	MessageTypePosition    = "position"     // Client reports its position
	MessageTypeFieldUpdate = "field_update" // Server answers with the field at that position
	MessageTypeSubscribe   = "subscribe"    // Client changes which broadcasts it receives
	MessageTypeSiteAdded   = "site_added"
	MessageTypeSiteRemoved = "site_removed"
	MessageTypeError       = "error"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
	maxMessage = 4096
)

// Message represents a WebSocket message
type Message struct {
	Type string         `json:"type"`
	Data map[string]any `json:"data"`
}

// MessageHandler defines the interface for handling incoming WebSocket messages
type MessageHandler interface {
	HandleMessage(client *Client, messageType string, data map[string]any) error
}

// Subscriptions are the broadcast topics a client receives
type Subscriptions struct {
	Sites bool `json:"sites"`
}

// Client represents a WebSocket client
type Client struct {
	conn          *websocket.Conn
	send          chan *Message
	server        *Server
	mu            sync.Mutex
	closed        bool
	closeChan     chan struct{}
	subscriptions Subscriptions
}

// Server represents a WebSocket server
type Server struct {
	clients        map[*Client]bool
	register       chan *Client
	unregister     chan *Client
	broadcast      chan *Message
	done           chan struct{}
	upgrader       websocket.Upgrader
	logger         *logger.Logger
	mu             sync.RWMutex
	messageHandler MessageHandler // Handler for incoming messages
}

// NewServer creates a new WebSocket server
func NewServer(log *logger.Logger) *Server {
	return &Server{
		clients:    make(map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan *Message, 64),
		done:       make(chan struct{}),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true // Allow all origins
			},
		},
		logger: log.Named("web-socket"),
	}
}

// SetMessageHandler sets the message handler for incoming WebSocket messages
func (s *Server) SetMessageHandler(handler MessageHandler) {
	s.messageHandler = handler
}

// ClientCount returns the number of registered clients
func (s *Server) ClientCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.clients)
}

// Run starts the WebSocket hub and blocks until ctx is cancelled
func (s *Server) Run(ctx context.Context) {
	s.logger.Info("Starting WebSocket server")
	defer close(s.done)

	for {
		select {
		case <-ctx.Done():
			s.mu.Lock()
			for client := range s.clients {
				delete(s.clients, client)
				client.Close()
			}
			s.mu.Unlock()
			metrics.WebSocketClients.Set(0)
			s.logger.Info("WebSocket server stopped")
			return

		case client := <-s.register:
			s.mu.Lock()
			s.clients[client] = true
			clientCount := len(s.clients)
			s.mu.Unlock()
			metrics.WebSocketClients.Set(float64(clientCount))
			s.logger.Debug("Client registered", logger.Int("client_count", clientCount))

		case client := <-s.unregister:
			s.mu.Lock()
			if _, ok := s.clients[client]; ok {
				delete(s.clients, client)
				client.Close()
			}
			clientCount := len(s.clients)
			s.mu.Unlock()
			metrics.WebSocketClients.Set(float64(clientCount))
			s.logger.Debug("Client unregistered", logger.Int("client_count", clientCount))

		case message := <-s.broadcast:
			s.mu.RLock()
			clientsToRemove := make([]*Client, 0)
			for client := range s.clients {
				if !s.shouldSendToClient(client, message) {
					continue
				}
				if !client.SendMessage(message) {
					// Closed or channel full
					clientsToRemove = append(clientsToRemove, client)
				}
			}
			s.mu.RUnlock()

			// Clean up failed clients
			if len(clientsToRemove) > 0 {
				s.mu.Lock()
				for _, client := range clientsToRemove {
					if _, ok := s.clients[client]; ok {
						delete(s.clients, client)
						client.Close()
					}
				}
				clientCount := len(s.clients)
				s.mu.Unlock()
				metrics.WebSocketClients.Set(float64(clientCount))
			}
		}
	}
}

// HandleConnection handles a WebSocket connection
func (s *Server) HandleConnection(w http.ResponseWriter, r *http.Request) {
	s.logger.Debug("Handling new WebSocket connection request",
		logger.String("remote_addr", r.RemoteAddr),
		logger.String("user_agent", r.UserAgent()))

	// Upgrade HTTP connection to WebSocket
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Error("Failed to upgrade connection",
			logger.Error(err),
			logger.String("remote_addr", r.RemoteAddr))
		return
	}

	client := &Client{
		conn:          conn,
		send:          make(chan *Message, 256),
		server:        s,
		closeChan:     make(chan struct{}),
		subscriptions: Subscriptions{Sites: true},
	}

	// Register client
	select {
	case s.register <- client:
	case <-s.done:
		conn.Close()
		return
	}

	// Start client goroutines
	go client.readPump()
	go client.writePump()
}

// Broadcast sends a message to all subscribed clients
func (s *Server) Broadcast(message *Message) {
	s.logger.Debug("Broadcasting message", logger.String("message_type", message.Type))

	select {
	case s.broadcast <- message:
	case <-s.done:
	}
}

// readPump pumps messages from the WebSocket connection to the handler
func (c *Client) readPump() {
	defer func() {
		select {
		case c.server.unregister <- c:
		case <-c.server.done:
		}
		c.Close()
	}()

	c.conn.SetReadLimit(maxMessage)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, messageBytes, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure, websocket.CloseNormalClosure) {
				c.server.logger.Error("WebSocket read error", logger.Error(err))
			}
			return
		}

		var message Message
		if err := json.Unmarshal(messageBytes, &message); err != nil {
			c.server.logger.Warn("Failed to parse WebSocket message", logger.Error(err))
			c.SendError("malformed message")
			continue
		}

		c.server.logger.Debug("Received WebSocket message",
			logger.String("type", message.Type),
			logger.String("client", c.conn.RemoteAddr().String()))

		if message.Type == MessageTypeSubscribe {
			c.updateSubscriptions(message.Data)
			continue
		}

		// Handle message if handler is set
		if c.server.messageHandler != nil {
			if err := c.server.messageHandler.HandleMessage(c, message.Type, message.Data); err != nil {
				c.server.logger.Debug("Failed to handle WebSocket message",
					logger.Error(err),
					logger.String("type", message.Type))
				c.SendError(err.Error())
			}
		}
	}
}

// writePump pumps messages from the hub to the WebSocket connection
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Close()
		c.conn.Close()
	}()

	for {
		select {
		case message := <-c.send:
			data, err := json.Marshal(message)
			if err != nil {
				c.server.logger.Error("Failed to marshal message", logger.Error(err))
				continue
			}
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}

		case <-c.closeChan:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			c.conn.WriteMessage(websocket.CloseMessage, []byte{})
			return
		}
	}
}

// Close closes the client connection
func (c *Client) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return
	}

	c.closed = true
	// writePump sends the close frame and closes the connection
	close(c.closeChan)
}

// SendMessage sends a message to this specific client
func (c *Client) SendMessage(message *Message) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	// Check if client is closed
	if c.closed {
		return false
	}

	// Try to send message with non-blocking select
	select {
	case c.send <- message:
		return true
	default:
		// Channel is full, drop message
		return false
	}
}

// SendError sends an error message to this client
func (c *Client) SendError(reason string) bool {
	return c.SendMessage(&Message{
		Type: MessageTypeError,
		Data: map[string]any{"error": reason},
	})
}

// Subscriptions returns the client's current subscriptions
func (c *Client) Subscriptions() Subscriptions {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.subscriptions
}

func (c *Client) updateSubscriptions(data map[string]any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if sites, ok := data["sites"].(bool); ok {
		c.subscriptions.Sites = sites
	}
}

// shouldSendToClient determines if a broadcast should reach a client
func (s *Server) shouldSendToClient(client *Client, message *Message) bool {
	switch message.Type {
	case MessageTypeSiteAdded, MessageTypeSiteRemoved:
		return client.Subscriptions().Sites
	default:
		return true
	}
}
