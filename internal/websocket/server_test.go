package websocket

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/yegors/co-mag/pkg/logger"
)

type echoHandler struct{}

func (echoHandler) HandleMessage(client *Client, messageType string, data map[string]any) error {
	client.SendMessage(&Message{Type: "echo", Data: map[string]any{"type": messageType}})
	return nil
}

func startServer(t *testing.T) (*Server, *websocket.Conn) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	s := NewServer(logger.NewNop())
	s.SetMessageHandler(echoHandler{})
	go s.Run(ctx)

	srv := httptest.NewServer(http.HandlerFunc(s.HandleConnection))
	t.Cleanup(func() {
		cancel()
		srv.Close()
	})

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("Dial: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	deadline := time.Now().Add(2 * time.Second)
	for s.ClientCount() != 1 {
		if time.Now().After(deadline) {
			t.Fatal("client never registered")
		}
		time.Sleep(5 * time.Millisecond)
	}
	return s, conn
}

func readMessage(t *testing.T, conn *websocket.Conn) Message {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var m Message
	if err := conn.ReadJSON(&m); err != nil {
		t.Fatalf("ReadJSON: %v", err)
	}
	return m
}

func TestBroadcastReachesClient(t *testing.T) {
	s, conn := startServer(t)

	s.Broadcast(&Message{Type: MessageTypeSiteAdded, Data: map[string]any{"name": "cyyz"}})
	m := readMessage(t, conn)
	if m.Type != MessageTypeSiteAdded || m.Data["name"] != "cyyz" {
		t.Errorf("message = %+v", m)
	}
}

func TestHandlerReplies(t *testing.T) {
	_, conn := startServer(t)

	if err := conn.WriteJSON(Message{Type: MessageTypePosition, Data: map[string]any{"lat": 1.0}}); err != nil {
		t.Fatalf("WriteJSON: %v", err)
	}
	m := readMessage(t, conn)
	if m.Type != "echo" || m.Data["type"] != MessageTypePosition {
		t.Errorf("reply = %+v", m)
	}

	if err := conn.WriteMessage(websocket.TextMessage, []byte("{not json")); err != nil {
		t.Fatalf("WriteMessage: %v", err)
	}
	if m := readMessage(t, conn); m.Type != MessageTypeError {
		t.Errorf("malformed reply = %+v", m)
	}
}

func TestUnsubscribedClientSkipsSiteEvents(t *testing.T) {
	s, conn := startServer(t)

	if err := conn.WriteJSON(Message{Type: MessageTypeSubscribe, Data: map[string]any{"sites": false}}); err != nil {
		t.Fatalf("WriteJSON: %v", err)
	}
	// A handled message after the subscribe proves it was processed
	if err := conn.WriteJSON(Message{Type: "ping"}); err != nil {
		t.Fatalf("WriteJSON: %v", err)
	}
	readMessage(t, conn)

	s.Broadcast(&Message{Type: MessageTypeSiteRemoved, Data: map[string]any{"name": "cyyz"}})
	s.Broadcast(&Message{Type: MessageTypeFieldUpdate, Data: map[string]any{"n": 1.0}})
	if m := readMessage(t, conn); m.Type != MessageTypeFieldUpdate {
		t.Errorf("received %s, want only the unfiltered message", m.Type)
	}
}
