package ws

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"wonder-electronics/internal/events"
)

func dialTestHub(t *testing.T) (*Hub, *events.Bus, *websocket.Conn) {
	t.Helper()

	bus := events.NewBus()
	hub := NewHub(bus, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go hub.Run(ctx)

	srv := httptest.NewServer(ServeWS(hub, zap.NewNop()))
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dialing websocket: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	// Wait for the hub to register the connection.
	deadline := time.Now().Add(2 * time.Second)
	for hub.ClientCount() == 0 {
		if time.Now().After(deadline) {
			t.Fatal("client never registered with the hub")
		}
		time.Sleep(10 * time.Millisecond)
	}
	return hub, bus, conn
}

func readMessage(t *testing.T, conn *websocket.Conn) Message {
	t.Helper()
	if err := conn.SetReadDeadline(time.Now().Add(2 * time.Second)); err != nil {
		t.Fatalf("setting read deadline: %v", err)
	}
	var msg Message
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatalf("reading message: %v", err)
	}
	return msg
}

func TestHubForwardsBusEvents(t *testing.T) {
	_, bus, conn := dialTestHub(t)

	bus.Publish(events.Event{Entity: events.EntityProduct, Action: events.ActionUpdated, ID: "p1"})

	msg := readMessage(t, conn)
	if msg.Type != MessageTypeEntityChanged {
		t.Errorf("message type %q, want %q", msg.Type, MessageTypeEntityChanged)
	}
}

func TestHubRoutesChatEvents(t *testing.T) {
	_, bus, conn := dialTestHub(t)

	bus.Publish(events.Event{Entity: events.EntityChatMessage, Action: events.ActionCreated})

	msg := readMessage(t, conn)
	if msg.Type != MessageTypeChatMessage {
		t.Errorf("message type %q, want %q", msg.Type, MessageTypeChatMessage)
	}
}

func TestHubBroadcast(t *testing.T) {
	hub, _, conn := dialTestHub(t)

	hub.Broadcast(MessageTypeEntityChanged, map[string]string{"entity": "order"})

	msg := readMessage(t, conn)
	if msg.Type != MessageTypeEntityChanged {
		t.Errorf("message type %q, want %q", msg.Type, MessageTypeEntityChanged)
	}
}

func TestClientPingGetsPong(t *testing.T) {
	_, _, conn := dialTestHub(t)

	if err := conn.WriteJSON(Message{Type: MessageTypePing}); err != nil {
		t.Fatalf("writing ping: %v", err)
	}

	msg := readMessage(t, conn)
	if msg.Type != MessageTypePong {
		t.Errorf("message type %q, want %q", msg.Type, MessageTypePong)
	}
}
