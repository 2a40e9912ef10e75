package ws

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"wonder-electronics/internal/events"
)

// Message types pushed to connected browsers.
const (
	MessageTypeEntityChanged = "entity_changed"
	MessageTypeChatMessage   = "chat_message"
	MessageTypePing          = "ping"
	MessageTypePong          = "pong"
)

// Message is the envelope for everything sent over a socket.
type Message struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

// Hub fans events out to connected clients. The storefront uses it to
// refresh product listings and the cart badge when the admin changes
// something; the admin console uses it for live chat and new-order
// notifications.
type Hub struct {
	clients    map[*Client]bool
	broadcast  chan Message
	register   chan *Client
	unregister chan *Client
	bus        *events.Bus
	logger     *zap.Logger
	mu         sync.RWMutex
}

// NewHub creates a Hub wired to the event bus.
func NewHub(bus *events.Bus, logger *zap.Logger) *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		broadcast:  make(chan Message, 256),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		bus:        bus,
		logger:     logger,
	}
}

// Run pumps bus events and broadcasts to clients until the context is
// canceled. Chat events get their own message type so the frontends can
// route them to the chat widget instead of a generic refresh.
func (h *Hub) Run(ctx context.Context) {
	busCh, cancel := h.bus.Subscribe()
	defer cancel()

	for {
		select {
		case <-ctx.Done():
			h.closeAll()
			return

		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			total := len(h.clients)
			h.mu.Unlock()
			h.logger.Debug("websocket client connected", zap.Int("total_clients", total))

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
			}
			total := len(h.clients)
			h.mu.Unlock()
			h.logger.Debug("websocket client disconnected", zap.Int("total_clients", total))

		case event := <-busCh:
			msgType := MessageTypeEntityChanged
			if event.Entity == events.EntityChatMessage {
				msgType = MessageTypeChatMessage
			}
			h.send(Message{Type: msgType, Data: event})

		case message := <-h.broadcast:
			h.send(message)
		}
	}
}

// Broadcast queues a message for all clients, dropping it if the hub is
// backed up.
func (h *Hub) Broadcast(msgType string, data interface{}) {
	select {
	case h.broadcast <- Message{Type: msgType, Data: data}:
	default:
		h.logger.Warn("broadcast channel full, dropping message", zap.String("type", msgType))
	}
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

func (h *Hub) send(message Message) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for client := range h.clients {
		select {
		case client.send <- message:
		default:
			// Slow consumer, drop it.
			close(client.send)
			delete(h.clients, client)
		}
	}
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for client := range h.clients {
		close(client.send)
		delete(h.clients, client)
	}
	h.logger.Info("closed all websocket clients during shutdown")
}
