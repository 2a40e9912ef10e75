// Package events carries change notifications from the repositories to
// anything that renders state: every mutation publishes an event instead
// of each command handler remembering which views to refresh.
package events

import "sync"

// Actions.
const (
	ActionCreated = "created"
	ActionUpdated = "updated"
	ActionDeleted = "deleted"
)

// Entities.
const (
	EntityProduct      = "product"
	EntityCategory     = "category"
	EntityUser         = "user"
	EntityOrder        = "order"
	EntityResetRequest = "reset_request"
	EntitySlide        = "slide"
	EntityChatMessage  = "chat_message"
	EntitySettings     = "settings"
	EntityCart         = "cart"
)

// Event describes one completed mutation.
type Event struct {
	Entity  string      `json:"entity"`
	Action  string      `json:"action"`
	ID      string      `json:"id,omitempty"`
	Payload interface{} `json:"payload,omitempty"`
}

// Bus is a minimal in-process pub/sub. Publish never blocks: subscribers
// with full channels miss the event rather than stalling the mutation
// path.
type Bus struct {
	mu   sync.RWMutex
	subs map[int]chan Event
	next int
}

// NewBus creates an empty bus.
func NewBus() *Bus {
	return &Bus{subs: make(map[int]chan Event)}
}

// Subscribe registers a buffered channel receiving all future events.
// The returned cancel function removes the subscription and closes the
// channel.
func (b *Bus) Subscribe() (<-chan Event, func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := b.next
	b.next++
	ch := make(chan Event, 64)
	b.subs[id] = ch

	cancel := func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		if sub, ok := b.subs[id]; ok {
			delete(b.subs, id)
			close(sub)
		}
	}
	return ch, cancel
}

// Publish fans the event out to every subscriber.
func (b *Bus) Publish(event Event) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for _, ch := range b.subs {
		select {
		case ch <- event:
		default:
		}
	}
}
