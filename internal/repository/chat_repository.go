package repository

import (
	"context"

	"wonder-electronics/internal/domain"
	"wonder-electronics/internal/events"
	"wonder-electronics/internal/store"
)

// ChatRepository defines the interface for chat message data access.
// Messages are append-only; sessions are derived by the service on read.
type ChatRepository interface {
	List(ctx context.Context) ([]domain.ChatMessage, error)
	Append(ctx context.Context, message domain.ChatMessage) error
}

type chatRepository struct {
	slot *slot[domain.ChatMessage]
	bus  *events.Bus
}

// NewChatRepository creates a new instance of ChatRepository.
func NewChatRepository(s store.Store, bus *events.Bus) ChatRepository {
	return &chatRepository{
		slot: newSlot[domain.ChatMessage](s, slotChatMessages, nil),
		bus:  bus,
	}
}

func (r *chatRepository) List(ctx context.Context) ([]domain.ChatMessage, error) {
	return r.slot.read(ctx)
}

func (r *chatRepository) Append(ctx context.Context, message domain.ChatMessage) error {
	err := r.slot.mutate(ctx, func(messages []domain.ChatMessage) ([]domain.ChatMessage, error) {
		return append(messages, message), nil
	})
	if err != nil {
		return err
	}
	r.bus.Publish(events.Event{
		Entity:  events.EntityChatMessage,
		Action:  events.ActionCreated,
		ID:      message.UserID,
		Payload: message,
	})
	return nil
}
