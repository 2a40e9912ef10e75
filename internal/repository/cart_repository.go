package repository

import (
	"context"
	"fmt"
	"sync"

	json "github.com/goccy/go-json"

	"wonder-electronics/internal/domain"
	"wonder-electronics/internal/events"
	"wonder-electronics/internal/store"
)

// CartRepository stores one cart per owner (authenticated user id or
// guest id). The cart is reloaded from the store at the start of every
// operation; nothing is cached between calls.
type CartRepository interface {
	Get(ctx context.Context, owner string) ([]domain.CartLine, error)
	Save(ctx context.Context, owner string, lines []domain.CartLine) error
	Clear(ctx context.Context, owner string) error
}

type cartRepository struct {
	store store.Store
	bus   *events.Bus
	mu    sync.Mutex
}

// NewCartRepository creates a new instance of CartRepository.
func NewCartRepository(s store.Store, bus *events.Bus) CartRepository {
	return &cartRepository{store: s, bus: bus}
}

func cartKey(owner string) string {
	return slotCartPrefix + owner
}

func (r *cartRepository) Get(ctx context.Context, owner string) ([]domain.CartLine, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	raw, err := r.store.Get(ctx, cartKey(owner))
	if err != nil {
		if err == store.ErrKeyNotFound {
			return []domain.CartLine{}, nil
		}
		return nil, fmt.Errorf("failed to load cart for %q: %w", owner, err)
	}

	var lines []domain.CartLine
	if err := json.Unmarshal(raw, &lines); err != nil {
		// Corrupt cart content degrades to an empty cart.
		return []domain.CartLine{}, nil
	}
	return lines, nil
}

func (r *cartRepository) Save(ctx context.Context, owner string, lines []domain.CartLine) error {
	r.mu.Lock()
	err := r.saveLocked(ctx, owner, lines)
	r.mu.Unlock()
	if err != nil {
		return err
	}
	r.bus.Publish(events.Event{Entity: events.EntityCart, Action: events.ActionUpdated, ID: owner})
	return nil
}

func (r *cartRepository) saveLocked(ctx context.Context, owner string, lines []domain.CartLine) error {
	raw, err := json.Marshal(lines)
	if err != nil {
		return fmt.Errorf("failed to serialize cart for %q: %w", owner, err)
	}
	if err := r.store.Set(ctx, cartKey(owner), raw); err != nil {
		return fmt.Errorf("failed to persist cart for %q: %w", owner, err)
	}
	return nil
}

func (r *cartRepository) Clear(ctx context.Context, owner string) error {
	r.mu.Lock()
	err := r.store.Delete(ctx, cartKey(owner))
	r.mu.Unlock()
	if err != nil {
		return fmt.Errorf("failed to clear cart for %q: %w", owner, err)
	}
	r.bus.Publish(events.Event{Entity: events.EntityCart, Action: events.ActionDeleted, ID: owner})
	return nil
}
