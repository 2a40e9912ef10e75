package repository

import (
	"context"
	"fmt"
	"sync"

	json "github.com/goccy/go-json"

	"wonder-electronics/internal/store"
)

// Slot names inside the store.
const (
	slotProducts      = "products"
	slotCategories    = "categories"
	slotUsers         = "users"
	slotOrders        = "orders"
	slotResetRequests = "reset_requests"
	slotSlides        = "slides"
	slotChatMessages  = "chat_messages"
	slotRefreshTokens = "refresh_tokens"
	slotSettings      = "settings"
	slotCartPrefix    = "cart:"
)

// slot owns one named record sequence in the store. Every operation is a
// synchronous read-modify-write of the whole sequence under the mutex;
// the store is the sole source of truth between operations. A missing or
// unparseable slot silently falls back to the seed, which is persisted
// immediately.
type slot[T any] struct {
	store store.Store
	key   string
	seed  func() []T
	mu    sync.Mutex
}

func newSlot[T any](s store.Store, key string, seed func() []T) *slot[T] {
	if seed == nil {
		seed = func() []T { return []T{} }
	}
	return &slot[T]{store: s, key: key, seed: seed}
}

func (s *slot[T]) loadLocked(ctx context.Context) ([]T, error) {
	raw, err := s.store.Get(ctx, s.key)
	if err != nil {
		if err == store.ErrKeyNotFound {
			return s.seedLocked(ctx)
		}
		return nil, fmt.Errorf("failed to load slot %q: %w", s.key, err)
	}

	var records []T
	if err := json.Unmarshal(raw, &records); err != nil {
		// Unparseable content degrades to the default set.
		return s.seedLocked(ctx)
	}
	return records, nil
}

func (s *slot[T]) seedLocked(ctx context.Context) ([]T, error) {
	records := s.seed()
	if err := s.persistLocked(ctx, records); err != nil {
		return nil, err
	}
	return records, nil
}

func (s *slot[T]) persistLocked(ctx context.Context, records []T) error {
	raw, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("failed to serialize slot %q: %w", s.key, err)
	}
	if err := s.store.Set(ctx, s.key, raw); err != nil {
		return fmt.Errorf("failed to persist slot %q: %w", s.key, err)
	}
	return nil
}

// read returns the current sequence.
func (s *slot[T]) read(ctx context.Context) ([]T, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadLocked(ctx)
}

// mutate loads the sequence, applies fn and persists the result. If fn
// returns an error nothing is written; the operation either applies fully
// or rejects with no state change.
func (s *slot[T]) mutate(ctx context.Context, fn func([]T) ([]T, error)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.loadLocked(ctx)
	if err != nil {
		return err
	}
	updated, err := fn(records)
	if err != nil {
		return err
	}
	return s.persistLocked(ctx, updated)
}
